package rotor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/rotor/internal/envexpr"
	"gopkg.in/yaml.v3"
)

// Config is a serialisable representation of the scheduler configuration.
type Config struct {
	// Quantum is a time.ParseDuration literal
	Quantum string `json:"quantum" yaml:"quantum" toml:"quantum"`
	// Tasks are command lines started at boot, in order
	Tasks []string `json:"tasks" yaml:"tasks" toml:"tasks"`
	// Journal is an afs base URL; when set lifecycle events are journaled there
	Journal string `json:"journal,omitempty" yaml:"journal,omitempty" toml:"journal,omitempty"`
	// Exits is an afs base URL; when set exit records are stored there
	Exits string `json:"exits,omitempty" yaml:"exits,omitempty" toml:"exits,omitempty"`
	// Trace is a span output file, "-" means stdout
	Trace       string `json:"trace,omitempty" yaml:"trace,omitempty" toml:"trace,omitempty"`
	QueueBuffer int    `json:"queueBuffer" yaml:"queueBuffer" toml:"queueBuffer"`
}

// DefaultConfig returns a Config populated with default values.
func DefaultConfig() *Config {
	return &Config{
		Quantum:     "2s",
		QueueBuffer: 1024,
	}
}

// QuantumDuration returns the parsed quantum
func (c *Config) QuantumDuration() (time.Duration, error) {
	quantum, err := time.ParseDuration(c.Quantum)
	if err != nil {
		return 0, fmt.Errorf("invalid quantum %q: %w", c.Quantum, err)
	}
	return quantum, nil
}

// Validate returns aggregated error describing invalid settings or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	var problems []string
	if quantum, err := c.QuantumDuration(); err != nil {
		problems = append(problems, err.Error())
	} else if quantum <= 0 {
		problems = append(problems, "quantum must be > 0")
	}
	if c.QueueBuffer < 0 {
		problems = append(problems, "queueBuffer must be >= 0")
	}
	for i, task := range c.Tasks {
		if strings.TrimSpace(task) == "" {
			problems = append(problems, fmt.Sprintf("tasks[%d] is empty", i))
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// LoadConfig reads a YAML (or, for .toml URLs, TOML) config from any afs URL,
// values missing in the document keep their defaults. ${env.KEY} references
// are expanded before decoding.
func LoadConfig(ctx context.Context, URL string, options ...storage.Option) (*Config, error) {
	data, err := afs.New().DownloadWithURL(ctx, URL, options...)
	if err != nil {
		return nil, fmt.Errorf("failed to load config %v: %w", URL, err)
	}
	data = []byte(envexpr.ExpandEnv(string(data)))
	config := DefaultConfig()
	if strings.HasSuffix(strings.ToLower(URL), ".toml") {
		err = toml.Unmarshal(data, config)
	} else {
		err = yaml.Unmarshal(data, config)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode config %v: %w", URL, err)
	}
	if err = config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}
