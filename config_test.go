package rotor_test

import (
	"context"
	"embed"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "github.com/viant/afs/embed"
	"github.com/viant/rotor"
)

//go:embed testdata/*
var embedFS embed.FS

func TestLoadConfig(t *testing.T) {
	var testCases = []struct {
		description string
		URL         string
		expect      *rotor.Config
		expectErr   string
	}{
		{
			description: "yaml",
			URL:         "embed:///testdata/rotor.yaml",
			expect:      &rotor.Config{Quantum: "500ms", Tasks: []string{"sleep 30", "yes"}, QueueBuffer: 64},
		},
		{
			description: "toml keeps defaults",
			URL:         "embed:///testdata/rotor.toml",
			expect:      &rotor.Config{Quantum: "1s", Tasks: []string{"sleep 10"}, Exits: "mem://localhost/rotor/exits", QueueBuffer: 1024},
		},
		{
			description: "invalid",
			URL:         "embed:///testdata/invalid.yaml",
			expectErr:   "invalid quantum",
		},
		{
			description: "missing",
			URL:         "embed:///testdata/missing.yaml",
			expectErr:   "failed to load config",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			actual, err := rotor.LoadConfig(context.Background(), testCase.URL, &embedFS)
			if testCase.expectErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), testCase.expectErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testCase.expect, actual)
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	var testCases = []struct {
		description string
		config      *rotor.Config
		expectErr   []string
	}{
		{description: "defaults", config: rotor.DefaultConfig()},
		{description: "zero quantum", config: &rotor.Config{Quantum: "0s"}, expectErr: []string{"quantum must be > 0"}},
		{description: "aggregated", config: &rotor.Config{Quantum: "x", QueueBuffer: -1, Tasks: []string{" "}},
			expectErr: []string{"invalid quantum", "queueBuffer must be >= 0", "tasks[0] is empty"}},
	}

	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			err := testCase.config.Validate()
			if len(testCase.expectErr) == 0 {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			for _, expect := range testCase.expectErr {
				assert.Contains(t, err.Error(), expect)
			}
		})
	}
}

func TestConfig_QuantumDuration(t *testing.T) {
	quantum, err := rotor.DefaultConfig().QuantumDuration()
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, quantum)
}

func TestLoadConfig_EnvExpansion(t *testing.T) {
	t.Setenv("ROTOR_TEST_QUANTUM", "250ms")
	t.Setenv("ROTOR_TEST_TASK", "sleep")
	actual, err := rotor.LoadConfig(context.Background(), "embed:///testdata/env.yaml", &embedFS)
	require.NoError(t, err)
	assert.Equal(t, "250ms", actual.Quantum)
	assert.Equal(t, []string{"sleep 5"}, actual.Tasks)
}
