package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/option"
	"github.com/viant/afs/storage"
	"github.com/viant/afs/url"
	"github.com/viant/rotor/internal/idgen"
	"github.com/viant/rotor/service/messaging"
)

// MessageState represents the state of a journal entry
type MessageState string

const (
	// MessageStatePending indicates an entry waiting to be consumed
	MessageStatePending MessageState = "pending"

	// MessageStateCompleted indicates an entry that was consumed and acknowledged
	MessageStateCompleted MessageState = "completed"

	// MessageStateFailed indicates an entry that could not be handled
	MessageStateFailed MessageState = "failed"
)

const fileExt = ".json"

// Message implements messaging.Message for the filesystem journal
type Message[T any] struct {
	ID        string       `json:"id"`
	Seq       uint64       `json:"seq"`
	Data      T            `json:"data"`
	State     MessageState `json:"state"`
	Error     string       `json:"error,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
	Retries   int          `json:"retries"`

	name      string
	queue     *Queue[T]
	processed bool
	mu        sync.Mutex
}

// T returns the message payload
func (m *Message[T]) T() *T {
	return &m.Data
}

// Ack moves the entry to the completed directory
func (m *Message[T]) Ack() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.processed {
		return fmt.Errorf("message already processed")
	}
	m.processed = true
	m.State = MessageStateCompleted
	m.UpdatedAt = time.Now()
	return m.queue.settle(context.Background(), m, m.queue.completedDir)
}

// Nack puts the entry back to pending, or to failed once retries are exhausted
func (m *Message[T]) Nack(err error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.processed {
		return fmt.Errorf("message already processed")
	}
	m.processed = true
	if err != nil {
		m.Error = err.Error()
	}
	m.Retries++
	m.UpdatedAt = time.Now()
	if m.Retries > m.queue.config.MaxRetries {
		m.State = MessageStateFailed
		return m.queue.settle(context.Background(), m, m.queue.failedDir)
	}
	m.State = MessageStatePending
	return m.queue.settle(context.Background(), m, m.queue.pendingDir)
}

// QueueConfig holds configuration for filesystem journal
type QueueConfig struct {
	BasePath     string        `yaml:"basePath" json:"basePath"`
	MaxRetries   int           `yaml:"maxRetries" json:"maxRetries"`
	PollInterval time.Duration `yaml:"pollInterval" json:"pollInterval"`
}

// DefaultConfig returns a default journal configuration
func DefaultConfig() QueueConfig {
	return QueueConfig{
		BasePath:     "/tmp/rotor/journal",
		MaxRetries:   3,
		PollInterval: 50 * time.Millisecond,
	}
}

// Queue implements an append ordered, afs backed messaging.Queue.
//
// Entries are named after a per process sequence so that listing the pending
// directory yields publish order.
type Queue[T any] struct {
	fs           afs.Service
	config       QueueConfig
	pendingDir   string
	completedDir string
	failedDir    string
	mu           sync.Mutex
	seq          uint64
	epoch        int64
}

// NewQueue creates a new filesystem journal
func NewQueue[T any](fs afs.Service, config QueueConfig) (*Queue[T], error) {
	if config.BasePath == "" {
		return nil, fmt.Errorf("base path cannot be empty")
	}
	if config.PollInterval <= 0 {
		config.PollInterval = DefaultConfig().PollInterval
	}
	q := &Queue[T]{
		fs:           fs,
		config:       config,
		pendingDir:   url.Join(config.BasePath, string(MessageStatePending)),
		completedDir: url.Join(config.BasePath, string(MessageStateCompleted)),
		failedDir:    url.Join(config.BasePath, string(MessageStateFailed)),
		epoch:        time.Now().UnixNano(),
	}
	ctx := context.Background()
	for _, dir := range []string{q.pendingDir, q.completedDir, q.failedDir} {
		exists, _ := fs.Exists(ctx, dir)
		if !exists {
			if err := fs.Create(ctx, dir, file.DefaultDirOsMode, true); err != nil {
				return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
			}
		}
	}
	return q, nil
}

// Publish appends a new entry to the journal
func (q *Queue[T]) Publish(ctx context.Context, t *T) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.seq++
	now := time.Now()
	message := &Message[T]{
		ID:        idgen.New(),
		Seq:       q.seq,
		Data:      *t,
		State:     MessageStatePending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	message.name = q.filename(message)
	return q.write(ctx, url.Join(q.pendingDir, message.name), message)
}

// Consume blocks until an entry is pending or ctx is done
func (q *Queue[T]) Consume(ctx context.Context) (messaging.Message[T], error) {
	ticker := time.NewTicker(q.config.PollInterval)
	defer ticker.Stop()
	for {
		msg, err := q.Poll(ctx)
		if err != nil || msg != nil {
			return msg, err
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

// Poll takes the oldest pending entry, it returns nil when none is pending
func (q *Queue[T]) Poll(ctx context.Context) (messaging.Message[T], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	pending, err := q.list(ctx, q.pendingDir)
	if err != nil {
		return nil, err
	}
	if len(pending) == 0 {
		return nil, nil
	}
	obj := pending[0]
	message, err := q.read(ctx, obj.URL())
	if err != nil {
		_ = q.fs.Move(ctx, obj.URL(), url.Join(q.failedDir, "invalid-"+obj.Name()))
		return nil, err
	}
	message.name = obj.Name()
	message.queue = q
	if err := q.fs.Delete(ctx, obj.URL()); err != nil {
		return nil, fmt.Errorf("failed to delete pending entry %s: %w", obj.Name(), err)
	}
	return message, nil
}

// Size returns the number of pending entries
func (q *Queue[T]) Size(ctx context.Context) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	pending, err := q.list(ctx, q.pendingDir)
	return len(pending), err
}

// Completed returns acknowledged entries in publish order
func (q *Queue[T]) Completed(ctx context.Context) ([]*T, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	objects, err := q.list(ctx, q.completedDir)
	if err != nil {
		return nil, err
	}
	var result []*T
	for _, obj := range objects {
		message, err := q.read(ctx, obj.URL())
		if err != nil {
			return nil, err
		}
		result = append(result, &message.Data)
	}
	return result, nil
}

func (q *Queue[T]) settle(ctx context.Context, m *Message[T], dir string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.write(ctx, url.Join(dir, m.name), m)
}

func (q *Queue[T]) filename(m *Message[T]) string {
	return fmt.Sprintf("%020d-%010d-%s%s", q.epoch, m.Seq, m.ID, fileExt)
}

func (q *Queue[T]) list(ctx context.Context, dir string) ([]storage.Object, error) {
	objects, err := q.fs.List(ctx, dir, option.NewRecursive(false))
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}
	var result []storage.Object
	for _, obj := range objects {
		if !obj.IsDir() && strings.HasSuffix(obj.Name(), fileExt) {
			result = append(result, obj)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name() < result[j].Name() })
	return result, nil
}

func (q *Queue[T]) write(ctx context.Context, URL string, m *Message[T]) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}
	if err = q.fs.Upload(ctx, URL, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write %s: %w", URL, err)
	}
	return nil
}

func (q *Queue[T]) read(ctx context.Context, URL string) (*Message[T], error) {
	data, err := q.fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to read message %s: %w", URL, err)
	}
	var message Message[T]
	if err := json.Unmarshal(data, &message); err != nil {
		return nil, fmt.Errorf("failed to unmarshal message %s: %w", URL, err)
	}
	return &message, nil
}

// ensure Queue implements messaging.Queue interface
var _ messaging.Queue[any] = (*Queue[any])(nil)
