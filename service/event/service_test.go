package event

import (
	"context"
	"path"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/rotor/model"
	"github.com/viant/rotor/service/messaging"
	"github.com/viant/rotor/service/messaging/fs"
)

func TestNew(t *testing.T) {
	var testCases = []struct {
		description string
		vendor      messaging.Vendor
		options     []Option
		expectErr   bool
	}{
		{description: "memory", vendor: messaging.VendorMemory},
		{description: "fs without config", vendor: messaging.VendorFs, expectErr: true},
		{description: "fs", vendor: messaging.VendorFs, options: []Option{WithNewFsQueueConfig(func(name string) fs.QueueConfig {
			return fs.QueueConfig{BasePath: path.Join(t.TempDir(), name)}
		})}},
		{description: "unknown vendor", vendor: "kafka", expectErr: true},
	}

	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			srv, err := New(testCase.vendor, testCase.options...)
			if testCase.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testCase.vendor, srv.Vendor())
		})
	}
}

func TestPublisherOf_Poll(t *testing.T) {
	srv, err := New(messaging.VendorMemory, WithRunID("run-1"))
	require.NoError(t, err)
	publisher, err := PublisherOf[model.Event](srv)
	require.NoError(t, err)
	same, err := PublisherOf[model.Event](srv)
	require.NoError(t, err)
	assert.Same(t, publisher, same)

	ctx := context.Background()
	task := model.NewTask(101, "worker")
	require.NoError(t, publisher.Publish(ctx, NewEvent(&Context{TaskID: 1, EventType: model.EventSpawned}, *model.NewEvent(model.EventSpawned, task))))

	event, err := publisher.Poll(ctx)
	require.NoError(t, err)
	require.NotNil(t, event)
	assert.Equal(t, "run-1", event.Context.RunID)
	assert.Equal(t, model.EventSpawned, event.Data.Type)
	assert.Equal(t, "worker", event.Data.Name)

	mirrored, err := srv.publisher.Poll(ctx)
	require.NoError(t, err)
	assert.Nil(t, mirrored, "no mirroring without an any listener")

	event, err = publisher.Poll(ctx)
	assert.NoError(t, err)
	assert.Nil(t, event)
}

func TestSetListenerOf(t *testing.T) {
	srv, err := New(messaging.VendorMemory)
	require.NoError(t, err)
	defer srv.Close()

	var mux sync.Mutex
	var received []string
	require.NoError(t, SetListenerOf[model.Event](srv, func(event *Event[model.Event]) {
		mux.Lock()
		defer mux.Unlock()
		received = append(received, event.Data.Type)
	}))

	publisher, err := PublisherOf[model.Event](srv)
	require.NoError(t, err)
	ctx := context.Background()
	for _, eventType := range []string{model.EventSpawned, model.EventResumed, model.EventPaused} {
		require.NoError(t, publisher.Publish(ctx, NewEvent(&Context{EventType: eventType}, model.Event{Type: eventType})))
	}

	assert.Eventually(t, func() bool {
		mux.Lock()
		defer mux.Unlock()
		return len(received) == 3
	}, time.Second, 5*time.Millisecond)
	mux.Lock()
	assert.Equal(t, []string{model.EventSpawned, model.EventResumed, model.EventPaused}, received)
	mux.Unlock()
}

func TestService_SetListener(t *testing.T) {
	srv, err := New(messaging.VendorMemory)
	require.NoError(t, err)
	defer srv.Close()

	received := make(chan *Event[any], 1)
	srv.SetListener(func(event *Event[any]) { received <- event })
	publisher, err := PublisherOf[model.Exit](srv)
	require.NoError(t, err)
	require.NoError(t, publisher.Publish(context.Background(), NewEvent(&Context{TaskID: 4, EventType: model.EventExited}, model.Exit{TaskID: 4, ExitCode: 3})))

	select {
	case event := <-received:
		assert.Equal(t, 4, event.Context.TaskID)
		exit, ok := event.Data.(model.Exit)
		require.True(t, ok)
		assert.Equal(t, 3, exit.ExitCode)
	case <-time.After(time.Second):
		t.Fatal("mirrored event not received")
	}
}
