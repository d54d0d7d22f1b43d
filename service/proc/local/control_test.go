//go:build linux

package local

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/rotor/model"
	"github.com/viant/rotor/service/proc"
)

func TestMain(m *testing.M) {
	if IsTrampoline() {
		Trampoline()
	}
	os.Exit(m.Run())
}

func nextChange(t *testing.T, control *Control, handle model.Handle) proc.Change {
	t.Helper()
	timeout := time.After(10 * time.Second)
	for {
		select {
		case change, ok := <-control.Changes():
			require.True(t, ok, "changes closed: %v", control.Err())
			if change.Handle == handle {
				return change
			}
		case <-timeout:
			t.Fatalf("no change observed for %v", handle)
		}
	}
}

func TestControl_SpawnResumeExit(t *testing.T) {
	control, err := New()
	require.NoError(t, err)
	defer control.Close()

	handle, err := control.Spawn(context.Background(), "true")
	require.NoError(t, err)
	assert.Greater(t, int(handle), 0)

	require.NoError(t, control.Resume(handle))
	change := nextChange(t, control, handle)
	assert.Equal(t, proc.Exited, change.Kind)
	assert.Equal(t, 0, change.ExitCode)

	err = control.Resume(handle)
	assert.ErrorIs(t, err, proc.ErrExited)
}

func TestControl_PauseTerminate(t *testing.T) {
	control, err := New()
	require.NoError(t, err)
	defer control.Close()

	handle, err := control.Spawn(context.Background(), "sleep", "30")
	require.NoError(t, err)

	require.NoError(t, control.Resume(handle))
	require.NoError(t, control.Pause(handle))
	change := nextChange(t, control, handle)
	assert.Equal(t, proc.Stopped, change.Kind)

	require.NoError(t, control.Terminate(handle))
	change = nextChange(t, control, handle)
	assert.Equal(t, proc.Exited, change.Kind)
	assert.Equal(t, 9, change.Signal)
}

func TestControl_ExecFailureIsChildOnly(t *testing.T) {
	control, err := New()
	require.NoError(t, err)
	defer control.Close()

	handle, err := control.Spawn(context.Background(), "/nonexistent/rotor-task")
	require.NoError(t, err)
	require.NoError(t, control.Resume(handle))
	change := nextChange(t, control, handle)
	assert.Equal(t, proc.Exited, change.Kind)
	assert.Equal(t, exitExecFailed, change.ExitCode)
}

func TestControl_UnknownHandle(t *testing.T) {
	control, err := New()
	require.NoError(t, err)
	defer control.Close()
	assert.ErrorIs(t, control.Pause(model.Handle(1)), proc.ErrUnknownHandle)
}
