package progress

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgress_Update(t *testing.T) {
	tracker := New("run-1")
	var seen []int
	tracker.OnChange(func(p Progress) { seen = append(seen, p.Live) })

	tracker.Update(Delta{Spawned: 1, Live: 1})
	tracker.Update(Delta{Spawned: 1, Live: 1})
	tracker.Update(Delta{Killed: 1, Live: -1})

	snapshot := tracker.Snapshot()
	assert.Equal(t, "run-1", snapshot.RunID)
	assert.Equal(t, 2, snapshot.Spawned)
	assert.Equal(t, 1, snapshot.Killed)
	assert.Equal(t, 1, snapshot.Live)
	assert.Equal(t, []int{1, 2, 1}, seen)
}

func TestProgress_Nil(t *testing.T) {
	var tracker *Progress
	tracker.Update(Delta{Spawned: 1})
	tracker.OnChange(nil)
	assert.Equal(t, 0, tracker.Snapshot().Spawned)
}

func TestUpdateCtx(t *testing.T) {
	UpdateCtx(context.Background(), Delta{Switches: 1})

	tracker := New("run-2")
	ctx := WithTracker(context.Background(), tracker)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			UpdateCtx(ctx, Delta{Switches: 1, Requests: 2})
		}()
	}
	wg.Wait()
	actual, ok := FromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, 20, actual.Snapshot().Switches)
	assert.Equal(t, 40, actual.Snapshot().Requests)
}
