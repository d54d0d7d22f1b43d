package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(names ...string) *Registry {
	registry := NewRegistry()
	for i, name := range names {
		registry.Insert(NewTask(Handle(100+i), name))
	}
	return registry
}

// assertRing checks that every task reaches itself after exactly Len steps in both directions.
func assertRing(t *testing.T, registry *Registry) {
	t.Helper()
	n := registry.Len()
	for _, task := range registry.Tasks() {
		forward, backward := task, task
		for i := 0; i < n; i++ {
			forward = forward.Next()
			backward = backward.Prev()
			if i < n-1 {
				assert.NotSame(t, task, forward, "premature forward return at step %d", i+1)
				assert.NotSame(t, task, backward, "premature backward return at step %d", i+1)
			}
		}
		assert.Same(t, task, forward)
		assert.Same(t, task, backward)
	}
	if n > 0 {
		assert.Same(t, registry.Head(), registry.Tail().Next())
		assert.Same(t, registry.Tail(), registry.Head().Prev())
	}
}

func TestRegistry_Insert(t *testing.T) {
	var testCases = []struct {
		description string
		names       []string
		expectIDs   []int
	}{
		{description: "empty", names: nil, expectIDs: []int{}},
		{description: "single", names: []string{"a"}, expectIDs: []int{1}},
		{description: "three", names: []string{"a", "b", "c"}, expectIDs: []int{1, 2, 3}},
	}

	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			registry := newTestRegistry(testCase.names...)
			assert.Equal(t, len(testCase.names), registry.Len())
			ids := []int{}
			for _, task := range registry.Tasks() {
				ids = append(ids, task.ID)
			}
			assert.Equal(t, testCase.expectIDs, ids)
			assertRing(t, registry)
		})
	}
}

func TestRegistry_Find(t *testing.T) {
	registry := newTestRegistry("a", "b", "c")

	task := registry.FindByID(2)
	require.NotNil(t, task)
	assert.Equal(t, "b", task.Name)

	task = registry.FindByHandle(Handle(102))
	require.NotNil(t, task)
	assert.Equal(t, 3, task.ID)

	assert.Nil(t, registry.FindByID(42))
	assert.Nil(t, registry.FindByHandle(Handle(42)))
	assert.Nil(t, NewRegistry().FindByID(1))
}

func TestRegistry_Remove(t *testing.T) {
	var testCases = []struct {
		description string
		remove      []int
		expectNames []string
		expectHead  string
		expectTail  string
	}{
		{description: "middle", remove: []int{2}, expectNames: []string{"a", "c"}, expectHead: "a", expectTail: "c"},
		{description: "head", remove: []int{1}, expectNames: []string{"b", "c"}, expectHead: "b", expectTail: "c"},
		{description: "tail", remove: []int{3}, expectNames: []string{"a", "b"}, expectHead: "a", expectTail: "b"},
		{description: "head then tail", remove: []int{1, 3}, expectNames: []string{"b"}, expectHead: "b", expectTail: "b"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			registry := newTestRegistry("a", "b", "c")
			for _, id := range testCase.remove {
				before := registry.Len()
				empty := registry.Remove(registry.FindByID(id))
				assert.False(t, empty)
				assert.Equal(t, before-1, registry.Len())
				assertRing(t, registry)
			}
			names := []string{}
			for _, task := range registry.Tasks() {
				names = append(names, task.Name)
			}
			assert.Equal(t, testCase.expectNames, names)
			assert.Equal(t, testCase.expectHead, registry.Head().Name)
			assert.Equal(t, testCase.expectTail, registry.Tail().Name)
		})
	}
}

func TestRegistry_RemoveLast(t *testing.T) {
	registry := newTestRegistry("a")
	assert.True(t, registry.Remove(registry.Head()))
	assert.True(t, registry.IsEmpty())
	assert.Equal(t, 0, registry.Len())
	assert.Empty(t, registry.Tasks())
}

func TestRegistry_IDsNeverReused(t *testing.T) {
	registry := newTestRegistry("a", "b")
	registry.Remove(registry.FindByID(2))
	task := registry.Insert(NewTask(Handle(500), "c"))
	assert.Equal(t, 3, task.ID)

	seen := map[int]bool{}
	for _, task := range registry.Tasks() {
		assert.False(t, seen[task.ID])
		seen[task.ID] = true
	}
}

func TestRegistry_RemoveDuringIteration(t *testing.T) {
	registry := newTestRegistry("a", "b", "c", "d")
	visited := []string{}
	registry.Each(func(task *Task) bool {
		visited = append(visited, task.Name)
		if task.ID%2 == 1 {
			registry.Remove(task)
		}
		return true
	})
	assert.Equal(t, []string{"a", "b", "c", "d"}, visited)
	assert.Equal(t, 2, registry.Len())
	assertRing(t, registry)
}

func TestRegistry_CountElevated(t *testing.T) {
	registry := newTestRegistry("a", "b", "c")
	assert.Equal(t, 0, registry.CountElevated())
	assert.False(t, registry.HasElevated())

	registry.FindByID(2).Priority = PriorityElevated
	registry.FindByID(3).Priority = PriorityElevated
	assert.Equal(t, 2, registry.CountElevated())

	registry.Remove(registry.FindByID(3))
	assert.Equal(t, 1, registry.CountElevated())
	assert.True(t, registry.HasElevated())
}
