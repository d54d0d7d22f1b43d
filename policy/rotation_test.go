package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/rotor/model"
)

func newRegistry(names ...string) *model.Registry {
	registry := model.NewRegistry()
	for i, name := range names {
		registry.Insert(model.NewTask(model.Handle(10+i), name))
	}
	return registry
}

func elevate(registry *model.Registry, ids ...int) {
	for _, id := range ids {
		registry.FindByID(id).Priority = model.PriorityElevated
	}
}

// rotate simulates n consecutive quantum expirations starting with the head running.
func rotate(registry *model.Registry, n int) []string {
	current := registry.Head()
	order := []string{current.Name}
	for i := 0; i < n; i++ {
		current = Next(registry, current)
		order = append(order, current.Name)
	}
	return order
}

func TestNext(t *testing.T) {
	var testCases = []struct {
		description string
		names       []string
		elevated    []int
		anchor      int
		expect      string
	}{
		{description: "round robin", names: []string{"a", "b", "c"}, anchor: 1, expect: "b"},
		{description: "round robin wraps", names: []string{"a", "b", "c"}, anchor: 3, expect: "a"},
		{description: "single task", names: []string{"a"}, anchor: 1, expect: "a"},
		{description: "elevated successor skips normal", names: []string{"a", "b", "c"}, elevated: []int{3}, anchor: 1, expect: "c"},
		{description: "elevated wraps around", names: []string{"a", "b", "c"}, elevated: []int{1}, anchor: 2, expect: "a"},
		{description: "only elevated runs again", names: []string{"a", "b", "c"}, elevated: []int{2}, anchor: 2, expect: "b"},
		{description: "two elevated alternate", names: []string{"a", "b", "c", "d"}, elevated: []int{2, 4}, anchor: 2, expect: "d"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			registry := newRegistry(testCase.names...)
			elevate(registry, testCase.elevated...)
			actual := Next(registry, registry.FindByID(testCase.anchor))
			assert.Equal(t, testCase.expect, actual.Name)
		})
	}
}

func TestNext_RoundRobinOrder(t *testing.T) {
	registry := newRegistry("a", "b", "c")
	assert.Equal(t, []string{"a", "b", "c", "a", "b", "c", "a"}, rotate(registry, 6))
}

func TestNext_ElevatedBeforeNormalTurn(t *testing.T) {
	registry := newRegistry("a", "b", "c", "d")
	elevate(registry, 2, 4)
	order := rotate(registry, 8)
	assert.Equal(t, []string{"a", "b", "d", "b", "d", "b", "d", "b", "d"}, order)

	elevated := map[string]bool{"b": true, "d": true}
	last := -1
	for i, name := range order {
		if elevated[name] {
			continue
		}
		if last >= 0 {
			seen := map[string]bool{}
			for _, between := range order[last+1 : i] {
				seen[between] = true
			}
			assert.Len(t, seen, len(elevated))
		}
		last = i
	}
}

func TestNext_LoweredTaskRejoinsRotation(t *testing.T) {
	registry := newRegistry("a", "b", "c")
	elevate(registry, 2)
	assert.Equal(t, "b", Next(registry, registry.FindByID(1)).Name)
	registry.FindByID(2).Priority = model.PriorityNormal
	assert.Equal(t, "c", Next(registry, registry.FindByID(2)).Name)
}

func TestNextAfterExit(t *testing.T) {
	var testCases = []struct {
		description string
		names       []string
		elevated    []int
		exited      int
		expect      string
	}{
		{description: "anchor moves to successor", names: []string{"a", "b", "c"}, exited: 1, expect: "c"},
		{description: "middle exit wraps to head", names: []string{"a", "b", "c"}, exited: 2, expect: "a"},
		{description: "tail exit skips head", names: []string{"a", "b", "c"}, exited: 3, expect: "b"},
		{description: "elevated successor is last candidate", names: []string{"a", "b", "c"}, elevated: []int{2}, exited: 1, expect: "b"},
		{description: "elevated after successor", names: []string{"a", "b", "c", "d"}, elevated: []int{4}, exited: 1, expect: "d"},
		{description: "elevated successor loses to later elevated", names: []string{"a", "b", "c", "d"}, elevated: []int{2, 4}, exited: 1, expect: "d"},
		{description: "two left", names: []string{"a", "b"}, exited: 2, expect: "a"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			registry := newRegistry(testCase.names...)
			elevate(registry, testCase.elevated...)
			exited := registry.FindByID(testCase.exited)
			successor := exited.Next()
			registry.Remove(exited)
			actual := NextAfterExit(registry, successor)
			assert.Equal(t, testCase.expect, actual.Name)
		})
	}
}
