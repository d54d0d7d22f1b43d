package policy

import "github.com/viant/rotor/model"

// Next returns the task to resume after anchor paused.
// The search covers anchor.Next() through anchor itself, in traversal order.
func Next(registry *model.Registry, anchor *model.Task) *model.Task {
	if anchor == nil {
		return registry.Head()
	}
	if !registry.HasElevated() {
		return anchor.Next()
	}
	if candidate := nextElevated(anchor.Next(), registry.Len()); candidate != nil {
		return candidate
	}
	return anchor.Next()
}

// NextAfterExit returns the task to resume after the running task exited.
// successor is the exited task's former successor, already relinked into the
// ring; it takes the exited task's place as anchor, so it is the last
// candidate of the search.
func NextAfterExit(registry *model.Registry, successor *model.Task) *model.Task {
	return Next(registry, successor)
}

// nextElevated scans at most n tasks starting at from.
func nextElevated(from *model.Task, n int) *model.Task {
	current := from
	for i := 0; i < n && current != nil; i++ {
		if current.IsElevated() {
			return current
		}
		current = current.Next()
	}
	return nil
}
