package model

// Registry holds tasks in a circular doubly-linked list.
// Head is the first created task still alive; tail closes the circle back to head.
type Registry struct {
	head   *Task
	tail   *Task
	size   int
	nextID int
}

// NewRegistry creates an empty registry; the first inserted task gets ID 1.
func NewRegistry() *Registry {
	return &Registry{nextID: 1}
}

// Insert appends task before head, assigns it the next logical id and returns it.
func (r *Registry) Insert(task *Task) *Task {
	task.ID = r.nextID
	r.nextID++
	if r.head == nil {
		task.next = task
		task.prev = task
		r.head = task
		r.tail = task
		r.size = 1
		return task
	}
	task.prev = r.tail
	task.next = r.head
	r.tail.next = task
	r.head.prev = task
	r.tail = task
	r.size++
	return task
}

// Remove unlinks task from the ring. It returns true when the registry became empty.
func (r *Registry) Remove(task *Task) (empty bool) {
	if task == nil || r.head == nil || task.next == nil {
		return r.head == nil
	}
	if task.next == task {
		r.head = nil
		r.tail = nil
		r.size = 0
		task.next, task.prev = nil, nil
		return true
	}
	task.prev.next = task.next
	task.next.prev = task.prev
	if r.head == task {
		r.head = task.next
	}
	if r.tail == task {
		r.tail = task.prev
	}
	task.next, task.prev = nil, nil
	r.size--
	return false
}

// FindByHandle returns the task with supplied handle or nil
func (r *Registry) FindByHandle(handle Handle) *Task {
	return r.find(func(t *Task) bool { return t.Handle == handle })
}

// FindByID returns the task with supplied logical id or nil
func (r *Registry) FindByID(id int) *Task {
	return r.find(func(t *Task) bool { return t.ID == id })
}

func (r *Registry) find(match func(t *Task) bool) *Task {
	if r.head == nil {
		return nil
	}
	current := r.head
	for {
		if match(current) {
			return current
		}
		current = current.next
		if current == r.head {
			return nil
		}
	}
}

// Head returns the first task
func (r *Registry) Head() *Task {
	return r.head
}

// Tail returns the last task
func (r *Registry) Tail() *Task {
	return r.tail
}

// Len returns number of tasks
func (r *Registry) Len() int {
	return r.size
}

// IsEmpty returns true if there are no tasks
func (r *Registry) IsEmpty() bool {
	return r.head == nil
}

// Tasks returns a snapshot of the tasks in traversal order starting at head.
func (r *Registry) Tasks() []*Task {
	result := make([]*Task, 0, r.size)
	r.Each(func(t *Task) bool {
		result = append(result, t)
		return true
	})
	return result
}

// Each visits tasks in traversal order until visit returns false.
// The visited task may be removed from within visit.
func (r *Registry) Each(visit func(t *Task) bool) {
	current := r.head
	for n := r.size; n > 0 && current != nil; n-- {
		next := current.next
		if !visit(current) {
			return
		}
		current = next
	}
}

// CountElevated scans the ring and returns the number of elevated tasks.
func (r *Registry) CountElevated() int {
	count := 0
	r.Each(func(t *Task) bool {
		if t.IsElevated() {
			count++
		}
		return true
	})
	return count
}

// HasElevated returns true if any task has elevated priority
func (r *Registry) HasElevated() bool {
	return r.find(func(t *Task) bool { return t.IsElevated() }) != nil
}
