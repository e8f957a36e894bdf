// Package domain contains the core domain models for the task registry and
// its dependency relation.
package domain

import (
	"iter"

	"go.trai.ch/zerr"
)

// Registry holds the task set for a single invocation. It is loaded once from
// the configuration source and is immutable afterwards; declaration order is
// preserved for deterministic resolution and for listing.
type Registry struct {
	tasks map[InternedString]Task
	order []InternedString
}

// NewRegistry creates a new empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		tasks: make(map[InternedString]Task),
	}
}

// AddTask adds a task to the registry.
// It returns an error if a task with the same name already exists.
func (r *Registry) AddTask(t *Task) error {
	if _, exists := r.tasks[t.Name]; exists {
		return zerr.With(ErrTaskAlreadyExists, "task", t.Name.String())
	}
	r.tasks[t.Name] = *t
	r.order = append(r.order, t.Name)
	return nil
}

// Task returns the task with the given name.
func (r *Registry) Task(name InternedString) (Task, bool) {
	t, ok := r.tasks[name]
	return t, ok
}

// Len returns the number of registered tasks.
func (r *Registry) Len() int {
	return len(r.tasks)
}

// Tasks returns an iterator that yields tasks in declaration order.
func (r *Registry) Tasks() iter.Seq[Task] {
	return func(yield func(Task) bool) {
		for _, name := range r.order {
			if !yield(r.tasks[name]) {
				return
			}
		}
	}
}
