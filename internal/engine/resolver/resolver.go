// Package resolver computes the execution order for a target task.
package resolver

import (
	"strings"

	"go.trai.ch/craft/internal/core/domain"
	"go.trai.ch/zerr"
)

// DFS markers for cycle detection.
const (
	unvisited = iota
	visiting
	visited
)

// Resolver produces dependency-ordered task sequences from a registry.
// Dependencies always precede their dependents; ties are broken by
// declaration order, so resolution of an unchanged registry is deterministic.
type Resolver struct{}

// New creates a new Resolver.
func New() *Resolver {
	return &Resolver{}
}

// Resolve returns the execution order for the target task: a post-order DFS
// over the dependency relation, visiting each task's dependency list in
// declared order. A dependency cycle yields domain.ErrCycleDetected with the
// cycle members attached.
func (r *Resolver) Resolve(reg *domain.Registry, target string) ([]domain.Task, error) {
	targetName := domain.NewInternedString(target)
	if _, ok := reg.Task(targetName); !ok {
		return nil, zerr.With(domain.ErrTaskNotFound, "task", target)
	}

	order := make([]domain.Task, 0, reg.Len())
	marks := make(map[domain.InternedString]int, reg.Len())
	var path []domain.InternedString

	var visit func(name domain.InternedString) error
	visit = func(name domain.InternedString) error {
		marks[name] = visiting
		path = append(path, name)

		task, exists := reg.Task(name)
		if !exists {
			// The loader validates dependencies at parse time, so this only
			// fires on registries assembled by hand.
			return zerr.With(domain.ErrMissingDependency, "dependency", name.String())
		}

		for _, dep := range task.Dependencies {
			switch marks[dep] {
			case visiting:
				return cycleError(path, dep)
			case unvisited:
				if err := visit(dep); err != nil {
					return err
				}
			}
		}

		marks[name] = visited
		path = path[:len(path)-1]
		order = append(order, task)
		return nil
	}

	if err := visit(targetName); err != nil {
		return nil, err
	}

	return order, nil
}

// cycleError constructs an error naming the cycle members in traversal order.
func cycleError(path []domain.InternedString, dep domain.InternedString) error {
	start := 0
	for i, node := range path {
		if node == dep {
			start = i
			break
		}
	}

	var b strings.Builder
	for _, node := range path[start:] {
		b.WriteString(node.String())
		b.WriteString(" -> ")
	}
	b.WriteString(dep.String())

	return zerr.With(domain.ErrCycleDetected, "cycle", b.String())
}
