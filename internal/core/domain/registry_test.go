package domain_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/craft/internal/core/domain"
)

func TestRegistry_AddTask(t *testing.T) {
	t.Run("adds a task", func(t *testing.T) {
		r := domain.NewRegistry()
		err := r.AddTask(&domain.Task{Name: domain.NewInternedString("build")})
		require.NoError(t, err)

		task, ok := r.Task(domain.NewInternedString("build"))
		require.True(t, ok)
		assert.Equal(t, "build", task.Name.String())
		assert.Equal(t, 1, r.Len())
	})

	t.Run("rejects duplicate names", func(t *testing.T) {
		r := domain.NewRegistry()
		require.NoError(t, r.AddTask(&domain.Task{Name: domain.NewInternedString("build")}))

		err := r.AddTask(&domain.Task{Name: domain.NewInternedString("build")})
		require.Error(t, err)
		// Match on the message, zerr metadata does not keep the sentinel in
		// the unwrap chain.
		assert.ErrorContains(t, err, domain.ErrTaskAlreadyExists.Error())
	})
}

func TestRegistry_Tasks_DeclarationOrder(t *testing.T) {
	r := domain.NewRegistry()
	names := []string{"zeta", "alpha", "mid", "beta"}
	for _, n := range names {
		require.NoError(t, r.AddTask(&domain.Task{Name: domain.NewInternedString(n)}))
	}

	var got []string
	for task := range r.Tasks() {
		got = append(got, task.Name.String())
	}
	assert.Equal(t, names, got, "iteration must follow declaration order, not lexical order")
}

func TestRegistry_Task_Missing(t *testing.T) {
	r := domain.NewRegistry()
	_, ok := r.Task(domain.NewInternedString("nope"))
	assert.False(t, ok)
}

func TestExitError(t *testing.T) {
	cause := errors.New("exit status 2")
	err := &domain.ExitError{Task: "lint", Code: 2, Err: cause}

	assert.Equal(t, `task "lint" exited with code 2`, err.Error())
	assert.ErrorIs(t, err, cause)

	var exitErr *domain.ExitError
	require.ErrorAs(t, error(err), &exitErr)
	assert.Equal(t, 2, exitErr.Code)
}

func TestTask_HasCommand(t *testing.T) {
	withCmd := domain.Task{Command: "echo"}
	without := domain.Task{Dependencies: domain.NewInternedStrings([]string{"a"})}

	assert.True(t, withCmd.HasCommand())
	assert.False(t, without.HasCommand())
}
