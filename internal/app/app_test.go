package app_test

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/craft/internal/app"
	"go.trai.ch/craft/internal/core/domain"
	"go.trai.ch/craft/internal/core/ports/mocks"
	"go.trai.ch/craft/internal/engine/resolver"
	"go.uber.org/mock/gomock"
)

type appTestMocks struct {
	loader    *mocks.MockConfigLoader
	executor  *mocks.MockExecutor
	installer *mocks.MockInstaller
	logger    *mocks.MockLogger
	stdout    *bytes.Buffer
	stderr    *bytes.Buffer
}

func setupAppTest(t *testing.T) (*app.App, appTestMocks) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	ctrl := gomock.NewController(t)
	m := appTestMocks{
		loader:    mocks.NewMockConfigLoader(ctrl),
		executor:  mocks.NewMockExecutor(ctrl),
		installer: mocks.NewMockInstaller(ctrl),
		logger:    mocks.NewMockLogger(ctrl),
		stdout:    &bytes.Buffer{},
		stderr:    &bytes.Buffer{},
	}
	m.logger.EXPECT().Info(gomock.Any()).AnyTimes()
	m.logger.EXPECT().Warn(gomock.Any()).AnyTimes()

	a := app.New(m.loader, resolver.New(), m.executor, m.installer, nil, m.logger).
		WithStreams(m.stdout, m.stderr)
	return a, m
}

func buildRegistry(t *testing.T, decls ...[2]any) *domain.Registry {
	t.Helper()
	reg := domain.NewRegistry()
	for _, decl := range decls {
		require.NoError(t, reg.AddTask(&domain.Task{
			Name:         domain.NewInternedString(decl[0].(string)),
			Command:      "echo",
			Dependencies: domain.NewInternedStrings(decl[1].([]string)),
		}))
	}
	return reg
}

func TestApp_Run(t *testing.T) {
	a, m := setupAppTest(t)

	reg := buildRegistry(t,
		[2]any{"format", []string{}},
		[2]any{"build", []string{"format"}},
	)

	m.loader.EXPECT().Load(".").Return(reg, nil)
	gomock.InOrder(
		m.executor.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil),
		m.executor.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil),
	)

	err := a.Run(context.Background(), "build", app.RunOptions{OutputMode: "plain"})
	require.NoError(t, err)
}

func TestApp_Run_NoTarget(t *testing.T) {
	a, _ := setupAppTest(t)

	err := a.Run(context.Background(), "", app.RunOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNoTargetSpecified)
}

func TestApp_Run_LoadFailure(t *testing.T) {
	a, m := setupAppTest(t)

	m.loader.EXPECT().Load(".").Return(nil, domain.ErrConfigNotFound)

	err := a.Run(context.Background(), "build", app.RunOptions{})
	require.Error(t, err)
	require.ErrorContains(t, err, "failed to load configuration")
}

func TestApp_Run_TaskFailureCarriesExitCode(t *testing.T) {
	a, m := setupAppTest(t)

	reg := buildRegistry(t, [2]any{"build", []string{}})

	m.loader.EXPECT().Load(".").Return(reg, nil)
	m.executor.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&domain.ExitError{Task: "build", Code: 101})

	err := a.Run(context.Background(), "build", app.RunOptions{OutputMode: "plain"})
	require.Error(t, err)
	// Match on the message, zerr metadata does not keep the sentinel in the
	// unwrap chain.
	assert.ErrorContains(t, err, domain.ErrRunFailed.Error())

	var exitErr *domain.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 101, exitErr.Code)
}

func TestApp_Run_UnknownTarget(t *testing.T) {
	a, m := setupAppTest(t)

	reg := buildRegistry(t, [2]any{"build", []string{}})
	m.loader.EXPECT().Load(".").Return(reg, nil)

	err := a.Run(context.Background(), "deploy", app.RunOptions{OutputMode: "plain"})
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrRunFailed.Error())
	assert.ErrorContains(t, err, domain.ErrTaskNotFound.Error())
}

func TestApp_Run_StreamsTaskOutput(t *testing.T) {
	a, m := setupAppTest(t)

	reg := buildRegistry(t, [2]any{"build", []string{}})

	m.loader.EXPECT().Load(".").Return(reg, nil)
	m.executor.EXPECT().Execute(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *domain.Task, stdout, _ io.Writer) error {
			_, err := stdout.Write([]byte("hello-world\n"))
			return err
		})

	err := a.Run(context.Background(), "build", app.RunOptions{OutputMode: "plain"})
	require.NoError(t, err)

	// The child's output must survive the async delivery path even for a
	// task that completes immediately after writing.
	assert.Contains(t, m.stdout.String(), "[build] hello-world")
}

func TestApp_Tasks(t *testing.T) {
	a, m := setupAppTest(t)

	reg := buildRegistry(t,
		[2]any{"format", []string{}},
		[2]any{"build", []string{"format"}},
	)
	m.loader.EXPECT().Load(".").Return(reg, nil)

	got, err := a.Tasks()
	require.NoError(t, err)
	assert.Equal(t, 2, got.Len())
}

func TestApp_Tasks_LoadFailure(t *testing.T) {
	a, m := setupAppTest(t)

	m.loader.EXPECT().Load(".").Return(nil, domain.ErrConfigNotFound)

	_, err := a.Tasks()
	require.Error(t, err)
}

func TestApp_Watch_NoTarget(t *testing.T) {
	a, _ := setupAppTest(t)

	err := a.Watch(context.Background(), "", app.WatchOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNoTargetSpecified)
}

func TestApp_Watch_MissingConfig(t *testing.T) {
	a, m := setupAppTest(t)

	m.loader.EXPECT().DiscoverRoot(".").Return("", domain.ErrConfigNotFound)

	err := a.Watch(context.Background(), "build", app.WatchOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfigNotFound)
}
