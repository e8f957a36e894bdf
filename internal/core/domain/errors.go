package domain

import "go.trai.ch/zerr"

var (
	// ErrTaskAlreadyExists is returned when attempting to register a task with a name that already exists.
	ErrTaskAlreadyExists = zerr.New("task already exists")

	// ErrMissingDependency is returned when a task references a dependency that is not declared.
	ErrMissingDependency = zerr.New("missing dependency")

	// ErrCycleDetected is returned when the dependency relation contains a cycle.
	ErrCycleDetected = zerr.New("cycle detected")

	// ErrTaskNotFound is returned when a requested task is not declared in the configuration.
	ErrTaskNotFound = zerr.New("task not found")

	// ErrNoTargetSpecified is returned when no target task is given to the run command.
	ErrNoTargetSpecified = zerr.New("no target specified")

	// ErrInvalidTaskName is returned when a task name contains invalid characters.
	ErrInvalidTaskName = zerr.New("task name can only contain alphanumeric characters, hyphens and underscores")

	// ErrEmptyTask is returned when a task declares neither a command, dependencies, nor an install descriptor.
	ErrEmptyTask = zerr.New("task defines no command, dependencies or install_crate")

	// ErrInvalidInstallSpec is returned when an install descriptor is missing required fields.
	ErrInvalidInstallSpec = zerr.New("install_crate requires both crate_name and binary")

	// ErrConfigNotFound is returned when no craft.yaml can be found in the working directory or above.
	ErrConfigNotFound = zerr.New("could not find " + ConfigFileName)

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrRunFailed is returned when the execution of a resolved task sequence fails.
	ErrRunFailed = zerr.New("task run failed")

	// ErrTaskExecutionFailed is returned when a single task execution fails.
	ErrTaskExecutionFailed = zerr.New("task execution failed")

	// ErrInstallFailed is returned when installing a tool for an installation task fails.
	ErrInstallFailed = zerr.New("failed to install tool")

	// ErrWatchFailed is returned when the file watcher cannot be started.
	ErrWatchFailed = zerr.New("failed to start file watcher")
)
