package domain

// Task represents a named unit of work declared in the configuration.
// It uses InternedString for fields that are frequently repeated to save memory.
type Task struct {
	Name         InternedString
	Description  string
	Command      string
	Args         []string
	Dependencies []InternedString
	Environment  map[string]string
	WorkingDir   InternedString

	// IgnoreErrors marks the task as best-effort: a failure is reported but
	// does not stop the remaining sequence.
	IgnoreErrors bool

	// Install is non-nil for installation tasks.
	Install *InstallSpec
}

// HasCommand reports whether the task runs a child process.
// Tasks without a command are aggregation points for their dependencies.
func (t *Task) HasCommand() bool {
	return t.Command != ""
}

// InstallSpec describes a tool that must be present before the task runs.
// The probe invocation (Binary TestArg) is run first; if it exits zero the
// install step is skipped.
type InstallSpec struct {
	CrateName string
	Binary    string
	TestArg   string

	// InstallCommand is the command prefix the crate name is appended to,
	// resolved from the configuration at load time (default: cargo install).
	InstallCommand []string
}
