// Package config provides the configuration loader for craft.
package config

import (
	"os"
	"path/filepath"
	"regexp"

	"go.trai.ch/craft/internal/core/domain"
	"go.trai.ch/craft/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

var validTaskNameRegex = regexp.MustCompile("^[a-zA-Z0-9_-]+$")

// Load reads the configuration starting from cwd and returns the task registry.
func (l *Loader) Load(cwd string) (*domain.Registry, error) {
	configPath, err := l.findConfiguration(cwd)
	if err != nil {
		return nil, err
	}
	return l.loadCraftfile(configPath)
}

// DiscoverRoot walks up from cwd to find the directory containing craft.yaml.
func (l *Loader) DiscoverRoot(cwd string) (string, error) {
	configPath, err := l.findConfiguration(cwd)
	if err != nil {
		return "", err
	}
	return filepath.Dir(configPath), nil
}

func (l *Loader) findConfiguration(cwd string) (string, error) {
	currentDir := cwd
	for {
		configPath := filepath.Join(currentDir, domain.ConfigFileName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root
			break
		}
		currentDir = parentDir
	}

	return "", zerr.With(domain.ErrConfigNotFound, "cwd", cwd)
}

func (l *Loader) loadCraftfile(configPath string) (*domain.Registry, error) {
	var craftfile Craftfile
	if err := readAndUnmarshalYAML(configPath, &craftfile); err != nil {
		return nil, err
	}

	root := filepath.Dir(configPath)
	reg := domain.NewRegistry()

	// First pass: collect all task names so dependencies can be verified
	// regardless of declaration position.
	taskNames := make(map[string]bool, len(craftfile.Tasks))
	for _, entry := range craftfile.Tasks {
		taskNames[entry.Name] = true
	}

	// Second pass: validate and register in declaration order.
	for _, entry := range craftfile.Tasks {
		if err := validateTaskName(entry.Name); err != nil {
			return nil, err
		}

		dto := applyDefaults(entry.Task, craftfile.Defaults)

		if err := validateTask(entry.Name, dto); err != nil {
			return nil, err
		}

		for _, dep := range dto.Dependencies {
			if !taskNames[dep] {
				err := zerr.With(domain.ErrMissingDependency, "task", entry.Name)
				return nil, zerr.With(err, "dependency", dep)
			}
		}

		if err := reg.AddTask(buildTask(entry.Name, dto, root, craftfile.Installer)); err != nil {
			return nil, err
		}
	}

	return reg, nil
}

// applyDefaults merges the top-level defaults block into a task definition.
// A task with clear set ignores inherited defaults entirely.
func applyDefaults(dto *TaskDTO, defaults *DefaultsDTO) *TaskDTO {
	if defaults == nil || dto.Clear {
		return dto
	}

	merged := *dto

	if len(defaults.Env) > 0 {
		env := make(map[string]string, len(defaults.Env)+len(dto.Env))
		for k, v := range defaults.Env {
			env[k] = v
		}
		for k, v := range dto.Env {
			env[k] = v
		}
		merged.Env = env
	}

	if len(defaults.Dependencies) > 0 {
		deps := make([]string, 0, len(defaults.Dependencies)+len(dto.Dependencies))
		deps = append(deps, defaults.Dependencies...)
		for _, dep := range dto.Dependencies {
			if !contains(deps, dep) {
				deps = append(deps, dep)
			}
		}
		merged.Dependencies = deps
	}

	return &merged
}

func contains(strs []string, s string) bool {
	for _, v := range strs {
		if v == s {
			return true
		}
	}
	return false
}

func validateTaskName(name string) error {
	if !validTaskNameRegex.MatchString(name) {
		return zerr.With(domain.ErrInvalidTaskName, "task", name)
	}
	return nil
}

func validateTask(name string, dto *TaskDTO) error {
	if dto.Command == "" && len(dto.Dependencies) == 0 && dto.InstallCrate == nil {
		return zerr.With(domain.ErrEmptyTask, "task", name)
	}

	if dto.Command == "" && len(dto.Args) > 0 {
		err := zerr.With(domain.ErrEmptyTask, "task", name)
		return zerr.With(err, "reason", "args without command")
	}

	if spec := dto.InstallCrate; spec != nil {
		if spec.CrateName == "" || spec.Binary == "" {
			return zerr.With(domain.ErrInvalidInstallSpec, "task", name)
		}
	}

	return nil
}

func buildTask(name string, dto *TaskDTO, root string, installerCmd []string) *domain.Task {
	task := &domain.Task{
		Name:         domain.NewInternedString(name),
		Description:  dto.Description,
		Command:      dto.Command,
		Args:         dto.Args,
		Dependencies: domain.NewInternedStrings(dto.Dependencies),
		Environment:  dto.Env,
		WorkingDir:   domain.NewInternedString(resolveWorkingDir(root, dto.WorkingDir)),
		IgnoreErrors: dto.IgnoreErrors,
	}

	if spec := dto.InstallCrate; spec != nil {
		task.Install = &domain.InstallSpec{
			CrateName:      spec.CrateName,
			Binary:         spec.Binary,
			TestArg:        spec.TestArg,
			InstallCommand: installerCmd,
		}
	}

	return task
}

// resolveWorkingDir anchors a task's working directory at the config file's
// directory, so invocations from subdirectories behave identically.
func resolveWorkingDir(root, workingDir string) string {
	if workingDir == "" {
		return root
	}
	if filepath.IsAbs(workingDir) {
		return workingDir
	}
	return filepath.Join(root, workingDir)
}

func readAndUnmarshalYAML(configPath string, out *Craftfile) error {
	// #nosec G304 -- configPath is discovered relative to the working directory
	data, err := os.ReadFile(configPath)
	if err != nil {
		err = zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
		return zerr.With(err, "path", configPath)
	}

	if err := yaml.Unmarshal(data, out); err != nil {
		err = zerr.Wrap(err, domain.ErrConfigParseFailed.Error())
		return zerr.With(err, "path", configPath)
	}

	return nil
}
