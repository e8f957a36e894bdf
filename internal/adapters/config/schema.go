package config

import (
	"go.trai.ch/craft/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Craftfile represents the structure of the craft.yaml configuration file.
type Craftfile struct {
	Version   string       `yaml:"version"`
	Installer []string     `yaml:"installer"`
	Defaults  *DefaultsDTO `yaml:"defaults"`
	Tasks     TaskList     `yaml:"tasks"`
}

// DefaultsDTO holds settings inherited by every task unless it sets clear.
type DefaultsDTO struct {
	Env          map[string]string `yaml:"env"`
	Dependencies []string          `yaml:"dependencies"`
}

// TaskDTO represents a task definition in the configuration.
type TaskDTO struct {
	Description  string            `yaml:"description"`
	Command      string            `yaml:"command"`
	Args         []string          `yaml:"args"`
	Dependencies []string          `yaml:"dependencies"`
	Clear        bool              `yaml:"clear"`
	IgnoreErrors bool              `yaml:"ignore_errors"`
	Env          map[string]string `yaml:"env"`
	WorkingDir   string            `yaml:"working_dir"`
	InstallCrate *InstallCrateDTO  `yaml:"install_crate"`
}

// InstallCrateDTO describes a tool installation guard.
type InstallCrateDTO struct {
	CrateName string `yaml:"crate_name"`
	Binary    string `yaml:"binary"`
	TestArg   string `yaml:"test_arg"`
}

// TaskEntry pairs a task name with its definition.
type TaskEntry struct {
	Name string
	Task *TaskDTO
}

// TaskList is an ordered list of task entries. A plain map would lose the
// declaration order the resolver needs for deterministic tie-breaking, so
// the YAML mapping is decoded by hand.
type TaskList []TaskEntry

// UnmarshalYAML implements yaml.Unmarshaler, preserving declaration order
// and rejecting duplicate task names.
func (l *TaskList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return zerr.With(domain.ErrConfigParseFailed, "reason", "tasks must be a mapping")
	}

	seen := make(map[string]bool, len(node.Content)/2)
	entries := make(TaskList, 0, len(node.Content)/2)

	for i := 0; i < len(node.Content)-1; i += 2 {
		keyNode := node.Content[i]
		valueNode := node.Content[i+1]

		name := keyNode.Value
		if seen[name] {
			return zerr.With(domain.ErrTaskAlreadyExists, "task", name)
		}
		seen[name] = true

		dto := &TaskDTO{}
		if err := valueNode.Decode(dto); err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "task", name)
		}

		entries = append(entries, TaskEntry{Name: name, Task: dto})
	}

	*l = entries
	return nil
}
