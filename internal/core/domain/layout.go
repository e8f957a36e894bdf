package domain

// ConfigFileName is the name of the configuration file craft looks for,
// walking up from the working directory.
const ConfigFileName = "craft.yaml"

// Permissions for files and directories created by craft.
const (
	DirPerm  = 0o755
	FilePerm = 0o644
)
