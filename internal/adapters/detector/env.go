// Package detector provides environment detection for output mode selection.
package detector

import (
	"os"

	"golang.org/x/term"
)

// OutputMode represents the rendering mode for the application.
type OutputMode int

const (
	// ModeAuto automatically detects the appropriate mode.
	ModeAuto OutputMode = iota
	// ModeColor uses colored output for interactive terminals.
	ModeColor
	// ModePlain uses uncolored output for CI and piped streams.
	ModePlain
)

// DetectEnvironment returns the recommended output mode based on the
// environment. Non-TTY stdout or a CI environment variable selects plain
// output.
func DetectEnvironment() OutputMode {
	isTTY := term.IsTerminal(int(os.Stdout.Fd()))

	ci := os.Getenv("CI")
	isCI := ci == "true" || ci == "1"

	if !isTTY || isCI {
		return ModePlain
	}
	return ModeColor
}

// ResolveMode applies the user override flag to auto-detection.
// userFlag should be one of: "auto", "color", "plain", "ci", or empty.
func ResolveMode(autoDetected OutputMode, userFlag string) OutputMode {
	switch userFlag {
	case "color":
		return ModeColor
	case "plain", "ci":
		return ModePlain
	case "auto", "":
		return autoDetected
	default:
		return autoDetected
	}
}
