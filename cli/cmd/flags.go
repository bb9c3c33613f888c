// Package cmd provides CLI commands for the jute binary.
package cmd

import "github.com/urfave/cli/v2"

// Shared flags.
var (
	// ConnectionFlag points at the kernel connection file written by the
	// bootstrapper.
	ConnectionFlag = &cli.StringFlag{
		Name:    "connection",
		Aliases: []string{"c"},
		Usage:   "Path to the kernel connection file (JSON)",
	}

	// ConfigFlag points at an optional jute.yaml with defaults.
	ConfigFlag = &cli.StringFlag{
		Name:  "config",
		Usage: "Path to a jute.yaml config file",
	}

	// UsernameFlag sets the username stamped into message headers.
	UsernameFlag = &cli.StringFlag{
		Name:  "username",
		Usage: "Username for message headers",
	}

	// TimeoutFlag bounds each wait for the kernel to return to idle.
	TimeoutFlag = &cli.DurationFlag{
		Name:  "timeout",
		Usage: "Per-execution idle timeout (0 = unbounded)",
	}

	// PollIntervalFlag tunes the iopub readiness poll.
	PollIntervalFlag = &cli.DurationFlag{
		Name:  "poll-interval",
		Usage: "Broadcast channel poll interval",
	}

	// TranscriptFlag enables transcript recording to a file.
	TranscriptFlag = &cli.StringFlag{
		Name:  "transcript",
		Usage: "Record the session transcript to this file",
	}

	// LogLevelFlag sets the diagnostic log verbosity.
	LogLevelFlag = &cli.StringFlag{
		Name:  "log-level",
		Usage: "Log level: debug, info, warn, error",
	}

	// FormatFlag selects output format: json, table, yaml.
	FormatFlag = &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Output format: json, table, yaml",
	}

	// NoColorFlag disables colored output.
	NoColorFlag = &cli.BoolFlag{
		Name:  "no-color",
		Usage: "Disable colored output",
	}
)

// KernelFlags returns the shared flags for commands that talk to a kernel.
func KernelFlags() []cli.Flag {
	return []cli.Flag{
		ConnectionFlag,
		ConfigFlag,
		UsernameFlag,
		TimeoutFlag,
		PollIntervalFlag,
		TranscriptFlag,
		LogLevelFlag,
		NoColorFlag,
	}
}

// ReadOnlyFlags returns the shared flags for commands that only render data.
func ReadOnlyFlags() []cli.Flag {
	return []cli.Flag{
		FormatFlag,
		NoColorFlag,
	}
}
