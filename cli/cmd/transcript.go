package cmd

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/jute/cli/render"
	"github.com/pithecene-io/jute/iox"
	"github.com/pithecene-io/jute/transcript"
)

// TranscriptCommand returns the transcript command, which decodes a
// recorded session file for inspection.
func TranscriptCommand() *cli.Command {
	return &cli.Command{
		Name:      "transcript",
		Usage:     "Decode a recorded session transcript",
		ArgsUsage: "FILE",
		Flags:     ReadOnlyFlags(),
		Action:    transcriptAction,
	}
}

func transcriptAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("transcript requires exactly one file argument", exitUsage)
	}

	r, err := render.NewRenderer(c)
	if err != nil {
		return cli.Exit(err.Error(), exitUsage)
	}

	path := c.Args().First()
	f, err := os.Open(path)
	if err != nil {
		return cli.Exit(fmt.Sprintf("transcript file: %v", err), exitUsage)
	}
	defer iox.DiscardClose(f)

	records, err := transcript.NewDecoder(f).ReadAll()
	if err != nil {
		// A truncated tail is common when a session was killed; show
		// what decoded and report the cut.
		if transcript.IsPartial(err) && len(records) > 0 {
			if renderErr := r.Render(records); renderErr != nil {
				return cli.Exit(renderErr.Error(), exitUsage)
			}
			return cli.Exit(fmt.Sprintf("transcript truncated after %d records", len(records)), exitExecutionError)
		}
		return cli.Exit(fmt.Sprintf("decode transcript: %v", err), exitExecutionError)
	}

	return r.Render(records)
}
