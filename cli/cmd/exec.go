package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
)

// ExecCommand returns the exec command: one code fragment, one exit code.
func ExecCommand() *cli.Command {
	return &cli.Command{
		Name:      "exec",
		Usage:     "Execute a code fragment on the kernel and exit",
		ArgsUsage: "CODE (use - to read code from stdin)",
		Flags: append(KernelFlags(), &cli.StringFlag{
			Name:  "file",
			Usage: "Read the code fragment from a file instead of an argument",
		}),
		Action: execAction,
	}
}

func execAction(c *cli.Context) error {
	code, err := readCode(c)
	if err != nil {
		return err
	}

	set, err := resolveSettings(c)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ks, err := openKernel(ctx, set)
	if err != nil {
		return err
	}
	defer ks.close()

	if err := ks.client.Execute(code); err != nil {
		return cli.Exit(fmt.Sprintf("execute: %v", err), exitKernelFailure)
	}
	if err := ks.client.WaitIdle(ctx, set.execTimeout); err != nil {
		return cli.Exit(fmt.Sprintf("wait for idle: %v", err), exitKernelFailure)
	}

	if ks.sink.Failed() {
		return cli.Exit("", exitExecutionError)
	}
	return nil
}

// readCode takes the code fragment from --file, the first argument, or
// stdin when the argument is "-".
func readCode(c *cli.Context) (string, error) {
	if path := c.String("file"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", cli.Exit(fmt.Sprintf("code file: %v", err), exitUsage)
		}
		return string(data), nil
	}
	if c.NArg() < 1 {
		return "", cli.Exit("exec requires a code argument (use - to read from stdin)", exitUsage)
	}
	arg := c.Args().First()
	if arg != "-" {
		return arg, nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", cli.Exit(fmt.Sprintf("reading stdin: %v", err), exitUsage)
	}
	return string(data), nil
}
