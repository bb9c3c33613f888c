package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/jute/cli/render"
	"github.com/pithecene-io/jute/client"
	"github.com/pithecene-io/jute/types"
)

// maxInputLine bounds one REPL input line.
const maxInputLine = 1 << 20

// ReplCommand returns the repl command, the interactive driver.
func ReplCommand() *cli.Command {
	return &cli.Command{
		Name:   "repl",
		Usage:  "Interactive read-eval-print loop against a running kernel",
		Flags:  KernelFlags(),
		Action: replAction,
	}
}

func replAction(c *cli.Context) error {
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

	banner := fmt.Sprintf("jute %s (protocol %s). Ctrl-D or \"exit\" to quit.",
		types.Version, types.ProtocolVersion)
	if set.noColor {
		fmt.Println(banner)
	} else {
		fmt.Println(render.BannerStyle.Render(banner))
	}

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), maxInputLine)

	for {
		fmt.Print(render.Prompt(ks.client.ExecutionCount(), set.noColor))
		if !scanner.Scan() {
			fmt.Println()
			break
		}

		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if trimmed == "exit" || trimmed == "quit" {
			break
		}

		ks.sink.Reset()
		if err := ks.client.Execute(line); err != nil {
			return cli.Exit(fmt.Sprintf("execute: %v", err), exitKernelFailure)
		}

		if err := ks.client.WaitIdle(ctx, set.execTimeout); err != nil {
			switch {
			case client.IsTimeout(err):
				fmt.Fprintf(os.Stderr, "kernel did not return to idle within %s\n", set.execTimeout)
				continue
			case client.IsCanceled(err):
				fmt.Println()
				return nil
			default:
				return cli.Exit(fmt.Sprintf("wait for idle: %v", err), exitKernelFailure)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return cli.Exit(fmt.Sprintf("reading input: %v", err), exitUsage)
	}

	ks.logger.Debug("repl session finished", map[string]any{
		"executions": ks.client.ExecutionCount(),
		"metrics":    ks.client.Metrics(),
	})
	return nil
}
