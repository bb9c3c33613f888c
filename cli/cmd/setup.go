package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap/zapcore"

	"github.com/pithecene-io/jute/cli/config"
	"github.com/pithecene-io/jute/cli/render"
	"github.com/pithecene-io/jute/client"
	"github.com/pithecene-io/jute/connect"
	"github.com/pithecene-io/jute/iox"
	"github.com/pithecene-io/jute/log"
	"github.com/pithecene-io/jute/metrics"
	"github.com/pithecene-io/jute/transcript"
	"github.com/pithecene-io/jute/wire"
)

// Exit codes.
const (
	exitSuccess        = 0
	exitExecutionError = 1
	exitKernelFailure  = 2
	exitUsage          = 3
)

// defaultExecTimeout bounds a single execution's wait for idle when
// neither flag nor config file says otherwise.
const defaultExecTimeout = 30 * time.Second

// settings is the merged view of flags and config file values.
// CLI flags always override config values.
type settings struct {
	connectionFile string
	username       string
	execTimeout    time.Duration
	pollInterval   time.Duration
	transcriptPath string
	logLevel       zapcore.Level
	noColor        bool
}

// resolveSettings merges CLI flags over the optional config file.
// Missing or unusable required inputs exit with a usage error.
func resolveSettings(c *cli.Context) (*settings, error) {
	var fileCfg config.Config
	if path := c.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, cli.Exit(err.Error(), exitUsage)
		}
		fileCfg = *loaded
	}

	set := &settings{
		connectionFile: firstNonEmpty(c.String("connection"), fileCfg.ConnectionFile),
		username:       firstNonEmpty(c.String("username"), fileCfg.Username, wire.DefaultUsername),
		transcriptPath: firstNonEmpty(c.String("transcript"), fileCfg.Transcript),
		noColor:        c.Bool("no-color") || fileCfg.NoColor,
		execTimeout:    defaultExecTimeout,
		pollInterval:   client.DefaultPollInterval,
		// Warn by default so protocol chatter stays off the terminal
		logLevel: zapcore.WarnLevel,
	}

	if set.connectionFile == "" {
		return nil, cli.Exit("a connection file is required (--connection or connection_file in config)", exitUsage)
	}

	if c.IsSet("timeout") {
		set.execTimeout = c.Duration("timeout")
	} else if fileCfg.ExecTimeout.Duration != 0 {
		set.execTimeout = fileCfg.ExecTimeout.Duration
	}

	if c.IsSet("poll-interval") {
		set.pollInterval = c.Duration("poll-interval")
	} else if fileCfg.PollInterval.Duration != 0 {
		set.pollInterval = fileCfg.PollInterval.Duration
	}

	if levelStr := firstNonEmpty(c.String("log-level"), fileCfg.LogLevel); levelStr != "" {
		level, err := zapcore.ParseLevel(levelStr)
		if err != nil {
			return nil, cli.Exit(fmt.Sprintf("invalid log level %q", levelStr), exitUsage)
		}
		set.logLevel = level
	}

	return set, nil
}

// kernelSession bundles everything a command needs to drive one kernel.
type kernelSession struct {
	client  *client.Client
	sink    *render.ConsoleSink
	logger  *log.Logger
	cleanup []func()
}

// openKernel loads the connection file, dials both channels and returns
// a connected session. Descriptor problems are usage errors; dial
// failures are kernel failures.
func openKernel(ctx context.Context, set *settings) (*kernelSession, error) {
	desc, err := connect.Load(set.connectionFile)
	if err != nil {
		return nil, cli.Exit(fmt.Sprintf("connection file: %v", err), exitUsage)
	}

	session := wire.NewSession(desc.SigningKey(), wire.WithUsername(set.username))
	logger := log.NewLogger(session.ID(), set.logLevel)
	sink := render.NewConsoleSink(os.Stdout, os.Stderr, set.noColor)

	ks := &kernelSession{
		sink:    sink,
		logger:  logger,
		cleanup: []func(){func() { _ = logger.Sync() }},
	}

	cfg := &client.Config{
		Descriptor:   desc,
		Session:      session,
		Sink:         sink,
		Logger:       logger,
		Collector:    metrics.NewCollector(session.ID()),
		PollInterval: set.pollInterval,
	}

	if set.transcriptPath != "" {
		f, err := os.Create(set.transcriptPath)
		if err != nil {
			ks.close()
			return nil, cli.Exit(fmt.Sprintf("transcript file: %v", err), exitUsage)
		}
		cfg.Recorder = transcript.NewRecorder(f)
		ks.cleanup = append(ks.cleanup, func() { iox.DiscardClose(f) })
	}

	cl, err := client.Connect(ctx, cfg)
	if err != nil {
		ks.close()
		return nil, cli.Exit(fmt.Sprintf("kernel connect: %v", err), exitKernelFailure)
	}
	ks.client = cl
	ks.cleanup = append(ks.cleanup, func() { _ = cl.Close() })

	logger.Info("connected to kernel", map[string]any{
		"connection_file": set.connectionFile,
		"transport":       desc.Transport,
		"host":            desc.Host,
	})

	return ks, nil
}

// close runs the cleanup stack in reverse order.
func (ks *kernelSession) close() {
	for i := len(ks.cleanup) - 1; i >= 0; i-- {
		ks.cleanup[i]()
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
