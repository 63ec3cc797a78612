package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/email-triage/internal/adapters/input"
	"github.com/mikey/email-triage/internal/adapters/reply"
	"github.com/mikey/email-triage/internal/adapters/store"
	"github.com/mikey/email-triage/internal/config"
	"github.com/mikey/email-triage/internal/core"
	"github.com/mikey/email-triage/internal/dashboard"
	"github.com/mikey/email-triage/internal/di"
	"github.com/mikey/email-triage/internal/logging"
	"github.com/mikey/email-triage/internal/telemetry"
	"github.com/mikey/email-triage/internal/utils"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// app holds everything a command may need
type app struct {
	dig.In

	Config       *config.Config
	Logger       *zap.Logger
	Orchestrator *core.Orchestrator
	Settings     *core.SettingsStore
	Dashboard    *dashboard.View
	Store        store.Store
	Recorder     *telemetry.PrometheusRecorder
	Text         *utils.TextProcessor
	Parser       *input.Parser
	Sender       *reply.SMTPSender
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	flags, rest, err := di.ParseFlags(args, stderr)
	if err != nil {
		return exitUsage
	}
	if len(rest) == 0 {
		usage(stderr)
		return exitUsage
	}

	// used until the configured logger exists
	bootstrap, err := logging.InitConsoleLogger(flags.Verbose, flags.JSONLog)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to initialize logger: %v\n", err)
		return exitError
	}
	defer bootstrap.Sync()

	container, err := di.BuildCLIContainer(flags)
	if err != nil {
		bootstrap.Error("Failed to build dependency container", zap.Error(err))
		return exitError
	}

	code := exitOK
	err = container.Invoke(func(a app) {
		defer a.Logger.Sync()
		defer func() {
			if err := a.Store.Close(); err != nil {
				a.Logger.Warn("Failed to close store", zap.Error(err))
			}
		}()

		code = dispatch(ctx, a, rest[0], rest[1:], stdin, stdout, stderr)
		a.writeMetrics()
	})
	if err != nil {
		bootstrap.Error("Failed to start", zap.Error(err))
		return exitError
	}
	return code
}

func dispatch(ctx context.Context, a app, command string, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	switch command {
	case "classify":
		return a.classify(ctx, args, stdin, stdout, stderr)
	case "history":
		return a.history(args, stdout, stderr)
	case "dashboard":
		return a.dashboard(args, stdout, stderr)
	case "settings":
		return a.settings(ctx, args, stdout, stderr)
	default:
		fmt.Fprintf(stderr, "unknown command %q\n", command)
		usage(stderr)
		return exitUsage
	}
}

func (a app) writeMetrics() {
	path := a.Config.GetString("telemetry.textfile")
	if path == "" {
		return
	}
	if err := a.Recorder.WriteTextfile(path); err != nil {
		a.Logger.Warn("Failed to write metrics", zap.Error(err))
	}
}

func usage(w io.Writer) {
	fmt.Fprint(w, `Usage: email-triage [-config PATH] [-verbose] [-json-log] <command> [flags]

Commands:
  classify   classify an email (-text, -file or stdin)
  history    list classified emails, most recent first
  dashboard  show today's figures
  settings   show or change minutes per email and theme
`)
}
