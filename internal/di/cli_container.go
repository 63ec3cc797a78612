package di

import (
	"flag"
	"io"

	"go.uber.org/dig"

	"github.com/mikey/email-triage/internal/config"
)

// CLIFlags contains the global command line flags
type CLIFlags struct {
	ConfigFile string
	Verbose    bool
	JSONLog    bool
}

// ParseFlags parses the global flags from args and returns them together
// with the remaining arguments (the command and its own flags)
func ParseFlags(args []string, output io.Writer) (*CLIFlags, []string, error) {
	flags := &CLIFlags{}

	fs := flag.NewFlagSet("email-triage", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&flags.ConfigFile, "config", "", "Path to config file")
	fs.BoolVar(&flags.Verbose, "verbose", false, "Enable verbose logging")
	fs.BoolVar(&flags.JSONLog, "json-log", false, "Output logs in JSON format")

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return flags, fs.Args(), nil
}

// BuildCLIContainer loads the configuration, applies the flag overrides and
// creates the dependency injection container for the CLI application
func BuildCLIContainer(flags *CLIFlags) (*dig.Container, error) {
	cfg, err := config.New(flags.ConfigFile)
	if err != nil {
		return nil, err
	}
	applyFlags(cfg, flags)

	container, err := BuildContainer(cfg)
	if err != nil {
		return nil, err
	}

	// Register flags
	if err := container.Provide(func() *CLIFlags { return flags }); err != nil {
		return nil, err
	}
	return container, nil
}

// applyFlags lets command line flags take precedence over the config file
func applyFlags(cfg *config.Config, flags *CLIFlags) {
	if flags.Verbose {
		cfg.Set("logging.level", "debug")
	}
	if flags.JSONLog {
		cfg.Set("logging.format", "json")
	}
}
