package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Veraticus/psychro/internal/cli"
	"github.com/Veraticus/psychro/internal/common"
	"github.com/Veraticus/psychro/internal/config"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var version = "dev"

// app carries what every command needs once configuration is loaded.
type app struct {
	v       *viper.Viper
	fs      afero.Fs
	cfg     *config.Config
	cfgFile string
	envFile string
}

func newApp(fs afero.Fs) *app {
	v := viper.New()
	config.SetDefaults(v)
	return &app{v: v, fs: fs}
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "psychro",
		Short: "🌡️  Psychrometric chart client",
		Long: `psychro talks to a psychrometric chart service: it fetches the default chart,
plots uploaded readings or a single point, overlays a design zone and clears
stored data. Charts are written as HTML pages (plotly.js) and/or JSON.`,
		PersistentPreRunE: a.initConfig,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default: $HOME/.config/psychro/config.yaml)")
	flags.StringVar(&a.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	flags.String("server", "", "chart service base URL (default: http://localhost:8000)")
	flags.Duration("timeout", 0, "per-request timeout, 0 for none")
	flags.String("output-dir", "", "directory charts are written to (default: .)")
	flags.String("format", "", "chart output format: html, json or both (default: html)")
	flags.String("container", "", "chart container id (default: chartContainer)")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.String("log-format", "", "log format (console, json)")
	flags.String("log-file", "", "write logs to this file instead of stderr")

	// Bind flags to viper
	for key, flag := range map[string]string{
		"server.base_url": "server",
		"server.timeout":  "timeout",
		"output.dir":      "output-dir",
		"output.format":   "format",
		"chart.container": "container",
		"logging.level":   "log-level",
		"logging.format":  "log-format",
		"logging.file":    "log-file",
	} {
		_ = a.v.BindPFlag(key, flags.Lookup(flag))
	}

	// Add commands
	rootCmd.AddCommand(defaultCmd(a))
	rootCmd.AddCommand(uploadCmd(a))
	rootCmd.AddCommand(plotCmd(a))
	rootCmd.AddCommand(clearCmd(a))
	rootCmd.AddCommand(tuiCmd(a))
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

func main() {
	ctx := context.Background()

	interrupts := cli.NewInterruptHandler(os.Stderr)
	ctx = interrupts.HandleInterrupts(ctx)

	err := newRootCmd(newApp(afero.NewOsFs())).ExecuteContext(ctx)
	if err != nil {
		var reported *reportedError
		if !errors.As(err, &reported) && !interrupts.WasInterrupted() {
			fmt.Fprintln(os.Stderr, cli.FormatError(err.Error()))
		}
		os.Exit(1)
	}
}

func (a *app) initConfig(cmd *cobra.Command, _ []string) error {
	if err := config.LoadDotEnv(config.ExpandPath(a.envFile)); err != nil {
		return common.NewUserError("failed to load env file", err)
	}

	// Set up config file
	if a.cfgFile != "" {
		a.v.SetConfigFile(config.ExpandPath(a.cfgFile))
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			a.v.AddConfigPath(filepath.Join(home, ".config", "psychro"))
		}
		a.v.AddConfigPath(".")
		a.v.SetConfigName("config")
		a.v.SetConfigType("yaml")
	}

	// Environment variables, e.g. PSYCHRO_SERVER_BASE_URL
	a.v.SetEnvPrefix("PSYCHRO")
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	a.v.AutomaticEnv()

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return common.NewUserError("failed to read config", err)
		}
		// Config file not found is OK, we'll use defaults
	}

	cfg, err := config.Load(a.v)
	if err != nil {
		return common.NewUserError("invalid configuration", err)
	}
	a.cfg = cfg

	if err := a.setupLogging(cmd); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	return nil
}

// setupLogging sends logs to stderr, or to the log file when one is set.
// The TUI owns the terminal, so without a log file its logs are discarded.
func (a *app) setupLogging(cmd *cobra.Command) error {
	level, err := common.ParseLevel(a.cfg.Logging.Level)
	if err != nil {
		return err
	}

	var w io.Writer = cmd.ErrOrStderr()
	switch {
	case a.cfg.Logging.File != "":
		if dir := filepath.Dir(a.cfg.Logging.File); dir != "." {
			if err := a.fs.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("failed to create log directory: %w", err)
			}
		}
		f, err := a.fs.OpenFile(a.cfg.Logging.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		w = f
	case cmd.Name() == "tui":
		w = io.Discard
	}

	return common.SetupLogger(level, a.cfg.Logging.Format, w)
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "psychro version %s\n", version)
		},
	}
}
