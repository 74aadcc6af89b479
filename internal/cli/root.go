// Package cli implements the gallerysrc commands.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/gallerysrc/internal/app"
	"github.com/kailas-cloud/gallerysrc/internal/config"
	logpkg "github.com/kailas-cloud/gallerysrc/internal/logger"
	"github.com/kailas-cloud/gallerysrc/internal/version"
)

var (
	envFlag    string
	configFlag string
	formatFlag string
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:           "gallerysrc",
	Short:         "Gallery catalogue client",
	Long:          "Search, list and inspect galleries of the remote catalogue, or serve the same operations over HTTP.",
	Version:       version.String(),
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&envFlag, "env", "e", "", "Environment name selecting config/<env>.yaml (default: $ENV or local)")
	RootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Explicit config file path")
	RootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "json", "Output format: json or text")
}

func env() string {
	if envFlag != "" {
		return envFlag
	}
	return config.GetEnv()
}

// loadConfig reads --config, then config/<env>.yaml. One-shot commands fall
// back to the built-in defaults when no file exists.
func loadConfig(requireFile bool) (config.Config, error) {
	if configFlag != "" {
		return config.LoadFile(configFlag)
	}
	e := env()
	if !requireFile && !config.Exists(e) {
		return config.Default(), nil
	}
	return config.Load(e)
}

// openApp wires the services for a one-shot command. Logging stays quiet
// unless the config asks for more.
func openApp(ctx context.Context) (*app.App, error) {
	cfg, err := loadConfig(false)
	if err != nil {
		return nil, err
	}
	logger, err := logpkg.NewLogger("cli", cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return app.New(ctx, &cfg, logger, app.Options{})
}

// output writes v as indented JSON, or through text when --format=text.
func output(w io.Writer, v any, text func(io.Writer)) error {
	switch formatFlag {
	case "text":
		text(w)
		return nil
	case "json", "":
		b, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("encode output: %w", err)
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	default:
		return fmt.Errorf("unknown format %q (want json or text)", formatFlag)
	}
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
