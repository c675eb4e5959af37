// Package cmd wires the media tools in to a single command line program.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/keepr/mediakit/internal"
	"github.com/keepr/mediakit/internal/api/links"
	"github.com/keepr/mediakit/internal/instagram"
	"github.com/keepr/mediakit/pkg/logger"
	"github.com/spf13/cobra"
)

var log = logger.Get("CLI")

// exitError carries a process exit code for a command which has already
// reported its failure on stdout.
type exitError struct{ code int }

func (err *exitError) Error() string { return fmt.Sprintf("exit status %d", err.code) }

// application is the state shared by every sub-command once the root command
// has loaded the configuration.
type application struct {
	configPath string
	verbose    bool
	config     *internal.Config

	newExtractor func(instagram.Config) links.Extractor
}

func newApplication() *application {
	return &application{
		newExtractor: func(config instagram.Config) links.Extractor {
			return instagram.NewExtractor(instagram.NewProvider(config))
		},
	}
}

// NewRootCmd builds the complete command tree.
func NewRootCmd() *cobra.Command {
	return newRootCmd(newApplication())
}

func newRootCmd(app *application) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "keepr",
		Short: "Media tools for the Keepr link and video pipeline",
		Long: `keepr bundles the media tooling used by the Keepr backend: re-encoding
videos with selected time ranges sped up, and extracting link metadata
from Instagram posts and reels.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config, err := internal.LoadConfig(app.configPath)
			if err != nil {
				// The instagram command reports every failure as JSON on stdout.
				if cmd.Name() == "instagram" {
					writeJSON(cmd.OutOrStdout(), map[string]string{"error": err.Error()})
					return &exitError{code: 1}
				}
				return err
			}

			app.config = config
			if app.verbose {
				logger.SetMinLoggingLevel(logger.VERBOSE.Level())
			} else {
				logger.SetMinLoggingLevel(logger.ParseLevel(config.LogLevel).Level())
			}

			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&app.configPath, "config", "", "path to a YAML configuration file")
	rootCmd.PersistentFlags().BoolVarP(&app.verbose, "verbose", "v", false, "emit verbose diagnostics to stderr")

	rootCmd.AddCommand(newSpeedCmd(app))
	rootCmd.AddCommand(newInstagramCmd(app))
	rootCmd.AddCommand(newSmokeCmd(app))
	rootCmd.AddCommand(newServeCmd(app))

	return rootCmd
}

// Execute runs the root command, exiting the process with a non-zero status on
// failure. Interrupts cancel the running command's context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := NewRootCmd().ExecuteContext(ctx)
	stop()

	if err == nil {
		return
	}

	var exitErr *exitError
	if errors.As(err, &exitErr) {
		os.Exit(exitErr.code)
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
