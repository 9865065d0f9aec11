// Package commands implements the CLI commands for graphcache.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/graphcache/internal/app"
	"go.trai.ch/graphcache/internal/build"
	"go.trai.ch/graphcache/internal/core/domain"
	"go.trai.ch/graphcache/internal/engine/coordinator"
)

// CLI represents the command line interface for graphcache.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	Start(ctx context.Context, opts app.Options) error
	Rebuild(ctx context.Context, opts app.Options) error
	Refresh(ctx context.Context, opts app.Options) error
	Status(ctx context.Context, opts app.Options) (coordinator.Status, error)
	Route(ctx context.Context, query domain.RouteQuery, opts app.Options) (*domain.Itinerary, error)
	Clean(ctx context.Context, opts app.Options) error
	Watch(ctx context.Context, opts app.Options) error
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	rootCmd := &cobra.Command{
		Use:           "graphcache",
		Short:         "Keep a routable transport graph built from OSM and GTFS inputs",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	rootCmd.PersistentFlags().StringP("output-mode", "o", "auto", "Output mode: auto, interactive, linear or quiet")
	rootCmd.PersistentFlags().Bool("ci", false, "Use linear output mode (shorthand for --output-mode=linear)")
	rootCmd.PersistentFlags().Bool("json-log", false, "Write log lines as JSON")

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	rootCmd.AddCommand(c.newStartCmd())
	rootCmd.AddCommand(c.newRebuildCmd())
	rootCmd.AddCommand(c.newRefreshCmd())
	rootCmd.AddCommand(c.newStatusCmd())
	rootCmd.AddCommand(c.newRouteCmd())
	rootCmd.AddCommand(c.newWatchCmd())
	rootCmd.AddCommand(c.newCleanCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

// options reads the persistent flags shared by every command.
func options(cmd *cobra.Command) app.Options {
	outputMode, _ := cmd.Flags().GetString("output-mode")
	ci, _ := cmd.Flags().GetBool("ci")
	jsonLog, _ := cmd.Flags().GetBool("json-log")

	if ci {
		outputMode = "linear"
	}

	return app.Options{
		OutputMode: outputMode,
		JSONLog:    jsonLog,
	}
}
