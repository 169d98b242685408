// Package commands implements the CLI commands for packer.
package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"go.trai.ch/packer/internal/app"
	"go.trai.ch/packer/internal/build"
	"go.trai.ch/packer/internal/core/domain"
	"go.trai.ch/packer/internal/core/ports"
	"go.trai.ch/packer/internal/engine/scheduler"
	"go.trai.ch/zerr"
)

const (
	// EnvConfig overrides the default project file path.
	EnvConfig = "PACKER_CONFIG"
	// EnvDebug sets the debug override when --debug is not given.
	EnvDebug = "PACKER_DEBUG"
)

// Application represents the application logic interface.
type Application interface {
	Pack(ctx context.Context, names []string, opts app.Options) ([]scheduler.Result, error)
	Dump(ctx context.Context, name string, w io.Writer, opts app.Options) error
	Name(ctx context.Context, name string, opts app.Options) (string, error)
	Assets(ctx context.Context, name string, opts app.Options) ([]string, error)
	Watch(ctx context.Context, names []string, opts app.Options) error
}

// jsonToggler is implemented by loggers that can switch to JSON output.
type jsonToggler interface {
	SetJSON(enable bool)
}

// CLI represents the command line interface for packer.
type CLI struct {
	app     Application
	logger  ports.Logger
	rootCmd *cobra.Command
}

// New creates a new CLI instance with the given app. The logger may be nil.
func New(a Application, log ports.Logger) *CLI {
	rootCmd := &cobra.Command{
		Use:           "packer",
		Short:         "Bundle and minify CSS and JavaScript into content addressed files",
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

	configDefault := domain.ConfigFileName
	if v := os.Getenv(EnvConfig); v != "" {
		configDefault = v
	}

	flags := rootCmd.PersistentFlags()
	flags.StringP("config", "c", configDefault, "Path to the project file (env "+EnvConfig+")")
	flags.Bool("debug", false, "Concatenate assets verbatim instead of minifying (env "+EnvDebug+")")
	flags.Bool("json", false, "Write logs as JSON")
	flags.IntP("jobs", "j", 0, "Number of bundles packed at once (0 uses all CPUs)")

	c := &CLI{
		app:     a,
		logger:  log,
		rootCmd: rootCmd,
	}

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		jsonLogs, _ := cmd.Flags().GetBool("json")
		if toggler, ok := c.logger.(jsonToggler); ok && jsonLogs {
			toggler.SetJSON(true)
		}
	}

	rootCmd.AddCommand(c.newPackCmd())
	rootCmd.AddCommand(c.newDumpCmd())
	rootCmd.AddCommand(c.newNameCmd())
	rootCmd.AddCommand(c.newAssetsCmd())
	rootCmd.AddCommand(c.newWatchCmd())
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

// options collects the persistent flags into app.Options.
func options(cmd *cobra.Command) (app.Options, error) {
	configPath, _ := cmd.Flags().GetString("config")
	jobs, _ := cmd.Flags().GetInt("jobs")

	opts := app.Options{ConfigPath: configPath, Jobs: jobs}

	if cmd.Flags().Changed("debug") {
		debug, _ := cmd.Flags().GetBool("debug")
		opts.Debug = &debug
		return opts, nil
	}

	if v, ok := os.LookupEnv(EnvDebug); ok && v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return opts, zerr.With(zerr.Wrap(err, "invalid "+EnvDebug), "value", v)
		}
		opts.Debug = &debug
	}

	return opts, nil
}
