package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/vk/regiongrid/internal/app"
	"github.com/vk/regiongrid/internal/config"
)

// Exit codes returned through ExitError.
const (
	ExitFatal   = 1
	ExitUsage   = 2
	ExitNoBuild = 3
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

type rootOptions struct {
	configPaths []string
	envFiles    []string
	logLevel    string
	logFormat   string
}

// Execute runs the command line args and maps every failure to an ExitError.
func Execute(ctx context.Context, outW io.Writer, args []string, loader config.Loader) error {
	cmd := NewRootCmd(outW, loader)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}
	return &ExitError{Code: ExitUsage, Message: err.Error()}
}

// NewRootCmd builds the regiongrid command tree writing to outW.
func NewRootCmd(outW io.Writer, loader config.Loader) *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "regiongrid",
		Short:         "regiongrid builds one static indicator site per reference area",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(outW)
	cmd.SetErr(outW)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &ExitError{Code: ExitUsage, Message: err.Error()}
	})

	cmd.PersistentFlags().StringSliceVarP(&opts.configPaths, "config", "c", []string{"regiongrid.hcl"}, "Run file or directory of .hcl files (repeatable)")
	cmd.PersistentFlags().StringSliceVar(&opts.envFiles, "env-file", []string{".env"}, "Dotenv files loaded before reading the environment")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Logging level: debug, info, warn, error (default from REGIONGRID_LOG_LEVEL or info)")
	cmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", "", "Log output format: text or json (default from REGIONGRID_LOG_FORMAT or text)")

	// Registered up front so --help is boolean while cobra locates the
	// subcommand; otherwise it swallows the next argument.
	cmd.InitDefaultHelpFlag()

	cmd.AddCommand(buildCmd(opts, loader), targetsCmd(opts, loader), historyCmd(opts, loader))
	return cmd
}

// newApp validates the shared flags and creates the App.
func newApp(cmd *cobra.Command, opts *rootOptions, loader config.Loader, base app.Config) (*app.App, error) {
	base.ConfigPaths = opts.configPaths
	base.DotEnvFiles = opts.envFiles
	base.LogLevel = opts.logLevel
	base.LogFormat = opts.logFormat

	appConfig, err := app.NewConfig(base)
	if err != nil {
		return nil, &ExitError{Code: ExitUsage, Message: err.Error()}
	}
	a, err := app.NewApp(cmd.OutOrStdout(), appConfig, loader)
	if err != nil {
		return nil, &ExitError{Code: ExitUsage, Message: err.Error()}
	}
	return a, nil
}

func buildCmd(opts *rootOptions, loader config.Loader) *cobra.Command {
	var limit int
	var skipTranslations, failOnEmpty bool

	c := &cobra.Command{
		Use:   "build",
		Short: "Build every reference area and write the landing page index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd, opts, loader, app.Config{
				Limit:            limit,
				LimitSet:         cmd.Flags().Changed("limit"),
				SkipTranslations: skipTranslations,
				FailOnEmpty:      failOnEmpty,
			})
			if err != nil {
				return err
			}
			defer a.Close()

			report, err := a.Build(cmd.Context())
			switch {
			case errors.Is(err, app.ErrNothingBuilt):
				return &ExitError{Code: ExitNoBuild, Message: fmt.Sprintf("%v: %d attempted", err, len(report.Attempts))}
			case err != nil:
				return &ExitError{Code: ExitFatal, Message: err.Error()}
			}
			return nil
		},
	}

	c.Flags().IntVar(&limit, "limit", 0, "Maximum number of targets to attempt; 0 means no cap")
	c.Flags().BoolVar(&skipTranslations, "skip-translations", false, "Do not download translations")
	c.Flags().BoolVar(&failOnEmpty, "fail-on-empty", false, "Exit with code 3 when targets were attempted but none built")
	return c
}

func targetsCmd(opts *rootOptions, loader config.Loader) *cobra.Command {
	return &cobra.Command{
		Use:   "targets",
		Short: "List the reference areas a build would attempt",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd, opts, loader, app.Config{})
			if err != nil {
				return err
			}
			defer a.Close()

			targets, err := a.Targets(cmd.Context())
			if err != nil {
				return &ExitError{Code: ExitFatal, Message: err.Error()}
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, t := range targets {
				fmt.Fprintf(tw, "%s\t%s\n", t.ID, t.Name)
			}
			return tw.Flush()
		},
	}
}

func historyCmd(opts *rootOptions, loader config.Loader) *cobra.Command {
	var limit int

	c := &cobra.Command{
		Use:   "history",
		Short: "Show recorded runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd, opts, loader, app.Config{})
			if err != nil {
				return err
			}
			defer a.Close()

			runs, err := a.History(cmd.Context(), limit)
			if err != nil {
				return &ExitError{Code: ExitFatal, Message: err.Error()}
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "RUN\tSTARTED\tDURATION\tATTEMPTED\tSUCCEEDED\tFAILED")
			for _, r := range runs {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\n",
					r.ID, r.Started.Format(time.RFC3339), r.Finished.Sub(r.Started).Round(time.Second),
					r.Attempted, r.Succeeded, r.Failed)
			}
			return tw.Flush()
		},
	}
	c.Flags().IntVar(&limit, "limit", 10, "Number of runs to show; 0 shows all")
	return c
}
