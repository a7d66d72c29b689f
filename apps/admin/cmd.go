package main

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/trezcool/rambam/core/insight"
	"github.com/trezcool/rambam/core/study"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	db         *sql.DB
	engine     string
	studySvc   *study.Service
	insightSvc *insight.Service
	out        io.Writer
}

func (cli *commandLine) writer() io.Writer {
	if cli.out == nil {
		return os.Stdout
	}
	return cli.out
}

func (cli *commandLine) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "admin",
		Short:         "Rambam administration commands",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Usage()
			return errHelp
		},
	}
	root.SetOut(cli.writer())
	root.SetErr(cli.writer())

	root.AddCommand(
		&cobra.Command{
			Use:                "migrate COMMAND [ARGS...]",
			Short:              "Run a goose migration command (up, down, status, ...)",
			DisableFlagParsing: true,
			RunE: func(cmd *cobra.Command, args []string) error {
				if len(args) == 0 {
					_ = cmd.Usage()
					return errHelp
				}
				return cli.migrate(args)
			},
		},
		cli.todayCmd(),
		&cobra.Command{
			Use:   "catalog",
			Short: "List the books of the catalog with their treatise and chapter counts",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return cli.catalog(cmd.OutOrStdout())
			},
		},
		&cobra.Command{
			Use:   "audit-insights",
			Short: "List published insights whose chapter range is never a day's portion",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return cli.auditInsights(cmd.Context(), cmd.OutOrStdout())
			},
		},
		cli.importInsightsCmd(),
	)
	return root
}

func (cli *commandLine) importInsightsCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "import-insights",
		Short: "Publish the pre-authored daily insights (default: the bundled ones)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.importInsights(cmd.Context(), cmd.OutOrStdout(), file)
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "YAML seed file")
	return cmd
}

func (cli *commandLine) todayCmd() *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "today",
		Short: "Print the study portion of a day (default: today)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.today(cmd.OutOrStdout(), date)
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "calendar date, YYYY-MM-DD")
	return cmd
}

// run executes args, args[0] being the program name.
func (cli *commandLine) run(args []string) error {
	root := cli.rootCmd()
	if len(args) > 0 {
		args = args[1:]
	}
	root.SetArgs(args)
	return root.ExecuteContext(context.Background())
}
