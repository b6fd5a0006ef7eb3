package main

import (
	"context"
	"fmt"
	"os"

	"github.com/diwise/service-chassis/pkg/infrastructure/buildinfo"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y"
	"github.com/spf13/cobra"

	"github.com/diwise/xplan-gml/internal/pkg/application/planservice"
)

const (
	appName string = "xplan-gml"
)

func main() {
	appVersion := buildinfo.SourceVersion()

	ctx, log, cleanup := o11y.Init(context.Background(), appName, appVersion, "json")
	defer cleanup()

	if err := rootCmd(appVersion).ExecuteContext(ctx); err != nil {
		log.Error("command failed", "err", err.Error())
		cleanup()
		os.Exit(1)
	}
}

func rootCmd(appVersion string) *cobra.Command {
	flags := FlagMap{}

	var cfgPath string

	cmd := &cobra.Command{
		Use:           appName,
		Short:         "Read, write and convert XPlanGML documents",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			flags[configPath] = cfgPath
		},
	}

	cmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "configuration file (yaml)")

	cmd.AddCommand(
		convertCmd(flags),
		importCmd(flags),
		exportCmd(flags),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", appName, appVersion)
			},
		},
	)

	return cmd
}

func convertCmd(flags FlagMap) *cobra.Command {
	var rev, out string

	cmd := &cobra.Command{
		Use:   "convert [file]",
		Short: "Convert a document to another schema revision",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags[revision] = rev
			flags[outputPath] = out
			return withService(cmd.Context(), flags, false, func(ctx context.Context, svc planservice.PlanService) error {
				return runConvert(ctx, svc, flags, argOrEmpty(args))
			})
		},
	}

	cmd.Flags().StringVarP(&rev, "revision", "r", "", "target revision (5.3 or 6.0)")
	cmd.Flags().StringVarP(&out, "output", "o", "", "output file, stdout if omitted")

	return cmd
}

func importCmd(flags FlagMap) *cobra.Command {
	return &cobra.Command{
		Use:   "import [file]",
		Short: "Import a document into the database",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd.Context(), flags, true, func(ctx context.Context, svc planservice.PlanService) error {
				return runImport(ctx, svc, cmd.OutOrStdout(), argOrEmpty(args))
			})
		},
	}
}

func exportCmd(flags FlagMap) *cobra.Command {
	var rev, out string
	var asArchive bool

	cmd := &cobra.Command{
		Use:   "export <plan id>",
		Short: "Export a stored plan as a document or archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags[revision] = rev
			flags[outputPath] = out
			return withService(cmd.Context(), flags, true, func(ctx context.Context, svc planservice.PlanService) error {
				return runExport(ctx, svc, flags, args[0], asArchive)
			})
		},
	}

	cmd.Flags().StringVarP(&rev, "revision", "r", "", "revision to write (5.3 or 6.0)")
	cmd.Flags().StringVarP(&out, "output", "o", "", "output file, stdout if omitted")
	cmd.Flags().BoolVar(&asArchive, "archive", false, "write a zip archive including attached files")

	return cmd
}

func argOrEmpty(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
