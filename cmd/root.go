// Package cmd implements the studio command line.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var version = "dev"

// newRootCmd builds the command tree around a fresh app.
func newRootCmd() (*cobra.Command, *app) {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:           "studio",
		Short:         "Product draft studio: titles and slogans from product attributes",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.open(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.cfgFile, "config", "c", "", "config file (default: config/config.json)")
	flags.String("data-dir", "", "directory of the local database")
	flags.Bool("in-memory", false, "keep all data in memory for this run")
	flags.String("log-level", "", "debug, info, warn or error")
	flags.String("log-format", "", "text or json")
	flags.BoolVarP(&a.yes, "yes", "y", false, "skip confirmation prompts")
	flags.BoolVar(&a.jsonOut, "json", false, "print JSON instead of tables")

	_ = a.v.BindPFlag("data_dir", flags.Lookup("data-dir"))
	_ = a.v.BindPFlag("in_memory", flags.Lookup("in-memory"))
	_ = a.v.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = a.v.BindPFlag("log.format", flags.Lookup("log-format"))

	root.AddCommand(
		newServeCmd(a),
		newGenerateCmd(a),
		newSampleCmd(a),
		newTemplatesCmd(a),
		newTasksCmd(a),
		newLibraryCmd(a),
		newStatsCmd(a),
		newSettingsCmd(a),
	)
	return root, a
}

// Execute runs the root command until done or interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root, a := newRootCmd()
	err := root.ExecuteContext(ctx)
	if cerr := a.close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
	}
	return err
}
