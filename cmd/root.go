package cmd

import (
	"context"
	"fmt"
	"github.com/ValentinKolb/archbench/cmd/list"
	"github.com/ValentinKolb/archbench/cmd/run"
	"github.com/ValentinKolb/archbench/cmd/util"
	"github.com/spf13/cobra"
	"os"
	"os/signal"
)

const (
	Version = "1.0.0"
)

var (
	cfgFile string

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "archbench",
		Short: "save/load benchmark for binary archive libraries",
		Long: fmt.Sprintf(`archbench (v%s)

Measures how long two binary serialization libraries take to save and load
vectors of doubles, bytes, records and nested records, and how large the
encoded data is.`, Version),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return util.InitConfig(cfgFile)
		},
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of archbench",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("archbench v%s\n", Version)
		},
	}
)

func init() {
	// Add Commands
	RootCmd.AddCommand(run.RunCmd)
	RootCmd.AddCommand(list.ListCmd)
	RootCmd.AddCommand(versionCmd)

	// Add Flags
	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", util.WrapString("Config file (yaml, json or toml) with flag names as keys"))
	util.SetupLoggingFlags(RootCmd.PersistentFlags())
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
// An interrupt cancels the running test.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := RootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
