// Command gramctl drives a running grammate-api instance from the terminal:
// it submits batch files, watches progress, and pauses, resumes, or stops
// the active run.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	v.SetDefault("server", "http://localhost:8080")
	v.SetEnvPrefix("GRAMMATE")
	v.AutomaticEnv()

	root := &cobra.Command{
		Use:           "gramctl",
		Short:         "Operator CLI for the grammate annotation service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("server", v.GetString("server"), "base URL of the grammate API")
	_ = v.BindPFlag("server", root.PersistentFlags().Lookup("server"))

	api := func() *apiClient { return newAPIClient(v.GetString("server")) }

	root.AddCommand(
		newSubmitCmd(api),
		newStatusCmd(api),
		newControlCmd(api, "pause", "Pause the active batch before its next item"),
		newControlCmd(api, "resume", "Resume a paused batch"),
		newControlCmd(api, "stop", "Stop the active batch, discarding remaining items"),
	)

	return root
}
