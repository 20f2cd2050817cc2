package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	httpcmd "github.com/Defimaso/Diario362-sub001/cmd/http"
	jobscmd "github.com/Defimaso/Diario362-sub001/cmd/jobs"
	systemcmd "github.com/Defimaso/Diario362-sub001/cmd/system"
)

var (
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "diario",
	Short: "Diario notification service: in-app and web push delivery for coaches and clients.",
	Long: `Diario routes check-in, video and feedback events to the right coaches or
clients, records them in the in-app inbox and delivers them as web push.
It also runs the absence scan and the daily check-in reminder.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global config flag, available for all commands.
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")

	// Attach top-level command trees.
	rootCmd.AddCommand(systemcmd.NewSystemCommand())
	rootCmd.AddCommand(httpcmd.NewHTTPCommand())
	rootCmd.AddCommand(jobscmd.NewJobsCommand())
}
