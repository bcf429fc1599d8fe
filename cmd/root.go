package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	accountcmd "github.com/Alijeyrad/simorq_mobile/cmd/account"
	appointmentscmd "github.com/Alijeyrad/simorq_mobile/cmd/appointments"
	documentscmd "github.com/Alijeyrad/simorq_mobile/cmd/documents"
)

var (
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "simorq-mobile",
	Short: "Workflow core of the Simorq patient mobile client.",
	Long: `simorq-mobile drives the multi-step workflows of the Simorq patient app
against the backend: the appointment lifecycle, the document upload pipeline,
and password recovery. It is the development harness for the mobile core.`,
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
	rootCmd.AddCommand(appointmentscmd.NewAppointmentsCommand())
	rootCmd.AddCommand(documentscmd.NewDocumentsCommand())
	rootCmd.AddCommand(accountcmd.NewAccountCommand())
}
