package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "crewdesk",
	Short: "Crewdesk workforce admin console backend",
	Long:  "Crewdesk is the backend for a workforce administration console: an org directory, department and team rosters with leader/member reconciliation, recurring shift definitions with effective-date assignments, and leave requests.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: configs/crewdesk.yaml)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
