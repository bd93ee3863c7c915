package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	verbose      bool
	jsonLogs     bool
	providerType string
	modelName    string
	personaPath  string
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "kitti",
	Short: "Your pocket emotional companion",
	Long: `Kitti is a tiny pixel-cat that lives in your terminal. Chat about your
day, and Kitti turns each session into a journal entry and a mood record
you can look back on.`,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	RootCmd.PersistentFlags().BoolVar(&jsonLogs, "json", false, "JSON log output")
	RootCmd.PersistentFlags().StringVarP(&providerType, "provider", "p", "gemini", "AI Provider (gemini, openai, ollama, stub)")
	RootCmd.PersistentFlags().StringVarP(&modelName, "model", "m", "", "Model name (default depends on provider)")
	RootCmd.PersistentFlags().StringVar(&personaPath, "persona", "", "Path to a persona file (.json or .yaml)")
}
