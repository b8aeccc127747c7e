package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the bookslot application
var rootCmd = &cobra.Command{
	Use:   "bookslot",
	Short: "Books appointments on Google Calendar through natural language",
	Long: `bookslot is an AI-powered booking assistant for Google Calendar.
It understands natural language requests, checks availability, suggests free
time slots, and creates appointments.

It can run as:
  - An interactive chat assistant (default)
  - An MCP (Model Context Protocol) server for AI assistants`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "bookslot version %s\n" .Version}}`)

	// If no subcommand is provided, run the chat command by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "chat")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newChatCmd())
	rootCmd.AddCommand(newAuthCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newGenerateDocsCmd())
}
