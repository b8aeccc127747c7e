// Package cmd implements the command-line interface for bookslot.
//
// This package provides the following commands:
//   - chat: Start an interactive booking conversation with the AI assistant
//   - auth: Authorize Google Calendar access via OAuth
//   - serve: Start the MCP server to provide booking tools for AI assistants
//   - version: Display version information
//   - generate-docs: Generate markdown documentation for all MCP tools
//
// The chat command is the default command when no subcommand is specified.
package cmd
