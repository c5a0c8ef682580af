package cmd

import (
	"github.com/huangsam/devevent/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:     "mcp",
	Short:   "Start the DevEvent MCP server",
	Long:    `Launch an MCP server over stdio that lets AI agents list events and check the database connection.`,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, store)
	},
}
