package cmd

import (
	"github.com/huangsam/pnps/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the pnps MCP server",
	Long:  `Launch an MCP server that allows AI agents to compute pN/pS and substitution potential via standard tools.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Warnings go into tool responses; stdio carries the protocol.
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, storeManager)
	},
}
