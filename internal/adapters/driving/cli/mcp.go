package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/coursechat/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Model Context Protocol server",
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Expose the course index to MCP clients",
	Long: `Serve the course index over the Model Context Protocol.

The server publishes search_course_content and get_course_outline as
tools, the course catalog as resources, and (when a completion provider
is configured) ask_course_question for full answers with sources.

Without flags the server speaks JSON-RPC over stdio, which is what
Claude Desktop and most MCP clients expect. Pass --port to serve
streamable HTTP instead, e.g. for the MCP Inspector.

Claude Desktop configuration (claude_desktop_config.json):
  {
    "mcpServers": {
      "coursechat": {
        "command": "/path/to/coursechat",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "serve streamable HTTP on this port instead of stdio")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	server, err := mcp.NewServer(&mcp.Ports{
		Search:    searchService,
		Catalog:   catalogService,
		Assistant: assistantService,
	})
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
