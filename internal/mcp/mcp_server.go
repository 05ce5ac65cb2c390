// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/pnps/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the pnps MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.StoreManager) *server.MCPServer {
	s := server.NewMCPServer(
		"pN/pS Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: compute_pn_ps ---
	s.AddTool(mcp.NewTool("compute_pn_ps",
		mcp.WithDescription("Compute pN/pS per gene and sample from amino acid and codon variability tables."),
		mcp.WithString("aa_table", mcp.Description("Path to the amino acid (AA) variability table."), mcp.Required()),
		mcp.WithString("cdn_table", mcp.Description("Path to the codon (CDN) variability table."), mcp.Required()),
		mcp.WithString("output_dir", mcp.Description("Directory for the pN_pS, sSCV and SAAV tables. Nothing is written when omitted.")),
		mcp.WithNumber("min_coverage", mcp.Description("Minimum coverage of a variant position. Defaults to 30.")),
		mcp.WithNumber("min_departure_from_consensus", mcp.Description("Minimum departure from consensus, between 0 and 1. Defaults to 0.10.")),
		mcp.WithNumber("minimum_num_variants", mcp.Description("Minimum codon variants for a defined ratio. Defaults to 10.")),
	), h.handleComputePNPS)

	// --- 2. Tool: get_synonymous_potential ---
	s.AddTool(mcp.NewTool("get_synonymous_potential",
		mcp.WithDescription("Compute the synonymous and non-synonymous substitution potential of stored genes."),
		mcp.WithString("genes", mcp.Description("Comma-separated gene callers ids. Every stored gene when omitted.")),
	), h.handleGetPotential)

	return s
}

// StartMCPServer starts the pnps MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.StoreManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
