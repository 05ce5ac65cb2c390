package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/huangsam/pnps/core"
	"github.com/huangsam/pnps/internal/contract"
	"github.com/huangsam/pnps/internal/outwriter"
	"github.com/huangsam/pnps/internal/report"
	"github.com/huangsam/pnps/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.StoreManager
}

// ratioResponse is the payload of compute_pn_ps.
type ratioResponse struct {
	Summary  schema.RatioSummary   `json:"summary"`
	Rows     []schema.LongRatioRow `json:"rows"`
	Warnings []string              `json:"warnings,omitempty"`
}

// potentialResponse is the payload of get_synonymous_potential.
type potentialResponse struct {
	Genes    []schema.GenePotential `json:"genes"`
	Warnings []string               `json:"warnings,omitempty"`
}

func (h *toolHandler) handleComputePNPS(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	cfg.AATable = request.GetString("aa_table", "")
	cfg.CDNTable = request.GetString("cdn_table", "")
	cfg.OutputDir = request.GetString("output_dir", "")
	cfg.MinCoverage = request.GetInt("min_coverage", cfg.MinCoverage)
	cfg.MinDeparture = request.GetFloat("min_departure_from_consensus", cfg.MinDeparture)
	cfg.MinNumVariants = request.GetInt("minimum_num_variants", cfg.MinNumVariants)

	if err := contract.ValidateThresholds(cfg.MinCoverage, cfg.MinDeparture, cfg.MinNumVariants); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid thresholds: %v", err)), nil
	}
	if err := contract.ValidateVariabilityTables(cfg); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid tables: %v", err)), nil
	}
	if cfg.OutputDir != "" {
		if err := contract.PrepareOutputDir(cfg.OutputDir); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid output directory: %v", err)), nil
		}
	}

	// stdio carries the protocol, so diagnostics only travel in the response
	rep := report.Nop()
	result, err := core.GetRatioResults(ctx, cfg, h.mgr, rep)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("pN/pS computation failed: %v", err)), nil
	}
	if cfg.OutputDir != "" {
		if err := outwriter.WriteRatioTables(cfg.OutputDir, result); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to write tables: %v", err)), nil
		}
	}

	jsonData, _ := json.MarshalIndent(ratioResponse{
		Summary:  core.Summarize(result),
		Rows:     result.LongRows(),
		Warnings: rep.Warnings(),
	}, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetPotential(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	cfg.GeneFilter = nil
	for _, part := range contract.SplitList(request.GetString("genes", "")) {
		id, err := schema.ParseGeneID(part)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid gene id %q", part)), nil
		}
		cfg.GeneFilter = append(cfg.GeneFilter, id)
	}

	rep := report.Nop()
	rows, err := core.GetPotentialResults(ctx, cfg, h.mgr, rep)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("potential computation failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(potentialResponse{Genes: rows, Warnings: rep.Warnings()}, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
