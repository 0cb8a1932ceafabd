package mcp

import (
	"context"
	"encoding/json"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

func (h *handlers) availablePool(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	entries, err := h.ds.ListAvailablePool(ctx, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	return jsonContents(req.Params.URI, map[string]any{
		"date":    time.Now().UTC().Format("2006-01-02"),
		"entries": entries,
	})
}

func (h *handlers) movementCatalog(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	movements, err := h.ds.ListMovements(ctx)
	if err != nil {
		return nil, err
	}
	return jsonContents(req.Params.URI, movements)
}

func (h *handlers) progressSummary(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	progress, err := h.ds.GetProgress(ctx)
	if err != nil {
		return nil, err
	}
	return jsonContents(req.Params.URI, progress)
}

func jsonContents(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
