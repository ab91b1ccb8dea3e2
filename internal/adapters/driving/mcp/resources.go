package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// uriScheme is the custom URI scheme for AgroLens resources.
const uriScheme = "agrolens://"

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for listing datasets.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "datasets",
		Name:        "datasets",
		Description: "List of all uploaded datasets and their indexing status",
		MIMEType:    "application/json",
	}, s.handleDatasetsResource)

	// Template for a single dataset.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "datasets/{datasetId}",
		Name:        "dataset",
		Description: "Details of a specific dataset",
		MIMEType:    "application/json",
	}, s.handleDatasetResource)
}

// datasetInfo is the simplified dataset representation served to clients.
type datasetInfo struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	FileType  string `json:"file_type"`
	Status    string `json:"status"`
	Location  string `json:"location"`
	CreatedAt string `json:"created_at"`
}

// handleDatasetsResource returns a list of all datasets.
func (s *Server) handleDatasetsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Dataset == nil {
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     "[]",
			}},
		}, nil
	}

	datasets, err := s.ports.Dataset.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing datasets: %w", err)
	}

	infos := make([]datasetInfo, len(datasets))
	for i, ds := range datasets {
		infos[i] = datasetInfo{
			ID:        ds.ID,
			Name:      ds.Name,
			FileType:  string(ds.FileType),
			Status:    string(ds.Status),
			Location:  ds.SourceLocation,
			CreatedAt: ds.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling datasets: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleDatasetResource returns details of a specific dataset.
func (s *Server) handleDatasetResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Dataset == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	// Extract datasetId from URI: agrolens://datasets/{datasetId}
	datasetID := extractDatasetID(req.Params.URI)
	if datasetID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	ds, err := s.ports.Dataset.Get(ctx, datasetID)
	if err != nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	data, err := json.MarshalIndent(datasetInfo{
		ID:        ds.ID,
		Name:      ds.Name,
		FileType:  string(ds.FileType),
		Status:    string(ds.Status),
		Location:  ds.SourceLocation,
		CreatedAt: ds.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling dataset: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractDatasetID parses the dataset ID out of a dataset resource URI.
func extractDatasetID(uri string) string {
	rest, ok := strings.CutPrefix(uri, uriScheme+"datasets/")
	if !ok {
		return ""
	}
	if strings.Contains(rest, "/") {
		return ""
	}
	return rest
}
