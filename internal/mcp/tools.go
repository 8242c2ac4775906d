package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/worldos/console/internal/domain/project"
)

type toolHandlers struct {
	projects ProjectService
	logger   *slog.Logger
}

func registerTools(server *sdkmcp.Server, projects ProjectService, logger *slog.Logger) {
	h := &toolHandlers{projects: projects, logger: logger}

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_projects",
		Description: "List all world-building projects as summaries (id, name, type, tags, character and zone counts)",
	}, h.listProjects)

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_project",
		Description: "Get the full project document including all six tiers",
	}, h.getProject)

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "create_project",
		Description: "Create a project, or replace an existing one with the same id. Timestamps are filled in by the server",
	}, h.createProject)

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "update_project",
		Description: "Replace an existing project. created_at is preserved from the stored version",
	}, h.updateProject)

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "delete_project",
		Description: "Delete a project by id",
	}, h.deleteProject)
}

func (h *toolHandlers) listProjects(ctx context.Context, _ *sdkmcp.CallToolRequest, _ ListProjectsParams) (*sdkmcp.CallToolResult, any, error) {
	projects, err := h.projects.List(ctx)
	if err != nil {
		return h.errorResult("list_projects", err), nil, nil
	}
	summaries := make([]project.ProjectSummary, 0, len(projects))
	for _, p := range projects {
		summaries = append(summaries, p.Summary())
	}
	return jsonResult(summaries)
}

func (h *toolHandlers) getProject(ctx context.Context, _ *sdkmcp.CallToolRequest, in GetProjectParams) (*sdkmcp.CallToolResult, any, error) {
	proj, err := h.projects.Get(ctx, in.ID)
	if err != nil {
		return h.errorResult("get_project", err), nil, nil
	}
	return jsonResult(proj)
}

func (h *toolHandlers) createProject(ctx context.Context, _ *sdkmcp.CallToolRequest, in CreateProjectParams) (*sdkmcp.CallToolResult, any, error) {
	proj, err := decodeArgument(in.Project)
	if err != nil {
		return h.errorResult("create_project", err), nil, nil
	}
	stored, err := h.projects.Create(ctx, proj)
	if err != nil {
		return h.errorResult("create_project", err), nil, nil
	}
	return jsonResult(stored)
}

func (h *toolHandlers) updateProject(ctx context.Context, _ *sdkmcp.CallToolRequest, in UpdateProjectParams) (*sdkmcp.CallToolResult, any, error) {
	proj, err := decodeArgument(in.Project)
	if err != nil {
		return h.errorResult("update_project", err), nil, nil
	}
	stored, err := h.projects.Update(ctx, in.ID, proj)
	if err != nil {
		return h.errorResult("update_project", err), nil, nil
	}
	return jsonResult(stored)
}

func (h *toolHandlers) deleteProject(ctx context.Context, _ *sdkmcp.CallToolRequest, in DeleteProjectParams) (*sdkmcp.CallToolResult, any, error) {
	if err := h.projects.Delete(ctx, in.ID); err != nil {
		return h.errorResult("delete_project", err), nil, nil
	}
	return jsonResult(DeleteProjectResult{Status: "deleted", ID: in.ID})
}

// decodeArgument runs a tool's project argument through the schema so that
// tool callers get the same defaults and field paths as REST callers.
func decodeArgument(doc map[string]any) (project.Project, error) {
	if doc == nil {
		return project.Project{}, &project.ValidationError{Path: "project", Reason: "field required"}
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return project.Project{}, fmt.Errorf("encode project argument: %w", err)
	}
	return project.Decode(data)
}

func jsonResult(v any) (*sdkmcp.CallToolResult, any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, nil, fmt.Errorf("encode tool result: %w", err)
	}
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
	}, nil, nil
}

func (h *toolHandlers) errorResult(tool string, err error) *sdkmcp.CallToolResult {
	apiErr := MapError(err)
	if apiErr.Code == "INTERNAL" || apiErr.Code == "CORRUPT_STORAGE" {
		h.logger.Error("mcp tool failed", "tool", tool, "error", err)
	}
	data, _ := json.Marshal(apiErr)
	return &sdkmcp.CallToolResult{
		IsError: true,
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
	}
}
