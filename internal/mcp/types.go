package mcp

type GetProjectParams struct {
	ID string `json:"id" jsonschema:"Project ID"`
}

type CreateProjectParams struct {
	Project map[string]any `json:"project" jsonschema:"Full project document including tiers.T0_foundation and tiers.T1_core"`
}

type UpdateProjectParams struct {
	ID      string         `json:"id" jsonschema:"ID of the project to replace"`
	Project map[string]any `json:"project" jsonschema:"Full replacement document; its id must equal the id argument"`
}

type DeleteProjectParams struct {
	ID string `json:"id" jsonschema:"Project ID"`
}

type ListProjectsParams struct{}

type DeleteProjectResult struct {
	Status string `json:"status"`
	ID     string `json:"id"`
}
