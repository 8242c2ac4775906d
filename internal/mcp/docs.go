package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `worldos stores world-building projects. Each project is one JSON document with six tiers:
T0 foundation and T1 core (single objects), then lists of T2 modules, T3 characters,
T4 zones and T5 narrative beats.

Workflow:
1) Orient: call list_projects for ids and sizes.
2) Read: call get_project(id) before editing; writes replace the whole document.
3) Write: create_project(project) or update_project(id, project). Send the complete
   document. created_at is kept by the server on update; updated_at is always set by the server.
4) Errors come back as JSON with a code (INVALID_INPUT, ID_MISMATCH, PROJECT_NOT_FOUND,
   CORRUPT_STORAGE, INTERNAL) and, for INVALID_INPUT, the path of the offending field.

Docs:
- worldos://docs/tiers (field list for every tier)
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "worldos://docs/tiers",
		Name:        "docs_tiers",
		Title:       "Project tier schema",
		Description: "Fields of a project document and of every tier, with which ones are required.",
		Content: `# Project document

| field | type | notes |
|---|---|---|
| id | string | required, unique in the collection |
| name | string | required |
| type | string | novel, game, ttrpg, screenplay, other; defaults to other |
| description | string or null | |
| created_at | RFC 3339 timestamp | kept from the stored version on update |
| updated_at | RFC 3339 timestamp | set by the server on every write |
| tags | list of strings | defaults to [] |
| tiers | object | required |

Unknown fields are ignored. Optional fields that are absent come back as null.

## T0_foundation (required object)
canon_statement, non_canon_rules, physics_magic_rules, themes, tone, constraints.
All optional strings.

## T1_core (required object)
logline, setting_summary, core_conflict, signature_elements, protagonist_factions,
antagonistic_forces. All optional strings.

## T2_modules (list, defaults to [])
Required: id, name. Optional: category, summary (strings), importance (integer).

## T3_characters (list, defaults to [])
Required: id, name. Optional: role, race_profile, goals, flaws, relationships.

## T4_zones (list, defaults to [])
Required: id, name. Optional: type, summary, sensory_notes, key_conflicts.

## T5_narrative (list, defaults to [])
Required: id, title. Optional: kind, premise, beats, outcome.

## Validation errors
Paths use dots for object fields and brackets for list positions, for example
` + "`tiers.T2_modules[1].name`" + `.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
