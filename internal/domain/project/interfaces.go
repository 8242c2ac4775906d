package project

import "context"

// Repository provides whole-collection persistence for projects.
type Repository interface {
	LoadAll(ctx context.Context) ([]Project, error)
	Get(ctx context.Context, id string) (*Project, error)
	Upsert(ctx context.Context, proj Project) (*Project, error)
	Delete(ctx context.Context, id string) (bool, error)
}
