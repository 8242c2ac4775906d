// Package metrics provides Prometheus instrumentation for project storage.
package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/worldos/console/internal/domain/project"
	"github.com/worldos/console/internal/repository"
)

var (
	// StoreOperationsTotal counts repository calls.
	// Labels: op (load_all, get, upsert, delete), result (success, not_found, error)
	StoreOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "worldos",
			Subsystem: "store",
			Name:      "operations_total",
			Help:      "Total number of project store operations",
		},
		[]string{"op", "result"},
	)

	// StoreOperationDuration tracks how long each operation takes, including
	// the full collection load and rewrite.
	StoreOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "worldos",
			Subsystem: "store",
			Name:      "operation_duration_seconds",
			Help:      "Duration of project store operations in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"op"},
	)

	// ProjectsTotal is the collection size seen by the most recent full load.
	ProjectsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "worldos",
			Subsystem: "store",
			Name:      "projects",
			Help:      "Number of projects in the collection at the last full load",
		},
	)
)

// Repository wraps a project.Repository and records metrics for every call.
type Repository struct {
	next project.Repository
}

var _ project.Repository = (*Repository)(nil)

// Instrument returns repo wrapped with metrics.
func Instrument(repo project.Repository) *Repository {
	return &Repository{next: repo}
}

func (r *Repository) LoadAll(ctx context.Context) ([]project.Project, error) {
	defer observe("load_all", time.Now())
	projects, err := r.next.LoadAll(ctx)
	record("load_all", err)
	if err == nil {
		ProjectsTotal.Set(float64(len(projects)))
	}
	return projects, err
}

func (r *Repository) Get(ctx context.Context, id string) (*project.Project, error) {
	defer observe("get", time.Now())
	proj, err := r.next.Get(ctx, id)
	record("get", err)
	return proj, err
}

func (r *Repository) Upsert(ctx context.Context, proj project.Project) (*project.Project, error) {
	defer observe("upsert", time.Now())
	stored, err := r.next.Upsert(ctx, proj)
	record("upsert", err)
	return stored, err
}

func (r *Repository) Delete(ctx context.Context, id string) (bool, error) {
	defer observe("delete", time.Now())
	ok, err := r.next.Delete(ctx, id)
	switch {
	case err != nil:
		record("delete", err)
	case !ok:
		StoreOperationsTotal.WithLabelValues("delete", "not_found").Inc()
	default:
		record("delete", nil)
	}
	return ok, err
}

func observe(op string, start time.Time) {
	StoreOperationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func record(op string, err error) {
	StoreOperationsTotal.WithLabelValues(op, resultLabel(err)).Inc()
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, repository.ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}
