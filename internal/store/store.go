// Package store persists extraction runs and per-section facts. Two backends
// are provided: SQLite for single-operator CLI use and PostgreSQL for shared
// deployments.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/veridian-group/esia-cli/internal/model"
)

// ErrRunNotFound is returned when a run ID does not exist in the store.
var ErrRunNotFound = eris.New("run not found")

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Status   model.RunStatus `json:"status,omitempty"`
	Document string          `json:"document,omitempty"`
	Limit    int             `json:"limit,omitempty"`
	Offset   int             `json:"offset,omitempty"`
}

// FactRow is one persisted (section, domain) extraction outcome.
type FactRow struct {
	RunID      string       `json:"run_id"`
	Section    string       `json:"section"`
	Page       int          `json:"page"`
	DomainKey  string       `json:"domain_key"`
	Confidence float64      `json:"confidence"`
	Fields     model.Fields `json:"fields,omitempty"`
	Failed     bool         `json:"failed,omitempty"`
	FailReason string       `json:"fail_reason,omitempty"`
}

// Store defines the persistence interface for extraction runs.
type Store interface {
	// Runs
	CreateRun(ctx context.Context, document string, classification model.ClassificationResult) (*model.Run, error)
	UpdateRunStatus(ctx context.Context, runID string, status model.RunStatus) error
	UpdateRunResult(ctx context.Context, runID string, result *model.RunResult) error
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)

	// Facts
	SaveSectionFacts(ctx context.Context, runID string, sections []model.SectionExtraction) error
	ListFacts(ctx context.Context, runID string) ([]FactRow, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// Open constructs a Store for the configured driver. An empty driver
// defaults to SQLite.
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	switch driver {
	case "", "sqlite":
		return NewSQLite(dsn)
	case "postgres":
		return NewPostgres(ctx, dsn, nil)
	default:
		return nil, eris.Errorf("store: unknown driver %q", driver)
	}
}

// factRows flattens section extractions into insertable fact rows,
// preserving section order followed by per-section fact order.
func factRows(sections []model.SectionExtraction) []FactRow {
	var rows []FactRow
	for _, sec := range sections {
		for _, f := range sec.Facts {
			rows = append(rows, FactRow{
				Section:    sec.Section,
				Page:       sec.Page,
				DomainKey:  f.DomainKey,
				Confidence: f.Confidence,
				Fields:     f.Fields,
				Failed:     f.Failed,
				FailReason: f.FailReason,
			})
		}
	}
	return rows
}
