package store

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/veridian-group/esia-cli/internal/db"
	"github.com/veridian-group/esia-cli/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool db.Pool
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// preparedStatements lists queries to prepare on each new connection for
// faster execution of the most frequently used store operations.
var preparedStatements = map[string]string{
	"insert_run":        `INSERT INTO runs (id, document, classification, status, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6)`,
	"update_run_status": `UPDATE runs SET status = $1, updated_at = $2 WHERE id = $3`,
	"update_run_result": `UPDATE runs SET result = $1, status = $2, updated_at = $3 WHERE id = $4`,
	"get_run":           `SELECT id, document, classification, status, result, created_at, updated_at FROM runs WHERE id = $1`,
	"list_facts":        `SELECT run_id, section, page, domain_key, confidence, fields, failed, fail_reason FROM section_facts WHERE run_id = $1 ORDER BY seq`,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	// Apply pool sizing from config with sensible defaults.
	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	// Prepare frequently-used statements on each new connection.
	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}

	return &PostgresStore{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS runs (
	id             TEXT PRIMARY KEY,
	document       TEXT NOT NULL,
	classification JSONB NOT NULL,
	status         TEXT NOT NULL DEFAULT 'queued',
	result         JSONB,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS section_facts (
	id          TEXT PRIMARY KEY,
	run_id      TEXT NOT NULL REFERENCES runs(id),
	seq         INTEGER NOT NULL,
	section     TEXT NOT NULL,
	page        INTEGER NOT NULL,
	domain_key  TEXT NOT NULL,
	confidence  DOUBLE PRECISION NOT NULL,
	fields      JSONB,
	failed      BOOLEAN NOT NULL DEFAULT false,
	fail_reason TEXT,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
CREATE INDEX IF NOT EXISTS idx_runs_document ON runs(document);
CREATE INDEX IF NOT EXISTS idx_section_facts_run_id ON section_facts(run_id);
CREATE INDEX IF NOT EXISTS idx_section_facts_domain_key ON section_facts(domain_key);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) CreateRun(ctx context.Context, document string, classification model.ClassificationResult) (*model.Run, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	classJSON, err := json.Marshal(classification)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: marshal classification")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO runs (id, document, classification, status, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		id, document, classJSON, string(model.RunStatusQueued), now, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert run")
	}

	return &model.Run{
		ID:             id,
		Document:       document,
		Status:         model.RunStatusQueued,
		Classification: classification,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

func (s *PostgresStore) UpdateRunStatus(ctx context.Context, runID string, status model.RunStatus) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE runs SET status = $1, updated_at = $2 WHERE id = $3`,
		string(status), time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update run status %s", runID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Wrapf(ErrRunNotFound, "%s", runID)
	}
	return nil
}

func (s *PostgresStore) UpdateRunResult(ctx context.Context, runID string, result *model.RunResult) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal result")
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE runs SET result = $1, status = $2, updated_at = $3 WHERE id = $4`,
		resultJSON, string(model.RunStatusCompleted), time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update run result %s", runID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Wrapf(ErrRunNotFound, "%s", runID)
	}
	return nil
}

func (s *PostgresStore) GetRun(ctx context.Context, runID string) (*model.Run, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, document, classification, status, result, created_at, updated_at FROM runs WHERE id = $1`,
		runID,
	)
	r, err := scanRunPg(row)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get run %s", runID)
	}
	return r, nil
}

func (s *PostgresStore) ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error) {
	query := `SELECT id, document, classification, status, result, created_at, updated_at FROM runs WHERE 1=1`
	var args []any

	if filter.Status != "" {
		args = append(args, string(filter.Status))
		query += ` AND status = $` + strconv.Itoa(len(args))
	}
	if filter.Document != "" {
		args = append(args, filter.Document)
		query += ` AND document = $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	args = append(args, limit)
	query += ` LIMIT $` + strconv.Itoa(len(args))

	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += ` OFFSET $` + strconv.Itoa(len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list runs")
	}
	defer rows.Close()

	var runs []model.Run
	for rows.Next() {
		r, err := scanRunPg(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: list runs scan")
		}
		runs = append(runs, *r)
	}
	return runs, eris.Wrap(rows.Err(), "postgres: list runs iterate")
}

func (s *PostgresStore) SaveSectionFacts(ctx context.Context, runID string, sections []model.SectionExtraction) error {
	facts := factRows(sections)
	if len(facts) == 0 {
		return nil
	}

	now := time.Now().UTC()
	rows := make([][]any, 0, len(facts))
	for i, f := range facts {
		var fieldsJSON []byte
		if len(f.Fields) > 0 {
			b, err := json.Marshal(f.Fields)
			if err != nil {
				return eris.Wrapf(err, "postgres: marshal fields for %s/%s", f.Section, f.DomainKey)
			}
			fieldsJSON = b
		}
		rows = append(rows, []any{
			uuid.New().String(), runID, i, f.Section, f.Page, f.DomainKey,
			f.Confidence, fieldsJSON, f.Failed, f.FailReason, now,
		})
	}

	_, err := db.CopyFrom(ctx, s.pool, "section_facts",
		[]string{"id", "run_id", "seq", "section", "page", "domain_key", "confidence", "fields", "failed", "fail_reason", "created_at"},
		rows,
	)
	return eris.Wrapf(err, "postgres: save facts for run %s", runID)
}

func (s *PostgresStore) ListFacts(ctx context.Context, runID string) ([]FactRow, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT run_id, section, page, domain_key, confidence, fields, failed, fail_reason FROM section_facts WHERE run_id = $1 ORDER BY seq`,
		runID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list facts")
	}
	defer rows.Close()

	var facts []FactRow
	for rows.Next() {
		var f FactRow
		var fieldsJSON []byte
		var failReason *string
		if err := rows.Scan(&f.RunID, &f.Section, &f.Page, &f.DomainKey, &f.Confidence, &fieldsJSON, &f.Failed, &failReason); err != nil {
			return nil, eris.Wrap(err, "postgres: scan fact")
		}
		if len(fieldsJSON) > 0 {
			if err := json.Unmarshal(fieldsJSON, &f.Fields); err != nil {
				return nil, eris.Wrap(err, "postgres: unmarshal fields")
			}
		}
		if failReason != nil {
			f.FailReason = *failReason
		}
		facts = append(facts, f)
	}
	return facts, eris.Wrap(rows.Err(), "postgres: list facts iterate")
}

// scanRunPg scans a run row from a pgx row or rows cursor.
func scanRunPg(row scannable) (*model.Run, error) {
	var r model.Run
	var classJSON []byte
	var resultJSON []byte

	err := row.Scan(&r.ID, &r.Document, &classJSON, &r.Status, &resultJSON, &r.CreatedAt, &r.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, eris.Wrap(err, "scan run")
	}

	if err := json.Unmarshal(classJSON, &r.Classification); err != nil {
		return nil, eris.Wrap(err, "unmarshal classification")
	}
	if len(resultJSON) > 0 {
		r.Result = &model.RunResult{}
		if err := json.Unmarshal(resultJSON, r.Result); err != nil {
			return nil, eris.Wrap(err, "unmarshal result")
		}
	}
	return &r, nil
}
