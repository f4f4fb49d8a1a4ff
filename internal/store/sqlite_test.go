package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veridian-group/esia-cli/internal/model"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func solarClassification() model.ClassificationResult {
	return model.ClassificationResult{
		ProjectType:     "energy_solar",
		Confidence:      1.0,
		MatchedKeywords: []string{"solar", "photovoltaic", "pv panel"},
		Sector:          "energy",
	}
}

func TestSQLite_CreateAndGetRun(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, "esia-solar.pdf", solarClassification())
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, model.RunStatusQueued, run.Status)

	got, err := st.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, "esia-solar.pdf", got.Document)
	assert.Equal(t, "energy_solar", got.Classification.ProjectType)
	assert.Equal(t, "energy", got.Classification.Sector)
	assert.Nil(t, got.Result)
}

func TestSQLite_GetRun_NotFound(t *testing.T) {
	st := newTestSQLiteStore(t)

	_, err := st.GetRun(context.Background(), "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestSQLite_UpdateRunStatus(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, "doc.pdf", solarClassification())
	require.NoError(t, err)

	require.NoError(t, st.UpdateRunStatus(ctx, run.ID, model.RunStatusRunning))

	got, err := st.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusRunning, got.Status)
}

func TestSQLite_UpdateRunStatus_NotFound(t *testing.T) {
	st := newTestSQLiteStore(t)

	err := st.UpdateRunStatus(context.Background(), "missing", model.RunStatusRunning)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestSQLite_UpdateRunResult(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, "doc.pdf", solarClassification())
	require.NoError(t, err)

	result := &model.RunResult{
		SectionsRouted: 12,
		FactsExtracted: 30,
		Usage:          model.TokenUsage{InputTokens: 50000, OutputTokens: 8000},
	}
	require.NoError(t, st.UpdateRunResult(ctx, run.ID, result))

	got, err := st.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusCompleted, got.Status)
	require.NotNil(t, got.Result)
	assert.Equal(t, 12, got.Result.SectionsRouted)
	assert.Equal(t, 30, got.Result.FactsExtracted)
	assert.Equal(t, 50000, got.Result.Usage.InputTokens)
}

func TestSQLite_ListRuns_FilterByStatus(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	r1, err := st.CreateRun(ctx, "a.pdf", solarClassification())
	require.NoError(t, err)
	_, err = st.CreateRun(ctx, "b.pdf", solarClassification())
	require.NoError(t, err)

	require.NoError(t, st.UpdateRunStatus(ctx, r1.ID, model.RunStatusFailed))

	failed, err := st.ListRuns(ctx, RunFilter{Status: model.RunStatusFailed})
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Equal(t, r1.ID, failed[0].ID)

	all, err := st.ListRuns(ctx, RunFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestSQLite_ListRuns_FilterByDocument(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	_, err := st.CreateRun(ctx, "a.pdf", solarClassification())
	require.NoError(t, err)
	_, err = st.CreateRun(ctx, "b.pdf", solarClassification())
	require.NoError(t, err)

	runs, err := st.ListRuns(ctx, RunFilter{Document: "b.pdf"})
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "b.pdf", runs[0].Document)
}

func TestSQLite_SaveAndListFacts(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, "doc.pdf", solarClassification())
	require.NoError(t, err)

	sections := []model.SectionExtraction{
		{
			Section: "2.0 Project Description",
			Page:    5,
			Facts: []model.DomainFacts{
				{
					DomainKey:  "project_description",
					Confidence: 0.92,
					Fields:     model.Fields{"capacity_mw": 120.0, "area_ha": "310"},
				},
			},
		},
		{
			Section: "5.1 Noise",
			Page:    40,
			Facts: []model.DomainFacts{
				{DomainKey: "noise", Confidence: 0.81, Failed: true, FailReason: "api timeout"},
			},
		},
	}
	require.NoError(t, st.SaveSectionFacts(ctx, run.ID, sections))

	facts, err := st.ListFacts(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, facts, 2)

	assert.Equal(t, "2.0 Project Description", facts[0].Section)
	assert.Equal(t, "project_description", facts[0].DomainKey)
	assert.InDelta(t, 0.92, facts[0].Confidence, 1e-9)
	assert.Equal(t, 120.0, facts[0].Fields["capacity_mw"])
	assert.False(t, facts[0].Failed)

	assert.Equal(t, "noise", facts[1].DomainKey)
	assert.True(t, facts[1].Failed)
	assert.Equal(t, "api timeout", facts[1].FailReason)
	assert.Nil(t, facts[1].Fields)
}

func TestSQLite_SaveSectionFacts_Empty(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, "doc.pdf", solarClassification())
	require.NoError(t, err)

	require.NoError(t, st.SaveSectionFacts(ctx, run.ID, nil))

	facts, err := st.ListFacts(ctx, run.ID)
	require.NoError(t, err)
	assert.Empty(t, facts)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), "mysql", "dsn")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown driver")
}

func TestOpen_DefaultsToSQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "open.db")
	st, err := Open(context.Background(), "", dbPath)
	require.NoError(t, err)
	defer st.Close() //nolint:errcheck

	_, ok := st.(*SQLiteStore)
	assert.True(t, ok)
}
