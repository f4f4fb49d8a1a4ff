package db

import (
	"context"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopyFrom_EmptyRows(t *testing.T) {
	n, err := CopyFrom(context.TODO(), nil, "section_facts", []string{"id", "section"}, nil)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestCopyFrom_Success(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	cols := []string{"id", "section", "domain_key"}
	mock.ExpectCopyFrom(pgx.Identifier{"section_facts"}, cols).WillReturnResult(2)

	rows := [][]any{
		{"a", "2.0 Project Description", "project_description"},
		{"b", "5.1 Noise", "noise"},
	}
	n, err := CopyFrom(context.Background(), mock, "section_facts", cols, rows)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCopyFrom_Error(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	cols := []string{"id", "section"}
	mock.ExpectCopyFrom(pgx.Identifier{"section_facts"}, cols).WillReturnError(fmt.Errorf("copy failed"))

	_, err = CopyFrom(context.Background(), mock, "section_facts", cols, [][]any{{"a", "x"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "COPY INTO section_facts")
	assert.NoError(t, mock.ExpectationsWereMet())
}
