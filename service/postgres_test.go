package service

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRows(t *testing.T) {
	tests := []struct {
		name     string
		payload  sql.NullString
		wantRows int
		wantErr  bool
	}{
		{
			name:     "null payload normalizes to empty",
			payload:  sql.NullString{},
			wantRows: 0,
		},
		{
			name:     "literal null normalizes to empty",
			payload:  sql.NullString{String: "null", Valid: true},
			wantRows: 0,
		},
		{
			name:     "empty array",
			payload:  sql.NullString{String: "[]", Valid: true},
			wantRows: 0,
		},
		{
			name:     "array of records",
			payload:  sql.NullString{String: `[{"sum": 1000}, {"sum": 2000}]`, Valid: true},
			wantRows: 2,
		},
		{
			name:     "single object tolerated",
			payload:  sql.NullString{String: `{"sum": 1000}`, Valid: true},
			wantRows: 1,
		},
		{
			name:    "malformed payload",
			payload: sql.NullString{String: `{"sum":`, Valid: true},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := decodeRows(tt.payload)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, rows, "rows must never be nil on success")
			assert.Len(t, rows, tt.wantRows)
		})
	}
}

func TestDecodeRowsValues(t *testing.T) {
	rows, err := decodeRows(sql.NullString{String: `[{"sum": 1000}]`, Valid: true})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, float64(1000), rows[0]["sum"])
}

func TestIsUndefinedFunction(t *testing.T) {
	assert.True(t, isUndefinedFunction(&pgconn.PgError{Code: "42883"}))
	assert.True(t, isUndefinedFunction(fmt.Errorf("query failed: %w", &pgconn.PgError{Code: "42883"})))
	assert.False(t, isUndefinedFunction(&pgconn.PgError{Code: "42P01"}))
	assert.False(t, isUndefinedFunction(errors.New("connection refused")))
}
