// Package service contains the query execution gateway against the
// Supabase Postgres backend.
package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/hussainashraf/sales-analytics-ai-application/config"
	"github.com/hussainashraf/sales-analytics-ai-application/models"
)

// ErrFunctionMissing indicates the execute_sql RPC function has not
// been installed in the target database.
var ErrFunctionMissing = errors.New("RPC function 'execute_sql' not found")

type PostgresService struct {
	db *sql.DB
}

func NewPostgresService(cfg config.PostgresConfig) (*PostgresService, error) {
	if cfg.Host == "" || cfg.Database == "" {
		return nil, fmt.Errorf("Postgres configuration is incomplete")
	}

	db, err := sql.Open("pgx", buildConnectionString(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open Postgres connection: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		// Log a warning but do not fail service initialization.
		// This allows the application to start even if the database
		// is temporarily unavailable.
		log.Printf("Warning: failed to ping Postgres during initialization: %v", err)
	}

	return &PostgresService{db: db}, nil
}

func buildConnectionString(cfg config.PostgresConfig) string {
	return fmt.Sprintf("host=%s port=%s dbname=%s user=%s password=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.Database, cfg.User, cfg.Password, cfg.SSLMode)
}

func (s *PostgresService) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *PostgresService) IsConnected() bool {
	if s.db == nil {
		return false
	}
	return s.db.Ping() == nil
}

// ExecuteQuery runs the query through the execute_sql RPC function
// (json_agg over the generated statement) and decodes the JSON payload
// into rows. A NULL payload (query matched nothing) comes back as an
// empty row set, never nil.
func (s *PostgresService) ExecuteQuery(ctx context.Context, query string) ([]models.Row, error) {
	if s.db == nil {
		return nil, fmt.Errorf("Postgres connection is not initialized")
	}

	log.Printf("[SQL] Executing: %s", query)

	var payload sql.NullString
	err := s.db.QueryRowContext(ctx, "SELECT execute_sql($1)::text", query).Scan(&payload)
	if err != nil {
		if isUndefinedFunction(err) {
			return nil, fmt.Errorf("%w: please run setup_supabase_rpc.sql in your Supabase SQL Editor to install it: %v", ErrFunctionMissing, err)
		}
		return nil, fmt.Errorf("error executing SQL: %w", err)
	}

	rows, err := decodeRows(payload)
	if err != nil {
		return nil, err
	}
	log.Printf("[SQL] Query returned %d rows", len(rows))
	return rows, nil
}

// decodeRows parses the json_agg payload. NULL and the literal "null"
// both mean an empty result.
func decodeRows(payload sql.NullString) ([]models.Row, error) {
	if !payload.Valid || payload.String == "" || payload.String == "null" {
		return []models.Row{}, nil
	}
	var rows []models.Row
	if err := json.Unmarshal([]byte(payload.String), &rows); err == nil {
		if rows == nil {
			rows = []models.Row{}
		}
		return rows, nil
	}
	// json_agg always yields an array, but tolerate a bare object in
	// case the RPC was customized to return a single record.
	var single models.Row
	if err := json.Unmarshal([]byte(payload.String), &single); err != nil {
		return nil, fmt.Errorf("error decoding SQL result: %w", err)
	}
	return []models.Row{single}, nil
}

// isUndefinedFunction reports SQLSTATE 42883 (undefined_function),
// the signature of a missing execute_sql RPC.
func isUndefinedFunction(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "42883"
}
