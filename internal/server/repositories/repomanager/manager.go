// Package repomanager opens the server's document store: PostgreSQL (via
// pgx, with goose migrations) when a DSN is configured, process memory
// otherwise.
package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/gophdocs/internal/dbx"
	"github.com/dmitrijs2005/gophdocs/internal/server/migrations"
	"github.com/dmitrijs2005/gophdocs/internal/server/repositories/documents"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Manager vends the document repository and owns its connection.
type Manager struct {
	db        *sql.DB
	documents documents.Repository
}

// sqlOpen and migrate are seams for testing.
var (
	sqlOpen = sql.Open
	migrate = dbx.Migrate
)

// Open connects to dsn, or builds an in-memory store when dsn is empty.
func Open(ctx context.Context, dsn string) (*Manager, error) {
	if dsn == "" {
		repo, err := documents.NewMemoryRepository()
		if err != nil {
			return nil, err
		}
		return &Manager{documents: repo}, nil
	}

	db, err := sqlOpen("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	m, err := newPostgresManager(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return m, nil
}

func newPostgresManager(ctx context.Context, db *sql.DB) (*Manager, error) {
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("db ping error: %w", err)
	}
	if err := migrate(ctx, db, "postgres", migrations.Migrations); err != nil {
		return nil, err
	}
	return &Manager{db: db, documents: documents.NewPostgresRepository(db)}, nil
}

func (m *Manager) Documents() documents.Repository {
	return m.documents
}

// Conn is nil for the in-memory store.
func (m *Manager) Conn() *sql.DB {
	return m.db
}

func (m *Manager) Close() error {
	if m.db == nil {
		return nil
	}
	return m.db.Close()
}
