// Package repositories opens the local replica and the metadata store for
// the configured driver.
package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"

	"github.com/dgraph-io/badger/v4"
	"github.com/dmitrijs2005/gophdocs/internal/client/migrations"
	"github.com/dmitrijs2005/gophdocs/internal/client/repositories/documents"
	"github.com/dmitrijs2005/gophdocs/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/gophdocs/internal/dbx"
	"github.com/dmitrijs2005/gophdocs/internal/filex"

	_ "modernc.org/sqlite"
)

// Store drivers.
const (
	DriverSQLite = "sqlite"
	DriverBadger = "badger"
)

type Repositories struct {
	Documents documents.Repository
	Metadata  metadata.Repository

	close func() error
}

func (r *Repositories) Close() error {
	if r.close == nil {
		return nil
	}
	return r.close()
}

// Open prepares dataDir and opens the stores for driver.
func Open(ctx context.Context, driver, dataDir string) (*Repositories, error) {
	dir, err := filex.EnsureDir(dataDir)
	if err != nil {
		return nil, err
	}

	switch driver {
	case DriverSQLite, "":
		return openSQLite(ctx, "file:"+filepath.Join(dir, "gophdocs.db"))
	case DriverBadger:
		return openBadger(filepath.Join(dir, "badger"))
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}

func openSQLite(ctx context.Context, dsn string) (*Repositories, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// one writer keeps SQLITE_BUSY away from the persister goroutine
	db.SetMaxOpenConns(1)

	if err := dbx.Migrate(ctx, db, "sqlite3", migrations.Migrations); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Repositories{
		Documents: documents.NewSQLiteRepository(db),
		Metadata:  metadata.NewSQLiteRepository(db),
		close:     db.Close,
	}, nil
}

func openBadger(path string) (*Repositories, error) {
	db, err := badger.Open(badger.DefaultOptions(path).WithLogger(nil))
	if err != nil {
		return nil, fmt.Errorf("open badger %s: %w", path, err)
	}

	return &Repositories{
		Documents: documents.NewBadgerRepository(db),
		Metadata:  metadata.NewBadgerRepository(db),
		close:     db.Close,
	}, nil
}
