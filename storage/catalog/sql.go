package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/easelhq/easel/config"
)

type placeholderStyle int

const (
	placeholderQuestion placeholderStyle = iota
	placeholderDollar
)

type SQLCatalogStore struct {
	cfg         *config.SQLCatalogStrategy
	db          *sql.DB
	table       string
	placeholder placeholderStyle
}

func NewSQLCatalogStore(cfg *config.SQLCatalogStrategy) (*SQLCatalogStore, error) {
	store, err := newSQLCatalogStoreWithDB(cfg, nil)
	if err != nil {
		return nil, err
	}

	driverName, err := resolveSQLDriverName(cfg.Driver)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driverName, cfg.DSN)
	if err != nil {
		return nil, err
	}

	store.db = db

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := store.initSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

func newSQLCatalogStoreWithDB(cfg *config.SQLCatalogStrategy, db *sql.DB) (*SQLCatalogStore, error) {
	if cfg == nil {
		return nil, fmt.Errorf("catalog sql config is nil")
	}

	placeholder, err := detectPlaceholderStyle(cfg.Driver)
	if err != nil {
		return nil, err
	}

	return &SQLCatalogStore{
		cfg:         cfg,
		db:          db,
		table:       deriveTableName(cfg.TablePrefix),
		placeholder: placeholder,
	}, nil
}

func detectPlaceholderStyle(driver string) (placeholderStyle, error) {
	driverName, err := resolveSQLDriverName(driver)
	if err != nil {
		return placeholderQuestion, err
	}

	if driverName == "pgx" {
		return placeholderDollar, nil
	}

	return placeholderQuestion, nil
}

func resolveSQLDriverName(driver string) (string, error) {
	switch strings.ToLower(driver) {
	case "postgres":
		return "pgx", nil
	case "mysql":
		return "mysql", nil
	default:
		return "", fmt.Errorf("unsupported sql driver %q", driver)
	}
}

func (cs *SQLCatalogStore) initSchema(ctx context.Context) error {
	_, err := cs.db.ExecContext(ctx, cs.schemaQuery())
	return err
}

func (cs *SQLCatalogStore) schemaQuery() string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
id VARCHAR(64) PRIMARY KEY,
project_id VARCHAR(64) NOT NULL,
location TEXT NOT NULL,
doc TEXT NOT NULL,
updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`, cs.table)
}

// Save inserts the entry, or overwrites the stored record when the asset
// id is already cataloged. The exists check and the write share one
// transaction so concurrent saves of the same id cannot race.
func (cs *SQLCatalogStore) Save(ctx context.Context, entry Entry) error {
	if entry.Asset.ID == "" {
		return fmt.Errorf("catalog entry has no asset id")
	}

	payload, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	tx, err := cs.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		// Rollback is safe to call after Commit; it will return sql.ErrTxDone
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			log.Printf("unexpected error during transaction rollback in Save: %v", rbErr)
		}
	}()

	row := tx.QueryRowContext(ctx, cs.existsQuery(), entry.Asset.ID)

	var found int
	err = row.Scan(&found)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return err
	}

	if errors.Is(err, sql.ErrNoRows) {
		if _, err := tx.ExecContext(ctx, cs.insertQuery(), entry.Asset.ID, entry.Asset.ProjectID, entry.Location, string(payload)); err != nil {
			return err
		}
	} else {
		if _, err := tx.ExecContext(ctx, cs.updateQuery(), entry.Asset.ProjectID, entry.Location, string(payload), entry.Asset.ID); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (cs *SQLCatalogStore) Get(ctx context.Context, id string) (*Entry, error) {
	row := cs.db.QueryRowContext(ctx, cs.selectQuery(), id)

	var raw string
	if err := row.Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var entry Entry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		return nil, err
	}

	return &entry, nil
}

func (cs *SQLCatalogStore) List(ctx context.Context, projectID string) ([]Entry, error) {
	rows, err := cs.db.QueryContext(ctx, cs.listQuery(), projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}

		var entry Entry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			return nil, err
		}

		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

func (cs *SQLCatalogStore) Delete(ctx context.Context, id string) error {
	res, err := cs.db.ExecContext(ctx, cs.deleteQuery(), id)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

func (cs *SQLCatalogStore) insertQuery() string {
	return fmt.Sprintf(
		"INSERT INTO %s (id, project_id, location, doc, updated_at) VALUES (%s, %s, %s, %s, NOW())",
		cs.table,
		cs.placeholderFor(1),
		cs.placeholderFor(2),
		cs.placeholderFor(3),
		cs.placeholderFor(4),
	)
}

func (cs *SQLCatalogStore) updateQuery() string {
	return fmt.Sprintf(
		"UPDATE %s SET project_id = %s, location = %s, doc = %s, updated_at = NOW() WHERE id = %s",
		cs.table,
		cs.placeholderFor(1),
		cs.placeholderFor(2),
		cs.placeholderFor(3),
		cs.placeholderFor(4),
	)
}

func (cs *SQLCatalogStore) selectQuery() string {
	return fmt.Sprintf("SELECT doc FROM %s WHERE id = %s", cs.table, cs.placeholderFor(1))
}

func (cs *SQLCatalogStore) listQuery() string {
	return fmt.Sprintf("SELECT doc FROM %s WHERE project_id = %s ORDER BY updated_at DESC", cs.table, cs.placeholderFor(1))
}

func (cs *SQLCatalogStore) existsQuery() string {
	return fmt.Sprintf("SELECT 1 FROM %s WHERE id = %s", cs.table, cs.placeholderFor(1))
}

func (cs *SQLCatalogStore) deleteQuery() string {
	return fmt.Sprintf("DELETE FROM %s WHERE id = %s", cs.table, cs.placeholderFor(1))
}

func (cs *SQLCatalogStore) placeholderFor(index int) string {
	if cs.placeholder == placeholderDollar {
		return fmt.Sprintf("$%d", index)
	}

	return "?"
}
