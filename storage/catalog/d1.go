package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	cloudflare "github.com/cloudflare/cloudflare-go/v6"
	cfd1 "github.com/cloudflare/cloudflare-go/v6/d1"
	"github.com/cloudflare/cloudflare-go/v6/option"

	"github.com/easelhq/easel/config"
)

// D1CatalogStore implements Store using Cloudflare D1 via the HTTP API.
// It mirrors the schema of SQLCatalogStore to keep parity across backends.
type D1CatalogStore struct {
	cfg    *config.D1CatalogStrategy
	client *cloudflare.Client
	table  string
}

// NewD1CatalogStore builds a store and ensures the schema exists.
func NewD1CatalogStore(cfg *config.D1CatalogStrategy) (*D1CatalogStore, error) {
	return newD1CatalogStoreWithClient(cfg, nil)
}

// newD1CatalogStoreWithClient creates a D1 store with a custom HTTP client.
// This is used for testing to inject a mock HTTP client.
func newD1CatalogStoreWithClient(cfg *config.D1CatalogStrategy, client *http.Client) (*D1CatalogStore, error) {
	if cfg == nil {
		return nil, fmt.Errorf("catalog d1 config is nil")
	}

	store := &D1CatalogStore{
		cfg:    cfg,
		client: buildD1Client(cfg, client),
		table:  deriveTableName(cfg.TablePrefix),
	}

	if err := store.initSchema(context.Background()); err != nil {
		return nil, err
	}

	return store, nil
}

// buildD1Client creates a Cloudflare client configured with API token and optional custom endpoint.
// The httpClient parameter is used for testing; pass nil for production use.
func buildD1Client(cfg *config.D1CatalogStrategy, httpClient *http.Client) *cloudflare.Client {
	opts := []option.RequestOption{option.WithAPIToken(strings.TrimSpace(cfg.APIToken))}

	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}

	if base := strings.TrimSpace(cfg.Endpoint); base != "" {
		opts = append(opts, option.WithBaseURL(strings.TrimSuffix(base, "/")))
	}

	return cloudflare.NewClient(opts...)
}

// initSchema ensures the assets table exists in the D1 database.
// This also serves as a health check, validating connectivity and authentication.
func (cs *D1CatalogStore) initSchema(ctx context.Context) error {
	_, err := cs.executeQuery(ctx, cs.schemaQuery(), nil)
	if err != nil {
		return fmt.Errorf("d1 initialization failed (check account_id, database_id, and api_token): %w", err)
	}
	return nil
}

// schemaQuery returns the CREATE TABLE statement for the assets table.
func (cs *D1CatalogStore) schemaQuery() string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
id TEXT PRIMARY KEY,
project_id TEXT NOT NULL,
location TEXT NOT NULL,
doc TEXT NOT NULL,
updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`, cs.table)
}

// insertQuery builds the SQL for cataloging a new asset.
func (cs *D1CatalogStore) insertQuery() string {
	return fmt.Sprintf("INSERT INTO %s (id, project_id, location, doc, updated_at) VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)", cs.table)
}

// updateQuery builds the SQL for overwriting an existing asset record.
func (cs *D1CatalogStore) updateQuery() string {
	return fmt.Sprintf("UPDATE %s SET project_id = ?, location = ?, doc = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?", cs.table)
}

// selectQuery builds the SQL for retrieving an asset record by id.
func (cs *D1CatalogStore) selectQuery() string {
	return fmt.Sprintf("SELECT doc FROM %s WHERE id = ? LIMIT 1", cs.table)
}

// listQuery builds the SQL for listing a project's asset records.
func (cs *D1CatalogStore) listQuery() string {
	return fmt.Sprintf("SELECT doc FROM %s WHERE project_id = ? ORDER BY updated_at DESC", cs.table)
}

// existsQuery builds the SQL for checking if an asset id exists.
func (cs *D1CatalogStore) existsQuery() string {
	return fmt.Sprintf("SELECT 1 FROM %s WHERE id = ? LIMIT 1", cs.table)
}

// deleteQuery builds the SQL for removing an asset record.
func (cs *D1CatalogStore) deleteQuery() string {
	return fmt.Sprintf("DELETE FROM %s WHERE id = ?", cs.table)
}

func (cs *D1CatalogStore) Save(ctx context.Context, entry Entry) error {
	if entry.Asset.ID == "" {
		return fmt.Errorf("catalog entry has no asset id")
	}

	payload, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	rows, err := cs.query(ctx, cs.existsQuery(), entry.Asset.ID)
	if err != nil {
		return err
	}

	if len(rows) == 0 {
		_, err = cs.executeQuery(ctx, cs.insertQuery(), []any{entry.Asset.ID, entry.Asset.ProjectID, entry.Location, string(payload)})
		return err
	}

	_, err = cs.executeQuery(ctx, cs.updateQuery(), []any{entry.Asset.ProjectID, entry.Location, string(payload), entry.Asset.ID})
	return err
}

func (cs *D1CatalogStore) Get(ctx context.Context, id string) (*Entry, error) {
	rows, err := cs.query(ctx, cs.selectQuery(), id)
	if err != nil {
		return nil, err
	}

	if len(rows) == 0 {
		return nil, ErrNotFound
	}

	return entryFromRow(rows[0])
}

func (cs *D1CatalogStore) List(ctx context.Context, projectID string) ([]Entry, error) {
	rows, err := cs.query(ctx, cs.listQuery(), projectID)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(rows))
	for _, row := range rows {
		entry, err := entryFromRow(row)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}

	return entries, nil
}

func (cs *D1CatalogStore) Delete(ctx context.Context, id string) error {
	rows, err := cs.query(ctx, cs.existsQuery(), id)
	if err != nil {
		return err
	}

	if len(rows) == 0 {
		return ErrNotFound
	}

	_, err = cs.executeQuery(ctx, cs.deleteQuery(), []any{id})
	return err
}

// entryFromRow unmarshals the doc column of a result row.
func entryFromRow(row map[string]any) (*Entry, error) {
	raw, ok := row["doc"].(string)
	if !ok || raw == "" {
		return nil, fmt.Errorf("doc column missing or not a string")
	}

	var entry Entry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		return nil, err
	}

	return &entry, nil
}

func (cs *D1CatalogStore) query(ctx context.Context, sql string, params ...any) ([]map[string]any, error) {
	return cs.executeQuery(ctx, sql, params)
}

// executeQuery sends a SQL query to the D1 database and returns the result rows.
// Returns nil rows (no error) when the query succeeds but produces no results.
func (cs *D1CatalogStore) executeQuery(ctx context.Context, sql string, params []any) ([]map[string]any, error) {
	body := cfd1.DatabaseQueryParamsBodyD1SingleQuery{Sql: cloudflare.F(sql)}
	if len(params) > 0 {
		body.Params = cloudflare.F(convertParams(params))
	}

	resp, err := cs.client.D1.Database.Query(ctx, cs.cfg.DatabaseID, cfd1.DatabaseQueryParams{
		AccountID: cloudflare.F(strings.TrimSpace(cs.cfg.AccountID)),
		Body:      body,
	})
	if err != nil {
		return nil, err
	}

	if resp == nil || len(resp.Result) == 0 {
		return nil, nil
	}

	result := resp.Result[0]
	if !result.Success {
		return nil, fmt.Errorf("d1 query execution failed")
	}

	rows := make([]map[string]any, 0, len(result.Results))
	for _, r := range result.Results {
		m, ok := r.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("unexpected row type %T", r)
		}
		rows = append(rows, m)
	}

	return rows, nil
}

// convertParams converts query parameters to D1's string-based parameter format.
// Booleans are converted to "1" (true) or "0" (false); all other types use Sprint.
func convertParams(params []any) []string {
	if len(params) == 0 {
		return nil
	}

	out := make([]string, 0, len(params))
	for _, p := range params {
		switch v := p.(type) {
		case bool:
			if v {
				out = append(out, "1")
			} else {
				out = append(out, "0")
			}
		default:
			out = append(out, fmt.Sprint(p))
		}
	}

	return out
}
