package assets

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/easelhq/easel/asset"
	"github.com/easelhq/easel/storage/catalog"
)

func seedEntry(cs *stubCatalogStore, id, projectID string) catalog.Entry {
	entry := catalog.Entry{
		Asset: asset.Asset{
			ID:        id,
			Name:      "https://media.example.org/" + id + ".png",
			Format:    "png",
			Type:      asset.TypeImage,
			ProjectID: projectID,
		},
		Location: "https://media.example.org/" + id + ".png",
		SHA256:   "abc123",
	}

	if cs.entries == nil {
		cs.entries = map[string]catalog.Entry{}
	}
	cs.entries[id] = entry
	return entry
}

func TestHandleAssetList_Success(t *testing.T) {
	st := newState()
	cs := st.Catalog.(*stubCatalogStore)
	seedEntry(cs, "asset-1", "proj-1")
	seedEntry(cs, "asset-2", "proj-1")
	seedEntry(cs, "asset-3", "proj-2")

	req := httptest.NewRequest(http.MethodGet, "/assets?project_id=proj-1", nil)
	req = withScopes(req)

	rr := httptest.NewRecorder()
	HandleAssetList(st).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var got []catalog.Entry
	if err := json.NewDecoder(rr.Body).Decode(&got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 entries for proj-1, got %d", len(got))
	}
}

func TestHandleAssetList_RequiresProjectID(t *testing.T) {
	st := newState()

	req := httptest.NewRequest(http.MethodGet, "/assets", nil)
	req = withScopes(req)

	rr := httptest.NewRecorder()
	HandleAssetList(st).ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without project_id, got %d", rr.Code)
	}
}

func TestHandleAssetList_StoreError(t *testing.T) {
	st := newState()
	st.Catalog = &stubCatalogStore{listErr: errors.New("boom")}

	req := httptest.NewRequest(http.MethodGet, "/assets?project_id=proj-1", nil)
	req = withScopes(req)

	rr := httptest.NewRecorder()
	HandleAssetList(st).ServeHTTP(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 on store error, got %d", rr.Code)
	}
}

func TestHandleAssetGet_Success(t *testing.T) {
	st := newState()
	cs := st.Catalog.(*stubCatalogStore)
	want := seedEntry(cs, "asset-1", "proj-1")

	req := httptest.NewRequest(http.MethodGet, "/assets/asset-1", nil)
	req.SetPathValue("id", "asset-1")
	req = withScopes(req)

	rr := httptest.NewRecorder()
	HandleAssetGet(st).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var got catalog.Entry
	if err := json.NewDecoder(rr.Body).Decode(&got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.Asset.ID != want.Asset.ID || got.Location != want.Location {
		t.Fatalf("unexpected entry %+v", got)
	}
}

func TestHandleAssetGet_NotFound(t *testing.T) {
	st := newState()

	req := httptest.NewRequest(http.MethodGet, "/assets/missing", nil)
	req.SetPathValue("id", "missing")
	req = withScopes(req)

	rr := httptest.NewRecorder()
	HandleAssetGet(st).ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}
