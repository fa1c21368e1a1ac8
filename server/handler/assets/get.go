package assets

import (
	"net/http"

	"github.com/easelhq/easel/server/handler/common"
	"github.com/easelhq/easel/server/resp"
	"github.com/easelhq/easel/server/state"
)

func HandleAssetList(st *state.EaselState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID := r.URL.Query().Get("project_id")
		if projectID == "" {
			resp.WriteInvalidRequest(w, "asset listing requires a project_id")
			return
		}

		entries, err := st.Catalog.List(r.Context(), projectID)
		if err != nil {
			common.LogAndWriteError(w, r, "list assets", err)
			return
		}

		resp.WriteOK(w, entries)
	}
}

func HandleAssetGet(st *state.EaselState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		if id == "" {
			resp.WriteInvalidRequest(w, "asset id is required")
			return
		}

		entry, err := st.Catalog.Get(r.Context(), id)
		if err != nil {
			common.LogAndWriteError(w, r, "get asset", err)
			return
		}

		resp.WriteOK(w, entry)
	}
}
