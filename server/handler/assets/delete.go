package assets

import (
	"net/http"

	"github.com/easelhq/easel/server/auth"
	"github.com/easelhq/easel/server/handler/common"
	"github.com/easelhq/easel/server/resp"
	"github.com/easelhq/easel/server/state"
	"github.com/easelhq/easel/server/util"
)

// HandleAssetDelete removes an asset from the catalog along with its stored
// media. The catalog row is authoritative: a media deletion failure is logged
// and the catalog delete proceeds anyway.
func HandleAssetDelete(st *state.EaselState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !auth.RequestHasScope(r, auth.ScopeDelete) {
			resp.WriteInsufficientScope(w, "no delete scope")
			return
		}

		id := r.PathValue("id")
		if id == "" {
			resp.WriteInvalidRequest(w, "asset id is required")
			return
		}

		entry, err := st.Catalog.Get(r.Context(), id)
		if err != nil {
			common.LogAndWriteError(w, r, "delete asset", err)
			return
		}

		if err := st.Media.Delete(r.Context(), entry.Location); err != nil {
			if rl := util.FromContext(r.Context()); rl != nil {
				rl.Warnf("could not delete media for asset %v: %v", id, err)
			}
		}

		if err := st.Catalog.Delete(r.Context(), id); err != nil {
			common.LogAndWriteError(w, r, "delete asset", err)
			return
		}

		resp.WriteNoContent(w)
	}
}
