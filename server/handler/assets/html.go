package assets

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/easelhq/easel/server/auth"
	"github.com/easelhq/easel/server/resp"
	"github.com/easelhq/easel/server/state"
	"github.com/easelhq/easel/server/util"
	"github.com/easelhq/easel/storage/catalog"
)

type htmlIngestRequest struct {
	Html        string `json:"html"`
	ProjectId   string `json:"project_id"`
	Description string `json:"description"`
}

// HandleHTMLIngest extracts every img source from an HTML document and
// ingests each one as its own asset. Sources that are not http or https, or
// that cannot be fetched, are skipped with a warning rather than failing the
// whole request.
func HandleHTMLIngest(st *state.EaselState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, _, ok := util.RequireJSONContentType(w, r)
		if !ok {
			return
		}

		if !auth.RequestHasScope(r, auth.ScopeUpload) {
			resp.WriteInsufficientScope(w, "no upload scope")
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, int64(st.Cfg.Server.Limits.MaxPayloadSize))

		var req htmlIngestRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			resp.WriteInvalidRequest(w, fmt.Sprintf("could not parse request body: %v", err))
			return
		}

		if req.Html == "" {
			resp.WriteInvalidRequest(w, "html is required")
			return
		}

		if req.ProjectId == "" {
			resp.WriteInvalidRequest(w, "project_id is required")
			return
		}

		sources, err := util.ImageSources(strings.NewReader(req.Html))
		if err != nil {
			resp.WriteInvalidRequest(w, fmt.Sprintf("could not parse html: %v", err))
			return
		}

		rl := util.FromContext(r.Context())
		entries := []catalog.Entry{}
		for _, src := range sources {
			entry, err := ingestURL(r.Context(), st, src, req.ProjectId, req.Description)
			if err != nil {
				if rl != nil {
					rl.Warnf("skipping image %v: %v", src, err)
				}
				continue
			}

			entries = append(entries, *entry)
		}

		resp.WriteCreatedObject(w, "", entries)
	}
}
