// Package assets implements the asset endpoints: uploading files, ingesting
// remote URLs, scraping HTML documents for images, and reading or deleting
// catalog entries.
package assets

import (
	"net/http"

	"github.com/easelhq/easel/server/auth"
	"github.com/easelhq/easel/server/resp"
	"github.com/easelhq/easel/server/state"
	"github.com/easelhq/easel/server/util"
)

// HandleAssetCreate accepts a new asset either as a multipart file upload or
// as a JSON document naming a remote URL to ingest.
func HandleAssetCreate(st *state.EaselState) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, contentType, ok := util.RequireValidAssetContentType(w, r)
		if !ok {
			return
		}

		if !auth.RequestHasScope(r, auth.ScopeUpload) {
			resp.WriteInsufficientScope(w, "no upload scope")
			return
		}

		switch contentType {
		case "multipart/form-data":
			handleFileUpload(st, w, r)
		default:
			handleURLIngest(st, w, r)
		}
	}
}
