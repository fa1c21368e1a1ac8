package util

import (
	"fmt"
	"mime"
	"net/http"
	"slices"

	"github.com/easelhq/easel/server/resp"
)

// RequireValidAssetContentType accepts the content types the asset upload
// endpoint understands: multipart file uploads and JSON ingest requests.
func RequireValidAssetContentType(w http.ResponseWriter, r *http.Request) (string, string, bool) {
	return requireValidContentType(w, r, []string{"multipart/form-data", "application/json"})
}

// RequireJSONContentType accepts only JSON request bodies.
func RequireJSONContentType(w http.ResponseWriter, r *http.Request) (string, string, bool) {
	return requireValidContentType(w, r, []string{"application/json"})
}

func ExtractMediaType(w http.ResponseWriter, r *http.Request) (string, bool) {
	ct := r.Header.Get("Content-Type")
	if ct == "" {
		resp.WriteUnsupportedMediaType(w, "Content-Type must be specified")

		return "", false
	}

	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil {
		resp.WriteUnsupportedMediaType(w, fmt.Errorf("invalid Content-Type: %w", err).Error())

		return "", false
	}

	return mediaType, true
}

func requireValidContentType(w http.ResponseWriter, r *http.Request, valid []string) (string, string, bool) {
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		return r.Method, "", true
	}

	mediaType, ok := ExtractMediaType(w, r)
	if !ok {
		return r.Method, "", false
	}

	if slices.Contains(valid, mediaType) {
		return r.Method, mediaType, true
	}

	resp.WriteUnsupportedMediaType(w, fmt.Sprintf("only %v requests are supported", valid))
	return r.Method, mediaType, false
}
