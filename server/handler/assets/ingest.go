package assets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/easelhq/easel/asset"
	"github.com/easelhq/easel/mediatype"
	"github.com/easelhq/easel/server/handler/common"
	"github.com/easelhq/easel/server/resp"
	"github.com/easelhq/easel/server/state"
	"github.com/easelhq/easel/storage/catalog"
)

type ingestRequest struct {
	Url         string `json:"url"`
	ProjectId   string `json:"project_id"`
	Description string `json:"description"`
}

var ingestClient = &http.Client{
	Timeout: 30 * time.Second,
}

var (
	errUnsupportedUrl = errors.New("url must be http or https")
	errRemoteFetch    = errors.New("could not fetch remote url")
)

func handleURLIngest(st *state.EaselState, w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, int64(st.Cfg.Server.Limits.MaxPayloadSize))

	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		resp.WriteInvalidRequest(w, fmt.Sprintf("could not parse request body: %v", err))
		return
	}

	if req.Url == "" {
		resp.WriteInvalidRequest(w, "url is required")
		return
	}

	if req.ProjectId == "" {
		resp.WriteInvalidRequest(w, "project_id is required")
		return
	}

	entry, err := ingestURL(r.Context(), st, req.Url, req.ProjectId, req.Description)
	if err != nil {
		if errors.Is(err, errUnsupportedUrl) || errors.Is(err, errRemoteFetch) {
			resp.WriteInvalidRequest(w, err.Error())
			return
		}

		common.LogAndWriteError(w, r, "ingest asset", err)
		return
	}

	resp.WriteCreatedObject(w, assetLocation(st.Cfg.Server.PublicUrl, entry.Asset.ID), entry)
}

// ingestURL downloads a remote image and runs it through the asset pipeline.
// The stored object's name and type come from the URL when it carries a
// usable hint, falling back to the response headers and finally to sniffing
// the downloaded content.
func ingestURL(ctx context.Context, st *state.EaselState, rawUrl, projectID, description string) (*catalog.Entry, error) {
	parsed, err := url.Parse(rawUrl)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return nil, errUnsupportedUrl
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawUrl, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errRemoteFetch, err)
	}

	res, err := ingestClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errRemoteFetch, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %v", errRemoteFetch, res.StatusCode)
	}

	maxSize := int64(st.Cfg.Server.Limits.MaxFileSize)
	data, err := io.ReadAll(io.LimitReader(res.Body, maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errRemoteFetch, err)
	}

	if int64(len(data)) > maxSize {
		return nil, fmt.Errorf("%w: response exceeds the maximum file size", errRemoteFetch)
	}

	name, mediaType, ok := mediatype.InferFromURL(parsed, "")
	if !ok {
		name, mediaType = resolveNameAndType(remoteBasename(parsed), res.Header.Get("Content-Type"), data)
	}

	return storeAsset(ctx, st, assetParams{
		name:        name,
		mediaType:   mediaType,
		data:        data,
		projectID:   projectID,
		description: description,
		source:      asset.URLSource(rawUrl),
	})
}

func remoteBasename(u *url.URL) string {
	segments := strings.Split(u.Path, "/")
	return segments[len(segments)-1]
}
