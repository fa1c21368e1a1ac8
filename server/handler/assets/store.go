package assets

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"mime"
	"strings"
	"time"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/easelhq/easel/asset"
	"github.com/easelhq/easel/digest"
	"github.com/easelhq/easel/mediatype"
	"github.com/easelhq/easel/server/state"
	"github.com/easelhq/easel/storage/catalog"
	storageutil "github.com/easelhq/easel/storage/util"
)

// assetParams collects everything the storage pipeline needs once the upload
// bytes are in hand.
type assetParams struct {
	name        string
	mediaType   string
	data        []byte
	projectID   string
	description string
	source      asset.Source
}

// storeAsset runs the shared completion pipeline: hash the content, hand the
// bytes to the media store, build the asset record, measure image dimensions
// when a decoder is registered for the format, and save the catalog entry.
// A failed catalog save deletes the just-uploaded media object best-effort.
func storeAsset(ctx context.Context, st *state.EaselState, p assetParams) (*catalog.Entry, error) {
	sha, err := digest.SHA256HexReader(bytes.NewReader(p.data))
	if err != nil {
		return nil, fmt.Errorf("could not hash upload: %w", err)
	}

	location, err := st.Media.Upload(ctx, p.name, p.mediaType, int64(len(p.data)), bytes.NewReader(p.data))
	if err != nil {
		return nil, fmt.Errorf("could not store media: %w", err)
	}

	a := asset.FromUploadingFile(asset.UploadingFileData{
		AssetID:   uuid.New().String(),
		ObjectURL: location,
		Source:    p.source,
	})

	a.Description = p.description
	a.ProjectID = p.projectID
	a.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	a.Size = int64(len(p.data))

	if a.Type == asset.TypeImage {
		if imgCfg, _, err := image.DecodeConfig(bytes.NewReader(p.data)); err == nil {
			a.Image = &asset.ImageMeta{Width: float64(imgCfg.Width), Height: float64(imgCfg.Height)}
		}
	}

	entry := catalog.Entry{Asset: a, Location: location, SHA256: sha}
	if err := st.Catalog.Save(ctx, entry); err != nil {
		_ = st.Media.Delete(ctx, location)
		return nil, fmt.Errorf("could not catalog asset: %w", err)
	}

	return &entry, nil
}

// resolveNameAndType decides the stored filename and media type for an
// upload. A declared content type wins unless it is missing or the generic
// octet-stream, then the filename extension is consulted, then the content
// itself is sniffed. An empty filename gets a random name carrying the
// resolved type's extension.
func resolveNameAndType(filename, declared string, data []byte) (string, string) {
	mediaType := ""

	if declared = strings.TrimSpace(declared); declared != "" {
		if mt, _, err := mime.ParseMediaType(declared); err == nil && mt != "application/octet-stream" {
			mediaType = mt
		}
	}

	if mediaType == "" {
		if _, inferred, ok := mediatype.InferFromPath(filename, ""); ok {
			mediaType = inferred
		}
	}

	if mediaType == "" {
		if mt, _, err := mime.ParseMediaType(mimetype.Detect(data).String()); err == nil {
			mediaType = mt
		}
	}

	if filename == "" {
		ext, ok := mediatype.ExtensionByType(mediaType)
		if !ok {
			ext = mimetype.Detect(data).Extension()
		}
		filename = uuid.New().String() + ext
	}

	return filename, mediaType
}

func assetLocation(publicURL, id string) string {
	return fmt.Sprintf("%vassets/%v", storageutil.NormalizeBaseURL(publicURL), id)
}
