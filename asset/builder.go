package asset

import (
	"math"
	"strings"
)

// UploadingFileData is the in-flight record the upload pipeline carries
// before an asset reaches the catalog. ObjectURL doubles as the asset's
// display name.
type UploadingFileData struct {
	AssetID   string
	ObjectURL string
	Source    Source
}

// FromUploadingFile converts a pending upload into an asset. The source's
// media type decides the family: image/* becomes an image asset with
// unmeasured dimensions, anything else is treated as a woff2 font with
// stock metadata. Types that cannot be resolved default to image/png.
// Description, timestamp, project and size stay zero for the upload
// completion step to fill in.
func FromUploadingFile(d UploadingFileData) Asset {
	mediaType, ok := ImageType(d.Source)
	if !ok {
		mediaType = "image/png"
	}

	_, format, _ := strings.Cut(mediaType, "/")

	a := Asset{
		ID:     d.AssetID,
		Name:   d.ObjectURL,
		Format: format,
		Type:   TypeImage,
	}

	if strings.HasPrefix(mediaType, "image/") {
		a.Image = &ImageMeta{Width: math.NaN(), Height: math.NaN()}
	} else {
		a.Type = TypeFont
		a.Format = "woff2"
		a.Font = &FontMeta{Family: "system", Style: "normal", Weight: 400}
	}

	return a
}
