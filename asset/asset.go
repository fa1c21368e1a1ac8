// Package asset defines the catalog's asset model and the conversion from
// a pending upload into a typed asset value.
package asset

import (
	"encoding/json"
	"math"
)

// Type discriminates the two asset families the catalog tracks.
type Type string

const (
	TypeImage Type = "image"
	TypeFont  Type = "font"
)

// ImageMeta carries pixel dimensions for an image asset. Dimensions that
// were never measured are NaN and serialize as JSON null.
type ImageMeta struct {
	Width  float64
	Height float64
}

type imageMetaJSON struct {
	Width  *float64 `json:"width"`
	Height *float64 `json:"height"`
}

func (m ImageMeta) MarshalJSON() ([]byte, error) {
	var out imageMetaJSON
	if !math.IsNaN(m.Width) {
		out.Width = &m.Width
	}
	if !math.IsNaN(m.Height) {
		out.Height = &m.Height
	}
	return json.Marshal(out)
}

func (m *ImageMeta) UnmarshalJSON(data []byte) error {
	var in imageMetaJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	m.Width = math.NaN()
	m.Height = math.NaN()
	if in.Width != nil {
		m.Width = *in.Width
	}
	if in.Height != nil {
		m.Height = *in.Height
	}
	return nil
}

// FontMeta describes how a font asset is referenced from page styles.
type FontMeta struct {
	Family string `json:"family"`
	Style  string `json:"style"`
	Weight int    `json:"weight"`
}

// Asset is a single uploaded resource as the catalog persists it. Exactly
// one of Image and Font is set, matching Type.
type Asset struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Format      string     `json:"format"`
	Type        Type       `json:"type"`
	Description string     `json:"description"`
	CreatedAt   string     `json:"created_at"`
	ProjectID   string     `json:"project_id"`
	Size        int64      `json:"size"`
	Image       *ImageMeta `json:"image,omitempty"`
	Font        *FontMeta  `json:"font,omitempty"`
}
