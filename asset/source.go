package asset

import "github.com/easelhq/easel/mediatype"

// SourceKind tags the two upload origins.
type SourceKind string

const (
	SourceFile SourceKind = "file"
	SourceURL  SourceKind = "url"
)

// FileInfo is what the caller already knows about a file it holds.
type FileInfo struct {
	Name string
	Type string
	Size int64
}

// Source is either a file the caller holds or a remote URL to fetch from.
// Exactly one of File and URL is set, matching Kind.
type Source struct {
	Kind SourceKind
	File *FileInfo
	URL  string
}

// FileSource wraps an already-held file.
func FileSource(info FileInfo) Source {
	return Source{Kind: SourceFile, File: &info}
}

// URLSource wraps a remote URL.
func URLSource(rawURL string) Source {
	return Source{Kind: SourceURL, URL: rawURL}
}

// Valid reports whether the source carries the data its kind promises.
func (s Source) Valid() bool {
	switch s.Kind {
	case SourceFile:
		return s.File != nil
	case SourceURL:
		return s.URL != ""
	}
	return false
}

// ImageName resolves a source's filename. Files carry their name
// inherently; URLs go through extension inference, which keeps the whole
// URL string as the name when its suffix matches.
func ImageName(s Source) (string, bool) {
	switch s.Kind {
	case SourceFile:
		if s.File == nil || s.File.Name == "" {
			return "", false
		}
		return s.File.Name, true
	case SourceURL:
		name, _, ok := mediatype.InferFromPath(s.URL, "")
		return name, ok
	}
	return "", false
}

// ImageType resolves a source's media type the same way.
func ImageType(s Source) (string, bool) {
	switch s.Kind {
	case SourceFile:
		if s.File == nil || s.File.Type == "" {
			return "", false
		}
		return s.File.Type, true
	case SourceURL:
		_, mediaType, ok := mediatype.InferFromPath(s.URL, "")
		return mediaType, ok
	}
	return "", false
}
