// Package mediatype maps image file extensions to media types and infers
// a usable filename and type from arbitrary download URLs.
package mediatype

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// association pairs a file extension with its media type. The table is
// ordered: lookups scan top to bottom and the first match wins.
type association struct {
	Ext  string
	Mime string
}

var associations = []association{
	{".gif", "image/gif"},
	{".ico", "image/x-icon"},
	{".jpeg", "image/jpeg"},
	{".jpg", "image/jpeg"},
	{".png", "image/png"},
	{".svg", "image/svg+xml"},
	{".webp", "image/webp"},
}

var (
	byExtension = make(map[string]string, len(associations))
	byType      = make(map[string]string, len(associations))
)

func init() {
	for _, a := range associations {
		byExtension[a.Ext] = a.Mime
		if _, ok := byType[a.Mime]; !ok {
			byType[a.Mime] = a.Ext
		}
	}
}

// TypeByExtension returns the media type registered for ext, including its
// leading dot (".png").
func TypeByExtension(ext string) (string, bool) {
	mt, ok := byExtension[ext]
	return mt, ok
}

// ExtensionByType returns the extension registered for mediaType. When two
// extensions share a type the one declared first wins, so "image/jpeg"
// resolves to ".jpeg" rather than ".jpg".
func ExtensionByType(mediaType string) (string, bool) {
	ext, ok := byType[mediaType]
	return ext, ok
}

// Known reports whether ext is one of the registered extensions.
func Known(ext string) bool {
	_, ok := byExtension[ext]
	return ok
}

// Extensions returns the registered extensions in declaration order.
func Extensions() []string {
	exts := make([]string, len(associations))
	for i, a := range associations {
		exts[i] = a.Ext
	}
	return exts
}

// InferFromPath resolves a filename and media type from a bare path or
// filename. The path keeps its name as-is when its suffix matches a
// registered extension. Otherwise defaultExt decides the type, and an
// unregistered defaultExt means no inference at all.
func InferFromPath(source, defaultExt string) (name, mediaType string, ok bool) {
	for _, a := range associations {
		if strings.HasSuffix(source, a.Ext) {
			return source, a.Mime, true
		}
	}
	if mt, known := byExtension[defaultExt]; known {
		return source, mt, true
	}
	return "", "", false
}

var (
	dispositionKeyPattern = regexp.MustCompile(`(?i)content-disposition`)
	typeKeyPattern        = regexp.MustCompile(`(?i)content-type`)
	filenameAttrPattern   = regexp.MustCompile(`(?i)filename=(?:"([^"]+)"|([^";\s]+))`)
	imageTypePattern      = regexp.MustCompile(`(?i)image/[a-z0-9.+-]+`)
)

type queryParam struct {
	key   string
	value string
}

// queryParams splits a raw query string while preserving parameter order,
// which url.Values would lose. Escape errors leave the raw text in place.
func queryParams(rawQuery string) []queryParam {
	if rawQuery == "" {
		return nil
	}
	var params []queryParam
	for _, pair := range strings.Split(rawQuery, "&") {
		if pair == "" {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")
		if decoded, err := url.QueryUnescape(key); err == nil {
			key = decoded
		}
		if decoded, err := url.QueryUnescape(value); err == nil {
			value = decoded
		}
		params = append(params, queryParam{key: key, value: value})
	}
	return params
}

// InferFromURL resolves a filename and media type from a download URL.
//
// Each registered extension is tried in table order. An extension applies
// when the last path segment ends with it, when any ordinary query value
// ends with it, when a filename captured from a content-disposition style
// parameter ends with it, or when a media type captured from a
// content-type style parameter equals its registered type. The first
// extension that applies decides the media type, even when a content-type
// hint disagrees.
//
// The filename comes from the captured content-disposition value, except
// that a path segment carrying the winning extension is preferred over a
// captured name that does not. With neither available a random name with
// the winning extension is synthesized. When no extension applies,
// defaultExt gets the same treatment, and an unregistered defaultExt
// yields no inference.
func InferFromURL(u *url.URL, defaultExt string) (name, mediaType string, ok bool) {
	segments := strings.Split(u.Path, "/")
	basename := segments[len(segments)-1]
	params := queryParams(u.RawQuery)

	capturedName := ""
	capturedType := ""

	for _, a := range associations {
		applies := strings.HasSuffix(basename, a.Ext)

		for _, p := range params {
			switch {
			case dispositionKeyPattern.MatchString(p.key):
				if capturedName == "" {
					if m := filenameAttrPattern.FindStringSubmatch(p.value); m != nil {
						if m[1] != "" {
							capturedName = m[1]
						} else {
							capturedName = m[2]
						}
					}
				}
			case typeKeyPattern.MatchString(p.key):
				if capturedType == "" {
					if m := imageTypePattern.FindString(p.value); m != "" {
						capturedType = strings.ToLower(m)
					}
				}
			default:
				if strings.HasSuffix(p.value, a.Ext) {
					applies = true
				}
			}
		}

		if strings.HasSuffix(capturedName, a.Ext) {
			applies = true
		}
		if capturedType == a.Mime {
			applies = true
		}
		if !applies {
			continue
		}

		resolved := capturedName
		if strings.HasSuffix(basename, a.Ext) && !strings.HasSuffix(capturedName, a.Ext) {
			resolved = basename
		}
		if resolved == "" {
			resolved = uuid.New().String() + a.Ext
		}
		return resolved, a.Mime, true
	}

	if mt, known := byExtension[defaultExt]; known {
		resolved := capturedName
		if resolved == "" {
			resolved = uuid.New().String() + defaultExt
		}
		return resolved, mt, true
	}

	return "", "", false
}
