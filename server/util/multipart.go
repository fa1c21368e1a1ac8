package util

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"slices"
	"strings"

	"github.com/easelhq/easel/server/resp"
)

type MultipartValues map[string]any

type MultipartFile struct {
	Field  string
	File   multipart.File
	Header *multipart.FileHeader
}

// ParseMultipartFiles parses a multipart form and collects the uploaded files for
// the named fields. A field may appear bare ("photo") or with an array suffix
// ("photo[]"); both map to the bare field name. Any validation failure writes a
// 400 response and returns ok = false. On success the caller owns the returned
// files and must close them.
func ParseMultipartFiles(w http.ResponseWriter, r *http.Request, maxMemory, maxFileSize int64, fields []string, required bool) (MultipartValues, []MultipartFile, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxMemory)
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		resp.WriteInvalidRequest(w, "failed to parse multipart form")
		return nil, nil, false
	}

	values := extractValues(r)

	var files []MultipartFile
	for key, fhs := range r.MultipartForm.File {
		field := strings.TrimSuffix(key, "[]")
		if !slices.Contains(fields, field) {
			continue
		}

		for _, fh := range fhs {
			if fh.Filename == "" {
				closeAll(files)
				resp.WriteInvalidRequest(w, "uploaded file is missing a filename")
				return nil, nil, false
			}

			if maxFileSize > 0 && fh.Size > maxFileSize {
				closeAll(files)
				resp.WriteInvalidRequest(w, fmt.Sprintf("file %v exceeds the maximum upload size", fh.Filename))
				return nil, nil, false
			}

			f, err := fh.Open()
			if err != nil {
				closeAll(files)
				resp.WriteInvalidRequest(w, fmt.Sprintf("could not open uploaded file %v", fh.Filename))
				return nil, nil, false
			}

			files = append(files, MultipartFile{Field: field, File: f, Header: fh})
		}
	}

	if required && len(files) == 0 {
		resp.WriteInvalidRequest(w, "a file upload is required")
		return nil, nil, false
	}

	return values, files, true
}

// ParseMultipartWithFirstFile is like ParseMultipartFiles but expects at most one
// uploaded file across the named fields and returns it along with the field it
// arrived on.
func ParseMultipartWithFirstFile(w http.ResponseWriter, r *http.Request, maxMemory, maxFileSize int64, fields []string, required bool) (MultipartValues, multipart.File, *multipart.FileHeader, string, bool) {
	values, files, ok := ParseMultipartFiles(w, r, maxMemory, maxFileSize, fields, required)
	if !ok {
		return nil, nil, nil, "", false
	}

	if len(files) == 0 {
		return values, nil, nil, "", true
	}

	if len(files) > 1 {
		closeAll(files)
		resp.WriteInvalidRequest(w, "only a single file upload is supported")
		return nil, nil, nil, "", false
	}

	return values, files[0].File, files[0].Header, files[0].Field, true
}

// ParseMultipartWithFile parses a multipart form expecting a single file on one
// known field.
func ParseMultipartWithFile(w http.ResponseWriter, r *http.Request, maxMemory, maxFileSize int64, field string, required bool) (MultipartValues, multipart.File, *multipart.FileHeader, bool) {
	values, file, header, _, ok := ParseMultipartWithFirstFile(w, r, maxMemory, maxFileSize, []string{field}, required)
	return values, file, header, ok
}

func extractValues(r *http.Request) MultipartValues {
	values := make(MultipartValues)

	if r.MultipartForm != nil {
		for key, arr := range r.MultipartForm.Value {
			switch len(arr) {
			case 0:
				continue
			case 1:
				values[key] = arr[0]
			default:
				asAny := make([]any, len(arr))
				for i, v := range arr {
					asAny[i] = v
				}
				values[key] = asAny
			}
		}
	}

	return values
}

func closeAll(files []MultipartFile) {
	for _, mf := range files {
		if mf.File != nil {
			mf.File.Close()
		}
	}
}
