package assets

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/easelhq/easel/config"
	"github.com/easelhq/easel/server/auth"
	"github.com/easelhq/easel/server/state"
	"github.com/easelhq/easel/storage/catalog"
)

type stubCatalogStore struct {
	entries      map[string]catalog.Entry
	saveCalled   bool
	lastSaved    catalog.Entry
	saveErr      error
	getErr       error
	listErr      error
	deleteErr    error
	deleteCalled bool
}

func (s *stubCatalogStore) Save(_ context.Context, entry catalog.Entry) error {
	if s.saveErr != nil {
		return s.saveErr
	}

	s.saveCalled = true
	s.lastSaved = entry
	if s.entries == nil {
		s.entries = map[string]catalog.Entry{}
	}
	s.entries[entry.Asset.ID] = entry
	return nil
}

func (s *stubCatalogStore) Get(_ context.Context, id string) (*catalog.Entry, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}

	entry, ok := s.entries[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	return &entry, nil
}

func (s *stubCatalogStore) List(_ context.Context, projectID string) ([]catalog.Entry, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}

	out := []catalog.Entry{}
	for _, e := range s.entries {
		if e.Asset.ProjectID == projectID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *stubCatalogStore) Delete(_ context.Context, id string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}

	if _, ok := s.entries[id]; !ok {
		return catalog.ErrNotFound
	}

	s.deleteCalled = true
	delete(s.entries, id)
	return nil
}

type stubMediaStore struct {
	uploadErr    error
	deleteErr    error
	uploadCalled bool
	deleteCalled bool
	lastFilename string
	lastType     string
	lastSize     int64
	lastData     []byte
	deletedURL   string
	url          string
}

func (s *stubMediaStore) Upload(_ context.Context, filename, contentType string, size int64, r io.Reader) (string, error) {
	if s.uploadErr != nil {
		return "", s.uploadErr
	}

	s.uploadCalled = true
	s.lastFilename = filename
	s.lastType = contentType
	s.lastSize = size

	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s.lastData = data

	if s.url == "" {
		s.url = "https://media.example.org/file.png"
	}
	return s.url, nil
}

func (s *stubMediaStore) Delete(_ context.Context, url string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}

	s.deleteCalled = true
	s.deletedURL = url
	return nil
}

func newState() *state.EaselState {
	return &state.EaselState{
		Cfg: &config.Config{
			Server: config.Server{
				PublicUrl: "https://easel.example.org",
				Limits:    config.ServerLimits{MaxPayloadSize: 2_000_000, MaxFileSize: 1_000_000, MaxMultipartMem: 2_000_000},
			},
		},
		Catalog: &stubCatalogStore{},
		Media:   &stubMediaStore{},
	}
}

func withScopes(req *http.Request, scopes ...string) *http.Request {
	return req.WithContext(auth.AddPrincipal(req.Context(), &auth.Principal{Name: "tester", Scopes: scopes}))
}

// pngBytes renders a small PNG to use as upload content.
func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()

	var buf bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func multipartUpload(t *testing.T, fields map[string]string, filename, contentType string, data []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}

	if filename != "" {
		head := textproto.MIMEHeader{}
		head.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
		if contentType != "" {
			head.Set("Content-Type", contentType)
		}

		part, err := w.CreatePart(head)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		if _, err := part.Write(data); err != nil {
			t.Fatalf("write part: %v", err)
		}
	}
	w.Close()

	req := httptest.NewRequest(http.MethodPost, "/assets", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}
