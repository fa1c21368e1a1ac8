package auth

import (
	"net/http/httptest"
	"testing"
)

func TestScopeString(t *testing.T) {
	if ScopeUpload.String() != "upload" || ScopeDelete.String() != "delete" {
		t.Fatalf("unexpected scope string values")
	}
}

func TestRequestHasScope(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	if RequestHasScope(req, ScopeUpload) {
		t.Fatalf("expected false when no principal in context")
	}

	req = req.WithContext(AddPrincipal(req.Context(), &Principal{Scopes: []string{"upload"}}))
	if !RequestHasScope(req, ScopeUpload) {
		t.Fatalf("expected true when principal has scope")
	}
	if RequestHasScope(req, ScopeDelete) {
		t.Fatalf("expected false for scope the principal lacks")
	}
}
