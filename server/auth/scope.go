package auth

import (
	"net/http"
)

type Scope int

const (
	ScopeUpload Scope = iota
	ScopeDelete
)

var scopeName = map[Scope]string{
	ScopeUpload: "upload",
	ScopeDelete: "delete",
}

func (scope Scope) String() string {
	return scopeName[scope]
}

func RequestHasScope(r *http.Request, scope Scope) bool {
	principal := GetPrincipal(r.Context())
	if principal == nil {
		return false
	}

	return principal.HasScope(scope)
}
