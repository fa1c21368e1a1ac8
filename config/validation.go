package config

import (
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

func ValidateAbsPath(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	return s != "" && path.IsAbs(s)
}

func ValidateLocalpath(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	return s != "" && filepath.IsLocal(s)
}

func ValidateIdentifier(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}

	matched, err := regexp.MatchString(`^[A-Za-z_][A-Za-z0-9_]*$`, s)
	if err != nil {
		return false
	}

	return matched
}

// ValidatePathPattern rejects patterns that could escape the storage root.
// Empty patterns are fine, the store falls back to its default.
func ValidatePathPattern(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}

	if strings.Contains(s, "..") || strings.Contains(s, "\x00") {
		return false
	}
	if strings.HasPrefix(s, "/") || strings.HasPrefix(s, "\\") {
		return false
	}
	if len(s) >= 2 && s[1] == ':' {
		return false
	}

	return true
}
