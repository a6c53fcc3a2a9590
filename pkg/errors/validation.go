package errors

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// DefaultMaxInputBytes is the input size limit used when none is configured.
const DefaultMaxInputBytes = 1 << 20

// ValidateInput checks that text can be handed to the filter.
//
// Validation rules:
//   - Maximum length of maxBytes bytes (DefaultMaxInputBytes when maxBytes <= 0)
//   - Valid UTF-8
//   - No null bytes
//
// Encoding failures use ErrCodeParse, the code the filter reports for the
// same input.
//
// Empty input is valid; the filter returns it unchanged.
func ValidateInput(text string, maxBytes int) error {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxInputBytes
	}
	if len(text) > maxBytes {
		return New(ErrCodeInputTooLarge, "input is %d bytes (max %d)", len(text), maxBytes)
	}
	if !utf8.ValidString(text) {
		return New(ErrCodeParse, "input is not valid UTF-8")
	}
	if strings.IndexByte(text, 0) >= 0 {
		return New(ErrCodeParse, "input contains null bytes")
	}
	return nil
}

// tagNameRegex matches HTML tag names as the parser lower-cases them.
var tagNameRegex = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)

// ValidateTag validates a tag name for the ignore list.
func ValidateTag(tag string) error {
	if tag == "" {
		return New(ErrCodeInvalidConfig, "ignored tag cannot be empty")
	}
	if !tagNameRegex.MatchString(tag) {
		return New(ErrCodeInvalidConfig, "invalid tag name: %q (use lower case)", tag)
	}
	return nil
}

// classNameRegex matches a single CSS class token.
var classNameRegex = regexp.MustCompile(`^-?[_a-zA-Z][_a-zA-Z0-9-]*$`)

// ValidateClassName validates a class name or class prefix for the ignore list.
func ValidateClassName(class string) error {
	if class == "" {
		return New(ErrCodeInvalidConfig, "ignored class cannot be empty")
	}
	if !classNameRegex.MatchString(class) {
		return New(ErrCodeInvalidConfig, "invalid class name: %q", class)
	}
	return nil
}

// Cache backend names.
const (
	BackendNone  = "none"
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
)

// ValidateCacheBackend checks that backend names a supported cache backend.
func ValidateCacheBackend(backend string) error {
	switch backend {
	case BackendNone, BackendFile, BackendRedis, BackendMongo:
		return nil
	}
	return New(ErrCodeInvalidBackend, "invalid cache backend: %q (must be one of: none, file, redis, mongo)", backend)
}
