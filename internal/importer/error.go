package importer

import (
	"fmt"
	"sort"
	"strings"

	apperrors "github.com/fabricio2fb/reviewlar/pkg/errors"
)

// ErrUnknownKind is returned for an import kind that does not exist.
var ErrUnknownKind = fmt.Errorf("%w: unknown import kind", apperrors.ErrInvalidInput)

// Error is a rejected import. The form it targeted is left untouched.
// Message describes the payload as a whole; Fields pinpoints the entries
// that could not be used.
type Error struct {
	Kind    Kind
	Message string
	fields  map[string]string
}

func newError(kind Kind) *Error {
	return &Error{Kind: kind, fields: make(map[string]string)}
}

// Add records a problem with one entry of the payload. The first message
// for a path wins.
func (e *Error) Add(path, message string) {
	if _, ok := e.fields[path]; !ok {
		e.fields[path] = message
	}
}

func (e *Error) failed() bool {
	return e.Message != "" || len(e.fields) > 0
}

func (e *Error) Error() string {
	if len(e.fields) == 0 {
		return fmt.Sprintf("import %s: %s", e.Kind, e.Message)
	}
	keys := make([]string, 0, len(e.fields))
	for k := range e.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+" "+e.fields[k])
	}
	return fmt.Sprintf("import %s: %s: %s", e.Kind, e.Message, strings.Join(parts, "; "))
}

// ErrorCode is the envelope code for rejected imports.
func (e *Error) ErrorCode() string { return "IMPORT_ERROR" }

// ErrorMessage is the envelope message.
func (e *Error) ErrorMessage() string { return e.Message }

// Fields returns a copy of the per-entry problems.
func (e *Error) Fields() map[string]string {
	out := make(map[string]string, len(e.fields))
	for k, v := range e.fields {
		out[k] = v
	}
	return out
}
