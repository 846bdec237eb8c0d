package services

import (
  "errors"
  "fmt"
  "sort"
  "strings"
)

// ErrNotFound means no trip plan matches the supplied access code.
var ErrNotFound = errors.New("no itinerary matches that access code")

// ValidationError rejects a trip submission in full. Fields maps each bad
// field to a human-readable problem. Nothing is persisted when one is
// returned.
type ValidationError struct {
  Fields map[string]string
}

func (e *ValidationError) Error() string {
  if len(e.Fields) == 0 {
    return "invalid trip submission"
  }
  names := make([]string, 0, len(e.Fields))
  for name := range e.Fields {
    names = append(names, name)
  }
  sort.Strings(names)
  return fmt.Sprintf("invalid trip submission: %s", strings.Join(names, ", "))
}

func newValidationError() *ValidationError {
  return &ValidationError{Fields: map[string]string{}}
}

// add records the first problem seen for a field.
func (e *ValidationError) add(field, problem string) {
  if _, exists := e.Fields[field]; !exists {
    e.Fields[field] = problem
  }
}

func (e *ValidationError) ok() bool {
  return len(e.Fields) == 0
}
