package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownStat is returned when a stat id is not one of AllStats.
	ErrUnknownStat = errors.New("unknown stat")

	// ErrInvalidAmount is returned for XP deltas that are not positive finite numbers.
	ErrInvalidAmount = errors.New("xp amount must be a positive number")

	// ErrMalformedSnapshot marks snapshots that fail to parse or violate the schema.
	ErrMalformedSnapshot = errors.New("malformed snapshot")

	// ErrUnsupportedVersion marks snapshots written by an unknown schema version.
	ErrUnsupportedVersion = errors.New("unsupported snapshot version")

	// ErrQuestNotFound is returned by quest lookups that match nothing.
	ErrQuestNotFound = errors.New("quest not found")
)

// ImportError describes why a snapshot was rejected. The live state is never
// modified when one is returned.
type ImportError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ImportError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("import: %s", e.Reason)
	}
	return fmt.Sprintf("import: %s: %s", e.Field, e.Reason)
}

func (e *ImportError) Unwrap() error {
	return e.Err
}

func malformed(field, format string, args ...any) *ImportError {
	return &ImportError{Field: field, Reason: fmt.Sprintf(format, args...), Err: ErrMalformedSnapshot}
}

// AmbiguousQuestError is returned when a quest reference matches several quests.
type AmbiguousQuestError struct {
	Ref     string
	Matches []string
}

func (e AmbiguousQuestError) Error() string {
	return fmt.Sprintf("quest %q is ambiguous (%d matches)", e.Ref, len(e.Matches))
}
