package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSessionNotFound indicates the referenced session id has no record.
// Never retried internally; surfaced as a not-found condition.
var ErrSessionNotFound = errors.New("session not found")

// ErrEmptyInput indicates the analyzer cannot process the input. Recovered
// locally by substituting a neutral reading; never propagated to callers.
var ErrEmptyInput = errors.New("empty input text")

// UnknownTopicError indicates a topic-selection token not present in the
// topic catalog.
type UnknownTopicError struct {
	Token string
}

func (e *UnknownTopicError) Error() string {
	return fmt.Sprintf("unknown coaching topic: %q", e.Token)
}

// StageMismatchError indicates an operation that requires a stage the
// session is not in. Session state is left unchanged.
type StageMismatchError struct {
	Op       string
	Current  Stage
	Required Stage
}

func (e *StageMismatchError) Error() string {
	return fmt.Sprintf("%s requires stage %q, session is in %q", e.Op, e.Required, e.Current)
}

// IncompleteCommitmentError indicates a structured action payload missing
// required fields. Session state is left unchanged.
type IncompleteCommitmentError struct {
	Missing []string
}

func (e *IncompleteCommitmentError) Error() string {
	return fmt.Sprintf("incomplete action commitment, missing fields: %s", strings.Join(e.Missing, ", "))
}
