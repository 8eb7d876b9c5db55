package models

import "fmt"

// FailureReason identifies why a single player could not be processed.
// Failures are always local to one player and never abort the batch.
type FailureReason string

const (
	ReasonInsufficientLateWindowData  FailureReason = "insufficient late-window data"
	ReasonInsufficientEarlyWindowData FailureReason = "insufficient early-window data"
	ReasonInsufficientGamesPlayed     FailureReason = "insufficient games played"
	ReasonAmbiguousPositionChange     FailureReason = "position changes with differing stat sets"
	ReasonNoPositionData              FailureReason = "no position data"
	ReasonNoApplicableStats           FailureReason = "no applicable stat columns"
	ReasonMissingRequiredColumn       FailureReason = "required column not found"
	ReasonWrongFormat                 FailureReason = "wrong file format"
	ReasonUnreadableFile              FailureReason = "unreadable file"
)

// PlayerFailure reports a skipped player with its reason. Detail carries the
// specifics (the offending year, the missing column name).
type PlayerFailure struct {
	PlayerID string
	Reason   FailureReason
	Detail   string
}

func (f *PlayerFailure) Error() string {
	if f.Detail != "" {
		return fmt.Sprintf("%s: %s (%s)", f.PlayerID, f.Reason, f.Detail)
	}
	return fmt.Sprintf("%s: %s", f.PlayerID, f.Reason)
}

// NewFailure builds a PlayerFailure without detail.
func NewFailure(playerID string, reason FailureReason) *PlayerFailure {
	return &PlayerFailure{PlayerID: playerID, Reason: reason}
}

// NewFailuref builds a PlayerFailure with a formatted detail string.
func NewFailuref(playerID string, reason FailureReason, format string, args ...interface{}) *PlayerFailure {
	return &PlayerFailure{PlayerID: playerID, Reason: reason, Detail: fmt.Sprintf(format, args...)}
}

// BatchSummary collects the outcome of one pipeline run. It replaces the
// original scripts' process-wide skip list: one collector per run, returned
// to the caller. Duplicate skips are normal outcomes and are tracked apart
// from failures.
type BatchSummary struct {
	Processed         int
	Accepted          int
	DuplicatesSkipped int
	Failures          []PlayerFailure
}

// AddFailure records one skipped player.
func (s *BatchSummary) AddFailure(f *PlayerFailure) {
	s.Failures = append(s.Failures, *f)
}
