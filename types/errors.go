package types

import (
	"fmt"
	"strings"
)

// ConflictError reports two overlapping spans submitted to the same layer in
// one ApplyLayer call.
type ConflictError struct {
	Layer  string
	First  Span
	Second Span
}

func (err *ConflictError) Error() string {
	return fmt.Sprintf(
		"layer %q: span [%d,%d) %s overlaps [%d,%d) %s",
		err.Layer,
		err.First.Start, err.First.End, err.First.Label,
		err.Second.Start, err.Second.End, err.Second.Label,
	)
}

// AlphabetMismatchError reports a span label that is not part of the
// document's alphabet.
type AlphabetMismatchError struct {
	Layer string
	Label string
}

func (err *AlphabetMismatchError) Error() string {
	return fmt.Sprintf("layer %q: label %q is not in the alphabet", err.Layer, err.Label)
}

// DegenerateModelError reports alphabet labels that no labeling source ever
// emitted over the training corpus. Training on such a corpus would leave
// those states unreachable.
type DegenerateModelError struct {
	Labels []string
}

func (err *DegenerateModelError) Error() string {
	return fmt.Sprintf(
		"no source emits label(s) %s anywhere in the corpus",
		strings.Join(err.Labels, ", "),
	)
}

// DetectorFailure records one isolated source failure on one document. The
// registry collects these in its report instead of failing the run.
type DetectorFailure struct {
	Source string
	DocUid string
	Err    error
}

func (err *DetectorFailure) Error() string {
	return fmt.Sprintf("source %q failed on document %q: %v", err.Source, err.DocUid, err.Err)
}

func (err *DetectorFailure) Unwrap() error {
	return err.Err
}
