package dispatch

import (
	"errors"
	"fmt"
)

// JobMetaError exposes which batch and which job of that batch a failure came from.
// Errors handed to the error handler are tagged this way; when several jobs of a
// batch fail, the handler receives an errors.Join of tagged errors.
type JobMetaError interface {
	error
	Unwrap() error
	BatchID() string
	JobIndex() int
}

type jobTaggedError struct {
	err   error
	batch string
	index int
}

func newJobTaggedError(err error, batch string, index int) error {
	if err == nil {
		return nil
	}
	return &jobTaggedError{err: err, batch: batch, index: index}
}

func (e *jobTaggedError) Error() string   { return e.err.Error() }
func (e *jobTaggedError) Unwrap() error   { return e.err }
func (e *jobTaggedError) BatchID() string { return e.batch }
func (e *jobTaggedError) JobIndex() int   { return e.index }

func (e *jobTaggedError) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			_, _ = fmt.Fprintf(s, "job(batch=%s,index=%d): %+v", e.batch, e.index, e.err)
			return
		}
		fallthrough
	case 's':
		_, _ = fmt.Fprint(s, e.Error())
	case 'q':
		_, _ = fmt.Fprintf(s, "%q", e.Error())
	}
}

// ExtractJobIndex returns the index of the first failed job recorded in err.
func ExtractJobIndex(err error) (int, bool) {
	var jme JobMetaError
	if errors.As(err, &jme) {
		return jme.JobIndex(), true
	}
	return 0, false
}

// ExtractBatchID returns the batch identifier recorded in err.
func ExtractBatchID(err error) (string, bool) {
	var jme JobMetaError
	if errors.As(err, &jme) {
		return jme.BatchID(), true
	}
	return "", false
}
