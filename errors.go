package los

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// ErrorKind classifies why an operation failed, mirroring the error
// taxonomy the source system logs against (invalid input, missing data,
// backing-store failure, adapter failure, numeric failure).
type ErrorKind int

const (
	// KindInvalidInput covers out-of-range band/SCA/detector indices,
	// malformed epochs, and mismatched spectral types.
	KindInvalidInput ErrorKind = iota
	// KindNotFound covers CPF MJD lookup misses and missing ancillary
	// records.
	KindNotFound
	// KindBackingStore covers dataset open/read/write failures surfaced
	// from the ancillary/image table backend.
	KindBackingStore
	// KindAdapter covers a NOVAS (or other external collaborator)
	// routine reporting failure.
	KindAdapter
	// KindNumeric covers zero-magnitude normalization and "no ellipsoid
	// intersection" conditions.
	KindNumeric
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindNotFound:
		return "not_found"
	case KindBackingStore:
		return "backing_store"
	case KindAdapter:
		return "adapter"
	case KindNumeric:
		return "numeric"
	default:
		return "unknown"
	}
}

// ModelError is the single error type every public operation in this
// package returns. It carries the error kind, the operation that first
// observed the failure, and the underlying cause (wrapped with a stack
// trace via github.com/pkg/errors so the first observation site is
// recoverable from %+v).
type ModelError struct {
	Kind ErrorKind
	Op   string
	err  error
}

func (e *ModelError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.err)
}

func (e *ModelError) Unwrap() error { return e.err }

// newError wraps cause with a stack trace (or synthesizes one from msg if
// cause is nil), tags it with kind/op for layered propagation, and logs
// once at this, the error's first observation site, per spec §7.
func newError(kind ErrorKind, op string, cause error, msg string) *ModelError {
	var wrapped error
	if cause != nil {
		wrapped = errors.Wrap(cause, msg)
	} else {
		wrapped = errors.New(msg)
	}
	logError(op, wrapped, logrus.Fields{"kind": kind.String()})
	return &ModelError{Kind: kind, Op: op, err: wrapped}
}

func errInvalidInput(op string, format string, args ...interface{}) *ModelError {
	return newError(KindInvalidInput, op, nil, fmt.Sprintf(format, args...))
}

func errNotFound(op string, format string, args ...interface{}) *ModelError {
	return newError(KindNotFound, op, nil, fmt.Sprintf(format, args...))
}

func errNumeric(op string, format string, args ...interface{}) *ModelError {
	return newError(KindNumeric, op, nil, fmt.Sprintf(format, args...))
}

func errAdapter(op string, cause error, format string, args ...interface{}) *ModelError {
	return newError(KindAdapter, op, cause, fmt.Sprintf(format, args...))
}

func errBackingStore(op string, cause error, format string, args ...interface{}) *ModelError {
	return newError(KindBackingStore, op, cause, fmt.Sprintf(format, args...))
}

// KindOf unwraps err looking for a *ModelError and reports its Kind. It
// returns ok=false if err is not (or does not wrap) a *ModelError.
func KindOf(err error) (kind ErrorKind, ok bool) {
	var me *ModelError
	if errors.As(err, &me) {
		return me.Kind, true
	}
	return 0, false
}
