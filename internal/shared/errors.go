// Package shared contains the error taxonomy used across the scheduler:
// a small set of sentinel errors plus a Kind classifier, so callers at the
// CLI/logging boundary can decide exit codes and log levels without
// type-switching on concrete error types.
package shared

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Sentinel errors, one per Kind this domain actually raises.
var (
	// ErrNotFound indicates a referenced resource (run_as user/group, shell
	// binary) does not exist on the host.
	ErrNotFound = errors.New("not found")

	// ErrValidation indicates a config or pattern failed validation.
	ErrValidation = errors.New("validation failed")

	// ErrInternal indicates a bug or unexpected internal state.
	ErrInternal = errors.New("internal error")

	// ErrTimeout indicates a task exceeded its time_limit.
	ErrTimeout = errors.New("operation timed out")

	// ErrDependencyFailure indicates an alert transport (SMTP, webhook,
	// cmd) failed to deliver.
	ErrDependencyFailure = errors.New("dependency failure")
)

// Kind categorizes an error for logging and exit-code decisions.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindValidation
	KindInternal
	KindTimeout
	KindDependencyFailure
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "NotFound"
	case KindValidation:
		return "Validation"
	case KindInternal:
		return "Internal"
	case KindTimeout:
		return "Timeout"
	case KindDependencyFailure:
		return "DependencyFailure"
	default:
		return "Unknown"
	}
}

var kindToSentinel = map[Kind]error{
	KindNotFound:          ErrNotFound,
	KindValidation:        ErrValidation,
	KindInternal:          ErrInternal,
	KindTimeout:           ErrTimeout,
	KindDependencyFailure: ErrDependencyFailure,
}

// kindPriorities defines the deterministic order KindOf checks in: timeouts
// first (a dependency call can time out, and that's more actionable than
// "dependency failed"), then the rest by specificity.
var kindPriorities = []struct {
	kind Kind
	err  error
}{
	{KindTimeout, ErrTimeout},
	{KindNotFound, ErrNotFound},
	{KindValidation, ErrValidation},
	{KindDependencyFailure, ErrDependencyFailure},
	{KindInternal, ErrInternal},
}

// KindOf classifies err by walking its chain against the known sentinels,
// in priority order. Returns KindUnknown for unrecognized errors.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	if IsTimeout(err) {
		return KindTimeout
	}
	for _, p := range kindPriorities {
		if p.kind == KindTimeout {
			continue
		}
		if errors.Is(err, p.err) {
			return p.kind
		}
	}
	return KindUnknown
}

// HasKind reports whether KindOf(err) == kind.
func HasKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// SentinelOf returns the sentinel error for kind, or nil for KindUnknown.
func SentinelOf(kind Kind) error {
	return kindToSentinel[kind]
}

// MarkKind wraps err with kind's sentinel so errors.Is(result, sentinel)
// holds, without discarding err. KindOf(result) == kind holds unless err
// already carries a kind that KindOf checks first.
func MarkKind(err error, kind Kind) error {
	if err == nil {
		return SentinelOf(kind)
	}
	if kind == KindUnknown {
		return err
	}
	sentinel := SentinelOf(kind)
	if sentinel == nil || KindOf(err) == kind {
		return err
	}
	return fmt.Errorf("%w: %w", sentinel, err)
}

// Wrap prefixes err with a static context string.
func Wrap(err error, context string) error {
	if err == nil {
		return nil
	}
	if context == "" {
		return err
	}
	return fmt.Errorf("%s: %w", context, err)
}

// Wrapf prefixes err with a formatted context string.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// IsTimeout reports whether err indicates a timeout: context deadline
// exceeded, our own ErrTimeout, or a net.Error reporting Timeout().
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, ErrTimeout) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// IsNotFound reports whether err wraps ErrNotFound.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsValidation reports whether err wraps ErrValidation.
func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }

// IsDependencyFailure reports whether err wraps ErrDependencyFailure.
func IsDependencyFailure(err error) bool { return errors.Is(err, ErrDependencyFailure) }
