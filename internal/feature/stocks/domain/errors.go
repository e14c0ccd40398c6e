// Package domain defines domain-level errors for the stocks feature.
package domain

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so the transport layer can pick a status code
// without inspecting messages.
type Kind int

const (
	KindUnknown Kind = iota
	// KindInvalid is a request that failed validation.
	KindInvalid
	// KindNotFound means the requested data does not exist (e.g. empty price history).
	KindNotFound
	// KindLookup is a failure while reading the cache or the external provider.
	KindLookup
	// KindPersistence is a failed write; the transaction has been rolled back.
	KindPersistence
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindNotFound:
		return "not_found"
	case KindLookup:
		return "lookup"
	case KindPersistence:
		return "persistence"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is. Any *Error of the same kind matches.
var (
	ErrInvalid     = errors.New("invalid request")
	ErrNotFound    = errors.New("not found")
	ErrLookup      = errors.New("lookup failed")
	ErrPersistence = errors.New("persistence failed")
)

func (k Kind) sentinel() error {
	switch k {
	case KindInvalid:
		return ErrInvalid
	case KindNotFound:
		return ErrNotFound
	case KindLookup:
		return ErrLookup
	case KindPersistence:
		return ErrPersistence
	default:
		return nil
	}
}

// Error is a classified failure of a stocks operation.
type Error struct {
	Kind Kind
	Op   string // 失敗した操作名 (例: "search")
	Err  error  // 元のエラー
}

// NewError は kind と操作名で err を包みます。
func NewError(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for e's kind.
func (e *Error) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// KindOf returns the kind of the first *Error in err's chain, or KindUnknown.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindUnknown
}
