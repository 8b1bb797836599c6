package engagement

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownTargetKind rejects like operations on anything that is not
	// a post or a comment.
	ErrUnknownTargetKind = errors.New("unknown like target kind")

	// ErrCrossPostParent rejects a reply whose parent comment belongs to a
	// different post.
	ErrCrossPostParent = errors.New("parent comment belongs to a different post")

	// ErrCommentCycle is returned by Assemble when parent references form a
	// cycle, which would leave comments unreachable from any root.
	ErrCommentCycle = errors.New("comment parent references form a cycle")
)

// ConflictError wraps a like-ledger write that failed for a reason other than
// the expected uniqueness race. Callers should treat it as transient and
// decide retry/backoff policy themselves.
type ConflictError struct {
	Op  string
	Err error
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("like ledger %s: %v", e.Op, e.Err)
}

func (e *ConflictError) Unwrap() error {
	return e.Err
}
