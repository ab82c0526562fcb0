// Package publish stages, commits and pushes the site's working tree so
// edits made through the admin interface reach the deployed site.
package publish

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/transport"
)

// DefaultMessage is the commit message used when the caller gives none.
const DefaultMessage = "Update content via admin interface"

const noChangesMessage = "No changes to commit"

// Publisher stages every change in the working tree, commits it and pushes
// the commit. Either the push succeeds or no new commit remains.
type Publisher interface {
	Publish(ctx context.Context, message string) (Outcome, error)
}

// Outcome describes a successful publish.
type Outcome struct {
	Committed bool
	Hash      string
	Message   string
}

func noChanges() Outcome {
	return Outcome{Committed: false, Message: noChangesMessage}
}

func messageOrDefault(msg string) string {
	if m := strings.TrimSpace(msg); m != "" {
		return m
	}
	return DefaultMessage
}

// Kind classifies a publish failure.
type Kind int

const (
	Other Kind = iota
	NotRepository
	PushRejected
	PermissionDenied
	InProgress
)

func (k Kind) String() string {
	switch k {
	case NotRepository:
		return "not_repository"
	case PushRejected:
		return "push_rejected"
	case PermissionDenied:
		return "permission_denied"
	case InProgress:
		return "in_progress"
	default:
		return "other"
	}
}

// Error is a classified publish failure.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("publish %s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("publish %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// UserMessage returns the text shown to the admin for this failure.
func (e *Error) UserMessage() string {
	switch e.Kind {
	case NotRepository:
		return "This project is not a git repository"
	case PushRejected:
		return "Push rejected by remote repository"
	case PermissionDenied:
		return "Permission denied - check your git credentials"
	case InProgress:
		return "A publish is already in progress"
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "Failed to commit and push changes"
}

// UserMessage returns the admin-facing text for any publish error.
func UserMessage(err error) string {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.UserMessage()
	}
	return err.Error()
}

// KindOf returns the kind of a publish error, or Other.
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return Other
}

// classify wraps err from operation op with its failure kind. Both go-git
// sentinels and git CLI output are recognised.
func classify(op string, err error) *Error {
	var pe *Error
	if errors.As(err, &pe) {
		return pe
	}
	return &Error{Kind: kindOf(err), Op: op, Err: err}
}

func kindOf(err error) Kind {
	switch {
	case errors.Is(err, git.ErrRepositoryNotExists):
		return NotRepository
	case errors.Is(err, git.ErrNonFastForwardUpdate):
		return PushRejected
	case errors.Is(err, transport.ErrAuthenticationRequired),
		errors.Is(err, transport.ErrAuthorizationFailed):
		return PermissionDenied
	}
	l := strings.ToLower(err.Error())
	switch {
	case strings.Contains(l, "not a git repository"):
		return NotRepository
	case strings.Contains(l, "rejected") || strings.Contains(l, "non-fast-forward"):
		return PushRejected
	case strings.Contains(l, "permission denied") ||
		strings.Contains(l, "authentication failed") ||
		strings.Contains(l, "could not read username"):
		return PermissionDenied
	}
	return Other
}

func isNothingToCommit(output string) bool {
	l := strings.ToLower(output)
	return strings.Contains(l, "nothing to commit") || strings.Contains(l, "no changes added to commit")
}
