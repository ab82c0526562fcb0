package publish

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/transport"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind Kind
		msg  string
	}{
		{"go-git not a repo", git.ErrRepositoryNotExists, NotRepository, "This project is not a git repository"},
		{"cli not a repo", errors.New("fatal: not a git repository (or any of the parent directories): .git"), NotRepository, "This project is not a git repository"},
		{"go-git non-fast-forward", fmt.Errorf("push: %w", git.ErrNonFastForwardUpdate), PushRejected, "Push rejected by remote repository"},
		{"cli rejected", errors.New("! [rejected] master -> master (fetch first)"), PushRejected, "Push rejected by remote repository"},
		{"go-git auth", transport.ErrAuthenticationRequired, PermissionDenied, "Permission denied - check your git credentials"},
		{"cli permission", errors.New("git@github.com: Permission denied (publickey)."), PermissionDenied, "Permission denied - check your git credentials"},
		{"other", errors.New("disk full"), Other, "publish push: disk full"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classify("push", tt.err)
			if err.Kind != tt.kind {
				t.Errorf("kind = %v, want %v", err.Kind, tt.kind)
			}
			if tt.kind != Other && err.UserMessage() != tt.msg {
				t.Errorf("UserMessage = %q, want %q", err.UserMessage(), tt.msg)
			}
			if tt.kind == Other && err.Error() != tt.msg {
				t.Errorf("Error = %q, want %q", err.Error(), tt.msg)
			}
			if !errors.Is(err, tt.err) {
				t.Error("classified error does not unwrap to the cause")
			}
		})
	}
}

func TestUserMessageOther(t *testing.T) {
	err := classify("commit", errors.New("index locked"))
	if got := UserMessage(err); got != "index locked" {
		t.Errorf("UserMessage = %q", got)
	}
	if got := UserMessage(errors.New("plain")); got != "plain" {
		t.Errorf("UserMessage(plain) = %q", got)
	}
}

func TestClassifyKeepsExisting(t *testing.T) {
	orig := &Error{Kind: InProgress, Op: "publish"}
	if got := classify("push", fmt.Errorf("wrapped: %w", orig)); got != orig {
		t.Errorf("classify re-wrapped a publish error: %v", got)
	}
}

func TestMessageOrDefault(t *testing.T) {
	if got := messageOrDefault(" \n"); got != DefaultMessage {
		t.Errorf("blank message = %q", got)
	}
	if got := messageOrDefault(" Fix typo "); got != "Fix typo" {
		t.Errorf("message = %q", got)
	}
}
