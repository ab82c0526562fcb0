package publish

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// CommandConfig configures a CommandPublisher. GitPath defaults to "git"
// looked up on PATH.
type CommandConfig struct {
	Dir         string
	Remote      string
	Branch      string
	AuthorName  string
	AuthorEmail string
	GitPath     string
}

// CommandPublisher publishes by running the git binary, so the host's git
// configuration and credential helpers apply.
type CommandPublisher struct {
	cfg    CommandConfig
	logger *zap.Logger

	mu sync.Mutex
}

// NewCommandPublisher creates a publisher that shells out to git.
func NewCommandPublisher(cfg CommandConfig, logger *zap.Logger) *CommandPublisher {
	if cfg.Remote == "" {
		cfg.Remote = "origin"
	}
	if cfg.GitPath == "" {
		cfg.GitPath = "git"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CommandPublisher{cfg: cfg, logger: logger}
}

// Publish runs add, status, commit and push. A failed push is undone with
// a mixed reset to the previous HEAD.
func (p *CommandPublisher) Publish(ctx context.Context, message string) (Outcome, error) {
	if !p.mu.TryLock() {
		return Outcome{}, &Error{Kind: InProgress, Op: "publish"}
	}
	defer p.mu.Unlock()

	if _, err := p.git(ctx, "add", "-A"); err != nil {
		return Outcome{}, classify("add", err)
	}
	out, err := p.git(ctx, "status", "--porcelain")
	if err != nil {
		return Outcome{}, classify("status", err)
	}
	if strings.TrimSpace(out) == "" {
		return noChanges(), nil
	}

	prev, _ := p.git(ctx, "rev-parse", "--verify", "-q", "HEAD")
	prev = strings.TrimSpace(prev)

	msg := messageOrDefault(message)
	if out, err := p.git(ctx, "commit", "-m", msg); err != nil {
		if isNothingToCommit(out) {
			return noChanges(), nil
		}
		return Outcome{}, classify("commit", err)
	}
	hash, _ := p.git(ctx, "rev-parse", "HEAD")
	hash = strings.TrimSpace(hash)

	pushArgs := []string{"push", p.cfg.Remote}
	if p.cfg.Branch != "" {
		pushArgs = append(pushArgs, "HEAD:"+p.cfg.Branch)
	}
	if _, err := p.git(ctx, pushArgs...); err != nil {
		if prev != "" {
			if _, rbErr := p.git(ctx, "reset", "--mixed", prev); rbErr != nil {
				p.logger.Error("publish rollback failed", zap.String("commit", hash), zap.Error(rbErr))
			}
		} else if _, rbErr := p.git(ctx, "update-ref", "-d", "HEAD"); rbErr != nil {
			p.logger.Error("publish rollback failed", zap.String("commit", hash), zap.Error(rbErr))
		}
		return Outcome{}, classify("push", err)
	}

	p.logger.Info("published", zap.String("commit", hash), zap.String("remote", p.cfg.Remote))
	return Outcome{
		Committed: true,
		Hash:      hash,
		Message:   "Changes committed and pushed successfully",
	}, nil
}

// git runs one git command in the working tree and returns its combined
// output. On failure the output is folded into the error so it can be
// classified.
func (p *CommandPublisher) git(ctx context.Context, args ...string) (string, error) {
	var full []string
	if p.cfg.AuthorName != "" {
		full = append(full, "-c", "user.name="+p.cfg.AuthorName)
	}
	if p.cfg.AuthorEmail != "" {
		full = append(full, "-c", "user.email="+p.cfg.AuthorEmail)
	}
	full = append(full, args...)

	cmd := exec.CommandContext(ctx, p.cfg.GitPath, full...)
	cmd.Dir = p.cfg.Dir
	var buf bytes.Buffer
	cmd.Stdout = &buf
	cmd.Stderr = &buf
	err := cmd.Run()
	out := buf.String()
	if err != nil {
		return out, fmt.Errorf("git %s: %w: %s", args[0], err, strings.TrimSpace(out))
	}
	return out, nil
}
