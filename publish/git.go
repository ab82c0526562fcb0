package publish

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"go.uber.org/zap"
)

// GitConfig configures a GitPublisher. Remote defaults to "origin". An
// empty Branch pushes every branch. Username and Token enable HTTP basic
// auth for the push; Username defaults to "token".
type GitConfig struct {
	Dir         string
	Remote      string
	Branch      string
	AuthorName  string
	AuthorEmail string
	Username    string
	Token       string
}

// GitPublisher publishes with go-git, so no git binary is needed.
type GitPublisher struct {
	cfg    GitConfig
	auth   transport.AuthMethod
	logger *zap.Logger
	now    func() time.Time

	mu sync.Mutex
}

// NewGitPublisher creates a publisher for the working tree in cfg.Dir.
func NewGitPublisher(cfg GitConfig, logger *zap.Logger) *GitPublisher {
	if cfg.Remote == "" {
		cfg.Remote = git.DefaultRemoteName
	}
	if cfg.AuthorName == "" {
		cfg.AuthorName = "VRA Seniors Admin"
	}
	if cfg.AuthorEmail == "" {
		cfg.AuthorEmail = "admin@vraseniors.local"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &GitPublisher{cfg: cfg, logger: logger, now: time.Now}
	if cfg.Token != "" {
		user := cfg.Username
		if user == "" {
			user = "token"
		}
		p.auth = &http.BasicAuth{Username: user, Password: cfg.Token}
	}
	return p
}

// Publish stages all changes, commits them and pushes. A failed push
// rolls the commit back, leaving the changes in the working tree.
func (p *GitPublisher) Publish(ctx context.Context, message string) (Outcome, error) {
	if !p.mu.TryLock() {
		return Outcome{}, &Error{Kind: InProgress, Op: "publish"}
	}
	defer p.mu.Unlock()

	repo, err := git.PlainOpen(p.cfg.Dir)
	if err != nil {
		return Outcome{}, classify("open", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return Outcome{}, classify("worktree", err)
	}

	if err := wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return Outcome{}, classify("add", err)
	}
	status, err := wt.Status()
	if err != nil {
		return Outcome{}, classify("status", err)
	}
	if status.IsClean() {
		p.logger.Info("publish skipped, working tree clean", zap.String("dir", p.cfg.Dir))
		return noChanges(), nil
	}

	var prev plumbing.Hash
	head, err := repo.Head()
	switch {
	case err == nil:
		prev = head.Hash()
	case errors.Is(err, plumbing.ErrReferenceNotFound):
		// unborn branch: the first commit
	default:
		return Outcome{}, classify("head", err)
	}

	msg := messageOrDefault(message)
	author := &object.Signature{
		Name:  p.cfg.AuthorName,
		Email: p.cfg.AuthorEmail,
		When:  p.now(),
	}
	hash, err := wt.Commit(msg, &git.CommitOptions{All: true, Author: author})
	if err != nil {
		return Outcome{}, classify("commit", err)
	}

	if err := repo.PushContext(ctx, p.pushOptions()); err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		if rbErr := p.rollback(repo, wt, prev); rbErr != nil {
			p.logger.Error("publish rollback failed",
				zap.String("commit", hash.String()),
				zap.Error(rbErr))
		}
		return Outcome{}, classify("push", err)
	}

	p.logger.Info("published",
		zap.String("commit", hash.String()),
		zap.String("remote", p.cfg.Remote),
		zap.String("message", msg))
	return Outcome{
		Committed: true,
		Hash:      hash.String(),
		Message:   "Changes committed and pushed successfully",
	}, nil
}

func (p *GitPublisher) pushOptions() *git.PushOptions {
	opts := &git.PushOptions{RemoteName: p.cfg.Remote, Auth: p.auth}
	if p.cfg.Branch != "" {
		ref := plumbing.NewBranchReferenceName(p.cfg.Branch)
		opts.RefSpecs = []config.RefSpec{config.RefSpec(fmt.Sprintf("%s:%s", ref, ref))}
	}
	return opts
}

// rollback undoes the local commit with a mixed reset to prev. When there
// was no previous commit the branch reference is removed instead.
func (p *GitPublisher) rollback(repo *git.Repository, wt *git.Worktree, prev plumbing.Hash) error {
	if !prev.IsZero() {
		return wt.Reset(&git.ResetOptions{Commit: prev, Mode: git.MixedReset})
	}
	head, err := repo.Storer.Reference(plumbing.HEAD)
	if err != nil {
		return err
	}
	return repo.Storer.RemoveReference(head.Target())
}
