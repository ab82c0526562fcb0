package publish

import (
	"context"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/require"
)

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}
}

func TestCommandPublish(t *testing.T) {
	requireGit(t)
	f := newFixture(t)
	p := NewCommandPublisher(CommandConfig{
		Dir:         f.work,
		Branch:      "master",
		AuthorName:  "Editor",
		AuthorEmail: "editor@example.com",
	}, nil)

	out, err := p.Publish(context.Background(), "")
	require.NoError(t, err)
	require.False(t, out.Committed)
	require.Equal(t, "No changes to commit", out.Message)

	writeFile(t, f.work, "content.json", `[]`)
	out, err = p.Publish(context.Background(), "Edit home")
	require.NoError(t, err)
	require.True(t, out.Committed)
	require.Equal(t, out.Hash, remoteHead(t, f.bare).String())
}

func TestCommandPublishNotRepository(t *testing.T) {
	requireGit(t)
	p := NewCommandPublisher(CommandConfig{Dir: t.TempDir()}, nil)
	_, err := p.Publish(context.Background(), "x")
	require.Error(t, err)
	require.Equal(t, NotRepository, KindOf(err))
}
