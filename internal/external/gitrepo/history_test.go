package gitrepo

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/epscreen/internal/contracts"
	"github.com/wonny/epscreen/pkg/logger"
)

// initRepo creates a work tree with one commit per content version
func initRepo(t *testing.T, versions ...string) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	dir := t.TempDir()
	run := func(args ...string) {
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		cmd.Env = append(os.Environ(),
			"GIT_AUTHOR_NAME=test", "GIT_AUTHOR_EMAIL=test@example.com",
			"GIT_COMMITTER_NAME=test", "GIT_COMMITTER_EMAIL=test@example.com",
		)
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, string(out))
	}

	run("init", "-q")
	for _, v := range versions {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "qm1w.txt"), []byte(v), 0o644))
		run("add", "qm1w.txt")
		run("commit", "-q", "-m", "update universe")
	}
	return dir
}

func TestPreviousUniverseText(t *testing.T) {
	dir := initRepo(t, "A,B,C\n", "B,C,D\n")

	h := New(dir, "qm1w.txt", logger.Nop())
	assert.Equal(t, "A,B,C\n", h.PreviousUniverseText(context.Background()))
}

func TestPreviousUniverseText_SingleCommit(t *testing.T) {
	dir := initRepo(t, "A\n")

	h := New(dir, "qm1w.txt", logger.Nop())
	assert.Equal(t, "", h.PreviousUniverseText(context.Background()))

	_, err := h.show(context.Background())
	assert.ErrorIs(t, err, contracts.ErrDiffSourceUnavailable)
}

func TestPreviousUniverseText_NotARepo(t *testing.T) {
	h := New(t.TempDir(), "qm1w.txt", logger.Nop())
	assert.Equal(t, "", h.PreviousUniverseText(context.Background()))
}

func TestPreviousUniverseText_MissingBinary(t *testing.T) {
	h := New(t.TempDir(), "qm1w.txt", logger.Nop())
	h.gitPath = "git-does-not-exist"
	assert.Equal(t, "", h.PreviousUniverseText(context.Background()))
}
