package gitrepo

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/wonny/epscreen/internal/contracts"
	"github.com/wonny/epscreen/pkg/logger"
)

// History reads the universe file as of the commit before HEAD in a local work tree
type History struct {
	gitPath string
	dir     string // work tree root
	path    string // universe file, relative to dir
	rev     string
	logger  *logger.Logger
}

var _ contracts.UniverseHistory = (*History)(nil)

// New creates a git-backed history for path inside the work tree at dir
func New(dir, path string, log *logger.Logger) *History {
	return &History{
		gitPath: "git",
		dir:     dir,
		path:    filepath.ToSlash(path),
		rev:     "HEAD~1",
		logger:  log.WithField("source", "git"),
	}
}

// PreviousUniverseText returns the file content at HEAD~1, or "" on any failure
func (h *History) PreviousUniverseText(ctx context.Context) string {
	text, err := h.show(ctx)
	if err != nil {
		h.logger.WithError(err).WithFields(map[string]interface{}{
			"rev":  h.rev,
			"path": h.path,
		}).Warn("Previous universe unavailable")
		return ""
	}
	return text
}

func (h *History) show(ctx context.Context) (string, error) {
	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, h.gitPath, "show", fmt.Sprintf("%s:%s", h.rev, h.path))
	cmd.Dir = h.dir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%w: git show: %w: %s", contracts.ErrDiffSourceUnavailable, err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}
