package github

import (
	"context"
	"fmt"
	"net/http"

	gh "github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"

	"github.com/wonny/epscreen/internal/contracts"
	"github.com/wonny/epscreen/pkg/config"
	"github.com/wonny/epscreen/pkg/logger"
)

// History reads the previous committed version of the universe file from GitHub
// ⭐ SSOT: GitHub API 호출은 여기서만
type History struct {
	client *gh.Client
	owner  string
	repo   string
	path   string
	branch string // empty = default branch
	logger *logger.Logger
}

var _ contracts.UniverseHistory = (*History)(nil)

// New creates a GitHub history. A token switches to an authenticated client.
func New(cfg config.GitHubConfig, universeFile string, httpClient *http.Client, log *logger.Logger) *History {
	path := cfg.Path
	if path == "" {
		path = universeFile
	}

	if cfg.Token != "" {
		ctx := context.Background()
		if httpClient != nil {
			ctx = context.WithValue(ctx, oauth2.HTTPClient, httpClient)
		}
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
		httpClient = oauth2.NewClient(ctx, ts)
	}

	return &History{
		client: gh.NewClient(httpClient),
		owner:  cfg.Owner,
		repo:   cfg.Repo,
		path:   path,
		branch: cfg.Branch,
		logger: log.WithField("source", "github"),
	}
}

// PreviousUniverseText returns the file as of the second most recent commit
// touching it, or "" on any failure
func (h *History) PreviousUniverseText(ctx context.Context) string {
	text, err := h.previous(ctx)
	if err != nil {
		h.logger.WithError(err).WithFields(map[string]interface{}{
			"owner": h.owner,
			"repo":  h.repo,
			"path":  h.path,
		}).Warn("Previous universe unavailable")
		return ""
	}
	return text
}

func (h *History) previous(ctx context.Context) (string, error) {
	commits, _, err := h.client.Repositories.ListCommits(ctx, h.owner, h.repo, &gh.CommitsListOptions{
		SHA:         h.branch,
		Path:        h.path,
		ListOptions: gh.ListOptions{PerPage: 2},
	})
	if err != nil {
		return "", fmt.Errorf("%w: list commits: %w", contracts.ErrDiffSourceUnavailable, err)
	}
	if len(commits) < 2 {
		return "", fmt.Errorf("%w: %d commit(s) touch %s", contracts.ErrDiffSourceUnavailable, len(commits), h.path)
	}

	sha := commits[1].GetSHA()
	content, _, _, err := h.client.Repositories.GetContents(ctx, h.owner, h.repo, h.path, &gh.RepositoryContentGetOptions{
		Ref: sha,
	})
	if err != nil {
		return "", fmt.Errorf("%w: get contents at %s: %w", contracts.ErrDiffSourceUnavailable, sha, err)
	}
	if content == nil {
		return "", fmt.Errorf("%w: %s is not a file at %s", contracts.ErrDiffSourceUnavailable, h.path, sha)
	}

	text, err := content.GetContent()
	if err != nil {
		return "", fmt.Errorf("%w: decode content: %w", contracts.ErrDiffSourceUnavailable, err)
	}
	return text, nil
}
