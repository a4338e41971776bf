package github

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/cdaprod/nodeprop/pkg/types"
)

const requestTimeout = 10 * time.Second

// Result distinguishes a fetched metadata record from the well-defined
// default, so callers and tests do not have to infer it from log output.
type Result struct {
	Metadata  types.GitHub
	Defaulted bool
	Reason    string
}

// Client queries the GitHub REST API for repository metadata. It never
// returns an error: any failure collapses to the default record.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	logger  *slog.Logger
}

func NewClient(baseURL, token string, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: requestTimeout},
		logger:  logger,
	}
}

// DefaultMetadata is the record substituted for any failed fetch: all
// counters zero, no license, empty topics, and the current time as the
// latest-commit stamp.
func DefaultMetadata(now time.Time) types.GitHub {
	return types.GitHub{
		License:      "No License",
		Topics:       []string{},
		LatestCommit: now.UTC().Format(time.RFC3339),
	}
}

// Fetch returns metadata for owner/repo. Without a token, or when the
// primary repository lookup fails, it returns the default record. Secondary
// lookups (topics, pull counts) are each independently best-effort.
func (c *Client) Fetch(ctx context.Context, owner, repo string) Result {
	if c.token == "" {
		c.logger.Warn("no access token, using default metadata")
		return Result{Metadata: DefaultMetadata(time.Now()), Defaulted: true, Reason: "no access token"}
	}

	base := fmt.Sprintf("/repos/%s/%s", url.PathEscape(owner), url.PathEscape(repo))
	var repoData struct {
		StargazersCount int    `json:"stargazers_count"`
		ForksCount      int    `json:"forks_count"`
		OpenIssuesCount int    `json:"open_issues_count"`
		UpdatedAt       string `json:"updated_at"`
		License         *struct {
			SPDXID string `json:"spdx_id"`
		} `json:"license"`
	}
	if err := c.getJSON(ctx, base, &repoData); err != nil {
		c.logger.Warn("repository lookup failed, using default metadata", "repo", owner+"/"+repo, "error", err)
		return Result{Metadata: DefaultMetadata(time.Now()), Defaulted: true, Reason: err.Error()}
	}

	md := types.GitHub{
		Stars:        repoData.StargazersCount,
		Forks:        repoData.ForksCount,
		Issues:       repoData.OpenIssuesCount,
		License:      "No License",
		Topics:       []string{},
		LatestCommit: repoData.UpdatedAt,
	}
	if repoData.License != nil && repoData.License.SPDXID != "" {
		md.License = repoData.License.SPDXID
	}
	if md.LatestCommit == "" {
		md.LatestCommit = time.Now().UTC().Format(time.RFC3339)
	}

	var topics struct {
		Names []string `json:"names"`
	}
	if err := c.getJSON(ctx, base+"/topics", &topics); err != nil {
		c.logger.Warn("topics lookup failed", "error", err)
	} else if topics.Names != nil {
		md.Topics = topics.Names
	}

	md.PullRequests = types.Counts{
		Open:   c.listLen(ctx, base+"/pulls?state=open"),
		Closed: c.listLen(ctx, base+"/pulls?state=closed"),
	}

	return Result{Metadata: md}
}

// listLen counts the entries of a list endpoint, zero on any failure.
func (c *Client) listLen(ctx context.Context, path string) int {
	var items []json.RawMessage
	if err := c.getJSON(ctx, path, &items); err != nil {
		c.logger.Warn("list lookup failed", "path", path, "error", err)
		return 0
	}
	return len(items)
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/vnd.github.v3+json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
