package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/sokinpui/webrev/internal/ui"
	"github.com/sokinpui/webrev/model"
)

const (
	defaultAPIURL = "https://api.github.com"
	defaultRawURL = "https://raw.githubusercontent.com"
)

// GitHubProvider compares two refs of a GitHub repository through the compare
// API and fetches contents from the raw content host.
type GitHubProvider struct {
	client *http.Client
	apiURL string
	rawURL string
	repo   string // owner/name
	base   string
	head   string
	token  string

	mu        sync.Mutex
	mergeBase string // set by Comparison
}

// NewGitHub returns a provider for repo ("owner/name"). token may be empty.
func NewGitHub(repo, base, head, token string) *GitHubProvider {
	return &GitHubProvider{
		client: &http.Client{Timeout: 30 * time.Second},
		apiURL: defaultAPIURL,
		rawURL: defaultRawURL,
		repo:   repo,
		base:   base,
		head:   head,
		token:  token,
	}
}

// WithURLs points the provider at other API and raw content hosts, such as a
// GitHub Enterprise instance.
func (p *GitHubProvider) WithURLs(apiURL, rawURL string) *GitHubProvider {
	p.apiURL = apiURL
	p.rawURL = rawURL
	return p
}

type compareResponse struct {
	MergeBaseCommit struct {
		SHA string `json:"sha"`
	} `json:"merge_base_commit"`
	Files []struct {
		Filename         string `json:"filename"`
		PreviousFilename string `json:"previous_filename"`
		Status           string `json:"status"`
		Additions        int    `json:"additions"`
		Deletions        int    `json:"deletions"`
		Patch            string `json:"patch"`
	} `json:"files"`
}

// compareFileLimit is the most files the compare API lists in one response.
const compareFileLimit = 300

func (p *GitHubProvider) Comparison(ctx context.Context) (*model.Comparison, error) {
	u, err := url.JoinPath(p.apiURL, "repos", p.repo, "compare", p.base+"..."+p.head)
	if err != nil {
		return nil, fmt.Errorf("invalid compare URL: %w", err)
	}
	body, err := p.get(ctx, u, "application/vnd.github+json")
	if err != nil {
		return nil, err
	}

	var resp compareResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode compare response: %w", err)
	}

	// The three-dot compare diffs head against the merge base, not base.
	p.mu.Lock()
	p.mergeBase = resp.MergeBaseCommit.SHA
	p.mu.Unlock()

	c := &model.Comparison{Title: p.repo, Base: p.base, Head: p.head}
	for _, f := range resp.Files {
		c.Files = append(c.Files, model.FileDiff{
			Filename:         f.Filename,
			PreviousFilename: f.PreviousFilename,
			Status:           githubStatus(f.Status),
			Patch:            withNewline(f.Patch),
			Additions:        f.Additions,
			Deletions:        f.Deletions,
		})
	}
	if len(c.Files) >= compareFileLimit {
		ui.Warning("GitHub returned %d files; the comparison may be truncated.", len(c.Files))
	}
	ui.Debug("GitHub compare %s %s...%s: %d file(s)", p.repo, p.base, p.head, len(c.Files))
	return c, nil
}

func (p *GitHubProvider) Content(ctx context.Context, file model.FileDiff, side model.Side) ([]string, error) {
	if !hasSide(file, side) {
		return nil, ErrNoContent
	}
	ref, path := p.baseRef(), file.BaseFilename()
	if side == model.Head {
		ref, path = p.head, file.Filename
	}

	u, err := url.JoinPath(p.rawURL, p.repo, ref, path)
	if err != nil {
		return nil, fmt.Errorf("invalid content URL: %w", err)
	}
	body, err := p.get(ctx, u, "")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s at %s: %w", path, ref, err)
	}
	return SplitLines(string(body)), nil
}

// baseRef is the commit the patches were computed against: the merge base
// reported by the compare API, else the base ref itself.
func (p *GitHubProvider) baseRef() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.mergeBase != "" {
		return p.mergeBase
	}
	return p.base
}

func (p *GitHubProvider) get(ctx context.Context, u, accept string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	if p.token != "" {
		req.Header.Set("Authorization", "Bearer "+p.token)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", u, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", u, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: %s", u, resp.Status)
	}
	return body, nil
}

// githubStatus maps the compare API's file status onto model.Status.
func githubStatus(s string) model.Status {
	switch s {
	case "added":
		return model.StatusAdded
	case "removed":
		return model.StatusRemoved
	case "renamed":
		return model.StatusRenamed
	case "copied":
		return model.StatusCopied
	default:
		// "modified", "changed", "unchanged"
		return model.StatusModified
	}
}

// withNewline terminates the API's patch text like git does.
func withNewline(patch string) string {
	if patch == "" || patch[len(patch)-1] == '\n' {
		return patch
	}
	return patch + "\n"
}
