package github

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"
)

const (
	defaultAPIBaseURL = "https://api.github.com"
	defaultRawBaseURL = "https://raw.githubusercontent.com"
)

// Publisher uploads catalogue images to a GitHub repository through the
// contents API and reports how many bytes the images directory already holds.
type Publisher struct {
	Owner  string
	Repo   string
	Branch string
	Dir    string // repository path the images live under
	Token  string

	APIBaseURL string // overridable for tests
	RawBaseURL string
	Client     *http.Client
}

func NewPublisher(owner, repo, branch, dir, token string) *Publisher {
	return &Publisher{
		Owner:      owner,
		Repo:       repo,
		Branch:     branch,
		Dir:        strings.Trim(dir, "/"),
		Token:      token,
		APIBaseURL: defaultAPIBaseURL,
		RawBaseURL: defaultRawBaseURL,
		Client:     &http.Client{Timeout: 30 * time.Second},
	}
}

type treeEntry struct {
	Path string `json:"path"`
	Type string `json:"type"`
	Size int64  `json:"size"`
}

type treeResponse struct {
	Tree []treeEntry `json:"tree"`
}

type contentResponse struct {
	SHA string `json:"sha"`
}

type putContentRequest struct {
	Message string `json:"message"`
	Content string `json:"content"`
	Branch  string `json:"branch"`
	SHA     string `json:"sha,omitempty"`
}

// FolderSize sums the sizes of all blobs under the images directory on the
// configured branch. Any transport failure or non-success response degrades
// to 0, so a flaky listing can let an upload slip past the quota gate; the
// warning log is the only trace.
func (p *Publisher) FolderSize(ctx context.Context) int64 {
	url := fmt.Sprintf("%s/repos/%s/%s/git/trees/%s?recursive=1", p.APIBaseURL, p.Owner, p.Repo, p.Branch)
	body, status, err := p.do(ctx, http.MethodGet, url, nil)
	if err != nil {
		slog.Warn("Images folder size unknown, treating as empty", "error", err)
		return 0
	}
	if status != http.StatusOK {
		slog.Warn("Images folder size unknown, treating as empty", "status", status)
		return 0
	}
	var tree treeResponse
	if err := json.Unmarshal(body, &tree); err != nil {
		slog.Warn("Images folder size unknown, treating as empty", "error", err)
		return 0
	}
	prefix := p.Dir + "/"
	var total int64
	for _, e := range tree.Tree {
		if e.Type == "blob" && strings.HasPrefix(e.Path, prefix) {
			total += e.Size
		}
	}
	return total
}

// Publish uploads data to Dir/filename on the configured branch and returns
// the public raw URL. An existing file at that path is updated in place using
// its current revision sha.
func (p *Publisher) Publish(ctx context.Context, data []byte, filename string) (string, error) {
	target := path.Join(p.Dir, filename)
	contentsURL := fmt.Sprintf("%s/repos/%s/%s/contents/%s", p.APIBaseURL, p.Owner, p.Repo, target)

	// Existing file? We need its sha to overwrite.
	sha := ""
	body, status, err := p.do(ctx, http.MethodGet, contentsURL+"?ref="+p.Branch, nil)
	if err == nil && status == http.StatusOK {
		var existing contentResponse
		if err := json.Unmarshal(body, &existing); err == nil {
			sha = existing.SHA
		}
	}

	payload, err := json.Marshal(putContentRequest{
		Message: "Add catalogue image " + filename,
		Content: base64.StdEncoding.EncodeToString(data),
		Branch:  p.Branch,
		SHA:     sha,
	})
	if err != nil {
		return "", fmt.Errorf("encode upload request: %w", err)
	}

	body, status, err = p.do(ctx, http.MethodPut, contentsURL, payload)
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", target, err)
	}
	if status != http.StatusCreated && status != http.StatusOK {
		return "", fmt.Errorf("upload %s: status %d: %s", target, status, apiMessage(body))
	}

	return fmt.Sprintf("%s/%s/%s/%s/%s", p.RawBaseURL, p.Owner, p.Repo, p.Branch, target), nil
}

func (p *Publisher) do(ctx context.Context, method, url string, payload []byte) ([]byte, int, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if p.Token != "" {
		req.Header.Set("Authorization", "Bearer "+p.Token)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return body, resp.StatusCode, nil
}

func apiMessage(body []byte) string {
	var e struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &e); err != nil || e.Message == "" {
		return string(body)
	}
	return e.Message
}
