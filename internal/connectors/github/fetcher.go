// Package github fetches course documents from a GitHub repository.
//
// Course corpora are often published as a directory of .txt script files
// in a repository. The fetcher lists a directory, downloads each .txt
// file and writes it into the local docs directory for ingestion.
package github

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/oauth2"

	"github.com/custodia-labs/coursechat/internal/logger"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second
)

// Fetcher downloads course documents from a GitHub repository directory.
type Fetcher struct {
	gh *gh.Client
}

// NewFetcher creates a fetcher. An empty token gives an unauthenticated
// client, which works for public repositories at a lower rate limit.
func NewFetcher(ctx context.Context, token string) *Fetcher {
	if token == "" {
		return &Fetcher{gh: gh.NewClient(nil)}
	}

	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)
	tc.Timeout = DefaultTimeout

	return &Fetcher{gh: gh.NewClient(tc)}
}

// Ref identifies a directory of course documents in a repository.
type Ref struct {
	Owner string
	Repo  string
	Path  string
	// Branch is the git ref to read from. Empty uses the default branch.
	Branch string
}

// ParseRef parses "owner/repo" or "owner/repo/path/to/docs" into a Ref.
func ParseRef(s string) (Ref, error) {
	parts := strings.SplitN(strings.Trim(s, "/"), "/", 3)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return Ref{}, fmt.Errorf("invalid repository reference %q (want owner/repo[/path])", s)
	}

	ref := Ref{Owner: parts[0], Repo: parts[1]}
	if len(parts) == 3 {
		ref.Path = parts[2]
	}
	return ref, nil
}

// FetchDocs downloads every .txt file in the referenced directory into
// destDir and returns the local paths written.
func (f *Fetcher) FetchDocs(ctx context.Context, ref Ref, destDir string) ([]string, error) {
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return nil, fmt.Errorf("create docs directory: %w", err)
	}

	opts := &gh.RepositoryContentGetOptions{Ref: ref.Branch}
	_, entries, _, err := f.gh.Repositories.GetContents(ctx, ref.Owner, ref.Repo, ref.Path, opts)
	if err != nil {
		return nil, fmt.Errorf("list %s/%s/%s: %w", ref.Owner, ref.Repo, ref.Path, err)
	}
	if entries == nil {
		return nil, fmt.Errorf("%s is a file, not a directory", ref.Path)
	}

	var written []string
	for _, entry := range entries {
		select {
		case <-ctx.Done():
			return written, ctx.Err()
		default:
		}

		if entry.GetType() != "file" || !strings.HasSuffix(entry.GetName(), ".txt") {
			continue
		}

		content, err := f.fileContent(ctx, ref, entry.GetPath())
		if err != nil {
			logger.Warn("Skipping %s: %v", entry.GetName(), err)
			continue
		}

		local := filepath.Join(destDir, entry.GetName())
		if err := os.WriteFile(local, []byte(content), 0644); err != nil {
			return written, fmt.Errorf("write %s: %w", local, err)
		}

		logger.Debug("Fetched %s (%d bytes)", entry.GetName(), len(content))
		written = append(written, local)
	}

	logger.Info("Fetched %d course documents from %s/%s", len(written), ref.Owner, ref.Repo)
	return written, nil
}

// fileContent downloads and decodes one file.
func (f *Fetcher) fileContent(ctx context.Context, ref Ref, path string) (string, error) {
	opts := &gh.RepositoryContentGetOptions{Ref: ref.Branch}
	content, _, _, err := f.gh.Repositories.GetContents(ctx, ref.Owner, ref.Repo, path, opts)
	if err != nil {
		return "", fmt.Errorf("get contents: %w", err)
	}
	if content == nil {
		return "", fmt.Errorf("path is a directory, not a file")
	}

	decoded, err := content.GetContent()
	if err != nil {
		return "", fmt.Errorf("decode content: %w", err)
	}
	return decoded, nil
}
