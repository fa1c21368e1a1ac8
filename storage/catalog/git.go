package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/easelhq/easel/config"
	"github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/plumbing"
	"github.com/go-git/go-git/v6/plumbing/object"
	"github.com/go-git/go-git/v6/plumbing/transport"
	"github.com/go-git/go-git/v6/plumbing/transport/http"
	"github.com/go-git/go-git/v6/plumbing/transport/ssh"
)

// GitCatalogStore keeps the catalog as one JSON file per asset inside a
// git repository. Every mutation is committed and pushed so the remote
// stays the source of truth.
type GitCatalogStore struct {
	cfg    *config.GitCatalogStrategy
	auth   *transport.AuthMethod
	repo   *git.Repository
	tmpDir string
	mu     sync.Mutex
}

func freshClone(cfg *config.GitCatalogStrategy, auth transport.AuthMethod) (string, *git.Repository, error) {
	tmpDir, err := os.MkdirTemp("", "easel-*")
	if err != nil {
		return "", nil, err
	}

	repo, err := git.PlainClone(tmpDir, &git.CloneOptions{
		URL:  cfg.Repository,
		Auth: auth,
	})
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", nil, err
	}

	return tmpDir, repo, nil
}

func NewGitCatalogStore(cfg *config.GitCatalogStrategy) (*GitCatalogStore, error) {
	auth, err := buildGitAuth(cfg)
	if err != nil {
		return nil, err
	}

	tmpDir, repo, err := freshClone(cfg, auth)
	if err != nil {
		return nil, err
	}

	return &GitCatalogStore{
		cfg:    cfg,
		auth:   &auth,
		repo:   repo,
		tmpDir: tmpDir,
	}, nil
}

func buildGitAuth(cfg *config.GitCatalogStrategy) (transport.AuthMethod, error) {
	switch cfg.Auth.Method {
	case "plain":
		return &http.BasicAuth{
			Username: cfg.Auth.Plain.Username,
			Password: cfg.Auth.Plain.Password,
		}, nil
	case "ssh":
		pubkeys, err := ssh.NewPublicKeysFromFile(cfg.Auth.Ssh.Username, cfg.Auth.Ssh.PrivateKeyFilePath, cfg.Auth.Ssh.Passphrase)

		if err != nil {
			return nil, fmt.Errorf("failed to prepare catalog git ssh authentication: %w", err)
		}

		return pubkeys, nil
	default:
		return nil, fmt.Errorf("invalid git authentication method %v", cfg.Auth.Method)
	}
}

func (cs *GitCatalogStore) branch() string {
	if cs.cfg.Branch != "" {
		return cs.cfg.Branch
	}

	return "main"
}

func (cs *GitCatalogStore) reinit() error {
	// Remove old tmpDir
	os.RemoveAll(cs.tmpDir)

	tmpDir, repo, err := freshClone(cs.cfg, *cs.auth)
	if err != nil {
		return err
	}

	cs.tmpDir = tmpDir
	cs.repo = repo

	return nil
}

// Cleanup removes the cloned repository directory to free up disk space.
// Should be called when the application is shutting down.
func (cs *GitCatalogStore) Cleanup() error {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if cs.tmpDir == "" {
		return nil
	}

	if err := os.RemoveAll(cs.tmpDir); err != nil {
		return fmt.Errorf("failed to cleanup git catalog store: %w", err)
	}

	cs.tmpDir = ""
	return nil
}

func (cs *GitCatalogStore) fetchAndFastForward(ctx context.Context) error {
	var lastErr error

	branch := cs.branch()

	for range 3 {
		if err := cs.repo.FetchContext(ctx, &git.FetchOptions{Auth: *cs.auth}); err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
			lastErr = err
			cs.reinit()
			continue
		}

		remoteRef, err := cs.repo.Reference(plumbing.NewRemoteReferenceName("origin", branch), true)
		if err != nil {
			lastErr = err
			cs.reinit()
			continue
		}

		localRef, err := cs.repo.Reference(plumbing.NewBranchReferenceName(branch), true)
		if err != nil {
			lastErr = err
			cs.reinit()
			continue
		}

		if localRef.Hash() == remoteRef.Hash() {
			// Nothing to do
			return nil
		}

		if err := cs.repo.Storer.SetReference(plumbing.NewHashReference(plumbing.NewBranchReferenceName(branch), remoteRef.Hash())); err != nil {
			lastErr = err
			cs.reinit()
			continue
		}

		wt, err := cs.repo.Worktree()
		if err != nil {
			lastErr = err
			cs.reinit()
			continue
		}

		if err := wt.Reset(&git.ResetOptions{
			Mode:   git.HardReset,
			Commit: remoteRef.Hash(),
		}); err != nil {
			lastErr = err
			cs.reinit()
			continue
		}

		return nil
	}

	return fmt.Errorf("could not fetch + fastforward after 3 retries: %w", lastErr)
}

func (cs *GitCatalogStore) Save(ctx context.Context, entry Entry) error {
	if entry.Asset.ID == "" {
		return fmt.Errorf("catalog entry must have an asset id")
	}

	jsonBytes, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return err
	}

	relPath := filepath.Join(cs.cfg.Path, entry.Asset.ID+".json")

	cs.mu.Lock()
	defer cs.mu.Unlock()

	if err = cs.fetchAndFastForward(ctx); err != nil {
		return fmt.Errorf("failed to update repo from remote: %w", err)
	}

	fullPath := filepath.Join(cs.tmpDir, relPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create required directory structure: %w", err)
	}

	if err = os.WriteFile(fullPath, jsonBytes, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	wt, err := cs.repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to get new worktree: %w", err)
	}

	if _, err = wt.Add(relPath); err != nil {
		return fmt.Errorf("failed to add file to git: %w", err)
	}

	_, err = wt.Commit(fmt.Sprintf("easel(save): catalog asset: %v", entry.Asset.ID), &git.CommitOptions{
		Author: &object.Signature{
			Name:  "easel",
			Email: "easel@local",
			When:  time.Now(),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create commit: %w", err)
	}

	if err := cs.repo.PushContext(ctx, &git.PushOptions{Auth: *cs.auth}); err != nil {
		return fmt.Errorf("failed to push local: %w", err)
	}

	return nil
}

func (cs *GitCatalogStore) Get(ctx context.Context, id string) (*Entry, error) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if err := cs.fetchAndFastForward(ctx); err != nil {
		return nil, fmt.Errorf("failed to update repo from remote: %w", err)
	}

	entry, err := cs.readEntryByID(id)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, ErrNotFound
	}

	return entry, nil
}

func (cs *GitCatalogStore) List(ctx context.Context, projectID string) ([]Entry, error) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if err := cs.fetchAndFastForward(ctx); err != nil {
		return nil, fmt.Errorf("failed to update repo from remote: %w", err)
	}

	tree, err := cs.headTree()
	if err != nil {
		return nil, err
	}

	basePath := strings.TrimSuffix(cs.cfg.Path, "/") + "/"

	entries := []Entry{}
	err = tree.Files().ForEach(func(f *object.File) error {
		if !strings.HasPrefix(f.Name, basePath) {
			return nil
		}

		if !strings.HasSuffix(f.Name, ".json") {
			return nil
		}

		r, err := f.Reader()
		if err != nil {
			return err
		}

		data, err := io.ReadAll(r)
		r.Close()
		if err != nil {
			return err
		}

		var entry Entry
		if err := json.Unmarshal(data, &entry); err != nil {
			// invalid JSON does not mean we should stop looking
			return nil
		}

		if entry.Asset.ProjectID != projectID {
			return nil
		}

		entries = append(entries, entry)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return entries, nil
}

func (cs *GitCatalogStore) Delete(ctx context.Context, id string) error {
	relPath := filepath.Join(cs.cfg.Path, id+".json")

	cs.mu.Lock()
	defer cs.mu.Unlock()

	if err := cs.fetchAndFastForward(ctx); err != nil {
		return fmt.Errorf("failed to update repo from remote: %w", err)
	}

	entry, err := cs.readEntryByID(id)
	if err != nil {
		return err
	}
	if entry == nil {
		return ErrNotFound
	}

	wt, err := cs.repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to get worktree: %w", err)
	}

	if _, err = wt.Remove(relPath); err != nil {
		return fmt.Errorf("failed to remove file from git: %w", err)
	}

	_, err = wt.Commit(fmt.Sprintf("easel(delete): catalog asset: %v", id), &git.CommitOptions{
		Author: &object.Signature{
			Name:  "easel",
			Email: "easel@local",
			When:  time.Now(),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create commit: %w", err)
	}

	if err := cs.repo.PushContext(ctx, &git.PushOptions{Auth: *cs.auth}); err != nil {
		return fmt.Errorf("failed to push local: %w", err)
	}

	return nil
}

func (cs *GitCatalogStore) headTree() (*object.Tree, error) {
	head, err := cs.repo.Head()
	if err != nil {
		return nil, err
	}

	commit, err := cs.repo.CommitObject(head.Hash())
	if err != nil {
		return nil, err
	}

	return commit.Tree()
}

func (cs *GitCatalogStore) readEntryByID(id string) (*Entry, error) {
	tree, err := cs.headTree()
	if err != nil {
		return nil, err
	}

	filePath := strings.TrimSuffix(cs.cfg.Path, "/") + "/" + id + ".json"

	file, err := tree.File(filePath)
	if err != nil {
		return nil, nil
	}

	r, err := file.Reader()
	if err != nil {
		return nil, nil
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, nil
	}

	return &entry, nil
}
