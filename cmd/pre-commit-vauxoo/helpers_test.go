package main

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"

	"github.com/raphi011/pre-commit-vauxoo/internal/scope"
	"github.com/raphi011/pre-commit-vauxoo/internal/stage"
)

// resolvePath resolves symlinks in a path.
// This is needed on macOS where /var is a symlink to /private/var.
func resolvePath(t *testing.T, path string) string {
	t.Helper()
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		t.Fatalf("failed to resolve path %s: %v", path, err)
	}
	return resolved
}

// setupTestRepo creates a git repo in a temp dir with the given files,
// tracked. Returns the absolute path to the repo (with symlinks resolved).
func setupTestRepo(t *testing.T, files map[string]string) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	repoPath := filepath.Join(resolvePath(t, t.TempDir()), "repo")
	if err := os.MkdirAll(repoPath, 0755); err != nil {
		t.Fatalf("failed to create repo dir: %v", err)
	}
	gitRun(t, repoPath, "init")
	gitRun(t, repoPath, "config", "user.email", "test@test.com")
	gitRun(t, repoPath, "config", "user.name", "Test User")
	gitRun(t, repoPath, "config", "commit.gpgsign", "false")

	for name, content := range files {
		path := filepath.Join(repoPath, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("failed to create dir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
	if len(files) > 0 {
		gitRun(t, repoPath, "add", "-A")
	}
	return repoPath
}

func gitRun(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("failed to run git %v: %v\n%s", args, err, out)
	}
}

// toolCall is one Run call seen by fakeTool.
type toolCall struct {
	Config string
	Scope  scope.Scope
}

// fakeTool stands in for pre-commit. Statuses maps config file names to
// the status Run returns.
type fakeTool struct {
	Statuses map[string]int
	// OnRun, if set, is called with the config file name before Run returns.
	OnRun    func(config string)

	mu        sync.Mutex
	installed []string
	calls     []toolCall
	color     string
}

func (f *fakeTool) InstallHooks(_ context.Context, configPath string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.installed = append(f.installed, filepath.Base(configPath))
	return nil
}

func (f *fakeTool) Run(_ context.Context, configPath string, sc scope.Scope) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	name := filepath.Base(configPath)
	f.calls = append(f.calls, toolCall{Config: name, Scope: sc})
	if f.OnRun != nil {
		f.OnRun(name)
	}
	return f.Statuses[name], nil
}

func (f *fakeTool) configs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.calls))
	for _, c := range f.calls {
		out = append(out, c.Config)
	}
	return out
}

// testApp returns an app running in dir with an isolated environment.
// The global config lives in a temp dir so the user's file never leaks in.
func testApp(t *testing.T, dir string, tool *fakeTool, environ ...string) (*app, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	env := append([]string{
		"PRE_COMMIT_VAUXOO_CONFIG=" + filepath.Join(t.TempDir(), "config.toml"),
		"TERM=dumb",
	}, environ...)
	a := &app{
		dir:         dir,
		environ:     env,
		stdout:      &stdout,
		stderr:      &stderr,
		interactive: func() bool { return false },
		bin:         "/usr/local/bin/pre-commit-vauxoo",
	}
	if tool != nil {
		a.newTool = func(_, color string) stage.Tool {
			tool.color = color
			return tool
		}
	}
	return a, &stdout, &stderr
}
