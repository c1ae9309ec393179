package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// testEnv runs keeper commands in-process against an isolated config dir.
type testEnv struct {
	t         *testing.T
	dir       string
	configDir string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dir := t.TempDir()
	return &testEnv{
		t:         t,
		dir:       dir,
		configDir: filepath.Join(dir, "config"),
	}
}

// cmdResult holds the outcome of one command execution.
type cmdResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Err      error
}

// run executes keeper with args, feeding stdin to the command.
func (e *testEnv) run(stdin string, args ...string) cmdResult {
	e.t.Helper()

	root := NewRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetArgs(append([]string{"--config-dir", e.configDir}, args...))
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&stdout)
	root.SetErr(&stderr)

	err := root.Execute()
	return cmdResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: exitCode(err),
		Err:      err,
	}
}

// mustRun executes keeper and fails the test on a non-zero exit code.
func (e *testEnv) mustRun(stdin string, args ...string) cmdResult {
	e.t.Helper()
	res := e.run(stdin, args...)
	if res.ExitCode != exitSuccess {
		e.t.Fatalf("keeper %v failed with exit code %d: %v\nstdout: %s\nstderr: %s",
			args, res.ExitCode, res.Err, res.Stdout, res.Stderr)
	}
	return res
}

// writeFile writes content under the env's temp dir and returns the path.
func (e *testEnv) writeFile(name, content string) string {
	e.t.Helper()
	path := filepath.Join(e.dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		e.t.Fatalf("write %s: %v", name, err)
	}
	return path
}

// writeConfig writes config.yaml into the env's config dir.
func (e *testEnv) writeConfig(content string) {
	e.t.Helper()
	if err := os.MkdirAll(e.configDir, 0o755); err != nil {
		e.t.Fatalf("create config dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(e.configDir, "config.yaml"), []byte(content), 0o644); err != nil {
		e.t.Fatalf("write config: %v", err)
	}
}

// parseJSON decodes command output into T.
func parseJSON[T any](t *testing.T, s string) T {
	t.Helper()
	var v T
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		t.Fatalf("parse JSON %q: %v", s, err)
	}
	return v
}
