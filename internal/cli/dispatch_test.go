package cli_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"taskdash/internal/cli"
	"taskdash/internal/commands"
	"taskdash/internal/config"
	"taskdash/internal/exitcode"
	"taskdash/internal/gateway"
	"taskdash/internal/session"
	"taskdash/internal/testutil"
)

// testFactory returns a factory handing out fg and counting calls.
func testFactory(fg *testutil.FakeGateway, calls *int) cli.BackendFactory {
	return func(ctx context.Context, cfg *config.Config) (gateway.Backend, error) {
		if calls != nil {
			*calls++
		}
		return fg, nil
	}
}

func run(t *testing.T, d *cli.Dispatcher, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	var outBuf, errBuf bytes.Buffer
	code = d.Run(context.Background(), args, &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

// isolate points the default config dir and settings at a temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("TASKDASH_BACKEND_URL", "")
	t.Setenv("TASKDASH_TIMEOUT", "")
	t.Setenv("TASKDASH_PASSWORD", "")
	return filepath.Join(dir, "taskdash")
}

func TestDispatcher_UnknownCommand(t *testing.T) {
	isolate(t)
	d := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeGateway(), nil))

	_, stderr, code := run(t, d, "unknowncmd")
	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: unknowncmd\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_FlagBeforeCommand(t *testing.T) {
	isolate(t)
	d := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeGateway(), nil))

	_, stderr, code := run(t, d, "--quiet")
	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown command: --quiet\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_HelpCommand(t *testing.T) {
	isolate(t)
	d := cli.NewDispatcher(commands.DefaultRegistry, nil)

	stdout, stderr, code := run(t, d, "help")
	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if !strings.Contains(stdout, "Usage:") {
		t.Error("expected help output to contain 'Usage:'")
	}
}

func TestDispatcher_VersionCommand(t *testing.T) {
	isolate(t)
	d := cli.NewDispatcher(commands.DefaultRegistry, nil)

	stdout, _, code := run(t, d, "version")
	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "taskdash 0.1.0\n" {
		t.Errorf("expected 'taskdash 0.1.0\\n', got %q", stdout)
	}
}

func TestDispatcher_UnknownFlag(t *testing.T) {
	isolate(t)
	d := cli.NewDispatcher(commands.DefaultRegistry, nil)

	_, stderr, code := run(t, d, "help", "--unknown")
	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: unknown flag: -unknown\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_MissingFlagValue(t *testing.T) {
	isolate(t)
	d := cli.NewDispatcher(commands.DefaultRegistry, nil)

	_, stderr, code := run(t, d, "login", "--email")
	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	expected := "error: flag needs an argument: -email\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestDispatcher_NotLoggedIn(t *testing.T) {
	isolate(t)
	calls := 0
	fg := testutil.NewFakeGateway()
	d := cli.NewDispatcher(commands.DefaultRegistry, testFactory(fg, &calls))

	for _, args := range [][]string{nil, {"list"}, {"add", "-c", "x", "h"}, {"done", "1"}} {
		_, stderr, code := run(t, d, args...)
		if code != exitcode.AuthError {
			t.Errorf("%v: expected exit code %d, got %d", args, exitcode.AuthError, code)
		}
		if stderr != "error: not logged in (run: taskdash login)\n" {
			t.Errorf("%v: unexpected stderr %q", args, stderr)
		}
	}
	if calls != 0 || fg.Calls != 0 {
		t.Errorf("backend should not be touched, factory calls %d, backend calls %d", calls, fg.Calls)
	}
}

func TestDispatcher_LoginThenList(t *testing.T) {
	isolate(t)
	fg := testutil.NewFakeGateway()
	fg.AddUser("Ada", "ada@example.com", "pw")
	d := cli.NewDispatcher(commands.DefaultRegistry, testFactory(fg, nil))
	d.SetInput(strings.NewReader("pw\n"))

	stdout, stderr, code := run(t, d, "login", "--email", "ada@example.com")
	if code != exitcode.Success {
		t.Fatalf("login failed: %d %q", code, stderr)
	}
	if stdout != "Welcome back, Ada\n" {
		t.Errorf("unexpected login output %q", stdout)
	}

	_, stderr, code = run(t, d, "add", "--quiet", "-c", "Quarterly numbers", "Write", "report")
	if code != exitcode.Success {
		t.Fatalf("add failed: %d %q", code, stderr)
	}

	stdout, _, code = run(t, d)
	if code != exitcode.Success {
		t.Fatalf("list failed: %d", code)
	}
	for _, want := range []string{"Welcome back, Ada", "To-Do (1)", "Write report"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("expected %q in output:\n%s", want, stdout)
		}
	}

	stdout, _, _ = run(t, d, "logout")
	if stdout != "ok\n" {
		t.Errorf("unexpected logout output %q", stdout)
	}
	_, _, code = run(t, d, "list")
	if code != exitcode.AuthError {
		t.Errorf("expected auth error after logout, got %d", code)
	}
}

func TestDispatcher_ConfigFlag(t *testing.T) {
	isolate(t)
	fg := testutil.NewFakeGateway()
	dir := t.TempDir()
	if err := session.NewFileStore(filepath.Join(dir, config.SessionFile)).Save(fg.IssueToken("Grace")); err != nil {
		t.Fatal(err)
	}
	d := cli.NewDispatcher(commands.DefaultRegistry, testFactory(fg, nil))

	stdout, stderr, code := run(t, d, "whoami", "--config", dir)
	if code != exitcode.Success {
		t.Fatalf("expected success, got %d %q", code, stderr)
	}
	if stdout != "Grace\n" {
		t.Errorf("unexpected output %q", stdout)
	}
}

func TestDispatcher_InvalidSettings(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, config.SettingsFile), []byte("backend_url: \"not a url\"\n"), 0600); err != nil {
		t.Fatal(err)
	}
	calls := 0
	d := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeGateway(), &calls))

	_, stderr, code := run(t, d, "login", "--config", dir, "--email", "a@b.c", "--password", "x")
	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if !strings.HasPrefix(stderr, "error: invalid settings:") {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if calls != 0 {
		t.Error("factory should not be called with invalid settings")
	}
}

func TestDispatcher_FactoryError(t *testing.T) {
	isolate(t)
	d := cli.NewDispatcher(commands.DefaultRegistry, func(ctx context.Context, cfg *config.Config) (gateway.Backend, error) {
		return nil, errors.New("invalid backend url")
	})

	_, stderr, code := run(t, d, "login", "--email", "a@b.c", "--password", "x")
	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: invalid backend url\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestDispatcher_DebugLogsToStderr(t *testing.T) {
	isolate(t)
	d := cli.NewDispatcher(commands.DefaultRegistry, nil)

	_, stderr, code := run(t, d, "version", "--debug")
	if code != exitcode.Success {
		t.Errorf("expected success, got %d", code)
	}
	if !strings.Contains(stderr, "dispatch") || !strings.Contains(stderr, "command=version") {
		t.Errorf("expected debug line, got %q", stderr)
	}
}
