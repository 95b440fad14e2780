package errors

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestCLIErrorAdapter_ExitCodeFor(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default())

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "nil error", err: nil, expected: 0},
		{name: "validation error", err: ValidationError("2 documents failed").Build(), expected: ExitCodeIssues},
		{name: "content error", err: ContentError("missing closing delimiter").Build(), expected: ExitCodeIssues},
		{name: "config error", err: ConfigError("bad config").Build(), expected: 7},
		{name: "registry error", err: RegistryError("bad registry").Build(), expected: 7},
		{name: "git error", err: GitError("not a repository").Build(), expected: 8},
		{name: "filesystem error", err: FileSystemError("read failed").Build(), expected: 11},
		{name: "internal error", err: InternalError("boom").Build(), expected: 10},
		{name: "unclassified error", err: errors.New("unknown error"), expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := adapter.ExitCodeFor(tt.err)
			if got != tt.expected {
				t.Errorf("ExitCodeFor() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestCLIErrorAdapter_FormatError(t *testing.T) {
	quiet := NewCLIErrorAdapter(false, slog.Default())
	verbose := NewCLIErrorAdapter(true, slog.Default())

	cfgErr := WrapError(errors.New("yaml: line 3"), CategoryConfig, "failed to parse config").Fatal().Build()
	if got := quiet.FormatError(cfgErr); got != "failed to parse config: yaml: line 3" {
		t.Errorf("unexpected user-facing message: %q", got)
	}
	if got := verbose.FormatError(cfgErr); !strings.HasPrefix(got, "[config:fatal]") {
		t.Errorf("verbose output should include classification, got %q", got)
	}

	internal := InternalError("boom").Build()
	if got := quiet.FormatError(internal); !strings.Contains(got, "use -v") {
		t.Errorf("internal errors should hint at -v, got %q", got)
	}

	if got := quiet.FormatError(errors.New("plain")); got != "Error: plain" {
		t.Errorf("unexpected fallback message: %q", got)
	}
}

func TestCLIErrorAdapter_HandleError(t *testing.T) {
	var out, logs bytes.Buffer
	adapter := NewCLIErrorAdapter(false, slog.New(slog.NewTextHandler(&logs, nil)))
	adapter.out = &out

	var code int
	adapter.exit = func(c int) { code = c }

	adapter.HandleError(ConfigError("missing registry").WithContext("path", "components.yaml").Build())

	if code != 7 {
		t.Errorf("expected exit code 7, got %d", code)
	}
	if !strings.Contains(out.String(), "missing registry") {
		t.Errorf("expected message on output, got %q", out.String())
	}
	if !strings.Contains(logs.String(), "path=components.yaml") {
		t.Errorf("expected context in logs, got %q", logs.String())
	}
}

type issuesFound struct{ code int }

func (e issuesFound) Error() string { return "found problems" }
func (e issuesFound) ExitCode() int { return e.code }

func TestCLIErrorAdapter_ExitCoder(t *testing.T) {
	var out, logs bytes.Buffer
	adapter := NewCLIErrorAdapter(true, slog.New(slog.NewTextHandler(&logs, nil)))
	adapter.out = &out

	var code int
	adapter.exit = func(c int) { code = c }

	adapter.HandleError(issuesFound{code: 1})

	if code != 1 {
		t.Errorf("expected exit code 1, got %d", code)
	}
	if got := adapter.FormatError(issuesFound{code: 2}); got != "found problems" {
		t.Errorf("unexpected message: %q", got)
	}
	if logs.Len() != 0 {
		t.Errorf("exit coder errors should not be logged, got %q", logs.String())
	}
}

func TestCLIErrorAdapter_FormatErrorHint(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default())

	err := ConfigError("lint history is disabled").WithContext("hint", "set history.database").Build()
	if got := adapter.FormatError(err); got != "lint history is disabled\n  hint: set history.database" {
		t.Errorf("unexpected message: %q", got)
	}
}
