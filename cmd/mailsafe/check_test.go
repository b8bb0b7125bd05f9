package main

// Notes:
// - runCheck: we test source linting, --convert, Markdown, JSON and strict
//   modes. Lint rules themselves are covered in internal/emailsafe.
// - discoverCheckFiles: we test that converter output is included.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	mailsafe "github.com/alnah/go-mailsafe"
)

func runCheckArgs(t *testing.T, h *testHarness, args ...string) error {
	t.Helper()
	flags, positional, err := parseCheckFlags(args)
	if err != nil {
		t.Fatalf("parseCheckFlags(%v): %v", args, err)
	}
	return runCheck(context.Background(), positional, flags, h.env)
}

// ---------------------------------------------------------------------------
// TestRunCheck - Check command
// ---------------------------------------------------------------------------

func TestRunCheck(t *testing.T) {
	t.Parallel()

	t.Run("clean file", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t)
		src := writeFile(t, t.TempDir(), "ok.html", `<p style="color:#333333">fine</p>`)

		if err := runCheckArgs(t, h, src); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(h.stdout.String(), "OK "+src) {
			t.Errorf("stdout = %q", h.stdout.String())
		}
		if len(h.conv.Inputs()) != 0 {
			t.Error("HTML sources should be linted without conversion")
		}
	})

	t.Run("warnings pass unless strict", func(t *testing.T) {
		t.Parallel()

		src := writeFile(t, t.TempDir(), "img.html", `<img src="a.png">`)

		h := newHarness(t)
		if err := runCheckArgs(t, h, src); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(h.stdout.String(), "warning [missing-alt] <img>") {
			t.Errorf("stdout = %q", h.stdout.String())
		}

		h = newHarness(t)
		if err := runCheckArgs(t, h, src, "--strict"); !errors.Is(err, ErrLintFailed) {
			t.Errorf("strict error = %v, want ErrLintFailed", err)
		}
	})

	t.Run("errors fail", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t)
		src := writeFile(t, t.TempDir(), "js.html", `<p>x</p><script>alert(1)</script>`)

		if err := runCheckArgs(t, h, src); !errors.Is(err, ErrLintFailed) {
			t.Errorf("error = %v, want ErrLintFailed", err)
		}
	})

	t.Run("json output", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t)
		dir := t.TempDir()
		writeFile(t, dir, "a.html", `<img src="a.png">`)
		writeFile(t, dir, "b.email.html", `<p>ok</p>`)

		if err := runCheckArgs(t, h, dir, "--json"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var reports []checkReport
		if err := json.Unmarshal(h.stdout.Bytes(), &reports); err != nil {
			t.Fatalf("invalid JSON: %v\n%s", err, h.stdout.String())
		}
		if len(reports) != 2 {
			t.Fatalf("got %d reports, want 2", len(reports))
		}
		if reports[0].File != filepath.Join(dir, "a.html") || len(reports[0].Issues) != 1 {
			t.Errorf("first report = %+v", reports[0])
		}
		if reports[0].Issues[0].Rule != "missing-alt" || reports[0].Issues[0].Severity != "warning" {
			t.Errorf("issue = %+v", reports[0].Issues[0])
		}
		if reports[1].Issues == nil {
			t.Error("clean report should encode an empty issue list")
		}
	})

	t.Run("convert lints converter output", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t)
		h.conv.issues = []mailsafe.Issue{{Rule: "float", Severity: mailsafe.SeverityWarning, Tag: "img", Message: "float"}}
		src := writeFile(t, t.TempDir(), "a.html", `<p>a</p>`)

		if err := runCheckArgs(t, h, src, "--convert"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(h.conv.Inputs()) != 1 {
			t.Error("--convert should run the converter")
		}
		if !strings.Contains(h.stdout.String(), "[float]") {
			t.Errorf("stdout = %q", h.stdout.String())
		}
	})

	t.Run("markdown is always converted", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t)
		src := writeFile(t, t.TempDir(), "a.md", "# Title")

		if err := runCheckArgs(t, h, src); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(h.conv.Inputs()) != 1 {
			t.Error("markdown sources should be converted before linting")
		}
	})

	t.Run("unreadable source is reported", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t)
		h.conv.err = errors.New("boom")
		src := writeFile(t, t.TempDir(), "a.md", "# Title")

		if err := runCheckArgs(t, h, src); !errors.Is(err, ErrLintFailed) {
			t.Errorf("error = %v, want ErrLintFailed", err)
		}
		if !strings.Contains(h.stderr.String(), "FAILED "+src+": boom") {
			t.Errorf("stderr = %q", h.stderr.String())
		}
	})

	t.Run("no input", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t)
		if err := runCheckArgs(t, h); !errors.Is(err, ErrNoInput) {
			t.Errorf("error = %v, want ErrNoInput", err)
		}
	})

	t.Run("bad extension", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t)
		src := writeFile(t, t.TempDir(), "a.txt", "x")
		if err := runCheckArgs(t, h, src); !errors.Is(err, ErrInvalidExtension) {
			t.Errorf("error = %v, want ErrInvalidExtension", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestCheckOutcome - Exit decision
// ---------------------------------------------------------------------------

func TestCheckOutcome(t *testing.T) {
	t.Parallel()

	warning := issueJSON{Severity: "warning"}
	failure := issueJSON{Severity: "error"}

	tests := []struct {
		name    string
		reports []checkReport
		strict  bool
		wantErr bool
	}{
		{"empty", nil, false, false},
		{"warnings only", []checkReport{{Issues: []issueJSON{warning}}}, false, false},
		{"warnings strict", []checkReport{{Issues: []issueJSON{warning}}}, true, true},
		{"error issue", []checkReport{{Issues: []issueJSON{failure}}}, false, true},
		{"unreadable file", []checkReport{{Error: "boom"}}, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := checkOutcome(tt.reports, tt.strict)
			if (err != nil) != tt.wantErr {
				t.Errorf("checkOutcome() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrLintFailed) {
				t.Errorf("error = %v, want ErrLintFailed", err)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestDiscoverCheckFiles - Lintable file discovery
// ---------------------------------------------------------------------------

func TestDiscoverCheckFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "a.html", "")
	writeFile(t, dir, "a.email.html", "")
	writeFile(t, dir, "b.md", "")
	writeFile(t, dir, "notes.txt", "")
	writeFile(t, dir, ".git/x.html", "")

	files, err := discoverCheckFiles([]string{dir})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{
		filepath.Join(dir, "a.email.html"),
		filepath.Join(dir, "a.html"),
		filepath.Join(dir, "b.md"),
	}
	if strings.Join(files, ",") != strings.Join(want, ",") {
		t.Errorf("files = %v, want %v", files, want)
	}

	if _, err := discoverCheckFiles([]string{filepath.Join(dir, "missing.html")}); err == nil {
		t.Error("expected error for missing path")
	}
}
