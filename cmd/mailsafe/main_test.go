package main

// Notes:
// - runMain: we test dispatch, implicit convert and exit codes with the
//   fake environment. main() itself only wires os.Args and is not tested.
// - converterPool: we test the adapter against a real pool; HTML conversion
//   does not start a browser.
// - hintFor: we test that mapped errors get a hint and others do not.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	mailsafe "github.com/alnah/go-mailsafe"
	"github.com/alnah/go-mailsafe/internal/config"
	"github.com/alnah/go-mailsafe/internal/delivery"
)

// ---------------------------------------------------------------------------
// TestRunMain - Command dispatch
// ---------------------------------------------------------------------------

func TestRunMain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		args       []string
		wantCode   int
		wantStdout string
		wantStderr string
	}{
		{"no command", []string{"mailsafe"}, ExitUsage, "", "Usage: mailsafe"},
		{"version", []string{"mailsafe", "version"}, ExitSuccess, "mailsafe dev", ""},
		{"help", []string{"mailsafe", "help"}, ExitSuccess, "Commands:", ""},
		{"help send", []string{"mailsafe", "help", "send"}, ExitSuccess, "--to", ""},
		{"unknown command", []string{"mailsafe", "publish"}, ExitUsage, "", "Unknown command: publish"},
		{"convert help", []string{"mailsafe", "convert", "--help"}, ExitSuccess, "", ""},
		{"bad flag", []string{"mailsafe", "check", "--bogus"}, ExitUsage, "", "error: invalid flags"},
		{"missing input", []string{"mailsafe", "convert", "/nonexistent/a.html"}, ExitIO, "", "error:"},
		{"completion", []string{"mailsafe", "completion", "fish"}, ExitSuccess, "complete -c mailsafe", ""},
		{"bad shell", []string{"mailsafe", "completion", "tcsh"}, ExitUsage, "", "unsupported shell"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := newHarness(t)
			code := runMain(tt.args, h.env)
			if code != tt.wantCode {
				t.Errorf("exit code = %d, want %d (stderr %q)", code, tt.wantCode, h.stderr.String())
			}
			if tt.wantStdout != "" && !strings.Contains(h.stdout.String(), tt.wantStdout) {
				t.Errorf("stdout missing %q:\n%s", tt.wantStdout, h.stdout.String())
			}
			if tt.wantStderr != "" && !strings.Contains(h.stderr.String(), tt.wantStderr) {
				t.Errorf("stderr missing %q:\n%s", tt.wantStderr, h.stderr.String())
			}
		})
	}

	t.Run("implicit convert", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t)
		src := writeFile(t, t.TempDir(), "promo.md", "# Promo")

		if code := runMain([]string{"mailsafe", src, "-q"}, h.env); code != ExitSuccess {
			t.Fatalf("exit code = %d, stderr %q", code, h.stderr.String())
		}
		readFile(t, filepath.Join(filepath.Dir(src), "promo.email.html"))
	})

	t.Run("error hint", func(t *testing.T) {
		t.Parallel()

		h := newHarness(t)
		h.conv.err = mailsafe.ErrImageNotFound
		src := writeFile(t, t.TempDir(), "a.html", "<p>a</p>")

		code := runMain([]string{"mailsafe", "convert", src}, h.env)
		if code != ExitIO {
			t.Errorf("exit code = %d, want %d", code, ExitIO)
		}
		if !strings.Contains(h.stderr.String(), "hint:") {
			t.Errorf("stderr = %q, want hint", h.stderr.String())
		}
	})
}

// ---------------------------------------------------------------------------
// TestLooksLikeSource
// ---------------------------------------------------------------------------

func TestLooksLikeSource(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	tests := []struct {
		arg  string
		want bool
	}{
		{"newsletter.md", true},
		{"promo.html", true},
		{"convert", false},
		{"notes.txt", false},
		{dir, true},
		{"doctor", false},
	}

	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			t.Parallel()

			if got := looksLikeSource(tt.arg); got != tt.want {
				t.Errorf("looksLikeSource(%q) = %v, want %v", tt.arg, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestHintFor
// ---------------------------------------------------------------------------

func TestHintFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		wantHint bool
	}{
		{"image not found", fmt.Errorf("convert: %w", mailsafe.ErrImageNotFound), true},
		{"image too large", mailsafe.ErrImageTooLarge, true},
		{"style not found", mailsafe.ErrStyleNotFound, true},
		{"config not found", config.ErrConfigNotFound, true},
		{"deadline", context.DeadlineExceeded, true},
		{"delivery token", delivery.ErrInvalidConfig, true},
		{"recipients", delivery.ErrNoRecipients, true},
		{"write output", ErrWriteOutput, true},
		{"plain error", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := hintFor(tt.err)
			if (got != "") != tt.wantHint {
				t.Errorf("hintFor(%v) = %q, wantHint %v", tt.err, got, tt.wantHint)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestConverterPool - Adapter over the library pool
// ---------------------------------------------------------------------------

func TestConverterPool(t *testing.T) {
	t.Parallel()

	t.Run("acquire convert release", func(t *testing.T) {
		t.Parallel()

		pool := newConverterPool(1)
		defer pool.Close()

		if pool.Size() != 1 {
			t.Errorf("Size() = %d, want 1", pool.Size())
		}
		conv := pool.Acquire()
		if conv == nil {
			t.Fatalf("Acquire() = nil, InitError %v", pool.InitError())
		}
		res, err := conv.Convert(context.Background(), mailsafe.Input{HTML: "<p>hello</p>"})
		pool.Release(conv)
		if err != nil {
			t.Fatalf("Convert: %v", err)
		}
		if !strings.Contains(string(res.HTML), "hello") {
			t.Errorf("HTML = %q", res.HTML)
		}
	})

	t.Run("init failure is a nil interface", func(t *testing.T) {
		t.Parallel()

		pool := newConverterPool(1, mailsafe.WithStyle("no-such-style"))
		defer pool.Close()

		if conv := pool.Acquire(); conv != nil {
			t.Fatalf("Acquire() = %v, want nil", conv)
		}
		if !errors.Is(pool.InitError(), mailsafe.ErrStyleNotFound) {
			t.Errorf("InitError() = %v, want ErrStyleNotFound", pool.InitError())
		}
	})

	t.Run("release ignores foreign converters", func(t *testing.T) {
		t.Parallel()

		pool := newConverterPool(1)
		defer pool.Close()
		pool.Release(&fakeConverter{})
	})
}
