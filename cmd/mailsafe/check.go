package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	mailsafe "github.com/alnah/go-mailsafe"
	"github.com/alnah/go-mailsafe/internal/fileutil"
)

// ErrLintFailed is returned when check finds blocking issues.
var ErrLintFailed = errors.New("compatibility check failed")

// checkReport is the check outcome for one file.
type checkReport struct {
	File   string      `json:"file"`
	Issues []issueJSON `json:"issues"`
	Error  string      `json:"error,omitempty"`
}

type issueJSON struct {
	Rule     string `json:"rule"`
	Severity string `json:"severity"`
	Tag      string `json:"tag"`
	Message  string `json:"message"`
}

// runCheckCmd parses flags and runs the check command.
func runCheckCmd(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseCheckFlags(args)
	if err != nil {
		return flagError(err)
	}
	return runCheck(ctx, positional, flags, env)
}

// runCheck lints sources, or their converted form with --convert.
// Markdown sources are always converted first.
func runCheck(ctx context.Context, positionalArgs []string, flags *checkFlags, env *Environment) error {
	cfg, _, err := loadCommandConfig(flags.common, env.Stderr)
	if err != nil {
		return err
	}
	setString(&cfg.Input.Charset, flags.charset)
	mergeSettingsFlags(&flags.settings, cfg)
	if err := validateMerged(cfg); err != nil {
		return err
	}

	if len(positionalArgs) == 0 && cfg.Input.DefaultDir != "" {
		positionalArgs = []string{cfg.Input.DefaultDir}
	}
	if len(positionalArgs) == 0 {
		return ErrNoInput
	}

	files, err := discoverCheckFiles(positionalArgs)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("%w: no HTML or Markdown files found", ErrNoInput)
	}

	settings := buildSettings(cfg)
	// Conversion never needs the browser here: no PDF is requested.
	pool := env.NewPool(1, converterOptions(cfg, 0)...)
	defer pool.Close()

	reports := make([]checkReport, 0, len(files))
	for _, path := range files {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		reports = append(reports, checkFile(ctx, pool, path, cfg.Input.Charset, settings, flags.convert))
	}

	if flags.json {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(reports); err != nil {
			return err
		}
	} else {
		printCheckReports(reports, flags.common.quiet, env)
	}

	return checkOutcome(reports, flags.strict)
}

// checkFile lints one file. Errors are recorded in the report.
func checkFile(ctx context.Context, pool Pool, path, charset string, settings mailsafe.Settings, convert bool) checkReport {
	report := checkReport{File: path, Issues: []issueJSON{}}

	input, err := readSource(path, charset)
	if err != nil {
		report.Error = err.Error()
		return report
	}

	var issues []mailsafe.Issue
	if convert || input.Markdown != "" {
		conv := pool.Acquire()
		if conv == nil {
			report.Error = fmt.Errorf("%w: %v", ErrConverterInit, pool.InitError()).Error()
			return report
		}
		res, err := conv.Convert(ctx, input)
		pool.Release(conv)
		if err != nil {
			report.Error = err.Error()
			return report
		}
		issues = res.Issues
	} else {
		issues = mailsafe.Lint(input.HTML, settings)
	}

	for _, i := range issues {
		report.Issues = append(report.Issues, issueJSON{
			Rule:     i.Rule,
			Severity: string(i.Severity),
			Tag:      i.Tag,
			Message:  i.Message,
		})
	}
	return report
}

// checkOutcome fails on unreadable files, on errors, and on warnings when strict.
func checkOutcome(reports []checkReport, strict bool) error {
	var failed, blocking int
	for _, r := range reports {
		if r.Error != "" {
			failed++
			continue
		}
		for _, i := range r.Issues {
			if strict || i.Severity == string(mailsafe.SeverityError) {
				blocking++
			}
		}
	}
	if failed == 0 && blocking == 0 {
		return nil
	}
	return fmt.Errorf("%w: %d blocking issue(s), %d unreadable file(s)", ErrLintFailed, blocking, failed)
}

// printCheckReports outputs human-readable findings.
func printCheckReports(reports []checkReport, quiet bool, env *Environment) {
	total := 0
	for _, r := range reports {
		if r.Error != "" {
			fmt.Fprintf(env.Stderr, "FAILED %s: %s\n", r.File, r.Error)
			continue
		}
		total += len(r.Issues)
		if len(r.Issues) == 0 {
			if !quiet {
				fmt.Fprintf(env.Stdout, "OK %s\n", r.File)
			}
			continue
		}
		for _, i := range r.Issues {
			fmt.Fprintf(env.Stdout, "%s: %s [%s] <%s>: %s\n", r.File, i.Severity, i.Rule, i.Tag, i.Message)
		}
	}
	if !quiet && len(reports) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d issue(s) in %d file(s)\n", total, len(reports))
	}
}

// discoverCheckFiles expands paths into lintable files. Unlike convert,
// converter output (*.email.html) is included.
func discoverCheckFiles(paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			if !isLintable(p) {
				return nil, fmt.Errorf("%w: got %q", ErrInvalidExtension, filepath.Ext(p))
			}
			files = append(files, p)
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return fmt.Errorf("scanning %s: %w", path, err)
			}
			if d.IsDir() {
				if path != p && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if isLintable(path) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}

func isLintable(path string) bool {
	return isSource(path) || fileutil.IsConvertedFile(path)
}
