package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	mailsafe "github.com/alnah/go-mailsafe"
	"github.com/alnah/go-mailsafe/internal/fileutil"
	"github.com/alnah/go-mailsafe/internal/pipeline"
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// Sentinel errors for batch operations.
var (
	ErrNoInput       = errors.New("no input specified")
	ErrReadSource    = errors.New("failed to read source file")
	ErrWriteOutput   = errors.New("failed to write output file")
	ErrConverterInit = errors.New("failed to initialize converter")
)

// CLIConverter is the interface for the conversion service.
type CLIConverter interface {
	Convert(ctx context.Context, input mailsafe.Input) (*mailsafe.ConvertResult, error)
}

// Compile-time interface implementation check.
var _ CLIConverter = (*mailsafe.Converter)(nil)

// Pool abstracts converter pool operations for testability.
type Pool interface {
	Acquire() CLIConverter
	Release(CLIConverter)
	Size() int
	InitError() error
	Close() error
}

// ConversionResult holds the outcome of a single conversion.
type ConversionResult struct {
	InputPath  string
	OutputPath string
	PDFPath    string
	Report     mailsafe.Report
	Issues     []mailsafe.Issue
	Err        error
	Duration   time.Duration
}

// conversionParams groups parameters shared across batch/file conversion.
type conversionParams struct {
	charset   string
	document  *mailsafe.DocumentShell // nil = bare fragment
	signature *mailsafe.Signature
	page      *mailsafe.PageSettings
}

// convertBatch processes files concurrently using the converter pool.
func convertBatch(ctx context.Context, pool Pool, files []FileToConvert, params *conversionParams, logger *slog.Logger) []ConversionResult {
	if len(files) == 0 {
		return nil
	}

	concurrency := min(pool.Size(), len(files))

	results := make([]ConversionResult, len(files))
	var wg sync.WaitGroup
	jobs := make(chan int, len(files))

	for range concurrency {
		wg.Add(1)
		go func() {
			defer wg.Done()

			conv := pool.Acquire()
			if conv == nil {
				initErr := ErrConverterInit
				if err := pool.InitError(); err != nil {
					initErr = fmt.Errorf("%w: %w", ErrConverterInit, err)
				}
				for idx := range jobs {
					results[idx] = ConversionResult{
						InputPath: files[idx].InputPath,
						Err:       initErr,
					}
				}
				return
			}
			defer pool.Release(conv)

			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = ConversionResult{
						InputPath: files[idx].InputPath,
						Err:       ctx.Err(),
					}
					continue
				}
				results[idx] = convertFile(ctx, conv, files[idx], params)
				logResult(logger, results[idx])
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// readSource reads and decodes a source file into an Input.
func readSource(path, charset string) (mailsafe.Input, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- discovered path
	if err != nil {
		return mailsafe.Input{}, fmt.Errorf("%w: %v", ErrReadSource, err)
	}

	text, err := pipeline.DecodeHTML(data, charset)
	if err != nil {
		return mailsafe.Input{}, fmt.Errorf("%w: %s: %w", ErrReadSource, path, err)
	}

	input := mailsafe.Input{SourceDir: filepath.Dir(path)}
	if fileutil.IsMarkdownFile(path) {
		input.Markdown = text
	} else {
		input.HTML = text
	}
	return input, nil
}

// convertFile processes a single file and returns the result.
func convertFile(ctx context.Context, conv CLIConverter, f FileToConvert, params *conversionParams) ConversionResult {
	start := time.Now()
	result := ConversionResult{
		InputPath:  f.InputPath,
		OutputPath: f.OutputPath,
		PDFPath:    f.PDFPath,
	}
	fail := func(err error) ConversionResult {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	input, err := readSource(f.InputPath, params.charset)
	if err != nil {
		return fail(err)
	}
	input.Signature = params.signature
	input.Document = documentFor(params.document, input)
	if f.PDFPath != "" {
		input.PDF = params.page
	}

	res, err := conv.Convert(ctx, input)
	if err != nil {
		return fail(err)
	}
	result.Report = res.Report
	result.Issues = res.Issues

	if err := os.MkdirAll(filepath.Dir(f.OutputPath), dirPermissions); err != nil {
		return fail(fmt.Errorf("%w: creating output directory: %v", ErrWriteOutput, err))
	}

	// #nosec G306 -- converted HTML is meant to be readable
	if err := os.WriteFile(f.OutputPath, res.HTML, filePermissions); err != nil {
		return fail(fmt.Errorf("%w: %v", ErrWriteOutput, err))
	}

	if f.PDFPath != "" {
		// #nosec G306 -- PDFs are meant to be readable
		if err := os.WriteFile(f.PDFPath, res.PDF, filePermissions); err != nil {
			return fail(fmt.Errorf("%w: %v", ErrWriteOutput, err))
		}
	}

	result.Duration = time.Since(start)
	return result
}

// logResult writes the per-file report to the verbose log.
func logResult(logger *slog.Logger, r ConversionResult) {
	if r.Err != nil {
		logger.Debug("conversion failed", slog.String("input", r.InputPath), slog.Any("error", r.Err))
		return
	}
	logger.Debug("converted",
		slog.String("input", r.InputPath),
		slog.String("output", r.OutputPath),
		slog.Duration("duration", r.Duration),
		slog.Int("legacy_fonts", r.Report.LegacyFonts),
		slog.Int("font_sizes", r.Report.FontSizes),
		slog.Int("line_heights", r.Report.LineHeights),
		slog.Int("colors", r.Report.Colors),
		slog.Int("images", r.Report.Images),
		slog.Int("floats", r.Report.Floats),
		slog.Int("issues", len(r.Issues)),
	)
	for _, issue := range r.Issues {
		logger.Debug("lint", slog.String("input", r.InputPath), slog.String("severity", string(issue.Severity)),
			slog.String("rule", issue.Rule), slog.String("tag", issue.Tag), slog.String("message", issue.Message))
	}
}

// ResultSummary holds the count of succeeded and failed conversions.
type ResultSummary struct {
	Succeeded int
	Failed    int
}

// countResults tallies succeeded and failed conversions.
func countResults(results []ConversionResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
	}
	return summary
}

// printResultsWithWriter outputs conversion results using the provided writers.
func printResultsWithWriter(results []ConversionResult, quiet, verbose bool, env *Environment) int {
	summary := countResults(results)

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.InputPath, r.Err)
			continue
		}

		if quiet {
			continue
		}

		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%v)\n", r.InputPath, r.OutputPath, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		}
		if r.PDFPath != "" {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.PDFPath)
		}
		if n := len(r.Issues); n > 0 {
			fmt.Fprintf(env.Stdout, "  %d compatibility issue(s), run 'mailsafe check --convert %s'\n", n, r.InputPath)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	}

	return summary.Failed
}
