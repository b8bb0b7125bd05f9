package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	mailsafe "github.com/alnah/go-mailsafe"
	"github.com/alnah/go-mailsafe/internal/fileutil"
)

// Sentinel errors for file discovery.
var (
	ErrInvalidExtension   = errors.New("file must have .html, .htm, .md or .markdown extension")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
)

// FileToConvert represents a single file to process.
type FileToConvert struct {
	InputPath  string
	OutputPath string
	PDFPath    string // empty unless a proof is requested
}

// isSource reports whether path is an HTML or Markdown source.
func isSource(path string) bool {
	return fileutil.IsHTMLFile(path) || fileutil.IsMarkdownFile(path)
}

// discoverFiles finds all sources to convert under inputPath.
// Converter output (*.email.html) and hidden directories are skipped.
func discoverFiles(inputPath, outputDir string, withPDF bool) ([]FileToConvert, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if err := validateSourceExtension(inputPath); err != nil {
			return nil, err
		}
		return []FileToConvert{newFileToConvert(inputPath, outputDir, "", withPDF)}, nil
	}

	var files []FileToConvert
	err = filepath.WalkDir(inputPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if d.IsDir() {
			if path != inputPath && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !isSource(path) {
			return nil
		}
		files = append(files, newFileToConvert(path, outputDir, inputPath, withPDF))
		return nil
	})

	return files, err
}

func newFileToConvert(path, outputDir, baseInputDir string, withPDF bool) FileToConvert {
	f := FileToConvert{
		InputPath:  path,
		OutputPath: resolveOutputPath(path, outputDir, baseInputDir),
	}
	if withPDF {
		f.PDFPath = pdfOutputPath(f.OutputPath)
	}
	return f
}

// resolveOutputPath determines the converted HTML path for a source.
// An outputDir ending in .html names the output file of a single source.
func resolveOutputPath(inputPath, outputDir, baseInputDir string) string {
	if outputDir == "" {
		return fileutil.ConvertedPath(inputPath)
	}

	if baseInputDir == "" && strings.HasSuffix(strings.ToLower(outputDir), ".html") {
		return outputDir
	}

	base := filepath.Base(fileutil.ConvertedPath(inputPath))
	if baseInputDir != "" {
		relPath, err := filepath.Rel(baseInputDir, inputPath)
		if err == nil {
			return filepath.Join(outputDir, filepath.Dir(relPath), base)
		}
	}

	return filepath.Join(outputDir, base)
}

// pdfOutputPath returns the proof path next to the converted HTML:
// "a/b.email.html" -> "a/b.pdf".
func pdfOutputPath(htmlPath string) string {
	if fileutil.IsConvertedFile(htmlPath) {
		return htmlPath[:len(htmlPath)-len(fileutil.ConvertedSuffix)] + ".pdf"
	}
	return strings.TrimSuffix(htmlPath, filepath.Ext(htmlPath)) + ".pdf"
}

// validateSourceExtension checks that path is a convertible source.
func validateSourceExtension(path string) error {
	if fileutil.IsConvertedFile(path) {
		return fmt.Errorf("%w: %s is already converted", ErrInvalidExtension, path)
	}
	if !isSource(path) {
		return fmt.Errorf("%w: got %q", ErrInvalidExtension, filepath.Ext(path))
	}
	return nil
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > mailsafe.MaxPoolSize {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, mailsafe.MaxPoolSize)
	}
	return nil
}
