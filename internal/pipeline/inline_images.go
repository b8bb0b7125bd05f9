package pipeline

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-mailsafe/internal/dom"
	"github.com/alnah/go-mailsafe/internal/fileutil"
)

// Sentinel errors for image inlining.
var (
	ErrImageNotFound = errors.New("image not found")
	ErrImageTooLarge = errors.New("image exceeds size limit")
	ErrImageRead     = errors.New("failed to read image")
)

// ImageInliner abstracts embedding local images into HTML.
type ImageInliner interface {
	InlineImages(ctx context.Context, htmlContent, sourceDir string) (string, error)
}

// FileImageInliner replaces relative <img src> paths with base64 data URIs
// read from a source directory. Email has no access to the sender's disk,
// so a relative path that is not inlined is a broken image.
type FileImageInliner struct {
	maxBytes int64
}

// NewFileImageInliner creates an inliner that rejects images over maxBytes.
func NewFileImageInliner(maxBytes int64) *FileImageInliner {
	return &FileImageInliner{maxBytes: maxBytes}
}

// InlineImages rewrites every relative image under sourceDir.
//
// Left unchanged:
//   - URLs (http, https, cid, data, protocol-relative) and absolute paths
//   - paths that resolve outside sourceDir
//   - files whose content is not an image
//
// A missing or oversized image is an error: the message would ship broken.
func (i *FileImageInliner) InlineImages(ctx context.Context, htmlContent, sourceDir string) (string, error) {
	if sourceDir == "" {
		return htmlContent, nil
	}

	absSourceDir, err := filepath.Abs(sourceDir)
	if err != nil {
		return "", err
	}
	if realDir, err := filepath.EvalSymlinks(absSourceDir); err == nil {
		absSourceDir = realDir
	}

	frag, err := dom.Parse(htmlContent)
	if err != nil {
		return "", err
	}

	var walkErr error
	dom.Walk(frag.Children, func(el *dom.Element) bool {
		if walkErr != nil {
			return false
		}
		if el.Tag != "img" {
			return true
		}
		if err := ctx.Err(); err != nil {
			walkErr = err
			return false
		}
		src, ok := el.Attr("src")
		if !ok || !isRelativePath(src) {
			return true
		}
		uri, err := i.dataURI(absSourceDir, src)
		if err != nil {
			walkErr = err
			return false
		}
		if uri != "" {
			el.SetAttr("src", uri)
		}
		return true
	})
	if walkErr != nil {
		return "", walkErr
	}

	return dom.Render(frag)
}

// dataURI reads src below dir. It returns "" when src must stay as is.
func (i *FileImageInliner) dataURI(dir, src string) (string, error) {
	rel := src
	if idx := strings.IndexAny(rel, "?#"); idx != -1 {
		rel = rel[:idx]
	}
	if unescaped, err := url.PathUnescape(rel); err == nil {
		rel = unescaped
	}

	absPath := filepath.Join(dir, filepath.FromSlash(rel))
	if !isPathUnderDir(absPath, dir) {
		return "", nil
	}

	// A symlink inside dir must not reach a file outside it. A missing file
	// keeps the joined path and fails the stat below.
	if realPath, err := filepath.EvalSymlinks(absPath); err == nil {
		if !isPathUnderDir(realPath, dir) {
			return "", nil
		}
		absPath = realPath
	}

	info, err := os.Stat(absPath)
	if errors.Is(err, fs.ErrNotExist) || (err == nil && info.IsDir()) {
		return "", fmt.Errorf("%w: %s", ErrImageNotFound, src)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrImageRead, src, err)
	}
	if i.maxBytes > 0 && info.Size() > i.maxBytes {
		return "", fmt.Errorf("%w: %s is %d bytes (limit %d)", ErrImageTooLarge, src, info.Size(), i.maxBytes)
	}

	data, err := os.ReadFile(absPath) // #nosec G304 -- contained in sourceDir above
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrImageRead, src, err)
	}

	mediaType := imageMediaType(absPath, data)
	if mediaType == "" {
		return "", nil
	}
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// imageMediaType returns the image media type of a file, from its extension
// first and its content second. Returns "" for non-images.
func imageMediaType(path string, data []byte) string {
	mediaType := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if mediaType == "" {
		mediaType = http.DetectContentType(data)
	}
	mediaType, _, _ = strings.Cut(mediaType, ";")
	mediaType = strings.TrimSpace(mediaType)
	if !strings.HasPrefix(mediaType, "image/") {
		return ""
	}
	return mediaType
}

// isRelativePath returns true if the path should be inlined.
func isRelativePath(path string) bool {
	if path == "" || fileutil.IsURL(path) {
		return false
	}

	lower := strings.ToLower(path)
	for _, prefix := range []string{"file:", "data:", "cid:", "//", "#"} {
		if strings.HasPrefix(lower, prefix) {
			return false
		}
	}

	return !filepath.IsAbs(path) && !strings.HasPrefix(path, "/")
}

// isPathUnderDir checks if absPath is under dir (prevents path traversal).
func isPathUnderDir(absPath, dir string) bool {
	cleanPath := filepath.Clean(absPath)
	cleanDir := filepath.Clean(dir)

	if !strings.HasSuffix(cleanDir, string(filepath.Separator)) {
		cleanDir += string(filepath.Separator)
	}

	return strings.HasPrefix(cleanPath+string(filepath.Separator), cleanDir)
}
