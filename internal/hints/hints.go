// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"fmt"
	"os"
	"strings"

	"github.com/alnah/go-mailsafe/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForBrowserConnect returns hints for browser connection errors during PDF proofs.
// Detects CI/Docker environment and suggests relevant environment variables.
func ForBrowserConnect() string {
	var hints []string

	inCI := os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" ||
		os.Getenv("JENKINS_URL") != ""

	if (inCI || IsInContainer()) && os.Getenv("ROD_NO_SANDBOX") != "1" {
		hints = append(hints, "set ROD_NO_SANDBOX=1 for Docker/CI")
	}

	if os.Getenv("ROD_BROWSER_BIN") == "" {
		hints = append(hints, "set ROD_BROWSER_BIN to use custom Chrome")
	}

	hints = append(hints, "or drop --pdf to skip the proof")

	return formatHints(hints)
}

// ForTimeout returns a hint about increasing timeout for slow PDF proofs.
func ForTimeout() string {
	return format("for long messages or many images, use --timeout flag")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/go-mailsafe/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(p, ".config/go-mailsafe") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForStyleNotFound returns hints for style not found errors.
func ForStyleNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// ForTemplateSetNotFound returns hints for missing or incomplete template sets.
func ForTemplateSetNotFound() string {
	return format("a template set is a directory under templates/ with document.html and signature.html")
}

// ForImageNotFound returns hints for local images that cannot be inlined.
func ForImageNotFound() string {
	return format("image paths resolve against the source file directory; use an absolute URL to skip inlining")
}

// ForImageTooLarge returns hints for images over the inlining limit.
// limit is the default cap, shown for reference.
func ForImageTooLarge(limit int64) string {
	return format(fmt.Sprintf("images are limited to %d bytes by default; raise --max-image-bytes or link large images by URL", limit))
}

// ForCharset returns hints for unknown source encodings.
func ForCharset() string {
	return format("use a WHATWG label such as utf-8, windows-1252 or iso-8859-1 with --charset")
}

// ForDeliveryToken returns hints when no delivery credentials are configured.
func ForDeliveryToken() string {
	return format("set MAILSAFE_POSTMARK_SERVER_TOKEN, or use --dev-dir to write messages to disk")
}

// ForRecipients returns hints for malformed recipient lists.
func ForRecipients() string {
	return format("one recipient per line as email[,name], or a .yaml list of {email, name}")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
