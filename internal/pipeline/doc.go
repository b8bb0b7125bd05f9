// Package pipeline prepares sources for the email-safe conversion and
// renders the markup placed around its output.
//
// Source stages:
//   - Markdown preprocessing (line normalization, highlight syntax)
//   - Markdown to HTML fragment conversion via Goldmark, with code blocks
//     highlighted through inline styles
//   - Charset decoding of legacy-encoded HTML files
//   - Inlining of relative images as data URIs
//
// Injection stages:
//   - Signature block (before conversion, so it is normalized too)
//   - Document shell with Outlook head markup (after conversion)
//   - Head stylesheet of the document shell
//
// The conversion itself lives in internal/emailsafe, and PDF proofs are
// rendered by the root package.
package pipeline
