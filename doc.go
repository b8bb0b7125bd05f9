// Package mailsafe turns browser-authored HTML into markup that renders
// legibly in email clients, Microsoft Outlook's Word engine in particular.
//
// # Quick Start
//
// The converter core is a pure function and needs no setup:
//
//	out := mailsafe.Convert(editorHTML, mailsafe.Settings{})
//
// It rewrites legacy <font> tags, normalizes font sizes and line heights to
// pixels with an Outlook spacing hint, fixes white text, strips image heights,
// turns floated images into presentation tables and wraps the result in a
// table carrying the base typography. It never fails: input it cannot handle
// is passed through.
//
// # Converter
//
// Converter adds sources and outputs around the core:
//
//	conv, err := mailsafe.NewConverter()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer conv.Close()
//
//	result, err := conv.Convert(ctx, mailsafe.Input{
//	    Markdown:  content,
//	    SourceDir: "/path/to/markdown", // relative images become data URIs
//	    Document:  &mailsafe.DocumentShell{Title: "Newsletter"},
//	    PDF:       &mailsafe.PageSettings{Size: "a4"},
//	})
//
// The result carries the converted HTML, a Report of what changed, lint
// Issues for constructs the passes cannot repair, and a PDF proof when
// Input.PDF is set.
//
// # Conversion Pipeline
//
//  1. Markdown preprocessing and Goldmark rendering (Markdown input only)
//  2. Relative image inlining as data URIs (when SourceDir is set)
//  3. Signature block injection
//  4. Email-safe conversion (fonts, sizes, colors, images, floats, wrapper)
//  5. Compatibility lint
//  6. Document shell with Outlook head markup (when Document is set)
//  7. PDF proof via headless Chrome (when PDF is set)
//
// # Parallel Processing
//
// The package-level Convert and Lint are safe for concurrent use. A Converter
// is not, since it owns one browser; use ConverterPool for parallel batches:
//
//	pool := mailsafe.NewConverterPool(4)
//	defer pool.Close()
//
//	conv := pool.Acquire()
//	defer pool.Release(conv)
//
// # Browser Requirements
//
// PDF proofs require Chrome/Chromium. The go-rod library downloads a managed
// Chromium on first run. Set ROD_BROWSER_BIN to use a custom binary and
// ROD_NO_SANDBOX=1 in containers.
package mailsafe
