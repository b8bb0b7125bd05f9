// Package assets provides the stylesheet and HTML templates of the email
// document shell and signature block.
//
// # Loader Architecture
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - loads from go:embed filesystem (built-in assets)
//	    ├── FilesystemLoader  - loads from custom directory on disk
//	    └── AssetResolver     - combines both with custom-first fallback
//
// AssetResolver is the loader used when a custom asset path is configured.
// It tries the FilesystemLoader first and falls back to the EmbeddedLoader
// when the asset is not found, so a directory can override a single file.
//
// # Directory Structure
//
//	{basePath}/
//	├── styles/
//	│   └── {name}.css           # head stylesheet of the document shell
//	└── templates/
//	    └── {name}/
//	        ├── document.html    # full email document around the fragment
//	        └── signature.html   # signature block appended to the content
//
// Templates are html/template sources. The document template receives
// Title, Preheader, Lang and Body; Outlook conditional comments must go
// through the mso function because html/template strips literal comments.
//
// # Security
//
// Asset names are validated to prevent path traversal attacks.
// FilesystemLoader resolves symlinks and verifies paths stay within basePath.
package assets
