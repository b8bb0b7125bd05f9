package assets

// Template file names inside a template set directory.
const (
	documentTemplateFile  = "document.html"
	signatureTemplateFile = "signature.html"
)

// TemplateSet holds the HTML templates rendered around converted content.
type TemplateSet struct {
	Name      string // Identifier (name or directory path)
	Document  string // Email document shell template
	Signature string // Signature block template
}

// DefaultTemplateSetName is the name of the built-in template set.
const DefaultTemplateSetName = "default"

// DefaultStyleName is the name of the built-in CSS style.
const DefaultStyleName = "default"
