package mailsafe

import "github.com/alnah/go-mailsafe/internal/emailsafe"

// Convert rewrites an HTML fragment into email-safe markup.
// It never fails: malformed input and internal faults return raw unchanged.
func Convert(raw string, s Settings) string {
	return emailsafe.Convert(raw, s.toInternal())
}

// ConvertWithReport is Convert plus a count of what each pass rewrote.
func ConvertWithReport(raw string, s Settings) (string, Report) {
	return emailsafe.ConvertWithReport(raw, s.toInternal())
}

// Lint reports constructs in content that email clients will still mishandle.
func Lint(content string, s Settings) []Issue {
	return emailsafe.Lint(content, s.toInternal())
}
