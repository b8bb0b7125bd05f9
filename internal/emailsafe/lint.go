package emailsafe

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/alnah/go-mailsafe/internal/dom"
	"github.com/alnah/go-mailsafe/internal/style"
)

// Severity grades a lint finding.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Lint rule identifiers.
const (
	RuleDisplay         = "unsupported-display"
	RulePosition        = "unsupported-position"
	RuleFloat           = "float"
	RuleBackgroundImage = "background-image"
	RuleStyleElement    = "style-element"
	RuleScript          = "script"
	RuleRelativeUnit    = "relative-unit"
	RuleFontSize        = "font-size-floor"
	RuleMissingAlt      = "missing-alt"
)

// Issue is one construct email clients are known to mishandle.
type Issue struct {
	Rule     string
	Severity Severity
	Tag      string
	Message  string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s [%s] <%s>: %s", i.Severity, i.Rule, i.Tag, i.Message)
}

// relativeUnitPattern matches lengths most email clients do not resolve.
var relativeUnitPattern = regexp.MustCompile(`(?i)\d(rem|vw|vh|vmin|vmax)\b`)

// Lint inspects HTML, usually converter output, for what the passes cannot
// repair. Findings are returned in document order. Unparseable input yields
// no findings.
func Lint(content string, s Settings) []Issue {
	s = s.withDefaults()
	frag, err := dom.Parse(content)
	if err != nil {
		return nil
	}

	msoFallback := hasMSOComment(frag.Children)
	var issues []Issue
	add := func(el *dom.Element, rule string, sev Severity, format string, args ...any) {
		issues = append(issues, Issue{Rule: rule, Severity: sev, Tag: el.Tag, Message: fmt.Sprintf(format, args...)})
	}

	dom.Walk(frag.Children, func(el *dom.Element) bool {
		switch el.Tag {
		case "script":
			add(el, RuleScript, SeverityError, "scripts are stripped by every email client")
			return false
		case "style":
			add(el, RuleStyleElement, SeverityWarning, "embedded stylesheets are dropped by several clients; inline the rules")
			return false
		case "img":
			if _, ok := el.Attr("alt"); !ok {
				add(el, RuleMissingAlt, SeverityWarning, "image has no alt text; many clients block images by default")
			}
		}

		if _, ok := el.Attr("style"); !ok {
			return true
		}
		for _, p := range styleOf(el).Properties() {
			lintProperty(el, p, s, msoFallback, add)
		}
		return true
	})
	return issues
}

type addFunc func(el *dom.Element, rule string, sev Severity, format string, args ...any)

func lintProperty(el *dom.Element, p style.Property, s Settings, msoFallback bool, add addFunc) {
	kw := p.Value.Keyword()
	switch p.Name {
	case "display":
		if strings.Contains(kw, "flex") || strings.Contains(kw, "grid") {
			add(el, RuleDisplay, SeverityWarning, "display:%s is not supported by Outlook", kw)
		}
	case "position":
		if kw == "absolute" || kw == "fixed" {
			add(el, RulePosition, SeverityWarning, "position:%s is ignored by most email clients", kw)
		}
	case "float":
		if kw == "left" || kw == "right" {
			add(el, RuleFloat, SeverityWarning, "float:%s is ignored by Outlook", kw)
		}
	case "background-image", "background":
		if strings.Contains(kw, "url(") && !msoFallback {
			add(el, RuleBackgroundImage, SeverityWarning, "background images need a VML fallback for Outlook")
		}
	case "font-size":
		if px, ok := resolveFontSize(p.Value, s.BaseFontSizePx); ok && px < s.MinimumFontSizePx {
			add(el, RuleFontSize, SeverityWarning, "font-size %s is below %s", style.FormatPx(px), style.FormatPx(s.MinimumFontSizePx))
		}
	}
	if m := relativeUnitPattern.FindStringSubmatch(kw); m != nil {
		add(el, RuleRelativeUnit, SeverityWarning, "%s uses %s units, which email clients resolve inconsistently", p.Name, strings.ToLower(m[1]))
	}
}

// hasMSOComment reports whether the markup carries an Outlook conditional
// comment anywhere.
func hasMSOComment(nodes []dom.Node) bool {
	for _, n := range nodes {
		switch v := n.(type) {
		case *dom.Comment:
			if strings.Contains(strings.ToLower(v.Content), "[if mso") {
				return true
			}
		case *dom.Element:
			if hasMSOComment(v.Children) {
				return true
			}
		}
	}
	return false
}
