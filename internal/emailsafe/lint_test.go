package emailsafe

import (
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestLint - Compatibility findings
// ---------------------------------------------------------------------------

func TestLint(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		html      string
		wantRules []string
	}{
		{
			name:      "clean markup",
			html:      `<p style="font-size:14px">hello <img src="a.png" alt="a"></p>`,
			wantRules: nil,
		},
		{
			name:      "flexbox",
			html:      `<div style="display:flex">x</div>`,
			wantRules: []string{RuleDisplay},
		},
		{
			name:      "grid",
			html:      `<div style="display: inline-grid">x</div>`,
			wantRules: []string{RuleDisplay},
		},
		{
			name:      "absolute position",
			html:      `<div style="position:absolute">x</div>`,
			wantRules: []string{RulePosition},
		},
		{
			name:      "leftover float",
			html:      `<span style="float:right">x</span>`,
			wantRules: []string{RuleFloat},
		},
		{
			name:      "background image without fallback",
			html:      `<div style="background-image:url(bg.png)">x</div>`,
			wantRules: []string{RuleBackgroundImage},
		},
		{
			name:      "background image with mso fallback",
			html:      `<!--[if mso]><v:rect></v:rect><![endif]--><div style="background:url(bg.png)">x</div>`,
			wantRules: nil,
		},
		{
			name:      "script and style elements",
			html:      `<style>p{}</style><script>alert(1)</script><p>x</p>`,
			wantRules: []string{RuleStyleElement, RuleScript},
		},
		{
			name:      "relative units",
			html:      `<p style="margin:1rem 0">x</p>`,
			wantRules: []string{RuleRelativeUnit},
		},
		{
			name:      "small font",
			html:      `<p style="font-size:6pt">x</p>`,
			wantRules: []string{RuleFontSize},
		},
		{
			name:      "missing alt",
			html:      `<img src="a.png">`,
			wantRules: []string{RuleMissingAlt},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			issues := Lint(tt.html, Settings{})
			var got []string
			for _, i := range issues {
				got = append(got, i.Rule)
			}
			if strings.Join(got, ",") != strings.Join(tt.wantRules, ",") {
				t.Errorf("rules = %v, want %v", got, tt.wantRules)
			}
		})
	}
}

func TestLint_AfterConvert(t *testing.T) {
	t.Parallel()

	in := `<p style="font-size:7px">tiny</p><img style="float:left" src="a.png" alt="a">text`
	if issues := Lint(Convert(in, Settings{}), Settings{}); len(issues) != 0 {
		t.Errorf("converted output still has issues: %v", issues)
	}
}

func TestIssue_String(t *testing.T) {
	t.Parallel()

	i := Issue{Rule: RuleScript, Severity: SeverityError, Tag: "script", Message: "no"}
	if got, want := i.String(), "error [script] <script>: no"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
