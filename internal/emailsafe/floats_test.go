package emailsafe

// Notes:
// - Float tests compare full output where the structure matters (cell order,
//   whitespace placement) and use substring checks elsewhere.

import (
	"strings"
	"testing"
)

const tableOpen = `<table role="presentation" cellpadding="0" cellspacing="0" border="0" width="100%" style="mso-table-lspace:0pt;mso-table-rspace:0pt;">`

// ---------------------------------------------------------------------------
// TestFloatRewrite - Structure
// ---------------------------------------------------------------------------

func TestFloatRewrite(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "right float puts text first and keeps trailing whitespace outside",
			html: "<img style=\"float:right\" src=\"x\"><b>Bold</b> tail <br>\n<p>Next</p>",
			want: tableOpen + `<tr><td valign="top"><b>Bold</b> tail <br/></td>` +
				`<td width="260" valign="top"><img style="height:auto;" src="x"/></td></tr></table>` +
				"<p><br/></p>\n<p>Next</p>",
		},
		{
			name: "isolated float gives single column and retags paragraph",
			html: `<p><img style="float:left" src="x"></p>`,
			want: `<div>` + tableOpen + `<tr><td width="260" valign="top"><img style="height:auto;" src="x"/></td></tr></table><p><br/></p></div>`,
		},
		{
			name: "text before the image stays before the table",
			html: `<div>Before <img style="float:left" src="x">After</div>`,
			want: `<div>Before ` + tableOpen + `<tr><td width="260" valign="top"><img style="height:auto;" src="x"/></td>` +
				`<td valign="top">After</td></tr></table><p><br/></p></div>`,
		},
		{
			name: "linked image moves with its link",
			html: `<a href="https://example.com"><img style="float:left;width:100px" src="x"></a>Caption`,
			want: tableOpen + `<tr><td width="100" valign="top"><a href="https://example.com"><img style="width:100px;height:auto;" src="x"/></a></td>` +
				`<td valign="top">Caption</td></tr></table><p><br/></p>`,
		},
		{
			name: "heading ends the run",
			html: `<img style="float:left" src="x">Text<h2>Head</h2>`,
			want: tableOpen + `<tr><td width="260" valign="top"><img style="height:auto;" src="x"/></td>` +
				`<td valign="top">Text</td></tr></table><p><br/></p><h2>Head</h2>`,
		},
		{
			name: "negative margin dropped",
			html: `<img style="float:left;margin-left:-5px;margin-right:8px" src="x">t`,
			want: tableOpen + `<tr><td width="260" valign="top" style="padding-right:8px;"><img style="height:auto;" src="x"/></td>` +
				`<td valign="top">t</td></tr></table><p><br/></p>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Convert(tt.html, noWrap); got != tt.want {
				t.Errorf("Convert() =\n%s\nwant\n%s", got, tt.want)
			}
		})
	}
}

func TestFloatRewrite_DocumentOrder(t *testing.T) {
	t.Parallel()

	got := Convert(`<img style="float:left" src="a">One<img style="float:right" src="b">Two`, noWrap)

	if n := strings.Count(got, "<table"); n != 2 {
		t.Fatalf("tables = %d, want 2\ngot: %s", n, got)
	}
	first := strings.Index(got, `<td valign="top">One</td>`)
	second := strings.Index(got, `<td valign="top">Two</td>`)
	if first < 0 || second < 0 || first > second {
		t.Errorf("runs out of order or missing\ngot: %s", got)
	}
	if strings.Contains(got, `One<img`) {
		t.Errorf("first run captured the second float\ngot: %s", got)
	}
}

func TestFloatRewrite_SkipsExistingTables(t *testing.T) {
	t.Parallel()

	in := `<table><tr><td><img style="float:left" src="x">t</td></tr></table>`
	got := Convert(in, noWrap)

	if n := strings.Count(got, "<table"); n != 1 {
		t.Errorf("tables = %d, want 1\ngot: %s", n, got)
	}
	if !strings.Contains(got, "float:left") {
		t.Errorf("float inside a table was rewritten\ngot: %s", got)
	}
}

func TestFloatRewrite_NestedContainer(t *testing.T) {
	t.Parallel()

	got := Convert(`<div><span>lead</span><section><img style="float:left" src="x">inner</section></div>`, noWrap)

	wantContains := []string{
		`<section>` + tableOpen,
		`<td valign="top">inner</td>`,
		`<span>lead</span>`,
	}
	for _, want := range wantContains {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q\ngot: %s", want, got)
		}
	}
}

func TestFloatRewrite_TextPreserved(t *testing.T) {
	t.Parallel()

	in := `<p>Intro  text</p><img style="float:left" src="x"> Wrapped <i>text</i> here <p>after</p>`
	got := Convert(in, Settings{})

	for _, want := range []string{"Intro  text", " Wrapped <i>text</i> here", "after"} {
		if strings.Count(got, want) != 1 {
			t.Errorf("%q appears %d times, want once\ngot: %s", want, strings.Count(got, want), got)
		}
	}
}

// ---------------------------------------------------------------------------
// TestLegacyFontSize - Size attribute parsing
// ---------------------------------------------------------------------------

func TestLegacyFontSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw     string
		present bool
		want    int
	}{
		{"", false, 3},
		{"", true, 3},
		{"1", true, 1},
		{"7", true, 7},
		{"9", true, 7},
		{"0", true, 1},
		{"+2", true, 5},
		{"-1", true, 2},
		{"-5", true, 1},
		{"big", true, 3},
		{" 4 ", true, 4},
	}

	for _, tt := range tests {
		if got := legacyFontSize(tt.raw, tt.present); got != tt.want {
			t.Errorf("legacyFontSize(%q, %v) = %d, want %d", tt.raw, tt.present, got, tt.want)
		}
	}
}

func TestLegacyFontMapping(t *testing.T) {
	t.Parallel()

	want := map[string]string{
		"1": "10px", "2": "13px", "3": "16px", "4": "18px",
		"5": "24px", "6": "32px", "7": "48px",
	}
	for size, px := range want {
		got := Convert(`<font size="`+size+`">x</font>`, noWrap)
		if !strings.Contains(got, "font-size:"+px+";") {
			t.Errorf("size %s: got %s, want font-size:%s", size, got, px)
		}
		if strings.Contains(got, "<font") {
			t.Errorf("size %s: <font> survived: %s", size, got)
		}
	}
}

func TestLegacyFontAttributes(t *testing.T) {
	t.Parallel()

	got := Convert(`<font size="4" color="#FFFFFF" face="Georgia" class="k" style="font-weight:bold">x</font>`, noWrap)
	want := `<span style="font-size:18px;color:black;font-family:Georgia;font-weight:bold;" class="k">x</span>`
	if got != want {
		t.Errorf("Convert() = %q, want %q", got, want)
	}
}
