package sanitize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFragment_StripsColorAndTagsTheme(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "keeps other declarations",
			in:   `<p style="color:red;font-weight:bold">Hi</p>`,
			want: `<p style="font-weight:bold" data-theme="auto">Hi</p>`,
		},
		{
			name: "drops empty style",
			in:   `<span style="color:#000">x</span>`,
			want: `<span data-theme="auto">x</span>`,
		},
		{
			name: "background color and case",
			in:   `<div style="Background-Color: #fff; margin: 0 auto; COLOR: blue">t</div>`,
			want: `<div style="margin:0 auto" data-theme="auto">t</div>`,
		},
		{
			name: "untouched style stays verbatim",
			in:   `<p style="font-size: 12px">a</p>`,
			want: `<p style="font-size: 12px" data-theme="auto">a</p>`,
		},
		{
			name: "images are not themed",
			in:   `<img src="https://example.com/a.png" style="color:red;border:0">`,
			want: `<img src="https://example.com/a.png" style="border:0"/>`,
		},
		{
			name: "existing theme kept",
			in:   `<p data-theme="dark">x</p>`,
			want: `<p data-theme="dark">x</p>`,
		},
		{
			name: "important survives",
			in:   `<p style="color:red !important;text-align:center !important">x</p>`,
			want: `<p style="text-align:center !important" data-theme="auto">x</p>`,
		},
		{
			name: "plain text",
			in:   `just text`,
			want: `just text`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Fragment(tc.in))
		})
	}
}

func TestFragment_PreservesTextAndStructure(t *testing.T) {
	in := `<ul><li><a href="https://example.com" title="x">link</a> &amp; more</li></ul><script>alert(1)</script>`
	got := Fragment(in)

	assert.Contains(t, got, `<a href="https://example.com" title="x" data-theme="auto">link</a> &amp; more`)
	assert.Contains(t, got, `<script>alert(1)</script>`)
	assert.True(t, strings.HasPrefix(got, `<ul><li data-theme="auto">`), got)
}

func TestFragment_Idempotent(t *testing.T) {
	inputs := []string{
		`<p style="color:red;font-weight:bold">Hi</p>`,
		`<div><span style="background-color:yellow">a</span><em>b</em></div>`,
		`<table><tr><td style="color: red; padding: 2px">1</td></tr></table>`,
		`<p>unclosed <b>bold`,
		``,
	}
	for _, in := range inputs {
		once := Fragment(in)
		assert.Equal(t, once, Fragment(once), "input %q", in)
	}
}

func TestNormalize_FluidImagesAndThemedLinks(t *testing.T) {
	in := Fragment(`<p><img src="a.png" width="600" height="400" style="border:0"><a href="https://example.com">x</a></p>`)

	got, err := Normalize(in)
	require.NoError(t, err)

	assert.NotContains(t, got, `width="600"`)
	assert.NotContains(t, got, `height="400"`)
	assert.Contains(t, got, `style="border:0;max-width:100%;height:auto"`)
	assert.Contains(t, got, `data-link="themed"`)

	again, err := Normalize(got)
	require.NoError(t, err)
	assert.Equal(t, got, again)
}

func TestStripDeclarations_NoMatchIsUnchanged(t *testing.T) {
	got, changed := StripDeclarations("margin: 0;", "color")
	assert.False(t, changed)
	assert.Equal(t, "margin: 0;", got)
}
