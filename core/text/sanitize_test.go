package text

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "plain", in: "Read chapter 9", want: "Read chapter 9"},
		{name: "tags", in: "<p>Read <strong>chapter</strong> 9</p>", want: "Read chapter 9"},
		{name: "entities", in: "Q&amp;A &lt;session&gt; &quot;today&quot;", want: `Q&A "today"`},
		{name: "whitespace", in: "  Lab\n\n\treport   draft  ", want: "Lab report draft"},
		{name: "script", in: "<div>Essay<script>alert(1)</script></div>", want: "Essay"},
		{name: "stray angle", in: "x < y and y > z", want: "x < y and y > z"},
		{name: "nbsp", in: "<p>Due&nbsp;Friday</p>", want: "Due Friday"},
		{name: "encoded tag", in: "Use the &lt;vector&gt; header", want: "Use the header"},
		{name: "double-encoded tags", in: "&amp;lt;b&amp;gt;bold&amp;lt;/b&amp;gt;", want: "bold"},
		{name: "double-encoded text", in: "AT&amp;amp;T &amp;lt; 3", want: "AT&T < 3"},
		{name: "nested brackets", in: "<<b>b>bold</b>", want: "bold"},
		{
			name: "canvas markup",
			in:   `<p><span style="font-weight: 400;">Complete the <a href="https://x.test/q">reading guide</a>.</span></p>` + "\n<ul>\n<li>Q1-15</li>\n</ul>",
			want: "Complete the reading guide. Q1-15",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sanitize(tt.in))
		})
	}
}

func TestSanitize_properties(t *testing.T) {
	inputs := []string{
		"<h1>Title</h1>\n<p>Body   text</p>",
		"<table><tr><td>a</td><td>b</td></tr></table>",
		"<img src=x onerror=alert(1)>caption",
		"&lt;em&gt;encoded&lt;/em&gt; markup",
		"&amp;lt;b&amp;gt;bold&amp;lt;/b&amp;gt;",
		"&amp;amp;lt;i&amp;amp;gt;triple&amp;amp;lt;/i&amp;amp;gt;",
		"<p>&amp;lt;script&amp;gt;x&amp;lt;/script&amp;gt; after</p>",
		"Use the &lt;vector&gt; header",
		"<ol><li>one</li>\r\n<li>two</li></ol>",
		"no markup at all",
		"   ",
	}
	for _, in := range inputs {
		out := Sanitize(in)
		assert.NotContains(t, out, "<em>", "input %q", in)
		assert.NotContains(t, out, "&lt;", "input %q", in)
		assert.False(t, strings.Contains(out, "<") && strings.Contains(out, ">"), "tag delimiters left in %q", out)
		assert.NotContains(t, out, "  ", "input %q", in)
		assert.Equal(t, strings.TrimSpace(out), out)
		assert.Equal(t, out, Sanitize(out), "not idempotent for %q", in)
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "", Truncate("abc", 0))
	assert.Equal(t, "abc", Truncate("abc", 5))
	assert.Equal(t, "ab", Truncate("abc", 2))
	assert.Equal(t, "éé", Truncate("ééé", 2))
}

func TestSummarize(t *testing.T) {
	assert.Equal(t, "No description", Summarize("<p> </p>", 200, "No description"))
	assert.Equal(t, "No description", Summarize("", 200, "No description"))
	assert.Equal(t, strings.Repeat("a", 200), Summarize("<b>"+strings.Repeat("a", 250)+"</b>", 200, "No description"))
}
