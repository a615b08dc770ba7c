package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSanitizeText(t *testing.T) {
	cases := map[string]string{
		"hello world":                 "hello world",
		"  padded  ":                  "padded",
		"<b>bold</b>":                 "bold",
		"<script>alert(1)</script>ok": "ok",
		"fish & chips":                "fish & chips",
		"a < b":                       "a < b",
		"1 &lt; 2":                    "1 < 2",
		"<p></p>":                     "",
	}
	for in, want := range cases {
		require.Equal(t, want, SanitizeText(in), in)
	}
}

func TestSanitizeText_EntityEncodedMarkup(t *testing.T) {
	cases := map[string]string{
		"&lt;script&gt;alert(1)&lt;/script&gt;":                 "",
		"&lt;img src=x onerror=alert(1)&gt;":                    "",
		"&lt;b&gt;hi&lt;/b&gt; there":                           "hi there",
		"&amp;lt;script&amp;gt;alert(1)&amp;lt;/script&amp;gt;": "",
	}
	for in, want := range cases {
		require.Equal(t, want, SanitizeText(in), in)
	}

	deep := "&amp;amp;amp;amp;lt;img src=x onerror=alert(1)&amp;amp;amp;amp;gt;"
	out := SanitizeText(deep)
	require.NotContains(t, out, "<img")
	require.False(t, strings.Contains(out, "<") && strings.Contains(out, ">"), out)
}
