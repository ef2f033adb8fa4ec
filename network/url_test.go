package network

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveURL(t *testing.T) {
	tests := []struct {
		base, ref, want string
	}{
		{"http://example.com/a/b.html", "c.css", "http://example.com/a/c.css"},
		{"http://example.com/a/b.html", "/c.css", "http://example.com/c.css"},
		{"http://example.com/a/b.html", "https://other.org/x.css", "https://other.org/x.css"},
		{"file:///tmp/page.html", "style.css", "file:///tmp/style.css"},
		{"http://example.com/", "data:text/css,x", "data:text/css,x"},
		{"http://example.com/", "", "http://example.com/"},
		{"", "style.css", "style.css"},
	}
	for _, tt := range tests {
		got, err := ResolveURL(tt.base, tt.ref)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "ResolveURL(%q, %q)", tt.base, tt.ref)
	}
}

func TestParseDataURL(t *testing.T) {
	d, err := ParseDataURL("data:text/css;charset=UTF-8;base64,cCB7IH0=")
	require.NoError(t, err)
	assert.Equal(t, "text/css", d.MediaType)
	assert.Equal(t, "utf-8", d.Charset)
	assert.Equal(t, "p { }", string(d.Data))

	d, err = ParseDataURL("data:,hello%20world")
	require.NoError(t, err)
	assert.Equal(t, "text/plain", d.MediaType)
	assert.Equal(t, "hello world", string(d.Data))

	_, err = ParseDataURL("data:text/plain")
	assert.Error(t, err)
	_, err = ParseDataURL("http://example.com")
	assert.Error(t, err)
	_, err = ParseDataURL("data:;base64,!!!")
	assert.Error(t, err)
}

func TestFileURL(t *testing.T) {
	u, err := FileURL("page.html")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(u, "file:///"), u)
	assert.True(t, strings.HasSuffix(u, "/page.html"), u)
	assert.True(t, IsAbsoluteURL(u))
	assert.False(t, IsAbsoluteURL("page.html"))
}

func TestParseContentType(t *testing.T) {
	mt, cs := ParseContentType("Text/HTML; Charset=\"ISO-8859-1\"")
	assert.Equal(t, "text/html", mt)
	assert.Equal(t, "iso-8859-1", cs)

	mt, cs = ParseContentType("")
	assert.Equal(t, "application/octet-stream", mt)
	assert.Empty(t, cs)
}
