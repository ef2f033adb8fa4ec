package css

import "sync"

// UserAgentStylesheet holds the default styles placed before author rules.
// It only sets display, so layout of author content stays predictable.
var UserAgentStylesheet = `
/* Block elements */
html, body, div, article, aside, footer, header, nav, section, main,
figure, figcaption, blockquote, pre, address, p, ul, ol, li, dl, dt, dd,
h1, h2, h3, h4, h5, h6, hr, form, fieldset, table {
	display: block;
}

/* Hidden elements */
head, title, meta, link, style, script, template, noscript {
	display: none;
}
`

var (
	uaOnce  sync.Once
	uaSheet *Stylesheet
)

// GetUserAgentStylesheet returns the parsed user agent stylesheet.
func GetUserAgentStylesheet() *Stylesheet {
	uaOnce.Do(func() {
		ss, err := Parse(UserAgentStylesheet)
		if err != nil {
			panic("css: invalid user agent stylesheet: " + err.Error())
		}
		uaSheet = ss
	})
	return uaSheet
}
