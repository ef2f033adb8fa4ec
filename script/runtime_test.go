package script

import (
	"context"
	"testing"
	"time"

	"github.com/chrisuehlinger/tinyrender/dom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func scriptEl(code string) *dom.Node {
	return dom.Elem("script", nil, dom.Text(code))
}

func testDoc(scripts ...*dom.Node) *dom.Node {
	body := dom.Elem("body", nil,
		dom.Elem("div", map[string]string{"id": "box", "class": "a b"}, dom.Text("hello")),
		dom.Elem("p", nil),
	)
	for _, s := range scripts {
		body.AppendChild(s)
	}
	return dom.Elem("html", nil, body)
}

func TestRun_MutatesAttributes(t *testing.T) {
	root := testDoc(scriptEl(`
		var el = document.getElementById("box");
		el.setAttribute("style", "x");
		el.className = "c";
		el.id = "renamed";
	`))

	errs := Run(context.Background(), root, nil)
	require.Empty(t, errs)

	div := root.GetElementByID("renamed")
	require.NotNil(t, div)
	assert.True(t, div.HasClass("c"))
	assert.False(t, div.HasClass("a"))
	v, ok := div.Attr("style")
	assert.True(t, ok)
	assert.Equal(t, "x", v)
}

func TestRun_CreateAndAppend(t *testing.T) {
	root := testDoc(scriptEl(`
		var d = document.createElement("DIV");
		d.className = "added";
		d.textContent = "new";
		document.body.appendChild(d);
	`))

	require.Empty(t, Run(context.Background(), root, nil))

	var added *dom.Node
	root.Walk(func(n *dom.Node) bool {
		if n.HasClass("added") {
			added = n
		}
		return true
	})
	require.NotNil(t, added)
	assert.Equal(t, "div", added.TagName)
	assert.Equal(t, "new", added.TextContent())
}

func TestRun_AppendMovesNode(t *testing.T) {
	root := testDoc(scriptEl(`
		var p = document.getElementsByTagName("p")[0];
		document.getElementById("box").appendChild(p);
	`))

	require.Empty(t, Run(context.Background(), root, nil))

	assert.Len(t, root.GetElementsByTagName("p"), 1)
	box := root.GetElementByID("box")
	assert.Equal(t, "p", box.Children[len(box.Children)-1].TagName)
}

func TestRun_AppendMovesDetachedNode(t *testing.T) {
	root := testDoc(scriptEl(`
		var a = document.createElement("section");
		var b = document.createElement("aside");
		var x = document.createElement("em");
		a.appendChild(x);
		b.appendChild(x);
		if (x.parentNode !== b) throw new Error("parentNode is not b");
		document.body.appendChild(a);
		document.body.appendChild(b);
	`))

	require.Empty(t, Run(context.Background(), root, nil))

	assert.Len(t, root.GetElementsByTagName("em"), 1)
	sections := root.GetElementsByTagName("section")
	require.Len(t, sections, 1)
	assert.Empty(t, sections[0].Children)
	asides := root.GetElementsByTagName("aside")
	require.Len(t, asides, 1)
	require.Len(t, asides[0].Children, 1)
	assert.Equal(t, "em", asides[0].Children[0].TagName)
}

func TestRun_ErrorsDoNotStopLaterScripts(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	root := testDoc(
		scriptEl(`throw new Error("boom");`),
		scriptEl(`this is not javascript`),
		scriptEl(`document.getElementById("box").setAttribute("data-ran", "yes");`),
	)

	errs := Run(context.Background(), root, zap.New(core))
	assert.Len(t, errs, 2)

	v, _ := root.GetElementByID("box").Attr("data-ran")
	assert.Equal(t, "yes", v)
	assert.Equal(t, 2, logs.FilterMessage("Script failed.").Len())
}

func TestRun_SkipsNonScriptTypes(t *testing.T) {
	ext := dom.Elem("script", map[string]string{"src": "app.js"}, dom.Text(`throw 1`))
	tmpl := dom.Elem("script", map[string]string{"type": "text/template"}, dom.Text(`<b>{{x}}</b>`))
	root := testDoc(ext, tmpl)

	assert.Empty(t, Run(context.Background(), root, nil))
}

func TestRun_ConsoleGoesToLogger(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	root := testDoc(scriptEl(`console.log("hi", 1 + 1); console.warn("careful");`))

	require.Empty(t, Run(context.Background(), root, zap.New(core)))

	entries := logs.FilterLoggerName("console").All()
	require.Len(t, entries, 2)
	assert.Equal(t, "hi 2", entries[0].Message)
	assert.Equal(t, zap.InfoLevel, entries[0].Level)
	assert.Equal(t, zap.WarnLevel, entries[1].Level)
}

func TestRun_ContextCancelInterrupts(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	root := testDoc(scriptEl(`for (;;) {}`))

	errs := Run(ctx, root, nil)
	require.NotEmpty(t, errs)
}

func TestDocumentQueries(t *testing.T) {
	root := testDoc()
	rt := NewRuntime(root, nil)

	tests := []struct {
		code string
		want interface{}
	}{
		{`document.documentElement.tagName`, "HTML"},
		{`document.getElementById("box") === document.getElementById("box")`, true},
		{`document.getElementById("nope")`, nil},
		{`document.getElementById("box").getAttribute("missing")`, nil},
		{`document.getElementById("box").hasAttribute("class")`, true},
		{`document.getElementsByTagName("*").length`, int64(4)},
		{`document.querySelector("div.a.b").id`, "box"},
		{`document.querySelectorAll("p").length`, int64(1)},
		{`document.body.children.length`, int64(2)},
		{`document.getElementById("box").textContent`, "hello"},
		{`document.getElementById("box").parentNode.tagName`, "BODY"},
		{`document.body.querySelector("body")`, nil},
		{`document.createTextNode("t").nodeType`, int64(3)},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			v, err := rt.VM().RunString(tt.code)
			require.NoError(t, err)
			assert.Equal(t, tt.want, v.Export())
		})
	}
}

func TestDocumentErrors(t *testing.T) {
	root := testDoc()
	rt := NewRuntime(root, nil)

	for _, code := range []string{
		`document.querySelector("div > p")`,
		`document.body.appendChild(42)`,
		`document.body.appendChild(document.documentElement)`,
		`document.body.removeChild(document.createElement("i"))`,
		`document.createElement("")`,
	} {
		t.Run(code, func(t *testing.T) {
			err := rt.Execute(context.Background(), "test", code)
			assert.Error(t, err)
		})
	}
}
