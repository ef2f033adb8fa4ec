package script

import (
	"strings"

	"github.com/chrisuehlinger/tinyrender/css"
	"github.com/chrisuehlinger/tinyrender/dom"
	"github.com/dop251/goja"
)

const goNodeKey = "__node"

func (r *Runtime) bindDocument() *goja.Object {
	vm := r.vm
	doc := vm.NewObject()

	doc.Set("nodeType", 9)
	doc.DefineAccessorProperty("documentElement", r.getter(func() goja.Value {
		return r.wrap(r.root)
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	doc.DefineAccessorProperty("body", r.getter(func() goja.Value {
		if bodies := r.root.GetElementsByTagName("body"); len(bodies) > 0 {
			return r.wrap(bodies[0])
		}
		return goja.Null()
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)

	doc.Set("getElementById", func(call goja.FunctionCall) goja.Value {
		return r.wrap(r.root.GetElementByID(call.Argument(0).String()))
	})
	doc.Set("getElementsByTagName", func(call goja.FunctionCall) goja.Value {
		return r.wrapAll(r.root.GetElementsByTagName(call.Argument(0).String()))
	})
	doc.Set("createElement", func(call goja.FunctionCall) goja.Value {
		tag := call.Argument(0).String()
		if tag == "" || strings.ContainsAny(tag, " <>") {
			panic(vm.NewTypeError("invalid tag name %q", tag))
		}
		return r.wrap(dom.Elem(tag, nil))
	})
	doc.Set("createTextNode", func(call goja.FunctionCall) goja.Value {
		return r.wrap(dom.Text(call.Argument(0).String()))
	})
	doc.Set("querySelector", func(call goja.FunctionCall) goja.Value {
		return r.wrap(r.first(r.root, call.Argument(0).String()))
	})
	doc.Set("querySelectorAll", func(call goja.FunctionCall) goja.Value {
		return r.wrapAll(r.query(r.root, call.Argument(0).String()))
	})
	return doc
}

// wrap returns the script object of n, creating it on first use so the same
// node always maps to the same object.
func (r *Runtime) wrap(n *dom.Node) goja.Value {
	if n == nil {
		return goja.Null()
	}
	if obj, ok := r.nodeMap[n]; ok {
		return obj
	}
	var obj *goja.Object
	if n.IsElement() {
		obj = r.bindElement(n)
	} else {
		obj = r.bindText(n)
	}
	r.nodeMap[n] = obj
	return obj
}

func (r *Runtime) wrapAll(nodes []*dom.Node) goja.Value {
	items := make([]interface{}, len(nodes))
	for i, n := range nodes {
		items[i] = r.wrap(n)
	}
	return r.vm.NewArray(items...)
}

// unwrap recovers the node behind a script object, or nil.
func (r *Runtime) unwrap(v goja.Value) *dom.Node {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil
	}
	prop := v.ToObject(r.vm).Get(goNodeKey)
	if prop == nil {
		return nil
	}
	n, _ := prop.Export().(*dom.Node)
	return n
}

func (r *Runtime) getter(fn func() goja.Value) goja.Value {
	return r.vm.ToValue(func(goja.FunctionCall) goja.Value { return fn() })
}

func (r *Runtime) setter(fn func(goja.Value)) goja.Value {
	return r.vm.ToValue(func(call goja.FunctionCall) goja.Value {
		fn(call.Argument(0))
		return goja.Undefined()
	})
}

func (r *Runtime) newNodeObject(n *dom.Node, nodeType int) *goja.Object {
	obj := r.vm.NewObject()
	obj.DefineDataProperty(goNodeKey, r.vm.ToValue(n), goja.FLAG_FALSE, goja.FLAG_FALSE, goja.FLAG_FALSE)
	obj.Set("nodeType", nodeType)
	obj.DefineAccessorProperty("textContent", r.getter(func() goja.Value {
		return r.vm.ToValue(n.TextContent())
	}), r.setter(func(v goja.Value) {
		n.SetTextContent(v.String())
	}), goja.FLAG_FALSE, goja.FLAG_TRUE)
	obj.DefineAccessorProperty("parentNode", r.getter(func() goja.Value {
		return r.wrap(r.parentOf(n))
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	return obj
}

func (r *Runtime) bindText(n *dom.Node) *goja.Object {
	obj := r.newNodeObject(n, 3)
	obj.DefineAccessorProperty("data", r.getter(func() goja.Value {
		return r.vm.ToValue(n.Text)
	}), r.setter(func(v goja.Value) {
		n.Text = v.String()
	}), goja.FLAG_FALSE, goja.FLAG_TRUE)
	return obj
}

func (r *Runtime) bindElement(n *dom.Node) *goja.Object {
	vm := r.vm
	obj := r.newNodeObject(n, 1)

	obj.DefineAccessorProperty("tagName", r.getter(func() goja.Value {
		return vm.ToValue(strings.ToUpper(n.TagName))
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)
	r.reflectAttr(obj, n, "id", "id")
	r.reflectAttr(obj, n, "className", "class")

	obj.DefineAccessorProperty("children", r.getter(func() goja.Value {
		var els []*dom.Node
		for _, c := range n.Children {
			if c.IsElement() {
				els = append(els, c)
			}
		}
		return r.wrapAll(els)
	}), nil, goja.FLAG_FALSE, goja.FLAG_TRUE)

	obj.Set("getAttribute", func(call goja.FunctionCall) goja.Value {
		if v, ok := n.Attr(call.Argument(0).String()); ok {
			return vm.ToValue(v)
		}
		return goja.Null()
	})
	obj.Set("hasAttribute", func(call goja.FunctionCall) goja.Value {
		_, ok := n.Attr(call.Argument(0).String())
		return vm.ToValue(ok)
	})
	obj.Set("setAttribute", func(call goja.FunctionCall) goja.Value {
		n.SetAttr(call.Argument(0).String(), call.Argument(1).String())
		return goja.Undefined()
	})
	obj.Set("removeAttribute", func(call goja.FunctionCall) goja.Value {
		n.RemoveAttr(call.Argument(0).String())
		return goja.Undefined()
	})

	obj.Set("appendChild", func(call goja.FunctionCall) goja.Value {
		child := r.unwrap(call.Argument(0))
		if child == nil {
			panic(vm.NewTypeError("appendChild: argument is not a node"))
		}
		if child.Contains(n) {
			panic(vm.NewTypeError("appendChild: the new child contains the parent"))
		}
		if parent := r.parentOf(child); parent != nil {
			parent.RemoveChild(child)
		}
		n.AppendChild(child)
		r.parents[child] = n
		return call.Argument(0)
	})
	obj.Set("removeChild", func(call goja.FunctionCall) goja.Value {
		child := r.unwrap(call.Argument(0))
		if child == nil || !n.RemoveChild(child) {
			panic(vm.NewTypeError("removeChild: node is not a child of this element"))
		}
		delete(r.parents, child)
		return call.Argument(0)
	})

	obj.Set("getElementsByTagName", func(call goja.FunctionCall) goja.Value {
		return r.wrapAll(descendants(n, n.GetElementsByTagName(call.Argument(0).String())))
	})
	obj.Set("querySelector", func(call goja.FunctionCall) goja.Value {
		return r.wrap(first(descendants(n, r.query(n, call.Argument(0).String()))))
	})
	obj.Set("querySelectorAll", func(call goja.FunctionCall) goja.Value {
		return r.wrapAll(descendants(n, r.query(n, call.Argument(0).String())))
	})
	return obj
}

// parentOf returns the element holding n, whether or not it is attached to
// the document.
func (r *Runtime) parentOf(n *dom.Node) *dom.Node {
	if p, ok := r.parents[n]; ok {
		for _, c := range p.Children {
			if c == n {
				return p
			}
		}
		delete(r.parents, n)
	}
	return r.root.ParentOf(n)
}

func (r *Runtime) reflectAttr(obj *goja.Object, n *dom.Node, prop, attr string) {
	obj.DefineAccessorProperty(prop, r.getter(func() goja.Value {
		v, _ := n.Attr(attr)
		return r.vm.ToValue(v)
	}), r.setter(func(v goja.Value) {
		n.SetAttr(attr, v.String())
	}), goja.FLAG_FALSE, goja.FLAG_TRUE)
}

// query returns the elements under scope, scope included, matched by a
// single simple selector. A malformed selector throws in the script.
func (r *Runtime) query(scope *dom.Node, selector string) []*dom.Node {
	sel, err := css.ParseSelector(selector)
	if err != nil {
		panic(r.vm.NewGoError(err))
	}
	var out []*dom.Node
	scope.Walk(func(c *dom.Node) bool {
		if sel.Matches(c) {
			out = append(out, c)
		}
		return true
	})
	return out
}

func (r *Runtime) first(scope *dom.Node, selector string) *dom.Node {
	return first(r.query(scope, selector))
}

// descendants drops scope itself from a query result. Element-scoped
// queries only see descendants.
func descendants(scope *dom.Node, nodes []*dom.Node) []*dom.Node {
	if len(nodes) > 0 && nodes[0] == scope {
		return nodes[1:]
	}
	return nodes
}

func first(nodes []*dom.Node) *dom.Node {
	if len(nodes) == 0 {
		return nil
	}
	return nodes[0]
}
