// Package script runs the inline <script> elements of a document once,
// before styling, against a small DOM binding on the goja engine.
package script

import (
	"context"
	"fmt"
	"strings"

	"github.com/chrisuehlinger/tinyrender/dom"
	"github.com/dop251/goja"
	"go.uber.org/zap"
)

// Runtime is a goja VM bound to one element tree.
type Runtime struct {
	vm      *goja.Runtime
	root    *dom.Node
	logger  *zap.Logger
	nodeMap map[*dom.Node]*goja.Object

	// parents records where appendChild put a node, so nodes under detached
	// elements can still be found and moved.
	parents map[*dom.Node]*dom.Node
}

// NewRuntime creates a runtime whose document is root. A nil logger discards
// console output.
func NewRuntime(root *dom.Node, logger *zap.Logger) *Runtime {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Runtime{
		vm:      goja.New(),
		root:    root,
		logger:  logger,
		nodeMap: make(map[*dom.Node]*goja.Object),
		parents: make(map[*dom.Node]*dom.Node),
	}
	r.setupConsole()
	r.vm.Set("document", r.bindDocument())
	return r
}

// VM returns the underlying goja runtime.
func (r *Runtime) VM() *goja.Runtime {
	return r.vm
}

// Execute compiles and runs code. name is used in error positions. The
// run is interrupted when ctx is done.
func (r *Runtime) Execute(ctx context.Context, name, code string) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("script %s panicked: %v", name, p)
		}
	}()

	program, err := goja.Compile(name, code, false)
	if err != nil {
		return fmt.Errorf("compiling %s: %w", name, err)
	}

	stop := context.AfterFunc(ctx, func() {
		r.vm.Interrupt(ctx.Err())
	})
	defer func() {
		stop()
		r.vm.ClearInterrupt()
	}()

	if _, err := r.vm.RunProgram(program); err != nil {
		return fmt.Errorf("running %s: %w", name, err)
	}
	return nil
}

func (r *Runtime) setupConsole() {
	console := r.vm.NewObject()
	logger := r.logger.Named("console")

	levels := map[string]func(string, ...zap.Field){
		"log":   logger.Info,
		"info":  logger.Info,
		"debug": logger.Debug,
		"warn":  logger.Warn,
		"error": logger.Error,
	}
	for name, logFn := range levels {
		logFn := logFn
		console.Set(name, func(call goja.FunctionCall) goja.Value {
			logFn(formatArgs(call.Arguments))
			return goja.Undefined()
		})
	}
	r.vm.Set("console", console)
}

func formatArgs(args []goja.Value) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.String()
	}
	return strings.Join(parts, " ")
}

// Run executes every script element under root in document order. Scripts
// with a src attribute or a non-JavaScript type are skipped. A failing
// script is logged and does not stop later ones; the failures are returned.
func Run(ctx context.Context, root *dom.Node, logger *zap.Logger) []error {
	if logger == nil {
		logger = zap.NewNop()
	}
	scripts := root.GetElementsByTagName("script")
	if len(scripts) == 0 {
		return nil
	}

	rt := NewRuntime(root, logger)
	var errs []error
	for i, el := range scripts {
		if ctx.Err() != nil {
			errs = append(errs, ctx.Err())
			break
		}
		if src, ok := el.Attr("src"); ok {
			logger.Debug("Skipping external script.", zap.String("src", src))
			continue
		}
		if !isJavaScript(el) {
			continue
		}
		name := fmt.Sprintf("script[%d]", i)
		if err := rt.Execute(ctx, name, el.TextContent()); err != nil {
			logger.Warn("Script failed.", zap.String("script", name), zap.Error(err))
			errs = append(errs, err)
			continue
		}
		logger.Debug("Script executed.", zap.String("script", name))
	}
	return errs
}

func isJavaScript(el *dom.Node) bool {
	t, ok := el.Attr("type")
	if !ok {
		return true
	}
	switch strings.ToLower(strings.TrimSpace(t)) {
	case "", "text/javascript", "application/javascript", "text/ecmascript", "application/ecmascript":
		return true
	}
	return false
}
