// Package pipeline wires the renderer stages together: load, parse, script,
// resolve styles, build boxes, lay out and paint.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/chrisuehlinger/tinyrender/config"
	"github.com/chrisuehlinger/tinyrender/css"
	"github.com/chrisuehlinger/tinyrender/dom"
	"github.com/chrisuehlinger/tinyrender/html"
	"github.com/chrisuehlinger/tinyrender/layout"
	"github.com/chrisuehlinger/tinyrender/network"
	"github.com/chrisuehlinger/tinyrender/render"
	"github.com/chrisuehlinger/tinyrender/script"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Result holds every intermediate product of one run.
type Result struct {
	RunID       string
	Document    *dom.Node
	Stylesheet  *css.Stylesheet
	StyleTree   *css.StyledNode
	LayoutRoot  *layout.LayoutBox
	DisplayList render.DisplayList
	Canvas      *render.Canvas
	// ScriptErrors lists scripts that threw. They never fail the run.
	ScriptErrors []error
	Stages       map[string]time.Duration
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithLoader replaces the resource loader built from the network config.
func WithLoader(loader *network.Loader) Option {
	return func(p *Pipeline) {
		p.loader = loader
	}
}

// Pipeline renders documents with a fixed configuration. It is safe for
// concurrent use; every run owns its trees.
type Pipeline struct {
	cfg        *config.Config
	loader     *network.Loader
	rasterizer render.Rasterizer
	logger     *zap.Logger
}

// New validates cfg and builds a pipeline from it.
func New(cfg *config.Config, opts ...Option) (*Pipeline, error) {
	if cfg == nil {
		cfg = config.NewDefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	backend, err := render.ParseBackend(cfg.Render.Backend)
	if err != nil {
		return nil, err
	}
	rasterizer, err := render.NewRasterizer(backend)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		cfg:        cfg,
		rasterizer: rasterizer,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.Named("pipeline")

	if p.loader == nil {
		client, err := network.NewClient(
			network.WithTimeout(cfg.Network.Timeout),
			network.WithUserAgent(cfg.Network.UserAgent),
		)
		if err != nil {
			return nil, fmt.Errorf("creating http client: %w", err)
		}
		p.loader = network.NewLoader(client,
			network.WithCache(network.NewCache(cfg.Network.CacheSize)),
			network.WithLogger(p.logger.Named("network")),
		)
	}
	return p, nil
}

// Render loads the document at htmlRef and the stylesheet at cssRef, then
// renders them. cssRef may be empty. Both are fetched concurrently.
func (p *Pipeline) Render(ctx context.Context, htmlRef, cssRef string) (*Result, error) {
	var htmlSrc, cssSrc string

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		src, err := p.load(gctx, htmlRef, network.ResourceTypeDocument)
		htmlSrc = src
		return err
	})
	if cssRef != "" {
		g.Go(func() error {
			src, err := p.load(gctx, cssRef, network.ResourceTypeStylesheet)
			cssSrc = src
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return p.RenderSource(ctx, htmlSrc, cssSrc)
}

func (p *Pipeline) load(ctx context.Context, ref string, t network.ResourceType) (string, error) {
	res := p.loader.Load(ctx, ref, t)
	if res.Error != nil {
		return "", fmt.Errorf("loading %s %s: %w", t, ref, res.Error)
	}
	if !res.IsSuccess() {
		return "", fmt.Errorf("loading %s %s: status %d", t, ref, res.StatusCode)
	}
	text, err := res.Text()
	if err != nil {
		return "", fmt.Errorf("decoding %s %s: %w", t, ref, err)
	}
	return text, nil
}

// RenderSource renders markup and stylesheet text.
func (p *Pipeline) RenderSource(ctx context.Context, htmlSrc, cssSrc string) (*Result, error) {
	res := &Result{
		RunID:  uuid.NewString(),
		Stages: make(map[string]time.Duration),
	}
	logger := p.logger.With(zap.String("run_id", res.RunID))
	started := time.Now()

	stage := func(name string, fn func() error) error {
		t0 := time.Now()
		err := fn()
		res.Stages[name] = time.Since(t0)
		if err != nil {
			logger.Error("Stage failed.", zap.String("stage", name), zap.Error(err))
			return err
		}
		logger.Debug("Stage complete.", zap.String("stage", name), zap.Duration("duration", res.Stages[name]))
		return nil
	}

	var author *css.Stylesheet
	err := stage("parse", func() error {
		doc, err := html.Parse(htmlSrc)
		if err != nil {
			return fmt.Errorf("parsing document: %w", err)
		}
		res.Document = doc
		author, err = css.Parse(cssSrc)
		if err != nil {
			return fmt.Errorf("parsing stylesheet: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if p.cfg.Script.Enabled {
		_ = stage("script", func() error {
			res.ScriptErrors = script.Run(ctx, res.Document, logger.Named("script"))
			return nil
		})
	}

	err = stage("style", func() error {
		inline, err := inlineStyles(res.Document)
		if err != nil {
			return err
		}
		var ss *css.Stylesheet
		if p.cfg.Render.UserAgentStylesheet {
			ss = css.GetUserAgentStylesheet()
		}
		res.Stylesheet = ss.Append(author).Append(inline)
		res.StyleTree = css.Resolve(res.Document, res.Stylesheet)
		return nil
	})
	if err != nil {
		return nil, err
	}

	viewport := layout.Dimensions{
		Content: layout.Rect{
			Width:  float64(p.cfg.Viewport.Width),
			Height: float64(p.cfg.Viewport.Height),
		},
	}
	err = stage("layout", func() error {
		root, err := layout.BuildLayoutTree(res.StyleTree)
		if err != nil {
			return err
		}
		layout.Layout(root, viewport)
		res.LayoutRoot = root
		return nil
	})
	if err != nil {
		return nil, err
	}

	_ = stage("paint", func() error {
		res.DisplayList = render.BuildDisplayList(res.LayoutRoot)
		res.Canvas = p.rasterizer.Rasterize(res.DisplayList, p.cfg.Viewport.Width, p.cfg.Viewport.Height)
		return nil
	})

	logger.Info("Rendered document.",
		zap.Int("commands", len(res.DisplayList)),
		zap.Int("width", res.Canvas.Width),
		zap.Int("height", res.Canvas.Height),
		zap.Int("script_errors", len(res.ScriptErrors)),
		zap.Duration("elapsed", time.Since(started)))
	return res, nil
}

// inlineStyles parses the text of every <style> element in document order.
func inlineStyles(doc *dom.Node) (*css.Stylesheet, error) {
	out := &css.Stylesheet{}
	for i, el := range doc.GetElementsByTagName("style") {
		ss, err := css.Parse(el.TextContent())
		if err != nil {
			return nil, fmt.Errorf("parsing <style> #%d: %w", i+1, err)
		}
		out = out.Append(ss)
	}
	return out, nil
}
