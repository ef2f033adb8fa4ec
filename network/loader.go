package network

import (
	"context"
	"fmt"
	"mime"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
)

// ResourceType represents the type of a resource.
type ResourceType int

const (
	ResourceTypeUnknown ResourceType = iota
	ResourceTypeDocument
	ResourceTypeStylesheet
)

func (t ResourceType) String() string {
	switch t {
	case ResourceTypeDocument:
		return "document"
	case ResourceTypeStylesheet:
		return "stylesheet"
	default:
		return "unknown"
	}
}

// Resource represents a loaded resource.
type Resource struct {
	URL         string
	Type        ResourceType
	Content     []byte
	ContentType string
	Charset     string
	StatusCode  int
	Error       error
	Cached      bool
}

// IsSuccess returns true if the resource was loaded successfully.
func (r *Resource) IsSuccess() bool {
	return r.Error == nil && r.StatusCode >= 200 && r.StatusCode < 400
}

// Text decodes the content to UTF-8. Documents are sniffed the way browsers
// do (BOM, Content-Type, then <meta charset>). Other resources use the
// declared charset and fall back to UTF-8.
func (r *Resource) Text() (string, error) {
	var enc encoding.Encoding
	if r.Type == ResourceTypeDocument {
		contentType := r.ContentType
		if r.Charset != "" {
			contentType += "; charset=" + r.Charset
		}
		enc, _, _ = charset.DetermineEncoding(r.Content, contentType)
	} else if r.Charset != "" {
		if e, _ := charset.Lookup(r.Charset); e != nil {
			enc = e
		}
	}
	if enc == nil || enc == encoding.Nop {
		return string(r.Content), nil
	}
	decoded, err := enc.NewDecoder().Bytes(r.Content)
	if err != nil {
		return "", fmt.Errorf("failed to decode %s: %w", r.URL, err)
	}
	return string(decoded), nil
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithCache sets the response cache.
func WithCache(cache *Cache) LoaderOption {
	return func(l *Loader) {
		l.cache = cache
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) LoaderOption {
	return func(l *Loader) {
		l.logger = logger
	}
}

// Loader fetches resources from data URLs, the local filesystem and HTTP.
// Bare paths are read from disk relative to the working directory.
type Loader struct {
	client *Client
	cache  *Cache
	logger *zap.Logger
}

// NewLoader creates a new resource loader.
func NewLoader(client *Client, opts ...LoaderOption) *Loader {
	l := &Loader{
		client: client,
		cache:  NewCache(64),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load loads a resource. Failures are reported in Resource.Error.
func (l *Loader) Load(ctx context.Context, ref string, resourceType ResourceType) *Resource {
	logger := l.logger.With(zap.String("url", ref), zap.Stringer("type", resourceType))

	var res *Resource
	switch {
	case IsDataURL(ref):
		res = l.loadDataURL(ref, resourceType)
	case strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://"):
		res = l.loadFromHTTP(ctx, ref, resourceType)
	default:
		res = l.loadFromFile(ref, resourceType)
	}

	if res.Error != nil {
		logger.Warn("Failed to load resource", zap.Error(res.Error))
	} else {
		logger.Debug("Loaded resource",
			zap.Int("bytes", len(res.Content)),
			zap.String("content_type", res.ContentType),
			zap.Bool("cached", res.Cached))
	}
	return res
}

// LoadDocument loads an HTML document.
func (l *Loader) LoadDocument(ctx context.Context, ref string) *Resource {
	return l.Load(ctx, ref, ResourceTypeDocument)
}

// LoadStylesheet loads a CSS stylesheet.
func (l *Loader) LoadStylesheet(ctx context.Context, ref string) *Resource {
	return l.Load(ctx, ref, ResourceTypeStylesheet)
}

func (l *Loader) loadDataURL(ref string, resourceType ResourceType) *Resource {
	dataURL, err := ParseDataURL(ref)
	if err != nil {
		return &Resource{URL: ref, Type: resourceType, Error: err}
	}
	return &Resource{
		URL:         ref,
		Type:        resourceType,
		Content:     dataURL.Data,
		ContentType: dataURL.MediaType,
		Charset:     dataURL.Charset,
		StatusCode:  200,
	}
}

func (l *Loader) loadFromFile(ref string, resourceType ResourceType) *Resource {
	path := ref
	if strings.HasPrefix(ref, "file://") {
		u, err := url.Parse(ref)
		if err != nil {
			return &Resource{URL: ref, Type: resourceType, Error: fmt.Errorf("invalid file URL: %w", err)}
		}
		path = filepath.FromSlash(u.Path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return &Resource{URL: ref, Type: resourceType, Error: fmt.Errorf("failed to read file: %w", err)}
	}

	mediaType, cs := ParseContentType(mime.TypeByExtension(filepath.Ext(path)))
	return &Resource{
		URL:         ref,
		Type:        resourceType,
		Content:     content,
		ContentType: mediaType,
		Charset:     cs,
		StatusCode:  200,
	}
}

func (l *Loader) loadFromHTTP(ctx context.Context, ref string, resourceType ResourceType) *Resource {
	if entry, ok := l.cache.Get(ref); ok {
		return l.fromResponse(ref, resourceType, entry.Response, true)
	}

	resp, err := l.client.Get(ctx, ref)
	if err != nil {
		return &Resource{URL: ref, Type: resourceType, Error: err}
	}
	res := l.fromResponse(ref, resourceType, resp, false)
	if !res.IsSuccess() {
		res.Error = fmt.Errorf("unexpected status %d", resp.StatusCode)
		return res
	}
	l.cache.Set(ref, resp, resp.Header)
	return res
}

func (l *Loader) fromResponse(ref string, resourceType ResourceType, resp *Response, cached bool) *Resource {
	mediaType, cs := ParseContentType(resp.ContentType)
	return &Resource{
		URL:         ref,
		Type:        resourceType,
		Content:     resp.Body,
		ContentType: mediaType,
		Charset:     cs,
		StatusCode:  resp.StatusCode,
		Cached:      cached,
	}
}

// ClearCache clears the response cache.
func (l *Loader) ClearCache() {
	l.cache.Clear()
}
