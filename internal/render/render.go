package render

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/glamour"
)

// glamour.TermRenderer is not safe for concurrent Render calls, so
// renderers are pooled per option set instead of shared.
type rendererPool struct {
	mu    sync.RWMutex
	pools map[string]*sync.Pool
}

var globalPool = &rendererPool{pools: make(map[string]*sync.Pool)}

// Markdown renders markdown content for terminal display.
func Markdown(content string, opts Options) (string, error) {
	renderer, err := globalPool.get(opts)
	if err != nil {
		return "", err
	}
	defer globalPool.put(opts, renderer)

	return renderer.Render(content)
}

// MarkdownWithWidth renders with default options at the given width.
func MarkdownWithWidth(content string, width int) (string, error) {
	return Markdown(content, DefaultOptions().WithWidth(width))
}

func poolKey(opts Options) string {
	return fmt.Sprintf("%s:%d:%t", opts.Style, opts.Width, opts.PreserveNewLines)
}

func (p *rendererPool) getPool(opts Options) *sync.Pool {
	key := poolKey(opts)

	p.mu.RLock()
	if pool, ok := p.pools[key]; ok {
		p.mu.RUnlock()
		return pool
	}
	p.mu.RUnlock()

	p.mu.Lock()
	defer p.mu.Unlock()
	if pool, ok := p.pools[key]; ok {
		return pool
	}

	pool := &sync.Pool{
		New: func() interface{} {
			renderer, err := newRenderer(opts)
			if err != nil {
				return nil
			}
			return renderer
		},
	}
	p.pools[key] = pool
	return pool
}

func (p *rendererPool) get(opts Options) (*glamour.TermRenderer, error) {
	renderer := p.getPool(opts).Get()
	if renderer == nil {
		return newRenderer(opts)
	}
	return renderer.(*glamour.TermRenderer), nil
}

func (p *rendererPool) put(opts Options, renderer *glamour.TermRenderer) {
	if renderer == nil {
		return
	}
	p.getPool(opts).Put(renderer)
}

func newRenderer(opts Options) (*glamour.TermRenderer, error) {
	rendererOpts := []glamour.TermRendererOption{
		glamour.WithStylePath(opts.Style),
		glamour.WithWordWrap(opts.Width),
	}
	if opts.PreserveNewLines {
		rendererOpts = append(rendererOpts, glamour.WithPreservedNewLines())
	}
	return glamour.NewTermRenderer(rendererOpts...)
}

// ClearCache drops all pooled renderers.
func ClearCache() {
	globalPool.mu.Lock()
	globalPool.pools = make(map[string]*sync.Pool)
	globalPool.mu.Unlock()
}
