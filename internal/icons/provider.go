package icons

import (
	"image"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/jmylchreest/folderpop/internal/snapshot"
)

// DefaultResolveTimeout bounds shortcut target resolution.
const DefaultResolveTimeout = 250 * time.Millisecond

// Lookup finds the first of names in the icon theme and loads it at size
// pixels.
type Lookup func(names []string, size int) (image.Image, bool)

// Provider implements snapshot.IconProvider on top of a theme lookup.
// Decoded images are shared between entries with the same icon names.
type Provider struct {
	lookup  Lookup
	size    int
	timeout time.Duration
	logger  *slog.Logger

	mu    sync.Mutex
	cache map[string]image.Image
	live  int
}

// NewProvider creates a Provider.
func NewProvider(lookup Lookup, size int, timeout time.Duration, logger *slog.Logger) *Provider {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = DefaultResolveTimeout
	}
	return &Provider{
		lookup:  lookup,
		size:    size,
		timeout: timeout,
		logger:  logger,
		cache:   make(map[string]image.Image),
	}
}

// IconFor returns the themed icon for path.
func (p *Provider) IconFor(path string, isDir bool) (*snapshot.Icon, bool) {
	if p.lookup == nil {
		return nil, false
	}
	names := Names(path, isDir)
	key := strings.Join(names, "|")

	p.mu.Lock()
	defer p.mu.Unlock()

	img, ok := p.cache[key]
	if !ok {
		img, ok = p.lookup(names, p.size)
		if !ok {
			p.logger.Debug("no icon found", "path", path, "names", names)
			return nil, false
		}
		img = Scale(img, p.size)
		p.cache[key] = img
	}
	p.live++
	return snapshot.NewIcon(img, p.release), true
}

func (p *Provider) release() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.live--
	if p.live == 0 {
		clear(p.cache)
	}
}

// Live returns the number of icons handed out and not yet released.
func (p *Provider) Live() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.live
}

// ResolveShortcutTarget resolves symlinks and Link desktop entries within
// the provider's timeout.
func (p *Provider) ResolveShortcutTarget(path string) (string, bool) {
	return ResolveTargetWithin(path, p.timeout)
}
