// Package rod fetches JavaScript-rendered documentation pages with a headless
// Chrome browser driven by go-rod.
package rod

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fwojciec/uvdocs"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultFetchTimeout bounds a single page render.
const DefaultFetchTimeout = 30 * time.Second

// Ensure Fetcher implements uvdocs.Fetcher at compile time.
var _ uvdocs.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML using Chrome browser automation. It is the
// alternative to the plain HTTP fetcher for pages whose reference content is
// built client side. Fetcher is safe for concurrent use.
type Fetcher struct {
	launcher *launcher.Launcher
	browser  *rod.Browser

	timeout      time.Duration
	waitSelector string

	mu     sync.RWMutex
	closed bool
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithFetchTimeout sets the per-page render timeout.
func WithFetchTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithWaitSelector makes Fetch wait until an element matching selector is
// present before serializing the page.
func WithWaitSelector(selector string) Option {
	return func(f *Fetcher) {
		f.waitSelector = selector
	}
}

// NewFetcher launches a headless Chrome browser.
// Close must be called when the Fetcher is no longer needed.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{timeout: DefaultFetchTimeout}
	for _, opt := range opts {
		opt(f)
	}

	f.launcher = launcher.New().
		Set("disable-dev-shm-usage").
		Set("disable-background-timer-throttling").
		Leakless(true).
		Headless(true)

	u, err := f.launcher.Launch()
	if err != nil {
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	f.browser = rod.New().ControlURL(u)
	if err := f.browser.Connect(); err != nil {
		f.launcher.Kill()
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}
	return f, nil
}

// Fetch navigates to url and returns the rendered HTML, shadow roots included.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.closed {
		return "", uvdocs.Errorf(uvdocs.EINVALID, "fetcher is closed")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	page, err := f.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", err
	}
	defer page.Close()

	page = page.Context(ctx)
	if err := page.Navigate(url); err != nil {
		return "", wrapContext(ctx, err)
	}
	if err := page.WaitLoad(); err != nil {
		return "", wrapContext(ctx, err)
	}
	if f.waitSelector != "" {
		if _, err := page.Element(f.waitSelector); err != nil {
			return "", wrapContext(ctx, err)
		}
	}

	res, err := page.Eval(serializeScript)
	if err != nil {
		return "", wrapContext(ctx, err)
	}
	return res.Value.Str(), nil
}

// serializeScript returns the document's HTML with open shadow roots inlined.
const serializeScript = `() => {
	const opts = {serializableShadowRoots: true, shadowRoots: Array.from(document.querySelectorAll('*')).map(e => e.shadowRoot).filter(Boolean)};
	const html = document.documentElement.getHTML ? document.documentElement.getHTML(opts) : document.documentElement.innerHTML;
	return '<!DOCTYPE html><html>' + html + '</html>';
}`

// wrapContext reports the context's error in place of rod's when the
// context ended first, so callers can match context.DeadlineExceeded.
func wrapContext(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%w: %v", ctxErr, err)
	}
	return err
}

// LauncherPID returns the PID of the launched browser process.
func (f *Fetcher) LauncherPID() int {
	return f.launcher.PID()
}

// Close releases browser resources. Close is safe to call multiple times.
func (f *Fetcher) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil
	}
	f.closed = true

	err := f.browser.Close()
	f.launcher.Kill()
	return err
}
