// Package vghistorytest provides an in-memory Browser and Storage for use in tests
// and anywhere outside of a real browser window.
package vghistorytest

import (
	"net/url"
	"sync"

	"github.com/vugu/vghistory"
)

// PopStateEvent is passed as the native event to popstate listeners.
type PopStateEvent struct {
	Delta int // steps moved
}

type listener struct {
	id int
	fn func()
	pf func(native interface{})
}

// MemoryBrowser is a vghistory.Browser with its own history stack.
//
// Like a real browser, Back, Forward and Go only queue a traversal request.
// Nothing moves and no popstate is delivered until Settle is called.
type MemoryBrowser struct {
	mu sync.Mutex

	entries []string
	index   int
	pending []int

	lastID          int
	popListeners    []listener
	scrollListeners []listener

	pageYOffset       int
	scrollRestoration string
	storage           vghistory.Storage

	calls map[string]int
}

var _ vghistory.Browser = (*MemoryBrowser)(nil)

// NewMemoryBrowser returns a MemoryBrowser whose only history entry is href,
// which should be absolute (e.g. "http://localhost/").
func NewMemoryBrowser(href string) *MemoryBrowser {
	return &MemoryBrowser{
		entries:           []string{href},
		scrollRestoration: "auto",
		storage:           NewMemoryStorage(),
		calls:             make(map[string]int),
	}
}

// ParseLocation splits an absolute href the way window.location does.
func ParseLocation(href string) vghistory.Location {
	u, err := url.Parse(href)
	if err != nil {
		return vghistory.Location{Href: href}
	}
	loc := vghistory.Location{
		Hostname: u.Hostname(),
		Port:     u.Port(),
		Pathname: u.EscapedPath(),
		Href:     href,
	}
	if u.Scheme != "" {
		loc.Protocol = u.Scheme + ":"
	}
	if loc.Pathname == "" && u.Host != "" {
		loc.Pathname = "/"
	}
	if u.RawQuery != "" {
		loc.Search = "?" + u.RawQuery
	}
	if u.Fragment != "" {
		loc.Hash = "#" + u.EscapedFragment()
	}
	return loc
}

// Location implements vghistory.Browser.
func (b *MemoryBrowser) Location() vghistory.Location {
	b.mu.Lock()
	defer b.mu.Unlock()
	return ParseLocation(b.entries[b.index])
}

// SetLocation replaces the current entry without any history event,
// as if the page had been loaded at href.
func (b *MemoryBrowser) SetLocation(href string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries[b.index] = href
}

// Entries returns the history entries and the index of the current one.
func (b *MemoryBrowser) Entries() ([]string, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.entries...), b.index
}

// Calls returns how many times the named method ("pushState", "replaceState",
// "back", "forward", "go", "scrollTo") was called.
func (b *MemoryBrowser) Calls(method string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[method]
}

// resolve must be called with mu held.
func (b *MemoryBrowser) resolve(uri string) string {
	base, err := url.Parse(b.entries[b.index])
	if err != nil {
		return uri
	}
	ref, err := url.Parse(uri)
	if err != nil {
		return uri
	}
	return base.ResolveReference(ref).String()
}

// PushState implements vghistory.Browser.
func (b *MemoryBrowser) PushState(uri string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls["pushState"]++
	href := b.resolve(uri)
	b.entries = append(b.entries[:b.index+1], href)
	b.index++
}

// ReplaceState implements vghistory.Browser.
func (b *MemoryBrowser) ReplaceState(uri string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls["replaceState"]++
	b.entries[b.index] = b.resolve(uri)
}

// Back implements vghistory.Browser.
func (b *MemoryBrowser) Back() { b.request("back", -1) }

// Forward implements vghistory.Browser.
func (b *MemoryBrowser) Forward() { b.request("forward", 1) }

// Go implements vghistory.Browser.
func (b *MemoryBrowser) Go(delta int) { b.request("go", delta) }

func (b *MemoryBrowser) request(method string, delta int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls[method]++
	if delta != 0 {
		b.pending = append(b.pending, delta)
	}
}

// Pending returns the number of queued traversal requests.
func (b *MemoryBrowser) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}

// Settle applies queued traversals in order, delivering a popstate for each
// one that lands on an entry.  Traversals past either end of the history are
// dropped, same as in a browser.  It returns the number of popstates delivered.
func (b *MemoryBrowser) Settle() int {
	n := 0
	for {
		b.mu.Lock()
		if len(b.pending) == 0 {
			b.mu.Unlock()
			return n
		}
		delta := b.pending[0]
		b.pending = b.pending[1:]
		target := b.index + delta
		if target < 0 || target >= len(b.entries) {
			b.mu.Unlock()
			continue
		}
		b.index = target
		ls := append([]listener(nil), b.popListeners...)
		b.mu.Unlock()

		ev := PopStateEvent{Delta: delta}
		for _, l := range ls {
			l.pf(ev)
		}
		n++
	}
}

// AddPopStateListener implements vghistory.Browser.
func (b *MemoryBrowser) AddPopStateListener(fn func(native interface{})) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastID++
	id := b.lastID
	b.popListeners = append(b.popListeners, listener{id: id, pf: fn})
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.popListeners = without(b.popListeners, id)
	}
}

// AddScrollListener implements vghistory.Browser.
func (b *MemoryBrowser) AddScrollListener(fn func()) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastID++
	id := b.lastID
	b.scrollListeners = append(b.scrollListeners, listener{id: id, fn: fn})
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.scrollListeners = without(b.scrollListeners, id)
	}
}

// ListenerCounts returns the number of popstate and scroll listeners.
func (b *MemoryBrowser) ListenerCounts() (popState, scroll int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.popListeners), len(b.scrollListeners)
}

func without(ls []listener, id int) []listener {
	ret := make([]listener, 0, len(ls))
	for _, l := range ls {
		if l.id != id {
			ret = append(ret, l)
		}
	}
	return ret
}

// ScrollTo implements vghistory.Browser.  Scroll listeners are called
// as the browser would after the window moves.
func (b *MemoryBrowser) ScrollTo(x, y int) {
	b.mu.Lock()
	b.calls["scrollTo"]++
	if y < 0 {
		y = 0
	}
	b.pageYOffset = y
	ls := append([]listener(nil), b.scrollListeners...)
	b.mu.Unlock()

	for _, l := range ls {
		l.fn()
	}
}

// PageYOffset implements vghistory.Browser.
func (b *MemoryBrowser) PageYOffset() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pageYOffset
}

// SetManualScrollRestoration implements vghistory.Browser.
func (b *MemoryBrowser) SetManualScrollRestoration() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.scrollRestoration = "manual"
}

// ScrollRestoration returns the value of history.scrollRestoration, "auto" unless
// SetManualScrollRestoration was called.
func (b *MemoryBrowser) ScrollRestoration() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.scrollRestoration
}

// SessionStorage implements vghistory.Browser.
func (b *MemoryBrowser) SessionStorage() vghistory.Storage {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.storage
}

// SetSessionStorage replaces the session storage, nil means there is none.
// It must be called before the browser is passed to vghistory.NewCoordinator.
func (b *MemoryBrowser) SetSessionStorage(s vghistory.Storage) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.storage = s
}
