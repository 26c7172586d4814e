package vghistory

import (
	"errors"
	"strconv"
	"strings"
	"sync"

	"github.com/vugu/vghistory/pattern"
)

// ErrRouteNotFound is returned when generating a URI for an undeclared route name.
var ErrRouteNotFound = pattern.ErrRouteNotFound

// ErrRouterClosed is returned by Navigate after Close.
var ErrRouterClosed = errors.New("vghistory: router closed")

// Matcher is the route matching and generation engine wrapped by a Router.
// *pattern.Engine implements it.
type Matcher interface {
	Match(absoluteURI string) []pattern.Match
	Generate(routeName string, params map[string]string) (string, error)
	Split(rawURI string) pattern.URI
	DefaultPart(name pattern.PartName) string
	DefaultPort(protocol string) int
}

var _ Matcher = (*pattern.Engine)(nil)

// Route declares one named route.
type Route struct {
	Name   string
	URI    string         // pattern, may be relative, e.g. "?hello={entity}"
	Params pattern.Params // optional per parameter constraints
	Key    KeyRule        // optional, see KeyTemplate and KeyFunc
}

// MatchObject is the result of matching one Route against a URI.
type MatchObject struct {
	Name     string
	Protocol string
	Domain   string
	Port     string
	Path     string
	Hash     string
	Params   map[string]string
	Query    map[string]string
	Key      string
}

// MatchSet is the result of matching the current URI.  Each refresh creates a new
// MatchSet, so comparing pointers tells whether matching ran again.
type MatchSet struct {
	Objects       []MatchObject
	Reason        Reason // transition that caused the refresh
	NavigationKey int64
}

// Router matches the browser's current URI against a list of routes and keeps
// the result up to date as the history changes.
type Router struct {
	coord    *Coordinator
	browser  Browser
	matcher  Matcher
	keyRules map[string]KeyRule
	scroll   ScrollRestoration
	eventEnv EventEnv

	bus bus // change events, emitted after a refresh

	mu         sync.Mutex
	matches    *MatchSet
	lastReason Reason
	closed     bool

	changeID     ListenerID
	removeScroll func()
}

// MustNew is like New but panics upon error.
func MustNew(c *Coordinator, routes []Route, opts Options) *Router {
	r, err := New(c, routes, opts)
	if err != nil {
		panic(err)
	}
	return r
}

// New returns a Router for routes which follows c.  The current URI is matched
// before New returns.
func New(c *Coordinator, routes []Route, opts Options) (*Router, error) {

	r := &Router{
		coord:    c,
		browser:  c.Browser(),
		matcher:  opts.Matcher,
		keyRules: make(map[string]KeyRule, len(routes)),
		scroll:   ParseScrollRestoration(string(opts.ScrollRestoration)),
		eventEnv: opts.EventEnv,
	}

	if r.matcher == nil {
		decls := make([]pattern.Declaration, len(routes))
		for i, rt := range routes {
			decls[i] = pattern.Declaration{Name: rt.Name, URI: rt.URI, Params: rt.Params}
		}
		e, err := pattern.Compile(decls)
		if err != nil {
			return nil, err
		}
		r.matcher = e
	}
	for _, rt := range routes {
		if rt.Key != nil {
			r.keyRules[rt.Name] = rt.Key
		}
	}

	r.changeID = c.AddListener(EventChange, r.onChange)
	r.refresh(EventPopState, c.NavigationKey())

	if r.scroll != ScrollManual {
		r.browser.SetManualScrollRestoration()
	}
	if r.scroll == ScrollAuto {
		r.removeScroll = r.browser.AddScrollListener(r.onScroll)
	}

	return r, nil
}

// Close stops following history changes and scroll events.
func (r *Router) Close() {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
	r.coord.RemoveListener(r.changeID)
	if r.removeScroll != nil {
		r.removeScroll()
		r.removeScroll = nil
	}
}

// ScrollRestoration returns the mode in effect.
func (r *Router) ScrollRestoration() ScrollRestoration { return r.scroll }

// ResolveURI returns rawURI made absolute against the current location.
func (r *Router) ResolveURI(rawURI string) string {
	return ResolveURI(r.matcher.Split(rawURI), rawURI, r.browser.Location())
}

// MatchURI resolves rawURI and returns a MatchObject for every route it matches,
// in route order.
func (r *Router) MatchURI(rawURI string) []MatchObject {
	return r.matchURI(rawURI, r.coord.NavigationKey())
}

func (r *Router) matchURI(rawURI string, navigationKey int64) []MatchObject {
	ms := r.matcher.Match(r.ResolveURI(rawURI))
	ret := make([]MatchObject, 0, len(ms))
	for _, m := range ms {
		mo := MatchObject{
			Name:     m.Name,
			Protocol: m.Protocol,
			Domain:   m.Domain,
			Port:     m.Port,
			Path:     m.Path,
			Hash:     m.Hash,
			Params:   m.Params,
			Query:    m.Query,
		}
		if mo.Protocol == "" {
			mo.Protocol = r.DefaultPart(pattern.PartProtocol)
		}
		if mo.Domain == "" {
			mo.Domain = r.DefaultPart(pattern.PartDomain)
		}
		if mo.Port == "" {
			mo.Port = r.DefaultPart(pattern.PartPort)
		}
		mo.Key = extractKey(r.keyRules[mo.Name], mo, navigationKey)
		ret = append(ret, mo)
	}
	return ret
}

// GenerateURI builds the URI for the named route and resolves it, so routes
// with relative patterns still produce absolute URIs.
func (r *Router) GenerateURI(routeName string, params map[string]string) (string, error) {
	u, err := r.matcher.Generate(routeName, params)
	if err != nil {
		return "", err
	}
	return r.ResolveURI(u), nil
}

// DefaultPart returns the value of a URI part taken from the current location.
// The protocol is lower case without the colon and the port falls back to the
// protocol's default.  Other parts are left to the matcher.
func (r *Router) DefaultPart(name pattern.PartName) string {
	loc := r.browser.Location()
	protocol := strings.ToLower(strings.TrimSuffix(loc.Protocol, ":"))
	switch name {
	case pattern.PartProtocol:
		return protocol
	case pattern.PartDomain:
		return loc.Hostname
	case pattern.PartPort:
		if p, err := strconv.Atoi(loc.Port); err == nil && p > 0 {
			return strconv.Itoa(p)
		}
		return strconv.Itoa(r.matcher.DefaultPort(protocol))
	}
	return r.matcher.DefaultPart(name)
}

// Matches returns the MatchSet from the last refresh.
func (r *Router) Matches() *MatchSet {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.matches
}

// MatchObjects returns the match objects from the last refresh without matching again.
func (r *Router) MatchObjects() []MatchObject {
	return r.Matches().Objects
}

// LastReason returns the reason of the last transition the Router refreshed for.
func (r *Router) LastReason() Reason {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastReason
}

// NavigationKey returns the Coordinator's navigation key.
func (r *Router) NavigationKey() int64 { return r.coord.NavigationKey() }

// AddListener registers fn to be called after each refresh.
func (r *Router) AddListener(fn Listener) ListenerID { return r.bus.add(EventChange, fn) }

// RemoveListener unregisters a listener added with AddListener.
func (r *Router) RemoveListener(id ListenerID) bool { return r.bus.remove(id) }

// PushURI adds uri to the history as is.
func (r *Router) PushURI(uri string) { r.coord.PushURI(uri) }

// ReplaceURI replaces the current history entry with uri as is.
func (r *Router) ReplaceURI(uri string) { r.coord.ReplaceURI(uri) }

// PushRoute generates the URI for the named route and pushes it.
func (r *Router) PushRoute(routeName string, params map[string]string) error {
	u, err := r.GenerateURI(routeName, params)
	if err != nil {
		return err
	}
	r.coord.PushURI(u)
	return nil
}

// ReplaceRoute generates the URI for the named route and replaces the current entry with it.
func (r *Router) ReplaceRoute(routeName string, params map[string]string) error {
	u, err := r.GenerateURI(routeName, params)
	if err != nil {
		return err
	}
	r.coord.ReplaceURI(u)
	return nil
}

// Back requests a step back in history.
func (r *Router) Back() { r.coord.Back() }

// Forward requests a step forward in history.
func (r *Router) Forward() { r.coord.Forward() }

// Go requests a move of delta steps in history.
func (r *Router) Go(delta int) { r.coord.Go(delta) }

// RestoreScroll scrolls according to the restoration mode and the reason
// of the last transition.  It is meant to be called from a change listener
// once the new content is in place.
//
// reset always scrolls to the top.  auto scrolls to the remembered offset
// after popstate and to the top (forgetting any remembered offset) otherwise.
func (r *Router) RestoreScroll() {

	if r.scroll == ScrollReset {
		r.browser.ScrollTo(0, 0)
	}

	if r.scroll != ScrollAuto {
		return
	}

	href := r.browser.Location().Href
	store := r.coord.ScrollStore()
	if r.LastReason() == EventPopState {
		r.browser.ScrollTo(0, store.GetItem(href))
		return
	}
	r.browser.ScrollTo(0, 0)
	store.SetItem(href, 0)
}

// refresh matches the current location and replaces the MatchSet.
func (r *Router) refresh(reason Reason, navigationKey int64) *MatchSet {
	ms := &MatchSet{
		Objects:       r.matchURI(r.browser.Location().Href, navigationKey),
		Reason:        reason,
		NavigationKey: navigationKey,
	}
	r.mu.Lock()
	r.matches = ms
	r.lastReason = reason
	r.mu.Unlock()
	return ms
}

func (r *Router) onChange(ev Event) {
	if r.eventEnv != nil && ev.Reason == EventPopState {
		r.eventEnv.Lock()
		defer r.eventEnv.UnlockRender()
	}
	r.refresh(ev.Reason, ev.NavigationKey)
	r.bus.emit(ev)
}

func (r *Router) onScroll() {
	r.coord.ScrollStore().SetItem(r.browser.Location().Href, r.browser.PageYOffset())
}
