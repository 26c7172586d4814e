package vghistory

import "errors"

// ErrNotInBrowser is returned when a browser binding is requested outside of a js/wasm environment.
var ErrNotInBrowser = errors.New("not in browser (js) environment")

// Location is a snapshot of window.location.
// Protocol keeps its trailing colon ("https:"), Search and Hash keep their
// leading "?" and "#" and are empty when absent, same as the browser.
type Location struct {
	Protocol string
	Hostname string
	Port     string
	Pathname string
	Search   string
	Hash     string
	Href     string
}

// Browser is everything the router needs from the browser window.
// NewJSBrowser returns the real one, package vghistorytest has an in-memory one.
type Browser interface {
	// Location returns the current window location.
	Location() Location

	// PushState and ReplaceState correspond to history.pushState and history.replaceState.
	PushState(uri string)
	ReplaceState(uri string)

	// Back, Forward and Go request history traversal.  The traversal is applied
	// later and reported through the popstate listener.
	Back()
	Forward()
	Go(delta int)

	// AddPopStateListener registers fn for popstate notifications.  The native event,
	// if any, is passed through.  The returned func removes the listener.
	AddPopStateListener(fn func(native interface{})) (remove func())

	// ScrollTo scrolls the window, PageYOffset reads the vertical scroll offset.
	ScrollTo(x, y int)
	PageYOffset() int

	// AddScrollListener registers fn for window scroll events.  The returned func removes the listener.
	AddScrollListener(fn func()) (remove func())

	// SetManualScrollRestoration turns off the browser's own scroll restoration, if it has one.
	SetManualScrollRestoration()

	// SessionStorage returns the session scoped storage, or nil if there is none.
	SessionStorage() Storage
}

// Storage is a string key/value store like window.sessionStorage.
// Implementations report unavailability (disabled, quota) as errors.
type Storage interface {
	GetItem(key string) (value string, ok bool, err error)
	SetItem(key, value string) error
}
