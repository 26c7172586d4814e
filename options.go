package vghistory

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// ScrollRestoration selects how a Router handles scroll position across navigation.
type ScrollRestoration string

const (
	// ScrollManual leaves scrolling alone.  This is the default.
	ScrollManual ScrollRestoration = "manual"
	// ScrollAuto records the offset of every URI while scrolling and RestoreScroll
	// returns to it on popstate, or to the top for new navigations.
	ScrollAuto ScrollRestoration = "auto"
	// ScrollReset makes RestoreScroll always go to the top.
	ScrollReset ScrollRestoration = "reset"
)

// ParseScrollRestoration returns the ScrollRestoration named by s, ignoring case.
// Anything unrecognized, including "", is ScrollManual.
func ParseScrollRestoration(s string) ScrollRestoration {
	switch v := ScrollRestoration(strings.ToLower(strings.TrimSpace(s))); v {
	case ScrollManual, ScrollAuto, ScrollReset:
		return v
	}
	return ScrollManual
}

// EventEnv is our view of a Vugu EventEnv.
type EventEnv interface {
	Lock()         // acquire write lock
	UnlockOnly()   // release write lock
	UnlockRender() // release write lock and request re-render
}

// Options configure a Router.  The zero value is valid.
type Options struct {
	ScrollRestoration ScrollRestoration `toml:"scroll_restoration"`

	// Matcher replaces the pattern engine compiled from the routes passed to New.
	Matcher Matcher `toml:"-"`

	// EventEnv, if set, is locked while a popstate transition refreshes the
	// Router and then asked to re-render.  Pushes and replaces are expected to
	// come from event handlers which already hold the lock.
	EventEnv EventEnv `toml:"-"`
}

// LoadOptions decodes TOML from r into Options.
//
//	scroll_restoration = "auto"
func LoadOptions(r io.Reader) (Options, error) {
	var opts Options
	if _, err := toml.NewDecoder(r).Decode(&opts); err != nil {
		return opts, fmt.Errorf("decoding router options: %w", err)
	}
	opts.ScrollRestoration = ParseScrollRestoration(string(opts.ScrollRestoration))
	return opts, nil
}

// LoadOptionsFile is like LoadOptions but reads the named file.
func LoadOptionsFile(path string) (Options, error) {
	f, err := os.Open(path)
	if err != nil {
		return Options{}, err
	}
	defer f.Close()
	return LoadOptions(f)
}
