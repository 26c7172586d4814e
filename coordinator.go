package vghistory

import (
	"sync"

	"go.uber.org/atomic"
)

// Coordinator owns the navigation key and the history event stream for one browser window.
// There should be one per process, normally the one returned by Default, shared by every Router.
//
// Every history transition increments the navigation key exactly once and emits
// a reason specific event (pushstate, replacestate or popstate) immediately
// followed by a change event.
type Coordinator struct {
	browser Browser
	scroll  *ScrollStore

	navigationKey atomic.Int64
	bus           bus

	removePopState func()
}

// NewCoordinator returns a Coordinator listening to b's popstate notifications.
func NewCoordinator(b Browser) *Coordinator {
	c := &Coordinator{
		browser: b,
		scroll:  NewScrollStore(b.SessionStorage()),
	}
	c.removePopState = b.AddPopStateListener(c.onPopState)
	return c
}

// Browser returns the browser the Coordinator drives.
func (c *Coordinator) Browser() Browser { return c.browser }

// ScrollStore returns the scroll store shared by every Router using c.
func (c *Coordinator) ScrollStore() *ScrollStore { return c.scroll }

// NavigationKey returns the number of history transitions seen so far.
func (c *Coordinator) NavigationKey() int64 { return c.navigationKey.Load() }

// AddListener registers fn for events of type typ.
func (c *Coordinator) AddListener(typ EventType, fn Listener) ListenerID {
	return c.bus.add(typ, fn)
}

// RemoveListener unregisters a listener, returning false if it was not registered.
func (c *Coordinator) RemoveListener(id ListenerID) bool {
	return c.bus.remove(id)
}

// PushURI adds uri to the history.
func (c *Coordinator) PushURI(uri string) {
	key := c.navigationKey.Inc()
	c.browser.PushState(uri)
	c.emit(Event{Reason: EventPushState, URI: uri, NavigationKey: key})
}

// ReplaceURI replaces the current history entry with uri.
func (c *Coordinator) ReplaceURI(uri string) {
	key := c.navigationKey.Inc()
	c.browser.ReplaceState(uri)
	c.emit(Event{Reason: EventReplaceState, URI: uri, NavigationKey: key})
}

// Back requests a step back in history.  The transition is reported as popstate once the browser applies it.
func (c *Coordinator) Back() { c.browser.Back() }

// Forward requests a step forward in history.  The transition is reported as popstate once the browser applies it.
func (c *Coordinator) Forward() { c.browser.Forward() }

// Go requests a move of delta steps in history.  The transition is reported as popstate once the browser applies it.
func (c *Coordinator) Go(delta int) { c.browser.Go(delta) }

// Close stops listening for popstate.  Listeners stay registered but will only see
// transitions made through PushURI and ReplaceURI.
func (c *Coordinator) Close() {
	if c.removePopState != nil {
		c.removePopState()
		c.removePopState = nil
	}
}

func (c *Coordinator) onPopState(native interface{}) {
	key := c.navigationKey.Inc()
	c.emit(Event{
		Reason:        EventPopState,
		URI:           c.browser.Location().Href,
		NavigationKey: key,
		Native:        native,
	})
}

// emit sends ev as its reason type and then as change.
func (c *Coordinator) emit(ev Event) {
	ev.Type = ev.Reason
	c.bus.emit(ev)
	ev.Type = EventChange
	c.bus.emit(ev)
}

var (
	defaultMu          sync.Mutex
	defaultCoordinator *Coordinator
)

// Default returns the process wide Coordinator, creating it on the real browser window
// the first time.  Outside of a browser it returns ErrNotInBrowser unless SetDefault was called.
func Default() (*Coordinator, error) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultCoordinator == nil {
		b, err := NewJSBrowser()
		if err != nil {
			return nil, err
		}
		defaultCoordinator = NewCoordinator(b)
	}
	return defaultCoordinator, nil
}

// SetDefault replaces the process wide Coordinator.
func SetDefault(c *Coordinator) {
	defaultMu.Lock()
	defaultCoordinator = c
	defaultMu.Unlock()
}

// PushURI calls PushURI on the Default Coordinator.
func PushURI(uri string) error {
	c, err := Default()
	if err != nil {
		return err
	}
	c.PushURI(uri)
	return nil
}

// ReplaceURI calls ReplaceURI on the Default Coordinator.
func ReplaceURI(uri string) error {
	c, err := Default()
	if err != nil {
		return err
	}
	c.ReplaceURI(uri)
	return nil
}

// Back calls Back on the Default Coordinator.
func Back() error {
	c, err := Default()
	if err != nil {
		return err
	}
	c.Back()
	return nil
}

// Forward calls Forward on the Default Coordinator.
func Forward() error {
	c, err := Default()
	if err != nil {
		return err
	}
	c.Forward()
	return nil
}

// Go calls Go on the Default Coordinator.
func Go(delta int) error {
	c, err := Default()
	if err != nil {
		return err
	}
	c.Go(delta)
	return nil
}
