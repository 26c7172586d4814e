package vghistory

import (
	"errors"
	"fmt"

	"github.com/vugu/vugu/js"
)

// NewJSBrowser returns a Browser bound to the real window.
// Only works in wasm environment otherwise returns ErrNotInBrowser.
func NewJSBrowser() (Browser, error) {
	g := js.Global()
	if !g.Truthy() {
		return nil, ErrNotInBrowser
	}
	w := g.Get("window")
	if !w.Truthy() {
		return nil, ErrNotInBrowser
	}
	return &jsBrowser{window: w}, nil
}

type jsBrowser struct {
	window js.Value
}

func (b *jsBrowser) Location() Location {
	loc := b.window.Get("location")
	return Location{
		Protocol: loc.Get("protocol").String(),
		Hostname: loc.Get("hostname").String(),
		Port:     loc.Get("port").String(),
		Pathname: loc.Get("pathname").String(),
		Search:   loc.Get("search").String(),
		Hash:     loc.Get("hash").String(),
		Href:     loc.Get("href").String(),
	}
}

func (b *jsBrowser) title() js.Value {
	return b.window.Get("document").Get("title")
}

func (b *jsBrowser) PushState(uri string) {
	b.window.Get("history").Call("pushState", nil, b.title(), uri)
}

func (b *jsBrowser) ReplaceState(uri string) {
	b.window.Get("history").Call("replaceState", nil, b.title(), uri)
}

func (b *jsBrowser) Back()        { b.window.Get("history").Call("back") }
func (b *jsBrowser) Forward()     { b.window.Get("history").Call("forward") }
func (b *jsBrowser) Go(delta int) { b.window.Get("history").Call("go", delta) }

func (b *jsBrowser) addListener(event string, f func(this js.Value, args []js.Value) interface{}) func() {
	jf := js.FuncOf(f)
	b.window.Call("addEventListener", event, jf)
	return func() {
		b.window.Call("removeEventListener", event, jf)
		jf.Release()
	}
}

func (b *jsBrowser) AddPopStateListener(fn func(native interface{})) func() {
	return b.addListener("popstate", func(this js.Value, args []js.Value) interface{} {
		var native interface{}
		if len(args) > 0 {
			native = args[0]
		}
		fn(native)
		return nil
	})
}

func (b *jsBrowser) AddScrollListener(fn func()) func() {
	return b.addListener("scroll", func(this js.Value, args []js.Value) interface{} {
		fn()
		return nil
	})
}

func (b *jsBrowser) ScrollTo(x, y int) {
	b.window.Call("scrollTo", x, y)
}

func (b *jsBrowser) PageYOffset() int {
	v := b.window.Get("pageYOffset")
	if !v.Truthy() {
		return 0
	}
	return v.Int()
}

func (b *jsBrowser) SetManualScrollRestoration() {
	h := b.window.Get("history")
	if h.Get("scrollRestoration").IsUndefined() {
		return
	}
	h.Set("scrollRestoration", "manual")
}

func (b *jsBrowser) SessionStorage() Storage {
	return &jsStorage{window: b.window}
}

var errSessionStorageUnavailable = errors.New("session storage not available")

// jsStorage wraps window.sessionStorage.  Browsers throw when storage is
// disabled or full, those exceptions come back as errors.
type jsStorage struct {
	window js.Value
}

func catch(err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("session storage: %v", r)
	}
}

func (s *jsStorage) storage() (js.Value, error) {
	ss := s.window.Get("sessionStorage")
	if !ss.Truthy() {
		return ss, errSessionStorageUnavailable
	}
	return ss, nil
}

func (s *jsStorage) GetItem(key string) (value string, ok bool, err error) {
	defer catch(&err)
	ss, err := s.storage()
	if err != nil {
		return "", false, err
	}
	v := ss.Call("getItem", key)
	if !v.Truthy() {
		return "", false, nil
	}
	return v.String(), true, nil
}

func (s *jsStorage) SetItem(key, value string) (err error) {
	defer catch(&err)
	ss, err := s.storage()
	if err != nil {
		return err
	}
	ss.Call("setItem", key, value)
	return nil
}
