package vghistorytest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vugu/vghistory"
)

func TestParseLocation(t *testing.T) {

	var tlist = []struct {
		href string
		loc  vghistory.Location
	}{
		{"https://google.com", vghistory.Location{Protocol: "https:", Hostname: "google.com", Pathname: "/", Href: "https://google.com"}},
		{"http://localhost:8080/a/b?x=1#top", vghistory.Location{Protocol: "http:", Hostname: "localhost", Port: "8080", Pathname: "/a/b", Search: "?x=1", Hash: "#top", Href: "http://localhost:8080/a/b?x=1#top"}},
	}

	for _, ti := range tlist {
		t.Run(ti.href, func(t *testing.T) {
			assert.Equal(t, ti.loc, ParseLocation(ti.href))
		})
	}
}

func TestMemoryBrowserPushReplace(t *testing.T) {

	b := NewMemoryBrowser("https://google.com/a/b")

	b.PushState("c")
	b.PushState("/x?y=1")
	b.ReplaceState("#frag")

	entries, idx := b.Entries()
	assert.Equal(t, []string{"https://google.com/a/b", "https://google.com/a/c", "https://google.com/x?y=1#frag"}, entries)
	assert.Equal(t, 2, idx)
	assert.Equal(t, "/x", b.Location().Pathname)
	assert.Equal(t, 2, b.Calls("pushState"))
	assert.Equal(t, 1, b.Calls("replaceState"))
}

func TestMemoryBrowserTraversal(t *testing.T) {

	b := NewMemoryBrowser("http://localhost/0")
	b.PushState("/1")
	b.PushState("/2")

	var got []PopStateEvent
	var hrefs []string
	remove := b.AddPopStateListener(func(native interface{}) {
		got = append(got, native.(PopStateEvent))
		hrefs = append(hrefs, b.Location().Href)
	})

	b.Back()
	b.Go(-1)
	b.Go(0) // ignored, as in a browser this would be a reload
	b.Go(-5)
	b.Forward()

	// nothing moves until the traversal is applied
	assert.Equal(t, 4, b.Pending())
	assert.Equal(t, "http://localhost/2", b.Location().Href)
	assert.Empty(t, got)

	assert.Equal(t, 3, b.Settle())
	assert.Equal(t, 0, b.Pending())
	assert.Equal(t, []PopStateEvent{{Delta: -1}, {Delta: -1}, {Delta: 1}}, got)
	assert.Equal(t, []string{"http://localhost/1", "http://localhost/0", "http://localhost/1"}, hrefs)

	// pushing after going back drops the forward entries
	b.PushState("/new")
	entries, idx := b.Entries()
	assert.Equal(t, []string{"http://localhost/0", "http://localhost/1", "http://localhost/new"}, entries)
	assert.Equal(t, 2, idx)

	remove()
	pop, _ := b.ListenerCounts()
	assert.Equal(t, 0, pop)

	b.Back()
	assert.Equal(t, 1, b.Settle())
	assert.Len(t, got, 3)
}

func TestMemoryBrowserScroll(t *testing.T) {

	b := NewMemoryBrowser("http://localhost/")

	calls := 0
	remove := b.AddScrollListener(func() { calls++ })

	b.ScrollTo(0, 120)
	assert.Equal(t, 120, b.PageYOffset())
	b.ScrollTo(0, -3)
	assert.Equal(t, 0, b.PageYOffset())
	assert.Equal(t, 2, calls)
	assert.Equal(t, 2, b.Calls("scrollTo"))

	remove()
	b.ScrollTo(0, 5)
	assert.Equal(t, 2, calls)

	assert.Equal(t, "auto", b.ScrollRestoration())
	b.SetManualScrollRestoration()
	assert.Equal(t, "manual", b.ScrollRestoration())
}

func TestMemoryBrowserSessionStorage(t *testing.T) {

	b := NewMemoryBrowser("http://localhost/")
	require.NotNil(t, b.SessionStorage())

	b.SetSessionStorage(nil)
	assert.Nil(t, b.SessionStorage())

	s := NewMemoryStorage()
	b.SetSessionStorage(s)
	assert.Same(t, s, b.SessionStorage())
}

func TestMemoryBrowserSetLocation(t *testing.T) {

	b := NewMemoryBrowser("http://localhost/")
	b.SetLocation("http://localhost/reloaded?q=1")

	entries, idx := b.Entries()
	assert.Equal(t, []string{"http://localhost/reloaded?q=1"}, entries)
	assert.Equal(t, 0, idx)
	assert.Equal(t, "?q=1", b.Location().Search)
	assert.Equal(t, 0, b.Calls("replaceState"))
}
