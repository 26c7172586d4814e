package vghistory

// NavigatorOpt is an option to Navigate.  Only the values declared in this package implement it.
type NavigatorOpt interface {
	isNavigatorOpt()
}

type navFlag uint8

func (navFlag) isNavigatorOpt() {}

var (
	// NavReplace replaces the current history entry (history.replaceState)
	// instead of pushing a new one.
	NavReplace NavigatorOpt = navFlag(1)

	// NavRestoreScroll calls RestoreScroll once the new match set is in place.
	NavRestoreScroll NavigatorOpt = navFlag(2)
)

func hasOpt(opts []NavigatorOpt, want NavigatorOpt) bool {
	for _, o := range opts {
		if o == want {
			return true
		}
	}
	return false
}

// Navigator is the part of a Router that components need in order to move around.
type Navigator interface {
	Navigate(rawURI string, opts ...NavigatorOpt) error
}

var _ Navigator = (*Router)(nil)

// Navigate resolves rawURI against the current location and pushes it,
// or replaces the current entry if NavReplace is passed.  A closed Router
// no longer follows the history, so it refuses with ErrRouterClosed.
func (r *Router) Navigate(rawURI string, opts ...NavigatorOpt) error {
	r.mu.Lock()
	closed := r.closed
	r.mu.Unlock()
	if closed {
		return ErrRouterClosed
	}

	uri := r.ResolveURI(rawURI)
	if hasOpt(opts, NavReplace) {
		r.coord.ReplaceURI(uri)
	} else {
		r.coord.PushURI(uri)
	}
	if hasOpt(opts, NavRestoreScroll) {
		r.RestoreScroll()
	}
	return nil
}

// MustNavigate is like Navigate but panics upon error.
func (r *Router) MustNavigate(rawURI string, opts ...NavigatorOpt) {
	if err := r.Navigate(rawURI, opts...); err != nil {
		panic(err)
	}
}

// NavigatorRef is embedded in a component so InjectNavigator can hand it a Navigator.
type NavigatorRef struct {
	Navigator
}

// NavigatorSet implements NavigatorSetter.
func (ref *NavigatorRef) NavigatorSet(n Navigator) {
	ref.Navigator = n
}

// NavigatorSetter accepts a Navigator.
type NavigatorSetter interface {
	NavigatorSet(Navigator)
}

// InjectNavigator sets n on each target that is a NavigatorSetter
// and returns how many were set.
func InjectNavigator(n Navigator, targets ...interface{}) int {
	count := 0
	for _, t := range targets {
		if s, ok := t.(NavigatorSetter); ok {
			s.NavigatorSet(n)
			count++
		}
	}
	return count
}
