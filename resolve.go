package vghistory

import (
	"strings"

	"github.com/vugu/vghistory/pattern"
)

// ResolveURI makes raw absolute relative to loc.  parts must be raw as split by the matcher.
//
// A raw URI that already has a protocol, domain, port or a rooted path is returned unchanged.
// Otherwise a non-empty path is appended to the current path ("delete" at /user/123
// gives /user/123/delete), an empty path keeps the current path and, unless raw has its
// own query, the current query too.  The hash comes only from raw.
func ResolveURI(parts pattern.URI, raw string, loc Location) string {

	if parts.IsRooted() {
		return raw
	}

	var sb strings.Builder
	sb.Grow(len(loc.Pathname) + len(raw) + len(loc.Search) + 1)

	pathEmpty := parts.Path == ""
	if pathEmpty {
		sb.WriteString(loc.Pathname)
	} else {
		sb.WriteString(strings.TrimSuffix(loc.Pathname, "/"))
		sb.WriteByte('/')
		sb.WriteString(parts.Path)
	}

	if parts.Query != "" {
		sb.WriteByte('?')
		sb.WriteString(parts.Query)
	} else if pathEmpty {
		sb.WriteString(loc.Search)
	}

	if parts.Hash != "" {
		sb.WriteByte('#')
		sb.WriteString(parts.Hash)
	}

	return sb.String()
}
