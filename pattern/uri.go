package pattern

import (
	"regexp"
	"strings"
)

// PartName identifies one component of a URI.
type PartName string

// The URI parts, in the order they appear in a URI.
const (
	PartProtocol PartName = "protocol"
	PartDomain   PartName = "domain"
	PartPort     PartName = "port"
	PartPath     PartName = "path"
	PartQuery    PartName = "query"
	PartHash     PartName = "hash"
)

// PartNames lists every PartName in URI order.
var PartNames = []PartName{PartProtocol, PartDomain, PartPort, PartPath, PartQuery, PartHash}

// URI is a raw URI split into its parts.  Query and Hash do not include
// their leading "?" and "#".
type URI struct {
	Protocol string
	Domain   string
	Port     string
	Path     string
	Query    string
	Hash     string
}

// A scheme is only recognized in front of "//", so "user:edit" is a relative path.
var uriRegexp = regexp.MustCompile(`^(?:(?:([a-zA-Z][a-zA-Z0-9+.\-]*):)?//([^/?#:]*)(?::([^/?#]*))?)?([^?#]*)(?:\?([^#]*))?(?:#([\s\S]*))?$`)

// Split breaks raw into its parts.  Every input splits; parts that are
// not present are left empty.
func Split(raw string) URI {
	m := uriRegexp.FindStringSubmatch(raw)
	if m == nil {
		return URI{Path: raw}
	}
	return URI{
		Protocol: m[1],
		Domain:   m[2],
		Port:     m[3],
		Path:     m[4],
		Query:    m[5],
		Hash:     m[6],
	}
}

// Part returns the value of the named part.
func (u URI) Part(name PartName) string {
	switch name {
	case PartProtocol:
		return u.Protocol
	case PartDomain:
		return u.Domain
	case PartPort:
		return u.Port
	case PartPath:
		return u.Path
	case PartQuery:
		return u.Query
	case PartHash:
		return u.Hash
	}
	return ""
}

// IsRooted is true if the URI names a protocol, domain or port or
// if its path starts with a slash.
func (u URI) IsRooted() bool {
	return u.Protocol != "" || u.Domain != "" || u.Port != "" || strings.HasPrefix(u.Path, "/")
}

// String re-assembles the URI.
func (u URI) String() string {
	var sb strings.Builder
	if u.Protocol != "" {
		sb.WriteString(u.Protocol)
		sb.WriteByte(':')
	}
	if u.Domain != "" || u.Port != "" {
		sb.WriteString("//")
		sb.WriteString(u.Domain)
		if u.Port != "" {
			sb.WriteByte(':')
			sb.WriteString(u.Port)
		}
	}
	sb.WriteString(u.Path)
	if u.Query != "" {
		sb.WriteByte('?')
		sb.WriteString(u.Query)
	}
	if u.Hash != "" {
		sb.WriteByte('#')
		sb.WriteString(u.Hash)
	}
	return sb.String()
}

var defaultPorts = map[string]int{
	"http":  80,
	"https": 443,
	"ws":    80,
	"wss":   443,
	"ftp":   21,
}

// DefaultPort returns the conventional port for protocol, or 0 if there is none.
func DefaultPort(protocol string) int {
	return defaultPorts[strings.ToLower(strings.TrimSuffix(protocol, ":"))]
}
