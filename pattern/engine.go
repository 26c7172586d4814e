// Package pattern compiles route declarations into an Engine that matches
// URIs against them and generates URIs from them.
//
// A route URI pattern may contain {name} placeholders in any of its parts:
//
//	https://{sub}.example.com:8080/user/{id}?tab={tab}#{anchor}
//
// Parts left out of a pattern match anything, so a bare query pattern
// like "?hello={entity}" matches on every path.
package pattern

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrRouteNotFound is returned when generating a URI for an undeclared route name.
var ErrRouteNotFound = errors.New("route not found")

// Declaration describes one named route.
type Declaration struct {
	Name   string
	URI    string
	Params Params
}

// Match is the result of matching one declared route against a URI.
type Match struct {
	Name     string
	Protocol string
	Domain   string
	Port     string
	Path     string
	Hash     string
	Params   map[string]string // values of the route's placeholders
	Query    map[string]string // every query parameter of the matched URI
}

type queryParam struct {
	key   string
	value *template
}

type route struct {
	name     string
	protocol *template
	domain   *template
	port     *template
	path     *template
	query    []queryParam
	hash     *template
}

// Engine matches and generates URIs for a fixed list of declarations.
// It is safe for concurrent use.
type Engine struct {
	routes []*route
	byName map[string]*route
}

// Compile parses every declaration.  Declaration order is preserved and
// is the order of Match results.
func Compile(decls []Declaration) (*Engine, error) {
	e := &Engine{byName: make(map[string]*route, len(decls))}
	for _, d := range decls {
		if d.Name == "" {
			return nil, fmt.Errorf("route with uri %q has no name", d.URI)
		}
		if _, ok := e.byName[d.Name]; ok {
			return nil, fmt.Errorf("duplicate route name %q", d.Name)
		}
		r, err := compileRoute(d)
		if err != nil {
			return nil, fmt.Errorf("route %q: %w", d.Name, err)
		}
		e.routes = append(e.routes, r)
		e.byName[d.Name] = r
	}
	return e, nil
}

// MustCompile is like Compile but panics upon error.
func MustCompile(decls []Declaration) *Engine {
	e, err := Compile(decls)
	if err != nil {
		panic(err)
	}
	return e
}

func compileRoute(d Declaration) (*route, error) {

	u := Split(d.URI)
	r := &route{name: d.Name}

	parts := []struct {
		src string
		dst **template
		syn partSyntax
	}{
		{u.Protocol, &r.protocol, hostSyntax},
		{u.Domain, &r.domain, hostSyntax},
		{u.Port, &r.port, portSyntax},
		{u.Path, &r.path, pathSyntax},
		{u.Hash, &r.hash, hashSyntax},
	}
	for _, p := range parts {
		if p.src == "" {
			continue
		}
		t, err := parseTemplate(p.src, d.Params, p.syn)
		if err != nil {
			return nil, err
		}
		*p.dst = t
	}

	if u.Query != "" {
		for _, kv := range strings.Split(u.Query, "&") {
			if kv == "" {
				continue
			}
			k, v := kv, ""
			if i := strings.IndexByte(kv, '='); i >= 0 {
				k, v = kv[:i], kv[i+1:]
			}
			t, err := parseTemplate(v, d.Params, querySyntax)
			if err != nil {
				return nil, err
			}
			r.query = append(r.query, queryParam{key: k, value: t})
		}
	}

	return r, nil
}

// Split is the Engine form of the package level Split.
func (e *Engine) Split(rawURI string) URI { return Split(rawURI) }

// DefaultPort is the Engine form of the package level DefaultPort.
func (e *Engine) DefaultPort(protocol string) int { return DefaultPort(protocol) }

// DefaultPart returns the value used for a part that a matched URI leaves out.
// The engine has no notion of a current location so this is always empty;
// callers that do are expected to supply their own.
func (e *Engine) DefaultPart(name PartName) string { return "" }

// Match returns a Match for every declared route that matches uri, in declaration order.
// A uri that matches nothing returns an empty result.
func (e *Engine) Match(uri string) []Match {

	u := Split(uri)
	if u.Path == "" {
		u.Path = "/"
	}
	query := parseQuery(u.Query)

	var ret []Match

	for _, r := range e.routes {
		params := make(map[string]string)
		if !r.match(u, query, params) {
			continue
		}
		q := make(map[string]string, len(query))
		for k, v := range query {
			q[k] = v
		}
		ret = append(ret, Match{
			Name:     r.name,
			Protocol: u.Protocol,
			Domain:   u.Domain,
			Port:     u.Port,
			Path:     u.Path,
			Hash:     u.Hash,
			Params:   params,
			Query:    q,
		})
	}

	return ret
}

func (r *route) match(u URI, query map[string]string, params map[string]string) bool {
	parts := []struct {
		t *template
		v string
	}{
		{r.protocol, u.Protocol},
		{r.domain, u.Domain},
		{r.port, u.Port},
		{r.path, u.Path},
		{r.hash, u.Hash},
	}
	for _, p := range parts {
		if p.t != nil && !p.t.match(p.v, params) {
			return false
		}
	}
	for _, qp := range r.query {
		v, ok := query[qp.key]
		if !ok || !qp.value.match(v, params) {
			return false
		}
	}
	return true
}

// Generate builds a URI for the named route from params.  Missing values
// and values rejected by their constraint are left empty rather than
// causing an error.  Only an unknown route name is an error.
func (e *Engine) Generate(name string, params map[string]string) (string, error) {

	r, ok := e.byName[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrRouteNotFound, name)
	}

	var u URI
	if r.protocol != nil {
		u.Protocol = r.protocol.merge(params)
	}
	if r.domain != nil {
		u.Domain = r.domain.merge(params)
	}
	if r.port != nil {
		u.Port = r.port.merge(params)
	}
	if r.path != nil {
		u.Path = r.path.merge(params)
	}
	if r.hash != nil {
		u.Hash = r.hash.merge(params)
	}

	ret := u.String()
	if len(r.query) > 0 {
		// "?hello=" is a valid result so this is not left to URI.String
		pairs := make([]string, len(r.query))
		for i, qp := range r.query {
			pairs[i] = qp.key + "=" + qp.value.merge(params)
		}
		q := "?" + strings.Join(pairs, "&")
		if i := strings.IndexByte(ret, '#'); i >= 0 {
			ret = ret[:i] + q + ret[i:]
		} else {
			ret += q
		}
	}

	return ret, nil
}

// parseQuery keeps the first value of each key.  Malformed pairs are skipped.
func parseQuery(q string) map[string]string {
	ret := make(map[string]string)
	if q == "" {
		return ret
	}
	vals, _ := url.ParseQuery(q)
	for k, v := range vals {
		if len(v) > 0 {
			ret[k] = v[0]
		}
	}
	return ret
}
