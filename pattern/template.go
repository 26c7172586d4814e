package pattern

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var errBadPlaceholder = errors.New("malformed placeholder")

// segment is either static text or a parameter name.
type segment struct {
	static string
	param  string
}

// template is one URI part pattern, split by parameter placeholders.
// E.g. "/user/{id}/edit" becomes [{"/user/"} {param:"id"} {"/edit"}].
type template struct {
	segs   []segment
	params Params
	re     *regexp.Regexp
	names  []string // param name per capture group, groups are named p0, p1...
	groups []int
	escape func(string) string
	unesc  func(string) (string, error)
}

// partSyntax describes how a given URI part is matched and escaped.
type partSyntax struct {
	class    string // default regexp class for a parameter value
	fold     bool   // case insensitive
	escape   func(string) string
	unescape func(string) (string, error)
}

func identity(s string) string             { return s }
func identityErr(s string) (string, error) { return s, nil }

var (
	hostSyntax  = partSyntax{class: `[^/?#:]+`, fold: true, escape: identity, unescape: identityErr}
	portSyntax  = partSyntax{class: `\d+`, escape: identity, unescape: identityErr}
	pathSyntax  = partSyntax{class: `[^/?#]+`, escape: url.PathEscape, unescape: url.PathUnescape}
	// query values are decoded by parseQuery before they are matched
	querySyntax = partSyntax{class: `.*`, escape: url.QueryEscape, unescape: identityErr}
	hashSyntax  = partSyntax{class: `.*`, escape: identity, unescape: identityErr}
)

// parseTemplate splits p into static text and {param} placeholders.
func parseTemplate(p string, params Params, syn partSyntax) (*template, error) {

	t := &template{params: params, escape: syn.escape, unesc: syn.unescape}

	inParam := false
	startIdx := 0

	for i := 0; i < len(p); i++ {
		switch p[i] {
		case '{':
			if inParam {
				return nil, fmt.Errorf("%w in %q at %d", errBadPlaceholder, p, i)
			}
			if startIdx < i {
				t.segs = append(t.segs, segment{static: p[startIdx:i]})
			}
			inParam = true
			startIdx = i + 1
		case '}':
			if !inParam || startIdx == i {
				return nil, fmt.Errorf("%w in %q at %d", errBadPlaceholder, p, i)
			}
			t.segs = append(t.segs, segment{param: p[startIdx:i]})
			inParam = false
			startIdx = i + 1
		}
	}
	if inParam {
		return nil, fmt.Errorf("%w in %q: unclosed", errBadPlaceholder, p)
	}
	// append last part if needed
	if startIdx < len(p) {
		t.segs = append(t.segs, segment{static: p[startIdx:]})
	}

	var buf bytes.Buffer
	if syn.fold {
		buf.WriteString("(?i)")
	}
	buf.WriteString("^")
	for _, s := range t.segs {
		if s.param == "" {
			buf.WriteString(regexp.QuoteMeta(s.static))
			continue
		}
		class := syn.class
		if c := params[s.param]; c != nil {
			class = c.expr()
		}
		fmt.Fprintf(&buf, "(?P<p%d>(?:%s))", len(t.names), class)
		t.names = append(t.names, s.param)
	}
	buf.WriteString("$")

	re, err := regexp.Compile(buf.String())
	if err != nil {
		return nil, fmt.Errorf("compiling %q: %w", p, err)
	}
	t.re = re
	for i := range t.names {
		t.groups = append(t.groups, re.SubexpIndex(fmt.Sprintf("p%d", i)))
	}

	return t, nil
}

// match compares v against the template and copies any parameter
// values into out.
func (t *template) match(v string, out map[string]string) bool {
	m := t.re.FindStringSubmatch(v)
	if m == nil {
		return false
	}
	for i, name := range t.names {
		raw := m[t.groups[i]]
		pv, err := t.unesc(raw)
		if err != nil {
			pv = raw
		}
		if c := t.params[name]; c != nil && !c.allows(pv) {
			return false
		}
		out[name] = pv
	}
	return true
}

// merge builds the part from params.  A missing or disallowed value
// is replaced with an empty string.
func (t *template) merge(params map[string]string) string {
	var sb strings.Builder
	for _, s := range t.segs {
		if s.param == "" {
			sb.WriteString(s.static)
			continue
		}
		v, ok := params[s.param]
		if !ok {
			continue
		}
		if c := t.params[s.param]; c != nil && !c.allows(v) {
			continue
		}
		sb.WriteString(t.escape(v))
	}
	return sb.String()
}

// String returns the re-assembled pattern.
func (t *template) String() string {
	var sb strings.Builder
	for _, s := range t.segs {
		if s.param == "" {
			sb.WriteString(s.static)
			continue
		}
		sb.WriteString("{" + s.param + "}")
	}
	return sb.String()
}
