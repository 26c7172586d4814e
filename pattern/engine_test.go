package pattern

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDecls = []Declaration{
	{Name: "index", URI: "/"},
	{Name: "user", URI: "/user/{id}", Params: Params{"id": MustRegexp(`\d+`)}},
	{Name: "about", URI: "/about"},
	{Name: "hello", URI: "?hello={entity}", Params: Params{"entity": MustRegexp(`\w+`)}},
	{Name: "list", URI: "/list/?filter={filter}", Params: Params{"filter": OneOf("A", "B", "C")}},
}

func TestSplit(t *testing.T) {

	var tlist = []struct {
		in  string
		out URI
	}{
		{"", URI{}},
		{"delete", URI{Path: "delete"}},
		{"user:edit", URI{Path: "user:edit"}},
		{"user:edit?x=1", URI{Path: "user:edit", Query: "x=1"}},
		{"?xyz=777", URI{Query: "xyz=777"}},
		{"#матрёшка", URI{Hash: "матрёшка"}},
		{"?a=1#b", URI{Query: "a=1", Hash: "b"}},
		{"/already/resolved/", URI{Path: "/already/resolved/"}},
		{"https://google.com/", URI{Protocol: "https", Domain: "google.com", Path: "/"}},
		{"//localhost:8080/about", URI{Domain: "localhost", Port: "8080", Path: "/about"}},
		{"http://localhost/user/123?hello=world#top", URI{Protocol: "http", Domain: "localhost", Path: "/user/123", Query: "hello=world", Hash: "top"}},
	}

	for _, ti := range tlist {
		t.Run(ti.in, func(t *testing.T) {
			u := Split(ti.in)
			if !reflect.DeepEqual(ti.out, u) {
				t.Errorf("expected %#v, got %#v", ti.out, u)
			}
			if u.String() != ti.in {
				t.Errorf("expected String() %q, got %q", ti.in, u.String())
			}
		})
	}
}

func TestCompileErrors(t *testing.T) {

	var tlist = []struct {
		name  string
		decls []Declaration
	}{
		{"no-name", []Declaration{{URI: "/"}}},
		{"duplicate", []Declaration{{Name: "a", URI: "/"}, {Name: "a", URI: "/b"}}},
		{"unclosed", []Declaration{{Name: "a", URI: "/user/{id"}}},
		{"empty-placeholder", []Declaration{{Name: "a", URI: "/user/{}"}}},
		{"stray-close", []Declaration{{Name: "a", URI: "/user/id}"}}},
		{"nested", []Declaration{{Name: "a", URI: "/user/{{id}}"}}},
	}

	for _, ti := range tlist {
		t.Run(ti.name, func(t *testing.T) {
			_, err := Compile(ti.decls)
			assert.Error(t, err)
		})
	}

	_, err := Regexp(`(`)
	assert.Error(t, err)
}

func TestMatch(t *testing.T) {

	e := MustCompile(testDecls)

	var tlist = []struct {
		uri    string
		names  []string
		params []map[string]string
	}{
		{"https://google.com/", []string{"index"}, []map[string]string{{}}},
		{"http://localhost/user/123", []string{"user"}, []map[string]string{{"id": "123"}}},
		{"/user/abc", nil, nil},
		{"//localhost:8080/about", []string{"about"}, []map[string]string{{}}},
		{"http://localhost/?hello=world", []string{"index", "hello"}, []map[string]string{{}, {"entity": "world"}}},
		{"/user/123?hello=world", []string{"user", "hello"}, []map[string]string{{"id": "123"}, {"entity": "world"}}},
		{"/?hello=", []string{"index"}, []map[string]string{{}}},
		{"/list/?filter=B", []string{"list"}, []map[string]string{{"filter": "B"}}},
		{"/list/?filter=D", nil, nil},
		{"/nowhere", nil, nil},
	}

	for _, ti := range tlist {
		t.Run(ti.uri, func(t *testing.T) {
			ms := e.Match(ti.uri)
			var names []string
			var params []map[string]string
			for _, m := range ms {
				names = append(names, m.Name)
				params = append(params, m.Params)
			}
			assert.Equal(t, ti.names, names)
			assert.Equal(t, ti.params, params)
		})
	}
}

func TestMatchInheritsParts(t *testing.T) {

	e := MustCompile(testDecls)

	ms := e.Match("http://localhost:3000/user/123?hello=world#tag")
	require.Len(t, ms, 2)

	hello := ms[1]
	assert.Equal(t, "hello", hello.Name)
	assert.Equal(t, "/user/123", hello.Path)
	assert.Equal(t, "http", hello.Protocol)
	assert.Equal(t, "localhost", hello.Domain)
	assert.Equal(t, "3000", hello.Port)
	assert.Equal(t, "tag", hello.Hash)
	assert.Equal(t, map[string]string{"hello": "world"}, hello.Query)

	// each match owns its maps
	hello.Query["hello"] = "changed"
	assert.Equal(t, "world", ms[0].Query["hello"])
}

func TestMatchHostAndPort(t *testing.T) {

	e := MustCompile([]Declaration{
		{Name: "tenant", URI: "https://{tenant}.example.com/"},
		{Name: "admin", URI: "//localhost:{port}/admin", Params: Params{"port": OneOf("8080", "9090")}},
	})

	ms := e.Match("HTTPS://Acme.Example.com/")
	require.Len(t, ms, 1)
	assert.Equal(t, "Acme", ms[0].Params["tenant"])

	ms = e.Match("http://localhost:9090/admin")
	require.Len(t, ms, 1)
	assert.Equal(t, "9090", ms[0].Params["port"])

	assert.Empty(t, e.Match("http://localhost:7070/admin"))
}

func TestGenerate(t *testing.T) {

	e := MustCompile(append(testDecls,
		Declaration{Name: "doc", URI: "/docs/{page}?v=2#{section}"},
		Declaration{Name: "remote", URI: "https://{host}:8443/x"},
	))

	var tlist = []struct {
		name   string
		params map[string]string
		out    string
	}{
		{"index", nil, "/"},
		{"user", map[string]string{"id": "1"}, "/user/1"},
		{"user", map[string]string{"id": "x"}, "/user/"},
		{"user", nil, "/user/"},
		{"hello", map[string]string{"entity": "world"}, "?hello=world"},
		{"hello", map[string]string{"entity": ""}, "?hello="},
		{"hello", nil, "?hello="},
		{"list", map[string]string{"filter": "C"}, "/list/?filter=C"},
		{"list", map[string]string{"filter": "Z"}, "/list/?filter="},
		{"doc", map[string]string{"page": "a b", "section": "intro"}, "/docs/a%20b?v=2#intro"},
		{"remote", map[string]string{"host": "example.org"}, "https://example.org:8443/x"},
	}

	for _, ti := range tlist {
		t.Run(ti.out, func(t *testing.T) {
			out, err := e.Generate(ti.name, ti.params)
			require.NoError(t, err)
			assert.Equal(t, ti.out, out)
		})
	}

	_, err := e.Generate("missing", nil)
	assert.True(t, errors.Is(err, ErrRouteNotFound))
}

func TestGenerateMatchRoundTrip(t *testing.T) {

	e := MustCompile(testDecls)

	out, err := e.Generate("user", map[string]string{"id": "42"})
	require.NoError(t, err)

	ms := e.Match(out)
	require.Len(t, ms, 1)
	assert.Equal(t, "user", ms[0].Name)
	assert.Equal(t, "42", ms[0].Params["id"])
}

func TestGenerateMatchRoundTripQuery(t *testing.T) {

	e := MustCompile([]Declaration{
		{Name: "search", URI: "/s?term={term}"},
		{Name: "sale", URI: "/sale?code={code}", Params: Params{"code": OneOf("50%off", "a+b")}},
	})

	for _, v := range []string{"a+b", "50%25off", "a b", "x&y=z", "матрёшка"} {
		t.Run(v, func(t *testing.T) {
			out, err := e.Generate("search", map[string]string{"term": v})
			require.NoError(t, err)

			ms := e.Match(out)
			require.Len(t, ms, 1)
			assert.Equal(t, v, ms[0].Params["term"])
			assert.Equal(t, ms[0].Query["term"], ms[0].Params["term"])
		})
	}

	// constraints see the decoded value
	for _, v := range []string{"50%off", "a+b"} {
		out, err := e.Generate("sale", map[string]string{"code": v})
		require.NoError(t, err)
		ms := e.Match(out)
		require.Len(t, ms, 1)
		assert.Equal(t, v, ms[0].Params["code"])
	}
	assert.Empty(t, e.Match("/sale?code=50%25off%25"))
}

func TestDefaultPort(t *testing.T) {
	assert.Equal(t, 80, DefaultPort("http"))
	assert.Equal(t, 443, DefaultPort("HTTPS:"))
	assert.Equal(t, 0, DefaultPort("gopher"))

	e := MustCompile(nil)
	assert.Equal(t, 80, e.DefaultPort("ws"))
	for _, name := range PartNames {
		assert.Equal(t, "", e.DefaultPart(name))
	}
}
