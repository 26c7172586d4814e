package rgen

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTOML = `
[[route]]
name = "index"
uri = "/"
key = "index.{key}"

[[route]]
name = "user"
uri = "/user/{id}"
  [route.params.id]
  regexp = '\d+'

[[route]]
name = "filter"
uri = "/list?sort={sort}"
  [route.params.sort]
  one_of = ["asc", "desc"]
`

const testJSON = `{"route": [
	{"name": "about", "uri": "/about"},
	{"name": "post", "uri": "/post/{slug}", "params": {"slug": {"regexp": "[a-z-]+"}}}
]}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	return p
}

func TestGenerateTOML(t *testing.T) {

	tmpDir := filepath.Join(t.TempDir(), "My-App")
	require.NoError(t, os.MkdirAll(tmpDir, 0755))
	in := writeFile(t, tmpDir, "routes.toml", testTOML)

	outPath, err := New().SetInput(in).Generate()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tmpDir, OutputFileName), outPath)

	b, err := os.ReadFile(outPath)
	require.NoError(t, err)
	src := string(b)

	assert.Contains(t, src, "package myapp\n")
	assert.Contains(t, src, `"github.com/vugu/vghistory/pattern"`)
	assert.Contains(t, src, `Key:  vghistory.KeyTemplate("index.{key}"),`)
	assert.Contains(t, src, `"id": pattern.MustRegexp("\\d+"),`)
	assert.Contains(t, src, `"sort": pattern.OneOf("asc", "desc"),`)
	assert.Contains(t, src, "func MakeRoutes() []vghistory.Route {")

	_, err = parser.ParseFile(token.NewFileSet(), outPath, b, 0)
	assert.NoError(t, err)
}

func TestGenerateJSON(t *testing.T) {

	inDir, outDir := t.TempDir(), t.TempDir()
	in := writeFile(t, inDir, "routes.json", testJSON)

	outPath, err := New().SetInput(in).SetDir(outDir).SetPackageName("web").Generate()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outDir, OutputFileName), outPath)

	b, err := os.ReadFile(outPath)
	require.NoError(t, err)
	src := string(b)

	assert.Contains(t, src, "package web\n")
	assert.Contains(t, src, `Name: "about",`)
	assert.Contains(t, src, `"slug": pattern.MustRegexp("[a-z-]+"),`)
	assert.NotContains(t, src, "KeyTemplate")

	_, err = parser.ParseFile(token.NewFileSet(), outPath, b, 0)
	assert.NoError(t, err)
}

func TestRenderWithoutParams(t *testing.T) {

	src, err := Render("routes", &RouteFile{Routes: []RouteEntry{{Name: "index", URI: "/"}}})
	require.NoError(t, err)
	assert.NotContains(t, string(src), "vghistory/pattern")

	_, err = parser.ParseFile(token.NewFileSet(), OutputFileName, src, 0)
	assert.NoError(t, err)
}

func TestParseRouteFileErrors(t *testing.T) {

	var tlist = []struct {
		name     string
		fileName string
		content  string
	}{
		{"extension", "routes.yaml", "route: []"},
		{"bad-toml", "routes.toml", "[[route]\nname ="},
		{"bad-json", "routes.json", `{"route": [`},
		{"bad-regexp", "routes.toml", "[[route]]\nname = \"a\"\nuri = \"/{x}\"\n[route.params.x]\nregexp = '('\n"},
		{"both-constraints", "routes.toml", "[[route]]\nname = \"a\"\nuri = \"/{x}\"\n[route.params.x]\nregexp = 'a'\none_of = [\"a\"]\n"},
		{"duplicate", "routes.json", `{"route": [{"name": "a", "uri": "/a"}, {"name": "a", "uri": "/b"}]}`},
		{"bad-placeholder", "routes.json", `{"route": [{"name": "a", "uri": "/{x"}]}`},
	}

	for _, ti := range tlist {
		t.Run(ti.name, func(t *testing.T) {
			_, err := ParseRouteFile(ti.fileName, []byte(ti.content))
			assert.Error(t, err)
		})
	}
}

func TestGenerateNoInput(t *testing.T) {
	_, err := New().SetDir(t.TempDir()).Generate()
	assert.Error(t, err)
}

func TestLocalPackage(t *testing.T) {
	assert.Equal(t, "myapp", localPackage("/tmp/My-App"))
	assert.Equal(t, "routes2020", localPackage("/tmp/2020"))
	assert.Equal(t, "routes", localPackage("/tmp/---"))
}
