// Package rgen generates Go route declarations for vghistory from a route table file.
//
// A route table is TOML:
//
//	[[route]]
//	name = "user"
//	uri = "/user/{id}"
//	key = "user.{key}"
//	  [route.params.id]
//	  regexp = '\d+'
//
// or the same structure in JSON ({"route": [{"name": ..., "params": {"id": {"regexp": ...}}}]}).
package rgen

import (
	"bytes"
	"errors"
	"fmt"
	"go/format"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/template"

	"github.com/BurntSushi/toml"
	"github.com/sugawarayuuta/sonnet"

	"github.com/vugu/vghistory/pattern"
)

// OutputFileName is the name of the file written by Generate.
const OutputFileName = "0_routes_vgen.go"

// RouteFile is the decoded form of a route table.
type RouteFile struct {
	Routes []RouteEntry `toml:"route" json:"route"`
}

// RouteEntry is one route in a route table.
type RouteEntry struct {
	Name   string               `toml:"name" json:"name"`
	URI    string               `toml:"uri" json:"uri"`
	Key    string               `toml:"key" json:"key"`
	Params map[string]ParamRule `toml:"params" json:"params"`
}

// ParamRule constrains one parameter.  At most one of the fields may be set.
type ParamRule struct {
	Regexp string   `toml:"regexp" json:"regexp"`
	OneOf  []string `toml:"one_of" json:"one_of"`
}

var errBothConstraints = errors.New("regexp and one_of are mutually exclusive")

func (p ParamRule) constraint() (pattern.Constraint, error) {
	switch {
	case p.Regexp != "" && len(p.OneOf) > 0:
		return nil, errBothConstraints
	case p.Regexp != "":
		return pattern.Regexp(p.Regexp)
	case len(p.OneOf) > 0:
		return pattern.OneOf(p.OneOf...), nil
	}
	return nil, nil
}

// goExpr returns the Go expression that builds the constraint.
func (p ParamRule) goExpr() string {
	if p.Regexp != "" {
		return "pattern.MustRegexp(" + strconv.Quote(p.Regexp) + ")"
	}
	quoted := make([]string, len(p.OneOf))
	for i, v := range p.OneOf {
		quoted[i] = strconv.Quote(v)
	}
	return "pattern.OneOf(" + strings.Join(quoted, ", ") + ")"
}

// Validate checks that every route compiles.
func (f *RouteFile) Validate() error {
	decls := make([]pattern.Declaration, 0, len(f.Routes))
	for _, r := range f.Routes {
		d := pattern.Declaration{Name: r.Name, URI: r.URI}
		for name, ps := range r.Params {
			c, err := ps.constraint()
			if err != nil {
				return fmt.Errorf("route %q param %q: %w", r.Name, name, err)
			}
			if c == nil {
				continue
			}
			if d.Params == nil {
				d.Params = make(pattern.Params)
			}
			d.Params[name] = c
		}
		decls = append(decls, d)
	}
	_, err := pattern.Compile(decls)
	return err
}

// ParseRouteFile decodes b as TOML or, if the file name ends in .json, as JSON.
func ParseRouteFile(fileName string, b []byte) (*RouteFile, error) {
	var f RouteFile
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".toml":
		if _, err := toml.Decode(string(b), &f); err != nil {
			return nil, fmt.Errorf("decoding %q: %w", fileName, err)
		}
	case ".json":
		if err := sonnet.Unmarshal(b, &f); err != nil {
			return nil, fmt.Errorf("decoding %q: %w", fileName, err)
		}
	default:
		return nil, fmt.Errorf("unsupported route file type %q (want .toml or .json)", fileName)
	}
	return &f, f.Validate()
}

// New returns a new Generator instance.
func New() *Generator {
	return &Generator{}
}

// Generator writes the route declarations for a route table file.
type Generator struct {
	input       string // route table file
	dir         string // output directory, defaults to the input's directory
	packageName string // package clause of the output, defaults to the output directory name
}

// SetInput assigns the route table file to read.
func (g *Generator) SetInput(input string) *Generator {
	g.input = input
	return g
}

// SetDir assigns the directory to write OutputFileName in.
func (g *Generator) SetDir(dir string) *Generator {
	g.dir = dir
	return g
}

// SetPackageName sets the package name used in the generated file.
func (g *Generator) SetPackageName(packageName string) *Generator {
	g.packageName = packageName
	return g
}

// Generate does the route generation and returns the path of the written file.
func (g *Generator) Generate() (string, error) {

	if g.input == "" {
		return "", errors.New("no route file set")
	}

	b, err := os.ReadFile(g.input)
	if err != nil {
		return "", err
	}
	rf, err := ParseRouteFile(g.input, b)
	if err != nil {
		return "", err
	}

	dir := g.dir
	if dir == "" {
		dir = filepath.Dir(g.input)
	}
	// to keep our sanity we need to guarantee that dir is absolute
	dir, err = filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	packageName := g.packageName
	if packageName == "" {
		packageName = localPackage(dir)
	}

	src, err := Render(packageName, rf)
	if err != nil {
		return "", err
	}

	outPath := filepath.Join(dir, OutputFileName)
	if err := os.WriteFile(outPath, src, 0644); err != nil {
		return "", err
	}

	return outPath, nil
}

// localPackage derives a package name from a directory name.
func localPackage(dir string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		}
		return -1
	}, filepath.Base(dir))
	if name == "" || (name[0] >= '0' && name[0] <= '9') {
		name = "routes" + name
	}
	return name
}

var outTemplate = template.Must(template.New(OutputFileName).Funcs(template.FuncMap{
	"Quote":      strconv.Quote,
	"Constraint": func(p ParamRule) string { return p.goExpr() },
	"HasConstraint": func(p ParamRule) bool {
		return p.Regexp != "" || len(p.OneOf) > 0
	},
}).Parse(`package {{.PackageName}}

// WARNING: This file was generated by vghistory/rgen. Do not modify.

import (
	"github.com/vugu/vghistory"
{{if .UsesParams}}	"github.com/vugu/vghistory/pattern"
{{end}})

// vgRoutes is the generated route list, in declaration order.
var vgRoutes = []vghistory.Route{
{{range .Routes}}	{
		Name: {{Quote .Name}},
		URI: {{Quote .URI}},
{{if .Params}}		Params: pattern.Params{
{{range $k, $v := .Params}}{{if HasConstraint $v}}			{{Quote $k}}: {{Constraint $v}},
{{end}}{{end}}		},
{{end}}{{if .Key}}		Key: vghistory.KeyTemplate({{Quote .Key}}),
{{end}}	},
{{end}}}

// MakeRoutes returns a copy of the generated routes.
func MakeRoutes() []vghistory.Route {
	return append([]vghistory.Route(nil), vgRoutes...)
}
`))

// Render returns the formatted Go source declaring the routes of rf.
func Render(packageName string, rf *RouteFile) ([]byte, error) {

	usesParams := false
	for _, r := range rf.Routes {
		if len(r.Params) > 0 {
			usesParams = true
		}
	}

	var buf bytes.Buffer
	err := outTemplate.Execute(&buf, map[string]interface{}{
		"PackageName": packageName,
		"Routes":      rf.Routes,
		"UsesParams":  usesParams,
	})
	if err != nil {
		return nil, err
	}

	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("formatting generated routes: %w; source:\n%s", err, buf.Bytes())
	}
	return src, nil
}
