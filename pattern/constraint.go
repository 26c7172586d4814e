package pattern

import (
	"fmt"
	"regexp"
	"strings"
)

// Constraint restricts the values a parameter accepts.  Use Regexp,
// MustRegexp or OneOf to create one.
type Constraint interface {
	expr() string
	allows(v string) bool
}

// Params maps parameter names to their constraints.
type Params map[string]Constraint

type regexpConstraint struct {
	src  string
	full *regexp.Regexp
}

func (c *regexpConstraint) expr() string         { return c.src }
func (c *regexpConstraint) allows(v string) bool { return c.full.MatchString(v) }

// Regexp returns a Constraint requiring the whole value to match expr.
func Regexp(expr string) (Constraint, error) {
	full, err := regexp.Compile(`^(?:` + expr + `)$`)
	if err != nil {
		return nil, fmt.Errorf("invalid param regexp %q: %w", expr, err)
	}
	return &regexpConstraint{src: expr, full: full}, nil
}

// MustRegexp is like Regexp but panics upon error.
func MustRegexp(expr string) Constraint {
	c, err := Regexp(expr)
	if err != nil {
		panic(err)
	}
	return c
}

type oneOfConstraint []string

func (c oneOfConstraint) expr() string {
	quoted := make([]string, len(c))
	for i, v := range c {
		quoted[i] = regexp.QuoteMeta(v)
	}
	return strings.Join(quoted, "|")
}

func (c oneOfConstraint) allows(v string) bool {
	for _, ok := range c {
		if v == ok {
			return true
		}
	}
	return false
}

// OneOf returns a Constraint accepting only the listed values.
func OneOf(values ...string) Constraint {
	return oneOfConstraint(append([]string(nil), values...))
}
