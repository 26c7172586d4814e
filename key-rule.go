package vghistory

import (
	"strconv"
	"strings"
)

// KeyRule derives the Key of a MatchObject.  It is either a KeyTemplate or a KeyFunc.
type KeyRule interface {
	isKeyRule()
}

// KeyTemplate is a literal key in which every "{key}" is replaced by the navigation key.
// "index.{key}" gives a key that changes on every navigation.
type KeyTemplate string

// KeyFunc computes a key from the match and the navigation key.
type KeyFunc func(mo MatchObject, navigationKey int64) string

func (KeyTemplate) isKeyRule() {}
func (KeyFunc) isKeyRule()     {}

// Key prefixes keep user supplied keys apart from generated ones.
const (
	userKeyPrefix    = "User/"
	defaultKeyPrefix = "RussianRouter/"
)

// extractKey applies rule to mo.  Without a rule the key is derived from the route name.
func extractKey(rule KeyRule, mo MatchObject, navigationKey int64) string {
	switch r := rule.(type) {
	case KeyFunc:
		if r != nil {
			return userKeyPrefix + r(mo, navigationKey)
		}
	case KeyTemplate:
		if r != "" {
			return strings.ReplaceAll(userKeyPrefix+string(r), "{key}", strconv.FormatInt(navigationKey, 10))
		}
	}
	return defaultKeyPrefix + mo.Name
}
