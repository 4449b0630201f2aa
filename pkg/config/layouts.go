package config

import (
	"maps"
	"slices"
)

// DefaultLayout is used when no layout is configured or the name is unknown.
const DefaultLayout = "qwerty"

// Symbols are ordered from easiest to reach to hardest, since the first
// symbols end up in the shortest hints.
var layouts = map[string]string{
	"qwerty":             "asdfqwerzxcvjklmiuopghtybn",
	"qwerty-homerow":     "asdfjklgh",
	"qwerty-left-hand":   "asdfqwerzcxv",
	"qwerty-right-hand":  "jkluiopmyhn",
	"azerty":             "qsdfazerwxcvjklmuiopghtybn",
	"azerty-homerow":     "qsdfjkmgh",
	"azerty-left-hand":   "qsdfazerwxcv",
	"azerty-right-hand":  "jklmuiophyn",
	"qwertz":             "asdfqweryxcvjkluiopmghtzbn",
	"qwertz-homerow":     "asdfghjkl",
	"qwertz-left-hand":   "asdfqweryxcv",
	"qwertz-right-hand":  "jkluiopmhzn",
	"dvorak":             "aoeuqjkxpyhtnsgcrlmwvzfidb",
	"dvorak-homerow":     "aoeuhtnsid",
	"dvorak-left-hand":   "aoeupqjkyix",
	"dvorak-right-hand":  "htnsgcrlmwvz",
	"colemak":            "arstqwfpzxcvneioluymdhgjbk",
	"colemak-homerow":    "arstneiodh",
	"colemak-left-hand":  "arstqwfpzxcv",
	"colemak-right-hand": "neioluymjhk",
}

// LayoutNames returns the known layout names, sorted.
func LayoutNames() []string {
	return slices.Sorted(maps.Keys(layouts))
}

// LayoutSymbols returns the symbols of a named layout.
func LayoutSymbols(name string) (string, bool) {
	s, ok := layouts[name]
	return s, ok
}
