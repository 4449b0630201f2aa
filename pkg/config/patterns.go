package config

import (
	"fmt"
	"strings"

	"github.com/bastiangx/hintserve/pkg/engine"
	"github.com/bastiangx/hintserve/pkg/hint"
	"github.com/bastiangx/hintserve/pkg/match"
	"github.com/charmbracelet/log"
)

// AllBuiltin in enabled_builtin turns on every builtin pattern.
const AllBuiltin = "all"

// BuiltinPattern is a named regular expression shipped with hintserve.
type BuiltinPattern struct {
	Name  string
	Regex string
}

// builtins are in priority order: earlier patterns win overlaps.
var builtins = []BuiltinPattern{
	{"url", `((https?://|git@|git://|ssh://|ftp://|file:///)[^\s()\x22']+)`},
	{"git-status", `(modified|deleted|deleted by us|new file): +(?P<match>.+)`},
	{"git-status-branch", `Your branch is up to date with '(?P<match>.*)'\.`},
	{"diff", `(---|\+\+\+) [ab]/(?P<match>.*)`},
	{"uuid", `[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}`},
	{"ip", `\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}`},
	{"kubernetes", `(deployment\.app|binding|componentstatuse|configmap|endpoint|event|` +
		`limitrange|namespace|node|persistentvolumeclaim|persistentvolume|pod|` +
		`podtemplate|replicationcontroller|resourcequota|secret|serviceaccount|` +
		`service|mutatingwebhookconfiguration\.admissionregistration\.k8s\.io|` +
		`validatingwebhookconfiguration\.admissionregistration\.k8s\.io|` +
		`customresourcedefinition\.apiextension\.k8s\.io|` +
		`apiservice\.apiregistration\.k8s\.io|controllerrevision\.apps|` +
		`daemonset\.apps|deployment\.apps|replicaset\.apps|statefulset\.apps|` +
		`tokenreview\.authentication\.k8s\.io|` +
		`localsubjectaccessreview\.authorization\.k8s\.io|` +
		`selfsubjectaccessreviews\.authorization\.k8s\.io|` +
		`selfsubjectrulesreview\.authorization\.k8s\.io|` +
		`subjectaccessreview\.authorization\.k8s\.io|` +
		`horizontalpodautoscaler\.autoscaling|cronjob\.batch|job\.batch|` +
		`certificatesigningrequest\.certificates\.k8s\.io|` +
		`events\.events\.k8s\.io|daemonset\.extensions|deployment\.extensions|` +
		`ingress\.extensions|networkpolicies\.extensions|` +
		`podsecuritypolicies\.extensions|replicaset\.extensions|` +
		`networkpolicie\.networking\.k8s\.io|` +
		`poddisruptionbudget\.policy|` +
		`clusterrolebinding\.rbac\.authorization\.k8s\.io|` +
		`clusterrole\.rbac\.authorization\.k8s\.io|` +
		`rolebinding\.rbac\.authorization\.k8s\.io|` +
		`role\.rbac\.authorization\.k8s\.io|` +
		`storageclasse\.storage\.k8s\.io)` +
		`[a-zA-Z0-9_#$%&+=/@-]+`},
	{"path", `(([.\w\-~\$@]+)?(/[.\w\-@]+)+/?)`},
	{"hex", `(0x[0-9a-fA-F]+)`},
	{"sha", `[0-9a-f]{7,128}`},
	{"digit", `[0-9]{4,}`},
}

// Builtins returns the builtin patterns in priority order.
func Builtins() []BuiltinPattern {
	out := make([]BuiltinPattern, len(builtins))
	copy(out, builtins)
	return out
}

func builtin(name string) (BuiltinPattern, bool) {
	for _, b := range builtins {
		if b.Name == name {
			return b, true
		}
	}
	return BuiltinPattern{}, false
}

// enabledBuiltins resolves enabled_builtin into patterns. Builtins keep
// their own relative order whatever order the names are listed in.
func (c *Config) enabledBuiltins() []BuiltinPattern {
	enabled := make(map[string]bool, len(c.Patterns.EnabledBuiltin))
	for _, name := range c.Patterns.EnabledBuiltin {
		name = strings.TrimSpace(name)
		if name == AllBuiltin {
			return Builtins()
		}
		if _, ok := builtin(name); !ok {
			log.Warnf("Unknown builtin pattern %q, skipping", name)
			continue
		}
		enabled[name] = true
	}

	var out []BuiltinPattern
	for _, b := range builtins {
		if enabled[b.Name] {
			out = append(out, b)
		}
	}
	return out
}

// ResolveAlphabet returns the hint alphabet: the explicit alphabet when set,
// otherwise the keyboard layout, falling back to qwerty for unknown names.
func (c *Config) ResolveAlphabet() (hint.Alphabet, error) {
	if c.Hints.Alphabet != "" {
		return hint.NewAlphabet(c.Hints.Alphabet)
	}
	layout := c.Hints.KeyboardLayout
	if layout == "" {
		layout = DefaultLayout
	}
	symbols, ok := LayoutSymbols(layout)
	if !ok {
		log.Warnf("Unknown keyboard layout %q, using %s", layout, DefaultLayout)
		symbols, _ = LayoutSymbols(DefaultLayout)
	}
	return hint.NewAlphabet(symbols)
}

// Build compiles the configured patterns and alphabet into engine options.
// Errors are *engine.ConfigError.
func (c *Config) Build() (engine.Options, error) {
	alphabet, err := c.ResolveAlphabet()
	if err != nil {
		return engine.Options{}, &engine.ConfigError{Field: "alphabet", Err: err}
	}

	var patterns []match.Pattern
	for _, b := range c.enabledBuiltins() {
		m, err := match.CompileRegexpMatcher(b.Regex, "")
		if err != nil {
			// builtins are covered by tests; this only trips on a bad edit
			return engine.Options{}, &engine.ConfigError{Field: "patterns", Err: fmt.Errorf("builtin %q: %w", b.Name, err)}
		}
		patterns = append(patterns, match.Pattern{Name: b.Name, Matcher: m})
	}

	for i, p := range c.Patterns.Custom {
		name := p.Name
		if name == "" {
			name = fmt.Sprintf("custom-%d", i)
		}
		m, err := match.CompileRegexpMatcher(p.Regex, "")
		if err != nil {
			return engine.Options{}, &engine.ConfigError{Field: "patterns", Err: fmt.Errorf("custom pattern %q: %w", name, err)}
		}
		patterns = append(patterns, match.Pattern{Name: name, Matcher: m})
	}

	log.Debugf("Built %d pattern(s) over a %d symbol alphabet", len(patterns), alphabet.Size())
	return engine.Options{Patterns: patterns, Alphabet: alphabet}, nil
}

// NewEngine builds an engine straight from the config.
func (c *Config) NewEngine(l *log.Logger) (*engine.Engine, error) {
	opts, err := c.Build()
	if err != nil {
		return nil, err
	}
	opts.Logger = l
	return engine.New(opts)
}
