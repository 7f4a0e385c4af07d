// Package denylist implements the keyword/pattern stage of the policy
// evaluator: a case-insensitive substring deny-list unioned with a fixed set
// of regex detectors for secrets-shaped content.
package denylist

import (
	"os"
	"regexp"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// EnvForbidden is the environment variable holding a comma-separated list of
// additional forbidden substrings. It is read at evaluation time, so changes
// take effect without re-initializing the SDK.
const EnvForbidden = "AGENTOPS_FORBIDDEN"

// Patterns is the raw YAML shape of a denylist file.
type Patterns struct {
	Substrings []string `yaml:"substrings"`
}

// detector pairs a compiled regex with the tag reported in matches.
// Regex hits are tagged "re:<pattern>" so callers can tell detector type
// apart from plain substring hits.
type detector struct {
	tag string
	re  *regexp.Regexp
}

// Denylist holds the configured substrings and compiled detectors.
// Safe for concurrent use; Replace may swap substrings under readers.
type Denylist struct {
	mu         sync.RWMutex
	substrings []string
	detectors  []detector
}

// New creates a Denylist with the default substrings and regex detectors
// plus any configured extras.
func New(extra []string) *Denylist {
	d := &Denylist{
		substrings: append(append([]string(nil), defaultSubstrings...), extra...),
	}
	for _, pattern := range defaultRegexes {
		if re, err := regexp.Compile("(?i)" + pattern); err == nil {
			d.detectors = append(d.detectors, detector{tag: "re:" + pattern, re: re})
		}
	}
	return d
}

// NewDefault creates a Denylist with only the built-in patterns.
func NewDefault() *Denylist {
	return New(nil)
}

// Load reads extra substrings from a YAML file. An empty path or a missing
// file yields the defaults; a present-but-malformed file is an error.
func Load(path string) (*Denylist, error) {
	if path == "" {
		return NewDefault(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewDefault(), nil
		}
		return nil, err
	}
	var p Patterns
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return New(p.Substrings), nil
}

// Matches returns every indicator that fires on text: configured substrings,
// environment-supplied substrings, per-call extras, then regex detector tags.
// Substring comparison is case-insensitive.
func (d *Denylist) Matches(text string, extra []string) []string {
	lowered := strings.ToLower(text)

	d.mu.RLock()
	substrings := append([]string(nil), d.substrings...)
	detectors := d.detectors
	d.mu.RUnlock()

	substrings = append(substrings, envSubstrings()...)
	for _, s := range extra {
		if s = strings.TrimSpace(s); s != "" {
			substrings = append(substrings, s)
		}
	}

	var found []string
	for _, s := range substrings {
		if strings.Contains(lowered, strings.ToLower(s)) {
			found = append(found, s)
		}
	}
	for _, det := range detectors {
		if det.re.MatchString(text) {
			found = append(found, det.tag)
		}
	}
	return found
}

// Add appends a substring pattern at runtime.
func (d *Denylist) Add(pattern string) {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return
	}
	d.mu.Lock()
	d.substrings = append(d.substrings, pattern)
	d.mu.Unlock()
}

// Replace swaps the substring set for the defaults plus the given extras.
// Used by the file reloader.
func (d *Denylist) Replace(extra []string) {
	next := append(append([]string(nil), defaultSubstrings...), extra...)
	d.mu.Lock()
	d.substrings = next
	d.mu.Unlock()
}

// Substrings returns a copy of the current substring set.
func (d *Denylist) Substrings() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]string(nil), d.substrings...)
}

func envSubstrings() []string {
	raw := os.Getenv(EnvForbidden)
	if raw == "" {
		return nil
	}
	var out []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
