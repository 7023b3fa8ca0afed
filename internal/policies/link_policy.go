package policies

import (
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"rnlink/internal/types"
)

// LinkPolicy decides which discovered packages take part in linking. It is
// built from the project's ignore patterns: an exact name, a name prefix
// ending in "*", or "*" alone. A pattern may be qualified with a platform,
// as in "ios:react-native-foo", to exclude a package on that platform only.
type LinkPolicy struct {
	Patterns     []string
	exactAny     map[string]bool
	exactByOS    map[types.PlatformName]map[string]bool
	prefixAny    []string
	prefixByOS   map[types.PlatformName][]string
	wildcardAny  bool
	wildcardByOS map[types.PlatformName]bool
}

func NewLinkPolicy(patterns []string) (LinkPolicy, error) {
	policy := LinkPolicy{
		exactAny:     map[string]bool{},
		exactByOS:    map[types.PlatformName]map[string]bool{},
		prefixByOS:   map[types.PlatformName][]string{},
		wildcardByOS: map[types.PlatformName]bool{},
	}
	for _, raw := range patterns {
		parsed, ok := parsePattern(raw)
		if !ok {
			return LinkPolicy{}, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("invalid ignore pattern: %q", raw))
		}
		policy.Patterns = append(policy.Patterns, strings.TrimSpace(raw))
		policy.add(parsed)
	}
	return policy, nil
}

// Allows reports whether name is linked at all.
func (p LinkPolicy) Allows(name string) bool {
	if p.wildcardAny || p.exactAny[name] {
		return false
	}
	for _, prefix := range p.prefixAny {
		if strings.HasPrefix(name, prefix) {
			return false
		}
	}
	return true
}

// AllowsOn reports whether name is linked on platform.
func (p LinkPolicy) AllowsOn(platform types.PlatformName, name string) bool {
	if !p.Allows(name) {
		return false
	}
	if p.wildcardByOS[platform] || p.exactByOS[platform][name] {
		return false
	}
	for _, prefix := range p.prefixByOS[platform] {
		if strings.HasPrefix(name, prefix) {
			return false
		}
	}
	return true
}

type parsedPattern struct {
	platform *types.PlatformName
	kind     patternKind
	name     string
}

type patternKind int

const (
	patternExact patternKind = iota
	patternPrefix
	patternWildcard
	patternInvalid
)

func (p *LinkPolicy) add(parsed parsedPattern) {
	if parsed.platform == nil {
		switch parsed.kind {
		case patternExact:
			p.exactAny[parsed.name] = true
		case patternPrefix:
			p.prefixAny = append(p.prefixAny, parsed.name)
		case patternWildcard:
			p.wildcardAny = true
		}
		return
	}
	platform := *parsed.platform
	switch parsed.kind {
	case patternExact:
		if p.exactByOS[platform] == nil {
			p.exactByOS[platform] = map[string]bool{}
		}
		p.exactByOS[platform][parsed.name] = true
	case patternPrefix:
		p.prefixByOS[platform] = append(p.prefixByOS[platform], parsed.name)
	case patternWildcard:
		p.wildcardByOS[platform] = true
	}
}

func parsePattern(pattern string) (parsedPattern, bool) {
	trimmed := strings.TrimSpace(pattern)
	if trimmed == "" {
		return parsedPattern{kind: patternInvalid}, false
	}
	parts := strings.Split(trimmed, ":")
	if len(parts) == 2 {
		platform, ok := parsePlatform(parts[0])
		if !ok {
			return parsedPattern{kind: patternInvalid}, false
		}
		name, kind := parseNamePattern(parts[1])
		if kind == patternInvalid {
			return parsedPattern{kind: patternInvalid}, false
		}
		return parsedPattern{platform: &platform, kind: kind, name: name}, true
	}
	if len(parts) > 2 {
		return parsedPattern{kind: patternInvalid}, false
	}
	name, kind := parseNamePattern(trimmed)
	if kind == patternInvalid {
		return parsedPattern{kind: patternInvalid}, false
	}
	return parsedPattern{kind: kind, name: name}, true
}

func parsePlatform(token string) (types.PlatformName, bool) {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "android":
		return types.PlatformAndroid, true
	case "ios":
		return types.PlatformIOS, true
	default:
		return "", false
	}
}

func parseNamePattern(value string) (string, patternKind) {
	pattern := strings.TrimSpace(value)
	if pattern == "" {
		return "", patternInvalid
	}
	if pattern == "*" {
		return "", patternWildcard
	}
	if strings.HasSuffix(pattern, "*") {
		return strings.TrimSuffix(pattern, "*"), patternPrefix
	}
	return pattern, patternExact
}
