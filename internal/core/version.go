package core

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/ZanzyTHEbar/errbuilder-go"
)

// prereleaseComparator finds the versions in a range that carry a
// prerelease tag, e.g. the "1.0.0-alpha" in "^1.0.0-alpha".
var prereleaseComparator = regexp.MustCompile(`v?(\d+)\.(\d+)\.(\d+)-[0-9A-Za-z.-]+`)

// preparedRange is a parsed range plus the major.minor.patch tuples on
// which it admits prereleases.
type preparedRange struct {
	raw        string
	constraint *semver.Constraints
	prerelease map[string]bool
}

// versionCache memoizes parsed versions and ranges across the candidates
// of one resolution.
type versionCache struct {
	versions map[string]*semver.Version
	ranges   map[string]preparedRange
}

func newVersionCache() *versionCache {
	return &versionCache{
		versions: map[string]*semver.Version{},
		ranges:   map[string]preparedRange{},
	}
}

func (c *versionCache) version(value string) (*semver.Version, error) {
	if parsed, ok := c.versions[value]; ok {
		return parsed, nil
	}
	parsed, err := semver.NewVersion(value)
	if err != nil {
		return nil, err
	}
	c.versions[value] = parsed
	return parsed, nil
}

func (c *versionCache) rangeOf(value string) (preparedRange, error) {
	if parsed, ok := c.ranges[value]; ok {
		return parsed, nil
	}
	normalized := normalizeRange(value)
	constraint, err := semver.NewConstraint(normalized)
	if err != nil {
		return preparedRange{}, err
	}
	parsed := preparedRange{raw: value, constraint: constraint, prerelease: map[string]bool{}}
	for _, match := range prereleaseComparator.FindAllStringSubmatch(normalized, -1) {
		parsed.prerelease[match[1]+"."+match[2]+"."+match[3]] = true
	}
	c.ranges[value] = parsed
	return parsed, nil
}

// compare orders two versions by semver precedence. Unparseable versions
// compare equal.
func (c *versionCache) compare(a string, b string) int {
	v1, err := c.version(a)
	if err != nil {
		return 0
	}
	v2, err := c.version(b)
	if err != nil {
		return 0
	}
	return v1.Compare(v2)
}

// normalizeRange maps the npm spellings of "any version" onto "*".
func normalizeRange(value string) string {
	trimmed := strings.TrimSpace(value)
	switch trimmed {
	case "", "x", "X", "latest":
		return "*"
	}
	return trimmed
}

// satisfies reports whether version is inside r. A prerelease only
// satisfies a range that names a prerelease of the same major.minor.patch.
func (r preparedRange) satisfies(version *semver.Version) bool {
	if !r.constraint.Check(version) {
		return false
	}
	if version.Prerelease() == "" {
		return true
	}
	return r.prerelease[fmt.Sprintf("%d.%d.%d", version.Major(), version.Minor(), version.Patch())]
}

// bestCompatibleVersion selects the highest version in available that
// satisfies every range.
func bestCompatibleVersion(name string, ranges []string, available []string) (string, error) {
	if len(available) == 0 {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("no published versions for %s", name))
	}
	cache := newVersionCache()
	prepared := make([]preparedRange, 0, len(ranges))
	for _, value := range ranges {
		parsed, err := cache.rangeOf(value)
		if err != nil {
			return "", errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("invalid version range %q for %s", value, name)).
				WithCause(err)
		}
		prepared = append(prepared, parsed)
	}
	var candidates []string
	for _, value := range available {
		version, err := cache.version(value)
		if err != nil {
			continue
		}
		if satisfiesAll(version, prepared) {
			candidates = append(candidates, value)
		}
	}
	if len(candidates) == 0 {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("no version of %s satisfies %s", name, strings.Join(ranges, ", ")))
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return cache.compare(candidates[i], candidates[j]) > 0
	})
	return candidates[0], nil
}

func satisfiesAll(version *semver.Version, ranges []preparedRange) bool {
	for _, r := range ranges {
		if !r.satisfies(version) {
			return false
		}
	}
	return true
}

// BestVersion returns the highest of available that satisfies every one
// of ranges. It reports false when no version does or a range is invalid.
func BestVersion(ranges []string, available []string) (string, bool) {
	version, err := bestCompatibleVersion("", ranges, available)
	if err != nil {
		return "", false
	}
	return version, true
}
