// Package patch applies and revokes idempotent text insertions anchored by
// regular expressions. Gradle, Java and XML files are edited this way so a
// dependency can be unlinked by removing exactly the text it added.
package patch

import (
	"os"
	"regexp"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

// Descriptor inserts Patch immediately after the first match of Pattern.
type Descriptor struct {
	Pattern *regexp.Regexp
	Patch   string
}

// Literal compiles s as a literal anchor.
func Literal(s string) *regexp.Regexp {
	return regexp.MustCompile(regexp.QuoteMeta(s))
}

// Apply returns content with the patch inserted. Content that already
// contains the patch text is returned unchanged.
func Apply(content string, d Descriptor) (string, error) {
	if d.Patch == "" || strings.Contains(content, d.Patch) {
		return content, nil
	}
	if d.Pattern == nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("patch anchor is required")
	}
	loc := d.Pattern.FindStringIndex(content)
	if loc == nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg("patch anchor not found: " + d.Pattern.String())
	}
	return content[:loc[1]] + d.Patch + content[loc[1]:], nil
}

// Revoke removes the first occurrence of the patch text.
func Revoke(content string, d Descriptor) string {
	if d.Patch == "" {
		return content
	}
	return strings.Replace(content, d.Patch, "", 1)
}

// ApplyFile applies every descriptor to the file at path in order and
// writes the result once. The file is untouched when any anchor is missing.
func ApplyFile(path string, descriptors ...Descriptor) error {
	if allEmpty(descriptors) {
		return nil
	}
	content, err := readFile(path)
	if err != nil {
		return err
	}
	updated := content
	for _, d := range descriptors {
		updated, err = Apply(updated, d)
		if err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeOf(err)).
				WithMsg("failed to patch " + path).
				WithCause(err)
		}
	}
	return writeIfChanged(path, content, updated)
}

// RevokeFile removes every descriptor's patch text from the file at path.
func RevokeFile(path string, descriptors ...Descriptor) error {
	if allEmpty(descriptors) {
		return nil
	}
	content, err := readFile(path)
	if err != nil {
		return err
	}
	updated := content
	for _, d := range descriptors {
		updated = Revoke(updated, d)
	}
	return writeIfChanged(path, content, updated)
}

// Matches reports whether the file at path matches re.
func Matches(path string, re *regexp.Regexp) (bool, error) {
	content, err := readFile(path)
	if err != nil {
		return false, err
	}
	return re.MatchString(content), nil
}

func allEmpty(descriptors []Descriptor) bool {
	for _, d := range descriptors {
		if d.Patch != "" {
			return false
		}
	}
	return true
}

func readFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		code := errbuilder.CodeInternal
		if os.IsNotExist(err) {
			code = errbuilder.CodeNotFound
		}
		return "", errbuilder.New().
			WithCode(code).
			WithMsg("failed to read " + path).
			WithCause(err)
	}
	return string(data), nil
}

func writeIfChanged(path string, before string, after string) error {
	if before == after {
		return nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to stat " + path).
			WithCause(err)
	}
	if err := os.WriteFile(path, []byte(after), info.Mode().Perm()); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write " + path).
			WithCause(err)
	}
	return nil
}
