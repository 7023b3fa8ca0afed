package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripVersion(t *testing.T) {
	assert.Equal(t, "react-native-foo", StripVersion("react-native-foo@1.2.3"))
	assert.Equal(t, "@scope/pkg", StripVersion("@scope/pkg@^2.0.0"))
	assert.Equal(t, "@scope/pkg", StripVersion("@scope/pkg"))
	assert.Equal(t, "plain", StripVersion(" plain "))
}

func TestFilterFonts(t *testing.T) {
	got := FilterFonts([]string{"a/Font.TTF", "b/logo.png", "c/Other.otf"})
	assert.Equal(t, []string{"a/Font.TTF", "c/Other.otf"}, got)
}

func TestRelSlash(t *testing.T) {
	rel, err := RelSlash("/app/android", "/app/node_modules/foo/android")
	assert.NoError(t, err)
	assert.Equal(t, "../node_modules/foo/android", rel)
}
