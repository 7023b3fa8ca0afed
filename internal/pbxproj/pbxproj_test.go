package pbxproj

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readFixture(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", "app.pbxproj"))
	require.NoError(t, err)
	return data
}

func TestParseWriteRoundTrip(t *testing.T) {
	data := readFixture(t)

	project, err := Parse(data)
	require.NoError(t, err)

	if diff := cmp.Diff(string(data), string(project.Bytes())); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestParseKeepsComments(t *testing.T) {
	project, err := Parse(readFixture(t))
	require.NoError(t, err)

	assert.Equal(t, "Project object", project.Comment("83CBB9F71A601CBA00E9B192"))
	target, ok := project.Object("13B07F961A680F5B00A75B9A")
	require.True(t, ok)
	ref, ok := target.Get("productReference")
	require.True(t, ok)
	assert.Equal(t, Ref("13B07F9C1A680F5B00A75B9A", "App.app"), ref)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "unterminated dict", input: "{ objects = {"},
		{name: "missing objects", input: "{ archiveVersion = 1; }"},
		{name: "not a dict", input: "( a, b )"},
		{name: "unterminated string", input: `{ a = "b; }`},
		{name: "missing semicolon", input: "{ objects = { } }"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			require.Error(t, err)
		})
	}
}

func TestAddAndRemoveObject(t *testing.T) {
	data := readFixture(t)
	project, err := Parse(data)
	require.NoError(t, err)

	id := NewID()
	assert.Len(t, id, 24)
	obj := NewObject("PBXFileReference")
	obj.SetString("lastKnownFileType", "wrapper.pb-project")
	obj.SetString("path", "../node_modules/foo/ios/Foo.xcodeproj")
	obj.SetString("sourceTree", "<group>")
	project.AddObject(id, "Foo.xcodeproj", obj)

	out := string(project.Bytes())
	assert.Contains(t, out, id+` /* Foo.xcodeproj */ = {isa = PBXFileReference; lastKnownFileType = "wrapper.pb-project"; path = ../node_modules/foo/ios/Foo.xcodeproj; sourceTree = "<group>"; };`)

	project.RemoveObject(id)
	assert.Equal(t, string(data), string(project.Bytes()))
}

func TestFindAndIDs(t *testing.T) {
	project, err := Parse(readFixture(t))
	require.NoError(t, err)

	targets := project.IDs("PBXNativeTarget")
	assert.Equal(t, []string{"00E356ED1AD99517003FC87E", "13B07F961A680F5B00A75B9A", "2D02E47A1E0B4A5D006451C7"}, targets)

	id, _, ok := project.Find("PBXGroup", func(group *Dict) bool {
		name, _ := group.Scalar("name")
		return name == "Libraries"
	})
	require.True(t, ok)
	assert.Equal(t, "832341AE1AAA6A7D00B99B32", id)

	rootObject, ok := project.RootObject()
	require.True(t, ok)
	assert.Equal(t, []string{"13B07F961A680F5B00A75B9A", "00E356ED1AD99517003FC87E", "2D02E47A1E0B4A5D006451C7"}, RefIDs(rootObject, "targets"))
}

func TestDictOrderAndDelete(t *testing.T) {
	d := NewDict()
	d.SetString("b", "1")
	d.SetString("a", "2")
	d.SetString("b", "3")
	assert.Equal(t, []string{"b", "a"}, d.Keys())

	value, ok := d.Scalar("b")
	require.True(t, ok)
	assert.Equal(t, "3", value)

	d.Delete("b")
	assert.Equal(t, []string{"a"}, d.Keys())
	d.Delete("missing")
	assert.Equal(t, 1, d.Len())
}

func TestStrQuoting(t *testing.T) {
	assert.False(t, Str("App/Info.plist").Quoted)
	assert.True(t, Str("$(inherited)").Quoted)
	assert.True(t, Str("").Quoted)
	assert.True(t, Str("libRNFoo-tvOS.a").Quoted)
}

func TestArrayRemoveFunc(t *testing.T) {
	arr := NewArray(Str("a"), Str("b"), Str("a"))
	removed := arr.RemoveFunc(func(v Value) bool {
		return v.(String).Text == "a"
	})
	assert.Equal(t, 2, removed)
	assert.Equal(t, []string{"b"}, arr.Strings())
}

func TestNameID(t *testing.T) {
	id := NameID("group:Libraries")
	assert.Len(t, id, 24)
	assert.Equal(t, id, NameID("group:Libraries"))
	assert.NotEqual(t, id, NameID("group:Frameworks"))
	assert.Equal(t, strings.ToUpper(id), id)
}
