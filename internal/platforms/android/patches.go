package android

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"rnlink/internal/patch"
	"rnlink/internal/shared"
	"rnlink/internal/types"
)

var (
	settingsAnchor     = regexp.MustCompile(`\n`)
	dependenciesAnchor = regexp.MustCompile(`(?m)^[^\S\r\n]*dependencies\s*\{[^\S\r\n]*\r?\n`)
	resourcesAnchor    = regexp.MustCompile(`<resources[^>]*>[^\S\r\n]*\r?\n`)
	packageAnchor      = patch.Literal("new MainReactPackage()")
	importAnchor       = patch.Literal("import com.facebook.react.ReactApplication;")
)

// normalizeProjectName turns a package name into a gradle project name.
func normalizeProjectName(name string) string {
	return strings.ReplaceAll(name, "/", "_")
}

// toCamelCase builds the resource prefix for a package's params:
// "react-native-foo" becomes "reactNativeFoo".
func toCamelCase(name string) string {
	var b strings.Builder
	upper := false
	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			upper = b.Len() > 0
			continue
		}
		if upper {
			b.WriteRune(unicode.ToUpper(r))
			upper = false
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func settingsPatch(name string, dep *types.AndroidDependencyConfig, project *types.AndroidProjectConfig) (patch.Descriptor, error) {
	rel, err := shared.RelSlash(filepath.Dir(project.SettingsGradlePath), dep.SourceDir)
	if err != nil {
		return patch.Descriptor{}, err
	}
	gradleName := normalizeProjectName(name)
	return patch.Descriptor{
		Pattern: settingsAnchor,
		Patch: fmt.Sprintf("include ':%s'\nproject(':%s').projectDir = new File(rootProject.projectDir, '%s')\n",
			gradleName, gradleName, rel),
	}, nil
}

func buildPatch(name string) patch.Descriptor {
	return patch.Descriptor{
		Pattern: dependenciesAnchor,
		Patch:   fmt.Sprintf("    implementation project(':%s')\n", normalizeProjectName(name)),
	}
}

// stringsPatch expects values that are already XML escaped.
func stringsPatch(name string, params []types.ParamValue) patch.Descriptor {
	prefix := toCamelCase(name)
	var b strings.Builder
	for _, param := range params {
		fmt.Fprintf(&b, "    <string moduleConfig=\"true\" name=\"%s_%s\">%s</string>\n", prefix, param.Name, param.Value)
	}
	return patch.Descriptor{Pattern: resourcesAnchor, Patch: b.String()}
}

func packagePatch(name string, instance string, params []types.ParamValue) patch.Descriptor {
	prefix := toCamelCase(name)
	for _, param := range params {
		instance = strings.ReplaceAll(instance, "${"+param.Name+"}",
			fmt.Sprintf("getResources().getString(R.string.%s_%s)", prefix, param.Name))
	}
	return patch.Descriptor{
		Pattern: packageAnchor,
		Patch:   ",\n            " + instance,
	}
}

func importPatch(importPath string) patch.Descriptor {
	return patch.Descriptor{Pattern: importAnchor, Patch: "\n" + importPath}
}

func escapeParams(params []types.ParamValue) []types.ParamValue {
	out := make([]types.ParamValue, 0, len(params))
	for _, param := range params {
		var buf bytes.Buffer
		_ = xml.EscapeText(&buf, []byte(param.Value))
		out = append(out, types.ParamValue{Name: param.Name, Value: buf.String()})
	}
	return out
}
