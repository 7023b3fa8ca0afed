package ios

import (
	"io/fs"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"rnlink/internal/pbxproj"
)

const headerSearchPaths = "HEADER_SEARCH_PATHS"

var skipHeaderDirs = map[string]bool{
	"node_modules": true,
	"Examples":     true,
	"examples":     true,
	"Pods":         true,
	"Sample":       true,
	"sample":       true,
}

// headersInFolder returns every header file under folder.
func headersInFolder(folder string) []string {
	headers := []string{}
	_ = filepath.WalkDir(folder, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if entry.IsDir() {
			if path != folder && skipHeaderDirs[entry.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) == ".h" {
			headers = append(headers, path)
		}
		return nil
	})
	return headers
}

// headerSearchPath returns the search path covering headers, relative to
// the project's source dir: the single header directory, or the outermost
// directory with a recursive suffix.
func headerSearchPath(sourceDir string, headers []string) string {
	seen := map[string]bool{}
	dirs := []string{}
	for _, header := range headers {
		dir := filepath.Dir(header)
		if seen[dir] {
			continue
		}
		seen[dir] = true
		rel, err := filepath.Rel(sourceDir, dir)
		if err != nil {
			rel = dir
		}
		dirs = append(dirs, filepath.ToSlash(rel))
	}
	sort.Strings(dirs)
	if len(dirs) == 1 {
		return "$(SRCROOT)/" + dirs[0]
	}
	return "$(SRCROOT)/" + outerDirectory(dirs) + "/**"
}

func outerDirectory(dirs []string) string {
	top := dirs[0]
	for _, current := range dirs[1:] {
		currentParts := strings.Split(current, "/")
		topParts := strings.Split(top, "/")
		if len(currentParts) == len(topParts) && currentParts[len(currentParts)-1] != topParts[len(topParts)-1] {
			top = strings.Join(currentParts[:len(currentParts)-1], "/")
			continue
		}
		if len(currentParts) < len(topParts) {
			top = current
		}
	}
	return top
}

// appBuildSettings returns the build settings of every configuration that
// builds a product.
func appBuildSettings(p *pbxproj.Project) []*pbxproj.Dict {
	out := []*pbxproj.Dict{}
	for _, id := range p.IDs("XCBuildConfiguration") {
		cfg, _ := p.Object(id)
		settings, ok := cfg.Child("buildSettings")
		if !ok {
			continue
		}
		if _, ok := settings.Get("PRODUCT_NAME"); ok {
			out = append(out, settings)
		}
	}
	return out
}

const inheritedPath = "$(inherited)"

// addHeaderSearchPath adds path to every app configuration. A missing
// setting becomes ("$(inherited)", path) and later paths are appended. An
// array ending in "$(inherited)" gets path inserted before it, so a setting
// that held only "$(inherited)" is never mistaken for a created one. A
// string setting stays a string with path appended after a space.
func addHeaderSearchPath(p *pbxproj.Project, path string) {
	for _, settings := range appBuildSettings(p) {
		current, ok := settings.Get(headerSearchPaths)
		if !ok {
			settings.Set(headerSearchPaths, pbxproj.NewArray(pbxproj.Str(inheritedPath), pbxproj.Str(path)))
			continue
		}
		switch value := current.(type) {
		case *pbxproj.Array:
			if value.Contains(path) {
				continue
			}
			if items := value.Strings(); len(items) > 0 && items[len(items)-1] == inheritedPath {
				last := len(value.Items) - 1
				value.Items = append(value.Items[:last:last], pbxproj.Str(path), value.Items[last])
				continue
			}
			value.Append(pbxproj.Str(path))
		case pbxproj.String:
			if slices.Contains(strings.Fields(value.Text), path) {
				continue
			}
			settings.Set(headerSearchPaths, pbxproj.Str(value.Text+" "+path))
		}
	}
}

// removeHeaderSearchPath undoes addHeaderSearchPath. The setting is only
// deleted when addHeaderSearchPath created it.
func removeHeaderSearchPath(p *pbxproj.Project, path string) {
	for _, settings := range appBuildSettings(p) {
		current, ok := settings.Get(headerSearchPaths)
		if !ok {
			continue
		}
		switch value := current.(type) {
		case *pbxproj.Array:
			index := slices.Index(value.Strings(), path)
			if index < 0 {
				continue
			}
			value.RemoveFunc(func(v pbxproj.Value) bool {
				s, ok := v.(pbxproj.String)
				return ok && s.Text == path
			})
			remaining := value.Strings()
			if len(remaining) == 1 && remaining[0] == inheritedPath && index > 0 {
				settings.Delete(headerSearchPaths)
			}
		case pbxproj.String:
			text := value.Text
			switch {
			case strings.HasSuffix(text, " "+path):
				text = strings.TrimSuffix(text, " "+path)
			case strings.Contains(text, " "+path+" "):
				text = strings.Replace(text, " "+path+" ", " ", 1)
			default:
				continue
			}
			settings.Set(headerSearchPaths, pbxproj.Str(text))
		}
	}
}
