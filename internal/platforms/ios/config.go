package ios

import (
	"encoding/json"
	"io/fs"
	"path/filepath"
	"regexp"
	"strings"

	"rnlink/internal/shared"
	"rnlink/internal/types"
)

const baseDir = "ios"

var (
	testProjectPattern = regexp.MustCompile(`(?i)test|example|sample`)
	skipProjectDirs    = map[string]bool{
		"Pods":         true,
		"node_modules": true,
		"Carthage":     true,
	}
)

// ProjectConfig locates the host Xcode project under root. It returns nil
// when there is none.
func (*Platform) ProjectConfig(root string, raw json.RawMessage) (types.ProjectConfig, error) {
	cfg, err := resolveConfig(root, raw)
	if err != nil || cfg == nil {
		return nil, err
	}
	return cfg, nil
}

// DependencyConfig resolves a dependency the same way as the host project.
func (*Platform) DependencyConfig(root string, raw json.RawMessage) (types.DependencyConfig, error) {
	cfg, err := resolveConfig(root, raw)
	if err != nil || cfg == nil {
		return nil, err
	}
	return cfg, nil
}

func resolveConfig(root string, raw json.RawMessage) (*types.IOSConfig, error) {
	params, err := decodeParams(raw)
	if err != nil {
		return nil, err
	}
	project := params.Project
	if project == "" {
		project = findProject(root)
	}
	if project == "" {
		return nil, nil
	}
	projectPath := filepath.Join(root, project)
	pbxprojPath := filepath.Join(projectPath, "project.pbxproj")
	if !shared.IsFile(pbxprojPath) {
		return nil, nil
	}
	libraryFolder := params.LibraryFolder
	if libraryFolder == "" {
		libraryFolder = "Libraries"
	}
	return &types.IOSConfig{
		SourceDir:       filepath.Dir(projectPath),
		Folder:          root,
		PbxprojPath:     pbxprojPath,
		ProjectPath:     projectPath,
		ProjectName:     filepath.Base(projectPath),
		LibraryFolder:   libraryFolder,
		SharedLibraries: mapSharedLibraries(params.SharedLibraries),
		Plist:           params.Plist,
	}, nil
}

// findProject returns the path, relative to root, of the Xcode project to
// link against. Projects directly inside ios/ win; test, example and
// sample projects elsewhere are ignored.
func findProject(root string) string {
	candidates := []string{}
	_ = filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil || !entry.IsDir() {
			return nil
		}
		if path != root && skipProjectDirs[entry.Name()] {
			return filepath.SkipDir
		}
		if filepath.Ext(entry.Name()) != ".xcodeproj" {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr == nil {
			candidates = append(candidates, rel)
		}
		return filepath.SkipDir
	})
	fallback := ""
	for _, candidate := range candidates {
		if filepath.Dir(candidate) == baseDir {
			return candidate
		}
		if fallback == "" && !testProjectPattern.MatchString(candidate) {
			fallback = candidate
		}
	}
	return fallback
}

func mapSharedLibraries(libraries []string) []string {
	out := make([]string, 0, len(libraries))
	for _, name := range libraries {
		if filepath.Ext(name) == "" {
			name += ".framework"
		}
		out = append(out, name)
	}
	return out
}

func isTestTarget(productType string) bool {
	return strings.Contains(productType, "unit-test") || strings.Contains(productType, "ui-testing")
}
