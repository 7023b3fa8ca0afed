package android

import (
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"rnlink/internal/shared"
	"rnlink/internal/types"
)

var (
	manifestPackagePattern = regexp.MustCompile(`package="(.+?)"`)
	gradleNamespacePattern = regexp.MustCompile(`namespace\s*=?\s*["'](.+?)["']`)
	reactPackagePattern    = regexp.MustCompile(`class\s+(\w+[^(\s]*)[\s\w():]*(\s+implements\s+|:)[\s\w():,]*[^{]*ReactPackage`)
)

var skipScanDirs = map[string]bool{
	"build":        true,
	"node_modules": true,
	"examples":     true,
	"Examples":     true,
	"debug":        true,
}

// ProjectConfig returns nil when root has no android project or its
// package name cannot be determined.
func (*Platform) ProjectConfig(root string, raw json.RawMessage) (types.ProjectConfig, error) {
	params, err := decodeParams(raw)
	if err != nil {
		return nil, err
	}
	src := params.SourceDir
	if src == "" {
		src = findAndroidAppFolder(root)
	}
	if src == "" {
		return nil, nil
	}
	sourceDir := filepath.Join(root, src)
	manifestPath := resolveManifest(sourceDir, params.ManifestPath)
	if manifestPath == "" {
		return nil, nil
	}
	packageName := params.PackageName
	if packageName == "" {
		packageName = readPackageName(manifestPath, filepath.Join(sourceDir, "build.gradle"))
	}
	if packageName == "" {
		return nil, nil
	}
	packageFolder := strings.ReplaceAll(packageName, ".", "/")
	return &types.AndroidProjectConfig{
		SourceDir:          sourceDir,
		IsFlat:             !strings.Contains(src, "app"),
		Folder:             root,
		StringsPath:        filepath.Join(sourceDir, orDefault(params.StringsPath, "src/main/res/values/strings.xml")),
		ManifestPath:       manifestPath,
		BuildGradlePath:    filepath.Join(sourceDir, orDefault(params.BuildGradlePath, "build.gradle")),
		SettingsGradlePath: filepath.Join(root, "android", orDefault(params.SettingsGradlePath, "settings.gradle")),
		AssetsPath:         filepath.Join(sourceDir, orDefault(params.AssetsPath, "src/main/assets")),
		MainFilePath:       filepath.Join(sourceDir, orDefault(params.MainFilePath, "src/main/java/"+packageFolder+"/MainApplication.java")),
		PackageName:        packageName,
	}, nil
}

// DependencyConfig returns nil when root ships no android module or no
// class implementing ReactPackage can be found.
func (*Platform) DependencyConfig(root string, raw json.RawMessage) (types.DependencyConfig, error) {
	params, err := decodeParams(raw)
	if err != nil {
		return nil, err
	}
	src := params.SourceDir
	if src == "" {
		src = findAndroidAppFolder(root)
	}
	if src == "" {
		return nil, nil
	}
	sourceDir := filepath.Join(root, src)
	manifestPath := resolveManifest(sourceDir, params.ManifestPath)
	if manifestPath == "" {
		return nil, nil
	}
	packageName := params.PackageName
	if packageName == "" {
		packageName = readPackageName(manifestPath, filepath.Join(sourceDir, "build.gradle"))
	}
	if packageName == "" {
		return nil, nil
	}
	className := findPackageClassName(sourceDir)
	if className == "" {
		return nil, nil
	}
	return &types.AndroidDependencyConfig{
		SourceDir:         sourceDir,
		Folder:            root,
		ManifestPath:      manifestPath,
		PackageName:       packageName,
		PackageClassName:  className,
		PackageImportPath: orDefault(params.PackageImportPath, "import "+packageName+"."+className+";"),
		PackageInstance:   orDefault(params.PackageInstance, "new "+className+"()"),
		BuildDir:          filepath.Join(sourceDir, "build", "generated", "rncli"),
	}, nil
}

// findAndroidAppFolder returns the android source dir relative to root:
// "android/app" for a nested project, "android" for a flat one.
func findAndroidAppFolder(root string) string {
	if !shared.IsDir(filepath.Join(root, "android")) {
		return ""
	}
	if shared.IsDir(filepath.Join(root, "android", "app")) {
		return filepath.Join("android", "app")
	}
	return "android"
}

func resolveManifest(sourceDir string, override string) string {
	if override != "" {
		path := filepath.Join(sourceDir, override)
		if shared.IsFile(path) {
			return path
		}
		return ""
	}
	return findFirst(sourceDir, func(path string) bool {
		return filepath.Base(path) == "AndroidManifest.xml"
	})
}

func readPackageName(manifestPath string, buildGradlePath string) string {
	if data, err := os.ReadFile(manifestPath); err == nil {
		if m := manifestPackagePattern.FindSubmatch(data); m != nil {
			return string(m[1])
		}
	}
	if data, err := os.ReadFile(buildGradlePath); err == nil {
		if m := gradleNamespacePattern.FindSubmatch(data); m != nil {
			return string(m[1])
		}
	}
	return ""
}

// findPackageClassName scans java and kotlin sources for the first class
// implementing ReactPackage.
func findPackageClassName(sourceDir string) string {
	className := ""
	_ = walkSources(sourceDir, func(path string) bool {
		ext := filepath.Ext(path)
		if ext != ".java" && ext != ".kt" {
			return false
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return false
		}
		m := reactPackagePattern.FindSubmatch(data)
		if m == nil {
			return false
		}
		className = string(m[1])
		return true
	})
	return className
}

func findFirst(dir string, match func(string) bool) string {
	found := ""
	_ = walkSources(dir, func(path string) bool {
		if match(path) {
			found = path
			return true
		}
		return false
	})
	return found
}

// walkSources visits regular files under dir in lexical order until visit
// returns true.
func walkSources(dir string, visit func(path string) bool) error {
	return filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if entry.IsDir() {
			if path != dir && skipScanDirs[entry.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if visit(path) {
			return filepath.SkipAll
		}
		return nil
	})
}

func orDefault(value string, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
