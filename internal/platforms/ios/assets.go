package ios

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"howett.net/plist"

	"rnlink/internal/pbxproj"
	"rnlink/internal/shared"
	"rnlink/internal/types"
)

const appFontsKey = "UIAppFonts"

// CopyAssets adds fonts to the Resources group and the first target's
// resources phase, and lists them in the target's Info.plist.
func (*Platform) CopyAssets(files []string, project types.ProjectConfig) error {
	cfg, err := config(project)
	if err != nil {
		return err
	}
	fonts := shared.FilterFonts(files)
	if len(fonts) == 0 {
		return nil
	}
	p, err := pbxproj.Open(cfg.PbxprojPath)
	if err != nil {
		return err
	}
	group := ensureGroup(p, "Resources")
	hostTargets := targets(p)
	var resources *pbxproj.Array
	if len(hostTargets) > 0 {
		resources, _ = buildPhase(p, hostTargets[0], "PBXResourcesBuildPhase")
	}
	for _, font := range fonts {
		rel, err := shared.RelSlash(cfg.SourceDir, font)
		if err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("failed to compute asset path").
				WithCause(err)
		}
		if _, ok := findFileReference(p, pathMatcher(rel)); ok {
			continue
		}
		name := filepath.Base(font)
		fileRef := pbxproj.NewObject("PBXFileReference")
		fileRef.SetString("lastKnownFileType", "file")
		fileRef.SetString("name", name)
		fileRef.SetString("path", rel)
		fileRef.SetString("sourceTree", "<group>")
		fileRefID := pbxproj.NewID()
		p.AddObject(fileRefID, name, fileRef)
		addChild(group, fileRefID, name)
		if resources != nil {
			addBuildFile(p, resources, fileRefID, name, "Resources")
		}
	}
	if err := p.WriteFile(cfg.PbxprojPath); err != nil {
		return err
	}
	return updateAppFonts(infoPlistPath(p, cfg), fonts, true)
}

// RemoveAssets reverses CopyAssets.
func (*Platform) RemoveAssets(files []string, project types.ProjectConfig) error {
	cfg, err := config(project)
	if err != nil {
		return err
	}
	fonts := shared.FilterFonts(files)
	if len(fonts) == 0 {
		return nil
	}
	p, err := pbxproj.Open(cfg.PbxprojPath)
	if err != nil {
		return err
	}
	for _, font := range fonts {
		rel, err := shared.RelSlash(cfg.SourceDir, font)
		if err != nil {
			continue
		}
		if id, ok := findFileReference(p, pathMatcher(rel)); ok {
			removeFileReference(p, id)
		}
	}
	removeCreatedGroup(p, "Resources")
	if err := p.WriteFile(cfg.PbxprojPath); err != nil {
		return err
	}
	return updateAppFonts(infoPlistPath(p, cfg), fonts, false)
}

func pathMatcher(path string) func(*pbxproj.Dict) bool {
	return func(obj *pbxproj.Dict) bool {
		value, _ := obj.Scalar("path")
		return value == path
	}
}

// infoPlistPath returns the Info.plist of the first target, or "" when the
// project does not name one.
func infoPlistPath(p *pbxproj.Project, cfg *types.IOSConfig) string {
	hostTargets := targets(p)
	if len(hostTargets) == 0 {
		return ""
	}
	for _, buildCfg := range buildConfigurations(p, hostTargets[0].obj) {
		settings, ok := buildCfg.Child("buildSettings")
		if !ok {
			continue
		}
		value, ok := settings.Scalar("INFOPLIST_FILE")
		if !ok || value == "" {
			continue
		}
		value = strings.ReplaceAll(value, "$(SRCROOT)", cfg.SourceDir)
		if filepath.IsAbs(value) {
			return value
		}
		return filepath.Join(cfg.SourceDir, filepath.FromSlash(value))
	}
	return ""
}

func updateAppFonts(path string, fonts []string, add bool) error {
	if path == "" || !shared.IsFile(path) {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to read " + path).
			WithCause(err)
	}
	doc := map[string]any{}
	format, err := plist.Unmarshal(data, &doc)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse " + path).
			WithCause(err)
	}
	names := map[string]bool{}
	for _, font := range fonts {
		names[filepath.Base(font)] = true
	}
	current := []any{}
	if existing, ok := doc[appFontsKey].([]any); ok {
		current = existing
	}
	updated := []any{}
	present := map[string]bool{}
	for _, item := range current {
		name, _ := item.(string)
		if !add && names[name] {
			continue
		}
		present[name] = true
		updated = append(updated, item)
	}
	if add {
		for _, font := range fonts {
			name := filepath.Base(font)
			if !present[name] {
				present[name] = true
				updated = append(updated, name)
			}
		}
	}
	if len(updated) == 0 {
		delete(doc, appFontsKey)
	} else {
		doc[appFontsKey] = updated
	}
	out, err := plist.MarshalIndent(doc, format, "\t")
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to encode " + path).
			WithCause(err)
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write " + path).
			WithCause(err)
	}
	return nil
}
