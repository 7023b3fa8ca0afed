package ios

import (
	"path/filepath"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"rnlink/internal/pbxproj"
	"rnlink/internal/shared"
	"rnlink/internal/types"
)

// IsInstalled reports whether the library group already references the
// dependency's Xcode project.
func (*Platform) IsInstalled(project types.ProjectConfig, _ string, dep types.DependencyConfig) (bool, error) {
	cfg, err := config(project)
	if err != nil {
		return false, err
	}
	depCfg, err := config(dep)
	if err != nil {
		return false, err
	}
	p, err := pbxproj.Open(cfg.PbxprojPath)
	if err != nil {
		return false, err
	}
	_, group, ok := findGroup(p, cfg.LibraryFolder)
	if !ok {
		return false, nil
	}
	return hasChildComment(group, depCfg.ProjectName), nil
}

func hasChildComment(group *pbxproj.Dict, comment string) bool {
	children, ok := group.List("children")
	if !ok {
		return false
	}
	for _, item := range children.Items {
		if s, ok := item.(pbxproj.String); ok && s.Comment == comment {
			return true
		}
	}
	return false
}

// Register adds the dependency's Xcode project, its static libraries,
// shared libraries and header search path to the host project.
func (*Platform) Register(_ string, dep types.DependencyConfig, _ []types.ParamValue, project types.ProjectConfig) error {
	cfg, err := config(project)
	if err != nil {
		return err
	}
	depCfg, err := config(dep)
	if err != nil {
		return err
	}
	p, err := pbxproj.Open(cfg.PbxprojPath)
	if err != nil {
		return err
	}
	depProject, err := pbxproj.Open(depCfg.PbxprojPath)
	if err != nil {
		return err
	}
	rel, err := shared.RelSlash(cfg.SourceDir, depCfg.ProjectPath)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to compute project path").
			WithCause(err)
	}

	libraries := ensureGroup(p, cfg.LibraryFolder)
	if !hasChildComment(libraries, depCfg.ProjectName) {
		fileRef := pbxproj.NewObject("PBXFileReference")
		fileRef.SetString("lastKnownFileType", "wrapper.pb-project")
		fileRef.SetString("name", depCfg.ProjectName)
		fileRef.SetString("path", rel)
		fileRef.SetString("sourceTree", "<group>")
		fileRefID := pbxproj.NewID()
		p.AddObject(fileRefID, depCfg.ProjectName, fileRef)
		addChild(libraries, fileRefID, depCfg.ProjectName)
	}

	hostTargets := targets(p)
	for _, product := range targets(depProject) {
		if product.isTest || product.product == "" {
			continue
		}
		for _, t := range hostTargets {
			if t.isTest || t.isTVOS != product.isTVOS {
				continue
			}
			addStaticLibrary(p, product.product, t)
		}
	}

	if len(hostTargets) > 0 {
		for _, name := range depCfg.SharedLibraries {
			addSharedLibrary(p, name, hostTargets[0])
		}
	}

	if headers := headersInFolder(depCfg.Folder); len(headers) > 0 {
		addHeaderSearchPath(p, headerSearchPath(cfg.SourceDir, headers))
	}
	return p.WriteFile(cfg.PbxprojPath)
}

// Unregister removes what Register added. Shared libraries and header
// paths still needed by the project or another dependency are kept, and so
// are libraries and groups the project had before linking.
func (*Platform) Unregister(_ string, dep types.DependencyConfig, project types.ProjectConfig, others []types.DependencyConfig) error {
	cfg, err := config(project)
	if err != nil {
		return err
	}
	depCfg, err := config(dep)
	if err != nil {
		return err
	}
	p, err := pbxproj.Open(cfg.PbxprojPath)
	if err != nil {
		return err
	}
	depProject, err := pbxproj.Open(depCfg.PbxprojPath)
	if err != nil {
		return err
	}

	if _, libraries, ok := findGroup(p, cfg.LibraryFolder); ok {
		if children, ok := libraries.List("children"); ok {
			for _, item := range append([]pbxproj.Value(nil), children.Items...) {
				s, ok := item.(pbxproj.String)
				if !ok || s.Comment != depCfg.ProjectName {
					continue
				}
				removeFileReference(p, s.Text)
			}
		}
	}
	removeCreatedGroup(p, cfg.LibraryFolder)

	for _, product := range targets(depProject) {
		if product.isTest || product.product == "" {
			continue
		}
		removeStaticLibrary(p, product.product)
	}

	required := map[string]bool{}
	for _, name := range cfg.SharedLibraries {
		required[name] = true
	}
	otherHeaders := map[string]bool{}
	for _, other := range others {
		otherCfg, ok := other.(*types.IOSConfig)
		if !ok || otherCfg == nil {
			continue
		}
		for _, name := range otherCfg.SharedLibraries {
			required[name] = true
		}
		if headers := headersInFolder(otherCfg.Folder); len(headers) > 0 {
			otherHeaders[headerSearchPath(cfg.SourceDir, headers)] = true
		}
	}
	for _, name := range depCfg.SharedLibraries {
		if !required[name] {
			removeSharedLibrary(p, name)
		}
	}
	removeCreatedGroup(p, "Frameworks")

	if headers := headersInFolder(depCfg.Folder); len(headers) > 0 {
		path := headerSearchPath(cfg.SourceDir, headers)
		if !otherHeaders[path] {
			removeHeaderSearchPath(p, path)
		}
	}
	return p.WriteFile(cfg.PbxprojPath)
}

func isBuiltProduct(obj *pbxproj.Dict, product string) bool {
	path, _ := obj.Scalar("path")
	tree, _ := obj.Scalar("sourceTree")
	return path == product && tree == "BUILT_PRODUCTS_DIR"
}

func addStaticLibrary(p *pbxproj.Project, product string, t target) {
	files, ok := buildPhase(p, t, "PBXFrameworksBuildPhase")
	if !ok {
		return
	}
	fileRefID, ok := findFileReference(p, func(obj *pbxproj.Dict) bool {
		return isBuiltProduct(obj, product)
	})
	if !ok {
		fileRef := pbxproj.NewObject("PBXFileReference")
		fileRef.SetString("explicitFileType", "archive.ar")
		fileRef.SetString("path", product)
		fileRef.SetString("sourceTree", "BUILT_PRODUCTS_DIR")
		fileRefID = pbxproj.NewID()
		p.AddObject(fileRefID, product, fileRef)
	}
	addBuildFile(p, files, fileRefID, product, "Frameworks")
}

func removeStaticLibrary(p *pbxproj.Project, product string) {
	fileRefID, ok := findFileReference(p, func(obj *pbxproj.Dict) bool {
		return isBuiltProduct(obj, product)
	})
	if !ok {
		return
	}
	removeBuildFiles(p, fileRefID)
	if !isReferenced(p, fileRefID) {
		p.RemoveObject(fileRefID)
	}
}

// sharedLibraryID is the id of a shared library reference added by
// Register. References with any other id belong to the project.
func sharedLibraryID(name string) string {
	return pbxproj.NameID("shared-library:" + name)
}

func isSharedLibrary(obj *pbxproj.Dict, name string) bool {
	value, _ := obj.Scalar("name")
	tree, _ := obj.Scalar("sourceTree")
	return value == name && tree == "SDKROOT"
}

func addSharedLibrary(p *pbxproj.Project, name string, t target) {
	if _, ok := findFileReference(p, func(obj *pbxproj.Dict) bool { return isSharedLibrary(obj, name) }); ok {
		return
	}
	files, ok := buildPhase(p, t, "PBXFrameworksBuildPhase")
	if !ok {
		return
	}
	fileRef := pbxproj.NewObject("PBXFileReference")
	if filepath.Ext(name) == ".framework" {
		fileRef.SetString("lastKnownFileType", "wrapper.framework")
		fileRef.SetString("name", name)
		fileRef.SetString("path", "System/Library/Frameworks/"+name)
	} else {
		fileRef.SetString("lastKnownFileType", "sourcecode.text-based-dylib-definition")
		fileRef.SetString("name", name)
		fileRef.SetString("path", "usr/lib/"+name)
	}
	fileRef.SetString("sourceTree", "SDKROOT")
	fileRefID := sharedLibraryID(name)
	p.AddObject(fileRefID, name, fileRef)
	addChild(ensureGroup(p, "Frameworks"), fileRefID, name)
	addBuildFile(p, files, fileRefID, name, "Frameworks")
}

func removeSharedLibrary(p *pbxproj.Project, name string) {
	fileRefID := sharedLibraryID(name)
	obj, ok := p.Object(fileRefID)
	if !ok || !isSharedLibrary(obj, name) {
		return
	}
	removeFileReference(p, fileRefID)
}
