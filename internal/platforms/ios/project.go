package ios

import (
	"strings"

	"rnlink/internal/pbxproj"
)

type target struct {
	id      string
	name    string
	product string
	obj     *pbxproj.Dict
	isTVOS  bool
	isTest  bool
}

// targets lists the native targets in the order the project declares them.
func targets(p *pbxproj.Project) []target {
	root, ok := p.RootObject()
	if !ok {
		return nil
	}
	out := []target{}
	for _, id := range pbxproj.RefIDs(root, "targets") {
		obj, ok := p.Object(id)
		if !ok || p.ISA(id) != "PBXNativeTarget" {
			continue
		}
		name, _ := obj.Scalar("name")
		productType, _ := obj.Scalar("productType")
		t := target{id: id, name: name, obj: obj, isTest: isTestTarget(productType)}
		if ref, ok := obj.Get("productReference"); ok {
			if s, ok := ref.(pbxproj.String); ok {
				t.product = s.Comment
				if t.product == "" {
					t.product = fileRefPath(p, s.Text)
				}
			}
		}
		for _, cfg := range buildConfigurations(p, obj) {
			settings, ok := cfg.Child("buildSettings")
			if !ok {
				continue
			}
			if sdk, ok := settings.Scalar("SDKROOT"); ok {
				t.isTVOS = strings.Contains(sdk, "appletv")
			}
			break
		}
		out = append(out, t)
	}
	return out
}

func fileRefPath(p *pbxproj.Project, id string) string {
	obj, ok := p.Object(id)
	if !ok {
		return ""
	}
	path, _ := obj.Scalar("path")
	return path
}

func buildConfigurations(p *pbxproj.Project, owner *pbxproj.Dict) []*pbxproj.Dict {
	listID, ok := owner.Scalar("buildConfigurationList")
	if !ok {
		return nil
	}
	list, ok := p.Object(listID)
	if !ok {
		return nil
	}
	out := []*pbxproj.Dict{}
	for _, id := range pbxproj.RefIDs(list, "buildConfigurations") {
		if cfg, ok := p.Object(id); ok {
			out = append(out, cfg)
		}
	}
	return out
}

func buildPhase(p *pbxproj.Project, t target, isa string) (*pbxproj.Array, bool) {
	for _, id := range pbxproj.RefIDs(t.obj, "buildPhases") {
		if p.ISA(id) != isa {
			continue
		}
		phase, _ := p.Object(id)
		files, ok := phase.List("files")
		if !ok {
			files = pbxproj.NewArray()
			phase.Set("files", files)
		}
		return files, true
	}
	return nil, false
}

func findGroup(p *pbxproj.Project, name string) (string, *pbxproj.Dict, bool) {
	return p.Find("PBXGroup", func(group *pbxproj.Dict) bool {
		if value, ok := group.Scalar("name"); ok {
			return value == name
		}
		value, _ := group.Scalar("path")
		return value == name
	})
}

func groupID(name string) string {
	return pbxproj.NameID("group:" + name)
}

func mainGroup(p *pbxproj.Project) (*pbxproj.Dict, bool) {
	root, ok := p.RootObject()
	if !ok {
		return nil, false
	}
	mainID, ok := root.Scalar("mainGroup")
	if !ok {
		return nil, false
	}
	return p.Object(mainID)
}

// ensureGroup returns the named group, creating it under the main group.
// Created groups get the id groupID(name) so removeCreatedGroup can tell
// them apart from groups the project already had.
func ensureGroup(p *pbxproj.Project, name string) *pbxproj.Dict {
	if _, group, ok := findGroup(p, name); ok {
		return group
	}
	group := pbxproj.NewObject("PBXGroup")
	group.Set("children", pbxproj.NewArray())
	group.SetString("name", name)
	group.SetString("sourceTree", "<group>")
	id := groupID(name)
	p.AddObject(id, name, group)
	if main, ok := mainGroup(p); ok {
		addChild(main, id, name)
	}
	return group
}

// removeCreatedGroup drops the named group once it is empty, but only when
// ensureGroup created it.
func removeCreatedGroup(p *pbxproj.Project, name string) {
	id := groupID(name)
	group, ok := p.Object(id)
	if !ok {
		return
	}
	if children, ok := group.List("children"); ok && len(children.Items) > 0 {
		return
	}
	for _, parentID := range p.IDs("PBXGroup") {
		parent, _ := p.Object(parentID)
		if children, ok := parent.List("children"); ok {
			removeRef(children, id)
		}
	}
	p.RemoveObject(id)
}

func addChild(group *pbxproj.Dict, id string, comment string) {
	children, ok := group.List("children")
	if !ok {
		children = pbxproj.NewArray()
		group.Set("children", children)
	}
	if children.Contains(id) {
		return
	}
	children.Append(pbxproj.Ref(id, comment))
}

func removeRef(arr *pbxproj.Array, id string) {
	arr.RemoveFunc(func(v pbxproj.Value) bool {
		s, ok := v.(pbxproj.String)
		return ok && s.Text == id
	})
}

// addBuildFile creates a build file for fileRefID and appends it to files
// unless one already points at the same file reference.
func addBuildFile(p *pbxproj.Project, files *pbxproj.Array, fileRefID string, name string, phaseName string) {
	for _, id := range files.Strings() {
		if obj, ok := p.Object(id); ok {
			if ref, _ := obj.Scalar("fileRef"); ref == fileRefID {
				return
			}
		}
	}
	comment := name + " in " + phaseName
	buildFile := pbxproj.NewObject("PBXBuildFile")
	buildFile.Set("fileRef", pbxproj.Ref(fileRefID, name))
	id := pbxproj.NewID()
	p.AddObject(id, comment, buildFile)
	files.Append(pbxproj.Ref(id, comment))
}

// removeBuildFiles deletes every build file pointing at fileRefID and its
// entries in build phases.
func removeBuildFiles(p *pbxproj.Project, fileRefID string) {
	for _, id := range p.IDs("PBXBuildFile") {
		obj, _ := p.Object(id)
		if ref, _ := obj.Scalar("fileRef"); ref != fileRefID {
			continue
		}
		for _, isa := range []string{"PBXFrameworksBuildPhase", "PBXResourcesBuildPhase", "PBXSourcesBuildPhase"} {
			for _, phaseID := range p.IDs(isa) {
				phase, _ := p.Object(phaseID)
				if files, ok := phase.List("files"); ok {
					removeRef(files, id)
				}
			}
		}
		p.RemoveObject(id)
	}
}

func isReferenced(p *pbxproj.Project, fileRefID string) bool {
	for _, id := range p.IDs("PBXBuildFile") {
		obj, _ := p.Object(id)
		if ref, _ := obj.Scalar("fileRef"); ref == fileRefID {
			return true
		}
	}
	for _, id := range p.IDs("PBXGroup") {
		group, _ := p.Object(id)
		if children, ok := group.List("children"); ok && children.Contains(fileRefID) {
			return true
		}
	}
	return false
}

// removeFileReference drops a file reference together with its build
// files and group memberships.
func removeFileReference(p *pbxproj.Project, fileRefID string) {
	removeBuildFiles(p, fileRefID)
	for _, id := range p.IDs("PBXGroup") {
		group, _ := p.Object(id)
		if children, ok := group.List("children"); ok {
			removeRef(children, fileRefID)
		}
	}
	p.RemoveObject(fileRefID)
}

func findFileReference(p *pbxproj.Project, match func(*pbxproj.Dict) bool) (string, bool) {
	id, _, ok := p.Find("PBXFileReference", match)
	return id, ok
}
