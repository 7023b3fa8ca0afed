package pbxproj

import (
	"os"
	"sort"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/uuid"
)

type Project struct {
	Root *Dict
}

// Open parses the project file at path.
func Open(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		code := errbuilder.CodeInternal
		if os.IsNotExist(err) {
			code = errbuilder.CodeNotFound
		}
		return nil, errbuilder.New().
			WithCode(code).
			WithMsg("failed to read project " + path).
			WithCause(err)
	}
	project, err := Parse(data)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse project " + path).
			WithCause(err)
	}
	return project, nil
}

// WriteFile renders the project to path.
func (p *Project) WriteFile(path string) error {
	if err := os.WriteFile(path, p.Bytes(), 0o644); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write project " + path).
			WithCause(err)
	}
	return nil
}

// NewID returns a fresh 24 character object id.
func NewID() string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return id[:24]
}

// idNamespace seeds NameID so its ids never collide with uuid.NewString ones.
var idNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("rnlink/pbxproj"))

// NameID returns a stable 24 character object id for name. Objects created
// with it can be recognized later by recomputing the id.
func NameID(name string) string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewSHA1(idNamespace, []byte(name)).String(), "-", ""))
	return id[:24]
}

// NewObject creates an object dictionary with isa as its first key.
func NewObject(isa string) *Dict {
	obj := NewDict()
	obj.SetString("isa", isa)
	return obj
}

func (p *Project) Objects() *Dict {
	objects, _ := p.Root.Child("objects")
	return objects
}

func (p *Project) Object(id string) (*Dict, bool) {
	return p.Objects().Child(id)
}

// ISA returns the isa of the object with id, or "" when it is unknown.
func (p *Project) ISA(id string) string {
	obj, ok := p.Object(id)
	if !ok {
		return ""
	}
	isa, _ := obj.Scalar("isa")
	return isa
}

// Comment returns the comment Xcode attaches to references of id.
func (p *Project) Comment(id string) string {
	return p.Objects().KeyComment(id)
}

func (p *Project) AddObject(id string, comment string, obj *Dict) {
	p.Objects().Set(id, obj)
	p.Objects().SetKeyComment(id, comment)
}

func (p *Project) RemoveObject(id string) {
	p.Objects().Delete(id)
}

// IDs returns the ids of every object with the given isa, sorted.
func (p *Project) IDs(isa string) []string {
	ids := []string{}
	objects := p.Objects()
	for _, id := range objects.keys {
		obj, ok := objects.values[id].(*Dict)
		if !ok {
			continue
		}
		if value, _ := obj.Scalar("isa"); value == isa {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// Find returns the first object of isa, in id order, accepted by match.
func (p *Project) Find(isa string, match func(*Dict) bool) (string, *Dict, bool) {
	for _, id := range p.IDs(isa) {
		obj, _ := p.Object(id)
		if match(obj) {
			return id, obj, true
		}
	}
	return "", nil, false
}

// RootObject returns the PBXProject object.
func (p *Project) RootObject() (*Dict, bool) {
	id, ok := p.Root.Scalar("rootObject")
	if !ok {
		return nil, false
	}
	return p.Object(id)
}

// RefIDs returns the ids referenced by the array under key of obj.
func RefIDs(obj *Dict, key string) []string {
	arr, ok := obj.List(key)
	if !ok {
		return nil
	}
	return arr.Strings()
}
