package adapters

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/xeipuuv/gojsonschema"

	"rnlink/internal/ports"
	"rnlink/internal/types"
)

const manifestFileName = "package.json"

type ManifestFileAdapter struct{}

func NewManifestFileAdapter() ManifestFileAdapter {
	return ManifestFileAdapter{}
}

type rawManifest struct {
	Name             string            `json:"name"`
	Version          string            `json:"version"`
	Dependencies     map[string]string `json:"dependencies"`
	DevDependencies  map[string]string `json:"devDependencies"`
	PeerDependencies map[string]string `json:"peerDependencies"`
	ReactNative      json.RawMessage   `json:"react-native"`
	Rnpm             json.RawMessage   `json:"rnpm"`
}

type reactNativeBlock struct {
	Dependency struct {
		Platforms map[string]json.RawMessage `json:"platforms"`
		Assets    []string                   `json:"assets"`
		Hooks     map[string]string          `json:"hooks"`
		Params    []types.Param              `json:"params"`
	} `json:"dependency"`
	Platforms    map[string]json.RawMessage          `json:"platforms"`
	Project      map[string]json.RawMessage          `json:"project"`
	Dependencies map[string]types.DependencyOverride `json:"dependencies"`
	Assets       []string                            `json:"assets"`
	Ignore       []string                            `json:"ignore"`
}

// rnpmBlock is the legacy configuration key. It serves both as the
// package's own description and as the project's overrides.
type rnpmBlock struct {
	Android  json.RawMessage   `json:"android"`
	IOS      json.RawMessage   `json:"ios"`
	Assets   []string          `json:"assets"`
	Commands map[string]string `json:"commands"`
	Params   []types.Param     `json:"params"`
	Platform string            `json:"platform"`
}

var (
	stringArraySchema = map[string]any{
		"type":  "array",
		"items": map[string]any{"type": "string"},
	}
	hooksSchema = map[string]any{
		"type":                 "object",
		"additionalProperties": map[string]any{"type": "string"},
	}
	paramsSchema = map[string]any{
		"type": "array",
		"items": map[string]any{
			"type":     "object",
			"required": []string{"name"},
			"properties": map[string]any{
				"name":    map[string]any{"type": "string", "minLength": 1},
				"type":    map[string]any{"enum": []string{"input", "password", "confirm", "list"}},
				"message": map[string]any{"type": "string"},
				"choices": stringArraySchema,
			},
		},
	}
	platformMapSchema = map[string]any{
		"type":                 "object",
		"additionalProperties": map[string]any{"type": []string{"object", "null"}},
	}
	reactNativeSchema = map[string]any{
		"type": "object",
		"properties": map[string]any{
			"dependency": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"platforms": platformMapSchema,
					"assets":    stringArraySchema,
					"hooks":     hooksSchema,
					"params":    paramsSchema,
				},
			},
			"platforms": map[string]any{"type": "object"},
			"project":   platformMapSchema,
			"dependencies": map[string]any{
				"type": "object",
				"additionalProperties": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"root":      map[string]any{"type": "string"},
						"platforms": platformMapSchema,
						"assets":    stringArraySchema,
						"hooks":     hooksSchema,
						"params":    paramsSchema,
					},
				},
			},
			"assets": stringArraySchema,
			"ignore": stringArraySchema,
		},
	}
	rnpmSchema = map[string]any{
		"type": "object",
		"properties": map[string]any{
			"android":  map[string]any{"type": []string{"object", "null"}},
			"ios":      map[string]any{"type": []string{"object", "null"}},
			"assets":   stringArraySchema,
			"commands": hooksSchema,
			"params":   paramsSchema,
			"platform": map[string]any{"type": "string"},
		},
	}
)

func (a ManifestFileAdapter) ReadManifest(dir string) (types.Manifest, error) {
	path := filepath.Join(dir, manifestFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		code := errbuilder.CodeInternal
		if os.IsNotExist(err) {
			code = errbuilder.CodeNotFound
		}
		return types.Manifest{}, errbuilder.New().
			WithCode(code).
			WithMsg("failed to read " + path).
			WithCause(err)
	}
	var raw rawManifest
	if err := json.Unmarshal(data, &raw); err != nil {
		return types.Manifest{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse " + path).
			WithCause(err)
	}
	manifest := types.Manifest{
		Name:             raw.Name,
		Version:          raw.Version,
		Dependencies:     orEmpty(raw.Dependencies),
		DevDependencies:  orEmpty(raw.DevDependencies),
		PeerDependencies: orEmpty(raw.PeerDependencies),
	}

	var rn reactNativeBlock
	if err := decodeBlock(raw.ReactNative, reactNativeSchema, &rn); err != nil {
		return types.Manifest{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("invalid react-native configuration in " + path).
			WithCause(err)
	}
	var legacy rnpmBlock
	if err := decodeBlock(raw.Rnpm, rnpmSchema, &legacy); err != nil {
		return types.Manifest{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("invalid rnpm configuration in " + path).
			WithCause(err)
	}
	manifest.Native = nativeConfig(rn, legacy)
	manifest.User = userConfig(rn, legacy)
	return manifest, nil
}

// decodeBlock validates a configuration block against schema and decodes
// it into out. An absent block leaves out untouched.
func decodeBlock(raw json.RawMessage, schema map[string]any, out any) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	result, err := gojsonschema.Validate(gojsonschema.NewGoLoader(schema), gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return err
	}
	if !result.Valid() {
		messages := []string{}
		for _, desc := range result.Errors() {
			messages = append(messages, desc.String())
		}
		return fmt.Errorf("%s", strings.Join(messages, "; "))
	}
	return json.Unmarshal(raw, out)
}

func nativeConfig(rn reactNativeBlock, legacy rnpmBlock) types.NativeConfig {
	native := types.NativeConfig{
		Platforms:      map[string]json.RawMessage{},
		Assets:         rn.Dependency.Assets,
		Hooks:          map[string]string{},
		Params:         rn.Dependency.Params,
		LegacyPlatform: legacy.Platform,
	}
	for name, block := range legacyPlatforms(legacy) {
		native.Platforms[name] = block
	}
	for name, block := range rn.Dependency.Platforms {
		native.Platforms[name] = block
	}
	if native.Assets == nil {
		native.Assets = legacy.Assets
	}
	if native.Params == nil {
		native.Params = legacy.Params
	}
	for name, command := range legacy.Commands {
		native.Hooks[name] = command
	}
	for name, command := range rn.Dependency.Hooks {
		native.Hooks[name] = command
	}
	for name := range rn.Platforms {
		native.ProvidesPlatforms = append(native.ProvidesPlatforms, name)
	}
	sort.Strings(native.ProvidesPlatforms)
	return native
}

func userConfig(rn reactNativeBlock, legacy rnpmBlock) types.UserConfig {
	user := types.UserConfig{
		Project:      map[string]json.RawMessage{},
		Dependencies: rn.Dependencies,
		Assets:       rn.Assets,
		Ignore:       rn.Ignore,
	}
	for name, block := range legacyPlatforms(legacy) {
		user.Project[name] = block
	}
	for name, block := range rn.Project {
		user.Project[name] = block
	}
	if user.Dependencies == nil {
		user.Dependencies = map[string]types.DependencyOverride{}
	}
	if user.Assets == nil {
		user.Assets = legacy.Assets
	}
	return user
}

func legacyPlatforms(legacy rnpmBlock) map[string]json.RawMessage {
	out := map[string]json.RawMessage{}
	if len(legacy.Android) > 0 {
		out[string(types.PlatformAndroid)] = legacy.Android
	}
	if len(legacy.IOS) > 0 {
		out[string(types.PlatformIOS)] = legacy.IOS
	}
	return out
}

func orEmpty(values map[string]string) map[string]string {
	if values == nil {
		return map[string]string{}
	}
	return values
}

var _ ports.ManifestPort = ManifestFileAdapter{}
