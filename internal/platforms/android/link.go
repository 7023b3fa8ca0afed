package android

import (
	"os"
	"regexp"
	"slices"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"rnlink/internal/patch"
	"rnlink/internal/types"
)

var (
	moduleConfigPattern = regexp.MustCompile(`moduleConfig="true" name="(\w+)">(.*)</string>`)
	placeholderPattern  = regexp.MustCompile(`\$\{(\w+)\}`)
)

// IsInstalled reports whether build.gradle already compiles the
// dependency's project.
func (*Platform) IsInstalled(project types.ProjectConfig, name string, _ types.DependencyConfig) (bool, error) {
	cfg, err := projectConfig(project)
	if err != nil {
		return false, err
	}
	installed := regexp.MustCompile(`(implementation|api|compile)\w*\s*\(?project\(['"]:` +
		regexp.QuoteMeta(normalizeProjectName(name)) + `['"]\)`)
	ok, err := patch.Matches(cfg.BuildGradlePath, installed)
	if err != nil {
		if errbuilder.CodeOf(err) == errbuilder.CodeNotFound {
			return false, nil
		}
		return false, err
	}
	return ok, nil
}

// Register patches settings.gradle, build.gradle, strings.xml and the main
// application file. Param values are written as string resources.
func (*Platform) Register(name string, dep types.DependencyConfig, params []types.ParamValue, project types.ProjectConfig) error {
	cfg, err := projectConfig(project)
	if err != nil {
		return err
	}
	depCfg, err := dependencyConfig(dep)
	if err != nil {
		return err
	}
	settings, err := settingsPatch(name, depCfg, cfg)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to compute settings.gradle patch").
			WithCause(err)
	}
	escaped := escapeParams(params)
	if err := patch.ApplyFile(cfg.SettingsGradlePath, settings); err != nil {
		return err
	}
	if err := patch.ApplyFile(cfg.BuildGradlePath, buildPatch(name)); err != nil {
		return err
	}
	if err := patch.ApplyFile(cfg.StringsPath, stringsPatch(name, escaped)); err != nil {
		return err
	}
	return patch.ApplyFile(cfg.MainFilePath,
		packagePatch(name, depCfg.PackageInstance, escaped),
		importPatch(depCfg.PackageImportPath),
	)
}

// Unregister revokes every patch Register applied. Param values are read
// back from strings.xml so the revoked text matches byte for byte.
func (*Platform) Unregister(name string, dep types.DependencyConfig, project types.ProjectConfig, _ []types.DependencyConfig) error {
	cfg, err := projectConfig(project)
	if err != nil {
		return err
	}
	depCfg, err := dependencyConfig(dep)
	if err != nil {
		return err
	}
	settings, err := settingsPatch(name, depCfg, cfg)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to compute settings.gradle patch").
			WithCause(err)
	}
	params, err := readModuleParams(cfg.StringsPath, name)
	if err != nil {
		return err
	}
	if missing := unresolvedParams(depCfg.PackageInstance, params); len(missing) > 0 {
		log.Warn().
			Str("package", name).
			Strs("params", missing).
			Str("file", cfg.MainFilePath).
			Msg("params not found in strings.xml, the package instance must be removed from the main application by hand")
	}
	if err := patch.RevokeFile(cfg.SettingsGradlePath, settings); err != nil {
		return err
	}
	if err := patch.RevokeFile(cfg.BuildGradlePath, buildPatch(name)); err != nil {
		return err
	}
	if err := patch.RevokeFile(cfg.StringsPath, stringsPatch(name, params)); err != nil {
		return err
	}
	return patch.RevokeFile(cfg.MainFilePath,
		packagePatch(name, depCfg.PackageInstance, params),
		importPatch(depCfg.PackageImportPath),
	)
}

// readModuleParams returns the params of name stored in the strings file,
// in file order, with values left escaped.
func readModuleParams(stringsPath string, name string) ([]types.ParamValue, error) {
	data, err := os.ReadFile(stringsPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to read " + stringsPath).
			WithCause(err)
	}
	prefix := toCamelCase(name) + "_"
	params := []types.ParamValue{}
	for _, m := range moduleConfigPattern.FindAllStringSubmatch(string(data), -1) {
		if len(m[1]) <= len(prefix) || m[1][:len(prefix)] != prefix {
			continue
		}
		params = append(params, types.ParamValue{Name: m[1][len(prefix):], Value: m[2]})
	}
	return params, nil
}

// unresolvedParams lists the ${param} placeholders of instance that have no
// value in params.
func unresolvedParams(instance string, params []types.ParamValue) []string {
	known := map[string]bool{}
	for _, param := range params {
		known[param.Name] = true
	}
	missing := []string{}
	for _, m := range placeholderPattern.FindAllStringSubmatch(instance, -1) {
		if !known[m[1]] && !slices.Contains(missing, m[1]) {
			missing = append(missing, m[1])
		}
	}
	return missing
}
