package types

type AndroidProjectConfig struct {
	SourceDir          string `json:"sourceDir,omitempty" yaml:"sourceDir"`
	IsFlat             bool   `json:"isFlat,omitempty" yaml:"isFlat"`
	Folder             string `json:"folder,omitempty" yaml:"folder"`
	StringsPath        string `json:"stringsPath,omitempty" yaml:"stringsPath"`
	ManifestPath       string `json:"manifestPath,omitempty" yaml:"manifestPath"`
	BuildGradlePath    string `json:"buildGradlePath,omitempty" yaml:"buildGradlePath"`
	SettingsGradlePath string `json:"settingsGradlePath,omitempty" yaml:"settingsGradlePath"`
	AssetsPath         string `json:"assetsPath,omitempty" yaml:"assetsPath"`
	MainFilePath       string `json:"mainFilePath,omitempty" yaml:"mainFilePath"`
	PackageName        string `json:"packageName,omitempty" yaml:"packageName"`
}

func (*AndroidProjectConfig) Platform() PlatformName { return PlatformAndroid }

type AndroidDependencyConfig struct {
	SourceDir         string `json:"sourceDir,omitempty" yaml:"sourceDir"`
	Folder            string `json:"folder,omitempty" yaml:"folder"`
	ManifestPath      string `json:"manifestPath,omitempty" yaml:"manifestPath"`
	PackageName       string `json:"packageName,omitempty" yaml:"packageName"`
	PackageClassName  string `json:"packageClassName,omitempty" yaml:"packageClassName"`
	BuildDir          string `json:"buildDir,omitempty" yaml:"buildDir"`
	PackageImportPath string `json:"packageImportPath,omitempty" yaml:"packageImportPath"`
	PackageInstance   string `json:"packageInstance,omitempty" yaml:"packageInstance"`
}

func (*AndroidDependencyConfig) Platform() PlatformName { return PlatformAndroid }

// IOSConfig describes an Xcode project. The same shape is used for the
// host app and for dependencies.
type IOSConfig struct {
	SourceDir       string   `json:"sourceDir,omitempty" yaml:"sourceDir"`
	Folder          string   `json:"folder,omitempty" yaml:"folder"`
	PbxprojPath     string   `json:"pbxprojPath,omitempty" yaml:"pbxprojPath"`
	ProjectPath     string   `json:"projectPath,omitempty" yaml:"projectPath"`
	ProjectName     string   `json:"projectName,omitempty" yaml:"projectName"`
	LibraryFolder   string   `json:"libraryFolder,omitempty" yaml:"libraryFolder"`
	SharedLibraries []string `json:"sharedLibraries,omitempty" yaml:"sharedLibraries"`
	Plist           []string `json:"plist,omitempty" yaml:"plist"`
}

func (*IOSConfig) Platform() PlatformName { return PlatformIOS }
