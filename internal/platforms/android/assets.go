package android

import (
	"os"
	"path/filepath"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"rnlink/internal/shared"
	"rnlink/internal/types"
)

// CopyAssets copies font files into <assetsPath>/fonts.
func (*Platform) CopyAssets(files []string, project types.ProjectConfig) error {
	cfg, err := projectConfig(project)
	if err != nil {
		return err
	}
	dest := filepath.Join(cfg.AssetsPath, "fonts")
	for _, file := range shared.FilterFonts(files) {
		if err := shared.CopyFile(file, filepath.Join(dest, filepath.Base(file))); err != nil {
			return err
		}
	}
	return nil
}

// RemoveAssets deletes the copied fonts.
func (*Platform) RemoveAssets(files []string, project types.ProjectConfig) error {
	cfg, err := projectConfig(project)
	if err != nil {
		return err
	}
	dest := filepath.Join(cfg.AssetsPath, "fonts")
	for _, file := range shared.FilterFonts(files) {
		target := filepath.Join(dest, filepath.Base(file))
		if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
			return errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("failed to remove " + target).
				WithCause(err)
		}
	}
	return nil
}
