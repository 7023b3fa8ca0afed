package adapters

import (
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"rnlink/internal/ports"
	"rnlink/internal/shared"
)

// ExecHookAdapter runs lifecycle hooks through the shell with the
// terminal attached.
type ExecHookAdapter struct {
	Stdout io.Writer
	Stderr io.Writer
}

func NewExecHookAdapter() ExecHookAdapter {
	return ExecHookAdapter{Stdout: os.Stdout, Stderr: os.Stderr}
}

func (a ExecHookAdapter) Run(ctx context.Context, dir string, command string) error {
	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Dir = dir
	cmd.Stdin = os.Stdin
	cmd.Stdout = a.Stdout
	cmd.Stderr = a.Stderr
	log.Ctx(ctx).Debug().Str("command", command).Str("dir", dir).Msg("running hook")
	if err := cmd.Run(); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("hook failed: " + command).
			WithCause(err)
	}
	return nil
}

const (
	PackageManagerAuto = "auto"
	PackageManagerNpm  = "npm"
	PackageManagerYarn = "yarn"
)

// ExecInstallerAdapter adds pinned packages with yarn or npm.
type ExecInstallerAdapter struct {
	PackageManager string
}

func NewExecInstallerAdapter(packageManager string) ExecInstallerAdapter {
	if packageManager == "" {
		packageManager = PackageManagerAuto
	}
	return ExecInstallerAdapter{PackageManager: packageManager}
}

func (a ExecInstallerAdapter) Install(ctx context.Context, root string, pins map[string]string) error {
	if len(pins) == 0 {
		return nil
	}
	name, args, err := a.command(root, pins)
	if err != nil {
		return err
	}
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = root
	log.Ctx(ctx).Info().Str("command", name).Strs("args", args).Msg("installing peer dependencies")
	output, err := cmd.CombinedOutput()
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(name + " install failed").
			WithCause(shared.CommandError(output, err))
	}
	return nil
}

func (a ExecInstallerAdapter) command(root string, pins map[string]string) (string, []string, error) {
	specs := make([]string, 0, len(pins))
	for name, version := range pins {
		specs = append(specs, name+"@"+version)
	}
	sort.Strings(specs)
	manager := a.PackageManager
	if manager == PackageManagerAuto {
		manager = PackageManagerNpm
		if shared.IsFile(filepath.Join(root, "yarn.lock")) {
			manager = PackageManagerYarn
		}
	}
	switch manager {
	case PackageManagerYarn:
		return "yarn", append([]string{"add"}, specs...), nil
	case PackageManagerNpm:
		return "npm", append([]string{"install", "--save"}, specs...), nil
	default:
		return "", nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("unsupported package manager: " + manager)
	}
}

var (
	_ ports.HookRunnerPort       = ExecHookAdapter{}
	_ ports.PackageInstallerPort = ExecInstallerAdapter{}
)
