package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"rnlink/internal/app"
)

type linkOptions struct {
	Platforms []string
	All       bool
}

func newLinkCommand() *cobra.Command {
	opts := linkOptions{}
	cmd := &cobra.Command{
		Use:   "link [package]",
		Short: "Link a native dependency, every dependency, or the project's assets",
		Long: "With a package name, links that package's native code and assets.\n" +
			"With --all, links every dependency. With neither, links the project's own assets.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLink(cmd, args, opts)
		},
	}
	cmd.Flags().StringSliceVar(&opts.Platforms, "platforms", nil, "Platforms to link (android, ios)")
	cmd.Flags().BoolVar(&opts.All, "all", false, "Link every dependency")
	_ = viper.BindPFlag("platforms", cmd.Flags().Lookup("platforms"))
	return cmd
}

func runLink(cmd *cobra.Command, args []string, opts linkOptions) error {
	name := ""
	if len(args) > 0 {
		name = args[0]
	}
	service := newAppService()
	result, err := service.Link(cmd.Context(), app.LinkRequest{
		Root:      projectRoot(cmd),
		Package:   name,
		Platforms: resolveStrings(cmd, opts.Platforms, "platforms", "platforms"),
		All:       opts.All,
	})
	if err != nil {
		return err
	}
	switch {
	case opts.All:
		fmt.Fprintf(cmd.OutOrStdout(), "Linked all dependencies for %s\n", joinPlatforms(result.Platforms))
	case result.Package == "":
		fmt.Fprintf(cmd.OutOrStdout(), "Linked project assets for %s\n", joinPlatforms(result.Platforms))
	default:
		fmt.Fprintf(cmd.OutOrStdout(), "Linked %s for %s\n", result.Package, joinPlatforms(result.Platforms))
	}
	return nil
}

type unlinkOptions struct {
	Platforms []string
}

func newUnlinkCommand() *cobra.Command {
	opts := unlinkOptions{}
	cmd := &cobra.Command{
		Use:   "unlink <package>",
		Short: "Remove a dependency's native code and assets from the project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUnlink(cmd, args[0], opts)
		},
	}
	cmd.Flags().StringSliceVar(&opts.Platforms, "platforms", nil, "Platforms to unlink (android, ios)")
	return cmd
}

func runUnlink(cmd *cobra.Command, name string, opts unlinkOptions) error {
	service := newAppService()
	result, err := service.Unlink(cmd.Context(), app.UnlinkRequest{
		Root:      projectRoot(cmd),
		Package:   name,
		Platforms: resolveStrings(cmd, opts.Platforms, "platforms", "platforms"),
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Unlinked %s from %s\n", result.Package, joinPlatforms(result.Platforms))
	return nil
}
