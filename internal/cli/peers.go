package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"rnlink/internal/adapters"
	"rnlink/internal/app"
	"rnlink/internal/types"
)

type peersOptions struct {
	Registry       string
	TimeoutSec     int
	Retries        int
	RetryDelayMs   int
	Yes            bool
	DryRun         bool
	Output         string
	PackageManager string
}

func newPeersCommand() *cobra.Command {
	opts := peersOptions{}
	cmd := &cobra.Command{
		Use:   "peers",
		Short: "Install the peer dependencies native modules need but the project lacks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPeers(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Registry, "registry", adapters.DefaultRegistryURL, "npm registry URL")
	cmd.Flags().IntVar(&opts.TimeoutSec, "registry-timeout", 60, "Registry HTTP timeout in seconds")
	cmd.Flags().IntVar(&opts.Retries, "registry-retries", 3, "Registry HTTP retry attempts")
	cmd.Flags().IntVar(&opts.RetryDelayMs, "registry-retry-delay-ms", 200, "Registry base retry delay in milliseconds")
	cmd.Flags().BoolVar(&opts.Yes, "yes", false, "Install without asking for confirmation")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Print the plan without installing")
	cmd.Flags().StringVar(&opts.Output, "output", "", "Write the install plan to a YAML file")
	cmd.Flags().StringVar(&opts.PackageManager, "package-manager", adapters.PackageManagerAuto, "Package manager (auto, npm, yarn)")
	_ = viper.BindPFlag("registry", cmd.Flags().Lookup("registry"))
	_ = viper.BindPFlag("registry_timeout", cmd.Flags().Lookup("registry-timeout"))
	_ = viper.BindPFlag("registry_retries", cmd.Flags().Lookup("registry-retries"))
	_ = viper.BindPFlag("registry_retry_delay_ms", cmd.Flags().Lookup("registry-retry-delay-ms"))
	_ = viper.BindPFlag("yes", cmd.Flags().Lookup("yes"))
	_ = viper.BindPFlag("output", cmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("package_manager", cmd.Flags().Lookup("package-manager"))
	return cmd
}

func runPeers(cmd *cobra.Command, opts peersOptions) error {
	req := app.PeersRequest{
		Root:           projectRoot(cmd),
		Registry:       resolveString(cmd, opts.Registry, "registry", "registry"),
		TimeoutSec:     resolveInt(cmd, opts.TimeoutSec, "registry_timeout", "registry-timeout"),
		Retries:        resolveInt(cmd, opts.Retries, "registry_retries", "registry-retries"),
		RetryDelayMs:   resolveInt(cmd, opts.RetryDelayMs, "registry_retry_delay_ms", "registry-retry-delay-ms"),
		Yes:            resolveBool(cmd, opts.Yes, "yes", "yes"),
		DryRun:         opts.DryRun,
		Output:         resolveString(cmd, opts.Output, "output", "output"),
		PackageManager: resolveString(cmd, opts.PackageManager, "package_manager", "package-manager"),
	}
	service := newAppService()
	planned, err := service.PlanPeers(cmd.Context(), req)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	printPlan(out, planned.Plan)
	if planned.PlanPath != "" {
		fmt.Fprintf(out, "Plan written to %s\n", planned.PlanPath)
	}

	result, err := service.InstallPeers(cmd.Context(), req, planned)
	if err != nil {
		return err
	}
	switch {
	case result.Declined:
		fmt.Fprintln(out, color.YellowString("Installation canceled"))
	case len(result.Installed) > 0:
		fmt.Fprintln(out, color.GreenString("Installed %d peer dependencies", len(result.Installed)))
	}
	return nil
}

func printPlan(out io.Writer, plan types.InstallPlan) {
	if plan.Empty() {
		fmt.Fprintln(out, color.GreenString("No missing peer dependencies"))
		return
	}
	bold := color.New(color.Bold).SprintFunc()
	faint := color.New(color.Faint).SprintFunc()
	for _, peer := range plan.Peers {
		ranges := strings.Join(peer.Ranges, " ")
		requiredBy := faint("required by " + strings.Join(peer.RequiredBy, ", "))
		if peer.Resolvable {
			fmt.Fprintf(out, "%s %s@%s %s %s\n", color.GreenString("+"), bold(peer.Name), peer.Version, faint("("+ranges+")"), requiredBy)
			continue
		}
		fmt.Fprintf(out, "%s %s %s %s\n", color.RedString("x"), bold(peer.Name), color.RedString("%s: %s", peer.Reason, ranges), requiredBy)
	}
}

func joinPlatforms(platforms []types.PlatformName) string {
	if len(platforms) == 0 {
		return "no platforms"
	}
	names := make([]string, 0, len(platforms))
	for _, platform := range platforms {
		names = append(names, string(platform))
	}
	return strings.Join(names, ", ")
}
