package cmd

import (
	"github.com/spf13/cobra"

	"github.com/donaldgifford/deck/internal/info"
	"github.com/donaldgifford/deck/internal/ui"
)

var (
	infoOutputFormat  string
	infoCloudProvider string
)

var infoCmd = &cobra.Command{
	Use:   "info <stage-type>",
	Short: "Show detailed stage type information",
	Long: `Display the registration a stage type resolves to: label, description,
execution detail sections, declared validators and provider implementations.

Pass --cloud-provider to resolve a provider-specific implementation.`,
	Args: cobra.ExactArgs(1),
	RunE: runInfo,
}

func init() {
	infoCmd.Flags().StringVarP(&infoOutputFormat, "output", "o", "text", "output format (text, json)")
	infoCmd.Flags().StringVar(&infoCloudProvider, "cloud-provider", "", "cloud provider to resolve")
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	w := ui.NewWriter(noColor)

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	gw, err := newGateway(cfg)
	if err != nil {
		return err
	}

	return info.Run(&info.Opts{
		Registry:      buildRegistry(cmd.Context(), cfg, gw, w),
		StageType:     args[0],
		CloudProvider: infoCloudProvider,
		Writer:        w.Out(),
		OutputFormat:  infoOutputFormat,
	})
}
