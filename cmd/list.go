package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/deck/internal/list"
	"github.com/donaldgifford/deck/internal/ui"
)

var (
	listQuery        string
	listProvider     string
	listOutputFormat string
	listAccounts     bool
)

var stagesCmd = &cobra.Command{
	Use:   "stages",
	Short: "List stage types",
	Long: `List the stage types a pipeline can use. Synthetic stages and provider
implementations are folded into their base stage. Use --provider to show only
stages available for a cloud provider.`,
	Args: cobra.NoArgs,
	RunE: runList(list.KindStages),
}

var triggersCmd = &cobra.Command{
	Use:   "triggers",
	Short: "List trigger types",
	Args:  cobra.NoArgs,
	RunE:  runList(list.KindTriggers),
}

var notificationsCmd = &cobra.Command{
	Use:   "notifications",
	Short: "List notification types",
	Args:  cobra.NoArgs,
	RunE:  runList(list.KindNotifications),
}

func init() {
	for _, c := range []*cobra.Command{stagesCmd, triggersCmd, notificationsCmd} {
		c.Flags().StringVarP(&listQuery, "query", "q", "", "filter by key, label or description (case-insensitive)")
		c.Flags().StringVarP(&listOutputFormat, "output", "o", "table", "output format (table, json)")
		rootCmd.AddCommand(c)
	}

	stagesCmd.Flags().StringVar(&listProvider, "provider", "", "only stages available for this cloud provider")
	stagesCmd.Flags().BoolVar(&listAccounts, "accounts", false, "only stages configurable with the gateway's accounts")
}

func runList(kind list.Kind) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		w := ui.NewWriter(noColor)

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		gw, err := newGateway(cfg)
		if err != nil {
			return err
		}

		opts := &list.Opts{
			Registry:     buildRegistry(cmd.Context(), cfg, gw, w),
			Kind:         kind,
			Query:        listQuery,
			Provider:     listProvider,
			OutputFormat: listOutputFormat,
			Writer:       w.Out(),
		}

		if kind == list.KindStages && listAccounts {
			if gw == nil {
				return errors.New("--accounts needs a gateway; set gateway_url in the config file or pass --gateway")
			}

			if opts.Accounts, err = gw.Accounts(cmd.Context()); err != nil {
				return err
			}
		}

		return list.Run(opts)
	}
}
