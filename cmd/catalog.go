package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/donaldgifford/deck/internal/catalog"
	"github.com/donaldgifford/deck/internal/catalogcmd"
	"github.com/donaldgifford/deck/internal/ui"
)

var (
	catalogInitName        string
	catalogInitDescription string
	catalogInitGit         bool
	catalogInitProviders   []string
	catalogFetchRefresh    bool
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage stage catalogs",
	Long: `Stage catalogs are YAML files declaring stage, trigger and notification
types. Configured catalogs are fetched with go-getter, cached locally and
registered on every deck command.`,
}

var catalogInitCmd = &cobra.Command{
	Use:   "init <path>",
	Short: "Scaffold a new stage catalog",
	Args:  cobra.ExactArgs(1),
	RunE:  runCatalogInit,
}

var catalogFetchCmd = &cobra.Command{
	Use:   "fetch <source>",
	Short: "Fetch and validate a stage catalog",
	Long: `Fetch a catalog and report what it declares. The source is a configured
catalog name, a local path, a go-getter URL (optionally with a //subpath and
?ref=), or a short name resolved against the default catalog.

Examples:
  deck catalog fetch acme
  deck catalog fetch ./my-catalog
  deck catalog fetch github.com/acme/stages//aws?ref=v1.2.0
  deck catalog fetch aws@v1.2.0`,
	Args: cobra.ExactArgs(1),
	RunE: runCatalogFetch,
}

var catalogCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove cached catalogs",
	Args:  cobra.NoArgs,
	RunE:  runCatalogClean,
}

func init() {
	catalogInitCmd.Flags().StringVar(&catalogInitName, "name", "", "catalog name (defaults to directory name)")
	catalogInitCmd.Flags().StringVar(&catalogInitDescription, "description", "", "catalog description")
	catalogInitCmd.Flags().BoolVar(&catalogInitGit, "git-init", true, "run git init in the new catalog")
	catalogInitCmd.Flags().StringSliceVar(&catalogInitProviders, "provider", nil, "cloud providers to scaffold sub-catalogs for")

	catalogFetchCmd.Flags().BoolVar(&catalogFetchRefresh, "refresh", false, "ignore the cached copy")

	catalogCmd.AddCommand(catalogInitCmd, catalogFetchCmd, catalogCleanCmd)
	rootCmd.AddCommand(catalogCmd)
}

func runCatalogInit(_ *cobra.Command, args []string) error {
	w := ui.NewWriter(noColor)

	result, err := catalogcmd.Init(&catalogcmd.InitOpts{
		Path:        args[0],
		Name:        catalogInitName,
		Description: catalogInitDescription,
		GitInit:     catalogInitGit,
		Providers:   catalogInitProviders,
	})
	if err != nil {
		return err
	}

	w.Successf("Created catalog at %s", result.Dir)

	if catalogInitGit && !result.GitInitialized {
		w.Warning("git init failed; initialize the repository manually")
	}

	return nil
}

func runCatalogFetch(cmd *cobra.Command, args []string) error {
	w := ui.NewWriter(noColor)

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	result, err := catalogcmd.Fetch(cmd.Context(), &catalogcmd.FetchOpts{
		Fetcher: catalog.NewFetcher(cfg.CacheDir, slog.Default()),
		Config:  cfg,
		Input:   args[0],
		Refresh: catalogFetchRefresh,
	})
	if err != nil {
		return err
	}

	cat := result.Catalog
	w.Successf("Fetched catalog %s", cat.Name)

	out := w.Out()
	fmt.Fprintf(out, "  Source:        %s\n", result.Source.GetterURL())
	fmt.Fprintf(out, "  Directory:     %s\n", result.Dir)
	fmt.Fprintf(out, "  Stages:        %d\n", len(cat.Stages))
	fmt.Fprintf(out, "  Triggers:      %d\n", len(cat.Triggers))
	fmt.Fprintf(out, "  Notifications: %d\n", len(cat.Notifications))

	return nil
}

func runCatalogClean(_ *cobra.Command, _ []string) error {
	w := ui.NewWriter(noColor)

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	cacheDir := cfg.CacheDir
	if cacheDir == "" {
		cacheDir = catalog.DefaultCacheDir()
	}

	freed, err := catalog.NewCache(cacheDir, slog.Default()).Clean()
	if err != nil {
		return fmt.Errorf("cleaning catalog cache: %w", err)
	}

	if freed > 0 {
		w.Successf("Cleaned catalog cache (%s)", formatBytes(freed))
	} else {
		w.Info("Catalog cache already clean")
	}

	return nil
}

func formatBytes(b int64) string {
	const (
		kb = 1024
		mb = kb * 1024
		gb = mb * 1024
	)

	switch {
	case b >= gb:
		return fmt.Sprintf("%.1f GB", float64(b)/float64(gb))
	case b >= mb:
		return fmt.Sprintf("%.1f MB", float64(b)/float64(mb))
	case b >= kb:
		return fmt.Sprintf("%.1f KB", float64(b)/float64(kb))
	default:
		return fmt.Sprintf("%d B", b)
	}
}
