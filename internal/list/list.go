// Package list implements the deck stages, triggers and notifications
// commands for browsing registered types.
package list

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/donaldgifford/deck/internal/pipeline"
	"github.com/donaldgifford/deck/internal/registry"
)

// Kind selects which registrations are listed.
type Kind string

// Listable kinds.
const (
	KindStages        Kind = "stages"
	KindTriggers      Kind = "triggers"
	KindNotifications Kind = "notifications"
)

// Opts configures the list operation.
type Opts struct {
	Registry *registry.Registry
	Kind     Kind
	// Query limits output to entries whose key, label or description contains
	// it, ignoring case.
	Query string
	// Provider limits stages to those available for this cloud provider.
	Provider string
	// Accounts, when Provider is empty, limits stages to those configurable
	// with at least one of these accounts.
	Accounts []pipeline.ProviderAccount
	// OutputFormat is "table" or "json".
	OutputFormat string
	// Writer is the output destination.
	Writer io.Writer
}

// Entry represents one registration in list output.
type Entry struct {
	Key            string   `json:"key"`
	Label          string   `json:"label"`
	Description    string   `json:"description,omitempty"`
	CloudProviders []string `json:"cloudProviders,omitempty"`
}

// Run lists registrations of the requested kind.
func Run(opts *Opts) error {
	if opts.Registry == nil {
		return errors.New("registry is required")
	}

	if opts.Provider != "" && opts.Kind != KindStages {
		return fmt.Errorf("--provider applies only to stages, not %s", opts.Kind)
	}

	var entries []Entry

	switch opts.Kind {
	case KindStages:
		entries = stageEntries(opts.Registry, opts.Provider, opts.Accounts)
	case KindTriggers:
		for _, tr := range opts.Registry.TriggerTypes() {
			entries = append(entries, Entry{Key: tr.Key, Label: tr.TypeLabel(), Description: tr.Description})
		}
	case KindNotifications:
		for _, n := range opts.Registry.NotificationTypes() {
			entries = append(entries, Entry{Key: n.Key, Label: n.Label})
		}
	default:
		return fmt.Errorf("unknown kind %q", opts.Kind)
	}

	entries = search(entries, opts.Query)

	switch opts.OutputFormat {
	case "json":
		return renderJSON(opts.Writer, entries)
	default:
		return renderTable(opts.Writer, entries, opts.Kind == KindStages)
	}
}

func stageEntries(reg *registry.Registry, provider string, accounts []pipeline.ProviderAccount) []Entry {
	if provider != "" {
		accounts = []pipeline.ProviderAccount{{Name: provider, CloudProvider: provider}}
	}

	stages := reg.ConfigurableStageTypes(accounts)
	entries := make([]Entry, 0, len(stages))

	for i := range stages {
		st := &stages[i]

		providers := st.CloudProviders
		if len(accounts) == 0 {
			providers = implementedBy(reg, st)
		}

		entries = append(entries, Entry{
			Key:            st.Key,
			Label:          st.TypeLabel(),
			Description:    st.Description,
			CloudProviders: providers,
		})
	}

	return entries
}

// implementedBy lists the cloud providers with a dedicated implementation of
// st, sorted.
func implementedBy(reg *registry.Registry, st *registry.StageTypeConfig) []string {
	var providers []string
	if st.CloudProvider != "" {
		providers = append(providers, st.CloudProvider)
	}

	providers = append(providers, st.ProvidesFor...)

	for _, impl := range reg.ProvidersFor(st.Key) {
		if impl.CloudProvider != "" {
			providers = append(providers, impl.CloudProvider)
		}
		providers = append(providers, impl.ProvidesFor...)
	}

	slices.Sort(providers)

	return slices.Compact(providers)
}

func search(entries []Entry, query string) []Entry {
	if query == "" {
		return entries
	}

	q := strings.ToLower(query)

	var matches []Entry
	for i := range entries {
		e := &entries[i]
		if strings.Contains(strings.ToLower(e.Key), q) ||
			strings.Contains(strings.ToLower(e.Label), q) ||
			strings.Contains(strings.ToLower(e.Description), q) {
			matches = append(matches, *e)
		}
	}

	return matches
}

func renderTable(w io.Writer, entries []Entry, withProviders bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	header := "KEY\tLABEL\tDESCRIPTION"
	if withProviders {
		header = "KEY\tLABEL\tPROVIDERS\tDESCRIPTION"
	}

	if _, err := fmt.Fprintln(tw, header); err != nil {
		return err
	}

	for i := range entries {
		e := &entries[i]

		var err error
		if withProviders {
			_, err = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.Key, e.Label, strings.Join(e.CloudProviders, ", "), e.Description)
		} else {
			_, err = fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Key, e.Label, e.Description)
		}

		if err != nil {
			return err
		}
	}

	return tw.Flush()
}

func renderJSON(w io.Writer, entries []Entry) error {
	if entries == nil {
		entries = []Entry{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(entries)
}
