package executions

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/donaldgifford/deck/internal/pipeline"
	"github.com/donaldgifford/deck/internal/ui"
)

// Render writes view to out as a stage table, or as JSON when format is
// "json".
func Render(out *ui.Writer, view *View, format string) error {
	if format == "json" {
		enc := json.NewEncoder(out.Out())
		enc.SetIndent("", "  ")

		return enc.Encode(view)
	}

	exec := view.Execution
	if _, err := fmt.Fprintf(out.Out(), "%s %s (%s) %s\n",
		out.Bold(exec.Name), exec.ID, exec.Application, out.Status(exec.Status)); err != nil {
		return err
	}

	if len(exec.DeploymentTargets) > 0 {
		if _, err := fmt.Fprintf(out.Out(), "Targets: %s\n", strings.Join(exec.DeploymentTargets, ", ")); err != nil {
			return err
		}
	}

	tw := tabwriter.NewWriter(out.Out(), 0, 0, 2, ' ', 0)

	if _, err := fmt.Fprintln(tw, "REF\tNAME\tTYPE\tSTATUS\tSECTIONS"); err != nil {
		return err
	}

	for i := range view.Stages {
		sv := &view.Stages[i]

		status := out.Status(sv.Status)
		if sv.Suspended && sv.Status != pipeline.StatusSuspended {
			status += " (suspended)"
		}

		typ := sv.Type
		if !sv.Known {
			typ += "?"
		}

		if _, err := fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			sv.RefID, sv.Name, typ, status, strings.Join(sv.Sections, ", ")); err != nil {
			return err
		}
	}

	return tw.Flush()
}
