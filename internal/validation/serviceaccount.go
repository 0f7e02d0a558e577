package validation

import (
	"fmt"
	"slices"

	"github.com/donaldgifford/deck/internal/pipeline"
	"github.com/donaldgifford/deck/internal/registry"
)

func (r *run) serviceAccountAccess(node pipeline.Node, cfg *registry.ValidatorConfig) (string, error) {
	if !r.opts.FiatEnabled {
		return "", nil
	}

	runAs, _ := node.Field("runAsUser").(string)
	if runAs == "" {
		return "", nil
	}

	accounts, err := r.accounts()
	if err != nil {
		return "", err
	}

	if slices.Contains(accounts, runAs) {
		return "", nil
	}

	if cfg.Message != "" {
		return cfg.Message, nil
	}

	return fmt.Sprintf("You do not have access to the service account %s.", runAs), nil
}
