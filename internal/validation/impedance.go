package validation

import (
	"slices"

	"github.com/donaldgifford/deck/internal/pipeline"
	"github.com/donaldgifford/deck/internal/registry"
)

const deployStageType = "deploy"

// targetImpedance checks that the cluster a stage targets, in the account and
// every region it names, is deployed by an upstream deploy stage.
func targetImpedance(p *pipeline.Pipeline, node pipeline.Node, cfg *registry.ValidatorConfig) string {
	stage, ok := node.(pipeline.Stage)
	if !ok {
		return ""
	}

	cluster, _ := stage.Field("cluster").(string)
	credentials, _ := stage.Field("credentials").(string)
	regionsField, _ := stage.Get("regions")
	regions := stringList(regionsField)

	var deployed []string

	for _, up := range p.Upstream(stage) {
		if up.Type() != deployStageType {
			continue
		}

		clustersField, _ := up.Get("clusters")
		clusters, _ := clustersField.([]any)

		for _, c := range clusters {
			cl, ok := c.(map[string]any)
			if !ok {
				continue
			}

			account, _ := cl["account"].(string)
			if clusterName(cl) != cluster || account != credentials {
				continue
			}

			zones, _ := cl["availabilityZones"].(map[string]any)
			for region := range zones {
				deployed = append(deployed, region)
			}
		}
	}

	if len(deployed) > 0 && containsAll(deployed, regions) {
		return ""
	}

	if cfg.Message != "" {
		return cfg.Message
	}

	return "This stage does not target a cluster deployed by an upstream stage."
}

// clusterName builds app[-stack[-detail]]. A detail without a stack keeps the
// empty stack segment, as in "app--detail".
func clusterName(cluster map[string]any) string {
	app, _ := cluster["application"].(string)
	stack, _ := cluster["stack"].(string)
	detail, _ := cluster["freeFormDetails"].(string)

	name := app
	if stack != "" || detail != "" {
		name += "-" + stack
	}

	if detail != "" {
		name += "-" + detail
	}

	return name
}

func containsAll(have, want []string) bool {
	for _, w := range want {
		if !slices.Contains(have, w) {
			return false
		}
	}

	return true
}
