package pipeline

// Execution statuses reported by the orchestration service.
const (
	StatusNotStarted = "NOT_STARTED"
	StatusRunning    = "RUNNING"
	StatusSucceeded  = "SUCCEEDED"
	StatusFailed     = "TERMINAL"
	StatusCanceled   = "CANCELED"
	StatusStopped    = "STOPPED"
	StatusSuspended  = "SUSPENDED"
	StatusSkipped    = "SKIPPED"
	StatusPaused     = "PAUSED"
)

// terminalStatuses are the statuses after which an execution no longer changes.
var terminalStatuses = map[string]bool{
	StatusSucceeded: true,
	StatusFailed:    true,
	StatusCanceled:  true,
	StatusStopped:   true,
	StatusSkipped:   true,
}

// IsTerminal reports whether status is final.
func IsTerminal(status string) bool {
	return terminalStatuses[status]
}

// Execution is a pipeline run as returned by the gateway.
type Execution struct {
	ID                string           `json:"id"`
	Name              string           `json:"name"`
	Application       string           `json:"application"`
	PipelineConfigID  string           `json:"pipelineConfigId,omitempty"`
	Status            string           `json:"status"`
	StartTime         int64            `json:"startTime,omitempty"`
	EndTime           int64            `json:"endTime,omitempty"`
	Stages            []ExecutionStage `json:"stages"`
	Trigger           map[string]any   `json:"trigger,omitempty"`
	DeploymentTargets []string         `json:"deploymentTargets,omitempty"`
}

// ExecutionStage is one stage inside an execution.
type ExecutionStage struct {
	ID                   string         `json:"id"`
	RefID                string         `json:"refId"`
	Type                 string         `json:"type"`
	Name                 string         `json:"name"`
	Status               string         `json:"status"`
	StartTime            int64          `json:"startTime,omitempty"`
	EndTime              int64          `json:"endTime,omitempty"`
	Context              map[string]any `json:"context,omitempty"`
	RequisiteStageRefIDs []string       `json:"requisiteStageRefIds,omitempty"`
	SyntheticStageOwner  string         `json:"syntheticStageOwner,omitempty"`
	ParentStageID        string         `json:"parentStageId,omitempty"`
	Suspended            bool           `json:"suspended,omitempty"`
}

// IsTerminal reports whether the execution has finished.
func (e *Execution) IsTerminal() bool {
	return IsTerminal(e.Status)
}

// AsStage exposes the execution stage as a configuration Stage so registry
// lookups can resolve it the same way as a configured stage.
func (s *ExecutionStage) AsStage() Stage {
	stage := Stage{
		"type":  s.Type,
		"name":  s.Name,
		"refId": s.RefID,
	}

	if s.Context != nil {
		stage["context"] = s.Context
		for k, v := range s.Context {
			if _, taken := stage[k]; !taken {
				stage[k] = v
			}
		}
	}

	return stage
}
