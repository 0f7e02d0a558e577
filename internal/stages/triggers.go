package stages

import "github.com/donaldgifford/deck/internal/registry"

// Triggers returns the built-in trigger types.
func Triggers() []registry.TriggerTypeConfig {
	serviceAccount := registry.ValidatorConfig{
		Type:        registry.KindServiceAccountAccess,
		Message:     "You do not have access to the service account configured in this trigger.",
		PreventSave: true,
	}

	return []registry.TriggerTypeConfig{
		{
			Key:         "cron",
			Label:       "CRON",
			Description: "Executes the pipeline on a CRON schedule",
			Component:   "CronTrigger",
			Validators: []registry.ValidatorConfig{
				{Type: registry.KindRequiredField, FieldName: "cronExpression", FieldLabel: "CRON expression", PreventSave: true},
				serviceAccount,
			},
		},
		{
			Key:                   "git",
			Label:                 "Git",
			Description:           "Executes the pipeline on a git push",
			Component:             "GitTrigger",
			ExecutionTriggerLabel: "Git",
			Validators: []registry.ValidatorConfig{
				required("source", "source"),
				required("project", "project"),
				required("slug", "slug"),
				serviceAccount,
			},
		},
		{
			Key:                      "jenkins",
			Label:                    "Jenkins",
			Description:              "Listens to a Jenkins job",
			Component:                "JenkinsTrigger",
			ManualExecutionComponent: "JenkinsTriggerOptions",
			ExecutionStatusComponent: "JenkinsTriggerExecutionStatus",
			Validators: []registry.ValidatorConfig{
				{Type: registry.KindRequiredField, FieldName: "job", FieldLabel: "Job", PreventSave: true},
				serviceAccount,
			},
		},
		{
			Key:                      "pipeline",
			Label:                    "Pipeline",
			Description:              "Listens to a pipeline execution",
			Component:                "PipelineTrigger",
			ManualExecutionComponent: "PipelineTriggerOptions",
			ExecutionTriggerLabel:    "Pipeline",
			Validators: []registry.ValidatorConfig{
				required("application", "application"),
				required("pipeline", "pipeline"),
				serviceAccount,
			},
		},
		{
			Key:                      "docker",
			Label:                    "Docker Registry",
			Description:              "Executes the pipeline on an image update",
			Component:                "DockerTrigger",
			ManualExecutionComponent: "DockerTriggerOptions",
			Validators: []registry.ValidatorConfig{
				required("account", "Registry"),
				required("repository", "Image"),
				serviceAccount,
			},
		},
		{
			Key:         "webhook",
			Label:       "Webhook",
			Description: "Executes the pipeline when a webhook is received.",
			Component:   "WebhookTrigger",
			Validators: []registry.ValidatorConfig{
				{Type: registry.KindRequiredField, FieldName: "source", FieldLabel: "Source", PreventSave: true},
				serviceAccount,
			},
		},
	}
}

// Notifications returns the built-in notification types.
func Notifications() []registry.NotificationTypeConfig {
	return []registry.NotificationTypeConfig{
		{Key: "email", Label: "Email", Component: "EmailNotificationType"},
		{Key: "slack", Label: "Slack", Component: "SlackNotificationType"},
		{Key: "sms", Label: "SMS", Component: "SmsNotificationType"},
		{Key: "githubStatus", Label: "GitHub Status", Component: "GithubNotificationType"},
		{Key: "pubsub", Label: "Pubsub", Component: "PubsubNotificationType"},
	}
}
