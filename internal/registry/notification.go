package registry

// NotificationTypeConfig describes a notification channel.
type NotificationTypeConfig struct {
	Key       string `yaml:"key" json:"key"`
	Label     string `yaml:"label,omitempty" json:"label,omitempty"`
	Component string `yaml:"component,omitempty" json:"component,omitempty"`
}

// RegisterNotification adds a notification type, replacing any registration
// with the same key.
func (r *Registry) RegisterNotification(cfg NotificationTypeConfig) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.notifications {
		if r.notifications[i].Key == cfg.Key {
			r.notifications[i] = cfg

			return
		}
	}

	r.notifications = append(r.notifications, cfg)
}

// NotificationTypes returns the registered notification types in
// registration order.
func (r *Registry) NotificationTypes() []NotificationTypeConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]NotificationTypeConfig(nil), r.notifications...)
}

// NotificationConfig returns the registration for a notification type, or nil.
func (r *Registry) NotificationConfig(key string) *NotificationTypeConfig {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.notifications {
		if r.notifications[i].Key == key {
			cfg := r.notifications[i]

			return &cfg
		}
	}

	return nil
}
