package addons

import "time"

// Attachment is a named binding of a Resource into a specific app's
// configuration. Its name is the config-variable prefix for that app.
type Attachment struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	ResourceID   string    `json:"resource_id"`
	ResourceName string    `json:"resource_name"`
	AppID        string    `json:"app_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ConfigVars is an app-scoped mapping of config-variable keys to reference
// strings. Entries exist iff a corresponding Attachment exists.
type ConfigVars map[string]string
