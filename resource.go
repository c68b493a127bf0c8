package addons

import (
	"strings"
	"time"
)

// Resource is a provisioned add-on instance, independent of which apps
// reference it.
type Resource struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Plan      string    `json:"plan"` // "service:plan" or a bare service token
	AppID     string    `json:"app_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Service returns the service portion of the plan, the token before the
// first colon.
func (r *Resource) Service() string {
	service, _, _ := strings.Cut(r.Plan, ":")
	return service
}

// ResourceFilter restricts the resources returned by find operations.
// Only fields which are set are applied.
type ResourceFilter struct {
	Name *string
	App  *string
}
