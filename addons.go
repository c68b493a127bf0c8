package addons

import "strings"

// IDGenerator produces unique identifiers for newly created entities.
type IDGenerator interface {
	// ID returns a fresh identifier in canonical 8-4-4-4-12 form.
	ID() string
}

// NameGenerator produces human-readable resource names. It makes no
// uniqueness guarantee; callers must check for collisions against the
// names already present in the tenant and regenerate on collision.
type NameGenerator interface {
	Name() string
}

// ConfigVarKey derives the config-variable key for an attachment name:
// uppercased, dashes folded to underscores, suffixed with _URL.
func ConfigVarKey(attachment string) string {
	return strings.ToUpper(strings.ReplaceAll(attachment, "-", "_")) + "_URL"
}

// ConfigVarValue builds the reference string stored under an attachment's
// config-variable key.
func ConfigVarValue(service, resource string) string {
	return "@" + service + "/" + resource
}

// DeriveAttachmentName returns the default attachment name for a resource
// when the caller did not request one.
func DeriveAttachmentName(resource string) string {
	return strings.ToUpper(strings.ReplaceAll(resource, "-", "_"))
}
