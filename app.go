package addons

// App is the application a resource or attachment hangs off. Apps are not
// owned by this module; a minimal record is created on first reference.
type App struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
