package models

// Category describes one entry of the disposal category catalog served by
// the classification service.
type Category struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}
