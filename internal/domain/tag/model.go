package tag

// Tag is a lightweight label attached to activities and categories.
type Tag struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}
