package regions

// Region represents a top-level geographic area.
type Region struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
