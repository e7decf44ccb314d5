package cities

// City represents a city belonging to exactly one region.
type City struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	RegionID int64  `json:"region_id"`
}
