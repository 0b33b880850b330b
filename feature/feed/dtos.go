package feed

// feedStateResponse is the body of GET /api/v2/feed-state.
// Dates are tick counts (100ns since 0001-01-01 UTC).
type feedStateResponse struct {
	Date     int64        `json:"_Date"`
	Packages []packageDTO `json:"Packages"`
}

type packageDTO struct {
	PackageType string   `json:"PackageType"`
	ID          string   `json:"Id"`
	Versions    []string `json:"Versions"`
	Dates       []int64  `json:"Dates"`
}
