package scans

// History is the response of a history listing.
type History struct {
	Data  []*Scan `json:"data"`
	Limit int     `json:"limit"`
	Count int     `json:"count"`
}
