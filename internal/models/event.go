package models

// Event is a sales context (a market day, a fair) that sales and inventory
// movements can optionally be attributed to. Dates are RFC3339 UTC strings,
// the same representation the snapshot manifest uses.
type Event struct {
	EventID     string `json:"eventId"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
}
