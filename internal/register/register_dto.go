package register

type EntryResponse struct {
	SessionID       string  `json:"session_id"`
	PersonID        string  `json:"person_id"`
	PersonName      string  `json:"person_name"`
	Username        string  `json:"username"`
	Category        string  `json:"category"`
	CheckedIn       string  `json:"checked_in"`
	CheckedOut      *string `json:"checked_out,omitempty"`
	SignInStatus    string  `json:"sign_in_status"`
	DurationMinutes *int    `json:"duration_minutes,omitempty"`
}

type CountsResponse struct {
	Date   string           `json:"date"`
	Counts map[string]int64 `json:"counts"`
}

type ActiveDatesResponse struct {
	Dates []string `json:"dates"`
}
