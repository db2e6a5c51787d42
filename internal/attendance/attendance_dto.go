package attendance

import "time"

// RequestContext carries the caller-side request attributes every
// state-changing call must supply explicitly. Nothing here feeds the
// state machine; it is audit material only.
type RequestContext struct {
	SourceAddress string
	UserAgent     string
	Method        string
}

type SignInRequest struct {
	PersonID string `json:"person_id" binding:"omitempty,uuid"`
	Method   string `json:"method" binding:"omitempty,oneof=web kiosk badge"`
}

type SignOutRequest struct {
	PersonID string `json:"person_id" binding:"omitempty,uuid"`
	Method   string `json:"method" binding:"omitempty,oneof=web kiosk badge"`
}

type SignInResult struct {
	SessionID  string `json:"session_id"`
	PersonID   string `json:"person_id"`
	SignInTime string `json:"sign_in_time"`
}

type SignOutResult struct {
	SessionID       string `json:"session_id"`
	PersonID        string `json:"person_id"`
	SignOutTime     string `json:"sign_out_time"`
	DurationMinutes int    `json:"duration_minutes"`
}

type SessionResponse struct {
	ID              string  `json:"id"`
	PersonID        string  `json:"person_id"`
	PersonName      string  `json:"person_name,omitempty"`
	Username        string  `json:"username,omitempty"`
	Category        string  `json:"category,omitempty"`
	CheckedIn       string  `json:"checked_in"`
	CheckedOut      *string `json:"checked_out,omitempty"`
	SignInStatus    string  `json:"sign_in_status"`
	DurationMinutes *int    `json:"duration_minutes,omitempty"`
}

type PersonSummary struct {
	PersonID  string `json:"person_id"`
	FullName  string `json:"full_name"`
	Username  string `json:"username"`
	Category  string `json:"category"`
	CheckedIn string `json:"checked_in"`
}

type StatsResponse struct {
	Date              string `json:"date"`
	CurrentlySignedIn int64  `json:"currently_signed_in"`
	TotalVisited      int64  `json:"total_visited"`
	UniqueVisitors    int64  `json:"unique_visitors"`
}

func mapToSessionResponse(s AttendanceSession) SessionResponse {
	resp := SessionResponse{
		ID:           s.ID.String(),
		PersonID:     s.PersonID.String(),
		CheckedIn:    s.CheckedIn.Format(time.RFC3339),
		SignInStatus: s.SignInStatus,
	}
	if s.Person != nil {
		resp.PersonName = s.Person.FullName
		resp.Username = s.Person.Username
		resp.Category = s.Person.Category
	}
	if s.CheckedOut != nil {
		v := s.CheckedOut.Format(time.RFC3339)
		resp.CheckedOut = &v
		minutes := durationMinutes(s.CheckedIn, *s.CheckedOut)
		resp.DurationMinutes = &minutes
	}
	return resp
}
