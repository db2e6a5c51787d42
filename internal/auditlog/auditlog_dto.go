package auditlog

import (
	"encoding/json"
	"time"
)

type EventResponse struct {
	ID             string         `json:"id"`
	PersonID       *string        `json:"person_id,omitempty"`
	Action         string         `json:"action"`
	Status         string         `json:"status"`
	IPAddress      string         `json:"ip_address,omitempty"`
	UserAgent      string         `json:"user_agent,omitempty"`
	Timestamp      string         `json:"timestamp"`
	AdditionalData map[string]any `json:"additional_data,omitempty"`
}

type DaySummaryResponse struct {
	Date          string `json:"date"`
	SignIns       int64  `json:"signins"`
	SignOuts      int64  `json:"signouts"`
	Failures      int64  `json:"failures"`
	UniquePersons int64  `json:"unique_persons"`
}

func mapToEventResponse(e ActivityEvent) EventResponse {
	resp := EventResponse{
		ID:        e.ID.String(),
		Action:    e.Action,
		Status:    e.Status,
		IPAddress: e.IPAddress,
		UserAgent: e.UserAgent,
		Timestamp: e.Timestamp.Format(time.RFC3339),
	}
	if e.UserID != nil {
		v := e.UserID.String()
		resp.PersonID = &v
	}
	if len(e.AdditionalData) > 0 {
		// Generic decode: payloads are typed on the write side but read
		// back as a plain map for display.
		var detail map[string]any
		if err := json.Unmarshal(e.AdditionalData, &detail); err == nil {
			resp.AdditionalData = detail
		}
	}
	return resp
}

func mapToDaySummaryResponse(s DaySummary) DaySummaryResponse {
	return DaySummaryResponse{
		Date:          s.Date.Format("2006-01-02"),
		SignIns:       s.SignIns,
		SignOuts:      s.SignOuts,
		Failures:      s.Failures,
		UniquePersons: s.UniquePersons,
	}
}
