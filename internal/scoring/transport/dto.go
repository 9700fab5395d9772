package transport

// TrackEngagementRequest is the payload for recording an engagement event.
// EventType is not validated against the known enumeration on purpose:
// ingestion stays permissive and unknown types simply score zero.
type TrackEngagementRequest struct {
	LeadID    string                 `json:"leadId" validate:"required,uuid"`
	EventType string                 `json:"eventType" validate:"required,max=64"`
	Payload   map[string]interface{} `json:"payload,omitempty"`
}

// RecomputeResponse reports how many leads were successfully updated.
type RecomputeResponse struct {
	Updated int `json:"updated"`
}
