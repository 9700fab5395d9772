// Package transport defines the HTTP shapes for the reports module.
package transport

// GenerateReportRequest optionally narrows the reporting window. Dates are
// RFC 3339 timestamps; omitted bounds default to the trailing week.
type GenerateReportRequest struct {
	StartDate string `json:"startDate,omitempty" validate:"omitempty,max=64"`
	EndDate   string `json:"endDate,omitempty" validate:"omitempty,max=64"`
}
