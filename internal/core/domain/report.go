package domain

import "time"

type ReportStatus string

const ReportPending ReportStatus = "pending"

// Report is an incident submitted by any authenticated identity.
type Report struct {
	ID          string       `json:"id"`
	ReporterID  string       `json:"user_id"`
	Category    string       `json:"category"`
	Urgency     string       `json:"urgency"`
	Description string       `json:"description"`
	ImageRef    string       `json:"image_path,omitempty"`
	Status      ReportStatus `json:"status"`
	CreatedAt   time.Time    `json:"created_at"`
}

// ReportView joins a report with its reporter.
type ReportView struct {
	Report   Report
	Reporter *Summary
}
