package dto

import "time"

// StatusCount is one slice of the application status breakdown.
type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// DashboardOverviewResponse aggregates the admin landing page counters.
type DashboardOverviewResponse struct {
	TotalStudents        int64         `json:"total_students"`
	ActiveStudents       int64         `json:"active_students"`
	TotalFaculty         int64         `json:"total_faculty"`
	ActiveFaculty        int64         `json:"active_faculty"`
	TotalInternships     int64         `json:"total_internships"`
	ActiveInternships    int64         `json:"active_internships"`
	TotalApplications    int64         `json:"total_applications"`
	PendingReviews       int64         `json:"pending_reviews"`
	SelectedApplications int64         `json:"selected_applications"`
	StatusBreakdown      []StatusCount `json:"status_breakdown"`
	GeneratedAt          time.Time     `json:"generated_at"`
}
