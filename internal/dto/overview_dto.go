package dto

// OverviewResponse aggregates the actor's landing view: the next deadlines
// and the most recent announcements across their visible courses.
type OverviewResponse struct {
	UpcomingAssignments []AssignmentResponse   `json:"upcoming_assignments"`
	LatestAnnouncements []AnnouncementResponse `json:"latest_announcements"`
	CacheHit            bool                   `json:"-"`
}

// TranscriptRow is one graded or pending line of a student's transcript.
type TranscriptRow struct {
	SubmissionID string   `json:"submission_id"`
	CourseCode   string   `json:"course_code"`
	Assignment   string   `json:"assignment"`
	Points       float64  `json:"points"`
	Score        *float64 `json:"score"`
	Feedback     string   `json:"feedback,omitempty"`
	Graded       bool     `json:"graded"`
}

// TranscriptResponse lists transcript rows with the cumulative percentage
// computed over graded rows only.
type TranscriptResponse struct {
	Rows        []TranscriptRow `json:"rows"`
	TotalEarned float64         `json:"total_earned"`
	TotalPoints float64         `json:"total_points"`
	Percentage  int             `json:"percentage"`
}
