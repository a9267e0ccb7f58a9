package canvas

// Course is a favourite course of the token's owner.
type Course struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ExternalAssignment is an assignment as the course service reports it.
// DueAt is the raw ISO-8601 timestamp and is nil when the assignment has no due date.
type ExternalAssignment struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	DueAt    *string `json:"due_at"`
	CourseID int64   `json:"course_id"`
}
