package counseling

import "time"

// Note is one counseling session record filed by a teacher.
type Note struct {
	ID         string     `json:"id"`
	StudentID  int        `json:"student_id"`
	TeacherID  int        `json:"teacher_id"`
	Notes      string     `json:"notes"`
	FollowUpAt *time.Time `json:"follow_up_at"`
	CreatedAt  time.Time  `json:"created_at"`
}
