// Package models defines the data shapes the client receives from the
// DropWatch API. Records are immutable snapshots: every fetch replaces the
// previous collection wholesale, there is no incremental merge.
package models

// StudentRecord is one row of the fetched student collection. Attendance,
// AcademicScore and RiskLabel are pointers because the backend reports null
// for students that have not been scored yet.
type StudentRecord struct {
	ID            int      `json:"id"`
	FullName      string   `json:"full_name"`
	Course        string   `json:"course"`
	Attendance    *float64 `json:"attendance"`
	AcademicScore *float64 `json:"academic_score"`
	RiskLabel     *string  `json:"risk_label"`
}

// StudentProfile is the authenticated student's own record, including the
// per-semester curricular unit counters used for the approval-rate ring.
type StudentProfile struct {
	StudentRecord
	Grade                         float64 `json:"grade"`
	CurricularUnits1stSemEnrolled int     `json:"curricular_units_1st_sem_enrolled"`
	CurricularUnits1stSemApproved int     `json:"curricular_units_1st_sem_approved"`
	CurricularUnits2ndSemEnrolled int     `json:"curricular_units_2nd_sem_enrolled"`
	CurricularUnits2ndSemApproved int     `json:"curricular_units_2nd_sem_approved"`
}

// User is an account row as listed on the admin dashboard.
type User struct {
	ID    int    `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Analytics is the admin summary block.
type Analytics struct {
	TotalStudents int    `json:"total_students"`
	HighRiskCount int    `json:"high_risk_count"`
	ModelVersion  string `json:"model_version"`
}
