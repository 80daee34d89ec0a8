package students

// Student is one academic record. Attendance, AcademicScore and RiskLabel
// are pointers because imported rows may miss them; a nil RiskLabel means
// the student has not been scored yet.
type Student struct {
	ID            int      `json:"id"`
	Email         string   `json:"email"`
	FullName      string   `json:"full_name"`
	Course        string   `json:"course"`
	Attendance    *float64 `json:"attendance"`
	AcademicScore *float64 `json:"academic_score"`
	RiskLabel     *string  `json:"risk_label"`

	Grade                         float64 `json:"grade"`
	CurricularUnits1stSemEnrolled int     `json:"curricular_units_1st_sem_enrolled"`
	CurricularUnits1stSemApproved int     `json:"curricular_units_1st_sem_approved"`
	CurricularUnits2ndSemEnrolled int     `json:"curricular_units_2nd_sem_enrolled"`
	CurricularUnits2ndSemApproved int     `json:"curricular_units_2nd_sem_approved"`
}

// Analytics is the summary block on the admin dashboard.
type Analytics struct {
	TotalStudents int    `json:"total_students"`
	HighRiskCount int    `json:"high_risk_count"`
	ModelVersion  string `json:"model_version"`
}
