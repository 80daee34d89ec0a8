package server

import (
	"context"
	"fmt"

	"dropwatch/internal/server/students"
	"dropwatch/internal/server/users"
)

// seed creates a demo cohort and one account per role so a fresh server is
// usable immediately. All demo passwords are "password".
func (app *App) seed(ctx context.Context) error {
	accounts := []struct {
		username, email, role string
	}{
		{"admin", "admin@gmail.com", users.RoleAdmin},
		{"teacher", "teacher@gmail.com", users.RoleTeacher},
		{"ana", "ana.silva@gmail.com", users.RoleStudent},
	}
	for _, a := range accounts {
		if _, err := app.userService.Register(ctx, a.username, a.email, "password", a.role); err != nil {
			return fmt.Errorf("seeding user %s: %w", a.email, err)
		}
	}

	ptr := func(v float64) *float64 { return &v }
	label := func(s string) *string { return &s }

	cohort := []*students.Student{
		{
			Email: "ana.silva@gmail.com", FullName: "Ana Silva", Course: "Computer Science",
			Attendance: ptr(92), AcademicScore: ptr(85), RiskLabel: label("Low"), Grade: 15.2,
			CurricularUnits1stSemEnrolled: 6, CurricularUnits1stSemApproved: 6,
			CurricularUnits2ndSemEnrolled: 6, CurricularUnits2ndSemApproved: 5,
		},
		{
			Email: "bruno.costa@gmail.com", FullName: "Bruno Costa", Course: "Mathematics",
			Attendance: ptr(61), AcademicScore: ptr(52), RiskLabel: label("Medium"), Grade: 10.8,
			CurricularUnits1stSemEnrolled: 6, CurricularUnits1stSemApproved: 3,
			CurricularUnits2ndSemEnrolled: 5, CurricularUnits2ndSemApproved: 2,
		},
		{
			Email: "carla.mendes@gmail.com", FullName: "Carla Mendes", Course: "Computer Science",
			Attendance: ptr(38), AcademicScore: ptr(41), RiskLabel: label("High"), Grade: 8.3,
			CurricularUnits1stSemEnrolled: 6, CurricularUnits1stSemApproved: 1,
			CurricularUnits2ndSemEnrolled: 4, CurricularUnits2ndSemApproved: 0,
		},
		{
			Email: "duarte.lopes@gmail.com", FullName: "Duarte Lopes", Course: "Economics",
		},
	}
	for _, st := range cohort {
		if _, err := app.studentRepo.Create(ctx, st); err != nil {
			return fmt.Errorf("seeding student %s: %w", st.Email, err)
		}
	}

	app.logger.Info(ctx, "seeded demo data", "users", len(accounts), "students", len(cohort))
	return nil
}
