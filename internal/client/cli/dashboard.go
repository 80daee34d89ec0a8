package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"sync"
	"text/tabwriter"

	"dropwatch/internal/client/aggregate"
	"dropwatch/internal/client/models"
	"dropwatch/internal/client/session"
)

// fetchStudents picks the records endpoint for the current role. Teachers
// see their own cohort; admins see everything.
func (a *App) fetchStudents(ctx context.Context) ([]models.StudentRecord, error) {
	rctx, cancel := a.requestCtx(ctx)
	defer cancel()

	if a.Route() == session.RouteAdminDashboard {
		return a.api.Students(rctx)
	}
	return a.api.TeacherStudents(rctx)
}

// Students lists the cohort, optionally filtered: students [term] [risk].
func (a *App) Students(ctx context.Context, args []string) error {
	records, err := a.fetchStudents(ctx)
	if err != nil {
		printlnFn("Error:", err.Error())
		return err
	}

	term := ""
	risk := aggregate.RiskFilterAll
	if len(args) > 0 {
		term = args[0]
	}
	if len(args) > 1 {
		risk = args[1]
	}

	filtered := aggregate.FilterStudents(records, term, risk)

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCOURSE\tATTENDANCE\tSCORE\tRISK")
	for _, r := range filtered {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			r.ID, r.FullName, r.Course,
			fmtNullable(r.Attendance), fmtNullable(r.AcademicScore), fmtLabel(r.RiskLabel))
	}
	tw.Flush()
	printlnFn(fmt.Sprintf("%d of %d students", len(filtered), len(records)))
	return nil
}

// Risks prints the risk-tier histogram and the cohort overview.
func (a *App) Risks(ctx context.Context) error {
	records, err := a.fetchStudents(ctx)
	if err != nil {
		printlnFn("Error:", err.Error())
		return err
	}

	for _, tc := range aggregate.RiskDistribution(records, a.tiers) {
		printlnFn(fmt.Sprintf("%-10s %d", tc.Tier, tc.Count))
	}

	o := aggregate.Summarize(records, "High", "Very High")
	printlnFn(fmt.Sprintf("total %d, high risk %d, avg attendance %d%%, avg score %d",
		o.Total, o.HighRisk, o.AvgAttendance, o.AvgScore))
	return nil
}

// Averages prints per-course means: averages [attendance|score].
func (a *App) Averages(ctx context.Context, args []string) error {
	records, err := a.fetchStudents(ctx)
	if err != nil {
		printlnFn("Error:", err.Error())
		return err
	}

	field := aggregate.FieldAttendance
	if len(args) > 0 && args[0] == "score" {
		field = aggregate.FieldAcademicScore
	}

	for _, row := range aggregate.AverageByCourse(records, field) {
		printlnFn(fmt.Sprintf("%-24s %.0f", row.Course, row.Average))
	}
	return nil
}

// Profile shows the logged-in student's own record and derived rates.
func (a *App) Profile(ctx context.Context) error {
	rctx, cancel := a.requestCtx(ctx)
	profile, err := a.api.MyProfile(rctx)
	cancel()
	if err != nil {
		printlnFn("Error:", err.Error())
		return err
	}

	printlnFn("Name:      ", profile.FullName)
	printlnFn("Course:    ", profile.Course)
	printlnFn("Attendance:", fmtNullable(profile.Attendance))
	printlnFn("Score:     ", fmtNullable(profile.AcademicScore))
	printlnFn("Risk:      ", fmtLabel(profile.RiskLabel))
	printlnFn(fmt.Sprintf("Approval rate: %d%%", aggregate.ApprovalRate(profile)))
	return nil
}

// Users renders the admin dashboard: the user list and the analytics block
// are fetched concurrently and joined before anything is printed.
func (a *App) Users(ctx context.Context) error {
	rctx, cancel := a.requestCtx(ctx)
	defer cancel()

	var (
		wg        sync.WaitGroup
		users     []models.User
		analytics models.Analytics
		usersErr  error
		statsErr  error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		users, usersErr = a.api.AdminUsers(rctx)
	}()
	go func() {
		defer wg.Done()
		analytics, statsErr = a.api.AdminAnalytics(rctx)
	}()
	wg.Wait()

	if usersErr != nil {
		printlnFn("Error:", usersErr.Error())
		return usersErr
	}
	if statsErr != nil {
		printlnFn("Error:", statsErr.Error())
		return statsErr
	}

	printlnFn(fmt.Sprintf("%d students, %d high risk, model %s",
		analytics.TotalStudents, analytics.HighRiskCount, analytics.ModelVersion))

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tEMAIL\tROLE")
	for _, u := range users {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", u.ID, u.Email, u.Role)
	}
	tw.Flush()
	return nil
}

// Counsel files a counseling note for a student.
func (a *App) Counsel(ctx context.Context) error {
	idText, err := getSimpleText(a.reader, "Student ID", os.Stdout)
	if err != nil {
		return err
	}
	studentID, err := strconv.Atoi(idText)
	if err != nil {
		printlnFn("Error: student ID must be a number")
		return nil
	}

	notes, err := GetMultiline(a.reader, "Notes", os.Stdout)
	if err != nil {
		return err
	}
	followUp, err := getSimpleText(a.reader, "Follow up at (YYYY-MM-DD, empty for none)", os.Stdout)
	if err != nil {
		return err
	}

	rctx, cancel := a.requestCtx(ctx)
	msg, err := a.api.AddCounseling(rctx, studentID, notes, followUp)
	cancel()
	if err != nil {
		printlnFn("Error:", err.Error())
		return err
	}
	printlnFn(msg)
	return nil
}

// Predict triggers a batch re-scoring on the server.
func (a *App) Predict(ctx context.Context) error {
	rctx, cancel := a.requestCtx(ctx)
	msg, err := a.api.BatchPredict(rctx)
	cancel()
	if err != nil {
		printlnFn("Error:", err.Error())
		return err
	}
	printlnFn(msg)
	return nil
}

// Upload sends a csv file: upload <path>.
func (a *App) Upload(ctx context.Context, args []string) error {
	if len(args) == 0 {
		printlnFn("Usage: upload <path>")
		return nil
	}

	f, err := os.Open(args[0])
	if err != nil {
		printlnFn("Error:", err.Error())
		return err
	}
	defer f.Close()

	rctx, cancel := a.requestCtx(ctx)
	msg, err := a.api.UploadCSV(rctx, f.Name(), f)
	cancel()
	if err != nil {
		printlnFn("Error:", err.Error())
		return err
	}
	printlnFn(msg)
	return nil
}

func fmtNullable(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func fmtLabel(v *string) string {
	if v == nil {
		return "-"
	}
	return *v
}
