// Package aggregate derives dashboard views from a fetched student
// collection. Every function is a pure, synchronous transformation of its
// input: nothing here is cached or incrementally updated, the caller
// recomputes from the current snapshot on every render.
package aggregate

import (
	"math"
	"sort"
	"strings"

	"dropwatch/internal/client/models"
)

// TierSet is the ordered set of risk tiers a deployment reports. The tier
// vocabulary differs between model versions, so it is configuration rather
// than an enum.
type TierSet []string

// DefaultTiers matches the three-tier model output.
var DefaultTiers = TierSet{"High", "Medium", "Low"}

// ExtendedTiers matches the five-tier model output.
var ExtendedTiers = TierSet{"Very High", "High", "Moderate", "Low", "Minimal"}

// TierCount is one histogram bucket of RiskDistribution.
type TierCount struct {
	Tier  string `json:"tier"`
	Count int    `json:"count"`
}

// CourseAverage is one row of AverageByCourse.
type CourseAverage struct {
	Course  string  `json:"course"`
	Average float64 `json:"average"`
}

// Field selects which numeric attribute AverageByCourse folds over.
type Field int

const (
	FieldAttendance Field = iota
	FieldAcademicScore
)

func (f Field) value(r models.StudentRecord) *float64 {
	if f == FieldAttendance {
		return r.Attendance
	}
	return r.AcademicScore
}

// RiskFilterAll is the sentinel risk filter that matches every record.
const RiskFilterAll = "all"

// RiskDistribution counts records per risk tier. Every tier of the set
// appears in the result, in set order, even with a zero count. Records whose
// label is missing or not in the set are counted nowhere.
func RiskDistribution(records []models.StudentRecord, tiers TierSet) []TierCount {
	counts := make(map[string]int, len(tiers))
	for _, t := range tiers {
		counts[t] = 0
	}
	for _, r := range records {
		if r.RiskLabel == nil {
			continue
		}
		if _, ok := counts[*r.RiskLabel]; ok {
			counts[*r.RiskLabel]++
		}
	}

	out := make([]TierCount, 0, len(tiers))
	for _, t := range tiers {
		out = append(out, TierCount{Tier: t, Count: counts[t]})
	}
	return out
}

// AverageByCourse groups records by course (missing course goes into the
// literal "Unknown" group) and averages the selected field over records
// where it is non-null. A group with no contributing records averages to 0
// rather than NaN. Output is sorted by course name.
func AverageByCourse(records []models.StudentRecord, field Field) []CourseAverage {
	type acc struct {
		total float64
		count int
	}
	groups := make(map[string]*acc)
	order := make([]string, 0)

	for _, r := range records {
		course := r.Course
		if course == "" {
			course = "Unknown"
		}
		g, ok := groups[course]
		if !ok {
			g = &acc{}
			groups[course] = g
			order = append(order, course)
		}
		if v := field.value(r); v != nil {
			g.total += *v
			g.count++
		}
	}

	sort.Strings(order)

	out := make([]CourseAverage, 0, len(order))
	for _, course := range order {
		g := groups[course]
		avg := 0.0
		if g.count > 0 {
			avg = math.Round(g.total / float64(g.count))
		}
		out = append(out, CourseAverage{Course: course, Average: avg})
	}
	return out
}

// FilterStudents applies the dashboard search box and risk dropdown.
// searchTerm matches case-insensitively as a substring of full name OR
// course; the empty term matches everything. riskFilter is either
// RiskFilterAll or an exact risk label. Both predicates are ANDed and input
// order is preserved.
func FilterStudents(records []models.StudentRecord, searchTerm, riskFilter string) []models.StudentRecord {
	term := strings.ToLower(searchTerm)

	out := make([]models.StudentRecord, 0, len(records))
	for _, r := range records {
		matchesSearch := term == "" ||
			strings.Contains(strings.ToLower(r.FullName), term) ||
			strings.Contains(strings.ToLower(r.Course), term)

		matchesRisk := riskFilter == RiskFilterAll ||
			(r.RiskLabel != nil && *r.RiskLabel == riskFilter)

		if matchesSearch && matchesRisk {
			out = append(out, r)
		}
	}
	return out
}

// ApprovalRate returns the percentage of enrolled curricular units the
// student passed across both semesters. The denominator is floored at 1 so
// a profile with no enrolled units yields 0 instead of propagating a
// division by zero into the UI.
func ApprovalRate(p models.StudentProfile) int {
	approved := p.CurricularUnits1stSemApproved + p.CurricularUnits2ndSemApproved
	enrolled := p.CurricularUnits1stSemEnrolled + p.CurricularUnits2ndSemEnrolled
	if enrolled < 1 {
		enrolled = 1
	}
	return int(math.Round(100 * float64(approved) / float64(enrolled)))
}

// Overview is the cohort-level summary strip on the teacher dashboard.
type Overview struct {
	Total         int
	HighRisk      int
	AvgAttendance int
	AvgScore      int
}

// Summarize computes the overview numbers. highTiers names the labels that
// count as high risk (e.g. "High", "Very High"). Averages treat missing
// values as zero, matching the source dashboards.
func Summarize(records []models.StudentRecord, highTiers ...string) Overview {
	o := Overview{Total: len(records)}
	if len(records) == 0 {
		return o
	}

	var attTotal, scoreTotal float64
	for _, r := range records {
		if r.RiskLabel != nil {
			for _, t := range highTiers {
				if *r.RiskLabel == t {
					o.HighRisk++
					break
				}
			}
		}
		if r.Attendance != nil {
			attTotal += *r.Attendance
		}
		if r.AcademicScore != nil {
			scoreTotal += *r.AcademicScore
		}
	}

	n := float64(len(records))
	o.AvgAttendance = int(math.Round(attTotal / n))
	o.AvgScore = int(math.Round(scoreTotal / n))
	return o
}
