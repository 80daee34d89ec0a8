// Package students serves academic records, dashboard analytics and the
// batch risk scoring that stands in for the trained model.
package students

import (
	"context"
	"errors"
	"fmt"

	"dropwatch/internal/common"
	"dropwatch/internal/server/config"
)

type Service struct {
	repo         Repository
	modelVersion string
}

func NewService(repo Repository, cfg *config.Config) *Service {
	return &Service{repo: repo, modelVersion: cfg.ModelVersion}
}

func (s *Service) List(ctx context.Context) ([]*Student, error) {
	return s.repo.List(ctx)
}

// GetByEmail finds the record linked to a user account, for the student's
// own profile view.
func (s *Service) GetByEmail(ctx context.Context, email string) (*Student, error) {
	student, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, err
		}
		return nil, common.ErrInternal
	}
	return student, nil
}

// Exists reports whether a student record with the given ID is present.
func (s *Service) Exists(ctx context.Context, id int) (bool, error) {
	_, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Analytics summarizes the cohort. High risk means a label of "High" or
// "Very High".
func (s *Service) Analytics(ctx context.Context) (*Analytics, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, common.ErrInternal
	}

	highRisk := 0
	for _, st := range list {
		if st.RiskLabel != nil && (*st.RiskLabel == "High" || *st.RiskLabel == "Very High") {
			highRisk++
		}
	}

	return &Analytics{
		TotalStudents: len(list),
		HighRiskCount: highRisk,
		ModelVersion:  s.modelVersion,
	}, nil
}

// scoreRisk assigns a tier from attendance and academic score. Students
// missing either signal are left unscored.
func scoreRisk(st *Student) (string, bool) {
	if st.Attendance == nil || st.AcademicScore == nil {
		return "", false
	}

	switch {
	case *st.Attendance < 50 || *st.AcademicScore < 40:
		return "High", true
	case *st.Attendance < 75 || *st.AcademicScore < 60:
		return "Medium", true
	default:
		return "Low", true
	}
}

// BatchPredict re-scores every student and stores the labels. Returns the
// number of records updated.
func (s *Service) BatchPredict(ctx context.Context) (int, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return 0, common.ErrInternal
	}

	updated := 0
	for _, st := range list {
		label, ok := scoreRisk(st)
		if !ok {
			continue
		}
		if err := s.repo.UpdateRiskLabel(ctx, st.ID, label); err != nil {
			return updated, fmt.Errorf("updating student %d: %w", st.ID, err)
		}
		updated++
	}

	return updated, nil
}
