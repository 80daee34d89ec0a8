// Package counseling records follow-up sessions teachers hold with at-risk
// students.
package counseling

import (
	"context"
	"time"

	"github.com/google/uuid"

	"dropwatch/internal/common"
)

// studentLookup is the slice of the students service this package needs.
type studentLookup interface {
	Exists(ctx context.Context, studentID int) (bool, error)
}

type Service struct {
	repo     Repository
	students studentLookup
}

func NewService(repo Repository, students studentLookup) *Service {
	return &Service{repo: repo, students: students}
}

// Add files a note for an existing student. followUpAt is optional,
// formatted as "2006-01-02".
func (s *Service) Add(ctx context.Context, studentID, teacherID int, notes, followUpAt string) (*Note, error) {
	if notes == "" {
		return nil, common.ErrValidation
	}

	ok, err := s.students.Exists(ctx, studentID)
	if err != nil {
		return nil, common.ErrInternal
	}
	if !ok {
		return nil, common.ErrNotFound
	}

	note := &Note{
		ID:        uuid.NewString(),
		StudentID: studentID,
		TeacherID: teacherID,
		Notes:     notes,
		CreatedAt: time.Now(),
	}

	if followUpAt != "" {
		at, err := time.Parse("2006-01-02", followUpAt)
		if err != nil {
			return nil, common.ErrValidation
		}
		note.FollowUpAt = &at
	}

	if err := s.repo.Create(ctx, note); err != nil {
		return nil, common.ErrInternal
	}

	return note, nil
}

// ListByStudent returns the notes filed for one student.
func (s *Service) ListByStudent(ctx context.Context, studentID int) ([]*Note, error) {
	return s.repo.ListByStudent(ctx, studentID)
}
