package students

import (
	"context"
)

type Repository interface {
	Create(ctx context.Context, student *Student) (*Student, error)
	List(ctx context.Context) ([]*Student, error)
	GetByID(ctx context.Context, id int) (*Student, error)
	GetByEmail(ctx context.Context, email string) (*Student, error)
	UpdateRiskLabel(ctx context.Context, id int, label string) error
}
