package plan

import "context"

type Repository interface {
	Create(ctx context.Context, p *Plan) error
	GetAll(ctx context.Context, activeOnly bool) ([]Plan, error)
	GetByID(ctx context.Context, id int) (*Plan, error)
	GetByName(ctx context.Context, name string) (*Plan, error)
	Deactivate(ctx context.Context, id int) error
}
