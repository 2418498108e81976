package user

import (
	"context"

	"github.com/gripeboard/service-api/internal/user/entity"
)

// Lister is the slice of user storage the listing service consumes.
type Lister interface {
	List(ctx context.Context) ([]*entity.User, error)
}

// Service exposes the registered-users listing for admin accounts. Access
// control happens at the handler; the service only shapes the data.
type Service struct {
	repo Lister
}

func NewService(repo Lister) *Service { return &Service{repo: repo} }

// List returns every registered user newest-first as the safe projection,
// with the password hash stripped.
func (s *Service) List(ctx context.Context) ([]*entity.PublicUser, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*entity.PublicUser, 0, len(rows))
	for _, u := range rows {
		out = append(out, u.Public())
	}
	return out, nil
}
