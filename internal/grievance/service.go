package grievance

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gripeboard/service-api/internal/grievance/entity"
	"github.com/gripeboard/service-api/pkg/utilities"
)

// ErrMissingField reports an empty required field on submission.
var ErrMissingField = errors.New("missing required field")

// Store is the slice of grievance storage the service consumes.
type Store interface {
	Create(ctx context.Context, g *entity.Grievance) error
	ListByUser(ctx context.Context, userID string) ([]*entity.Grievance, error)
	ListAll(ctx context.Context) ([]*entity.Grievance, error)
}

// Service handles grievance submission and listing. All operations act on
// behalf of an already-resolved user; authentication happens upstream.
type Service struct {
	store Store
}

func NewService(store Store) *Service { return &Service{store: store} }

// Submit validates and stores a new grievance for userID. The reference code
// is a short human-quotable identifier issued at create time.
func (s *Service) Submit(ctx context.Context, userID, title, content, mood, severity string) (*entity.Grievance, error) {
	for field, v := range map[string]string{
		"title": title, "content": content, "mood": mood, "severity": severity,
	} {
		if strings.TrimSpace(v) == "" {
			return nil, fmt.Errorf("%w: %s", ErrMissingField, field)
		}
	}

	g := &entity.Grievance{
		ID:        utilities.NewUUID(),
		UserID:    userID,
		Title:     title,
		Content:   content,
		Mood:      mood,
		Severity:  severity,
		Reference: utilities.NewReferenceCode(),
	}
	if err := s.store.Create(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

// ListOwn returns userID's grievances, newest first.
func (s *Service) ListOwn(ctx context.Context, userID string) ([]*entity.Grievance, error) {
	return s.store.ListByUser(ctx, userID)
}

// ListAll returns every user's grievances, newest first.
func (s *Service) ListAll(ctx context.Context) ([]*entity.Grievance, error) {
	return s.store.ListAll(ctx)
}
