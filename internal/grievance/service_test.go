package grievance_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gripeboard/service-api/internal/grievance"
	"github.com/gripeboard/service-api/internal/grievance/entity"
)

// memStore is an in-memory grievance.Store. Listings return newest-first to
// match the SQL implementation's ordering contract.
type memStore struct {
	mu   sync.Mutex
	rows []*entity.Grievance
}

func (m *memStore) Create(ctx context.Context, g *entity.Grievance) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	g.CreatedAt = time.Now()
	g.UpdatedAt = g.CreatedAt
	cp := *g
	// prepend: newest first
	m.rows = append([]*entity.Grievance{&cp}, m.rows...)
	return nil
}

func (m *memStore) ListByUser(ctx context.Context, userID string) ([]*entity.Grievance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*entity.Grievance{}
	for _, g := range m.rows {
		if g.UserID == userID {
			cp := *g
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memStore) ListAll(ctx context.Context) ([]*entity.Grievance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*entity.Grievance, 0, len(m.rows))
	for _, g := range m.rows {
		cp := *g
		out = append(out, &cp)
	}
	return out, nil
}

func TestSubmitValidation(t *testing.T) {
	svc := grievance.NewService(&memStore{})
	ctx := context.Background()

	cases := []struct {
		name                           string
		title, content, mood, severity string
	}{
		{"empty title", "", "c", "grumpy", "mild"},
		{"empty content", "t", "", "grumpy", "mild"},
		{"empty mood", "t", "c", "", "mild"},
		{"empty severity", "t", "c", "grumpy", ""},
		{"whitespace only", "   ", "c", "grumpy", "mild"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Submit(ctx, "u1", tc.title, tc.content, tc.mood, tc.severity); !errors.Is(err, grievance.ErrMissingField) {
				t.Fatalf("expected ErrMissingField, got %v", err)
			}
		})
	}
}

func TestSubmitAndList(t *testing.T) {
	store := &memStore{}
	svc := grievance.NewService(store)
	ctx := context.Background()

	g, err := svc.Submit(ctx, "u1", "Broken coffee machine", "It hisses at me.", "grumpy", "severe")
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if g.ID == "" {
		t.Fatal("expected a generated id")
	}
	if g.Reference == "" {
		t.Fatal("expected a reference code")
	}
	if g.UserID != "u1" {
		t.Fatalf("owner = %q, want u1", g.UserID)
	}

	if _, err := svc.Submit(ctx, "u2", "Loud keyboard", "Clack clack.", "annoyed", "mild"); err != nil {
		t.Fatalf("second submit failed: %v", err)
	}

	own, err := svc.ListOwn(ctx, "u1")
	if err != nil {
		t.Fatalf("list own failed: %v", err)
	}
	if len(own) != 1 || own[0].ID != g.ID {
		t.Fatalf("own listing = %+v", own)
	}

	all, err := svc.ListAll(ctx)
	if err != nil {
		t.Fatalf("list all failed: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("all listing has %d entries, want 2", len(all))
	}
	// newest first
	if all[0].Title != "Loud keyboard" {
		t.Fatalf("unexpected order: %q first", all[0].Title)
	}
}

func TestReferenceCodesDistinct(t *testing.T) {
	svc := grievance.NewService(&memStore{})
	ctx := context.Background()

	seen := map[string]bool{}
	for i := 0; i < 10; i++ {
		g, err := svc.Submit(ctx, "u1", "t", "c", "grumpy", "mild")
		if err != nil {
			t.Fatalf("submit failed: %v", err)
		}
		if seen[g.Reference] {
			t.Fatalf("reference code %q repeated", g.Reference)
		}
		seen[g.Reference] = true
	}
}
