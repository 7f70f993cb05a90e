package patient

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

type memRepo struct {
	patients map[uuid.UUID]*Patient
}

func newMemRepo() *memRepo {
	return &memRepo{patients: make(map[uuid.UUID]*Patient)}
}

func (r *memRepo) Create(_ context.Context, p *Patient) error {
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	c := *p
	r.patients[p.ID] = &c
	return nil
}

func (r *memRepo) GetByID(_ context.Context, id uuid.UUID) (*Patient, error) {
	p, ok := r.patients[id]
	if !ok {
		return nil, ErrNotFound
	}
	c := *p
	return &c, nil
}

func (r *memRepo) Update(_ context.Context, p *Patient) error {
	if _, ok := r.patients[p.ID]; !ok {
		return ErrNotFound
	}
	c := *p
	r.patients[p.ID] = &c
	return nil
}

func (r *memRepo) Search(_ context.Context, query string, limit, offset int) ([]*Patient, int, error) {
	var items []*Patient
	q := strings.ToLower(query)
	for _, p := range r.patients {
		if query == "" || strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(p.Phone, query) {
			c := *p
			items = append(items, &c)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	total := len(items)
	if offset > len(items) {
		offset = len(items)
	}
	items = items[offset:]
	if limit < len(items) {
		items = items[:limit]
	}
	return items, total, nil
}

func TestRegister(t *testing.T) {
	svc := NewService(newMemRepo())
	ctx := context.Background()

	p, err := svc.Register(ctx, RegisterRequest{Name: "  Ama Boateng ", Phone: "0244000001"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if p.Name != "Ama Boateng" {
		t.Errorf("name = %q, want trimmed %q", p.Name, "Ama Boateng")
	}
	if p.ID == uuid.Nil {
		t.Error("expected an assigned id")
	}

	if _, err := svc.Register(ctx, RegisterRequest{Phone: "0244000002"}); !errors.Is(err, ErrValidation) {
		t.Errorf("missing name: err = %v, want ErrValidation", err)
	}
	if _, err := svc.Register(ctx, RegisterRequest{Name: "Kofi"}); !errors.Is(err, ErrValidation) {
		t.Errorf("missing phone: err = %v, want ErrValidation", err)
	}
}

func TestUpdate(t *testing.T) {
	svc := NewService(newMemRepo())
	ctx := context.Background()

	p, err := svc.Register(ctx, RegisterRequest{Name: "Kofi Asante", Phone: "0244000003"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	email := "kofi@example.com"
	updated, err := svc.Update(ctx, p.ID, RegisterRequest{Name: "Kofi Asante", Phone: "0244999999", Email: &email})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Phone != "0244999999" {
		t.Errorf("phone = %q, want 0244999999", updated.Phone)
	}
	if updated.Email == nil || *updated.Email != email {
		t.Errorf("email = %v, want %q", updated.Email, email)
	}

	if _, err := svc.Update(ctx, uuid.New(), RegisterRequest{Name: "X", Phone: "1"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown patient: err = %v, want ErrNotFound", err)
	}
}

func TestSearch(t *testing.T) {
	svc := NewService(newMemRepo())
	ctx := context.Background()

	names := []string{"Ama Boateng", "Kofi Asante", "Akosua Mensah"}
	for i, name := range names {
		if _, err := svc.Register(ctx, RegisterRequest{Name: name, Phone: "024400000" + string(rune('0'+i))}); err != nil {
			t.Fatalf("Register %s: %v", name, err)
		}
	}

	results, total, err := svc.Search(ctx, "a", 20, 0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if total != 3 {
		t.Errorf("total = %d, want 3", total)
	}
	if len(results) != 3 {
		t.Errorf("len = %d, want 3", len(results))
	}

	results, total, err = svc.Search(ctx, "kofi", 20, 0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if total != 1 || results[0].Name != "Kofi Asante" {
		t.Errorf("search kofi = %v (total %d), want the one match", results, total)
	}

	_, total, err = svc.Search(ctx, "", 2, 0)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if total != 3 {
		t.Errorf("empty query total = %d, want 3", total)
	}
}
