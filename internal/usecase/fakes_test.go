package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/duetags/duetags/internal/domain"
)

type fakeOrderRepo struct {
	orders    map[uuid.UUID]*domain.Order
	exports   map[uuid.UUID][]domain.LabelExport
	saveErr   error
	txErr     error
	saveCalls int
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{
		orders:  map[uuid.UUID]*domain.Order{},
		exports: map[uuid.UUID][]domain.LabelExport{},
	}
}

func (r *fakeOrderRepo) SaveWithExports(_ context.Context, o *domain.Order, exports []domain.LabelExport) error {
	if r.txErr != nil {
		return r.txErr
	}
	cp := *o
	r.orders[o.ID] = &cp
	r.exports[o.ID] = exports
	return nil
}

func (r *fakeOrderRepo) Save(_ context.Context, o *domain.Order) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saveCalls++
	cp := *o
	r.orders[o.ID] = &cp
	return nil
}

func (r *fakeOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*domain.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (r *fakeOrderRepo) ListByCustomer(_ context.Context, customerID uuid.UUID, _, _ int) ([]domain.Order, int64, error) {
	var out []domain.Order
	for _, o := range r.orders {
		if o.CustomerID != nil && *o.CustomerID == customerID {
			out = append(out, *o)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeOrderRepo) List(_ context.Context, f domain.OrderFilter) ([]domain.Order, int64, error) {
	var out []domain.Order
	for _, o := range r.orders {
		if f.Status != nil && o.Status != *f.Status {
			continue
		}
		out = append(out, *o)
	}
	return out, int64(len(out)), nil
}

func (r *fakeOrderRepo) ListInRange(_ context.Context, from, to time.Time) ([]domain.Order, error) {
	var out []domain.Order
	for _, o := range r.orders {
		if o.CreatedAt.Before(from) || o.CreatedAt.After(to) {
			continue
		}
		out = append(out, *o)
	}
	return out, nil
}

type fakeKitRepo struct {
	kits map[string]*domain.Kit
}

func newFakeKitRepo(kits ...*domain.Kit) *fakeKitRepo {
	r := &fakeKitRepo{kits: map[string]*domain.Kit{}}
	for _, k := range kits {
		r.kits[k.Slug] = k
	}
	return r
}

func (r *fakeKitRepo) Save(_ context.Context, k *domain.Kit) error {
	r.kits[k.Slug] = k
	return nil
}

func (r *fakeKitRepo) FindBySlug(_ context.Context, slug string) (*domain.Kit, error) {
	k, ok := r.kits[slug]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return k, nil
}

func (r *fakeKitRepo) FindByID(_ context.Context, id uuid.UUID) (*domain.Kit, error) {
	for _, k := range r.kits {
		if k.ID == id {
			return k, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeKitRepo) List(_ context.Context, _ domain.KitFilter) ([]domain.Kit, int64, error) {
	var out []domain.Kit
	for _, k := range r.kits {
		out = append(out, *k)
	}
	return out, int64(len(out)), nil
}

func (r *fakeKitRepo) AddImages(_ context.Context, kitID uuid.UUID, imgs []domain.Image) error {
	for _, k := range r.kits {
		if k.ID == kitID {
			k.Images = append(k.Images, imgs...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *fakeKitRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.kits)), nil
}

type fakeStorage struct {
	files   map[string][]byte
	removed []string
	saveErr error
	openErr error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{files: map[string][]byte{}}
}

func (s *fakeStorage) Save(_ context.Context, path string, data []byte) (string, error) {
	if s.saveErr != nil {
		return "", s.saveErr
	}
	s.files[path] = data
	return path, nil
}

func (s *fakeStorage) Open(_ context.Context, path string) ([]byte, error) {
	if s.openErr != nil {
		return nil, s.openErr
	}
	data, ok := s.files[path]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return data, nil
}

func (s *fakeStorage) Remove(_ context.Context, path string) error {
	s.removed = append(s.removed, path)
	delete(s.files, path)
	return nil
}

type fakeCharacterFetcher struct {
	data []byte
	err  error
	urls []string
}

func (f *fakeCharacterFetcher) Download(_ context.Context, url string) ([]byte, string, error) {
	if f.err != nil {
		return nil, "", f.err
	}
	f.urls = append(f.urls, url)
	return f.data, "image/png", nil
}

type fakeExportRepo struct {
	byOrder map[uuid.UUID][]domain.LabelExport
}

func (r *fakeExportRepo) ListByOrder(_ context.Context, orderID uuid.UUID) ([]domain.LabelExport, error) {
	return r.byOrder[orderID], nil
}

func (r *fakeExportRepo) DeleteByOrder(_ context.Context, orderID uuid.UUID) error {
	delete(r.byOrder, orderID)
	return nil
}

type fakeGateway struct {
	url      string
	prefID   string
	err      error
	received *domain.Order
}

func (g *fakeGateway) CreatePreference(_ context.Context, o *domain.Order) (string, error) {
	if g.err != nil {
		return "", g.err
	}
	g.received = o
	o.MPPreferenceID = g.prefID
	return g.url, nil
}

func (g *fakeGateway) PaymentInfo(_ context.Context, _ string) (string, string, error) {
	return "", "", errors.New("não usado")
}
