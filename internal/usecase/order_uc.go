package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/duetags/duetags/internal/catalog"
	"github.com/duetags/duetags/internal/domain"
	"github.com/duetags/duetags/internal/layout"
	"github.com/duetags/duetags/internal/render"
)

// exportZoom is the raster scale for production PNGs (2x the on-screen size).
const exportZoom = 2.0

// CharacterFetcher downloads the character image committed in the editor. The
// adapter behind it validates content type and size.
type CharacterFetcher interface {
	Download(ctx context.Context, url string) ([]byte, string, error)
}

type OrderUC struct {
	Orders     domain.OrderRepo
	Kits       domain.KitRepo
	Catalog    *catalog.Catalog
	Storage    domain.FileStorage
	Characters CharacterFetcher
}

type CreateOrderLine struct {
	KitSlug        string                          `json:"kit_slug"`
	Qty            int                             `json:"qty"`
	Customizations map[string]domain.Customization `json:"customizations"`
}

type CreateOrderInput struct {
	CustomerID *uuid.UUID
	Email      string
	Name       string
	Phone      string
	Lines      []CreateOrderLine
}

// Create validates the cart, renders every personalized label to PNG, stores
// the exports and persists order+items+exports in one transaction. Files
// already stored are removed when the transaction fails, so no orphans stay
// in the bucket.
func (uc *OrderUC) Create(ctx context.Context, in CreateOrderInput) (*domain.Order, error) {
	if strings.TrimSpace(in.Email) == "" || strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: email e nome obrigatórios", domain.ErrInvalid)
	}
	if len(in.Lines) == 0 {
		return nil, fmt.Errorf("%w: carrinho vazio", domain.ErrInvalid)
	}

	o := &domain.Order{
		ID:         uuid.New(),
		CustomerID: in.CustomerID,
		Status:     domain.OrderStatusPending,
		Email:      strings.ToLower(strings.TrimSpace(in.Email)),
		Name:       strings.TrimSpace(in.Name),
		Phone:      strings.TrimSpace(in.Phone),
	}

	var exports []domain.LabelExport
	var stored []string
	cleanup := func() {
		for _, p := range stored {
			if err := uc.Storage.Remove(ctx, p); err != nil {
				log.Warn().Err(err).Str("path", p).Msg("limpeza de export órfão")
			}
		}
	}

	for i, line := range in.Lines {
		kit, err := uc.Kits.FindBySlug(ctx, line.KitSlug)
		if err != nil {
			cleanup()
			return nil, err
		}
		spec, ok := uc.Catalog.Kit(kit.Slug)
		if !ok {
			cleanup()
			return nil, fmt.Errorf("%w: kit %s fora do catálogo", domain.ErrInvalid, kit.Slug)
		}
		qty := line.Qty
		if qty <= 0 {
			qty = 1
		}
		if err := validateCustomizations(spec, line.Customizations); err != nil {
			cleanup()
			return nil, err
		}
		if o.KitID == uuid.Nil {
			o.KitID = kit.ID
		}

		item := domain.OrderItem{
			ID:             uuid.New(),
			OrderID:        o.ID,
			KitID:          &kit.ID,
			Title:          kit.Name,
			Qty:            qty,
			UnitPrice:      kit.Price,
			Customizations: line.Customizations,
		}
		o.Items = append(o.Items, item)
		o.Total += kit.Price * float64(qty)

		for _, kl := range spec.Labels {
			c, ok := line.Customizations[kl.Template]
			if !ok {
				continue // template left blank, nothing to print
			}
			tpl, _ := uc.Catalog.Template(kl.Template)
			path, err := uc.exportLabel(ctx, o.ID, i+1, tpl, c)
			if err != nil {
				cleanup()
				return nil, err
			}
			stored = append(stored, path)
			exports = append(exports, domain.LabelExport{
				ID:         uuid.New(),
				OrderID:    o.ID,
				TemplateID: tpl.ID,
				Path:       path,
				CreatedAt:  time.Now(),
			})
			o.EtiquetaURLs = append(o.EtiquetaURLs, path)
		}
	}

	if err := uc.Orders.SaveWithExports(ctx, o, exports); err != nil {
		cleanup()
		return nil, err
	}
	return o, nil
}

func (uc *OrderUC) exportLabel(ctx context.Context, orderID uuid.UUID, lineNo int, tpl layout.Template, c domain.Customization) (string, error) {
	r := layout.Layout(tpl, toLayoutCustomization(c), exportZoom)
	opts := render.Options{
		Background: c.BackgroundColor,
		TextColor:  c.TextColor,
	}
	if c.CharacterURL != "" && uc.Characters != nil {
		img, _, err := uc.Characters.Download(ctx, c.CharacterURL)
		if err != nil {
			return "", fmt.Errorf("%w: personagem inacessível: %v", domain.ErrInvalid, err)
		}
		opts.Character = img
	}
	data, err := render.PNG(r, opts)
	if err != nil {
		return "", fmt.Errorf("render %s: %w", tpl.ID, err)
	}
	// the line number keeps two personalizations of the same kit apart
	path := fmt.Sprintf("%s/%d-%s.png", orderID, lineNo, tpl.ID)
	return uc.Storage.Save(ctx, path, data)
}

func validateCustomizations(spec catalog.KitSpec, cs map[string]domain.Customization) error {
	templates := map[string]struct{}{}
	for _, kl := range spec.Labels {
		templates[kl.Template] = struct{}{}
	}
	for id, c := range cs {
		if _, ok := templates[id]; !ok {
			return fmt.Errorf("%w: template %s não pertence ao kit %s", domain.ErrInvalid, id, spec.Slug)
		}
		for f, v := range c.Fields {
			if len([]rune(v)) > layout.MaxFieldLen {
				return fmt.Errorf("%w: campo %s excede %d caracteres", domain.ErrInvalid, f, layout.MaxFieldLen)
			}
		}
	}
	return nil
}

func (uc *OrderUC) Get(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return uc.Orders.FindByID(ctx, id)
}

// GetOwned fetches an order enforcing that it belongs to the customer.
func (uc *OrderUC) GetOwned(ctx context.Context, id, customerID uuid.UUID) (*domain.Order, error) {
	o, err := uc.Orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.CustomerID == nil || *o.CustomerID != customerID {
		return nil, domain.ErrForbidden
	}
	return o, nil
}

func (uc *OrderUC) ListByCustomer(ctx context.Context, customerID uuid.UUID, page, pageSize int) ([]domain.Order, int64, error) {
	if pageSize <= 0 {
		pageSize = 20
	}
	return uc.Orders.ListByCustomer(ctx, customerID, page, pageSize)
}

func (uc *OrderUC) List(ctx context.Context, f domain.OrderFilter) ([]domain.Order, int64, error) {
	if f.PageSize <= 0 {
		f.PageSize = 20
	}
	return uc.Orders.List(ctx, f)
}

// UpdateStatus applies an admin status change, enforcing the machine.
func (uc *OrderUC) UpdateStatus(ctx context.Context, id uuid.UUID, to domain.OrderStatus) (*domain.Order, error) {
	o, err := uc.Orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.CanTransition(o.Status, to) {
		return nil, fmt.Errorf("%w: %s → %s", domain.ErrInvalid, o.Status, to)
	}
	o.Status = to
	if err := uc.Orders.Save(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// ApplyPaymentStatus maps a gateway payment status onto the order. It
// returns whether the order just became paid (first approval only, so the
// caller notifies exactly once).
func (uc *OrderUC) ApplyPaymentStatus(ctx context.Context, id uuid.UUID, mpStatus string) (*domain.Order, bool, error) {
	o, err := uc.Orders.FindByID(ctx, id)
	if err != nil {
		return nil, false, err
	}
	justPaid := false
	switch mpStatus {
	case "approved":
		o.MPStatus = "approved"
		if domain.CanTransition(o.Status, domain.OrderStatusPaid) {
			o.Status = domain.OrderStatusPaid
		}
		// a late approval on a cancelled order must not trigger production
		if o.Status == domain.OrderStatusPaid && !o.Notified {
			o.Notified = true
			justPaid = true
		}
	case "pending", "in_process", "in_mediation":
		o.MPStatus = mpStatus
		if o.Status == domain.OrderStatusPending {
			o.Status = domain.OrderStatusAwaitingPay
		}
	case "rejected", "cancelled":
		o.MPStatus = mpStatus
		if domain.CanTransition(o.Status, domain.OrderStatusCancelled) && o.Status != domain.OrderStatusPaid {
			o.Status = domain.OrderStatusCancelled
		}
	default:
		o.MPStatus = mpStatus
	}
	if err := uc.Orders.Save(ctx, o); err != nil {
		return nil, false, err
	}
	return o, justPaid, nil
}
