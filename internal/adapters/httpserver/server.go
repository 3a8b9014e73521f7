package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"

	"github.com/duetags/duetags/internal/adapters/artfetch"
	"github.com/duetags/duetags/internal/adapters/payments/mercadopago"
	"github.com/duetags/duetags/internal/adapters/storage/localfs"
	"github.com/duetags/duetags/internal/domain"
	"github.com/duetags/duetags/internal/usecase"
)

type Server struct {
	mux       *http.ServeMux
	kits      *usecase.KitUC
	orders    *usecase.OrderUC
	payments  *usecase.PaymentUC
	exports   *usecase.ExportUC
	customers domain.CustomerRepo
	storage   domain.FileStorage
	signer    *localfs.Signer
	fetcher   *artfetch.Fetcher
	oauthCfg  *oauth2.Config

	adminAllowed map[string]struct{}
	adminSecret  []byte
}

var emailRe = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)

// signedURLTTL is how long an etiqueta download link stays valid.
const signedURLTTL = time.Hour

func New(k *usecase.KitUC, o *usecase.OrderUC, pay *usecase.PaymentUC, ex *usecase.ExportUC, customers domain.CustomerRepo, fs domain.FileStorage, signer *localfs.Signer, fetcher *artfetch.Fetcher, oauthCfg *oauth2.Config) http.Handler {
	s := &Server{
		mux:       http.NewServeMux(),
		kits:      k,
		orders:    o,
		payments:  pay,
		exports:   ex,
		customers: customers,
		storage:   fs,
		signer:    signer,
		fetcher:   fetcher,
		oauthCfg:  oauthCfg,
	}

	allowed := map[string]struct{}{}
	if raw := os.Getenv("ADMIN_ALLOWED_EMAILS"); raw != "" {
		for _, e := range strings.Split(raw, ",") {
			e = strings.ToLower(strings.TrimSpace(e))
			if e != "" {
				allowed[e] = struct{}{}
			}
		}
	}
	s.adminAllowed = allowed
	sec := os.Getenv("JWT_ADMIN_SECRET")
	if sec == "" {
		sec = os.Getenv("SECRET_KEY")
	}
	if sec == "" {
		sec = "dev-admin-secret"
	}
	s.adminSecret = []byte(sec)

	s.routes()
	return Chain(s.mux,
		PublicRateLimit(map[string]int{
			"/api/preview": 60,
			"/api/orders":  10,
			"/webhooks/mp": 30,
		}),
		RateLimit(120),
		SecurityHeaders,
		Gzip,
		RequestID,
		Recovery,
		Logging,
	)
}

func (s *Server) routes() {
	s.mux.Handle("/public/", http.StripPrefix("/public/", http.FileServer(http.Dir("public"))))

	s.mux.HandleFunc("/api/kits", s.apiKits)
	s.mux.HandleFunc("/api/kits/", s.apiKitByPath)
	s.mux.HandleFunc("/api/themes", s.apiThemes)
	s.mux.HandleFunc("/api/preview", s.apiPreview)

	s.mux.HandleFunc("/api/orders", s.apiCreateOrder)
	s.mux.HandleFunc("/api/orders/", s.apiOrderByPath)
	s.mux.HandleFunc("/api/my/orders", s.apiMyOrders)

	s.mux.HandleFunc("/webhooks/mp", s.webhookMP)
	s.mux.HandleFunc("/files/", s.handleSignedFile)

	s.mux.HandleFunc("/auth/register", s.handleRegister)
	s.mux.HandleFunc("/auth/login", s.handleLogin)
	s.mux.HandleFunc("/auth/logout", s.handleLogout)
	s.mux.HandleFunc("/auth/check", s.handleAuthCheck)
	s.mux.HandleFunc("/auth/google/login", s.handleGoogleLogin)
	s.mux.HandleFunc("/auth/google/callback", s.handleGoogleCallback)

	s.mux.HandleFunc("/admin/login", s.handleAdminLogin)
	s.mux.HandleFunc("/admin/orders", s.handleAdminOrders)
	s.mux.HandleFunc("/admin/orders/", s.handleAdminOrderByPath)
	s.mux.HandleFunc("/admin/sales.xlsx", s.handleAdminSalesXLSX)
	s.mux.HandleFunc("/admin/themes/artwork", s.handleAdminArtwork)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeErr maps domain sentinels onto HTTP status codes.
func writeErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalid):
		http.Error(w, err.Error(), 400)
	case errors.Is(err, domain.ErrUnauthorized):
		http.Error(w, "unauthorized", 401)
	case errors.Is(err, domain.ErrForbidden):
		http.Error(w, "forbidden", 403)
	case errors.Is(err, domain.ErrNotFound):
		http.Error(w, "não encontrado", 404)
	default:
		log.Error().Err(err).Msg("internal")
		http.Error(w, "internal", 500)
	}
}

func (s *Server) apiKits(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method", 405)
		return
	}
	q := r.URL.Query()
	f := domain.KitFilter{
		Query: strings.TrimSpace(q.Get("q")),
		Sort:  q.Get("sort"),
	}
	if p, err := strconv.Atoi(q.Get("page")); err == nil && p > 0 {
		f.Page = p
	}
	if tid := q.Get("theme_id"); tid != "" {
		if id, err := uuid.Parse(tid); err == nil {
			f.ThemeID = &id
		}
	}
	active := true
	f.Active = &active
	list, total, err := s.kits.List(r.Context(), f)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, 200, map[string]any{"kits": list, "total": total})
}

// apiKitByPath handles GET /api/kits/{slug} and GET /api/kits/{slug}/templates.
func (s *Server) apiKitByPath(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method", 405)
		return
	}
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/kits/"), "/")
	parts := strings.Split(rest, "/")
	slug := parts[0]
	if slug == "" {
		http.Error(w, "slug", 400)
		return
	}
	if len(parts) == 2 && parts[1] == "templates" {
		tpls, err := s.kits.Templates(r.Context(), slug)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, 200, map[string]any{"templates": tpls})
		return
	}
	if len(parts) != 1 {
		http.Error(w, "não encontrado", 404)
		return
	}
	kit, err := s.kits.GetBySlug(r.Context(), slug)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, 200, kit)
}

func (s *Server) apiThemes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method", 405)
		return
	}
	themes, err := s.kits.ListThemes(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, 200, map[string]any{"themes": themes})
}

func (s *Server) apiPreview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method", 405)
		return
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, 16<<10))
	var req struct {
		TemplateID    string               `json:"template_id"`
		Zoom          float64              `json:"zoom"`
		Customization domain.Customization `json:"customization"`
	}
	if err := dec.Decode(&req); err != nil {
		http.Error(w, "json", 400)
		return
	}
	rendered, err := s.kits.Preview(req.TemplateID, req.Customization, req.Zoom)
	if err != nil {
		writeErr(w, err)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, 200, rendered)
}

func (s *Server) apiCreateOrder(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method", 405)
		return
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, 256<<10))
	var req struct {
		Email string                    `json:"email"`
		Name  string                    `json:"name"`
		Phone string                    `json:"phone"`
		Lines []usecase.CreateOrderLine `json:"lines"`
	}
	if err := dec.Decode(&req); err != nil {
		http.Error(w, "json", 400)
		return
	}
	if !emailRe.MatchString(strings.TrimSpace(req.Email)) {
		http.Error(w, "email", 400)
		return
	}
	in := usecase.CreateOrderInput{
		Email: req.Email,
		Name:  req.Name,
		Phone: req.Phone,
		Lines: req.Lines,
	}
	if u := readUserSession(r); u != nil {
		in.CustomerID = &u.ID
	}
	o, err := s.orders.Create(r.Context(), in)
	if err != nil {
		writeErr(w, err)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, 201, o)
}

// apiOrderByPath handles GET /api/orders/{id} and POST /api/orders/{id}/pay.
func (s *Server) apiOrderByPath(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/orders/"), "/")
	parts := strings.Split(rest, "/")
	id, err := uuid.Parse(parts[0])
	if err != nil {
		http.Error(w, "id", 400)
		return
	}
	if len(parts) == 2 && parts[1] == "pay" {
		if r.Method != http.MethodPost {
			http.Error(w, "method", 405)
			return
		}
		url, o, err := s.payments.Checkout(r.Context(), id)
		if err != nil {
			if isGatewayErr(err) {
				http.Error(w, "payment gateway", 502)
				return
			}
			writeErr(w, err)
			return
		}
		w.Header().Set("Cache-Control", "no-store")
		writeJSON(w, 200, map[string]any{"init_point": url, "order_id": o.ID})
		return
	}
	if len(parts) != 1 || r.Method != http.MethodGet {
		http.Error(w, "method", 405)
		return
	}
	u := readUserSession(r)
	if u == nil {
		http.Error(w, "unauthorized", 401)
		return
	}
	o, err := s.orders.GetOwned(r.Context(), id, u.ID)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, 200, s.withSignedURLs(o))
}

func (s *Server) apiMyOrders(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method", 405)
		return
	}
	u := readUserSession(r)
	if u == nil {
		http.Error(w, "unauthorized", 401)
		return
	}
	page := 1
	if p, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && p > 0 {
		page = p
	}
	list, total, err := s.orders.ListByCustomer(r.Context(), u.ID, page, 20)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, 200, map[string]any{"orders": list, "total": total})
}

// withSignedURLs swaps stored paths for expiring download links.
func (s *Server) withSignedURLs(o *domain.Order) *domain.Order {
	if s.signer == nil {
		return o
	}
	cp := *o
	cp.EtiquetaURLs = make([]string, 0, len(o.EtiquetaURLs))
	for _, p := range o.EtiquetaURLs {
		cp.EtiquetaURLs = append(cp.EtiquetaURLs, s.signer.SignedPath(p, signedURLTTL))
	}
	return &cp
}

func (s *Server) handleSignedFile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method", 405)
		return
	}
	path := strings.TrimPrefix(r.URL.Path, "/files/")
	q := r.URL.Query()
	if s.signer == nil || !s.signer.Verify(path, q.Get("exp"), q.Get("sig")) {
		http.Error(w, "link expirado", 403)
		return
	}
	data, err := s.storage.Open(r.Context(), path)
	if err != nil {
		writeErr(w, err)
		return
	}
	if strings.HasSuffix(path, ".png") {
		w.Header().Set("Content-Type", "image/png")
	}
	w.Header().Set("Cache-Control", "private, no-store")
	_, _ = w.Write(data)
}

func (s *Server) webhookMP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method", 405)
		return
	}
	body, _ := io.ReadAll(io.LimitReader(r.Body, 65536))
	var evt struct {
		Type   string `json:"type"`
		Action string `json:"action"`
		Data   struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	_ = json.Unmarshal(body, &evt)
	payID := evt.Data.ID
	if payID == "" {
		payID = r.URL.Query().Get("id")
	}
	if payID == "" {
		log.Warn().Msg("webhook sem payment id")
		w.WriteHeader(200)
		return
	}
	status, extRef, err := s.payments.Gateway.PaymentInfo(r.Context(), payID)
	if err != nil {
		log.Error().Err(err).Str("payment_id", payID).Msg("payment info")
		w.WriteHeader(200)
		return
	}
	orderID, ok := mercadopago.VerifyExternalRef(extRef)
	if !ok {
		log.Warn().Str("ext", extRef).Msg("external ref inválida")
		w.WriteHeader(200)
		return
	}
	uid, err := uuid.Parse(orderID)
	if err != nil {
		w.WriteHeader(200)
		return
	}
	o, justPaid, err := s.orders.ApplyPaymentStatus(r.Context(), uid, status)
	if err != nil {
		log.Error().Err(err).Str("order_id", orderID).Msg("aplicar status do webhook")
		w.WriteHeader(200)
		return
	}
	if justPaid {
		go s.notifyOrder(o, notifyBoth)
	}
	w.WriteHeader(200)
}

func isGatewayErr(err error) bool {
	return err != nil &&
		!errors.Is(err, domain.ErrInvalid) &&
		!errors.Is(err, domain.ErrNotFound) &&
		(strings.Contains(err.Error(), "mercadopago") || strings.Contains(err.Error(), "mp pref") || strings.Contains(err.Error(), "conexão"))
}
