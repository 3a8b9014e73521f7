package httpserver

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/duetags/duetags/internal/domain"
)

func (s *Server) handleAdminOrders(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "method", 405)
		return
	}
	q := r.URL.Query()
	f := domain.OrderFilter{}
	if p, err := strconv.Atoi(q.Get("page")); err == nil && p > 0 {
		f.Page = p
	}
	if st := q.Get("status"); st != "" {
		status := domain.OrderStatus(st)
		f.Status = &status
	}
	if mp := q.Get("mp_status"); mp != "" {
		f.MPStatus = &mp
	}
	list, total, err := s.orders.List(r.Context(), f)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, 200, map[string]any{"orders": list, "total": total})
}

// handleAdminOrderByPath routes /admin/orders/{id}/{status|zip|notify}.
func (s *Server) handleAdminOrderByPath(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/admin/orders/"), "/")
	parts := strings.Split(rest, "/")
	if len(parts) != 2 {
		http.Error(w, "não encontrado", 404)
		return
	}
	id, err := uuid.Parse(parts[0])
	if err != nil {
		http.Error(w, "id", 400)
		return
	}
	switch parts[1] {
	case "status":
		s.adminOrderStatus(w, r, id)
	case "zip":
		s.adminOrderZip(w, r, id)
	case "notify":
		s.adminOrderNotify(w, r, id)
	default:
		http.Error(w, "não encontrado", 404)
	}
}

func (s *Server) adminOrderStatus(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	if r.Method != http.MethodPost {
		http.Error(w, "method", 405)
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(io.LimitReader(r.Body, 1024)).Decode(&req); err != nil {
		http.Error(w, "json", 400)
		return
	}
	o, err := s.orders.UpdateStatus(r.Context(), id, domain.OrderStatus(req.Status))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, 200, o)
}

func (s *Server) adminOrderZip(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	if r.Method != http.MethodGet {
		http.Error(w, "method", 405)
		return
	}
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="etiquetas-%s.zip"`, id))
	if err := s.exports.ZipOrder(r.Context(), id, w); err != nil {
		// headers may be gone already, just log
		log.Error().Err(err).Str("order_id", id.String()).Msg("zip do pedido")
	}
}

func (s *Server) adminOrderNotify(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	if r.Method != http.MethodPost {
		http.Error(w, "method", 405)
		return
	}
	var req struct {
		Target string `json:"target"` // production | client | both
	}
	if err := json.NewDecoder(io.LimitReader(r.Body, 1024)).Decode(&req); err != nil {
		http.Error(w, "json", 400)
		return
	}
	var target notifyTarget
	switch req.Target {
	case "production":
		target = notifyProduction
	case "client":
		target = notifyClient
	case "both", "":
		target = notifyBoth
	default:
		http.Error(w, "target", 400)
		return
	}
	o, err := s.orders.Get(r.Context(), id)
	if err != nil {
		writeErr(w, err)
		return
	}
	s.notifyOrder(o, target)
	writeJSON(w, 200, map[string]any{"ok": true})
}

func (s *Server) handleAdminSalesXLSX(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "method", 405)
		return
	}
	q := r.URL.Query()
	const layoutIn = "2006-01-02"
	to := time.Now()
	if ds := q.Get("to"); ds != "" {
		if t, err := time.Parse(layoutIn, ds); err == nil {
			to = t
		}
	}
	from := to.AddDate(0, 0, -29)
	if ds := q.Get("from"); ds != "" {
		if t, err := time.Parse(layoutIn, ds); err == nil {
			from = t
		}
	}
	if from.After(to) {
		from, to = to, from
	}
	f, err := s.exports.OrdersXLSX(r.Context(), from, to)
	if err != nil {
		writeErr(w, err)
		return
	}
	defer f.Close()
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="pedidos-%s-%s.xlsx"`, from.Format(layoutIn), to.Format(layoutIn)))
	if err := f.Write(w); err != nil {
		log.Error().Err(err).Msg("escrever xlsx")
	}
}

// handleAdminArtwork imports theme art from a licensed page URL.
func (s *Server) handleAdminArtwork(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "method", 405)
		return
	}
	var req struct {
		ThemeSlug string `json:"theme_slug"`
		PageURL   string `json:"page_url"`
		Max       int    `json:"max"`
	}
	if err := json.NewDecoder(io.LimitReader(r.Body, 4096)).Decode(&req); err != nil {
		http.Error(w, "json", 400)
		return
	}
	theme, err := s.kits.Themes.FindBySlug(r.Context(), req.ThemeSlug)
	if err != nil {
		writeErr(w, err)
		return
	}
	urls, err := s.fetcher.PageImages(r.Context(), req.PageURL, req.Max)
	if err != nil {
		http.Error(w, err.Error(), 502)
		return
	}
	var saved []string
	for i, u := range urls {
		data, ct, err := s.fetcher.Download(r.Context(), u)
		if err != nil {
			log.Warn().Err(err).Str("url", u).Msg("download de arte")
			continue
		}
		path := fmt.Sprintf("themes/%s/arte-%d%s", theme.Slug, i+1, extForContentType(ct))
		if _, err := s.storage.Save(r.Context(), path, data); err != nil {
			writeErr(w, err)
			return
		}
		saved = append(saved, path)
	}
	if len(saved) == 0 {
		http.Error(w, "nenhuma arte importada", 502)
		return
	}
	theme.ArtURL = saved[0]
	if err := s.kits.Themes.Save(r.Context(), theme); err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, 200, map[string]any{"theme": theme.Slug, "saved": saved})
}

func extForContentType(ct string) string {
	switch {
	case strings.Contains(ct, "png"):
		return ".png"
	case strings.Contains(ct, "jpeg"), strings.Contains(ct, "jpg"):
		return ".jpg"
	case strings.Contains(ct, "webp"):
		return ".webp"
	case strings.Contains(ct, "svg"):
		return ".svg"
	default:
		return ".img"
	}
}
