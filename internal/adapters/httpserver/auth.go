package httpserver

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"

	"github.com/duetags/duetags/internal/domain"
)

type sessionUser struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name"`
}

func secretKey() []byte {
	k := os.Getenv("SESSION_KEY")
	if k == "" {
		k = "dev-insecure"
	}
	return []byte(k)
}

func writeUserSession(w http.ResponseWriter, u *sessionUser) {
	if u == nil {
		http.SetCookie(w, &http.Cookie{Name: "sess", Value: "", Path: "/", MaxAge: -1, HttpOnly: true, Secure: true, SameSite: http.SameSiteStrictMode})
		return
	}
	b, _ := json.Marshal(u)
	h := hmac.New(sha256.New, secretKey())
	h.Write(b)
	sig := base64.RawURLEncoding.EncodeToString(h.Sum(nil))
	val := sig + "." + base64.RawURLEncoding.EncodeToString(b)
	http.SetCookie(w, &http.Cookie{Name: "sess", Value: val, Path: "/", MaxAge: 60 * 60 * 24 * 7, HttpOnly: true, Secure: true, SameSite: http.SameSiteStrictMode})
}

func readUserSession(r *http.Request) *sessionUser {
	if r == nil {
		return nil
	}
	c, err := r.Cookie("sess")
	if err != nil || c.Value == "" {
		return nil
	}
	parts := strings.SplitN(c.Value, ".", 2)
	if len(parts) != 2 {
		return nil
	}
	sig, _ := base64.RawURLEncoding.DecodeString(parts[0])
	payload, _ := base64.RawURLEncoding.DecodeString(parts[1])
	h := hmac.New(sha256.New, secretKey())
	h.Write(payload)
	if !hmac.Equal(sig, h.Sum(nil)) {
		return nil
	}
	var u sessionUser
	if err := json.Unmarshal(payload, &u); err != nil {
		return nil
	}
	if u.Email == "" || u.ID == uuid.Nil {
		return nil
	}
	return &u
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method", 405)
		return
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, 4096))
	var req struct {
		Email    string `json:"email"`
		Name     string `json:"name"`
		Phone    string `json:"phone"`
		Password string `json:"password"`
	}
	if err := dec.Decode(&req); err != nil {
		http.Error(w, "json", 400)
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !emailRe.MatchString(email) {
		http.Error(w, "email", 400)
		return
	}
	if len(req.Password) < 8 {
		http.Error(w, "senha: mínimo 8 caracteres", 400)
		return
	}
	if _, err := s.customers.FindByEmail(r.Context(), email); err == nil {
		http.Error(w, "email já cadastrado", 409)
		return
	} else if !errors.Is(err, domain.ErrNotFound) {
		writeErr(w, err)
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeErr(w, err)
		return
	}
	c := &domain.Customer{
		ID:           uuid.New(),
		Email:        email,
		Name:         strings.TrimSpace(req.Name),
		Phone:        strings.TrimSpace(req.Phone),
		PasswordHash: string(hash),
	}
	if err := s.customers.Save(r.Context(), c); err != nil {
		writeErr(w, err)
		return
	}
	writeUserSession(w, &sessionUser{ID: c.ID, Email: c.Email, Name: c.Name})
	writeJSON(w, 201, map[string]any{"email": c.Email, "name": c.Name})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method", 405)
		return
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, 4096))
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := dec.Decode(&req); err != nil {
		http.Error(w, "json", 400)
		return
	}
	c, err := s.customers.FindByEmail(r.Context(), req.Email)
	if err != nil {
		http.Error(w, "credenciais", 401)
		return
	}
	// OAuth-only accounts have no password to compare
	if c.PasswordHash == "" || bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(req.Password)) != nil {
		http.Error(w, "credenciais", 401)
		return
	}
	writeUserSession(w, &sessionUser{ID: c.ID, Email: c.Email, Name: c.Name})
	writeJSON(w, 200, map[string]any{"email": c.Email, "name": c.Name})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	writeUserSession(w, nil)
	writeJSON(w, 200, map[string]any{"ok": true})
}

func (s *Server) handleAuthCheck(w http.ResponseWriter, r *http.Request) {
	if u := readUserSession(r); u != nil {
		writeJSON(w, 200, map[string]any{"logged": true, "email": u.Email, "name": u.Name})
		return
	}
	writeJSON(w, 200, map[string]any{"logged": false})
}

func (s *Server) handleGoogleLogin(w http.ResponseWriter, r *http.Request) {
	if s.oauthCfg == nil {
		http.Error(w, "oauth não configurado", 500)
		return
	}
	state := uuid.New().String()
	http.SetCookie(w, &http.Cookie{Name: "oauth_state", Value: state, Path: "/", MaxAge: 300, HttpOnly: true})
	http.Redirect(w, r, s.oauthCfg.AuthCodeURL(state, oauth2.AccessTypeOnline), 302)
}

func (s *Server) handleGoogleCallback(w http.ResponseWriter, r *http.Request) {
	if s.oauthCfg == nil {
		http.Error(w, "oauth não configurado", 500)
		return
	}
	q := r.URL.Query()
	state := q.Get("state")
	code := q.Get("code")
	c, _ := r.Cookie("oauth_state")
	if c == nil || c.Value == "" || c.Value != state {
		http.Error(w, "state", 400)
		return
	}
	tok, err := s.oauthCfg.Exchange(r.Context(), code)
	if err != nil {
		log.Error().Err(err).Msg("exchange oauth")
		http.Error(w, "oauth", 400)
		return
	}
	client := s.oauthCfg.Client(r.Context(), tok)
	resp, err := client.Get("https://www.googleapis.com/oauth2/v3/userinfo")
	if err != nil || resp.StatusCode != 200 {
		log.Error().Err(err).Msg("userinfo")
		http.Error(w, "userinfo", 400)
		return
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	var info struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	_ = json.Unmarshal(body, &info)
	if info.Email == "" {
		http.Error(w, "email", 400)
		return
	}
	cust, err := s.customers.FindByEmail(r.Context(), info.Email)
	if errors.Is(err, domain.ErrNotFound) {
		cust = &domain.Customer{ID: uuid.New(), Email: strings.ToLower(info.Email), Name: info.Name}
		if err := s.customers.Save(r.Context(), cust); err != nil {
			writeErr(w, err)
			return
		}
	} else if err != nil {
		writeErr(w, err)
		return
	}
	writeUserSession(w, &sessionUser{ID: cust.ID, Email: cust.Email, Name: cust.Name})
	http.Redirect(w, r, "/", 302)
}

func (s *Server) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method", 405)
		return
	}
	cfgKey := os.Getenv("ADMIN_API_KEY")
	if cfgKey == "" {
		log.Error().Msg("ADMIN_API_KEY ausente")
		http.Error(w, "config", 500)
		return
	}
	apiKey := r.Header.Get("X-Admin-Key")
	if apiKey == "" || !secureCompare(apiKey, cfgKey) {
		http.Error(w, "unauthorized", 401)
		return
	}
	var req struct {
		Email string `json:"email"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" && len(s.adminAllowed) == 1 {
		for k := range s.adminAllowed {
			email = k
		}
	}
	if _, ok := s.adminAllowed[email]; !ok {
		http.Error(w, "forbidden", 403)
		return
	}
	tok, exp, err := s.issueAdminToken(email, 30*time.Minute)
	if err != nil {
		http.Error(w, "token", 500)
		return
	}
	writeJSON(w, 200, map[string]any{"token": tok, "exp": exp.Unix(), "email": email})
}

func (s *Server) issueAdminToken(email string, dur time.Duration) (string, time.Time, error) {
	head := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	exp := time.Now().Add(dur)
	claims := map[string]any{"sub": email, "email": email, "role": "admin", "exp": exp.Unix(), "iat": time.Now().Unix(), "iss": "duetags"}
	b, _ := json.Marshal(claims)
	pay := base64.RawURLEncoding.EncodeToString(b)
	unsigned := head + "." + pay
	h := hmac.New(sha256.New, s.adminSecret)
	h.Write([]byte(unsigned))
	sig := base64.RawURLEncoding.EncodeToString(h.Sum(nil))
	return unsigned + "." + sig, exp, nil
}

func (s *Server) verifyAdminToken(tok string) (string, error) {
	parts := strings.Split(tok, ".")
	if len(parts) != 3 {
		return "", fmt.Errorf("formato")
	}
	unsigned := parts[0] + "." + parts[1]
	sig, err := base64.RawURLEncoding.DecodeString(parts[2])
	if err != nil {
		return "", fmt.Errorf("sig")
	}
	h := hmac.New(sha256.New, s.adminSecret)
	h.Write([]byte(unsigned))
	if !hmac.Equal(sig, h.Sum(nil)) {
		return "", fmt.Errorf("assinatura")
	}
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return "", fmt.Errorf("payload")
	}
	var m map[string]any
	if err := json.Unmarshal(payload, &m); err != nil {
		return "", fmt.Errorf("json")
	}
	role, _ := m["role"].(string)
	email, _ := m["email"].(string)
	expF, _ := m["exp"].(float64)
	if role != "admin" || email == "" {
		return "", fmt.Errorf("claims")
	}
	if time.Now().Unix() > int64(expF) {
		return "", fmt.Errorf("exp")
	}
	if _, ok := s.adminAllowed[strings.ToLower(email)]; !ok {
		return "", fmt.Errorf("not allowed")
	}
	return email, nil
}

func (s *Server) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(strings.ToLower(auth), "bearer ") {
		if _, err := s.verifyAdminToken(strings.TrimSpace(auth[7:])); err == nil {
			return true
		}
	}
	if c, err := r.Cookie("admin_token"); err == nil && c.Value != "" {
		if _, err := s.verifyAdminToken(c.Value); err == nil {
			return true
		}
	}
	http.Error(w, "unauthorized", 401)
	return false
}

func secureCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	var v byte
	for i := 0; i < len(a); i++ {
		v |= a[i] ^ b[i]
	}
	return v == 0
}
