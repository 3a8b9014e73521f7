package httpserver

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/smtp"
	"net/url"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/duetags/duetags/internal/domain"
)

type notifyTarget int

const (
	notifyProduction notifyTarget = iota
	notifyClient
	notifyBoth
)

// notifyOrder fans a paid order out to the production inbox (with signed
// etiqueta links) and/or to the customer. Telegram is the fast path for
// production; email is the fallback and the only channel for the customer.
func (s *Server) notifyOrder(o *domain.Order, target notifyTarget) {
	if target == notifyProduction || target == notifyBoth {
		if err := s.sendProductionTelegram(o); err != nil {
			log.Warn().Err(err).Msg("telegram falhou")
			if os.Getenv("SMTP_HOST") != "" {
				_ = s.sendProductionEmail(o)
			}
		}
	}
	if target == notifyClient || target == notifyBoth {
		if err := s.sendClientEmail(o); err != nil {
			log.Warn().Err(err).Str("email", o.Email).Msg("email ao cliente falhou")
		}
	}
}

func smtpConfig() (addr, host, user, pass string, ok bool) {
	host = os.Getenv("SMTP_HOST")
	port := os.Getenv("SMTP_PORT")
	user = os.Getenv("SMTP_USER")
	pass = os.Getenv("SMTP_PASS")
	if host == "" || port == "" || user == "" || pass == "" {
		return "", "", "", "", false
	}
	return host + ":" + port, host, user, pass, true
}

func (s *Server) sendProductionEmail(o *domain.Order) error {
	addr, host, user, pass, ok := smtpConfig()
	if !ok {
		log.Warn().Msg("SMTP não configurado, email omitido")
		return nil
	}
	to := os.Getenv("ORDER_NOTIFY_EMAIL")
	if to == "" {
		to = "producao@duetags.com.br"
	}
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Subject: Pedido PAGO #%s\r\n", o.ID.String())
	fmt.Fprintf(&buf, "From: %s\r\n", user)
	fmt.Fprintf(&buf, "To: %s\r\n", to)
	buf.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")
	fmt.Fprintf(&buf, "Pedido: %s\n", o.ID)
	fmt.Fprintf(&buf, "Nome: %s\nEmail: %s\nTel: %s\n", o.Name, o.Email, o.Phone)
	buf.WriteString("Itens:\n")
	for _, it := range o.Items {
		fmt.Fprintf(&buf, "- %s x%d R$%.2f\n", it.Title, it.Qty, it.UnitPrice)
	}
	fmt.Fprintf(&buf, "Total: R$%.2f\n", o.Total)
	if s.signer != nil && len(o.EtiquetaURLs) > 0 {
		base := os.Getenv("PUBLIC_BASE_URL")
		buf.WriteString("Etiquetas:\n")
		for _, p := range o.EtiquetaURLs {
			fmt.Fprintf(&buf, "%s%s\n", base, s.signer.SignedPath(p, signedURLTTL))
		}
	}
	auth := smtp.PlainAuth("", user, pass, host)
	if err := smtp.SendMail(addr, auth, user, []string{to}, buf.Bytes()); err != nil {
		log.Error().Err(err).Msg("envio de email")
		return err
	}
	return nil
}

func (s *Server) sendClientEmail(o *domain.Order) error {
	addr, host, user, pass, ok := smtpConfig()
	if !ok {
		log.Warn().Msg("SMTP não configurado, email omitido")
		return nil
	}
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Subject: DueTags - pagamento confirmado #%s\r\n", o.ID.String())
	fmt.Fprintf(&buf, "From: %s\r\n", user)
	fmt.Fprintf(&buf, "To: %s\r\n", o.Email)
	buf.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")
	fmt.Fprintf(&buf, "Oi %s!\n\nRecebemos o pagamento do seu pedido %s.\n", o.Name, o.ID)
	buf.WriteString("Suas etiquetas já entraram na fila de produção.\n\nItens:\n")
	for _, it := range o.Items {
		fmt.Fprintf(&buf, "- %s x%d\n", it.Title, it.Qty)
	}
	fmt.Fprintf(&buf, "\nTotal: R$%.2f\n\nEquipe DueTags\n", o.Total)
	auth := smtp.PlainAuth("", user, pass, host)
	return smtp.SendMail(addr, auth, user, []string{o.Email}, buf.Bytes())
}

func (s *Server) sendProductionTelegram(o *domain.Order) error {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	rawIDs := os.Getenv("TELEGRAM_CHAT_IDS")
	if strings.TrimSpace(rawIDs) == "" {
		rawIDs = os.Getenv("TELEGRAM_CHAT_ID")
	}
	if token == "" || strings.TrimSpace(rawIDs) == "" {
		return fmt.Errorf("telegram vars ausentes")
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Pedido %s - PAGO\n", o.ID)
	fmt.Fprintf(&b, "Nome: %s\nEmail: %s\nTel: %s\n", o.Name, o.Email, o.Phone)
	b.WriteString("Itens:\n")
	for _, it := range o.Items {
		fmt.Fprintf(&b, "- %s x%d — R$%.2f\n", it.Title, it.Qty, it.UnitPrice)
	}
	fmt.Fprintf(&b, "Total: R$%.2f\nEtiquetas: %d arquivos\n", o.Total, len(o.EtiquetaURLs))

	apiURL := "https://api.telegram.org/bot" + token + "/sendMessage"
	var lastErr error
	sent := false
	for _, part := range strings.Split(rawIDs, ",") {
		id := strings.TrimSpace(part)
		if id == "" {
			continue
		}
		form := url.Values{}
		form.Set("chat_id", id)
		form.Set("text", b.String())
		form.Set("disable_web_page_preview", "1")
		resp, err := http.PostForm(apiURL, form)
		if err != nil {
			lastErr = err
			continue
		}
		func() {
			defer resp.Body.Close()
			if resp.StatusCode >= 300 {
				body, _ := io.ReadAll(resp.Body)
				lastErr = fmt.Errorf("telegram status %d: %s", resp.StatusCode, string(body))
				return
			}
			sent = true
		}()
	}
	if !sent && lastErr == nil {
		lastErr = fmt.Errorf("telegram chat ids vazios")
	}
	if sent {
		return nil
	}
	return lastErr
}
