package mercadopago

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/duetags/duetags/internal/domain"
)

type Gateway struct {
	token      string
	httpClient *http.Client
}

func NewGateway(token string) *Gateway {
	return &Gateway{token: token, httpClient: &http.Client{Timeout: 10 * time.Second}}
}

type mpItem struct {
	Title      string  `json:"title"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
	CurrencyID string  `json:"currency_id"`
}

type mpPrefReq struct {
	Items               []mpItem          `json:"items"`
	Payer               map[string]string `json:"payer,omitempty"`
	BackURLs            map[string]string `json:"back_urls,omitempty"`
	AutoReturn          string            `json:"auto_return,omitempty"`
	NotificationURL     string            `json:"notification_url,omitempty"`
	StatementDescriptor string            `json:"statement_descriptor,omitempty"`
	ExternalReference   string            `json:"external_reference,omitempty"`
}

type mpPrefResp struct {
	ID               string `json:"id"`
	InitPoint        string `json:"init_point"`
	SandboxInitPoint string `json:"sandbox_init_point"`
}

type mpPaymentResp struct {
	ID                int64  `json:"id"`
	Status            string `json:"status"`
	ExternalReference string `json:"external_reference"`
}

// signExternal firma o id do pedido para que o webhook possa validar que a
// external_reference saiu daqui e não de um chamador qualquer.
func signExternal(orderID string) string {
	key := os.Getenv("SECRET_KEY")
	if key == "" {
		key = "dev"
	}
	h := hmac.New(sha256.New, []byte(key))
	h.Write([]byte(orderID))
	return hex.EncodeToString(h.Sum(nil))[:24]
}

func (g *Gateway) CreatePreference(ctx context.Context, o *domain.Order) (string, error) {
	if g.token == "" {
		return "", errors.New("token MP ausente (MP_ACCESS_TOKEN)")
	}
	if o == nil {
		return "", errors.New("pedido nil")
	}

	items := make([]mpItem, 0, len(o.Items))
	subtotal := 0.0
	for _, it := range o.Items {
		items = append(items, mpItem{Title: it.Title, Quantity: it.Qty, UnitPrice: it.UnitPrice, CurrencyID: "BRL"})
		subtotal += it.UnitPrice * float64(it.Qty)
	}
	if len(items) == 0 {
		return "", errors.New("pedido sem itens")
	}
	if o.Total <= 0 {
		o.Total = subtotal
	}

	baseURL := os.Getenv("PUBLIC_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	extRef := fmt.Sprintf("%s|%s", o.ID.String(), signExternal(o.ID.String()))

	// MP com credenciais de produção rejeita auto_return apontando para localhost.
	autoReturn := "approved"
	if !strings.HasPrefix(g.token, "TEST-") && strings.Contains(baseURL, "localhost") {
		autoReturn = ""
	}

	payload := mpPrefReq{
		Items: items,
		Payer: map[string]string{"email": o.Email},
		BackURLs: map[string]string{
			"success": baseURL + "/pay/" + o.ID.String(),
			"pending": baseURL + "/pay/" + o.ID.String(),
			"failure": baseURL + "/pay/" + o.ID.String(),
		},
		AutoReturn:          autoReturn,
		NotificationURL:     baseURL + "/webhooks/mp",
		StatementDescriptor: "DUETAGS",
		ExternalReference:   extRef,
	}

	buf, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("serializando payload MP: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, "https://api.mercadopago.com/checkout/preferences", bytes.NewReader(buf))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Authorization", "Bearer "+g.token)
	httpReq.Header.Set("Content-Type", "application/json")
	res, err := g.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("conexão com MercadoPago: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode >= 300 {
		body, _ := io.ReadAll(res.Body)
		var mpError struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(body, &mpError); err == nil && mpError.Message != "" {
			return "", fmt.Errorf("mercadopago status %d: %s", res.StatusCode, mpError.Message)
		}
		return "", fmt.Errorf("mp pref status %d: %s", res.StatusCode, string(body))
	}
	var pref mpPrefResp
	if err := json.NewDecoder(res.Body).Decode(&pref); err != nil {
		return "", err
	}
	if pref.ID == "" {
		return "", errors.New("resposta MP incompleta")
	}
	initPoint := pref.InitPoint
	appEnv := strings.ToLower(os.Getenv("APP_ENV"))
	if strings.HasPrefix(g.token, "TEST-") && appEnv != "production" && appEnv != "prod" && pref.SandboxInitPoint != "" {
		initPoint = pref.SandboxInitPoint
	}
	o.MPPreferenceID = pref.ID
	return initPoint, nil
}

func (g *Gateway) PaymentInfo(ctx context.Context, paymentID string) (string, string, error) {
	if g.token == "" || paymentID == "" {
		return "", "", errors.New("params")
	}
	url := "https://api.mercadopago.com/v1/payments/" + paymentID
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", "", err
	}
	req.Header.Set("Authorization", "Bearer "+g.token)
	res, err := g.httpClient.Do(req)
	if err != nil {
		return "", "", err
	}
	defer res.Body.Close()
	if res.StatusCode >= 300 {
		b, _ := io.ReadAll(res.Body)
		return "", "", fmt.Errorf("mp payment status %d: %s", res.StatusCode, string(b))
	}
	var pr mpPaymentResp
	if err := json.NewDecoder(res.Body).Decode(&pr); err != nil {
		return "", "", err
	}
	return pr.Status, pr.ExternalReference, nil
}

// VerifyExternalRef separa "orderID|assinatura" e confere a assinatura.
func VerifyExternalRef(ext string) (string, bool) {
	parts := strings.Split(ext, "|")
	if len(parts) != 2 {
		return "", false
	}
	orderID, sig := parts[0], parts[1]
	return orderID, hmac.Equal([]byte(signExternal(orderID)), []byte(sig))
}
