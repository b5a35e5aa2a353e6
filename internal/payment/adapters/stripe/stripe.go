package stripe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sysnyx/syspay/internal/payment/domain"
)

const defaultBaseURL = "https://api.stripe.com"

// Adapter charges via Stripe payment intents with immediate confirmation.
// Without an API key it runs in simulation mode and resolves locally,
// which is how development and test environments operate.
type Adapter struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func New(apiKey string) *Adapter {
	return &Adapter{
		apiKey:  strings.TrimSpace(apiKey),
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (a *Adapter) Method() domain.Method {
	return domain.MethodStripe
}

func (a *Adapter) Charge(ctx context.Context, payment *domain.Payment) (domain.Resolution, error) {
	if a.apiKey == "" {
		return domain.Resolution{
			Status:      domain.StatusCompleted,
			ProviderRef: fmt.Sprintf("pi_sim_%s", payment.ID.String()),
		}, nil
	}

	data := url.Values{}
	data.Set("amount", payment.Amount.Shift(2).StringFixed(0))
	data.Set("currency", "usd")
	data.Set("confirm", "true")
	data.Set("metadata[payment_id]", payment.ID.String())
	data.Set("metadata[folio_id]", payment.FolioID.String())

	endpoint := a.baseURL + "/v1/payment_intents"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(data.Encode()))
	if err != nil {
		return domain.Resolution{}, err
	}
	req.Header.Set("Authorization", "Bearer "+a.apiKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := a.client.Do(req)
	if err != nil {
		return domain.Resolution{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return domain.Resolution{
			Status:       domain.StatusFailed,
			ErrorMessage: fmt.Sprintf("stripe api error: %d body: %s", resp.StatusCode, truncate(string(body), 200)),
		}, nil
	}

	var intent struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&intent); err != nil {
		return domain.Resolution{}, err
	}

	if intent.Status == "succeeded" {
		return domain.Resolution{Status: domain.StatusCompleted, ProviderRef: intent.ID}, nil
	}
	return domain.Resolution{
		Status:       domain.StatusFailed,
		ProviderRef:  intent.ID,
		ErrorMessage: fmt.Sprintf("payment intent not captured: %s", intent.Status),
	}, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
