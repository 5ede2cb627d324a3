package ledger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	"takeorder/internal/dialogue"
)

// Client talks to the order ledger service. Both calls are asynchronous
// and deliver a tagged result to the callback from a separate
// goroutine, so a dialogue turn never blocks on the network.
type Client struct {
	httpClient *http.Client
	BaseURL    string
}

// NewClient creates a ledger client. An empty baseURL falls back to the
// TAKEORDER_LEDGER_URL environment variable, then to localhost.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = os.Getenv("TAKEORDER_LEDGER_URL")
	}
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: time.Second * 10,
		},
		BaseURL: baseURL,
	}
}

// Finalize submits a finalized order and reports the assigned id
func (c *Client) Finalize(items map[string]int, totalCost float64, fn func(dialogue.FinalizeResult)) {
	go func() {
		fn(c.doFinalize(items, totalCost))
	}()
}

func (c *Client) doFinalize(items map[string]int, totalCost float64) dialogue.FinalizeResult {
	payload, err := json.Marshal(map[string]interface{}{
		"items":     items,
		"totalCost": totalCost,
	})
	if err != nil {
		return dialogue.FinalizeResult{Status: dialogue.StatusTransportError, Err: err}
	}

	resp, err := c.httpClient.Post(c.BaseURL+"/api/orders", "application/json", bytes.NewReader(payload))
	if err != nil {
		return dialogue.FinalizeResult{Status: dialogue.StatusTransportError, Err: err}
	}
	defer resp.Body.Close()

	var body struct {
		OrderID int    `json:"order_id"`
		Error   string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return dialogue.FinalizeResult{Status: dialogue.StatusTransportError, Err: err}
	}
	if body.Error != "" {
		return dialogue.FinalizeResult{Status: dialogue.StatusServiceError, Message: body.Error}
	}
	if resp.StatusCode != http.StatusOK {
		return dialogue.FinalizeResult{
			Status: dialogue.StatusTransportError,
			Err:    fmt.Errorf("unexpected status code %d", resp.StatusCode),
		}
	}
	return dialogue.FinalizeResult{Status: dialogue.StatusOK, OrderID: body.OrderID}
}

// Track looks up a finalized order by its tracking number
func (c *Client) Track(trackingNumber string, fn func(dialogue.TrackResult)) {
	go func() {
		fn(c.doTrack(trackingNumber))
	}()
}

func (c *Client) doTrack(trackingNumber string) dialogue.TrackResult {
	resp, err := c.httpClient.Get(c.BaseURL + "/api/orders/" + url.PathEscape(trackingNumber))
	if err != nil {
		return dialogue.TrackResult{Status: dialogue.StatusTransportError, Err: err}
	}
	defer resp.Body.Close()

	var body struct {
		Items     map[string]int `json:"items"`
		TotalCost float64        `json:"totalCost"`
		Error     string         `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return dialogue.TrackResult{Status: dialogue.StatusTransportError, Err: err}
	}
	if body.Error != "" {
		return dialogue.TrackResult{Status: dialogue.StatusServiceError, Message: body.Error}
	}
	if resp.StatusCode != http.StatusOK {
		return dialogue.TrackResult{
			Status: dialogue.StatusTransportError,
			Err:    fmt.Errorf("unexpected status code %d", resp.StatusCode),
		}
	}
	return dialogue.TrackResult{
		Status:    dialogue.StatusOK,
		Items:     body.Items,
		TotalCost: body.TotalCost,
	}
}
