package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"movein-backend/db/models"

	"github.com/gofiber/fiber/v2"
)

// Envelope mirrors the JSON response shape every handler returns.
type Envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

// DecodeData unmarshals the data field into v.
func (e Envelope) DecodeData(t *testing.T, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(e.Data, v); err != nil {
		t.Fatalf("Failed to decode response data %s: %v", string(e.Data), err)
	}
}

// Do sends a JSON request as profile (nil for anonymous) and decodes the envelope.
func Do(t *testing.T, app *fiber.App, method, path, body string, profile *models.Profile) (*http.Response, Envelope) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if profile != nil {
		req.Header.Set(TestProfileHeader, profile.ID.String())
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("Request %s %s failed: %v", method, path, err)
	}

	var env Envelope
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read response body: %v", err)
	}
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &env)
	}
	return resp, env
}
