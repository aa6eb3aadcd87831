package httpapi

import (
	"encoding/json"
	"net/http"
	"testing"
)

func TestAIChatHandler_MissingKey(t *testing.T) {
	f := newServerFixture(t)

	rr := doJSON(t, f.router, http.MethodPost, "/api/ai-chat", []byte(`{"message": "hello"}`))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	var out struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Error != "AI API key is not configured." {
		t.Fatalf("error = %q", out.Error)
	}
}

func TestAIChatHandler_EmptyMessage(t *testing.T) {
	f := newServerFixture(t)

	rr := doJSON(t, f.router, http.MethodPost, "/api/ai-chat", []byte(`{"message": ""}`))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
}
