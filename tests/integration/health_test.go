//go:build integration

package integration

import (
	"net/http"
	"testing"
)

func TestLivez(t *testing.T) {
	resp := do(t, http.MethodGet, "/livez", "", nil)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if h := decodeJSON[healthResponse](t, resp); h.Status != "ok" {
		t.Errorf("status: got %q, want ok", h.Status)
	}
}

func TestReadyz(t *testing.T) {
	resp := do(t, http.MethodGet, "/readyz", "", nil)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}
