package sink

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWebhookSendsWireContract(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("unexpected method %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Fatalf("unexpected content type %s", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	hook := NewWebhook(nil, WithConfig(Config{URL: srv.URL}))
	err := hook.Send(context.Background(), Notice{
		Title:    "Nueva Tarea Asignada",
		Message:  "Se te ha asignado la tarea: Deploy",
		Severity: "info",
		UserID:   "u-1",
	})
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	if got["titulo"] != "Nueva Tarea Asignada" {
		t.Fatalf("unexpected titulo %v", got["titulo"])
	}
	if got["mensaje"] != "Se te ha asignado la tarea: Deploy" {
		t.Fatalf("unexpected mensaje %v", got["mensaje"])
	}
	if got["tipo"] != "info" {
		t.Fatalf("unexpected tipo %v", got["tipo"])
	}
	if got["userId"] != "u-1" {
		t.Fatalf("unexpected userId %v", got["userId"])
	}
}

func TestWebhookRejectsNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	hook := NewWebhook(nil, WithConfig(Config{URL: srv.URL}))
	if err := hook.Send(context.Background(), Notice{Title: "t"}); err == nil {
		t.Fatal("expected status error")
	}
}

func TestWebhookRequiresURL(t *testing.T) {
	hook := NewWebhook(nil)
	if err := hook.Send(context.Background(), Notice{Title: "t"}); err == nil {
		t.Fatal("expected url error")
	}
}

func TestWebhookCustomHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer token" {
			t.Fatalf("missing auth header")
		}
	}))
	defer srv.Close()

	hook := NewWebhook(nil, WithConfig(Config{
		URL:     srv.URL,
		Headers: map[string]string{"Authorization": "Bearer token"},
	}))
	if err := hook.Send(context.Background(), Notice{Title: "t"}); err != nil {
		t.Fatalf("send: %v", err)
	}
}
