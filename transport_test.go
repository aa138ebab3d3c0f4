package brandkit

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNetworkFailureIsServerUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NewServeMux())
	srv.Close() // nothing is listening anymore

	client, err := New().WithBaseURL(srv.URL).Build()
	if err != nil {
		t.Fatalf("build client: %v", err)
	}
	defer client.Close()
	client.Session().Initialize(context.Background())

	_, err = client.Packages(context.Background())
	if !errors.Is(err, ErrServerUnreachable) {
		t.Fatalf("expected ErrServerUnreachable, got %v", err)
	}
}

func TestBusinessErrorSurfacesVerbatim(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /brand/forgot-password", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusNotFound, map[string]string{"error": "no account for this email"})
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := newTestClient(t, srv)
	client.Session().Initialize(context.Background())

	err := client.ForgotPassword(context.Background(), "ghost@example.com")

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", apiErr.StatusCode)
	}
	if apiErr.Message != "no account for this email" {
		t.Fatalf("expected verbatim server message, got %q", apiErr.Message)
	}
	if apiErr.RequestID == "" {
		t.Fatal("expected a request ID on the error")
	}
}

func TestNoTokenMeansNoAuthorizationHeader(t *testing.T) {
	var sawAuth bool

	mux := http.NewServeMux()
	mux.HandleFunc("GET /package", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "" {
			sawAuth = true
		}
		writeJSON(t, w, http.StatusOK, map[string]any{"data": []Package{}})
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := newTestClient(t, srv)
	client.Session().Initialize(context.Background())

	if _, err := client.Packages(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sawAuth {
		t.Fatal("logged-out request must not carry an Authorization header")
	}
}

func TestRequestIDAttached(t *testing.T) {
	var requestID string

	mux := http.NewServeMux()
	mux.HandleFunc("GET /package", func(w http.ResponseWriter, r *http.Request) {
		requestID = r.Header.Get("X-Request-ID")
		writeJSON(t, w, http.StatusOK, map[string]any{"data": []Package{}})
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := newTestClient(t, srv)
	client.Session().Initialize(context.Background())

	if _, err := client.Packages(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if requestID == "" {
		t.Fatal("expected an X-Request-ID header")
	}
}

func TestClosedClientRejectsRequests(t *testing.T) {
	srv := httptest.NewServer(http.NewServeMux())
	defer srv.Close()

	client := newTestClient(t, srv)
	client.Close()

	if _, err := client.Packages(context.Background()); !errors.Is(err, ErrClientClosed) {
		t.Fatalf("expected ErrClientClosed, got %v", err)
	}
}
