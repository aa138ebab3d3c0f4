package brandkit

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func decodeBody(r *http.Request, out any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(out)
}

func TestLoginPersistsSession(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /brand/login", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := decodeBody(r, &body); err != nil || body.Username != "kira" || body.Password != "hunter2" {
			writeJSON(t, w, http.StatusUnauthorized, map[string]string{"error": "wrong username or password"})
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "refresh_token", Value: "rt-1", HttpOnly: true, Path: "/"})
		writeJSON(t, w, http.StatusOK, map[string]any{
			"data": map[string]any{
				"token": "token-1",
				"admin": Admin{ID: "a1", Username: "kira", Email: "kira@example.com"},
				"brand": Brand{ID: "b1", TotalScans: 1000, ScansRemaining: 400},
			},
		})
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := newTestClient(t, srv)
	ctx := context.Background()
	client.Session().Initialize(ctx)

	result, err := client.Login(ctx, "kira", "hunter2")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if result.Token != "token-1" {
		t.Fatalf("unexpected token %q", result.Token)
	}

	if got := client.Session().Token(); got != "token-1" {
		t.Fatalf("token not stored: %q", got)
	}
	identity := client.Session().Identity()
	if identity == nil || identity.ID != "a1" {
		t.Fatalf("identity not stored: %+v", identity)
	}
	account := client.Session().Account()
	if account == nil || account.ScansRemaining != 400 {
		t.Fatalf("account not stored: %+v", account)
	}
	if !client.Session().IsLoggedIn() {
		t.Fatal("expected IsLoggedIn after login")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /brand/login", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusUnauthorized, map[string]string{"error": "wrong username or password"})
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := newTestClient(t, srv)
	ctx := context.Background()
	client.Session().Initialize(ctx)

	if _, err := client.Login(ctx, "kira", "nope"); !IsUnauthorized(err) {
		t.Fatalf("expected unauthorized APIError, got %v", err)
	}
	if client.Session().IsLoggedIn() {
		t.Fatal("failed login must not store a session")
	}
}

func TestSignupSendsMultipart(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /brand/create", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			writeJSON(t, w, http.StatusBadRequest, map[string]string{"error": "expected multipart"})
			return
		}
		if r.FormValue("username") != "kira" || r.FormValue("package_id") != "p1" {
			writeJSON(t, w, http.StatusBadRequest, map[string]string{"error": "missing fields"})
			return
		}
		file, header, err := r.FormFile("image")
		if err != nil {
			writeJSON(t, w, http.StatusBadRequest, map[string]string{"error": "missing logo"})
			return
		}
		defer file.Close()
		if header.Filename != "logo.png" {
			writeJSON(t, w, http.StatusBadRequest, map[string]string{"error": "bad filename"})
			return
		}
		writeJSON(t, w, http.StatusCreated, map[string]any{
			"data": Admin{ID: "a2", Username: "kira", Email: "kira@example.com"},
		})
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := newTestClient(t, srv)
	ctx := context.Background()
	client.Session().Initialize(ctx)

	admin, err := client.Signup(ctx, SignupInput{
		Username:     "kira",
		Name:         "Kira",
		Email:        "kira@example.com",
		Password:     "hunter2",
		PackageID:    "p1",
		Logo:         strings.NewReader("png-bytes"),
		LogoFilename: "logo.png",
	})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if admin.ID != "a2" {
		t.Fatalf("unexpected admin: %+v", admin)
	}
	// Signup does not log in; verification comes first.
	if client.Session().IsLoggedIn() {
		t.Fatal("signup must not create a session")
	}
}

func TestUpdateBrandReplacesIdentityWholesale(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("PUT /brand/update", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]any{
			"data": Admin{ID: "a1", Username: "kira", Name: "Kira R.", Email: "new@example.com"},
		})
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := newTestClient(t, srv)
	ctx := context.Background()
	client.Session().Initialize(ctx)
	if err := client.Session().SetIdentity(ctx, &Admin{ID: "a1", Username: "kira", Name: "Kira", Phone: "123"}); err != nil {
		t.Fatalf("seed identity: %v", err)
	}

	if _, err := client.UpdateBrand(ctx, UpdateBrandInput{Email: "new@example.com"}); err != nil {
		t.Fatalf("update: %v", err)
	}

	identity := client.Session().Identity()
	if identity.Email != "new@example.com" {
		t.Fatalf("identity not replaced: %+v", identity)
	}
	// Wholesale replacement: fields absent from the response are gone too.
	if identity.Phone != "" {
		t.Fatalf("expected wholesale replacement, kept phone %q", identity.Phone)
	}
}

func TestCancelPlanStoresServerRecord(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("PUT /brand/cancel-plan", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]any{
			"data": Brand{ID: "b1", Status: "cancelled", SubscribedPackageID: ""},
		})
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := newTestClient(t, srv)
	ctx := context.Background()
	client.Session().Initialize(ctx)
	if err := client.Session().SetAccount(ctx, &Brand{ID: "b1", Status: "active", SubscribedPackageID: "p1"}); err != nil {
		t.Fatalf("seed account: %v", err)
	}

	brand, err := client.CancelPlan(ctx)
	if err != nil {
		t.Fatalf("cancel plan: %v", err)
	}
	if brand.Status != "cancelled" {
		t.Fatalf("unexpected status %q", brand.Status)
	}
	if got := client.Session().Account(); got.Status != "cancelled" || got.SubscribedPackageID != "" {
		t.Fatalf("stored account not replaced: %+v", got)
	}
}

func TestVerifyEmailEscapesToken(t *testing.T) {
	var gotPath string

	mux := http.NewServeMux()
	mux.HandleFunc("GET /brand/verify-email/", func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		writeJSON(t, w, http.StatusOK, map[string]string{"message": "verified"})
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := newTestClient(t, srv)
	ctx := context.Background()
	client.Session().Initialize(ctx)

	if err := client.VerifyEmail(ctx, "tok/with slash"); err != nil {
		t.Fatalf("verify email: %v", err)
	}
	if !strings.HasSuffix(gotPath, "/brand/verify-email/tok%2Fwith%20slash") {
		t.Fatalf("token not escaped in path: %q", gotPath)
	}
}
