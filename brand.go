package brandkit

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"github.com/nexar-ar/brandkit/internal/events"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login authenticates against POST /brand/login and persists the returned
// token, identity, and (when present) brand record before returning. The
// server also sets the HTTP-only refresh cookie on this response; the
// client's cookie jar captures it without brandkit touching it.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	var result LoginResult
	if err := c.doJSON(ctx, http.MethodPost, "/brand/login", loginRequest{
		Username: username,
		Password: password,
	}, &result); err != nil {
		return nil, err
	}

	if err := c.store.SetToken(ctx, result.Token); err != nil {
		return nil, err
	}
	if err := c.store.SetIdentity(ctx, &result.Admin); err != nil {
		return nil, err
	}
	if result.Brand != nil {
		if err := c.store.SetAccount(ctx, result.Brand); err != nil {
			return nil, err
		}
	}

	c.emit(ctx, events.Event{
		Timestamp: time.Now(),
		Kind:      events.KindLogin,
		AdminID:   result.Admin.ID,
	})
	return &result, nil
}

// Signup registers a new brand through POST /brand/create (multipart). The
// account starts unverified; the caller follows up with [Client.VerifyEmail]
// using the token the server mails out.
func (c *Client) Signup(ctx context.Context, input SignupInput) (*Admin, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	fields := map[string]string{
		"username":   input.Username,
		"name":       input.Name,
		"email":      input.Email,
		"phone":      input.Phone,
		"password":   input.Password,
		"category":   input.Category,
		"package_id": input.PackageID,
	}
	for name, value := range fields {
		if value == "" {
			continue
		}
		if err := writer.WriteField(name, value); err != nil {
			return nil, err
		}
	}

	if input.Logo != nil {
		filename := input.LogoFilename
		if filename == "" {
			filename = "logo"
		}
		part, err := writer.CreateFormFile("image", filename)
		if err != nil {
			return nil, err
		}
		if _, err := io.Copy(part, input.Logo); err != nil {
			return nil, err
		}
	}

	if err := writer.Close(); err != nil {
		return nil, err
	}

	var admin Admin
	if err := c.doRaw(ctx, http.MethodPost, "/brand/create", writer.FormDataContentType(), buf.Bytes(), &admin); err != nil {
		return nil, err
	}
	return &admin, nil
}

// ForgotPassword starts a password reset for the given email.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	return c.doJSON(ctx, http.MethodPost, "/brand/forgot-password", map[string]string{
		"email": email,
	}, nil)
}

// ResetPassword confirms a password reset challenge.
func (c *Client) ResetPassword(ctx context.Context, input ResetPasswordInput) error {
	return c.doJSON(ctx, http.MethodPost, "/brand/reset-password", input, nil)
}

// VerifyEmail redeems an email verification token.
func (c *Client) VerifyEmail(ctx context.Context, verificationToken string) error {
	return c.doGet(ctx, "/brand/verify-email/"+url.PathEscape(verificationToken), nil)
}

// BrandDetail fetches the logged-in brand's account record and replaces the
// stored copy. UI code that finds Account() nil after login calls this once.
func (c *Client) BrandDetail(ctx context.Context) (*Brand, error) {
	var brand Brand
	if err := c.doGet(ctx, "/brand/detail", &brand); err != nil {
		return nil, err
	}
	if err := c.store.SetAccount(ctx, &brand); err != nil {
		return nil, err
	}
	return &brand, nil
}

// BrandDetailByID fetches an arbitrary brand record. It does not touch the
// session store; only the logged-in brand's record is session state.
func (c *Client) BrandDetailByID(ctx context.Context, id string) (*Brand, error) {
	var brand Brand
	if err := c.doGet(ctx, "/brand/detail/"+url.PathEscape(id), &brand); err != nil {
		return nil, err
	}
	return &brand, nil
}

// UpdateBrand edits the administrator profile (PUT /brand/update). The
// returned identity replaces the stored one wholesale.
func (c *Client) UpdateBrand(ctx context.Context, input UpdateBrandInput) (*Admin, error) {
	var admin Admin
	if err := c.doJSON(ctx, http.MethodPut, "/brand/update", input, &admin); err != nil {
		return nil, err
	}
	if err := c.store.SetIdentity(ctx, &admin); err != nil {
		return nil, err
	}
	return &admin, nil
}

// UpdateBrandDetail edits account-level fields such as the subscribed plan
// (PUT /brand/update-detail). The returned record replaces the stored one.
func (c *Client) UpdateBrandDetail(ctx context.Context, input UpdateBrandDetailInput) (*Brand, error) {
	var brand Brand
	if err := c.doJSON(ctx, http.MethodPut, "/brand/update-detail", input, &brand); err != nil {
		return nil, err
	}
	if err := c.store.SetAccount(ctx, &brand); err != nil {
		return nil, err
	}
	return &brand, nil
}

// CancelPlan cancels the active subscription (PUT /brand/cancel-plan) and
// stores the server's post-cancellation account record.
func (c *Client) CancelPlan(ctx context.Context) (*Brand, error) {
	var brand Brand
	if err := c.doJSON(ctx, http.MethodPut, "/brand/cancel-plan", nil, &brand); err != nil {
		return nil, err
	}
	if err := c.store.SetAccount(ctx, &brand); err != nil {
		return nil, err
	}
	return &brand, nil
}

// PatchBrandDetail applies a partial account update (PATCH /brand/detail/).
// fields maps JSON field names to replacement values; the server decides what
// is patchable.
func (c *Client) PatchBrandDetail(ctx context.Context, fields map[string]any) (*Brand, error) {
	var brand Brand
	if err := c.doJSON(ctx, http.MethodPatch, "/brand/detail/", fields, &brand); err != nil {
		return nil, err
	}
	if err := c.store.SetAccount(ctx, &brand); err != nil {
		return nil, err
	}
	return &brand, nil
}
