package brandkit

import "io"

// Admin is the logged-in brand administrator's profile. It is created from the
// login or signup response, replaced wholesale on profile update, and cleared
// on logout. The [SessionStore] is its only writer.
type Admin struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	ImageURL string `json:"image_url,omitempty"`
}

// Brand is the business entity's subscription and usage record. Every numeric
// field mirrors the last server response; the client never reconciles counts
// independently (ScansRemaining <= TotalScans holds server-side).
type Brand struct {
	ID                  string  `json:"id"`
	SubscribedPackageID string  `json:"subscribed_package_id"`
	TotalScans          int64   `json:"total_scans"`
	ScansRemaining      int64   `json:"scans_remaining"`
	ActiveProducts      int     `json:"active_products"`
	InactiveProducts    int     `json:"in_active_products"`
	Category            string  `json:"category"`
	Status              string  `json:"status"`
	DueDate             string  `json:"due_date"`
	DatePaid            string  `json:"date_paid"`
	TotalBilling        float64 `json:"totalBilling"`
	Website             string  `json:"website,omitempty"`
	Description         string  `json:"description,omitempty"`
}

// Product is a single AR-visualized inventory item belonging to a brand.
type Product struct {
	ID          string `json:"id"`
	BrandID     string `json:"brand_id"`
	Name        string `json:"name"`
	SKU         string `json:"sku,omitempty"`
	Category    string `json:"category,omitempty"`
	Description string `json:"description,omitempty"`
	ModelURL    string `json:"model_url,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
	ScanCount   int64  `json:"scan_count"`
	Active      bool   `json:"active"`
}

// Package is a subscription tier offered to brands.
type Package struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	ScanLimit    int64   `json:"scan_limit"`
	ProductLimit int     `json:"product_limit"`
	Description  string  `json:"description,omitempty"`
}

// LoginResult carries everything the login endpoint returns: the access token
// plus the authenticated identity and, when the server includes it, the brand
// record. [Client.Login] persists all three before returning.
type LoginResult struct {
	Token string `json:"token"`
	Admin Admin  `json:"admin"`
	Brand *Brand `json:"brand,omitempty"`
}

// SignupInput is the multipart payload for [Client.Signup]. Logo is optional;
// when non-nil it is streamed as the "image" form file.
type SignupInput struct {
	Username  string
	Name      string
	Email     string
	Phone     string
	Password  string
	Category  string
	PackageID string

	Logo         io.Reader
	LogoFilename string
}

// UpdateBrandInput carries the mutable profile fields for PUT /brand/update.
// Zero-valued fields are omitted from the request body.
type UpdateBrandInput struct {
	Name        string `json:"name,omitempty"`
	Email       string `json:"email,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Website     string `json:"website,omitempty"`
	Description string `json:"description,omitempty"`
}

// UpdateBrandDetailInput carries account-level fields for PUT /brand/update-detail,
// e.g. a plan change.
type UpdateBrandDetailInput struct {
	SubscribedPackageID string `json:"subscribed_package_id,omitempty"`
	Category            string `json:"category,omitempty"`
}

// UpdateProductInput carries the mutable product fields for PUT /product/update/:id.
type UpdateProductInput struct {
	Name        string `json:"name,omitempty"`
	SKU         string `json:"sku,omitempty"`
	Category    string `json:"category,omitempty"`
	Description string `json:"description,omitempty"`
	Active      *bool  `json:"active,omitempty"`
}

// ResetPasswordInput confirms a password reset challenge.
type ResetPasswordInput struct {
	Token       string `json:"token"`
	NewPassword string `json:"password"`
}
