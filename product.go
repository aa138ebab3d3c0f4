package brandkit

import (
	"context"
	"net/http"
	"net/url"
)

// Products lists the logged-in brand's products (GET /product/brand-id).
// Active/inactive counts shown next to the list come from the stored [Brand]
// record, not from counting this slice; the server owns those numbers.
func (c *Client) Products(ctx context.Context) ([]Product, error) {
	var products []Product
	if err := c.doGet(ctx, "/product/brand-id", &products); err != nil {
		return nil, err
	}
	return products, nil
}

// ProductDetail fetches one product (GET /product/detail-for-brand/:id).
func (c *Client) ProductDetail(ctx context.Context, id string) (*Product, error) {
	var product Product
	if err := c.doGet(ctx, "/product/detail-for-brand/"+url.PathEscape(id), &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// UpdateProduct edits a product (PUT /product/update/:id) and returns the
// server's copy.
func (c *Client) UpdateProduct(ctx context.Context, id string, input UpdateProductInput) (*Product, error) {
	var product Product
	if err := c.doJSON(ctx, http.MethodPut, "/product/update/"+url.PathEscape(id), input, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// DeleteProduct removes a product (DELETE /product/:id). The stored brand
// record's product counts go stale until the next BrandDetail fetch; the
// client never adjusts them locally.
func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/product/"+url.PathEscape(id), nil, nil)
}
