package brandkit

import "context"

// Packages lists the subscription tiers (GET /package). The endpoint is
// public; the gateway sends it unauthenticated when no token is stored.
func (c *Client) Packages(ctx context.Context) ([]Package, error) {
	var packages []Package
	if err := c.doGet(ctx, "/package", &packages); err != nil {
		return nil, err
	}
	return packages, nil
}
