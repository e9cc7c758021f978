package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/rotisserie/eris"
)

// Product is the Admin REST product resource. Tags is the API's
// comma-separated string form.
type Product struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	BodyHTML    string    `json:"body_html"`
	Vendor      string    `json:"vendor"`
	ProductType string    `json:"product_type"`
	Handle      string    `json:"handle"`
	Status      string    `json:"status"`
	Tags        string    `json:"tags"`
	Variants    []Variant `json:"variants"`
	Images      []Image   `json:"images"`
}

// Variant is one purchasable option of a product. Prices are decimal strings
// as the API returns them.
type Variant struct {
	ID             int64  `json:"id"`
	ProductID      int64  `json:"product_id"`
	Title          string `json:"title"`
	Price          string `json:"price"`
	CompareAtPrice string `json:"compare_at_price"`
	Option1        string `json:"option1,omitempty"`
	Option2        string `json:"option2,omitempty"`
	Option3        string `json:"option3,omitempty"`
}

// Shop is the shop metadata resource.
type Shop struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Domain   string `json:"domain"`
	Currency string `json:"currency"`
}

// ProductUpdate is a partial product-level update. Nil fields are left
// untouched.
type ProductUpdate struct {
	ID          int64   `json:"id"`
	Title       *string `json:"title,omitempty"`
	BodyHTML    *string `json:"body_html,omitempty"`
	Vendor      *string `json:"vendor,omitempty"`
	ProductType *string `json:"product_type,omitempty"`
	Tags        *string `json:"tags,omitempty"`
	Status      *string `json:"status,omitempty"`
}

// VariantUpdate is a partial variant update. Nil fields are left untouched.
type VariantUpdate struct {
	ID             int64   `json:"id"`
	Price          *string `json:"price,omitempty"`
	CompareAtPrice *string `json:"compare_at_price,omitempty"`
	Option1        *string `json:"option1,omitempty"`
	Option2        *string `json:"option2,omitempty"`
	Option3        *string `json:"option3,omitempty"`
}

// ListOption configures a product listing request.
type ListOption func(*listOpts)

type listOpts struct {
	limit  int
	vendor string
	fields string
}

// WithPageSize sets the per-page limit (API max 250).
func WithPageSize(n int) ListOption {
	return func(o *listOpts) {
		if n > 0 && n <= 250 {
			o.limit = n
		}
	}
}

// WithVendor restricts the listing to one vendor.
func WithVendor(vendor string) ListOption {
	return func(o *listOpts) {
		o.vendor = vendor
	}
}

// WithFields restricts the fields returned per product.
func WithFields(fields string) ListOption {
	return func(o *listOpts) {
		o.fields = fields
	}
}

func (c *httpClient) ListProducts(ctx context.Context, opts ...ListOption) ([]Product, error) {
	lo := &listOpts{limit: 250}
	for _, opt := range opts {
		opt(lo)
	}

	q := url.Values{}
	q.Set("limit", fmt.Sprintf("%d", lo.limit))
	if lo.vendor != "" {
		q.Set("vendor", lo.vendor)
	}
	if lo.fields != "" {
		q.Set("fields", lo.fields)
	}

	var all []Product
	next := "/products.json?" + q.Encode()
	for next != "" {
		body, headers, err := c.do(ctx, http.MethodGet, next, nil)
		if err != nil {
			return nil, eris.Wrap(err, "shopify: list products")
		}

		var page struct {
			Products []Product `json:"products"`
		}
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, eris.Wrap(err, "shopify: unmarshal products page")
		}
		all = append(all, page.Products...)

		next = nextPageURL(headers)
	}

	return all, nil
}

func (c *httpClient) GetProduct(ctx context.Context, id int64) (*Product, error) {
	body, _, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/products/%d.json", id), nil)
	if err != nil {
		return nil, eris.Wrapf(err, "shopify: get product %d", id)
	}

	var out struct {
		Product Product `json:"product"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, eris.Wrap(err, "shopify: unmarshal product")
	}
	return &out.Product, nil
}

func (c *httpClient) UpdateProduct(ctx context.Context, upd ProductUpdate) (*Product, error) {
	payload := map[string]ProductUpdate{"product": upd}
	body, _, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/products/%d.json", upd.ID), payload)
	if err != nil {
		return nil, eris.Wrapf(err, "shopify: update product %d", upd.ID)
	}

	var out struct {
		Product Product `json:"product"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, eris.Wrap(err, "shopify: unmarshal updated product")
	}
	return &out.Product, nil
}

func (c *httpClient) UpdateVariant(ctx context.Context, upd VariantUpdate) (*Variant, error) {
	payload := map[string]VariantUpdate{"variant": upd}
	body, _, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/variants/%d.json", upd.ID), payload)
	if err != nil {
		return nil, eris.Wrapf(err, "shopify: update variant %d", upd.ID)
	}

	var out struct {
		Variant Variant `json:"variant"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, eris.Wrap(err, "shopify: unmarshal updated variant")
	}
	return &out.Variant, nil
}

func (c *httpClient) CountProducts(ctx context.Context) (int, error) {
	body, _, err := c.do(ctx, http.MethodGet, "/products/count.json", nil)
	if err != nil {
		return 0, eris.Wrap(err, "shopify: count products")
	}

	var out struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return 0, eris.Wrap(err, "shopify: unmarshal product count")
	}
	return out.Count, nil
}

func (c *httpClient) GetShop(ctx context.Context) (*Shop, error) {
	body, _, err := c.do(ctx, http.MethodGet, "/shop.json", nil)
	if err != nil {
		return nil, eris.Wrap(err, "shopify: get shop")
	}

	var out struct {
		Shop Shop `json:"shop"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, eris.Wrap(err, "shopify: unmarshal shop")
	}
	return &out.Shop, nil
}
