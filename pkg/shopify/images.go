package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rotisserie/eris"
)

// Image is the Admin REST product image resource.
type Image struct {
	ID        int64  `json:"id"`
	ProductID int64  `json:"product_id"`
	Position  int    `json:"position"`
	Src       string `json:"src"`
}

// ImageUpload is a new image to attach to a product. Attachment is the
// base64-encoded image bytes; Position is 1-based.
type ImageUpload struct {
	Attachment string `json:"attachment"`
	Position   int    `json:"position"`
	Alt        string `json:"alt,omitempty"`
}

func (c *httpClient) ListImages(ctx context.Context, productID int64) ([]Image, error) {
	body, _, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/products/%d/images.json", productID), nil)
	if err != nil {
		return nil, eris.Wrapf(err, "shopify: list images for product %d", productID)
	}

	var out struct {
		Images []Image `json:"images"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, eris.Wrap(err, "shopify: unmarshal images")
	}
	return out.Images, nil
}

func (c *httpClient) DeleteImage(ctx context.Context, productID, imageID int64) error {
	_, _, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/products/%d/images/%d.json", productID, imageID), nil)
	if err != nil {
		return eris.Wrapf(err, "shopify: delete image %d from product %d", imageID, productID)
	}
	return nil
}

func (c *httpClient) CreateImage(ctx context.Context, productID int64, img ImageUpload) (*Image, error) {
	payload := map[string]ImageUpload{"image": img}
	body, _, err := c.do(ctx, http.MethodPost, fmt.Sprintf("/products/%d/images.json", productID), payload)
	if err != nil {
		return nil, eris.Wrapf(err, "shopify: create image for product %d", productID)
	}

	var out struct {
		Image Image `json:"image"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, eris.Wrap(err, "shopify: unmarshal created image")
	}
	return &out.Image, nil
}
