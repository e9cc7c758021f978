package shopify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient("example.myshopify.com", "shpat_test", "2024-07",
		WithBaseURL(srv.URL),
		WithRateLimit(1000),
	)
}

func TestListProducts_SinglePage(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products.json", r.URL.Path)
		assert.Equal(t, "shpat_test", r.Header.Get("X-Shopify-Access-Token"))
		assert.Equal(t, "250", r.URL.Query().Get("limit"))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"products": []Product{{ID: 1, Title: "Brinco Argola"}},
		})
	}))

	products, err := c.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Brinco Argola", products[0].Title)
}

func TestListProducts_FollowsLinkHeader(t *testing.T) {
	var srv *httptest.Server
	calls := 0
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		switch calls {
		case 1:
			w.Header().Set("Link", fmt.Sprintf(`<%s/products.json?page_info=abc&limit=250>; rel="next"`, srv.URL))
			_ = json.NewEncoder(w).Encode(map[string]any{"products": []Product{{ID: 1}}})
		case 2:
			assert.Equal(t, "abc", r.URL.Query().Get("page_info"))
			_ = json.NewEncoder(w).Encode(map[string]any{"products": []Product{{ID: 2}}})
		default:
			t.Fatalf("unexpected call %d", calls)
		}
	}))
	defer srv.Close()

	c := NewClient("example.myshopify.com", "tok", "2024-07",
		WithBaseURL(srv.URL), WithRateLimit(1000))

	products, err := c.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, int64(1), products[0].ID)
	assert.Equal(t, int64(2), products[1].ID)
}

func TestListProducts_VendorFilter(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "TWP Acessórios", r.URL.Query().Get("vendor"))
		_ = json.NewEncoder(w).Encode(map[string]any{"products": []Product{}})
	}))

	_, err := c.ListProducts(context.Background(), WithVendor("TWP Acessórios"))
	require.NoError(t, err)
}

func TestGetProduct_NotFound(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"errors":"Not Found"}`))
	}))

	_, err := c.GetProduct(context.Background(), 42)
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
}

func TestDo_RateLimited(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "2.0")
		w.WriteHeader(http.StatusTooManyRequests)
	}))

	_, err := c.GetProduct(context.Background(), 1)
	require.Error(t, err)

	var rlErr *RateLimitError
	require.True(t, errors.As(err, &rlErr))
	assert.Equal(t, 2*time.Second, rlErr.RetryAfter)
}

func TestUpdateProduct_SendsOnlySetFields(t *testing.T) {
	title := "Colar Choker Dourado"
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/products/7.json", r.URL.Path)

		var payload map[string]map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, title, payload["product"]["title"])
		_, hasBody := payload["product"]["body_html"]
		assert.False(t, hasBody)

		_ = json.NewEncoder(w).Encode(map[string]any{"product": Product{ID: 7, Title: title}})
	}))

	p, err := c.UpdateProduct(context.Background(), ProductUpdate{ID: 7, Title: &title})
	require.NoError(t, err)
	assert.Equal(t, title, p.Title)
}

func TestUpdateVariant_DecimalStrings(t *testing.T) {
	price := "49.90"
	compareAt := "59.90"
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/variants/11.json", r.URL.Path)

		var payload map[string]map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "49.90", payload["variant"]["price"])
		assert.Equal(t, "59.90", payload["variant"]["compare_at_price"])

		_ = json.NewEncoder(w).Encode(map[string]any{
			"variant": Variant{ID: 11, Price: price, CompareAtPrice: compareAt},
		})
	}))

	v, err := c.UpdateVariant(context.Background(), VariantUpdate{
		ID: 11, Price: &price, CompareAtPrice: &compareAt,
	})
	require.NoError(t, err)
	assert.Equal(t, "49.90", v.Price)
}

func TestUpdateVariant_OptionValuesOnly(t *testing.T) {
	option1 := "Azul"
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/variants/11.json", r.URL.Path)

		var payload map[string]map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "Azul", payload["variant"]["option1"])
		_, hasPrice := payload["variant"]["price"]
		assert.False(t, hasPrice)
		_, hasOption2 := payload["variant"]["option2"]
		assert.False(t, hasOption2)

		_ = json.NewEncoder(w).Encode(map[string]any{
			"variant": Variant{ID: 11, Option1: option1},
		})
	}))

	v, err := c.UpdateVariant(context.Background(), VariantUpdate{
		ID: 11, Option1: &option1,
	})
	require.NoError(t, err)
	assert.Equal(t, "Azul", v.Option1)
}

func TestImageLifecycle(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodDelete:
			assert.Equal(t, "/products/3/images/9.json", r.URL.Path)
			_, _ = w.Write([]byte(`{}`))
		case r.Method == http.MethodPost:
			var payload map[string]ImageUpload
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			assert.Equal(t, 1, payload["image"].Position)
			assert.NotEmpty(t, payload["image"].Attachment)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"image": Image{ID: 99, ProductID: 3, Position: 1},
			})
		default:
			_ = json.NewEncoder(w).Encode(map[string]any{
				"images": []Image{{ID: 9, ProductID: 3, Position: 1}},
			})
		}
	}))

	imgs, err := c.ListImages(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, imgs, 1)

	require.NoError(t, c.DeleteImage(context.Background(), 3, 9))

	created, err := c.CreateImage(context.Background(), 3, ImageUpload{
		Attachment: "aGVsbG8=", Position: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(99), created.ID)
}

func TestCreateSmartCollection_TagRule(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))

		rules := payload["smart_collection"]["rules"].([]any)
		rule := rules[0].(map[string]any)
		assert.Equal(t, "tag", rule["column"])
		assert.Equal(t, "equals", rule["relation"])
		assert.Equal(t, "cat:brincos", rule["condition"])

		_ = json.NewEncoder(w).Encode(map[string]any{
			"smart_collection": SmartCollection{ID: 5, Title: "Brincos"},
		})
	}))

	col, err := c.CreateSmartCollection(context.Background(), "Brincos", "cat:brincos")
	require.NoError(t, err)
	assert.Equal(t, int64(5), col.ID)
}

func TestCountProducts(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products/count.json", r.URL.Path)
		_, _ = w.Write([]byte(`{"count": 137}`))
	}))

	n, err := c.CountProducts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 137, n)
}

func TestNextPageURL(t *testing.T) {
	tests := []struct {
		name string
		link string
		want string
	}{
		{"empty", "", ""},
		{"next only", `<https://x/admin/api/2024-07/products.json?page_info=a>; rel="next"`, "https://x/admin/api/2024-07/products.json?page_info=a"},
		{"prev and next", `<https://x/p.json?page_info=a>; rel="previous", <https://x/p.json?page_info=b>; rel="next"`, "https://x/p.json?page_info=b"},
		{"prev only", `<https://x/p.json?page_info=a>; rel="previous"`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := http.Header{}
			if tt.link != "" {
				h.Set("Link", tt.link)
			}
			assert.Equal(t, tt.want, nextPageURL(h))
		})
	}
}
