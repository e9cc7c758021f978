package shopify

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rotisserie/eris"
)

// SmartCollection is an automated collection driven by rules.
type SmartCollection struct {
	ID    int64            `json:"id"`
	Title string           `json:"title"`
	Rules []CollectionRule `json:"rules"`
}

// CollectionRule is one membership rule of a smart collection.
type CollectionRule struct {
	Column    string `json:"column"`
	Relation  string `json:"relation"`
	Condition string `json:"condition"`
}

func (c *httpClient) ListSmartCollections(ctx context.Context) ([]SmartCollection, error) {
	var all []SmartCollection
	next := "/smart_collections.json?limit=250"
	for next != "" {
		body, headers, err := c.do(ctx, http.MethodGet, next, nil)
		if err != nil {
			return nil, eris.Wrap(err, "shopify: list smart collections")
		}

		var page struct {
			SmartCollections []SmartCollection `json:"smart_collections"`
		}
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, eris.Wrap(err, "shopify: unmarshal smart collections")
		}
		all = append(all, page.SmartCollections...)

		next = nextPageURL(headers)
	}
	return all, nil
}

func (c *httpClient) CreateSmartCollection(ctx context.Context, title, tag string) (*SmartCollection, error) {
	payload := map[string]any{
		"smart_collection": map[string]any{
			"title":     title,
			"published": true,
			"rules": []CollectionRule{
				{Column: "tag", Relation: "equals", Condition: tag},
			},
		},
	}

	body, _, err := c.do(ctx, http.MethodPost, "/smart_collections.json", payload)
	if err != nil {
		return nil, eris.Wrapf(err, "shopify: create smart collection %q", title)
	}

	var out struct {
		SmartCollection SmartCollection `json:"smart_collection"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, eris.Wrap(err, "shopify: unmarshal created smart collection")
	}
	return &out.SmartCollection, nil
}
