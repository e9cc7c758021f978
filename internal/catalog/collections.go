package catalog

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/twp-acessorios/garimpo-cli/pkg/shopify"
)

// EnsureCollections creates a tag-equals smart collection per category where
// one does not already exist. Returns the titles of collections created.
func EnsureCollections(ctx context.Context, api shopify.Client, categories []string) ([]string, error) {
	existing, err := api.ListSmartCollections(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "catalog: list smart collections")
	}

	covered := map[string]bool{}
	for _, col := range existing {
		for _, rule := range col.Rules {
			if rule.Column == "tag" && rule.Relation == "equals" {
				covered[rule.Condition] = true
			}
		}
	}

	titleCaser := cases.Title(language.BrazilianPortuguese)
	var created []string
	for _, raw := range categories {
		category := normalizeTag(raw)
		if category == "" {
			continue
		}
		tag := "cat:" + category
		if covered[tag] {
			continue
		}

		title := titleCaser.String(category)
		if _, err := api.CreateSmartCollection(ctx, title, tag); err != nil {
			return created, eris.Wrapf(err, "catalog: create collection %q", title)
		}
		zap.L().Info("smart collection created",
			zap.String("title", title),
			zap.String("tag", tag),
		)
		created = append(created, title)
	}

	return created, nil
}
