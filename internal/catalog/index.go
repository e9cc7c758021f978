package catalog

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/twp-acessorios/garimpo-cli/pkg/shopify"
)

// RemoteIndex maps supplier external ids to remote product ids, built from
// the ref:<external id> tags the reconciler maintains. One listing per batch
// keeps id resolution off the per-product request budget.
type RemoteIndex struct {
	byRef map[string]int64
}

// BuildIndex lists the vendor's remote products and indexes them by ref tag.
func BuildIndex(ctx context.Context, api shopify.Client, vendor string) (*RemoteIndex, error) {
	opts := []shopify.ListOption{shopify.WithFields("id,tags")}
	if vendor != "" {
		opts = append(opts, shopify.WithVendor(vendor))
	}

	products, err := api.ListProducts(ctx, opts...)
	if err != nil {
		return nil, eris.Wrap(err, "catalog: build remote index")
	}

	ix := &RemoteIndex{byRef: make(map[string]int64, len(products))}
	for _, p := range products {
		for _, tag := range strings.Split(p.Tags, ",") {
			tag = strings.TrimSpace(tag)
			if ref, ok := strings.CutPrefix(tag, "ref:"); ok && ref != "" {
				ix.byRef[ref] = p.ID
			}
		}
	}

	zap.L().Debug("remote index built",
		zap.Int("products", len(products)),
		zap.Int("linked", len(ix.byRef)),
	)
	return ix, nil
}

// Locate resolves an external id to its remote product id.
func (ix *RemoteIndex) Locate(externalID string) (int64, bool) {
	id, ok := ix.byRef[externalID]
	return id, ok
}
