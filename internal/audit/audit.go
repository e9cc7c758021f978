// Package audit inspects the live catalog for merchandising defects that the
// pipeline cannot cause but humans can: hand-edited prices below the floor,
// products stripped of images or category tags, categories without a smart
// collection.
package audit

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/twp-acessorios/garimpo-cli/pkg/shopify"
)

// Issue lists the problems found on one product.
type Issue struct {
	RemoteID int64    `json:"remote_id"`
	Title    string   `json:"title"`
	Problems []string `json:"problems"`
}

// Report aggregates one audit pass over the catalog.
type Report struct {
	TotalProducts       int      `json:"total_products"`
	ProductsWithIssues  int      `json:"products_with_issues"`
	UncoveredCategories []string `json:"uncovered_categories,omitempty"`
	Issues              []Issue  `json:"issues,omitempty"`
}

// Auditor runs catalog checks against the storefront.
type Auditor struct {
	api        shopify.Client
	vendor     string
	priceFloor float64
}

// NewAuditor creates an Auditor scoped to one vendor's products.
func NewAuditor(api shopify.Client, vendor string, priceFloor float64) *Auditor {
	return &Auditor{api: api, vendor: vendor, priceFloor: priceFloor}
}

// Run audits every product of the vendor plus smart-collection coverage.
func (a *Auditor) Run(ctx context.Context) (*Report, error) {
	opts := []shopify.ListOption{}
	if a.vendor != "" {
		opts = append(opts, shopify.WithVendor(a.vendor))
	}
	products, err := a.api.ListProducts(ctx, opts...)
	if err != nil {
		return nil, eris.Wrap(err, "audit: list products")
	}

	report := &Report{TotalProducts: len(products)}
	categories := map[string]bool{}

	for _, p := range products {
		problems := checkProduct(p, a.priceFloor)
		if cat := categoryTag(p.Tags); cat != "" {
			categories[cat] = true
		}
		if len(problems) > 0 {
			report.Issues = append(report.Issues, Issue{
				RemoteID: p.ID,
				Title:    p.Title,
				Problems: problems,
			})
		}
	}
	report.ProductsWithIssues = len(report.Issues)

	uncovered, err := a.uncoveredCategories(ctx, categories)
	if err != nil {
		return nil, err
	}
	report.UncoveredCategories = uncovered

	zap.L().Info("audit finished",
		zap.Int("products", report.TotalProducts),
		zap.Int("with_issues", report.ProductsWithIssues),
		zap.Int("uncovered_categories", len(uncovered)),
	)
	return report, nil
}

func checkProduct(p shopify.Product, priceFloor float64) []string {
	var problems []string

	if len(p.Images) == 0 {
		problems = append(problems, "sem imagens")
	}
	if strings.TrimSpace(p.BodyHTML) == "" {
		problems = append(problems, "sem descrição")
	}
	if categoryTag(p.Tags) == "" {
		problems = append(problems, "sem tag de categoria")
	}
	for _, v := range p.Variants {
		price, err := strconv.ParseFloat(v.Price, 64)
		if err != nil {
			problems = append(problems, fmt.Sprintf("preço inválido: %q", v.Price))
			continue
		}
		if priceFloor > 0 && price < priceFloor {
			problems = append(problems, fmt.Sprintf("preço abaixo do piso: %.2f < %.2f", price, priceFloor))
		}
	}

	return problems
}

// categoryTag extracts the cat:<category> tag from the API's comma-separated
// tag string, "" when absent.
func categoryTag(tags string) string {
	for _, t := range strings.Split(tags, ",") {
		t = strings.TrimSpace(t)
		if strings.HasPrefix(t, "cat:") {
			return t
		}
	}
	return ""
}

func (a *Auditor) uncoveredCategories(ctx context.Context, categories map[string]bool) ([]string, error) {
	if len(categories) == 0 {
		return nil, nil
	}

	collections, err := a.api.ListSmartCollections(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "audit: list smart collections")
	}

	covered := map[string]bool{}
	for _, col := range collections {
		for _, rule := range col.Rules {
			if rule.Column == "tag" && rule.Relation == "equals" {
				covered[rule.Condition] = true
			}
		}
	}

	var uncovered []string
	for cat := range categories {
		if !covered[cat] {
			uncovered = append(uncovered, cat)
		}
	}
	sort.Strings(uncovered)
	return uncovered, nil
}
