// Package catalog builds desired product states and reconciles them against
// the storefront.
package catalog

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/twp-acessorios/garimpo-cli/internal/config"
	"github.com/twp-acessorios/garimpo-cli/internal/model"
)

const defaultCategory = "acessorios"

// BuildDesired derives the desired remote state for a qualified candidate.
// The tag set always carries exactly one cat:<category> tag and one
// ref:<external id> tag linking the remote product back to its supplier
// listing; any category tags coming from the scorer are discarded in favor
// of the candidate's own category.
func BuildDesired(sc model.ScoredCandidate, pb model.PriceBreakdown, shop config.ShopifyConfig) model.CatalogProductState {
	category := normalizeTag(sc.Category)
	if category == "" {
		category = defaultCategory
	}

	title := sc.TitlePTBR
	if title == "" {
		title = sc.Title
	}
	body := sc.DescriptionHTML
	if body == "" {
		body = "<p>" + title + "</p>"
	}

	tags := make([]string, 0, len(sc.Tags)+1)
	seen := map[string]bool{}
	for _, raw := range sc.Tags {
		t := normalizeTag(raw)
		if t == "" || strings.HasPrefix(t, "cat:") || strings.HasPrefix(t, "ref:") || seen[t] {
			continue
		}
		seen[t] = true
		tags = append(tags, t)
	}
	tags = append(tags, "cat:"+category)
	if sc.ExternalID != "" {
		tags = append(tags, "ref:"+sc.ExternalID)
	}

	return model.CatalogProductState{
		Title:       title,
		BodyHTML:    body,
		Tags:        tags,
		Vendor:      shop.Vendor,
		ProductType: cases.Title(language.BrazilianPortuguese).String(category),
		Variants: []model.VariantState{
			{Price: pb.FinalPrice, CompareAt: pb.CompareAt},
		},
		Published: true,
	}
}

var tagFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// normalizeTag lowercases a tag and strips accents, so "Colar Dourado" and
// "colar dourado" land in the same smart collection.
func normalizeTag(s string) string {
	folded, _, err := transform.String(tagFolder, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(strings.TrimSpace(folded))
}
