// Package scrape extracts product candidates from marketplace listing pages.
// Pages arrive either live through the Fetcher or as saved HTML exports; both
// go through the same parser.
package scrape

import (
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"

	"github.com/twp-acessorios/garimpo-cli/internal/model"
)

var numberPattern = regexp.MustCompile(`[\d][\d.,]*`)

// ParseListing parses one search-result page into candidates. Items without
// a title or listing URL are dropped; missing numeric fields default to zero
// and fall to the acceptance filter downstream.
func ParseListing(r io.Reader, category string) ([]model.Candidate, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, eris.Wrap(err, "scrape: parse listing html")
	}

	var candidates []model.Candidate
	doc.Find(".search-item").Each(func(_ int, item *goquery.Selection) {
		link := item.Find("a.item-title").First()
		title := strings.TrimSpace(link.Text())
		href, _ := link.Attr("href")
		if title == "" || href == "" {
			return
		}

		c := model.Candidate{
			ExternalID:   externalIDFromURL(href),
			Title:        title,
			ListingURL:   href,
			Category:     category,
			Price:        parseDecimal(item.Find(".item-price").First().Text()),
			Orders:       parseCount(item.Find(".item-orders").First().Text()),
			Rating:       parseDecimal(item.Find(".item-rating").First().Text()),
			Reviews:      parseCount(item.Find(".item-reviews").First().Text()),
			ShippingDays: parseCount(item.Find(".item-shipping").First().Text()),
		}
		if src, ok := item.Find("img").First().Attr("src"); ok {
			c.ImageURL = src
		}

		candidates = append(candidates, c)
	})

	return candidates, nil
}

var itemIDPattern = regexp.MustCompile(`/item/(\d+)`)

// externalIDFromURL pulls the numeric item id out of a listing URL, falling
// back to the full URL when the path shape is unknown.
func externalIDFromURL(href string) string {
	if m := itemIDPattern.FindStringSubmatch(href); m != nil {
		return m[1]
	}
	return href
}

// parseDecimal extracts the first decimal number from marketplace text like
// "US $12.34" or "4.8".
func parseDecimal(text string) float64 {
	raw := numberPattern.FindString(text)
	if raw == "" {
		return 0
	}
	// "1.234,56" style: treat the comma as the decimal separator.
	if strings.Contains(raw, ",") {
		raw = strings.ReplaceAll(raw, ".", "")
		raw = strings.ReplaceAll(raw, ",", ".")
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return v
}

// parseCount extracts an integer from text like "1,234 sold" or
// "2.345 pedidos".
func parseCount(text string) int {
	raw := numberPattern.FindString(text)
	if raw == "" {
		return 0
	}
	raw = strings.ReplaceAll(raw, ",", "")
	raw = strings.ReplaceAll(raw, ".", "")
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return n
}
