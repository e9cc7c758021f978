package catalog

import (
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// optionValuesPT maps supplier option values to their PT-BR storefront form.
// Lookup is case-insensitive; entries that map to themselves still normalize
// casing.
var optionValuesPT = map[string]string{
	// colors
	"red": "Vermelho", "blue": "Azul", "green": "Verde", "black": "Preto",
	"white": "Branco", "pink": "Rosa", "purple": "Roxo", "yellow": "Amarelo",
	"orange": "Laranja", "brown": "Marrom", "gray": "Cinza", "grey": "Cinza",
	"gold": "Dourado", "silver": "Prata", "rose": "Rosé", "beige": "Bege",
	"navy": "Azul Marinho", "wine": "Vinho", "khaki": "Cáqui",
	"coffee": "Café", "apricot": "Damasco", "champagne": "Champanhe",
	"red in golden": "Vermelho Dourado", "blue in golden": "Azul Dourado",
	"gold color": "Cor Dourada", "silver color": "Cor Prata",
	"rose gold": "Rosé", "light blue": "Azul Claro", "dark blue": "Azul Escuro",
	"light green": "Verde Claro", "dark green": "Verde Escuro",
	"cream": "Creme", "ivory": "Marfim", "coral": "Coral",
	// sizes
	"small": "Pequeno", "medium": "Médio", "large": "Grande",
	"s": "P", "m": "M", "l": "G", "xl": "GG", "xxl": "GGG",
	"one size": "Tamanho Único", "free size": "Tamanho Único",
	// measures
	"18cm": "18cm", "20cm": "20cm", "22cm": "22cm",
}

type optionPattern struct {
	re *regexp.Regexp
	pt string
}

// optionPatterns handles compound values ("Blue Flower"). Longest keys match
// first so "rose gold" wins over "rose".
var optionPatterns = buildOptionPatterns()

func buildOptionPatterns() []optionPattern {
	keys := make([]string, 0, len(optionValuesPT))
	for k := range optionValuesPT {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})

	out := make([]optionPattern, 0, len(keys))
	for _, k := range keys {
		out = append(out, optionPattern{
			re: regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(k) + `\b`),
			pt: optionValuesPT[k],
		})
	}
	return out
}

// translateOptionValue renders a supplier option value in PT-BR. Full-string
// matches translate directly; otherwise known words are replaced in place and
// the result title-cased. Unknown values pass through untouched.
func translateOptionValue(v string) string {
	trimmed := strings.TrimSpace(v)
	if trimmed == "" {
		return v
	}
	if pt, ok := optionValuesPT[strings.ToLower(trimmed)]; ok {
		return pt
	}

	out := trimmed
	for _, p := range optionPatterns {
		out = p.re.ReplaceAllString(out, p.pt)
	}
	if out == trimmed {
		return v
	}
	return cases.Title(language.BrazilianPortuguese).String(out)
}

// desiredOptionValue resolves position i of a variant's option values: an
// explicit desired value wins, otherwise the remote value is translated.
func desiredOptionValue(explicit []string, i int, remote string) string {
	if i < len(explicit) && explicit[i] != "" {
		return explicit[i]
	}
	return translateOptionValue(remote)
}
