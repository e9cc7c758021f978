// Package scoring enriches filtered candidates with a merchandising verdict.
// The oracle is treated as unreliable: any transport or parse failure drops
// to a deterministic metric-based scorer. Score never returns an error, so
// the pipeline keeps moving when the oracle is down.
package scoring

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/twp-acessorios/garimpo-cli/internal/config"
	"github.com/twp-acessorios/garimpo-cli/internal/model"
	"github.com/twp-acessorios/garimpo-cli/pkg/claude"
)

// maxTitleLen caps localized titles to the storefront's display limit.
const maxTitleLen = 70

const analysisPrompt = `Você é um especialista em dropshipping e e-commerce. Analise este produto para uma loja de acessórios (joias, relógios, óculos, bolsas).

DADOS DO PRODUTO:
- Título: %s
- Preço: $%.2f
- Pedidos: %d
- Rating: %.1f
- Reviews: %d
- Categoria: %s

CRITÉRIOS DE AVALIAÇÃO:
1. Potencial de venda no Brasil
2. Saturação de mercado
3. Margem de lucro (markup 2.5x é viável?)
4. Apelo visual/emocional
5. Facilidade de marketing

RESPONDA EXATAMENTE NESTE FORMATO JSON:
{
    "aprovado": true,
    "score": 85,
    "motivo": "explicação curta da decisão",
    "titulo_ptbr": "título otimizado em português (max 70 chars)",
    "descricao_seo": "descrição persuasiva com bullet points em HTML",
    "tags": ["tag1", "tag2", "tag3"],
    "preco_sugerido_brl": 99.90
}

Seja criterioso. Aprove apenas produtos com real potencial (score >= 70).`

// oraclePayload is the structured fragment expected inside the reply text.
type oraclePayload struct {
	Aprovado         bool     `json:"aprovado"`
	Score            float64  `json:"score"`
	Motivo           string   `json:"motivo"`
	TituloPTBR       string   `json:"titulo_ptbr"`
	DescricaoSEO     string   `json:"descricao_seo"`
	Tags             []string `json:"tags"`
	PrecoSugeridoBRL float64  `json:"preco_sugerido_brl"`
}

// Adapter scores candidates through the oracle with a deterministic fallback.
type Adapter struct {
	oracle   claude.Client
	model    string
	maxTok   int64
	timeout  time.Duration
	fallback *Fallback
}

// NewAdapter creates an Adapter. A nil oracle client means fallback-only
// operation (no API key configured).
func NewAdapter(oracle claude.Client, ai config.AnthropicConfig, scoring config.ScoringConfig, markup float64) *Adapter {
	maxTok := int64(ai.MaxTokens)
	if maxTok <= 0 {
		maxTok = 1500
	}
	timeout := time.Duration(ai.TimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Adapter{
		oracle:   oracle,
		model:    ai.Model,
		maxTok:   maxTok,
		timeout:  timeout,
		fallback: NewFallback(scoring, markup),
	}
}

// Score evaluates one candidate. It never fails: oracle unavailability and
// malformed replies both resolve to the fallback scorer.
func (a *Adapter) Score(ctx context.Context, c model.Candidate) model.ScoredCandidate {
	if a.oracle == nil {
		return a.fallback.Score(c)
	}

	callCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	resp, err := a.oracle.CreateMessage(callCtx, claude.MessageRequest{
		Model:     a.model,
		MaxTokens: a.maxTok,
		Prompt: fmt.Sprintf(analysisPrompt,
			c.Title, c.Price, c.Orders, c.Rating, c.Reviews, c.Category),
	})
	if err != nil {
		zap.L().Warn("oracle call failed, using fallback",
			zap.String("candidate", c.ExternalID),
			zap.Error(err),
		)
		return a.fallback.Score(c)
	}

	var payload oraclePayload
	if err := ExtractJSON(resp.Text, &payload); err != nil {
		zap.L().Warn("oracle reply unparsable, using fallback",
			zap.String("candidate", c.ExternalID),
			zap.Error(err),
		)
		return a.fallback.Score(c)
	}

	title := payload.TituloPTBR
	if title == "" {
		title = c.Title
	}
	if r := []rune(title); len(r) > maxTitleLen {
		title = string(r[:maxTitleLen])
	}

	return model.ScoredCandidate{
		Candidate:       c,
		Approved:        payload.Aprovado,
		Score:           clampScore(payload.Score),
		TitlePTBR:       title,
		DescriptionHTML: payload.DescricaoSEO,
		Tags:            payload.Tags,
		SuggestedPrice:  payload.PrecoSugeridoBRL,
		Rationale:       payload.Motivo,
		Source:          model.ScoreSourceOracle,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
