package analyst

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/primogreedy/scout/internal/contracts"
	"github.com/primogreedy/scout/pkg/config"
	"github.com/primogreedy/scout/pkg/httputil"
	"github.com/primogreedy/scout/pkg/logger"
)

const defaultBaseURL = "https://openrouter.ai/api/v1"

// OpenRouter writes memos through the OpenRouter chat completions API.
// Models are tried in the configured order; the chain advances only
// when the current model is rate limited (429). Any other failure is
// treated as fatal for the memo, because retrying a different model on
// a malformed request or auth error would just burn the chain.
type OpenRouter struct {
	client  *httputil.Client
	logger  *logger.Logger
	apiKey  string
	baseURL string
	models  []string
	insider InsiderFeed
}

func NewOpenRouter(cfg config.OpenRouterConfig, insider InsiderFeed, log *logger.Logger) *OpenRouter {
	base := cfg.BaseURL
	if base == "" {
		base = defaultBaseURL
	}
	return &OpenRouter{
		client:  httputil.NewWithTimeout(log, 90*time.Second).DisableRetry(),
		logger:  log,
		apiKey:  cfg.APIKey,
		baseURL: strings.TrimRight(base, "/"),
		models:  cfg.Models,
		insider: insider,
	}
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (o *OpenRouter) WriteMemo(ctx context.Context, c contracts.ScoredCandidate, verdict contracts.GatekeeperVerdict) (*contracts.Memo, error) {
	if len(o.models) == 0 {
		return nil, fmt.Errorf("%w: no models configured", contracts.ErrAnalystFailure)
	}

	prompt := o.buildPrompt(ctx, c)

	headers := map[string]string{
		"Authorization": "Bearer " + o.apiKey,
		"Content-Type":  "application/json",
	}

	body := chatRequest{
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
	}

	for i, model := range o.models {
		body.Model = model
		resp, err := o.client.PostJSON(ctx, o.baseURL+"/chat/completions", body, headers)
		if err != nil {
			return nil, fmt.Errorf("%w: model %s: %v", contracts.ErrAnalystFailure, model, err)
		}
		if resp.StatusCode == http.StatusTooManyRequests {
			resp.Body.Close()
			o.logger.Warnf("analyst model %s rate limited, advancing chain (%d/%d)", model, i+1, len(o.models))
			continue
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("%w: model %s returned status %d", contracts.ErrAnalystFailure, model, resp.StatusCode)
		}

		var out chatResponse
		if err := httputil.DecodeJSON(resp, &out); err != nil {
			return nil, fmt.Errorf("%w: model %s: %v", contracts.ErrAnalystFailure, model, err)
		}
		if len(out.Choices) == 0 || strings.TrimSpace(out.Choices[0].Message.Content) == "" {
			return nil, fmt.Errorf("%w: model %s returned empty completion", contracts.ErrAnalystFailure, model)
		}

		return &contracts.Memo{
			Ticker:    c.Ticker,
			Model:     model,
			Body:      strings.TrimSpace(out.Choices[0].Message.Content),
			CreatedAt: time.Now().UTC(),
		}, nil
	}

	return nil, fmt.Errorf("%w: all %d models rate limited", contracts.ErrAnalystFailure, len(o.models))
}

const systemPrompt = `You are a disciplined deep-value equity analyst in the Graham tradition.
You write short, sober investment memos on micro-cap stocks. You never
recommend position sizes and you always name the principal risks.`

func (o *OpenRouter) buildPrompt(ctx context.Context, c contracts.ScoredCandidate) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Write an investment memo for %s (%s, %s region).\n\n", c.CompanyName, c.Ticker, c.Region)
	fmt.Fprintf(&b, "Price: %.2f %s\n", c.Price, c.Region.Currency())
	fmt.Fprintf(&b, "Market cap: %d\n", c.MarketCap)
	fmt.Fprintf(&b, "EPS (ttm): %.2f\n", c.EPS)
	fmt.Fprintf(&b, "Book value/share: %.2f\n", c.BookValue)
	if c.GrahamValue != nil {
		graham := *c.GrahamValue
		fmt.Fprintf(&b, "Graham number: %.2f (price is %.0f%% of it)\n", graham, c.Price/graham*100)
	}
	fmt.Fprintf(&b, "Sector: %s\n", c.Sector)
	fmt.Fprintf(&b, "Composite score: %d/100\n", c.Score)
	if len(c.Breakdown) > 0 {
		fmt.Fprintf(&b, "Score drivers: %s\n", strings.Join(c.Breakdown, "; "))
	}

	if o.insider != nil && c.Region == contracts.RegionUSA {
		if sentiment, err := o.insider.InsiderSentiment(ctx, c.Ticker); err == nil && sentiment != "" {
			fmt.Fprintf(&b, "Insider sentiment: %s\n", sentiment)
		} else if err != nil {
			o.logger.WithError(err).Debugf("insider sentiment unavailable for %s", c.Ticker)
		}
	}

	fmt.Fprintf(&b, "\nCover: the value thesis, balance-sheet quality, why the market may be mispricing it, and the three biggest risks. Under 400 words.")
	return b.String()
}
