package report

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/primogreedy/scout/internal/contracts"
	"github.com/primogreedy/scout/pkg/config"
	"github.com/primogreedy/scout/pkg/httputil"
	"github.com/primogreedy/scout/pkg/logger"
)

const resendEndpoint = "https://api.resend.com/emails"

// Sender delivers a formatted digest. Implementations must be
// failure-tolerant; the pipeline treats delivery as fire-and-forget.
type Sender interface {
	Send(ctx context.Context, subject, html string) error
}

// ResendSender delivers through the Resend HTTP API, one call per
// recipient so a bad address cannot block the rest.
type ResendSender struct {
	http     *httputil.Client
	endpoint string
	apiKey   string
	from     string
	to       []string
	logger   *logger.Logger
}

// NewResendSender creates the email sender
func NewResendSender(cfg config.ResendConfig, log *logger.Logger) *ResendSender {
	return &ResendSender{
		http:     httputil.NewWithTimeout(log, 15*time.Second),
		endpoint: resendEndpoint,
		apiKey:   cfg.APIKey,
		from:     cfg.From,
		to:       cfg.Recipients,
		logger:   log,
	}
}

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

type resendResponse struct {
	ID string `json:"id"`
}

// Send delivers the digest to every configured recipient. The last
// failure is returned for logging; partial delivery is not rolled
// back or retried here.
func (s *ResendSender) Send(ctx context.Context, subject, html string) error {
	if s.apiKey == "" {
		return fmt.Errorf("resend: no API key configured")
	}
	if len(s.to) == 0 {
		return fmt.Errorf("resend: no recipients configured")
	}

	headers := map[string]string{"Authorization": "Bearer " + s.apiKey}

	var lastErr error
	for _, recipient := range s.to {
		body := resendRequest{
			From:    s.from,
			To:      []string{recipient},
			Subject: subject,
			HTML:    html,
		}

		resp, err := s.http.PostJSON(ctx, s.endpoint, body, headers)
		if err != nil {
			lastErr = fmt.Errorf("resend to %s: %w", recipient, err)
			s.logger.WithError(err).WithField("recipient", recipient).Error("Email delivery failed")
			continue
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			lastErr = fmt.Errorf("resend to %s: status %d", recipient, resp.StatusCode)
			s.logger.WithField("recipient", recipient).
				Errorf("Email delivery failed with status %d", resp.StatusCode)
			continue
		}

		var out resendResponse
		if err := httputil.DecodeJSON(resp, &out); err == nil {
			s.logger.WithFields(map[string]interface{}{
				"recipient": recipient,
				"id":        out.ID,
			}).Info("Email delivered")
		}
	}
	return lastErr
}

// Deliver formats and sends the digest for a finished run. All
// failures are logged and swallowed.
func Deliver(ctx context.Context, sender Sender, f *Formatter, reports map[contracts.Region]*contracts.RegionReport, day time.Time, log *logger.Logger) {
	if sender == nil {
		return
	}
	subject := f.Subject(reports, day)
	if err := sender.Send(ctx, subject, f.HTML(reports)); err != nil {
		log.WithError(err).Warn("Digest delivery failed, run outcome unaffected")
	}
}
