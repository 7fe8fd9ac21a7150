package notify

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/spinhall/ladder-league/internal/platform/logging"
	"github.com/spinhall/ladder-league/internal/platform/resilience"
	"github.com/spinhall/ladder-league/internal/usecase"
)

var errWebhookTransient = crerr.New("webhook transient failure")

type WebhookPublisherConfig struct {
	TargetURL      string
	SigningSecret  string
	Timeout        time.Duration
	CircuitBreaker resilience.CircuitBreakerConfig
}

// WebhookPublisher delivers challenge events to a configured HTTP
// endpoint, typically the office chat integration. Delivery is best
// effort; callers treat a failed publish as a log line, not an error.
type WebhookPublisher struct {
	client         *http.Client
	targetURL      string
	signingSecret  string
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
}

func NewWebhookPublisher(cfg WebhookPublisherConfig, logger *logging.Logger) *WebhookPublisher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = logging.Default()
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &WebhookPublisher{
		client: &http.Client{
			Timeout: timeout,
		},
		targetURL:      strings.TrimSpace(cfg.TargetURL),
		signingSecret:  strings.TrimSpace(cfg.SigningSecret),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

func (p *WebhookPublisher) Publish(ctx context.Context, event usecase.ChallengeEvent) error {
	if p.circuitEnabled {
		if err := p.breaker.Allow(); err != nil {
			p.logger.WarnContext(ctx, "webhook circuit breaker rejected publish", "state", p.breaker.State())
			return fmt.Errorf("webhook endpoint is temporarily unavailable: %w", err)
		}
	}

	targetURL, err := validateHTTPURL(p.targetURL)
	if err != nil {
		return crerr.Wrap(err, "invalid webhook target url")
	}

	body, err := sonic.Marshal(event)
	if err != nil {
		return crerr.Wrap(err, "marshal challenge event")
	}

	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(
			attribute.String("webhook.target_url", targetURL),
			attribute.String("webhook.event_type", event.Type),
			attribute.String("webhook.challenge_id", event.ChallengeID),
		)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, targetURL, strings.NewReader(string(body)))
	if err != nil {
		return crerr.Wrap(err, "create webhook request")
	}
	req.Header.Set("Content-Type", "application/json")
	if p.signingSecret != "" {
		req.Header.Set("X-Ladder-Signature", signPayload(p.signingSecret, body))
	}

	resp, err := p.client.Do(req)
	if err != nil {
		callErr := fmt.Errorf("%w: publish challenge event type=%s: %v", errWebhookTransient, event.Type, err)
		p.recordCircuitResult(callErr)
		return callErr
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode/100 != 2 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		callErr := fmt.Errorf(
			"publish challenge event type=%s status=%d body=%s",
			event.Type,
			resp.StatusCode,
			strings.TrimSpace(string(raw)),
		)
		if isRetryableStatus(resp.StatusCode) {
			callErr = fmt.Errorf("%w: %v", errWebhookTransient, callErr)
		}
		p.recordCircuitResult(callErr)
		return callErr
	}

	p.logger.InfoContext(ctx, "challenge event published",
		"type", event.Type,
		"league_id", event.LeagueID,
		"challenge_id", event.ChallengeID,
	)
	p.recordCircuitResult(nil)
	return nil
}

func (p *WebhookPublisher) recordCircuitResult(err error) {
	if !p.circuitEnabled {
		return
	}
	if crerr.Is(err, errWebhookTransient) {
		p.breaker.RecordFailure()
		return
	}
	p.breaker.RecordSuccess()
}

// signPayload computes the hex HMAC-SHA256 the receiver checks before
// trusting the event.
func signPayload(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write(body)

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString("sha256=")
	_, _ = buf.WriteString(hex.EncodeToString(mac.Sum(nil)))
	return buf.String()
}

func isRetryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}

func validateHTTPURL(raw string) (string, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return "", crerr.New("value is empty")
	}

	parsed, err := url.Parse(candidate)
	if err != nil {
		return "", crerr.Wrapf(err, "parse %q", candidate)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", crerr.Newf("%q uses unsupported scheme=%q; expected http or https", candidate, parsed.Scheme)
	}
	if strings.TrimSpace(parsed.Host) == "" {
		return "", crerr.Newf("%q has empty host", candidate)
	}

	return candidate, nil
}
