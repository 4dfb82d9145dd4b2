package sendgrid

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/yungbote/lnd-backend/internal/pkg/envutil"
	"github.com/yungbote/lnd-backend/internal/pkg/httpx"
	"github.com/yungbote/lnd-backend/internal/pkg/logger"
)

const sendEndpoint = "/v3/mail/send"

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

type Message struct {
	ToEmail string
	ToName  string
	Subject string
	Text    string
	HTML    string
}

type Config struct {
	APIKey    string
	BaseURL   string
	FromEmail string
	FromName  string
	Timeout   time.Duration
	// MaxRetries bounds retries on 429 and 5xx responses.
	MaxRetries int
}

func ConfigFromEnv(log *logger.Logger) Config {
	return Config{
		APIKey:     strings.TrimSpace(envutil.GetEnv("SENDGRID_API_KEY", "", log)),
		BaseURL:    strings.TrimSpace(envutil.GetEnv("SENDGRID_BASE_URL", "https://api.sendgrid.com", log)),
		FromEmail:  strings.TrimSpace(envutil.GetEnv("SENDGRID_FROM_EMAIL", "no-reply@example.com", log)),
		FromName:   strings.TrimSpace(envutil.GetEnv("SENDGRID_FROM_NAME", "Learning & Development", log)),
		Timeout:    time.Duration(envutil.GetEnvAsInt("SENDGRID_TIMEOUT_SECONDS", 30, log)) * time.Second,
		MaxRetries: envutil.GetEnvAsInt("SENDGRID_MAX_RETRIES", 2, log),
	}
}

// NewFromEnv returns a log-only mailer when no API key is configured.
func NewFromEnv(log *logger.Logger) Mailer {
	cfg := ConfigFromEnv(log)
	m, err := New(log, cfg)
	if err != nil {
		log.Warn("sendgrid disabled, emails will only be logged", "reason", err.Error())
		return NewLogMailer(log)
	}
	return m
}

func New(log *logger.Logger, cfg Config) (Mailer, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("missing SENDGRID_API_KEY")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.sendgrid.com"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	return &client{log: log.With("client", "SendGridClient"), cfg: cfg}, nil
}

type client struct {
	log *logger.Logger
	cfg Config
}

func (c *client) Send(ctx context.Context, msg Message) error {
	if strings.TrimSpace(msg.ToEmail) == "" {
		return errors.New("sendgrid: recipient required")
	}
	body := sgmail.GetRequestBody(c.build(msg))

	var lastErr error
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := httpx.JitterSleep(time.Duration(attempt*attempt) * 250 * time.Millisecond)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}

		reqCtx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
		req := sendgrid.GetRequest(c.cfg.APIKey, sendEndpoint, c.cfg.BaseURL)
		req.Method = http.MethodPost
		req.Body = body
		res, err := sendgrid.MakeRequestWithContext(reqCtx, req)
		cancel()

		if err != nil {
			lastErr = err
			if !httpx.IsRetryableError(err) {
				return lastErr
			}
			continue
		}
		if res.StatusCode < 300 {
			return nil
		}
		lastErr = fmt.Errorf("sendgrid: status %d: %s", res.StatusCode, truncate(res.Body, 256))
		if !httpx.IsRetryableHTTPStatus(res.StatusCode) {
			return lastErr
		}
		c.log.Warn("sendgrid retryable failure", "status", res.StatusCode, "attempt", attempt+1)
	}
	return lastErr
}

func (c *client) build(msg Message) *sgmail.SGMailV3 {
	p := sgmail.NewPersonalization()
	p.Subject = msg.Subject
	p.AddTos(sgmail.NewEmail(msg.ToName, msg.ToEmail))

	m := sgmail.NewV3Mail()
	m.SetFrom(sgmail.NewEmail(c.cfg.FromName, c.cfg.FromEmail))
	m.AddPersonalizations(p)
	text := msg.Text
	if text == "" {
		text = msg.Subject
	}
	m.AddContent(sgmail.NewContent("text/plain", text))
	if msg.HTML != "" {
		m.AddContent(sgmail.NewContent("text/html", msg.HTML))
	}
	return m
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

type logMailer struct {
	log *logger.Logger
}

func NewLogMailer(log *logger.Logger) Mailer {
	return &logMailer{log: log.With("client", "LogMailer")}
}

func (m *logMailer) Send(ctx context.Context, msg Message) error {
	m.log.Info("email (not sent)", "to", msg.ToEmail, "subject", msg.Subject)
	return nil
}
