// internal/services/mail_service.go
package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/keighl/postmark"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/sirupsen/logrus"

	"github.com/otakughor/backend/internal/config"
	"github.com/otakughor/backend/internal/models"
)

type MailMessage struct {
	To       string
	ToName   string
	Subject  string
	HTMLBody string
	TextBody string
}

// MailSender delivers one rendered message.
type MailSender interface {
	Send(ctx context.Context, msg MailMessage) error
}

type MailService struct {
	sender MailSender
	config config.MailConfig
}

func NewMailService(cfg config.MailConfig) (*MailService, error) {
	var sender MailSender
	switch cfg.Provider {
	case "sendgrid":
		if cfg.SendGridKey == "" {
			return nil, fmt.Errorf("SENDGRID_API_KEY is required for the sendgrid mail provider")
		}
		sender = &sendGridSender{client: sendgrid.NewSendClient(cfg.SendGridKey), cfg: cfg}
	case "postmark":
		if cfg.PostmarkToken == "" {
			return nil, fmt.Errorf("POSTMARK_SERVER_TOKEN is required for the postmark mail provider")
		}
		sender = &postmarkSender{client: postmark.NewClient(cfg.PostmarkToken, ""), cfg: cfg}
	case "", "log":
		sender = logSender{}
	default:
		return nil, fmt.Errorf("unknown MAIL_PROVIDER %q", cfg.Provider)
	}
	return &MailService{sender: sender, config: cfg}, nil
}

// NewMailServiceWithSender wraps a caller-supplied sender.
func NewMailServiceWithSender(sender MailSender, cfg config.MailConfig) *MailService {
	return &MailService{sender: sender, config: cfg}
}

var (
	welcomeTemplate = template.Must(template.New("welcome").Parse(
		`<h2>Welcome to Otaku Ghor, {{.Name}}!</h2>
<p>Your account <strong>{{.Username}}</strong> is ready.</p>
<p>Browse the newest manga, light novels and figures at <a href="{{.ShopURL}}">{{.ShopURL}}</a>.</p>`))

	orderTemplate = template.Must(template.New("order").Parse(
		`<h2>Thank you for your order, {{.Order.CustomerName}}!</h2>
<p>Tracking number: <strong>{{.Order.TrackingNumber}}</strong></p>
<table>
{{range .Order.Items}}<tr><td>{{.Name}}</td><td>x{{.Quantity}}</td><td>{{printf "%.2f" .Price}}</td></tr>
{{end}}</table>
<p>Shipping: {{printf "%.2f" .Order.ShippingCost}}<br>Discount: {{printf "%.2f" .Order.Discount}}<br>
<strong>Total: {{printf "%.2f" .Order.FinalTotal}} BDT</strong></p>
<p>Payment method: {{.Order.PaymentMethod}}</p>
<p>Track your order at <a href="{{.TrackURL}}">{{.TrackURL}}</a>.</p>`))
)

func (s *MailService) SendWelcome(ctx context.Context, user *models.User) error {
	name := user.FullName()
	if name == "" {
		name = user.Username
	}

	body, err := renderTemplate(welcomeTemplate, map[string]interface{}{
		"Name":     name,
		"Username": user.Username,
		"ShopURL":  s.config.ShopURL,
	})
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sender.Send(ctx, MailMessage{
		To:       user.Email,
		ToName:   name,
		Subject:  "Welcome to Otaku Ghor",
		HTMLBody: body,
		TextBody: fmt.Sprintf("Welcome to Otaku Ghor, %s! Your account %s is ready.", name, user.Username),
	})
}

// SendOrderConfirmation is a no-op for orders without an e-mail address.
func (s *MailService) SendOrderConfirmation(ctx context.Context, order *models.Order) error {
	if order.Email == "" {
		return nil
	}

	body, err := renderTemplate(orderTemplate, map[string]interface{}{
		"Order":    order,
		"TrackURL": fmt.Sprintf("%s/track/%s", s.config.ShopURL, order.TrackingNumber),
	})
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sender.Send(ctx, MailMessage{
		To:       order.Email,
		ToName:   order.CustomerName,
		Subject:  fmt.Sprintf("Order %s confirmed", order.TrackingNumber),
		HTMLBody: body,
		TextBody: fmt.Sprintf("Your order %s has been placed. Total: %.2f BDT", order.TrackingNumber, order.FinalTotal),
	})
}

func renderTemplate(tmpl *template.Template, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

type logSender struct{}

func (logSender) Send(_ context.Context, msg MailMessage) error {
	logrus.WithFields(logrus.Fields{
		"to":      msg.To,
		"subject": msg.Subject,
	}).Info("Mail provider is log, not sending e-mail")
	return nil
}

type sendGridSender struct {
	client *sendgrid.Client
	cfg    config.MailConfig
}

func (s *sendGridSender) Send(_ context.Context, msg MailMessage) error {
	from := mail.NewEmail(s.cfg.FromName, s.cfg.FromEmail)
	to := mail.NewEmail(msg.ToName, msg.To)
	message := mail.NewSingleEmail(from, msg.Subject, to, msg.TextBody, msg.HTMLBody)

	resp, err := s.client.Send(message)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid returned status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

type postmarkSender struct {
	client *postmark.Client
	cfg    config.MailConfig
}

func (s *postmarkSender) Send(_ context.Context, msg MailMessage) error {
	_, err := s.client.SendEmail(postmark.Email{
		From:     fmt.Sprintf("%s <%s>", s.cfg.FromName, s.cfg.FromEmail),
		To:       msg.To,
		Subject:  msg.Subject,
		HtmlBody: msg.HTMLBody,
		TextBody: msg.TextBody,
	})
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
