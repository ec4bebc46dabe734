package services

import (
  "context"
  "fmt"
  "os"

  "github.com/sendgrid/rest"
  "github.com/sendgrid/sendgrid-go"
  "github.com/sendgrid/sendgrid-go/helpers/mail"

  "github.com/uofg-market/marketplace-backend/internal/logger"
)

type EmailService interface {
  SendEmail(ctx context.Context, toEmail string, subject string, plainText string, htmlContent string, emailType string) error
}

type emailService struct {
  log                    *logger.Logger
  send                   func(ctx context.Context, message *mail.SGMailV3) (*rest.Response, error)
  fromSupportEmail       string
  fromVerificationEmail  string
}

func NewEmailService(log *logger.Logger) (EmailService, error) {
  serviceLog := log.With("Service", "EmailService")
  apiKey := os.Getenv("SENDGRID_API_KEY")
  if apiKey == "" {
    return nil, fmt.Errorf("Missing SENDGRID_API_KEY environment variable")
  }
  fromSupport := os.Getenv("SENDGRID_SUPPORT_EMAIL")
  if fromSupport == "" {
    serviceLog.Warn("SENDGRID_SUPPORT_EMAIL not set; using fallback no-reply@uofgmarket.co.uk")
    fromSupport = "no-reply@uofgmarket.co.uk"
  }
  fromVerification := os.Getenv("SENDGRID_VERIFICATION_EMAIL")
  if fromVerification == "" {
    serviceLog.Warn("SENDGRID_VERIFICATION_EMAIL not set; using fallback verify@uofgmarket.co.uk")
    fromVerification = "verify@uofgmarket.co.uk"
  }
  client := sendgrid.NewSendClient(apiKey)

  return &emailService{
    log:                   serviceLog,
    send:                  client.SendWithContext,
    fromSupportEmail:      fromSupport,
    fromVerificationEmail: fromVerification,
  }, nil
}

func (es *emailService) SendEmail(ctx context.Context, toEmail string, subject string, plainText string, htmlContent string, emailType string) error {
  var fromName = "UofG Marketplace"
  var fromEmail = es.fromSupportEmail
  switch emailType {
  case "verification":
    fromName = "UofG Marketplace Verification"
    fromEmail = es.fromVerificationEmail
  case "support":
    fromName = "UofG Marketplace Support"
    fromEmail = es.fromSupportEmail
  default:

  }
  from := mail.NewEmail(fromName, fromEmail)
  to := mail.NewEmail("", toEmail)
  message := mail.NewSingleEmail(from, subject, to, plainText, htmlContent)
  response, err := es.send(ctx, message)
  if err != nil {
    es.log.Warn("Sendgrid email send failed", "error", err)
    return err
  }
  // The REST client reports API rejections (bad key, suppressed
  // recipient) through the status code with a nil error; those sends
  // never happened either.
  if response.StatusCode >= 300 {
    es.log.Warn("Sendgrid rejected email send", "statusCode", response.StatusCode, "body", response.Body)
    return fmt.Errorf("sendgrid rejected email send: status %d", response.StatusCode)
  }
  es.log.Info("Email sent", "to", toEmail, "statusCode", response.StatusCode)
  return nil
}
