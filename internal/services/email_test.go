package services

import (
  "context"
  "errors"
  "testing"

  "github.com/sendgrid/rest"
  "github.com/sendgrid/sendgrid-go/helpers/mail"
  "github.com/stretchr/testify/assert"
  "github.com/stretchr/testify/require"

  "github.com/uofg-market/marketplace-backend/internal/logger"
)

func newStubEmailService(send func(ctx context.Context, message *mail.SGMailV3) (*rest.Response, error)) *emailService {
  return &emailService{
    log:                   logger.NewNop(),
    send:                  send,
    fromSupportEmail:      "no-reply@uofgmarket.co.uk",
    fromVerificationEmail: "verify@uofgmarket.co.uk",
  }
}

func TestSendEmailAcceptedStatus(t *testing.T) {
  es := newStubEmailService(func(ctx context.Context, message *mail.SGMailV3) (*rest.Response, error) {
    return &rest.Response{StatusCode: 202}, nil
  })
  require.NoError(t, es.SendEmail(context.Background(), "2715513L@student.gla.ac.uk", "subject", "plain", "<p>html</p>", "verification"))
}

func TestSendEmailTransportErrorPropagates(t *testing.T) {
  es := newStubEmailService(func(ctx context.Context, message *mail.SGMailV3) (*rest.Response, error) {
    return nil, errors.New("connection refused")
  })
  err := es.SendEmail(context.Background(), "2715513L@student.gla.ac.uk", "subject", "plain", "<p>html</p>", "verification")
  require.Error(t, err)
}

func TestSendEmailRejectedStatusIsAnError(t *testing.T) {
  // The REST client surfaces API rejections as a status code with a
  // nil error; a rejected send must still read as a failure so callers
  // like registration roll back.
  for _, status := range []int{400, 401, 403, 500} {
    es := newStubEmailService(func(ctx context.Context, message *mail.SGMailV3) (*rest.Response, error) {
      return &rest.Response{StatusCode: status, Body: "rejected"}, nil
    })
    err := es.SendEmail(context.Background(), "2715513L@student.gla.ac.uk", "subject", "plain", "<p>html</p>", "verification")
    require.Error(t, err, "status %d must fail the send", status)
    assert.Contains(t, err.Error(), "sendgrid rejected")
  }
}
