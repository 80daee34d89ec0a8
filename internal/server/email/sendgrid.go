package email

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

var (
	sendgridHost     = "https://api.sendgrid.com"
	sendgridEndpoint = "/v3/mail/send"
)

// SendgridSender delivers mail through the SendGrid v3 API.
type SendgridSender struct {
	key  string
	from *sgmail.Email
}

func NewSendgridSender(apiKey, fromAddress string) *SendgridSender {
	return &SendgridSender{
		key:  apiKey,
		from: sgmail.NewEmail("DropWatch", fromAddress),
	}
}

func (s *SendgridSender) Send(ctx context.Context, to, subject, body string) error {
	m := sgmail.NewV3Mail()
	m.SetFrom(s.from)

	p := sgmail.NewPersonalization()
	p.Subject = subject
	p.AddTos(sgmail.NewEmail("", to))
	m.AddPersonalizations(p)

	m.AddContent(sgmail.NewContent("text/plain", body))

	req := sendgrid.GetRequest(s.key, sendgridEndpoint, sendgridHost)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(m)

	res, err := sendgrid.MakeRequestWithContext(ctx, req)
	if err != nil {
		return fmt.Errorf("sending email: %w", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sending email: status %d: %s", res.StatusCode, res.Body)
	}
	return nil
}
