package email

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Sender delivers the three confirmation mails. Callers never invoke it
// inline; tasks reach it through the jobs worker.
type Sender interface {
	SendWelcome(ctx context.Context, to string, userID uint, token string) error
	SendUpdateConfirmation(ctx context.Context, to string, userID uint, token string) error
	SendDeleteConfirmation(ctx context.Context, to string, userID uint, token string) error
}

type SendGrid struct {
	apiKey  string
	from    string
	baseURL string
}

func NewSendGrid(apiKey, from, baseURL string) *SendGrid {
	return &SendGrid{apiKey: apiKey, from: from, baseURL: baseURL}
}

func (s *SendGrid) SendWelcome(_ context.Context, to string, userID uint, token string) error {
	link := s.confirmLink("confirm", userID, token)
	body := "Welcome to shop_api! Confirm your registration by following this link: " + link
	return s.send(to, "Welcome to shop_api!", body)
}

func (s *SendGrid) SendUpdateConfirmation(_ context.Context, to string, userID uint, token string) error {
	link := s.confirmLink("confirmUpdate", userID, token)
	body := "Confirm your profile update by following this link: " + link
	return s.send(to, "Profile update confirmation", body)
}

func (s *SendGrid) SendDeleteConfirmation(_ context.Context, to string, userID uint, token string) error {
	link := s.confirmLink("confirmDelete", userID, token)
	body := "Confirm your profile deletion by following this link: " + link
	return s.send(to, "Profile deletion confirmation", body)
}

func (s *SendGrid) confirmLink(action string, userID uint, token string) string {
	return fmt.Sprintf("%s/api/users/%s?userId=%d&token=%s", s.baseURL, action, userID, token)
}

func (s *SendGrid) send(to, subject, body string) error {
	if s.apiKey == "" {
		return fmt.Errorf("sendgrid api key is empty")
	}
	if to == "" {
		return fmt.Errorf("recipient address is empty")
	}

	message := mail.NewSingleEmail(
		mail.NewEmail("shop_api", s.from),
		subject,
		mail.NewEmail("", to),
		body,
		fmt.Sprintf("<p>%s</p>", body),
	)

	response, err := sendgrid.NewSendClient(s.apiKey).Send(message)
	if err != nil {
		return fmt.Errorf("sendgrid send error: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid send failed: status=%d, body=%s", response.StatusCode, response.Body)
	}
	return nil
}
