package services

import (
	"fmt"
	"html"
	"strings"

	"gopkg.in/gomail.v2"

	"lifetrack/internal/models"
)

type EmailService interface {
	SendWelcomeEmail(email, displayName string) error
	SendRolloverDigest(email string, date models.Date, tasks []*models.DailyTask) error
	SendRedemptionEmail(email string, reward *models.Reward, balance int) error
}

type emailService struct {
	dialer *gomail.Dialer
	from   string
}

func NewEmailService(smtpHost string, smtpPort int, smtpUser, smtpPassword, fromEmail string) EmailService {
	dialer := gomail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPassword)
	return &emailService{
		dialer: dialer,
		from:   fromEmail,
	}
}

func (s *emailService) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)
	return s.dialer.DialAndSend(m)
}

func (s *emailService) SendWelcomeEmail(email, displayName string) error {
	name := displayName
	if name == "" {
		name = email
	}
	body := fmt.Sprintf(`
		<h2>Welcome to lifetrack, %s!</h2>
		<p>Plan your day, finish tasks and spend the XP you earn on rewards.</p>
	`, html.EscapeString(name))

	if err := s.send(email, "Welcome to lifetrack", body); err != nil {
		return fmt.Errorf("failed to send welcome email: %w", err)
	}
	return nil
}

func (s *emailService) SendRolloverDigest(email string, date models.Date, tasks []*models.DailyTask) error {
	var b strings.Builder
	fmt.Fprintf(&b, "<h3>%d unfinished task(s) moved to %s</h3><ul>", len(tasks), date)
	for _, t := range tasks {
		fmt.Fprintf(&b, "<li>%s <small>(rolled over %d time(s), planned for %s)</small></li>",
			html.EscapeString(t.Title), t.Rollovers, t.OriginalDate)
	}
	b.WriteString("</ul>")

	if err := s.send(email, "Tasks carried over to "+date.String(), b.String()); err != nil {
		return fmt.Errorf("failed to send rollover digest: %w", err)
	}
	return nil
}

func (s *emailService) SendRedemptionEmail(email string, reward *models.Reward, balance int) error {
	body := fmt.Sprintf(`
		<h3>Enjoy your reward: %s</h3>
		<p>%d XP spent. Remaining balance: <strong>%d XP</strong>.</p>
	`, html.EscapeString(reward.Name), reward.BasePrice, balance)

	if err := s.send(email, "Reward redeemed: "+reward.Name, body); err != nil {
		return fmt.Errorf("failed to send redemption email: %w", err)
	}
	return nil
}
