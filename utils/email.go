package utils

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/meinhoongagan/kure-api/config"
)

// Mailer sends HTML mail over SMTP.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewMailer(cfg config.SMTPConfig) *Mailer {
	return &Mailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		from:   cfg.User,
	}
}

func (m *Mailer) Send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	return m.dialer.DialAndSend(msg)
}

// OTPEmail builds the verification mail for an OTP purpose.
func OTPEmail(purpose, otp string, validMinutes int) (subject, body string) {
	subject = "Verify your email"
	intro := "Use the code below to verify your email address."
	if purpose == "forgot-password" {
		subject = "Reset your password"
		intro = "Use the code below to reset your password."
	}

	body = fmt.Sprintf(`
		<p>Hello,</p>
		<p>%s</p>
		<h2 style="letter-spacing:4px">%s</h2>
		<p>This code expires in %d minutes. If you did not request it, you can ignore this email.</p>
		<p>Kure Team</p>
	`, intro, otp, validMinutes)
	return subject, body
}

// ReminderEmail builds the day-before reminder for a confirmed appointment.
func ReminderEmail(userName, serviceName, providerName, date, clock, address string) (subject, body string) {
	subject = fmt.Sprintf("Reminder: %s on %s", serviceName, date)
	body = fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>This is a reminder for your appointment tomorrow.</p>
		<ul>
			<li><strong>Service:</strong> %s</li>
			<li><strong>Provider:</strong> %s</li>
			<li><strong>Date:</strong> %s</li>
			<li><strong>Time:</strong> %s</li>
			<li><strong>Address:</strong> %s</li>
		</ul>
		<p>If you need to cancel, please do so from the app as soon as possible.</p>
		<p>Kure Team</p>
	`, userName, serviceName, providerName, date, clock, address)
	return subject, body
}
