package service

import (
	"crypto/tls"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-mail/mail/v2"
	"github.com/sirupsen/logrus"
)

type EmailSender struct {
	dialer  *mail.Dialer
	logger  *logrus.Logger
	enabled bool
}

func NewEmailSender(logger *logrus.Logger) *EmailSender {
	smtpHost := os.Getenv("SMTP_HOST")
	smtpPortStr := os.Getenv("SMTP_PORT")
	smtpUser := os.Getenv("SMTP_USER")
	smtpPass := os.Getenv("SMTP_PASS")
	enabled := os.Getenv("EMAIL_SENDER_ENABLED") == "true"
	isInsecureSkipVerify := os.Getenv("INSECURE_SKIP_VERIFY") == "true"

	smtpPort, err := strconv.Atoi(smtpPortStr)
	if err != nil {
		if enabled {
			logger.Fatalf("Ошибка преобразования SMTP_PORT: %v", err)
		}
		smtpPort = 587
	}

	d := mail.NewDialer(smtpHost, smtpPort, smtpUser, smtpPass)
	d.TLSConfig = &tls.Config{
		ServerName:         smtpHost,
		InsecureSkipVerify: isInsecureSkipVerify,
	}

	return &EmailSender{
		dialer:  d,
		logger:  logger,
		enabled: enabled,
	}
}

// SendCustomerWelcome отправляет приветственное письмо новому клиенту
func (es *EmailSender) SendCustomerWelcome(email, name string) error {
	if !es.enabled {
		es.logger.Warn("Отправка уведомлений отключена")
		return nil
	}

	subject := "Добро пожаловать!"
	content := fmt.Sprintf(`
		<h1>Добро пожаловать, %s!</h1>
		<p>Вы были зарегистрированы в системе учета клиентов.</p>
		<p>Дата регистрации: <strong>%s</strong></p>
		<small>Это автоматическое уведомление, пожалуйста, не отвечайте на него</small>
	`, name, time.Now().Format("02.01.2006 15:04"))

	return es.sendEmail(email, subject, content)
}

// SendCardExpiryNotification уведомляет владельца о скором истечении карты клиента
func (es *EmailSender) SendCardExpiryNotification(ownerEmail, customerName, maskedNumber, expiry string) error {
	if !es.enabled {
		es.logger.Warn("Отправка уведомлений отключена")
		return nil
	}

	subject := "Уведомление об истечении срока действия карты"
	content := fmt.Sprintf(`
		<h1>Срок действия карты скоро истекает</h1>
		<p>Клиент: <strong>%s</strong></p>
		<p>Карта: <strong>%s</strong></p>
		<p>Действительна до: <strong>%s</strong></p>
		<small>Это автоматическое уведомление, пожалуйста, не отвечайте на него</small>
	`, customerName, maskedNumber, expiry)

	return es.sendEmail(ownerEmail, subject, content)
}

func (es *EmailSender) sendEmail(to, subject, body string) error {
	m := mail.NewMessage()
	m.SetHeader("From", os.Getenv("SMTP_USER"))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := es.dialer.DialAndSend(m); err != nil {
		es.logger.WithError(err).Error("Ошибка отправки email")
		return fmt.Errorf("не удалось отправить email: %w", err)
	}

	es.logger.Infof("Email успешно отправлен на %s", to)
	return nil
}
