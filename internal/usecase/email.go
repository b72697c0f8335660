package usecase

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"os"
	"time"

	"github.com/assetdesk/assetdesk/internal/config"
)

type Email struct {
	To          []string
	From        string
	CC          []string
	BCC         []string
	Subject     string
	Body        string
	Attachments []EmailAttachment
}

type EmailAttachment struct {
	Name        string
	ContentType string
	Content     []byte
}

//go:embed templates/*
var templates embed.FS

type notificationEmailData struct {
	Title       string
	UserName    string
	Message     string
	CurrentYear string
}

// SendNotificationEmail renders and sends the email form of a stored
// notification.
func (u Usecase) SendNotificationEmail(ctx context.Context, user User, n Notification) error {
	body, err := buildNotificationEmailBody(user, n)
	if err != nil {
		return err
	}

	from := os.Getenv(config.ENV_KEY_MAIL_FROM)
	if from == "" {
		from = "no-reply@assetdesk.local"
	}

	return u.mailProvider.SendEmail(ctx, Email{
		To:      []string{user.Email},
		From:    from,
		Subject: n.Title,
		Body:    body,
	})
}

func buildNotificationEmailBody(user User, n Notification) (string, error) {
	tmpl, err := template.
		New("base.html").
		ParseFS(
			templates,
			"templates/base.html",
			"templates/notification.html",
		)
	if err != nil {
		return "", err
	}

	data := notificationEmailData{
		Title:       n.Title,
		UserName:    displayName(user),
		Message:     n.Message,
		CurrentYear: time.Now().Format("2006"),
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
