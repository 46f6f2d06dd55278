package email

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
	"time"

	"bilitrends/internal/models"
	"bilitrends/shared/config"
	"bilitrends/shared/export"
)

type Sender struct {
	config *config.EmailConfig
}

func NewSender(cfg *config.EmailConfig) *Sender {
	return &Sender{
		config: cfg,
	}
}

// Digest is the data handed to the email template: the day's chart plus
// its summary block and optional insights.
type Digest struct {
	Date     time.Time
	Videos   []*models.EnrichedVideo
	Summary  export.Summary
	Insights string
}

// SendDigest emails the trending digest for a scheduled run.
func (s *Sender) SendDigest(digest *Digest) error {
	if digest == nil {
		return fmt.Errorf("digest cannot be nil")
	}
	if len(digest.Videos) == 0 {
		return nil // Nothing to report
	}

	subject := fmt.Sprintf("Bilibili Popular Digest - %d Videos (%s)",
		len(digest.Videos), digest.Date.Format("Jan 2, 2006"))

	body, err := s.generateDigestBody(digest)
	if err != nil {
		return fmt.Errorf("failed to generate digest body: %w", err)
	}

	return s.sendViaSMTP(subject, body)
}

func (s *Sender) sendViaSMTP(subject, body string) error {
	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.SMTPServer)

	to := []string{s.config.ToEmail}
	msg := []byte(fmt.Sprintf(`To: %s
From: %s
Subject: %s
MIME-Version: 1.0
Content-Type: text/html; charset=UTF-8

%s`, s.config.ToEmail, s.config.FromEmail, subject, body))

	addr := fmt.Sprintf("%s:%d", s.config.SMTPServer, s.config.SMTPPort)
	return smtp.SendMail(addr, auth, s.config.FromEmail, to, msg)
}

func (s *Sender) generateDigestBody(digest *Digest) (string, error) {
	tmpl, err := template.New("digest").Funcs(template.FuncMap{
		"count": export.FormatCount,
	}).Parse(digestTemplate)
	if err != nil {
		return "", err
	}

	// Keep the email short; the full report lives on disk.
	top := digest.Videos
	if len(top) > 10 {
		top = top[:10]
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, struct {
		*Digest
		Top []*models.EnrichedVideo
	}{digest, top}); err != nil {
		return "", err
	}

	return buf.String(), nil
}

const digestTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Bilibili Popular Digest</title>
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 800px; margin: 0 auto; padding: 20px; }
        .header { background-color: #FB7299; color: white; padding: 20px; border-radius: 8px; margin-bottom: 20px; text-align: center; }
        .summary { background-color: #FFF0F5; padding: 15px; border-radius: 8px; margin-bottom: 20px; border-left: 4px solid #FB7299; }
        .video { background-color: #f8f9fa; padding: 15px; border-radius: 8px; margin-bottom: 12px; }
        .rank { color: #FB7299; font-weight: bold; }
        .stats { color: #666; font-size: 14px; }
        .new { color: #4CAF50; font-weight: bold; font-size: 12px; }
        .footer { text-align: center; color: #666; font-size: 12px; margin-top: 30px; border-top: 1px solid #ddd; padding-top: 15px; }
    </style>
</head>
<body>
    <div class="header">
        <h1>📺 Bilibili Popular Digest</h1>
        <p>{{.Date.Format "Monday, January 2, 2006"}}</p>
    </div>

    <div class="summary">
        <p><strong>Videos on chart:</strong> {{.Summary.Count}}</p>
        <p><strong>Total plays:</strong> {{.Summary.Total}} | <strong>Average:</strong> {{.Summary.Average}}</p>
        <p><strong>Max:</strong> {{.Summary.Max}} | <strong>Min:</strong> {{.Summary.Min}}</p>
    </div>

    {{if .Insights}}
    <div class="summary">
        <h3>Insights</h3>
        <p>{{.Insights}}</p>
    </div>
    {{end}}

    {{range .Top}}
    <div class="video">
        <p><span class="rank">#{{.Rank}}</span> <a href="https://www.bilibili.com/video/{{.Bvid}}">{{.Title}}</a> {{if .IsNew}}<span class="new">NEW</span>{{end}}</p>
        <p class="stats">{{.OwnerName}} | {{.Tname}} | {{.DurationFormatted}}</p>
        <p class="stats">Plays: {{count .PlayCount}} | Likes: {{count .LikeCount}} | Coins: {{count .CoinCount}} | Favorites: {{count .FavoriteCount}}</p>
    </div>
    {{end}}

    <div class="footer">
        <p>Generated by the Bilibili Popular Agent</p>
    </div>
</body>
</html>
`
