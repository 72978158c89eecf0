package email

import (
	"bytes"
	"fmt"
	"html/template"
)

const layout = `<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #222;">
  <h2>{{.Title}}</h2>
  <p>Hello {{.Name}},</p>
  {{if .Code}}<p>{{.Intro}}</p>
  <p style="font-size: 28px; letter-spacing: 6px; font-weight: bold;">{{.Code}}</p>{{end}}
  {{if .Link}}<p>{{.Intro}}</p>
  <p><a href="{{.Link}}" style="background: #1a73e8; color: #fff; padding: 10px 18px; text-decoration: none;">Verify email</a></p>
  <p>If the button does not work, open this link: {{.Link}}</p>{{end}}
  {{if .ExpiresIn}}<p>This code expires in {{.ExpiresIn}}.</p>{{end}}
  <p>If you did not request this, you can ignore this email.</p>
</body>
</html>`

var messageTemplate = template.Must(template.New("message").Parse(layout))

type messageData struct {
	Title     string
	Name      string
	Intro     string
	Code      string
	Link      string
	ExpiresIn string
}

func render(data messageData) (string, error) {
	if data.Name == "" {
		data.Name = "there"
	}

	var buf bytes.Buffer
	if err := messageTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render email: %w", err)
	}
	return buf.String(), nil
}
