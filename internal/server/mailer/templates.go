package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"math"
	"time"
)

const (
	SubjectVerification  = "Verify Registration Request"
	SubjectPasswordReset = "Password Reset Request"
)

var verificationTmpl = template.Must(template.New("verification").Parse(`<!DOCTYPE html>
<html>
<body>
<p>Hello {{.Name}},</p>
<p>Thanks for signing up. Please confirm your email address to activate your account.</p>
<p><a href="{{.Link}}">Verify my account</a></p>
<p>If you did not create an account, you can ignore this email.</p>
</body>
</html>
`))

var resetTmpl = template.Must(template.New("reset").Parse(`<!DOCTYPE html>
<html>
<body>
<p>Hello {{.Name}},</p>
<p>We received a request to reset your password.</p>
<p><a href="{{.Link}}">Reset my password</a></p>
<p>This link is valid for {{.Validity}}. If you did not ask for a reset, you can ignore this email.</p>
</body>
</html>
`))

type templateData struct {
	Name     string
	Link     string
	Validity string
}

func render(t *template.Template, data templateData) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// NewVerificationMessage renders the email sent after registration.
func NewVerificationMessage(from, to, name, link string) (Message, error) {
	body, err := render(verificationTmpl, templateData{Name: name, Link: link})
	if err != nil {
		return Message{}, err
	}
	return Message{From: from, To: to, Subject: SubjectVerification, HTMLBody: body}, nil
}

// NewPasswordResetMessage renders the email carrying a reset link valid for validity.
func NewPasswordResetMessage(from, to, name, link string, validity time.Duration) (Message, error) {
	body, err := render(resetTmpl, templateData{Name: name, Link: link, Validity: humanize(validity)})
	if err != nil {
		return Message{}, err
	}
	return Message{From: from, To: to, Subject: SubjectPasswordReset, HTMLBody: body}, nil
}

// humanize renders whole minutes as "N minutes", anything else as a Go duration.
func humanize(d time.Duration) string {
	if d >= time.Minute && d%time.Minute == 0 {
		m := int64(math.Round(d.Minutes()))
		if m == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", m)
	}
	return d.String()
}
