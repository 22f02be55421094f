// internal/app/system/mailer/templates.go
package mailer

import (
	"bytes"
	"html/template"
	"strings"
)

// ContactNoticeData is the content of the notification sent to the site
// owner when a visitor submits the contact form.
type ContactNoticeData struct {
	SiteName string
	Name     string
	Email    string
	Phone    string
	Company  string
	Services []string
	Message  string
	AdminURL string
}

var contactNoticeHTML = template.Must(template.New("contact").Parse(`<!doctype html>
<html><body style="font-family:sans-serif">
<h2>New enquiry on {{.SiteName}}</h2>
<p><strong>{{.Name}}</strong> &lt;{{.Email}}&gt;{{if .Phone}} · {{.Phone}}{{end}}{{if .Company}} · {{.Company}}{{end}}</p>
{{if .Services}}<p>Interested in: {{range $i, $s := .Services}}{{if $i}}, {{end}}{{$s}}{{end}}</p>{{end}}
<blockquote style="white-space:pre-wrap">{{.Message}}</blockquote>
{{if .AdminURL}}<p><a href="{{.AdminURL}}">Open in dashboard</a></p>{{end}}
</body></html>`))

// ContactNoticeEmail renders the contact notification.
func ContactNoticeEmail(data ContactNoticeData) (textBody, htmlBody string) {
	var t strings.Builder
	t.WriteString("New enquiry on " + data.SiteName + "\n\n")
	t.WriteString("From: " + data.Name + " <" + data.Email + ">\n")
	if data.Phone != "" {
		t.WriteString("Phone: " + data.Phone + "\n")
	}
	if data.Company != "" {
		t.WriteString("Company: " + data.Company + "\n")
	}
	if len(data.Services) > 0 {
		t.WriteString("Interested in: " + strings.Join(data.Services, ", ") + "\n")
	}
	t.WriteString("\n" + data.Message + "\n")
	if data.AdminURL != "" {
		t.WriteString("\n" + data.AdminURL + "\n")
	}

	var buf bytes.Buffer
	_ = contactNoticeHTML.Execute(&buf, data)
	return t.String(), buf.String()
}

// SubscribedData is the confirmation sent to a new newsletter subscriber.
type SubscribedData struct {
	SiteName string
	Arabic   bool
}

// SubscribedEmail renders the subscription confirmation in the visitor's language.
func SubscribedEmail(data SubscribedData) (subject, textBody string) {
	if data.Arabic {
		return "تم الاشتراك في " + data.SiteName,
			"شكراً لاشتراكك في النشرة البريدية لـ " + data.SiteName + "."
	}
	return "Subscribed to " + data.SiteName,
		"Thanks for subscribing to the " + data.SiteName + " newsletter."
}
