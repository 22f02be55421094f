package mailer

import (
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestDisabledMailerDropsMessages(t *testing.T) {
	m := New(Config{}, zap.NewNop())
	if m.Enabled() {
		t.Fatal("mailer without host should be disabled")
	}
	if err := m.Send(Email{To: "a@example.com", Subject: "x", TextBody: "y"}); err != nil {
		t.Errorf("Send() on disabled mailer error = %v", err)
	}
}

func TestContactNoticeEmail(t *testing.T) {
	text, html := ContactNoticeEmail(ContactNoticeData{
		SiteName: "Strata",
		Name:     "Sara <script>",
		Email:    "sara@example.com",
		Services: []string{"Web", "Mobile"},
		Message:  "We need a site.",
	})

	if !strings.Contains(text, "Interested in: Web, Mobile") {
		t.Errorf("text body missing services: %q", text)
	}
	if strings.Contains(html, "<script>") {
		t.Error("html body should escape visitor input")
	}
	if !strings.Contains(html, "We need a site.") {
		t.Error("html body missing message")
	}
}

func TestSubscribedEmail(t *testing.T) {
	subj, _ := SubscribedEmail(SubscribedData{SiteName: "Strata"})
	if subj != "Subscribed to Strata" {
		t.Errorf("subject = %q", subj)
	}
	subj, _ = SubscribedEmail(SubscribedData{SiteName: "ستراتا", Arabic: true})
	if !strings.HasPrefix(subj, "تم الاشتراك") {
		t.Errorf("arabic subject = %q", subj)
	}
}

func TestCompose_PlainText(t *testing.T) {
	m := New(Config{Host: "smtp.example", Port: 25, From: "noreply@example.com", FromName: "ستراتا"}, zap.NewNop())
	msg, err := m.compose(Email{
		To:       "owner@example.com",
		ReplyTo:  "sara@example.com",
		Subject:  "تم الاشتراك",
		TextBody: "Hello",
	}, "b")
	if err != nil {
		t.Fatalf("compose() error = %v", err)
	}
	s := string(msg)
	for _, want := range []string{
		"To: owner@example.com\r\n",
		"Reply-To: sara@example.com\r\n",
		"Subject: =?utf-8?q?",
		"From: =?utf-8?",
		"<noreply@example.com>\r\n",
		"Content-Type: text/plain; charset=UTF-8\r\n\r\nHello",
	} {
		if !strings.Contains(s, want) {
			t.Errorf("message missing %q:\n%s", want, s)
		}
	}
	if strings.Contains(s, "تم") {
		t.Error("subject should be encoded, not raw UTF-8")
	}
}

func TestCompose_Multipart(t *testing.T) {
	m := New(Config{Host: "smtp.example", From: "noreply@example.com"}, zap.NewNop())
	msg, err := m.compose(Email{To: "owner@example.com", Subject: "New enquiry", TextBody: "plain", HTMLBody: "<p>rich</p>"}, "XYZ")
	if err != nil {
		t.Fatalf("compose() error = %v", err)
	}
	s := string(msg)
	if !strings.Contains(s, `multipart/alternative; boundary="XYZ"`) {
		t.Errorf("missing multipart header:\n%s", s)
	}
	text := strings.Index(s, "text/plain")
	html := strings.Index(s, "text/html")
	if text < 0 || html < 0 || text > html {
		t.Errorf("text part should precede html part:\n%s", s)
	}
	if !strings.HasSuffix(s, "--XYZ--\r\n") {
		t.Errorf("missing closing boundary:\n%s", s)
	}
	if strings.Contains(s, "Reply-To") {
		t.Error("Reply-To should be omitted when empty")
	}
}

func TestCompose_RejectsHeaderInjection(t *testing.T) {
	m := New(Config{Host: "smtp.example", From: "noreply@example.com"}, zap.NewNop())
	tests := []Email{
		{To: "owner@example.com", Subject: "Hi\r\nBcc: victim@example.com"},
		{To: "owner@example.com\nBcc: x@example.com", Subject: "Hi"},
		{To: "not an address", Subject: "Hi"},
	}
	for _, e := range tests {
		if _, err := m.compose(e, "b"); err == nil {
			t.Errorf("compose(%+v) should fail", e)
		}
	}
}
