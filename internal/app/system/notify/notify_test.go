package notify

import (
	"context"
	"errors"
	"strings"
	"testing"

	entitystore "github.com/dalemusser/stratasite/internal/app/store/entity"
	"github.com/dalemusser/stratasite/internal/app/system/mailer"
	"github.com/dalemusser/stratasite/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type captureSender struct {
	sent []mailer.Email
	err  error
}

func (c *captureSender) Send(e mailer.Email) error {
	if c.err != nil {
		return c.err
	}
	c.sent = append(c.sent, e)
	return nil
}

func createContact(t *testing.T, d *entitystore.Dispatcher, payload map[string]any) primitive.ObjectID {
	t.Helper()
	res := d.Create(context.Background(), "contact", payload)
	if !res.Success {
		t.Fatalf("create contact: %s", res.Message)
	}
	oid, err := primitive.ObjectIDFromHex(res.Data.(map[string]any)["id"].(string))
	if err != nil {
		t.Fatalf("bad id: %v", err)
	}
	return oid
}

func TestContactReceived(t *testing.T) {
	db := testutil.SetupTestDB(t)
	reg := entitystore.NewRegistry(db)
	d := entitystore.NewDispatcher(reg, zap.NewNop())

	svc := d.Create(context.Background(), "service", map[string]any{
		"title":        map[string]any{"en": "Web apps", "ar": "تطبيقات الويب"},
		"icon":         "code",
		"descriptions": []any{map[string]any{"en": "We build them", "ar": "نبنيها"}},
	})
	if !svc.Success {
		t.Fatalf("create service: %s", svc.Message)
	}
	svcID := svc.Data.(map[string]any)["id"].(string)

	id := createContact(t, d, map[string]any{
		"name":     "Sara",
		"email":    "sara@example.com",
		"services": []any{svcID},
		"message":  "Hello there",
	})

	mail := &captureSender{}
	n := New(reg, mail, "owner@example.com", "https://site.example", zap.NewNop())
	n.ContactReceived(context.Background(), id)

	if len(mail.sent) != 1 {
		t.Fatalf("sent = %d, want 1", len(mail.sent))
	}
	got := mail.sent[0]
	if got.To != "owner@example.com" {
		t.Errorf("To = %q", got.To)
	}
	if got.ReplyTo != "sara@example.com" {
		t.Errorf("ReplyTo = %q, want the visitor", got.ReplyTo)
	}
	if !strings.Contains(got.TextBody, "Interested in: Web apps") {
		t.Errorf("text body missing service: %q", got.TextBody)
	}
	if !strings.Contains(got.TextBody, "https://site.example/dashboard/contact/"+id.Hex()+"/edit") {
		t.Errorf("text body missing dashboard link: %q", got.TextBody)
	}
}

func TestContactReceived_NoRecipient(t *testing.T) {
	db := testutil.SetupTestDB(t)
	reg := entitystore.NewRegistry(db)
	mail := &captureSender{}

	New(reg, mail, "", "", zap.NewNop()).ContactReceived(context.Background(), primitive.NewObjectID())

	if len(mail.sent) != 0 {
		t.Errorf("sent = %d, want 0", len(mail.sent))
	}
}

func TestContactReceived_SendFailureLogged(t *testing.T) {
	db := testutil.SetupTestDB(t)
	reg := entitystore.NewRegistry(db)
	d := entitystore.NewDispatcher(reg, zap.NewNop())
	id := createContact(t, d, map[string]any{"name": "Ali", "email": "ali@example.com", "message": "Hi"})

	core, logs := observer.New(zap.WarnLevel)
	mail := &captureSender{err: errors.New("smtp down")}
	New(reg, mail, "owner@example.com", "", zap.New(core)).ContactReceived(context.Background(), id)

	if logs.FilterMessage("contact notice not sent").Len() != 1 {
		t.Error("expected the send failure to be logged")
	}
}

func TestSubscribed_Locale(t *testing.T) {
	db := testutil.SetupTestDB(t)
	reg := entitystore.NewRegistry(db)
	mail := &captureSender{}
	n := New(reg, mail, "", "", zap.NewNop())

	n.Subscribed(context.Background(), "a@example.com", "ar")
	n.Subscribed(context.Background(), "b@example.com", "en")

	if len(mail.sent) != 2 {
		t.Fatalf("sent = %d, want 2", len(mail.sent))
	}
	if !strings.Contains(mail.sent[0].Subject, "تم الاشتراك") {
		t.Errorf("arabic subject = %q", mail.sent[0].Subject)
	}
	if !strings.HasPrefix(mail.sent[1].Subject, "Subscribed to ") {
		t.Errorf("english subject = %q", mail.sent[1].Subject)
	}
}
