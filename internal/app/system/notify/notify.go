// Package notify sends the best-effort emails that follow a contact
// submission or a newsletter signup. Failures are logged and never reach the
// visitor; the submission itself has already been stored.
package notify

import (
	"context"

	entitystore "github.com/dalemusser/stratasite/internal/app/store/entity"
	"github.com/dalemusser/stratasite/internal/app/system/mailer"
	"github.com/dalemusser/stratasite/internal/app/system/timeouts"
	"github.com/dalemusser/stratasite/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Notifier sends contact and subscription emails.
type Notifier struct {
	reg     *entitystore.Registry
	mail    mailer.Sender
	to      string
	baseURL string
	logger  *zap.Logger
}

// New returns a Notifier. to is the owner's inbox for contact notices; an
// empty to disables them. baseURL builds the dashboard link in the notice.
func New(reg *entitystore.Registry, mail mailer.Sender, to, baseURL string, logger *zap.Logger) *Notifier {
	return &Notifier{reg: reg, mail: mail, to: to, baseURL: baseURL, logger: logger}
}

// ContactReceived emails the site owner about the contact submission with id.
func (n *Notifier) ContactReceived(ctx context.Context, id primitive.ObjectID) {
	if n == nil || n.to == "" {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	c, err := n.reg.Contacts.Get(ctx, id)
	if err != nil {
		n.logger.Warn("contact notice: load submission", zap.String("id", id.Hex()), zap.Error(err))
		return
	}

	var names []string
	if len(c.Services) > 0 {
		svcs, err := n.reg.Services.Find(ctx, bson.M{"_id": bson.M{"$in": c.Services}})
		if err != nil {
			n.logger.Warn("contact notice: load services", zap.Error(err))
		}
		for _, s := range svcs {
			names = append(names, s.Title.EN)
		}
	}

	data := mailer.ContactNoticeData{
		SiteName: n.siteName(ctx, models.LocaleEN),
		Name:     c.Name,
		Email:    c.Email,
		Phone:    c.Phone,
		Company:  c.Company,
		Services: names,
		Message:  c.Message,
	}
	if n.baseURL != "" {
		data.AdminURL = n.baseURL + "/dashboard/contact/" + id.Hex() + "/edit"
	}
	text, html := mailer.ContactNoticeEmail(data)

	if err := n.mail.Send(mailer.Email{
		To:       n.to,
		ReplyTo:  c.Email,
		Subject:  "New enquiry from " + c.Name,
		TextBody: text,
		HTMLBody: html,
	}); err != nil {
		n.logger.Warn("contact notice not sent", zap.String("id", id.Hex()), zap.Error(err))
		return
	}
	n.logger.Info("contact notice sent", zap.String("id", id.Hex()))
}

// Subscribed sends the signup confirmation to email in the visitor's locale.
func (n *Notifier) Subscribed(ctx context.Context, email, locale string) {
	if n == nil {
		return
	}
	subject, text := mailer.SubscribedEmail(mailer.SubscribedData{
		SiteName: n.siteName(ctx, locale),
		Arabic:   locale == models.LocaleAR,
	})
	if err := n.mail.Send(mailer.Email{To: email, Subject: subject, TextBody: text}); err != nil {
		n.logger.Warn("subscription confirmation not sent", zap.String("email", email), zap.Error(err))
	}
}

func (n *Notifier) siteName(ctx context.Context, locale string) string {
	s, err := n.reg.Settings.Get(ctx)
	if err != nil {
		return models.DefaultSiteName.In(locale)
	}
	return s.SiteName.In(locale)
}
