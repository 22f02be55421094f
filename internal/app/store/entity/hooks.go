// internal/app/store/entity/hooks.go
package entitystore

import (
	"context"
	"sort"
	"strings"

	"github.com/dalemusser/stratasite/internal/app/system/authutil"
	"github.com/dalemusser/stratasite/internal/app/system/docval"
	"github.com/dalemusser/stratasite/internal/app/system/htmlsanitize"
	"github.com/dalemusser/stratasite/internal/app/system/normalize"
	"github.com/dalemusser/stratasite/internal/domain/models"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
)

func trimBilingual(bs ...*models.Bilingual) {
	for _, b := range bs {
		*b = b.Trim()
	}
}

func prepareBlog(_ context.Context, b, _ *models.Blog) error {
	trimBilingual(&b.Title, &b.Description)
	b.CoverImage = strings.TrimSpace(b.CoverImage)
	for i := range b.Sections {
		s := &b.Sections[i]
		s.Type = strings.ToLower(strings.TrimSpace(s.Type))
		s.Image = strings.TrimSpace(s.Image)
		if s.Content != nil {
			c := models.Bilingual{
				EN: htmlsanitize.Sanitize(s.Content.EN),
				AR: htmlsanitize.Sanitize(s.Content.AR),
			}.Trim()
			s.Content = &c
			if c.IsZero() {
				s.Content = nil
			}
		}
	}
	sort.SliceStable(b.Sections, func(i, j int) bool {
		return b.Sections[i].Order < b.Sections[j].Order
	})
	b.Tags = normalize.Tags(b.Tags)
	return nil
}

func prepareProduct(_ context.Context, p, _ *models.Product) error {
	p.ProjectName = strings.TrimSpace(p.ProjectName)
	p.CoverImage = strings.TrimSpace(p.CoverImage)
	trimBilingual(&p.Description)
	return nil
}

func prepareService(_ context.Context, s, _ *models.Service) error {
	trimBilingual(&s.Title)
	s.Icon = strings.TrimSpace(s.Icon)
	for i := range s.Descriptions {
		trimBilingual(&s.Descriptions[i])
	}
	return nil
}

func prepareCategory(_ context.Context, c, _ *models.Category) error {
	c.NameEN = strings.TrimSpace(c.NameEN)
	c.NameAR = strings.TrimSpace(c.NameAR)
	return nil
}

func prepareTeam(_ context.Context, m, _ *models.TeamMember) error {
	trimBilingual(&m.Name, &m.JobTitle)
	m.Image = strings.TrimSpace(m.Image)
	return nil
}

func prepareContact(_ context.Context, c, _ *models.ContactUs) error {
	c.Name = normalize.Name(c.Name)
	c.Email = normalize.Email(c.Email)
	c.Message = strings.TrimSpace(c.Message)
	return nil
}

func prepareSubscriber(_ context.Context, s, _ *models.Subscriber) error {
	s.Email = normalize.Email(s.Email)
	return nil
}

// prepareUser normalizes identity fields. A new user needs a password.
func prepareUser(_ context.Context, u, prev *models.User) error {
	u.Name = normalize.Name(u.Name)
	u.Email = normalize.Email(u.Email)
	u.Role = normalize.Role(u.Role)
	if u.Role == "" {
		u.Role = models.RoleUser
	}
	if prev == nil && u.Password == "" {
		return docval.Invalid("password", "password is required")
	}
	return nil
}

// hashUserPassword replaces the plaintext password with its hash. A blank
// password on update keeps the stored hash.
func hashUserPassword(_ context.Context, u, prev *models.User) error {
	if u.Password == "" {
		if prev != nil {
			u.PasswordHash = prev.PasswordHash
		}
		return nil
	}
	if err := authutil.ValidatePassword(u.Password); err != nil {
		return docval.Invalid("password", err.Error())
	}
	hash, err := authutil.HashPassword(u.Password)
	if err != nil {
		return errors.Wrap(err, "hash password")
	}
	u.PasswordHash = hash
	u.Password = ""
	return nil
}

// checkCategoryNames runs the English and Arabic name checks in that order.
// The slug check follows in assignSlug; the unique indexes back all three.
func checkCategoryNames(cats *Collection[models.Category, *models.Category]) Hook[models.Category, *models.Category] {
	return func(ctx context.Context, c, _ *models.Category) error {
		checks := []struct {
			field, value, msg string
		}{
			{"name_en", c.NameEN, "A category with this English name already exists"},
			{"name_ar", c.NameAR, "A category with this Arabic name already exists"},
		}
		for _, chk := range checks {
			used, err := cats.exists(ctx, bson.M{chk.field: chk.value}, c.ID)
			if err != nil {
				return errors.Wrap(err, "check category "+chk.field)
			}
			if used {
				return duplicate(chk.msg)
			}
		}
		return nil
	}
}

// checkProductCategory rejects a reference to a missing category.
func checkProductCategory(cats *Collection[models.Category, *models.Category]) Hook[models.Product, *models.Product] {
	return func(ctx context.Context, p, _ *models.Product) error {
		if p.Category.IsZero() {
			return nil
		}
		n, err := cats.Count(ctx, bson.M{"_id": p.Category})
		if err != nil {
			return err
		}
		if n == 0 {
			return docval.Invalid("category", "category does not exist")
		}
		return nil
	}
}
