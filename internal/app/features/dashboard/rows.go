package dashboard

import (
	"strconv"
	"time"

	"github.com/dalemusser/stratasite/internal/domain/models"
)

// row is one line of an entity listing.
type row struct {
	ID      string
	Title   string
	Detail  string
	Updated time.Time
}

// column headings per listing, matching row.Title and row.Detail.
var headings = map[string][2]string{
	"blog":       {"Title", "Status"},
	"product":    {"Project", "Category"},
	"service":    {"Title", "Order"},
	"category":   {"English name", "Arabic name"},
	"team":       {"Name", "Job title"},
	"contact":    {"Name", "Email"},
	"subscriber": {"Email", ""},
	"user":       {"Email", "Role"},
}

func rowFor(m *models.Meta, title, detail string) row {
	return row{ID: m.ID.Hex(), Title: title, Detail: detail, Updated: m.UpdatedAt}
}

// rowsOf projects a page of listing items into table rows.
func rowsOf(items any) []row {
	var out []row
	switch v := items.(type) {
	case []models.Blog:
		for i := range v {
			status := "Draft"
			if v[i].Published {
				status = "Published"
			}
			if v[i].Featured {
				status += ", featured"
			}
			out = append(out, rowFor(&v[i].Meta, v[i].Title.EN, status))
		}
	case []models.ProductWithCategory:
		for i := range v {
			cat := ""
			if v[i].CategoryDoc != nil {
				cat = v[i].CategoryDoc.NameEN
			}
			out = append(out, rowFor(&v[i].Meta, v[i].ProjectName, cat))
		}
	case []models.Service:
		for i := range v {
			out = append(out, rowFor(&v[i].Meta, v[i].Title.EN, strconv.Itoa(v[i].Order)))
		}
	case []models.Category:
		for i := range v {
			out = append(out, rowFor(&v[i].Meta, v[i].NameEN, v[i].NameAR))
		}
	case []models.TeamMember:
		for i := range v {
			out = append(out, rowFor(&v[i].Meta, v[i].Name.EN, v[i].JobTitle.EN))
		}
	case []models.ContactUs:
		for i := range v {
			name := v[i].Name
			if !v[i].Handled {
				name += " (new)"
			}
			out = append(out, rowFor(&v[i].Meta, name, v[i].Email))
		}
	case []models.Subscriber:
		for i := range v {
			out = append(out, rowFor(&v[i].Meta, v[i].Email, ""))
		}
	case []models.User:
		for i := range v {
			out = append(out, rowFor(&v[i].Meta, v[i].Email, v[i].Role))
		}
	}
	return out
}
