// internal/app/features/site/pages.go
package site

import (
	"net/http"

	"github.com/dalemusser/stratasite/internal/app/store/storeutil"
	"github.com/dalemusser/stratasite/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type homeVM struct {
	viewdata.BaseVM
	Home     HomeView
	Services []ServiceView
	Products []ProductView
	Posts    []BlogCard
}

func (h *Handler) home(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ctx(r)
	defer cancel()
	l := lang(r)

	doc, err := h.reg.Homepage.Get(ctx)
	if err != nil {
		h.fail(w, r, "load homepage", err)
		return
	}
	svcs, err := h.reg.Services.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "order", Value: 1}, {Key: "created_at", Value: -1}}).SetLimit(homeServices))
	if err != nil {
		h.fail(w, r, "load services", err)
		return
	}
	prods, err := h.reg.ProductsWithCategory(ctx, bson.M{"featured": true}, 0, homeProducts)
	if err != nil {
		h.fail(w, r, "load featured products", err)
		return
	}
	posts, err := h.reg.Blogs.Find(ctx, bson.M{"published": true},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(homePosts))
	if err != nil {
		h.fail(w, r, "load latest posts", err)
		return
	}

	vm := homeVM{BaseVM: viewdata.New(r), Home: projectHome(*doc, l)}
	vm.Title = vm.L["nav.home"]
	for _, s := range svcs {
		vm.Services = append(vm.Services, projectService(s, l))
	}
	for _, p := range prods {
		vm.Products = append(vm.Products, projectProduct(p, l))
	}
	for _, b := range posts {
		vm.Posts = append(vm.Posts, projectBlogCard(b, l))
	}
	templates.Render(w, r, "site/home", vm)
}

type servicesVM struct {
	viewdata.BaseVM
	Services []ServiceView
}

func (h *Handler) services(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ctx(r)
	defer cancel()

	svcs, err := h.reg.Services.Find(ctx, bson.M{})
	if err != nil {
		h.fail(w, r, "list services", err)
		return
	}
	vm := servicesVM{BaseVM: viewdata.New(r)}
	vm.Title = vm.L["nav.services"]
	for _, s := range svcs {
		vm.Services = append(vm.Services, projectService(s, lang(r)))
	}
	templates.Render(w, r, "site/services", vm)
}

type serviceVM struct {
	viewdata.BaseVM
	Service ServiceView
}

func (h *Handler) service(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ctx(r)
	defer cancel()

	s, err := h.reg.Services.GetBySlug(ctx, slugParam(r))
	if err != nil {
		h.fail(w, r, "load service", err)
		return
	}
	vm := serviceVM{BaseVM: viewdata.New(r), Service: projectService(*s, lang(r))}
	vm.Title = vm.Service.Title
	templates.Render(w, r, "site/service", vm)
}

type portfolioVM struct {
	viewdata.BaseVM
	Categories []CategoryView
	Active     string
	Products   []ProductView
	Pager      viewdata.Pager
}

// portfolio lists products joined to their category, optionally filtered by
// ?category=<slug>. An unknown category slug is a 404.
func (h *Handler) portfolio(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ctx(r)
	defer cancel()
	l := lang(r)

	cats, err := h.reg.Categories.Find(ctx, bson.M{})
	if err != nil {
		h.fail(w, r, "list categories", err)
		return
	}

	filter := bson.M{}
	active := query.Get(r, "category")
	if active != "" {
		c, err := h.reg.Categories.GetBySlug(ctx, active)
		if err != nil {
			h.fail(w, r, "load category", err)
			return
		}
		filter["category"] = c.ID
	}

	total, err := h.reg.Products.Count(ctx, filter)
	if err != nil {
		h.fail(w, r, "count products", err)
		return
	}
	page, limit := storeutil.Normalize(viewdata.PageParam(r), portfolioPageSize)
	prods, err := h.reg.ProductsWithCategory(ctx, filter, storeutil.Skip(page, limit), limit)
	if err != nil {
		h.fail(w, r, "list products", err)
		return
	}

	vm := portfolioVM{BaseVM: viewdata.New(r), Active: active}
	vm.Title = vm.L["nav.portfolio"]
	vm.Pager = viewdata.NewPager(r, page, storeutil.TotalPages(total, limit), vm.L["page.prev"], vm.L["page.next"])
	for _, c := range cats {
		vm.Categories = append(vm.Categories, projectCategory(c, l))
	}
	for _, p := range prods {
		vm.Products = append(vm.Products, projectProduct(p, l))
	}
	templates.Render(w, r, "site/portfolio", vm)
}

type productVM struct {
	viewdata.BaseVM
	Product ProductView
}

func (h *Handler) product(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ctx(r)
	defer cancel()

	found, err := h.reg.ProductsWithCategory(ctx, bson.M{"slug": slugParam(r)}, 0, 1)
	if err != nil {
		h.fail(w, r, "load product", err)
		return
	}
	if len(found) == 0 {
		h.pages.NotFound(w, r)
		return
	}
	vm := productVM{BaseVM: viewdata.New(r), Product: projectProduct(found[0], lang(r))}
	vm.Title = vm.Product.Name
	templates.Render(w, r, "site/product", vm)
}

type blogListVM struct {
	viewdata.BaseVM
	Posts []BlogCard
	Pager viewdata.Pager
}

// blogList shows published posts, newest first. Featured posts sort ahead of
// the rest, so they lead page 1.
func (h *Handler) blogList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ctx(r)
	defer cancel()

	filter := bson.M{"published": true}
	total, err := h.reg.Blogs.Count(ctx, filter)
	if err != nil {
		h.fail(w, r, "count posts", err)
		return
	}
	page, limit := storeutil.Normalize(viewdata.PageParam(r), blogPageSize)
	opts := storeutil.Paginate(limit, page).
		SetSort(bson.D{{Key: "featured", Value: -1}, {Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	posts, err := h.reg.Blogs.Find(ctx, filter, opts)
	if err != nil {
		h.fail(w, r, "list posts", err)
		return
	}

	vm := blogListVM{BaseVM: viewdata.New(r)}
	vm.Title = vm.L["nav.blog"]
	vm.Pager = viewdata.NewPager(r, page, storeutil.TotalPages(total, limit), vm.L["page.prev"], vm.L["page.next"])
	for _, b := range posts {
		vm.Posts = append(vm.Posts, projectBlogCard(b, lang(r)))
	}
	templates.Render(w, r, "site/blog_list", vm)
}

type blogPostVM struct {
	viewdata.BaseVM
	Post BlogView
}

// blogPost renders a published post. Drafts are not found.
func (h *Handler) blogPost(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ctx(r)
	defer cancel()

	b, err := h.reg.Blogs.FindOne(ctx, bson.M{"slug": slugParam(r), "published": true})
	if err != nil {
		h.fail(w, r, "load post", err)
		return
	}
	vm := blogPostVM{BaseVM: viewdata.New(r), Post: projectBlog(*b, lang(r))}
	vm.Title = vm.Post.Title
	templates.Render(w, r, "site/blog_post", vm)
}

type teamVM struct {
	viewdata.BaseVM
	Members []TeamView
}

func (h *Handler) team(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.ctx(r)
	defer cancel()

	members, err := h.reg.Team.Find(ctx, bson.M{})
	if err != nil {
		h.fail(w, r, "list team", err)
		return
	}
	vm := teamVM{BaseVM: viewdata.New(r)}
	vm.Title = vm.L["nav.team"]
	for _, m := range members {
		vm.Members = append(vm.Members, projectTeam(m, lang(r)))
	}
	templates.Render(w, r, "site/team", vm)
}
