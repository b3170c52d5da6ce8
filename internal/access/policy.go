// Package access declares which dashboard routes each role may reach.
// The same table drives the API guard, the navigation menu and the
// per-route access check.
package access

import (
	"path"
	"strings"

	"github.com/equipe-feedtrack/feedtrack/internal/domain"
)

// Level is the minimum requirement of a route.
type Level int

const (
	Public Level = iota
	Authenticated
	Privileged
)

func (l Level) String() string {
	switch l {
	case Public:
		return "public"
	case Authenticated:
		return "authenticated"
	case Privileged:
		return "privileged"
	}
	return "unknown"
}

// Outcome of evaluating a route for a user.
type Outcome string

const (
	Allow         Outcome = "allow"
	RedirectLogin Outcome = "redirect_login"
	Forbidden     Outcome = "forbidden"
	NotFound      Outcome = "not_found"
)

// Route is one dashboard page.
type Route struct {
	Path  string `json:"path"`
	Label string `json:"label"`
	Level Level  `json:"-"`
	Menu  bool   `json:"-"`
}

// Decision is the result of Evaluate.
type Decision struct {
	Path     string  `json:"path"`
	Outcome  Outcome `json:"outcome"`
	Redirect string  `json:"redirect,omitempty"`
	Message  string  `json:"message,omitempty"`
}

// NavItem is a menu entry for the signed-in user.
type NavItem struct {
	Path  string `json:"path"`
	Label string `json:"label"`
}

const (
	LoginPath = "/login"
	HomePath  = "/home"
)

// Policy maps dashboard paths to requirements. The zero value is unusable;
// build one with Default.
type Policy struct {
	routes []Route
	index  map[string]Route
}

// Default returns the FeedTrack dashboard routes.
func Default() *Policy {
	return New([]Route{
		{Path: "/", Label: "Início", Level: Public},
		{Path: "/login", Label: "Entrar", Level: Public},
		{Path: "/register", Label: "Cadastro", Level: Public},
		{Path: "/recuperar-senha", Label: "Recuperar senha", Level: Public},

		{Path: "/home", Label: "Dashboard", Level: Authenticated, Menu: true},
		{Path: "/customers", Label: "Clientes", Level: Authenticated, Menu: true},
		{Path: "/products", Label: "Produtos", Level: Authenticated, Menu: true},
		{Path: "/campaigns", Label: "Campanhas", Level: Authenticated, Menu: true},
		{Path: "/form-builder", Label: "Formulários", Level: Authenticated, Menu: true},
		{Path: "/feedbacks", Label: "Feedbacks", Level: Authenticated, Menu: true},

		{Path: "/reports", Label: "Relatórios", Level: Privileged, Menu: true},
		{Path: "/settings", Label: "Configurações", Level: Privileged, Menu: true},
	})
}

// New builds a policy from an explicit route table.
func New(routes []Route) *Policy {
	p := &Policy{routes: routes, index: make(map[string]Route, len(routes))}
	for _, r := range routes {
		p.index[normalize(r.Path)] = r
	}
	return p
}

// Routes returns the route table in declaration order.
func (p *Policy) Routes() []Route {
	out := make([]Route, len(p.routes))
	copy(out, p.routes)
	return out
}

// Lookup returns the route registered for a path.
func (p *Policy) Lookup(routePath string) (Route, bool) {
	r, ok := p.index[normalize(routePath)]
	return r, ok
}

// Evaluate decides what the dashboard shows for routePath. user is nil for
// anonymous visitors.
func (p *Policy) Evaluate(routePath string, user *domain.User) Decision {
	clean := normalize(routePath)
	d := Decision{Path: clean}

	route, ok := p.index[clean]
	if !ok {
		if user == nil {
			d.Outcome = RedirectLogin
			d.Redirect = LoginPath
			return d
		}
		d.Outcome = NotFound
		d.Message = "Página não encontrada."
		return d
	}

	switch {
	case route.Level == Public:
		d.Outcome = Allow
	case user == nil:
		d.Outcome = RedirectLogin
		d.Redirect = LoginPath
	case route.Level == Privileged && !user.Role.Privileged():
		d.Outcome = Forbidden
		d.Redirect = HomePath
		d.Message = "Acesso restrito a administradores."
	default:
		d.Outcome = Allow
	}
	return d
}

// Allows reports whether role satisfies level.
func Allows(level Level, role domain.Role) bool {
	switch level {
	case Public:
		return true
	case Authenticated:
		return role.Valid()
	case Privileged:
		return role.Privileged()
	}
	return false
}

// Navigation lists the menu items role may open, in table order.
func (p *Policy) Navigation(role domain.Role) []NavItem {
	items := make([]NavItem, 0, len(p.routes))
	for _, r := range p.routes {
		if r.Menu && Allows(r.Level, role) {
			items = append(items, NavItem{Path: r.Path, Label: r.Label})
		}
	}
	return items
}

func normalize(p string) string {
	p = strings.TrimSpace(p)
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return path.Clean(p)
}
