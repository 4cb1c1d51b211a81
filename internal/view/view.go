// Package view renders the storefront pages and carries one-shot messages
// across redirects in the _error / _info query parameters.
package view

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"net/url"

	"github.com/pkg/errors"

	"github.com/ovaphlow/pitchfork/service-shop-go/internal/session"
)

//go:embed templates/*.html
var templates embed.FS

var pages = []string{"login", "register", "shop", "user", "admin"}

const (
	ParamError = "_error"
	ParamInfo  = "_info"
)

// Page is what every template receives.
type Page struct {
	Title    string
	Username string
	IsAdmin  bool
	Error    string
	Info     string
	Data     any
}

// Renderer executes the embedded page templates inside the shared layout.
type Renderer struct {
	pages map[string]*template.Template
}

func NewRenderer() (*Renderer, error) {
	base, err := template.ParseFS(templates, "templates/layout.html")
	if err != nil {
		return nil, errors.Wrap(err, "parse layout")
	}
	out := make(map[string]*template.Template, len(pages))
	for _, name := range pages {
		clone, err := base.Clone()
		if err != nil {
			return nil, err
		}
		t, err := clone.ParseFS(templates, "templates/"+name+".html")
		if err != nil {
			return nil, errors.Wrapf(err, "parse %s", name)
		}
		out[name] = t
	}
	return &Renderer{pages: out}, nil
}

// Render writes page name with data. Flash messages and the current identity
// are taken from the request.
func (v *Renderer) Render(w http.ResponseWriter, r *http.Request, name, title string, data any) error {
	t, ok := v.pages[name]
	if !ok {
		return errors.Errorf("unknown page %q", name)
	}
	page := Page{
		Title: title,
		Data:  data,
		Error: r.URL.Query().Get(ParamError),
		Info:  r.URL.Query().Get(ParamInfo),
	}
	if claims, ok := session.FromContext(r.Context()); ok {
		page.Username = claims.Username()
		page.IsAdmin = claims[session.ClaimRole] == session.RoleAdmin
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", page); err != nil {
		return errors.Wrapf(err, "render %s", name)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, err := buf.WriteTo(w)
	return err
}

// Redirect sends a 303 to path, attaching msg under param when non-empty.
func Redirect(w http.ResponseWriter, r *http.Request, path, param, msg string) {
	if msg != "" {
		q := url.Values{}
		q.Set(param, msg)
		path += "?" + q.Encode()
	}
	http.Redirect(w, r, path, http.StatusSeeOther)
}

// RedirectError redirects with an error message.
func RedirectError(w http.ResponseWriter, r *http.Request, path, msg string) {
	Redirect(w, r, path, ParamError, msg)
}

// RedirectInfo redirects with an info message.
func RedirectInfo(w http.ResponseWriter, r *http.Request, path, msg string) {
	Redirect(w, r, path, ParamInfo, msg)
}
