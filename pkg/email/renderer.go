package email

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"sweepo-backend/internal/domain"
	"sweepo-backend/pkg/metrics"
)

// Template asset names, looked up inside the renderer's template directory
const (
	HTMLTemplateFile = "QuoteRequestEmail.html"
	TextTemplateFile = "QuoteRequestEmail.txt"
)

// RenderedEmail holds both renditions of the same quote email
type RenderedEmail struct {
	HTML string
	Text string
}

// Renderer turns quote requests into email bodies. Template assets are read
// from disk; when one is missing or rendering fails, the built-in layout is
// used for that body instead. Render never fails.
type Renderer struct {
	dir       string
	cache     bool
	templates sync.Map // path -> template text
	log       *slog.Logger
}

// NewRenderer creates a renderer reading assets from dir. With cache set a
// successfully read asset is kept in memory for the life of the process.
func NewRenderer(dir string, cache bool, log *slog.Logger) *Renderer {
	return &Renderer{
		dir:   dir,
		cache: cache,
		log:   log,
	}
}

// Render produces the HTML and plain-text bodies for a request
func (r *Renderer) Render(req *domain.QuoteRequest, requestID string) RenderedEmail {
	return RenderedEmail{
		HTML: r.render("html", HTMLTemplateFile, true, req, requestID),
		Text: r.render("text", TextTemplateFile, false, req, requestID),
	}
}

func (r *Renderer) render(body, file string, escape bool, req *domain.QuoteRequest, requestID string) (out string) {
	log := r.log.With("request_id", requestID, "body", body)

	defer func() {
		if rec := recover(); rec != nil {
			log.Error("template render failed, using fallback", "panic", rec)
			out = r.fallback(body, req, requestID)
		}
	}()

	path := filepath.Join(r.dir, file)
	tpl, err := r.load(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Warn("template missing, using fallback", "path", path)
		} else {
			log.Error("template unreadable, using fallback", "path", path, "error", err)
		}
		return r.fallback(body, req, requestID)
	}

	out = renderTemplate(tpl, req, requestID, escape)
	log.Debug("template rendered", "path", path, "length", len(out))
	return out
}

func (r *Renderer) fallback(body string, req *domain.QuoteRequest, requestID string) string {
	metrics.TemplateFallbacks.WithLabelValues(body).Inc()
	if body == "html" {
		return FallbackHTML(req, requestID)
	}
	return FallbackText(req, requestID)
}

func (r *Renderer) load(path string) (string, error) {
	if r.cache {
		if tpl, ok := r.templates.Load(path); ok {
			return tpl.(string), nil
		}
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	tpl := string(raw)

	if r.cache {
		r.templates.Store(path, tpl)
		r.log.Info("template loaded", "path", path, "length", len(tpl))
	}
	return tpl, nil
}
