package email_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"sweepo-backend/internal/domain"
	"sweepo-backend/pkg/email"
	"sweepo-backend/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const projectTemplates = "../../templates"

func sampleRequest() *domain.QuoteRequest {
	return &domain.QuoteRequest{
		Name:      "Jane Doe",
		Email:     "jane@example.com",
		Phone:     "+15551234567",
		Service:   "pest-control",
		Address:   "1 Main St",
		Message:   "Ants in kitchen",
		Timestamp: time.Date(2024, 5, 1, 16, 30, 0, 0, time.UTC),
		Source:    "website",
	}
}

func writeTemplates(t *testing.T, html, text string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, email.HTMLTemplateFile), []byte(html), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, email.TextTemplateFile), []byte(text), 0o600))
	return dir
}

func TestRendererProjectTemplates(t *testing.T) {
	r := email.NewRenderer(projectTemplates, true, logger.Discard())

	t.Run("Should render every field", func(t *testing.T) {
		out := r.Render(sampleRequest(), "a1b2c3d4")

		for _, body := range []string{out.HTML, out.Text} {
			assert.Contains(t, body, "Jane Doe")
			assert.Contains(t, body, "jane@example.com")
			assert.Contains(t, body, "+15551234567")
			assert.Contains(t, body, "Pest Control")
			assert.Contains(t, body, "1 Main St")
			assert.Contains(t, body, "Ants in kitchen")
			assert.Contains(t, body, "2024-05-01 16:30:00 UTC")
			assert.Contains(t, body, "a1b2c3d4")
			assert.NotContains(t, body, "{{")
			assert.NotContains(t, body, "pest-control")
		}
		assert.Contains(t, out.Text, "Address: 1 Main St")
	})

	t.Run("Should drop the optional sections when empty", func(t *testing.T) {
		req := sampleRequest()
		req.Address = ""
		req.Message = ""

		out := r.Render(req, "a1b2c3d4")
		for _, body := range []string{out.HTML, out.Text} {
			assert.NotContains(t, body, "Address:")
			assert.NotContains(t, body, "Message:")
			assert.NotContains(t, body, "{{")
		}
	})

	t.Run("Should pass unknown service codes through", func(t *testing.T) {
		req := sampleRequest()
		req.Service = "window-washing"

		out := r.Render(req, "a1b2c3d4")
		assert.Contains(t, out.Text, "Service: window-washing")
	})

	t.Run("Should be deterministic", func(t *testing.T) {
		first := r.Render(sampleRequest(), "a1b2c3d4")
		second := r.Render(sampleRequest(), "a1b2c3d4")
		assert.Equal(t, first, second)
	})
}

func TestRendererEscaping(t *testing.T) {
	dir := writeTemplates(t, "<p>{{CustomerName}}</p><p>{{CustomerMessage}}</p>", "{{CustomerName}}|{{CustomerMessage}}")
	r := email.NewRenderer(dir, false, logger.Discard())

	req := sampleRequest()
	req.Name = `<script>alert("x")</script>`
	req.Message = "Tom & Jerry {{CustomerEmail}} {{#if CustomerAddress}}"

	out := r.Render(req, "a1b2c3d4")

	t.Run("Should escape values in the HTML body", func(t *testing.T) {
		assert.NotContains(t, out.HTML, "<script>")
		assert.Contains(t, out.HTML, "&lt;script&gt;")
		assert.Contains(t, out.HTML, "Tom &amp; Jerry")
	})

	t.Run("Should keep the text body verbatim", func(t *testing.T) {
		assert.True(t, strings.HasPrefix(out.Text, `<script>alert("x")</script>|`))
		assert.Contains(t, out.Text, "Tom & Jerry")
	})

	t.Run("Should not expand markers found in submitted text", func(t *testing.T) {
		assert.Contains(t, out.Text, "{{CustomerEmail}} {{#if CustomerAddress}}")
		assert.NotContains(t, out.Text, "jane@example.com")
	})
}

func TestRendererDefaults(t *testing.T) {
	dir := writeTemplates(t, "", "{{CustomerAddress}}|{{CustomerMessage}}|{{Source}}")
	r := email.NewRenderer(dir, false, logger.Discard())

	req := sampleRequest()
	req.Address = ""
	req.Message = ""

	out := r.Render(req, "a1b2c3d4")
	assert.Equal(t, "Not provided|No additional details provided|website", out.Text)
}

func TestRendererFallback(t *testing.T) {
	t.Run("Should use the built-in layouts when assets are missing", func(t *testing.T) {
		r := email.NewRenderer(filepath.Join(t.TempDir(), "nowhere"), true, logger.Discard())

		out := r.Render(sampleRequest(), "a1b2c3d4")

		assert.True(t, strings.HasPrefix(out.Text, "NEW QUOTE REQUEST"))
		assert.Contains(t, out.Text, "Name: Jane Doe")
		assert.Contains(t, out.Text, "Service: Pest Control")
		assert.Contains(t, out.Text, "Address: 1 Main St")
		assert.Contains(t, out.Text, "Message:\nAnts in kitchen")
		assert.Contains(t, out.Text, "Submitted: 2024-05-01 16:30:00 UTC")
		assert.Contains(t, out.Text, "Request ID: a1b2c3d4")

		assert.Contains(t, out.HTML, "<!DOCTYPE html>")
		assert.Contains(t, out.HTML, "Pest Control")
		assert.Contains(t, out.HTML, "a1b2c3d4")
	})

	t.Run("Should fall back per body", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, email.TextTemplateFile), []byte("custom {{CustomerName}}"), 0o600))
		r := email.NewRenderer(dir, false, logger.Discard())

		out := r.Render(sampleRequest(), "a1b2c3d4")
		assert.Equal(t, "custom Jane Doe", out.Text)
		assert.Contains(t, out.HTML, "<!DOCTYPE html>")
	})

	t.Run("Should omit empty optional lines", func(t *testing.T) {
		req := sampleRequest()
		req.Address = ""
		req.Message = ""

		text := email.FallbackText(req, "a1b2c3d4")
		assert.NotContains(t, text, "Address:")
		assert.NotContains(t, text, "Message:")

		html := email.FallbackHTML(req, "a1b2c3d4")
		assert.NotContains(t, html, "Address:")
		assert.NotContains(t, html, "Message:")
	})

	t.Run("Should escape the HTML fallback", func(t *testing.T) {
		req := sampleRequest()
		req.Name = "<b>Jo</b>"

		html := email.FallbackHTML(req, "a1b2c3d4")
		assert.NotContains(t, html, "<b>Jo</b>")
		assert.Contains(t, html, "&lt;b&gt;Jo&lt;/b&gt;")
	})
}

func TestRendererCache(t *testing.T) {
	t.Run("Should keep serving the cached asset", func(t *testing.T) {
		dir := writeTemplates(t, "<p>v1</p>", "v1")
		r := email.NewRenderer(dir, true, logger.Discard())

		assert.Equal(t, "v1", r.Render(sampleRequest(), "a1b2c3d4").Text)

		require.NoError(t, os.WriteFile(filepath.Join(dir, email.TextTemplateFile), []byte("v2"), 0o600))
		assert.Equal(t, "v1", r.Render(sampleRequest(), "a1b2c3d4").Text)
	})

	t.Run("Should reread the asset without a cache", func(t *testing.T) {
		dir := writeTemplates(t, "<p>v1</p>", "v1")
		r := email.NewRenderer(dir, false, logger.Discard())

		assert.Equal(t, "v1", r.Render(sampleRequest(), "a1b2c3d4").Text)

		require.NoError(t, os.WriteFile(filepath.Join(dir, email.TextTemplateFile), []byte("v2"), 0o600))
		assert.Equal(t, "v2", r.Render(sampleRequest(), "a1b2c3d4").Text)
	})
}
