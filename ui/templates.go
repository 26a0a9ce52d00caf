package ui

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"earlyvote/ui/templates/fragments"
)

// renderTemplate executes a template into a buffer first so a failing
// template never leaves a half-written response.
func (a *App) renderTemplate(w http.ResponseWriter, status int, templateName string, data interface{}) {
	var buf bytes.Buffer
	if err := a.templates.ExecuteTemplate(&buf, templateName, data); err != nil {
		a.logger.Error("Template error for %s: %v", templateName, err)
		http.Error(w, "Template rendering failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if fragments.IsFragment(templateName) {
		w.Header().Set("Vary", "HX-Request")
	}
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		a.logger.Warn("Error writing template response: %v", err)
	}
}

// renderMarkdown turns the configured description into HTML. Raw HTML in the
// source is dropped.
func renderMarkdown(src string) template.HTML {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	r := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.HrefTargetBlank | html.SkipHTML})
	return template.HTML(markdown.ToHTML([]byte(src), p, r))
}

// isHTMX reports whether the request was issued by htmx
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}
