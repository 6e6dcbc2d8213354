package handlers

import (
	"bytes"
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/dustin/go-humanize"

	"github.com/nikhilbhutani/braillevoice/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

var indexTmpl = template.Must(template.ParseFS(templateFS, "templates/index.html"))

type pageData struct {
	MaxUpload string
	Error     string
	Result    *models.Result
}

// Page renders the single upload page.
type Page struct {
	maxUpload string
}

func NewPage(maxUploadBytes int64) *Page {
	return &Page{maxUpload: humanize.IBytes(uint64(maxUploadBytes))}
}

func (p *Page) Render(w http.ResponseWriter, status int, errMsg string, result *models.Result) {
	var buf bytes.Buffer
	err := indexTmpl.Execute(&buf, pageData{MaxUpload: p.maxUpload, Error: errMsg, Result: result})
	if err != nil {
		slog.Error("render page", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}
