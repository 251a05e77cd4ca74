// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package web serves a small upload page: a ZIP archive of calendar PDFs
// goes in, a table of events and a CSV download come out.
package web

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log"
	"net/http"
	"sync"

	"github.com/google/uuid"

	"github.com/pdiddy/calparse/internal/batch"
	"github.com/pdiddy/calparse/internal/export"
	"github.com/pdiddy/calparse/pkg/types"
)

const (
	// DownloadName is the file name offered for the CSV download.
	DownloadName = "calendar_events.csv"

	defaultMaxUploadMB = 64
	// maxCached bounds the number of result sets kept for download.
	maxCached = 32
	formField = "archive"
)

// Messages shown after an upload.
const (
	msgNoPDFs   = "No PDF files found in the uploaded ZIP archive."
	msgNoEvents = "No events were parsed from the uploaded files."
)

// Server handles the upload page.
type Server struct {
	runner    *batch.Runner
	maxUpload int64
	logger    *log.Logger

	mu      sync.Mutex
	results map[string][]types.Record
	order   []string
}

// New returns a Server that parses uploads with runner. cfg.MaxUploadMB
// caps the request size; zero uses the default.
func New(runner *batch.Runner, cfg types.ServeConfig, logger *log.Logger) *Server {
	mb := cfg.MaxUploadMB
	if mb <= 0 {
		mb = defaultMaxUploadMB
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Server{
		runner:    runner,
		maxUpload: mb << 20,
		logger:    logger,
		results:   make(map[string][]types.Record),
	}
}

// Handler returns the routes:
//
//	GET  /               upload form
//	POST /upload         parse the archive in form field "archive"
//	GET  /download/{id}  CSV of a previous upload
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /upload", s.handleUpload)
	mux.HandleFunc("GET /download/{id}", s.handleDownload)
	return mux
}

// pageData feeds the page template. An upload sets one message, plus the
// table and download link on success.
type pageData struct {
	Warning  string
	Info     string
	Error    string
	Success  string
	Table    template.HTML
	Download string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, pageData{})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	file, hdr, err := r.FormFile(formField)
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			s.render(w, http.StatusRequestEntityTooLarge, pageData{Error: fmt.Sprintf("Upload exceeds %d MB.", s.maxUpload>>20)})
			return
		}
		s.render(w, http.StatusBadRequest, pageData{Error: "Choose a ZIP archive to upload."})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.render(w, http.StatusBadRequest, pageData{Error: fmt.Sprintf("Reading upload: %v", err)})
		return
	}

	s.logger.Printf("upload %s (%d bytes)", hdr.Filename, len(data))
	res, err := s.runner.ProcessArchive(r.Context(), bytes.NewReader(data), int64(len(data)))
	switch {
	case errors.Is(err, batch.ErrNoDocuments):
		s.render(w, http.StatusOK, pageData{Warning: msgNoPDFs})
		return
	case err != nil:
		s.logger.Printf("upload %s: %v", hdr.Filename, err)
		s.render(w, http.StatusBadRequest, pageData{Error: fmt.Sprintf("Could not read the archive: %v", err)})
		return
	}

	if len(res.Records) == 0 {
		s.render(w, http.StatusOK, pageData{Info: msgNoEvents})
		return
	}

	table, err := renderTable(res.Records)
	if err != nil {
		s.logger.Printf("rendering table: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	id := s.remember(res.Records)
	s.render(w, http.StatusOK, pageData{
		Success:  fmt.Sprintf("Parsed %d events from %d PDF(s).", len(res.Records), sourceCount(res.Records)),
		Table:    table,
		Download: "/download/" + id,
	})
}

// sourceCount returns the number of distinct documents that contributed
// records.
func sourceCount(records []types.Record) int {
	seen := make(map[string]struct{})
	for _, r := range records {
		seen[r.Source] = struct{}{}
	}
	return len(seen)
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	records, ok := s.lookup(r.PathValue("id"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", DownloadName))
	if err := export.WriteCSV(w, records, true); err != nil {
		s.logger.Printf("writing download: %v", err)
	}
}

// remember stores records for download and returns their id, evicting the
// oldest result set when the cache is full.
func (s *Server) remember(records []types.Record) string {
	id := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.order) >= maxCached {
		delete(s.results, s.order[0])
		s.order = s.order[1:]
	}
	s.results[id] = records
	s.order = append(s.order, id)
	return id
}

func (s *Server) lookup(id string) ([]types.Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	records, ok := s.results[id]
	return records, ok
}

func (s *Server) render(w http.ResponseWriter, status int, data pageData) {
	var buf bytes.Buffer
	if err := page.Execute(&buf, data); err != nil {
		s.logger.Printf("rendering page: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

var page = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Calendar PDF Parser</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; }
th, td { border: 1px solid #ccc; padding: 4px 8px; text-align: left; }
.warning { color: #8a6d3b; } .info { color: #31708f; } .error { color: #a94442; } .success { color: #3c763d; }
</style>
</head>
<body>
<h1>Calendar PDF Parser</h1>
<p>Upload a ZIP archive of calendar PDFs to extract events into a table.</p>
<form method="post" action="/upload" enctype="multipart/form-data">
<input type="file" name="archive" accept=".zip">
<button type="submit">Parse</button>
</form>
{{with .Error}}<p class="error">{{.}}</p>{{end}}
{{with .Warning}}<p class="warning">{{.}}</p>{{end}}
{{with .Info}}<p class="info">{{.}}</p>{{end}}
{{with .Success}}<p class="success">{{.}}</p>{{end}}
{{with .Download}}<p><a href="{{.}}">Download CSV</a></p>{{end}}
{{.Table}}
</body>
</html>
`))
