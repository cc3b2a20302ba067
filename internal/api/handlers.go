package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Zuo-Peng/ai-chat-calendar/internal/aggregate"
	"github.com/Zuo-Peng/ai-chat-calendar/internal/export"
	"github.com/Zuo-Peng/ai-chat-calendar/internal/ingest"
	"github.com/Zuo-Peng/ai-chat-calendar/internal/library"
	"github.com/Zuo-Peng/ai-chat-calendar/internal/record"
)

// Handler serves the presentation surface of a Library.
type Handler struct {
	lib *library.Library
}

func NewHandler(lib *library.Library) *Handler {
	return &Handler{lib: lib}
}

type healthResponse struct {
	Status  string `json:"status"`
	Records int    `json:"records"`
}

type recordsResponse struct {
	Records []record.Record `json:"records"`
	Count   int             `json:"count"`
}

type calendarResponse struct {
	Days map[string][]record.Record `json:"days"`
	Keys []string                   `json:"keys"`
}

// IngestRequest is the JSON body of POST /ingest. Data holds the export
// document itself, or its text as a JSON string. The string form lets a
// malformed document travel inside a valid batch.
type IngestRequest struct {
	Documents []struct {
		Name string          `json:"name"`
		Data json.RawMessage `json:"data"`
	} `json:"documents"`
}

type ingestResponse struct {
	BatchID  string           `json:"batchId"`
	Outcomes []ingest.Outcome `json:"outcomes"`
	Stats    ingest.Stats     `json:"stats"`
	Total    int              `json:"total"`
}

type starResponse struct {
	ID      string `json:"id"`
	Starred bool   `json:"starred"`
}

// Health handles GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Records: h.lib.Len()})
}

// Records handles GET /records
func (h *Handler) Records(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, newRecordsResponse(h.lib.Records()))
}

// Record handles GET /records/{id}
func (h *Handler) Record(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rec, ok := h.lib.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "record not found: "+id)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// Filtered handles GET /records/filtered?q=&platform=&scope=
func (h *Handler) Filtered(w http.ResponseWriter, r *http.Request) {
	opts, err := filterOptions(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, newRecordsResponse(h.lib.Filtered(opts)))
}

// Calendar handles GET /calendar
func (h *Handler) Calendar(w http.ResponseWriter, r *http.Request) {
	opts, err := filterOptions(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	days := h.lib.Calendar(opts)
	writeJSON(w, http.StatusOK, calendarResponse{Days: days, Keys: aggregate.DayKeys(days)})
}

// Analytics handles GET /analytics
func (h *Handler) Analytics(w http.ResponseWriter, r *http.Request) {
	opts, err := filterOptions(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, h.lib.Analytics(opts))
}

// ToggleStar handles POST /records/{id}/star
func (h *Handler) ToggleStar(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !h.lib.ToggleStar(id) {
		writeError(w, http.StatusNotFound, "record not found: "+id)
		return
	}
	rec, _ := h.lib.Get(id)
	writeJSON(w, http.StatusOK, starResponse{ID: id, Starred: rec.Starred})
}

// Ingest handles POST /ingest. The body is either an IngestRequest or, with
// ?name=, a raw export document.
func (h *Handler) Ingest(w http.ResponseWriter, r *http.Request) {
	docs, err := ingestDocuments(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	res := h.lib.Ingest(docs)
	writeJSON(w, http.StatusOK, ingestResponse{
		BatchID:  res.BatchID,
		Outcomes: res.Outcomes,
		Stats:    res.Stats,
		Total:    len(res.Records),
	})
}

// Export handles GET /export?format=json, streaming the filtered records.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	exp, err := export.NewExporter(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	opts, err := filterOptions(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var buf bytes.Buffer
	if err := exp.Export(h.lib.Filtered(opts), &buf); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	name := r.URL.Query().Get("name")
	if name == "" {
		name = "conversations"
	}
	w.Header().Set("Content-Type", contentType(exp.Extension()))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName(name, exp)))
	_, _ = buf.WriteTo(w)
}

func newRecordsResponse(recs []record.Record) recordsResponse {
	if recs == nil {
		recs = []record.Record{}
	}
	return recordsResponse{Records: recs, Count: len(recs)}
}

func filterOptions(r *http.Request) (aggregate.Options, error) {
	q := r.URL.Query()
	scope, err := aggregate.ParseScope(q.Get("scope"))
	if err != nil {
		return aggregate.Options{}, err
	}
	platforms, err := aggregate.ParsePlatforms(q["platform"])
	if err != nil {
		return aggregate.Options{}, err
	}
	return aggregate.Options{Query: q.Get("q"), Platforms: platforms, Scope: scope, Tag: q.Get("tag")}, nil
}

func ingestDocuments(r *http.Request) ([]ingest.Document, error) {
	if name := r.URL.Query().Get("name"); name != "" {
		data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
		if err != nil {
			return nil, fmt.Errorf("read body: %w", err)
		}
		return []ingest.Document{{Name: name, Data: data}}, nil
	}

	var req IngestRequest
	if err := decodeJSON(r, &req); err != nil {
		return nil, fmt.Errorf("invalid request body: %w", err)
	}
	if len(req.Documents) == 0 {
		return nil, fmt.Errorf("documents is required")
	}
	docs := make([]ingest.Document, 0, len(req.Documents))
	for i, d := range req.Documents {
		name := d.Name
		if name == "" {
			name = fmt.Sprintf("document-%d.json", i+1)
		}
		docs = append(docs, ingest.Document{Name: name, Data: documentData(d.Data)})
	}
	return docs, nil
}

// documentData unwraps a JSON string holding file text; any other value is
// the document itself.
func documentData(raw json.RawMessage) []byte {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var text string
		if err := json.Unmarshal(trimmed, &text); err == nil {
			return []byte(text)
		}
	}
	return raw
}

func contentType(ext string) string {
	switch ext {
	case "json":
		return "application/json"
	case "jsonl":
		return "application/x-ndjson"
	case "yaml":
		return "application/yaml"
	case "md":
		return "text/markdown; charset=utf-8"
	default:
		return "application/octet-stream"
	}
}
