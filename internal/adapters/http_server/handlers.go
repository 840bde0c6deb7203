package httpserver

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog/log"

	"app_reviews/internal/adapters/export"
	"app_reviews/internal/adapters/observability"
	"app_reviews/internal/app"
	"app_reviews/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type Handlers struct{ X *app.ExtractionService }

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/v1/reviews", h.extract)
	s.mux.Get("/v1/reviews/export", h.export)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// parseRequest reads the extraction request from the query string:
// url, from, to (YYYY-MM-DD), min_rating, keyword, version (repeatable or
// comma separated) and limit.
func parseRequest(r *http.Request) (domain.ExtractRequest, error) {
	q := r.URL.Query()
	req := domain.ExtractRequest{URL: strings.TrimSpace(q.Get("url"))}
	if req.URL == "" {
		return req, errors.New("url is required")
	}

	var err error
	if s := q.Get("from"); s != "" {
		if req.Criteria.DateStart, err = domain.ParseDate(s); err != nil {
			return req, fmt.Errorf("from: %w", err)
		}
	}
	if s := q.Get("to"); s != "" {
		if req.Criteria.DateEnd, err = domain.ParseDate(s); err != nil {
			return req, fmt.Errorf("to: %w", err)
		}
	}
	if s := q.Get("min_rating"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > 5 {
			return req, errors.New("min_rating must be an integer between 1 and 5")
		}
		req.Criteria.MinRating = n
	}
	req.Criteria.Keyword = q.Get("keyword")
	for _, v := range q["version"] {
		for _, part := range strings.Split(v, ",") {
			if p := strings.TrimSpace(part); p != "" {
				req.Criteria.Versions = append(req.Criteria.Versions, p)
			}
		}
	}
	if s := q.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			return req, errors.New("limit must be a positive integer")
		}
		req.Limit = n
	}
	return req, nil
}

// run parses and executes the extraction, writing a problem response and
// returning false when the input is rejected.
func (h *Handlers) run(w http.ResponseWriter, r *http.Request) (domain.Extraction, bool) {
	req, err := parseRequest(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid request", err.Error())
		return domain.Extraction{}, false
	}
	ex, err := h.X.Extract(r.Context(), req)
	switch {
	case err == nil:
	case domain.IsClassification(err):
		writeProblem(w, http.StatusBadRequest, "Unsupported URL", err.Error())
		return ex, false
	case errors.Is(err, domain.ErrInvalidCriteria):
		writeProblem(w, http.StatusBadRequest, "Invalid filters", err.Error())
		return ex, false
	default:
		log.Error().Err(err).Msg("extraction failed")
		writeProblem(w, http.StatusInternalServerError, "Internal error", "extraction failed")
		return ex, false
	}

	m := string(ex.App.Marketplace)
	observability.ObserveExtraction(m, string(ex.Outcome))
	observability.ObserveDropped(m, "date", ex.Skipped.Date)
	observability.ObserveDropped(m, "rating", ex.Skipped.Rating)
	w.Header().Set("X-Extraction-ID", ex.ID)
	return ex, true
}

func (h *Handlers) extract(w http.ResponseWriter, r *http.Request) {
	ex, ok := h.run(w, r)
	if !ok {
		return
	}
	body, err := json.Marshal(ex)
	if err != nil {
		log.Error().Err(err).Msg("marshal extraction failed")
		writeProblem(w, http.StatusInternalServerError, "Internal error", "could not encode result")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write extraction body")
	}
}

func (h *Handlers) export(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid format", err.Error())
		return
	}
	ex, ok := h.run(w, r)
	if !ok {
		return
	}
	if ex.Outcome == domain.OutcomeFetchFailed && len(ex.Reviews) == 0 {
		writeProblem(w, http.StatusBadGateway, "Fetch failed", ex.Warning)
		return
	}

	// render fully before committing headers so a failure can still be reported
	var buf bytes.Buffer
	if err := export.Write(&buf, format, ex.App.Marketplace, ex.Reviews); err != nil {
		log.Error().Err(err).Str("format", string(format)).Msg("export failed")
		writeProblem(w, http.StatusInternalServerError, "Internal error", "export failed")
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, export.FileName(ex.App, format)))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		log.Error().Err(err).Msg("failed to write export body")
	}
}
