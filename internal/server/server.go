// Package server exposes the summary pipeline over HTTP. The handler is a
// thin edge: it parses request parameters, resolves the report month, runs
// the service, and renders the result. All wall-clock access lives here.
package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang-ledger-summary-service/internal/report"
	"golang-ledger-summary-service/internal/summarize"
	"golang-ledger-summary-service/pkg/errors"
	"golang-ledger-summary-service/pkg/logger"
)

// Server handles summary requests.
type Server struct {
	service *summarize.Service
	html    *report.HTMLRenderer
	jsonr   *report.JSONRenderer
	now     func() time.Time
	log     logger.Logger
}

// NewServer creates a Server over the given service. The now function
// resolves the default report month when the request does not name one.
func NewServer(service *summarize.Service, now func() time.Time) (*Server, error) {
	html, err := report.NewHTMLRenderer()
	if err != nil {
		return nil, err
	}
	if now == nil {
		now = time.Now
	}
	return &Server{
		service: service,
		html:    html,
		jsonr:   &report.JSONRenderer{},
		now:     now,
		log:     logger.GetGlobalLogger().WithComponent("http_server"),
	}, nil
}

// Handler returns the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleSummary)
	mux.HandleFunc("/healthz", s.handleHealth)
	return mux
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintln(w, `{"status":"ok"}`)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	req, err := s.parseRequest(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	result, err := s.service.Summarize(r.Context(), req)
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}

	if r.URL.Query().Get("format") == "json" {
		w.Header().Set("Content-Type", "application/json")
		if err := s.jsonr.Render(w, result); err != nil {
			s.log.WithError(err).Error("json rendering failed")
		}
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.html.Render(w, result); err != nil {
		s.log.WithError(err).Error("html rendering failed")
	}
}

// parseRequest builds a SummaryRequest from query and form parameters. POST
// form values and query parameters are treated alike.
func (s *Server) parseRequest(r *http.Request) (summarize.SummaryRequest, error) {
	if err := r.ParseForm(); err != nil {
		return summarize.SummaryRequest{}, errors.Wrap(err, errors.CategoryData, errors.CodeInvalidValue,
			"malformed request parameters")
	}

	req := summarize.SummaryRequest{
		Month:    monthOf(s.now()),
		Statuses: r.Form["statuses"],
	}

	if raw := r.Form.Get("month"); raw != "" {
		month, err := time.Parse("2006-01", raw)
		if err != nil {
			return req, errors.Wrap(err, errors.CategoryData, errors.CodeInvalidDate,
				fmt.Sprintf("invalid month %q, expected YYYY-MM", raw))
		}
		req.Month = month
	}

	var err error
	if req.StartDate, err = parseDateParam(r.Form.Get("start_date"), "start_date"); err != nil {
		return req, err
	}
	if req.EndDate, err = parseDateParam(r.Form.Get("end_date"), "end_date"); err != nil {
		return req, err
	}
	if req.SortBy, err = summarize.ParseSortBy(r.Form.Get("sort_by")); err != nil {
		return req, err
	}
	return req, nil
}

func parseDateParam(raw, name string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	d, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryData, errors.CodeInvalidDate,
			fmt.Sprintf("invalid %s %q, expected YYYY-MM-DD", name, raw))
	}
	return &d, nil
}

func monthOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// statusFor maps a pipeline error to an HTTP status code.
func statusFor(err error) int {
	perr, ok := errors.AsPipelineError(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch perr.Category {
	case errors.CategoryNotFound:
		return http.StatusNotFound
	case errors.CategorySchema, errors.CategoryData:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.log.WithError(err).WithField("status", status).Warn("request failed")

	body := map[string]interface{}{"error": err.Error()}
	if perr, ok := errors.AsPipelineError(err); ok {
		body["category"] = perr.Category
		body["code"] = perr.Code
		if perr.Suggestion != "" {
			body["suggestion"] = perr.Suggestion
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if encodeErr := json.NewEncoder(w).Encode(body); encodeErr != nil {
		s.log.WithError(encodeErr).Error("error response encoding failed")
	}
}
