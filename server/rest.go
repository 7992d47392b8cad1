package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/umputun/feedtime/pkg/domain"
	"github.com/umputun/feedtime/pkg/timeref"
)

const (
	defaultListLimit = 100
	maxListLimit     = 1000
)

// extractRequest is the body of POST /api/v1/extract
type extractRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// extractResponse describes the first time reference in title followed by content
type extractResponse struct {
	Found    bool                   `json:"found"`
	Time     string                 `json:"time,omitempty"`
	Kind     timeref.Kind           `json:"kind,omitempty"`
	Start    int                    `json:"start"`
	End      int                    `json:"end"`
	Day      string                 `json:"day,omitempty"`
	Absolute *timeref.AbsoluteParts `json:"absolute,omitempty"`
	Relative *timeref.RelativeParts `json:"relative,omitempty"`
	Zone     string                 `json:"zone,omitempty"`
}

// statusHandler returns server status
func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	count, err := s.mentions.CountMentions(r.Context())
	if err != nil {
		log.Printf("[ERROR] failed to count mentions: %v", err)
		RenderError(w, r, fmt.Errorf("can't count mentions"), http.StatusInternalServerError)
		return
	}

	status := map[string]any{
		"status":   "ok",
		"version":  s.cfg.Version,
		"time":     time.Now().UTC(),
		"feeds":    s.scheduler.Feeds(),
		"mentions": count,
	}
	RenderJSON(w, r, http.StatusOK, status)
}

// mentionsHandler lists stored mentions, GET /api/v1/mentions?feed=&kind=&limit=
func (s *Server) mentionsHandler(w http.ResponseWriter, r *http.Request) {
	filter, err := mentionFilter(r)
	if err != nil {
		RenderError(w, r, err, http.StatusBadRequest)
		return
	}

	mentions, err := s.mentions.GetMentions(r.Context(), filter)
	if err != nil {
		log.Printf("[ERROR] failed to get mentions: %v", err)
		RenderError(w, r, fmt.Errorf("can't get mentions"), http.StatusInternalServerError)
		return
	}
	RenderJSON(w, r, http.StatusOK, mentions)
}

// runsHandler lists recent polls, GET /api/v1/runs?limit=
func (s *Server) runsHandler(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r)
	if err != nil {
		RenderError(w, r, err, http.StatusBadRequest)
		return
	}

	runs, err := s.runs.GetRuns(r.Context(), limit)
	if err != nil {
		log.Printf("[ERROR] failed to get runs: %v", err)
		RenderError(w, r, fmt.Errorf("can't get runs"), http.StatusInternalServerError)
		return
	}
	RenderJSON(w, r, http.StatusOK, runs)
}

// extractHandler runs the matcher over posted title and content without storing anything
func (s *Server) extractHandler(w http.ResponseWriter, r *http.Request) {
	var req extractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RenderError(w, r, fmt.Errorf("invalid request body: %w", err), http.StatusBadRequest)
		return
	}

	entry := domain.Entry{Title: req.Title, Content: req.Content}
	m, ok := s.matcher.ExtractMatch(entry)
	if !ok {
		RenderJSON(w, r, http.StatusOK, extractResponse{Found: false})
		return
	}

	RenderJSON(w, r, http.StatusOK, extractResponse{
		Found:    true,
		Time:     m.Text,
		Kind:     m.Kind,
		Start:    m.Start,
		End:      m.End,
		Day:      s.matcher.Day(req.Title + req.Content),
		Absolute: m.Absolute,
		Relative: m.Relative,
		Zone:     m.Zone,
	})
}

// refreshHandler polls all feeds now and reports what was found
func (s *Server) refreshHandler(w http.ResponseWriter, r *http.Request) {
	log.Printf("[INFO] refresh requested")
	reports := s.scheduler.UpdateNow(r.Context())

	runs := make([]domain.Run, 0, len(reports))
	added, failed := 0, 0
	for _, rep := range reports {
		runs = append(runs, rep.Run)
		added += rep.Run.Added
		if rep.Run.Error != "" {
			failed++
		}
	}

	RenderJSON(w, r, http.StatusOK, map[string]any{
		"feeds":  len(reports),
		"failed": failed,
		"added":  added,
		"runs":   runs,
	})
}

func mentionFilter(r *http.Request) (domain.MentionFilter, error) {
	q := r.URL.Query()
	res := domain.MentionFilter{FeedURL: q.Get("feed"), Kind: q.Get("kind")}

	switch timeref.Kind(res.Kind) {
	case "", timeref.KindAbsolute, timeref.KindRelative, timeref.KindZoneOnly:
	default:
		return res, fmt.Errorf("invalid kind %q", res.Kind)
	}

	limit, err := parseLimit(r)
	if err != nil {
		return res, err
	}
	res.Limit = limit
	return res, nil
}

// parseLimit reads the limit query parameter, capped at maxListLimit
func parseLimit(r *http.Request) (int, error) {
	v := r.URL.Query().Get("limit")
	if v == "" {
		return defaultListLimit, nil
	}
	limit, err := strconv.Atoi(v)
	if err != nil || limit < 1 {
		return 0, fmt.Errorf("invalid limit %q", v)
	}
	return min(limit, maxListLimit), nil
}
