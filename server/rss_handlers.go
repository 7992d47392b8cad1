package server

import (
	"log"
	"net/http"
)

// rssHandler serves recent mentions as RSS, GET /rss?kind=&feed=
func (s *Server) rssHandler(w http.ResponseWriter, r *http.Request) {
	filter, err := mentionFilter(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	mentions, err := s.mentions.GetMentions(r.Context(), filter)
	if err != nil {
		log.Printf("[ERROR] failed to get mentions for RSS: %v", err)
		http.Error(w, "Failed to generate RSS feed", http.StatusInternalServerError)
		return
	}

	rss, err := s.generator.GenerateRSS(mentions, filter.Kind)
	if err != nil {
		log.Printf("[ERROR] failed to generate RSS feed: %v", err)
		http.Error(w, "Failed to generate RSS feed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	if _, err := w.Write([]byte(rss)); err != nil {
		log.Printf("[ERROR] failed to write RSS response: %v", err)
	}
}
