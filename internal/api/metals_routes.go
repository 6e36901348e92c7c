package api

import (
	"fmt"
	"net/http"

	"github.com/aurumview/metals-backend/internal/models"
)

func (s *Server) handleLatest(w http.ResponseWriter, r *http.Request) {
	rec, err := s.dailyRepo.GetLatest(r.Context())
	if err != nil {
		fmt.Printf("Error fetching latest record: %v\n", err)
		writeError(w, http.StatusInternalServerError, "failed to fetch latest record")
		return
	}
	if rec == nil {
		writeError(w, http.StatusNotFound, "no price data available")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleByDate(w http.ResponseWriter, r *http.Request) {
	date := r.PathValue("date")
	if !validateDate(date) {
		writeError(w, http.StatusBadRequest, "invalid date format, expected YYYY-MM-DD")
		return
	}

	rec, err := s.dailyRepo.GetByDate(r.Context(), date)
	if err != nil {
		fmt.Printf("Error fetching record for %s: %v\n", date, err)
		writeError(w, http.StatusInternalServerError, "failed to fetch record")
		return
	}
	if rec == nil {
		writeError(w, http.StatusNotFound, "no record for date")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r, defaultHistoryLimit)
	recs, err := s.dailyRepo.GetHistory(r.Context(), limit)
	if err != nil {
		fmt.Printf("Error fetching history: %v\n", err)
		writeError(w, http.StatusInternalServerError, "failed to fetch history")
		return
	}
	if recs == nil {
		recs = []models.DailyPrice{}
	}
	writeJSON(w, http.StatusOK, recs)
}
