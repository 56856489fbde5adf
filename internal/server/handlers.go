package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rustyeddy/tradehub/chart"
	"github.com/rustyeddy/tradehub/journal"
	"github.com/rustyeddy/tradehub/myfxbook"
	"github.com/rustyeddy/tradehub/performance"
)

const (
	sourceLive    = "live"
	sourceJournal = "journal"
)

// badRequest marks errors caused by the request itself.
type badRequest struct {
	msg string
}

func (e *badRequest) Error() string { return e.msg }

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleAccounts(w http.ResponseWriter, r *http.Request) {
	source, err := s.source(r)
	if err != nil {
		s.writeFailure(w, err)
		return
	}

	if source == sourceJournal {
		accounts, err := s.cfg.Store.Accounts(r.Context())
		if err != nil {
			s.writeFailure(w, err)
			return
		}
		if accounts == nil {
			accounts = []journal.AccountSummary{}
		}
		s.writeJSON(w, http.StatusOK, map[string]any{"accounts": accounts})
		return
	}

	accounts, err := s.cfg.Fetcher.Accounts(r.Context(), s.cfg.Session)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	if accounts == nil {
		accounts = []myfxbook.Account{}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"accounts": accounts})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	in, err := s.input(r)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, performance.BuildReport(in))
}

func (s *Server) handleDaily(w http.ResponseWriter, r *http.Request) {
	in, err := s.input(r)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	_, desc := performance.NormalizeDaily(in.Daily)
	s.writeJSON(w, http.StatusOK, map[string]any{
		"accountId": in.AccountID,
		"daily":     desc,
	})
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	in, err := s.input(r)
	if err != nil {
		s.writeFailure(w, err)
		return
	}
	asc, _ := performance.NormalizeDaily(in.Daily)

	var buf bytes.Buffer
	if err := chart.RenderDaily(&buf, in.AccountID, asc); err != nil {
		if errors.Is(err, chart.ErrNoData) {
			s.writeError(w, http.StatusNotFound, err.Error())
			return
		}
		s.writeFailure(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// source reads ?source=live|journal and checks the backing collaborator.
func (s *Server) source(r *http.Request) (string, error) {
	source := r.URL.Query().Get("source")
	switch source {
	case "", sourceLive:
		if s.cfg.Fetcher == nil {
			return "", &badRequest{msg: "live data is not available"}
		}
		return sourceLive, nil
	case sourceJournal:
		if s.cfg.Store == nil {
			return "", &badRequest{msg: "no journal configured"}
		}
		return sourceJournal, nil
	default:
		return "", &badRequest{msg: "source must be 'live' or 'journal'"}
	}
}

// input builds the engine input for the {id} in the path.
func (s *Server) input(r *http.Request) (performance.Input, error) {
	accountID := chi.URLParam(r, "id")
	if accountID == "" {
		return performance.Input{}, &badRequest{msg: "account id is required"}
	}

	days := s.cfg.WindowDays
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return performance.Input{}, &badRequest{msg: "days must be a positive integer"}
		}
		days = n
	}

	source, err := s.source(r)
	if err != nil {
		return performance.Input{}, err
	}

	if source == sourceJournal {
		snap, err := s.cfg.Store.Snapshot(r.Context(), accountID)
		if err != nil {
			return performance.Input{}, err
		}
		return snap.Input(days), nil
	}

	snap, err := s.cfg.Fetcher.FetchSnapshot(r.Context(), s.cfg.Session, accountID, s.cfg.LookbackDays, s.cfg.Now())
	if err != nil {
		return performance.Input{}, err
	}
	return snap.Input(days), nil
}

func statusFor(err error) int {
	var br *badRequest
	switch {
	case errors.As(err, &br):
		return http.StatusBadRequest
	case errors.Is(err, journal.ErrNoSnapshot), errors.Is(err, myfxbook.ErrAccountNotFound):
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}

func (s *Server) writeFailure(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.log.Error().Err(err).Msg("Request failed")
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
