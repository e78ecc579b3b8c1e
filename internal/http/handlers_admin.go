package http

import (
	"net/http"

	"findash/internal/core"
	flog "findash/internal/log"
)

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	st, err := s.ledger.Status(r.Context())
	if err != nil {
		writeError(w, r, flog.OpRead, err)
		return
	}
	NewJSONResponse().Body(st).Write(w)
}

// handleReset wipes the ledger. It requires confirm=yes so a stray request
// cannot destroy data.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("confirm") != "yes" {
		verr := &core.ValidationError{}
		verr.Add("confirm", "must be yes to delete all data")
		writeError(w, r, flog.OpReset, verr)
		return
	}
	if err := s.ledger.ResetAllData(r.Context()); err != nil {
		writeError(w, r, flog.OpReset, err)
		return
	}
	NewJSONResponse().Status(http.StatusNoContent).Write(w)
}

func (s *Server) handleSeed(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.SeedDemoData(r.Context(), s.now()); err != nil {
		writeError(w, r, flog.OpSeed, err)
		return
	}
	st, err := s.ledger.Status(r.Context())
	if err != nil {
		writeError(w, r, flog.OpRead, err)
		return
	}
	NewJSONResponse().Status(http.StatusCreated).Body(st).Write(w)
}
