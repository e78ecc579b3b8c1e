package http

import (
	"net/http"

	"findash/internal/core"
	flog "findash/internal/log"
	"findash/internal/summary"
)

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	p, err := summary.ParsePeriod(r.URL.Query().Get("period"))
	if err != nil {
		writeError(w, r, flog.OpSummary, err)
		return
	}
	sum, err := s.ledger.Summary(r.Context(), p)
	if err != nil {
		writeError(w, r, flog.OpSummary, err)
		return
	}
	NewJSONResponse().Body(toSummaryJSON(sum)).Write(w)
}

func (s *Server) handlePeriods(w http.ResponseWriter, r *http.Request) {
	periods, err := s.ledger.Periods(r.Context())
	if err != nil {
		writeError(w, r, flog.OpList, err)
		return
	}
	out := make([]string, len(periods))
	for i, p := range periods {
		out[i] = p.String()
	}
	NewJSONResponse().Body(out).Write(w)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().Body(core.DefaultCategories()).Write(w)
}
