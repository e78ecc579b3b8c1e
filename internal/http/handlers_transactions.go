package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	flog "findash/internal/log"
)

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	f, err := ParseFilter(r.URL.Query())
	if err != nil {
		writeError(w, r, flog.OpList, err)
		return
	}
	txs, err := s.ledger.ListTransactions(r.Context(), f)
	if err != nil {
		writeError(w, r, flog.OpList, err)
		return
	}
	NewJSONResponse().Body(toTransactionsJSON(txs)).Write(w)
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	t, err := s.ledger.GetTransaction(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, flog.OpRead, err)
		return
	}
	NewJSONResponse().Body(toTransactionJSON(t)).Write(w)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	in, err := ParseTransactionInput(NewRequestBodyParser(r), s.now())
	if err != nil {
		writeError(w, r, flog.OpCreate, err)
		return
	}
	id, err := s.ledger.AddTransaction(r.Context(), in)
	if err != nil {
		writeError(w, r, flog.OpCreate, err)
		return
	}
	NewJSONResponse().
		Status(http.StatusCreated).
		Header("Location", "/api/transactions/"+id).
		Body(map[string]string{"id": id}).
		Write(w)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	in, err := ParseTransactionInput(NewRequestBodyParser(r), s.now())
	if err != nil {
		writeError(w, r, flog.OpUpdate, err)
		return
	}
	if err := s.ledger.UpdateTransaction(r.Context(), id, in); err != nil {
		writeError(w, r, flog.OpUpdate, err)
		return
	}
	NewJSONResponse().Body(map[string]string{"id": id}).Write(w)
}

// handleDeleteTransaction answers 204 whether or not the id existed.
func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.DeleteTransaction(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, flog.OpDelete, err)
		return
	}
	NewJSONResponse().Status(http.StatusNoContent).Write(w)
}
