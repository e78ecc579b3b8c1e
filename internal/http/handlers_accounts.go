package http

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"findash/internal/core"
	flog "findash/internal/log"
)

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	var accountType core.AccountType
	if raw := strings.TrimSpace(r.URL.Query().Get("type")); raw != "" {
		accountType = core.ParseAccountType(raw)
		if !accountType.IsValid() {
			verr := &core.ValidationError{}
			verr.Add("type", "must be one of Bank, Credit Card, Cash, Meal Card")
			writeError(w, r, flog.OpList, verr)
			return
		}
	}
	accounts, err := s.ledger.ListAccounts(r.Context(), accountType)
	if err != nil {
		writeError(w, r, flog.OpList, err)
		return
	}
	NewJSONResponse().Body(toAccountsJSON(accounts)).Write(w)
}

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	in, err := ParseAccountInput(NewRequestBodyParser(r))
	if err != nil {
		writeError(w, r, flog.OpCreate, err)
		return
	}
	id, err := s.ledger.AddAccount(r.Context(), in)
	if err != nil {
		writeError(w, r, flog.OpCreate, err)
		return
	}
	NewJSONResponse().
		Status(http.StatusCreated).
		Body(map[string]string{"id": id}).
		Write(w)
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	if err := s.ledger.DeleteAccount(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, flog.OpDelete, err)
		return
	}
	NewJSONResponse().Status(http.StatusNoContent).Write(w)
}
