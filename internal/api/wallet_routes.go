package api

import (
	"net/http"

	"github.com/solsmart/solsmart-backend/internal/directory"
	"github.com/solsmart/solsmart-backend/internal/models"
)

func (s *Server) handleWallets(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	if category == "" {
		writeJSON(w, http.StatusOK, s.dir.Wallets())
		return
	}

	if !directory.ValidCategory(category) {
		writeError(w, http.StatusBadRequest, "unknown category")
		return
	}

	wallets := s.dir.ByCategory(category)
	if wallets == nil {
		wallets = []models.Wallet{}
	}
	writeJSON(w, http.StatusOK, wallets)
}

func (s *Server) handleWalletByAddress(w http.ResponseWriter, r *http.Request) {
	address := r.PathValue("address")

	wallet := s.dir.FindByAddress(address)
	if wallet == nil {
		writeError(w, http.StatusNotFound, "Wallet not found")
		return
	}
	writeJSON(w, http.StatusOK, wallet)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, directory.Categories())
}
