package terminology

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
)

type Handler struct {
	catalog Catalog
}

func NewHandler(catalog Catalog) *Handler {
	return &Handler{catalog: catalog}
}

func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/catalog/xray-types", h.handleXrayTypes).Methods(http.MethodGet)
}

func (h *Handler) handleXrayTypes(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message":   "X-ray type catalog",
		"xrayTypes": h.catalog.XrayTypes,
	})
}
