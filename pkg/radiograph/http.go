package radiograph

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/radiographapp/backend/pkg/common/logger"
	"github.com/radiographapp/backend/pkg/gateway/middleware"
	"github.com/radiographapp/backend/pkg/observability/metrics"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/radiographs", h.handleListRadiographs).Methods(http.MethodGet)
	r.HandleFunc("/radiographs", h.handleCreateRadiograph).Methods(http.MethodPost)
	r.HandleFunc("/radiographs/{id}", h.handleGetRadiograph).Methods(http.MethodGet)
	r.HandleFunc("/radiographs/{id}/images", h.handleAppendImage).Methods(http.MethodPost)
	r.HandleFunc("/followups", h.handleListFollowUps).Methods(http.MethodGet)
	r.HandleFunc("/followups", h.handleCreateFollowUp).Methods(http.MethodPost)
}

func (h *Handler) handleListRadiographs(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}

	records, err := h.service.ListPrimary(r.Context(), ownerID)
	if err != nil {
		writeError(w, err, "Error fetching radiographs")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":  "Radiographs retrieved successfully",
		"patients": records,
	})
}

func (h *Handler) handleCreateRadiograph(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}

	var input RecordInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	record, err := h.service.CreatePrimary(r.Context(), ownerID, input)
	if err != nil {
		writeError(w, err, "Error saving patient data")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Patient data saved successfully!",
		"patient": record,
	})
}

func (h *Handler) handleGetRadiograph(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid record id")
		return
	}

	record, err := h.service.GetWithFollowUps(r.Context(), ownerID, id)
	if err != nil {
		writeError(w, err, "Error fetching radiograph")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Radiograph details",
		"patient": record,
	})
}

func (h *Handler) handleAppendImage(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid record id")
		return
	}

	var image ImageRef
	if err := json.NewDecoder(r.Body).Decode(&image); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	record, err := h.service.AppendImage(r.Context(), ownerID, id, image)
	if err != nil {
		writeError(w, err, "Error attaching image")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Image attached successfully",
		"patient": record,
	})
}

func (h *Handler) handleListFollowUps(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}

	records, err := h.service.ListFollowUps(r.Context(), ownerID)
	if err != nil {
		writeError(w, err, "Error fetching followups")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":   "Follow-ups retrieved successfully",
		"followups": records,
	})
}

func (h *Handler) handleCreateFollowUp(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFromRequest(w, r)
	if !ok {
		return
	}

	var input RecordInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	record, err := h.service.CreateFollowUp(r.Context(), ownerID, input)
	if err != nil {
		writeError(w, err, "Error saving follow-up data")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message":  "Follow-up saved successfully!",
		"followup": record,
	})
}

// ownerFromRequest resolves the authenticated clinician id. The id is passed
// down as an explicit argument from here on.
func ownerFromRequest(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil || claims.UserID == uuid.Nil {
		writeMessage(w, http.StatusUnauthorized, "access token required")
		return uuid.Nil, false
	}
	return claims.UserID, true
}

func writeError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case IsValidationError(err):
		writeMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrNotFound):
		metrics.IncNotFoundResponses()
		writeMessage(w, http.StatusNotFound, "Radiograph not found")
	default:
		logger.Log.WithError(err).Error(fallback)
		writeMessage(w, http.StatusInternalServerError, fallback)
	}
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
