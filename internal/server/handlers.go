package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/droppoint/lockerd/internal/engine"
	"github.com/droppoint/lockerd/internal/repository"
)

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondEngineError maps the engine's error taxonomy onto status codes the
// client can branch on: "wrong code" vs "too late" vs "wrong phone" stay
// distinguishable.
func respondEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, engine.ErrNoCapacity):
		respondError(w, http.StatusConflict, "no capacity for requested size class")
	case errors.Is(err, engine.ErrInvalidState):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, engine.ErrInvalidCode):
		respondError(w, http.StatusNotFound, "invalid pickup code")
	case errors.Is(err, engine.ErrCodeExpired):
		respondError(w, http.StatusGone, "pickup code expired")
	case errors.Is(err, engine.ErrVerificationFailed):
		respondError(w, http.StatusForbidden, "verification failed")
	case errors.Is(err, repository.ErrObjectNotFound):
		respondError(w, http.StatusNotFound, "not found")
	default:
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

func (s *Server) handleRegisterParcel(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TrackingRef    string `json:"tracking_ref"`
		RecipientName  string `json:"recipient_name"`
		RecipientPhone string `json:"recipient_phone"`
		RecipientEmail string `json:"recipient_email"`
		SizeClass      string `json:"size_class"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.TrackingRef == "" || req.RecipientPhone == "" {
		respondError(w, http.StatusBadRequest, "tracking_ref and recipient_phone are required")
		return
	}

	parcel := &repository.Parcel{
		TrackingRef:    req.TrackingRef,
		RecipientName:  req.RecipientName,
		RecipientPhone: req.RecipientPhone,
		RecipientEmail: req.RecipientEmail,
		SizeClass:      repository.SizeClass(req.SizeClass),
	}
	if !parcel.SizeClass.Valid() {
		respondError(w, http.StatusBadRequest, "unknown size class")
		return
	}

	if err := s.engine.RegisterParcel(r.Context(), parcel); err != nil {
		respondEngineError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{
		"message":      "parcel registered",
		"tracking_ref": parcel.TrackingRef,
	})
}

func (s *Server) handleReserve(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ParcelRef string `json:"parcel_ref"`
		SizeClass string `json:"size_class"`
		Location  string `json:"location"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ParcelRef == "" {
		respondError(w, http.StatusBadRequest, "parcel_ref is required")
		return
	}

	result, err := s.engine.Reserve(r.Context(), req.ParcelRef, repository.SizeClass(req.SizeClass), req.Location)
	if err != nil {
		respondEngineError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, result)
}

func (s *Server) handleGetReservation(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid reservation id")
		return
	}

	reservation, err := s.engine.GetReservation(r.Context(), id)
	if err != nil {
		respondEngineError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, reservation)
}

func (s *Server) handleConfirmDelivery(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid reservation id")
		return
	}

	result, err := s.engine.ConfirmDelivery(r.Context(), id)
	if err != nil {
		respondEngineError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid reservation id")
		return
	}

	var req struct {
		Reason string `json:"reason"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.engine.Cancel(r.Context(), id, req.Reason); err != nil {
		respondEngineError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleVerifyPickup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code            string `json:"code"`
		SecondaryFactor string `json:"secondary_factor"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Code == "" {
		respondError(w, http.StatusBadRequest, "code is required")
		return
	}

	result, err := s.engine.VerifyPickup(r.Context(), req.Code, req.SecondaryFactor)
	if err != nil {
		respondEngineError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleReclaim(w http.ResponseWriter, r *http.Request) {
	released, err := s.engine.ReclaimExpired(r.Context())
	if err != nil {
		respondEngineError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]int{"released_count": released})
}
