package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"regexp"

	"innoevent/internal/delivery/http/helpers"
	"innoevent/internal/domain"
)

// uuidRegex matches a canonical UUID string (8-4-4-4-12 hex).
var uuidRegex = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// RegistrationController handles registration endpoints backed by the ledger.
type RegistrationController struct {
	Logger *slog.Logger
	Ledger domain.LedgerService
}

func NewRegistrationController(logger *slog.Logger, ledger domain.LedgerService) *RegistrationController {
	return &RegistrationController{
		Logger: logger,
		Ledger: ledger,
	}
}

// RegisterRequest is the request body for POST /api/registrations.
type RegisterRequest struct {
	EventID string `json:"event_id"`
}

// Validate implements helpers.Validator.
func (r RegisterRequest) Validate() []string {
	if r.EventID == "" {
		return []string{"event_id is required"}
	}
	if !uuidRegex.MatchString(r.EventID) {
		return []string{"invalid event_id"}
	}
	return nil
}

// RegisterSuccessResponse is the success response envelope for POST /api/registrations (201).
type RegisterSuccessResponse struct {
	Data  *domain.Registration `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// Register godoc
// @Summary Register a user for an event
// @Description Registers the user for the event if a seat is available and the user is not already registered. Fails with capacity_exceeded when the event is full and already_registered on a duplicate.
// @Tags registrations
// @Accept json
// @Produce json
// @Param user_id query string true "User ID (UUID)"
// @Param body body controllers.RegisterRequest true "Event to register for"
// @Success 201 {object} controllers.RegisterSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request | capacity_exceeded | already_registered"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (user or event)"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (transaction retries exhausted)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/registrations [post]
func (c *RegistrationController) Register(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing user_id")
		return
	}
	if !uuidRegex.MatchString(userID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid user_id")
		return
	}

	var req RegisterRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	reg, err := c.Ledger.Register(r.Context(), userID, req.EventID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "user not found")
		case errors.Is(err, domain.ErrEventNotFound):
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
		case errors.Is(err, domain.ErrAlreadyRegistered):
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeAlreadyRegistered, "already registered for this event")
		case errors.Is(err, domain.ErrCapacityExceeded):
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeCapacityExceeded, "event has no available seats")
		case errors.Is(err, domain.ErrConflict):
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "registration conflict, please retry")
		default:
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		}
		return
	}

	helpers.WriteJSONSuccess(w, http.StatusCreated, reg)
}

// Cancel godoc
// @Summary Cancel a registration
// @Description Deletes the registration, restoring one seat on its event.
// @Tags registrations
// @Param registrationID path string true "Registration ID (UUID)"
// @Success 204 "registration deleted"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/registrations/{registrationID} [delete]
func (c *RegistrationController) Cancel(w http.ResponseWriter, r *http.Request) {
	registrationID := r.PathValue("registrationID")
	if !uuidRegex.MatchString(registrationID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid registrationID")
		return
	}

	if err := c.Ledger.Cancel(r.Context(), registrationID); err != nil {
		if errors.Is(err, domain.ErrRegistrationNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "registration not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListForUserSuccessResponse is the success response envelope for GET /api/registrations/user/{userID} (200).
type ListForUserSuccessResponse struct {
	Data  []*domain.RegistrationWithEvent `json:"data"`
	Error *helpers.APIError               `json:"error"`
}

// ListForUser godoc
// @Summary Get a user's registrations
// @Description Returns the user's registrations, each with its event. Registrations whose event has since been deleted are omitted.
// @Tags registrations
// @Produce json
// @Param userID path string true "User ID (UUID)"
// @Success 200 {object} controllers.ListForUserSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/registrations/user/{userID} [get]
func (c *RegistrationController) ListForUser(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userID")
	if !uuidRegex.MatchString(userID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid userID")
		return
	}

	items, err := c.Ledger.ListForUser(r.Context(), userID)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}

	helpers.WriteJSONSuccess(w, http.StatusOK, items)
}

// ListForEventSuccessResponse is the success response envelope for GET /api/registrations/event/{eventID} (200).
type ListForEventSuccessResponse struct {
	Data  []*domain.Registration `json:"data"`
	Error *helpers.APIError      `json:"error"`
}

// ListForEvent godoc
// @Summary Get all registrations for an event
// @Tags registrations
// @Produce json
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.ListForEventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/registrations/event/{eventID} [get]
func (c *RegistrationController) ListForEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if !uuidRegex.MatchString(eventID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid eventID")
		return
	}

	regs, err := c.Ledger.ListForEvent(r.Context(), eventID)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}

	helpers.WriteJSONSuccess(w, http.StatusOK, regs)
}
