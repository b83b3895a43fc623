package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"notesmith-server/internal/domain"
	"notesmith-server/internal/middleware"
	"notesmith-server/internal/service"
	"notesmith-server/pkg/response"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type RawInputHandler struct {
	service  *service.RawInputService
	validate *validator.Validate
	logger   *zap.Logger
}

func NewRawInputHandler(service *service.RawInputService, logger *zap.Logger) *RawInputHandler {
	return &RawInputHandler{
		service:  service,
		validate: validator.New(),
		logger:   logger,
	}
}

func (h *RawInputHandler) List(w http.ResponseWriter, r *http.Request) {
	rawInputs, err := h.service.List(middleware.GetUserID(r), r.URL.Query().Get("notebook"))
	if err != nil {
		h.respondError(w, err, "No notebook found with that ID")
		return
	}
	if rawInputs == nil {
		rawInputs = []*domain.RawInput{}
	}

	response.List(w, len(rawInputs), map[string]interface{}{"rawInputs": rawInputs})
}

func (h *RawInputHandler) Get(w http.ResponseWriter, r *http.Request) {
	rawInput, err := h.service.Get(middleware.GetUserID(r), mux.Vars(r)["id"])
	if err != nil {
		h.respondError(w, err, "No raw input found with that ID")
		return
	}

	response.Success(w, map[string]interface{}{"rawInput": rawInput})
}

func (h *RawInputHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateRawInputRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		response.BadRequest(w, formatValidationError(err))
		return
	}

	rawInput, err := h.service.Create(middleware.GetUserID(r), &req)
	if err != nil {
		h.respondError(w, err, "Notebook not found or not owned by user")
		return
	}

	response.Created(w, map[string]interface{}{"rawInput": rawInput})
}

func (h *RawInputHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(middleware.GetUserID(r), mux.Vars(r)["id"]); err != nil {
		h.respondError(w, err, "No raw input found with that ID")
		return
	}

	response.NoContent(w)
}

// GenerateNotes runs the raw-text pipeline. Quota-gated on the route.
func (h *RawInputHandler) GenerateNotes(w http.ResponseWriter, r *http.Request) {
	var req domain.GenerateNotesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		response.BadRequest(w, formatValidationError(err))
		return
	}

	result, err := h.service.GenerateNotes(middleware.GetUserID(r), &req)
	if err != nil {
		h.respondGenerationError(w, err)
		return
	}

	response.CreatedList(w, len(result.Notes), result)
}

// GenerateFromTopic runs the topic pipeline. Quota-gated on the route.
func (h *RawInputHandler) GenerateFromTopic(w http.ResponseWriter, r *http.Request) {
	var req domain.GenerateFromTopicRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		response.BadRequest(w, formatValidationError(err))
		return
	}

	result, err := h.service.GenerateFromTopic(middleware.GetUserID(r), &req)
	if err != nil {
		h.respondGenerationError(w, err)
		return
	}

	response.CreatedList(w, len(result.Notes), result)
}

func (h *RawInputHandler) respondError(w http.ResponseWriter, err error, notFoundMsg string) {
	if errors.Is(err, service.ErrNotFound) {
		response.NotFound(w, notFoundMsg)
		return
	}
	h.logger.Error("raw input operation failed", zap.Error(err))
	response.InternalError(w, "Something went wrong")
}

// respondGenerationError surfaces upstream LLM failures with their message;
// generation errors are operational, not programming faults.
func (h *RawInputHandler) respondGenerationError(w http.ResponseWriter, err error) {
	if errors.Is(err, service.ErrNotFound) {
		response.NotFound(w, "Notebook not found or not owned by user")
		return
	}
	h.logger.Error("note generation failed", zap.Error(err))
	response.InternalError(w, err.Error())
}
