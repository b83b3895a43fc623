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

type NotebookHandler struct {
	service  *service.NotebookService
	validate *validator.Validate
	logger   *zap.Logger
}

func NewNotebookHandler(service *service.NotebookService, logger *zap.Logger) *NotebookHandler {
	return &NotebookHandler{
		service:  service,
		validate: validator.New(),
		logger:   logger,
	}
}

func (h *NotebookHandler) List(w http.ResponseWriter, r *http.Request) {
	notebooks, err := h.service.List(middleware.GetUserID(r))
	if err != nil {
		h.logger.Error("notebook list failed", zap.Error(err))
		response.InternalError(w, "Something went wrong")
		return
	}
	if notebooks == nil {
		notebooks = []*domain.Notebook{}
	}

	response.List(w, len(notebooks), map[string]interface{}{"notebooks": notebooks})
}

func (h *NotebookHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateNotebookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		response.BadRequest(w, formatValidationError(err))
		return
	}

	notebook, err := h.service.Create(middleware.GetUserID(r), &req)
	if err != nil {
		h.logger.Error("notebook create failed", zap.Error(err))
		response.InternalError(w, "Something went wrong")
		return
	}

	response.Created(w, map[string]interface{}{"notebook": notebook})
}

func (h *NotebookHandler) Get(w http.ResponseWriter, r *http.Request) {
	notebook, err := h.service.Get(middleware.GetUserID(r), mux.Vars(r)["id"])
	if err != nil {
		h.respondError(w, err, "No notebook found with that ID")
		return
	}

	response.Success(w, map[string]interface{}{"notebook": notebook})
}

func (h *NotebookHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateNotebookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		response.BadRequest(w, formatValidationError(err))
		return
	}

	notebook, err := h.service.Update(middleware.GetUserID(r), mux.Vars(r)["id"], &req)
	if err != nil {
		h.respondError(w, err, "No notebook found with that ID")
		return
	}

	response.Success(w, map[string]interface{}{"notebook": notebook})
}

func (h *NotebookHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(middleware.GetUserID(r), mux.Vars(r)["id"]); err != nil {
		h.respondError(w, err, "No notebook found with that ID")
		return
	}

	response.NoContent(w)
}

func (h *NotebookHandler) RawContent(w http.ResponseWriter, r *http.Request) {
	rawContent, err := h.service.RawContent(middleware.GetUserID(r), mux.Vars(r)["id"])
	if err != nil {
		h.respondError(w, err, "No notebook found with that ID")
		return
	}

	response.Success(w, rawContent)
}

func (h *NotebookHandler) respondError(w http.ResponseWriter, err error, notFoundMsg string) {
	if errors.Is(err, service.ErrNotFound) {
		response.NotFound(w, notFoundMsg)
		return
	}
	h.logger.Error("notebook operation failed", zap.Error(err))
	response.InternalError(w, "Something went wrong")
}
