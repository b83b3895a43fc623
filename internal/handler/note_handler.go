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

type NoteHandler struct {
	service  *service.NoteService
	validate *validator.Validate
	logger   *zap.Logger
}

func NewNoteHandler(service *service.NoteService, logger *zap.Logger) *NoteHandler {
	return &NoteHandler{
		service:  service,
		validate: validator.New(),
		logger:   logger,
	}
}

func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	notes, err := h.service.List(middleware.GetUserID(r), r.URL.Query().Get("notebook"))
	if err != nil {
		h.logger.Error("note list failed", zap.Error(err))
		response.InternalError(w, "Something went wrong")
		return
	}

	response.List(w, len(notes), map[string]interface{}{"notes": notes})
}

func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		response.BadRequest(w, formatValidationError(err))
		return
	}

	note, err := h.service.Create(middleware.GetUserID(r), &req)
	if err != nil {
		h.respondError(w, err, "Notebook or raw input not found")
		return
	}

	response.Created(w, map[string]interface{}{"note": note})
}

func (h *NoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	detail, err := h.service.Get(middleware.GetUserID(r), mux.Vars(r)["id"])
	if err != nil {
		h.respondError(w, err, "No note found with that ID")
		return
	}

	response.Success(w, detail)
}

func (h *NoteHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		response.BadRequest(w, formatValidationError(err))
		return
	}

	note, err := h.service.Update(middleware.GetUserID(r), mux.Vars(r)["id"], &req)
	if err != nil {
		h.respondError(w, err, "No note found with that ID")
		return
	}

	response.Success(w, map[string]interface{}{"note": note})
}

func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(middleware.GetUserID(r), mux.Vars(r)["id"]); err != nil {
		h.respondError(w, err, "No note found with that ID")
		return
	}

	response.NoContent(w)
}

// Ask is quota-gated by LLMQuotaMiddleware on the route.
func (h *NoteHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req domain.AskQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		response.BadRequest(w, formatValidationError(err))
		return
	}

	answer, err := h.service.Ask(middleware.GetUserID(r), mux.Vars(r)["id"], &req)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			response.NotFound(w, "No note found with that ID")
			return
		}
		// Upstream generation failures are terminal and surfaced directly
		h.logger.Error("ask failed", zap.Error(err))
		response.InternalError(w, err.Error())
		return
	}

	response.Success(w, answer)
}

func (h *NoteHandler) QAHistory(w http.ResponseWriter, r *http.Request) {
	qaHistory, err := h.service.QAHistory(middleware.GetUserID(r), mux.Vars(r)["id"])
	if err != nil {
		h.respondError(w, err, "No note found with that ID")
		return
	}

	response.List(w, len(qaHistory), map[string]interface{}{"qaHistory": qaHistory})
}

func (h *NoteHandler) DeleteQA(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := h.service.DeleteQA(middleware.GetUserID(r), vars["id"], vars["qaId"]); err != nil {
		h.respondError(w, err, "No Q&A entry found with that ID")
		return
	}

	response.NoContent(w)
}

func (h *NoteHandler) respondError(w http.ResponseWriter, err error, notFoundMsg string) {
	if errors.Is(err, service.ErrNotFound) {
		response.NotFound(w, notFoundMsg)
		return
	}
	h.logger.Error("note operation failed", zap.Error(err))
	response.InternalError(w, "Something went wrong")
}
