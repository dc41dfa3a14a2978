package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fabricio2fb/reviewlar/internal/draft"
	"github.com/fabricio2fb/reviewlar/internal/importer"
	"github.com/fabricio2fb/reviewlar/internal/service"
	"github.com/fabricio2fb/reviewlar/pkg/httputil"
	"github.com/fabricio2fb/reviewlar/pkg/middleware"
)

// maxImportBytes caps a pasted import payload.
const maxImportBytes = 1 << 20

// DraftHandler serves the review editor.
type DraftHandler struct {
	service *service.DraftService
	logger  *slog.Logger
}

// NewDraftHandler creates a draft handler.
func NewDraftHandler(svc *service.DraftService, logger *slog.Logger) *DraftHandler {
	return &DraftHandler{service: svc, logger: logger}
}

type createDraftRequest struct {
	ReviewID string `json:"reviewId"`
}

type importResponse struct {
	Result *importer.Result `json:"result"`
	Draft  *draft.Draft     `json:"draft"`
}

type suggestRequest struct {
	Text string `json:"text"`
}

// Create handles POST /api/v1/admin/drafts. An empty body starts a new
// review; a reviewId loads an existing one for editing.
func (h *DraftHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createDraftRequest
	if r.ContentLength != 0 && !httputil.DecodeJSON(w, r, &req) {
		return
	}

	d, err := h.service.Create(r.Context(), middleware.UserIDFromContext(r.Context()), req.ReviewID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusCreated, d)
}

// Get handles GET /api/v1/admin/drafts/{id}
func (h *DraftHandler) Get(w http.ResponseWriter, r *http.Request) {
	d, err := h.service.Get(r.Context(), owner(r), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, d)
}

// Delete handles DELETE /api/v1/admin/drafts/{id}
func (h *DraftHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), owner(r), chi.URLParam(r, "id")); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetField handles PATCH /api/v1/admin/drafts/{id}/fields/{field}. The body
// is the bare JSON value.
func (h *DraftHandler) SetField(w http.ResponseWriter, r *http.Request) {
	var raw json.RawMessage
	if !httputil.DecodeJSON(w, r, &raw) {
		return
	}

	d, err := h.service.SetField(r.Context(), owner(r), chi.URLParam(r, "id"), chi.URLParam(r, "field"), raw)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, d)
}

// AppendItem handles POST /api/v1/admin/drafts/{id}/groups/{group}
func (h *DraftHandler) AppendItem(w http.ResponseWriter, r *http.Request) {
	var raw json.RawMessage
	if !httputil.DecodeJSON(w, r, &raw) {
		return
	}

	d, err := h.service.AppendItem(r.Context(), owner(r), chi.URLParam(r, "id"), chi.URLParam(r, "group"), raw)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, d)
}

// RemoveItem handles DELETE /api/v1/admin/drafts/{id}/groups/{group}/{index}
func (h *DraftHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		httputil.WriteBadRequest(w, "index must be an integer")
		return
	}

	d, err := h.service.RemoveItem(r.Context(), owner(r), chi.URLParam(r, "id"), chi.URLParam(r, "group"), index)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, d)
}

// Import handles POST /api/v1/admin/drafts/{id}/imports/{kind}. The body is
// the pasted text, which need not be valid JSON; the importer reports that.
func (h *DraftHandler) Import(w http.ResponseWriter, r *http.Request) {
	kind, err := importer.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImportBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httputil.WriteJSON(w, http.StatusRequestEntityTooLarge, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "PAYLOAD_TOO_LARGE", Message: "import payload is too large"},
			})
			return
		}
		httputil.WriteBadRequest(w, "could not read request body")
		return
	}

	res, d, err := h.service.Import(r.Context(), owner(r), chi.URLParam(r, "id"), kind, payload)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, importResponse{Result: res, Draft: d})
}

// Validate handles POST /api/v1/admin/drafts/{id}/validate
func (h *DraftHandler) Validate(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.Validate(r.Context(), owner(r), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, res)
}

// Submit handles POST /api/v1/admin/drafts/{id}/submit
func (h *DraftHandler) Submit(w http.ResponseWriter, r *http.Request) {
	review, err := h.service.Submit(r.Context(), owner(r), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, review)
}

// Suggestions handles GET /api/v1/admin/drafts/{id}/suggestions
func (h *DraftHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	sg, err := h.service.Suggestions(r.Context(), owner(r), chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteData(w, http.StatusOK, sg)
}

// SuggestNow handles POST /api/v1/admin/suggestions. It always answers 200;
// backend failures come back in the error field.
func (h *DraftHandler) SuggestNow(w http.ResponseWriter, r *http.Request) {
	var req suggestRequest
	if !httputil.DecodeJSON(w, r, &req) {
		return
	}
	httputil.WriteJSON(w, http.StatusOK, h.service.SuggestNow(r.Context(), req.Text))
}

func owner(r *http.Request) string {
	return middleware.UserIDFromContext(r.Context())
}
