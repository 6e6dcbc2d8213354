package handlers

import (
	"net/http"

	"github.com/nikhilbhutani/braillevoice/internal/assist"
)

type IndexHandler struct {
	svc      Processor
	page     *Page
	maxBytes int64
}

func NewIndexHandler(svc Processor, page *Page, maxBytes int64) *IndexHandler {
	return &IndexHandler{svc: svc, page: page, maxBytes: maxBytes}
}

// Form renders the empty upload form.
func (h *IndexHandler) Form(w http.ResponseWriter, r *http.Request) {
	h.page.Render(w, http.StatusOK, "", nil)
}

// Submit processes an uploaded image and renders the result or the error of
// the stage that failed.
func (h *IndexHandler) Submit(w http.ResponseWriter, r *http.Request) {
	up, cleanup, err := readUpload(w, r, h.maxBytes)
	defer cleanup()
	if err != nil {
		h.page.Render(w, http.StatusRequestEntityTooLarge, assist.MsgTooLarge, nil)
		return
	}

	result, err := h.svc.Process(r.Context(), up)
	if err != nil {
		if se, ok := assist.AsStageError(err); ok {
			h.page.Render(w, http.StatusOK, se.Message, nil)
			return
		}
		h.Internal(w, r)
		return
	}
	h.page.Render(w, http.StatusOK, "", result)
}

// Internal renders the generic error page with status 500.
func (h *IndexHandler) Internal(w http.ResponseWriter, r *http.Request) {
	h.page.Render(w, http.StatusInternalServerError, assist.MsgInternal, nil)
}
