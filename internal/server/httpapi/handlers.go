package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/gophdocs/internal/common"
	"github.com/dmitrijs2005/gophdocs/internal/rpcx"
	"github.com/dmitrijs2005/gophdocs/internal/server/services"
)

// maxBodySize leaves room for the JSON framing around the ciphertext.
const maxBodySize = services.MaxContentSize + 64<<10

func (s *Server) getDocument(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	doc, err := s.docs.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, rpcx.Document{ID: doc.ID, Content: doc.Content, LastModified: doc.LastModified})
}

func (s *Server) putDocument(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req rpcx.PutDocumentRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, rpcx.ErrorResponse{Error: "document too large"})
			return
		}
		s.writeError(w, r, fmt.Errorf("%w: malformed body: %v", common.ErrorValidation, err))
		return
	}
	if req.ID != "" && req.ID != id {
		s.writeError(w, r, fmt.Errorf("%w: body uuid does not match path", common.ErrorValidation))
		return
	}

	lastModified, err := s.docs.Put(r.Context(), id, req.Content)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, rpcx.PutDocumentResponse{LastModified: lastModified})
}

func (s *Server) ping(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, rpcx.PingResponse{Status: rpcx.StatusOK})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrorValidation):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrorVersionConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := statusFor(err)
	msg := err.Error()
	if code == http.StatusInternalServerError {
		s.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err,
			"request_id", requestIDFrom(r.Context()))
		msg = common.ErrorInternal.Error()
	}
	writeJSON(w, code, rpcx.ErrorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
