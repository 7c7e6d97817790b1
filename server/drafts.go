package server

import (
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"

	"product_draft_studio/publisher"
	"product_draft_studio/studio"
)

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req studio.GenerateRequest
	if err := decode(r, &req); err != nil {
		fail(w, r, err, s.logger)
		return
	}
	res, err := s.svc.Generate(r.Context(), req)
	if err != nil {
		fail(w, r, err, s.logger)
		return
	}
	created(w, res, s.logger)
}

func (s *Server) handleSample(w http.ResponseWriter, r *http.Request) {
	res, err := s.svc.Sample(r.Context())
	if err != nil {
		fail(w, r, err, s.logger)
		return
	}
	created(w, res, s.logger)
}

func (s *Server) handleGetDraft(w http.ResponseWriter, r *http.Request) {
	view, err := s.svc.Draft(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		fail(w, r, err, s.logger)
		return
	}
	success(w, view, s.logger)
}

func (s *Server) handleFavorite(w http.ResponseWriter, r *http.Request) {
	tpl, err := s.svc.Favorite(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		fail(w, r, err, s.logger)
		return
	}
	created(w, tpl, s.logger)
}

type rewriteRequest struct {
	Comment string `json:"comment"`
}

func (s *Server) handleRewrite(w http.ResponseWriter, r *http.Request) {
	var req rewriteRequest
	if err := decode(r, &req); err != nil {
		fail(w, r, err, s.logger)
		return
	}
	view, err := s.svc.Rewrite(r.Context(), chi.URLParam(r, "id"), req.Comment)
	if err != nil {
		fail(w, r, err, s.logger)
		return
	}
	success(w, view, s.logger)
}

func (s *Server) handleExportDraft(w http.ResponseWriter, r *http.Request) {
	format, err := publisher.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		fail(w, r, err, s.logger)
		return
	}
	view, err := s.svc.Draft(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		fail(w, r, err, s.logger)
		return
	}
	data, err := publisher.Render(view.Draft, format)
	if err != nil {
		fail(w, r, err, s.logger)
		return
	}
	attachment(w, format.ContentType(), publisher.FileName(view.Draft, format), data)
}

// attachment writes data as a download.
func attachment(w http.ResponseWriter, contentType, filename string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
