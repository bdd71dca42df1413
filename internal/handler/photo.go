package handler

import (
	"io"
	"net/http"
	"strings"

	"homewise/internal/domain"
	"homewise/internal/middleware"
)

const maxPhotoBytes = 10 << 20

var allowedPhotoTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/heic": true,
}

type uploadPhotoResponse struct {
	Ref string `json:"ref"`
}

// UploadPhoto stores one repair photo and returns the reference to attach to a
// chat turn or diagnose call.
func (h *Handler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFrom(r.Context())

	if err := r.ParseMultipartForm(maxPhotoBytes); err != nil {
		h.writeError(w, domain.ErrInvalidRequest)
		return
	}
	file, header, err := r.FormFile("photo")
	if err != nil {
		h.writeError(w, domain.ErrInvalidRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxPhotoBytes+1))
	if err != nil {
		h.writeError(w, err)
		return
	}
	if len(data) == 0 || len(data) > maxPhotoBytes {
		h.writeError(w, domain.ErrInvalidRequest)
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	if !allowedPhotoTypes[strings.ToLower(contentType)] {
		h.writeError(w, domain.ErrInvalidRequest)
		return
	}

	ref, err := h.photos.Put(r.Context(), userID, header.Filename, contentType, data)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, uploadPhotoResponse{Ref: ref})
}

func (h *Handler) GetPhoto(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFrom(r.Context())
	data, contentType, err := h.photos.Get(r.Context(), userID, r.PathValue("ref"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "private, max-age=86400")
	_, _ = w.Write(data)
}

func (h *Handler) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFrom(r.Context())
	if err := h.photos.Delete(r.Context(), userID, r.PathValue("ref")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
