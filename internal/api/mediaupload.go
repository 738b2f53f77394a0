package api

import (
	"io"
	"net/http"

	"github.com/jinsol/rememberme/internal/media"
)

const maxUploadBytes = media.MaxPayloadBytes + 1<<20 // payload cap plus multipart overhead

// UploadMedia handles POST /api/media (multipart/form-data, field "file").
//
// The file intake boundary: an uploaded image, video or audio file is turned
// into an embedded data URL here, and only the resulting string ever reaches
// the journal store.
//
//	@Summary		Convert an uploaded file into an embedded media payload
//	@Tags			media
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			file	formData	file	true	"Media file"
//	@Success		201		{object}	MediaUploadResponse
//	@Failure		400		{object}	errResponse
//	@Failure		413		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/media [post]
func (h *Handler) UploadMedia(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("file too large or invalid multipart"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("missing 'file' field in multipart form"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("failed to read file"))
		return
	}

	dataURL, mime, err := media.FromBytes(data, header.Header.Get("Content-Type"))
	if err != nil {
		writeServiceError(w, "upload media", err)
		return
	}

	writeJSON(w, http.StatusCreated, MediaUploadResponse{
		DataURL: dataURL,
		MIME:    mime,
		Size:    len(data),
	})
}
