package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Tetsu-is/danceverse/internal/auth"
	"github.com/Tetsu-is/danceverse/internal/domain"
	"github.com/Tetsu-is/danceverse/internal/repository"
	"github.com/google/uuid"
)

func (h *Handler) getPublicVideos(w http.ResponseWriter, r *http.Request) {
	videos, err := h.opts.Videos.GetPublicVideos(r.Context(), domain.PublicVideosLimit)
	if err != nil {
		h.internalError(w, "failed to get videos", err)
		return
	}
	if videos == nil {
		videos = []domain.Video{}
	}

	writeJSON(w, http.StatusOK, domain.GetVideosResponse{Videos: videos})
}

func (h *Handler) insertVideo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, _ := auth.UserIDFromContext(ctx)

	var req domain.InsertVideoRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	req.URL = strings.TrimSpace(req.URL)
	if req.URL == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "url is required")
		return
	}
	if req.UserID == "" {
		req.UserID = userID
	}
	if req.UserID != userID {
		writeError(w, http.StatusForbidden, "forbidden", "new row violates row-level security policy for table \"videos\"")
		return
	}

	id, err := uuid.NewV7()
	if err != nil {
		h.internalError(w, "failed to generate uuid", err)
		return
	}

	video, err := h.opts.Videos.CreateVideo(ctx, id.String(), req)
	if errors.Is(err, repository.ErrUnknownOwner) {
		writeError(w, http.StatusConflict, "foreign_key_violation", err.Error())
		return
	} else if err != nil {
		h.internalError(w, "failed to create video", err)
		return
	}

	writeJSON(w, http.StatusCreated, video)
}
