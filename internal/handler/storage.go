package handler

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Tetsu-is/danceverse/internal/auth"
	"github.com/Tetsu-is/danceverse/internal/storage"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const presignTTL = 15 * time.Minute

// objectPath returns the bucket and key of a storage route, or false if the bucket is unknown.
func (h *Handler) objectPath(r *http.Request) (string, string, bool) {
	bucket := chi.URLParam(r, "bucket")
	key := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	if !h.buckets[bucket] || key == "" || strings.Contains(key, "..") {
		return "", "", false
	}
	return bucket, key, true
}

// ownsKey enforces that a user only writes below their own id prefix.
func ownsKey(r *http.Request, key string) bool {
	userID, ok := auth.UserIDFromContext(r.Context())
	return ok && strings.HasPrefix(key, userID+"/")
}

func (h *Handler) uploadObject(w http.ResponseWriter, r *http.Request) {
	bucket, key, ok := h.objectPath(r)
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "Bucket not found")
		return
	}
	if !ownsKey(r, key) {
		writeError(w, http.StatusForbidden, "forbidden", "new row violates row-level security policy")
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.opts.MaxUploadBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "payload_too_large", "The object exceeded the maximum allowed size")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid_request", "failed to read body")
		return
	}
	if len(body) == 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "empty body")
		return
	}

	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	err = h.opts.Objects.Put(r.Context(), bucket, key, contentType, body)
	if errors.Is(err, storage.ErrObjectExists) {
		writeError(w, http.StatusConflict, "duplicate", "The resource already exists")
		return
	} else if err != nil {
		h.internalError(w, "failed to put object", err)
		return
	}

	h.opts.Metrics.AddUploadBytes(len(body))
	h.log.Info("object uploaded", zap.String("bucket", bucket), zap.String("key", key), zap.Int("bytes", len(body)))
	writeJSON(w, http.StatusOK, map[string]string{"Key": bucket + "/" + key})
}

func (h *Handler) removeObject(w http.ResponseWriter, r *http.Request) {
	bucket, key, ok := h.objectPath(r)
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "Bucket not found")
		return
	}
	if !ownsKey(r, key) {
		writeError(w, http.StatusForbidden, "forbidden", "new row violates row-level security policy")
		return
	}

	if err := h.opts.Objects.Remove(r.Context(), bucket, key); err != nil {
		h.internalError(w, "failed to remove object", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) publicObject(w http.ResponseWriter, r *http.Request) {
	bucket, key, ok := h.objectPath(r)
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "Bucket not found")
		return
	}

	u, err := h.opts.Objects.PresignGet(r.Context(), bucket, key, presignTTL)
	if errors.Is(err, storage.ErrObjectNotFound) {
		writeError(w, http.StatusNotFound, "not_found", "Object not found")
		return
	} else if err != nil {
		h.internalError(w, "failed to presign object", err)
		return
	}

	http.Redirect(w, r, u.String(), http.StatusFound)
}
