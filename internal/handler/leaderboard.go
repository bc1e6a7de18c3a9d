package handler

import (
	"net/http"

	"github.com/Tetsu-is/danceverse/internal/domain"
)

func (h *Handler) getLeaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := h.opts.Leaderboard.GetTop(r.Context(), domain.LeaderboardLimit)
	if err != nil {
		h.internalError(w, "failed to get leaderboard", err)
		return
	}

	writeJSON(w, http.StatusOK, domain.GetLeaderboardResponse{
		Entries: domain.TopEntries(entries, domain.LeaderboardLimit),
	})
}
