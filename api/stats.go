package api

import "net/http"

func (h *Handler) getStats(w http.ResponseWriter, r *http.Request) {
	stats, err := collectStats(r.Context(), h.announcer)
	if err != nil {
		writeErr(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}
