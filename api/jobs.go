package api

import (
	"net/http"

	"github.com/byceps/announce/delivery"
)

func (h *Handler) listJobs(w http.ResponseWriter, r *http.Request) {
	opts := delivery.ListOpts{
		Offset: queryInt(r, "offset", 0),
		Limit:  queryInt(r, "limit", 50),
	}
	if v := queryParam(r, "state"); v != "" {
		state := delivery.State(v)
		opts.State = &state
	}

	jobs, err := h.announcer.Store().ListJobs(r.Context(), opts)
	if err != nil {
		writeErr(w, err)
		return
	}

	writeJSON(w, http.StatusOK, nonNil(jobs))
}
