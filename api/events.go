package api

import (
	"io"
	"net/http"
)

// maxEventBody caps the size of an announced event.
const maxEventBody = 1 << 20

func (h *Handler) listEventNames(w http.ResponseWriter, r *http.Request) {
	reg := h.announcer.Registry()

	names := reg.KnownNames()
	if pattern := queryParam(r, "pattern"); pattern != "" {
		names = reg.Names(pattern)
	}

	writeJSON(w, http.StatusOK, names)
}

func (h *Handler) announceEvent(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxEventBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := announceJSON(r.Context(), h.announcer, r.PathValue("name"), body)
	if err != nil {
		writeErr(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, res)
}
