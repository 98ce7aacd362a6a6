package api

import (
	"net/http"

	"github.com/byceps/announce/failure"
	"github.com/byceps/announce/id"
)

func (h *Handler) listFailures(w http.ResponseWriter, r *http.Request) {
	opts := failure.ListOpts{
		Offset:    queryInt(r, "offset", 0),
		Limit:     queryInt(r, "limit", 50),
		Kind:      failure.Kind(queryParam(r, "kind")),
		EventName: queryParam(r, "event_name"),
	}

	if v := queryParam(r, "webhook_id"); v != "" {
		whID, err := id.ParseWebhookID(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid webhook ID")
			return
		}
		opts.WebhookID = &whID
	}

	var err error
	if opts.From, err = queryTime(r, "from"); err != nil {
		writeErr(w, err)
		return
	}
	if opts.To, err = queryTime(r, "to"); err != nil {
		writeErr(w, err)
		return
	}

	entries, err := h.announcer.Failures().List(r.Context(), opts)
	if err != nil {
		writeErr(w, err)
		return
	}

	writeJSON(w, http.StatusOK, nonNil(entries))
}

func (h *Handler) getFailure(w http.ResponseWriter, r *http.Request) {
	failID, err := id.ParseFailureID(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid failure ID")
		return
	}

	e, err := h.announcer.Failures().Get(r.Context(), failID)
	if err != nil {
		writeErr(w, err)
		return
	}

	writeJSON(w, http.StatusOK, e)
}

func (h *Handler) deleteFailure(w http.ResponseWriter, r *http.Request) {
	failID, err := id.ParseFailureID(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid failure ID")
		return
	}

	if err := h.announcer.Failures().Delete(r.Context(), failID); err != nil {
		writeErr(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// purgeFailures deletes entries older than the required before parameter.
func (h *Handler) purgeFailures(w http.ResponseWriter, r *http.Request) {
	before, err := queryTime(r, "before")
	if err != nil {
		writeErr(w, err)
		return
	}
	if before == nil {
		writeError(w, http.StatusBadRequest, "before query parameter is required")
		return
	}

	n, err := h.announcer.Failures().Purge(r.Context(), *before)
	if err != nil {
		writeErr(w, err)
		return
	}

	writeJSON(w, http.StatusOK, PurgeForgeResponse{Purged: n})
}
