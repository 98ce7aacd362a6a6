package api

import (
	"errors"
	"net/http"

	"github.com/byceps/announce"
	"github.com/byceps/announce/id"
	"github.com/byceps/announce/webhook"
)

func (h *Handler) createWebhook(w http.ResponseWriter, r *http.Request) {
	var in webhook.Input
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	wh, err := h.announcer.Webhooks().Create(r.Context(), in)
	if err != nil {
		writeErr(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, wh)
}

func (h *Handler) listWebhooks(w http.ResponseWriter, r *http.Request) {
	opts := webhook.ListOpts{
		Offset: queryInt(r, "offset", 0),
		Limit:  queryInt(r, "limit", 50),
		Format: webhook.Format(queryParam(r, "format")),
	}
	switch queryParam(r, "enabled") {
	case "true":
		enabled := true
		opts.Enabled = &enabled
	case "false":
		enabled := false
		opts.Enabled = &enabled
	}

	whs, err := h.announcer.Webhooks().List(r.Context(), opts)
	if err != nil {
		writeErr(w, err)
		return
	}

	writeJSON(w, http.StatusOK, nonNil(whs))
}

func (h *Handler) getWebhook(w http.ResponseWriter, r *http.Request) {
	whID, ok := webhookID(w, r)
	if !ok {
		return
	}

	wh, err := h.announcer.Webhooks().Get(r.Context(), whID)
	if err != nil {
		writeErr(w, err)
		return
	}

	writeJSON(w, http.StatusOK, wh)
}

func (h *Handler) updateWebhook(w http.ResponseWriter, r *http.Request) {
	whID, ok := webhookID(w, r)
	if !ok {
		return
	}

	var in webhook.Input
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	wh, err := h.announcer.Webhooks().Update(r.Context(), whID, in)
	if err != nil {
		writeErr(w, err)
		return
	}

	writeJSON(w, http.StatusOK, wh)
}

func (h *Handler) deleteWebhook(w http.ResponseWriter, r *http.Request) {
	whID, ok := webhookID(w, r)
	if !ok {
		return
	}

	if err := h.announcer.Webhooks().Delete(r.Context(), whID); err != nil {
		writeErr(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) enableWebhook(w http.ResponseWriter, r *http.Request) {
	h.setEnabled(w, r, true)
}

func (h *Handler) disableWebhook(w http.ResponseWriter, r *http.Request) {
	h.setEnabled(w, r, false)
}

func (h *Handler) setEnabled(w http.ResponseWriter, r *http.Request, enabled bool) {
	whID, ok := webhookID(w, r)
	if !ok {
		return
	}

	if err := h.announcer.Webhooks().SetEnabled(r.Context(), whID, enabled); err != nil {
		writeErr(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) testWebhook(w http.ResponseWriter, r *http.Request) {
	whID, ok := webhookID(w, r)
	if !ok {
		return
	}

	res, err := h.announcer.Test(r.Context(), whID)
	if err != nil {
		var failure *announce.WebhookFailure
		if errors.As(err, &failure) {
			writeJSON(w, http.StatusBadGateway, map[string]any{
				"error":       err.Error(),
				"status_code": failure.Status(),
			})
			return
		}
		writeErr(w, err)
		return
	}

	writeJSON(w, http.StatusOK, TestResult{StatusCode: res.StatusCode, LatencyMs: res.LatencyMs})
}

// webhookID parses the {id} path value, answering 400 when it is not a
// webhook ID.
func webhookID(w http.ResponseWriter, r *http.Request) (id.ID, bool) {
	whID, err := id.ParseWebhookID(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid webhook ID")
		return id.Nil, false
	}
	return whID, true
}

func nonNil[T any](items []*T) []*T {
	if items == nil {
		return []*T{}
	}
	return items
}
