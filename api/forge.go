package api

import (
	"encoding/json"
	"net/http"

	"github.com/xraph/forge"

	"github.com/byceps/announce"
	"github.com/byceps/announce/delivery"
	"github.com/byceps/announce/failure"
	"github.com/byceps/announce/id"
	"github.com/byceps/announce/webhook"
)

// ForgeAPI registers the admin API on a Forge router.
type ForgeAPI struct {
	announcer *announce.Announcer
	log       forge.Logger
	prefix    string
}

// NewForgeAPI creates a ForgeAPI for an Announcer.
func NewForgeAPI(a *announce.Announcer, log forge.Logger) *ForgeAPI {
	return &ForgeAPI{announcer: a, log: log}
}

// WithPrefix mounts all routes below prefix, e.g. "/announce".
func (a *ForgeAPI) WithPrefix(prefix string) *ForgeAPI {
	a.prefix = prefix
	return a
}

// RegisterRoutes registers all admin routes into the given Forge router
// with full OpenAPI metadata.
func (a *ForgeAPI) RegisterRoutes(router forge.Router) {
	a.registerWebhookRoutes(router)
	a.registerEventRoutes(router)
	a.registerFailureRoutes(router)
	a.registerJobRoutes(router)
	a.registerStatsRoutes(router)
}

// ---------------------------------------------------------------------------
// Webhook routes
// ---------------------------------------------------------------------------

func (a *ForgeAPI) registerWebhookRoutes(router forge.Router) {
	g := router.Group("", forge.WithGroupTags("webhooks"))

	if err := g.POST(a.prefix+"/webhooks", a.createWebhook,
		forge.WithSummary("Create webhook"),
		forge.WithDescription("Adds a webhook to the directory. The webhook's configuration is validated for its format."),
		forge.WithOperationID("createWebhook"),
		forge.WithRequestSchema(WebhookForgeRequest{}),
		forge.WithCreatedResponse(webhook.Webhook{}),
		forge.WithErrorResponses(),
	); err != nil {
		// Keep registering the remaining routes; the failure shows up in logs and tests.
		a.log.Error("Failed to register createWebhook route", forge.Error(err))
	}

	if err := g.GET(a.prefix+"/webhooks", a.listWebhooks,
		forge.WithSummary("List webhooks"),
		forge.WithDescription("Returns a paginated list of webhooks ordered by ID."),
		forge.WithOperationID("listWebhooks"),
		forge.WithRequestSchema(ListWebhooksForgeRequest{}),
		forge.WithListResponse(webhook.Webhook{}, http.StatusOK),
		forge.WithErrorResponses(),
	); err != nil {
		a.log.Error("Failed to register listWebhooks route", forge.Error(err))
	}

	if err := g.GET(a.prefix+"/webhooks/:id", a.getWebhook,
		forge.WithSummary("Get webhook"),
		forge.WithDescription("Returns a webhook by ID."),
		forge.WithOperationID("getWebhook"),
		forge.WithResponseSchema(http.StatusOK, "Webhook details", webhook.Webhook{}),
		forge.WithErrorResponses(),
	); err != nil {
		a.log.Error("Failed to register getWebhook route", forge.Error(err))
	}

	if err := g.PUT(a.prefix+"/webhooks/:id", a.updateWebhook,
		forge.WithSummary("Replace webhook"),
		forge.WithDescription("Replaces the configuration of a webhook."),
		forge.WithOperationID("updateWebhook"),
		forge.WithRequestSchema(UpdateWebhookForgeRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Updated webhook", webhook.Webhook{}),
		forge.WithErrorResponses(),
	); err != nil {
		a.log.Error("Failed to register updateWebhook route", forge.Error(err))
	}

	if err := g.DELETE(a.prefix+"/webhooks/:id", a.deleteWebhook,
		forge.WithSummary("Delete webhook"),
		forge.WithDescription("Removes a webhook from the directory."),
		forge.WithOperationID("deleteWebhook"),
		forge.WithNoContentResponse(),
		forge.WithErrorResponses(),
	); err != nil {
		a.log.Error("Failed to register deleteWebhook route", forge.Error(err))
	}

	if err := g.PATCH(a.prefix+"/webhooks/:id/enable", a.enableWebhook,
		forge.WithSummary("Enable webhook"),
		forge.WithDescription("Enables a webhook so it receives announcements."),
		forge.WithOperationID("enableWebhook"),
		forge.WithNoContentResponse(),
		forge.WithErrorResponses(),
	); err != nil {
		a.log.Error("Failed to register enableWebhook route", forge.Error(err))
	}

	if err := g.PATCH(a.prefix+"/webhooks/:id/disable", a.disableWebhook,
		forge.WithSummary("Disable webhook"),
		forge.WithDescription("Disables a webhook. It keeps its configuration."),
		forge.WithOperationID("disableWebhook"),
		forge.WithNoContentResponse(),
		forge.WithErrorResponses(),
	); err != nil {
		a.log.Error("Failed to register disableWebhook route", forge.Error(err))
	}

	if err := g.POST(a.prefix+"/webhooks/:id/test", a.testWebhook,
		forge.WithSummary("Send test announcement"),
		forge.WithDescription("Sends a fixed test text to the webhook, bypassing subscriptions and the enabled flag."),
		forge.WithOperationID("testWebhook"),
		forge.WithResponseSchema(http.StatusOK, "Target accepted the test", TestResult{}),
		forge.WithErrorResponses(),
	); err != nil {
		a.log.Error("Failed to register testWebhook route", forge.Error(err))
	}
}

func (a *ForgeAPI) createWebhook(ctx forge.Context, req *WebhookForgeRequest) (*webhook.Webhook, error) {
	wh, err := a.announcer.Webhooks().Create(ctx.Context(), req.input())
	if err != nil {
		return nil, mapError(err)
	}

	err = ctx.JSON(http.StatusCreated, wh)
	if err != nil {
		return nil, mapError(err)
	}

	//nolint:nilnil // response already written via ctx.JSON.
	return nil, nil
}

func (a *ForgeAPI) listWebhooks(ctx forge.Context, req *ListWebhooksForgeRequest) ([]*webhook.Webhook, error) {
	limit := req.Limit
	if limit == 0 {
		limit = 50
	}

	opts := webhook.ListOpts{
		Offset: req.Offset,
		Limit:  limit,
		Format: webhook.Format(req.Format),
	}
	switch req.Enabled {
	case "true":
		enabled := true
		opts.Enabled = &enabled
	case "false":
		enabled := false
		opts.Enabled = &enabled
	}

	whs, err := a.announcer.Webhooks().List(ctx.Context(), opts)
	if err != nil {
		return nil, mapError(err)
	}

	return nonNil(whs), nil
}

func (a *ForgeAPI) getWebhook(ctx forge.Context, req *WebhookPathForgeRequest) (*webhook.Webhook, error) {
	whID, err := id.ParseWebhookID(req.ID)
	if err != nil {
		return nil, forge.BadRequest("invalid webhook ID")
	}

	wh, err := a.announcer.Webhooks().Get(ctx.Context(), whID)
	if err != nil {
		return nil, mapError(err)
	}

	return wh, nil
}

func (a *ForgeAPI) updateWebhook(ctx forge.Context, req *UpdateWebhookForgeRequest) (*webhook.Webhook, error) {
	whID, err := id.ParseWebhookID(req.ID)
	if err != nil {
		return nil, forge.BadRequest("invalid webhook ID")
	}

	wh, err := a.announcer.Webhooks().Update(ctx.Context(), whID, req.WebhookForgeRequest.input())
	if err != nil {
		return nil, mapError(err)
	}

	return wh, nil
}

func (a *ForgeAPI) deleteWebhook(ctx forge.Context, req *WebhookPathForgeRequest) (*webhook.Webhook, error) {
	whID, err := id.ParseWebhookID(req.ID)
	if err != nil {
		return nil, forge.BadRequest("invalid webhook ID")
	}

	if err := a.announcer.Webhooks().Delete(ctx.Context(), whID); err != nil {
		return nil, mapError(err)
	}

	return noContent[webhook.Webhook](ctx)
}

func (a *ForgeAPI) enableWebhook(ctx forge.Context, req *WebhookPathForgeRequest) (*webhook.Webhook, error) {
	return a.setEnabled(ctx, req, true)
}

func (a *ForgeAPI) disableWebhook(ctx forge.Context, req *WebhookPathForgeRequest) (*webhook.Webhook, error) {
	return a.setEnabled(ctx, req, false)
}

func (a *ForgeAPI) setEnabled(ctx forge.Context, req *WebhookPathForgeRequest, enabled bool) (*webhook.Webhook, error) {
	whID, err := id.ParseWebhookID(req.ID)
	if err != nil {
		return nil, forge.BadRequest("invalid webhook ID")
	}

	if err := a.announcer.Webhooks().SetEnabled(ctx.Context(), whID, enabled); err != nil {
		return nil, mapError(err)
	}

	return noContent[webhook.Webhook](ctx)
}

func (a *ForgeAPI) testWebhook(ctx forge.Context, req *WebhookPathForgeRequest) (*TestResult, error) {
	whID, err := id.ParseWebhookID(req.ID)
	if err != nil {
		return nil, forge.BadRequest("invalid webhook ID")
	}

	res, err := a.announcer.Test(ctx.Context(), whID)
	if err != nil {
		return nil, mapError(err)
	}

	return &TestResult{StatusCode: res.StatusCode, LatencyMs: res.LatencyMs}, nil
}

// ---------------------------------------------------------------------------
// Event routes
// ---------------------------------------------------------------------------

func (a *ForgeAPI) registerEventRoutes(router forge.Router) {
	g := router.Group("", forge.WithGroupTags("events"))

	if err := g.GET(a.prefix+"/event-names", a.listEventNames,
		forge.WithSummary("List event names"),
		forge.WithDescription("Returns the registered event names, optionally filtered by a wildcard pattern such as board-*."),
		forge.WithOperationID("listEventNames"),
		forge.WithRequestSchema(ListEventNamesForgeRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Event names", []string{}),
		forge.WithErrorResponses(),
	); err != nil {
		a.log.Error("Failed to register listEventNames route", forge.Error(err))
	}

	if err := g.POST(a.prefix+"/events/:name", a.announceEvent,
		forge.WithSummary("Announce event"),
		forge.WithDescription("Decodes the event of the named kind and announces it to every subscribed webhook."),
		forge.WithOperationID("announceEvent"),
		forge.WithRequestSchema(AnnounceEventForgeRequest{}),
		forge.WithResponseSchema(http.StatusAccepted, "Event announced", AnnounceResult{}),
		forge.WithErrorResponses(),
	); err != nil {
		a.log.Error("Failed to register announceEvent route", forge.Error(err))
	}
}

func (a *ForgeAPI) listEventNames(_ forge.Context, req *ListEventNamesForgeRequest) ([]string, error) {
	reg := a.announcer.Registry()
	if req.Pattern != "" {
		return reg.Names(req.Pattern), nil
	}
	return reg.KnownNames(), nil
}

func (a *ForgeAPI) announceEvent(ctx forge.Context, req *AnnounceEventForgeRequest) (*AnnounceResult, error) {
	if len(req.Event) == 0 {
		return nil, forge.BadRequest("event is required")
	}

	body, err := json.Marshal(req.Event)
	if err != nil {
		return nil, forge.BadRequest("invalid event")
	}

	res, err := announceJSON(ctx.Context(), a.announcer, req.Name, body)
	if err != nil {
		return nil, mapError(err)
	}

	err = ctx.JSON(http.StatusAccepted, res)
	if err != nil {
		return nil, mapError(err)
	}

	//nolint:nilnil // response already written via ctx.JSON.
	return nil, nil
}

// ---------------------------------------------------------------------------
// Failure routes
// ---------------------------------------------------------------------------

func (a *ForgeAPI) registerFailureRoutes(router forge.Router) {
	g := router.Group("", forge.WithGroupTags("failures"))

	if err := g.GET(a.prefix+"/failures", a.listFailures,
		forge.WithSummary("List failures"),
		forge.WithDescription("Returns failure log entries, newest first."),
		forge.WithOperationID("listFailures"),
		forge.WithRequestSchema(ListFailuresForgeRequest{}),
		forge.WithListResponse(failure.Entry{}, http.StatusOK),
		forge.WithErrorResponses(),
	); err != nil {
		a.log.Error("Failed to register listFailures route", forge.Error(err))
	}

	if err := g.DELETE(a.prefix+"/failures", a.purgeFailures,
		forge.WithSummary("Purge failures"),
		forge.WithDescription("Deletes failure log entries older than the given time."),
		forge.WithOperationID("purgeFailures"),
		forge.WithRequestSchema(PurgeFailuresForgeRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Purge result", PurgeForgeResponse{}),
		forge.WithErrorResponses(),
	); err != nil {
		a.log.Error("Failed to register purgeFailures route", forge.Error(err))
	}

	if err := g.GET(a.prefix+"/failures/:id", a.getFailure,
		forge.WithSummary("Get failure"),
		forge.WithDescription("Returns a failure log entry by ID."),
		forge.WithOperationID("getFailure"),
		forge.WithResponseSchema(http.StatusOK, "Failure details", failure.Entry{}),
		forge.WithErrorResponses(),
	); err != nil {
		a.log.Error("Failed to register getFailure route", forge.Error(err))
	}

	if err := g.DELETE(a.prefix+"/failures/:id", a.deleteFailure,
		forge.WithSummary("Delete failure"),
		forge.WithDescription("Removes a failure log entry."),
		forge.WithOperationID("deleteFailure"),
		forge.WithNoContentResponse(),
		forge.WithErrorResponses(),
	); err != nil {
		a.log.Error("Failed to register deleteFailure route", forge.Error(err))
	}
}

func (a *ForgeAPI) listFailures(ctx forge.Context, req *ListFailuresForgeRequest) ([]*failure.Entry, error) {
	opts, err := req.opts()
	if err != nil {
		return nil, mapError(err)
	}

	entries, err := a.announcer.Failures().List(ctx.Context(), opts)
	if err != nil {
		return nil, mapError(err)
	}

	return nonNil(entries), nil
}

func (a *ForgeAPI) purgeFailures(ctx forge.Context, req *PurgeFailuresForgeRequest) (*PurgeForgeResponse, error) {
	if req.Before == nil {
		return nil, forge.BadRequest("before query parameter is required")
	}

	n, err := a.announcer.Failures().Purge(ctx.Context(), *req.Before)
	if err != nil {
		return nil, mapError(err)
	}

	return &PurgeForgeResponse{Purged: n}, nil
}

func (a *ForgeAPI) getFailure(ctx forge.Context, req *FailurePathForgeRequest) (*failure.Entry, error) {
	failID, err := id.ParseFailureID(req.ID)
	if err != nil {
		return nil, forge.BadRequest("invalid failure ID")
	}

	e, err := a.announcer.Failures().Get(ctx.Context(), failID)
	if err != nil {
		return nil, mapError(err)
	}

	return e, nil
}

func (a *ForgeAPI) deleteFailure(ctx forge.Context, req *FailurePathForgeRequest) (*failure.Entry, error) {
	failID, err := id.ParseFailureID(req.ID)
	if err != nil {
		return nil, forge.BadRequest("invalid failure ID")
	}

	if err := a.announcer.Failures().Delete(ctx.Context(), failID); err != nil {
		return nil, mapError(err)
	}

	return noContent[failure.Entry](ctx)
}

// ---------------------------------------------------------------------------
// Job routes
// ---------------------------------------------------------------------------

func (a *ForgeAPI) registerJobRoutes(router forge.Router) {
	g := router.Group("", forge.WithGroupTags("jobs"))

	if err := g.GET(a.prefix+"/jobs", a.listJobs,
		forge.WithSummary("List jobs"),
		forge.WithDescription("Returns scheduled deliveries ordered by run time."),
		forge.WithOperationID("listJobs"),
		forge.WithRequestSchema(ListJobsForgeRequest{}),
		forge.WithListResponse(delivery.Job{}, http.StatusOK),
		forge.WithErrorResponses(),
	); err != nil {
		a.log.Error("Failed to register listJobs route", forge.Error(err))
	}
}

func (a *ForgeAPI) listJobs(ctx forge.Context, req *ListJobsForgeRequest) ([]*delivery.Job, error) {
	limit := req.Limit
	if limit == 0 {
		limit = 50
	}

	opts := delivery.ListOpts{Offset: req.Offset, Limit: limit}
	if req.State != "" {
		state := delivery.State(req.State)
		opts.State = &state
	}

	jobs, err := a.announcer.Store().ListJobs(ctx.Context(), opts)
	if err != nil {
		return nil, mapError(err)
	}

	return nonNil(jobs), nil
}

// ---------------------------------------------------------------------------
// Stats routes
// ---------------------------------------------------------------------------

func (a *ForgeAPI) registerStatsRoutes(router forge.Router) {
	g := router.Group("", forge.WithGroupTags("stats"))

	if err := g.GET(a.prefix+"/stats", a.getStats,
		forge.WithSummary("Get stats"),
		forge.WithDescription("Returns counts of webhooks, pending jobs and failure log entries."),
		forge.WithOperationID("getStats"),
		forge.WithResponseSchema(http.StatusOK, "Pipeline stats", Stats{}),
		forge.WithErrorResponses(),
	); err != nil {
		a.log.Error("Failed to register getStats route", forge.Error(err))
	}
}

func (a *ForgeAPI) getStats(ctx forge.Context, _ *StatsForgeRequest) (*Stats, error) {
	stats, err := collectStats(ctx.Context(), a.announcer)
	if err != nil {
		return nil, mapError(err)
	}
	return stats, nil
}

func noContent[T any](ctx forge.Context) (*T, error) {
	if err := ctx.NoContent(http.StatusNoContent); err != nil {
		return nil, mapError(err)
	}

	//nolint:nilnil // response already written via ctx.NoContent.
	return nil, nil
}
