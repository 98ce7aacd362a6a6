// Package announce posts BYCEPS domain events to chat webhooks.
//
// An event is named through the registry, matched against the enabled
// webhooks subscribed to that name and their attribute filters, rendered
// into a German line of text by its handler and encoded for the webhook's
// wire format (Discord, Mattermost, Matrix or the weitersager IRC relay).
// Delivery is a single POST with a ten-second limit; announcements that
// are due later, such as news published ahead of time, are stored as jobs
// and sent once they fall due.
//
// Failures are logged with their error kind and never stop the fan-out to
// the remaining webhooks.
//
// Quick start:
//
//	a, err := announce.New(
//	    announce.WithStore(memory.New()),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	a.Start(ctx)
//	defer a.Stop(ctx)
//
//	a.Webhooks().Create(ctx, webhook.Input{
//	    EventTypes: []string{"board-topic-created"},
//	    Format:     webhook.FormatDiscord,
//	    URL:        "https://discord.test/api/webhooks/1",
//	    Enabled:    true,
//	})
//
//	a.Announce(ctx, event.BoardTopicCreated{...})
package announce
