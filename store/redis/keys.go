package redis

// Key prefixes for primary entity storage.
const (
	prefixWebhook = "announce:whk:"
	prefixJob     = "announce:job:"
	prefixFailure = "announce:fail:"
)

// Key prefixes for sorted set indexes.
const (
	zWebhookAll = "announce:z:whk:all" // all scores 0, so members sort by ID
	zJobAll     = "announce:z:job:all"
	zJobPending = "announce:z:job:pending"
	zFailureAll = "announce:z:fail:all"
)

// Key prefix for the per-event sets of enabled webhook IDs.
const sWebhookEvent = "announce:s:whk:event:" // + event name

// entityKey returns the primary key for an entity.
func entityKey(prefix, id string) string {
	return prefix + id
}

// eventSetKey returns the set key holding the enabled webhooks subscribed
// to an event name.
func eventSetKey(eventName string) string {
	return sWebhookEvent + eventName
}
