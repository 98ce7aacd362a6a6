package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/byceps/announce"
	"github.com/byceps/announce/failure"
	"github.com/byceps/announce/id"
)

// RecordFailure appends a failure log entry.
func (s *Store) RecordFailure(ctx context.Context, e *failure.Entry) error {
	if _, err := s.mdb.NewInsert(toFailureModel(e)).Exec(ctx); err != nil {
		return fmt.Errorf("announce/mongo: record failure: %w", err)
	}

	return nil
}

// ListFailures returns failure log entries, newest first.
func (s *Store) ListFailures(ctx context.Context, opts failure.ListOpts) ([]*failure.Entry, error) {
	var models []failureModel

	filter := bson.M{}
	if opts.Kind != "" {
		filter["kind"] = string(opts.Kind)
	}
	if opts.EventName != "" {
		filter["event_name"] = opts.EventName
	}
	if opts.WebhookID != nil {
		filter["webhook_id"] = opts.WebhookID.String()
	}

	failedAt := bson.M{}
	if opts.From != nil {
		failedAt["$gte"] = *opts.From
	}
	if opts.To != nil {
		failedAt["$lte"] = *opts.To
	}
	if len(failedAt) > 0 {
		filter["failed_at"] = failedAt
	}

	q := s.mdb.NewFind(&models).
		Filter(filter).
		Sort(bson.D{{Key: "failed_at", Value: -1}, {Key: "_id", Value: -1}})

	if opts.Limit > 0 {
		q = q.Limit(int64(opts.Limit))
	}

	if opts.Offset > 0 {
		q = q.Skip(int64(opts.Offset))
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("announce/mongo: list failures: %w", err)
	}

	result := make([]*failure.Entry, 0, len(models))

	for i := range models {
		e, err := fromFailureModel(&models[i])
		if err != nil {
			return nil, err
		}

		result = append(result, e)
	}

	return result, nil
}

// GetFailure returns a failure log entry by ID.
func (s *Store) GetFailure(ctx context.Context, failID id.ID) (*failure.Entry, error) {
	var m failureModel

	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": failID.String()}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, announce.ErrFailureNotFound
		}

		return nil, fmt.Errorf("announce/mongo: get failure: %w", err)
	}

	return fromFailureModel(&m)
}

// DeleteFailure removes one failure log entry.
func (s *Store) DeleteFailure(ctx context.Context, failID id.ID) error {
	res, err := s.mdb.NewDelete((*failureModel)(nil)).
		Filter(bson.M{"_id": failID.String()}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("announce/mongo: delete failure: %w", err)
	}

	if res.DeletedCount() == 0 {
		return announce.ErrFailureNotFound
	}

	return nil
}

// PurgeFailures deletes entries that failed before the given time.
func (s *Store) PurgeFailures(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.mdb.NewDelete((*failureModel)(nil)).
		Many().
		Filter(bson.M{"failed_at": bson.M{"$lt": before}}).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("announce/mongo: purge failures: %w", err)
	}

	return res.DeletedCount(), nil
}

// CountFailures returns the total number of failure log entries.
func (s *Store) CountFailures(ctx context.Context) (int64, error) {
	count, err := s.mdb.NewFind((*failureModel)(nil)).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("announce/mongo: count failures: %w", err)
	}

	return count, nil
}
