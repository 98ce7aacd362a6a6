package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/byceps/announce"
	"github.com/byceps/announce/delivery"
	"github.com/byceps/announce/id"
)

// Schedule persists a pending job.
func (s *Store) Schedule(ctx context.Context, j *delivery.Job) error {
	m, err := toJobModel(j)
	if err != nil {
		return err
	}

	if _, err := s.mdb.NewInsert(m).Exec(ctx); err != nil {
		return fmt.Errorf("announce/mongo: schedule: %w", err)
	}

	return nil
}

// Dequeue claims due jobs one document at a time. FindOneAndUpdate flips
// each job to running atomically, so two announcers never claim the same
// job.
func (s *Store) Dequeue(ctx context.Context, limit int) ([]*delivery.Job, error) {
	result := make([]*delivery.Job, 0, limit)
	t := now()
	col := s.mdb.Collection(colJobs)

	filter := bson.M{
		"state":  string(delivery.StatePending),
		"run_at": bson.M{"$lte": t},
	}
	update := bson.M{
		"$set": bson.M{
			"state":      string(delivery.StateRunning),
			"updated_at": t,
		},
	}
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetSort(bson.D{{Key: "run_at", Value: 1}})

	for range limit {
		var m jobModel

		err := col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&m)
		if err != nil {
			if isNoDocuments(err) {
				break
			}

			return nil, fmt.Errorf("announce/mongo: dequeue: %w", err)
		}

		j, err := fromJobModel(&m)
		if err != nil {
			return nil, err
		}

		result = append(result, j)
	}

	return result, nil
}

// UpdateJob records the outcome of a job.
func (s *Store) UpdateJob(ctx context.Context, j *delivery.Job) error {
	m, err := toJobModel(j)
	if err != nil {
		return err
	}
	m.UpdatedAt = now()

	res, err := s.mdb.NewUpdate(m).
		Filter(bson.M{"_id": m.ID}).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("announce/mongo: update job: %w", err)
	}

	if res.MatchedCount() == 0 {
		return announce.ErrJobNotFound
	}

	return nil
}

// GetJob returns a job by ID.
func (s *Store) GetJob(ctx context.Context, jobID id.ID) (*delivery.Job, error) {
	var m jobModel

	err := s.mdb.NewFind(&m).
		Filter(bson.M{"_id": jobID.String()}).
		Scan(ctx)
	if err != nil {
		if isNoDocuments(err) {
			return nil, announce.ErrJobNotFound
		}

		return nil, fmt.Errorf("announce/mongo: get job: %w", err)
	}

	return fromJobModel(&m)
}

// ListJobs returns jobs ordered by run time.
func (s *Store) ListJobs(ctx context.Context, opts delivery.ListOpts) ([]*delivery.Job, error) {
	var models []jobModel

	filter := bson.M{}
	if opts.State != nil {
		filter["state"] = string(*opts.State)
	}

	q := s.mdb.NewFind(&models).
		Filter(filter).
		Sort(bson.D{{Key: "run_at", Value: 1}})

	if opts.Limit > 0 {
		q = q.Limit(int64(opts.Limit))
	}

	if opts.Offset > 0 {
		q = q.Skip(int64(opts.Offset))
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("announce/mongo: list jobs: %w", err)
	}

	result := make([]*delivery.Job, 0, len(models))

	for i := range models {
		j, err := fromJobModel(&models[i])
		if err != nil {
			return nil, err
		}

		result = append(result, j)
	}

	return result, nil
}

// CountPending returns the number of jobs awaiting their run time.
func (s *Store) CountPending(ctx context.Context) (int64, error) {
	count, err := s.mdb.NewFind((*jobModel)(nil)).
		Filter(bson.M{"state": string(delivery.StatePending)}).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("announce/mongo: count pending: %w", err)
	}

	return count, nil
}
