package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/byceps/announce"
	"github.com/byceps/announce/announcement"
	"github.com/byceps/announce/delivery"
	"github.com/byceps/announce/id"
	"github.com/byceps/announce/internal/entity"
)

// jobModel is the JSON representation stored in Redis.
type jobModel struct {
	ID             string               `json:"id"`
	Request        announcement.Request `json:"request"`
	RunAt          time.Time            `json:"run_at"`
	State          string               `json:"state"`
	LastStatusCode int                  `json:"last_status_code"`
	LastError      string               `json:"last_error"`
	LastLatencyMs  int                  `json:"last_latency_ms"`
	CompletedAt    *time.Time           `json:"completed_at,omitempty"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
}

func toJobModel(j *delivery.Job) *jobModel {
	return &jobModel{
		ID:             j.ID.String(),
		Request:        j.Request,
		RunAt:          j.RunAt,
		State:          string(j.State),
		LastStatusCode: j.LastStatusCode,
		LastError:      j.LastError,
		LastLatencyMs:  j.LastLatencyMs,
		CompletedAt:    j.CompletedAt,
		CreatedAt:      j.CreatedAt,
		UpdatedAt:      j.UpdatedAt,
	}
}

func fromJobModel(m *jobModel) (*delivery.Job, error) {
	jobID, err := id.ParseJobID(m.ID)
	if err != nil {
		return nil, fmt.Errorf("parse job ID %q: %w", m.ID, err)
	}
	return &delivery.Job{
		Entity: entity.Entity{
			CreatedAt: m.CreatedAt,
			UpdatedAt: m.UpdatedAt,
		},
		ID:             jobID,
		Request:        m.Request,
		RunAt:          m.RunAt,
		State:          delivery.State(m.State),
		LastStatusCode: m.LastStatusCode,
		LastError:      m.LastError,
		LastLatencyMs:  m.LastLatencyMs,
		CompletedAt:    m.CompletedAt,
	}, nil
}

// dequeueScript atomically claims due job IDs from the pending sorted set.
// KEYS[1] = announce:z:job:pending
// ARGV[1] = current unix timestamp (score threshold)
// ARGV[2] = limit
var dequeueScript = goredis.NewScript(`
local ids = redis.call('ZRANGEBYSCORE', KEYS[1], '-inf', ARGV[1], 'LIMIT', 0, tonumber(ARGV[2]))
if #ids == 0 then return {} end
for i, id in ipairs(ids) do
    redis.call('ZREM', KEYS[1], id)
end
return ids
`)

func (s *Store) Schedule(ctx context.Context, j *delivery.Job) error {
	m := toJobModel(j)

	if err := s.saveJSON(ctx, entityKey(prefixJob, m.ID), m); err != nil {
		return fmt.Errorf("announce/redis: schedule job: %w", err)
	}

	score := timeScore(m.RunAt)
	pipe := s.rdb.TxPipeline()
	pipe.ZAdd(ctx, zJobAll, goredis.Z{Score: score, Member: m.ID})
	if j.State == delivery.StatePending {
		pipe.ZAdd(ctx, zJobPending, goredis.Z{Score: score, Member: m.ID})
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("announce/redis: schedule job indexes: %w", err)
	}
	return nil
}

// Dequeue claims due jobs. The Lua script removes claimed IDs from the
// pending set in one step, so concurrent announcers never share a job.
func (s *Store) Dequeue(ctx context.Context, limit int) ([]*delivery.Job, error) {
	nowScore := fmt.Sprintf("%f", timeScore(utcNow()))
	claimed, err := dequeueScript.Run(ctx, s.rdb, []string{zJobPending}, nowScore, limit).StringSlice()
	if err != nil {
		if nilReply(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("announce/redis: dequeue script: %w", err)
	}

	jobs := make([]*delivery.Job, 0, len(claimed))
	for _, jobID := range claimed {
		key := entityKey(prefixJob, jobID)
		var m jobModel
		if err := s.loadJSON(ctx, key, &m); err != nil {
			if missingKey(err) {
				continue
			}
			return nil, fmt.Errorf("announce/redis: dequeue get: %w", err)
		}

		m.State = string(delivery.StateRunning)
		m.UpdatedAt = utcNow()
		if err := s.saveJSON(ctx, key, &m); err != nil {
			return nil, fmt.Errorf("announce/redis: dequeue update: %w", err)
		}

		j, err := fromJobModel(&m)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}

	return jobs, nil
}

func (s *Store) UpdateJob(ctx context.Context, j *delivery.Job) error {
	key := entityKey(prefixJob, j.ID.String())

	var existing jobModel
	if err := s.loadJSON(ctx, key, &existing); err != nil {
		if missingKey(err) {
			return announce.ErrJobNotFound
		}
		return fmt.Errorf("announce/redis: update job get: %w", err)
	}

	m := toJobModel(j)
	m.UpdatedAt = utcNow()
	if err := s.saveJSON(ctx, key, m); err != nil {
		return fmt.Errorf("announce/redis: update job: %w", err)
	}

	score := timeScore(m.RunAt)
	pipe := s.rdb.TxPipeline()
	pipe.ZAdd(ctx, zJobAll, goredis.Z{Score: score, Member: m.ID})
	if j.State == delivery.StatePending {
		pipe.ZAdd(ctx, zJobPending, goredis.Z{Score: score, Member: m.ID})
	} else {
		pipe.ZRem(ctx, zJobPending, m.ID)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("announce/redis: update job indexes: %w", err)
	}
	return nil
}

func (s *Store) GetJob(ctx context.Context, jobID id.ID) (*delivery.Job, error) {
	var m jobModel
	if err := s.loadJSON(ctx, entityKey(prefixJob, jobID.String()), &m); err != nil {
		if missingKey(err) {
			return nil, announce.ErrJobNotFound
		}
		return nil, fmt.Errorf("announce/redis: get job: %w", err)
	}
	return fromJobModel(&m)
}

func (s *Store) ListJobs(ctx context.Context, opts delivery.ListOpts) ([]*delivery.Job, error) {
	ids, err := s.rdb.ZRange(ctx, zJobAll, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("announce/redis: list jobs: %w", err)
	}

	result := make([]*delivery.Job, 0, len(ids))
	for _, jobID := range ids {
		var m jobModel
		if err := s.loadJSON(ctx, entityKey(prefixJob, jobID), &m); err != nil {
			if missingKey(err) {
				continue
			}
			return nil, err
		}
		if opts.State != nil && delivery.State(m.State) != *opts.State {
			continue
		}
		j, err := fromJobModel(&m)
		if err != nil {
			return nil, err
		}
		result = append(result, j)
	}

	return window(result, opts.Offset, opts.Limit), nil
}

// CountPending returns the number of jobs still waiting in the schedule.
func (s *Store) CountPending(ctx context.Context) (int64, error) {
	count, err := s.rdb.ZCard(ctx, zJobPending).Result()
	if err != nil {
		return 0, fmt.Errorf("announce/redis: count pending: %w", err)
	}
	return count, nil
}
