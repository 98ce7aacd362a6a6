// Package sqlite implements store.Store on SQLite through the grove ORM,
// for single-host deployments that still want jobs to survive restarts.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/sqlitedriver"
	"github.com/xraph/grove/migrate"

	"github.com/byceps/announce"
	"github.com/byceps/announce/delivery"
	"github.com/byceps/announce/failure"
	"github.com/byceps/announce/id"
	announcestore "github.com/byceps/announce/store"
	"github.com/byceps/announce/webhook"
)

var _ announcestore.Store = (*Store)(nil)

// Store is the SQLite backend.
type Store struct {
	db  *grove.DB
	sdb *sqlitedriver.SqliteDB
}

// New wraps a grove database opened with the sqlite driver.
func New(db *grove.DB) *Store {
	return &Store{db: db, sdb: sqlitedriver.Unwrap(db)}
}

// DB exposes the grove handle, e.g. for sharing the connection.
func (s *Store) DB() *grove.DB { return s.db }

// Migrate applies Migrations that have not run yet.
func (s *Store) Migrate(ctx context.Context) error {
	exec, err := migrate.NewExecutorFor(s.sdb)
	if err != nil {
		return fmt.Errorf("announce/sqlite: migration executor: %w", err)
	}
	if _, err := migrate.NewOrchestrator(exec, Migrations).Migrate(ctx); err != nil {
		return fmt.Errorf("announce/sqlite: %w: %w", announce.ErrMigrationFailed, err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error { return s.db.Ping(ctx) }

func (s *Store) Close() error { return s.db.Close() }

// ==================== Webhook Store ====================

func (s *Store) CreateWebhook(ctx context.Context, wh *webhook.Webhook) error {
	m, err := toWebhookModel(wh)
	if err != nil {
		return err
	}
	_, err = s.sdb.NewInsert(m).Exec(ctx)
	return err
}

func (s *Store) GetWebhook(ctx context.Context, whID id.ID) (*webhook.Webhook, error) {
	m := new(webhookModel)
	err := s.sdb.NewSelect(m).
		Where("id = ?", whID.String()).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, announce.ErrWebhookNotFound
		}
		return nil, err
	}
	return fromWebhookModel(m)
}

func (s *Store) UpdateWebhook(ctx context.Context, wh *webhook.Webhook) error {
	m, err := toWebhookModel(wh)
	if err != nil {
		return err
	}
	m.UpdatedAt = now()
	res, err := s.sdb.NewUpdate(m).
		WherePK().
		Exec(ctx)
	if err != nil {
		return err
	}
	return requireRows(res, announce.ErrWebhookNotFound)
}

func (s *Store) DeleteWebhook(ctx context.Context, whID id.ID) error {
	res, err := s.sdb.NewDelete((*webhookModel)(nil)).
		Where("id = ?", whID.String()).
		Exec(ctx)
	if err != nil {
		return err
	}
	return requireRows(res, announce.ErrWebhookNotFound)
}

func (s *Store) ListWebhooks(ctx context.Context, opts webhook.ListOpts) ([]*webhook.Webhook, error) {
	var models []webhookModel
	q := s.sdb.NewSelect(&models)

	if opts.Enabled != nil {
		q = q.Where("enabled = ?", *opts.Enabled)
	}
	if opts.Format != "" {
		q = q.Where("format = ?", string(opts.Format))
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	q = q.OrderExpr("id ASC")

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}
	return fromWebhookModels(models)
}

func (s *Store) ListEnabledFor(ctx context.Context, eventName string) ([]*webhook.Webhook, error) {
	var models []webhookModel
	if err := s.sdb.NewSelect(&models).
		Where("enabled = 1").
		Where("EXISTS (SELECT 1 FROM json_each(event_types) WHERE json_each.value = ?)", eventName).
		OrderExpr("id ASC").
		Scan(ctx); err != nil {
		return nil, err
	}
	return fromWebhookModels(models)
}

func (s *Store) SetEnabled(ctx context.Context, whID id.ID, enabled bool) error {
	res, err := s.sdb.NewUpdate((*webhookModel)(nil)).
		Set("enabled = ?", enabled).
		Set("updated_at = ?", now()).
		Where("id = ?", whID.String()).
		Exec(ctx)
	if err != nil {
		return err
	}
	return requireRows(res, announce.ErrWebhookNotFound)
}

func fromWebhookModels(models []webhookModel) ([]*webhook.Webhook, error) {
	result := make([]*webhook.Webhook, len(models))
	for i := range models {
		wh, err := fromWebhookModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = wh
	}
	return result, nil
}

// ==================== Job Store ====================

func (s *Store) Schedule(ctx context.Context, j *delivery.Job) error {
	m, err := toJobModel(j)
	if err != nil {
		return err
	}
	_, err = s.sdb.NewInsert(m).Exec(ctx)
	return err
}

func (s *Store) Dequeue(ctx context.Context, limit int) ([]*delivery.Job, error) {
	// SQLite serializes writes, so the claiming UPDATE needs no row locks.
	var models []jobModel
	t := now()
	err := s.sdb.NewRaw(`
		UPDATE announce_jobs
		SET state = 'running', updated_at = ?
		WHERE id IN (
			SELECT id FROM announce_jobs
			WHERE state = 'pending' AND run_at <= ?
			ORDER BY run_at ASC
			LIMIT ?
		)
		RETURNING *
	`, t, t, limit).Scan(ctx, &models)
	if err != nil {
		return nil, err
	}
	return fromJobModels(models)
}

func (s *Store) UpdateJob(ctx context.Context, j *delivery.Job) error {
	m, err := toJobModel(j)
	if err != nil {
		return err
	}
	m.UpdatedAt = now()
	res, err := s.sdb.NewUpdate(m).WherePK().Exec(ctx)
	if err != nil {
		return err
	}
	return requireRows(res, announce.ErrJobNotFound)
}

func (s *Store) GetJob(ctx context.Context, jobID id.ID) (*delivery.Job, error) {
	m := new(jobModel)
	err := s.sdb.NewSelect(m).
		Where("id = ?", jobID.String()).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, announce.ErrJobNotFound
		}
		return nil, err
	}
	return fromJobModel(m)
}

func (s *Store) ListJobs(ctx context.Context, opts delivery.ListOpts) ([]*delivery.Job, error) {
	var models []jobModel
	q := s.sdb.NewSelect(&models)

	if opts.State != nil {
		q = q.Where("state = ?", string(*opts.State))
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	q = q.OrderExpr("run_at ASC")

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}
	return fromJobModels(models)
}

func (s *Store) CountPending(ctx context.Context) (int64, error) {
	return s.sdb.NewSelect((*jobModel)(nil)).
		Where("state = ?", string(delivery.StatePending)).
		Count(ctx)
}

func fromJobModels(models []jobModel) ([]*delivery.Job, error) {
	result := make([]*delivery.Job, len(models))
	for i := range models {
		j, err := fromJobModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = j
	}
	return result, nil
}

// ==================== Failure Store ====================

func (s *Store) RecordFailure(ctx context.Context, e *failure.Entry) error {
	_, err := s.sdb.NewInsert(toFailureModel(e)).Exec(ctx)
	return err
}

func (s *Store) ListFailures(ctx context.Context, opts failure.ListOpts) ([]*failure.Entry, error) {
	var models []failureModel
	q := s.sdb.NewSelect(&models)

	if opts.Kind != "" {
		q = q.Where("kind = ?", string(opts.Kind))
	}
	if opts.EventName != "" {
		q = q.Where("event_name = ?", opts.EventName)
	}
	if opts.WebhookID != nil {
		q = q.Where("webhook_id = ?", opts.WebhookID.String())
	}
	if opts.From != nil {
		q = q.Where("failed_at >= ?", *opts.From)
	}
	if opts.To != nil {
		q = q.Where("failed_at <= ?", *opts.To)
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	q = q.OrderExpr("failed_at DESC, id DESC")

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}

	result := make([]*failure.Entry, len(models))
	for i := range models {
		e, err := fromFailureModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = e
	}
	return result, nil
}

func (s *Store) GetFailure(ctx context.Context, failID id.ID) (*failure.Entry, error) {
	m := new(failureModel)
	err := s.sdb.NewSelect(m).
		Where("id = ?", failID.String()).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return nil, announce.ErrFailureNotFound
		}
		return nil, err
	}
	return fromFailureModel(m)
}

func (s *Store) DeleteFailure(ctx context.Context, failID id.ID) error {
	res, err := s.sdb.NewDelete((*failureModel)(nil)).
		Where("id = ?", failID.String()).
		Exec(ctx)
	if err != nil {
		return err
	}
	return requireRows(res, announce.ErrFailureNotFound)
}

func (s *Store) PurgeFailures(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.sdb.NewDelete((*failureModel)(nil)).
		Where("failed_at < ?", before.UTC()).
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *Store) CountFailures(ctx context.Context) (int64, error) {
	return s.sdb.NewSelect((*failureModel)(nil)).Count(ctx)
}

type rowsAffecter interface {
	RowsAffected() (int64, error)
}

// requireRows returns notFound when res affected no rows.
func requireRows(res rowsAffecter, notFound error) error {
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return notFound
	}
	return nil
}

func now() time.Time { return time.Now().UTC() }

func isNoRows(err error) bool { return errors.Is(err, sql.ErrNoRows) }
