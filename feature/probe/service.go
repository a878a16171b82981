package probe

import (
	"context"
	"fmt"
	"strings"
	"time"

	"backend-probe/core/backend"
	"backend-probe/core/storage"
	"backend-probe/core/utils"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// ClientFactory builds a backend client from validated credentials.
type ClientFactory func(creds backend.Credentials) (backend.Client, error)

// Service runs probes against one backend client.
type Service struct {
	client backend.Client
	store  storage.Client
	bucket string
	cfg    Config
	logger *zap.Logger
	now    func() time.Time
}

// RunOptions selects the stages Run executes.
type RunOptions struct {
	Table     string
	Columns   []string
	Sample    backend.Row
	RoundTrip bool
}

// Open validates creds before building a client with factory. A
// *backend.ConfigError is returned without the factory ever being called.
func Open(creds backend.Credentials, factory ClientFactory, cfg Config, logger *zap.Logger) (*Service, error) {
	if err := backend.CheckCredentials(creds); err != nil {
		return nil, err
	}
	client, err := factory(creds)
	if err != nil {
		return nil, err
	}
	return NewService(client, cfg, logger), nil
}

// NewService wraps an already built client.
func NewService(client backend.Client, cfg Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		client: client,
		cfg:    cfg.withDefaults(),
		logger: logger,
		now:    time.Now,
	}
}

// WithStorage enables the storage stage against bucket.
func (s *Service) WithStorage(store storage.Client, bucket string) *Service {
	s.store = store
	s.bucket = bucket
	return s
}

// Config returns the effective probe configuration.
func (s *Service) Config() Config {
	return s.cfg
}

// StorageEnabled reports whether a bucket is configured.
func (s *Service) StorageEnabled() bool {
	return s.store != nil && s.bucket != ""
}

// ProbeAuth asks the auth service for the current session. An anonymous
// client has no session and still succeeds.
func (s *Service) ProbeAuth(ctx context.Context) Result {
	start := s.now()
	session, err := s.client.GetSession(ctx)

	var r Result
	switch {
	case err != nil:
		ce := backend.Classify(err)
		r = Result{
			Stage:     StageAuth,
			Outcome:   OutcomeUnknownError,
			Message:   "auth check failed: " + ce.Error(),
			ErrorKind: ce.Kind.String(),
			Err:       ce,
		}
	case session == nil:
		r = Result{Stage: StageAuth, Outcome: OutcomeSuccess, Message: "auth service reachable, no active session"}
	default:
		msg := "auth service reachable, session active"
		if session.User != nil {
			msg = fmt.Sprintf("auth service reachable, session for %s", userLabel(session.User))
		}
		r = Result{Stage: StageAuth, Outcome: OutcomeSuccess, Message: msg, Payload: session.User}
	}
	return s.finish(r, start)
}

// ProbeTable selects columns from table with limit 1. Nil or empty columns
// fall back to the configured list, then to all columns.
func (s *Service) ProbeTable(ctx context.Context, table string, columns []string) Result {
	start := s.now()
	if table == "" {
		return s.finish(Result{Stage: StageTable, Outcome: OutcomeUnknownError, Message: "no table given"}, start)
	}
	if len(columns) == 0 {
		columns = s.cfg.ColumnList()
	}

	rows, err := s.client.Select(ctx, table, backend.Query{Columns: columns, Limit: 1})
	if err != nil {
		return s.finish(failure(StageTable, "select", table, err), start)
	}

	return s.finish(Result{
		Stage:   StageTable,
		Target:  table,
		Outcome: OutcomeSuccess,
		Message: fmt.Sprintf("select on %s returned %d row(s)", table, len(rows)),
		Payload: rows,
	}, start)
}

// ProbeRoundTrip inserts sample, reads back the most recent rows ordered by
// the timestamp column and deletes the inserted row by its generated id.
// Insert and read failures stop the probe. A failed delete only adds a
// warning since the write path itself was proven.
func (s *Service) ProbeRoundTrip(ctx context.Context, table string, sample backend.Row) Result {
	start := s.now()
	if table == "" {
		return s.finish(Result{Stage: StageRoundTrip, Outcome: OutcomeUnknownError, Message: "no table given"}, start)
	}
	if len(sample) == 0 {
		sample = s.cfg.SampleRow()
	}

	inserted, err := s.client.Insert(ctx, table, sample)
	if err != nil {
		return s.finish(failure(StageRoundTrip, "insert", table, err), start)
	}
	if len(inserted) == 0 {
		return s.finish(Result{
			Stage:   StageRoundTrip,
			Target:  table,
			Outcome: OutcomeUnknownError,
			Message: fmt.Sprintf("insert into %s returned no rows", table),
		}, start)
	}

	stored := inserted[0]
	id, ok := stored[s.cfg.IDColumn]
	if !ok || id == nil {
		return s.finish(Result{
			Stage:   StageRoundTrip,
			Target:  table,
			Outcome: OutcomeUnknownError,
			Message: fmt.Sprintf("insert into %s returned no %s column", table, s.cfg.IDColumn),
			Payload: stored,
		}, start)
	}

	recent, err := s.client.Select(ctx, table, backend.Query{
		Limit:      s.cfg.VisibleWindow,
		OrderBy:    s.cfg.TimestampColumn,
		Descending: true,
	})
	if err != nil {
		return s.finish(failure(StageRoundTrip, "select", table, err), start)
	}

	var warnings []string
	if !containsID(recent, s.cfg.IDColumn, id) {
		warnings = append(warnings, fmt.Sprintf("inserted row %s=%s not among the %d most recent rows", s.cfg.IDColumn, utils.ToString(id), s.cfg.VisibleWindow))
	}

	deleted, err := s.client.Delete(ctx, table, s.cfg.IDColumn, id)
	switch {
	case err != nil:
		warnings = append(warnings, fmt.Sprintf("cleanup of %s=%s failed: %s", s.cfg.IDColumn, utils.ToString(id), backend.Classify(err).Error()))
	case deleted == 0:
		warnings = append(warnings, fmt.Sprintf("cleanup of %s=%s removed no rows", s.cfg.IDColumn, utils.ToString(id)))
	}

	r := Result{
		Stage:   StageRoundTrip,
		Target:  table,
		Outcome: OutcomeSuccess,
		Message: fmt.Sprintf("round trip on %s succeeded (%s=%s)", table, s.cfg.IDColumn, utils.ToString(id)),
		Payload: stored,
	}
	if len(warnings) > 0 {
		r.Warning = strings.Join(warnings, "; ")
	}
	return s.finish(r, start)
}

// ProbeStorage checks that the configured bucket exists and can be listed.
func (s *Service) ProbeStorage(ctx context.Context) Result {
	start := s.now()
	if !s.StorageEnabled() {
		return s.finish(Result{Stage: StageStorage, Outcome: OutcomeUnknownError, Message: "storage is not configured"}, start)
	}

	exists, err := s.store.BucketExists(ctx, s.bucket)
	if err != nil {
		return s.finish(failure(StageStorage, "bucket check", s.bucket, err), start)
	}
	if !exists {
		return s.finish(Result{
			Stage:     StageStorage,
			Target:    s.bucket,
			Outcome:   OutcomeNotFound,
			Message:   fmt.Sprintf("bucket %s does not exist", s.bucket),
			ErrorKind: backend.KindNotFound.String(),
		}, start)
	}

	listCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	sampled := 0
	for obj := range s.store.ListObjects(listCtx, s.bucket, minio.ListObjectsOptions{MaxKeys: 1}) {
		if obj.Err != nil {
			return s.finish(failure(StageStorage, "list", s.bucket, obj.Err), start)
		}
		sampled++
		break
	}

	return s.finish(Result{
		Stage:   StageStorage,
		Target:  s.bucket,
		Outcome: OutcomeSuccess,
		Message: fmt.Sprintf("bucket %s is listable", s.bucket),
		Payload: map[string]any{"bucket": s.bucket, "objects_sampled": sampled},
	}, start)
}

// Run executes the enabled stages in order: auth, table, round trip, storage.
// Stages never short-circuit each other.
func (s *Service) Run(ctx context.Context, opts RunOptions) Report {
	table := opts.Table
	if table == "" {
		table = s.cfg.Table
	}

	var report Report
	report.Results = append(report.Results, s.ProbeAuth(ctx))
	if table != "" {
		report.Results = append(report.Results, s.ProbeTable(ctx, table, opts.Columns))
		if opts.RoundTrip {
			report.Results = append(report.Results, s.ProbeRoundTrip(ctx, table, opts.Sample))
		}
	}
	if s.StorageEnabled() {
		report.Results = append(report.Results, s.ProbeStorage(ctx))
	}
	return report
}

func (s *Service) finish(r Result, start time.Time) Result {
	r.CheckedAt = s.now()
	r.LatencyMs = r.CheckedAt.Sub(start).Milliseconds()

	fields := []zap.Field{
		zap.String("stage", string(r.Stage)),
		zap.String("outcome", string(r.Outcome)),
		zap.Int64("latency_ms", r.LatencyMs),
	}
	if r.Target != "" {
		fields = append(fields, zap.String("target", r.Target))
	}

	switch {
	case r.Failed():
		s.logger.Error(r.Message, append(fields, zap.String("error_kind", r.ErrorKind))...)
	case r.Warning != "":
		s.logger.Warn(r.Message, append(fields, zap.String("warning", r.Warning))...)
	default:
		s.logger.Info(r.Message, fields...)
	}
	return r
}

func containsID(rows []backend.Row, column string, id any) bool {
	want := utils.ToString(id)
	for _, row := range rows {
		if v, ok := row[column]; ok && utils.ToString(v) == want {
			return true
		}
	}
	return false
}

func userLabel(u *backend.User) string {
	if u.Email != "" {
		return u.Email
	}
	return u.ID
}
