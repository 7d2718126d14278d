package service

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"nightlife/internal/changeset"
	"nightlife/internal/metrics"
	"nightlife/internal/model"
	"nightlife/internal/repository"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus/hooks/test"
	"gorm.io/gorm"
)

// memStore is an in-memory stand-in for Postgres. Transactions are serialised and
// roll back to a snapshot on error, which is the isolation the engine relies on.
type memStore struct {
	txMu sync.Mutex
	mu   sync.Mutex

	claims    map[uuid.UUID]model.EntityClaim
	updates   map[uuid.UUID]model.EntityUpdateRequest
	proposals map[uuid.UUID]model.EntityProposal
	entities  map[model.ManagedEntityRef]*memEntity
	logs      []model.EntityVerificationLog

	recordFailures []error // returned, in order, by the next Record calls
}

type memEntity struct {
	slug    string
	owner   *uuid.UUID
	columns map[string]interface{}
}

func (e *memEntity) clone() *memEntity {
	c := &memEntity{slug: e.slug, columns: make(map[string]interface{}, len(e.columns))}
	if e.owner != nil {
		o := *e.owner
		c.owner = &o
	}
	for k, v := range e.columns {
		c.columns[k] = v
	}
	return c
}

func newMemStore() *memStore {
	return &memStore{
		claims:    map[uuid.UUID]model.EntityClaim{},
		updates:   map[uuid.UUID]model.EntityUpdateRequest{},
		proposals: map[uuid.UUID]model.EntityProposal{},
		entities:  map[model.ManagedEntityRef]*memEntity{},
	}
}

type memSnapshot struct {
	claims    map[uuid.UUID]model.EntityClaim
	updates   map[uuid.UUID]model.EntityUpdateRequest
	proposals map[uuid.UUID]model.EntityProposal
	entities  map[model.ManagedEntityRef]*memEntity
	logs      []model.EntityVerificationLog
}

func (s *memStore) snapshot() memSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := memSnapshot{
		claims:    make(map[uuid.UUID]model.EntityClaim, len(s.claims)),
		updates:   make(map[uuid.UUID]model.EntityUpdateRequest, len(s.updates)),
		proposals: make(map[uuid.UUID]model.EntityProposal, len(s.proposals)),
		entities:  make(map[model.ManagedEntityRef]*memEntity, len(s.entities)),
		logs:      append([]model.EntityVerificationLog(nil), s.logs...),
	}
	for k, v := range s.claims {
		snap.claims[k] = v
	}
	for k, v := range s.updates {
		snap.updates[k] = v
	}
	for k, v := range s.proposals {
		snap.proposals[k] = v
	}
	for k, v := range s.entities {
		snap.entities[k] = v.clone()
	}
	return snap
}

func (s *memStore) restore(snap memSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.claims = snap.claims
	s.updates = snap.updates
	s.proposals = snap.proposals
	s.entities = snap.entities
	s.logs = snap.logs
}

// failNextRecords makes the next len(errs) log writes fail with errs in order.
func (s *memStore) failNextRecords(errs ...error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recordFailures = append(s.recordFailures, errs...)
}

// --- seeding and inspection ---

func (s *memStore) addVenue(name, slug string, owner *uuid.UUID) model.ManagedEntityRef {
	s.mu.Lock()
	defer s.mu.Unlock()
	ref := model.ManagedEntityRef{EntityType: model.EntityTypeVenue, EntityID: uuid.New()}
	s.entities[ref] = &memEntity{slug: slug, owner: owner, columns: map[string]interface{}{"name": name}}
	return ref
}

func (s *memStore) addClaim(ref model.ManagedEntityRef, requester uuid.UUID, createdAt time.Time) model.EntityClaim {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := model.EntityClaim{
		ID: uuid.New(), EntityType: ref.EntityType, EntityID: ref.EntityID, RequestedBy: requester,
		Status: model.DecisionPending, Version: 1, CreatedAt: createdAt, UpdatedAt: createdAt,
	}
	s.claims[c.ID] = c
	return c
}

func (s *memStore) addUpdate(ref model.ManagedEntityRef, fields map[string]string) model.EntityUpdateRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	u := model.EntityUpdateRequest{
		ID: uuid.New(), EntityType: ref.EntityType, EntityID: ref.EntityID, SubmittedBy: uuid.New(),
		Status: model.DecisionPending, Version: 1, ChangeSet: fields, CreatedAt: now, UpdatedAt: now,
	}
	s.updates[u.ID] = u
	return u
}

func (s *memStore) addProposal(entityType model.EntityType, name string, fields map[string]string) model.EntityProposal {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	p := model.EntityProposal{
		ID: uuid.New(), EntityType: entityType, SubmittedBy: uuid.New(), Name: name,
		ChangeSet: fields, Status: model.DecisionPending, Version: 1, CreatedAt: now, UpdatedAt: now,
	}
	s.proposals[p.ID] = p
	return p
}

func (s *memStore) claim(id uuid.UUID) model.EntityClaim {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.claims[id]
}

func (s *memStore) update(id uuid.UUID) model.EntityUpdateRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updates[id]
}

func (s *memStore) proposal(id uuid.UUID) model.EntityProposal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.proposals[id]
}

func (s *memStore) entity(ref model.ManagedEntityRef) *memEntity {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entities[ref]
	if !ok {
		return nil
	}
	return e.clone()
}

func (s *memStore) allLogs() []model.EntityVerificationLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.EntityVerificationLog(nil), s.logs...)
}

func (s *memStore) logsWithAction(action string) []model.EntityVerificationLog {
	var out []model.EntityVerificationLog
	for _, l := range s.allLogs() {
		if l.Action == action {
			out = append(out, l)
		}
	}
	return out
}

// --- transaction manager ---

type memTxKey struct{}

type memTxManager struct{ s *memStore }

func (m memTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	if ctx.Value(memTxKey{}) != nil {
		return fn(ctx)
	}
	m.s.txMu.Lock()
	defer m.s.txMu.Unlock()

	snap := m.s.snapshot()
	if err := fn(context.WithValue(ctx, memTxKey{}, true)); err != nil {
		m.s.restore(snap)
		return err
	}
	return nil
}

// --- request repositories ---

func paginate[T any](rows []T, page, limit int) []T {
	start := (page - 1) * limit
	if start >= len(rows) {
		return nil
	}
	end := start + limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end]
}

func matches(f repository.RequestFilter, t model.EntityType, d model.Decision) bool {
	return (f.EntityType == "" || f.EntityType == t) && (f.Status == "" || f.Status == d)
}

func applyTransition(status *model.Decision, version *int, t repository.Transition) error {
	if *status != model.DecisionPending || *version != t.ExpectedVersion {
		return repository.ErrStaleVersion
	}
	*status = t.To
	*version++
	return nil
}

type memClaims struct{ s *memStore }

func (r memClaims) Create(_ context.Context, c *model.EntityClaim) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.claims[c.ID] = *c
	return nil
}

func (r memClaims) FindByID(_ context.Context, id uuid.UUID) (*model.EntityClaim, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.claims[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &c, nil
}

func (r memClaims) List(_ context.Context, f repository.RequestFilter) ([]model.EntityClaim, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var rows []model.EntityClaim
	for _, c := range r.s.claims {
		if matches(f, c.EntityType, c.Status) {
			rows = append(rows, c)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].CreatedAt.Before(rows[j].CreatedAt) })
	return paginate(rows, f.Page, f.Limit), int64(len(rows)), nil
}

func (r memClaims) ListPendingForEntity(_ context.Context, ref model.ManagedEntityRef, excludeID uuid.UUID) ([]model.EntityClaim, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var rows []model.EntityClaim
	for _, c := range r.s.claims {
		if c.Ref() == ref && c.Status == model.DecisionPending && c.ID != excludeID {
			rows = append(rows, c)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].CreatedAt.Before(rows[j].CreatedAt) })
	return rows, nil
}

func (r memClaims) Transition(_ context.Context, t repository.Transition) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.claims[t.ID]
	if !ok {
		return repository.ErrStaleVersion
	}
	if err := applyTransition(&c.Status, &c.Version, t); err != nil {
		return err
	}
	c.ReviewedBy, c.ReviewedAt, c.ReviewNotes = &t.ReviewedBy, &t.At, t.Notes
	r.s.claims[t.ID] = c
	return nil
}

func (r memClaims) CountPending(context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, c := range r.s.claims {
		if c.Status == model.DecisionPending {
			n++
		}
	}
	return n, nil
}

type memUpdates struct{ s *memStore }

func (r memUpdates) Create(_ context.Context, u *model.EntityUpdateRequest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.updates[u.ID] = *u
	return nil
}

func (r memUpdates) FindByID(_ context.Context, id uuid.UUID) (*model.EntityUpdateRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.updates[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &u, nil
}

func (r memUpdates) List(_ context.Context, f repository.RequestFilter) ([]model.EntityUpdateRequest, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var rows []model.EntityUpdateRequest
	for _, u := range r.s.updates {
		if matches(f, u.EntityType, u.Status) {
			rows = append(rows, u)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].CreatedAt.Before(rows[j].CreatedAt) })
	return paginate(rows, f.Page, f.Limit), int64(len(rows)), nil
}

func (r memUpdates) Transition(_ context.Context, t repository.Transition) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.updates[t.ID]
	if !ok {
		return repository.ErrStaleVersion
	}
	if err := applyTransition(&u.Status, &u.Version, t); err != nil {
		return err
	}
	u.ReviewedBy, u.ReviewedAt, u.ReviewNotes = &t.ReviewedBy, &t.At, t.Notes
	r.s.updates[t.ID] = u
	return nil
}

func (r memUpdates) CountPending(context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, u := range r.s.updates {
		if u.Status == model.DecisionPending {
			n++
		}
	}
	return n, nil
}

type memProposals struct{ s *memStore }

func (r memProposals) Create(_ context.Context, p *model.EntityProposal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.proposals[p.ID] = *p
	return nil
}

func (r memProposals) FindByID(_ context.Context, id uuid.UUID) (*model.EntityProposal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.proposals[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &p, nil
}

func (r memProposals) List(_ context.Context, f repository.RequestFilter) ([]model.EntityProposal, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var rows []model.EntityProposal
	for _, p := range r.s.proposals {
		if matches(f, p.EntityType, p.Status) {
			rows = append(rows, p)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].CreatedAt.Before(rows[j].CreatedAt) })
	return paginate(rows, f.Page, f.Limit), int64(len(rows)), nil
}

func (r memProposals) Transition(_ context.Context, t repository.Transition) error {
	return r.transition(t, nil)
}

func (r memProposals) Approve(_ context.Context, t repository.Transition, createdEntityID uuid.UUID) error {
	t.To = model.DecisionApproved
	return r.transition(t, &createdEntityID)
}

func (r memProposals) transition(t repository.Transition, created *uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.proposals[t.ID]
	if !ok {
		return repository.ErrStaleVersion
	}
	if err := applyTransition(&p.Status, &p.Version, t); err != nil {
		return err
	}
	p.ReviewedBy, p.ReviewedAt, p.ReviewNotes = &t.ReviewedBy, &t.At, t.Notes
	p.CreatedEntityID = created
	r.s.proposals[t.ID] = p
	return nil
}

func (r memProposals) CountPending(context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, p := range r.s.proposals {
		if p.Status == model.DecisionPending {
			n++
		}
	}
	return n, nil
}

// --- entity store ---

type memEntities struct{ s *memStore }

func nameColumn(t model.EntityType) string {
	if t == model.EntityTypeEvent {
		return "title"
	}
	return "name"
}

func (r memEntities) Get(_ context.Context, ref model.ManagedEntityRef) (*model.ManagedEntity, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.entities[ref]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	name, _ := e.columns[nameColumn(ref.EntityType)].(string)
	var owner *uuid.UUID
	if e.owner != nil {
		o := *e.owner
		owner = &o
	}
	return &model.ManagedEntity{Ref: ref, Name: name, Slug: e.slug, OwnerID: owner}, nil
}

func (r memEntities) GetForUpdate(ctx context.Context, ref model.ManagedEntityRef) (*model.ManagedEntity, error) {
	return r.Get(ctx, ref)
}

func (r memEntities) ResolveSlug(_ context.Context, t model.EntityType, slug string) (model.ManagedEntityRef, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for ref, e := range r.s.entities {
		if ref.EntityType == t && e.slug == slug {
			return ref, nil
		}
	}
	return model.ManagedEntityRef{}, gorm.ErrRecordNotFound
}

func (r memEntities) Patch(_ context.Context, ref model.ManagedEntityRef, patch changeset.Patch) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.entities[ref]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for k, v := range patch.Columns() {
		e.columns[k] = v
	}
	return nil
}

func (r memEntities) Create(_ context.Context, t model.EntityType, seed changeset.Patch) (model.ManagedEntityRef, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ref := model.ManagedEntityRef{EntityType: t, EntityID: uuid.New()}
	name, _ := seed.Value(nameColumn(t))
	nameStr, _ := name.(string)
	r.s.entities[ref] = &memEntity{slug: repository.Slugify(nameStr, t, ref.EntityID), columns: seed.Columns()}
	return ref, nil
}

func (r memEntities) SetOwner(_ context.Context, ref model.ManagedEntityRef, owner uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.entities[ref]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	e.owner = &owner
	return nil
}

// --- verification log ---

type memLogs struct{ s *memStore }

func (r memLogs) Record(_ context.Context, entry *model.EntityVerificationLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if len(r.s.recordFailures) > 0 {
		err := r.s.recordFailures[0]
		r.s.recordFailures = r.s.recordFailures[1:]
		return err
	}
	entry.ID = uuid.New()
	entry.CreatedAt = time.Now()
	r.s.logs = append(r.s.logs, *entry)
	return nil
}

func (r memLogs) List(_ context.Context, f repository.VerificationLogFilter) ([]model.EntityVerificationLog, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var rows []model.EntityVerificationLog
	for i := len(r.s.logs) - 1; i >= 0; i-- {
		l := r.s.logs[i]
		if f.EntityType != "" && l.EntityType != f.EntityType {
			continue
		}
		if f.EntityID != nil && (l.EntityID == nil || *l.EntityID != *f.EntityID) {
			continue
		}
		if f.RequestID != nil && (l.RequestID == nil || *l.RequestID != *f.RequestID) {
			continue
		}
		rows = append(rows, l)
	}
	return paginate(rows, f.Page, f.Limit), int64(len(rows)), nil
}

// --- publisher ---

type recordingPublisher struct {
	mu     sync.Mutex
	events []ModerationEvent
}

func (p *recordingPublisher) Publish(e ModerationEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recordingPublisher) all() []ModerationEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]ModerationEvent(nil), p.events...)
}

// --- harness ---

type harness struct {
	store      *memStore
	publisher  *recordingPublisher
	moderation ModerationService
	submission SubmissionService
	logs       VerificationLogService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	store := newMemStore()
	pub := &recordingPublisher{}
	logger, _ := test.NewNullLogger()
	m := metrics.New(prometheus.NewRegistry())

	return &harness{
		store:     store,
		publisher: pub,
		moderation: NewModerationService(ModerationDeps{
			TxManager: memTxManager{store},
			Claims:    memClaims{store},
			Updates:   memUpdates{store},
			Proposals: memProposals{store},
			Entities:  memEntities{store},
			Logs:      memLogs{store},
			Publisher: pub,
			Metrics:   m,
			Logger:    logger,
			Retry:     RetryPolicy{MaxRetries: 2, InitialInterval: time.Millisecond, MaxInterval: 2 * time.Millisecond},
		}),
		submission: NewSubmissionService(SubmissionDeps{
			TxManager: memTxManager{store},
			Claims:    memClaims{store},
			Updates:   memUpdates{store},
			Proposals: memProposals{store},
			Entities:  memEntities{store},
			Logs:      memLogs{store},
			Publisher: pub,
			Metrics:   m,
			Logger:    logger,
		}),
		logs: NewVerificationLogService(memLogs{store}),
	}
}
