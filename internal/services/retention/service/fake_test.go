package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"roaming/internal/modkit/repokit"
	perr "roaming/internal/platform/errors"
	"roaming/internal/platform/store"
	"roaming/internal/services/retention/domain"
)

// world is an in-memory primary store plus archive mirrors
type world struct {
	mu sync.Mutex

	policy   *domain.Policy
	datasets map[int64]domain.Dataset
	// records owned by a dataset, keyed by entity then record id
	records map[domain.Entity]map[int64]int64
	archive map[domain.Entity]map[int64]bool
	caps    domain.Capabilities

	deleteErr  error
	archiveErr error

	txs     int
	ensured int
	calls   []string
}

func newWorld() *world {
	w := &world{
		datasets: map[int64]domain.Dataset{},
		records:  map[domain.Entity]map[int64]int64{},
		archive:  map[domain.Entity]map[int64]bool{},
		caps:     domain.Capabilities{QualityScores: true, Profiles: true},
	}
	for _, e := range domain.ArchiveOrder {
		w.records[e] = map[int64]int64{}
		w.archive[e] = map[int64]bool{}
	}
	return w
}

func (w *world) setPolicy(p domain.Policy) { w.policy = &p }

func (w *world) addDataset(d domain.Dataset) {
	w.datasets[d.ID] = d
	w.records[domain.EntityDatasets][d.ID] = d.ID
}

func (w *world) addRecords(e domain.Entity, datasetID int64, ids ...int64) {
	for _, id := range ids {
		w.records[e][id] = datasetID
	}
}

func (w *world) archived(e domain.Entity) int { return len(w.archive[e]) }

func (w *world) called(name string) bool {
	for _, c := range w.calls {
		if c == name {
			return true
		}
	}
	return false
}

type snapshot struct {
	policy   *domain.Policy
	datasets map[int64]domain.Dataset
	records  map[domain.Entity]map[int64]int64
	archive  map[domain.Entity]map[int64]bool
}

func (w *world) snapshot() snapshot {
	s := snapshot{
		datasets: map[int64]domain.Dataset{},
		records:  map[domain.Entity]map[int64]int64{},
		archive:  map[domain.Entity]map[int64]bool{},
	}
	if w.policy != nil {
		p := *w.policy
		s.policy = &p
	}
	for k, v := range w.datasets {
		s.datasets[k] = v
	}
	for e, m := range w.records {
		s.records[e] = map[int64]int64{}
		for k, v := range m {
			s.records[e][k] = v
		}
	}
	for e, m := range w.archive {
		s.archive[e] = map[int64]bool{}
		for k, v := range m {
			s.archive[e][k] = v
		}
	}
	return s
}

func (w *world) restore(s snapshot) {
	w.policy, w.datasets, w.records, w.archive = s.policy, s.datasets, s.records, s.archive
}

// fakeDB is a TxRunner whose Tx snapshots the world and restores it when fn fails
type fakeDB struct{ w *world }

func (f *fakeDB) Exec(context.Context, string, ...any) (store.CommandTag, error) {
	return nil, errors.New("fakeDB: raw Exec not supported")
}

func (f *fakeDB) Query(context.Context, string, ...any) (store.Rows, error) {
	return nil, errors.New("fakeDB: raw Query not supported")
}

func (f *fakeDB) QueryRow(context.Context, string, ...any) store.Row { return nil }

func (f *fakeDB) Tx(_ context.Context, fn func(q store.RowQuerier) error) error {
	f.w.mu.Lock()
	f.w.txs++
	snap := f.w.snapshot()
	f.w.mu.Unlock()

	if err := fn(f); err != nil {
		f.w.mu.Lock()
		f.w.restore(snap)
		f.w.mu.Unlock()
		return err
	}
	return nil
}

var _ repokit.TxRunner = (*fakeDB)(nil)

func fakeBinder(w *world) repokit.Binder[domain.StorageRepo] {
	return repokit.BindFunc[domain.StorageRepo](func(repokit.Queryer) domain.StorageRepo {
		return &fakeRepo{w: w}
	})
}

type fakeRepo struct{ w *world }

func (r *fakeRepo) track(name string) func() {
	r.w.mu.Lock()
	r.w.calls = append(r.w.calls, name)
	return r.w.mu.Unlock
}

func (r *fakeRepo) EnsurePolicyTable(context.Context) error {
	defer r.track("EnsurePolicyTable")()
	return nil
}

func (r *fakeRepo) SeedPolicy(_ context.Context, p domain.Policy) error {
	defer r.track("SeedPolicy")()
	if r.w.policy == nil {
		r.w.policy = &p
	}
	return nil
}

func (r *fakeRepo) GetPolicy(context.Context) (domain.Policy, error) {
	defer r.track("GetPolicy")()
	if r.w.policy == nil {
		return domain.Policy{}, perr.NotFoundf("retention policy not found")
	}
	return *r.w.policy, nil
}

func (r *fakeRepo) UpsertPolicy(_ context.Context, p domain.Policy) (domain.Policy, error) {
	defer r.track("UpsertPolicy")()
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	p.UpdatedAt = &now
	r.w.policy = &p
	return p, nil
}

func (r *fakeRepo) ListExpired(_ context.Context, cutoff time.Time) ([]domain.Dataset, error) {
	defer r.track("ListExpired")()
	var out []domain.Dataset
	for _, d := range r.w.datasets {
		if d.UploadedAt.Before(cutoff) {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeRepo) EnsureArchiveSchema(context.Context) error {
	defer r.track("EnsureArchiveSchema")()
	r.w.ensured++
	return nil
}

func (r *fakeRepo) Capabilities(context.Context) (domain.Capabilities, error) {
	defer r.track("Capabilities")()
	return r.w.caps, nil
}

func (r *fakeRepo) Archive(_ context.Context, e domain.Entity, ids []int64) (int, error) {
	defer r.track("Archive:" + string(e))()
	if r.w.archiveErr != nil {
		return 0, r.w.archiveErr
	}
	if !r.w.caps.Supports(e) {
		return 0, errors.New("relation does not exist")
	}
	in := map[int64]bool{}
	for _, id := range ids {
		in[id] = true
	}
	n := 0
	for rec, owner := range r.w.records[e] {
		if !in[owner] || r.w.archive[e][rec] {
			continue
		}
		r.w.archive[e][rec] = true
		n++
	}
	return n, nil
}

func (r *fakeRepo) DeleteDatasets(_ context.Context, ids []int64, caps domain.Capabilities) ([]domain.Dataset, error) {
	defer r.track("DeleteDatasets")()
	if r.w.deleteErr != nil {
		return nil, r.w.deleteErr
	}
	in := map[int64]bool{}
	for _, id := range ids {
		in[id] = true
	}
	for _, e := range domain.ArchiveOrder {
		if !caps.Supports(e) {
			continue
		}
		for rec, owner := range r.w.records[e] {
			if in[owner] {
				delete(r.w.records[e], rec)
			}
		}
	}
	var out []domain.Dataset
	for _, id := range ids {
		if d, ok := r.w.datasets[id]; ok {
			out = append(out, d)
			delete(r.w.datasets, id)
		}
	}
	return out, nil
}

// fakeDisk records the paths it is asked to remove
type fakeDisk struct {
	mu    sync.Mutex
	paths []string
}

func (d *fakeDisk) RemoveAll(_ context.Context, paths []string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.paths = append(d.paths, paths...)
	return len(paths)
}

// fakeObserver captures observed runs
type fakeObserver struct {
	runs []domain.RunResult
	errs []error
}

func (o *fakeObserver) ObserveRun(res domain.RunResult, err error, _ time.Duration) {
	o.runs = append(o.runs, res)
	o.errs = append(o.errs, err)
}
