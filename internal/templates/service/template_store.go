package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/GoSim-25-26J-441/photogrid-backend/internal/templates/domain"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// CollectionRepository persists the whole template collection.
type CollectionRepository interface {
	Load(ctx context.Context) ([]domain.Template, error)
	Save(ctx context.Context, templates []domain.Template) error
}

// Listener receives a change event after every persisted mutation.
type Listener func(domain.ChangeEvent)

// Option configures a TemplateStore.
type Option func(*TemplateStore)

// WithClock overrides the time source used for timestamps and statistics.
func WithClock(now func() time.Time) Option {
	return func(s *TemplateStore) { s.now = now }
}

// WithIDGenerator overrides template id generation.
func WithIDGenerator(newID func() string) Option {
	return func(s *TemplateStore) { s.newID = newID }
}

// WithLogger sets the logger. It defaults to logrus.StandardLogger().
func WithLogger(log logrus.FieldLogger) Option {
	return func(s *TemplateStore) { s.log = log }
}

// WithoutSeeding disables inserting the sample templates into an empty store.
func WithoutSeeding() Option {
	return func(s *TemplateStore) { s.seed = false }
}

// TemplateStore owns the authoritative, ordered template collection and
// mirrors every change to the repository before making it visible.
type TemplateStore struct {
	repo  CollectionRepository
	log   logrus.FieldLogger
	now   func() time.Time
	newID func() string
	seed  bool

	mu        sync.RWMutex
	templates []domain.Template

	lmu       sync.Mutex
	listeners map[int]Listener
	nextLID   int

	// Events wait in commit order until a single dispatcher delivers them.
	qmu         sync.Mutex
	queue       []domain.ChangeEvent
	dispatching bool
}

// NewTemplateStore loads the persisted collection and seeds the sample
// templates when it is empty. Read and decode failures are logged and
// start the store from an empty collection.
func NewTemplateStore(ctx context.Context, repo CollectionRepository, opts ...Option) *TemplateStore {
	s := &TemplateStore{
		repo:      repo,
		log:       logrus.StandardLogger(),
		now:       time.Now,
		newID:     uuid.NewString,
		seed:      true,
		templates: []domain.Template{},
		listeners: make(map[int]Listener),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.templates = s.load(ctx)
	if s.seed && len(s.templates) == 0 {
		s.seedSamples(ctx)
	}

	return s
}

func (s *TemplateStore) load(ctx context.Context) []domain.Template {
	templates, err := s.repo.Load(ctx)
	if err != nil {
		entry := s.log.WithField("operation", "load").WithError(err)
		if errors.Is(err, domain.ErrCorruptData) {
			entry.Warn("stored templates are corrupt, starting from an empty collection")
		} else {
			entry.Error("failed to load templates, starting from an empty collection")
		}
		return []domain.Template{}
	}
	return templates
}

func (s *TemplateStore) seedSamples(ctx context.Context) {
	for _, sample := range domain.SampleTemplates() {
		if _, err := s.Add(ctx, sample); err != nil {
			s.log.WithField("operation", "seed").WithError(err).
				Warnf("failed to add sample template %q", sample.Name)
		}
	}
	s.log.WithField("operation", "seed").Infof("seeded %d sample templates", s.Len())
}

// Subscribe registers fn for change events and returns a function that
// removes it.
func (s *TemplateStore) Subscribe(fn Listener) (unsubscribe func()) {
	s.lmu.Lock()
	id := s.nextLID
	s.nextLID++
	s.listeners[id] = fn
	s.lmu.Unlock()

	return func() {
		s.lmu.Lock()
		delete(s.listeners, id)
		s.lmu.Unlock()
	}
}

// enqueue records a change event. Callers hold s.mu, so the queue order is
// the commit order.
func (s *TemplateStore) enqueue(op string) {
	s.qmu.Lock()
	s.queue = append(s.queue, domain.ChangeEvent{Operation: op, Templates: s.templates})
	s.qmu.Unlock()
}

// dispatch delivers queued events in order. Only one goroutine delivers at a
// time; a caller that finds delivery in progress leaves its event to it.
// Must be called without s.mu held.
func (s *TemplateStore) dispatch() {
	s.qmu.Lock()
	if s.dispatching {
		s.qmu.Unlock()
		return
	}
	s.dispatching = true
	for len(s.queue) > 0 {
		ev := s.queue[0]
		s.queue = s.queue[1:]
		s.qmu.Unlock()

		s.deliver(ev)

		s.qmu.Lock()
	}
	s.dispatching = false
	s.qmu.Unlock()
}

func (s *TemplateStore) deliver(ev domain.ChangeEvent) {
	s.lmu.Lock()
	fns := make([]Listener, 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.lmu.Unlock()

	for _, fn := range fns {
		fn(domain.ChangeEvent{Operation: ev.Operation, Templates: cloneTemplates(ev.Templates)})
	}
}

// commit persists next and swaps it in. Callers hold s.mu.
func (s *TemplateStore) commit(ctx context.Context, next []domain.Template) error {
	if err := s.repo.Save(ctx, next); err != nil {
		return err
	}
	s.templates = next
	return nil
}

func (s *TemplateStore) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

// Add appends a new template. Nothing changes when persisting fails.
func (s *TemplateStore) Add(ctx context.Context, in domain.TemplateInput) (domain.Template, error) {
	in = domain.ApplyDefaults(in)
	if in.Name == "" {
		return domain.Template{}, domain.ErrNameRequired
	}

	now := s.timestamp()
	t := domain.Template{
		ID:          s.newID(),
		Name:        in.Name,
		Description: in.Description,
		Category:    in.Category,
		ImageURL:    in.ImageURL,
		GridConfig:  in.GridConfig,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	s.mu.Lock()
	next := make([]domain.Template, len(s.templates), len(s.templates)+1)
	copy(next, s.templates)
	next = append(next, t)
	if err := s.commit(ctx, next); err != nil {
		s.mu.Unlock()
		s.log.WithField("operation", domain.OpAdd).WithError(err).Error("failed to add template")
		return domain.Template{}, err
	}
	s.enqueue(domain.OpAdd)
	s.mu.Unlock()

	s.dispatch()
	return t, nil
}

// Update replaces every field of the template except its id and creation
// time, refreshes its update time and returns the stored record.
func (s *TemplateStore) Update(ctx context.Context, id string, in domain.TemplateInput) (domain.Template, error) {
	in = domain.ApplyDefaults(in)
	if in.Name == "" {
		return domain.Template{}, domain.ErrNameRequired
	}

	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return domain.Template{}, domain.ErrTemplateNotFound
	}

	next := cloneTemplates(s.templates)
	cur := next[idx]
	updatedAt := s.timestamp()
	if updatedAt.Before(cur.CreatedAt) {
		updatedAt = cur.CreatedAt
	}
	next[idx] = domain.Template{
		ID:          cur.ID,
		Name:        in.Name,
		Description: in.Description,
		Category:    in.Category,
		ImageURL:    in.ImageURL,
		GridConfig:  in.GridConfig,
		CreatedAt:   cur.CreatedAt,
		UpdatedAt:   updatedAt,
	}

	if err := s.commit(ctx, next); err != nil {
		s.mu.Unlock()
		s.log.WithField("operation", domain.OpUpdate).WithError(err).Errorf("failed to update template %s", id)
		return domain.Template{}, err
	}
	updated := next[idx]
	s.enqueue(domain.OpUpdate)
	s.mu.Unlock()

	s.dispatch()
	return updated, nil
}

// Delete removes the first template with the given id.
func (s *TemplateStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return domain.ErrTemplateNotFound
	}

	next := make([]domain.Template, 0, len(s.templates)-1)
	next = append(next, s.templates[:idx]...)
	next = append(next, s.templates[idx+1:]...)

	if err := s.commit(ctx, next); err != nil {
		s.mu.Unlock()
		s.log.WithField("operation", domain.OpDelete).WithError(err).Errorf("failed to delete template %s", id)
		return err
	}
	s.enqueue(domain.OpDelete)
	s.mu.Unlock()

	s.dispatch()
	return nil
}

// Clear removes every template.
func (s *TemplateStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	if err := s.commit(ctx, []domain.Template{}); err != nil {
		s.mu.Unlock()
		s.log.WithField("operation", domain.OpClear).WithError(err).Error("failed to clear templates")
		return err
	}
	s.enqueue(domain.OpClear)
	s.mu.Unlock()

	s.dispatch()
	return nil
}

// Reload replaces the in-memory collection with the persisted one. It is
// meant to be called when another process has written the collection.
// An empty result is not re-seeded.
func (s *TemplateStore) Reload(ctx context.Context) error {
	// Held across the read so no mutation can commit between Load and the swap.
	s.mu.Lock()
	templates, err := s.repo.Load(ctx)
	if err != nil {
		s.log.WithField("operation", domain.OpReload).WithError(err).Warn("failed to reload templates")
		if !errors.Is(err, domain.ErrCorruptData) {
			s.mu.Unlock()
			return err
		}
		templates = []domain.Template{}
	}
	s.templates = templates
	s.enqueue(domain.OpReload)
	s.mu.Unlock()

	s.dispatch()
	return nil
}

func (s *TemplateStore) indexOf(id string) int {
	for i := range s.templates {
		if s.templates[i].ID == id {
			return i
		}
	}
	return -1
}

// Len returns the number of templates.
func (s *TemplateStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.templates)
}

// Get returns a copy of the template with the given id.
func (s *TemplateStore) Get(id string) (domain.Template, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if idx := s.indexOf(id); idx >= 0 {
		return s.templates[idx], true
	}
	return domain.Template{}, false
}

// List returns every template in insertion order, or only those of the
// given category when it is not empty.
func (s *TemplateStore) List(category string) []domain.Template {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if category == "" {
		return cloneTemplates(s.templates)
	}
	return s.where(func(t domain.Template) bool { return t.Category == category })
}

// ListByCategory groups the templates by category, keeping insertion order
// inside each group.
func (s *TemplateStore) ListByCategory() map[string][]domain.Template {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string][]domain.Template)
	for _, t := range s.templates {
		out[t.Category] = append(out[t.Category], t)
	}
	return out
}

// Search matches query case-insensitively against name, description and
// category. A blank query returns everything.
func (s *TemplateStore) Search(query string) []domain.Template {
	term := strings.ToLower(strings.TrimSpace(query))

	s.mu.RLock()
	defer s.mu.RUnlock()

	if term == "" {
		return cloneTemplates(s.templates)
	}
	return s.where(func(t domain.Template) bool {
		return strings.Contains(strings.ToLower(t.Name), term) ||
			strings.Contains(strings.ToLower(t.Description), term) ||
			strings.Contains(strings.ToLower(t.Category), term)
	})
}

// Filter applies an exact category match (skipped for "" and "all") and
// inclusive creation date bounds.
func (s *TemplateStore) Filter(f domain.Filter) []domain.Template {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.where(func(t domain.Template) bool {
		if f.Category != "" && f.Category != domain.CategoryAll && t.Category != f.Category {
			return false
		}
		if f.DateFrom != nil && t.CreatedAt.Before(*f.DateFrom) {
			return false
		}
		if f.DateTo != nil && t.CreatedAt.After(*f.DateTo) {
			return false
		}
		return true
	})
}

// Sort returns a stably sorted copy. Timestamps compare chronologically,
// strings case-insensitively. The order defaults to descending and the field
// to createdAt; an unknown field keeps insertion order.
func (s *TemplateStore) Sort(field, order string) []domain.Template {
	if field == "" {
		field = domain.SortByCreatedAt
	}
	asc := strings.EqualFold(order, domain.OrderAsc)

	out := s.List("")
	cmp := comparator(field)
	if cmp == nil {
		return out
	}

	sort.SliceStable(out, func(i, j int) bool {
		if asc {
			return cmp(out[i], out[j]) < 0
		}
		return cmp(out[i], out[j]) > 0
	})
	return out
}

func comparator(field string) func(a, b domain.Template) int {
	byString := func(get func(domain.Template) string) func(a, b domain.Template) int {
		return func(a, b domain.Template) int {
			return strings.Compare(strings.ToLower(get(a)), strings.ToLower(get(b)))
		}
	}

	switch field {
	case domain.SortByCreatedAt:
		return func(a, b domain.Template) int { return a.CreatedAt.Compare(b.CreatedAt) }
	case domain.SortByUpdatedAt:
		return func(a, b domain.Template) int { return a.UpdatedAt.Compare(b.UpdatedAt) }
	case domain.SortByID:
		return byString(func(t domain.Template) string { return t.ID })
	case domain.SortByName:
		return byString(func(t domain.Template) string { return t.Name })
	case domain.SortByDescription:
		return byString(func(t domain.Template) string { return t.Description })
	case domain.SortByCategory:
		return byString(func(t domain.Template) string { return t.Category })
	case domain.SortByImageURL:
		return byString(func(t domain.Template) string { return t.ImageURL })
	case domain.SortByGridConfig:
		return byString(func(t domain.Template) string { return t.GridConfig })
	default:
		return nil
	}
}

// Statistics counts templates in total, per category, and those created in
// the last seven days.
func (s *TemplateStore) Statistics() domain.Statistics {
	weekAgo := s.now().Add(-domain.RecentWindow)

	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := domain.Statistics{
		Total:      len(s.templates),
		Categories: make(map[string]int),
	}
	for _, t := range s.templates {
		stats.Categories[t.Category]++
		if t.CreatedAt.After(weekAgo) {
			stats.RecentlyAdded++
		}
	}
	return stats
}

// Export returns the collection as indented JSON.
func (s *TemplateStore) Export() (string, error) {
	data, err := json.MarshalIndent(s.List(""), "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to export templates: %w", err)
	}
	return string(data), nil
}

// Import adds every element of a JSON array that has a non-empty string
// name. Ids and timestamps in the payload are ignored. Elements without a
// name and individual add failures are skipped; only a payload that is not
// a JSON array fails the import. It returns the number of templates added.
func (s *TemplateStore) Import(ctx context.Context, text string) (int, error) {
	var elems []json.RawMessage
	if err := json.Unmarshal([]byte(text), &elems); err != nil || elems == nil {
		return 0, domain.ErrInvalidImport
	}

	added := 0
	for _, raw := range elems {
		var fields map[string]any
		if err := json.Unmarshal(raw, &fields); err != nil {
			continue
		}
		in := domain.TemplateInput{
			Name:        stringField(fields, "name"),
			Description: stringField(fields, "description"),
			Category:    stringField(fields, "category"),
			ImageURL:    stringField(fields, "imageUrl"),
			GridConfig:  stringField(fields, "gridConfig"),
		}
		if in.Name == "" {
			continue
		}
		if _, err := s.Add(ctx, in); err != nil {
			continue
		}
		added++
	}

	s.log.WithField("operation", "import").Infof("imported %d of %d templates", added, len(elems))
	return added, nil
}

func stringField(fields map[string]any, key string) string {
	v, _ := fields[key].(string)
	return v
}

// where returns copies of the templates matching keep. Callers hold s.mu.
func (s *TemplateStore) where(keep func(domain.Template) bool) []domain.Template {
	out := []domain.Template{}
	for _, t := range s.templates {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}

func cloneTemplates(in []domain.Template) []domain.Template {
	out := make([]domain.Template, len(in))
	copy(out, in)
	return out
}
