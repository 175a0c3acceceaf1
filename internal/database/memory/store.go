// Package memory is an in-process store for local runs and tests. Data is
// lost on restart.
package memory

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/redmonkez12/visionise-api/internal/project"
	"github.com/redmonkez12/visionise-api/internal/task"
	"github.com/redmonkez12/visionise-api/internal/user"
)

type record[T any] struct {
	seq int64
	val T
}

// Store holds every collection behind one lock
type Store struct {
	mu       sync.RWMutex
	seq      int64
	users    map[string]record[user.User]
	emails   map[string]string // email -> user id, the uniqueness index
	projects map[string]record[project.Project]
	tasks    map[string]record[task.Task]
	now      func() time.Time
}

func New() *Store {
	return &Store{
		users:    make(map[string]record[user.User]),
		emails:   make(map[string]string),
		projects: make(map[string]record[project.Project]),
		tasks:    make(map[string]record[task.Task]),
		now:      time.Now,
	}
}

func (s *Store) Users() *UserRepository       { return &UserRepository{s: s} }
func (s *Store) Projects() *ProjectRepository { return &ProjectRepository{s: s} }
func (s *Store) Tasks() *TaskRepository       { return &TaskRepository{s: s} }

// Ping always succeeds
func (s *Store) Ping(ctx context.Context) error { return ctx.Err() }

func (s *Store) nextSeq() int64 {
	s.seq++
	return s.seq
}

func sorted[T any](in []record[T]) []T {
	sort.Slice(in, func(i, j int) bool { return in[i].seq < in[j].seq })
	out := make([]T, len(in))
	for i, r := range in {
		out[i] = r.val
	}
	return out
}

// UserRepository implements user.Repository
type UserRepository struct{ s *Store }

func (r *UserRepository) Create(ctx context.Context, u *user.User) (*user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, taken := r.s.emails[u.Email]; taken {
		return nil, user.ErrDuplicateEmail
	}

	created := *u
	created.ID = uuid.NewString()
	created.CreatedAt = r.s.now()
	created.UpdatedAt = created.CreatedAt

	r.s.users[created.ID] = record[user.User]{seq: r.s.nextSeq(), val: created}
	r.s.emails[created.Email] = created.ID

	return &created, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	id, ok := r.s.emails[email]
	if !ok {
		return nil, user.ErrNotFound
	}
	u := r.s.users[id].val
	return &u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rec, ok := r.s.users[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	u := rec.val
	return &u, nil
}

// ProjectRepository implements project.Repository
type ProjectRepository struct{ s *Store }

func cloneProject(p project.Project) *project.Project {
	p.Members = slices.Clone(p.Members)
	if p.Members == nil {
		p.Members = []string{}
	}
	return &p
}

func (r *ProjectRepository) Create(ctx context.Context, p *project.Project) (*project.Project, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	created := *cloneProject(*p)
	created.ID = uuid.NewString()
	created.CreatedAt = r.s.now()
	created.UpdatedAt = created.CreatedAt

	r.s.projects[created.ID] = record[project.Project]{seq: r.s.nextSeq(), val: created}
	return cloneProject(created), nil
}

func (r *ProjectRepository) ListByOwner(ctx context.Context, ownerID string) ([]project.Project, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var matched []record[project.Project]
	for _, rec := range r.s.projects {
		if rec.val.OwnerID == ownerID {
			rec.val = *cloneProject(rec.val)
			matched = append(matched, rec)
		}
	}
	return sorted(matched), nil
}

func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*project.Project, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rec, ok := r.s.projects[id]
	if !ok {
		return nil, project.ErrNotFound
	}
	return cloneProject(rec.val), nil
}

func (r *ProjectRepository) Update(ctx context.Context, id string, upd project.Update) (*project.Project, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec, ok := r.s.projects[id]
	if !ok {
		return nil, project.ErrNotFound
	}

	p := &rec.val
	setIfPresent(&p.Title, upd.Title)
	setIfPresent(&p.Description, upd.Description)
	setIfPresent(&p.ManagementMethod, upd.ManagementMethod)
	setIfPresent(&p.StartDate, upd.StartDate)
	setIfPresent(&p.EndDate, upd.EndDate)
	p.UpdatedAt = r.s.now()

	r.s.projects[id] = rec
	return cloneProject(rec.val), nil
}

func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	delete(r.s.projects, id)
	return nil
}

func (r *ProjectRepository) AddMember(ctx context.Context, id, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec, ok := r.s.projects[id]
	if !ok || slices.Contains(rec.val.Members, userID) {
		return nil
	}
	rec.val.Members = append(slices.Clone(rec.val.Members), userID)
	rec.val.UpdatedAt = r.s.now()
	r.s.projects[id] = rec
	return nil
}

func (r *ProjectRepository) RemoveMember(ctx context.Context, id, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec, ok := r.s.projects[id]
	if !ok {
		return nil
	}
	rec.val.Members = slices.DeleteFunc(slices.Clone(rec.val.Members), func(m string) bool { return m == userID })
	rec.val.UpdatedAt = r.s.now()
	r.s.projects[id] = rec
	return nil
}

// BackfillManagementMethod sets method on projects that have none
func (r *ProjectRepository) BackfillManagementMethod(ctx context.Context, method string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for id, rec := range r.s.projects {
		if rec.val.ManagementMethod == "" {
			rec.val.ManagementMethod = method
			r.s.projects[id] = rec
			n++
		}
	}
	return n, nil
}

// TaskRepository implements task.Repository
type TaskRepository struct{ s *Store }

func (r *TaskRepository) Create(ctx context.Context, t *task.Task) (*task.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	created := *t
	created.ID = uuid.NewString()
	created.CreatedAt = r.s.now()
	created.UpdatedAt = created.CreatedAt

	r.s.tasks[created.ID] = record[task.Task]{seq: r.s.nextSeq(), val: created}
	return &created, nil
}

func (r *TaskRepository) ListByProject(ctx context.Context, projectID string) ([]task.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var matched []record[task.Task]
	for _, rec := range r.s.tasks {
		if rec.val.ProjectID == projectID {
			matched = append(matched, rec)
		}
	}
	return sorted(matched), nil
}

func (r *TaskRepository) Update(ctx context.Context, id string, upd task.Update) (*task.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rec, ok := r.s.tasks[id]
	if !ok {
		return nil, task.ErrNotFound
	}

	t := &rec.val
	setIfPresent(&t.Title, upd.Title)
	setIfPresent(&t.Description, upd.Description)
	setIfPresent(&t.Status, upd.Status)
	setIfPresent(&t.Progress, upd.Progress)
	setIfPresent(&t.Priority, upd.Priority)
	setIfPresent(&t.Type, upd.Type)
	setIfPresent(&t.Assignee, upd.Assignee)
	setIfPresent(&t.Responsable, upd.Responsable)
	setIfPresent(&t.StartDate, upd.StartDate)
	setIfPresent(&t.EndDate, upd.EndDate)
	t.UpdatedAt = r.s.now()

	r.s.tasks[id] = rec
	updated := rec.val
	return &updated, nil
}

func (r *TaskRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	delete(r.s.tasks, id)
	return nil
}

func (r *TaskRepository) DeleteByProject(ctx context.Context, projectID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for id, rec := range r.s.tasks {
		if rec.val.ProjectID == projectID {
			delete(r.s.tasks, id)
			n++
		}
	}
	return n, nil
}

func setIfPresent[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
