package service

import (
	"sort"
	"sync"
	"time"

	"notesmith-server/internal/domain"
	"notesmith-server/internal/repository"
)

// Hand-written in-memory repositories. Each mirrors the persistence
// contract closely enough for the services to behave exactly as they do
// against CouchDB, including list ordering.

type mockUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*domain.User)}
}

func (m *mockUserRepo) Create(user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := *user
	m.users[user.ID] = &u
	return nil
}

func (m *mockUserRepo) FindByEmail(email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockUserRepo) FindByID(id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := *u
	return &out, nil
}

func (m *mockUserRepo) Update(user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.ID]; !ok {
		return repository.ErrNotFound
	}
	u := *user
	m.users[user.ID] = &u
	return nil
}

func (m *mockUserRepo) EmailExists(email string) (bool, error) {
	_, err := m.FindByEmail(email)
	if err == repository.ErrNotFound {
		return false, nil
	}
	return err == nil, err
}

func (m *mockUserRepo) ConsumeLLMQuota(userID string, limit int, now time.Time) (*domain.QuotaStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}

	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if user.LLMRequestLastReset.Before(midnight) {
		user.LLMRequestCount = 0
		user.LLMRequestLastReset = midnight
	}

	status := &domain.QuotaStatus{
		Limit:     limit,
		LastReset: user.LLMRequestLastReset,
		NextReset: user.LLMRequestLastReset.AddDate(0, 0, 1),
	}

	if user.LLMRequestCount >= limit {
		status.Count = user.LLMRequestCount
		status.Exceeded = true
		return status, nil
	}

	user.LLMRequestCount++
	status.Count = user.LLMRequestCount
	return status, nil
}

type mockNotebookRepo struct {
	notebooks map[string]*domain.Notebook
}

func newMockNotebookRepo() *mockNotebookRepo {
	return &mockNotebookRepo{notebooks: make(map[string]*domain.Notebook)}
}

func (m *mockNotebookRepo) Create(notebook *domain.Notebook) error {
	n := *notebook
	m.notebooks[notebook.ID] = &n
	return nil
}

func (m *mockNotebookRepo) FindByID(id string) (*domain.Notebook, error) {
	n, ok := m.notebooks[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := *n
	return &out, nil
}

func (m *mockNotebookRepo) ListByOwner(ownerID string) ([]*domain.Notebook, error) {
	var out []*domain.Notebook
	for _, n := range m.notebooks {
		if n.OwnerID == ownerID {
			nn := *n
			out = append(out, &nn)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *mockNotebookRepo) Update(notebook *domain.Notebook) error {
	if _, ok := m.notebooks[notebook.ID]; !ok {
		return repository.ErrNotFound
	}
	n := *notebook
	m.notebooks[notebook.ID] = &n
	return nil
}

func (m *mockNotebookRepo) Delete(id string) error {
	if _, ok := m.notebooks[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.notebooks, id)
	return nil
}

func (m *mockNotebookRepo) SetLatestRawInput(notebookID string, rawInputID *string) error {
	n, ok := m.notebooks[notebookID]
	if !ok {
		return repository.ErrNotFound
	}
	n.LatestRawInput = rawInputID
	return nil
}

type mockRawInputRepo struct {
	rawInputs map[string]*domain.RawInput
	createErr error
}

func newMockRawInputRepo() *mockRawInputRepo {
	return &mockRawInputRepo{rawInputs: make(map[string]*domain.RawInput)}
}

func (m *mockRawInputRepo) Create(rawInput *domain.RawInput) error {
	if m.createErr != nil {
		return m.createErr
	}
	ri := *rawInput
	m.rawInputs[rawInput.ID] = &ri
	return nil
}

func (m *mockRawInputRepo) FindByID(id string) (*domain.RawInput, error) {
	ri, ok := m.rawInputs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := *ri
	return &out, nil
}

func (m *mockRawInputRepo) ListByOwner(ownerID string) ([]*domain.RawInput, error) {
	var out []*domain.RawInput
	for _, ri := range m.rawInputs {
		if ri.OwnerID == ownerID {
			rr := *ri
			out = append(out, &rr)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *mockRawInputRepo) ListByNotebook(notebookID string) ([]*domain.RawInput, error) {
	var out []*domain.RawInput
	for _, ri := range m.rawInputs {
		if ri.NotebookID == notebookID {
			rr := *ri
			out = append(out, &rr)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *mockRawInputRepo) Delete(id string) error {
	if _, ok := m.rawInputs[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.rawInputs, id)
	return nil
}

func (m *mockRawInputRepo) DeleteByNotebook(notebookID string) error {
	for id, ri := range m.rawInputs {
		if ri.NotebookID == notebookID {
			delete(m.rawInputs, id)
		}
	}
	return nil
}

type mockNoteRepo struct {
	notes     map[string]*domain.Note
	createErr error
}

func newMockNoteRepo() *mockNoteRepo {
	return &mockNoteRepo{notes: make(map[string]*domain.Note)}
}

func (m *mockNoteRepo) Create(note *domain.Note) error {
	if m.createErr != nil {
		return m.createErr
	}
	n := *note
	m.notes[note.ID] = &n
	return nil
}

func (m *mockNoteRepo) FindByID(id string) (*domain.Note, error) {
	n, ok := m.notes[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := *n
	return &out, nil
}

func (m *mockNoteRepo) ListByNotebook(ownerID, notebookID string) ([]*domain.Note, error) {
	var out []*domain.Note
	for _, n := range m.notes {
		if n.OwnerID == ownerID && n.NotebookID == notebookID {
			nn := *n
			out = append(out, &nn)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *mockNoteRepo) Update(note *domain.Note) error {
	if _, ok := m.notes[note.ID]; !ok {
		return repository.ErrNotFound
	}
	n := *note
	m.notes[note.ID] = &n
	return nil
}

func (m *mockNoteRepo) Delete(id string) error {
	if _, ok := m.notes[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.notes, id)
	return nil
}

func (m *mockNoteRepo) DeleteByNotebook(notebookID string) error {
	for id, n := range m.notes {
		if n.NotebookID == notebookID {
			delete(m.notes, id)
		}
	}
	return nil
}

type mockQARepo struct {
	qas map[string]*domain.QA
}

func newMockQARepo() *mockQARepo {
	return &mockQARepo{qas: make(map[string]*domain.QA)}
}

func (m *mockQARepo) Create(qa *domain.QA) error {
	q := *qa
	m.qas[qa.ID] = &q
	return nil
}

func (m *mockQARepo) FindByID(id string) (*domain.QA, error) {
	q, ok := m.qas[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := *q
	return &out, nil
}

func (m *mockQARepo) ListByNote(ownerID, noteID string) ([]*domain.QA, error) {
	var out []*domain.QA
	for _, q := range m.qas {
		if q.OwnerID == ownerID && q.NoteID == noteID {
			qq := *q
			out = append(out, &qq)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *mockQARepo) Delete(id string) error {
	if _, ok := m.qas[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.qas, id)
	return nil
}

func (m *mockQARepo) DeleteByNote(noteID string) error {
	for id, q := range m.qas {
		if q.NoteID == noteID {
			delete(m.qas, id)
		}
	}
	return nil
}

func (m *mockQARepo) DeleteByNotes(noteIDs []string) error {
	for _, noteID := range noteIDs {
		if err := m.DeleteByNote(noteID); err != nil {
			return err
		}
	}
	return nil
}

// fakeGateway scripts LLM responses in call order.
type fakeGateway struct {
	responses []string
	err       error
	prompts   []string
}

func (g *fakeGateway) Generate(prompt string) (string, error) {
	g.prompts = append(g.prompts, prompt)
	if g.err != nil {
		return "", g.err
	}
	idx := len(g.prompts) - 1
	if idx >= len(g.responses) {
		idx = len(g.responses) - 1
	}
	return g.responses[idx], nil
}
