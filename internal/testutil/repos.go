// Package testutil dobles en memoria de los puertos de aplicación para tests de use cases y handlers.
package testutil

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/andromeda-crm/internal/domain"
	"github.com/jhoicas/andromeda-crm/internal/domain/entity"
	"github.com/jhoicas/andromeda-crm/internal/domain/repository"
)

var (
	_ repository.UserRepository           = (*UserRepo)(nil)
	_ repository.LeadRepository           = (*LeadRepo)(nil)
	_ repository.CustomerRepository       = (*CustomerRepo)(nil)
	_ repository.ContactRepository        = (*ContactRepo)(nil)
	_ repository.NoteRepository           = (*NoteRepo)(nil)
	_ repository.LeadConversionRepository = (*ConversionRepo)(nil)
)

// table almacén genérico por id que devuelve copias, como haría una base de datos.
type table[T any] struct {
	mu   sync.Mutex
	rows map[string]T
	// orden de inserción para listados estables
	order []string
}

func newTable[T any]() *table[T] {
	return &table[T]{rows: make(map[string]T)}
}

func (t *table[T]) get(id string) (T, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	v, ok := t.rows[id]
	return v, ok
}

func (t *table[T]) find(match func(T) bool) (T, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, id := range t.order {
		if v := t.rows[id]; match(v) {
			return v, true
		}
	}
	var zero T
	return zero, false
}

func (t *table[T]) filter(match func(T) bool) []T {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]T, 0)
	for _, id := range t.order {
		if v := t.rows[id]; match == nil || match(v) {
			out = append(out, v)
		}
	}
	return out
}

func (t *table[T]) put(id string, v T) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rows[id]; !ok {
		t.order = append(t.order, id)
	}
	t.rows[id] = v
}

func (t *table[T]) remove(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rows[id]; !ok {
		return false
	}
	delete(t.rows, id)
	for i, o := range t.order {
		if o == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return true
}

func (t *table[T]) len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.rows)
}

func page[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return []T{}
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}

func sameFold(a, b string) bool { return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b)) }

// ── Users ────────────────────────────────────────────────────────────────────

// UserRepo UserRepository en memoria. Username y email únicos sin distinguir mayúsculas.
type UserRepo struct{ t *table[entity.User] }

func NewUserRepo() *UserRepo { return &UserRepo{t: newTable[entity.User]()} }

func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	if _, dup := r.t.find(func(x entity.User) bool {
		return x.ID == u.ID || sameFold(x.Username, u.Username) || sameFold(x.Email, u.Email)
	}); dup {
		return domain.ErrDuplicate
	}
	r.t.put(u.ID, *u)
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	if u, ok := r.t.get(id); ok {
		return &u, nil
	}
	return nil, nil
}

func (r *UserRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	if u, ok := r.t.find(func(x entity.User) bool { return sameFold(x.Username, username) }); ok {
		return &u, nil
	}
	return nil, nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	if u, ok := r.t.find(func(x entity.User) bool { return sameFold(x.Email, email) }); ok {
		return &u, nil
	}
	return nil, nil
}

func (r *UserRepo) List(_ context.Context, limit, offset int) ([]*entity.User, error) {
	return ptrs(page(r.t.filter(nil), limit, offset)), nil
}

func (r *UserRepo) Update(_ context.Context, u *entity.User) error {
	if _, ok := r.t.get(u.ID); !ok {
		return domain.ErrNotFound
	}
	if _, dup := r.t.find(func(x entity.User) bool {
		return x.ID != u.ID && (sameFold(x.Username, u.Username) || sameFold(x.Email, u.Email))
	}); dup {
		return domain.ErrDuplicate
	}
	r.t.put(u.ID, *u)
	return nil
}

func (r *UserRepo) UpdatePassword(_ context.Context, id, hash string) error {
	u, ok := r.t.get(id)
	if !ok {
		return domain.ErrNotFound
	}
	u.PasswordHash = hash
	u.UpdatedAt = time.Now()
	r.t.put(id, u)
	return nil
}

func (r *UserRepo) Delete(_ context.Context, id string) error {
	if !r.t.remove(id) {
		return domain.ErrNotFound
	}
	return nil
}

// Len número de usuarios guardados.
func (r *UserRepo) Len() int { return r.t.len() }

// ── Leads ────────────────────────────────────────────────────────────────────

// LeadRepo LeadRepository en memoria. Email único sin distinguir mayúsculas.
type LeadRepo struct{ t *table[entity.Lead] }

func NewLeadRepo() *LeadRepo { return &LeadRepo{t: newTable[entity.Lead]()} }

func (r *LeadRepo) Create(_ context.Context, l *entity.Lead) error {
	if _, dup := r.t.find(func(x entity.Lead) bool { return x.ID == l.ID || sameFold(x.Email, l.Email) }); dup {
		return domain.ErrDuplicate
	}
	r.t.put(l.ID, *l)
	return nil
}

func (r *LeadRepo) GetByID(_ context.Context, id string) (*entity.Lead, error) {
	if l, ok := r.t.get(id); ok {
		return &l, nil
	}
	return nil, nil
}

func (r *LeadRepo) GetByEmail(_ context.Context, email string) (*entity.Lead, error) {
	if l, ok := r.t.find(func(x entity.Lead) bool { return sameFold(x.Email, email) }); ok {
		return &l, nil
	}
	return nil, nil
}

func (r *LeadRepo) List(_ context.Context, limit, offset int) ([]*entity.Lead, error) {
	return ptrs(page(r.t.filter(nil), limit, offset)), nil
}

func (r *LeadRepo) Update(_ context.Context, l *entity.Lead) error {
	if _, ok := r.t.get(l.ID); !ok {
		return domain.ErrNotFound
	}
	if _, dup := r.t.find(func(x entity.Lead) bool { return x.ID != l.ID && sameFold(x.Email, l.Email) }); dup {
		return domain.ErrDuplicate
	}
	r.t.put(l.ID, *l)
	return nil
}

func (r *LeadRepo) Delete(_ context.Context, id string) error {
	if !r.t.remove(id) {
		return domain.ErrNotFound
	}
	return nil
}

func (r *LeadRepo) MarkConverted(_ context.Context, id, customerID string, at time.Time) error {
	l, ok := r.t.get(id)
	if !ok {
		return domain.ErrNotFound
	}
	if l.Converted {
		return domain.ErrAlreadyConverted
	}
	l.Converted = true
	l.CustomerID = &customerID
	l.ConvertedAt = &at
	l.UpdatedAt = at
	r.t.put(id, l)
	return nil
}

// ── Customers ────────────────────────────────────────────────────────────────

// CustomerRepo CustomerRepository en memoria. Nombre único sin distinguir mayúsculas.
type CustomerRepo struct{ t *table[entity.Customer] }

func NewCustomerRepo() *CustomerRepo { return &CustomerRepo{t: newTable[entity.Customer]()} }

func (r *CustomerRepo) Create(_ context.Context, c *entity.Customer) error {
	if _, dup := r.t.find(func(x entity.Customer) bool { return x.ID == c.ID || sameFold(x.Name, c.Name) }); dup {
		return domain.ErrDuplicate
	}
	r.t.put(c.ID, *c)
	return nil
}

func (r *CustomerRepo) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	if c, ok := r.t.get(id); ok {
		return &c, nil
	}
	return nil, nil
}

func (r *CustomerRepo) GetByName(_ context.Context, name string) (*entity.Customer, error) {
	if c, ok := r.t.find(func(x entity.Customer) bool { return sameFold(x.Name, name) }); ok {
		return &c, nil
	}
	return nil, nil
}

func (r *CustomerRepo) List(_ context.Context, limit, offset int) ([]*entity.Customer, error) {
	return ptrs(page(r.t.filter(nil), limit, offset)), nil
}

func (r *CustomerRepo) Update(_ context.Context, c *entity.Customer) error {
	if _, ok := r.t.get(c.ID); !ok {
		return domain.ErrNotFound
	}
	if _, dup := r.t.find(func(x entity.Customer) bool { return x.ID != c.ID && sameFold(x.Name, c.Name) }); dup {
		return domain.ErrDuplicate
	}
	r.t.put(c.ID, *c)
	return nil
}

func (r *CustomerRepo) Delete(_ context.Context, id string) error {
	if !r.t.remove(id) {
		return domain.ErrNotFound
	}
	return nil
}

func (r *CustomerRepo) Stats(_ context.Context) (*entity.CustomerStats, error) {
	s := &entity.CustomerStats{}
	for _, c := range r.t.filter(nil) {
		s.Total++
		if c.IsActive {
			s.Active++
		} else {
			s.Inactive++
		}
	}
	return s, nil
}

// Len número de clientes guardados.
func (r *CustomerRepo) Len() int { return r.t.len() }

// ── Contacts ─────────────────────────────────────────────────────────────────

// ContactRepo ContactRepository en memoria. Si Customers no es nil, valida la FK como lo haría PostgreSQL.
type ContactRepo struct {
	t         *table[entity.Contact]
	Customers *CustomerRepo
}

func NewContactRepo(customers *CustomerRepo) *ContactRepo {
	return &ContactRepo{t: newTable[entity.Contact](), Customers: customers}
}

func (r *ContactRepo) Create(_ context.Context, c *entity.Contact) error {
	if err := r.checkCustomer(c.CustomerID); err != nil {
		return err
	}
	if _, dup := r.t.find(func(x entity.Contact) bool { return x.ID == c.ID || sameFold(x.Email, c.Email) }); dup {
		return domain.ErrDuplicate
	}
	r.t.put(c.ID, *c)
	return nil
}

func (r *ContactRepo) GetByID(_ context.Context, id string) (*entity.Contact, error) {
	if c, ok := r.t.get(id); ok {
		return &c, nil
	}
	return nil, nil
}

func (r *ContactRepo) GetByEmail(_ context.Context, email string) (*entity.Contact, error) {
	if c, ok := r.t.find(func(x entity.Contact) bool { return sameFold(x.Email, email) }); ok {
		return &c, nil
	}
	return nil, nil
}

func (r *ContactRepo) List(_ context.Context, limit, offset int) ([]*entity.Contact, error) {
	return ptrs(page(r.t.filter(nil), limit, offset)), nil
}

func (r *ContactRepo) ListByCustomer(_ context.Context, customerID string) ([]*entity.Contact, error) {
	return ptrs(r.t.filter(func(x entity.Contact) bool { return x.CustomerID == customerID })), nil
}

func (r *ContactRepo) Update(_ context.Context, c *entity.Contact) error {
	if _, ok := r.t.get(c.ID); !ok {
		return domain.ErrNotFound
	}
	if err := r.checkCustomer(c.CustomerID); err != nil {
		return err
	}
	if _, dup := r.t.find(func(x entity.Contact) bool { return x.ID != c.ID && sameFold(x.Email, c.Email) }); dup {
		return domain.ErrDuplicate
	}
	r.t.put(c.ID, *c)
	return nil
}

func (r *ContactRepo) Delete(_ context.Context, id string) error {
	if !r.t.remove(id) {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ContactRepo) checkCustomer(id string) error {
	if r.Customers == nil {
		return nil
	}
	if _, ok := r.Customers.t.get(id); !ok {
		return domain.ErrNotFound
	}
	return nil
}

// Len número de contactos guardados.
func (r *ContactRepo) Len() int { return r.t.len() }

// ── Notes ────────────────────────────────────────────────────────────────────

// NoteRepo NoteRepository en memoria.
type NoteRepo struct{ t *table[entity.Note] }

func NewNoteRepo() *NoteRepo { return &NoteRepo{t: newTable[entity.Note]()} }

func (r *NoteRepo) Create(_ context.Context, n *entity.Note) error {
	if _, ok := r.t.get(n.ID); ok {
		return domain.ErrDuplicate
	}
	r.t.put(n.ID, *n)
	return nil
}

func (r *NoteRepo) GetByID(_ context.Context, id string) (*entity.Note, error) {
	if n, ok := r.t.get(id); ok {
		return &n, nil
	}
	return nil, nil
}

func (r *NoteRepo) List(_ context.Context, limit, offset int) ([]*entity.Note, error) {
	return ptrs(page(r.t.filter(nil), limit, offset)), nil
}

func (r *NoteRepo) ListByCustomer(_ context.Context, customerID string) ([]*entity.Note, error) {
	return ptrs(r.t.filter(func(x entity.Note) bool { return x.CustomerID == customerID })), nil
}

func (r *NoteRepo) Update(_ context.Context, n *entity.Note) error {
	if _, ok := r.t.get(n.ID); !ok {
		return domain.ErrNotFound
	}
	r.t.put(n.ID, *n)
	return nil
}

func (r *NoteRepo) Delete(_ context.Context, id string) error {
	if !r.t.remove(id) {
		return domain.ErrNotFound
	}
	return nil
}

// ── Lead conversions ─────────────────────────────────────────────────────────

// ConversionRepo LeadConversionRepository en memoria.
type ConversionRepo struct{ t *table[entity.LeadConversion] }

func NewConversionRepo() *ConversionRepo { return &ConversionRepo{t: newTable[entity.LeadConversion]()} }

func (r *ConversionRepo) GetOrCreate(_ context.Context, leadID string) (*entity.LeadConversion, error) {
	if c, ok := r.t.get(leadID); ok {
		return &c, nil
	}
	now := time.Now()
	c := entity.LeadConversion{LeadID: leadID, Status: entity.ConversionPending, CreatedAt: now, UpdatedAt: now}
	r.t.put(leadID, c)
	return &c, nil
}

func (r *ConversionRepo) GetByLeadID(_ context.Context, leadID string) (*entity.LeadConversion, error) {
	return r.Get(leadID), nil
}

func (r *ConversionRepo) Save(_ context.Context, c *entity.LeadConversion) error {
	cur, ok := r.t.get(c.LeadID)
	if !ok {
		return domain.ErrNotFound
	}
	if cur.Status == entity.ConversionCompleted {
		return nil
	}
	r.t.put(c.LeadID, *c)
	return nil
}

func (r *ConversionRepo) Delete(_ context.Context, leadID string) error {
	if cur, ok := r.t.get(leadID); ok && cur.Status == entity.ConversionCompleted {
		return nil
	}
	r.t.remove(leadID)
	return nil
}

// Get devuelve el progreso guardado del lead (nil si no hay).
func (r *ConversionRepo) Get(leadID string) *entity.LeadConversion {
	if c, ok := r.t.get(leadID); ok {
		return &c
	}
	return nil
}

func ptrs[T any](list []T) []*T {
	out := make([]*T, 0, len(list))
	for i := range list {
		out = append(out, &list[i])
	}
	return out
}
