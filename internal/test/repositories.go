package test

import (
	"context"
	"sort"
	"sync"
	"time"

	domainErrors "github.com/polkiloo/pocha/internal/domain/errors"
	"github.com/polkiloo/pocha/internal/domain/model"
	"github.com/polkiloo/pocha/internal/domain/repository"
	"github.com/polkiloo/pocha/internal/pkg/money"
)

// MemoryStore keeps every repository in memory for tests. Err, when set, is
// returned by every operation.
type MemoryStore struct {
	mu sync.Mutex

	Err error

	users   map[string]*model.User
	carts   map[string]model.Cart
	items   map[int64]model.Item
	labels  map[string]map[int64]model.Label
	tables  map[int64]model.Table
	orders  map[int64]model.Order
	nextID  int64
	nextNum int64
}

// NewMemoryStore constructs an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:   make(map[string]*model.User),
		carts:   make(map[string]model.Cart),
		items:   make(map[int64]model.Item),
		labels:  map[string]map[int64]model.Label{"organizations": {}, "itemTypes": {}},
		tables:  make(map[int64]model.Table),
		orders:  make(map[int64]model.Order),
		nextNum: 1000,
	}
}

func (s *MemoryStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *MemoryStore) Users() repository.UserRepository {
	return memoryUsers{s}
}

func (s *MemoryStore) Items() repository.ItemRepository {
	return memoryItems{s}
}

func (s *MemoryStore) Organizations() repository.LabelRepository {
	return memoryLabels{s, "organizations"}
}

func (s *MemoryStore) ItemTypes() repository.LabelRepository {
	return memoryLabels{s, "itemTypes"}
}

func (s *MemoryStore) Tables() repository.TableRepository {
	return memoryTables{s}
}

func (s *MemoryStore) Carts() repository.CartRepository {
	return memoryCarts{s}
}

func (s *MemoryStore) Orders() repository.OrderRepository {
	return memoryOrders{s}
}

func (s *MemoryStore) Analytics() repository.AnalyticsRepository {
	return memoryAnalytics{s}
}

// OrderCount returns the number of stored orders.
func (s *MemoryStore) OrderCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}

// SeedUser stores user as is.
func (s *MemoryStore) SeedUser(user model.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := user
	s.users[u.ID] = &u
}

// SeedOrder stores order with the next id and order number.
func (s *MemoryStore) SeedOrder(order model.Order) model.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertOrder(order)
}

func (s *MemoryStore) insertOrder(order model.Order) model.Order {
	order.ID = s.id()
	s.nextNum++
	order.OrderNumber = s.nextNum
	if order.Status == "" {
		order.Status = model.OrderStatusPending
	}
	order.Version = 1
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Unix(1700000000+order.ID, 0).UTC()
	}
	order.UpdatedAt = order.CreatedAt
	order.Items = append([]model.CartLine(nil), order.Items...)
	s.orders[order.ID] = order
	return order
}

type memoryUsers struct{ s *MemoryStore }

func (r memoryUsers) Upsert(_ context.Context, user model.User) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	if existing, ok := r.s.users[user.ID]; ok {
		existing.Name, existing.Email, existing.Avatar = user.Name, user.Email, user.Avatar
		if user.Role == model.RoleAdmin {
			existing.Role = model.RoleAdmin
		}
		out := *existing
		return &out, nil
	}
	if user.Role == "" {
		user.Role = model.RoleUser
	}
	user.CreatedAt = time.Unix(1700000000, 0).UTC()
	stored := user
	r.s.users[user.ID] = &stored
	return &user, nil
}

func (r memoryUsers) GetByID(_ context.Context, id string) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	user, ok := r.s.users[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	out := *user
	return &out, nil
}

func (r memoryUsers) SetRole(_ context.Context, id string, role model.Role) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	user, ok := r.s.users[id]
	if !ok {
		return domainErrors.ErrNotFound
	}
	user.Role = role
	return nil
}

type memoryItems struct{ s *MemoryStore }

func (r memoryItems) Create(_ context.Context, item model.Item) (*model.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	item.ID = r.s.id()
	item.CreatedAt = time.Unix(1700000000, 0).UTC()
	r.s.items[item.ID] = item
	return &item, nil
}

func (r memoryItems) List(context.Context) ([]model.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	out := make([]model.Item, 0, len(r.s.items))
	for _, item := range r.s.items {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memoryItems) Update(_ context.Context, item model.Item) (*model.Item, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	existing, ok := r.s.items[item.ID]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	item.CreatedAt = existing.CreatedAt
	r.s.items[item.ID] = item
	return &item, nil
}

func (r memoryItems) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	if _, ok := r.s.items[id]; !ok {
		return domainErrors.ErrNotFound
	}
	delete(r.s.items, id)
	return nil
}

type memoryLabels struct {
	s    *MemoryStore
	kind string
}

func (r memoryLabels) Create(_ context.Context, name string) (*model.Label, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	for _, label := range r.s.labels[r.kind] {
		if label.Name == name {
			return nil, domainErrors.ErrAlreadyExists
		}
	}
	label := model.Label{ID: r.s.id(), Name: name}
	r.s.labels[r.kind][label.ID] = label
	return &label, nil
}

func (r memoryLabels) List(context.Context) ([]model.Label, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	out := make([]model.Label, 0, len(r.s.labels[r.kind]))
	for _, label := range r.s.labels[r.kind] {
		out = append(out, label)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memoryLabels) Rename(_ context.Context, id int64, name string) (*model.Label, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	if _, ok := r.s.labels[r.kind][id]; !ok {
		return nil, domainErrors.ErrNotFound
	}
	label := model.Label{ID: id, Name: name}
	r.s.labels[r.kind][id] = label
	return &label, nil
}

func (r memoryLabels) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	if _, ok := r.s.labels[r.kind][id]; !ok {
		return domainErrors.ErrNotFound
	}
	delete(r.s.labels[r.kind], id)
	return nil
}

type memoryTables struct{ s *MemoryStore }

func (r memoryTables) Create(_ context.Context, number int64) (*model.Table, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	if _, ok := r.s.tables[number]; ok {
		return nil, domainErrors.ErrAlreadyExists
	}
	table := model.Table{ID: number, Number: number}
	r.s.tables[number] = table
	return &table, nil
}

func (r memoryTables) List(context.Context) ([]model.Table, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	out := make([]model.Table, 0, len(r.s.tables))
	for _, table := range r.s.tables {
		out = append(out, table)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (r memoryTables) Renumber(_ context.Context, id, number int64) (*model.Table, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	if _, ok := r.s.tables[id]; !ok {
		return nil, domainErrors.ErrNotFound
	}
	if _, taken := r.s.tables[number]; taken && number != id {
		return nil, domainErrors.ErrAlreadyExists
	}
	delete(r.s.tables, id)
	table := model.Table{ID: number, Number: number}
	r.s.tables[number] = table
	return &table, nil
}

func (r memoryTables) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	if _, ok := r.s.tables[id]; !ok {
		return domainErrors.ErrNotFound
	}
	delete(r.s.tables, id)
	return nil
}

type memoryCarts struct{ s *MemoryStore }

func (r memoryCarts) Get(_ context.Context, userID string) (*model.Cart, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	cart := r.s.carts[userID]
	cart.UserID = userID
	if cart.Lines == nil {
		cart.Lines = []model.CartLine{}
	}
	return &cart, nil
}

func (r memoryCarts) Update(_ context.Context, userID string, fn repository.CartMutation) (*model.Cart, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	current := r.s.carts[userID]
	current.UserID = userID
	current.Lines = append([]model.CartLine{}, current.Lines...)
	next, err := fn(current)
	if err != nil {
		return nil, err
	}
	next.UserID = userID
	next.Version = current.Version + 1
	r.s.carts[userID] = next
	if _, ok := r.s.users[userID]; !ok {
		r.s.users[userID] = &model.User{ID: userID, Role: model.RoleUser, CreatedAt: time.Unix(1700000000, 0).UTC()}
	}
	return &next, nil
}

type memoryOrders struct{ s *MemoryStore }

func (r memoryOrders) Create(_ context.Context, order model.Order) (*model.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	stored := r.s.insertOrder(order)
	return &stored, nil
}

func (r memoryOrders) CreateFromCart(_ context.Context, userID string, draft repository.OrderDraft) (*model.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	cart := r.s.carts[userID]
	order, err := draft(append([]model.CartLine{}, cart.Lines...))
	if err != nil {
		return nil, err
	}
	stored := r.s.insertOrder(order)
	r.s.carts[userID] = model.Cart{UserID: userID, Lines: []model.CartLine{}, Version: cart.Version + 1}
	return &stored, nil
}

func (r memoryOrders) Get(_ context.Context, id int64) (*model.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	order, ok := r.s.orders[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return &order, nil
}

func (r memoryOrders) List(_ context.Context, filter model.OrderFilter) (*model.OrderPage, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	matched := make([]model.Order, 0, len(r.s.orders))
	for _, order := range r.s.orders {
		if filter.UserID != "" && order.UserID != filter.UserID {
			continue
		}
		if filter.Status != "" && order.Status != filter.Status {
			continue
		}
		matched = append(matched, order)
	}
	sort.Slice(matched, func(i, j int) bool {
		less := matched[i].ID < matched[j].ID
		if filter.SortBy == model.OrderSortTotalPrice {
			if c := matched[i].TotalPrice.Cmp(matched[j].TotalPrice); c != 0 {
				less = c < 0
			}
		}
		if filter.Descending {
			return !less
		}
		return less
	})

	total := int64(len(matched))
	if filter.Offset > 0 {
		if filter.Offset >= len(matched) {
			matched = matched[:0]
		} else {
			matched = matched[filter.Offset:]
		}
	}
	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}
	return &model.OrderPage{Orders: matched, Total: total}, nil
}

func (r memoryOrders) ListAfter(_ context.Context, afterID int64, limit int) ([]model.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	out := make([]model.Order, 0)
	for _, order := range r.s.orders {
		if order.ID > afterID {
			out = append(out, order)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r memoryOrders) Update(_ context.Context, id int64, fn repository.OrderMutation) (*model.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	current, ok := r.s.orders[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	next, err := fn(current)
	if err == repository.ErrNoChange {
		return &current, nil
	}
	if err != nil {
		return nil, err
	}
	next.ID = current.ID
	next.OrderNumber = current.OrderNumber
	next.CreatedAt = current.CreatedAt
	next.Version = current.Version + 1
	next.UpdatedAt = current.UpdatedAt.Add(time.Minute)
	r.s.orders[id] = next
	return &next, nil
}

func (r memoryOrders) Delete(_ context.Context, ids []int64) ([]int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	deleted := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := r.s.orders[id]; ok {
			delete(r.s.orders, id)
			deleted = append(deleted, id)
		}
	}
	sort.Slice(deleted, func(i, j int) bool { return deleted[i] < deleted[j] })
	return deleted, nil
}

type memoryAnalytics struct{ s *MemoryStore }

func (r memoryAnalytics) CountByStatus(context.Context) (map[model.OrderStatus]int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	counts := make(map[model.OrderStatus]int64)
	for _, order := range r.s.orders {
		counts[order.Status]++
	}
	return counts, nil
}

func (r memoryAnalytics) ProfitByOrganization(context.Context) (map[string]money.Amount, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	profit := make(map[string]money.Amount)
	for _, order := range r.s.orders {
		for _, line := range order.Items {
			current, ok := profit[line.Organization]
			if !ok {
				current = money.Zero()
			}
			profit[line.Organization] = current.Add(line.TotalPrice)
		}
	}
	return profit, nil
}

var _ repository.Factory = (*MemoryStore)(nil)
