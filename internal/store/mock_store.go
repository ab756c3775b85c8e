// ABOUTME: Mock HealthStore implementation for testing
// ABOUTME: Allows command handler tests to run without SQLite

package store

import (
	"context"
	"errors"
	"sort"
	"sync"
)

var (
	errDuplicateID    = errors.New("UNIQUE constraint failed: id")
	errDuplicateEmail = errors.New("UNIQUE constraint failed: Users.email")
	errUnknownUser    = errors.New("FOREIGN KEY constraint failed")
)

// MockStore is an in-memory HealthStore for testing. It applies the same
// validation, uniqueness, foreign key and paging rules as SQLiteStore.
// Set Err to make every operation fail with it.
type MockStore struct {
	mu          sync.RWMutex
	initialized bool
	pageSize    int
	historySize int

	users       map[string]*User
	food        map[string]*FoodEntry
	glucose     map[string]*BloodGlucose
	medications map[string]*Medication
	chat        map[string]*ChatMessage

	Err error
}

// NewMockStore creates a new, already initialized MockStore.
func NewMockStore() *MockStore {
	return &MockStore{
		initialized: true,
		pageSize:    DefaultPageSize,
		historySize: DefaultHistoryLimit,
		users:       make(map[string]*User),
		food:        make(map[string]*FoodEntry),
		glucose:     make(map[string]*BloodGlucose),
		medications: make(map[string]*Medication),
		chat:        make(map[string]*ChatMessage),
	}
}

func (m *MockStore) fail(op string) error {
	if m.Err != nil {
		return classify(op, m.Err)
	}
	if !m.initialized {
		return newError(KindStorageUnavailable, op, errNotInitialized)
	}
	return nil
}

// Initialize marks the store ready.
func (m *MockStore) Initialize(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return classify("initialize", m.Err)
	}
	m.initialized = true
	return nil
}

// Close marks the store closed until the next Initialize.
func (m *MockStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.initialized = false
	return nil
}

// checkOwner reports a constraint violation for a duplicate id or an
// unknown userID.
// Callers must hold m.mu.
func (m *MockStore) checkOwner(op, userID string, exists bool) error {
	if exists {
		return newError(KindConstraintViolation, op, errDuplicateID)
	}
	if _, ok := m.users[userID]; !ok {
		return newError(KindConstraintViolation, op, errUnknownUser)
	}
	return nil
}

// CreateUser stores a copy of u.
func (m *MockStore) CreateUser(ctx context.Context, u *User) (*User, error) {
	const op = "create user"
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.fail(op); err != nil {
		return nil, err
	}
	if err := Validate(op, u); err != nil {
		return nil, err
	}
	if u.PasswordHash == "" || u.CreatedAt == "" {
		return nil, newError(KindConstraintViolation, op, errMissingImmutable)
	}
	if _, ok := m.users[u.ID]; ok {
		return nil, newError(KindConstraintViolation, op, errDuplicateID)
	}
	if m.findEmail(u.Email) != nil {
		return nil, newError(KindConstraintViolation, op, errDuplicateEmail)
	}

	c := *u
	m.users[c.ID] = &c
	return u, nil
}

func (m *MockStore) findEmail(email string) *User {
	for _, u := range m.users {
		if u.Email == email {
			return u
		}
	}
	return nil
}

// GetUserByEmail returns a copy of the matching user or nil.
func (m *MockStore) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.fail("get user by email"); err != nil {
		return nil, err
	}
	u := m.findEmail(email)
	if u == nil {
		return nil, nil
	}
	c := *u
	return &c, nil
}

// GetUserByID returns a copy of the matching user or nil.
func (m *MockStore) GetUserByID(ctx context.Context, id string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.fail("get user by id"); err != nil {
		return nil, err
	}
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	c := *u
	return &c, nil
}

// UpdateUser replaces the mutable fields of an existing user.
func (m *MockStore) UpdateUser(ctx context.Context, u *User) (*User, error) {
	const op = "update user"
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.fail(op); err != nil {
		return nil, err
	}
	if err := Validate(op, u); err != nil {
		return nil, err
	}
	existing, ok := m.users[u.ID]
	if !ok {
		return nil, newError(KindNotFound, op, nil)
	}
	if other := m.findEmail(u.Email); other != nil && other.ID != u.ID {
		return nil, newError(KindConstraintViolation, op, errDuplicateEmail)
	}

	c := *u
	c.PasswordHash = existing.PasswordHash
	c.CreatedAt = existing.CreatedAt
	m.users[c.ID] = &c

	out := c
	return &out, nil
}

// DeleteUser removes a user and every record it owns.
func (m *MockStore) DeleteUser(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.fail("delete user"); err != nil {
		return err
	}
	delete(m.users, id)
	for k, v := range m.food {
		if v.UserID == id {
			delete(m.food, k)
		}
	}
	for k, v := range m.glucose {
		if v.UserID == id {
			delete(m.glucose, k)
		}
	}
	for k, v := range m.medications {
		if v.UserID == id {
			delete(m.medications, k)
		}
	}
	for k, v := range m.chat {
		if v.UserID == id {
			delete(m.chat, k)
		}
	}
	return nil
}

// CreateFoodEntry stores a copy of e.
func (m *MockStore) CreateFoodEntry(ctx context.Context, e *FoodEntry) (*FoodEntry, error) {
	const op = "create food entry"
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.fail(op); err != nil {
		return nil, err
	}
	if err := Validate(op, e); err != nil {
		return nil, err
	}
	_, exists := m.food[e.ID]
	if err := m.checkOwner(op, e.UserID, exists); err != nil {
		return nil, err
	}
	c := *e
	m.food[c.ID] = &c
	return e, nil
}

// ListFoodEntries pages a user's food entries in the query range.
func (m *MockStore) ListFoodEntries(ctx context.Context, q RangeQuery) (*PagedResult[FoodEntry], error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.fail("list food entries"); err != nil {
		return nil, err
	}
	return mockPage(m.food, q, m.pageSize, func(e *FoodEntry) (string, string) {
		return e.UserID, e.CreatedAt
	}), nil
}

// DeleteFoodEntry removes a food entry if present.
func (m *MockStore) DeleteFoodEntry(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.fail("delete food entry"); err != nil {
		return err
	}
	delete(m.food, id)
	return nil
}

// GetFoodStats totals a user's food entries in [start, end).
func (m *MockStore) GetFoodStats(ctx context.Context, userID, start, end string) (*FoodStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.fail("get food stats"); err != nil {
		return nil, err
	}
	stats := &FoodStats{CaloriesByMeal: map[string]float64{}}
	for _, e := range m.food {
		if !inRange(e.UserID, e.CreatedAt, userID, start, end) {
			continue
		}
		stats.EntryCount++
		stats.TotalCalories += e.Calories
		stats.TotalCarbohydrates += e.Carbohydrates
		stats.TotalProtein += e.Protein
		stats.TotalFat += e.Fat
		stats.CaloriesByMeal[e.MealType.String()] += e.Calories
	}
	return stats, nil
}

// CreateBloodGlucose stores a copy of g.
func (m *MockStore) CreateBloodGlucose(ctx context.Context, g *BloodGlucose) (*BloodGlucose, error) {
	const op = "create blood glucose"
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.fail(op); err != nil {
		return nil, err
	}
	if err := Validate(op, g); err != nil {
		return nil, err
	}
	_, exists := m.glucose[g.ID]
	if err := m.checkOwner(op, g.UserID, exists); err != nil {
		return nil, err
	}
	c := *g
	m.glucose[c.ID] = &c
	return g, nil
}

// ListBloodGlucose pages a user's readings in the query range.
func (m *MockStore) ListBloodGlucose(ctx context.Context, q RangeQuery) (*PagedResult[BloodGlucose], error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.fail("list blood glucose"); err != nil {
		return nil, err
	}
	return mockPage(m.glucose, q, m.pageSize, func(g *BloodGlucose) (string, string) {
		return g.UserID, g.CreatedAt
	}), nil
}

// DeleteBloodGlucose removes a reading if present.
func (m *MockStore) DeleteBloodGlucose(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.fail("delete blood glucose"); err != nil {
		return err
	}
	delete(m.glucose, id)
	return nil
}

// GetGlucoseStats summarizes a user's readings in [start, end).
func (m *MockStore) GetGlucoseStats(ctx context.Context, userID, start, end string) (*GlucoseStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.fail("get glucose stats"); err != nil {
		return nil, err
	}
	stats := &GlucoseStats{AverageByMeasurementTime: map[string]float64{}}
	var sum float64
	sums := map[string]float64{}
	counts := map[string]int{}
	for _, g := range m.glucose {
		if !inRange(g.UserID, g.CreatedAt, userID, start, end) {
			continue
		}
		if stats.Count == 0 || g.Value < stats.Min {
			stats.Min = g.Value
		}
		if stats.Count == 0 || g.Value > stats.Max {
			stats.Max = g.Value
		}
		stats.Count++
		sum += g.Value
		key := g.MeasurementTime.String()
		sums[key] += g.Value
		counts[key]++
	}
	if stats.Count > 0 {
		stats.Average = sum / float64(stats.Count)
	}
	for k, v := range sums {
		stats.AverageByMeasurementTime[k] = v / float64(counts[k])
	}
	return stats, nil
}

// CreateMedication stores a copy of med.
func (m *MockStore) CreateMedication(ctx context.Context, med *Medication) (*Medication, error) {
	const op = "create medication"
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.fail(op); err != nil {
		return nil, err
	}
	if err := Validate(op, med); err != nil {
		return nil, err
	}
	_, exists := m.medications[med.ID]
	if err := m.checkOwner(op, med.UserID, exists); err != nil {
		return nil, err
	}
	c := *med
	m.medications[c.ID] = &c
	return med, nil
}

// ListMedications pages a user's medications in the query range.
func (m *MockStore) ListMedications(ctx context.Context, q RangeQuery) (*PagedResult[Medication], error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.fail("list medications"); err != nil {
		return nil, err
	}
	return mockPage(m.medications, q, m.pageSize, func(med *Medication) (string, string) {
		return med.UserID, med.CreatedAt
	}), nil
}

// MarkMedicationTaken flips is_taken and records actualTime.
func (m *MockStore) MarkMedicationTaken(ctx context.Context, id, actualTime string) error {
	const op = "mark medication taken"
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.fail(op); err != nil {
		return err
	}
	if actualTime == "" {
		return newError(KindConstraintViolation, op, errMissingActualTime)
	}
	med, ok := m.medications[id]
	if !ok {
		return newError(KindNotFound, op, nil)
	}
	med.IsTaken = true
	at := actualTime
	med.ActualTime = &at
	return nil
}

// DeleteMedication removes a medication if present.
func (m *MockStore) DeleteMedication(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.fail("delete medication"); err != nil {
		return err
	}
	delete(m.medications, id)
	return nil
}

// CreateChatMessage stores a copy of msg.
func (m *MockStore) CreateChatMessage(ctx context.Context, msg *ChatMessage) (*ChatMessage, error) {
	const op = "create chat message"
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.fail(op); err != nil {
		return nil, err
	}
	if err := Validate(op, msg); err != nil {
		return nil, err
	}
	_, exists := m.chat[msg.ID]
	if err := m.checkOwner(op, msg.UserID, exists); err != nil {
		return nil, err
	}
	c := *msg
	m.chat[c.ID] = &c
	return msg, nil
}

// GetChatHistory returns the newest limit messages for a user, newest first.
// A limit of zero or less uses the default history size.
func (m *MockStore) GetChatHistory(ctx context.Context, userID string, limit int) ([]ChatMessage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if err := m.fail("get chat history"); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = m.historySize
	}

	messages := []ChatMessage{}
	for _, msg := range m.chat {
		if msg.UserID == userID {
			messages = append(messages, *msg)
		}
	}
	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].CreatedAt > messages[j].CreatedAt
	})
	if len(messages) > limit {
		messages = messages[:limit]
	}
	return messages, nil
}

func inRange(owner, createdAt, userID, start, end string) bool {
	return owner == userID && createdAt >= start && createdAt < end
}

// mockPage filters, sorts newest first and slices records the way listRange does.
func mockPage[T any](records map[string]*T, q RangeQuery, defaultSize int, key func(*T) (string, string)) *PagedResult[T] {
	q = q.normalize(defaultSize)

	type keyed struct {
		createdAt string
		item      T
	}
	var matched []keyed
	for _, r := range records {
		owner, createdAt := key(r)
		if inRange(owner, createdAt, q.UserID, q.StartDate, q.EndDate) {
			matched = append(matched, keyed{createdAt: createdAt, item: *r})
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].createdAt > matched[j].createdAt
	})

	result := &PagedResult[T]{
		Items:    []T{},
		Total:    int64(len(matched)),
		Page:     q.Page,
		PageSize: q.PageSize,
	}
	for i := q.Offset(); i < len(matched) && i < q.Offset()+q.PageSize; i++ {
		result.Items = append(result.Items, matched[i].item)
	}
	return result
}

// Ensure MockStore implements HealthStore
var _ HealthStore = (*MockStore)(nil)
