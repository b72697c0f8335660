package usecase_test

import (
	"context"
	"sync"
	"time"

	"github.com/assetdesk/assetdesk/internal/config"
	"github.com/assetdesk/assetdesk/internal/usecase"

	"github.com/google/uuid"
)

// fakeRepo is an in-memory Repository for exercising the domain rules
// without a database. Methods take the lock because notification
// writes happen on background goroutines.
type fakeRepo struct {
	mu sync.Mutex

	users         map[uuid.UUID]usecase.User
	authUsers     map[string]usecase.AuthUser
	assetTypes    map[uuid.UUID]usecase.AssetType
	configs       map[uuid.UUID]usecase.AssetConfiguration
	assets        map[uuid.UUID]usecase.Asset
	assignments   map[uuid.UUID]usecase.AssetAssignment
	history       []usecase.AssetHistory
	requests      map[uuid.UUID]usecase.Request
	jobs          map[uuid.UUID]usecase.Job
	notifications map[uuid.UUID]usecase.Notification
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		users:         map[uuid.UUID]usecase.User{},
		authUsers:     map[string]usecase.AuthUser{},
		assetTypes:    map[uuid.UUID]usecase.AssetType{},
		configs:       map[uuid.UUID]usecase.AssetConfiguration{},
		assets:        map[uuid.UUID]usecase.Asset{},
		assignments:   map[uuid.UUID]usecase.AssetAssignment{},
		requests:      map[uuid.UUID]usecase.Request{},
		jobs:          map[uuid.UUID]usecase.Job{},
		notifications: map[uuid.UUID]usecase.Notification{},
	}
}

func newTestUsecase(repo *fakeRepo) usecase.Usecase {
	return usecase.New(repo, nil, nil, nil, nil)
}

func authCtx(id uuid.UUID, role usecase.Role) context.Context {
	ctx := context.WithValue(context.Background(), config.CTX_KEY_USER_ID, id)
	return context.WithValue(ctx, config.CTX_KEY_USER_ROLE, role)
}

func (f *fakeRepo) addUser(role usecase.Role) usecase.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := usecase.User{
		ID:    uuid.New(),
		Name:  "Test " + string(role),
		Email: uuid.NewString() + "@example.com",
		Role:  role,
	}
	f.users[u.ID] = u
	return u
}

func (f *fakeRepo) addAsset(status usecase.AssetStatus) usecase.Asset {
	f.mu.Lock()
	defer f.mu.Unlock()
	a := usecase.Asset{
		ID:       uuid.New(),
		Name:     "MacBook Pro",
		Category: "laptop",
		Status:   status,
	}
	f.assets[a.ID] = a
	return a
}

func (f *fakeRepo) historyActions(assetID uuid.UUID) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var actions []string
	for _, h := range f.history {
		if h.AssetID == assetID {
			actions = append(actions, h.Action)
		}
	}
	return actions
}

func (f *fakeRepo) Health() map[string]string { return map[string]string{"status": "up"} }
func (f *fakeRepo) Close() error              { return nil }

func (f *fakeRepo) ListUsers(_ context.Context, opt usecase.ListUsersOption) ([]usecase.User, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var list []usecase.User
	for _, u := range f.users {
		if opt.Role != "" && u.Role != opt.Role {
			continue
		}
		list = append(list, u)
	}
	return list, len(list), nil
}

func (f *fakeRepo) GetUserByID(_ context.Context, id uuid.UUID) (usecase.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return usecase.User{}, usecase.ErrNotFound{Message: "User not found"}
	}
	return u, nil
}

func (f *fakeRepo) CreateUser(_ context.Context, u usecase.User) (usecase.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u.ID = uuid.New()
	if u.Role == "" {
		u.Role = usecase.RoleUser
	}
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeRepo) UpdateUser(_ context.Context, u usecase.User) (usecase.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeRepo) CreateAuthUser(_ context.Context, au usecase.AuthUser) (usecase.AuthUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.authUsers[au.UID] = au
	return au, nil
}

func (f *fakeRepo) GetAuthUserByUID(_ context.Context, uid string) (usecase.AuthUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	au, ok := f.authUsers[uid]
	if !ok {
		return usecase.AuthUser{}, usecase.ErrNotFound{Message: "User not found"}
	}
	return au, nil
}

func (f *fakeRepo) ListAssetTypes(_ context.Context, opt usecase.ListAssetTypesOption) ([]usecase.AssetType, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var list []usecase.AssetType
	for _, at := range f.assetTypes {
		if opt.Name != "" && at.Name != opt.Name {
			continue
		}
		if !opt.IncludeInactive && !at.IsActive {
			continue
		}
		list = append(list, at)
	}
	return list, len(list), nil
}

func (f *fakeRepo) GetAssetTypeByID(_ context.Context, id uuid.UUID) (usecase.AssetType, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	at, ok := f.assetTypes[id]
	if !ok {
		return usecase.AssetType{}, usecase.ErrNotFound{Message: "Asset type not found"}
	}
	return at, nil
}

func (f *fakeRepo) CreateAssetType(_ context.Context, at usecase.AssetType) (usecase.AssetType, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.assetTypes {
		if existing.Name == at.Name {
			return usecase.AssetType{}, usecase.ErrConflict{Message: "Asset type with this name already exists"}
		}
	}
	at.ID = uuid.New()
	f.assetTypes[at.ID] = at
	return at, nil
}

func (f *fakeRepo) UpdateAssetType(_ context.Context, at usecase.AssetType) (usecase.AssetType, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.assetTypes[at.ID] = at
	return at, nil
}

func (f *fakeRepo) ListAssetConfigurations(_ context.Context, assetTypeID uuid.UUID) ([]usecase.AssetConfiguration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var list []usecase.AssetConfiguration
	for _, c := range f.configs {
		if c.AssetTypeID == assetTypeID {
			list = append(list, c)
		}
	}
	return list, nil
}

func (f *fakeRepo) CreateAssetConfiguration(_ context.Context, c usecase.AssetConfiguration) (usecase.AssetConfiguration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c.ID = uuid.New()
	f.configs[c.ID] = c
	return c, nil
}

func (f *fakeRepo) UpdateAssetConfiguration(_ context.Context, c usecase.AssetConfiguration) (usecase.AssetConfiguration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.configs[c.ID] = c
	return c, nil
}

func (f *fakeRepo) DeleteAssetConfiguration(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.configs[id]; !ok {
		return usecase.ErrNotFound{Message: "Configuration not found"}
	}
	delete(f.configs, id)
	return nil
}

func (f *fakeRepo) ListAssets(_ context.Context, opt usecase.ListAssetsOption) ([]usecase.Asset, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var list []usecase.Asset
	for id, a := range f.assets {
		if opt.Status != "" && a.Status != opt.Status {
			continue
		}
		if opt.Category != "" && a.Category != opt.Category {
			continue
		}
		list = append(list, f.withOpenAssignment(f.assets[id]))
	}
	return list, len(list), nil
}

func (f *fakeRepo) GetAssetByID(_ context.Context, id uuid.UUID) (usecase.Asset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.assets[id]
	if !ok {
		return usecase.Asset{}, usecase.ErrNotFound{Message: "Asset not found"}
	}
	return f.withOpenAssignment(a), nil
}

// withOpenAssignment mirrors the open-assignment preload. Callers must
// hold the lock.
func (f *fakeRepo) withOpenAssignment(a usecase.Asset) usecase.Asset {
	for _, asg := range f.assignments {
		if asg.AssetID == a.ID && asg.ReturnedAt == nil {
			tmp := asg
			if holder, ok := f.users[asg.UserID]; ok {
				tmp.User = &holder
			}
			a.Assignment = &tmp
			break
		}
	}
	return a
}

func (f *fakeRepo) CreateAsset(_ context.Context, a usecase.Asset, h usecase.AssetHistory) (usecase.Asset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a.ID = uuid.New()
	f.assets[a.ID] = a
	h.ID = uuid.New()
	h.AssetID = a.ID
	h.CreatedAt = time.Now()
	f.history = append(f.history, h)
	return a, nil
}

func (f *fakeRepo) UpdateAsset(_ context.Context, a usecase.Asset) (usecase.Asset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.assets[a.ID]; !ok {
		return usecase.Asset{}, usecase.ErrNotFound{Message: "Asset not found"}
	}
	f.assets[a.ID] = a
	return a, nil
}

func (f *fakeRepo) UpdateAssetStatus(_ context.Context, id uuid.UUID, status usecase.AssetStatus, h usecase.AssetHistory) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.assets[id]
	if !ok {
		return usecase.ErrNotFound{Message: "Asset not found"}
	}
	a.Status = status
	f.assets[id] = a
	h.ID = uuid.New()
	h.AssetID = id
	h.CreatedAt = time.Now()
	f.history = append(f.history, h)
	return nil
}

func (f *fakeRepo) AssignAsset(_ context.Context, a usecase.AssetAssignment, h usecase.AssetHistory) (usecase.AssetAssignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	// Partial unique index: one open assignment per asset.
	for _, existing := range f.assignments {
		if existing.AssetID == a.AssetID && existing.ReturnedAt == nil {
			return usecase.AssetAssignment{}, usecase.ErrConflict{Message: "Asset is already assigned to another user"}
		}
	}
	a.ID = uuid.New()
	f.assignments[a.ID] = a

	asset := f.assets[a.AssetID]
	asset.Status = usecase.AssetStatusAssigned
	f.assets[a.AssetID] = asset

	h.ID = uuid.New()
	h.AssetID = a.AssetID
	h.CreatedAt = time.Now()
	f.history = append(f.history, h)
	return a, nil
}

func (f *fakeRepo) CloseAssignment(_ context.Context, opt usecase.CloseAssignmentOption) (usecase.AssetAssignment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.assignments[opt.AssignmentID]
	if !ok || a.ReturnedAt != nil {
		return usecase.AssetAssignment{}, usecase.ErrConflict{Message: "Asset is not currently assigned"}
	}
	returnedAt := opt.ReturnedAt
	a.ReturnedAt = &returnedAt
	a.Notes = opt.Notes
	f.assignments[a.ID] = a

	asset := f.assets[a.AssetID]
	asset.Status = opt.NewStatus
	f.assets[a.AssetID] = asset

	h := opt.History
	h.ID = uuid.New()
	h.AssetID = a.AssetID
	h.CreatedAt = time.Now()
	f.history = append(f.history, h)
	return a, nil
}

func (f *fakeRepo) ListAssignments(_ context.Context, opt usecase.ListAssignmentsOption) ([]usecase.AssetAssignment, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var list []usecase.AssetAssignment
	for _, a := range f.assignments {
		if opt.AssetID != uuid.Nil && a.AssetID != opt.AssetID {
			continue
		}
		if opt.UserID != uuid.Nil && a.UserID != opt.UserID {
			continue
		}
		if opt.IsActive && a.ReturnedAt != nil {
			continue
		}
		list = append(list, a)
	}
	return list, len(list), nil
}

func (f *fakeRepo) ListAssetHistory(_ context.Context, opt usecase.ListAssetHistoryOption) ([]usecase.AssetHistory, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var list []usecase.AssetHistory
	for _, h := range f.history {
		if opt.AssetID != uuid.Nil && h.AssetID != opt.AssetID {
			continue
		}
		if opt.Action != "" && h.Action != opt.Action {
			continue
		}
		list = append(list, h)
	}
	return list, len(list), nil
}

func (f *fakeRepo) ListRequests(_ context.Context, opt usecase.ListRequestsOption) ([]usecase.Request, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var list []usecase.Request
	for _, r := range f.requests {
		if opt.RequestedBy != uuid.Nil && r.RequestedBy != opt.RequestedBy {
			continue
		}
		if opt.Status != "" && r.Status != opt.Status {
			continue
		}
		if opt.Type != "" && r.Type != opt.Type {
			continue
		}
		list = append(list, r)
	}
	return list, len(list), nil
}

func (f *fakeRepo) GetRequestByID(_ context.Context, id uuid.UUID) (usecase.Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.requests[id]
	if !ok {
		return usecase.Request{}, usecase.ErrNotFound{Message: "Request not found"}
	}
	return r, nil
}

func (f *fakeRepo) CreateRequest(_ context.Context, r usecase.Request) (usecase.Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r.ID = uuid.New()
	r.CreatedAt = time.Now()
	f.requests[r.ID] = r
	return r, nil
}

func (f *fakeRepo) UpdateRequest(_ context.Context, r usecase.Request, from usecase.RequestStatus) (usecase.Request, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cur, ok := f.requests[r.ID]
	if !ok {
		return usecase.Request{}, usecase.ErrNotFound{Message: "Request not found"}
	}
	if cur.Status != from {
		return usecase.Request{}, usecase.ErrConflict{Message: "Request is no longer " + string(from)}
	}
	f.requests[r.ID] = r
	return r, nil
}

func (f *fakeRepo) CreateJob(_ context.Context, j usecase.Job) (usecase.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	j.ID = uuid.New()
	j.CreatedAt = time.Now()
	f.jobs[j.ID] = j
	return j, nil
}

func (f *fakeRepo) GetJobByID(_ context.Context, id uuid.UUID) (usecase.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	j, ok := f.jobs[id]
	if !ok {
		return usecase.Job{}, usecase.ErrNotFound{Message: "Job not found"}
	}
	return j, nil
}

func (f *fakeRepo) UpdateJob(_ context.Context, j usecase.Job) (usecase.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.jobs[j.ID] = j
	return j, nil
}

func (f *fakeRepo) ListJobs(_ context.Context, opt usecase.ListJobsOption) ([]usecase.Job, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var list []usecase.Job
	for _, j := range f.jobs {
		if opt.CreatedBy != uuid.Nil && j.CreatedBy != opt.CreatedBy {
			continue
		}
		list = append(list, j)
	}
	return list, len(list), nil
}

func (f *fakeRepo) CreateNotification(_ context.Context, n usecase.Notification) (usecase.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n.ID = uuid.New()
	n.CreatedAt = time.Now()
	f.notifications[n.ID] = n
	return n, nil
}

func (f *fakeRepo) GetNotificationByID(_ context.Context, id uuid.UUID) (usecase.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.notifications[id]
	if !ok {
		return usecase.Notification{}, usecase.ErrNotFound{Message: "Notification not found"}
	}
	return n, nil
}

func (f *fakeRepo) ListNotifications(_ context.Context, opt usecase.ListNotificationsOption) ([]usecase.Notification, int, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var (
		list   []usecase.Notification
		unread int
	)
	for _, n := range f.notifications {
		if n.UserID != opt.UserID {
			continue
		}
		if n.ReadAt == nil {
			unread++
		}
		list = append(list, n)
	}
	return list, unread, len(list), nil
}

func (f *fakeRepo) ReadNotification(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.notifications[id]
	if !ok {
		return usecase.ErrNotFound{Message: "Notification not found"}
	}
	now := time.Now()
	n.ReadAt = &now
	f.notifications[id] = n
	return nil
}
