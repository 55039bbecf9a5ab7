package memory

import (
	"context"
	"sort"
	"time"

	domainUser "fourwheeler-backend/internal/domain/user"
	"fourwheeler-backend/pkg/utils"

	"github.com/google/uuid"
)

type UserRepository struct {
	store *Store
}

func NewUserRepository(store *Store) domainUser.Repository {
	return &UserRepository{store: store}
}

func (r *UserRepository) Create(_ context.Context, u *domainUser.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.users {
		if existing.Username == u.Username {
			return domainUser.ErrUsernameTaken
		}
		if existing.Email == u.Email {
			return domainUser.ErrEmailTaken
		}
	}

	now := time.Now()
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	if u.Favorites == nil {
		u.Favorites = []uuid.UUID{}
	}

	r.store.users[u.ID] = cloneUser(u)
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, userID uuid.UUID) (*domainUser.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	u, ok := r.store.users[userID]
	if !ok || u.Deleted {
		return nil, domainUser.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*domainUser.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, u := range r.store.users {
		if u.Email == email && !u.Deleted {
			return cloneUser(u), nil
		}
	}
	return nil, domainUser.ErrUserNotFound
}

func (r *UserRepository) List(_ context.Context, filter *domainUser.Filter) ([]*domainUser.User, int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var matched []*domainUser.User
	for _, u := range r.store.users {
		if u.Deleted && !filter.IncludeDeleted {
			continue
		}
		matched = append(matched, cloneUser(u))
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	return page(matched, utils.Offset(filter.Page, filter.PageSize), filter.PageSize), total, nil
}

func (r *UserRepository) Update(_ context.Context, u *domainUser.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	existing, ok := r.store.users[u.ID]
	if !ok || existing.Deleted {
		return domainUser.ErrUserNotFound
	}
	for id, other := range r.store.users {
		if id != u.ID && other.Username == u.Username {
			return domainUser.ErrUsernameTaken
		}
	}

	existing.Username = u.Username
	existing.Phone = clonePtr(u.Phone)
	existing.Avatar = clonePtr(u.Avatar)
	existing.Status = u.Status
	existing.UpdatedAt = time.Now()
	u.UpdatedAt = existing.UpdatedAt
	return nil
}

func (r *UserRepository) UpdatePassword(_ context.Context, userID uuid.UUID, passwordHash string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	u, ok := r.store.users[userID]
	if !ok || u.Deleted {
		return domainUser.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	u.UpdatedAt = time.Now()
	return nil
}

func (r *UserRepository) SoftDelete(_ context.Context, userID uuid.UUID, at time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	u, ok := r.store.users[userID]
	if !ok || u.Deleted {
		return domainUser.ErrUserNotFound
	}
	u.Deleted = true
	u.DeletedAt = &at
	u.UpdatedAt = at
	return nil
}

func (r *UserRepository) AddFavorite(_ context.Context, userID, carID uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	u, ok := r.store.users[userID]
	if !ok || u.Deleted {
		return domainUser.ErrUserNotFound
	}
	if !u.HasFavorite(carID) {
		u.Favorites = append(u.Favorites, carID)
	}
	return nil
}

func (r *UserRepository) RemoveFavorite(_ context.Context, userID, carID uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	u, ok := r.store.users[userID]
	if !ok || u.Deleted {
		return domainUser.ErrUserNotFound
	}
	kept := u.Favorites[:0]
	for _, id := range u.Favorites {
		if id != carID {
			kept = append(kept, id)
		}
	}
	u.Favorites = kept
	return nil
}

func cloneUser(u *domainUser.User) *domainUser.User {
	c := *u
	c.Phone = clonePtr(u.Phone)
	c.Avatar = clonePtr(u.Avatar)
	c.DeletedAt = clonePtr(u.DeletedAt)
	c.Favorites = append([]uuid.UUID{}, u.Favorites...)
	return &c
}
