package memory

import (
	"context"
	"time"

	domainUser "fourwheeler-backend/internal/domain/user"

	"github.com/google/uuid"
)

type PasswordResetRepository struct {
	store *Store
}

func NewPasswordResetRepository(store *Store) domainUser.PasswordResetRepository {
	return &PasswordResetRepository{store: store}
}

func (r *PasswordResetRepository) Create(_ context.Context, req *domainUser.PasswordResetRequest) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now()
	}
	r.store.resets[req.ID] = cloneReset(req)
	return nil
}

func (r *PasswordResetRepository) InvalidatePending(_ context.Context, email string, at time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, req := range r.store.resets {
		if req.Email == email && req.UsedAt == nil {
			t := at
			req.UsedAt = &t
		}
	}
	return nil
}

func (r *PasswordResetRepository) FindByOTP(_ context.Context, email, otp string) (*domainUser.PasswordResetRequest, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var latest *domainUser.PasswordResetRequest
	for _, req := range r.store.resets {
		if req.Email != email || req.OTP != otp {
			continue
		}
		if latest == nil || req.CreatedAt.After(latest.CreatedAt) {
			latest = req
		}
	}
	if latest == nil {
		return nil, domainUser.ErrResetRequestNotFound
	}
	return cloneReset(latest), nil
}

func (r *PasswordResetRepository) MarkOTPVerified(_ context.Context, id uuid.UUID, tokenHash string, expires, at time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	req, ok := r.store.resets[id]
	if !ok {
		return domainUser.ErrResetRequestNotFound
	}
	if req.OTPVerifiedAt != nil || req.UsedAt != nil {
		return domainUser.ErrResetRequestUsed
	}
	req.OTPVerifiedAt = &at
	req.ResetTokenHash = &tokenHash
	req.ResetTokenExpires = &expires
	return nil
}

func (r *PasswordResetRepository) FindByResetTokenHash(_ context.Context, tokenHash string) (*domainUser.PasswordResetRequest, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, req := range r.store.resets {
		if req.ResetTokenHash != nil && *req.ResetTokenHash == tokenHash {
			return cloneReset(req), nil
		}
	}
	return nil, domainUser.ErrResetRequestNotFound
}

func (r *PasswordResetRepository) MarkUsed(_ context.Context, id uuid.UUID, at time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	req, ok := r.store.resets[id]
	if !ok {
		return domainUser.ErrResetRequestNotFound
	}
	if req.UsedAt != nil {
		return domainUser.ErrResetRequestUsed
	}
	req.UsedAt = &at
	return nil
}

func (r *PasswordResetRepository) ReleaseUsed(_ context.Context, id uuid.UUID, usedAt time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	req, ok := r.store.resets[id]
	if !ok {
		return domainUser.ErrResetRequestNotFound
	}
	if req.UsedAt != nil && req.UsedAt.Equal(usedAt) {
		req.UsedAt = nil
	}
	return nil
}

func (r *PasswordResetRepository) DeleteExpired(_ context.Context, before time.Time) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var deleted int64
	for id, req := range r.store.resets {
		if !req.ExpireAt.Before(before) {
			continue
		}
		if req.ResetTokenExpires != nil && !req.ResetTokenExpires.Before(before) {
			continue
		}
		delete(r.store.resets, id)
		deleted++
	}
	return deleted, nil
}

func cloneReset(req *domainUser.PasswordResetRequest) *domainUser.PasswordResetRequest {
	c := *req
	c.OTPVerifiedAt = clonePtr(req.OTPVerifiedAt)
	c.ResetTokenHash = clonePtr(req.ResetTokenHash)
	c.ResetTokenExpires = clonePtr(req.ResetTokenExpires)
	c.UsedAt = clonePtr(req.UsedAt)
	return &c
}
