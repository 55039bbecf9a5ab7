package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	domainUser "fourwheeler-backend/internal/domain/user"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type resetDocument struct {
	ID                string     `bson:"_id"`
	Email             string     `bson:"email"`
	OTP               string     `bson:"otp"`
	ExpireAt          time.Time  `bson:"expireAt"`
	OTPVerifiedAt     *time.Time `bson:"otpVerifiedAt"`
	ResetTokenHash    *string    `bson:"resetTokenHash,omitempty"`
	ResetTokenExpires *time.Time `bson:"resetTokenExpires"`
	UsedAt            *time.Time `bson:"usedAt"`
	CreatedAt         time.Time  `bson:"createdAt"`
}

type PasswordResetRepository struct {
	col *mongo.Collection
}

func NewPasswordResetRepository(db *DB) domainUser.PasswordResetRepository {
	return &PasswordResetRepository{col: db.collection(resetsCollection)}
}

func (r *PasswordResetRepository) Create(ctx context.Context, req *domainUser.PasswordResetRequest) error {
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now()
	}

	doc := &resetDocument{
		ID:        req.ID.String(),
		Email:     req.Email,
		OTP:       req.OTP,
		ExpireAt:  req.ExpireAt,
		CreatedAt: req.CreatedAt,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to create password reset request: %w", err)
	}
	return nil
}

func (r *PasswordResetRepository) InvalidatePending(ctx context.Context, email string, at time.Time) error {
	_, err := r.col.UpdateMany(ctx,
		bson.M{"email": email, "usedAt": nil},
		bson.M{"$set": bson.M{"usedAt": at}},
	)
	if err != nil {
		return fmt.Errorf("failed to invalidate password reset requests: %w", err)
	}
	return nil
}

func (r *PasswordResetRepository) FindByOTP(ctx context.Context, email, otp string) (*domainUser.PasswordResetRequest, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return r.findOne(ctx, bson.M{"email": email, "otp": otp}, opts)
}

func (r *PasswordResetRepository) MarkOTPVerified(ctx context.Context, id uuid.UUID, tokenHash string, expires, at time.Time) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id.String(), "otpVerifiedAt": nil, "usedAt": nil},
		bson.M{"$set": bson.M{"otpVerifiedAt": at, "resetTokenHash": tokenHash, "resetTokenExpires": expires}},
	)
	if err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}
	if res.MatchedCount == 0 {
		return r.missOrUsed(ctx, id)
	}
	return nil
}

func (r *PasswordResetRepository) FindByResetTokenHash(ctx context.Context, tokenHash string) (*domainUser.PasswordResetRequest, error) {
	return r.findOne(ctx, bson.M{"resetTokenHash": tokenHash})
}

func (r *PasswordResetRepository) MarkUsed(ctx context.Context, id uuid.UUID, at time.Time) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id.String(), "usedAt": nil},
		bson.M{"$set": bson.M{"usedAt": at}},
	)
	if err != nil {
		return fmt.Errorf("failed to consume password reset request: %w", err)
	}
	if res.MatchedCount == 0 {
		return r.missOrUsed(ctx, id)
	}
	return nil
}

func (r *PasswordResetRepository) ReleaseUsed(ctx context.Context, id uuid.UUID, usedAt time.Time) error {
	_, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id.String(), "usedAt": usedAt},
		bson.M{"$set": bson.M{"usedAt": nil}},
	)
	if err != nil {
		return fmt.Errorf("failed to release password reset request: %w", err)
	}
	return nil
}

func (r *PasswordResetRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	res, err := r.col.DeleteMany(ctx, bson.M{
		"expireAt": bson.M{"$lt": before},
		"$or": bson.A{
			bson.M{"resetTokenExpires": nil},
			bson.M{"resetTokenExpires": bson.M{"$lt": before}},
		},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired password reset requests: %w", err)
	}
	return res.DeletedCount, nil
}

func (r *PasswordResetRepository) findOne(ctx context.Context, filter bson.M, opts ...*options.FindOneOptions) (*domainUser.PasswordResetRequest, error) {
	var doc resetDocument
	err := r.col.FindOne(ctx, filter, opts...).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domainUser.ErrResetRequestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get password reset request: %w", err)
	}
	return &domainUser.PasswordResetRequest{
		ID:                parseID(doc.ID),
		Email:             doc.Email,
		OTP:               doc.OTP,
		ExpireAt:          doc.ExpireAt,
		OTPVerifiedAt:     doc.OTPVerifiedAt,
		ResetTokenHash:    doc.ResetTokenHash,
		ResetTokenExpires: doc.ResetTokenExpires,
		UsedAt:            doc.UsedAt,
		CreatedAt:         doc.CreatedAt,
	}, nil
}

func (r *PasswordResetRepository) missOrUsed(ctx context.Context, id uuid.UUID) error {
	n, err := r.col.CountDocuments(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return fmt.Errorf("failed to get password reset request: %w", err)
	}
	if n == 0 {
		return domainUser.ErrResetRequestNotFound
	}
	return domainUser.ErrResetRequestUsed
}
