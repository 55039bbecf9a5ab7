package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	domainUser "fourwheeler-backend/internal/domain/user"
	"fourwheeler-backend/pkg/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type userDocument struct {
	ID        string     `bson:"_id"`
	Username  string     `bson:"username"`
	Email     string     `bson:"email"`
	Password  string     `bson:"password"`
	Role      string     `bson:"role"`
	Status    string     `bson:"status"`
	Phone     *string    `bson:"phone,omitempty"`
	Avatar    *string    `bson:"avatar,omitempty"`
	Favorites []string   `bson:"favorites"`
	Deleted   bool       `bson:"deleted"`
	DeletedAt *time.Time `bson:"deletedAt,omitempty"`
	CreatedAt time.Time  `bson:"createdAt"`
	UpdatedAt time.Time  `bson:"updatedAt"`
}

type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *DB) domainUser.Repository {
	return &UserRepository{col: db.collection(usersCollection)}
}

func (r *UserRepository) Create(ctx context.Context, u *domainUser.User) error {
	now := time.Now()
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now

	if _, err := r.col.InsertOne(ctx, toUserDocument(u)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return duplicateUserError(err)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, userID uuid.UUID) (*domainUser.User, error) {
	return r.findOne(ctx, bson.M{"_id": userID.String(), "deleted": notDeleted})
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domainUser.User, error) {
	return r.findOne(ctx, bson.M{"email": email, "deleted": notDeleted})
}

func (r *UserRepository) List(ctx context.Context, filter *domainUser.Filter) ([]*domainUser.User, int64, error) {
	query := bson.M{}
	if !filter.IncludeDeleted {
		query["deleted"] = notDeleted
	}

	total, err := r.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	cur, err := r.col.Find(ctx, query, findOptions("createdAt", utils.Offset(filter.Page, filter.PageSize), filter.PageSize))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	defer cur.Close(ctx)

	var docs []userDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("failed to decode users: %w", err)
	}

	users := make([]*domainUser.User, 0, len(docs))
	for i := range docs {
		users = append(users, toUserEntity(&docs[i]))
	}
	return users, total, nil
}

func (r *UserRepository) Update(ctx context.Context, u *domainUser.User) error {
	u.UpdatedAt = time.Now()
	set := bson.M{
		"username":  u.Username,
		"status":    u.Status,
		"phone":     u.Phone,
		"avatar":    u.Avatar,
		"updatedAt": u.UpdatedAt,
	}
	return r.updateActive(ctx, u.ID, bson.M{"$set": set})
}

func (r *UserRepository) UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	return r.updateActive(ctx, userID, bson.M{"$set": bson.M{"password": passwordHash, "updatedAt": time.Now()}})
}

func (r *UserRepository) SoftDelete(ctx context.Context, userID uuid.UUID, at time.Time) error {
	return r.updateActive(ctx, userID, bson.M{"$set": bson.M{"deleted": true, "deletedAt": at, "updatedAt": at}})
}

func (r *UserRepository) AddFavorite(ctx context.Context, userID, carID uuid.UUID) error {
	return r.updateActive(ctx, userID, bson.M{"$addToSet": bson.M{"favorites": carID.String()}})
}

func (r *UserRepository) RemoveFavorite(ctx context.Context, userID, carID uuid.UUID) error {
	return r.updateActive(ctx, userID, bson.M{"$pull": bson.M{"favorites": carID.String()}})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domainUser.User, error) {
	var doc userDocument
	err := r.col.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domainUser.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return toUserEntity(&doc), nil
}

func (r *UserRepository) updateActive(ctx context.Context, userID uuid.UUID, update bson.M) error {
	res, err := r.col.UpdateOne(ctx, bson.M{"_id": userID.String(), "deleted": notDeleted}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return duplicateUserError(err)
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return domainUser.ErrUserNotFound
	}
	return nil
}

func duplicateUserError(err error) error {
	switch {
	case isDuplicateOn(err, usernameIndex):
		return domainUser.ErrUsernameTaken
	case isDuplicateOn(err, emailIndex):
		return domainUser.ErrEmailTaken
	default:
		return domainUser.ErrUserAlreadyExists
	}
}

func toUserDocument(u *domainUser.User) *userDocument {
	favorites := make([]string, 0, len(u.Favorites))
	for _, id := range u.Favorites {
		favorites = append(favorites, id.String())
	}
	return &userDocument{
		ID:        u.ID.String(),
		Username:  u.Username,
		Email:     u.Email,
		Password:  u.PasswordHash,
		Role:      u.Role,
		Status:    u.Status,
		Phone:     u.Phone,
		Avatar:    u.Avatar,
		Favorites: favorites,
		Deleted:   u.Deleted,
		DeletedAt: u.DeletedAt,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func toUserEntity(d *userDocument) *domainUser.User {
	favorites := make([]uuid.UUID, 0, len(d.Favorites))
	for _, id := range d.Favorites {
		if parsed := parseID(id); parsed != uuid.Nil {
			favorites = append(favorites, parsed)
		}
	}
	return &domainUser.User{
		ID:           parseID(d.ID),
		Username:     d.Username,
		Email:        d.Email,
		PasswordHash: d.Password,
		Role:         d.Role,
		Status:       d.Status,
		Phone:        d.Phone,
		Avatar:       d.Avatar,
		Favorites:    favorites,
		Deleted:      d.Deleted,
		DeletedAt:    d.DeletedAt,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}
