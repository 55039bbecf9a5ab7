package mongodb

import (
	"context"
	"fmt"
	"time"

	domainBooking "fourwheeler-backend/internal/domain/booking"
	"fourwheeler-backend/pkg/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type testDriveDocument struct {
	ID            string     `bson:"_id"`
	Name          string     `bson:"name"`
	Phone         string     `bson:"phone"`
	Email         string     `bson:"email"`
	CarID         string     `bson:"carId"`
	UserID        *string    `bson:"userId,omitempty"`
	PreferredDate *time.Time `bson:"preferredDate,omitempty"`
	Message       string     `bson:"message"`
	CreatedAt     time.Time  `bson:"createdAt"`
}

type TestDriveRepository struct {
	col *mongo.Collection
}

func NewTestDriveRepository(db *DB) domainBooking.Repository {
	return &TestDriveRepository{col: db.collection(testDrivesCollection)}
}

func (r *TestDriveRepository) Create(ctx context.Context, td *domainBooking.TestDrive) error {
	if td.ID == uuid.Nil {
		td.ID = uuid.New()
	}
	if td.CreatedAt.IsZero() {
		td.CreatedAt = time.Now()
	}

	doc := &testDriveDocument{
		ID:            td.ID.String(),
		Name:          td.Name,
		Phone:         td.Phone,
		Email:         td.Email,
		CarID:         td.CarID.String(),
		PreferredDate: td.PreferredDate,
		Message:       td.Message,
		CreatedAt:     td.CreatedAt,
	}
	if td.UserID != nil {
		userID := td.UserID.String()
		doc.UserID = &userID
	}

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to create test drive: %w", err)
	}
	return nil
}

func (r *TestDriveRepository) List(ctx context.Context, filter *domainBooking.Filter) ([]*domainBooking.TestDrive, int64, error) {
	query := bson.M{}
	if filter.CarID != nil {
		query["carId"] = filter.CarID.String()
	}

	total, err := r.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count test drives: %w", err)
	}

	cur, err := r.col.Find(ctx, query, findOptions("createdAt", utils.Offset(filter.Page, filter.PageSize), filter.PageSize))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list test drives: %w", err)
	}
	defer cur.Close(ctx)

	var docs []testDriveDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("failed to decode test drives: %w", err)
	}

	drives := make([]*domainBooking.TestDrive, 0, len(docs))
	for _, d := range docs {
		td := &domainBooking.TestDrive{
			ID:            parseID(d.ID),
			Name:          d.Name,
			Phone:         d.Phone,
			Email:         d.Email,
			CarID:         parseID(d.CarID),
			PreferredDate: d.PreferredDate,
			Message:       d.Message,
			CreatedAt:     d.CreatedAt,
		}
		if d.UserID != nil {
			userID := parseID(*d.UserID)
			td.UserID = &userID
		}
		drives = append(drives, td)
	}
	return drives, total, nil
}
