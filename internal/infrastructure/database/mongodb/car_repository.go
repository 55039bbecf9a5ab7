package mongodb

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	domainCar "fourwheeler-backend/internal/domain/car"
	"fourwheeler-backend/pkg/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type carDocument struct {
	ID           string     `bson:"_id"`
	Make         string     `bson:"make"`
	Model        string     `bson:"model"`
	Year         int        `bson:"year"`
	Price        float64    `bson:"price"`
	Color        string     `bson:"color"`
	Category     string     `bson:"category"`
	Seats        int        `bson:"seats"`
	Transmission string     `bson:"transmission"`
	FuelType     string     `bson:"fuelType"`
	Engine       string     `bson:"engine"`
	Horsepower   *int       `bson:"horsepower,omitempty"`
	Images       []string   `bson:"images"`
	Description  string     `bson:"description"`
	Status       string     `bson:"status"`
	Deleted      bool       `bson:"deleted"`
	DeletedAt    *time.Time `bson:"deletedAt,omitempty"`
	CreatedAt    time.Time  `bson:"createdAt"`
	UpdatedAt    time.Time  `bson:"updatedAt"`
}

type CarRepository struct {
	col *mongo.Collection
}

func NewCarRepository(db *DB) domainCar.Repository {
	return &CarRepository{col: db.collection(carsCollection)}
}

func (r *CarRepository) Create(ctx context.Context, c *domainCar.Car) error {
	now := time.Now()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now

	if _, err := r.col.InsertOne(ctx, toCarDocument(c)); err != nil {
		if isDuplicateOn(err, makeModelIndex) {
			return domainCar.ErrCarAlreadyExists
		}
		return fmt.Errorf("failed to create car: %w", err)
	}
	return nil
}

func (r *CarRepository) GetByID(ctx context.Context, carID uuid.UUID, includeDeleted bool) (*domainCar.Car, error) {
	filter := bson.M{"_id": carID.String()}
	if !includeDeleted {
		filter["deleted"] = notDeleted
	}
	return r.findOne(ctx, filter)
}

func (r *CarRepository) FindActiveByMakeModel(ctx context.Context, carMake, model string) (*domainCar.Car, error) {
	return r.findOne(ctx, bson.M{"make": carMake, "model": model, "deleted": notDeleted})
}

func (r *CarRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*domainCar.Car, error) {
	if len(ids) == 0 {
		return []*domainCar.Car{}, nil
	}
	keys := make(bson.A, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, id.String())
	}

	cars, err := r.find(ctx, bson.M{"_id": bson.M{"$in": keys}, "deleted": notDeleted}, 0, 0)
	if err != nil {
		return nil, err
	}
	return cars, nil
}

func (r *CarRepository) Update(ctx context.Context, c *domainCar.Car) error {
	c.UpdatedAt = time.Now()
	set := bson.M{
		"make":         c.Make,
		"model":        c.Model,
		"year":         c.Year,
		"price":        c.Price,
		"color":        c.Color,
		"category":     c.Category,
		"seats":        c.Seats,
		"transmission": c.Transmission,
		"fuelType":     c.FuelType,
		"engine":       c.Engine,
		"horsepower":   c.Horsepower,
		"images":       c.Images,
		"description":  c.Description,
		"status":       string(c.Status),
		"updatedAt":    c.UpdatedAt,
	}
	return r.update(ctx, bson.M{"_id": c.ID.String()}, bson.M{"$set": set})
}

func (r *CarRepository) SoftDelete(ctx context.Context, carID uuid.UUID, at time.Time) error {
	return r.update(ctx,
		bson.M{"_id": carID.String(), "deleted": notDeleted},
		bson.M{"$set": bson.M{"deleted": true, "deletedAt": at, "updatedAt": at}},
	)
}

func (r *CarRepository) Restore(ctx context.Context, carID uuid.UUID) error {
	return r.update(ctx,
		bson.M{"_id": carID.String()},
		bson.M{"$set": bson.M{"deleted": false, "updatedAt": time.Now()}, "$unset": bson.M{"deletedAt": ""}},
	)
}

func (r *CarRepository) AppendImages(ctx context.Context, carID uuid.UUID, urls []string) error {
	return r.update(ctx,
		bson.M{"_id": carID.String()},
		bson.M{
			"$push": bson.M{"images": bson.M{"$each": urls}},
			"$set":  bson.M{"updatedAt": time.Now()},
		},
	)
}

func (r *CarRepository) List(ctx context.Context, filter *domainCar.Filter) ([]*domainCar.Car, int64, error) {
	query := bson.M{}
	if !filter.IncludeDeleted {
		query["deleted"] = notDeleted
	}
	if filter.Category != "" {
		query["category"] = primitive.Regex{Pattern: "^" + regexp.QuoteMeta(filter.Category) + "$", Options: "i"}
	}
	if filter.Status != nil {
		query["status"] = string(*filter.Status)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(search), Options: "i"}
		query["$or"] = bson.A{
			bson.M{"make": pattern},
			bson.M{"model": pattern},
		}
	}

	total, err := r.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count cars: %w", err)
	}

	cars, err := r.find(ctx, query, utils.Offset(filter.Page, filter.PageSize), filter.PageSize)
	if err != nil {
		return nil, 0, err
	}
	return cars, total, nil
}

func (r *CarRepository) find(ctx context.Context, query bson.M, offset, limit int) ([]*domainCar.Car, error) {
	cur, err := r.col.Find(ctx, query, findOptions("createdAt", offset, limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list cars: %w", err)
	}
	defer cur.Close(ctx)

	var docs []carDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode cars: %w", err)
	}

	cars := make([]*domainCar.Car, 0, len(docs))
	for i := range docs {
		cars = append(cars, toCarEntity(&docs[i]))
	}
	return cars, nil
}

func (r *CarRepository) findOne(ctx context.Context, filter bson.M) (*domainCar.Car, error) {
	var doc carDocument
	err := r.col.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domainCar.ErrCarNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get car: %w", err)
	}
	return toCarEntity(&doc), nil
}

func (r *CarRepository) update(ctx context.Context, filter, update bson.M) error {
	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		if isDuplicateOn(err, makeModelIndex) {
			return domainCar.ErrCarAlreadyExists
		}
		return fmt.Errorf("failed to update car: %w", err)
	}
	if res.MatchedCount == 0 {
		return domainCar.ErrCarNotFound
	}
	return nil
}

func toCarDocument(c *domainCar.Car) *carDocument {
	images := c.Images
	if images == nil {
		images = []string{}
	}
	return &carDocument{
		ID:           c.ID.String(),
		Make:         c.Make,
		Model:        c.Model,
		Year:         c.Year,
		Price:        c.Price,
		Color:        c.Color,
		Category:     c.Category,
		Seats:        c.Seats,
		Transmission: c.Transmission,
		FuelType:     c.FuelType,
		Engine:       c.Engine,
		Horsepower:   c.Horsepower,
		Images:       images,
		Description:  c.Description,
		Status:       string(c.Status),
		Deleted:      c.Deleted,
		DeletedAt:    c.DeletedAt,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

func toCarEntity(d *carDocument) *domainCar.Car {
	images := d.Images
	if images == nil {
		images = []string{}
	}
	return &domainCar.Car{
		ID:           parseID(d.ID),
		Make:         d.Make,
		Model:        d.Model,
		Year:         d.Year,
		Price:        d.Price,
		Color:        d.Color,
		Category:     d.Category,
		Seats:        d.Seats,
		Transmission: d.Transmission,
		FuelType:     d.FuelType,
		Engine:       d.Engine,
		Horsepower:   d.Horsepower,
		Images:       images,
		Description:  d.Description,
		Status:       domainCar.Status(d.Status),
		Deleted:      d.Deleted,
		DeletedAt:    d.DeletedAt,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}
