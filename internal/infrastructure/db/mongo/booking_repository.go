package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/taskconnect/marketplace-api/internal/core/domain"
	"github.com/taskconnect/marketplace-api/internal/core/ports"
)

const collectionBookings = "bookings"

type BookingRepository struct {
	col *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) *BookingRepository {
	return &BookingRepository{col: db.Collection(collectionBookings)}
}

type bookingDoc struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	UserID         string             `bson:"user_id"`
	ProviderID     string             `bson:"provider_id"`
	Service        string             `bson:"service"`
	Location       string             `bson:"location"`
	Date           string             `bson:"date"`
	Time           string             `bson:"time"`
	UserStatus     string             `bson:"user_status"`
	ProviderStatus string             `bson:"provider_status"`
	CreatedAt      time.Time          `bson:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at"`
}

func (d *bookingDoc) toDomain() *domain.Booking {
	return &domain.Booking{
		ID:             d.ID.Hex(),
		UserID:         d.UserID,
		ProviderID:     d.ProviderID,
		Service:        d.Service,
		Location:       d.Location,
		Date:           d.Date,
		Time:           d.Time,
		UserStatus:     domain.UserStatus(d.UserStatus),
		ProviderStatus: domain.ProviderStatus(d.ProviderStatus),
		CreatedAt:      d.CreatedAt.UTC(),
		UpdatedAt:      d.UpdatedAt.UTC(),
	}
}

// Create inserts b and sets its ID.
func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := bookingDoc{
		UserID:         b.UserID,
		ProviderID:     b.ProviderID,
		Service:        b.Service,
		Location:       b.Location,
		Date:           b.Date,
		Time:           b.Time,
		UserStatus:     string(b.UserStatus),
		ProviderStatus: string(b.ProviderStatus),
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}
	b.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return nil
}

func (r *BookingRepository) FindByID(ctx context.Context, id string) (*domain.Booking, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrBookingNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc bookingDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, fmt.Errorf("find booking: %w", err)
	}
	return doc.toDomain(), nil
}

// Transition applies t with a filter on both current statuses, so the
// precondition check and the write are one atomic operation.
func (r *BookingRepository) Transition(ctx context.Context, id string, t domain.Transition, at time.Time) (*domain.Booking, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrBookingNotFound
	}

	set := bson.M{"updated_at": at.UTC()}
	if t.ToUser != "" {
		set["user_status"] = string(t.ToUser)
	}
	if t.ToProvider != "" {
		set["provider_status"] = string(t.ToProvider)
	}
	filter := bson.M{
		"_id":             oid,
		"user_status":     bson.M{"$in": userStatuses(t.FromUser)},
		"provider_status": bson.M{"$in": providerStatuses(t.FromProvider)},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	opCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc bookingDoc
	err := r.col.FindOneAndUpdate(opCtx, filter, bson.M{"$set": set}, opts).Decode(&doc)
	if err == nil {
		return doc.toDomain(), nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("transition booking: %w", err)
	}

	current, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return nil, domain.InvalidTransition(t.Name, current)
}

func (r *BookingRepository) Delete(ctx context.Context, id string) error {
	oid, ok := objectID(id)
	if !ok {
		return domain.ErrBookingNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete booking: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrBookingNotFound
	}
	return nil
}

// List returns matching bookings, newest first.
func (r *BookingRepository) List(ctx context.Context, f ports.BookingFilter) ([]domain.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if f.UserID != "" {
		filter["user_id"] = f.UserID
	}
	if f.ProviderID != "" {
		filter["provider_id"] = f.ProviderID
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer cur.Close(ctx)

	var docs []bookingDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode bookings: %w", err)
	}
	out := make([]domain.Booking, 0, len(docs))
	for i := range docs {
		out = append(out, *docs[i].toDomain())
	}
	return out, nil
}

// EnsureIndexes creates the lookup indexes on the bookings collection.
func (r *BookingRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "provider_id", Value: 1}, {Key: "created_at", Value: -1}}},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func userStatuses(in []domain.UserStatus) bson.A {
	out := make(bson.A, 0, len(in))
	for _, s := range in {
		out = append(out, string(s))
	}
	return out
}

func providerStatuses(in []domain.ProviderStatus) bson.A {
	out := make(bson.A, 0, len(in))
	for _, s := range in {
		out = append(out, string(s))
	}
	return out
}
