package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/taskconnect/marketplace-api/internal/core/domain"
)

const collectionReports = "reports"

// ReportRepository persists incident reports in their own collection.
type ReportRepository struct {
	col *mongo.Collection
}

func NewReportRepository(db *mongo.Database) *ReportRepository {
	return &ReportRepository{col: db.Collection(collectionReports)}
}

type reportDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	ReporterID  string             `bson:"user_id"`
	Category    string             `bson:"category"`
	Urgency     string             `bson:"urgency"`
	Description string             `bson:"description"`
	ImageRef    string             `bson:"image_path,omitempty"`
	Status      string             `bson:"status"`
	CreatedAt   time.Time          `bson:"created_at"`
}

func (r *ReportRepository) Create(ctx context.Context, rep *domain.Report) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, reportDoc{
		ReporterID:  rep.ReporterID,
		Category:    rep.Category,
		Urgency:     rep.Urgency,
		Description: rep.Description,
		ImageRef:    rep.ImageRef,
		Status:      string(rep.Status),
		CreatedAt:   rep.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("insert report: %w", err)
	}
	rep.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return nil
}

// List returns every report, newest first.
func (r *ReportRepository) List(ctx context.Context) ([]domain.Report, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer cur.Close(ctx)

	var docs []reportDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode reports: %w", err)
	}
	out := make([]domain.Report, 0, len(docs))
	for _, d := range docs {
		out = append(out, domain.Report{
			ID:          d.ID.Hex(),
			ReporterID:  d.ReporterID,
			Category:    d.Category,
			Urgency:     d.Urgency,
			Description: d.Description,
			ImageRef:    d.ImageRef,
			Status:      domain.ReportStatus(d.Status),
			CreatedAt:   d.CreatedAt.UTC(),
		})
	}
	return out, nil
}

func (r *ReportRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: bson.D{{Key: "created_at", Value: -1}}})
	return err
}
