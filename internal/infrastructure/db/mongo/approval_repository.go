package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/taskconnect/marketplace-api/internal/core/domain"
)

// ApprovalRepository writes the approval sub-document of provider identities.
type ApprovalRepository struct {
	col *mongo.Collection
}

func NewApprovalRepository(db *mongo.Database) *ApprovalRepository {
	return &ApprovalRepository{col: db.Collection(collectionIdentities)}
}

// Approve sets the flag and replaces the login code in one update.
func (r *ApprovalRepository) Approve(ctx context.Context, id, code string, approvedAt, expiresAt time.Time) (*domain.Identity, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrProviderNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": oid, "role": string(domain.RoleServiceProvider)}
	update := bson.M{"$set": bson.M{
		"approval.approved":        true,
		"approval.login_code":      code,
		"approval.code_expires_at": expiresAt.UTC(),
		"approval.approved_at":     approvedAt.UTC(),
		"updated_at":               approvedAt.UTC(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc identityDoc
	if err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProviderNotFound
		}
		return nil, fmt.Errorf("approve provider: %w", err)
	}
	return doc.toDomain(), nil
}

// ConsumeLoginCode unsets the code only if it is still the live one.
func (r *ApprovalRepository) ConsumeLoginCode(ctx context.Context, id, code string, now time.Time) (bool, error) {
	oid, ok := objectID(id)
	if !ok || code == "" {
		return false, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{
		"_id":                 oid,
		"approval.approved":   true,
		"approval.login_code": code,
		"$or": bson.A{
			bson.M{"approval.code_expires_at": bson.M{"$exists": false}},
			bson.M{"approval.code_expires_at": bson.M{"$gt": now.UTC()}},
		},
	}
	update := bson.M{
		"$unset": bson.M{"approval.login_code": "", "approval.code_expires_at": ""},
		"$set":   bson.M{"updated_at": now.UTC()},
	}

	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("consume login code: %w", err)
	}
	return res.ModifiedCount == 1, nil
}
