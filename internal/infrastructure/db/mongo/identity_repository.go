package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/taskconnect/marketplace-api/internal/core/domain"
)

const collectionIdentities = "identities"

// IdentityRepository stores each identity as one document. The provider
// profile and the approval record are embedded, so registration is a single
// atomic insert.
type IdentityRepository struct {
	col *mongo.Collection
}

func NewIdentityRepository(db *mongo.Database) *IdentityRepository {
	return &IdentityRepository{col: db.Collection(collectionIdentities)}
}

type identityDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Name         string             `bson:"name"`
	Email        string             `bson:"email"`
	Role         string             `bson:"role"`
	PasswordHash string             `bson:"password_hash"`
	Provider     *providerDoc       `bson:"provider,omitempty"`
	Approval     approvalDoc        `bson:"approval"`
	CreatedAt    time.Time          `bson:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"`
}

type providerDoc struct {
	Location    string   `bson:"location"`
	NationalID  string   `bson:"national_id"`
	Phone       string   `bson:"phone"`
	Service     string   `bson:"service"`
	Description string   `bson:"description,omitempty"`
	Images      []string `bson:"images"`
	Rating      float64  `bson:"rating"`
}

type approvalDoc struct {
	Approved      bool       `bson:"approved"`
	LoginCode     string     `bson:"login_code,omitempty"`
	CodeExpiresAt *time.Time `bson:"code_expires_at,omitempty"`
	ApprovedAt    *time.Time `bson:"approved_at,omitempty"`
}

func (d *identityDoc) toDomain() *domain.Identity {
	return &domain.Identity{
		ID:           d.ID.Hex(),
		Name:         d.Name,
		Email:        d.Email,
		Role:         domain.Role(d.Role),
		PasswordHash: d.PasswordHash,
		Approval: domain.Approval{
			Approved:      d.Approval.Approved,
			LoginCode:     d.Approval.LoginCode,
			CodeExpiresAt: utcPtr(d.Approval.CodeExpiresAt),
			ApprovedAt:    utcPtr(d.Approval.ApprovedAt),
		},
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
}

func (d *identityDoc) toListing() domain.ProviderListing {
	l := domain.ProviderListing{Identity: *d.toDomain()}
	if p := d.Provider; p != nil {
		l.Profile = domain.ProviderProfile{
			IdentityID:  d.ID.Hex(),
			Location:    p.Location,
			NationalID:  p.NationalID,
			Phone:       p.Phone,
			Service:     p.Service,
			Description: p.Description,
			Images:      append([]string(nil), p.Images...),
			Rating:      p.Rating,
		}
	}
	return l
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

// Create inserts the identity together with its optional provider profile.
func (r *IdentityRepository) Create(ctx context.Context, identity *domain.Identity, profile *domain.ProviderProfile) (*domain.Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := identityDoc{
		Name:         identity.Name,
		Email:        identity.Email,
		Role:         string(identity.Role),
		PasswordHash: identity.PasswordHash,
		Approval:     approvalDoc{Approved: identity.Approval.Approved},
		CreatedAt:    identity.CreatedAt,
		UpdatedAt:    identity.UpdatedAt,
	}
	if profile != nil {
		doc.Provider = &providerDoc{
			Location:    profile.Location,
			NationalID:  profile.NationalID,
			Phone:       profile.Phone,
			Service:     profile.Service,
			Description: profile.Description,
			Images:      profile.Images,
			Rating:      profile.Rating,
		}
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			if strings.Contains(err.Error(), "national_id") {
				return nil, domain.ErrNationalIDTaken
			}
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("insert identity: %w", err)
	}

	doc.ID = res.InsertedID.(primitive.ObjectID)
	return doc.toDomain(), nil
}

func (r *IdentityRepository) FindByID(ctx context.Context, id string) (*domain.Identity, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrIdentityNotFound
	}
	doc, err := r.findOne(ctx, bson.M{"_id": oid}, domain.ErrIdentityNotFound)
	if err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *IdentityRepository) FindByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	doc, err := r.findOne(ctx, bson.M{"email": email}, domain.ErrIdentityNotFound)
	if err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *IdentityRepository) FindByIDs(ctx context.Context, ids []string) (map[string]*domain.Identity, error) {
	out := make(map[string]*domain.Identity, len(ids))
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, ok := objectID(id); ok {
			oids = append(oids, oid)
		}
	}
	if len(oids) == 0 {
		return out, nil
	}

	docs, err := r.find(ctx, bson.M{"_id": bson.M{"$in": oids}}, nil)
	if err != nil {
		return nil, err
	}
	for i := range docs {
		identity := docs[i].toDomain()
		out[identity.ID] = identity
	}
	return out, nil
}

func (r *IdentityRepository) FindProvider(ctx context.Context, id string) (*domain.ProviderListing, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.ErrProviderNotFound
	}
	doc, err := r.findOne(ctx, bson.M{"_id": oid, "role": string(domain.RoleServiceProvider)}, domain.ErrProviderNotFound)
	if err != nil {
		return nil, err
	}
	l := doc.toListing()
	return &l, nil
}

// ListProviders returns providers with the given approval flag, oldest first.
func (r *IdentityRepository) ListProviders(ctx context.Context, approved bool) ([]domain.ProviderListing, error) {
	filter := bson.M{
		"role":              string(domain.RoleServiceProvider),
		"approval.approved": approved,
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})

	docs, err := r.find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	out := make([]domain.ProviderListing, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toListing())
	}
	return out, nil
}

// EnsureIndexes creates the uniqueness indexes on email and provider national id.
func (r *IdentityRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("email_unique"),
		},
		{
			Keys: bson.D{{Key: "provider.national_id", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetName("provider_national_id_unique").
				SetPartialFilterExpression(bson.M{"provider.national_id": bson.M{"$exists": true}}),
		},
		{Keys: bson.D{{Key: "role", Value: 1}, {Key: "approval.approved", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func (r *IdentityRepository) findOne(ctx context.Context, filter bson.M, notFound error) (*identityDoc, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc identityDoc
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, notFound
		}
		return nil, fmt.Errorf("find identity: %w", err)
	}
	return &doc, nil
}

func (r *IdentityRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]identityDoc, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var cur *mongo.Cursor
	var err error
	if opts != nil {
		cur, err = r.col.Find(ctx, filter, opts)
	} else {
		cur, err = r.col.Find(ctx, filter)
	}
	if err != nil {
		return nil, fmt.Errorf("find identities: %w", err)
	}
	defer cur.Close(ctx)

	var docs []identityDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode identities: %w", err)
	}
	return docs, nil
}
