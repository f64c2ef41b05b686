package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ecoride/auth-service/internal/core/domain"
)

const identityCollection = "users"

// IdentityRepository implements ports.IdentityRepository over MongoDB.
type IdentityRepository struct {
	coll *mongo.Collection
}

func NewIdentityRepository(db *mongo.Database) *IdentityRepository {
	return &IdentityRepository{coll: db.Collection(identityCollection)}
}

type mongoIdentity struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Email        string             `bson:"email"`
	Phone        string             `bson:"phone,omitempty"`
	PasswordHash string             `bson:"password_hash"`
	Role         string             `bson:"role"`
	Origin       string             `bson:"origin"`
	FirstName    string             `bson:"first_name,omitempty"`
	MiddleName   string             `bson:"middle_name,omitempty"`
	LastName     string             `bson:"last_name,omitempty"`
	SchoolID     string             `bson:"school_id,omitempty"`
	LicenseID    string             `bson:"license_id,omitempty"`
	Sex          string             `bson:"sex,omitempty"`
	CreatedAt    int64              `bson:"created_at"`
	UpdatedAt    int64              `bson:"updated_at"`
}

func (r *IdentityRepository) FindByEmailAndRole(ctx context.Context, email, role string) (*domain.Identity, error) {
	return r.findOne(ctx, bson.M{"email": email, "role": role})
}

func (r *IdentityRepository) FindByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *IdentityRepository) FindByPhone(ctx context.Context, phone string) (*domain.Identity, error) {
	return r.findOne(ctx, bson.M{"phone": phone})
}

func (r *IdentityRepository) FindByID(ctx context.Context, id string) (*domain.Identity, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrIdentityNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *IdentityRepository) FindByEmailExcludingID(ctx context.Context, email, id string) (*domain.Identity, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrIdentityNotFound
	}
	return r.findOne(ctx, bson.M{"email": email, "_id": bson.M{"$ne": oid}})
}

func (r *IdentityRepository) Insert(ctx context.Context, identity *domain.Identity) (*domain.Identity, error) {
	doc := toDoc(identity)
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrEmailExists
		}
		return nil, fmt.Errorf("insert identity: %w", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("insert identity: unexpected inserted id type %T", res.InsertedID)
	}
	doc.ID = oid
	return fromDoc(doc), nil
}

func (r *IdentityRepository) Update(ctx context.Context, identity *domain.Identity) (*domain.Identity, error) {
	oid, err := primitive.ObjectIDFromHex(identity.ID)
	if err != nil {
		return nil, domain.ErrIdentityNotFound
	}

	doc := toDoc(identity)
	update := bson.M{"$set": bson.M{
		"email":         doc.Email,
		"phone":         doc.Phone,
		"password_hash": doc.PasswordHash,
		"origin":        doc.Origin,
		"first_name":    doc.FirstName,
		"middle_name":   doc.MiddleName,
		"last_name":     doc.LastName,
		"school_id":     doc.SchoolID,
		"license_id":    doc.LicenseID,
		"sex":           doc.Sex,
		"updated_at":    doc.UpdatedAt,
	}}

	res, err := r.coll.UpdateByID(ctx, oid, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrEmailExists
		}
		return nil, fmt.Errorf("update identity: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrIdentityNotFound
	}

	return r.FindByID(ctx, identity.ID)
}

func (r *IdentityRepository) findOne(ctx context.Context, filter bson.M) (*domain.Identity, error) {
	var mi mongoIdentity
	if err := r.coll.FindOne(ctx, filter).Decode(&mi); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrIdentityNotFound
		}
		return nil, fmt.Errorf("find identity: %w", err)
	}
	return fromDoc(mi), nil
}

func toDoc(identity *domain.Identity) mongoIdentity {
	return mongoIdentity{
		Email:        identity.Email,
		Phone:        identity.Phone,
		PasswordHash: identity.PasswordHash,
		Role:         identity.Role,
		Origin:       identity.Origin,
		FirstName:    identity.FirstName,
		MiddleName:   identity.MiddleName,
		LastName:     identity.LastName,
		SchoolID:     identity.SchoolID,
		LicenseID:    identity.LicenseID,
		Sex:          identity.Sex,
		CreatedAt:    identity.CreatedAt.Unix(),
		UpdatedAt:    identity.UpdatedAt.Unix(),
	}
}

func fromDoc(mi mongoIdentity) *domain.Identity {
	return &domain.Identity{
		ID:           mi.ID.Hex(),
		Email:        mi.Email,
		Phone:        mi.Phone,
		PasswordHash: mi.PasswordHash,
		Role:         mi.Role,
		Origin:       mi.Origin,
		FirstName:    mi.FirstName,
		MiddleName:   mi.MiddleName,
		LastName:     mi.LastName,
		SchoolID:     mi.SchoolID,
		LicenseID:    mi.LicenseID,
		Sex:          mi.Sex,
		CreatedAt:    unixToTime(mi.CreatedAt),
		UpdatedAt:    unixToTime(mi.UpdatedAt),
	}
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
