package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainoffering "staybook/internal/domain/offering"
	"staybook/internal/domain/shared/money"
)

type OfferingRepository struct {
	col *mongo.Collection
}

func NewOfferingRepository(db *mongo.Database) *OfferingRepository {
	return &OfferingRepository{col: db.Collection("offerings")}
}

func (r *OfferingRepository) ByID(ctx context.Context, id domainoffering.OfferingID) (*domainoffering.Offering, error) {
	var doc offeringDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainoffering.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *OfferingRepository) Save(ctx context.Context, off *domainoffering.Offering) error {
	doc := newOfferingDocument(off)
	filter := bson.M{"_id": doc.ID, "version": off.Version}
	doc.Version = off.Version + 1
	update := bson.M{"$set": doc}
	opts := options.Update().SetUpsert(true)
	result, err := r.col.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrConcurrentUpdate
		}
		return err
	}
	if result.MatchedCount == 0 && result.UpsertedCount == 0 {
		return ErrConcurrentUpdate
	}
	off.Version = doc.Version
	return nil
}

func (r *OfferingRepository) List(ctx context.Context) ([]*domainoffering.Offering, error) {
	cursor, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var out []*domainoffering.Offering
	for cursor.Next(ctx) {
		var doc offeringDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cursor.Err()
}

type offeringDocument struct {
	ID              string `bson:"_id"`
	Name            string `bson:"name"`
	Kind            string `bson:"kind"`
	Capacity        int    `bson:"capacity"`
	DiscountPercent int    `bson:"discount_percent"`
	Currency        string `bson:"currency"`
	FlatRate        int64  `bson:"flat_rate"`
	RateOne         int64  `bson:"rate_one"`
	RateTwo         int64  `bson:"rate_two"`
	RateExtra       int64  `bson:"rate_extra"`
	CreatedAt       int64  `bson:"created_at"`
	UpdatedAt       int64  `bson:"updated_at"`
	Version         int64  `bson:"version"`
}

func newOfferingDocument(o *domainoffering.Offering) offeringDocument {
	return offeringDocument{
		ID:              string(o.ID),
		Name:            o.Name,
		Kind:            string(o.Kind),
		Capacity:        o.Capacity,
		DiscountPercent: o.DiscountPercent,
		Currency:        o.Currency(),
		FlatRate:        o.Rates.Flat.Amount,
		RateOne:         o.Rates.One.Amount,
		RateTwo:         o.Rates.Two.Amount,
		RateExtra:       o.Rates.Extra.Amount,
		CreatedAt:       o.CreatedAt.UnixMilli(),
		UpdatedAt:       o.UpdatedAt.UnixMilli(),
		Version:         o.Version,
	}
}

func (d offeringDocument) toAggregate() *domainoffering.Offering {
	rate := func(amount int64) money.Money {
		if amount == 0 {
			return money.Money{}
		}
		return money.Money{Amount: amount, Currency: d.Currency}
	}
	return &domainoffering.Offering{
		ID:              domainoffering.OfferingID(d.ID),
		Name:            d.Name,
		Kind:            domainoffering.Kind(d.Kind),
		Capacity:        d.Capacity,
		DiscountPercent: d.DiscountPercent,
		Rates: domainoffering.RateTable{
			Flat:  rate(d.FlatRate),
			One:   rate(d.RateOne),
			Two:   rate(d.RateTwo),
			Extra: rate(d.RateExtra),
		},
		CreatedAt: time.UnixMilli(d.CreatedAt).UTC(),
		UpdatedAt: time.UnixMilli(d.UpdatedAt).UTC(),
		Version:   d.Version,
	}
}

var _ domainoffering.Repository = (*OfferingRepository)(nil)
