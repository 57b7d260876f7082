package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainoffering "staybook/internal/domain/offering"
	domainreservation "staybook/internal/domain/reservation"
	"staybook/internal/domain/shared/daterange"
	"staybook/internal/domain/shared/money"
)

var ErrConcurrentUpdate = errors.New("mongo: concurrent update detected")

type ReservationRepository struct {
	col *mongo.Collection
}

func NewReservationRepository(db *mongo.Database) *ReservationRepository {
	return &ReservationRepository{col: db.Collection("reservations")}
}

func (r *ReservationRepository) ByID(ctx context.Context, id domainreservation.ReservationID) (*domainreservation.Reservation, error) {
	var doc reservationDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainreservation.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *ReservationRepository) Create(ctx context.Context, res *domainreservation.Reservation) error {
	doc := newReservationDocument(res)
	_, err := r.col.InsertOne(ctx, doc)
	return err
}

// CreateIfAvailable performs the per-night capacity count and the insert in
// one transaction, so a concurrent confirmed insert cannot sneak past the
// availability check.
func (r *ReservationRepository) CreateIfAvailable(ctx context.Context, res *domainreservation.Reservation, capacity int) error {
	session, err := r.col.Database().Client().StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		existing, err := r.ListOverlapping(sc, res.OfferingID, res.Range, domainreservation.StatusConfirmed)
		if err != nil {
			return nil, err
		}
		for _, day := range res.Range.Days() {
			count := 0
			for _, other := range existing {
				if other.Range.ContainsDate(day) {
					count++
				}
			}
			if count >= capacity {
				return nil, domainreservation.ErrCapacityExceeded
			}
		}
		_, err = r.col.InsertOne(sc, newReservationDocument(res))
		return nil, err
	})
	return err
}

func (r *ReservationRepository) Save(ctx context.Context, res *domainreservation.Reservation) error {
	doc := newReservationDocument(res)
	filter := bson.M{"_id": doc.ID, "version": res.Version}
	doc.Version = res.Version + 1
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
	res.Version = doc.Version
	return nil
}

func (r *ReservationRepository) Delete(ctx context.Context, id domainreservation.ReservationID) error {
	result, err := r.col.DeleteOne(ctx, bson.M{"_id": string(id)})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return domainreservation.ErrNotFound
	}
	return nil
}

// ListOverlapping pushes the half-open overlap test into the query:
// existing.check_in < checkOut AND existing.check_out > checkIn.
func (r *ReservationRepository) ListOverlapping(ctx context.Context, offeringID domainoffering.OfferingID, dr daterange.DateRange, status domainreservation.Status) ([]*domainreservation.Reservation, error) {
	filter := bson.M{
		"offering_id": string(offeringID),
		"status":      string(status),
		"check_in":    bson.M{"$lt": dr.CheckOut.UnixMilli()},
		"check_out":   bson.M{"$gt": dr.CheckIn.UnixMilli()},
	}
	return r.find(ctx, filter)
}

func (r *ReservationRepository) ListFrom(ctx context.Context, offeringID domainoffering.OfferingID, from time.Time, status domainreservation.Status) ([]*domainreservation.Reservation, error) {
	filter := bson.M{
		"offering_id": string(offeringID),
		"status":      string(status),
		"check_out":   bson.M{"$gt": daterange.Day(from).UnixMilli()},
	}
	return r.find(ctx, filter)
}

func (r *ReservationRepository) find(ctx context.Context, filter bson.M) ([]*domainreservation.Reservation, error) {
	cursor, err := r.col.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var out []*domainreservation.Reservation
	for cursor.Next(ctx) {
		var doc reservationDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cursor.Err()
}

type reservationDocument struct {
	ID             string `bson:"_id"`
	OfferingID     string `bson:"offering_id"`
	GuestID        string `bson:"guest_id"`
	CheckIn        int64  `bson:"check_in"`
	CheckOut       int64  `bson:"check_out"`
	Adults         int    `bson:"adults"`
	Children5To8   int    `bson:"children_5_8"`
	ChildrenBelow5 int    `bson:"children_below_5"`
	Status         string `bson:"status"`
	Currency       string `bson:"currency"`
	Total          int64  `bson:"total"`
	TokenPaid      int64  `bson:"token_paid"`
	CreatedAt      int64  `bson:"created_at"`
	UpdatedAt      int64  `bson:"updated_at"`
	Version        int64  `bson:"version"`
}

func newReservationDocument(r *domainreservation.Reservation) reservationDocument {
	return reservationDocument{
		ID:             string(r.ID),
		OfferingID:     string(r.OfferingID),
		GuestID:        r.GuestID,
		CheckIn:        r.Range.CheckIn.UnixMilli(),
		CheckOut:       r.Range.CheckOut.UnixMilli(),
		Adults:         r.Occupancy.Adults,
		Children5To8:   r.Occupancy.Children5To8,
		ChildrenBelow5: r.Occupancy.ChildrenBelow5,
		Status:         string(r.Status),
		Currency:       r.Total.Currency,
		Total:          r.Total.Amount,
		TokenPaid:      r.TokenPaid.Amount,
		CreatedAt:      r.CreatedAt.UnixMilli(),
		UpdatedAt:      r.UpdatedAt.UnixMilli(),
		Version:        r.Version,
	}
}

func (d reservationDocument) toAggregate() *domainreservation.Reservation {
	return &domainreservation.Reservation{
		ID:         domainreservation.ReservationID(d.ID),
		OfferingID: domainoffering.OfferingID(d.OfferingID),
		GuestID:    d.GuestID,
		Range: daterange.DateRange{
			CheckIn:  timestampToTime(d.CheckIn),
			CheckOut: timestampToTime(d.CheckOut),
		},
		Occupancy: domainreservation.Occupancy{
			Adults:         d.Adults,
			Children5To8:   d.Children5To8,
			ChildrenBelow5: d.ChildrenBelow5,
		},
		Status:    domainreservation.Status(d.Status),
		Total:     money.Money{Amount: d.Total, Currency: d.Currency},
		TokenPaid: money.Money{Amount: d.TokenPaid, Currency: d.Currency},
		CreatedAt: timestampToTime(d.CreatedAt),
		UpdatedAt: timestampToTime(d.UpdatedAt),
		Version:   d.Version,
	}
}

func timestampToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

var (
	_ domainreservation.Store        = (*ReservationRepository)(nil)
	_ domainreservation.GuardedStore = (*ReservationRepository)(nil)
)
