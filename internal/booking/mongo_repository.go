package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/dvbwitso/kire-studio/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoRepository struct {
	collection *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{
		collection: db.Collection("bookings"),
	}
}

// ConnectMongoDB opens the bookings database with sane pool settings.
func ConnectMongoDB(ctx context.Context, uri, database string) (*mongo.Database, error) {
	clientOpts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(100).
		SetMinPoolSize(10)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	// Ping to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return client.Database(database), nil
}

type bookingDoc struct {
	BookingID string    `bson:"booking_id"`
	Service   string    `bson:"service"`
	Date      string    `bson:"date"`
	Time      string    `bson:"time"`
	Name      string    `bson:"name"`
	Phone     string    `bson:"phone"`
	Email     string    `bson:"email,omitempty"`
	CreatedAt time.Time `bson:"created_at"`
}

func (m *MongoRepository) Create(ctx context.Context, booking *domain.Booking) error {
	doc := bookingDoc{
		BookingID: booking.ID,
		Service:   booking.Service,
		Date:      booking.Date,
		Time:      booking.Time,
		Name:      booking.Name,
		Phone:     booking.Phone,
		Email:     booking.Email,
		CreatedAt: booking.CreatedAt,
	}

	_, err := m.collection.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrSlotTaken
		}
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

// BookedSlots returns the taken (date, time) pairs grouped by date, used to
// overlay the CMS schedule.
func (m *MongoRepository) BookedSlots(ctx context.Context) (map[string][]string, error) {
	opts := options.Find().SetProjection(bson.M{"date": 1, "time": 1})
	cursor, err := m.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list booked slots: %w", err)
	}
	defer cursor.Close(ctx)

	booked := make(map[string][]string)
	for cursor.Next(ctx) {
		var doc bookingDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode booking: %w", err)
		}
		booked[doc.Date] = append(booked[doc.Date], doc.Time)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return booked, nil
}

// CreateIndexes enforces one booking per (date, time). Call once on
// startup.
func (m *MongoRepository) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "date", Value: 1}, {Key: "time", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "booking_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	_, err := m.collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}
