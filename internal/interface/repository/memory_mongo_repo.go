package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"skymate-service/internal/domain/entity"
	"skymate-service/internal/domain/repository"
)

// Preference types where only one value may exist per user at a time.
// Adding a new value replaces whatever the user had for that type.
var exclusiveTypes = map[string]bool{
	"cabin_class":    true,
	"departure_time": true,
	"trip_type":      true,
	"passenger":      true,
}

// MongoMemoryRepository implements the MemoryRepository interface on MongoDB
type MongoMemoryRepository struct {
	preferences *mongo.Collection
	bookings    *mongo.Collection
}

// preferenceDoc is the MongoDB document for a stored preference
type preferenceDoc struct {
	ID            string    `bson:"_id"`
	UserID        string    `bson:"userId"`
	Category      string    `bson:"category"`
	Type          string    `bson:"type"`
	RawText       string    `bson:"rawText"`
	CanonicalText string    `bson:"canonicalText"`
	CreatedAt     time.Time `bson:"createdAt"`
}

// bookingDoc wraps a booking entry with its owner
type bookingDoc struct {
	ID        string                    `bson:"_id"`
	UserID    string                    `bson:"userId"`
	Booking   entity.BookingMemoryEntry `bson:"booking"`
	CreatedAt time.Time                 `bson:"createdAt"`
}

// NewMongoMemoryRepository creates a new MongoDB memory repository
func NewMongoMemoryRepository(db *mongo.Database) repository.MemoryRepository {
	preferences := db.Collection("preferences")
	bookings := db.Collection("bookings")

	ctx := context.Background()

	// Index on userId for per-user listing
	userIndex := mongo.IndexModel{
		Keys: bson.M{"userId": 1},
	}

	// Compound index for exclusive-type replacement
	typeIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "userId", Value: 1},
			{Key: "type", Value: 1},
		},
	}

	// Index on createdAt for chronological history
	createdAtIndex := mongo.IndexModel{
		Keys: bson.M{"createdAt": -1},
	}

	preferences.Indexes().CreateMany(ctx, []mongo.IndexModel{userIndex, typeIndex})
	bookings.Indexes().CreateMany(ctx, []mongo.IndexModel{userIndex, createdAtIndex})

	return &MongoMemoryRepository{
		preferences: preferences,
		bookings:    bookings,
	}
}

// ListPreferences returns the user's stored preferences grouped by category
func (r *MongoMemoryRepository) ListPreferences(ctx context.Context, userID string) (map[string][]entity.PreferenceEntry, error) {
	cursor, err := r.preferences.Find(ctx, bson.M{"userId": userID}, &options.FindOptions{
		Sort: bson.D{{Key: "createdAt", Value: 1}},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []preferenceDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	grouped := make(map[string][]entity.PreferenceEntry)
	for _, doc := range docs {
		grouped[doc.Category] = append(grouped[doc.Category], entity.PreferenceEntry{
			ID:     doc.ID,
			Text:   doc.CanonicalText,
			Memory: doc.RawText,
		})
	}
	return grouped, nil
}

// AddPreference stores a preference. For exclusive types the previous value
// for that type is removed first, so at most one survives.
func (r *MongoMemoryRepository) AddPreference(ctx context.Context, userID string, add entity.PreferenceAdd) error {
	if exclusiveTypes[add.Type] {
		_, err := r.preferences.DeleteMany(ctx, bson.M{
			"userId": userID,
			"type":   add.Type,
		})
		if err != nil {
			return err
		}
	}

	doc := preferenceDoc{
		ID:            uuid.New().String(),
		UserID:        userID,
		Category:      add.Category,
		Type:          add.Type,
		RawText:       add.Content,
		CanonicalText: add.Content,
		CreatedAt:     time.Now().UTC(),
	}

	_, err := r.preferences.InsertOne(ctx, doc)
	return err
}

// DeletePreference removes every preference whose raw or canonical text
// matches exactly. Returns ErrNotFound when nothing matched.
func (r *MongoMemoryRepository) DeletePreference(ctx context.Context, userID, text string) error {
	result, err := r.preferences.DeleteMany(ctx, bson.M{
		"userId": userID,
		"$or": []bson.M{
			{"rawText": text},
			{"canonicalText": text},
		},
	})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// TravelHistory returns the user's booking entries, newest first
func (r *MongoMemoryRepository) TravelHistory(ctx context.Context, userID string) ([]entity.BookingMemoryEntry, error) {
	cursor, err := r.bookings.Find(ctx, bson.M{"userId": userID}, &options.FindOptions{
		Sort: bson.D{{Key: "createdAt", Value: -1}},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []bookingDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	entries := make([]entity.BookingMemoryEntry, 0, len(docs))
	for _, doc := range docs {
		booking := doc.Booking
		if booking.ID == "" {
			booking.ID = doc.ID
		}
		entries = append(entries, booking)
	}
	return entries, nil
}

// RecordBooking stores a booking entry in the user's travel history
func (r *MongoMemoryRepository) RecordBooking(ctx context.Context, userID string, booking entity.BookingMemoryEntry) error {
	doc := bookingDoc{
		ID:        uuid.New().String(),
		UserID:    userID,
		Booking:   booking,
		CreatedAt: time.Now().UTC(),
	}
	if booking.BookedAt == "" {
		doc.Booking.BookedAt = doc.CreatedAt.Format(time.RFC3339)
	}

	_, err := r.bookings.InsertOne(ctx, doc)
	return err
}
