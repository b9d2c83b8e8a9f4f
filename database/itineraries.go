package database

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"wanderplan/errdefs"
	"wanderplan/models"
)

// SaveItinerary persists an itinerary for a user and returns the
// server-assigned id.
func (m *Mongo) SaveItinerary(ctx context.Context, it models.Itinerary, userID string) (string, error) {
	if m == nil {
		return "", errdefs.StoreUnavailable()
	}

	saved := models.SavedItinerary{
		Itinerary: it,
		UserID:    userID,
		SavedAt:   time.Now().UTC(),
		Favorite:  false,
	}
	saved.ID = uuid.New().String()

	if _, err := m.itineraries.InsertOne(ctx, saved); err != nil {
		return "", err
	}
	return saved.ID, nil
}

// ItinerariesByUser returns all of a user's saved itineraries, most
// recently saved first. The sort happens in memory so the store needs no
// composite index.
func (m *Mongo) ItinerariesByUser(ctx context.Context, userID string) ([]models.SavedItinerary, error) {
	if m == nil {
		return nil, errdefs.StoreUnavailable()
	}

	cursor, err := m.itineraries.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var items []models.SavedItinerary
	if err := cursor.All(ctx, &items); err != nil {
		return nil, err
	}
	SortBySavedAt(items)
	return items, nil
}

// SortBySavedAt orders itineraries by save time descending. A record with
// no save timestamp sorts as oldest.
func SortBySavedAt(items []models.SavedItinerary) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].SavedAt.After(items[j].SavedAt)
	})
}

// ItineraryByID fetches a single saved itinerary owned by userID. Returns
// (nil, nil) when no such record exists.
func (m *Mongo) ItineraryByID(ctx context.Context, id, userID string) (*models.SavedItinerary, error) {
	if m == nil {
		return nil, errdefs.StoreUnavailable()
	}

	var item models.SavedItinerary
	err := m.itineraries.FindOne(ctx, bson.M{"id": id, "userId": userID}).Decode(&item)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateItinerary merges the given fields into the record (partial update).
func (m *Mongo) UpdateItinerary(ctx context.Context, id, userID string, fields bson.M) error {
	if m == nil {
		return errdefs.StoreUnavailable()
	}

	res, err := m.itineraries.UpdateOne(ctx,
		bson.M{"id": id, "userId": userID},
		bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (m *Mongo) DeleteItinerary(ctx context.Context, id, userID string) error {
	if m == nil {
		return errdefs.StoreUnavailable()
	}

	res, err := m.itineraries.DeleteOne(ctx, bson.M{"id": id, "userId": userID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// SetFavorite flips the favorite flag on a saved itinerary.
func (m *Mongo) SetFavorite(ctx context.Context, id, userID string, favorite bool) error {
	return m.UpdateItinerary(ctx, id, userID, bson.M{"isFavorite": favorite})
}
