package database

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"wanderplan/errdefs"
)

// The userApiKeys collection holds one document per user, keyed by user id,
// with one field per credential slot. These methods implement
// keystore.Mirror.

// SaveKeys merges the given fields into the user's credential record.
func (m *Mongo) SaveKeys(ctx context.Context, userID string, fields map[string]string) error {
	if m == nil {
		return errdefs.StoreUnavailable()
	}

	set := bson.M{}
	for k, v := range fields {
		set[k] = v
	}
	_, err := m.apiKeys.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": set},
		options.Update().SetUpsert(true))
	return err
}

// LoadKeys returns the user's stored credential fields. A missing record
// is an empty map, not an error.
func (m *Mongo) LoadKeys(ctx context.Context, userID string) (map[string]string, error) {
	if m == nil {
		return nil, errdefs.StoreUnavailable()
	}

	var doc bson.M
	err := m.apiKeys.FindOne(ctx, bson.M{"_id": userID}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, err
	}

	fields := make(map[string]string, len(doc))
	for k, v := range doc {
		if k == "_id" {
			continue
		}
		if s, ok := v.(string); ok {
			fields[k] = s
		}
	}
	return fields, nil
}

// DeleteKeys removes individual fields from the user's credential record.
func (m *Mongo) DeleteKeys(ctx context.Context, userID string, fields []string) error {
	if m == nil {
		return errdefs.StoreUnavailable()
	}

	unset := bson.M{}
	for _, f := range fields {
		unset[f] = ""
	}
	_, err := m.apiKeys.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$unset": unset})
	return err
}
