package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/roarscore/roarscore-api/schema"
)

// ProfileStore keeps reaction profiles
type ProfileStore interface {
	SaveProfile(profile schema.ReactionProfile) error
	GetProfile(id string) (*schema.ReactionProfile, error)
	ListProfiles() ([]schema.ReactionProfile, error)
}

func (m *mongoDB) SaveProfile(profile schema.ReactionProfile) error {
	if profile.ID == "" {
		return errors.New("empty profile id")
	}
	if err := profile.Emotions.Validate(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	c := m.client.Database(m.database)

	_, err := c.Collection(schema.ProfileCollection).ReplaceOne(ctx,
		bson.M{"id": profile.ID},
		profile,
		options.Replace().SetUpsert(true))
	return err
}

func (m *mongoDB) GetProfile(id string) (*schema.ReactionProfile, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	c := m.client.Database(m.database)

	var profile schema.ReactionProfile
	if err := c.Collection(schema.ProfileCollection).FindOne(ctx, bson.M{"id": id}).Decode(&profile); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &profile, nil
}

func (m *mongoDB) ListProfiles() ([]schema.ReactionProfile, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	c := m.client.Database(m.database)

	cursor, err := c.Collection(schema.ProfileCollection).Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"id": 1}))
	if err != nil {
		return nil, err
	}

	profiles := make([]schema.ReactionProfile, 0)
	if err := cursor.All(ctx, &profiles); err != nil {
		return nil, err
	}

	return profiles, nil
}
