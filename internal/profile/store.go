package profile

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rifathmfm/portfolio-api/internal/database"
)

// Profile is the singleton hero/about document: the static biographical info
// shown above the editable sections.
type Profile struct {
	Key       string    `bson:"key" json:"-"`
	FullName  string    `bson:"fullName" json:"fullName"`
	Headline  string    `bson:"headline" json:"headline"`
	Tagline   string    `bson:"tagline" json:"tagline"`
	About     string    `bson:"about" json:"about"`
	Address   string    `bson:"address" json:"address"`
	School    string    `bson:"school" json:"school"`
	Email     string    `bson:"email" json:"email"`
	Phone     string    `bson:"phone" json:"phone"`
	Socials   []Social  `bson:"socials" json:"socials"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Social is one external profile link (GitHub, LinkedIn, ...).
type Social struct {
	Label string `bson:"label" json:"label"`
	URL   string `bson:"url" json:"url"`
}

const profileKey = "profile"

// Save upserts the profile document. If mongoURI is empty the function is a no-op.
func Save(ctx context.Context, mongoURI, databaseName string, p *Profile) error {
	if mongoURI == "" {
		return nil
	}
	client, err := database.ConnectMongo(ctx, mongoURI, 5*time.Second)
	if err != nil {
		return fmt.Errorf("connect mongo: %w", err)
	}
	defer client.Disconnect(ctx)

	p.Key = profileKey
	p.UpdatedAt = time.Now().UTC()
	col := client.Database(databaseName).Collection("profile")
	opts := options.Update().SetUpsert(true)
	if _, err := col.UpdateOne(ctx, bson.M{"key": profileKey}, bson.M{"$set": p}, opts); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

// Load fetches the persisted profile. Returns nil when none was saved or when
// mongoURI is empty.
func Load(ctx context.Context, mongoURI, databaseName string) (*Profile, error) {
	if mongoURI == "" {
		return nil, nil
	}
	client, err := database.ConnectMongo(ctx, mongoURI, 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	defer client.Disconnect(ctx)

	col := client.Database(databaseName).Collection("profile")
	var p Profile
	if err := col.FindOne(ctx, bson.M{"key": profileKey}).Decode(&p); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}
