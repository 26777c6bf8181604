package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/sahil-lab/realEstate/internal/db"
	"github.com/sahil-lab/realEstate/internal/metrics"
	"github.com/sahil-lab/realEstate/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoEmailTemplateStore struct {
	coll *mongo.Collection
}

func NewMongoEmailTemplateStore(database *mongo.Database) EmailTemplateStore {
	return &mongoEmailTemplateStore{coll: database.Collection(db.EmailTemplatesCollection)}
}

func (s *mongoEmailTemplateStore) Get(ctx context.Context, templateID, locale string) (*models.EmailTemplate, error) {
	var tpl models.EmailTemplate
	err := s.coll.FindOne(ctx, bson.M{"templateId": templateID, "locale": locale}).Decode(&tpl)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error retrieving template: %w", err)
	}
	return &tpl, nil
}

func (s *mongoEmailTemplateStore) Save(ctx context.Context, tpl *models.EmailTemplate) error {
	filter := bson.M{"templateId": tpl.TemplateID, "locale": tpl.Locale}
	_, err := s.coll.UpdateOne(ctx, filter, bson.M{"$set": tpl}, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("error saving template: %w", err)
	}
	return nil
}

// NewMongoStores builds every Mongo-backed store over database.
func NewMongoStores(database *mongo.Database, m *metrics.Metrics) *Stores {
	return &Stores{
		Accounts:       NewMongoAccountStore(database, m),
		Listings:       NewMongoListingStore(database, m),
		Inquiries:      NewMongoInquiryStore(database, m),
		Favorites:      NewMongoFavoriteStore(database, m),
		EmailTemplates: NewMongoEmailTemplateStore(database),
	}
}
