package platformuser

import (
	"context"
	"time"

	"github.com/wttaideveloper/MentalHealth-sub002/pkg/db"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// collection names
const (
	COLLECTION_NAME_PLATFORM_USERS = "users"
	COLLECTION_NAME_PURCHASES      = "purchases"
	COLLECTION_NAME_INVOICES       = "invoices"
)

type PlatformUserDBService struct {
	DBClient        *mongo.Client
	timeout         int
	noCursorTimeout bool
	DBNamePrefix    string
	InstanceIDs     []string
}

func NewPlatformUserDBService(configs db.DBConfig) (*PlatformUserDBService, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(configs.Timeout)*time.Second)
	defer cancel()

	dbClient, err := mongo.Connect(ctx,
		options.Client().ApplyURI(configs.URI),
		options.Client().SetMaxConnIdleTime(time.Duration(configs.IdleConnTimeout)*time.Second),
		options.Client().SetMaxPoolSize(configs.MaxPoolSize),
	)

	if err != nil {
		return nil, err
	}

	ctx, conCancel := context.WithTimeout(context.Background(), time.Duration(configs.Timeout)*time.Second)
	err = dbClient.Ping(ctx, nil)
	defer conCancel()

	if err != nil {
		return nil, err
	}

	puDBSc := &PlatformUserDBService{
		DBClient:        dbClient,
		timeout:         configs.Timeout,
		noCursorTimeout: configs.NoCursorTimeout,
		DBNamePrefix:    configs.DBNamePrefix,
		InstanceIDs:     configs.InstanceIDs,
	}

	if configs.RunIndexCreation {
		puDBSc.CreateDefaultIndexes()
	}
	return puDBSc, nil
}

func (dbService *PlatformUserDBService) getDBName(instanceID string) string {
	return dbService.DBNamePrefix + instanceID + "_users"
}

func (dbService *PlatformUserDBService) getContext() (ctx context.Context, cancel context.CancelFunc) {
	return context.WithTimeout(context.Background(), time.Duration(dbService.timeout)*time.Second)
}

func (dbService *PlatformUserDBService) collectionPlatformUsers(instanceID string) *mongo.Collection {
	return dbService.DBClient.Database(dbService.getDBName(instanceID)).Collection(COLLECTION_NAME_PLATFORM_USERS)
}

func (dbService *PlatformUserDBService) collectionPurchases(instanceID string) *mongo.Collection {
	return dbService.DBClient.Database(dbService.getDBName(instanceID)).Collection(COLLECTION_NAME_PURCHASES)
}

func (dbService *PlatformUserDBService) collectionInvoices(instanceID string) *mongo.Collection {
	return dbService.DBClient.Database(dbService.getDBName(instanceID)).Collection(COLLECTION_NAME_INVOICES)
}

func (dbService *PlatformUserDBService) CreateDefaultIndexes() {
	for _, instanceID := range dbService.InstanceIDs {
		dbService.CreateDefaultIndexesForPlatformUsersCollection(instanceID)
		dbService.CreateDefaultIndexesForPurchasesCollection(instanceID)
	}
}

// ListIndexes returns the current index definitions per collection.
func (dbService *PlatformUserDBService) ListIndexes(instanceID string) (map[string][]bson.M, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	indexes := map[string][]bson.M{}
	collections := map[string]*mongo.Collection{
		COLLECTION_NAME_PLATFORM_USERS: dbService.collectionPlatformUsers(instanceID),
		COLLECTION_NAME_PURCHASES:      dbService.collectionPurchases(instanceID),
		COLLECTION_NAME_INVOICES:       dbService.collectionInvoices(instanceID),
	}
	for name, collection := range collections {
		list, err := db.ListCollectionIndexes(ctx, collection)
		if err != nil {
			return nil, err
		}
		indexes[name] = list
	}
	return indexes, nil
}
