package assessment

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
	COLLECTION_NAME_TEST_DEFINITIONS = "testDefinitions"
	COLLECTION_NAME_TEST_ATTEMPTS    = "testAttempts"
)

type AssessmentDBService struct {
	DBClient        *mongo.Client
	timeout         int
	noCursorTimeout bool
	DBNamePrefix    string
	InstanceIDs     []string
}

func NewAssessmentDBService(configs db.DBConfig) (*AssessmentDBService, error) {
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

	aDBSc := &AssessmentDBService{
		DBClient:        dbClient,
		timeout:         configs.Timeout,
		noCursorTimeout: configs.NoCursorTimeout,
		DBNamePrefix:    configs.DBNamePrefix,
		InstanceIDs:     configs.InstanceIDs,
	}

	if configs.RunIndexCreation {
		aDBSc.CreateDefaultIndexes()
	}
	return aDBSc, nil
}

func (dbService *AssessmentDBService) getDBName(instanceID string) string {
	return dbService.DBNamePrefix + instanceID + "_assessments"
}

func (dbService *AssessmentDBService) getContext() (ctx context.Context, cancel context.CancelFunc) {
	return context.WithTimeout(context.Background(), time.Duration(dbService.timeout)*time.Second)
}

func (dbService *AssessmentDBService) collectionTestDefinitions(instanceID string) *mongo.Collection {
	return dbService.DBClient.Database(dbService.getDBName(instanceID)).Collection(COLLECTION_NAME_TEST_DEFINITIONS)
}

func (dbService *AssessmentDBService) collectionTestAttempts(instanceID string) *mongo.Collection {
	return dbService.DBClient.Database(dbService.getDBName(instanceID)).Collection(COLLECTION_NAME_TEST_ATTEMPTS)
}

func (dbService *AssessmentDBService) CreateDefaultIndexes() {
	for _, instanceID := range dbService.InstanceIDs {
		dbService.CreateDefaultIndexesForTestDefinitionsCollection(instanceID)
		dbService.CreateDefaultIndexesForTestAttemptsCollection(instanceID)
	}
}

// ListIndexes returns the current index definitions per collection.
func (dbService *AssessmentDBService) ListIndexes(instanceID string) (map[string][]bson.M, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	indexes := map[string][]bson.M{}
	collections := map[string]*mongo.Collection{
		COLLECTION_NAME_TEST_DEFINITIONS: dbService.collectionTestDefinitions(instanceID),
		COLLECTION_NAME_TEST_ATTEMPTS:    dbService.collectionTestAttempts(instanceID),
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
