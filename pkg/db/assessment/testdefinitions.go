package assessment

import (
	"errors"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	assessmentTypes "github.com/wttaideveloper/MentalHealth-sub002/pkg/assessment/types"
)

var indexesForTestDefinitionsCollection = []mongo.IndexModel{
	{
		Keys: bson.D{
			{Key: "category", Value: 1},
			{Key: "isActive", Value: 1},
		},
		Options: options.Index().SetName("category_isActive_1"),
	},
	{
		Keys: bson.D{
			{Key: "isActive", Value: 1},
			{Key: "createdAt", Value: -1},
		},
		Options: options.Index().SetName("isActive_createdAt_1"),
	},
}

func (dbService *AssessmentDBService) CreateDefaultIndexesForTestDefinitionsCollection(instanceID string) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	collection := dbService.collectionTestDefinitions(instanceID)
	_, err := collection.Indexes().CreateMany(ctx, indexesForTestDefinitionsCollection)
	if err != nil {
		slog.Error("Error creating index for test definitions", slog.String("error", err.Error()), slog.String("instanceID", instanceID))
	}
}

func (dbService *AssessmentDBService) CreateTestDefinition(instanceID string, testDef *assessmentTypes.TestDefinition) (err error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	testDef.CreatedAt = time.Now().Unix()
	testDef.UpdatedAt = testDef.CreatedAt

	ret, err := dbService.collectionTestDefinitions(instanceID).InsertOne(ctx, testDef)
	if err != nil {
		return err
	}
	testDef.ID = ret.InsertedID.(primitive.ObjectID)

	return nil
}

func (dbService *AssessmentDBService) GetTestDefinitionByID(instanceID string, testID string) (testDef *assessmentTypes.TestDefinition, err error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	_id, err := primitive.ObjectIDFromHex(testID)
	if err != nil {
		return nil, err
	}

	filter := bson.M{"_id": _id}
	err = dbService.collectionTestDefinitions(instanceID).FindOne(ctx, filter).Decode(&testDef)
	if err != nil {
		return nil, err
	}
	return testDef, nil
}

var sortByCreatedAtDesc = bson.D{
	primitive.E{Key: "createdAt", Value: -1},
}

func (dbService *AssessmentDBService) GetTestDefinitions(instanceID string, category string, activeOnly bool) (testDefs []*assessmentTypes.TestDefinition, err error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	filter := bson.M{}
	if activeOnly {
		filter["isActive"] = true
	}
	if len(category) > 0 {
		filter["category"] = category
	}

	opts := &options.FindOptions{}
	opts.SetSort(sortByCreatedAtDesc)

	cur, err := dbService.collectionTestDefinitions(instanceID).Find(
		ctx,
		filter,
		opts,
	)
	if err != nil {
		return testDefs, err
	}

	if err = cur.All(ctx, &testDefs); err != nil {
		return nil, err
	}
	return testDefs, nil
}

func (dbService *AssessmentDBService) ReplaceTestDefinition(instanceID string, testDef *assessmentTypes.TestDefinition) (err error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	if testDef.ID.IsZero() {
		return errors.New("test definition id must be set")
	}
	testDef.UpdatedAt = time.Now().Unix()

	filter := bson.M{"_id": testDef.ID}
	res, err := dbService.collectionTestDefinitions(instanceID).ReplaceOne(ctx, filter, testDef)
	if err != nil {
		return err
	}
	if res.MatchedCount < 1 {
		return errors.New("no test definition was updated")
	}
	return nil
}

// ArchiveTestDefinition marks a test as inactive instead of removing it,
// so existing attempts keep a resolvable reference.
func (dbService *AssessmentDBService) ArchiveTestDefinition(instanceID string, testID string) error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	_id, err := primitive.ObjectIDFromHex(testID)
	if err != nil {
		return err
	}

	filter := bson.M{"_id": _id}
	update := bson.M{"$set": bson.M{
		"isActive":  false,
		"updatedAt": time.Now().Unix(),
	}}
	res, err := dbService.collectionTestDefinitions(instanceID).UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount < 1 {
		return errors.New("no test definition was archived")
	}
	return nil
}
