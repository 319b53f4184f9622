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

var indexesForTestAttemptsCollection = []mongo.IndexModel{
	{
		Keys: bson.D{
			{Key: "userId", Value: 1},
			{Key: "testId", Value: 1},
			{Key: "status", Value: 1},
		},
		Options: options.Index().SetName("userId_testId_status_1"),
	},
	{
		Keys: bson.D{
			{Key: "status", Value: 1},
			{Key: "startedAt", Value: 1},
		},
		Options: options.Index().SetName("status_startedAt_1"),
	},
	{
		Keys: bson.D{
			{Key: "userId", Value: 1},
			{Key: "submittedAt", Value: -1},
		},
		Options: options.Index().SetName("userId_submittedAt_1"),
	},
}

func (dbService *AssessmentDBService) CreateDefaultIndexesForTestAttemptsCollection(instanceID string) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	collection := dbService.collectionTestAttempts(instanceID)
	_, err := collection.Indexes().CreateMany(ctx, indexesForTestAttemptsCollection)
	if err != nil {
		slog.Error("Error creating index for test attempts", slog.String("error", err.Error()), slog.String("instanceID", instanceID))
	}
}

func (dbService *AssessmentDBService) CreateTestAttempt(instanceID string, attempt *assessmentTypes.TestAttempt) (err error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	attempt.StartedAt = time.Now().Unix()
	attempt.Status = assessmentTypes.ATTEMPT_STATUS_IN_PROGRESS

	ret, err := dbService.collectionTestAttempts(instanceID).InsertOne(ctx, attempt)
	if err != nil {
		return err
	}
	attempt.ID = ret.InsertedID.(primitive.ObjectID)

	return nil
}

func (dbService *AssessmentDBService) GetTestAttemptByID(instanceID string, attemptID string) (attempt *assessmentTypes.TestAttempt, err error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	_id, err := primitive.ObjectIDFromHex(attemptID)
	if err != nil {
		return nil, err
	}

	filter := bson.M{"_id": _id}
	err = dbService.collectionTestAttempts(instanceID).FindOne(ctx, filter).Decode(&attempt)
	if err != nil {
		return nil, err
	}
	return attempt, nil
}

func (dbService *AssessmentDBService) GetCurrentAttemptForUser(instanceID string, userID string, testID string) (attempt *assessmentTypes.TestAttempt, err error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	filter := bson.M{
		"userId": userID,
		"testId": testID,
		"status": assessmentTypes.ATTEMPT_STATUS_IN_PROGRESS,
	}

	opts := &options.FindOneOptions{}
	opts.SetSort(bson.D{primitive.E{Key: "startedAt", Value: -1}})

	err = dbService.collectionTestAttempts(instanceID).FindOne(ctx, filter, opts).Decode(&attempt)
	if err != nil {
		return nil, err
	}
	return attempt, nil
}

func (dbService *AssessmentDBService) GetTestAttemptsForUser(instanceID string, userID string) (attempts []*assessmentTypes.TestAttempt, err error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	filter := bson.M{"userId": userID}

	opts := &options.FindOptions{}
	opts.SetSort(bson.D{primitive.E{Key: "startedAt", Value: -1}})

	cur, err := dbService.collectionTestAttempts(instanceID).Find(ctx, filter, opts)
	if err != nil {
		return attempts, err
	}

	if err = cur.All(ctx, &attempts); err != nil {
		return nil, err
	}
	return attempts, nil
}

func (dbService *AssessmentDBService) UpdateAttemptAnswers(instanceID string, attemptID string, userID string, answers assessmentTypes.Answers) error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	_id, err := primitive.ObjectIDFromHex(attemptID)
	if err != nil {
		return err
	}

	filter := bson.M{
		"_id":    _id,
		"userId": userID,
		"status": assessmentTypes.ATTEMPT_STATUS_IN_PROGRESS,
	}
	update := bson.M{"$set": bson.M{"answers": answers}}

	res, err := dbService.collectionTestAttempts(instanceID).UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount < 1 {
		return errors.New("no attempt in progress for this user")
	}
	return nil
}

func (dbService *AssessmentDBService) FinalizeTestAttempt(instanceID string, attemptID string, userID string, answers assessmentTypes.Answers, result *assessmentTypes.AttemptResult) error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	_id, err := primitive.ObjectIDFromHex(attemptID)
	if err != nil {
		return err
	}

	filter := bson.M{
		"_id":    _id,
		"userId": userID,
		"status": assessmentTypes.ATTEMPT_STATUS_IN_PROGRESS,
	}
	update := bson.M{"$set": bson.M{
		"status":      assessmentTypes.ATTEMPT_STATUS_SUBMITTED,
		"answers":     answers,
		"submittedAt": time.Now().Unix(),
		"result":      result,
	}}

	res, err := dbService.collectionTestAttempts(instanceID).UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount < 1 {
		return errors.New("no attempt in progress for this user")
	}
	return nil
}

// ExpireStaleAttempts marks in-progress attempts older than the reference
// timestamp as expired. Used by the data retention job.
func (dbService *AssessmentDBService) ExpireStaleAttempts(instanceID string, startedBefore int64) (count int64, err error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	filter := bson.M{
		"status":    assessmentTypes.ATTEMPT_STATUS_IN_PROGRESS,
		"startedAt": bson.M{"$lt": startedBefore},
	}
	update := bson.M{"$set": bson.M{"status": assessmentTypes.ATTEMPT_STATUS_EXPIRED}}

	res, err := dbService.collectionTestAttempts(instanceID).UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (dbService *AssessmentDBService) DeleteAttemptsForUser(instanceID string, userID string) (count int64, err error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	res, err := dbService.collectionTestAttempts(instanceID).DeleteMany(ctx, bson.M{"userId": userID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
