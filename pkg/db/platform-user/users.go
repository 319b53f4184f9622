package platformuser

import (
	"errors"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	umTypes "github.com/wttaideveloper/MentalHealth-sub002/pkg/user-management/types"
)

var indexesForPlatformUsersCollection = []mongo.IndexModel{
	{
		Keys: bson.D{
			{Key: "account.accountID", Value: 1},
		},
		Options: options.Index().SetName("account.accountID_1").SetUnique(true),
	},
	{
		Keys: bson.D{
			{Key: "timestamps.markedForDeletion", Value: 1},
		},
		Options: options.Index().SetName("timestamps.markedForDeletion_1"),
	},
	{
		Keys: bson.D{
			{Key: "timestamps.createdAt", Value: 1},
		},
		Options: options.Index().SetName("timestamps.createdAt_1"),
	},
}

func (dbService *PlatformUserDBService) CreateDefaultIndexesForPlatformUsersCollection(instanceID string) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	collection := dbService.collectionPlatformUsers(instanceID)
	_, err := collection.Indexes().CreateMany(ctx, indexesForPlatformUsersCollection)
	if err != nil {
		slog.Error("Error creating index for platform users", slog.String("error", err.Error()), slog.String("instanceID", instanceID))
	}
}

func (dbService *PlatformUserDBService) CreateUser(instanceID string, user *umTypes.PlatformUser) (err error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	user.Timestamps.CreatedAt = time.Now().Unix()
	user.Timestamps.UpdatedAt = user.Timestamps.CreatedAt

	ret, err := dbService.collectionPlatformUsers(instanceID).InsertOne(ctx, user)
	if err != nil {
		return err
	}
	user.ID = ret.InsertedID.(primitive.ObjectID)

	return nil
}

func (dbService *PlatformUserDBService) GetUserByID(instanceID string, userID string) (user *umTypes.PlatformUser, err error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	_id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, err
	}

	filter := bson.M{"_id": _id}
	err = dbService.collectionPlatformUsers(instanceID).FindOne(ctx, filter).Decode(&user)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (dbService *PlatformUserDBService) GetUserByAccountID(instanceID string, accountID string) (user *umTypes.PlatformUser, err error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	filter := bson.M{"account.accountID": accountID}
	err = dbService.collectionPlatformUsers(instanceID).FindOne(ctx, filter).Decode(&user)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (dbService *PlatformUserDBService) ReplaceUser(instanceID string, user *umTypes.PlatformUser) (err error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	if user.ID.IsZero() {
		return errors.New("user id must be set")
	}
	user.Timestamps.UpdatedAt = time.Now().Unix()

	filter := bson.M{"_id": user.ID}
	res, err := dbService.collectionPlatformUsers(instanceID).ReplaceOne(ctx, filter, user)
	if err != nil {
		return err
	}
	if res.MatchedCount < 1 {
		return errors.New("no user was updated")
	}
	return nil
}

func (dbService *PlatformUserDBService) UpdateLoginTime(instanceID string, userID string) error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	_id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return err
	}

	update := bson.M{"$set": bson.M{"timestamps.lastLogin": time.Now().Unix()}}
	_, err = dbService.collectionPlatformUsers(instanceID).UpdateOne(ctx, bson.M{"_id": _id}, update)
	return err
}

func (dbService *PlatformUserDBService) UpdateAccountPassword(instanceID string, userID string, newPasswordHash string) error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	_id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return err
	}

	update := bson.M{"$set": bson.M{
		"account.password":              newPasswordHash,
		"timestamps.lastPasswordChange": time.Now().Unix(),
		"timestamps.updatedAt":          time.Now().Unix(),
	}}
	res, err := dbService.collectionPlatformUsers(instanceID).UpdateOne(ctx, bson.M{"_id": _id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount < 1 {
		return errors.New("no user was updated")
	}
	return nil
}

// SavePasswordResetToken stores the reset token for a user. An empty token
// clears a pending reset.
func (dbService *PlatformUserDBService) SavePasswordResetToken(instanceID string, userID string, token string) error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	_id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return err
	}

	resetAt := int64(0)
	if token != "" {
		resetAt = time.Now().Unix()
	}

	update := bson.M{"$set": bson.M{
		"account.passwordResetToken": token,
		"account.passwordResetAt":    resetAt,
	}}
	res, err := dbService.collectionPlatformUsers(instanceID).UpdateOne(ctx, bson.M{"_id": _id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount < 1 {
		return errors.New("no user was updated")
	}
	return nil
}

func (dbService *PlatformUserDBService) UpdateFailedLoginAttempts(instanceID string, userID string, count int) error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	_id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return err
	}

	update := bson.M{"$set": bson.M{"account.failedLoginAttempts": count}}
	_, err = dbService.collectionPlatformUsers(instanceID).UpdateOne(ctx, bson.M{"_id": _id}, update)
	return err
}

func (dbService *PlatformUserDBService) MarkUserForDeletion(instanceID string, userID string) error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	_id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return err
	}

	update := bson.M{"$set": bson.M{"timestamps.markedForDeletion": time.Now().Unix()}}
	res, err := dbService.collectionPlatformUsers(instanceID).UpdateOne(ctx, bson.M{"_id": _id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount < 1 {
		return errors.New("no user was updated")
	}
	return nil
}

func (dbService *PlatformUserDBService) GetUsersMarkedForDeletion(instanceID string, markedBefore int64) (users []*umTypes.PlatformUser, err error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	filter := bson.M{
		"timestamps.markedForDeletion": bson.M{"$gt": 0, "$lt": markedBefore},
	}

	cur, err := dbService.collectionPlatformUsers(instanceID).Find(ctx, filter)
	if err != nil {
		return users, err
	}

	if err = cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (dbService *PlatformUserDBService) DeleteUser(instanceID string, userID string) error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	_id, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return err
	}

	res, err := dbService.collectionPlatformUsers(instanceID).DeleteOne(ctx, bson.M{"_id": _id})
	if err != nil {
		return err
	}
	if res.DeletedCount < 1 {
		return errors.New("no user was deleted")
	}
	return nil
}
