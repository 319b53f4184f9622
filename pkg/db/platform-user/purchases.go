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

var indexesForPurchasesCollection = []mongo.IndexModel{
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
			{Key: "userId", Value: 1},
			{Key: "createdAt", Value: -1},
		},
		Options: options.Index().SetName("userId_createdAt_1"),
	},
}

func (dbService *PlatformUserDBService) CreateDefaultIndexesForPurchasesCollection(instanceID string) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	collection := dbService.collectionPurchases(instanceID)
	_, err := collection.Indexes().CreateMany(ctx, indexesForPurchasesCollection)
	if err != nil {
		slog.Error("Error creating index for purchases", slog.String("error", err.Error()), slog.String("instanceID", instanceID))
	}
}

func (dbService *PlatformUserDBService) CreatePurchase(instanceID string, purchase *umTypes.Purchase) (err error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	purchase.CreatedAt = time.Now().Unix()
	purchase.Status = umTypes.PURCHASE_STATUS_PENDING

	ret, err := dbService.collectionPurchases(instanceID).InsertOne(ctx, purchase)
	if err != nil {
		return err
	}
	purchase.ID = ret.InsertedID.(primitive.ObjectID)

	return nil
}

func (dbService *PlatformUserDBService) GetPurchaseByID(instanceID string, purchaseID string) (purchase *umTypes.Purchase, err error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	_id, err := primitive.ObjectIDFromHex(purchaseID)
	if err != nil {
		return nil, err
	}

	err = dbService.collectionPurchases(instanceID).FindOne(ctx, bson.M{"_id": _id}).Decode(&purchase)
	if err != nil {
		return nil, err
	}
	return purchase, nil
}

func (dbService *PlatformUserDBService) GetPurchasesForUser(instanceID string, userID string) (purchases []*umTypes.Purchase, err error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	opts := &options.FindOptions{}
	opts.SetSort(bson.D{primitive.E{Key: "createdAt", Value: -1}})

	cur, err := dbService.collectionPurchases(instanceID).Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return purchases, err
	}

	if err = cur.All(ctx, &purchases); err != nil {
		return nil, err
	}
	return purchases, nil
}

// HasCompletedPurchase tells if the user has paid for the given test.
func (dbService *PlatformUserDBService) HasCompletedPurchase(instanceID string, userID string, testID string) (bool, error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	filter := bson.M{
		"userId": userID,
		"testId": testID,
		"status": umTypes.PURCHASE_STATUS_COMPLETED,
	}

	count, err := dbService.collectionPurchases(instanceID).CountDocuments(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (dbService *PlatformUserDBService) CompletePurchase(instanceID string, purchaseID string, invoiceID string) error {
	ctx, cancel := dbService.getContext()
	defer cancel()

	_id, err := primitive.ObjectIDFromHex(purchaseID)
	if err != nil {
		return err
	}

	filter := bson.M{
		"_id":    _id,
		"status": umTypes.PURCHASE_STATUS_PENDING,
	}
	update := bson.M{"$set": bson.M{
		"status":      umTypes.PURCHASE_STATUS_COMPLETED,
		"invoiceId":   invoiceID,
		"completedAt": time.Now().Unix(),
	}}

	res, err := dbService.collectionPurchases(instanceID).UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount < 1 {
		return errors.New("no pending purchase found")
	}
	return nil
}
