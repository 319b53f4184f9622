package platformuser

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	umTypes "github.com/wttaideveloper/MentalHealth-sub002/pkg/user-management/types"
)

func (dbService *PlatformUserDBService) CreateInvoice(instanceID string, invoice *umTypes.Invoice) (err error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	invoice.IssuedAt = time.Now().Unix()

	ret, err := dbService.collectionInvoices(instanceID).InsertOne(ctx, invoice)
	if err != nil {
		return err
	}
	invoice.ID = ret.InsertedID.(primitive.ObjectID)

	return nil
}

func (dbService *PlatformUserDBService) GetInvoiceByID(instanceID string, invoiceID string) (invoice *umTypes.Invoice, err error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	_id, err := primitive.ObjectIDFromHex(invoiceID)
	if err != nil {
		return nil, err
	}

	err = dbService.collectionInvoices(instanceID).FindOne(ctx, bson.M{"_id": _id}).Decode(&invoice)
	if err != nil {
		return nil, err
	}
	return invoice, nil
}

func (dbService *PlatformUserDBService) GetInvoicesForUser(instanceID string, userID string) (invoices []*umTypes.Invoice, err error) {
	ctx, cancel := dbService.getContext()
	defer cancel()

	opts := &options.FindOptions{}
	opts.SetSort(bson.D{primitive.E{Key: "issuedAt", Value: -1}})

	cur, err := dbService.collectionInvoices(instanceID).Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return invoices, err
	}

	if err = cur.All(ctx, &invoices); err != nil {
		return nil, err
	}
	return invoices, nil
}
