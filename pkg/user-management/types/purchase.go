package types

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	PURCHASE_STATUS_PENDING   = "pending"
	PURCHASE_STATUS_COMPLETED = "completed"
	PURCHASE_STATUS_REFUNDED  = "refunded"
)

type Purchase struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"id"`

	UserID    string  `bson:"userId" json:"userId"`
	TestID    string  `bson:"testId" json:"testId"`
	Amount    float64 `bson:"amount" json:"amount"`
	Currency  string  `bson:"currency" json:"currency"`
	Status    string  `bson:"status" json:"status"`
	InvoiceID string  `bson:"invoiceId,omitempty" json:"invoiceId,omitempty"`

	CreatedAt   int64 `bson:"createdAt" json:"createdAt"`
	CompletedAt int64 `bson:"completedAt" json:"completedAt"`
}

type Invoice struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"id"`

	UserID        string  `bson:"userId" json:"userId"`
	PurchaseID    string  `bson:"purchaseId" json:"purchaseId"`
	InvoiceNumber string  `bson:"invoiceNumber" json:"invoiceNumber"`
	Amount        float64 `bson:"amount" json:"amount"`
	Currency      string  `bson:"currency" json:"currency"`

	IssuedAt int64 `bson:"issuedAt" json:"issuedAt"`
}
