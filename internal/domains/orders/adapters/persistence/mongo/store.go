package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Apurer/dairy-storefront/internal/domains/orders/domain"
	"github.com/Apurer/dairy-storefront/internal/domains/orders/ports"
)

// CollectionName is the order document collection.
const CollectionName = "orders"

var _ ports.Store = (*Store)(nil)

// Store reads the orders collection of a document database.
type Store struct {
	collection *mongo.Collection
}

func NewStore(db *mongo.Database) *Store {
	if db == nil {
		return &Store{}
	}
	return &Store{collection: db.Collection(CollectionName)}
}

type orderDocument struct {
	ID        bson.RawValue     `bson:"_id"`
	Status    string            `bson:"status"`
	Items     []itemDocument    `bson:"items"`
	Total     bson.RawValue     `bson:"total"`
	Customer  *customerDocument `bson:"customerInfo,omitempty"`
	CreatedAt time.Time         `bson:"createdAt,omitempty"`
}

type itemDocument struct {
	Name     string        `bson:"name"`
	Quantity int           `bson:"quantity"`
	Price    bson.RawValue `bson:"price"`
}

type customerDocument struct {
	FullName string `bson:"fullName,omitempty"`
	Email    string `bson:"email,omitempty"`
	Phone    string `bson:"phone,omitempty"`
	Address  string `bson:"address,omitempty"`
}

// FetchAll reads every document of the collection.
func (s *Store) FetchAll(ctx context.Context) ([]*domain.Order, error) {
	if err := s.ensureCollection(); err != nil {
		return nil, err
	}
	cursor, err := s.collection.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	orders := make([]*domain.Order, 0)
	for cursor.Next(ctx) {
		var doc orderDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%w: %w", ports.ErrMalformedRecord, err)
		}
		order, err := doc.toDomain()
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateStatus sets the status field of one document and nothing else.
func (s *Store) UpdateStatus(ctx context.Context, orderID string, status domain.Status) error {
	if err := s.ensureCollection(); err != nil {
		return err
	}
	result, err := s.collection.UpdateOne(ctx, idFilter(orderID), bson.M{"$set": bson.M{"status": string(status)}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ports.ErrNotFound
	}
	return nil
}

// Insert adds orders with string ids. Used by seeding and tests.
func (s *Store) Insert(ctx context.Context, orders ...*domain.Order) error {
	if err := s.ensureCollection(); err != nil {
		return err
	}
	docs := make([]any, 0, len(orders))
	for _, order := range orders {
		if order == nil {
			return errors.New("order is nil")
		}
		docs = append(docs, toDocument(order))
	}
	if len(docs) == 0 {
		return nil
	}
	_, err := s.collection.InsertMany(ctx, docs)
	return err
}

func (s *Store) ensureCollection() error {
	if s == nil || s.collection == nil {
		return errors.New("mongo order store not configured")
	}
	return nil
}

// idFilter matches ids stored either as ObjectID or as plain strings.
func idFilter(orderID string) bson.M {
	if oid, err := primitive.ObjectIDFromHex(orderID); err == nil {
		return bson.M{"_id": bson.M{"$in": bson.A{oid, orderID}}}
	}
	return bson.M{"_id": orderID}
}

func (d orderDocument) toDomain() (*domain.Order, error) {
	id, err := idString(d.ID)
	if err != nil {
		return nil, err
	}
	total, err := decimalValue(d.Total)
	if err != nil {
		return nil, fmt.Errorf("%w: order %s total: %w", ports.ErrMalformedRecord, id, err)
	}
	order := &domain.Order{
		ID:        id,
		Status:    domain.Status(d.Status),
		Total:     total,
		CreatedAt: d.CreatedAt,
	}
	for _, item := range d.Items {
		price, err := decimalValue(item.Price)
		if err != nil {
			return nil, fmt.Errorf("%w: order %s item price: %w", ports.ErrMalformedRecord, id, err)
		}
		order.Items = append(order.Items, domain.Item{Name: item.Name, Quantity: item.Quantity, Price: price})
	}
	if d.Customer != nil {
		order.Customer = &domain.CustomerInfo{
			FullName: d.Customer.FullName,
			Email:    d.Customer.Email,
			Phone:    d.Customer.Phone,
			Address:  d.Customer.Address,
		}
	}
	return order, nil
}

func idString(raw bson.RawValue) (string, error) {
	switch raw.Type {
	case bsontype.ObjectID:
		return raw.ObjectID().Hex(), nil
	case bsontype.String:
		if id := raw.StringValue(); id != "" {
			return id, nil
		}
	}
	return "", fmt.Errorf("%w: missing or unsupported _id", ports.ErrMalformedRecord)
}

// decimalValue converts any numeric BSON value to a decimal. Absent values are zero.
func decimalValue(raw bson.RawValue) (decimal.Decimal, error) {
	switch raw.Type {
	case 0, bsontype.Null, bsontype.Undefined:
		return decimal.Zero, nil
	case bsontype.Double:
		return decimal.NewFromFloat(raw.Double()), nil
	case bsontype.Int32:
		return decimal.NewFromInt32(raw.Int32()), nil
	case bsontype.Int64:
		return decimal.NewFromInt(raw.Int64()), nil
	case bsontype.Decimal128:
		return decimal.NewFromString(raw.Decimal128().String())
	case bsontype.String:
		return decimal.NewFromString(raw.StringValue())
	default:
		return decimal.Zero, fmt.Errorf("unsupported numeric type %s", raw.Type)
	}
}

func toDocument(order *domain.Order) bson.M {
	items := bson.A{}
	for _, item := range order.Items {
		price, _ := item.Price.Float64()
		items = append(items, bson.M{"name": item.Name, "quantity": item.Quantity, "price": price})
	}
	total, _ := order.Total.Float64()
	doc := bson.M{
		"_id":       order.ID,
		"status":    string(order.Status),
		"items":     items,
		"total":     total,
		"createdAt": order.CreatedAt,
	}
	if c := order.Customer; c != nil {
		doc["customerInfo"] = customerDocument{FullName: c.FullName, Email: c.Email, Phone: c.Phone, Address: c.Address}
	}
	return doc
}
