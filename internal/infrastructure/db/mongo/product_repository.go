package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shopstack/catalog-api/internal/core/domain"
	"github.com/shopstack/catalog-api/internal/core/ports"
)

const collectionProducts = "products"

type ProductRepository struct {
	col *mongo.Collection
}

func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{col: db.Collection(collectionProducts)}
}

type productDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	Description string             `bson:"description"`
	Category    string             `bson:"category"`
	Price       float64            `bson:"price"`
	Rating      float64            `bson:"rating"`
	ImageURL    string             `bson:"image_url,omitempty"`
	OwnerID     string             `bson:"owner_id"`
	CreatedAt   time.Time          `bson:"created_at"`
}

func (d productDoc) toDomain() *domain.Product {
	return &domain.Product{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Description: d.Description,
		Category:    d.Category,
		Price:       d.Price,
		Rating:      d.Rating,
		ImageURL:    d.ImageURL,
		OwnerID:     d.OwnerID,
		CreatedAt:   d.CreatedAt,
	}
}

// Insert persists a new product document and returns it with the assigned id.
func (r *ProductRepository) Insert(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := productDoc{
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Price:       p.Price,
		Rating:      p.Rating,
		ImageURL:    p.ImageURL,
		OwnerID:     p.OwnerID,
		CreatedAt:   p.CreatedAt.UTC(),
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, storeErr("insert product", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, storeErr("insert product", fmt.Errorf("unexpected inserted id type %T", res.InsertedID))
	}
	doc.ID = oid
	return doc.toDomain(), nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc productDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProductNotFound
		}
		return nil, storeErr("find product", err)
	}
	return doc.toDomain(), nil
}

// List executes the normalized query and returns the matching page plus the
// total count over the whole filter.
func (r *ProductRepository) List(ctx context.Context, q ports.ProductQuery) ([]*domain.Product, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := listFilter(q)

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, storeErr("count products", err)
	}

	opts := options.Find().
		SetSort(listSort(q)).
		SetSkip(q.Skip).
		SetLimit(q.Limit)

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, storeErr("list products", err)
	}
	defer cur.Close(ctx)

	var docs []productDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, storeErr("decode products", err)
	}

	items := make([]*domain.Product, len(docs))
	for i, d := range docs {
		items[i] = d.toDomain()
	}
	return items, total, nil
}

// UpdateByID applies the patch via $set and returns the updated document.
// An empty patch never reaches here; the service short-circuits it.
func (r *ProductRepository) UpdateByID(ctx context.Context, id string, patch ports.ProductPatch) (*domain.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Category != nil {
		set["category"] = *patch.Category
	}
	if patch.Price != nil {
		set["price"] = *patch.Price
	}
	if patch.Rating != nil {
		set["rating"] = *patch.Rating
	}
	if patch.ImageURL != nil {
		set["image_url"] = *patch.ImageURL
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc productDoc
	err = r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProductNotFound
		}
		return nil, storeErr("update product", err)
	}
	return doc.toDomain(), nil
}

func (r *ProductRepository) DeleteByID(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrInvalidID
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return storeErr("delete product", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// EnsureIndexes creates the indexes the list filters rely on.
func (r *ProductRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "owner_id", Value: 1}}},
		{Keys: bson.D{{Key: "category", Value: 1}}},
		{Keys: bson.D{{Key: "price", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

// listFilter translates a ProductQuery into a bson filter. Every present
// option is ANDed; search expands to an OR over name and description with a
// case-insensitive literal-substring regex.
func listFilter(q ports.ProductQuery) bson.M {
	filter := bson.M{}

	if q.Category != "" {
		filter["category"] = q.Category
	}
	if q.MinPrice != nil || q.MaxPrice != nil {
		price := bson.M{}
		if q.MinPrice != nil {
			price["$gte"] = *q.MinPrice
		}
		if q.MaxPrice != nil {
			price["$lte"] = *q.MaxPrice
		}
		filter["price"] = price
	}
	if q.MinRating != nil {
		filter["rating"] = bson.M{"$gte": *q.MinRating}
	}
	if q.Search != "" {
		// QuoteMeta keeps the match a literal substring; user input is not a
		// regex in this API.
		re := primitive.Regex{Pattern: regexp.QuoteMeta(q.Search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"name": re},
			bson.M{"description": re},
		}
	}
	if q.OwnerID != "" {
		filter["owner_id"] = q.OwnerID
	}

	return filter
}

// listSort builds the sort document. The field name is passed through
// verbatim; sorting on a field no document has is harmless in MongoDB.
func listSort(q ports.ProductQuery) bson.D {
	dir := 1
	if q.SortDesc {
		dir = -1
	}
	return bson.D{{Key: q.SortBy, Value: dir}}
}

// storeErr tags an unexpected driver failure as a transient store error so
// callers can distinguish it from not-found or authorization outcomes. The
// cause stays in the message for diagnostics.
func storeErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, domain.ErrStoreUnavailable, err)
}
