package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ansi-niger/decree-portal/internal/core/domain"
	"github.com/ansi-niger/decree-portal/internal/core/ports"
)

const collectionDecrees = "decrees"

type DecreeRepository struct {
	col *mongo.Collection
}

func NewDecreeRepository(db *mongo.Database) *DecreeRepository {
	return &DecreeRepository{col: db.Collection(collectionDecrees)}
}

type decreeDoc struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty"`
	Number      string              `bson:"number"`
	Title       string              `bson:"title"`
	Description string              `bson:"description,omitempty"`
	Status      domain.DecreeStatus `bson:"status"`
	ExcelFile   string              `bson:"excel_file,omitempty"`
	PDFFile     string              `bson:"pdf_file,omitempty"`
	CreatedAt   time.Time           `bson:"created_at"`
	UpdatedAt   time.Time           `bson:"updated_at"`
	PublishedAt *time.Time          `bson:"published_at,omitempty"`
}

func newDecreeDoc(d *domain.Decree) decreeDoc {
	return decreeDoc{
		Number:      d.Number,
		Title:       d.Title,
		Description: d.Description,
		Status:      d.Status,
		ExcelFile:   d.ExcelFile,
		PDFFile:     d.PDFFile,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
		PublishedAt: d.PublishedAt,
	}
}

func (doc *decreeDoc) toDomain() *domain.Decree {
	d := &domain.Decree{
		ID:          doc.ID.Hex(),
		Number:      doc.Number,
		Title:       doc.Title,
		Description: doc.Description,
		Status:      doc.Status,
		ExcelFile:   doc.ExcelFile,
		PDFFile:     doc.PDFFile,
		CreatedAt:   doc.CreatedAt.UTC(),
		UpdatedAt:   doc.UpdatedAt.UTC(),
	}
	if doc.PublishedAt != nil {
		at := doc.PublishedAt.UTC()
		d.PublishedAt = &at
	}
	return d
}

// Create inserts a new decree and assigns its generated id.
func (r *DecreeRepository) Create(ctx context.Context, d *domain.Decree) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, newDecreeDoc(d))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateDecree
		}
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		d.ID = oid.Hex()
	}
	return nil
}

func (r *DecreeRepository) FindByID(ctx context.Context, id string) (*domain.Decree, error) {
	oid, err := objectID(id, domain.ErrDecreeNotFound)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *DecreeRepository) FindByNumber(ctx context.Context, number string) (*domain.Decree, error) {
	return r.findOne(ctx, bson.M{"number": number})
}

func (r *DecreeRepository) findOne(ctx context.Context, filter bson.M) (*domain.Decree, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc decreeDoc
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrDecreeNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *DecreeRepository) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{"number": number}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// List returns the requested page, newest first, together with the number
// of decrees matching the filter.
func (r *DecreeRepository) List(ctx context.Context, f ports.ListDecreesFilter) ([]*domain.Decree, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.Search != "" {
		re := containsRegex(f.Search)
		filter["$or"] = bson.A{
			bson.M{"number": re},
			bson.M{"title": re},
			bson.M{"description": re},
		}
	}

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64((f.Page - 1) * f.Limit)).
		SetLimit(int64(f.Limit))

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	var docs []decreeDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, err
	}

	decrees := make([]*domain.Decree, 0, len(docs))
	for i := range docs {
		decrees = append(decrees, docs[i].toDomain())
	}
	return decrees, total, nil
}

func (r *DecreeRepository) UpdateDetails(ctx context.Context, id, title, description string, at time.Time) (*domain.Decree, error) {
	return r.update(ctx, id, bson.M{"$set": bson.M{
		"title":       title,
		"description": description,
		"updated_at":  at,
	}})
}

// UpdateStatus sets the status and stamps publishedAt when it is not nil.
func (r *DecreeRepository) UpdateStatus(ctx context.Context, id string, status domain.DecreeStatus, publishedAt *time.Time, at time.Time) (*domain.Decree, error) {
	set := bson.M{"status": status, "updated_at": at}
	if publishedAt != nil {
		set["published_at"] = *publishedAt
	}
	return r.update(ctx, id, bson.M{"$set": set})
}

func (r *DecreeRepository) update(ctx context.Context, id string, update bson.M) (*domain.Decree, error) {
	oid, err := objectID(id, domain.ErrDecreeNotFound)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc decreeDoc
	err = r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrDecreeNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *DecreeRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id, domain.ErrDecreeNotFound)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrDecreeNotFound
	}
	return nil
}

func (r *DecreeRepository) Count(ctx context.Context, status domain.DecreeStatus) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	return r.col.CountDocuments(ctx, filter)
}

// StoredFiles lists every upload path still referenced by a decree.
func (r *DecreeRepository) StoredFiles(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetProjection(bson.M{"excel_file": 1, "pdf_file": 1})
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var paths []string
	for cur.Next(ctx) {
		var doc decreeDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode decree files: %w", err)
		}
		if doc.ExcelFile != "" {
			paths = append(paths, doc.ExcelFile)
		}
		if doc.PDFFile != "" {
			paths = append(paths, doc.PDFFile)
		}
	}
	return paths, cur.Err()
}

// EnsureIndexes creates necessary indexes on the decrees collection.
func (r *DecreeRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "number", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
