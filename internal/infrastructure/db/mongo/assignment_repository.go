package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ansi-niger/decree-portal/internal/core/domain"
	"github.com/ansi-niger/decree-portal/internal/core/ports"
)

const collectionAssignments = "assignments"

// groupableFields are the attributes that may be aggregated on.
var groupableFields = map[string]bool{
	"birth_place":      true,
	"assignment_place": true,
	"diploma":          true,
}

type AssignmentRepository struct {
	col *mongo.Collection
}

func NewAssignmentRepository(db *mongo.Database) *AssignmentRepository {
	return &AssignmentRepository{col: db.Collection(collectionAssignments)}
}

type assignmentDoc struct {
	ID              primitive.ObjectID `bson:"_id,omitempty"`
	DecreeID        primitive.ObjectID `bson:"decree_id"`
	LastName        string             `bson:"last_name"`
	FirstNames      string             `bson:"first_names"`
	BirthDate       time.Time          `bson:"birth_date"`
	BirthPlace      string             `bson:"birth_place"`
	Diploma         string             `bson:"diploma"`
	DiplomaPlace    string             `bson:"diploma_place"`
	AssignmentPlace string             `bson:"assignment_place"`
	DecreeNumber    string             `bson:"decree_number"`
	CreatedAt       time.Time          `bson:"created_at"`

	DecreeStatus      domain.DecreeStatus `bson:"decree_status"`
	DecreeTitle       string              `bson:"decree_title"`
	DecreePublishedAt *time.Time          `bson:"decree_published_at,omitempty"`
	DecreePDFFile     string              `bson:"decree_pdf_file,omitempty"`
}

func (doc *assignmentDoc) toDomain() domain.Assignment {
	a := domain.Assignment{
		ID:              doc.ID.Hex(),
		DecreeID:        doc.DecreeID.Hex(),
		LastName:        doc.LastName,
		FirstNames:      doc.FirstNames,
		BirthDate:       doc.BirthDate.UTC(),
		BirthPlace:      doc.BirthPlace,
		Diploma:         doc.Diploma,
		DiplomaPlace:    doc.DiplomaPlace,
		AssignmentPlace: doc.AssignmentPlace,
		DecreeNumber:    doc.DecreeNumber,
		CreatedAt:       doc.CreatedAt.UTC(),
		DecreeStatus:    doc.DecreeStatus,
		DecreeTitle:     doc.DecreeTitle,
		DecreePDFFile:   doc.DecreePDFFile,
	}
	if doc.DecreePublishedAt != nil {
		at := doc.DecreePublishedAt.UTC()
		a.DecreePublishedAt = &at
	}
	return a
}

// InsertMany stores a whole roster in one round trip.
func (r *AssignmentRepository) InsertMany(ctx context.Context, assignments []domain.Assignment) error {
	if len(assignments) == 0 {
		return nil
	}

	docs := make([]interface{}, 0, len(assignments))
	for _, a := range assignments {
		decreeID, err := primitive.ObjectIDFromHex(a.DecreeID)
		if err != nil {
			return fmt.Errorf("invalid decree id %q: %w", a.DecreeID, err)
		}
		docs = append(docs, assignmentDoc{
			DecreeID:          decreeID,
			LastName:          a.LastName,
			FirstNames:        a.FirstNames,
			BirthDate:         a.BirthDate,
			BirthPlace:        a.BirthPlace,
			Diploma:           a.Diploma,
			DiplomaPlace:      a.DiplomaPlace,
			AssignmentPlace:   a.AssignmentPlace,
			DecreeNumber:      a.DecreeNumber,
			CreatedAt:         a.CreatedAt,
			DecreeStatus:      a.DecreeStatus,
			DecreeTitle:       a.DecreeTitle,
			DecreePublishedAt: a.DecreePublishedAt,
			DecreePDFFile:     a.DecreePDFFile,
		})
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertMany(ctx, docs)
	return err
}

// FindByDecree returns the roster of a decree in name order.
func (r *AssignmentRepository) FindByDecree(ctx context.Context, decreeID string) ([]domain.Assignment, error) {
	oid, err := objectID(decreeID, domain.ErrDecreeNotFound)
	if err != nil {
		return nil, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "last_name", Value: 1}, {Key: "first_names", Value: 1}}).
		SetCollation(frenchCollation)
	return r.find(ctx, bson.M{"decree_id": oid}, opts)
}

// TallyByDecree skips malformed ids; they cannot own assignments.
func (r *AssignmentRepository) TallyByDecree(ctx context.Context, decreeIDs []string) (map[string]ports.DecreeTally, error) {
	oids := make([]primitive.ObjectID, 0, len(decreeIDs))
	for _, id := range decreeIDs {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			oids = append(oids, oid)
		}
	}
	if len(oids) == 0 {
		return map[string]ports.DecreeTally{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Aggregate(ctx, tallyPipeline(oids), options.Aggregate().SetCollation(frenchCollation))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []tallyRow
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	return tallies(rows), nil
}

type tallyRow struct {
	DecreeID primitive.ObjectID `bson:"_id"`
	Count    int64              `bson:"count"`
	Places   []string           `bson:"places"`
}

// tallyPipeline groups by decree and institution first so that the places
// pushed by the second group arrive deduplicated and collated.
func tallyPipeline(oids []primitive.ObjectID) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"decree_id": bson.M{"$in": oids}}}},
		{{Key: "$group", Value: bson.M{
			"_id":   bson.M{"decree": "$decree_id", "place": "$assignment_place"},
			"count": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id.place", Value: 1}}}},
		{{Key: "$group", Value: bson.M{
			"_id":    "$_id.decree",
			"count":  bson.M{"$sum": "$count"},
			"places": bson.M{"$push": "$_id.place"},
		}}},
	}
}

func tallies(rows []tallyRow) map[string]ports.DecreeTally {
	out := make(map[string]ports.DecreeTally, len(rows))
	for _, row := range rows {
		places := make([]string, 0, len(row.Places))
		for _, p := range row.Places {
			if p != "" {
				places = append(places, p)
			}
		}
		out[row.DecreeID.Hex()] = ports.DecreeTally{Count: row.Count, Institutions: places}
	}
	return out
}

func (r *AssignmentRepository) SyncDecree(ctx context.Context, d *domain.Decree) error {
	oid, err := objectID(d.ID, domain.ErrDecreeNotFound)
	if err != nil {
		return err
	}

	set := bson.M{
		"decree_status":   d.Status,
		"decree_title":    d.Title,
		"decree_pdf_file": d.PDFFile,
	}
	update := bson.M{"$set": set}
	if d.PublishedAt != nil {
		set["decree_published_at"] = *d.PublishedAt
	} else {
		update["$unset"] = bson.M{"decree_published_at": ""}
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err = r.col.UpdateMany(ctx, bson.M{"decree_id": oid}, update)
	return err
}

func (r *AssignmentRepository) DeleteByDecree(ctx context.Context, decreeID string) (int64, error) {
	oid, err := objectID(decreeID, domain.ErrDecreeNotFound)
	if err != nil {
		return 0, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteMany(ctx, bson.M{"decree_id": oid})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// ListPublished pages through every published assignment, latest decree first.
func (r *AssignmentRepository) ListPublished(ctx context.Context, page, limit int) ([]domain.Assignment, int64, error) {
	return r.page(ctx, publishedFilter(), page, limit)
}

// Search ANDs every non-empty criterion; the free-text query may match any
// searchable attribute.
func (r *AssignmentRepository) Search(ctx context.Context, c ports.AssignmentSearch) ([]domain.Assignment, int64, error) {
	return r.page(ctx, searchFilter(c), c.Page, c.Limit)
}

// queryFields are matched by the free-text query; any one of them may match.
var queryFields = []string{
	"last_name", "first_names", "birth_place", "diploma", "assignment_place", "diploma_place",
}

// searchFilter restricts to published assignments and ANDs the free-text
// group, each per-field filter and the birth date range.
func searchFilter(c ports.AssignmentSearch) bson.M {
	filter := publishedFilter()
	and := bson.A{}

	if c.Query != "" {
		re := containsRegex(c.Query)
		or := make(bson.A, 0, len(queryFields))
		for _, f := range queryFields {
			or = append(or, bson.M{f: re})
		}
		and = append(and, bson.M{"$or": or})
	}
	for _, f := range []struct {
		field string
		value string
	}{
		{"last_name", c.LastName},
		{"first_names", c.FirstNames},
		{"birth_place", c.BirthPlace},
		{"diploma", c.Diploma},
		{"assignment_place", c.Institution},
	} {
		if f.value != "" {
			and = append(and, bson.M{f.field: containsRegex(f.value)})
		}
	}
	if !c.BirthFrom.IsZero() || !c.BirthTo.IsZero() {
		rng := bson.M{}
		if !c.BirthFrom.IsZero() {
			rng["$gte"] = c.BirthFrom
		}
		if !c.BirthTo.IsZero() {
			rng["$lt"] = c.BirthTo
		}
		and = append(and, bson.M{"birth_date": rng})
	}
	if len(and) > 0 {
		filter["$and"] = and
	}
	return filter
}

// DistinctPublished returns sorted distinct values of field among published
// assignments, restricted to values containing q when q is set.
func (r *AssignmentRepository) DistinctPublished(ctx context.Context, field, q string, limit int) ([]string, error) {
	if !groupableFields[field] {
		return nil, fmt.Errorf("field %q cannot be listed", field)
	}

	filter := publishedFilter()
	if q != "" {
		filter[field] = containsRegex(q)
	}
	return r.distinct(ctx, field, filter, limit)
}

func (r *AssignmentRepository) CountPublished(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.col.CountDocuments(ctx, publishedFilter())
}

func (r *AssignmentRepository) CountDistinctPublished(ctx context.Context, field string) (int64, error) {
	if !groupableFields[field] {
		return 0, fmt.Errorf("field %q cannot be counted", field)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: publishedFilter()}},
		{{Key: "$group", Value: bson.M{"_id": "$" + field}}},
		{{Key: "$count", Value: "total"}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	defer cur.Close(ctx)

	var out []struct {
		Total int64 `bson:"total"`
	}
	if err := cur.All(ctx, &out); err != nil {
		return 0, err
	}
	if len(out) == 0 {
		return 0, nil
	}
	return out[0].Total, nil
}

// GroupPublished counts published assignments per value of field.
func (r *AssignmentRepository) GroupPublished(ctx context.Context, field string, limit int) ([]domain.GroupCount, error) {
	if !groupableFields[field] {
		return nil, fmt.Errorf("field %q cannot be grouped", field)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: publishedFilter()}},
		{{Key: "$group", Value: bson.M{"_id": "$" + field, "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
	}
	if limit > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$limit", Value: limit}})
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		Name  string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}

	groups := make([]domain.GroupCount, 0, len(rows))
	for _, row := range rows {
		groups = append(groups, domain.GroupCount{Name: row.Name, Count: row.Count})
	}
	return groups, nil
}

func (r *AssignmentRepository) page(ctx context.Context, filter bson.M, page, limit int) ([]domain.Assignment, int64, error) {
	total, err := r.count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{
			{Key: "decree_published_at", Value: -1},
			{Key: "last_name", Value: 1},
			{Key: "first_names", Value: 1},
		}).
		SetCollation(frenchCollation).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	items, err := r.find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *AssignmentRepository) count(ctx context.Context, filter bson.M) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.col.CountDocuments(ctx, filter)
}

func (r *AssignmentRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]domain.Assignment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []assignmentDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	items := make([]domain.Assignment, 0, len(docs))
	for i := range docs {
		items = append(items, docs[i].toDomain())
	}
	return items, nil
}

// distinct groups on field so that the values can be sorted with the French
// collation, which the distinct command does not support.
func (r *AssignmentRepository) distinct(ctx context.Context, field string, filter bson.M, limit int) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: filter}},
		{{Key: "$group", Value: bson.M{"_id": "$" + field}}},
		{{Key: "$match", Value: bson.M{"_id": bson.M{"$nin": bson.A{nil, ""}}}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}
	if limit > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$limit", Value: limit}})
	}

	cur, err := r.col.Aggregate(ctx, pipeline, options.Aggregate().SetCollation(frenchCollation))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		Value string `bson:"_id"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}

	values := make([]string, 0, len(rows))
	for _, row := range rows {
		values = append(values, row.Value)
	}
	return values, nil
}

func publishedFilter() bson.M {
	return bson.M{"decree_status": domain.StatusPublished}
}

// EnsureIndexes creates necessary indexes on the assignments collection.
func (r *AssignmentRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "decree_id", Value: 1}}},
		{Keys: bson.D{{Key: "decree_status", Value: 1}, {Key: "decree_published_at", Value: -1}}},
		{
			Keys:    bson.D{{Key: "last_name", Value: 1}, {Key: "first_names", Value: 1}},
			Options: options.Index().SetCollation(frenchCollation),
		},
		{Keys: bson.D{{Key: "birth_date", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
