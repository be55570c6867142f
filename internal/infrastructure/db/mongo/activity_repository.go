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
)

const (
	collectionActivityLogs = "activity_logs"
	collectionDailyStats   = "daily_statistics"
)

// dailyCounters are the only fields IncrementDaily may touch.
var dailyCounters = map[string]bool{
	"searches":      true,
	"consultations": true,
	"downloads":     true,
	"imports":       true,
}

type ActivityRepository struct {
	logs  *mongo.Collection
	daily *mongo.Collection
}

func NewActivityRepository(db *mongo.Database) *ActivityRepository {
	return &ActivityRepository{
		logs:  db.Collection(collectionActivityLogs),
		daily: db.Collection(collectionDailyStats),
	}
}

type activityDoc struct {
	ID          primitive.ObjectID    `bson:"_id,omitempty"`
	Action      domain.ActivityAction `bson:"action"`
	Description string                `bson:"description,omitempty"`
	IPAddress   string                `bson:"ip_address"`
	UserAgent   string                `bson:"user_agent"`
	DeviceType  string                `bson:"device_type"`
	DeviceName  string                `bson:"device_name"`
	DecreeID    string                `bson:"decree_id,omitempty"`
	Metadata    bson.M                `bson:"metadata,omitempty"`
	CreatedAt   time.Time             `bson:"created_at"`
}

func (doc *activityDoc) toDomain() domain.ActivityLog {
	var meta map[string]any
	if len(doc.Metadata) > 0 {
		meta = plainMap(doc.Metadata)
	}
	return domain.ActivityLog{
		ID:          doc.ID.Hex(),
		Action:      doc.Action,
		Description: doc.Description,
		IPAddress:   doc.IPAddress,
		UserAgent:   doc.UserAgent,
		DeviceType:  doc.DeviceType,
		DeviceName:  doc.DeviceName,
		DecreeID:    doc.DecreeID,
		Metadata:    meta,
		CreatedAt:   doc.CreatedAt.UTC(),
	}
}

// plainMap converts decoded BSON containers back to ordinary Go values so the
// metadata serializes as regular JSON.
func plainMap(m bson.M) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = plainValue(v)
	}
	return out
}

func plainValue(v any) any {
	switch t := v.(type) {
	case bson.M:
		return plainMap(t)
	case bson.D:
		return plainMap(t.Map())
	case bson.A:
		out := make([]any, len(t))
		for i := range t {
			out[i] = plainValue(t[i])
		}
		return out
	case primitive.DateTime:
		return t.Time().UTC()
	case primitive.ObjectID:
		return t.Hex()
	}
	return v
}

func (r *ActivityRepository) Insert(ctx context.Context, l *domain.ActivityLog) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := activityDoc{
		Action:      l.Action,
		Description: l.Description,
		IPAddress:   l.IPAddress,
		UserAgent:   l.UserAgent,
		DeviceType:  l.DeviceType,
		DeviceName:  l.DeviceName,
		DecreeID:    l.DecreeID,
		Metadata:    l.Metadata,
		CreatedAt:   l.CreatedAt,
	}

	res, err := r.logs.InsertOne(ctx, doc)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		l.ID = oid.Hex()
	}
	return nil
}

func (r *ActivityRepository) List(ctx context.Context, action domain.ActivityAction, limit int) ([]domain.ActivityLog, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{}
	if action != "" {
		filter["action"] = action
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := r.logs.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []activityDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	logs := make([]domain.ActivityLog, 0, len(docs))
	for i := range docs {
		logs = append(logs, docs[i].toDomain())
	}
	return logs, nil
}

// IncrementDaily bumps counter on the statistics row of day, creating the
// row on first use.
func (r *ActivityRepository) IncrementDaily(ctx context.Context, day, counter string) error {
	if !dailyCounters[counter] {
		return fmt.Errorf("unknown daily counter %q", counter)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.daily.UpdateOne(ctx,
		bson.M{"day": day},
		bson.M{"$inc": bson.M{counter: 1}},
		options.Update().SetUpsert(true),
	)
	return err
}

type dailyDoc struct {
	Day           string `bson:"day"`
	Searches      int64  `bson:"searches"`
	Consultations int64  `bson:"consultations"`
	Downloads     int64  `bson:"downloads"`
	Imports       int64  `bson:"imports"`
}

// DailyStatistics returns the counter rows from sinceDay (YYYY-MM-DD,
// inclusive) onwards, oldest first.
func (r *ActivityRepository) DailyStatistics(ctx context.Context, sinceDay string) ([]domain.DailyStatistic, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.daily.Find(ctx,
		bson.M{"day": bson.M{"$gte": sinceDay}},
		options.Find().SetSort(bson.D{{Key: "day", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []dailyDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	days := make([]domain.DailyStatistic, 0, len(docs))
	for _, d := range docs {
		days = append(days, domain.DailyStatistic(d))
	}
	return days, nil
}

func (r *ActivityRepository) CountByAction(ctx context.Context, action domain.ActivityAction) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.logs.CountDocuments(ctx, bson.M{"action": action})
}

// SearchesPerDay counts search logs per UTC day since the given instant.
// Days without searches are absent.
func (r *ActivityRepository) SearchesPerDay(ctx context.Context, since time.Time) ([]domain.DayCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"action": domain.ActionSearch, "created_at": bson.M{"$gte": since}}}},
		{{Key: "$group", Value: bson.M{
			"_id":   bson.M{"$dateToString": bson.M{"format": "%Y-%m-%d", "date": "$created_at"}},
			"count": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}

	var rows []countRow
	if err := r.aggregate(ctx, pipeline, &rows); err != nil {
		return nil, err
	}

	days := make([]domain.DayCount, 0, len(rows))
	for _, row := range rows {
		days = append(days, domain.DayCount{Day: row.Key, Searches: row.Count})
	}
	return days, nil
}

// SearchesByIP ranks client addresses by number of searches.
func (r *ActivityRepository) SearchesByIP(ctx context.Context, limit int) ([]domain.IPCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"action":     domain.ActionSearch,
			"ip_address": bson.M{"$nin": bson.A{"", domain.IPUnavailable}},
		}}},
		{{Key: "$group", Value: bson.M{"_id": "$ip_address", "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
		{{Key: "$limit", Value: limit}},
	}

	var rows []countRow
	if err := r.aggregate(ctx, pipeline, &rows); err != nil {
		return nil, err
	}

	ips := make([]domain.IPCount, 0, len(rows))
	for _, row := range rows {
		ips = append(ips, domain.IPCount{IPAddress: row.Key, Searches: row.Count})
	}
	return ips, nil
}

// TopSearchTerms ranks the free-text queries recorded in search metadata.
func (r *ActivityRepository) TopSearchTerms(ctx context.Context, since time.Time, limit int) ([]domain.TermCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"action":         domain.ActionSearch,
			"created_at":     bson.M{"$gte": since},
			"metadata.query": bson.M{"$type": "string", "$ne": ""},
		}}},
		{{Key: "$group", Value: bson.M{"_id": bson.M{"$toLower": "$metadata.query"}, "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
		{{Key: "$limit", Value: limit}},
	}

	var rows []countRow
	if err := r.aggregate(ctx, pipeline, &rows); err != nil {
		return nil, err
	}

	terms := make([]domain.TermCount, 0, len(rows))
	for _, row := range rows {
		terms = append(terms, domain.TermCount{Term: row.Key, Count: row.Count})
	}
	return terms, nil
}

type countRow struct {
	Key   string `bson:"_id"`
	Count int64  `bson:"count"`
}

func (r *ActivityRepository) aggregate(ctx context.Context, pipeline mongo.Pipeline, out any) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.logs.Aggregate(ctx, pipeline)
	if err != nil {
		return err
	}
	defer cur.Close(ctx)

	return cur.All(ctx, out)
}

// EnsureIndexes creates the indexes of the activity and daily statistics collections.
func (r *ActivityRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.logs.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "action", Value: 1}, {Key: "created_at", Value: -1}}},
	})
	if err != nil {
		return err
	}

	_, err = r.daily.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "day", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
