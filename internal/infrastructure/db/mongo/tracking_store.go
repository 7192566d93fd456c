package mongo

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/panelbunker/tracking-api/internal/core/domain"
	"github.com/panelbunker/tracking-api/internal/core/ports"
)

const collectionTrackings = "trackings"

// trackingDoc is the stored shape: the domain tracking plus its embedded
// history. The tracking id doubles as the document _id.
type trackingDoc struct {
	domain.Tracking `bson:",inline"`
	StatusHistory   []domain.StatusHistoryEntry `bson:"status_history"`
}

// TrackingStore implements ports.TrackingStore on a single collection.
type TrackingStore struct {
	col *mongo.Collection
}

func NewTrackingStore(db *mongo.Database) *TrackingStore {
	return &TrackingStore{col: db.Collection(collectionTrackings)}
}

// Create inserts the document with its creation history entry; the unique
// _id index turns an id collision into ErrDuplicateTracking.
func (s *TrackingStore) Create(ctx context.Context, t *domain.Tracking) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := trackingDoc{
		Tracking: *t,
		StatusHistory: []domain.StatusHistoryEntry{{
			TrackingID: t.TrackingID,
			NewStatus:  t.Status,
			ChangedAt:  t.CreatedAt,
		}},
	}

	if _, err := s.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateTracking
		}
		return err
	}
	return nil
}

func (s *TrackingStore) Get(ctx context.Context, trackingID string) (*domain.Tracking, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc trackingDoc
	if err := s.col.FindOne(ctx, bson.M{"_id": trackingID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTrackingNotFound
		}
		return nil, err
	}
	t := doc.Tracking
	return &t, nil
}

func (s *TrackingStore) List(ctx context.Context, filter ports.ListTrackingsFilter) ([]*domain.Tracking, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := s.col.Find(ctx, listQuery(filter), options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []*domain.Tracking
	for cur.Next(ctx) {
		var doc trackingDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		t := doc.Tracking
		out = append(out, &t)
	}
	return out, cur.Err()
}

func (s *TrackingStore) History(ctx context.Context, trackingID string) ([]domain.StatusHistoryEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc trackingDoc
	err := s.col.FindOne(ctx, bson.M{"_id": trackingID},
		options.FindOne().SetProjection(bson.M{"status_history": 1})).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return doc.StatusHistory, nil
}

// listQuery builds the List filter. The search term is quoted so regex
// metacharacters in the query string match literally.
func listQuery(filter ports.ListTrackingsFilter) bson.M {
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.Search != "" {
		rx := bson.M{"$regex": regexp.QuoteMeta(filter.Search), "$options": "i"}
		query["$or"] = bson.A{
			bson.M{"_id": rx},
			bson.M{"recipient_name": rx},
			bson.M{"product_name": rx},
		}
	}
	return query
}

// literal shields a caller-supplied string from aggregation-expression
// evaluation inside a pipeline update, where a leading "$" would otherwise
// read it as a field path.
func literal(s string) bson.M {
	return bson.M{"$literal": s}
}

// statusChangeEntry is the history entry appended by UpdateStatus. The
// old_status value is the '$status' field path on purpose: it reads the
// pre-update status server-side.
func statusChangeEntry(trackingID string, newStatus domain.TrackingStatus, now time.Time, notes string) bson.M {
	return bson.M{
		"tracking_id": literal(trackingID),
		"old_status":  "$status",
		"new_status":  string(newStatus),
		"changed_at":  now.UTC(),
		"notes":       literal(notes),
	}
}

// delayEntry is the same-status history entry appended by AddDelay.
func delayEntry(trackingID, note string, now time.Time) bson.M {
	return bson.M{
		"tracking_id": literal(trackingID),
		"old_status":  "$status",
		"new_status":  "$status",
		"changed_at":  now.UTC(),
		"notes":       literal(note),
	}
}

// UpdateStatus runs a single aggregation-pipeline update: the history entry
// captures the pre-update status server-side, so the status field and the
// appended entry can never diverge even under concurrent updates.
func (s *TrackingStore) UpdateStatus(ctx context.Context, trackingID string, newStatus domain.TrackingStatus, now time.Time, notes string) (*domain.Tracking, *domain.StatusHistoryEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	entry := statusChangeEntry(trackingID, newStatus, now, notes)
	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"status":         string(newStatus),
			"updated_at":     now.UTC(),
			"status_history": bson.M{"$concatArrays": bson.A{"$status_history", bson.A{entry}}},
		}}},
	}

	var doc trackingDoc
	err := s.col.FindOneAndUpdate(ctx, bson.M{"_id": trackingID}, pipeline,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil, domain.ErrTrackingNotFound
		}
		return nil, nil, err
	}

	t := doc.Tracking
	applied := doc.StatusHistory[len(doc.StatusHistory)-1]
	return &t, &applied, nil
}

func (s *TrackingStore) AddDelay(ctx context.Context, trackingID string, days int, estimatedDate, note string, now time.Time) (*domain.Tracking, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	entry := delayEntry(trackingID, note, now)
	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"actual_delay_days":       bson.M{"$add": bson.A{"$actual_delay_days", days}},
			"estimated_delivery_date": literal(estimatedDate),
			"updated_at":              now.UTC(),
			"status_history":          bson.M{"$concatArrays": bson.A{"$status_history", bson.A{entry}}},
		}}},
	}

	var doc trackingDoc
	err := s.col.FindOneAndUpdate(ctx, bson.M{"_id": trackingID}, pipeline,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTrackingNotFound
		}
		return nil, err
	}
	t := doc.Tracking
	return &t, nil
}

// EnsureIndexes creates the secondary indexes used by List.
func (s *TrackingStore) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: 1}}},
	}
	_, err := s.col.Indexes().CreateMany(ctx, indexes)
	return err
}
