// Package mongodb provides a MongoDB-backed implementation of the
// storage.Storage interface using the official mongo-driver.
//
// WHY A DOCUMENT STORE?
// ─────────────────────
// Every operation in this service is a single filter-based action on one
// collection: find a document by a field, set a few fields, delete a
// document. A document database expresses those directly — there is no
// schema migration step and the stored documents carry the same field
// names the API speaks.
//
// One *mongo.Client is created at startup and shared by every request;
// the driver manages its own connection pool internally and is safe for
// concurrent use by multiple goroutines.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/aanand-mishra/school-mis-api/internal/config"
	"github.com/aanand-mishra/school-mis-api/internal/storage"
	"github.com/aanand-mishra/school-mis-api/internal/types"
)

// findLimit caps how many documents a list query will return. Anything
// beyond it is silently omitted — a deliberate ceiling standing in for
// real pagination, not a business rule.
const findLimit = 1000

// MongoDB is the concrete implementation of storage.Storage.
type MongoDB struct {
	client   *mongo.Client
	students *mongo.Collection
}

// Compile-time check: *MongoDB must satisfy the storage contract.
var _ storage.Storage = (*MongoDB)(nil)

// New connects to the MongoDB deployment named by cfg.MongoURL, verifies
// the connection with a ping, and ensures the collection's indexes
// exist. The ctx passed in bounds the whole startup handshake — main
// gives it a deadline so a wrong URL fails the boot instead of hanging.
//
// Naming convention: New() acts as a constructor. Go has no constructors,
// so the community convention is a package-level New() function that
// returns an initialised instance (and an error as the second value).
func New(ctx context.Context, cfg *config.Config) (*MongoDB, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURL))
	if err != nil {
		return nil, fmt.Errorf("mongodb.New: connect: %w", err)
	}

	// Connect does not guarantee the server is reachable — it mostly
	// validates the URI and spins up the pool. Ping forces a round trip
	// so a bad address is caught here, at boot, with a clear error.
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("mongodb.New: ping: %w", err)
	}

	m := &MongoDB{
		client:   client,
		students: client.Database(cfg.DBName).Collection("students"),
	}

	if err := m.ensureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("mongodb.New: ensure indexes: %w", err)
	}

	return m, nil
}

// ensureIndexes creates the collection's three indexes. CreateMany is
// idempotent — indexes that already exist are left untouched, so this is
// safe to run on every startup.
//
//	name        — speeds up the duplicate-name lookup on create
//	class_name  — speeds up the filter-by-class listing
//	id (unique) — the external identifier; one document per id, always
//
// Note there is deliberately NO unique index on name: the duplicate-name
// rule is enforced best-effort by the service with a read-then-insert,
// and two concurrent creates can still race past it.
func (m *MongoDB) ensureIndexes(ctx context.Context) error {
	_, err := m.students.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "name", Value: 1}}},
		{Keys: bson.D{{Key: "class_name", Value: 1}}},
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	})
	return err
}

// Close disconnects the client, releasing the connection pool. Called
// once during graceful shutdown.
func (m *MongoDB) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// Ping reports whether the deployment is reachable right now.
func (m *MongoDB) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, readpref.Primary())
}

// ─────────────────────────────────────────────────────────────────────────────
// CreateStudent inserts one fully-formed document.
//
// The record arrives complete — id, timestamps and all — because
// creation policy (who mints ids, what "now" means) belongs to the
// service layer, and the store only persists what it is given.
// ─────────────────────────────────────────────────────────────────────────────
func (m *MongoDB) CreateStudent(ctx context.Context, student types.Student) error {
	if _, err := m.students.InsertOne(ctx, student); err != nil {
		return fmt.Errorf("CreateStudent: insert: %w", err)
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// GetStudentByID fetches exactly one document matched by the external id.
//
// HOW FindOne + Decode WORK:
// ──────────────────────────
// FindOne sends the filter and returns a *SingleResult. The actual error
// (including "no document matched") surfaces only when Decode is called,
// mirroring how database/sql's QueryRow defers errors to Scan.
// mongo.ErrNoDocuments is the driver's sentinel for an empty result; we
// translate it to the storage package's own sentinel so callers never
// import driver types.
// ─────────────────────────────────────────────────────────────────────────────
func (m *MongoDB) GetStudentByID(ctx context.Context, id string) (types.Student, error) {
	return m.findOne(ctx, bson.M{"id": id})
}

// GetStudentByName fetches one document by exact name match. If several
// documents share a name (the duplicate check is best-effort), the
// store's natural first match is returned — the caller only cares that
// at least one exists.
func (m *MongoDB) GetStudentByName(ctx context.Context, name string) (types.Student, error) {
	return m.findOne(ctx, bson.M{"name": name})
}

func (m *MongoDB) findOne(ctx context.Context, filter bson.M) (types.Student, error) {
	var student types.Student
	err := m.students.FindOne(ctx, filter).Decode(&student)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return types.Student{}, storage.ErrStudentNotFound
	}
	if err != nil {
		return types.Student{}, fmt.Errorf("findOne %v: %w", filter, err)
	}
	return student, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// GetStudents returns every document, in the store's natural order,
// capped at findLimit.
// ─────────────────────────────────────────────────────────────────────────────
func (m *MongoDB) GetStudents(ctx context.Context) ([]types.Student, error) {
	return m.findMany(ctx, bson.M{})
}

// GetStudentsByClass returns the documents whose class_name equals
// className byte-for-byte. No normalisation happens anywhere: "10a" and
// "10A " are different classes as far as this query is concerned.
func (m *MongoDB) GetStudentsByClass(ctx context.Context, className string) ([]types.Student, error) {
	return m.findMany(ctx, bson.M{"class_name": className})
}

// listOptions builds the find options shared by every list query. Both
// GetStudents and GetStudentsByClass go through findMany, so the cap
// applies to each of them identically.
func listOptions() *options.FindOptions {
	return options.Find().SetLimit(findLimit)
}

func (m *MongoDB) findMany(ctx context.Context, filter bson.M) ([]types.Student, error) {
	cursor, err := m.students.Find(ctx, filter, listOptions())
	if err != nil {
		return nil, fmt.Errorf("findMany %v: find: %w", filter, err)
	}
	// cursor.Close releases the server-side cursor; deferred so it runs
	// even if decoding fails halfway through.
	defer cursor.Close(ctx)

	// Pre-allocate an empty (non-nil) slice.
	// Returning [] instead of null in JSON is better API behaviour.
	students := make([]types.Student, 0)
	if err := cursor.All(ctx, &students); err != nil {
		return nil, fmt.Errorf("findMany %v: decode: %w", filter, err)
	}
	return students, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// UpdateStudentByID applies a partial update and returns the resulting
// document as re-read from the store.
//
// Only the fields the caller actually supplied end up in the $set —
// see updateDocument. updated_at is refreshed unconditionally, even for
// an empty update. The post-update read is a second round trip on
// purpose: the response must reflect what the store now holds, not a
// reconstruction assembled in memory.
// ─────────────────────────────────────────────────────────────────────────────
func (m *MongoDB) UpdateStudentByID(ctx context.Context, id string, upd types.UpdateStudentRequest) (types.Student, error) {
	set := updateDocument(upd, time.Now().UTC())

	result, err := m.students.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": set})
	if err != nil {
		return types.Student{}, fmt.Errorf("UpdateStudentByID: update: %w", err)
	}
	// MatchedCount == 0 means the filter found nothing — the id does not
	// exist. ModifiedCount is NOT checked: setting a field to its current
	// value modifies nothing yet is still a successful update.
	if result.MatchedCount == 0 {
		return types.Student{}, storage.ErrStudentNotFound
	}

	return m.GetStudentByID(ctx, id)
}

// updateDocument converts the non-nil fields of upd into a flat bson
// document for $set, plus the refreshed updated_at stamp.
//
// The nil checks are the entire "partial update" mechanism: a nil
// pointer never reaches the document, so the store keeps the stored
// value. A pointer to a zero value ({"age": 0}) does reach it — omitted
// and zero are different things.
func updateDocument(upd types.UpdateStudentRequest, now time.Time) bson.M {
	set := bson.M{"updated_at": now}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.Age != nil {
		set["age"] = *upd.Age
	}
	if upd.ClassName != nil {
		set["class_name"] = *upd.ClassName
	}
	if upd.Gender != nil {
		set["gender"] = *upd.Gender
	}
	if upd.ContactInfo != nil {
		set["contact_info"] = *upd.ContactInfo
	}
	if upd.ParentName != nil {
		set["parent_name"] = *upd.ParentName
	}
	if upd.ParentPhone != nil {
		set["parent_phone"] = *upd.ParentPhone
	}
	if upd.Address != nil {
		set["address"] = *upd.Address
	}
	return set
}

// ─────────────────────────────────────────────────────────────────────────────
// DeleteStudentByID removes one document by external id.
// ─────────────────────────────────────────────────────────────────────────────
func (m *MongoDB) DeleteStudentByID(ctx context.Context, id string) error {
	result, err := m.students.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("DeleteStudentByID: delete: %w", err)
	}
	if result.DeletedCount == 0 {
		return storage.ErrStudentNotFound
	}
	return nil
}
