package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/matzehuels/repobom/pkg/errors"
	"github.com/matzehuels/repobom/pkg/observability"
	"github.com/matzehuels/repobom/pkg/sbom"
)

const (
	collRuns    = "runs"
	collRecords = "records"
)

// Mongo stores runs in a MongoDB database: one document per run in the
// runs collection, one document per record in the records collection,
// tagged with the run ID.
type Mongo struct {
	client   *mongo.Client
	database string
}

var _ Store = (*Mongo)(nil)

// Connect dials the MongoDB instance at uri and verifies the connection.
// An empty database name falls back to [DefaultDatabase].
func Connect(ctx context.Context, uri, database string) (*Mongo, error) {
	if database == "" {
		database = DefaultDatabase
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "connect to %s", uri)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeStore, err, "ping %s", uri)
	}

	return &Mongo{client: client, database: database}, nil
}

// SaveRun inserts the run document, then the record documents.
func (m *Mongo) SaveRun(ctx context.Context, run Run, records []sbom.Record) (err error) {
	start := time.Now()
	defer func() {
		observability.Store().OnSaveRun(ctx, run.ID, len(records), time.Since(start), err)
	}()

	db := m.client.Database(m.database)

	if _, err := db.Collection(collRuns).InsertOne(ctx, run); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "insert run %s", run.ID)
	}

	docs := recordDocs(run.ID, records)
	if len(docs) == 0 {
		return nil
	}
	if _, err := db.Collection(collRecords).InsertMany(ctx, docs); err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "insert %d records for run %s", len(docs), run.ID)
	}
	return nil
}

// Close disconnects the client.
func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// recordDoc mirrors the CSV field set so both exports answer the same
// provenance questions.
type recordDoc struct {
	RunID    string `bson:"run_id"`
	Name     string `bson:"name"`
	Version  string `bson:"version"`
	Type     string `bson:"type"`
	Path     string `bson:"path"`
	Revision string `bson:"commit_hash"`
}

func recordDocs(runID string, records []sbom.Record) []interface{} {
	docs := make([]interface{}, 0, len(records))
	for _, r := range records {
		docs = append(docs, recordDoc{
			RunID:    runID,
			Name:     r.Name,
			Version:  r.Version,
			Type:     string(r.Type),
			Path:     r.Path,
			Revision: r.Revision,
		})
	}
	return docs
}
