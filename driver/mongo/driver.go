package driver

import (
	"context"
	"time"

	"github.com/leandroluk/peneira/core"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	mopt "go.mongodb.org/mongo-driver/mongo/options"
)

//region MongoDriver

type MongoDriver struct {
	client          *mongo.Client
	defaultDatabase string
	mode            core.CompileMode
}

var _ core.Driver = (*MongoDriver)(nil)

// NewMongoDriver connects to the MongoDB deployment described by the
// configuration and validates connectivity with a ping. The configured
// compile mode governs how filters with unknown operators are handled.
func NewMongoDriver(ctx context.Context, config *core.Config) (*MongoDriver, error) {
	opts := mopt.Client().ApplyURI(config.Mongo.URI)
	opts.SetConnectTimeout(10 * time.Second).SetServerSelectionTimeout(10 * time.Second)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}
	mode := config.Mode
	if mode == "" {
		mode = core.ModeLenient
	}
	return &MongoDriver{client: client, defaultDatabase: config.Mongo.Database, mode: mode}, nil
}

func (driver *MongoDriver) dbFor(schema *core.SchemaCore) *mongo.Database {
	dbName := driver.defaultDatabase
	if schema.Database != "" {
		dbName = schema.Database
	}
	if dbName == "" {
		panic("mongo driver: database name is empty (defina no Schema.Database ou na Config)")
	}
	return driver.client.Database(dbName)
}

func (driver *MongoDriver) coll(schema *core.SchemaCore) *mongo.Collection {
	if schema.Collection == "" {
		panic("mongo driver: Collection (collection) vazio no Schema")
	}
	return driver.dbFor(schema).Collection(schema.Collection)
}

// --- helper para extrair SessionContext do ctx ---
func (driver *MongoDriver) withSession(ctx context.Context) context.Context {
	if tx := core.TransactionFrom(ctx); tx != nil {
		if mt, ok := tx.(*mongoTransaction); ok {
			return mongo.NewSessionContext(ctx, mt.session)
		}
	}
	return ctx
}

func (driver *MongoDriver) compile(condition *core.Condition) (bson.M, error) {
	return Compile(condition, driver.mode)
}

func (driver *MongoDriver) Connect(ctx context.Context) error {
	return driver.client.Ping(ctx, nil)
}

func (driver *MongoDriver) Ping(ctx context.Context) error {
	return driver.client.Ping(ctx, nil)
}

func (driver *MongoDriver) Close(ctx context.Context) error {
	return driver.client.Disconnect(ctx)
}

func (driver *MongoDriver) Transaction(ctx context.Context) (core.Transaction, error) {
	session, err := driver.client.StartSession()
	if err != nil {
		return nil, err
	}
	if err := session.StartTransaction(); err != nil {
		return nil, err
	}
	return &mongoTransaction{session: session}, nil
}

func (driver *MongoDriver) Insert(ctx context.Context, schema *core.SchemaCore, documents ...any) error {
	if len(documents) == 0 {
		return nil
	}
	ctx = driver.withSession(ctx)
	documentList := make([]any, 0, len(documents))
	documentList = append(documentList, documents...)
	_, err := driver.coll(schema).InsertMany(ctx, documentList)
	return err
}

func (driver *MongoDriver) find(ctx context.Context, schema *core.SchemaCore, query *core.Where, single bool) ([]map[string]any, error) {
	ctx = driver.withSession(ctx)
	if query == nil {
		query = &core.Where{}
	}
	filter, err := driver.compile(query.Condition)
	if err != nil {
		return nil, err
	}
	findOpts := mopt.Find()

	if len(query.Sort) > 0 {
		sortDoc := bson.D{}
		for _, sortItem := range query.Sort {
			direction := 1
			if sortItem.Order < 0 {
				direction = -1
			}
			sortDoc = append(sortDoc, bson.E{Key: sortItem.FieldName, Value: direction})
		}
		findOpts.SetSort(sortDoc)
	}

	if single {
		findOpts.SetLimit(1)
	} else {
		if query.Limit > 0 {
			limit := int64(query.Limit)
			findOpts.SetLimit(limit)
		}
		if query.Offset > 0 {
			offset := int64(query.Offset)
			findOpts.SetSkip(offset)
		}
	}

	cursor, err := driver.coll(schema).Find(ctx, filter, findOpts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var resultList []map[string]any
	for cursor.Next(ctx) {
		var bsonMap bson.M
		if err := cursor.Decode(&bsonMap); err != nil {
			return nil, err
		}
		row := map[string]any(bsonMap)
		resultList = append(resultList, row)
		if single {
			break
		}
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return resultList, nil
}

func (driver *MongoDriver) FindOne(ctx context.Context, schema *core.SchemaCore, query *core.Where) (any, error) {
	rowList, err := driver.find(ctx, schema, query, true)
	if err != nil {
		return nil, err
	}
	if len(rowList) == 0 {
		return nil, nil
	}
	return rowList[0], nil
}

func (driver *MongoDriver) FindMany(ctx context.Context, schema *core.SchemaCore, query *core.Where) (any, error) {
	return driver.find(ctx, schema, query, false)
}

func (driver *MongoDriver) Update(ctx context.Context, schema *core.SchemaCore, condition *core.Condition, changes core.Changes) error {
	ctx = driver.withSession(ctx)
	filter, err := driver.compile(condition)
	if err != nil {
		return err
	}
	update := bson.M{"$set": changes}
	_, err = driver.coll(schema).UpdateMany(ctx, filter, update)
	return err
}

func (driver *MongoDriver) Delete(ctx context.Context, schema *core.SchemaCore, condition *core.Condition) error {
	ctx = driver.withSession(ctx)
	filter, err := driver.compile(condition)
	if err != nil {
		return err
	}
	_, err = driver.coll(schema).DeleteMany(ctx, filter)
	return err
}

// Count returns the number of documents matching the condition. A
// structurally empty filter (len == 0) means "no filtering" and takes the
// collection-metadata fast path instead of a full scan.
func (driver *MongoDriver) Count(ctx context.Context, schema *core.SchemaCore, condition *core.Condition) (int64, error) {
	ctx = driver.withSession(ctx)
	filter, err := driver.compile(condition)
	if err != nil {
		return 0, err
	}
	if len(filter) == 0 {
		return driver.coll(schema).EstimatedDocumentCount(ctx)
	}
	return driver.coll(schema).CountDocuments(ctx, filter)
}

// Aggregate runs an aggregation pipeline, prepending a $match stage built
// from the condition when it compiles to a non-empty filter.
func (driver *MongoDriver) Aggregate(ctx context.Context, schema *core.SchemaCore, condition *core.Condition, stages []bson.M) ([]map[string]any, error) {
	ctx = driver.withSession(ctx)
	filter, err := driver.compile(condition)
	if err != nil {
		return nil, err
	}

	pipeline := make([]bson.M, 0, len(stages)+1)
	if len(filter) > 0 {
		pipeline = append(pipeline, bson.M{"$match": filter})
	}
	pipeline = append(pipeline, stages...)

	cursor, err := driver.coll(schema).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var resultList []map[string]any
	for cursor.Next(ctx) {
		var bsonMap bson.M
		if err := cursor.Decode(&bsonMap); err != nil {
			return nil, err
		}
		resultList = append(resultList, map[string]any(bsonMap))
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return resultList, nil
}

//endregion
