// File: internal/proxy/proxy.go
package proxy

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// Supported proxy operations.
const (
	OpFind       = "find"
	OpCount      = "count"
	OpInsertMany = "insertMany"
	OpUpdateMany = "updateMany"
	OpDeleteMany = "deleteMany"
)

// Request is the wire format of a proxy call: an operation verb plus
// positional arguments ([db, collection, ...] per operation).
type Request struct {
	Operation string        `json:"operation"`
	Args      []interface{} `json:"args"`
}

// FindOptions is the subset of query options the proxy accepts.
type FindOptions struct {
	Limit      int64
	Skip       int64
	Sort       bson.M
	Projection bson.M
}

// UpdateOptions carries write options for updateMany.
type UpdateOptions struct {
	Upsert bool
}

// UpdateResult reports the outcome of an updateMany.
type UpdateResult struct {
	ModifiedCount int64 `json:"modified_count"`
	UpsertedCount int64 `json:"upserted_count"`
}

// Store is the document-store surface the dispatcher drives. Implementations
// live against the shared client; tests substitute fakes.
type Store interface {
	Find(ctx context.Context, db, collection string, filter bson.M, opts *FindOptions) ([]bson.M, error)
	Count(ctx context.Context, db, collection string, filter bson.M) (int64, error)
	InsertMany(ctx context.Context, db, collection string, docs []bson.M) ([]string, error)
	UpdateMany(ctx context.Context, db, collection string, filter, update bson.M, opts *UpdateOptions) (*UpdateResult, error)
	DeleteMany(ctx context.Context, db, collection string, filter bson.M) (int64, error)
	Ping(ctx context.Context) error
}

// OpError is the proxy's wire-level error: a status code plus the flat
// {error, details} payload the endpoint contract promises.
type OpError struct {
	Status  int
	Message string
	Details string
}

func (e *OpError) Error() string {
	return e.Message
}

func unsupportedOp(op string) *OpError {
	return &OpError{Status: http.StatusBadRequest, Message: fmt.Sprintf("Unsupported operation: %s", op)}
}

func badArgs(msg string) *OpError {
	return &OpError{Status: http.StatusBadRequest, Message: msg}
}

func forbiddenOp(op, collection string) *OpError {
	return &OpError{
		Status:  http.StatusForbidden,
		Message: fmt.Sprintf("Operation %s on collection %s is not permitted for this caller", op, collection),
	}
}

func storeFailure(err error) *OpError {
	return &OpError{Status: http.StatusInternalServerError, Message: "Database operation failed", Details: err.Error()}
}

// Dispatcher validates, authorizes, and executes proxy requests. Write
// operations are timestamped with the injected clock so documents always
// carry createdAt/updatedAt regardless of what the caller sent.
type Dispatcher struct {
	store  Store
	policy *Policy
	logger *zap.Logger
	now    func() time.Time
}

// NewDispatcher creates a Dispatcher using wall-clock time.
func NewDispatcher(store Store, policy *Policy, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		store:  store,
		policy: policy,
		logger: logger,
		now:    time.Now,
	}
}

// Dispatch executes a single proxy request on behalf of a caller with the
// given role. The operation and collection are checked against the policy
// before the store is touched, so a rejected request performs no store call.
func (d *Dispatcher) Dispatch(ctx context.Context, role string, req Request) (interface{}, *OpError) {
	switch req.Operation {
	case OpFind, OpCount, OpInsertMany, OpUpdateMany, OpDeleteMany:
	default:
		return nil, unsupportedOp(req.Operation)
	}

	db, collection, opErr := headArgs(req.Args)
	if opErr != nil {
		return nil, opErr
	}

	if !d.policy.Allows(role, collection, req.Operation) {
		d.logger.Warn("Proxy request rejected by policy",
			zap.String("role", role),
			zap.String("collection", collection),
			zap.String("operation", req.Operation))
		return nil, forbiddenOp(req.Operation, collection)
	}

	switch req.Operation {
	case OpFind:
		return d.find(ctx, db, collection, req.Args)
	case OpCount:
		return d.count(ctx, db, collection, req.Args)
	case OpInsertMany:
		return d.insertMany(ctx, db, collection, req.Args)
	case OpUpdateMany:
		return d.updateMany(ctx, db, collection, req.Args)
	default:
		return d.deleteMany(ctx, db, collection, req.Args)
	}
}

func (d *Dispatcher) find(ctx context.Context, db, collection string, args []interface{}) (interface{}, *OpError) {
	filter, opErr := optionalDoc(args, 2, "filter")
	if opErr != nil {
		return nil, opErr
	}
	opts, opErr := findOptionsArg(args, 3)
	if opErr != nil {
		return nil, opErr
	}
	docs, err := d.store.Find(ctx, db, collection, filter, opts)
	if err != nil {
		return nil, storeFailure(err)
	}
	if docs == nil {
		docs = []bson.M{}
	}
	return docs, nil
}

func (d *Dispatcher) count(ctx context.Context, db, collection string, args []interface{}) (interface{}, *OpError) {
	filter, opErr := optionalDoc(args, 2, "filter")
	if opErr != nil {
		return nil, opErr
	}
	n, err := d.store.Count(ctx, db, collection, filter)
	if err != nil {
		return nil, storeFailure(err)
	}
	return n, nil
}

func (d *Dispatcher) insertMany(ctx context.Context, db, collection string, args []interface{}) (interface{}, *OpError) {
	docs, opErr := docsArg(args, 2)
	if opErr != nil {
		return nil, opErr
	}
	now := d.now()
	for _, doc := range docs {
		doc["createdAt"] = now
		doc["updatedAt"] = now
	}
	ids, err := d.store.InsertMany(ctx, db, collection, docs)
	if err != nil {
		return nil, storeFailure(err)
	}
	return ids, nil
}

func (d *Dispatcher) updateMany(ctx context.Context, db, collection string, args []interface{}) (interface{}, *OpError) {
	filter, opErr := requiredDoc(args, 2, "filter")
	if opErr != nil {
		return nil, opErr
	}
	update, opErr := requiredDoc(args, 3, "update")
	if opErr != nil {
		return nil, opErr
	}
	opts, opErr := updateOptionsArg(args, 4)
	if opErr != nil {
		return nil, opErr
	}

	// The updatedAt stamp is forced on every update, even if the caller
	// supplied their own $set.
	set, _ := update["$set"].(map[string]interface{})
	if set == nil {
		set = map[string]interface{}{}
	}
	set["updatedAt"] = d.now()
	update["$set"] = set

	result, err := d.store.UpdateMany(ctx, db, collection, filter, update, opts)
	if err != nil {
		return nil, storeFailure(err)
	}
	return result, nil
}

func (d *Dispatcher) deleteMany(ctx context.Context, db, collection string, args []interface{}) (interface{}, *OpError) {
	filter, opErr := requiredDoc(args, 2, "filter")
	if opErr != nil {
		return nil, opErr
	}
	n, err := d.store.DeleteMany(ctx, db, collection, filter)
	if err != nil {
		return nil, storeFailure(err)
	}
	return map[string]int64{"deleted_count": n}, nil
}

// --- positional argument helpers ---

func headArgs(args []interface{}) (db, collection string, opErr *OpError) {
	if len(args) < 2 {
		return "", "", badArgs("args must start with [database, collection]")
	}
	db, ok := args[0].(string)
	if !ok {
		return "", "", badArgs("args[0] (database) must be a string")
	}
	collection, ok = args[1].(string)
	if !ok || collection == "" {
		return "", "", badArgs("args[1] (collection) must be a non-empty string")
	}
	return db, collection, nil
}

func optionalDoc(args []interface{}, idx int, name string) (bson.M, *OpError) {
	if len(args) <= idx || args[idx] == nil {
		return bson.M{}, nil
	}
	doc, ok := args[idx].(map[string]interface{})
	if !ok {
		return nil, badArgs(fmt.Sprintf("args[%d] (%s) must be a document", idx, name))
	}
	return bson.M(doc), nil
}

func requiredDoc(args []interface{}, idx int, name string) (bson.M, *OpError) {
	if len(args) <= idx {
		return nil, badArgs(fmt.Sprintf("args[%d] (%s) is required", idx, name))
	}
	doc, ok := args[idx].(map[string]interface{})
	if !ok {
		return nil, badArgs(fmt.Sprintf("args[%d] (%s) must be a document", idx, name))
	}
	return bson.M(doc), nil
}

func docsArg(args []interface{}, idx int) ([]bson.M, *OpError) {
	if len(args) <= idx {
		return nil, badArgs(fmt.Sprintf("args[%d] (documents) is required", idx))
	}
	raw, ok := args[idx].([]interface{})
	if !ok || len(raw) == 0 {
		return nil, badArgs(fmt.Sprintf("args[%d] (documents) must be a non-empty array", idx))
	}
	docs := make([]bson.M, len(raw))
	for i, r := range raw {
		doc, ok := r.(map[string]interface{})
		if !ok {
			return nil, badArgs(fmt.Sprintf("documents[%d] must be a document", i))
		}
		docs[i] = bson.M(doc)
	}
	return docs, nil
}

func findOptionsArg(args []interface{}, idx int) (*FindOptions, *OpError) {
	if len(args) <= idx || args[idx] == nil {
		return nil, nil
	}
	raw, ok := args[idx].(map[string]interface{})
	if !ok {
		return nil, badArgs(fmt.Sprintf("args[%d] (options) must be a document", idx))
	}
	opts := &FindOptions{}
	if v, ok := raw["limit"].(float64); ok {
		opts.Limit = int64(v)
	}
	if v, ok := raw["skip"].(float64); ok {
		opts.Skip = int64(v)
	}
	if v, ok := raw["sort"].(map[string]interface{}); ok {
		opts.Sort = bson.M(v)
	}
	if v, ok := raw["projection"].(map[string]interface{}); ok {
		opts.Projection = bson.M(v)
	}
	return opts, nil
}

func updateOptionsArg(args []interface{}, idx int) (*UpdateOptions, *OpError) {
	if len(args) <= idx || args[idx] == nil {
		return nil, nil
	}
	raw, ok := args[idx].(map[string]interface{})
	if !ok {
		return nil, badArgs(fmt.Sprintf("args[%d] (options) must be a document", idx))
	}
	opts := &UpdateOptions{}
	if v, ok := raw["upsert"].(bool); ok {
		opts.Upsert = v
	}
	return opts, nil
}
