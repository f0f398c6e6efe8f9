/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/suparena/tablestore/datastore"
	"github.com/suparena/tablestore/errors"
	"github.com/suparena/tablestore/storagemodels"
)

const tracerName = "github.com/suparena/tablestore/datastore/ddb"

// Repository implements datastore.Repository over one DynamoDB table.
// Each call is a single round trip; nothing is retried or paginated.
type Repository struct {
	client  Client
	planner *datastore.Planner
	logger  *zap.Logger
	tracer  trace.Tracer
}

var _ datastore.Repository = (*Repository)(nil)

// Option configures a Repository.
type Option func(*Repository)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(r *Repository) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithTracerProvider sets the tracer provider. The default is the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(r *Repository) {
		if tp != nil {
			r.tracer = tp.Tracer(tracerName)
		}
	}
}

// New builds a repository for def. The client is borrowed, not owned.
func New(client Client, def datastore.Definition, opts ...Option) (*Repository, error) {
	planner, err := datastore.NewPlanner(def)
	if err != nil {
		return nil, err
	}
	return NewWithPlanner(client, planner, opts...), nil
}

// NewWithPlanner builds a repository around an existing planner.
func NewWithPlanner(client Client, planner *datastore.Planner, opts ...Option) *Repository {
	r := &Repository{
		client:  client,
		planner: planner,
		logger:  zap.NewNop(),
		tracer:  otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.With(zap.String("entity", planner.Entity()), zap.String("table", planner.TableName()))
	return r
}

// Planner exposes the resolved names, mostly for inspection.
func (r *Repository) Planner() *datastore.Planner { return r.planner }

// GetOne retrieves a single record by key.
func (r *Repository) GetOne(ctx context.Context, key storagemodels.Key) (rec storagemodels.Record, err error) {
	ctx, span := r.start(ctx, "GetOne")
	defer func() { r.end(span, err) }()

	params, err := r.planner.PrepareGetOne(key)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("tablestore.partition_key", params.Key.PartitionKey))

	out, err := r.client.GetItem(ctx, getItemInput(params))
	if err != nil {
		return nil, errors.NewStoreFault(storagemodels.OpGet.String(), err)
	}
	r.logger.Debug("GetItem", zap.String("partitionKey", params.Key.PartitionKey),
		zap.String("sortKey", params.Key.SortKey), zap.Bool("found", len(out.Item) > 0))

	if len(out.Item) == 0 {
		return nil, errors.NewNotFoundError(r.planner.Entity(), fmt.Sprintf("%s/%s", params.Key.PartitionKey, params.Key.SortKey))
	}
	rec, err = unmarshalItem(out.Item)
	if err != nil {
		return nil, err
	}
	return datastore.Untag(rec), nil
}

// QueryOne returns the first record of this entity whose index partition attribute equals value.
func (r *Repository) QueryOne(ctx context.Context, indexID string, value any) (rec storagemodels.Record, err error) {
	ctx, span := r.start(ctx, "QueryOne", attribute.String("tablestore.index", indexID))
	defer func() { r.end(span, err) }()

	params, err := r.planner.PrepareQueryOne(indexID, value)
	if err != nil {
		return nil, err
	}
	items, err := r.query(ctx, params)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, errors.NewNotFoundError(r.planner.Entity(), fmt.Sprintf("%s=%v", indexID, value))
	}
	return datastore.Untag(items[0]), nil
}

// QueryAll returns every matching record under one partition value.
func (r *Repository) QueryAll(ctx context.Context, q datastore.Query) (recs []storagemodels.Record, err error) {
	ctx, span := r.start(ctx, "QueryAll", attribute.String("tablestore.index", q.IndexID))
	defer func() { r.end(span, err) }()

	params, err := r.planner.PrepareQueryAll(q)
	if err != nil {
		return nil, err
	}
	items, err := r.query(ctx, params)
	if err != nil {
		return nil, err
	}
	return datastore.UntagAll(items), nil
}

// FindAll queries when a partition value is given and scans otherwise.
func (r *Repository) FindAll(ctx context.Context, q datastore.Query) (recs []storagemodels.Record, err error) {
	ctx, span := r.start(ctx, "FindAll", attribute.String("tablestore.index", q.IndexID))
	defer func() { r.end(span, err) }()

	params, err := r.planner.PrepareFindAll(q)
	if err != nil {
		return nil, err
	}

	var items []storagemodels.Record
	switch params.Operation {
	case storagemodels.OpScan:
		items, err = r.scan(ctx, params)
	default:
		items, err = r.query(ctx, params)
	}
	if err != nil {
		return nil, err
	}
	return datastore.UntagAll(items), nil
}

// Save tags and puts rec unconditionally. Incomplete records are rejected
// before the client is called.
func (r *Repository) Save(ctx context.Context, rec storagemodels.Record) (err error) {
	ctx, span := r.start(ctx, "Save")
	defer func() { r.end(span, err) }()

	tagged, err := r.planner.PrepareSave(rec)
	if err != nil {
		return err
	}
	item, err := marshalItem(tagged)
	if err != nil {
		return err
	}

	_, err = r.client.PutItem(ctx, &sdk.PutItemInput{
		TableName: aws.String(r.planner.TableName()),
		Item:      item,
	})
	if err != nil {
		return errors.NewStoreFault(storagemodels.OpPut.String(), err)
	}
	r.logger.Debug("PutItem", zap.String("partitionKey", rec.PartitionKey()), zap.String("sortKey", rec.SortKey()))
	return nil
}

func (r *Repository) query(ctx context.Context, params *storagemodels.QueryParams) ([]storagemodels.Record, error) {
	input, err := queryInput(params)
	if err != nil {
		return nil, err
	}
	out, err := r.client.Query(ctx, input)
	if err != nil {
		return nil, errors.NewStoreFault(storagemodels.OpQuery.String(), err)
	}
	r.logger.Debug("Query", zap.String("index", params.IndexName),
		zap.String("keyCondition", params.KeyConditionExpression), zap.Int("count", len(out.Items)))
	return unmarshalItems(out.Items)
}

func (r *Repository) scan(ctx context.Context, params *storagemodels.QueryParams) ([]storagemodels.Record, error) {
	input, err := scanInput(params)
	if err != nil {
		return nil, err
	}
	out, err := r.client.Scan(ctx, input)
	if err != nil {
		return nil, errors.NewStoreFault(storagemodels.OpScan.String(), err)
	}
	r.logger.Debug("Scan", zap.String("index", params.IndexName),
		zap.String("filter", params.FilterExpression), zap.Int("count", len(out.Items)))
	return unmarshalItems(out.Items)
}

func (r *Repository) start(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs,
		attribute.String("db.system", "dynamodb"),
		attribute.String("tablestore.table", r.planner.TableName()),
		attribute.String("tablestore.entity", r.planner.Entity()),
	)
	return r.tracer.Start(ctx, "tablestore."+op, trace.WithAttributes(attrs...))
}

// end records err on span unless it is an expected not-found.
func (r *Repository) end(span trace.Span, err error) {
	if err != nil && !errors.IsNotFound(err) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
