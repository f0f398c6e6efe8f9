/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package tablestore

import (
	"context"
	"net/http"
	"slices"
	"sync"
	"sync/atomic"

	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/suparena/tablestore/config"
	"github.com/suparena/tablestore/datastore"
	"github.com/suparena/tablestore/datastore/ddb"
	"github.com/suparena/tablestore/datastore/memory"
	"github.com/suparena/tablestore/errors"
	"github.com/suparena/tablestore/sourceid"
)

// Store owns the client and the entity repositories built from a Config.
// It is safe for concurrent use.
type Store struct {
	backend string
	prefix  string
	logger  *zap.Logger
	tracer  trace.TracerProvider

	client     *closableClient
	httpClient *http.Client

	mu     sync.RWMutex
	repos  map[string]datastore.Repository
	codecs map[string]*sourceid.Codec
	tables map[string]*memory.Table
	closed bool
}

// Option configures Open.
type Option func(*options)

type options struct {
	logger *zap.Logger
	tracer trace.TracerProvider
	client ddb.Client
}

// WithLogger replaces the logger built from the logging config.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithTracerProvider sets the provider repositories open spans on.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) { o.tracer = tp }
}

// WithClient supplies the DynamoDB client instead of building one from the AWS config.
func WithClient(c ddb.Client) Option {
	return func(o *options) { o.client = c }
}

// Open validates cfg, builds the backend and registers every configured entity.
func Open(ctx context.Context, cfg *config.Config, opts ...Option) (*Store, error) {
	if cfg == nil {
		return nil, errors.NewConfigurationError("store", "config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		l, err := cfg.Logging.NewLogger()
		if err != nil {
			return nil, err
		}
		o.logger = l
	}

	s := &Store{
		backend: cfg.Backend,
		prefix:  cfg.Prefix,
		logger:  o.logger.Named("tablestore"),
		tracer:  o.tracer,
		repos:   make(map[string]datastore.Repository),
		codecs:  make(map[string]*sourceid.Codec),
		tables:  make(map[string]*memory.Table),
	}

	if cfg.Backend == config.BackendDynamoDB {
		client := o.client
		if client == nil {
			s.httpClient = &http.Client{Transport: http.DefaultTransport.(*http.Transport).Clone()}
			c, err := ddb.NewClient(ctx, ddb.ClientOptions{
				Region:          cfg.AWS.Region,
				Endpoint:        cfg.AWS.Endpoint,
				AccessKeyID:     cfg.AWS.AccessKeyID,
				SecretAccessKey: cfg.AWS.SecretAccessKey,
				SessionToken:    cfg.AWS.SessionToken,
				HTTPClient:      s.httpClient,
			})
			if err != nil {
				return nil, errors.NewStoreFault("Open", err)
			}
			client = c
		}
		s.client = &closableClient{Client: client}
	}

	for _, e := range cfg.Entities {
		if _, err := s.Register(e.Definition(cfg.Prefix)); err != nil {
			_ = s.Close()
			return nil, err
		}
	}

	s.logger.Info("store opened",
		zap.String("backend", s.backend),
		zap.String("prefix", s.prefix),
		zap.Int("entities", len(cfg.Entities)))
	return s, nil
}

// Register builds and registers a repository for def, plus an external id
// codec when def lists sources. Entity ids are unique per store.
func (s *Store) Register(def datastore.Definition) (datastore.Repository, error) {
	planner, err := datastore.NewPlanner(def)
	if err != nil {
		return nil, err
	}
	var codec *sourceid.Codec
	if len(def.Sources) > 0 {
		if codec, err = sourceid.NewCodec(planner.Entity(), def.Sources...); err != nil {
			return nil, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, errors.ErrClosed
	}
	if _, exists := s.repos[def.EntityID]; exists {
		return nil, errors.NewConfigurationError("store", "entity %q already registered", def.EntityID)
	}

	var repo datastore.Repository
	switch s.backend {
	case config.BackendMemory:
		table, ok := s.tables[planner.TableName()]
		if !ok {
			table = memory.NewTable()
			s.tables[planner.TableName()] = table
		}
		repo = memory.NewWithPlanner(table, planner)
	default:
		repo = ddb.NewWithPlanner(s.client, planner,
			ddb.WithLogger(s.logger),
			ddb.WithTracerProvider(s.tracer))
	}

	s.repos[def.EntityID] = repo
	if codec != nil {
		s.codecs[def.EntityID] = codec
	}
	s.logger.Debug("entity registered",
		zap.String("entity", planner.Entity()),
		zap.String("table", planner.TableName()),
		zap.Int("indexes", len(planner.Indexes().Indexes())),
		zap.Strings("sources", def.Sources))
	return repo, nil
}

// Codec returns the external id codec of entityID. Entities declared
// without sources have none.
func (s *Store) Codec(entityID string) (*sourceid.Codec, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, errors.ErrClosed
	}
	if _, exists := s.repos[entityID]; !exists {
		return nil, errors.NewConfigurationError("store", "entity %q not registered", entityID)
	}
	codec, exists := s.codecs[entityID]
	if !exists {
		return nil, errors.NewConfigurationError("store", "entity %q declares no sources", entityID)
	}
	return codec, nil
}

// Repository returns the repository registered for entityID.
func (s *Store) Repository(entityID string) (datastore.Repository, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, errors.ErrClosed
	}
	repo, exists := s.repos[entityID]
	if !exists {
		return nil, errors.NewConfigurationError("store", "entity %q not registered", entityID)
	}
	return repo, nil
}

// Entities lists the registered entity ids in order.
func (s *Store) Entities() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.repos))
	for id := range s.repos {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Close releases the client. DynamoDB repositories handed out earlier fail
// with errors.ErrClosed afterwards. Calling Close again is a no-op.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	if s.client != nil {
		s.client.closed.Store(true)
	}
	if s.httpClient != nil {
		s.httpClient.CloseIdleConnections()
	}
	s.logger.Info("store closed")
	_ = s.logger.Sync()
	return nil
}

// closableClient refuses calls once the owning store is closed.
type closableClient struct {
	ddb.Client
	closed atomic.Bool
}

func (c *closableClient) GetItem(ctx context.Context, in *sdk.GetItemInput, opts ...func(*sdk.Options)) (*sdk.GetItemOutput, error) {
	if c.closed.Load() {
		return nil, errors.ErrClosed
	}
	return c.Client.GetItem(ctx, in, opts...)
}

func (c *closableClient) Query(ctx context.Context, in *sdk.QueryInput, opts ...func(*sdk.Options)) (*sdk.QueryOutput, error) {
	if c.closed.Load() {
		return nil, errors.ErrClosed
	}
	return c.Client.Query(ctx, in, opts...)
}

func (c *closableClient) Scan(ctx context.Context, in *sdk.ScanInput, opts ...func(*sdk.Options)) (*sdk.ScanOutput, error) {
	if c.closed.Load() {
		return nil, errors.ErrClosed
	}
	return c.Client.Scan(ctx, in, opts...)
}

func (c *closableClient) PutItem(ctx context.Context, in *sdk.PutItemInput, opts ...func(*sdk.Options)) (*sdk.PutItemOutput, error) {
	if c.closed.Load() {
		return nil, errors.ErrClosed
	}
	return c.Client.PutItem(ctx, in, opts...)
}
