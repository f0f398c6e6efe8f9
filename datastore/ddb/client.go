/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"fmt"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// Client is the subset of the DynamoDB API the repository uses.
// *dynamodb.Client satisfies it; tests supply their own.
type Client interface {
	GetItem(ctx context.Context, input *sdk.GetItemInput, opts ...func(*sdk.Options)) (*sdk.GetItemOutput, error)
	Query(ctx context.Context, input *sdk.QueryInput, opts ...func(*sdk.Options)) (*sdk.QueryOutput, error)
	Scan(ctx context.Context, input *sdk.ScanInput, opts ...func(*sdk.Options)) (*sdk.ScanOutput, error)
	PutItem(ctx context.Context, input *sdk.PutItemInput, opts ...func(*sdk.Options)) (*sdk.PutItemOutput, error)
}

var _ Client = (*sdk.Client)(nil)

// ClientOptions configures NewClient.
type ClientOptions struct {
	Region string
	// Endpoint overrides the service endpoint, e.g. a local DynamoDB.
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
	// HTTPClient is used for every request when set.
	HTTPClient *http.Client
}

// NewClient initializes a DynamoDB client. Static credentials are used when an
// access key is given, otherwise the default credential chain applies.
func NewClient(ctx context.Context, opts ClientOptions) (*sdk.Client, error) {
	loadOpts := []func(*config.LoadOptions) error{
		config.WithRegion(opts.Region),
	}
	if opts.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, opts.SessionToken),
		))
	}
	if opts.HTTPClient != nil {
		loadOpts = append(loadOpts, config.WithHTTPClient(opts.HTTPClient))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	return sdk.NewFromConfig(cfg, func(o *sdk.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
	}), nil
}
