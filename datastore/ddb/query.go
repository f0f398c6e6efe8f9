/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/suparena/tablestore/filter"
	"github.com/suparena/tablestore/storagemodels"
)

// optional returns nil for the empty string so unset names stay unset in the request.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return aws.String(s)
}

func getItemInput(params *storagemodels.QueryParams) *sdk.GetItemInput {
	return &sdk.GetItemInput{
		TableName: aws.String(params.TableName),
		Key: map[string]types.AttributeValue{
			storagemodels.AttrPartitionKey: &types.AttributeValueMemberS{Value: params.Key.PartitionKey},
			storagemodels.AttrSortKey:      &types.AttributeValueMemberS{Value: params.Key.SortKey},
		},
	}
}

func queryInput(params *storagemodels.QueryParams) (*sdk.QueryInput, error) {
	values, err := attributevalue.MarshalMap(params.ExpressionAttributeValues)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal expression values: %w", err)
	}
	return &sdk.QueryInput{
		TableName:                 aws.String(params.TableName),
		IndexName:                 optional(params.IndexName),
		KeyConditionExpression:    aws.String(params.KeyConditionExpression),
		FilterExpression:          optional(params.FilterExpression),
		ExpressionAttributeValues: values,
	}, nil
}

func scanInput(params *storagemodels.QueryParams) (*sdk.ScanInput, error) {
	values, err := attributevalue.MarshalMap(params.ExpressionAttributeValues)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal expression values: %w", err)
	}
	return &sdk.ScanInput{
		TableName:                 aws.String(params.TableName),
		IndexName:                 optional(params.IndexName),
		FilterExpression:          optional(params.FilterExpression),
		ExpressionAttributeValues: values,
	}, nil
}

// marshalItem drops nil attributes before marshalling; absent and null are
// not distinguished by callers. Timestamps are written in the UTC form filter
// constraints bind.
func marshalItem(rec storagemodels.Record) (map[string]types.AttributeValue, error) {
	clean := make(map[string]any, len(rec))
	for k, v := range rec {
		if v == nil {
			continue
		}
		if ts, ok := filter.Timestamp(v); ok {
			v = ts
		}
		clean[k] = v
	}
	item, err := attributevalue.MarshalMap(clean)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal item: %w", err)
	}
	return item, nil
}

func unmarshalItem(item map[string]types.AttributeValue) (storagemodels.Record, error) {
	var rec map[string]any
	if err := attributevalue.UnmarshalMap(item, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal item: %w", err)
	}
	return storagemodels.Record(rec), nil
}

func unmarshalItems(items []map[string]types.AttributeValue) ([]storagemodels.Record, error) {
	out := make([]storagemodels.Record, 0, len(items))
	for _, item := range items {
		rec, err := unmarshalItem(item)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}
