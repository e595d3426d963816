package dynamodb

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/bank-ledger/pkg/storage"
)

// UpdateBalances sets both balance fields of one account record, conditional
// on the version observed during validation. The version bump makes every
// committed mutation visible to concurrent readers.
func (s *Store) UpdateBalances(ctx context.Context, username string, cash, debt, expectedVersion int64) error {
	input := &dynamodb.UpdateItemInput{
		TableName: aws.String(s.AccountsTableName),
		Key: map[string]types.AttributeValue{
			"username": &types.AttributeValueMemberS{Value: username},
		},
		UpdateExpression:    aws.String("SET cash = :cash, debt = :debt, version = version + :inc"),
		ConditionExpression: aws.String("version = :version"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":cash":    &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", cash)},
			":debt":    &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", debt)},
			":version": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", expectedVersion)},
			":inc":     &types.AttributeValueMemberN{Value: "1"},
		},
	}

	_, err := s.Client.UpdateItem(ctx, input)
	if err != nil {
		var condCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckFailed) {
			return fmt.Errorf("account %s: %w", username, storage.ErrVersionConflict)
		}
		return fmt.Errorf("failed to update balances in DynamoDB: %w", err)
	}

	return nil
}

// CreditCash atomically adds delta to an account's cash balance. No prior
// read is needed, so concurrent credits cannot conflict with each other.
func (s *Store) CreditCash(ctx context.Context, username string, delta int64) error {
	input := &dynamodb.UpdateItemInput{
		TableName: aws.String(s.AccountsTableName),
		Key: map[string]types.AttributeValue{
			"username": &types.AttributeValueMemberS{Value: username},
		},
		UpdateExpression:    aws.String("SET cash = cash + :delta, version = version + :inc"),
		ConditionExpression: aws.String("attribute_exists(username)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":delta": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", delta)},
			":inc":   &types.AttributeValueMemberN{Value: "1"},
		},
	}

	_, err := s.Client.UpdateItem(ctx, input)
	if err != nil {
		var condCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckFailed) {
			return fmt.Errorf("account for username %s: %w", username, storage.ErrAccountNotFound)
		}
		return fmt.Errorf("failed to credit cash in DynamoDB: %w", err)
	}

	return nil
}
