package dynamodb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/bank-ledger/pkg/models"
)

const ledgerEntriesGSI = "gsi1pk-timestamp-index"

// ledgerPartition is the single partition value that lets the GSI serve
// "most recent entries" queries in timestamp order.
const ledgerPartition = "LEDGER_ENTRIES"

// AppendLedgerEntries persists the audit entries produced by one completed
// operation.
func (s *Store) AppendLedgerEntries(ctx context.Context, entries []models.LedgerEntry) error {
	for _, entry := range entries {
		entry.GSI1PK = ledgerPartition
		entryAV, err := attributevalue.MarshalMap(entry)
		if err != nil {
			return fmt.Errorf("failed to marshal ledger entry: %w", err)
		}

		input := &dynamodb.PutItemInput{
			TableName:           aws.String(s.LedgerTableName),
			Item:                entryAV,
			ConditionExpression: aws.String("attribute_not_exists(entry_id)"),
		}

		if _, err := s.Client.PutItem(ctx, input); err != nil {
			return fmt.Errorf("failed to put ledger entry %s: %w", entry.EntryID, err)
		}
	}

	return nil
}

// ListLedgerEntries retrieves the most recent ledger entries, newest first.
func (s *Store) ListLedgerEntries(ctx context.Context, limit int32) ([]models.LedgerEntry, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.LedgerTableName),
		IndexName:              aws.String(ledgerEntriesGSI),
		KeyConditionExpression: aws.String("gsi1pk = :pk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: ledgerPartition},
		},
		ScanIndexForward: aws.Bool(false),
		Limit:            aws.Int32(limit),
	}

	result, err := s.Client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger entries: %w", err)
	}

	var entries []models.LedgerEntry
	if err := attributevalue.UnmarshalListOfMaps(result.Items, &entries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal ledger entries: %w", err)
	}

	return entries, nil
}
