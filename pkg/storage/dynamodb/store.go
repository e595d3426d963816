package dynamodb

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/chris/bank-ledger/pkg/storage"
)

// DynamoDBAPI is the subset of the DynamoDB client the store uses. Mocks for
// it are generated into the mocks package.
type DynamoDBAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// Store implements the storage.Storage interface using AWS DynamoDB.
// Accounts live in one table keyed by username; audit entries in another.
type Store struct {
	Client            DynamoDBAPI
	AccountsTableName string
	LedgerTableName   string
}

// New creates a new Store.
func New(client DynamoDBAPI, accountsTable, ledgerTable string) *Store {
	return &Store{
		Client:            client,
		AccountsTableName: accountsTable,
		LedgerTableName:   ledgerTable,
	}
}

// Make sure we conform to the interface
var _ storage.Storage = (*Store)(nil)
