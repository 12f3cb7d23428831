package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/fooddemand/api/internal/domain"
)

// uploadHistoryLimit mirrors the memory backend's per-user history cap.
const uploadHistoryLimit = 20

// DatasetRepo stores the per-user working dataset (PK: user_id) and the
// upload history (PK: user_id, SK: upload_id — a ULID, so range order is
// creation order).
type DatasetRepo struct {
	client       *dynamodb.Client
	datasetTable string
	uploadsTable string
}

func NewDatasetRepo(client *dynamodb.Client, datasetTable, uploadsTable string) *DatasetRepo {
	return &DatasetRepo{client: client, datasetTable: datasetTable, uploadsTable: uploadsTable}
}

func (r *DatasetRepo) PutDataset(ctx context.Context, ds *domain.Dataset) error {
	item, err := attributevalue.MarshalMap(ds)
	if err != nil {
		return fmt.Errorf("marshal dataset: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.datasetTable),
		Item:      item,
	})
	return err
}

func (r *DatasetRepo) GetDataset(ctx context.Context, userID string) (*domain.Dataset, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.datasetTable),
		Key:       strKey("user_id", userID),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("dataset not found: %w", domain.ErrNotFound)
	}
	var ds domain.Dataset
	if err := attributevalue.UnmarshalMap(out.Item, &ds); err != nil {
		return nil, err
	}
	return &ds, nil
}

func (r *DatasetRepo) DeleteDataset(ctx context.Context, userID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.datasetTable),
		Key:       strKey("user_id", userID),
	})
	return err
}

func (r *DatasetRepo) AppendUpload(ctx context.Context, rec *domain.UploadRecord) error {
	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return fmt.Errorf("marshal upload record: %w", err)
	}
	if _, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.uploadsTable),
		Item:      item,
	}); err != nil {
		return err
	}

	// Trim history beyond the cap, oldest first.
	records, err := r.ListUploads(ctx, rec.UserID)
	if err != nil {
		return err
	}
	for i := uploadHistoryLimit; i < len(records); i++ {
		if err := r.deleteUpload(ctx, rec.UserID, records[i].ID); err != nil {
			return err
		}
	}
	return nil
}

// ListUploads returns the user's upload records, newest first.
func (r *DatasetRepo) ListUploads(ctx context.Context, userID string) ([]domain.UploadRecord, error) {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.uploadsTable),
		KeyConditionExpression:    aws.String("user_id = :u"),
		ExpressionAttributeValues: map[string]types.AttributeValue{":u": &types.AttributeValueMemberS{Value: userID}},
		ScanIndexForward:          aws.Bool(false),
	})
	if err != nil {
		return nil, err
	}
	var records []domain.UploadRecord
	if err := attributevalue.UnmarshalListOfMaps(out.Items, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (r *DatasetRepo) RemoveUploads(ctx context.Context, userID string, ids []string) error {
	for _, id := range ids {
		if err := r.deleteUpload(ctx, userID, id); err != nil {
			return err
		}
	}
	return nil
}

func (r *DatasetRepo) deleteUpload(ctx context.Context, userID, uploadID string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.uploadsTable),
		Key:       compositeKey("user_id", userID, "upload_id", uploadID),
	})
	return err
}
