package dynamodb

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/ivesbwas/bwas/internal/config"
	"github.com/ivesbwas/bwas/internal/domain/authorization"
	ddb "github.com/ivesbwas/bwas/internal/dynamodb"
	ierr "github.com/ivesbwas/bwas/internal/errors"
	"github.com/ivesbwas/bwas/internal/logger"
	"github.com/ivesbwas/bwas/internal/types"
)

// dateLayout is fixed width so the GSI range key sorts chronologically
const dateLayout = "2006-01-02T15:04:05.000000000Z"

// API is the subset of the DynamoDB client used by the store
type API interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

type authorizationRepository struct {
	api       API
	tableName string
	pageSize  int
	logger    *logger.Logger
}

// NewAuthorizationRepository creates the DynamoDB backed authorization store
func NewAuthorizationRepository(api API, cfg *config.Configuration, logger *logger.Logger) authorization.Repository {
	return &authorizationRepository{
		api:       api,
		tableName: cfg.DynamoDB.TableName,
		pageSize:  cfg.Authorization.PageSize,
		logger:    logger,
	}
}

type authorizationItem struct {
	TransactionID       string `dynamodbav:"transaction_id"`
	Tin                 string `dynamodbav:"tin"`
	TinType             string `dynamodbav:"tin_type"`
	Status              string `dynamodbav:"status"`
	DocumentType        string `dynamodbav:"document_type"`
	DocumentStatus      string `dynamodbav:"document_status"`
	AuthorizationStatus string `dynamodbav:"authorization_status"`
	CreatedDate         string `dynamodbav:"created_date"`
	UpdatedDate         string `dynamodbav:"updated_date"`
}

func formatDate(t time.Time) string {
	return t.UTC().Format(dateLayout)
}

func (i *authorizationItem) toDomain() (*authorization.AuthorizationDocument, error) {
	created, err := time.Parse(dateLayout, i.CreatedDate)
	if err != nil {
		return nil, err
	}
	updated, err := time.Parse(dateLayout, i.UpdatedDate)
	if err != nil {
		return nil, err
	}
	return &authorization.AuthorizationDocument{
		TransactionID:       i.TransactionID,
		Tin:                 i.Tin,
		TinType:             types.TinType(i.TinType),
		Status:              i.Status,
		DocumentType:        i.DocumentType,
		DocumentStatus:      i.DocumentStatus,
		AuthorizationStatus: types.AuthorizationStatus(i.AuthorizationStatus),
		CreatedDate:         created,
		UpdatedDate:         updated,
	}, nil
}

func (r *authorizationRepository) key(transactionID string) map[string]ddbtypes.AttributeValue {
	return map[string]ddbtypes.AttributeValue{
		"transaction_id": &ddbtypes.AttributeValueMemberS{Value: transactionID},
	}
}

// ListByTin reads the GSI newest first and skips page*pageSize items. The
// index is eventually consistent, a just-saved document may lag a read.
func (r *authorizationRepository) ListByTin(ctx context.Context, tin string, page int) ([]*authorization.AuthorizationDocument, error) {
	if page < 0 {
		return nil, ierr.NewError("page must not be negative").
			WithHint("Page must be zero or greater").
			Mark(ierr.ErrValidation)
	}

	skip := page * r.pageSize
	want := skip + r.pageSize

	paginator := dynamodb.NewQueryPaginator(r.api, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(ddb.TinCreatedDateIndex),
		KeyConditionExpression: aws.String("tin = :tin"),
		ExpressionAttributeValues: map[string]ddbtypes.AttributeValue{
			":tin": &ddbtypes.AttributeValueMemberS{Value: tin},
		},
		ScanIndexForward: aws.Bool(false),
		Limit:            aws.Int32(int32(r.pageSize)),
	})

	var items []authorizationItem
	for paginator.HasMorePages() && len(items) < want {
		out, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, r.dbError(err, "list authorization documents", "Failed to list authorization documents")
		}
		var batch []authorizationItem
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &batch); err != nil {
			return nil, r.dbError(err, "list authorization documents", "Failed to read authorization documents")
		}
		items = append(items, batch...)
	}

	docs := make([]*authorization.AuthorizationDocument, 0, r.pageSize)
	if skip >= len(items) {
		return docs, nil
	}
	items = items[skip:]
	if len(items) > r.pageSize {
		items = items[:r.pageSize]
	}
	for i := range items {
		doc, err := items[i].toDomain()
		if err != nil {
			return nil, r.dbError(err, "list authorization documents", "Failed to read authorization documents")
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (r *authorizationRepository) Get(ctx context.Context, transactionID string) (*authorization.AuthorizationDocument, error) {
	out, err := r.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            r.key(transactionID),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, r.dbError(err, "get authorization document", "Failed to get authorization document")
	}
	if len(out.Item) == 0 {
		return nil, nil
	}

	var item authorizationItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, r.dbError(err, "get authorization document", "Failed to read authorization document")
	}
	doc, err := item.toDomain()
	if err != nil {
		return nil, r.dbError(err, "get authorization document", "Failed to read authorization document")
	}
	return doc, nil
}

// Save upserts with UpdateItem so created_date survives an overwrite
func (r *authorizationRepository) Save(ctx context.Context, doc *authorization.AuthorizationDocument) (*authorization.AuthorizationDocument, error) {
	if doc == nil {
		return nil, ierr.NewError("document is required").
			WithHint("Document is required").
			Mark(ierr.ErrValidation)
	}

	values, err := attributevalue.MarshalMap(map[string]string{
		":tin":                  doc.Tin,
		":tin_type":             string(doc.TinType),
		":status":               doc.Status,
		":document_type":        doc.DocumentType,
		":document_status":      doc.DocumentStatus,
		":authorization_status": string(doc.AuthorizationStatus),
		":created_date":         formatDate(doc.CreatedDate),
		":updated_date":         formatDate(doc.UpdatedDate),
	})
	if err != nil {
		return nil, r.dbError(err, "save authorization document", "Failed to save authorization document")
	}

	out, err := r.api.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName: aws.String(r.tableName),
		Key:       r.key(doc.TransactionID),
		UpdateExpression: aws.String("SET tin = :tin, tin_type = :tin_type, #status = :status, " +
			"document_type = :document_type, document_status = :document_status, " +
			"authorization_status = :authorization_status, updated_date = :updated_date, " +
			"created_date = if_not_exists(created_date, :created_date)"),
		ExpressionAttributeNames:  map[string]string{"#status": "status"},
		ExpressionAttributeValues: values,
		ReturnValues:              ddbtypes.ReturnValueAllNew,
	})
	if err != nil {
		return nil, r.dbError(err, "save authorization document", "Failed to save authorization document")
	}

	var item authorizationItem
	if err := attributevalue.UnmarshalMap(out.Attributes, &item); err != nil {
		return nil, r.dbError(err, "save authorization document", "Failed to read saved authorization document")
	}
	saved, err := item.toDomain()
	if err != nil {
		return nil, r.dbError(err, "save authorization document", "Failed to read saved authorization document")
	}

	r.logger.Debugw("saved authorization document",
		"transaction_id", saved.TransactionID,
		"authorization_status", saved.AuthorizationStatus)
	return saved, nil
}

func (r *authorizationRepository) Delete(ctx context.Context, transactionID string) error {
	_, err := r.api.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       r.key(transactionID),
	})
	if err != nil {
		return r.dbError(err, "delete authorization document", "Failed to delete authorization document")
	}
	return nil
}

func (r *authorizationRepository) dbError(err error, op, hint string) error {
	if cerr := ierr.WrapContextErr(err, op); cerr != nil {
		return cerr
	}
	return ierr.WithError(err).
		WithHint(hint).
		Mark(ierr.ErrDatabase)
}
