package session

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/jun/drivebox/internal/crypto"
	"github.com/jun/drivebox/internal/model"
)

// record is the DynamoDB shape of a session. The refresh token is encrypted
// before it leaves the process; expires_at doubles as the table's TTL
// attribute so DynamoDB reaps stale sessions on its own.
type record struct {
	Token                 string `dynamodbav:"token"`
	UserID                string `dynamodbav:"user_id"`
	Email                 string `dynamodbav:"email"`
	Name                  string `dynamodbav:"name"`
	Picture               string `dynamodbav:"picture"`
	AccessToken           string `dynamodbav:"access_token"`
	EncryptedRefreshToken string `dynamodbav:"encrypted_refresh_token"`
	TokenExpiry           int64  `dynamodbav:"token_expiry"`
	FolderID              string `dynamodbav:"folder_id"`
	CreatedAt             int64  `dynamodbav:"created_at"`
	ExpiresAt             int64  `dynamodbav:"expires_at"`
}

// DynamoStore persists sessions in a DynamoDB table keyed by token. Sessions
// survive process restarts, unlike MemoryStore.
type DynamoStore struct {
	client    *dynamodb.Client
	tableName string
	encryptor crypto.Encryptor
}

// NewDynamoStore creates a store backed by the given table.
func NewDynamoStore(client *dynamodb.Client, tableName string, encryptor crypto.Encryptor) *DynamoStore {
	return &DynamoStore{client: client, tableName: tableName, encryptor: encryptor}
}

func (s *DynamoStore) toRecord(ctx context.Context, sess *model.Session) (*record, error) {
	rec := &record{
		Token:       sess.Token,
		UserID:      sess.Profile.ID,
		Email:       sess.Profile.Email,
		Name:        sess.Profile.Name,
		Picture:     sess.Profile.Picture,
		AccessToken: sess.AccessToken,
		TokenExpiry: sess.TokenExpiry.Unix(),
		FolderID:    sess.FolderID,
		CreatedAt:   sess.CreatedAt.Unix(),
		ExpiresAt:   sess.ExpiresAt.Unix(),
	}
	if sess.RefreshToken != "" {
		encrypted, err := s.encryptor.Encrypt(ctx, sess.RefreshToken)
		if err != nil {
			return nil, fmt.Errorf("failed to encrypt refresh token: %w", err)
		}
		rec.EncryptedRefreshToken = encrypted
	}
	return rec, nil
}

func (s *DynamoStore) fromRecord(ctx context.Context, rec *record) (*model.Session, error) {
	sess := &model.Session{
		Token: rec.Token,
		Profile: model.Profile{
			ID:      rec.UserID,
			Email:   rec.Email,
			Name:    rec.Name,
			Picture: rec.Picture,
		},
		AccessToken: rec.AccessToken,
		TokenExpiry: time.Unix(rec.TokenExpiry, 0),
		FolderID:    rec.FolderID,
		CreatedAt:   time.Unix(rec.CreatedAt, 0),
		ExpiresAt:   time.Unix(rec.ExpiresAt, 0),
	}
	if rec.EncryptedRefreshToken != "" {
		refreshToken, err := s.encryptor.Decrypt(ctx, rec.EncryptedRefreshToken)
		if err != nil {
			return nil, fmt.Errorf("failed to decrypt refresh token: %w", err)
		}
		sess.RefreshToken = refreshToken
	}
	return sess, nil
}

// Put stores or replaces the session record.
func (s *DynamoStore) Put(ctx context.Context, sess *model.Session) error {
	rec, err := s.toRecord(ctx, sess)
	if err != nil {
		return err
	}

	item, err := attributevalue.MarshalMap(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("failed to save session to DynamoDB: %w", err)
	}
	return nil
}

// Get returns the session for the token, or ErrNotFound if it is missing or
// expired. DynamoDB TTL reaping lags, so expiry is checked here as well.
func (s *DynamoStore) Get(ctx context.Context, token string) (*model.Session, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"token": &types.AttributeValueMemberS{Value: token},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get session from DynamoDB: %w", err)
	}
	if out.Item == nil {
		return nil, ErrNotFound
	}

	var rec record
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	if rec.ExpiresAt > 0 && rec.ExpiresAt < time.Now().Unix() {
		return nil, ErrNotFound
	}

	return s.fromRecord(ctx, &rec)
}

// Delete removes the session. Deleting an unknown token is not an error.
func (s *DynamoStore) Delete(ctx context.Context, token string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"token": &types.AttributeValueMemberS{Value: token},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to delete session from DynamoDB: %w", err)
	}
	return nil
}
