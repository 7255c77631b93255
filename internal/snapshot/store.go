package snapshot

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"tether-news-scraper/internal/config"
	"tether-news-scraper/internal/observability"
	"tether-news-scraper/internal/outcome"
)

const contentTypeJSON = "application/json"

// ObjectAPI описывает методы S3 клиента, которые нужны хранилищу
type ObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	CopyObject(ctx context.Context, params *s3.CopyObjectInput, optFns ...func(*s3.Options)) (*s3.CopyObjectOutput, error)
}

type Store struct {
	client    ObjectAPI
	bucket    string
	latestKey string
	backupKey string
	logger    *observability.Logger
}

func NewStore(client ObjectAPI, bucket, latestKey, backupKey string, logger *observability.Logger) *Store {
	return &Store{
		client:    client,
		bucket:    bucket,
		latestKey: latestKey,
		backupKey: backupKey,
		logger:    logger,
	}
}

// NewS3Store берёт учётные данные из стандартной цепочки AWS
func NewS3Store(ctx context.Context, cfg *config.Config, logger *observability.Logger) (*Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Storage.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Storage.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Storage.Endpoint)
			o.UsePathStyle = true
		}
	})

	return NewStore(client, cfg.Storage.Bucket, cfg.LatestObjectKey(), cfg.BackupObjectKey(), logger), nil
}

// Backup копирует текущий снапшот в ключ резервной копии. Ошибка только в результате
func (s *Store) Backup(ctx context.Context) outcome.Result {
	_, err := s.client.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:     aws.String(s.bucket),
		CopySource: aws.String(s.bucket + "/" + s.latestKey),
		Key:        aws.String(s.backupKey),
	})
	if err != nil {
		if isNotFound(err) {
			return outcome.Skipped("no existing snapshot to back up")
		}
		return outcome.Failed(fmt.Errorf("copy %s to %s: %w", s.latestKey, s.backupKey, err))
	}

	s.logger.Info("Current snapshot backed up", "bucket", s.bucket, "key", s.backupKey)
	return outcome.OK()
}

// Put перезаписывает снапшот, побеждает последняя запись
func (s *Store) Put(ctx context.Context, document []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.latestKey),
		Body:        bytes.NewReader(document),
		ContentType: aws.String(contentTypeJSON),
	})
	if err != nil {
		return fmt.Errorf("put %s: %w", s.latestKey, err)
	}

	s.logger.Info("Snapshot stored", "bucket", s.bucket, "key", s.latestKey, "bytes", len(document))
	return nil
}

func isNotFound(err error) bool {
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return true
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		}
	}
	return false
}

// ErrBucketNotConfigured: бакет не задан, снапшот записать некуда
var ErrBucketNotConfigured = errors.New("s3 bucket not configured")

// Unavailable подменяет Store, когда S3 не настроен. Backup пропускается,
// Put возвращает Err, поэтому прогон падает на стадии store
type Unavailable struct {
	Err error
}

func (u Unavailable) Backup(ctx context.Context) outcome.Result {
	return outcome.Skipped(u.Err.Error())
}

func (u Unavailable) Put(ctx context.Context, document []byte) error {
	return u.Err
}
