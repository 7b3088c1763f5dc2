package services

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophnotes/internal/common"
	"github.com/dmitrijs2005/gophnotes/internal/logging"
	sc "github.com/dmitrijs2005/gophnotes/internal/server/config"
	"github.com/dmitrijs2005/gophnotes/internal/server/guard"
	"github.com/dmitrijs2005/gophnotes/internal/server/models"
	"github.com/dmitrijs2005/gophnotes/internal/server/repositories/repomanager"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}
	deleteObject = func(c *s3.Client, ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
		return c.DeleteObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// ExportDocument is the JSON written to object storage.
type ExportDocument struct {
	Username   string         `json:"username"`
	ExportedAt time.Time      `json:"exported_at"`
	Notes      []*models.Note `json:"notes"`
}

// ExportService writes a user's notes to S3 and hands out a presigned
// download link. An empty bucket disables it.
type ExportService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *sc.Config
	logger      logging.Logger
}

func NewExportService(db *sql.DB, repomanager repomanager.RepositoryManager, config *sc.Config, l logging.Logger) *ExportService {
	return &ExportService{
		db:          db,
		repomanager: repomanager,
		config:      config,
		logger:      l.With("module", "exports"),
	}
}

// ExportKey is the object key holding the export of username.
func ExportKey(username string) string {
	return fmt.Sprintf("users/%s/notes.json", username)
}

func (s *ExportService) enabled() bool {
	return s.config.S3Bucket != ""
}

func (s *ExportService) getClient(ctx context.Context) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	}), nil
}

// Export uploads the notes of username and returns a link valid for
// ExportLinkValidity.
func (s *ExportService) Export(ctx context.Context, id *models.Identity, username, csrfToken string) (string, error) {
	err := guard.Require(id, guard.Authenticated(), guard.OwnerIs(username), guard.AntiForgery(csrfToken))
	if err != nil {
		return "", err
	}

	if !s.enabled() {
		return "", common.ErrorExportDisabled
	}

	notes, err := s.repomanager.Notes(s.db).ListByOwner(ctx, username)
	if err != nil {
		return "", err
	}

	data, err := json.Marshal(ExportDocument{Username: username, ExportedAt: time.Now().UTC(), Notes: notes})
	if err != nil {
		return "", err
	}

	client, err := s.getClient(ctx)
	if err != nil {
		return "", err
	}

	bucket := s.config.S3Bucket
	key := ExportKey(username)

	_, err = putObject(client, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("error uploading export: %w", err)
	}

	req, err := presignGetObject(newS3PresignClient(client), ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(s.config.ExportLinkValidity))
	if err != nil {
		return "", fmt.Errorf("error presigning export: %w", err)
	}

	s.logger.Info(ctx, "notes exported", "username", username, "notes", len(notes))
	return req.URL, nil
}

// Purge removes the stored export of username. Missing objects are not an
// error.
func (s *ExportService) Purge(ctx context.Context, username string) error {
	if !s.enabled() {
		return nil
	}

	client, err := s.getClient(ctx)
	if err != nil {
		return err
	}

	bucket := s.config.S3Bucket
	key := ExportKey(username)
	if _, err := deleteObject(client, ctx, &s3.DeleteObjectInput{Bucket: &bucket, Key: &key}); err != nil {
		return fmt.Errorf("error deleting export: %w", err)
	}
	return nil
}
