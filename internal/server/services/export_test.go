package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/gophnotes/internal/common"
	sc "github.com/dmitrijs2005/gophnotes/internal/server/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubS3 replaces every AWS seam for the duration of the test and records
// what reached them.
type stubS3 struct {
	loadErr    error
	putErr     error
	deleteErr  error
	presignErr error

	region       string
	baseEndpoint string
	putKey       string
	putBody      []byte
	deletedKey   string
	expires      time.Duration
}

func installStubS3(t *testing.T) *stubS3 {
	t.Helper()
	st := &stubS3{}

	origLoad, origNew, origPre := loadDefaultAWSConfig, newS3ClientFromConfig, newS3PresignClient
	origPut, origDel, origGet := putObject, deleteObject, presignGetObject
	t.Cleanup(func() {
		loadDefaultAWSConfig, newS3ClientFromConfig, newS3PresignClient = origLoad, origNew, origPre
		putObject, deleteObject, presignGetObject = origPut, origDel, origGet
	})

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			if err := fn(&lo); err != nil {
				t.Fatalf("load options fn error: %v", err)
			}
		}
		st.region = lo.Region
		return aws.Config{}, st.loadErr
	}
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		var opts s3.Options
		for _, fn := range optFns {
			fn(&opts)
		}
		if opts.BaseEndpoint != nil {
			st.baseEndpoint = *opts.BaseEndpoint
		}
		return &s3.Client{}
	}
	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return &s3.PresignClient{}
	}
	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		if st.putErr != nil {
			return nil, st.putErr
		}
		st.putKey = *in.Key
		body, err := io.ReadAll(in.Body)
		if err != nil {
			t.Fatalf("read body: %v", err)
		}
		st.putBody = body
		return &s3.PutObjectOutput{}, nil
	}
	deleteObject = func(c *s3.Client, ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
		if st.deleteErr != nil {
			return nil, st.deleteErr
		}
		st.deletedKey = *in.Key
		return &s3.DeleteObjectOutput{}, nil
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		if st.presignErr != nil {
			return nil, st.presignErr
		}
		var po s3.PresignOptions
		for _, fn := range optFns {
			fn(&po)
		}
		st.expires = po.Expires
		return &v4.PresignedHTTPRequest{URL: "https://s3.local/" + *in.Bucket + "/" + *in.Key + "?sig"}, nil
	}
	return st
}

func newExportService(e *env, bucket string) *ExportService {
	cfg := &sc.Config{
		S3Region:           "us-east-1",
		S3RootUser:         "minioadmin",
		S3RootPassword:     "minioadmin",
		S3BaseEndpoint:     "http://127.0.0.1:9000",
		S3Bucket:           bucket,
		ExportLinkValidity: 15 * time.Minute,
	}
	return NewExportService(e.db, &fakeRepoManager{e.store}, cfg, nopLogger{})
}

func TestExport_Success(t *testing.T) {
	e := newEnv(t)
	st := installStubS3(t)
	alice := e.register(t, "alice")
	e.addNote(t, alice, "one")
	e.addNote(t, alice, "two")

	svc := newExportService(e, "notes")
	url, err := svc.Export(context.Background(), alice, "alice", alice.CSRFToken)
	require.NoError(t, err)

	assert.Equal(t, "https://s3.local/notes/users/alice/notes.json?sig", url)
	assert.Equal(t, "users/alice/notes.json", st.putKey)
	assert.Equal(t, 15*time.Minute, st.expires)
	assert.Equal(t, "us-east-1", st.region)
	assert.Equal(t, "http://127.0.0.1:9000", st.baseEndpoint)

	var doc ExportDocument
	require.NoError(t, json.Unmarshal(st.putBody, &doc))
	assert.Equal(t, "alice", doc.Username)
	require.Len(t, doc.Notes, 2)
	assert.Equal(t, "one", doc.Notes[0].Title)
	assert.Equal(t, "two", doc.Notes[1].Title)
}

func TestExport_Guarded(t *testing.T) {
	e := newEnv(t)
	installStubS3(t)
	e.register(t, "alice")
	bob := e.register(t, "bob")
	svc := newExportService(e, "notes")
	ctx := context.Background()

	_, err := svc.Export(ctx, nil, "alice", "")
	assert.ErrorIs(t, err, common.ErrorUnauthenticated)

	_, err = svc.Export(ctx, bob, "alice", bob.CSRFToken)
	assert.ErrorIs(t, err, common.ErrorForbidden)

	_, err = svc.Export(ctx, bob, "bob", "nope")
	assert.ErrorIs(t, err, common.ErrorAntiForgery)
}

func TestExport_Disabled(t *testing.T) {
	e := newEnv(t)
	installStubS3(t)
	alice := e.register(t, "alice")

	svc := newExportService(e, "")
	_, err := svc.Export(context.Background(), alice, "alice", alice.CSRFToken)
	assert.ErrorIs(t, err, common.ErrorExportDisabled)
	assert.NoError(t, svc.Purge(context.Background(), "alice"))
}

func TestExport_BackendErrors(t *testing.T) {
	e := newEnv(t)
	st := installStubS3(t)
	alice := e.register(t, "alice")
	svc := newExportService(e, "notes")
	ctx := context.Background()

	st.loadErr = errors.New("load-fail")
	_, err := svc.Export(ctx, alice, "alice", alice.CSRFToken)
	assert.EqualError(t, err, "load-fail")
	st.loadErr = nil

	st.putErr = errors.New("put-fail")
	_, err = svc.Export(ctx, alice, "alice", alice.CSRFToken)
	assert.ErrorIs(t, err, st.putErr)
	st.putErr = nil

	st.presignErr = errors.New("presign-fail")
	_, err = svc.Export(ctx, alice, "alice", alice.CSRFToken)
	assert.ErrorIs(t, err, st.presignErr)
}

func TestPurge(t *testing.T) {
	e := newEnv(t)
	st := installStubS3(t)
	svc := newExportService(e, "notes")
	ctx := context.Background()

	require.NoError(t, svc.Purge(ctx, "alice"))
	assert.Equal(t, "users/alice/notes.json", st.deletedKey)

	st.deleteErr = errors.New("delete-fail")
	assert.ErrorIs(t, svc.Purge(ctx, "alice"), st.deleteErr)

	st.loadErr = errors.New("load-fail")
	assert.EqualError(t, svc.Purge(ctx, "alice"), "load-fail")
}
