package filestorage

import (
	"bytes"
	"context"
	"path"
	"time"

	consts "github.com/assetdesk/assetdesk/internal/config"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type FileStorage struct {
	client     *s3.Client
	bucket     string
	exportPath string
}

func New(bucket string, exportPath string) *FileStorage {
	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		panic(err)
	}
	return &FileStorage{
		client:     s3.NewFromConfig(cfg),
		bucket:     bucket,
		exportPath: exportPath,
	}
}

func (f *FileStorage) UploadFile(ctx context.Context, name string, data []byte) error {
	key := path.Join(f.exportPath, name)
	contentType := "text/csv"
	_, err := f.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &f.bucket,
		Key:         &key,
		Body:        bytes.NewReader(data),
		ContentType: &contentType,
	})
	return err
}

func (f *FileStorage) GetPresignedURL(ctx context.Context, name string) (string, error) {
	var (
		key           = path.Join(f.exportPath, name)
		presignClient = s3.NewPresignClient(f.client)
	)
	req, err := presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: &f.bucket,
		Key:    &key,
	}, func(po *s3.PresignOptions) {
		po.Expires = time.Minute * consts.PRESIGN_URL_EXPIRE_MINUTES
	})
	if err != nil {
		return "", err
	}

	return req.URL, nil
}
