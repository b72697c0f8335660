package filestorage

import (
	"bytes"
	"context"
	"time"

	consts "github.com/assetdesk/assetdesk/internal/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

func NewMinIOStorage(bucket, exportPath, endpoint, accessKeyID, secretAccessKey string) *MinIOStorage {
	m, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKeyID, secretAccessKey, ""),
		Secure: true,
	})
	if err != nil {
		panic(err)
	}
	return &MinIOStorage{
		client:     m,
		bucket:     bucket,
		exportPath: exportPath,
	}
}

type MinIOStorage struct {
	client     *minio.Client
	bucket     string
	exportPath string
}

func (f *MinIOStorage) UploadFile(ctx context.Context, path string, data []byte) error {
	key := f.exportPath + "/" + path
	_, err := f.client.PutObject(ctx, f.bucket, key,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "text/csv"})
	return err
}

func (f *MinIOStorage) GetPresignedURL(ctx context.Context, path string) (string, error) {
	key := f.exportPath + "/" + path
	u, err := f.client.PresignedGetObject(ctx, f.bucket, key, time.Minute*consts.PRESIGN_URL_EXPIRE_MINUTES, nil)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}
