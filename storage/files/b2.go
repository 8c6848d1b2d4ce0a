package files

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/kurin/blazer/b2"
	"github.com/pkg/errors"

	"github.com/udriss/correction/core/report"
)

const pdfContentType = "application/pdf"

// B2 stores documents in a Backblaze B2 bucket.
type B2 struct {
	client *b2.Client
	bucket *b2.Bucket
	prefix string
}

var _ report.DocumentStore = (*B2)(nil)

func NewB2(ctx context.Context, accountID, appKey, bucketName, prefix string) (*B2, error) {
	client, err := b2.NewClient(ctx, accountID, appKey)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create b2 client")
	}

	bucket, err := client.Bucket(ctx, bucketName)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get bucket")
	}
	return &B2{client: client, bucket: bucket, prefix: prefix}, nil
}

func (s *B2) Save(ctx context.Context, name string, r io.Reader) (string, error) {
	key := path.Join(s.prefix, path.Base(name))
	w := s.bucket.Object(key).NewWriter(ctx, b2.WithAttrsOption(&b2.Attrs{ContentType: pdfContentType}))

	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", errors.Wrap(err, "failed to write object")
	}
	if err := w.Close(); err != nil {
		return "", errors.Wrap(err, "failed to close writer")
	}
	return fmt.Sprintf("%s/file/%s/%s", s.bucket.BaseURL(), s.bucket.Name(), key), nil
}
