package export

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"jobsink/internal/storage"
)

// DefaultLinkExpiry is how long a published export stays downloadable.
const DefaultLinkExpiry = 24 * time.Hour

// Publish uploads a rendered CSV under key and returns a presigned download URL.
func Publish(ctx context.Context, st storage.Storage, key string, data []byte, expiry time.Duration) (string, error) {
	if _, err := st.Put(ctx, key, bytes.NewReader(data), storage.PutObjectOptions{
		Size:        int64(len(data)),
		ContentType: "text/csv",
	}); err != nil {
		return "", fmt.Errorf("upload export: %w", err)
	}

	u, err := st.PresignGet(ctx, key, expiry)
	if err != nil {
		return "", fmt.Errorf("presign export: %w", err)
	}
	return u, nil
}
