package cloudinary

import (
	"context"
	"fmt"
	"io"
	"time"
)

// StubClient is a no-op uploader for development without Cloudinary
// credentials. It drains the file and hands back a placeholder reference.
type StubClient struct{}

func (s *StubClient) UploadImage(ctx context.Context, file io.Reader, folder, publicID string) (url, thumbnailURL string, err error) {
	if _, err := io.Copy(io.Discard, file); err != nil {
		return "", "", err
	}
	url = fmt.Sprintf("https://picsum.photos/400/600?random=%d", time.Now().UnixNano()%1000)
	return url, url, nil
}
