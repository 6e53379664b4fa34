package services

import (
	"bytes"
	"fmt"
	"os"
	"path"
	"time"

	storage "github.com/supabase-community/storage-go"
)

// ============================================================================
// STORAGE SERVICE - Supabase object storage for media
// The app never stores binaries itself; uploads go to a managed bucket
// and only the returned public URL is persisted.
// ============================================================================

const mediaBucket = "media"

type StorageService struct {
	client *storage.Client
}

func NewStorageService() (*StorageService, error) {
	url := os.Getenv("SUPABASE_URL")
	key := os.Getenv("SUPABASE_SERVICE_KEY")
	if url == "" || key == "" {
		return nil, fmt.Errorf("SUPABASE_URL and SUPABASE_SERVICE_KEY environment variables are required")
	}

	client := storage.NewClient(url+"/storage/v1", key, nil)
	return &StorageService{client: client}, nil
}

// Upload stores a media blob under <userID>/<timestamp>-<filename> and
// returns its public URL.
func (s *StorageService) Upload(userID, filename, contentType string, data []byte) (string, error) {
	objectPath := path.Join(userID, fmt.Sprintf("%d-%s", time.Now().UnixNano(), filename))

	_, err := s.client.UploadFile(mediaBucket, objectPath, bytes.NewReader(data), storage.FileOptions{
		ContentType: &contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", objectPath, err)
	}

	resp := s.client.GetPublicUrl(mediaBucket, objectPath)
	if resp.SignedURL == "" {
		return "", fmt.Errorf("storage returned no public URL for %s", objectPath)
	}
	return resp.SignedURL, nil
}
