package artifacts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
)

// Fixed artifact filenames. The local cache and the remote store are both
// keyed by these names.
const (
	JudgmentTextsFile = "judgment_texts.json"
	CaseNamesFile     = "case_names.json"
	EmbeddingsFile    = "embeddings.json"
	EncoderFile       = "encoder.json"
	ClassifierFile    = "classifier.json"
)

// Store is a remote object store holding the serialized model/data
// artifacts. Artifacts are written once by the offline build tool and
// fetched by the server at startup.
type Store interface {
	// Fetch retrieves an artifact by name.
	Fetch(ctx context.Context, name string) (io.ReadCloser, error)

	// Publish uploads an artifact by name.
	Publish(ctx context.Context, name string, data io.Reader) error
}

// StoreType represents the store backend type.
type StoreType string

const (
	StoreTypeLocal StoreType = "local"
	StoreTypeS3    StoreType = "s3"
)

// StoreConfig holds configuration for the artifact store.
type StoreConfig struct {
	Type         StoreType
	LocalPath    string // For local store
	S3Bucket     string // For S3 store
	S3Region     string // For S3 store
	AWSAccessKey string
	AWSSecretKey string
}

// NewStore creates a store instance based on configuration.
func NewStore(cfg StoreConfig) (Store, error) {
	switch cfg.Type {
	case StoreTypeLocal:
		return NewLocalStore(cfg.LocalPath)
	case StoreTypeS3:
		return NewS3Store(cfg)
	default:
		return nil, fmt.Errorf("unknown artifact store type: %s", cfg.Type)
	}
}

// NewStoreFromEnv creates a store instance from environment variables.
func NewStoreFromEnv() (Store, error) {
	storeType := os.Getenv("ARTIFACT_STORE")
	if storeType == "" {
		storeType = "local" // Default to local for development
	}

	switch StoreType(storeType) {
	case StoreTypeLocal:
		localPath := os.Getenv("ARTIFACT_LOCAL_PATH")
		if localPath == "" {
			localPath = "./artifacts_store"
		}
		return NewLocalStore(localPath)

	case StoreTypeS3:
		cfg := StoreConfig{
			Type:         StoreTypeS3,
			S3Bucket:     os.Getenv("AWS_S3_BUCKET"),
			S3Region:     os.Getenv("AWS_REGION"),
			AWSAccessKey: os.Getenv("AWS_ACCESS_KEY_ID"),
			AWSSecretKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		}
		if cfg.S3Region == "" {
			cfg.S3Region = "us-east-1"
		}
		if cfg.S3Bucket == "" {
			return nil, errors.New("AWS_S3_BUCKET environment variable is required for S3 artifact store")
		}
		return NewS3Store(cfg)

	default:
		return nil, fmt.Errorf("unknown artifact store type: %s", storeType)
	}
}
