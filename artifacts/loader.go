package artifacts

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"caselens-backend/classifier"
	"caselens-backend/encoder"
	"caselens-backend/models"
)

// Bundle holds every artifact-backed structure the server needs, loaded
// once at startup. It is read-only afterwards; handlers share it by
// reference without locking.
type Bundle struct {
	Corpus     *models.Corpus
	Encoder    *encoder.Encoder
	Classifier *classifier.Classifier
}

// Loader fetches artifacts into a local cache directory and deserializes
// them. A cached file is never re-downloaded; delete it from the cache dir
// to force a refresh.
type Loader struct {
	store    Store
	cacheDir string
}

// NewLoader creates a loader over the given store and cache directory.
func NewLoader(store Store, cacheDir string) (*Loader, error) {
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create artifact cache directory: %w", err)
	}
	return &Loader{store: store, cacheDir: cacheDir}, nil
}

// Load fetches (if needed) and decodes all five artifacts, then checks the
// corpus alignment invariant.
func (l *Loader) Load(ctx context.Context) (*Bundle, error) {
	var texts, names []string
	var embeddings [][]float32

	if err := l.loadJSON(ctx, JudgmentTextsFile, &texts); err != nil {
		return nil, err
	}
	if err := l.loadJSON(ctx, CaseNamesFile, &names); err != nil {
		return nil, err
	}
	if err := l.loadJSON(ctx, EmbeddingsFile, &embeddings); err != nil {
		return nil, err
	}

	enc, err := l.loadEncoder(ctx)
	if err != nil {
		return nil, err
	}

	clf, err := l.loadClassifier(ctx)
	if err != nil {
		return nil, err
	}

	corpus := &models.Corpus{
		Names:      names,
		Texts:      texts,
		Embeddings: embeddings,
	}
	if err := corpus.Validate(enc.Dim()); err != nil {
		return nil, fmt.Errorf("artifact integrity check failed: %w", err)
	}

	log.Printf("Loaded %d judgments (embedding dim %d, %d categories)",
		corpus.Len(), enc.Dim(), len(clf.Labels()))

	return &Bundle{
		Corpus:     corpus,
		Encoder:    enc,
		Classifier: clf,
	}, nil
}

func (l *Loader) loadEncoder(ctx context.Context) (*encoder.Encoder, error) {
	f, err := l.ensureCached(ctx, EncoderFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return encoder.Load(f)
}

func (l *Loader) loadClassifier(ctx context.Context) (*classifier.Classifier, error) {
	f, err := l.ensureCached(ctx, ClassifierFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return classifier.Load(f)
}

func (l *Loader) loadJSON(ctx context.Context, name string, out interface{}) error {
	f, err := l.ensureCached(ctx, name)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := json.NewDecoder(f).Decode(out); err != nil {
		return fmt.Errorf("failed to decode artifact %s: %w", name, err)
	}
	return nil
}

// ensureCached returns an open reader for the cached artifact, fetching it
// from the store first when the cache misses.
func (l *Loader) ensureCached(ctx context.Context, name string) (*os.File, error) {
	cachePath := filepath.Join(l.cacheDir, name)

	if _, err := os.Stat(cachePath); err == nil {
		return os.Open(cachePath)
	}

	log.Printf("Artifact %s not cached, fetching", name)
	body, err := l.store.Fetch(ctx, name)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	tmp, err := os.CreateTemp(l.cacheDir, name+".tmp*")
	if err != nil {
		return nil, fmt.Errorf("failed to create cache file: %w", err)
	}
	if _, err := io.Copy(tmp, body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("failed to cache artifact %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return nil, err
	}
	// Rename so a partially written download never poses as a valid cache entry.
	if err := os.Rename(tmp.Name(), cachePath); err != nil {
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("failed to finalize cached artifact %s: %w", name, err)
	}

	return os.Open(cachePath)
}
