// Command build-artifacts builds the corpus artifacts (judgment texts,
// case names, embeddings) from a directory of plain-text judgments, using
// the same encoder artifact the server will load. Optionally publishes the
// full artifact set to the configured store.
//
// Usage:
//
//	go run cmd/build-artifacts/main.go [-judgments ./judgments] [-cache ./artifacts_cache] [-publish]
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"caselens-backend/artifacts"
	"caselens-backend/encoder"

	"github.com/joho/godotenv"
)

func main() {
	judgmentsDir := flag.String("judgments", "./judgments", "directory of .txt judgment files")
	cacheDir := flag.String("cache", "./artifacts_cache", "artifact cache directory to write to")
	publish := flag.Bool("publish", false, "publish artifacts to the configured store after building")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: No .env file found, using environment variables")
	}

	enc, err := loadEncoder(*cacheDir)
	if err != nil {
		log.Fatalf("Failed to load encoder artifact: %v", err)
	}

	names, texts, embeddings, err := buildCorpus(*judgmentsDir, enc)
	if err != nil {
		log.Fatalf("Failed to build corpus: %v", err)
	}
	log.Printf("Encoded %d judgments (dim %d)", len(names), enc.Dim())

	if err := writeJSON(*cacheDir, artifacts.CaseNamesFile, names); err != nil {
		log.Fatalf("Failed to write case names: %v", err)
	}
	if err := writeJSON(*cacheDir, artifacts.JudgmentTextsFile, texts); err != nil {
		log.Fatalf("Failed to write judgment texts: %v", err)
	}
	if err := writeJSON(*cacheDir, artifacts.EmbeddingsFile, embeddings); err != nil {
		log.Fatalf("Failed to write embeddings: %v", err)
	}
	log.Printf("Artifacts written to %s", *cacheDir)

	if *publish {
		if err := publishAll(*cacheDir); err != nil {
			log.Fatalf("Failed to publish artifacts: %v", err)
		}
		log.Println("Artifacts published")
	}
}

func loadEncoder(cacheDir string) (*encoder.Encoder, error) {
	f, err := os.Open(filepath.Join(cacheDir, artifacts.EncoderFile))
	if err != nil {
		return nil, fmt.Errorf("encoder artifact must already exist in the cache dir: %w", err)
	}
	defer f.Close()
	return encoder.Load(f)
}

func buildCorpus(dir string, enc *encoder.Encoder) (names, texts []string, embeddings [][]float32, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to read judgments directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".txt") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to read %s: %w", entry.Name(), err)
		}
		text := strings.TrimSpace(string(data))
		if text == "" {
			log.Printf("Skipping empty judgment file %s", entry.Name())
			continue
		}

		vec, err := enc.Encode(text)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to encode %s: %w", entry.Name(), err)
		}

		names = append(names, caseNameFromFile(entry.Name()))
		texts = append(texts, text)
		embeddings = append(embeddings, vec)
	}

	if len(names) == 0 {
		return nil, nil, nil, fmt.Errorf("no .txt judgment files found in %s", dir)
	}
	return names, texts, embeddings, nil
}

// caseNameFromFile turns "state_v_sharma.txt" into "State V Sharma".
func caseNameFromFile(filename string) string {
	base := strings.TrimSuffix(filename, filepath.Ext(filename))
	words := strings.FieldsFunc(base, func(r rune) bool {
		return r == '_' || r == '-'
	})
	for i, w := range words {
		w = strings.ToLower(w)
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func writeJSON(dir, name string, v interface{}) error {
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(v)
}

func publishAll(cacheDir string) error {
	store, err := artifacts.NewStoreFromEnv()
	if err != nil {
		return err
	}

	ctx := context.Background()
	files := []string{
		artifacts.CaseNamesFile,
		artifacts.JudgmentTextsFile,
		artifacts.EmbeddingsFile,
		artifacts.EncoderFile,
		artifacts.ClassifierFile,
	}
	for _, name := range files {
		f, err := os.Open(filepath.Join(cacheDir, name))
		if err != nil {
			return fmt.Errorf("failed to open %s for publishing: %w", name, err)
		}
		err = store.Publish(ctx, name, f)
		f.Close()
		if err != nil {
			return err
		}
		log.Printf("Published %s", name)
	}
	return nil
}
