package curator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/minio/minio-go/v7"
)

// Exporter persists a curated batch to a training-data destination.
type Exporter interface {
	Export(ctx context.Context, examples []TrainingExample) error
}

// trainingRow is the serialized instruction-tuning line. The empty
// input field is part of the format and always present.
type trainingRow struct {
	Instruction string `json:"instruction"`
	Response    string `json:"response"`
	Input       string `json:"input"`
}

func encodeJSONL(examples []TrainingExample) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, ex := range examples {
		row := trainingRow{
			Instruction: ex.Task,
			Response:    fmt.Sprintf("Use %s: %s", ex.AlgorithmName, ex.Rationale),
		}
		if err := enc.Encode(row); err != nil {
			return nil, fmt.Errorf("curator: encode example: %w", err)
		}
	}
	return buf.Bytes(), nil
}

// FileExporter appends batches to a local JSONL file.
type FileExporter struct {
	path string
}

func NewFileExporter(path string) *FileExporter {
	return &FileExporter{path: path}
}

func (e *FileExporter) Export(_ context.Context, examples []TrainingExample) error {
	if len(examples) == 0 {
		return nil
	}
	data, err := encodeJSONL(examples)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(e.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("curator: export dir: %w", err)
		}
	}
	f, err := os.OpenFile(e.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("curator: open export file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("curator: write export file: %w", err)
	}
	return nil
}

// FanoutExporter sends each batch to every target in order, stopping
// at the first failure.
type FanoutExporter struct {
	targets []Exporter
}

func NewFanoutExporter(targets ...Exporter) *FanoutExporter {
	return &FanoutExporter{targets: targets}
}

func (e *FanoutExporter) Export(ctx context.Context, examples []TrainingExample) error {
	for _, t := range e.targets {
		if err := t.Export(ctx, examples); err != nil {
			return err
		}
	}
	return nil
}

// ObjectExporter uploads each batch as a timestamped JSONL object, so
// training pipelines can pick batches up from object storage.
type ObjectExporter struct {
	client *minio.Client
	bucket string
	prefix string
}

func NewObjectExporter(client *minio.Client, bucket, prefix string) *ObjectExporter {
	return &ObjectExporter{client: client, bucket: bucket, prefix: prefix}
}

func (e *ObjectExporter) Export(ctx context.Context, examples []TrainingExample) error {
	if len(examples) == 0 {
		return nil
	}
	data, err := encodeJSONL(examples)
	if err != nil {
		return err
	}

	key := fmt.Sprintf("%sbatch-%s.jsonl", e.prefix, time.Now().UTC().Format("20060102T150405Z"))
	_, err = e.client.PutObject(ctx, e.bucket, key,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/x-ndjson"},
	)
	if err != nil {
		return fmt.Errorf("curator: upload batch: %w", err)
	}
	return nil
}
