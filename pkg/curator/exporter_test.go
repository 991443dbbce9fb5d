package curator

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileExporter_AppendsJSONL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "training.jsonl")
	exporter := NewFileExporter(path)
	ctx := context.Background()

	first := []TrainingExample{{
		Task:          "encrypt data with authentication",
		AlgorithmID:   "id-1",
		AlgorithmName: "AES-256-GCM",
		Rationale:     "it covers the symmetric-cipher category you asked for",
		Provenance:    ProvenanceHuman,
		CreatedAt:     time.Now().UTC(),
	}}
	require.NoError(t, exporter.Export(ctx, first))

	second := []TrainingExample{{
		Task:          "hash a password",
		AlgorithmID:   "id-2",
		AlgorithmName: "Argon2id",
		Rationale:     "it is the closest semantic match in the corpus",
		Provenance:    ProvenanceSynthetic,
		CreatedAt:     time.Now().UTC(),
	}}
	require.NoError(t, exporter.Export(ctx, second))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var rows []trainingRow
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var row trainingRow
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &row))
		rows = append(rows, row)
	}
	require.NoError(t, scanner.Err())

	require.Len(t, rows, 2, "batches append, never truncate")
	assert.Equal(t, "encrypt data with authentication", rows[0].Instruction)
	assert.Equal(t, "Use AES-256-GCM: it covers the symmetric-cipher category you asked for", rows[0].Response)
	assert.Empty(t, rows[0].Input, "the empty input field is part of the format")
	assert.Equal(t, "Use Argon2id: it is the closest semantic match in the corpus", rows[1].Response)
}

func TestFileExporter_EmptyBatchWritesNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "training.jsonl")
	require.NoError(t, NewFileExporter(path).Export(context.Background(), nil))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}
