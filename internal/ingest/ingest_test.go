package ingest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `Date,Description,Amount,Currency
2025-02-14,Converted 108.99 USD to 30000 PKR,-108.99,USD
2025-02-15,Coffee shop,-4.50,USD
`

func TestReadBatch(t *testing.T) {
	b, err := ReadBatch(strings.NewReader(sampleCSV), 3, "wise.csv")
	require.NoError(t, err)

	assert.Equal(t, 3, b.Source)
	assert.Equal(t, "wise.csv", b.Name)
	require.Len(t, b.Rows, 2)

	first := b.Rows[0]
	assert.Equal(t, 0, first.Index)
	assert.Equal(t, "2025-02-14", first.Fields["date"])
	assert.Equal(t, "-108.99", first.Fields["amount"])
	assert.Equal(t, "USD", first.Fields["currency"])
}

func TestReadBatch_HeaderLowercasedAndTrimmed(t *testing.T) {
	csv := "  Posting Date , AMOUNT \n2025-01-03,-4.00\n"
	b, err := ReadBatch(strings.NewReader(csv), 0, "x.csv")
	require.NoError(t, err)
	require.Len(t, b.Rows, 1)
	assert.Equal(t, "2025-01-03", b.Rows[0].Fields["posting date"])
	assert.Equal(t, "-4.00", b.Rows[0].Fields["amount"])
}

func TestReadBatch_RaggedRows(t *testing.T) {
	csv := "date,amount,note\n2025-01-03,-4.00\n2025-01-04,-5.00,lunch,extra\n"
	b, err := ReadBatch(strings.NewReader(csv), 0, "x.csv")
	require.NoError(t, err)
	require.Len(t, b.Rows, 2)
	assert.Equal(t, "", b.Rows[0].Fields["note"])
	assert.Equal(t, "lunch", b.Rows[1].Fields["note"])
}

func TestReadBatch_HeaderOnly(t *testing.T) {
	b, err := ReadBatch(strings.NewReader("date,amount\n"), 0, "x.csv")
	require.NoError(t, err)
	assert.Empty(t, b.Rows)
}

func TestReadFiles_SourceOrder(t *testing.T) {
	dir := t.TempDir()
	p1 := filepath.Join(dir, "a.csv")
	p2 := filepath.Join(dir, "b.csv")
	require.NoError(t, os.WriteFile(p1, []byte(sampleCSV), 0o644))
	require.NoError(t, os.WriteFile(p2, []byte(sampleCSV), 0o644))

	batches, err := ReadFiles([]string{p2, p1})
	require.NoError(t, err)
	require.Len(t, batches, 2)
	assert.Equal(t, 0, batches[0].Source)
	assert.Equal(t, "b.csv", batches[0].Name)
	assert.Equal(t, 1, batches[1].Source)
	assert.Equal(t, "a.csv", batches[1].Name)
}

func TestScan(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "wise.csv"), []byte(sampleCSV), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o755))

	files, err := Scan(dir)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "wise.csv", files[0].Name)
	assert.Positive(t, files[0].Size)
}

func TestScan_MissingDir(t *testing.T) {
	files, err := Scan(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Nil(t, files)
}
