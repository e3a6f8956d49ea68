package runlog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2025, 2, 14, 10, 30, 0, 0, time.UTC)

func testEntry() Entry {
	return Entry{
		Timestamp:    testTime,
		Files:        2,
		Transactions: 58,
		Candidates:   9,
		Pairs:        3,
		Potentials:   3,
		DateInvalid:  1,
		ZeroAmount:   2,
	}
}

func TestAppend_NewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.csv")
	require.NoError(t, Append(path, testEntry()))

	entries, err := Read(path)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 3, entries[0].Pairs)
}

func TestAppend_ExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.csv")
	require.NoError(t, Append(path, testEntry()))

	e2 := testEntry()
	e2.Pairs = 5
	require.NoError(t, Append(path, e2))

	entries, err := Read(path)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, 3, entries[0].Pairs)
	assert.Equal(t, 5, entries[1].Pairs)
}

func TestRead_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.csv")
	original := testEntry()
	require.NoError(t, Append(path, original))

	entries, err := Read(path)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	got := entries[0]
	assert.True(t, original.Timestamp.Equal(got.Timestamp))
	assert.Equal(t, original.Files, got.Files)
	assert.Equal(t, original.Transactions, got.Transactions)
	assert.Equal(t, original.Candidates, got.Candidates)
	assert.Equal(t, original.Potentials, got.Potentials)
	assert.Equal(t, original.DateInvalid, got.DateInvalid)
	assert.Equal(t, original.ZeroAmount, got.ZeroAmount)
}

func TestRead_NotFound(t *testing.T) {
	entries, err := Read(filepath.Join(t.TempDir(), "nope.csv"))
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestRead_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.csv")
	require.NoError(t, os.WriteFile(path, []byte(Header+"\n"), 0o644))

	entries, err := Read(path)
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestMarshalUnmarshal(t *testing.T) {
	e := testEntry()
	row := Marshal(e)
	assert.Len(t, row, 8)
	assert.Equal(t, "2025-02-14T10:30:00Z", row[0])

	got, err := Unmarshal(row)
	require.NoError(t, err)
	assert.Equal(t, e.Files, got.Files)
	assert.Equal(t, e.Pairs, got.Pairs)
}

func TestUnmarshal_BadFieldCount(t *testing.T) {
	_, err := Unmarshal([]string{"one", "two"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 8 fields")
}
