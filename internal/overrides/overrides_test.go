package overrides

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammar-qazi/HisaabFlow-sub002/internal/model"
)

func testPair() model.TransferPair {
	return model.TransferPair{
		PairID: "3f2c8d1e-aaaa-bbbb-cccc-123456789012",
		Outgoing: model.Transaction{
			ID:     model.TxID{Source: 0, Row: 3},
			Date:   time.Date(2025, 2, 14, 0, 0, 0, 0, time.UTC),
			Amount: decimal.NewFromFloat(-108.99),
		},
		Incoming: model.Transaction{
			ID:     model.TxID{Source: 1, Row: 7},
			Date:   time.Date(2025, 2, 14, 0, 0, 0, 0, time.UTC),
			Amount: decimal.NewFromInt(30000),
		},
		Strategy:      model.StrategyExchangeAmount,
		Confidence:    0.9,
		MatchedAmount: decimal.NewFromInt(30000),
	}
}

func TestFromPairs(t *testing.T) {
	ovs := FromPairs([]model.TransferPair{testPair()}, "Balance Correction")
	require.Len(t, ovs, 2)

	out := ovs[0]
	assert.Equal(t, DirectionOutgoing, out.Direction)
	assert.Equal(t, 0, out.Source)
	assert.Equal(t, 3, out.Row)
	assert.Equal(t, "Balance Correction", out.Category)
	assert.Contains(t, out.Note, "exact-exchange-amount")
	assert.Contains(t, out.Note, out.PairID)

	in := ovs[1]
	assert.Equal(t, DirectionIncoming, in.Direction)
	assert.Equal(t, 1, in.Source)
	assert.Equal(t, 7, in.Row)
	assert.Equal(t, out.PairID, in.PairID)
}

func TestFromPairs_Empty(t *testing.T) {
	assert.Empty(t, FromPairs(nil, "Balance Correction"))
}

func TestWriteRead_RoundTrip(t *testing.T) {
	ovs := FromPairs([]model.TransferPair{testPair()}, "Balance Correction")

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, ovs))
	assert.True(t, strings.HasPrefix(buf.String(), Header))

	got, err := Read(&buf)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, ovs[0], got[0])
	assert.Equal(t, ovs[1], got[1])
}

func TestRead_HeaderOnly(t *testing.T) {
	got, err := Read(strings.NewReader(Header + "\n"))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUnmarshal_BadFieldCount(t *testing.T) {
	_, err := Unmarshal([]string{"one", "two"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 6 fields")
}

func TestUnmarshal_BadSource(t *testing.T) {
	_, err := Unmarshal([]string{"id", "x", "3", "cat", "outgoing", "note"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing source")
}
