package tickers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/primogreedy/scout/internal/contracts"
)

func TestExtractFromProse(t *testing.T) {
	got := Extract("The best stock now: ABCD and XYZ.L")
	assert.Equal(t, []string{"ABCD", "XYZ.L"}, got)
}

func TestExtractCommaSeparated(t *testing.T) {
	got := Extract("abcd, $efgh , IJ.TO")
	assert.Equal(t, []string{"ABCD", "EFGH", "IJ.TO"}, got)
}

func TestExtractDropsNoiseAndShortTokens(t *testing.T) {
	got := Extract("THE CEO SAID BUY ABCD NOW A I")
	assert.Equal(t, []string{"ABCD"}, got)
}

func TestExtractDeduplicatesPreservingOrder(t *testing.T) {
	got := Extract("ABCD and ABCD with WXYZ like ABCD")
	assert.Equal(t, []string{"ABCD", "WXYZ"}, got)
}

func TestExtractEmptyInput(t *testing.T) {
	assert.Empty(t, Extract(""))
	assert.Empty(t, Extract("the and for"))
}

func TestIsNoise(t *testing.T) {
	assert.True(t, IsNoise("etf"))
	assert.True(t, IsNoise("NASDAQ"))
	assert.False(t, IsNoise("ABCD"))
}

func TestSuffixCandidates(t *testing.T) {
	assert.Equal(t, []string{"ABCD"}, SuffixCandidates("abcd", contracts.RegionUSA))
	assert.Equal(t, []string{"ABCD.L"}, SuffixCandidates("ABCD", contracts.RegionUK))
	assert.Equal(t, []string{"ABCD.TO", "ABCD.V"}, SuffixCandidates("ABCD", contracts.RegionCanada))
	assert.Equal(t, []string{"ABCD.AX"}, SuffixCandidates("ABCD", contracts.RegionAustralia))
	assert.Equal(t, []string{"ABCD.TO"}, SuffixCandidates("ABCD.TO", contracts.RegionCanada),
		"already-suffixed tickers pass through")
}

func TestNormalizePrice(t *testing.T) {
	assert.InDelta(t, 1.2345, NormalizePrice(123.45, "ABC.L", "GBp"), 1e-9)
	assert.InDelta(t, 1.2345, NormalizePrice(123.45, "ABC.L", ""), 1e-9, "LSE suffix alone triggers conversion")
	assert.InDelta(t, 1.2345, NormalizePrice(123.45, "ABC", "GBX"), 1e-9)
	assert.InDelta(t, 123.45, NormalizePrice(123.45, "ABC", "USD"), 1e-9)
	assert.InDelta(t, 123.45, NormalizePrice(123.45, "ABC.TO", "CAD"), 1e-9)
}
