package encoder

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testArtifact = `{
	"dim": 3,
	"vectors": {
		"court":    [1, 0, 0],
		"appeal":   [0, 1, 0],
		"judgment": [0, 0, 1]
	}
}`

func loadTestEncoder(t *testing.T) *Encoder {
	t.Helper()
	enc, err := Load(strings.NewReader(testArtifact))
	require.NoError(t, err)
	return enc
}

func TestLoad_RejectsBadArtifacts(t *testing.T) {
	_, err := Load(strings.NewReader(`{"dim": 0, "vectors": {}}`))
	assert.Error(t, err)

	_, err = Load(strings.NewReader(`{"dim": 3, "vectors": {"a": [1, 2]}}`))
	assert.Error(t, err)

	_, err = Load(strings.NewReader(`not json`))
	assert.Error(t, err)
}

func TestEncode_IsDeterministic(t *testing.T) {
	enc := loadTestEncoder(t)

	a, err := enc.Encode("the court heard the appeal")
	require.NoError(t, err)
	b, err := enc.Encode("the court heard the appeal")
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Len(t, a, enc.Dim())
}

func TestEncode_IsL2Normalized(t *testing.T) {
	enc := loadTestEncoder(t)

	vec, err := enc.Encode("court appeal judgment")
	require.NoError(t, err)

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-6)
}

func TestEncode_SkipsUnknownTokens(t *testing.T) {
	enc := loadTestEncoder(t)

	onlyCourt, err := enc.Encode("court")
	require.NoError(t, err)
	withNoise, err := enc.Encode("court zzzz qqqq")
	require.NoError(t, err)

	assert.Equal(t, onlyCourt, withNoise)
}

func TestEncode_Errors(t *testing.T) {
	enc := loadTestEncoder(t)

	_, err := enc.Encode("")
	assert.ErrorIs(t, err, ErrEmptyText)

	_, err = enc.Encode("   \t\n  ")
	assert.ErrorIs(t, err, ErrEmptyText)

	_, err = enc.Encode("zzzz qqqq wwww")
	assert.ErrorIs(t, err, ErrNoKnownTokens)
}

func TestTokenize(t *testing.T) {
	assert.Equal(t,
		[]string{"the", "court's", "order", "2019", "was", "upheld"},
		Tokenize("The court's order (2019) was upheld."))
	assert.Empty(t, Tokenize("!!! ..."))
}
