package normalizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_Empty(t *testing.T) {
	n := New(nil)

	tokens := n.Normalize("")
	require.NotNil(t, tokens)
	assert.Empty(t, tokens)

	tokens = n.Normalize("   \n\t ...  ")
	assert.Empty(t, tokens)
}

func TestNormalize_OffsetsReferenceOriginalText(t *testing.T) {
	n := New(nil)
	raw := "Acute Appendicitis, unspecified."

	tokens := n.Normalize(raw)
	require.Len(t, tokens, 3)

	for _, tok := range tokens {
		assert.Equal(t, tok.Surface, raw[tok.Start:tok.End], "offsets must slice the original text")
	}
	assert.Equal(t, "acute", tokens[0].Normal)
	assert.Equal(t, "appendicitis", tokens[1].Normal)
	assert.Equal(t, "unspecified", tokens[2].Normal)
	assert.Equal(t, 0, tokens[0].Start)
	assert.Equal(t, 5, tokens[0].End)
}

func TestNormalize_UnicodeFolding(t *testing.T) {
	n := New(nil)

	// Fullwidth and composed forms normalize to plain folded ASCII.
	tokens := n.Normalize("ＫＮＥＥ Straße")
	require.Len(t, tokens, 2)
	assert.Equal(t, "knee", tokens[0].Normal)
	assert.Equal(t, "strasse", tokens[1].Normal)
	// Offsets still cover the original bytes.
	assert.Equal(t, "ＫＮＥＥ", tokens[0].Surface)
}

func TestNormalize_CodeLiteralStaysOneToken(t *testing.T) {
	n := New(nil)

	tokens := n.Normalize("Final diagnosis K35.80 confirmed.")
	require.Len(t, tokens, 4)
	assert.Equal(t, "K35.80", tokens[2].Surface)
	assert.Equal(t, "k35.80", tokens[2].Normal)
}

func TestNormalize_AbbreviationExpansion(t *testing.T) {
	n := New(map[string]string{
		"appy": "appendectomy",
		"tka":  "total knee arthroplasty",
	})

	tokens := n.Normalize("Underwent appy today")
	require.Len(t, tokens, 4)

	abbr, synth := tokens[1], tokens[2]
	assert.Equal(t, "appy", abbr.Normal)
	assert.False(t, abbr.Synthetic)
	assert.Equal(t, "appendectomy", synth.Normal)
	assert.True(t, synth.Synthetic)
	// The synthetic token inherits the abbreviation's source span.
	assert.Equal(t, abbr.Start, synth.Start)
	assert.Equal(t, abbr.End, synth.End)

	// Multi-word expansions produce one synthetic token per word.
	tokens = n.Normalize("TKA planned")
	require.Len(t, tokens, 5)
	assert.Equal(t, "total", tokens[1].Normal)
	assert.Equal(t, "knee", tokens[2].Normal)
	assert.Equal(t, "arthroplasty", tokens[3].Normal)
	for _, tok := range tokens[1:4] {
		assert.True(t, tok.Synthetic)
		assert.Equal(t, tokens[0].Start, tok.Start)
		assert.Equal(t, tokens[0].End, tok.End)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	n := New(map[string]string{"appy": "appendectomy"})

	inputs := []string{
		"Patient underwent appy for acute appendicitis.",
		"LAPAROSCOPIC   cholecystectomy, without complication",
		"K35.80 -- confirmed",
	}
	for _, raw := range inputs {
		first := n.Normalize(raw)
		second := n.Normalize(Render(first))
		require.Len(t, second, len(first), "input %q", raw)
		for i := range first {
			assert.Equal(t, first[i].Normal, second[i].Normal)
			assert.Equal(t, first[i].Synthetic, second[i].Synthetic)
		}
	}
}
