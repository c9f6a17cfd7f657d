package jsonextract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract_FencedJSON(t *testing.T) {
	var out map[string]int
	err := Extract("```json\n{\"a\":1}\n```", &out)

	require.NoError(t, err)
	assert.Equal(t, map[string]int{"a": 1}, out)
}

func TestExtract_BareFence(t *testing.T) {
	var out map[string]int
	err := Extract("```\n{\"a\":2}\n```", &out)

	require.NoError(t, err)
	assert.Equal(t, map[string]int{"a": 2}, out)
}

func TestExtract_SurroundingProse(t *testing.T) {
	var out map[string]int
	err := Extract("garbage {\"a\":1} trailing", &out)

	require.NoError(t, err)
	assert.Equal(t, map[string]int{"a": 1}, out)
}

func TestExtract_NoJSON(t *testing.T) {
	var out map[string]int
	err := Extract("not json at all", &out)

	assert.ErrorIs(t, err, ErrNoJSON)
}

func TestExtract_MalformedSpan(t *testing.T) {
	var out map[string]int
	err := Extract("prefix {\"a\": oops} suffix", &out)

	assert.ErrorIs(t, err, ErrNoJSON)
}

func TestExtract_MultipleObjectsFail(t *testing.T) {
	// The greedy span covers both objects and cannot parse as one value.
	var out map[string]int
	err := Extract("{\"a\":1} and {\"b\":2}", &out)

	assert.ErrorIs(t, err, ErrNoJSON)
}

func TestExtract_NestedObject(t *testing.T) {
	var out struct {
		Roadmap struct {
			Title string `json:"title"`
		} `json:"roadmap"`
	}
	err := Extract("Sure! Here you go:\n```json\n{\"roadmap\":{\"title\":\"Go\"}}\n```", &out)

	require.NoError(t, err)
	assert.Equal(t, "Go", out.Roadmap.Title)
}
