package dataset

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeVocabulary_Layout(t *testing.T) {
	vocab, examples := mustLoad(t,
		`[{"wordid":1,"frequency":5},{"wordid":2,"frequency":9},{"wordid":3}]`,
		`[{"wordid":1,"text":"a"},{"wordid":2,"text":"b"},{"wordid":2,"text":"c"}]`,
	)
	res := Reduce(vocab, examples, 1000)

	out, err := EncodeVocabulary(res.Vocabulary)
	require.NoError(t, err)

	want := "[\n" +
		"  {\n" +
		"    \"wordid\": 2,\n" +
		"    \"frequency\": 9\n" +
		"  },\n" +
		"  {\n" +
		"    \"wordid\": 1,\n" +
		"    \"frequency\": 5\n" +
		"  }\n" +
		"]"
	assert.Equal(t, want, string(out))
}

func TestEncodeExamples_NestedAndNonASCII(t *testing.T) {
	_, examples := mustLoad(t, `[]`,
		`[{"wordid": 1, "text": "他喜欢<苹果> & 梨", "tags": ["a", "b"], "meta": {}, "empty": []}]`)

	out, err := EncodeExamples(examples)
	require.NoError(t, err)

	want := "[\n" +
		"  {\n" +
		"    \"wordid\": 1,\n" +
		"    \"text\": \"他喜欢<苹果> & 梨\",\n" +
		"    \"tags\": [\n" +
		"      \"a\",\n" +
		"      \"b\"\n" +
		"    ],\n" +
		"    \"meta\": {},\n" +
		"    \"empty\": []\n" +
		"  }\n" +
		"]"
	assert.Equal(t, want, string(out))
}

func TestEncodeVocabulary_EscapedSourceText(t *testing.T) {
	vocab, examples := mustLoad(t,
		`[{"wordid":1,"word":"\u72ac","path":"a\/b","frequency":2,"frequency":3}]`,
		`[{"wordid":1,"text":"\u72ac\u304c\u8d70\u308b"}]`,
	)
	res := Reduce(vocab, examples, 1000)

	vocabOut, err := EncodeVocabulary(res.Vocabulary)
	require.NoError(t, err)
	assert.Equal(t, "[\n"+
		"  {\n"+
		"    \"wordid\": 1,\n"+
		"    \"word\": \"犬\",\n"+
		"    \"path\": \"a/b\",\n"+
		"    \"frequency\": 3\n"+
		"  }\n"+
		"]", string(vocabOut))

	examplesOut, err := EncodeExamples(res.Examples)
	require.NoError(t, err)
	assert.Contains(t, string(examplesOut), `"text": "犬が走る"`)
	assert.NotContains(t, string(examplesOut), `\u`)
}

func TestEncode_Empty(t *testing.T) {
	out, err := EncodeVocabulary(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(out))
}

func TestEncode_Deterministic(t *testing.T) {
	vocabJSON := `[{"wordid":1,"frequency":2},{"wordid":2,"frequency":2},{"wordid":3,"frequency":2}]`
	examplesJSON := `[{"wordid":3},{"wordid":1},{"wordid":2}]`

	render := func() ([]byte, []byte) {
		vocab, examples := mustLoad(t, vocabJSON, examplesJSON)
		res := Reduce(vocab, examples, 1000)
		v, err := EncodeVocabulary(res.Vocabulary)
		require.NoError(t, err)
		e, err := EncodeExamples(res.Examples)
		require.NoError(t, err)
		return v, e
	}

	v1, e1 := render()
	v2, e2 := render()
	assert.True(t, bytes.Equal(v1, v2))
	assert.True(t, bytes.Equal(e1, e2))
}
