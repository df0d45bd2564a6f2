package backend

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractText_TaggedBlocks(t *testing.T) {
	raw := []byte(`{"content":[{"type":"text","text":"결과: true"},{"type":"text","text":"사유: 깨끗함"}]}`)
	text, err := ExtractText(raw)
	require.NoError(t, err)
	require.Equal(t, "결과: true\n사유: 깨끗함", text)
}

func TestExtractText_SkipsNonTextBlocks(t *testing.T) {
	raw := []byte(`{"content":[{"type":"tool_use","text":"ignored"},{"type":"text","text":"결과: false"}]}`)
	text, err := ExtractText(raw)
	require.NoError(t, err)
	require.Equal(t, "결과: false", text)
}

func TestExtractText_NestedOutput(t *testing.T) {
	raw := []byte(`{"output":{"message":{"content":[{"text":"결과: true, 사유: 테두리 없음"}]}}}`)
	text, err := ExtractText(raw)
	require.NoError(t, err)
	require.Equal(t, "결과: true, 사유: 테두리 없음", text)
}

func TestExtractText_BareTextField(t *testing.T) {
	text, err := ExtractText([]byte(`{"text":"plain reply"}`))
	require.NoError(t, err)
	require.Equal(t, "plain reply", text)
}

func TestExtractText_MessageField(t *testing.T) {
	text, err := ExtractText([]byte(`{"message":"fallback reply"}`))
	require.NoError(t, err)
	require.Equal(t, "fallback reply", text)
}

func TestExtractText_EmptyEnvelope(t *testing.T) {
	_, err := ExtractText([]byte(`{"content":[]}`))
	require.ErrorIs(t, err, errNoText)
}

func TestExtractText_InvalidJSON(t *testing.T) {
	_, err := ExtractText([]byte(`not json`))
	require.Error(t, err)
}

func TestClassifyStatus(t *testing.T) {
	require.Equal(t, KindAuth, classifyStatus(401))
	require.Equal(t, KindAuth, classifyStatus(403))
	require.Equal(t, KindThrottle, classifyStatus(429))
	require.Equal(t, KindNetwork, classifyStatus(500))
	require.Equal(t, KindNetwork, classifyStatus(503))
	require.Equal(t, KindMalformed, classifyStatus(400))
}
