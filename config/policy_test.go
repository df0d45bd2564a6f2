package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadPolicy_MissingFileUsesDefaults(t *testing.T) {
	policy, err := LoadPolicy(filepath.Join(t.TempDir(), "no-such-policy.yaml"))
	require.NoError(t, err)
	require.Equal(t, "two_stage", policy.Mode)
	require.Equal(t, 4, policy.Workers)
	require.NotEmpty(t, policy.Trust.BorderTerms)
	require.NotEmpty(t, policy.Keywords.Reject)

	text, err := policy.ActivePrompt(policy.PrimaryPrompt)
	require.NoError(t, err)
	require.Contains(t, text, "결과: true 또는 false")
}

func TestLoadPolicy_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
mode: simplified
workers: 8
primary_prompt: custom-v1
prompts:
  custom-v1: "검수 기준: 테두리만 확인"
detector:
  decision_threshold: 0.3
`), 0o644))

	policy, err := LoadPolicy(path)
	require.NoError(t, err)
	require.Equal(t, "simplified", policy.Mode)
	require.Equal(t, 8, policy.Workers)
	require.Equal(t, 0.3, policy.Detector.DecisionThreshold)

	// Таблица промптов дополняется, встроенные версии остаются доступными.
	text, err := policy.ActivePrompt("custom-v1")
	require.NoError(t, err)
	require.Equal(t, "검수 기준: 테두리만 확인", text)

	_, err = policy.ActivePrompt("strict-recheck-v1.9")
	require.NoError(t, err)

	// Не переопределённые поля сохраняют дефолты.
	require.Equal(t, 60, policy.CallTimeoutSec)
}

func TestLoadPolicy_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte("mode: [unclosed"), 0o644))

	_, err := LoadPolicy(path)
	require.Error(t, err)
}

func TestPolicy_ActivePromptUnknown(t *testing.T) {
	policy := DefaultPolicy()
	_, err := policy.ActivePrompt("no-such-version")
	require.Error(t, err)
}

func TestDefaultPolicy_PromptsDoNotMentionBorderInSecondaryOnly(t *testing.T) {
	policy := DefaultPolicy()

	primary, err := policy.ActivePrompt(policy.PrimaryPrompt)
	require.NoError(t, err)
	secondary, err := policy.ActivePrompt(policy.SecondaryPrompt)
	require.NoError(t, err)
	require.NotEqual(t, primary, secondary)
	require.Contains(t, secondary, "무관용")
}
