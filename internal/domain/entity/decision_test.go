package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecisionRecord_Failed(t *testing.T) {
	rec := &DecisionRecord{}
	require.False(t, rec.Failed())

	rec.FailureKind = FailureTransport
	require.True(t, rec.Failed())
}

func TestDecisionRecord_ModelCalls(t *testing.T) {
	rec := &DecisionRecord{}
	require.Equal(t, 0, rec.ModelCalls())

	rec.Verdicts = append(rec.Verdicts, ModelVerdict{BackendID: "a"}, ModelVerdict{BackendID: "b"})
	require.Equal(t, 2, rec.ModelCalls())
}

func TestDecisionRecord_CloneIsIndependent(t *testing.T) {
	rec := &DecisionRecord{
		StageTrail: []string{StageHeuristic, StagePrimary},
		Verdicts:   []ModelVerdict{{BackendID: "a"}},
	}

	cp := rec.Clone()
	cp.StageTrail[0] = "mutated"
	cp.Verdicts[0].BackendID = "mutated"

	require.Equal(t, StageHeuristic, rec.StageTrail[0])
	require.Equal(t, "a", rec.Verdicts[0].BackendID)
}
