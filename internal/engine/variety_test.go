package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courtmatch/internal/engine"
	"courtmatch/internal/models"
)

func TestRecordMix_FirstMixIsAlwaysExempt(t *testing.T) {
	v := models.NewCourtVarietyState(2)

	ok := engine.RecordMix(v, models.NewCourtMix(1, 2), true)

	require.True(t, ok)
	assert.Equal(t, 1, v.LastMixRound)
}

func TestRecordMix_WaitlistCourtAccumulatesAcrossMixesInOneRound(t *testing.T) {
	v := models.NewCourtVarietyState(2)
	engine.RecordMix(v, models.NewCourtMix(1, 2), true) // exempt first mix

	ok1 := engine.RecordMix(v, models.NewCourtMix(1, 0), true)
	require.True(t, ok1)

	// court 0 now remembers court 1; mixing [2, 0] should still succeed
	// since it hasn't been mixed with exactly {2} before.
	ok2 := engine.RecordMix(v, models.NewCourtMix(2, 0), true)
	require.True(t, ok2)

	assert.True(t, v.Courts[0].LastMixedWith.Superset(models.NewCourtMix(1, 2)))

	// repeating [1, 0] in what is now effectively the same rotation
	// should be rejected: court 0's last_mixed_with already covers {1}.
	ok3 := engine.RecordMix(v, models.NewCourtMix(1, 0), true)
	assert.False(t, ok3)
}

func TestRecordMix_PhysicalCourtReplacesRatherThanAccumulates(t *testing.T) {
	v := models.NewCourtVarietyState(3)
	engine.RecordMix(v, models.NewCourtMix(2, 3), true)

	ok := engine.RecordMix(v, models.NewCourtMix(1, 2), true)
	require.True(t, ok)

	assert.Equal(t, models.NewCourtMix(2), v.Courts[1].LastMixedWith)
	assert.Equal(t, models.NewCourtMix(1), v.Courts[2].LastMixedWith)
}

func TestRecordMix_SubsetOfPreviousMixIsStillAViolation(t *testing.T) {
	v := models.NewCourtVarietyState(3)
	engine.RecordMix(v, models.NewCourtMix(1, 2, 3, 0), true)

	// Every court in {1, 0} still remembers the rest of the proposal
	// from the bigger mix, so the subset is rejected. This is what
	// forces a freshly finished court to yield to untouched courts.
	assert.True(t, engine.ViolatesHardCap(v, models.NewCourtMix(1, 0)))
	ok := engine.RecordMix(v, models.NewCourtMix(1, 0), true)
	assert.False(t, ok)
}

func TestViolatesHardCap_RepeatingExactSetIsRejected(t *testing.T) {
	v := models.NewCourtVarietyState(2)
	engine.RecordMix(v, models.NewCourtMix(1, 2), true)

	assert.True(t, engine.ViolatesHardCap(v, models.NewCourtMix(1, 2)))
	assert.False(t, engine.ViolatesHardCap(v, models.NewCourtMix(1)))
}

func TestSoftVarietyRejects_OnlyAboveThreshold(t *testing.T) {
	v := models.NewCourtVarietyState(2)
	engine.RecordMix(v, models.NewCourtMix(1, 2), true)

	// At the default threshold the repeat is tolerated (HARD-CAP aside).
	assert.False(t, engine.SoftVarietyRejects(v, 1, models.NewCourtMix(1, 2)))

	v.Courts[1].VarietyThreshold = 75
	assert.True(t, engine.SoftVarietyRejects(v, 1, models.NewCourtMix(1, 2)))
	// A different pairing is always acceptable.
	assert.False(t, engine.SoftVarietyRejects(v, 1, models.NewCourtMix(1, 0)))
}

func TestUpdateThresholds_DriftsTowardFiftyAtRest(t *testing.T) {
	v := models.NewCourtVarietyState(1)
	v.Courts[0].VarietyThreshold = 60
	v.Courts[1].VarietyThreshold = 60

	engine.UpdateThresholds(v)

	assert.Equal(t, 58, v.Courts[0].VarietyThreshold)
}
