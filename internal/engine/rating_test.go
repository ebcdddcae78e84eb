package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"courtmatch/internal/engine"
	"courtmatch/internal/models"
)

func TestComputeRating_ZeroGamesIsBaseAndProvisional(t *testing.T) {
	cfg := models.DefaultConfig()
	st := models.NewPlayerStats("p1")

	pr := engine.ComputeRating(cfg, st)

	assert.Equal(t, cfg.BaseRating, pr.Rating)
	assert.True(t, pr.Provisional)
}

func TestComputeRating_ClampsToConfiguredBounds(t *testing.T) {
	cfg := models.DefaultConfig()
	cfg.MaxRating = 1600

	st := models.NewPlayerStats("p1")
	st.GamesPlayed = 40
	st.Wins = 40
	st.TotalPointsFor = 40 * 11
	st.TotalPointsAgainst = 0

	pr := engine.ComputeRating(cfg, st)

	assert.LessOrEqual(t, pr.Rating, cfg.MaxRating)
}

func TestComputeRating_NoLongerProvisionalAtThreshold(t *testing.T) {
	cfg := models.DefaultConfig()
	st := models.NewPlayerStats("p1")
	st.GamesPlayed = cfg.ProvisionalGamesThreshold

	pr := engine.ComputeRating(cfg, st)

	assert.False(t, pr.Provisional)
}

func TestRankPool_SplitsUpperAndLowerHalves(t *testing.T) {
	s := &models.Session{Config: models.DefaultConfig()}
	ratings := map[string]engine.PlayerRating{
		"a": {PlayerID: "a", Rating: 2000},
		"b": {PlayerID: "b", Rating: 1900},
		"c": {PlayerID: "c", Rating: 1500},
		"d": {PlayerID: "d", Rating: 1400},
	}

	ranked := engine.RankPool(s, ratings)
	idx := engine.RankedIndex(ranked)

	assert.Equal(t, engine.BracketUpper, idx["a"].Bracket)
	assert.Equal(t, engine.BracketUpper, idx["b"].Bracket)
	assert.Equal(t, engine.BracketLower, idx["c"].Bracket)
	assert.Equal(t, engine.BracketLower, idx["d"].Bracket)
}

func TestBracketCompatible_ProvisionalPlayersAreFree(t *testing.T) {
	idx := map[string]engine.RankedPlayer{
		"a": {PlayerID: "a", Bracket: engine.BracketUpper},
		"b": {PlayerID: "b", Bracket: engine.BracketLower},
		"c": {PlayerID: "c", Bracket: engine.BracketUpper, Rating: engine.PlayerRating{Provisional: true}},
	}

	assert.False(t, engine.BracketCompatible(idx, []string{"a", "b"}))
	assert.True(t, engine.BracketCompatible(idx, []string{"a", "c"}))
	assert.True(t, engine.BracketCompatible(idx, []string{"b", "c"}))
}
