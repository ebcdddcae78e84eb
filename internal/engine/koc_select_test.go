package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courtmatch/internal/engine"
	"courtmatch/internal/models"
)

func selectOn(s *models.Session, court int, pool []string) (engine.SelectedMatch, bool) {
	ratings := engine.ComputeRatings(s, s.ActivePlayerList())
	ranked := engine.RankPool(s, ratings)
	return engine.SelectMatch(s, court, pool, ratings, ranked)
}

func TestSelectMatch_WaitTimeBeatsEveryPenalty(t *testing.T) {
	players := []string{"p1", "p2", "p3", "p4", "p5", "p6"}
	s := newTestSession(players, models.TypeDoubles, 2)

	// p5 and p6 have waited; give p1-p4 wildly uneven records so the
	// balance penalty would point the other way if it could.
	s.Stats["p5"].GamesWaited = 2
	s.Stats["p6"].GamesWaited = 2
	s.Stats["p1"].GamesPlayed = 4
	s.Stats["p1"].Wins = 4
	s.Stats["p1"].TotalPointsFor = 44
	s.Stats["p2"].GamesPlayed = 4
	s.Stats["p2"].Losses = 4
	s.Stats["p2"].TotalPointsAgainst = 44

	selected, ok := selectOn(s, 1, players)
	require.True(t, ok)
	assert.Contains(t, selected.Players, "p5")
	assert.Contains(t, selected.Players, "p6")
}

func TestSelectMatch_NeverForcesBannedPairOntoOneTeam(t *testing.T) {
	players := []string{"p1", "p2", "p3", "p4"}
	s := newTestSession(players, models.TypeDoubles, 1)
	s.BannedPairs = []models.BannedPair{{A: "p1", B: "p2"}}

	selected, ok := selectOn(s, 1, players)
	require.True(t, ok)

	for _, team := range [][]string{selected.Split.Team1, selected.Split.Team2} {
		assert.False(t, s.IsBanned(team[0], team[1]))
	}
}

func TestBestDoublesSplit_PrefersFreshPartnerships(t *testing.T) {
	players := []string{"p1", "p2", "p3", "p4"}
	s := newTestSession(players, models.TypeDoubles, 1)
	// p1+p2 have partnered three times already.
	s.Stats["p1"].PartnersPlayed.Add("p2", 3)
	s.Stats["p2"].PartnersPlayed.Add("p1", 3)

	ratings := engine.ComputeRatings(s, s.ActivePlayerList())
	split, ok := engine.BestDoublesSplit(s, ratings, [4]string{"p1", "p2", "p3", "p4"})
	require.True(t, ok)

	for _, team := range [][]string{split.Team1, split.Team2} {
		assert.False(t, team[0] == "p1" && team[1] == "p2")
		assert.False(t, team[0] == "p2" && team[1] == "p1")
	}
}

func TestSelectMatch_LockedTeamsStayIntact(t *testing.T) {
	players := []string{"p1", "p2", "p3", "p4", "p5", "p6"}
	s := newTestSession(players, models.TypeDoubles, 1)
	s.LockedTeams = []models.LockedTeam{
		{ID: "t1", Player1: "p1", Player2: "p2"},
		{ID: "t2", Player1: "p3", Player2: "p4"},
		{ID: "t3", Player1: "p5", Player2: "p6"},
	}

	selected, ok := selectOn(s, 1, players)
	require.True(t, ok)
	require.Len(t, selected.UnitIDs, 2)

	for _, team := range [][]string{selected.Split.Team1, selected.Split.Team2} {
		found := false
		for _, lt := range s.LockedTeams {
			if (team[0] == lt.Player1 && team[1] == lt.Player2) || (team[0] == lt.Player2 && team[1] == lt.Player1) {
				found = true
			}
		}
		assert.True(t, found, "team %v is not a locked team", team)
	}
}
