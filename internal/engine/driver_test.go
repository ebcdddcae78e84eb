package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courtmatch/internal/engine"
	"courtmatch/internal/models"
)

func activeMatches(s *models.Session) []*models.Match {
	var out []*models.Match
	for _, m := range s.Matches {
		if m.Active() {
			out = append(out, m)
		}
	}
	return out
}

func TestEvaluate_SevenPlayersFourCourts_OneMatchAndThreeWaiters(t *testing.T) {
	s := newSession(models.ModeKingOfCourt, models.TypeDoubles, 4, 7)

	require.Len(t, activeMatches(s), 1)
	require.Len(t, s.WaitingPlayers, 3)
	for _, id := range s.WaitingPlayers {
		assert.Equal(t, 1, s.Stats[id].GamesWaited, "waiter %s", id)
	}
	for _, id := range activeMatches(s)[0].Players() {
		assert.Zero(t, s.Stats[id].GamesWaited, "player %s", id)
	}
}

func TestEvaluate_NextMatchTakesAllPreviousWaitersPlusOneFinisher(t *testing.T) {
	s := newSession(models.ModeKingOfCourt, models.TypeDoubles, 4, 7)
	first := activeMatches(s)[0]
	waiters := append([]string(nil), s.WaitingPlayers...)
	finishers := first.Players()

	require.NoError(t, engine.CompleteMatch(s, first.ID, 11, 5, fixedNow))

	next := activeMatches(s)
	require.Len(t, next, 1)
	// HARD-CAP: [court1, waitlist] mixed last round, so the new match
	// lands on court 2.
	assert.Equal(t, 2, next[0].Court)

	players := next[0].Players()
	for _, w := range waiters {
		assert.Contains(t, players, w)
	}
	fromFinishers := 0
	for _, f := range finishers {
		for _, p := range players {
			if p == f {
				fromFinishers++
			}
		}
	}
	assert.Equal(t, 1, fromFinishers)
}

func TestEvaluate_EightPlayersFourCourts_TwoMatchesNoWaiters(t *testing.T) {
	s := newSession(models.ModeKingOfCourt, models.TypeDoubles, 4, 8)

	matches := activeMatches(s)
	require.Len(t, matches, 2)
	courts := []int{matches[0].Court, matches[1].Court}
	assert.ElementsMatch(t, []int{1, 2}, courts)
	assert.Empty(t, s.WaitingPlayers)
}

func TestEvaluate_HardCapRotatesAwayFromJustFinishedCourt(t *testing.T) {
	s := newSession(models.ModeKingOfCourt, models.TypeDoubles, 4, 15)

	// 15 players fill courts 1-3, leaving 3 on the waitlist; the mix
	// recorded is {1,2,3,waitlist}.
	require.Len(t, activeMatches(s), 3)
	require.Len(t, s.WaitingPlayers, 3)

	var courtOne *models.Match
	for _, m := range activeMatches(s) {
		if m.Court == 1 {
			courtOne = m
		}
	}
	require.NotNil(t, courtOne)

	require.NoError(t, engine.CompleteMatch(s, courtOne.ID, 11, 7, fixedNow))

	// Court 1 just mixed with the waitlist; repeating [1, waitlist]
	// immediately is forbidden, so the new match fills court 4.
	for _, m := range activeMatches(s) {
		if m.Active() && m.Court == 1 {
			t.Fatalf("court 1 was reused immediately after finishing")
		}
	}
	onFour := false
	for _, m := range activeMatches(s) {
		if m.Court == 4 {
			onFour = true
		}
	}
	assert.True(t, onFour)
}

func TestAddPlayer_ImmediatelyFillsNextCourtWithNewPlayerAndWaiters(t *testing.T) {
	s := newSession(models.ModeKingOfCourt, models.TypeDoubles, 4, 7)
	waiters := append([]string(nil), s.WaitingPlayers...)
	require.Len(t, waiters, 3)

	engine.AddPlayer(s, models.Player{ID: "z", DisplayName: "Z"}, fixedNow)

	matches := activeMatches(s)
	require.Len(t, matches, 2)
	assert.Empty(t, s.WaitingPlayers)

	var second *models.Match
	for _, m := range matches {
		if m.Court != 1 {
			second = m
		}
	}
	require.NotNil(t, second)
	players := second.Players()
	assert.Contains(t, players, "z")
	for _, w := range waiters {
		assert.Contains(t, players, w)
	}
}

func TestEvaluate_IsIdempotent(t *testing.T) {
	s := newSession(models.ModeKingOfCourt, models.TypeDoubles, 4, 7)

	before, err := engine.ExportSnapshot(s)
	require.NoError(t, err)

	engine.Evaluate(s)

	after, err := engine.ExportSnapshot(s)
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
}

func TestEvaluate_FewerThanPlayersPerMatchLeavesSessionUnchanged(t *testing.T) {
	s := newSession(models.ModeKingOfCourt, models.TypeDoubles, 2, 3)

	assert.Empty(t, activeMatches(s))
	assert.Len(t, s.WaitingPlayers, 3)
}

func TestEvaluate_ExactlyPlayersPerMatchUsesLowestCourt(t *testing.T) {
	s := newSession(models.ModeKingOfCourt, models.TypeDoubles, 3, 4)

	matches := activeMatches(s)
	require.Len(t, matches, 1)
	assert.Equal(t, 1, matches[0].Court)
	assert.Empty(t, s.WaitingPlayers)
}

// assertInvariants checks the session-wide consistency rules after
// an engine call.
func assertInvariants(t *testing.T, s *models.Session) {
	t.Helper()

	seated := map[string]int{}
	for _, m := range activeMatches(s) {
		teamSize := s.SessionType.PlayersPerTeam()
		require.Len(t, m.Team1, teamSize)
		require.Len(t, m.Team2, teamSize)
		for _, team := range [][]string{m.Team1, m.Team2} {
			if len(team) == 2 {
				assert.False(t, s.IsBanned(team[0], team[1]), "banned pair on a team in match %s", m.ID)
			}
		}
		for _, p := range m.Players() {
			seated[p]++
			assert.Equal(t, 1, seated[p], "player %s seated in two live matches", p)
		}
	}

	for id, st := range s.Stats {
		assert.GreaterOrEqual(t, st.Wins, 0, id)
		assert.LessOrEqual(t, st.Wins, st.GamesPlayed, id)
		assert.Equal(t, st.GamesPlayed, st.Wins+st.Losses, id)
	}

	assert.Equal(t, len(s.ActivePlayerList()), len(seated)+len(s.WaitingPlayers))
}

func TestEvaluate_InvariantsHoldAcrossManyCompletions(t *testing.T) {
	s := newSession(models.ModeKingOfCourt, models.TypeDoubles, 3, 10)
	assertInvariants(t, s)

	scores := [][2]int{{11, 5}, {7, 11}, {11, 9}, {3, 11}, {11, 0}, {12, 10}, {11, 7}, {5, 11}}
	for i, sc := range scores {
		live := activeMatches(s)
		if len(live) == 0 {
			break
		}
		m := live[i%len(live)]
		require.NoError(t, engine.CompleteMatch(s, m.ID, sc[0], sc[1], fixedNow))
		assertInvariants(t, s)
	}
}

func TestUpdateAdvancedConfig_RejectsNegativePenalty(t *testing.T) {
	s := newSession(models.ModeKingOfCourt, models.TypeDoubles, 1, 4)

	bad := -5
	err := engine.UpdateAdvancedConfig(s, models.ConfigPatch{TeamBalancePenalty: &bad}, fixedNow)

	require.Error(t, err)
	assert.ErrorIs(t, err, engine.KindError(engine.KindConfigOutOfRange))
	assert.Equal(t, models.DefaultConfig().TeamBalancePenalty, s.Config.TeamBalancePenalty)
}

func TestOneCourtSessionNeverDeadlocksOnHardCap(t *testing.T) {
	s := newSession(models.ModeKingOfCourt, models.TypeDoubles, 1, 7)

	// Several consecutive completions: the [court 1, waitlist] set
	// repeats every round, but court utilization and the fairness
	// override keep the single court busy regardless.
	for i := 0; i < 5; i++ {
		live := activeMatches(s)
		require.Len(t, live, 1, "round %d", i)
		assert.Equal(t, 1, live[0].Court)
		require.NoError(t, engine.CompleteMatch(s, live[0].ID, 11, 8, fixedNow))
	}
	assert.Len(t, activeMatches(s), 1)
}

func TestDecide_FairnessOverrideBeatsStrategicWaiting(t *testing.T) {
	in := engine.DecisionInputs{
		AnyPlaceableCourt:   false,
		AvailablePlayers:    4,
		PlayersPerMatch:     4,
		AnyPlayerAtMaxWaits: true,
		CompletedMatchCount: 10,
		MinCompletedForWait: 6,
		HardCapForbidsAll:   true,
	}
	assert.Equal(t, engine.DecisionCreate, engine.Decide(in))

	in.AnyPlayerAtMaxWaits = false
	assert.Equal(t, engine.DecisionWait, engine.Decide(in))

	in.CompletedMatchCount = 3
	assert.Equal(t, engine.DecisionCreate, engine.Decide(in))
}
