package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courtmatch/internal/engine"
	"courtmatch/internal/models"
)

var fixedNow = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func testPlayers(n int) []models.Player {
	out := make([]models.Player, n)
	for i := range out {
		out[i] = models.Player{ID: string(rune('a' + i)), DisplayName: string(rune('A' + i))}
	}
	return out
}

func newSession(mode models.Mode, sessionType models.SessionType, courtCount, playerCount int) *models.Session {
	return engine.NewSession(engine.SessionSetup{
		ID:          "s1",
		Config:      models.DefaultConfig(),
		Mode:        mode,
		SessionType: sessionType,
		CourtCount:  courtCount,
		Players:     testPlayers(playerCount),
		Seed:        1,
	}, engine.NewSource(1), fixedNow)
}

func TestNewSession_FillsCourtsUpToAvailablePlayers(t *testing.T) {
	s := newSession(models.ModeRoundRobin, models.TypeDoubles, 2, 8)

	active := 0
	for _, m := range s.Matches {
		if m.Active() {
			active++
		}
	}
	assert.Equal(t, 2, active)
	assert.Empty(t, s.WaitingPlayers)
}

func TestCompleteMatch_RejectsTiedOrNegativeScores(t *testing.T) {
	s := newSession(models.ModeKingOfCourt, models.TypeDoubles, 1, 4)
	m := s.Matches[0]

	err := engine.CompleteMatch(s, m.ID, 11, 11, fixedNow)
	assert.Error(t, err)

	err = engine.CompleteMatch(s, m.ID, -1, 5, fixedNow)
	assert.Error(t, err)
}

func TestCompleteMatch_EditRewindsThenReappliesWithoutDuplicateStats(t *testing.T) {
	s := newSession(models.ModeKingOfCourt, models.TypeDoubles, 1, 4)
	m := s.Matches[0]
	winner := m.Team1[0]

	require.NoError(t, engine.CompleteMatch(s, m.ID, 11, 5, fixedNow))
	firstWins := statsFor(s, winner).Wins
	firstPointsFor := statsFor(s, winner).TotalPointsFor

	// edit the score: the original margin is rewound before the new one applies
	require.NoError(t, engine.CompleteMatch(s, m.ID, 15, 9, fixedNow))

	assert.Equal(t, firstWins, statsFor(s, winner).Wins)
	assert.NotEqual(t, firstPointsFor, statsFor(s, winner).TotalPointsFor)
	assert.Equal(t, 15, statsFor(s, winner).TotalPointsFor)
}

func statsFor(s *models.Session, id string) *models.PlayerStats {
	return s.Stats[id]
}

func TestMakeCourt_RejectsBannedPairOnSameTeam(t *testing.T) {
	// 12 players on 2 courts leave 4 on the waitlist.
	s := newSession(models.ModeKingOfCourt, models.TypeDoubles, 2, 12)
	waiters := append([]string(nil), s.WaitingPlayers...)
	require.Len(t, waiters, 4)
	s.BannedPairs = []models.BannedPair{{A: waiters[0], B: waiters[1]}}

	err := engine.MakeCourt(s, 3, []string{waiters[0], waiters[1]}, []string{waiters[2], waiters[3]}, fixedNow)
	assert.Error(t, err)
}

func TestMakeCourt_RejectsPlayersAlreadySeated(t *testing.T) {
	s := newSession(models.ModeKingOfCourt, models.TypeDoubles, 2, 12)
	seated := s.Matches[0].Players()

	err := engine.MakeCourt(s, 3, seated[:2], seated[2:], fixedNow)
	assert.Error(t, err)
}

func TestMakeCourt_BypassesHardCapAndOccupiesCourtImmediately(t *testing.T) {
	s := newSession(models.ModeKingOfCourt, models.TypeDoubles, 2, 12)
	waiters := append([]string(nil), s.WaitingPlayers...)
	require.Len(t, waiters, 4)

	// A pop-up court beyond the configured count is fine for a manual
	// override.
	err := engine.MakeCourt(s, 3, waiters[:2], waiters[2:], fixedNow)
	require.NoError(t, err)

	last := s.Matches[len(s.Matches)-1]
	assert.Equal(t, models.MatchInProgress, last.Status)
	assert.True(t, last.ManualOverride)
	assert.Equal(t, 3, last.Court)
	assert.Empty(t, s.WaitingPlayers)

	err = engine.MakeCourt(s, 3, waiters[:2], waiters[2:], fixedNow)
	assert.Error(t, err)
}

func TestRemovePlayer_ForfeitsActiveMatchInFavorOfOpponents(t *testing.T) {
	s := newSession(models.ModeKingOfCourt, models.TypeDoubles, 1, 4)
	m := s.Matches[0]
	removed := m.Team1[0]

	require.NoError(t, engine.RemovePlayer(s, removed, fixedNow))

	assert.Equal(t, models.MatchForfeited, m.Status)
	assert.Equal(t, 2, m.WinningTeam)
	assert.False(t, s.IsActive(removed))
}

func TestEditSession_PreservesPlayersAndBannedPairsOnly(t *testing.T) {
	s := newSession(models.ModeKingOfCourt, models.TypeDoubles, 1, 4)
	s.BannedPairs = []models.BannedPair{{A: "a", B: "b"}}
	require.NoError(t, engine.CompleteMatch(s, s.Matches[0].ID, 11, 5, fixedNow))

	engine.EditSession(s, fixedNow)

	assert.Empty(t, s.Matches)
	assert.Zero(t, s.CompletedMatchCount)
	assert.Len(t, s.ActivePlayerList(), 4)
	assert.Len(t, s.BannedPairs, 1)
	assert.Zero(t, s.Stats["a"].Wins)
}
