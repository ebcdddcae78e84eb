package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courtmatch/internal/engine"
	"courtmatch/internal/models"
)

func newTestSession(players []string, sessionType models.SessionType, courtCount int) *models.Session {
	s := &models.Session{
		Config:          models.DefaultConfig(),
		SessionType:     sessionType,
		CourtCount:      courtCount,
		Players:         make(map[string]models.Player, len(players)),
		ActivePlayerIDs: make(map[string]bool, len(players)),
		Stats:           make(map[string]*models.PlayerStats, len(players)),
		Variety:         models.NewCourtVarietyState(courtCount),
	}
	for _, id := range players {
		s.Players[id] = models.Player{ID: id, DisplayName: id}
		s.ActivePlayerIDs[id] = true
		engine.StatsCreate(s, id)
	}
	s.WaitingPlayers = append([]string(nil), players...)
	return s
}

func TestGenerateRoundRobinQueue_NoBannedPairTogetherAndNoDuplicatePlayer(t *testing.T) {
	players := []string{"p1", "p2", "p3", "p4", "p5", "p6", "p7", "p8"}
	s := newTestSession(players, models.TypeDoubles, 2)
	s.BannedPairs = []models.BannedPair{{A: "p1", B: "p2"}}

	queue := engine.GenerateRoundRobinQueue(s, players, 10)
	require.NotEmpty(t, queue)

	for _, m := range queue {
		seen := map[string]bool{}
		for _, p := range m.Players() {
			assert.False(t, seen[p], "player %s duplicated within one match", p)
			seen[p] = true
		}
		assert.False(t, s.IsBanned(m.Team1[0], m.Team1[1]))
		assert.False(t, s.IsBanned(m.Team2[0], m.Team2[1]))
	}
}

func TestGenerateRoundRobinQueue_EightPlayersTwoCourtsEvenPlayOverThreeRounds(t *testing.T) {
	players := []string{"p1", "p2", "p3", "p4", "p5", "p6", "p7", "p8"}
	s := newTestSession(players, models.TypeDoubles, 2)

	// Simulate three rounds of two matches each: regenerate the queue
	// after each round completes, the way a live session would.
	playCount := map[string]int{}
	seenGroups := map[string]int{}

	for round := 0; round < 3; round++ {
		queue := engine.GenerateRoundRobinQueue(s, players, 2)
		require.Len(t, queue, 2)

		for _, m := range queue {
			ps := m.Players()
			key := ""
			sorted := append([]string(nil), ps...)
			for i := 0; i < len(sorted); i++ {
				for j := i + 1; j < len(sorted); j++ {
					if sorted[j] < sorted[i] {
						sorted[i], sorted[j] = sorted[j], sorted[i]
					}
				}
			}
			for _, id := range sorted {
				key += id + ","
			}
			seenGroups[key]++

			engine.RecordMatchResult(s, &models.Match{Team1: m.Team1, Team2: m.Team2}, 1, false)
			for _, id := range ps {
				playCount[id]++
			}
		}
	}

	for _, id := range players {
		assert.GreaterOrEqual(t, playCount[id], 2, "player %s should have played at least twice in 3 rounds", id)
	}
	for key, count := range seenGroups {
		assert.LessOrEqual(t, count, 1, "foursome %s repeated within the first three rounds", key)
	}
}
