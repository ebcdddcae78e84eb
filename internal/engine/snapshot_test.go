package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courtmatch/internal/engine"
	"courtmatch/internal/models"
)

func TestSnapshotRoundTrip_ReexportIsByteIdentical(t *testing.T) {
	s := engine.NewSession(engine.SessionSetup{
		ID:          "s1",
		Config:      models.DefaultConfig(),
		Mode:        models.ModeKingOfCourt,
		SessionType: models.TypeDoubles,
		CourtCount:  1,
		Players:     testPlayers(4),
		Seed:        42,
	}, engine.NewSource(42), fixedNow)

	data, err := engine.ExportSnapshot(s)
	require.NoError(t, err)

	imported, err := engine.ImportSnapshot(data)
	require.NoError(t, err)

	reexported, err := engine.ExportSnapshot(imported)
	require.NoError(t, err)

	assert.Equal(t, string(data), string(reexported))
}

func TestImportSnapshot_MissingConfigFieldsDefaultFromConfigModel(t *testing.T) {
	data := []byte(`{
		"id": "s1",
		"config": {"base_rating": 1700},
		"mode": "king-of-court",
		"session_type": "doubles",
		"court_count": 2,
		"players": {},
		"active_player_ids": {},
		"matches": [],
		"stats": {},
		"variety": {"courts": {}, "last_mix_round": 0},
		"schema_version": 1
	}`)

	s, err := engine.ImportSnapshot(data)
	require.NoError(t, err)

	assert.Equal(t, 1700.0, s.Config.BaseRating)
	assert.Equal(t, models.DefaultConfig().MaxRating, s.Config.MaxRating)
	assert.Equal(t, models.DefaultConfig().HardCapEnabled, s.Config.HardCapEnabled)
}

func TestImportSnapshot_IgnoresUnknownFields(t *testing.T) {
	data := []byte(`{
		"id": "s1",
		"config": {},
		"mode": "king-of-court",
		"session_type": "doubles",
		"court_count": 1,
		"players": {},
		"active_player_ids": {},
		"matches": [],
		"stats": {},
		"variety": {"courts": {}, "last_mix_round": 0},
		"schema_version": 1,
		"a_field_from_a_newer_client": "ignored"
	}`)

	s, err := engine.ImportSnapshot(data)
	require.NoError(t, err)
	assert.Equal(t, "s1", s.ID)
}
