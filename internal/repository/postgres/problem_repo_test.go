package postgres_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"leettrack/internal/domain"
	"leettrack/internal/repository/postgres"
	"leettrack/internal/testutil"
)

func TestProblemRepository_Upsert(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewProblemRepository(testDB.DB)
	ctx := context.Background()

	tagsJSON, _ := json.Marshal([]string{"Array", "Hash Table"})
	problem := &domain.ProblemMetadata{
		Slug:          "two-sum",
		QuestionID:    1,
		Title:         "Two Sum",
		Difficulty:    domain.DifficultyEasy,
		Likes:         100,
		Dislikes:      5,
		TopicTags:     datatypes.JSON(tagsJSON),
		LastFetchedAt: time.Now(),
	}

	// Create
	err := repo.Upsert(ctx, problem)
	require.NoError(t, err)

	// Verify creation
	got, err := repo.GetBySlug(ctx, "two-sum")
	require.NoError(t, err)
	assert.Equal(t, "Two Sum", got.Title)
	assert.Equal(t, domain.DifficultyEasy, got.Difficulty)
	assert.Equal(t, 100, got.Likes)

	// Update
	problem.Likes = 150
	problem.Difficulty = domain.DifficultyMedium
	err = repo.Upsert(ctx, problem)
	require.NoError(t, err)

	// Verify update replaced the mutable fields, not duplicated the row
	got, err = repo.GetBySlug(ctx, "two-sum")
	require.NoError(t, err)
	assert.Equal(t, 150, got.Likes)
	assert.Equal(t, domain.DifficultyMedium, got.Difficulty)

	var count int64
	require.NoError(t, testDB.DB.Model(&domain.ProblemMetadata{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestProblemRepository_GetBySlug_NotFound(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewProblemRepository(testDB.DB)
	ctx := context.Background()

	_, err := repo.GetBySlug(ctx, "no-such-problem")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestProblemRepository_NullableAcceptanceRate(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewProblemRepository(testDB.DB)
	ctx := context.Background()

	rate := 47.2
	withRate := testutil.NewProblemBuilder("with-rate").Build(t, testDB.DB)
	withRate.AcceptanceRate = &rate
	require.NoError(t, repo.Upsert(ctx, withRate))

	got, err := repo.GetBySlug(ctx, "with-rate")
	require.NoError(t, err)
	require.NotNil(t, got.AcceptanceRate)
	assert.InDelta(t, 47.2, *got.AcceptanceRate, 0.001)

	testutil.NewProblemBuilder("without-rate").Build(t, testDB.DB)
	got, err = repo.GetBySlug(ctx, "without-rate")
	require.NoError(t, err)
	assert.Nil(t, got.AcceptanceRate)
}
