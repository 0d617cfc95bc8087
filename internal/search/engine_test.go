package search_test

import (
	"context"
	"errors"
	"testing"

	models "github.com/chrisdamba/daytrip/internal"
	"github.com/chrisdamba/daytrip/internal/mocks"
	"github.com/chrisdamba/daytrip/internal/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func intPtr(i int) *int { return &i }

func summaries(ids ...int) []models.AttractionSummary {
	out := make([]models.AttractionSummary, len(ids))
	for i, id := range ids {
		out[i] = models.AttractionSummary{ID: id, Name: "景點"}
	}
	return out
}

func TestLoadNextPage_ExhaustsAfterNPlusOnePages(t *testing.T) {
	for _, n := range []int{0, 1, 3} {
		api := new(mocks.MockGateway)
		ctx := context.Background()
		for p := 0; p < n; p++ {
			api.On("Attractions", ctx, p, "", "").
				Return(models.AttractionPage{NextPage: intPtr(p + 1), Data: summaries(p*8 + 1)}, nil).Once()
		}
		api.On("Attractions", ctx, n, "", "").
			Return(models.AttractionPage{NextPage: nil, Data: nil}, nil).Once()

		engine := search.NewEngine(api, nil)
		for i := 0; i < n+1; i++ {
			page, err := engine.LoadNextPage(ctx)
			require.NoError(t, err)
			assert.False(t, page.Skipped)
		}
		assert.Nil(t, engine.Cursor())

		page, err := engine.LoadNextPage(ctx)
		require.NoError(t, err)
		assert.True(t, page.Skipped)
		assert.Len(t, engine.Items(), n)
		assert.Equal(t, n == 0, engine.Empty())
		api.AssertNumberOfCalls(t, "Attractions", n+1)
	}
}

func TestResetAndSearch_ReplacesResults(t *testing.T) {
	api := new(mocks.MockGateway)
	ctx := context.Background()
	api.On("Attractions", ctx, 0, "", "").
		Return(models.AttractionPage{NextPage: intPtr(1), Data: summaries(1, 2, 3, 4, 5, 6, 7, 8)}, nil)
	api.On("Attractions", ctx, 1, "", "").
		Return(models.AttractionPage{NextPage: nil, Data: summaries(9)}, nil)
	api.On("Attractions", ctx, 0, "淡水", "").
		Return(models.AttractionPage{NextPage: nil, Data: summaries(42)}, nil)

	engine := search.NewEngine(api, nil)
	_, err := engine.LoadNextPage(ctx)
	require.NoError(t, err)
	_, err = engine.LoadNextPage(ctx)
	require.NoError(t, err)
	require.Len(t, engine.Items(), 9)

	page, err := engine.ResetAndSearch(ctx, "淡水", models.AllCategories)
	require.NoError(t, err)
	assert.Equal(t, summaries(42), page.Items)
	assert.Equal(t, summaries(42), engine.Items())
	assert.Equal(t, search.Filters{Keyword: "淡水", Category: ""}, engine.Filters())
	assert.Nil(t, engine.Cursor())
}

func TestResetAndSearch_EmptyMarker(t *testing.T) {
	api := new(mocks.MockGateway)
	ctx := context.Background()
	api.On("Attractions", ctx, 0, "不存在", "").
		Return(models.AttractionPage{NextPage: nil, Data: []models.AttractionSummary{}}, nil)

	engine := search.NewEngine(api, nil)
	assert.False(t, engine.Empty())
	assert.False(t, engine.Loaded())

	page, err := engine.ResetAndSearch(ctx, "不存在", "")
	require.NoError(t, err)
	assert.True(t, page.Empty)
	assert.True(t, engine.Empty())
	assert.True(t, engine.Loaded())
}

func TestLoadNextPage_ErrorKeepsCursor(t *testing.T) {
	api := new(mocks.MockGateway)
	ctx := context.Background()
	fail := models.NewNetworkError(errors.New("connection reset"))
	api.On("Attractions", ctx, 0, "", "").Return(models.AttractionPage{}, fail).Once()
	api.On("Attractions", ctx, 0, "", "").
		Return(models.AttractionPage{NextPage: nil, Data: summaries(1)}, nil).Once()

	engine := search.NewEngine(api, nil)
	_, err := engine.LoadNextPage(ctx)
	assert.ErrorIs(t, err, models.ErrNetworkOrServer)
	assert.Equal(t, intPtr(0), engine.Cursor())
	assert.False(t, engine.Loading())

	_, err = engine.LoadNextPage(ctx)
	require.NoError(t, err)
	assert.Len(t, engine.Items(), 1)
}

func TestLoadNextPage_SkipsWhileLoading(t *testing.T) {
	api := new(mocks.MockGateway)
	ctx := context.Background()
	engine := search.NewEngine(api, nil)

	var nested search.Page
	api.On("Attractions", ctx, 0, "", "").
		Run(func(args mock.Arguments) {
			assert.True(t, engine.Loading())
			nested, _ = engine.LoadNextPage(ctx)
		}).
		Return(models.AttractionPage{NextPage: intPtr(1), Data: summaries(1)}, nil).Once()

	_, err := engine.LoadNextPage(ctx)
	require.NoError(t, err)
	assert.True(t, nested.Skipped)
	assert.False(t, engine.Loading())
	api.AssertNumberOfCalls(t, "Attractions", 1)
}

func TestScenario_Keyword101(t *testing.T) {
	api := new(mocks.MockGateway)
	ctx := context.Background()
	api.On("Attractions", ctx, 0, "101", "").
		Return(models.AttractionPage{NextPage: intPtr(1), Data: summaries(1, 2, 3)}, nil).Once()
	api.On("Attractions", ctx, 1, "101", "").
		Return(models.AttractionPage{NextPage: nil, Data: []models.AttractionSummary{}}, nil).Once()

	engine := search.NewEngine(api, nil)
	page, err := engine.ResetAndSearch(ctx, "101", "")
	require.NoError(t, err)
	assert.Len(t, page.Items, 3)

	_, err = engine.OnProximity(ctx, false)
	require.NoError(t, err)
	api.AssertNumberOfCalls(t, "Attractions", 1)

	page, err = engine.OnProximity(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.False(t, engine.Empty())

	for i := 0; i < 3; i++ {
		page, err = engine.OnProximity(ctx, true)
		require.NoError(t, err)
		assert.True(t, page.Skipped)
	}
	assert.Len(t, engine.Items(), 3)
	api.AssertNumberOfCalls(t, "Attractions", 2)
}
