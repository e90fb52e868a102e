package keno

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go-stakehouse/internal/engine"
	"go-stakehouse/internal/rng"
)

type countingRand struct {
	inner engine.Randomizer
	draws int
}

func (c *countingRand) UniformInt(serverSeed, clientSeed string, nonce int64, maxExclusive int) (int, error) {
	c.draws++
	return c.inner.UniformInt(serverSeed, clientSeed, nonce, maxExclusive)
}

func (c *countingRand) UniformFloat(serverSeed, clientSeed string, nonce int64) float64 {
	c.draws++
	return c.inner.UniformFloat(serverSeed, clientSeed, nonce)
}

func (c *countingRand) WeightedPick(serverSeed, clientSeed string, nonce int64, weights []float64) (int, error) {
	c.draws++
	return c.inner.WeightedPick(serverSeed, clientSeed, nonce, weights)
}

func TestMultiplier(t *testing.T) {
	cases := []struct {
		name    string
		picks   int
		matches int
		want    int64
	}{
		{name: "OnePickOneMatch", picks: 1, matches: 1, want: 3},
		{name: "OnePickNoMatch", picks: 1, matches: 0, want: 0},
		{name: "ThreePicksThreeMatches", picks: 3, matches: 3, want: 50},
		{name: "FivePicksFourMatches", picks: 5, matches: 4, want: 15},
		{name: "TenPicksTenMatches", picks: 10, matches: 10, want: 25000},
		{name: "TenPicksFourMatches", picks: 10, matches: 4, want: 0},
		{name: "PicksOutOfTable", picks: 11, matches: 5, want: 0},
		{name: "MatchesBeyondPicks", picks: 2, matches: 3, want: 0},
	}

	for _, tc := range cases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, Multiplier(tc.picks, tc.matches))
		})
	}
}

func TestPlay_DrawsTwentyUniqueNumbers(t *testing.T) {
	game := New(rng.NewProvider())
	seeds := rng.SeedTriple{ServerSeed: "keno-server", ClientSeed: "keno-client", Nonce: 1}

	result, err := game.Play(seeds, engine.Bet{
		Amount: decimal.NewFromInt(1),
		Params: Params{Picks: []int{7, 23, 42, 80}},
	})
	require.NoError(t, err)

	drawn := result.Details["drawn_numbers"].([]int)
	require.Len(t, drawn, 20)

	seen := make(map[int]bool)
	for _, number := range drawn {
		require.GreaterOrEqual(t, number, 1)
		require.LessOrEqual(t, number, 80)

		if seen[number] {
			t.Fatalf("duplicate drawn number %d", number)
		}

		seen[number] = true
	}

	// Reject-resample means at least one draw per number, sometimes more.
	assert.GreaterOrEqual(t, result.DrawCount, 20)
}

func TestPlay_DeterministicReplay(t *testing.T) {
	game := New(rng.NewProvider())
	seeds := rng.SeedTriple{ServerSeed: "keno-replay", ClientSeed: "", Nonce: 55}
	bet := engine.Bet{Amount: decimal.RequireFromString("2.50"), Params: Params{Picks: []int{1, 2, 3, 4, 5}}}

	first, err := game.Play(seeds, bet)
	require.NoError(t, err)

	second, err := game.Play(seeds, bet)
	require.NoError(t, err)

	assert.Equal(t, first.Drawn, second.Drawn)
	assert.True(t, first.Payout.Equal(second.Payout))
	assert.Equal(t, first.DrawCount, second.DrawCount)
}

func TestPlay_ValidationRejectsBeforeAnyDraw(t *testing.T) {
	cases := []struct {
		name  string
		picks []int
	}{
		{name: "Empty", picks: nil},
		{name: "TooMany", picks: []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}},
		{name: "Duplicate", picks: []int{5, 9, 5}},
		{name: "BelowRange", picks: []int{0, 10}},
		{name: "AboveRange", picks: []int{10, 81}},
	}

	for _, tc := range cases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			counter := &countingRand{inner: rng.NewProvider()}
			game := New(counter)

			_, err := game.Play(rng.SeedTriple{ServerSeed: "s", Nonce: 1}, engine.Bet{
				Amount: decimal.NewFromInt(1),
				Params: Params{Picks: tc.picks},
			})

			require.ErrorIs(t, err, engine.ErrInvalidArgument)
			assert.Zero(t, counter.draws, "no RNG draw may happen for an invalid bet")
		})
	}
}

func TestPlay_MatchesAreSubsetOfPicks(t *testing.T) {
	game := New(rng.NewProvider())
	picks := []int{3, 17, 29, 44, 61, 78}

	result, err := game.Play(rng.SeedTriple{ServerSeed: "subset", Nonce: 9}, engine.Bet{
		Amount: decimal.NewFromInt(1),
		Params: Params{Picks: picks},
	})
	require.NoError(t, err)

	pickSet := make(map[int]bool)
	for _, p := range picks {
		pickSet[p] = true
	}

	matched := result.Details["matched_numbers"].([]int)
	for _, m := range matched {
		assert.True(t, pickSet[m], "matched number %d was never picked", m)
	}

	assert.Equal(t, len(matched), result.Details["match_count"].(int))
}
