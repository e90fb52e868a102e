package cards

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go-stakehouse/internal/rng"
)

func TestNewDeck(t *testing.T) {
	deck := NewDeck()
	require.Len(t, deck, 52)

	seen := make(map[Card]bool)
	for _, c := range deck {
		if seen[c] {
			t.Fatalf("duplicate card in deck: %s", c)
		}

		seen[c] = true
	}

	// Index order must match the Draw mapping: card i is rank i%13 of suit i/13.
	assert.Equal(t, Card{Rank: Ace, Suit: Spades}, deck[0])
	assert.Equal(t, Card{Rank: King, Suit: Spades}, deck[12])
	assert.Equal(t, Card{Rank: Ace, Suit: Hearts}, deck[13])
	assert.Equal(t, Card{Rank: King, Suit: Clubs}, deck[51])
}

func TestCardValues(t *testing.T) {
	cases := []struct {
		name         string
		card         Card
		baccarat     int
		poker        int
		display      string
	}{
		{name: "AceOfSpades", card: Card{Rank: Ace, Suit: Spades}, baccarat: 1, poker: 14, display: "A♠"},
		{name: "NineOfHearts", card: Card{Rank: Nine, Suit: Hearts}, baccarat: 9, poker: 9, display: "9♥"},
		{name: "TenOfDiamonds", card: Card{Rank: Ten, Suit: Diamonds}, baccarat: 0, poker: 10, display: "10♦"},
		{name: "KingOfClubs", card: Card{Rank: King, Suit: Clubs}, baccarat: 0, poker: 13, display: "K♣"},
		{name: "QueenOfSpades", card: Card{Rank: Queen, Suit: Spades}, baccarat: 0, poker: 12, display: "Q♠"},
	}

	for _, tc := range cases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.baccarat, tc.card.BaccaratValue())
			assert.Equal(t, tc.poker, tc.card.PokerValue())
			assert.Equal(t, tc.display, tc.card.String())
		})
	}
}

func TestDraw(t *testing.T) {
	seeds := rng.SeedTriple{ServerSeed: "server", ClientSeed: "client", Nonce: 0}
	rand := rng.NewProvider()

	first, err := Draw(rand, seeds, 0)
	require.NoError(t, err)

	again, err := Draw(rand, seeds, 0)
	require.NoError(t, err)
	assert.Equal(t, first, again)

	// Drawn card must round-trip through the deck index mapping.
	value, err := rng.UniformInt(seeds.ServerSeed, seeds.ClientSeed, 0, 52)
	require.NoError(t, err)
	assert.Equal(t, Card{Rank: Rank(value % 13), Suit: Suit(value / 13)}, first)
}
