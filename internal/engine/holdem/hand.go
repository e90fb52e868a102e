package holdem

import (
	"fmt"
	"sort"

	"go-stakehouse/internal/engine/cards"
)

type HandRank int

const (
	HighCard HandRank = iota + 1
	Pair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	RoyalFlush
)

var handRankNames = map[HandRank]string{
	HighCard:      "high_card",
	Pair:          "pair",
	TwoPair:       "two_pair",
	ThreeOfAKind:  "three_of_a_kind",
	Straight:      "straight",
	Flush:         "flush",
	FullHouse:     "full_house",
	FourOfAKind:   "four_of_a_kind",
	StraightFlush: "straight_flush",
	RoyalFlush:    "royal_flush",
}

func (r HandRank) String() string {
	return handRankNames[r]
}

// Hand is a ranked 5-card hand. Values holds the card values used for
// in-category comparison, ordered so the first differing position
// decides: grouped cards first (by count, then value), kickers after.
type Hand struct {
	Rank   HandRank
	Values []int
	Cards  []cards.Card
}

// evaluateFive ranks exactly five cards.
func evaluateFive(hand []cards.Card) (Hand, error) {
	const op = "holdem.evaluateFive"

	if len(hand) != 5 {
		return Hand{}, fmt.Errorf("%s: want 5 cards, got %d", op, len(hand))
	}

	sorted := make([]cards.Card, 5)
	copy(sorted, hand)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].PokerValue() > sorted[j].PokerValue()
	})

	flush := true
	for _, c := range sorted[1:] {
		if c.Suit != sorted[0].Suit {
			flush = false
			break
		}
	}

	straight, straightHigh := checkStraight(sorted)

	counts := make(map[int]int)
	for _, c := range sorted {
		counts[c.PokerValue()]++
	}

	// Group values by multiplicity, higher counts first, ties by value.
	type group struct {
		value int
		count int
	}

	groups := make([]group, 0, len(counts))
	for value, count := range counts {
		groups = append(groups, group{value: value, count: count})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].count != groups[j].count {
			return groups[i].count > groups[j].count
		}

		return groups[i].value > groups[j].value
	})

	values := make([]int, 0, 5)
	for _, g := range groups {
		for i := 0; i < g.count; i++ {
			values = append(values, g.value)
		}
	}

	rank := HighCard
	switch {
	case straight && flush && straightHigh == 14:
		rank = RoyalFlush
	case straight && flush:
		rank = StraightFlush
	case groups[0].count == 4:
		rank = FourOfAKind
	case groups[0].count == 3 && groups[1].count == 2:
		rank = FullHouse
	case flush:
		rank = Flush
	case straight:
		rank = Straight
	case groups[0].count == 3:
		rank = ThreeOfAKind
	case groups[0].count == 2 && groups[1].count == 2:
		rank = TwoPair
	case groups[0].count == 2:
		rank = Pair
	}

	if straight {
		// The wheel ranks by its five-high top card, not the ace.
		values = straightValues(straightHigh)
	}

	return Hand{Rank: rank, Values: values, Cards: sorted}, nil
}

// checkStraight expects cards sorted descending by poker value and
// reports the straight's high card. The wheel (A-5-4-3-2) counts with
// a high card of five.
func checkStraight(sorted []cards.Card) (bool, int) {
	run := true
	for i := 0; i < len(sorted)-1; i++ {
		if sorted[i].PokerValue()-sorted[i+1].PokerValue() != 1 {
			run = false
			break
		}
	}

	if run {
		return true, sorted[0].PokerValue()
	}

	wheel := sorted[0].PokerValue() == 14 &&
		sorted[1].PokerValue() == 5 &&
		sorted[2].PokerValue() == 4 &&
		sorted[3].PokerValue() == 3 &&
		sorted[4].PokerValue() == 2

	if wheel {
		return true, 5
	}

	return false, 0
}

// straightValues ranks a straight by its top card downwards; in the
// wheel the ace counts as one.
func straightValues(high int) []int {
	values := make([]int, 5)
	for i := range values {
		values[i] = high - i
	}

	return values
}

// Compare orders two ranked hands: category first, then the first
// differing comparison value. Zero means a true tie (identical rank
// multisets).
func Compare(a, b Hand) int {
	if a.Rank != b.Rank {
		return int(a.Rank) - int(b.Rank)
	}

	for i := range a.Values {
		if a.Values[i] != b.Values[i] {
			return a.Values[i] - b.Values[i]
		}
	}

	return 0
}

// BestOfSeven enumerates all C(7,5)=21 five-card combinations and
// returns the highest-ranking hand.
func BestOfSeven(seven []cards.Card) (Hand, error) {
	const op = "holdem.BestOfSeven"

	if len(seven) != 7 {
		return Hand{}, fmt.Errorf("%s: want 7 cards, got %d", op, len(seven))
	}

	var (
		best  Hand
		found bool
	)

	// Choose the two indices to drop.
	for skipA := 0; skipA < 7; skipA++ {
		for skipB := skipA + 1; skipB < 7; skipB++ {
			combo := make([]cards.Card, 0, 5)
			for i, c := range seven {
				if i != skipA && i != skipB {
					combo = append(combo, c)
				}
			}

			hand, err := evaluateFive(combo)
			if err != nil {
				return Hand{}, fmt.Errorf("%s: %w", op, err)
			}

			if !found || Compare(hand, best) > 0 {
				best = hand
				found = true
			}
		}
	}

	return best, nil
}
