package sicbo

import (
	"fmt"

	"github.com/shopspring/decimal"
	"go-stakehouse/internal/engine"
)

// BetKind is the sic bo bet family. Face-valued kinds carry their
// parameters in BetSpec rather than one kind per face pair.
type BetKind int

const (
	Small BetKind = iota // total 4-10, loses on any triple
	Big                  // total 11-17, loses on any triple
	Total                // exact three-dice total, 4-17
	Single               // at least one die shows Face
	Double               // at least two dice show Face
	Triple               // all three dice show Face
	AnyTriple            // any three of a kind
	Combo                // both FaceA and FaceB appear
)

// BetSpec is one placed bet position. Comparable, so it keys the bet
// map directly.
type BetSpec struct {
	Kind  BetKind `json:"kind"`
	Total int     `json:"total,omitempty"`
	Face  int     `json:"face,omitempty"`
	FaceA int     `json:"face_a,omitempty"`
	FaceB int     `json:"face_b,omitempty"`
}

// less orders bet positions by kind, then by their parameters, so a
// round's position list is identical on every replay of the same bets.
func (s BetSpec) less(other BetSpec) bool {
	if s.Kind != other.Kind {
		return s.Kind < other.Kind
	}

	if s.Total != other.Total {
		return s.Total < other.Total
	}

	if s.Face != other.Face {
		return s.Face < other.Face
	}

	if s.FaceA != other.FaceA {
		return s.FaceA < other.FaceA
	}

	return s.FaceB < other.FaceB
}

// totalMultipliers: total-return multiplier per exact total.
var totalMultipliers = map[int]decimal.Decimal{
	4:  decimal.RequireFromString("61.11"),
	5:  decimal.RequireFromString("31.94"),
	6:  decimal.RequireFromString("18.98"),
	7:  decimal.RequireFromString("13.19"),
	8:  decimal.RequireFromString("9.03"),
	9:  decimal.RequireFromString("7.41"),
	10: decimal.RequireFromString("7.41"),
	11: decimal.RequireFromString("7.41"),
	12: decimal.RequireFromString("7.41"),
	13: decimal.RequireFromString("9.03"),
	14: decimal.RequireFromString("13.19"),
	15: decimal.RequireFromString("18.98"),
	16: decimal.RequireFromString("31.94"),
	17: decimal.RequireFromString("61.11"),
}

var (
	smallBigMultiplier  = decimal.RequireFromString("1.96")
	doubleMultiplier    = decimal.RequireFromString("11.11")
	anyTripleMultiplier = decimal.RequireFromString("31.94")
	tripleMultiplier    = decimal.RequireFromString("181")
	comboMultiplier     = decimal.RequireFromString("7.14")

	// Single-number bets pay by how many dice match: 1:1, 2:1, 3:1
	// expressed as total-return.
	singleMultipliers = [4]decimal.Decimal{
		decimal.Zero,
		decimal.NewFromInt(2),
		decimal.NewFromInt(3),
		decimal.NewFromInt(4),
	}
)

// Validate rejects malformed bet positions before any dice are rolled.
func (s BetSpec) Validate() error {
	const op = "sicbo.BetSpec.Validate"

	switch s.Kind {
	case Small, Big, AnyTriple:
		return nil
	case Total:
		if s.Total < 4 || s.Total > 17 {
			return fmt.Errorf("%s: total %d out of [4, 17]: %w", op, s.Total, engine.ErrInvalidArgument)
		}

		return nil
	case Single, Double, Triple:
		if s.Face < 1 || s.Face > 6 {
			return fmt.Errorf("%s: face %d out of [1, 6]: %w", op, s.Face, engine.ErrInvalidArgument)
		}

		return nil
	case Combo:
		if s.FaceA < 1 || s.FaceA > 6 || s.FaceB < 1 || s.FaceB > 6 {
			return fmt.Errorf("%s: combo faces (%d, %d) out of [1, 6]: %w",
				op, s.FaceA, s.FaceB, engine.ErrInvalidArgument)
		}

		if s.FaceA == s.FaceB {
			return fmt.Errorf("%s: combo faces must differ: %w", op, engine.ErrInvalidArgument)
		}

		return nil
	}

	return fmt.Errorf("%s: unknown bet kind %d: %w", op, s.Kind, engine.ErrInvalidArgument)
}

// Evaluate returns the total-return multiplier for the bet position
// against a settled roll. Zero means the position lost.
func (s BetSpec) Evaluate(roll Roll) decimal.Decimal {
	switch s.Kind {
	case Small:
		if roll.Total() >= 4 && roll.Total() <= 10 && !roll.IsTriple() {
			return smallBigMultiplier
		}
	case Big:
		if roll.Total() >= 11 && roll.Total() <= 17 && !roll.IsTriple() {
			return smallBigMultiplier
		}
	case Total:
		if roll.Total() == s.Total {
			return totalMultipliers[s.Total]
		}
	case Single:
		return singleMultipliers[roll.Count(s.Face)]
	case Double:
		if roll.Count(s.Face) >= 2 {
			return doubleMultiplier
		}
	case Triple:
		if roll.IsTriple() && roll.Dice[0] == s.Face {
			return tripleMultiplier
		}
	case AnyTriple:
		if roll.IsTriple() {
			return anyTripleMultiplier
		}
	case Combo:
		if roll.Count(s.FaceA) > 0 && roll.Count(s.FaceB) > 0 {
			return comboMultiplier
		}
	}

	return decimal.Zero
}

// Roll is one settled throw of the three dice.
type Roll struct {
	Dice [3]int
}

func (r Roll) Total() int {
	return r.Dice[0] + r.Dice[1] + r.Dice[2]
}

func (r Roll) IsTriple() bool {
	return r.Dice[0] == r.Dice[1] && r.Dice[1] == r.Dice[2]
}

func (r Roll) Count(face int) int {
	count := 0
	for _, die := range r.Dice {
		if die == face {
			count++
		}
	}

	return count
}
