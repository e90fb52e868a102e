package event

import (
	"go-stakehouse/internal/ledger"
)

const (
	roundsChannel     = "rounds-channel"
	roundSettledEvent = "round-settled"
)

// SettlementReporter turns settled rounds into hub messages. It hangs
// off the ledger's Reporter hook and hands the actual send to the job
// queue so settlement never waits on the socket.
type SettlementReporter struct {
	queue     JobQueue
	publisher Trigger
}

func NewSettlementReporter(queue JobQueue, publisher Trigger) *SettlementReporter {
	return &SettlementReporter{
		queue:     queue,
		publisher: publisher,
	}
}

func (r *SettlementReporter) RoundSettled(round *ledger.SettledRound) {
	message := Message{
		Channel: roundsChannel,
		Event:   roundSettledEvent,
		Data: map[string]interface{}{
			"round_id":   round.ID,
			"account_id": round.AccountID,
			"game":       string(round.Game),
			"amount":     round.Amount.String(),
			"payout":     round.Payout.String(),
			"outcome":    round.Outcome,
			"is_win":     round.IsWin,
			"drawn":      round.Drawn,
			"settled_at": round.SettledAt,
		},
	}

	r.queue.Dispatch(&SendEventJob{EventMessage: message, Publisher: r.publisher}, 0)
}
