package treasury

import (
	"sort"

	"guild-bank-ledger/internal/domain/bankerr"
)

// HasPending reports whether txnID is already on the pending ledger.
func (t *Treasury) HasPending(txnID string) (bool, error) {
	l, err := t.Ledger()
	if err != nil {
		return false, err
	}
	_, ok := l.Pending[txnID]
	return ok, nil
}

// AddPending records p without moving any money.
func (t *Treasury) AddPending(p PendingInvestment) error {
	if err := bankerr.Required("txn_id", p.TxnID); err != nil {
		return err
	}
	if !p.Amount.IsPositive() {
		return bankerr.Validation("amount", "must be positive")
	}
	l, err := t.Ledger()
	if err != nil {
		return err
	}
	if _, ok := l.Pending[p.TxnID]; ok {
		return bankerr.StateConflict("investment %s is already pending", p.TxnID)
	}
	l.Pending[p.TxnID] = p
	return t.SetLedger(l)
}

// ListPending returns pending investments oldest first, ties by txn id.
func (t *Treasury) ListPending() ([]PendingInvestment, error) {
	l, err := t.Ledger()
	if err != nil {
		return nil, err
	}
	out := make([]PendingInvestment, 0, len(l.Pending))
	for _, p := range l.Pending {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].RequestedAt.Equal(out[j].RequestedAt) {
			return out[i].TxnID < out[j].TxnID
		}
		return out[i].RequestedAt.Before(out[j].RequestedAt)
	})
	return out, nil
}

// RemovePending drops txnID from the ledger and returns what was stored.
func (t *Treasury) RemovePending(txnID string) (PendingInvestment, error) {
	l, err := t.Ledger()
	if err != nil {
		return PendingInvestment{}, err
	}
	p, ok := l.Pending[txnID]
	if !ok {
		return PendingInvestment{}, bankerr.NotFound("investment", txnID)
	}
	delete(l.Pending, txnID)
	return p, t.SetLedger(l)
}

// ConfirmPending removes txnID, credits its amount and counts it as
// confirmed. Nothing changes when txnID is unknown.
func (t *Treasury) ConfirmPending(txnID string) (PendingInvestment, error) {
	l, err := t.Ledger()
	if err != nil {
		return PendingInvestment{}, err
	}
	p, ok := l.Pending[txnID]
	if !ok {
		return PendingInvestment{}, bankerr.NotFound("investment", txnID)
	}
	if err := t.Credit(p.Amount); err != nil {
		return PendingInvestment{}, err
	}
	delete(l.Pending, txnID)
	l.ConfirmedTotal = l.ConfirmedTotal.Add(p.Amount)
	l.ConfirmedCount++
	return p, t.SetLedger(l)
}
