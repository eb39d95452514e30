package calculator

import (
	"sort"

	"github.com/mmynk/groupledger/internal/money"
)

// ShareForBalance is one member's portion of an expense.
type ShareForBalance struct {
	MemberID string
	Amount   money.Amount
}

// ExpenseForBalance represents an expense with the minimal information needed for balance calculations.
type ExpenseForBalance struct {
	PayerID string
	Amount  money.Amount
	Shares  []ShareForBalance
}

// PaymentForBalance represents a settlement payment with the minimal information needed for balance calculations.
type PaymentForBalance struct {
	FromID string // Who paid (debtor settling up)
	ToID   string // Who received (creditor being paid)
	Amount money.Amount
}

// MemberBalance represents the balance information for one group member.
type MemberBalance struct {
	MemberID string
	Net      money.Amount // Positive = owed money, Negative = owes money
	Paid     money.Amount // Expenses paid plus payments sent
	Owed     money.Amount // Shares owed plus payments received
}

// DebtEdge represents a suggested transfer from one member to another.
type DebtEdge struct {
	From   string // Member who owes
	To     string // Member who is owed
	Amount money.Amount
}

// ComputeBalances folds a group's expenses and payments into one net balance
// per member. Every member in members gets an entry, zero if they have no
// activity. References to IDs outside members are skipped for that entry.
//
// Given shares that sum to their expense amounts, the balances sum to zero.
func ComputeBalances(members []string, expenses []ExpenseForBalance, payments []PaymentForBalance) map[string]money.Amount {
	balances := make(map[string]money.Amount, len(members))
	for _, m := range members {
		balances[m] = 0
	}

	credit := func(id string, amount money.Amount) {
		if _, ok := balances[id]; ok {
			balances[id] += amount
		}
	}

	for _, e := range expenses {
		// Payer is owed the full amount
		credit(e.PayerID, e.Amount)
		for _, s := range e.Shares {
			credit(s.MemberID, -s.Amount)
		}
	}

	for _, p := range payments {
		// Sender's debt decreases, receiver's credit decreases
		credit(p.FromID, p.Amount)
		credit(p.ToID, -p.Amount)
	}

	return balances
}

// SummarizeBalances is ComputeBalances with paid/owed totals kept apart.
// Results follow the order of members.
func SummarizeBalances(members []string, expenses []ExpenseForBalance, payments []PaymentForBalance) []MemberBalance {
	index := make(map[string]int, len(members))
	result := make([]MemberBalance, 0, len(members))
	for _, m := range members {
		if _, dup := index[m]; dup {
			continue
		}
		index[m] = len(result)
		result = append(result, MemberBalance{MemberID: m})
	}

	paid := func(id string, amount money.Amount) {
		if i, ok := index[id]; ok {
			result[i].Paid += amount
		}
	}
	owed := func(id string, amount money.Amount) {
		if i, ok := index[id]; ok {
			result[i].Owed += amount
		}
	}

	for _, e := range expenses {
		paid(e.PayerID, e.Amount)
		for _, s := range e.Shares {
			owed(s.MemberID, s.Amount)
		}
	}
	for _, p := range payments {
		paid(p.FromID, p.Amount)
		owed(p.ToID, p.Amount)
	}

	for i := range result {
		result[i].Net = result[i].Paid - result[i].Owed
	}
	return result
}

// SimplifyDebts turns net balances into a short list of transfers that would
// settle the group. Greedy: the largest debtor pays the largest creditor until
// one side is exhausted. Ties are broken by member ID so output is stable.
func SimplifyDebts(balances map[string]money.Amount) []DebtEdge {
	type position struct {
		id     string
		amount money.Amount
	}

	var creditors, debtors []position
	for id, bal := range balances {
		switch {
		case bal > 0:
			creditors = append(creditors, position{id, bal})
		case bal < 0:
			debtors = append(debtors, position{id, -bal})
		}
	}

	byAmount := func(ps []position) {
		sort.Slice(ps, func(i, j int) bool {
			if ps[i].amount != ps[j].amount {
				return ps[i].amount > ps[j].amount
			}
			return ps[i].id < ps[j].id
		})
	}
	byAmount(creditors)
	byAmount(debtors)

	var edges []DebtEdge
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		amount := min(debtors[i].amount, creditors[j].amount)
		edges = append(edges, DebtEdge{
			From:   debtors[i].id,
			To:     creditors[j].id,
			Amount: amount,
		})

		debtors[i].amount -= amount
		creditors[j].amount -= amount
		if debtors[i].amount == 0 {
			i++
		}
		if creditors[j].amount == 0 {
			j++
		}
	}

	return edges
}
