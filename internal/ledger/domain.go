package ledger

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/milkbook/milkbook/internal/shared"
)

// MoneyPlaces is the presentation precision of monetary amounts.
const MoneyPlaces = 2

// Entry is one date's combined activity for a customer.
type Entry struct {
	Date              shared.Date                `json:"date"`
	OrderID           string                     `json:"orderId,omitempty"`
	PaymentID         string                     `json:"paymentId,omitempty"`
	OrderIDs          []string                   `json:"orderIds,omitempty"`
	PaymentIDs        []string                   `json:"paymentIds,omitempty"`
	ProductQuantities map[string]decimal.Decimal `json:"productQuantities"`
	TotalQuantity     decimal.Decimal            `json:"totalQuantity"`
	AmountBilled      decimal.Decimal            `json:"amountBilled"`
	PaymentReceived   decimal.Decimal            `json:"paymentReceived"`
	ClosingBalance    decimal.Decimal            `json:"closingBalance"`
	Reference         string                     `json:"reference,omitempty"`
}

// Report is a customer's ledger over an inclusive date range.
//
// ClosingBalance == OpeningBalance + TotalAmountBilled - TotalPaymentReceived,
// and each entry's ClosingBalance is the previous one (or OpeningBalance)
// plus its AmountBilled minus its PaymentReceived.
type Report struct {
	CustomerID             string                     `json:"customerId"`
	CustomerName           string                     `json:"customerName"`
	StartDate              shared.Date                `json:"startDate"`
	EndDate                shared.Date                `json:"endDate"`
	OpeningBalance         decimal.Decimal            `json:"openingBalance"`
	Entries                []Entry                    `json:"entries"`
	TotalProductQuantities map[string]decimal.Decimal `json:"totalProductQuantities"`
	TotalAmountBilled      decimal.Decimal            `json:"totalAmountBilled"`
	TotalPaymentReceived   decimal.Decimal            `json:"totalPaymentReceived"`
	ClosingBalance         decimal.Decimal            `json:"closingBalance"`
}

// Rounded returns a copy with monetary amounts rounded to MoneyPlaces for
// display. Quantities are left untouched.
func (r *Report) Rounded() *Report {
	out := *r
	out.OpeningBalance = r.OpeningBalance.Round(MoneyPlaces)
	out.TotalAmountBilled = r.TotalAmountBilled.Round(MoneyPlaces)
	out.TotalPaymentReceived = r.TotalPaymentReceived.Round(MoneyPlaces)
	out.ClosingBalance = r.ClosingBalance.Round(MoneyPlaces)
	out.Entries = make([]Entry, len(r.Entries))
	for i, e := range r.Entries {
		e.AmountBilled = e.AmountBilled.Round(MoneyPlaces)
		e.PaymentReceived = e.PaymentReceived.Round(MoneyPlaces)
		e.ClosingBalance = e.ClosingBalance.Round(MoneyPlaces)
		out.Entries[i] = e
	}
	return &out
}

// ProductIDs lists the products that appear in the report, sorted.
func (r *Report) ProductIDs() []string {
	ids := make([]string, 0, len(r.TotalProductQuantities))
	for id := range r.TotalProductQuantities {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Reconciliation compares a customer's live outstanding balance with the
// balance replayed from order and payment history.
type Reconciliation struct {
	CustomerID    string          `json:"customerId"`
	AsOf          shared.Date     `json:"asOf"`
	LiveBalance   decimal.Decimal `json:"liveBalance"`
	LedgerBalance decimal.Decimal `json:"ledgerBalance"`
	Drift         decimal.Decimal `json:"drift"`
}
