package domain

// PaymentMethod identifies how the customer settles an order.
type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "cash"
	PaymentBankTransfer PaymentMethod = "bank_transfer"
	PaymentCredit       PaymentMethod = "credit"
	PaymentCOD          PaymentMethod = "cod"
)

// Valid reports whether m is a known payment method.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentBankTransfer, PaymentCredit, PaymentCOD:
		return true
	}
	return false
}

// CreditSnapshot is the customer's credit standing as reported by the
// customer directory. Read-only input; this service never mutates it.
type CreditSnapshot struct {
	CustomerID  int64 `json:"customer_id"`
	CreditLimit int64 `json:"credit_limit"`
	CurrentDebt int64 `json:"current_debt"`
}

// AvailableCredit returns the headroom left under the customer's limit,
// floored at zero.
func (s CreditSnapshot) AvailableCredit() int64 {
	if avail := s.CreditLimit - s.CurrentDebt; avail > 0 {
		return avail
	}
	return 0
}

// CreditDecision is the outcome of a credit-limit check.
type CreditDecision struct {
	Exceeds         bool  `json:"exceeds"`
	DebtAmount      int64 `json:"debt_amount"`
	AvailableCredit int64 `json:"available_credit"`
}

// CheckCredit decides whether a pending order would push the customer past
// their credit limit. Only the credit payment method can exceed; every other
// method always passes regardless of amounts.
func CheckCredit(snapshot CreditSnapshot, cartTotal, paidAmount int64, method PaymentMethod) CreditDecision {
	d := CreditDecision{
		DebtAmount:      cartTotal - paidAmount,
		AvailableCredit: snapshot.AvailableCredit(),
	}
	d.Exceeds = method == PaymentCredit && d.DebtAmount > d.AvailableCredit
	return d
}
