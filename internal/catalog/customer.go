package catalog

// Customer is a registered customer. Expenses accumulate only while the
// customer is a club member.
type Customer struct {
	ID       int
	Phone    int
	Member   bool
	expenses float64
}

// Expenses returns the raw purchase total, before prizes.
func (c *Customer) Expenses() float64 {
	return c.expenses
}

// AddExpense adds x to the purchase total.
func (c *Customer) AddExpense(x float64) {
	c.expenses += x
}

// ResetExpenses zeroes the purchase total.
func (c *Customer) ResetExpenses() {
	c.expenses = 0
}
