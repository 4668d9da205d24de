// Package catalog implements the records company: customers, club members
// with range prizes, per-record purchase pricing and stackable record
// columns.
//
// A Company is not safe for concurrent use.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Sumatoshi-tech/recordstore/pkg/alg/hashindex"
	"github.com/Sumatoshi-tech/recordstore/pkg/alg/rangetree"
	"github.com/Sumatoshi-tech/recordstore/pkg/alg/stackuf"
)

// DefaultBasePrice is the price of the first copy of any record.
const DefaultBasePrice = 100

type options struct {
	logger    *slog.Logger
	basePrice float64
	index     []hashindex.Option
}

// Option configures a Company.
type Option func(*options)

// WithLogger sets the logger used for per-operation debug lines.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithBasePrice sets the price of the first copy of a record.
func WithBasePrice(p float64) Option {
	return func(o *options) {
		o.basePrice = p
	}
}

// WithInitialBuckets sets the initial bucket count of the customer index.
func WithInitialBuckets(n int) Option {
	return func(o *options) {
		o.index = append(o.index, hashindex.WithInitialBuckets(n))
	}
}

// WithMaxLoad sets the customer index load factor that triggers growth.
func WithMaxLoad(n int) Option {
	return func(o *options) {
		o.index = append(o.index, hashindex.WithMaxLoad(n))
	}
}

// Company holds the customer registry, the member club and the record stock.
type Company struct {
	customers *hashindex.Index[int, *Customer]
	members   *rangetree.Tree[int, *Customer]
	purchases []int
	records   *stackuf.UnionFind
	basePrice float64
	logger    *slog.Logger
}

// New creates a company with no customers and no records. Call NewMonth to
// stock records.
func New(opts ...Option) *Company {
	o := options{logger: slog.Default(), basePrice: DefaultBasePrice}
	for _, opt := range opts {
		opt(&o)
	}

	// Zero heights cannot fail.
	records, _ := stackuf.New(nil)

	return &Company{
		customers: hashindex.New[int, *Customer](hashindex.HashInt, o.index...),
		members:   rangetree.New[int, *Customer](),
		records:   records,
		basePrice: o.basePrice,
		logger:    o.logger,
	}
}

// NewMonth starts a new month with len(stocks) records, record i having
// stocks[i] copies. Member expenses and prizes are cleared, purchase counts
// restart and all record columns are separated again.
func (c *Company) NewMonth(stocks []int) (err error) {
	defer func() { c.trace("new_month", err, slog.Int("records", len(stocks))) }()

	for i, s := range stocks {
		if s < 0 {
			return fmt.Errorf("%w: record %d has stock %d", ErrInvalidInput, i, s)
		}
	}

	err = c.records.Reset(stocks)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	c.members.Reset(func(m *Customer) { m.ResetExpenses() })
	c.purchases = make([]int, len(stocks))

	return nil
}

// AddCustomer registers a customer.
func (c *Company) AddCustomer(id, phone int) (err error) {
	defer func() { c.trace("add_customer", err, slog.Int("customer", id)) }()

	if id < 0 || phone < 0 {
		return fmt.Errorf("%w: customer %d phone %d", ErrInvalidInput, id, phone)
	}

	err = c.customers.Insert(id, &Customer{ID: id, Phone: phone})
	if errors.Is(err, rangetree.ErrKeyExists) {
		return fmt.Errorf("%w: customer %d", ErrAlreadyExists, id)
	}

	return err
}

// Phone returns the phone number of a customer.
func (c *Company) Phone(id int) (phone int, err error) {
	defer func() { c.trace("get_phone", err, slog.Int("customer", id)) }()

	cust, err := c.customer(id)
	if err != nil {
		return 0, err
	}

	return cust.Phone, nil
}

// MakeMember enrolls a customer in the club. A new member starts with no
// expenses and is not covered by earlier prizes.
func (c *Company) MakeMember(id int) (err error) {
	defer func() { c.trace("make_member", err, slog.Int("customer", id)) }()

	cust, err := c.customer(id)
	if err != nil {
		return err
	}

	if cust.Member {
		return fmt.Errorf("%w: customer %d is a member", ErrAlreadyExists, id)
	}

	err = c.members.Insert(id, cust)
	if err != nil {
		return fmt.Errorf("%w: member %d: %w", ErrAlreadyExists, id, err)
	}

	cust.Member = true

	return nil
}

// IsMember reports whether the customer is a club member.
func (c *Company) IsMember(id int) (member bool, err error) {
	defer func() { c.trace("is_member", err, slog.Int("customer", id)) }()

	cust, err := c.customer(id)
	if err != nil {
		return false, err
	}

	return cust.Member, nil
}

// BuyRecord sells one copy of record rid to customer cid. Members are
// charged the base price plus the number of earlier sales of that record
// this month; every sale counts toward the price.
func (c *Company) BuyRecord(cid, rid int) (err error) {
	defer func() { c.trace("buy_record", err, slog.Int("customer", cid), slog.Int("record", rid)) }()

	if cid < 0 || rid < 0 {
		return fmt.Errorf("%w: customer %d record %d", ErrInvalidInput, cid, rid)
	}

	cust, err := c.customer(cid)
	if err != nil {
		return err
	}

	if rid >= len(c.purchases) {
		return fmt.Errorf("%w: record %d of %d", ErrDoesNotExist, rid, len(c.purchases))
	}

	if cust.Member {
		cust.AddExpense(c.basePrice + float64(c.purchases[rid]))
	}

	c.purchases[rid]++

	return nil
}

// AddPrize credits amount to every member with lo <= id < hi.
func (c *Company) AddPrize(lo, hi int, amount float64) (err error) {
	defer func() {
		c.trace("add_prize", err, slog.Int("lo", lo), slog.Int("hi", hi), slog.Float64("amount", amount))
	}()

	if lo < 0 || hi < lo || amount <= 0 {
		return fmt.Errorf("%w: range [%d, %d) amount %g", ErrInvalidInput, lo, hi, amount)
	}

	c.members.RangeAdd(lo, hi-1, amount)

	return nil
}

// Expenses returns a member's expenses net of prizes.
func (c *Company) Expenses(id int) (total float64, err error) {
	defer func() { c.trace("get_expenses", err, slog.Int("customer", id)) }()

	if id < 0 {
		return 0, fmt.Errorf("%w: customer %d", ErrInvalidInput, id)
	}

	total, err = c.members.PointQuery(id, (*Customer).Expenses)
	if err != nil {
		return 0, fmt.Errorf("%w: member %d", ErrDoesNotExist, id)
	}

	return total, nil
}

// PutOnTop stacks the column holding r1 on top of the column holding r2.
func (c *Company) PutOnTop(r1, r2 int) (err error) {
	defer func() { c.trace("put_on_top", err, slog.Int("record", r1), slog.Int("onto", r2)) }()

	if r1 < 0 || r2 < 0 {
		return fmt.Errorf("%w: records %d and %d", ErrInvalidInput, r1, r2)
	}

	err = c.records.Union(r1, r2)

	switch {
	case errors.Is(err, stackuf.ErrOutOfRange):
		return fmt.Errorf("%w: %w", ErrDoesNotExist, err)
	case errors.Is(err, stackuf.ErrSameSet):
		return fmt.Errorf("%w: %w", ErrFailure, err)
	}

	return err
}

// Place returns the column and height of record r.
func (c *Company) Place(r int) (column, height int, err error) {
	defer func() { c.trace("get_place", err, slog.Int("record", r)) }()

	if r < 0 {
		return 0, 0, fmt.Errorf("%w: record %d", ErrInvalidInput, r)
	}

	column, height, err = c.records.Position(r)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %w", ErrDoesNotExist, err)
	}

	return column, height, nil
}

// Records returns the number of records stocked this month.
func (c *Company) Records() int {
	return len(c.purchases)
}

// Customers returns the number of registered customers.
func (c *Company) Customers() int {
	return c.customers.Len()
}

// Members calls fn for each member in ascending id order with the member's
// expenses net of prizes, until fn returns false.
func (c *Company) Members(fn func(id int, expenses float64) bool) {
	c.members.Ascend(func(id int, m *Customer) bool {
		adj, _ := c.members.Adjustment(id)

		return fn(id, m.Expenses()-adj)
	})
}

func (c *Company) customer(id int) (*Customer, error) {
	if id < 0 {
		return nil, fmt.Errorf("%w: customer %d", ErrInvalidInput, id)
	}

	cust, ok := c.customers.Find(id)
	if !ok {
		return nil, fmt.Errorf("%w: customer %d", ErrDoesNotExist, id)
	}

	return cust, nil
}

func (c *Company) trace(op string, err error, attrs ...slog.Attr) {
	attrs = append(attrs, slog.String("op", op), slog.String("status", StatusOf(err)))
	if err != nil {
		attrs = append(attrs, slog.String("err", err.Error()))
	}

	c.logger.LogAttrs(context.Background(), slog.LevelDebug, "catalog", attrs...)
}
