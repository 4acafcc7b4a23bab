package coupon

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Applied holds the outcome of a successful coupon validation. The coupon is
// not consumed at this point; redemption happens when the order is placed.
type Applied struct {
	CouponID    string
	Discount    decimal.Decimal
	Description string
}

// Validator validates a coupon code against a cart total and returns the
// computed discount.
type Validator interface {
	Validate(ctx context.Context, code string, cartTotal decimal.Decimal) (*Applied, error)
}

const (
	// filterCapacity sizes the negative-lookup bloom filter. The catalog is
	// tiny today; the headroom keeps the false-positive rate negligible as
	// codes are bulk-imported.
	filterCapacity = 1_000_000
	filterFPR      = 0.001
)

// RepoValidator implements Validator over a Repository. A bloom filter over
// known codes short-circuits lookups for codes that definitely do not exist,
// so bogus codes never reach the database. False positives simply fall
// through to the repository lookup.
type RepoValidator struct {
	repo   Repository
	filter atomic.Pointer[bloom.BloomFilter]
	now    func() time.Time
}

// NewRepoValidator creates a RepoValidator backed by the given Repository.
// Call PrimeFilter to enable the negative-lookup fast path.
func NewRepoValidator(repo Repository) *RepoValidator {
	return &RepoValidator{repo: repo, now: time.Now}
}

// PrimeFilter loads every known code into a fresh bloom filter. It can be
// called again at runtime to pick up newly created coupons.
func (v *RepoValidator) PrimeFilter(ctx context.Context) error {
	codes, err := v.repo.Codes(ctx)
	if err != nil {
		return errors.Wrap(err, "list coupon codes")
	}

	f := bloom.NewWithEstimates(filterCapacity, filterFPR)
	for _, code := range codes {
		f.AddString(Normalize(code))
	}
	v.filter.Store(f)
	return nil
}

// Normalize maps a user-entered code to its canonical catalog form.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Validate looks up the rule for the code, checks redeemability against the
// cart total, and returns the computed discount. It does not increment the
// usage counter.
func (v *RepoValidator) Validate(ctx context.Context, code string, cartTotal decimal.Decimal) (*Applied, error) {
	if !cartTotal.IsPositive() {
		return nil, &BelowMinimumError{MinOrderValue: decimal.Zero}
	}

	normalized := Normalize(code)
	if normalized == "" {
		return nil, ErrNotFound
	}

	if f := v.filter.Load(); f != nil && !f.TestString(normalized) {
		return nil, ErrNotFound
	}

	rule, err := v.repo.FindByCode(ctx, normalized)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "lookup coupon")
	}

	if err := rule.Redeemable(v.now(), cartTotal); err != nil {
		return nil, err
	}

	discount, err := rule.Discount(cartTotal)
	if err != nil {
		return nil, err
	}

	return &Applied{
		CouponID:    rule.ID,
		Discount:    discount,
		Description: rule.Description,
	}, nil
}
