package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/kasir/app/models"
	"github.com/shashiranjanraj/kasir/app/repositories"
	"github.com/shashiranjanraj/kasir/pkg/apperr"
	"github.com/shashiranjanraj/kasir/pkg/database"
	"github.com/shashiranjanraj/kasir/pkg/event"
	"github.com/shashiranjanraj/kasir/pkg/logger"
)

// Events fired by TransactionService.
const (
	EventSaleCommitted = "sale.committed"
	EventSaleRejected  = "sale.rejected"
)

// Rejection reasons carried by SaleRejected.
const (
	ReasonProductUnavailable = "product_unavailable"
	ReasonTotalMismatch      = "total_mismatch"
	ReasonPersistence        = "persistence"
	ReasonInvalid            = "invalid"
)

// MaxQuantity bounds a cart line after merging so quantity arithmetic
// cannot overflow.
const MaxQuantity = math.MaxInt32

// CartLine is one cart entry as sent by the client. Name is the client's
// snapshot and is only used to describe products that no longer exist.
type CartLine struct {
	ProductID uint
	Name      string
	Quantity  int
}

// CommitInput is everything a sale commit needs. CashierID comes from the
// authenticated session, never from the request body.
type CommitInput struct {
	Cart         []CartLine
	ClaimedTotal decimal.Decimal
	CustomerID   *uint
	CashierID    uint
}

// SaleCommitted is the payload of EventSaleCommitted.
type SaleCommitted struct {
	Sale     *models.Sale
	Items    int
	Duration time.Duration
}

// SaleRejected is the payload of EventSaleRejected.
type SaleRejected struct {
	Reason    string
	CashierID uint
	Duration  time.Duration
}

// TransactionService records sales.
type TransactionService struct {
	db        *gorm.DB
	products  *repositories.ProductRepository
	customers *repositories.CustomerRepository
	sales     *repositories.SaleRepository
	now       func() time.Time
}

func NewTransactionService(db *gorm.DB) *TransactionService {
	return &TransactionService{
		db:        db,
		products:  repositories.NewProductRepository(db),
		customers: repositories.NewCustomerRepository(db),
		sales:     repositories.NewSaleRepository(db),
		now:       time.Now,
	}
}

// WithClock replaces the clock used to stamp sale times.
func (s *TransactionService) WithClock(now func() time.Time) *TransactionService {
	cp := *s
	cp.now = now
	return &cp
}

// CommitSale validates the cart against current product state and, in one
// database transaction, records the sale, its lines and the stock
// decrements. On any error nothing is written.
//
// Errors: *ProductUnavailableError, ErrTotalMismatch, *PersistenceError, or
// a BAD_REQUEST apperr for malformed input.
func (s *TransactionService) CommitSale(ctx context.Context, in CommitInput) (*models.Sale, error) {
	start := time.Now()

	var sale *models.Sale
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		sale, err = s.CommitSaleTx(ctx, tx, in)
		return err
	})
	if err != nil {
		err = classifyCommitError(err)
		s.reject(ctx, in, err, time.Since(start))
		return nil, err
	}

	items := 0
	for _, d := range sale.Details {
		items += d.Quantity
	}
	logger.WithCtx(ctx).Info("sale committed",
		"sale_id", sale.ID,
		"total", sale.TotalPrice.String(),
		"lines", len(sale.Details),
		"cashier_id", in.CashierID,
	)
	event.Fire(EventSaleCommitted, SaleCommitted{Sale: sale, Items: items, Duration: time.Since(start)})
	return sale, nil
}

// CommitSaleTx performs the commit steps on tx without beginning or ending
// the transaction. The caller owns commit and rollback.
func (s *TransactionService) CommitSaleTx(ctx context.Context, tx *gorm.DB, in CommitInput) (*models.Sale, error) {
	lines, err := mergeCart(in.Cart)
	if err != nil {
		return nil, err
	}
	if in.CashierID == 0 {
		return nil, apperr.New(apperr.BadRequest, "A cashier is required")
	}

	products := s.products.WithTx(tx)
	sales := s.sales.WithTx(tx)
	lock := database.SupportsRowLocks(tx)

	if in.CustomerID != nil {
		ok, err := s.customers.WithTx(tx).Exists(ctx, *in.CustomerID)
		if err != nil {
			return nil, fmt.Errorf("transaction: read customer: %w", err)
		}
		if !ok {
			return nil, apperr.New(apperr.BadRequest, "Customer does not exist")
		}
	}

	// 1. authoritative re-read, optionally row-locked in id order
	sellable := make(map[uint]models.Product, len(lines))
	for _, l := range sortedByProduct(lines) {
		p, ok, err := products.FindSellable(ctx, l.ProductID, l.Quantity, lock)
		if err != nil {
			return nil, fmt.Errorf("transaction: read product %d: %w", l.ProductID, err)
		}
		if ok {
			sellable[l.ProductID] = p
		}
	}

	type pricedLine struct {
		line    CartLine
		product models.Product
	}
	priced := make([]pricedLine, 0, len(lines))
	var missing []CartLine
	for _, l := range lines {
		p, ok := sellable[l.ProductID]
		if !ok {
			missing = append(missing, l)
			continue
		}
		priced = append(priced, pricedLine{line: l, product: p})
	}

	// 2. every line must match
	if len(missing) > 0 {
		return nil, s.unavailable(ctx, products, missing)
	}

	// 3. exact totals
	total := decimal.Zero
	details := make([]models.SaleDetail, len(priced))
	for i, pl := range priced {
		subtotal := pl.product.Price.Mul(decimal.NewFromInt(int64(pl.line.Quantity)))
		total = total.Add(subtotal)
		details[i] = models.SaleDetail{
			ProductID: pl.product.ID,
			Quantity:  pl.line.Quantity,
			Subtotal:  subtotal,
		}
	}

	// 4. the client must have shown the same total
	if !total.Equal(in.ClaimedTotal) {
		return nil, ErrTotalMismatch
	}

	// 5. header
	sale := &models.Sale{
		Time:       s.now(),
		TotalPrice: total,
		CustomerID: in.CustomerID,
		UserID:     in.CashierID,
	}
	if err := sales.CreateHeader(ctx, sale); err != nil {
		return nil, fmt.Errorf("transaction: insert sale: %w", err)
	}

	// 6. lines in one batch
	for i := range details {
		details[i].SaleID = sale.ID
	}
	if err := sales.CreateDetails(ctx, details); err != nil {
		return nil, fmt.Errorf("transaction: insert sale details: %w", err)
	}

	// 7. guarded relative decrement
	for _, pl := range priced {
		ok, err := products.DecrementStock(ctx, pl.product.ID, pl.line.Quantity)
		if err != nil {
			return nil, fmt.Errorf("transaction: decrement stock of %d: %w", pl.product.ID, err)
		}
		if !ok {
			return nil, &ProductUnavailableError{Products: []string{pl.product.Name}}
		}
	}

	for i, pl := range priced {
		p := pl.product
		p.Stock -= pl.line.Quantity
		details[i].Product = &p
	}
	sale.Details = details
	return sale, nil
}

// unavailable names each failing line by its stored name, else the client's
// snapshot name, else "#<id>".
func (s *TransactionService) unavailable(ctx context.Context, products *repositories.ProductRepository, missing []CartLine) error {
	ids := make([]uint, len(missing))
	for i, l := range missing {
		ids[i] = l.ProductID
	}

	known := map[uint]string{}
	found, err := products.FindByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("transaction: read unavailable products: %w", err)
	}
	for _, p := range found {
		known[p.ID] = p.Name
	}

	names := make([]string, len(missing))
	for i, l := range missing {
		switch {
		case known[l.ProductID] != "":
			names[i] = known[l.ProductID]
		case l.Name != "":
			names[i] = l.Name
		default:
			names[i] = fmt.Sprintf("#%d", l.ProductID)
		}
	}
	return &ProductUnavailableError{Products: names}
}

func (s *TransactionService) reject(ctx context.Context, in CommitInput, err error, took time.Duration) {
	reason := ReasonPersistence
	var pu *ProductUnavailableError
	switch {
	case errors.As(err, &pu):
		reason = ReasonProductUnavailable
	case errors.Is(err, ErrTotalMismatch):
		reason = ReasonTotalMismatch
	case apperr.KindOf(err) == apperr.BadRequest:
		reason = ReasonInvalid
	}

	log := logger.WithCtx(ctx)
	if reason == ReasonPersistence {
		log.Error("sale commit failed", "cashier_id", in.CashierID, "error", err)
	} else {
		log.Info("sale rejected", "cashier_id", in.CashierID, "reason", reason, "error", err)
	}
	event.Fire(EventSaleRejected, SaleRejected{Reason: reason, CashierID: in.CashierID, Duration: took})
}

// classifyCommitError leaves domain errors alone and wraps everything else.
func classifyCommitError(err error) error {
	var pu *ProductUnavailableError
	if errors.As(err, &pu) || errors.Is(err, ErrTotalMismatch) {
		return err
	}
	if apperr.KindOf(err) == apperr.BadRequest {
		return err
	}
	return &PersistenceError{Err: err}
}

var errQuantityTooLarge = apperr.New(apperr.BadRequest, fmt.Sprintf("A cart quantity may not exceed %d", MaxQuantity))

// mergeCart rejects empty carts and out-of-range quantities and folds
// repeated product ids into one line, keeping first-seen order.
func mergeCart(cart []CartLine) ([]CartLine, error) {
	if len(cart) == 0 {
		return nil, apperr.New(apperr.BadRequest, "The cart is empty")
	}

	index := make(map[uint]int, len(cart))
	out := make([]CartLine, 0, len(cart))
	for _, l := range cart {
		if l.ProductID == 0 {
			return nil, apperr.New(apperr.BadRequest, "Every cart line needs a product")
		}
		if l.Quantity <= 0 {
			return nil, apperr.New(apperr.BadRequest, "Every cart quantity must be positive")
		}
		if l.Quantity > MaxQuantity {
			return nil, errQuantityTooLarge
		}
		if i, ok := index[l.ProductID]; ok {
			if out[i].Quantity > MaxQuantity-l.Quantity {
				return nil, errQuantityTooLarge
			}
			out[i].Quantity += l.Quantity
			if out[i].Name == "" {
				out[i].Name = l.Name
			}
			continue
		}
		index[l.ProductID] = len(out)
		out = append(out, l)
	}
	return out, nil
}

// History lists every sale newest first.
func (s *TransactionService) History(ctx context.Context) ([]models.Sale, error) {
	sales, err := s.sales.History(ctx)
	if err != nil {
		return nil, fmt.Errorf("transaction: history: %w", err)
	}
	return sales, nil
}

// Find loads one sale.
func (s *TransactionService) Find(ctx context.Context, id uint) (models.Sale, error) {
	sale, err := s.sales.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Sale{}, apperr.New(apperr.NotFound, "Transaction not found")
	}
	if err != nil {
		return models.Sale{}, fmt.Errorf("transaction: find %d: %w", id, err)
	}
	return sale, nil
}

// sortedByProduct orders lines by product id so concurrent commits take
// row locks in the same order.
func sortedByProduct(lines []CartLine) []CartLine {
	out := append([]CartLine(nil), lines...)
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out
}
