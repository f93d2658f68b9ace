package usecase

import (
	"bytes"
	"context"
	"slices"
	"time"

	"band-market/internal/currency"
	"band-market/internal/data/entity"
	"band-market/internal/data/repository"
	"band-market/internal/dto/request"
	"band-market/internal/dto/response"
	"band-market/pkg/database"
	"band-market/pkg/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type CheckoutService interface {
	PlaceOrder(ctx context.Context, caller utils.Caller, req *request.PlaceOrderRequest) (*response.OrderResponse, error)
	GetOrder(ctx context.Context, caller utils.Caller, orderID, currencyCode string) (*response.OrderResponse, error)
}

type checkoutService struct {
	repo  *repository.Repository
	db    database.PgxIface
	money *currency.Converter
	clock func() time.Time
	log   *zap.Logger
}

func NewCheckoutService(repo *repository.Repository, db database.PgxIface, money *currency.Converter, clock func() time.Time, log *zap.Logger) CheckoutService {
	return &checkoutService{
		repo:  repo,
		db:    db,
		money: money,
		clock: clock,
		log:   log.With(zap.String("service", "checkout")),
	}
}

type orderLine struct {
	productID uuid.UUID
	branchID  uuid.UUID
	quantity  int
}

// PlaceOrder deducts stock for every line and records the order in one
// transaction; any short line rolls the whole order back.
func (s *checkoutService) PlaceOrder(ctx context.Context, caller utils.Caller, req *request.PlaceOrderRequest) (*response.OrderResponse, error) {
	if err := validate(req); err != nil {
		s.log.Warn("Place order validation failed", zap.Error(err))
		return nil, err
	}

	lines, productIDs, err := mergeLines(req.Items)
	if err != nil {
		return nil, err
	}
	sortForLocking(lines)

	now := s.clock()
	order := &entity.Order{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		UserID:            caller.UserID,
		Status:            entity.OrderStatusPlaced,
		ShippingReference: req.ShippingReference,
	}

	var items []*entity.OrderLineItem
	err = database.RunInTx(ctx, s.db, func(tx pgx.Tx) error {
		products, err := s.repo.Product.FindLiveByIDs(ctx, tx, productIDs)
		if err != nil {
			return err
		}

		total := decimal.Zero
		items = make([]*entity.OrderLineItem, 0, len(lines))
		for _, line := range lines {
			product, ok := products[line.productID]
			if !ok {
				return utils.ErrNotFound("product " + line.productID.String() + " not found")
			}

			if err := s.repo.Inventory.DeductStock(ctx, tx, line.productID, line.branchID, line.quantity); err != nil {
				return err
			}

			total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(line.quantity))))
			items = append(items, &entity.OrderLineItem{
				BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: now},
				OrderID:    order.ID,
				ProductID:  line.productID,
				BranchID:   line.branchID,
				Quantity:   line.quantity,
				UnitPrice:  product.Price,
			})
		}
		order.TotalPrice = total

		if err := s.repo.Order.Create(ctx, tx, order); err != nil {
			return err
		}
		return s.repo.Order.CreateLineItems(ctx, tx, items)
	})
	if err != nil {
		s.log.Warn("Place order rolled back",
			zap.Error(err),
			zap.String("user_id", caller.UserID.String()),
		)
		return nil, asAppError(err, "failed to place order")
	}

	s.log.Info("Order placed",
		zap.String("order_id", order.ID.String()),
		zap.String("user_id", caller.UserID.String()),
		zap.Int("lines", len(items)),
		zap.String("total", order.TotalPrice.String()),
	)

	return s.toOrderResponse(order, items, ""), nil
}

func (s *checkoutService) GetOrder(ctx context.Context, caller utils.Caller, orderID, currencyCode string) (*response.OrderResponse, error) {
	id, err := parseID(orderID, "id")
	if err != nil {
		return nil, err
	}

	order, err := s.repo.Order.FindByID(ctx, id)
	if err != nil {
		return nil, utils.ErrUnexpected("failed to load order", err)
	}
	if order == nil {
		return nil, utils.ErrNotFound("order not found")
	}
	if order.UserID != caller.UserID && !caller.IsAdmin() {
		return nil, utils.ErrForbidden("this order belongs to another user")
	}

	items, err := s.repo.Order.FindLineItems(ctx, id)
	if err != nil {
		return nil, utils.ErrUnexpected("failed to load order items", err)
	}

	return s.toOrderResponse(order, items, currencyCode), nil
}

// mergeLines folds repeated (product, branch) pairs into one line, keeping
// first-seen order.
func mergeLines(items []request.OrderItemRequest) ([]orderLine, []uuid.UUID, error) {
	type key struct{ product, branch uuid.UUID }

	var (
		lines      []orderLine
		productIDs []uuid.UUID
		index      = make(map[key]int)
		seen       = make(map[uuid.UUID]bool)
	)
	for _, item := range items {
		productID, err := parseID(item.ProductID, "product_id")
		if err != nil {
			return nil, nil, err
		}
		branchID, err := parseID(item.BranchID, "branch_id")
		if err != nil {
			return nil, nil, err
		}

		k := key{productID, branchID}
		if i, ok := index[k]; ok {
			lines[i].quantity += item.Quantity
			continue
		}
		index[k] = len(lines)
		lines = append(lines, orderLine{productID: productID, branchID: branchID, quantity: item.Quantity})

		if !seen[productID] {
			seen[productID] = true
			productIDs = append(productIDs, productID)
		}
	}
	return lines, productIDs, nil
}

// sortForLocking orders lines by (branch, product) so every order takes
// inventory row locks in the same sequence.
func sortForLocking(lines []orderLine) {
	slices.SortFunc(lines, func(a, b orderLine) int {
		if c := bytes.Compare(a.branchID[:], b.branchID[:]); c != 0 {
			return c
		}
		return bytes.Compare(a.productID[:], b.productID[:])
	})
}

func (s *checkoutService) toOrderResponse(order *entity.Order, items []*entity.OrderLineItem, currencyCode string) *response.OrderResponse {
	resp := &response.OrderResponse{
		ID:                order.ID.String(),
		Status:            string(order.Status),
		Total:             s.money.Display(order.TotalPrice, currencyCode),
		ShippingReference: order.ShippingReference,
		Items:             make([]response.OrderItemResponse, 0, len(items)),
		CreatedAt:         order.CreatedAt,
	}
	for _, item := range items {
		resp.Items = append(resp.Items, response.OrderItemResponse{
			ProductID: item.ProductID.String(),
			BranchID:  item.BranchID.String(),
			Quantity:  item.Quantity,
			UnitPrice: s.money.Display(item.UnitPrice, currencyCode),
		})
	}
	return resp
}
