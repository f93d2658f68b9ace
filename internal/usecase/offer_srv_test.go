package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"band-market/internal/data/entity"
	"band-market/internal/data/repository"
	"band-market/internal/data/repository/mocks"
	"band-market/internal/dto/request"
	"band-market/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var offerNow = time.Date(2026, 5, 10, 18, 30, 0, 0, time.UTC)

func offerClock() time.Time { return offerNow }

// offerTable is an in-memory OfferRepository whose conditional writes are
// atomic under one mutex, the way a single UPDATE/DELETE is in the store.
type offerTable struct {
	mu       sync.Mutex
	offers   map[uuid.UUID]*entity.BookingOffer
	managers map[uuid.UUID]uuid.UUID // band -> manager
}

func newOfferTable() *offerTable {
	return &offerTable{
		offers:   make(map[uuid.UUID]*entity.BookingOffer),
		managers: make(map[uuid.UUID]uuid.UUID),
	}
}

func (t *offerTable) Create(ctx context.Context, offer *entity.BookingOffer) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	cp := *offer
	t.offers[offer.ID] = &cp
	return nil
}

func (t *offerTable) FindByID(ctx context.Context, id uuid.UUID) (*entity.BookingOffer, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	o, ok := t.offers[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (t *offerTable) FindByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entity.BookingOffer, error) {
	return nil, nil
}

func (t *offerTable) CountByUserID(ctx context.Context, userID uuid.UUID) (int64, error) {
	return 0, nil
}

func (t *offerTable) FindByBandID(ctx context.Context, bandID uuid.UUID, limit, offset int) ([]*entity.BookingOffer, error) {
	return nil, nil
}

func (t *offerTable) CountByBandID(ctx context.Context, bandID uuid.UUID) (int64, error) {
	return 0, nil
}

func (t *offerTable) ResolvePending(ctx context.Context, offerID, managerID uuid.UUID, anyBand bool, status entity.OfferStatus) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	o, ok := t.offers[offerID]
	if !ok || o.Status != entity.OfferStatusPending {
		return false, nil
	}
	if !anyBand && t.managers[o.BandID] != managerID {
		return false, nil
	}
	o.Status = status
	return true, nil
}

func (t *offerTable) DeletePending(ctx context.Context, offerID, userID uuid.UUID) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	o, ok := t.offers[offerID]
	if !ok || o.UserID != userID || o.Status != entity.OfferStatusPending {
		return false, nil
	}
	delete(t.offers, offerID)
	return true, nil
}

func (t *offerTable) Inspect(ctx context.Context, offerID, callerID uuid.UUID) (*repository.OfferAccess, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	o, ok := t.offers[offerID]
	if !ok {
		return nil, nil
	}
	return &repository.OfferAccess{
		Status:    o.Status,
		IsOfferer: o.UserID == callerID,
		IsManager: t.managers[o.BandID] == callerID,
	}, nil
}

type offerFixture struct {
	svc      OfferService
	table    *offerTable
	bands    *mocks.BandRepository
	band     *entity.Band
	customer utils.Caller
	manager  utils.Caller
}

func newOfferFixture() *offerFixture {
	table := newOfferTable()
	bands := new(mocks.BandRepository)

	manager := utils.Caller{UserID: uuid.New(), Role: utils.RoleManager}
	band := &entity.Band{Base: entity.Base{ID: uuid.New()}, Name: "Night Shift", ManagerID: manager.UserID}
	table.managers[band.ID] = manager.UserID
	bands.On("FindByID", mock.Anything, band.ID).Return(band, nil).Maybe()

	repo := &repository.Repository{Band: bands, Offer: table}
	return &offerFixture{
		svc:      NewOfferService(repo, newMoney(), offerClock, zap.NewNop()),
		table:    table,
		bands:    bands,
		band:     band,
		customer: utils.Caller{UserID: uuid.New(), Role: utils.RoleCustomer},
		manager:  manager,
	}
}

func (f *offerFixture) offerRequest(date string, price string) *request.CreateOfferRequest {
	return &request.CreateOfferRequest{
		BandID:      f.band.ID.String(),
		BookingDate: date,
		Description: "Wedding, two sets",
		Price:       decimal.RequireFromString(price),
	}
}

func (f *offerFixture) pendingOffer(t *testing.T) uuid.UUID {
	t.Helper()
	resp, err := f.svc.CreateOffer(context.Background(), f.customer, f.offerRequest("2026-05-20", "50000"))
	require.NoError(t, err)
	return uuid.MustParse(resp.ID)
}

func TestOffer_CreateOffer(t *testing.T) {
	ctx := context.Background()

	t.Run("pending with canonical price", func(t *testing.T) {
		f := newOfferFixture()

		resp, err := f.svc.CreateOffer(ctx, f.customer, f.offerRequest("2026-05-20", "50000"))
		require.NoError(t, err)
		assert.Equal(t, "pending", resp.Status)
		assert.Equal(t, "2026-05-20", resp.BookingDate)
		assert.Equal(t, offerNow, resp.DateCreated)

		stored, _ := f.table.FindByID(ctx, uuid.MustParse(resp.ID))
		require.NotNil(t, stored)
		assert.True(t, decimal.RequireFromString("50000").Equal(stored.Price))
		assert.Equal(t, f.customer.UserID, stored.UserID)
	})

	t.Run("foreign price is stored canonical", func(t *testing.T) {
		f := newOfferFixture()
		req := f.offerRequest("2026-05-11", "46000")
		req.Currency = "EUR"

		resp, err := f.svc.CreateOffer(ctx, f.customer, req)
		require.NoError(t, err)

		stored, _ := f.table.FindByID(ctx, uuid.MustParse(resp.ID))
		assert.True(t, decimal.RequireFromString("50000").Equal(stored.Price), "got %s", stored.Price)
	})

	rejections := map[string]*request.CreateOfferRequest{
		"today":      {BookingDate: "2026-05-10", Price: decimal.RequireFromString("100")},
		"past":       {BookingDate: "2026-01-01", Price: decimal.RequireFromString("100")},
		"zero price": {BookingDate: "2026-06-01", Price: decimal.Zero},
		"sub-cent":   {BookingDate: "2026-06-01", Price: decimal.RequireFromString("0.004")},
		"bad date":   {BookingDate: "10/06/2026", Price: decimal.RequireFromString("100")},
	}
	for name, req := range rejections {
		t.Run(name, func(t *testing.T) {
			f := newOfferFixture()
			req.BandID = f.band.ID.String()
			req.Description = "gig"

			_, err := f.svc.CreateOffer(ctx, f.customer, req)
			assert.True(t, utils.IsKind(err, utils.KindValidation), "got %v", err)
			assert.Empty(t, f.table.offers)
		})
	}

	t.Run("band missing", func(t *testing.T) {
		f := newOfferFixture()
		missing := uuid.New()
		f.bands.On("FindByID", mock.Anything, missing).Return(nil, nil)

		req := f.offerRequest("2026-06-01", "100")
		req.BandID = missing.String()

		_, err := f.svc.CreateOffer(ctx, f.customer, req)
		assert.True(t, utils.IsKind(err, utils.KindNotFound))
	})
}

func TestOffer_AcceptThenRetractIsRefused(t *testing.T) {
	f := newOfferFixture()
	ctx := context.Background()
	offerID := f.pendingOffer(t)

	require.NoError(t, f.svc.AcceptOffer(ctx, f.manager, offerID.String()))

	stored, _ := f.table.FindByID(ctx, offerID)
	assert.Equal(t, entity.OfferStatusAccepted, stored.Status)

	err := f.svc.RetractOffer(ctx, f.customer, offerID.String())
	assert.True(t, utils.IsKind(err, utils.KindConflict))

	stored, _ = f.table.FindByID(ctx, offerID)
	require.NotNil(t, stored, "a terminal offer is never deleted")
	assert.Equal(t, entity.OfferStatusAccepted, stored.Status)
}

func TestOffer_ConcurrentAcceptAndReject(t *testing.T) {
	for i := 0; i < 50; i++ {
		f := newOfferFixture()
		ctx := context.Background()
		offerID := f.pendingOffer(t)

		var (
			wg   sync.WaitGroup
			errs = make([]error, 2)
		)
		wg.Add(2)
		go func() {
			defer wg.Done()
			errs[0] = f.svc.AcceptOffer(ctx, f.manager, offerID.String())
		}()
		go func() {
			defer wg.Done()
			errs[1] = f.svc.RejectOffer(ctx, f.manager, offerID.String())
		}()
		wg.Wait()

		succeeded := 0
		for _, err := range errs {
			if err == nil {
				succeeded++
				continue
			}
			assert.True(t, utils.IsKind(err, utils.KindConflict), "loser must see a conflict, got %v", err)
		}
		assert.Equal(t, 1, succeeded)

		stored, _ := f.table.FindByID(ctx, offerID)
		assert.Contains(t, []entity.OfferStatus{entity.OfferStatusAccepted, entity.OfferStatusRejected}, stored.Status)
		if errs[0] == nil {
			assert.Equal(t, entity.OfferStatusAccepted, stored.Status)
		} else {
			assert.Equal(t, entity.OfferStatusRejected, stored.Status)
		}
	}
}

func TestOffer_ResolveAuthorization(t *testing.T) {
	ctx := context.Background()

	t.Run("non manager", func(t *testing.T) {
		f := newOfferFixture()
		offerID := f.pendingOffer(t)

		err := f.svc.AcceptOffer(ctx, f.customer, offerID.String())
		assert.True(t, utils.IsKind(err, utils.KindAuthorization))

		stored, _ := f.table.FindByID(ctx, offerID)
		assert.Equal(t, entity.OfferStatusPending, stored.Status)
	})

	t.Run("admin resolves any band", func(t *testing.T) {
		f := newOfferFixture()
		offerID := f.pendingOffer(t)
		admin := utils.Caller{UserID: uuid.New(), Role: utils.RoleAdmin}

		require.NoError(t, f.svc.RejectOffer(ctx, admin, offerID.String()))
		stored, _ := f.table.FindByID(ctx, offerID)
		assert.Equal(t, entity.OfferStatusRejected, stored.Status)
	})

	t.Run("missing offer", func(t *testing.T) {
		f := newOfferFixture()
		err := f.svc.AcceptOffer(ctx, f.manager, uuid.NewString())
		assert.True(t, utils.IsKind(err, utils.KindNotFound))
	})

	t.Run("malformed id", func(t *testing.T) {
		f := newOfferFixture()
		err := f.svc.AcceptOffer(ctx, f.manager, "not-a-uuid")
		assert.True(t, utils.IsKind(err, utils.KindValidation))
	})
}

func TestOffer_RetractOffer(t *testing.T) {
	ctx := context.Background()

	t.Run("offerer retracts pending", func(t *testing.T) {
		f := newOfferFixture()
		offerID := f.pendingOffer(t)

		require.NoError(t, f.svc.RetractOffer(ctx, f.customer, offerID.String()))
		stored, _ := f.table.FindByID(ctx, offerID)
		assert.Nil(t, stored)

		err := f.svc.RetractOffer(ctx, f.customer, offerID.String())
		assert.True(t, utils.IsKind(err, utils.KindNotFound))
	})

	t.Run("someone else", func(t *testing.T) {
		f := newOfferFixture()
		offerID := f.pendingOffer(t)

		err := f.svc.RetractOffer(ctx, f.manager, offerID.String())
		assert.True(t, utils.IsKind(err, utils.KindAuthorization))
	})
}

func TestOffer_StoreFailureIsUnexpected(t *testing.T) {
	offers := new(mocks.OfferRepository)
	svc := NewOfferService(&repository.Repository{Offer: offers}, newMoney(), offerClock, zap.NewNop())
	caller := utils.Caller{UserID: uuid.New(), Role: utils.RoleManager}
	offerID := uuid.New()

	offers.On("ResolvePending", mock.Anything, offerID, caller.UserID, false, entity.OfferStatusAccepted).
		Return(false, errors.New("connection refused"))

	err := svc.AcceptOffer(context.Background(), caller, offerID.String())
	assert.True(t, utils.IsKind(err, utils.KindUnexpected))
	offers.AssertNotCalled(t, "Inspect", mock.Anything, mock.Anything, mock.Anything)
}

func TestOffer_ListBandOffersRequiresManager(t *testing.T) {
	f := newOfferFixture()

	_, err := f.svc.ListBandOffers(context.Background(), f.customer, f.band.ID.String(), &request.PaginatedRequest{Page: 1, PerPage: 10}, "")
	assert.True(t, utils.IsKind(err, utils.KindAuthorization))

	page, err := f.svc.ListBandOffers(context.Background(), f.manager, f.band.ID.String(), &request.PaginatedRequest{Page: 1, PerPage: 10}, "")
	require.NoError(t, err)
	assert.Empty(t, page.Data)
}
