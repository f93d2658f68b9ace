package usecase

import (
	"context"
	"time"

	"band-market/internal/currency"
	"band-market/internal/data/entity"
	"band-market/internal/data/repository"
	"band-market/internal/dto/request"
	"band-market/internal/dto/response"
	"band-market/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const bookingDateLayout = "2006-01-02"

type OfferService interface {
	// Customer endpoints
	CreateOffer(ctx context.Context, caller utils.Caller, req *request.CreateOfferRequest) (*response.OfferResponse, error)
	RetractOffer(ctx context.Context, caller utils.Caller, offerID string) error
	ListMyOffers(ctx context.Context, caller utils.Caller, req *request.PaginatedRequest, currencyCode string) (*response.PaginatedResponse[response.OfferResponse], error)

	// Band manager endpoints
	AcceptOffer(ctx context.Context, caller utils.Caller, offerID string) error
	RejectOffer(ctx context.Context, caller utils.Caller, offerID string) error
	ListBandOffers(ctx context.Context, caller utils.Caller, bandID string, req *request.PaginatedRequest, currencyCode string) (*response.PaginatedResponse[response.OfferResponse], error)
}

type offerService struct {
	repo  *repository.Repository
	money *currency.Converter
	clock func() time.Time
	log   *zap.Logger
}

func NewOfferService(repo *repository.Repository, money *currency.Converter, clock func() time.Time, log *zap.Logger) OfferService {
	return &offerService{
		repo:  repo,
		money: money,
		clock: clock,
		log:   log.With(zap.String("service", "offer")),
	}
}

func (s *offerService) CreateOffer(ctx context.Context, caller utils.Caller, req *request.CreateOfferRequest) (*response.OfferResponse, error) {
	if err := validate(req); err != nil {
		s.log.Warn("Create offer validation failed", zap.Error(err))
		return nil, err
	}

	bandID, err := parseID(req.BandID, "band_id")
	if err != nil {
		return nil, err
	}

	now := s.clock()
	bookingDate, err := time.ParseInLocation(bookingDateLayout, req.BookingDate, now.Location())
	if err != nil {
		return nil, utils.ErrValidationFields(map[string]string{
			"booking_date": "Booking date must be formatted as 2006-01-02",
		})
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if !bookingDate.After(today) {
		return nil, utils.ErrValidationFields(map[string]string{
			"booking_date": "Booking date must be after today",
		})
	}

	price, err := s.money.ToCanonical(req.Price, req.Currency)
	if err != nil {
		return nil, err
	}
	if !price.IsPositive() {
		return nil, utils.ErrValidationFields(map[string]string{
			"price": "Price must be greater than 0",
		})
	}

	band, err := s.repo.Band.FindByID(ctx, bandID)
	if err != nil {
		return nil, utils.ErrUnexpected("failed to load band", err)
	}
	if band == nil {
		return nil, utils.ErrNotFound("band not found")
	}

	offer := &entity.BookingOffer{
		ID:          uuid.New(),
		UserID:      caller.UserID,
		BandID:      bandID,
		BookingDate: bookingDate,
		Description: req.Description,
		Price:       price,
		Status:      entity.OfferStatusPending,
		DateCreated: now,
		UpdatedAt:   now,
	}

	if err := s.repo.Offer.Create(ctx, offer); err != nil {
		return nil, asAppError(err, "failed to create offer")
	}

	s.log.Info("Offer created",
		zap.String("offer_id", offer.ID.String()),
		zap.String("band_id", bandID.String()),
		zap.String("user_id", caller.UserID.String()),
		zap.String("booking_date", req.BookingDate),
	)

	return s.toOfferResponse(offer, ""), nil
}

func (s *offerService) AcceptOffer(ctx context.Context, caller utils.Caller, offerID string) error {
	return s.resolve(ctx, caller, offerID, entity.OfferStatusAccepted)
}

func (s *offerService) RejectOffer(ctx context.Context, caller utils.Caller, offerID string) error {
	return s.resolve(ctx, caller, offerID, entity.OfferStatusRejected)
}

// resolve performs the transition in one conditional write. Only when it
// matches nothing is the offer read, and only to pick the right error.
func (s *offerService) resolve(ctx context.Context, caller utils.Caller, offerID string, status entity.OfferStatus) error {
	id, err := parseID(offerID, "id")
	if err != nil {
		return err
	}

	ok, err := s.repo.Offer.ResolvePending(ctx, id, caller.UserID, caller.IsAdmin(), status)
	if err != nil {
		return utils.ErrUnexpected("failed to update offer", err)
	}
	if ok {
		s.log.Info("Offer resolved",
			zap.String("offer_id", id.String()),
			zap.String("status", string(status)),
			zap.String("by", caller.UserID.String()),
		)
		return nil
	}

	access, err := s.repo.Offer.Inspect(ctx, id, caller.UserID)
	if err != nil {
		return utils.ErrUnexpected("failed to load offer", err)
	}
	switch {
	case access == nil:
		return utils.ErrNotFound("offer not found")
	case !access.IsManager && !caller.IsAdmin():
		s.log.Warn("Offer resolution by non-manager",
			zap.String("offer_id", id.String()),
			zap.String("user_id", caller.UserID.String()),
		)
		return utils.ErrForbidden("you do not manage this band")
	default:
		s.log.Warn("Offer already resolved",
			zap.String("offer_id", id.String()),
			zap.String("current", string(access.Status)),
			zap.String("requested", string(status)),
		)
		return utils.ErrConflict("offer is already " + string(access.Status))
	}
}

// RetractOffer hard-deletes a pending offer owned by the caller.
func (s *offerService) RetractOffer(ctx context.Context, caller utils.Caller, offerID string) error {
	id, err := parseID(offerID, "id")
	if err != nil {
		return err
	}

	ok, err := s.repo.Offer.DeletePending(ctx, id, caller.UserID)
	if err != nil {
		return utils.ErrUnexpected("failed to retract offer", err)
	}
	if ok {
		s.log.Info("Offer retracted",
			zap.String("offer_id", id.String()),
			zap.String("user_id", caller.UserID.String()),
		)
		return nil
	}

	access, err := s.repo.Offer.Inspect(ctx, id, caller.UserID)
	if err != nil {
		return utils.ErrUnexpected("failed to load offer", err)
	}
	switch {
	case access == nil:
		return utils.ErrNotFound("offer not found")
	case !access.IsOfferer:
		return utils.ErrForbidden("only the offerer can retract an offer")
	default:
		return utils.ErrConflict("offer is already " + string(access.Status) + " and can no longer be retracted")
	}
}

func (s *offerService) ListMyOffers(ctx context.Context, caller utils.Caller, req *request.PaginatedRequest, currencyCode string) (*response.PaginatedResponse[response.OfferResponse], error) {
	offers, err := s.repo.Offer.FindByUserID(ctx, caller.UserID, req.Limit(), req.Offset())
	if err != nil {
		return nil, utils.ErrUnexpected("failed to list offers", err)
	}

	total, err := s.repo.Offer.CountByUserID(ctx, caller.UserID)
	if err != nil {
		return nil, utils.ErrUnexpected("failed to count offers", err)
	}

	return s.toPage(offers, req, total, currencyCode), nil
}

func (s *offerService) ListBandOffers(ctx context.Context, caller utils.Caller, bandID string, req *request.PaginatedRequest, currencyCode string) (*response.PaginatedResponse[response.OfferResponse], error) {
	id, err := parseID(bandID, "id")
	if err != nil {
		return nil, err
	}

	band, err := s.repo.Band.FindByID(ctx, id)
	if err != nil {
		return nil, utils.ErrUnexpected("failed to load band", err)
	}
	if band == nil {
		return nil, utils.ErrNotFound("band not found")
	}
	if band.ManagerID != caller.UserID && !caller.IsAdmin() {
		return nil, utils.ErrForbidden("you do not manage this band")
	}

	offers, err := s.repo.Offer.FindByBandID(ctx, id, req.Limit(), req.Offset())
	if err != nil {
		return nil, utils.ErrUnexpected("failed to list offers", err)
	}

	total, err := s.repo.Offer.CountByBandID(ctx, id)
	if err != nil {
		return nil, utils.ErrUnexpected("failed to count offers", err)
	}

	return s.toPage(offers, req, total, currencyCode), nil
}

func (s *offerService) toPage(offers []*entity.BookingOffer, req *request.PaginatedRequest, total int64, currencyCode string) *response.PaginatedResponse[response.OfferResponse] {
	data := make([]response.OfferResponse, 0, len(offers))
	for _, o := range offers {
		data = append(data, *s.toOfferResponse(o, currencyCode))
	}
	return response.NewPaginatedResponse(data, req.Page, req.Limit(), total)
}

func (s *offerService) toOfferResponse(o *entity.BookingOffer, currencyCode string) *response.OfferResponse {
	return &response.OfferResponse{
		ID:          o.ID.String(),
		UserID:      o.UserID.String(),
		BandID:      o.BandID.String(),
		BookingDate: o.BookingDate.Format(bookingDateLayout),
		Description: o.Description,
		Price:       s.money.Display(o.Price, currencyCode),
		Status:      string(o.Status),
		DateCreated: o.DateCreated,
	}
}
