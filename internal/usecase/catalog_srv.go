package usecase

import (
	"context"
	"time"

	"band-market/internal/currency"
	"band-market/internal/data/entity"
	"band-market/internal/data/repository"
	"band-market/internal/dto/request"
	"band-market/internal/dto/response"
	"band-market/pkg/database"
	"band-market/pkg/storage"
	"band-market/pkg/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type CatalogService interface {
	// Manager endpoints
	CreateProduct(ctx context.Context, caller utils.Caller, req *request.CreateProductRequest, images [][]byte) (*response.ProductResponse, error)
	UpdateProduct(ctx context.Context, caller utils.Caller, productID string, req *request.UpdateProductRequest, newImages [][]byte) (*response.ProductResponse, error)
	UpdateStockOnly(ctx context.Context, caller utils.Caller, productID string, req *request.UpdateStockRequest) error
	SoftDeleteProduct(ctx context.Context, caller utils.Caller, productID string) error

	// Public endpoints
	GetProduct(ctx context.Context, productID, currencyCode string) (*response.ProductResponse, error)
	ListProducts(ctx context.Context, req *request.ProductListRequest) (*response.PaginatedResponse[response.ProductResponse], error)
}

type catalogService struct {
	repo    *repository.Repository
	db      database.PgxIface
	money   *currency.Converter
	store   storage.ObjectStore
	storage utils.StorageConfig
	clock   func() time.Time
	log     *zap.Logger
}

func NewCatalogService(
	repo *repository.Repository,
	db database.PgxIface,
	money *currency.Converter,
	store storage.ObjectStore,
	storageCfg utils.StorageConfig,
	log *zap.Logger,
) CatalogService {
	if storageCfg.UploadWorkers < 1 {
		storageCfg.UploadWorkers = 4
	}
	return &catalogService{
		repo:    repo,
		db:      db,
		money:   money,
		store:   store,
		storage: storageCfg,
		clock:   time.Now,
		log:     log.With(zap.String("service", "catalog")),
	}
}

func (s *catalogService) CreateProduct(ctx context.Context, caller utils.Caller, req *request.CreateProductRequest, images [][]byte) (*response.ProductResponse, error) {
	if err := validate(req); err != nil {
		s.log.Warn("Create product validation failed", zap.Error(err))
		return nil, err
	}

	bandID, err := parseID(req.BandID, "band_id")
	if err != nil {
		return nil, err
	}
	branchID, err := parseID(req.BranchID, "branch_id")
	if err != nil {
		return nil, err
	}

	price, err := s.canonicalPrice(req.Price, req.Currency)
	if err != nil {
		return nil, err
	}

	band, err := s.repo.Band.FindByID(ctx, bandID)
	if err != nil {
		return nil, utils.ErrUnexpected("failed to load band", err)
	}
	if band == nil {
		return nil, utils.ErrNotFound("band not found")
	}
	if band.ManagerID != caller.UserID && !caller.IsAdmin() {
		s.log.Warn("Create product by non-manager",
			zap.String("band_id", bandID.String()),
			zap.String("user_id", caller.UserID.String()),
		)
		return nil, utils.ErrForbidden("you do not manage this band")
	}

	// storage is outside the transaction; a failed image is skipped
	uploaded := s.uploadImages(ctx, images, "products/"+bandID.String())

	now := s.clock()
	product := &entity.Product{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		BandID:      bandID,
		Name:        req.Name,
		Description: req.Description,
		Price:       price,
		Category:    req.Category,
		Images:      s.withDefaultImage(uploaded),
	}

	var quantity int
	err = database.RunInTx(ctx, s.db, func(tx pgx.Tx) error {
		if err := s.repo.Product.Create(ctx, tx, product); err != nil {
			return err
		}
		added, err := s.repo.Inventory.AddStock(ctx, tx, product.ID, branchID, *req.Stock)
		quantity = added
		return err
	})
	if err != nil {
		s.log.Error("Create product rolled back",
			zap.Error(err),
			zap.String("band_id", bandID.String()),
		)
		s.deleteImages(ctx, uploaded)
		return nil, asAppError(err, "failed to create product")
	}

	s.log.Info("Product created",
		zap.String("product_id", product.ID.String()),
		zap.String("band_id", bandID.String()),
		zap.Int("images", len(uploaded)),
		zap.Int("stock", quantity),
	)

	inventory := []*entity.InventoryRecord{{BranchID: branchID, ProductID: product.ID, Quantity: quantity}}
	return s.toProductResponse(product, inventory, ""), nil
}

func (s *catalogService) UpdateProduct(ctx context.Context, caller utils.Caller, productID string, req *request.UpdateProductRequest, newImages [][]byte) (*response.ProductResponse, error) {
	if err := validate(req); err != nil {
		s.log.Warn("Update product validation failed", zap.Error(err))
		return nil, err
	}

	id, err := parseID(productID, "id")
	if err != nil {
		return nil, err
	}
	branchID, err := parseID(req.BranchID, "branch_id")
	if err != nil {
		return nil, err
	}

	price, err := s.canonicalPrice(req.Price, req.Currency)
	if err != nil {
		return nil, err
	}

	product, err := s.authorizeProduct(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	uploaded := s.uploadImages(ctx, newImages, "products/"+product.BandID.String())

	updated := *product
	updated.Name = req.Name
	updated.Description = req.Description
	updated.Price = price
	updated.Category = req.Category
	updated.UpdatedAt = s.clock()

	// the image set is decided against the locked row, not the read above
	var previous []string
	err = database.RunInTx(ctx, s.db, func(tx pgx.Tx) error {
		current, err := s.repo.Product.LockImages(ctx, tx, id)
		if err != nil {
			return err
		}
		previous = current

		final := append(s.keptImages(current, req.KeptImages, req.RemovedImages), uploaded...)
		updated.Images = s.withDefaultImage(final)

		if err := s.repo.Product.Update(ctx, tx, &updated); err != nil {
			return err
		}
		return s.repo.Inventory.SetStock(ctx, tx, id, branchID, *req.Stock)
	})
	if err != nil {
		s.log.Error("Update product rolled back",
			zap.Error(err),
			zap.String("product_id", id.String()),
		)
		s.deleteImages(ctx, uploaded)
		return nil, asAppError(err, "failed to update product")
	}

	// dropped images are deleted only once the new set is committed
	s.deleteImages(ctx, s.droppedImages(previous, updated.Images))

	s.log.Info("Product updated",
		zap.String("product_id", id.String()),
		zap.Int("images", len(updated.Images)),
		zap.Int("stock", *req.Stock),
	)

	inventory := []*entity.InventoryRecord{{BranchID: branchID, ProductID: id, Quantity: *req.Stock}}
	return s.toProductResponse(&updated, inventory, ""), nil
}

func (s *catalogService) UpdateStockOnly(ctx context.Context, caller utils.Caller, productID string, req *request.UpdateStockRequest) error {
	if err := validate(req); err != nil {
		return err
	}

	id, err := parseID(productID, "id")
	if err != nil {
		return err
	}
	branchID, err := parseID(req.BranchID, "branch_id")
	if err != nil {
		return err
	}

	if _, err := s.authorizeProduct(ctx, caller, id); err != nil {
		return err
	}

	if err := s.repo.Inventory.SetStock(ctx, s.db, id, branchID, *req.Quantity); err != nil {
		return asAppError(err, "failed to update stock")
	}

	s.log.Info("Stock set",
		zap.String("product_id", id.String()),
		zap.String("branch_id", branchID.String()),
		zap.Int("quantity", *req.Quantity),
	)
	return nil
}

func (s *catalogService) SoftDeleteProduct(ctx context.Context, caller utils.Caller, productID string) error {
	id, err := parseID(productID, "id")
	if err != nil {
		return err
	}

	if _, err := s.authorizeProduct(ctx, caller, id); err != nil {
		return err
	}

	if err := s.repo.Product.SoftDelete(ctx, id); err != nil {
		return asAppError(err, "failed to delete product")
	}
	return nil
}

func (s *catalogService) GetProduct(ctx context.Context, productID, currencyCode string) (*response.ProductResponse, error) {
	id, err := parseID(productID, "id")
	if err != nil {
		return nil, err
	}

	product, err := s.repo.Product.FindByID(ctx, id)
	if err != nil {
		return nil, utils.ErrUnexpected("failed to load product", err)
	}
	if product == nil {
		return nil, utils.ErrNotFound("product not found")
	}

	inventory, err := s.repo.Inventory.ListByProduct(ctx, s.db, id)
	if err != nil {
		return nil, utils.ErrUnexpected("failed to load inventory", err)
	}

	return s.toProductResponse(product, inventory, currencyCode), nil
}

func (s *catalogService) ListProducts(ctx context.Context, req *request.ProductListRequest) (*response.PaginatedResponse[response.ProductResponse], error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	var filter repository.ProductFilter
	if req.BandID != "" {
		bandID, err := parseID(req.BandID, "band_id")
		if err != nil {
			return nil, err
		}
		filter.BandID = &bandID
	}
	if req.Category != "" {
		filter.Category = &req.Category
	}

	products, err := s.repo.Product.FindAll(ctx, req.Offset(), req.Limit(), filter)
	if err != nil {
		return nil, utils.ErrUnexpected("failed to list products", err)
	}

	total, err := s.repo.Product.CountAll(ctx, filter)
	if err != nil {
		return nil, utils.ErrUnexpected("failed to count products", err)
	}

	data := make([]response.ProductResponse, 0, len(products))
	for _, p := range products {
		data = append(data, *s.toProductResponse(p, nil, req.Currency))
	}

	return response.NewPaginatedResponse(data, req.Page, req.Limit(), total), nil
}

// authorizeProduct loads a live product and checks the caller manages its band
func (s *catalogService) authorizeProduct(ctx context.Context, caller utils.Caller, id uuid.UUID) (*entity.Product, error) {
	product, managerID, err := s.repo.Product.FindWithManager(ctx, id)
	if err != nil {
		return nil, utils.ErrUnexpected("failed to load product", err)
	}
	if product == nil {
		return nil, utils.ErrNotFound("product not found")
	}
	if managerID != caller.UserID && !caller.IsAdmin() {
		s.log.Warn("Product mutation by non-manager",
			zap.String("product_id", id.String()),
			zap.String("user_id", caller.UserID.String()),
		)
		return nil, utils.ErrForbidden("you do not manage this product's band")
	}
	return product, nil
}

func (s *catalogService) canonicalPrice(amount decimal.Decimal, code string) (decimal.Decimal, error) {
	price, err := s.money.ToCanonical(amount, code)
	if err != nil {
		return decimal.Zero, err
	}
	if !price.IsPositive() {
		return decimal.Zero, utils.ErrValidationFields(map[string]string{
			"price": "Price is too small for the canonical currency",
		})
	}
	return price, nil
}

// uploadImages uploads in parallel and returns the URLs that made it, in
// input order.
func (s *catalogService) uploadImages(ctx context.Context, images [][]byte, folder string) []string {
	if len(images) == 0 {
		return nil
	}

	urls := make([]string, len(images))
	var g errgroup.Group
	g.SetLimit(s.storage.UploadWorkers)

	for i, data := range images {
		g.Go(func() error {
			url, err := s.store.Upload(ctx, data, folder)
			if err != nil {
				s.log.Warn("Image upload failed, skipping",
					zap.Error(err),
					zap.Int("index", i),
					zap.String("folder", folder),
				)
				return nil
			}
			urls[i] = url
			return nil
		})
	}
	_ = g.Wait()

	uploaded := make([]string, 0, len(urls))
	for _, url := range urls {
		if url != "" {
			uploaded = append(uploaded, url)
		}
	}
	return uploaded
}

func (s *catalogService) deleteImages(ctx context.Context, urls []string) {
	for _, url := range urls {
		if url == s.storage.DefaultImageURL {
			continue
		}
		if err := s.store.Delete(ctx, url); err != nil {
			s.log.Warn("Image delete failed, leaving stale object",
				zap.Error(err),
				zap.String("url", url),
			)
		}
	}
}

// keptImages keeps the requested URLs that the product actually has, in
// request order, without duplicates, removed URLs or the placeholder. A nil
// request keeps every current image that is not removed.
func (s *catalogService) keptImages(current, requested, removed []string) []string {
	owned := make(map[string]bool, len(current))
	for _, url := range current {
		owned[url] = true
	}
	dropped := make(map[string]bool, len(removed))
	for _, url := range removed {
		dropped[url] = true
	}
	if requested == nil {
		requested = current
	}

	kept := make([]string, 0, len(requested))
	seen := make(map[string]bool, len(requested))
	for _, url := range requested {
		if !owned[url] || dropped[url] || seen[url] || url == s.storage.DefaultImageURL {
			continue
		}
		seen[url] = true
		kept = append(kept, url)
	}
	return kept
}

// droppedImages are the previous images missing from the final set
func (s *catalogService) droppedImages(previous, final []string) []string {
	inFinal := make(map[string]bool, len(final))
	for _, url := range final {
		inFinal[url] = true
	}

	var dropped []string
	for _, url := range previous {
		if !inFinal[url] && url != s.storage.DefaultImageURL {
			dropped = append(dropped, url)
		}
	}
	return dropped
}

func (s *catalogService) withDefaultImage(images []string) []string {
	if len(images) == 0 {
		return []string{s.storage.DefaultImageURL}
	}
	return images
}

func (s *catalogService) toProductResponse(p *entity.Product, inventory []*entity.InventoryRecord, currencyCode string) *response.ProductResponse {
	resp := &response.ProductResponse{
		ID:          p.ID.String(),
		BandID:      p.BandID.String(),
		Name:        p.Name,
		Description: p.Description,
		Price:       s.money.Display(p.Price, currencyCode),
		Category:    p.Category,
		Images:      p.Images,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}

	for _, rec := range inventory {
		resp.Inventory = append(resp.Inventory, response.InventoryResponse{
			BranchID: rec.BranchID.String(),
			Quantity: rec.Quantity,
		})
	}
	return resp
}
