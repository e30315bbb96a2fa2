package shop

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/swaroop-public12/dresscatalogue/internal/auth"
	"github.com/swaroop-public12/dresscatalogue/internal/catalog"
	"github.com/swaroop-public12/dresscatalogue/internal/images"
	"github.com/swaroop-public12/dresscatalogue/internal/models"
)

var (
	ErrUnauthorized = errors.New("shop: admin session required")
	ErrValidation   = errors.New("shop: invalid input")
)

// AssetPublisher is the blob-store side of the add-item flow.
type AssetPublisher interface {
	FolderSize(ctx context.Context) int64
	Publish(ctx context.Context, data []byte, filename string) (string, error)
}

// Service coordinates the catalogue, the image pipeline and the asset
// publisher. Admin operations require an active session.
type Service struct {
	Catalog        *catalog.Adapter
	Publisher      AssetPublisher
	Pipeline       *images.Pipeline
	PlaceholderURL string
	MaxFolderBytes int64
}

// AddItemInput is the validated form content for a new catalogue item.
type AddItemInput struct {
	Name     string
	Price    float64
	Discount float64
	Sold     bool
	Image    []byte
}

// Items returns the catalogue for display.
func (s *Service) Items(ctx context.Context) ([]models.CatalogueItem, error) {
	return s.Catalog.LoadAll(ctx)
}

// Like bumps an item's likes counter. Public, no session needed.
func (s *Service) Like(ctx context.Context, id string) (bool, error) {
	return s.Catalog.Like(ctx, id)
}

// AddItem runs the admin add-item flow: validate, compress the photo, gate
// on the images-folder quota, publish (or fall back to the placeholder URL),
// assign the next id and append the row.
//
// There is no rollback: if the append fails after a successful publish, the
// uploaded blob stays behind and the returned error names it.
func (s *Service) AddItem(ctx context.Context, sess *auth.Session, in AddItemInput) (*models.CatalogueItem, error) {
	if !sess.Active(time.Now()) {
		return nil, ErrUnauthorized
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	compressed, err := s.Pipeline.Process(in.Image)
	if err != nil {
		return nil, err
	}

	imageURL := s.PlaceholderURL
	published := ""
	if !s.overQuota(ctx, int64(len(compressed))) {
		filename := uuid.New().String() + ".jpg"
		url, err := s.Publisher.Publish(ctx, compressed, filename)
		if err != nil {
			return nil, err
		}
		imageURL = url
		published = url
	}

	maxID, err := s.Catalog.MaxID(ctx)
	if err != nil {
		return nil, appendFailure(err, published)
	}

	item := &models.CatalogueItem{
		ID:            strconv.Itoa(maxID + 1),
		Name:          strings.TrimSpace(in.Name),
		Price:         in.Price,
		Discount:      in.Discount,
		ExpectedPrice: ExpectedPrice(in.Price, in.Discount),
		ImageURL:      imageURL,
		Sold:          in.Sold,
		Likes:         0,
	}

	fields := map[string]string{
		"id":             item.ID,
		"name":           item.Name,
		"price":          strconv.FormatFloat(item.Price, 'f', -1, 64),
		"discount":       strconv.FormatFloat(item.Discount, 'f', -1, 64),
		"expected_price": strconv.FormatInt(item.ExpectedPrice, 10),
		"image_url":      item.ImageURL,
		"sold":           soldCell(item.Sold),
		"likes":          "0",
	}
	if err := s.Catalog.Append(ctx, fields); err != nil {
		return nil, appendFailure(err, published)
	}

	slog.Info("Catalogue item added", "id", item.ID, "name", item.Name, "image_url", item.ImageURL)
	return item, nil
}

// SetSold flips an item's sold flag. Returns false when the id is unknown.
func (s *Service) SetSold(ctx context.Context, sess *auth.Session, id string, sold bool) (bool, error) {
	if !sess.Active(time.Now()) {
		return false, ErrUnauthorized
	}
	return s.Catalog.UpdateByID(ctx, id, map[string]string{"sold": soldCell(sold)})
}

// overQuota is the pre-upload gate: would the images folder exceed its
// ceiling after this upload lands? A failed size listing reads as 0 used,
// so the gate fails open on transport trouble.
func (s *Service) overQuota(ctx context.Context, upload int64) bool {
	used := s.Publisher.FolderSize(ctx)
	if used+upload > s.MaxFolderBytes {
		slog.Warn("Images folder quota reached, using placeholder image",
			"used", used, "upload", upload, "max", s.MaxFolderBytes)
		return true
	}
	return false
}

// ExpectedPrice is the discounted price, rounded to whole currency units.
func ExpectedPrice(price, discount float64) int64 {
	return int64(math.Round(price * (1 - discount/100)))
}

func (in AddItemInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if len(in.Image) == 0 {
		return fmt.Errorf("%w: image is required", ErrValidation)
	}
	if in.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrValidation)
	}
	if in.Discount < 0 || in.Discount > 100 {
		return fmt.Errorf("%w: discount must be between 0 and 100", ErrValidation)
	}
	return nil
}

func soldCell(sold bool) string {
	if sold {
		return "TRUE"
	}
	return "FALSE"
}

// appendFailure keeps the uploaded blob visible in the error so an operator
// can clean it up; nothing deletes it automatically.
func appendFailure(err error, published string) error {
	if published == "" {
		return err
	}
	return fmt.Errorf("append after publishing %s: %w", published, err)
}
