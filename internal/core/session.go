package core

import (
	"catalogcore/pkg/domain"
)

// UploadTracker reports on asynchronous image uploads owned by an external
// collaborator. The session refuses to submit while any are outstanding.
type UploadTracker interface {
	PendingUploads() int
}

// NoUploads is an UploadTracker for sessions without attached uploads.
type NoUploads struct{}

// PendingUploads implements UploadTracker.
func (NoUploads) PendingUploads() int { return 0 }

// EditSession stages a product payload and its variant matrix for one edit.
// It is private to a single entity edit and never shared. The session
// survives a failed submit so the editor's input is not lost.
type EditSession struct {
	draft   domain.ProductPayload
	matrix  *VariantMatrix
	uploads UploadTracker
}

// NewEditSession starts a session for a new product.
func NewEditSession(uploads UploadTracker) *EditSession {
	if uploads == nil {
		uploads = NoUploads{}
	}
	return &EditSession{matrix: NewVariantMatrix(0), uploads: uploads}
}

// EditSessionFor starts a session pre-filled from an existing product.
func EditSessionFor(p domain.Product, uploads UploadTracker) *EditSession {
	if uploads == nil {
		uploads = NoUploads{}
	}
	return &EditSession{
		draft: domain.ProductPayload{
			Name:          p.Name,
			Slug:          p.Slug,
			Description:   p.Description,
			Price:         p.Price,
			ComparePrice:  p.ComparePrice,
			FreeShipping:  p.FreeShipping,
			FreeGift:      p.FreeGift,
			SKU:           p.SKU,
			CategoryID:    p.CategoryID,
			Brand:         p.Brand,
			MainImageURL:  p.MainImageURL,
			ImageURLs:     append([]string(nil), p.ImageURLs...),
			IsActive:      p.IsActive,
			IsNew:         p.IsNew,
			StockQuantity: p.StockQuantity,
		},
		matrix:  VariantMatrixFromProduct(p),
		uploads: uploads,
	}
}

// Draft returns a pointer to the staged payload for field edits.
func (s *EditSession) Draft() *domain.ProductPayload { return &s.draft }

// Matrix returns the session's variant price matrix.
func (s *EditSession) Matrix() *VariantMatrix { return s.matrix }

// SetDraftPrice updates the draft price and keeps the matrix fallback in sync.
func (s *EditSession) SetDraftPrice(price float64) {
	s.draft.Price = price
	s.matrix.SetBasePrice(price)
}

// Submit merges the flattened matrix into the payload and validates it. It
// fails with ErrUploadInProgress while an associated upload is outstanding,
// leaving the session intact for a retry.
func (s *EditSession) Submit() (domain.ProductPayload, error) {
	if s.uploads.PendingUploads() > 0 {
		return domain.ProductPayload{}, domain.ErrUploadInProgress
	}
	flat := s.matrix.Flatten()
	payload := s.draft
	payload.ImageURLs = pruneBlank(payload.ImageURLs)
	payload.VariantType1Name = flat.Type1Name
	payload.VariantType1Options = flat.Type1Options
	payload.VariantType2Name = flat.Type2Name
	payload.VariantType2Options = flat.Type2Options
	payload.VariantPrices = flat.Prices
	if err := payload.Validate(); err != nil {
		return domain.ProductPayload{}, err
	}
	return payload, nil
}
