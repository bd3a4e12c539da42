package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cinespark/cinespark-backend/internal/pricing"
	"github.com/cinespark/cinespark-backend/pkg/db/models"
	"github.com/cinespark/cinespark-backend/pkg/enums"
	pkgerrors "github.com/cinespark/cinespark-backend/pkg/errors"
	"gorm.io/gorm"
)

// Service exposes catalog operations to controllers.
type Service interface {
	Create(ctx context.Context, req CreateItemRequest) (*ItemDTO, error)
	Update(ctx context.Context, id int64, req UpdateItemRequest) (*ItemDTO, error)
	Delete(ctx context.Context, id int64) error
	Get(ctx context.Context, id int64) (*ItemDTO, error)
	List(ctx context.Context, input ListInput) (*ListResult, error)
}

// ServiceParams groups dependencies for the catalog service.
type ServiceParams struct {
	Repo Repository
	Now  func() time.Time
}

type service struct {
	repo Repository
	now  func() time.Time
}

// NewService builds a catalog service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("repo is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &service{repo: params.Repo, now: now}, nil
}

func (s *service) Create(ctx context.Context, req CreateItemRequest) (*ItemDTO, error) {
	contentType, err := enums.ParseContentType(strings.TrimSpace(req.Type))
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid content type")
	}

	price := req.PricePerDay
	if price <= 0 {
		price = pricing.DailyPrice(pricing.Input{
			Type:        contentType,
			Genre:       req.Genre,
			ReleaseYear: req.ReleaseYear,
		}, s.now())
	}

	item := &models.ContentItem{
		Title:       strings.TrimSpace(req.Title),
		Genre:       strings.TrimSpace(req.Genre),
		Type:        contentType,
		ReleaseYear: req.ReleaseYear,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		PricePerDay: price,
	}

	created, err := s.repo.Create(ctx, item)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create catalog item")
	}
	return fromModel(created), nil
}

func (s *service) Update(ctx context.Context, id int64, req UpdateItemRequest) (*ItemDTO, error) {
	contentType, err := enums.ParseContentType(strings.TrimSpace(req.Type))
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid content type")
	}

	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load catalog item")
	}

	item.Title = strings.TrimSpace(req.Title)
	item.Genre = strings.TrimSpace(req.Genre)
	item.Type = contentType
	item.ReleaseYear = req.ReleaseYear
	item.Description = req.Description
	item.ImageURL = req.ImageURL

	updated, err := s.repo.Update(ctx, item)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update catalog item")
	}
	return fromModel(updated), nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete catalog item")
	}
	return nil
}

func (s *service) Get(ctx context.Context, id int64) (*ItemDTO, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load catalog item")
	}
	return fromModel(item), nil
}

func (s *service) List(ctx context.Context, input ListInput) (*ListResult, error) {
	items, nextCursor, err := s.repo.List(ctx, input)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list catalog items")
	}

	dtos := make([]ItemDTO, 0, len(items))
	for i := range items {
		dtos = append(dtos, *fromModel(&items[i]))
	}
	return &ListResult{Items: dtos, NextCursor: nextCursor}, nil
}
