package service

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/viccon/sturdyc"

	"leasehub-backend/internal/domain"
	"leasehub-backend/internal/logger"
	"leasehub-backend/internal/repository"
)

// PropertyCache holds read-through caches for single listings and browse pages.
type PropertyCache struct {
	items *sturdyc.Client[domain.Property]
	pages *sturdyc.Client[propertyPage]
	// generation is bumped on every write so cached browse pages stop matching.
	generation atomic.Int64
}

type propertyPage struct {
	Items []domain.Property
	Total int32
}

func NewPropertyCache(capacity, shards int, ttl time.Duration) *PropertyCache {
	return &PropertyCache{
		items: sturdyc.New[domain.Property](capacity, shards, ttl, 10),
		pages: sturdyc.New[propertyPage](capacity, shards, ttl, 10),
	}
}

func (c *PropertyCache) invalidate(propertyID int32) {
	c.items.Delete(propertyKey(propertyID))
	c.generation.Add(1)
}

func propertyKey(id int32) string {
	return "property:" + idString(id)
}

func (c *PropertyCache) browseKey(f domain.PropertyFilter) string {
	return fmt.Sprintf("browse:%d:%s:%d:%d:%d:%d", c.generation.Load(), strings.ToLower(f.City), f.MaxRentCents, f.MinBedrooms, f.Page, f.PageSize)
}

type propertyService struct {
	propRepo repository.PropertyRepository
	cache    *PropertyCache
	notifier Notifier
}

func NewPropertyService(propRepo repository.PropertyRepository, cache *PropertyCache, notifier Notifier) PropertyService {
	return &propertyService{
		propRepo: propRepo,
		cache:    cache,
		notifier: notifier,
	}
}

func (s *propertyService) CreateProperty(ctx context.Context, landlordID int32, p *domain.Property) error {
	logger.EnterMethod("propertyService.CreateProperty", "landlordID", landlordID, "title", p.Title)

	if err := validateListing(p); err != nil {
		return err
	}
	sl, err := s.uniqueSlug(ctx, p.Title)
	if err != nil {
		return err
	}

	p.LandlordID = landlordID
	p.Slug = sl
	p.Status = domain.PropertyStatusPending
	p.ModerationNote = ""
	if err := s.propRepo.Create(ctx, p); err != nil {
		logger.ExitMethodWithError("propertyService.CreateProperty", err)
		return err
	}
	s.cache.invalidate(p.ID)
	logger.ExitMethod("propertyService.CreateProperty", "propertyID", p.ID, "slug", p.Slug)
	return nil
}

// uniqueSlug derives a slug from title, suffixing a counter on collision.
func (s *propertyService) uniqueSlug(ctx context.Context, title string) (string, error) {
	base := slug.Make(title)
	if base == "" {
		base = "property"
	}
	candidate := base
	for i := 2; i <= 10; i++ {
		exists, err := s.propRepo.SlugExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
	return base + "-" + uuid.NewString()[:8], nil
}

func (s *propertyService) UpdateProperty(ctx context.Context, landlordID, propertyID int32, upd PropertyUpdate) (*domain.Property, error) {
	p, err := s.ownedProperty(ctx, landlordID, propertyID)
	if err != nil {
		return nil, err
	}
	expected := p.Status
	switch p.Status {
	case domain.PropertyStatusArchived, domain.PropertyStatusRented:
		return nil, invalidTransition("property", p.Status, "edited")
	}

	if upd.Title != nil {
		p.Title = *upd.Title
	}
	if upd.Description != nil {
		p.Description = *upd.Description
	}
	if upd.Address != nil {
		p.Address = *upd.Address
	}
	if upd.City != nil {
		p.City = *upd.City
	}
	if upd.MonthlyRentCents != nil {
		p.MonthlyRentCents = *upd.MonthlyRentCents
	}
	if upd.Bedrooms != nil {
		p.Bedrooms = *upd.Bedrooms
	}
	if upd.Bathrooms != nil {
		p.Bathrooms = *upd.Bathrooms
	}
	if err := validateListing(p); err != nil {
		return nil, err
	}

	// A rejected listing goes back into the moderation queue once edited.
	if p.Status == domain.PropertyStatusRejected {
		p.Status = domain.PropertyStatusPending
	}

	if err := s.propRepo.Update(ctx, p, expected); err != nil {
		return nil, err
	}
	s.cache.invalidate(p.ID)
	return p, nil
}

func (s *propertyService) ArchiveProperty(ctx context.Context, landlordID, propertyID int32) (*domain.Property, error) {
	p, err := s.ownedProperty(ctx, landlordID, propertyID)
	if err != nil {
		return nil, err
	}
	if err := s.transition(ctx, p, domain.PropertyStatusArchived); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *propertyService) GetProperty(ctx context.Context, actor Actor, propertyID int32) (*domain.Property, error) {
	p, err := s.cache.items.GetOrFetch(ctx, propertyKey(propertyID), func(ctx context.Context) (domain.Property, error) {
		p, err := s.propRepo.GetByID(ctx, propertyID)
		if err != nil {
			return domain.Property{}, err
		}
		return *p, nil
	})
	if err != nil {
		return nil, err
	}
	if p.Status != domain.PropertyStatusApproved && !actor.IsAdmin() && p.LandlordID != actor.UserID {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

func (s *propertyService) BrowseProperties(ctx context.Context, f domain.PropertyFilter) ([]domain.Property, int32, error) {
	f.Page, f.PageSize = normalizePage(f.Page, f.PageSize)
	f.Status = domain.PropertyStatusApproved
	f.LandlordID = 0

	page, err := s.cache.pages.GetOrFetch(ctx, s.cache.browseKey(f), func(ctx context.Context) (propertyPage, error) {
		items, total, err := s.propRepo.List(ctx, f)
		if err != nil {
			return propertyPage{}, err
		}
		return propertyPage{Items: items, Total: total}, nil
	})
	if err != nil {
		return nil, 0, err
	}
	return page.Items, page.Total, nil
}

func (s *propertyService) ListMyProperties(ctx context.Context, landlordID int32, status domain.PropertyStatus, page, pageSize int32) ([]domain.Property, int32, error) {
	page, pageSize = normalizePage(page, pageSize)
	return s.propRepo.List(ctx, domain.PropertyFilter{LandlordID: landlordID, Status: status, Page: page, PageSize: pageSize})
}

func (s *propertyService) ListForModeration(ctx context.Context, status domain.PropertyStatus, page, pageSize int32) ([]domain.Property, int32, error) {
	if status == "" {
		status = domain.PropertyStatusPending
	}
	page, pageSize = normalizePage(page, pageSize)
	return s.propRepo.List(ctx, domain.PropertyFilter{Status: status, Page: page, PageSize: pageSize})
}

func (s *propertyService) ModerateProperty(ctx context.Context, adminID, propertyID int32, approve bool, note string) (*domain.Property, error) {
	logger.EnterMethod("propertyService.ModerateProperty", "adminID", adminID, "propertyID", propertyID, "approve", approve)

	p, err := s.propRepo.GetByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	next := domain.PropertyStatusApproved
	if !approve {
		next = domain.PropertyStatusRejected
		if strings.TrimSpace(note) == "" {
			return nil, invalid("a note is required when rejecting a listing")
		}
	}
	if p.Status != domain.PropertyStatusPending {
		return nil, invalidTransition("property", p.Status, next)
	}
	p.ModerationNote = note
	if err := s.transition(ctx, p, next); err != nil {
		logger.ExitMethodWithError("propertyService.ModerateProperty", err)
		return nil, err
	}

	msg := fmt.Sprintf("Your listing %q was approved and is now visible to tenants", p.Title)
	if !approve {
		msg = fmt.Sprintf("Your listing %q was rejected: %s", p.Title, note)
	}
	s.notifier.Notify(ctx, p.LandlordID, Notice{
		Type:       "PROPERTY_" + strings.ToUpper(string(next)),
		Title:      "Listing " + string(next),
		Message:    msg,
		Attributes: map[string]string{"property_id": idString(p.ID)},
	})
	logger.ExitMethod("propertyService.ModerateProperty", "propertyID", p.ID, "status", p.Status)
	return p, nil
}

// MarkRented lets an approved listing. A listing that is already rented
// belongs to another tenancy and yields ErrConflict.
func (s *propertyService) MarkRented(ctx context.Context, propertyID int32) error {
	p, err := s.propRepo.GetByID(ctx, propertyID)
	if err != nil {
		return err
	}
	if p.Status == domain.PropertyStatusRented {
		return fmt.Errorf("%w: property %d is already rented", domain.ErrConflict, propertyID)
	}
	return s.transition(ctx, p, domain.PropertyStatusRented)
}

func (s *propertyService) transition(ctx context.Context, p *domain.Property, next domain.PropertyStatus) error {
	if !p.Status.CanTransitionTo(next) {
		return invalidTransition("property", p.Status, next)
	}
	prev := p.Status
	p.Status = next
	if err := s.propRepo.Update(ctx, p, prev); err != nil {
		p.Status = prev
		return err
	}
	s.cache.invalidate(p.ID)
	return nil
}

func (s *propertyService) ownedProperty(ctx context.Context, landlordID, propertyID int32) (*domain.Property, error) {
	p, err := s.propRepo.GetByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if p.LandlordID != landlordID {
		return nil, forbidden("property %d belongs to another landlord", propertyID)
	}
	return p, nil
}

func validateListing(p *domain.Property) error {
	switch {
	case strings.TrimSpace(p.Title) == "":
		return invalid("title is required")
	case strings.TrimSpace(p.City) == "":
		return invalid("city is required")
	case p.MonthlyRentCents <= 0:
		return invalid("monthly rent must be positive")
	case p.Bedrooms < 0 || p.Bathrooms < 0:
		return invalid("room counts cannot be negative")
	}
	return nil
}
