package gallery

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ImageSection identifies which part of the site an image belongs to.
type ImageSection string

const (
	SectionHero    ImageSection = "hero"
	SectionGallery ImageSection = "gallery"
	SectionTour    ImageSection = "tour"
	SectionBlog    ImageSection = "blog"
)

// IsValid returns true if the section is recognized.
func (s ImageSection) IsValid() bool {
	switch s {
	case SectionHero, SectionGallery, SectionTour, SectionBlog:
		return true
	}
	return false
}

// SiteImage records an image managed from the admin back-office. The binary
// lives in external object storage; only the URL and placement are kept here.
type SiteImage struct {
	id        uuid.UUID
	section   ImageSection
	url       string
	altText   string
	caption   string
	sortOrder int
	published bool
	createdAt time.Time
	updatedAt time.Time
}

// NewSiteImage creates a published image record.
func NewSiteImage(section ImageSection, url, altText, caption string, sortOrder int) (*SiteImage, error) {
	if !section.IsValid() {
		return nil, fmt.Errorf("invalid image section: %s", section)
	}
	if url == "" {
		return nil, fmt.Errorf("image URL is required")
	}

	now := time.Now().UTC()
	return &SiteImage{
		id:        uuid.New(),
		section:   section,
		url:       url,
		altText:   altText,
		caption:   caption,
		sortOrder: sortOrder,
		published: true,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// Reconstruct rebuilds a SiteImage from persistence.
func Reconstruct(id uuid.UUID, section ImageSection, url, altText, caption string, sortOrder int, published bool, createdAt, updatedAt time.Time) *SiteImage {
	return &SiteImage{
		id:        id,
		section:   section,
		url:       url,
		altText:   altText,
		caption:   caption,
		sortOrder: sortOrder,
		published: published,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

// Getters.
func (i *SiteImage) ID() uuid.UUID         { return i.id }
func (i *SiteImage) Section() ImageSection { return i.section }
func (i *SiteImage) URL() string           { return i.url }
func (i *SiteImage) AltText() string       { return i.altText }
func (i *SiteImage) Caption() string       { return i.caption }
func (i *SiteImage) SortOrder() int        { return i.sortOrder }
func (i *SiteImage) Published() bool       { return i.published }
func (i *SiteImage) CreatedAt() time.Time  { return i.createdAt }
func (i *SiteImage) UpdatedAt() time.Time  { return i.updatedAt }

// Unpublish hides the image from the public site without deleting the record.
func (i *SiteImage) Unpublish() {
	i.published = false
	i.updatedAt = time.Now().UTC()
}
