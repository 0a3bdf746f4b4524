package domain

import (
	"time"

	"bazaar/internal/core/geo"

	"github.com/google/uuid"
)

// FeedInput is the request body of POST /feeds/{kind}
type FeedInput struct {
	Search   string   `json:"search,omitempty" validate:"max=200" example:"plumber"`
	PageSize int      `json:"page_size,omitempty" validate:"omitempty,min=1,max=50" example:"20"`
	Cursor   string   `json:"cursor,omitempty" validate:"max=512,base62"`
	Lat      *float64 `json:"lat,omitempty" validate:"required_with=Lon,omitempty,latitude" example:"52.52"`
	Lon      *float64 `json:"lon,omitempty" validate:"required_with=Lat,omitempty,longitude" example:"13.405"`
}

// FeedRequest is one feed call after transport concerns are resolved
type FeedRequest struct {
	Kind     Kind
	Viewer   int64 // 0 is anonymous
	Search   string
	PageSize int // 0 takes the configured default
	Cursor   string
	Origin   *geo.Point
}

// Page is one page of a feed
// PreviousToken echoes the request cursor: it marks a page that is not the first and cannot page backwards.
type Page struct {
	Data          []Listing `json:"data"`
	NextToken     *string   `json:"next_token"`
	PreviousToken *string   `json:"previous_token"`
}

// Listing is one feed entry: *Service, *LocalJob or *UsedProduct
type Listing interface {
	Base() *ListingBase
}

// ListingBase holds what every kind shares
type ListingBase struct {
	ID            uuid.UUID  `json:"id"`
	Seq           int64      `json:"-"`
	Kind          string     `json:"kind"`
	Owner         Owner      `json:"owner"`
	Country       string     `json:"country,omitempty"`
	State         string     `json:"state,omitempty"`
	Location      *geo.Point `json:"location,omitempty"`
	DistanceKm    *float64   `json:"distance_km,omitempty"`
	Relevance     *float64   `json:"relevance,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	Images        []Image    `json:"images"`
	Bookmarked    bool       `json:"is_bookmarked"`
	OwnerListings []Preview  `json:"owner_listings"`
}

// Base implements Listing
func (b *ListingBase) Base() *ListingBase { return b }

// Owner is the publishing user
type Owner struct {
	ID            int64  `json:"id"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	ProfilePicURL string `json:"profile_pic_url,omitempty"`
	Online        bool   `json:"is_online"`
}

// Image is a listing photo, newest first within a listing
type Image struct {
	ID        int64     `json:"id"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
}

// Plan is a service pricing plan, oldest first within a service
type Plan struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	Price        float64   `json:"price"`
	Currency     string    `json:"currency"`
	DurationDays int       `json:"duration_days,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Preview is a short entry for another listing by the same owner
type Preview struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	ImageURL  string    `json:"image_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Service is a services listing
type Service struct {
	ListingBase
	Title            string `json:"title"`
	ShortDescription string `json:"short_description"`
	LongDescription  string `json:"long_description,omitempty"`
	Plans            []Plan `json:"plans"`
}

// LocalJob is a local jobs listing
type LocalJob struct {
	ListingBase
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Company     string   `json:"company,omitempty"`
	SalaryMin   *float64 `json:"salary_min,omitempty"`
	SalaryMax   *float64 `json:"salary_max,omitempty"`
	SalaryUnit  string   `json:"salary_unit,omitempty"`
}

// UsedProduct is a used product listing
type UsedProduct struct {
	ListingBase
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Currency    string  `json:"currency"`
	Condition   string  `json:"condition,omitempty"`
}
