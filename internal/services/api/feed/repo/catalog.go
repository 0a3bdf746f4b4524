package repo

import "bazaar/internal/services/api/feed/domain"

// child is a one-to-many table hanging off a listing
type child struct {
	table string
	fk    string
}

// catalog describes where one kind lives
type catalog struct {
	table     string
	title     string   // preview title column
	search    []string // columns ranked against the search query
	attrs     []string // kind-specific scalar columns shipped as one json object
	images    child
	plans     *child
	bookmarks child
}

var catalogs = map[domain.Kind]catalog{
	domain.KindServices: {
		table:     "services",
		title:     "title",
		search:    []string{"title", "short_description", "long_description"},
		attrs:     []string{"title", "short_description", "long_description"},
		images:    child{table: "service_images", fk: "service_id"},
		plans:     &child{table: "service_plans", fk: "service_id"},
		bookmarks: child{table: "service_bookmarks", fk: "service_id"},
	},
	domain.KindLocalJobs: {
		table:     "local_jobs",
		title:     "title",
		search:    []string{"title", "description", "company"},
		attrs:     []string{"title", "description", "company", "salary_min", "salary_max", "salary_unit"},
		images:    child{table: "local_job_images", fk: "local_job_id"},
		bookmarks: child{table: "local_job_bookmarks", fk: "local_job_id"},
	},
	domain.KindUsedProducts: {
		table:     "used_product_listings",
		title:     "name",
		search:    []string{"name", "description"},
		attrs:     []string{"name", "description", "price", "currency", "condition"},
		images:    child{table: "used_product_listing_images", fk: "listing_id"},
		bookmarks: child{table: "used_product_listing_bookmarks", fk: "listing_id"},
	},
}

// ImageCollection is the media collection the images of kind live in
func ImageCollection(kind domain.Kind) string {
	if c, ok := catalogs[kind]; ok {
		return c.images.table
	}
	return ""
}

// ProfileCollection is the media collection of user profile pictures
const ProfileCollection = "profile_pics"
