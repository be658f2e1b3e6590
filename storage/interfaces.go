package storage

import "listings-feed-store/models"

// ListingWriter is the interface any listing storage backend must satisfy.
type ListingWriter interface {
	Write(listings []*models.Listing) error
	Close() error
}
