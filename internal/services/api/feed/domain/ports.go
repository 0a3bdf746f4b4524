package domain

import "context"

// ServicePort is the feed contract other modules and the transport use
type ServicePort interface {
	Feed(ctx context.Context, req FeedRequest) (Page, error)
}
