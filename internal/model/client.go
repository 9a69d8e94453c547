package model

import "time"

// Client represents a paying tenant of the platform.  Each client owns
// movie configurations and API keys.  Subscription tiers cap how much a
// client may create.
type Client struct {
	ID               uint64    // clients.id
	Name             string    // clients.name
	Email            string    // clients.email
	Company          string    // clients.company
	SubscriptionTier string    // clients.subscription_tier (basic/premium/enterprise)
	IsActive         bool      // clients.is_active
	MaxMovies        int       // clients.max_movies
	MaxImages        int       // clients.max_images
	MaxTheaters      int       // clients.max_theaters
	CreatedAt        time.Time // clients.created_at
}
