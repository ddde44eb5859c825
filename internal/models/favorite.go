package models

import "time"

// FavoriteStatus reports the membership of one listing in the favorites set
type FavoriteStatus struct {
	ID         int  `json:"id"`
	IsFavorite bool `json:"is_favorite"`
}

// FavoritesResponse is the body of the favorites page endpoint
type FavoritesResponse struct {
	Favorites []ListingCard `json:"favorites"`
	Total     int           `json:"total"`
}

// FavoriteToggled is published whenever a session changes a favorite
type FavoriteToggled struct {
	SessionID  string    `json:"session_id"`
	ListingID  int       `json:"listing_id"`
	IsFavorite bool      `json:"is_favorite"`
	ToggledAt  time.Time `json:"toggled_at"`
}
