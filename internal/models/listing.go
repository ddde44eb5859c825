package models

// Listing is a single real-estate record from the catalog source.
// JSON tags follow the source document field names.
type Listing struct {
	ID     int     `json:"id"`
	Title  string  `json:"titulo"`
	City   string  `json:"ciudad"`
	Type   string  `json:"tipo"`
	Rooms  int     `json:"ambientes"`
	AreaM2 float64 `json:"metros_cuadrados"`
	Price  float64 `json:"precio"`
	Image  string  `json:"imagen,omitempty"`
}

// ListingCard is the API representation of a listing
type ListingCard struct {
	ID           int     `json:"id"`
	Title        string  `json:"title"`
	City         string  `json:"city"`
	Type         string  `json:"type"`
	Rooms        int     `json:"rooms"`
	AreaM2       float64 `json:"area_m2"`
	Price        float64 `json:"price"`
	Image        string  `json:"image,omitempty"`
	ThumbnailURL string  `json:"thumbnail_url,omitempty"`
	IsFavorite   bool    `json:"is_favorite"`
}

// NewListingCard builds a card without thumbnail or favorite state.
func NewListingCard(l Listing) ListingCard {
	return ListingCard{
		ID:     l.ID,
		Title:  l.Title,
		City:   l.City,
		Type:   l.Type,
		Rooms:  l.Rooms,
		AreaM2: l.AreaM2,
		Price:  l.Price,
		Image:  l.Image,
	}
}

// NewListingCards builds cards in input order. thumbnail and isFavorite may be nil.
func NewListingCards(listings []Listing, thumbnail func(string) string, isFavorite func(int) bool) []ListingCard {
	cards := make([]ListingCard, 0, len(listings))
	for _, l := range listings {
		card := NewListingCard(l)
		if thumbnail != nil {
			card.ThumbnailURL = thumbnail(l.Image)
		}
		if isFavorite != nil {
			card.IsFavorite = isFavorite(l.ID)
		}
		cards = append(cards, card)
	}
	return cards
}

// ListingsResponse is the body of the paginated listing endpoint
type ListingsResponse struct {
	Listings   []ListingCard `json:"listings"`
	Total      int           `json:"total"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
	TotalPages int           `json:"total_pages"`
}

// ListingDetailResponse is the body of the detail endpoint
type ListingDetailResponse struct {
	Listing         ListingCard   `json:"listing"`
	Recommendations []ListingCard `json:"recommendations"`
}
