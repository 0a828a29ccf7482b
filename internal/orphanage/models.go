package orphanage

import "time"

// Orphanage is the persisted listing entity. Images are owned by their
// orphanage and stored inline, in upload order.
type Orphanage struct {
	ID             string    `json:"id" bson:"id"`
	Name           string    `json:"name" bson:"name"`
	Latitude       float64   `json:"latitude" bson:"latitude"`
	Longitude      float64   `json:"longitude" bson:"longitude"`
	About          string    `json:"about" bson:"about"`
	Instructions   string    `json:"instructions" bson:"instructions"`
	OpeningHours   string    `json:"opening_hours" bson:"openingHours"`
	OpenOnWeekends bool      `json:"open_on_weekends" bson:"openOnWeekends"`
	Images         []Image   `json:"images" bson:"images"`
	CreatedAt      time.Time `json:"createdAt" bson:"createdAt"`
}

// Image is a stored photo reference. It has no lifecycle of its own.
type Image struct {
	ID  string `json:"id" bson:"id"`
	URL string `json:"url" bson:"url"`
}
