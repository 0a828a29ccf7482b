package orphanage

// ListView is the trimmed shape returned by GET /orphanages: enough to place
// markers on the map without shipping the descriptive text of every listing.
type ListView struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Images    []Image `json:"images,omitempty"`
}

func RenderList(all []*Orphanage) []ListView {
	out := make([]ListView, 0, len(all))
	for _, o := range all {
		out = append(out, ListView{
			ID:        o.ID,
			Name:      o.Name,
			Latitude:  o.Latitude,
			Longitude: o.Longitude,
			Images:    o.Images,
		})
	}
	return out
}
