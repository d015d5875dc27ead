package domain

// PropertyStatus is the listing lifecycle: sellers create pending listings,
// admins approve them, a completed payment marks them sold.
type PropertyStatus string

const (
	PropertyPending  PropertyStatus = "pending"
	PropertyApproved PropertyStatus = "approved"
	PropertySold     PropertyStatus = "sold"
)

// Property mirrors a listing row as the API returns it. Image fields are
// server-relative media paths unless the server already absolutized them.
type Property struct {
	ID          int            `json:"id"`
	Title       string         `json:"title"`
	Address     string         `json:"address"`
	Price       Money          `json:"price"`
	Description string         `json:"description"`
	Bedrooms    int            `json:"bedrooms"`
	Bathrooms   int            `json:"bathrooms"`
	Image1      string         `json:"image1,omitempty"`
	Image2      string         `json:"image2,omitempty"`
	Image3      string         `json:"image3,omitempty"`
	Status      PropertyStatus `json:"status"`
	Seller      User           `json:"seller"`
}

// Images returns the attached image paths, skipping empty slots.
func (p Property) Images() []string {
	var images []string
	for _, img := range []string{p.Image1, p.Image2, p.Image3} {
		if img != "" {
			images = append(images, img)
		}
	}
	return images
}
