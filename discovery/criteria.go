package discovery

import (
	"net/url"
	"strconv"

	"github.com/smartcampus/canteen-client/core"
)

// Category is a dish category facet. Wire values follow the backend's
// catalogue.
type Category string

const (
	CategoryRice      Category = "饭"
	CategoryNoodles   Category = "面"
	CategoryDumplings Category = "饺子"
	CategoryOther     Category = "其他"
)

// Taste is a dish taste facet.
type Taste string

const (
	TasteSpicy     Taste = "辣"
	TasteSalty     Taste = "咸"
	TasteLight     Taste = "淡"
	TasteSweetSour Taste = "酸甜"
)

// CrowdLevel is the live crowding facet.
type CrowdLevel string

const (
	CrowdLow    CrowdLevel = "low"
	CrowdMedium CrowdLevel = "medium"
	CrowdHigh   CrowdLevel = "high"
)

// SortKey selects the backend-applied ordering. The client only forwards
// the key and never re-sorts locally, so displayed order is exactly
// network order.
type SortKey string

const (
	SortNewest         SortKey = "newest"
	SortPriceLowToHigh SortKey = "priceLowToHigh"
	SortPriceHighToLow SortKey = "priceHighToLow"
	SortName           SortKey = "nameSort"
	SortPopular        SortKey = "popular"
)

// FilterCriteria is one discovery request's facet set. Facets combine
// conjunctively. A non-empty FreeTextQuery routes the request to the AI
// recommendation path instead of the structured filter path; the two are
// mutually exclusive per request.
type FilterCriteria struct {
	Category      Category
	Tastes        []Taste
	PriceMin      float64
	PriceMax      float64
	CrowdLevel    CrowdLevel
	SpiceLevelMax int // -1 means unset
	Canteen       string
	SortBy        SortKey
	FreeTextQuery string
}

// NewFilterCriteria returns criteria with the unsets in place.
func NewFilterCriteria() FilterCriteria {
	return FilterCriteria{
		PriceMax:      999,
		SpiceLevelMax: -1,
	}
}

// Validate rejects impossible criteria before any dispatch.
func (f FilterCriteria) Validate() error {
	if f.PriceMin > f.PriceMax {
		return &core.ClientError{
			Op:      "discovery.Search",
			Kind:    "validation",
			Message: "price range is inverted",
			Err:     core.ErrValidation,
		}
	}
	return nil
}

// encode renders the criteria as backend query parameters. Only set
// facets are emitted; absent facets don't constrain the result.
func (f FilterCriteria) encode() url.Values {
	query := url.Values{}

	if f.Category != "" {
		query.Set("category", string(f.Category))
	}
	if len(f.Tastes) > 0 {
		for _, taste := range f.Tastes {
			query.Add("tastes", string(taste))
		}
	}
	if f.PriceMin > 0 {
		query.Set("price_min", strconv.FormatFloat(f.PriceMin, 'f', -1, 64))
	}
	if f.PriceMax > 0 {
		query.Set("price_max", strconv.FormatFloat(f.PriceMax, 'f', -1, 64))
	}
	if f.CrowdLevel != "" {
		query.Set("crowd_level", string(f.CrowdLevel))
	}
	if f.SpiceLevelMax >= 0 {
		query.Set("spice_level", strconv.Itoa(f.SpiceLevelMax))
	}
	if f.Canteen != "" {
		query.Set("hall", f.Canteen)
	}
	if f.SortBy != "" {
		query.Set("ordering", string(f.SortBy))
	}

	return query
}

// hints converts the structured facets to the constraints hint of an AI
// recommendation request.
func (f FilterCriteria) hints() map[string]interface{} {
	hints := map[string]interface{}{}

	if f.Category != "" {
		hints["category"] = string(f.Category)
	}
	if len(f.Tastes) > 0 {
		tastes := make([]string, len(f.Tastes))
		for i, t := range f.Tastes {
			tastes[i] = string(t)
		}
		hints["tastes"] = tastes
	}
	if f.PriceMin > 0 {
		hints["price_min"] = f.PriceMin
	}
	if f.PriceMax > 0 {
		hints["price_max"] = f.PriceMax
	}
	if f.SpiceLevelMax >= 0 {
		hints["spice_level"] = f.SpiceLevelMax
	}
	if f.CrowdLevel != "" {
		hints["crowd_level"] = string(f.CrowdLevel)
	}
	if f.Canteen != "" {
		hints["hall"] = f.Canteen
	}

	if len(hints) == 0 {
		return nil
	}
	return hints
}
