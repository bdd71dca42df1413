package affiliate

import (
	"net/url"
	"strings"
)

// VendorLink is a ready-to-render search URL for one retailer. The server never
// calls these URLs itself; they are handed to the client.
type VendorLink struct {
	Vendor string `json:"vendor"`
	URL    string `json:"url"`
}

// Tags carries optional partner identifiers, read from configuration. Empty
// fields simply omit the partner parameter.
type Tags struct {
	Amazon    string
	HomeDepot string
	Lowes     string
	AceHW     string
}

// Builder maps an item name to vendor search URLs. Stateless.
type Builder struct {
	tags Tags
}

func NewBuilder(tags Tags) *Builder {
	return &Builder{tags: tags}
}

// Links returns search links for all supported vendors. An empty or blank item
// name yields no links.
func (b *Builder) Links(item string) []VendorLink {
	item = strings.TrimSpace(item)
	if item == "" {
		return nil
	}

	out := make([]VendorLink, 0, 4)

	q := url.Values{}
	q.Set("k", item)
	if b.tags.Amazon != "" {
		q.Set("tag", b.tags.Amazon)
	}
	out = append(out, VendorLink{Vendor: "Amazon", URL: "https://www.amazon.com/s?" + q.Encode()})

	q = url.Values{}
	q.Set("q", item)
	if b.tags.HomeDepot != "" {
		q.Set("cm_mmc", b.tags.HomeDepot)
	}
	out = append(out, VendorLink{Vendor: "Home Depot", URL: "https://www.homedepot.com/s/" + url.PathEscape(item) + "?" + q.Encode()})

	q = url.Values{}
	q.Set("searchTerm", item)
	if b.tags.Lowes != "" {
		q.Set("cm_mmc", b.tags.Lowes)
	}
	out = append(out, VendorLink{Vendor: "Lowe's", URL: "https://www.lowes.com/search?" + q.Encode()})

	q = url.Values{}
	q.Set("query", item)
	if b.tags.AceHW != "" {
		q.Set("utm_source", b.tags.AceHW)
	}
	out = append(out, VendorLink{Vendor: "Ace Hardware", URL: "https://www.acehardware.com/search?" + q.Encode()})

	return out
}
