package affiliate

import (
	"net/url"
	"strings"
	"testing"

	"homewise/internal/tester"
)

func TestLinksCoverAllVendors(t *testing.T) {
	b := NewBuilder(Tags{Amazon: "homewise-20", HomeDepot: "hd-aff", Lowes: "lw-aff", AceHW: "homewise"})

	links := b.Links("3/8 inch compression valve")
	tester.Eq(t, len(links), 4)

	byVendor := map[string]string{}
	for _, l := range links {
		byVendor[l.Vendor] = l.URL
	}

	amazon, err := url.Parse(byVendor["Amazon"])
	tester.NoErr(t, err)
	tester.Eq(t, amazon.Query().Get("k"), "3/8 inch compression valve")
	tester.Eq(t, amazon.Query().Get("tag"), "homewise-20")

	hd, err := url.Parse(byVendor["Home Depot"])
	tester.NoErr(t, err)
	tester.Eq(t, hd.Query().Get("cm_mmc"), "hd-aff")

	lowes, err := url.Parse(byVendor["Lowe's"])
	tester.NoErr(t, err)
	tester.Eq(t, lowes.Query().Get("searchTerm"), "3/8 inch compression valve")

	ace, err := url.Parse(byVendor["Ace Hardware"])
	tester.NoErr(t, err)
	tester.Eq(t, ace.Query().Get("query"), "3/8 inch compression valve")
	tester.Eq(t, ace.Query().Get("utm_source"), "homewise")
}

func TestLinksWithoutTagsOmitPartnerParams(t *testing.T) {
	b := NewBuilder(Tags{})

	for _, l := range b.Links("pipe wrench") {
		u, err := url.Parse(l.URL)
		tester.NoErr(t, err)
		for _, param := range []string{"tag", "cm_mmc", "utm_source"} {
			tester.False(t, u.Query().Has(param), l.Vendor+" should omit "+param)
		}
	}
}

func TestLinksEmptyItem(t *testing.T) {
	b := NewBuilder(Tags{Amazon: "homewise-20"})
	tester.True(t, b.Links("") == nil)
	tester.True(t, b.Links("   ") == nil)
}

func TestLinksEscapeItemText(t *testing.T) {
	b := NewBuilder(Tags{})
	for _, l := range b.Links(`faucet o-ring & washer "set"`) {
		tester.False(t, strings.ContainsAny(l.URL, ` "`), l.Vendor)
	}
}
