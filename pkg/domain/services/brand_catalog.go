package services

import (
	"fmt"

	"github.com/vsinha/riskbase/pkg/domain/entities"
)

// Defaults applied when a brand is not in the catalog.
const (
	DefaultMarcaConcat     = ""
	DefaultSegmentacion    = "OTRAS"
	DefaultSubsegmentacion = ""
)

// DefaultCatalogVersion identifies the brand tables compiled into the binary.
const DefaultCatalogVersion = "2024.2"

// BrandInfo is the enrichment produced for one MARCA DE QM value.
type BrandInfo struct {
	Concat          string
	Segmentacion    string
	Subsegmentacion string
}

// BrandCatalog maps MARCA DE QM to its concatenated name, segment and
// sub-segment. It is built once and never modified, so a single catalog can
// be shared by concurrent pipeline runs.
type BrandCatalog struct {
	version    string
	concat     map[string]string
	segment    map[string]string
	subsegment map[string]string
}

// NewBrandCatalog creates a catalog from the three brand tables. Keys and
// values are normalised; the input maps are copied.
func NewBrandCatalog(version string, concat, segment, subsegment map[string]string) (*BrandCatalog, error) {
	if version == "" {
		return nil, fmt.Errorf("catalog version cannot be empty")
	}
	if len(segment) == 0 {
		return nil, fmt.Errorf("segment table cannot be empty")
	}

	return &BrandCatalog{
		version:    version,
		concat:     normalizeTable(concat),
		segment:    normalizeTable(segment),
		subsegment: normalizeTable(subsegment),
	}, nil
}

// DefaultBrandCatalog returns the catalog built from the compiled-in tables.
func DefaultBrandCatalog() *BrandCatalog {
	c, err := NewBrandCatalog(DefaultCatalogVersion, defaultBrandConcat, defaultBrandSegment, defaultBrandSubsegment)
	if err != nil {
		panic(err)
	}
	return c
}

func normalizeTable(src map[string]string) map[string]string {
	dst := make(map[string]string, len(src))
	for k, v := range src {
		dst[entities.NormalizeText(k)] = entities.NormalizeText(v)
	}
	return dst
}

// Version returns the catalog version label.
func (c *BrandCatalog) Version() string {
	return c.version
}

// Size returns the number of brands with a segment assignment.
func (c *BrandCatalog) Size() int {
	return len(c.segment)
}

// Lookup enriches a brand. Unknown or empty brands get the defaults.
func (c *BrandCatalog) Lookup(brand string) BrandInfo {
	key := entities.NormalizeText(brand)
	info := BrandInfo{
		Concat:          DefaultMarcaConcat,
		Segmentacion:    DefaultSegmentacion,
		Subsegmentacion: DefaultSubsegmentacion,
	}
	if v, ok := c.concat[key]; ok {
		info.Concat = v
	}
	if v, ok := c.segment[key]; ok {
		info.Segmentacion = v
	}
	if v, ok := c.subsegment[key]; ok {
		info.Subsegmentacion = v
	}
	return info
}

// Known reports whether the brand has a segment assignment.
func (c *BrandCatalog) Known(brand string) bool {
	_, ok := c.segment[entities.NormalizeText(brand)]
	return ok
}
