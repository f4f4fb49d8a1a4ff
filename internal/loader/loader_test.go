package loader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veridian-group/esia-cli/internal/catalog"
	"github.com/veridian-group/esia-cli/internal/model"
)

func loadCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Load()
	require.NoError(t, err)
	return c
}

func TestForType_AlwaysIncludesCoreAndStandard(t *testing.T) {
	c := loadCatalog(t)

	for _, typeKey := range []string{"energy_solar", "mining_open_pit", "financial_intermediary", model.GeneralProjectType} {
		set := ForType(typeKey, c)
		for _, d := range c.Domains() {
			if d.Tier == model.TierCore || d.Tier == model.TierStandard {
				assert.True(t, set.Contains(d.Key), "type %s must include %s", typeKey, d.Key)
			}
		}
	}
}

func TestForType_SectorExtensions(t *testing.T) {
	c := loadCatalog(t)

	set := ForType("energy_solar", c)
	assert.True(t, set.Contains("solar_specific_impacts"))
	assert.True(t, set.Contains("wind_specific_impacts"), "sector extensions, not per-type")
	assert.False(t, set.Contains("agriculture_crops_specific_impacts"))
	assert.False(t, set.Contains("open_pit_mining_specific_impacts"))
}

func TestForType_ExtensionIffSectorMatches(t *testing.T) {
	c := loadCatalog(t)

	set := ForType("agriculture_crops", c)
	for _, d := range c.Domains() {
		if d.Tier != model.TierExtension {
			continue
		}
		assert.Equal(t, d.Sector == "agriculture", set.Contains(d.Key), "extension %s", d.Key)
	}
}

func TestForType_GeneralHasNoExtensions(t *testing.T) {
	c := loadCatalog(t)

	set := ForType(model.GeneralProjectType, c)
	for _, d := range set.Domains() {
		assert.NotEqual(t, model.TierExtension, d.Tier)
	}
}

func TestForType_PreservesCatalogOrder(t *testing.T) {
	c := loadCatalog(t)

	set := ForType("energy_solar", c)
	prev := -1
	for _, d := range set.Domains() {
		order := c.Order(d.Key)
		assert.Greater(t, order, prev)
		prev = order
	}
}

func TestFromChunks_SolarDocument(t *testing.T) {
	c := loadCatalog(t)

	chunks := []model.Chunk{
		{ChunkID: 0, Page: 1, Section: "Cover", Text: "ESIA for a 50 MW solar photovoltaic plant"},
		{ChunkID: 1, Page: 2, Section: "Introduction", Text: "The PV panel arrays occupy 120 ha"},
	}

	set, result := FromChunks(chunks, c, 0)

	assert.Equal(t, "energy_solar", result.ProjectType)
	assert.Equal(t, 1.0, result.Confidence)
	assert.True(t, set.Contains("solar_specific_impacts"))
	assert.False(t, set.Contains("agriculture_crops_specific_impacts"))
}

func TestFromChunks_UnclassifiableDocument(t *testing.T) {
	c := loadCatalog(t)

	chunks := []model.Chunk{
		{ChunkID: 0, Page: 1, Section: "Cover", Text: "Table of contents and list of acronyms"},
	}

	set, result := FromChunks(chunks, c, 0)

	assert.True(t, result.IsGeneral())
	for _, d := range set.Domains() {
		assert.NotEqual(t, model.TierExtension, d.Tier)
	}
}
