package classify

// ProjectType is one candidate project category, with the keywords whose
// presence in a document's opening chunks signals it.
type ProjectType struct {
	Key      string
	Sector   string
	Keywords []string
}

// projectTypes is the per-category keyword dictionary. Declaration order
// breaks classification ties, so the list is a slice, not a map.
var projectTypes = []ProjectType{
	// energy
	{Key: "energy_solar", Sector: "energy", Keywords: []string{"solar", "photovoltaic", "pv panel", "solar farm", "solar park"}},
	{Key: "energy_wind", Sector: "energy", Keywords: []string{"wind farm", "wind turbine", "onshore wind", "offshore wind", "rotor"}},
	{Key: "energy_hydro", Sector: "energy", Keywords: []string{"hydropower", "hydroelectric", "run-of-river", "dam", "penstock"}},
	{Key: "energy_thermal", Sector: "energy", Keywords: []string{"thermal power", "combined cycle", "coal-fired", "gas-fired", "power station"}},
	{Key: "energy_geothermal", Sector: "energy", Keywords: []string{"geothermal", "geothermal field", "production well", "brine"}},
	{Key: "energy_transmission", Sector: "energy", Keywords: []string{"transmission line", "substation", "overhead line", "grid interconnection"}},

	// mining
	{Key: "mining_open_pit", Sector: "mining", Keywords: []string{"open pit", "open-cut", "overburden", "ore body", "waste rock"}},
	{Key: "mining_underground", Sector: "mining", Keywords: []string{"underground mine", "shaft", "stope", "decline", "adit"}},
	{Key: "mining_processing", Sector: "mining", Keywords: []string{"concentrator", "tailings", "beneficiation", "smelter", "heap leach"}},

	// agriculture
	{Key: "agriculture_crops", Sector: "agriculture", Keywords: []string{"plantation", "crop production", "arable", "agribusiness", "horticulture"}},
	{Key: "agriculture_livestock", Sector: "agriculture", Keywords: []string{"livestock", "cattle", "dairy", "feedlot", "poultry"}},
	{Key: "agriculture_aquaculture", Sector: "agriculture", Keywords: []string{"aquaculture", "fish farm", "shrimp", "hatchery", "mariculture"}},
	{Key: "agriculture_forestry", Sector: "agriculture", Keywords: []string{"forestry", "logging", "timber", "pulpwood", "silviculture"}},
	{Key: "agriculture_irrigation", Sector: "agriculture", Keywords: []string{"irrigation scheme", "irrigation canal", "water abstraction", "command area"}},

	// infrastructure
	{Key: "infrastructure_roads", Sector: "infrastructure", Keywords: []string{"highway", "road upgrading", "expressway", "carriageway", "bypass"}},
	{Key: "infrastructure_ports", Sector: "infrastructure", Keywords: []string{"port", "harbor", "dredging", "breakwater", "container terminal"}},
	{Key: "infrastructure_airports", Sector: "infrastructure", Keywords: []string{"airport", "runway", "terminal building", "apron", "air traffic"}},
	{Key: "infrastructure_railways", Sector: "infrastructure", Keywords: []string{"railway", "rail line", "rolling stock", "railway station"}},
	{Key: "infrastructure_urban", Sector: "infrastructure", Keywords: []string{"urban development", "housing estate", "mixed-use", "master plan"}},
	{Key: "infrastructure_water", Sector: "infrastructure", Keywords: []string{"water supply", "water treatment plant", "intake", "distribution network"}},
	{Key: "infrastructure_wastewater", Sector: "infrastructure", Keywords: []string{"wastewater", "sewage treatment", "sewerage", "effluent discharge"}},
	{Key: "infrastructure_waste", Sector: "infrastructure", Keywords: []string{"landfill", "solid waste", "waste management facility", "transfer station"}},

	// manufacturing
	{Key: "manufacturing_cement", Sector: "manufacturing", Keywords: []string{"cement plant", "clinker", "kiln", "limestone quarry"}},
	{Key: "manufacturing_chemicals", Sector: "manufacturing", Keywords: []string{"chemical plant", "petrochemical", "fertilizer plant", "ammonia"}},
	{Key: "manufacturing_textiles", Sector: "manufacturing", Keywords: []string{"textile", "garment", "dyeing", "spinning mill"}},
	{Key: "manufacturing_food", Sector: "manufacturing", Keywords: []string{"food processing", "abattoir", "cannery", "brewery", "sugar mill"}},

	// oil and gas
	{Key: "oil_gas_onshore", Sector: "oil_gas", Keywords: []string{"onshore drilling", "well pad", "oil field", "gas field", "flaring"}},
	{Key: "oil_gas_offshore", Sector: "oil_gas", Keywords: []string{"offshore platform", "fpso", "subsea", "drilling rig"}},
	{Key: "oil_gas_pipeline", Sector: "oil_gas", Keywords: []string{"pipeline", "right-of-way", "compressor station", "pig launcher"}},
	{Key: "oil_gas_lng", Sector: "oil_gas", Keywords: []string{"lng", "liquefaction", "regasification", "lng terminal"}},

	// tourism
	{Key: "tourism_hotels", Sector: "tourism", Keywords: []string{"hotel", "resort", "tourism development", "golf course", "eco-lodge"}},

	// financial
	{Key: "financial_intermediary", Sector: "financial", Keywords: []string{"financial intermediary", "credit line", "on-lending", "sub-projects", "portfolio"}},
}

// Types returns the project-type dictionary in declaration order. Callers
// must not mutate it.
func Types() []ProjectType {
	return projectTypes
}

// SectorOf returns the sector tag of a project type, or "" for unknown keys
// and the general fallback.
func SectorOf(typeKey string) string {
	for _, pt := range projectTypes {
		if pt.Key == typeKey {
			return pt.Sector
		}
	}
	return ""
}
