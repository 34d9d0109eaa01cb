package tier

// Feature flags known to the directory.
const (
	FeatureMultipleLocations = "multipleLocations"
	FeatureMediaGallery      = "media-gallery"
	FeatureAdvancedAnalytics = "advancedAnalytics"
	FeatureAPIAccess         = "apiAccess"
	FeatureCustomDomain      = "customDomain"
	FeatureExcelImport       = "excel-import"
	FeatureProductManagement = "productManagement"
	FeaturePromotionPack     = "promotionPack"
	FeatureEditorialContent  = "editorialContent"
)

// FieldLocations is the profile field that exposes every vendor location.
const FieldLocations = "locations"

// HasFeature reports whether the feature is enabled for t. Unknown tiers
// only get what Free gets, which is nothing.
func (p *Policy) HasFeature(t Tier, feature string) bool {
	_, ok := p.features[p.index(t)][feature]
	return ok
}

// Features returns the enabled features of t.
func (p *Policy) Features(t Tier) []string {
	return append([]string(nil), p.rows[p.index(t)].Features...)
}

// MinimumTierFor returns the lowest tier that enables feature.
func (p *Policy) MinimumTierFor(feature string) (Tier, bool) {
	for _, t := range All {
		if p.HasFeature(t, feature) {
			return t, true
		}
	}
	return Unknown, false
}

// AccessibleFields returns every profile field t may use: the union of the
// fields unlocked at t and at every tier below it, in tier order.
func (p *Policy) AccessibleFields(t Tier) []string {
	return append([]string(nil), p.fields[p.index(t)]...)
}

// CanAccessField reports whether field is in AccessibleFields(t).
func (p *Policy) CanAccessField(t Tier, field string) bool {
	_, ok := p.fieldSet[p.index(t)][field]
	return ok
}

func (p *Policy) MaxLocations(t Tier) int { return p.rows[p.index(t)].MaxLocations }
func (p *Policy) MaxProducts(t Tier) int  { return p.rows[p.index(t)].MaxProducts }
func (p *Policy) MaxMedia(t Tier) int     { return p.rows[p.index(t)].MaxMedia }

// CanAddLocation reports whether a vendor at t holding current locations may add one more.
func (p *Policy) CanAddLocation(t Tier, current int) bool {
	return current < p.MaxLocations(t)
}

func (p *Policy) CanAddProduct(t Tier, current int) bool {
	return current < p.MaxProducts(t)
}

func (p *Policy) CanAddMedia(t Tier, current int) bool {
	return current < p.MaxMedia(t)
}
