package tier

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed policy.yaml
var defaultPolicyYAML []byte

// Pricing is the list price of a tier in USD.
type Pricing struct {
	Monthly float64 `json:"monthly" yaml:"monthly"`
	Yearly  float64 `json:"yearly" yaml:"yearly"`
}

// Entitlement is one row of the tier table.
type Entitlement struct {
	Tier         Tier     `json:"tier" yaml:"tier"`
	Rank         int      `json:"rank" yaml:"-"`
	Name         string   `json:"name" yaml:"name"`
	Description  string   `json:"description" yaml:"description"`
	MaxLocations int      `json:"max_locations" yaml:"max_locations"`
	MaxProducts  int      `json:"max_products" yaml:"max_products"`
	MaxMedia     int      `json:"max_media" yaml:"max_media"`
	Pricing      Pricing  `json:"pricing" yaml:"pricing"`
	Features     []string `json:"features" yaml:"features"`
	// Fields holds only the profile fields unlocked at this tier.
	Fields []string `json:"fields" yaml:"fields"`
}

type policyDocument struct {
	Tiers []Entitlement `yaml:"tiers"`
}

// Policy is the immutable tier table together with the derived cumulative
// field sets. It is safe for concurrent use.
type Policy struct {
	rows     [numTiers]Entitlement
	features [numTiers]map[string]struct{}
	fields   [numTiers][]string
	fieldSet [numTiers]map[string]struct{}
}

const numTiers = int(Tier3) + 1

var defaultPolicy = MustLoad(defaultPolicyYAML)

// Default returns the built-in tier table.
func Default() *Policy {
	return defaultPolicy
}

// MustLoad is Load that panics on error. Used for the embedded table.
func MustLoad(data []byte) *Policy {
	p, err := Load(data)
	if err != nil {
		panic(fmt.Sprintf("tier: invalid policy: %v", err))
	}
	return p
}

// LoadFile reads and validates a tier table from a YAML file.
func LoadFile(path string) (*Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tier policy: %w", err)
	}
	return Load(data)
}

// Load parses and validates a YAML tier table.
func Load(data []byte) (*Policy, error) {
	var doc policyDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse tier policy: %w", err)
	}

	p := &Policy{}
	seen := make(map[Tier]bool, len(All))
	for _, row := range doc.Tiers {
		if !row.Tier.IsKnown() {
			return nil, fmt.Errorf("unknown tier in policy: %q", row.Tier)
		}
		if seen[row.Tier] {
			return nil, fmt.Errorf("tier %s declared twice", row.Tier)
		}
		seen[row.Tier] = true
		row.Rank = row.Tier.Rank()
		p.rows[row.Tier] = row
	}
	for _, t := range All {
		if !seen[t] {
			return nil, fmt.Errorf("tier %s missing from policy", t)
		}
	}

	var cumulative []string
	cumulativeSet := make(map[string]struct{})
	for i, t := range All {
		row := p.rows[t]

		p.features[t] = make(map[string]struct{}, len(row.Features))
		for _, f := range row.Features {
			p.features[t][f] = struct{}{}
		}

		for _, f := range row.Fields {
			if f == "" {
				return nil, fmt.Errorf("tier %s has an empty field name", t)
			}
			if _, dup := cumulativeSet[f]; dup {
				continue
			}
			cumulativeSet[f] = struct{}{}
			cumulative = append(cumulative, f)
		}
		p.fields[t] = append([]string(nil), cumulative...)
		p.fieldSet[t] = make(map[string]struct{}, len(cumulative))
		for _, f := range cumulative {
			p.fieldSet[t][f] = struct{}{}
		}

		if i == 0 {
			continue
		}
		lower := p.rows[All[i-1]]
		if row.MaxLocations < lower.MaxLocations || row.MaxProducts < lower.MaxProducts || row.MaxMedia < lower.MaxMedia {
			return nil, fmt.Errorf("tier %s has lower limits than %s", t, lower.Tier)
		}
		for f := range p.features[lower.Tier] {
			if _, ok := p.features[t][f]; !ok {
				return nil, fmt.Errorf("tier %s is missing feature %q granted to %s", t, f, lower.Tier)
			}
		}
	}

	p.rows[Unknown] = p.rows[Free]
	p.rows[Unknown].Tier = Unknown
	p.features[Unknown] = p.features[Free]
	p.fields[Unknown] = p.fields[Free]
	p.fieldSet[Unknown] = p.fieldSet[Free]

	return p, nil
}

func (p *Policy) index(t Tier) Tier {
	if !t.IsKnown() {
		return Unknown
	}
	return t
}

// Entitlement returns a copy of the table row for t. Unknown yields the
// Free row labelled Unknown.
func (p *Policy) Entitlement(t Tier) Entitlement {
	row := p.rows[p.index(t)]
	row.Features = append([]string(nil), row.Features...)
	row.Fields = append([]string(nil), row.Fields...)
	return row
}

// Entitlements returns the rows for every known tier in ascending rank.
func (p *Policy) Entitlements() []Entitlement {
	out := make([]Entitlement, 0, len(All))
	for _, t := range All {
		out = append(out, p.Entitlement(t))
	}
	return out
}
