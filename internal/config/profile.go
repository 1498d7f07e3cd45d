package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"firestige.xyz/nxwire/internal/nxm"
)

// MatchProfile describes one flow rule in a profile document. Absent
// fields stay wildcarded.
type MatchProfile struct {
	Name      string  `yaml:"name"`
	InPort    *uint16 `yaml:"in_port,omitempty"`
	TunID     *uint64 `yaml:"tun_id,omitempty"`
	TunIDMask *uint64 `yaml:"tun_id_mask,omitempty"`
}

// ProfileDocument is a YAML file holding one or more match profiles
// under a `rules:` key.
type ProfileDocument struct {
	Rules []MatchProfile `yaml:"rules"`
}

// LoadProfiles reads a YAML match-profile document.
func LoadProfiles(path string) (*ProfileDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile file %s: %w", path, err)
	}
	var doc ProfileDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse profile file %s: %w", path, err)
	}
	if len(doc.Rules) == 0 {
		return nil, fmt.Errorf("profile file %s contains no rules", path)
	}
	return &doc, nil
}

// Rule converts a profile into a flow rule. A tun_id with no mask means
// exact match.
func (p *MatchProfile) Rule() *nxm.Rule {
	r := nxm.NewRule()
	if p.InPort != nil {
		r.SetInPort(*p.InPort)
	}
	if p.TunID != nil {
		if p.TunIDMask != nil {
			r.SetTunIDMasked(*p.TunID, *p.TunIDMask)
		} else {
			r.SetTunID(*p.TunID)
		}
	}
	return r
}
