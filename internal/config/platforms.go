package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// SocialPlatform maps a spreadsheet column holding an account handle to the
// profile base URL the handle is appended to.
type SocialPlatform struct {
	Column  string `yaml:"column"`
	BaseURL string `yaml:"base_url"`
}

// DefaultSocialPlatforms is the ordered platform list used when no
// SOCIAL_PLATFORMS_FILE is configured.
var DefaultSocialPlatforms = []SocialPlatform{
	{Column: "X Account", BaseURL: "https://x.com/"},
	{Column: "Instagram Account", BaseURL: "https://instagram.com/"},
	{Column: "Linkedin Account", BaseURL: "https://linkedin.com/in/"},
	{Column: "Facebook Account", BaseURL: "https://facebook.com/"},
}

type platformsFile struct {
	Platforms []SocialPlatform `yaml:"platforms"`
}

// Platforms returns the configured social platforms in display order.
// Without a platforms file the defaults are returned.
func (c *SocialConfig) Platforms() ([]SocialPlatform, error) {
	if c.PlatformsFile == "" {
		out := make([]SocialPlatform, len(DefaultSocialPlatforms))
		copy(out, DefaultSocialPlatforms)
		return out, nil
	}

	data, err := os.ReadFile(c.PlatformsFile)
	if err != nil {
		return nil, fmt.Errorf("read platforms file: %w", err)
	}
	return ParsePlatforms(data)
}

// ParsePlatforms decodes a YAML platforms document:
//
//	platforms:
//	  - column: X Account
//	    base_url: https://x.com/
func ParsePlatforms(data []byte) ([]SocialPlatform, error) {
	var doc platformsFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode platforms: %w", err)
	}

	seen := make(map[string]bool, len(doc.Platforms))
	for i, p := range doc.Platforms {
		p.Column = strings.TrimSpace(p.Column)
		p.BaseURL = strings.TrimSpace(p.BaseURL)
		if p.Column == "" || p.BaseURL == "" {
			return nil, fmt.Errorf("platform %d: column and base_url are required", i+1)
		}
		if seen[p.Column] {
			return nil, fmt.Errorf("platform %d: duplicate column %q", i+1, p.Column)
		}
		seen[p.Column] = true
		doc.Platforms[i] = p
	}
	return doc.Platforms, nil
}
