package planner

import (
	_ "embed"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed prompt_profile.yaml
var embeddedProfileYAML []byte

// PromptProfile is the tunable portion of the generation prompt. The
// embedded copy ships with the binary; PROMPT_PROFILE_YAML may point at an
// override file so prompt experiments do not require a rebuild.
type PromptProfile struct {
	Profile string   `yaml:"profile"`
	Version int      `yaml:"version"`
	Rules   []string `yaml:"rules"`
}

var (
	profileOnce sync.Once
	profile     PromptProfile
	profileErr  error
)

func LoadPromptProfile() (PromptProfile, error) {
	profileOnce.Do(func() {
		data := embeddedProfileYAML
		if path := os.Getenv("PROMPT_PROFILE_YAML"); path != "" {
			b, err := os.ReadFile(path)
			if err != nil {
				profileErr = fmt.Errorf("read prompt profile %s: %w", path, err)
				return
			}
			data = b
		}
		var p PromptProfile
		if err := yaml.Unmarshal(data, &p); err != nil {
			profileErr = fmt.Errorf("parse prompt profile: %w", err)
			return
		}
		if p.Profile == "" {
			p.Profile = "itinerary_prompt"
		}
		if p.Version <= 0 {
			p.Version = 1
		}
		if len(p.Rules) == 0 {
			p.Rules = defaultRules
		}
		profile = p
	})
	return profile, profileErr
}

// promptRules returns the active rule list, falling back to the compiled-in
// defaults when the profile cannot be loaded.
func promptRules() []string {
	p, err := LoadPromptProfile()
	if err != nil || len(p.Rules) == 0 {
		return defaultRules
	}
	return p.Rules
}

var defaultRules = []string{
	"Return a single JSON object with exactly the structure shown above; no prose, comments, or markdown fences around it.",
	"Give every day 4-6 activities covering the full day from wake time to bed time, respecting break windows.",
	"Only name venues you are confident actually exist at the destination; never invent or embellish place names.",
	"Set requires_place to true only for activities anchored to one specific named venue, and make place_query the searchable name of that venue.",
	"Leave place_query empty and requires_place false for generic stops such as transit, rest, or neighborhood strolls.",
	"Keep cost_estimate values realistic and consistent with the stated budget ceilings.",
	"Do not schedule the same venue on more than one day.",
	"Set accommodation to null unless the trip asked for a hotel recommendation.",
}
