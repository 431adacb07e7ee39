package pokedex

import (
	"fmt"
	"strconv"

	"github.com/nerdwave-nick/pokedex/internal/pokeapi"
)

// maxAbilities caps the abilities shown in the detail view.
const maxAbilities = 2

// Detail is the full record behind the modal plus the current evolution trigger page.
type Detail struct {
	Summary
	Abilities   []string  `json:"abilities"`
	TriggerPage int       `json:"trigger_page"`
	Triggers    []Trigger `json:"triggers"`
}

func newDetail(p *pokeapi.Pokemon, triggers []Trigger, triggerPage int, baseURL string) *Detail {
	abilities := make([]string, 0, maxAbilities)
	for _, a := range p.Abilities {
		if len(abilities) == maxAbilities {
			break
		}
		abilities = append(abilities, a.Ability.Name)
	}
	summary := summarize(p)
	summary.URL = baseURL + "pokemon/" + p.Name
	return &Detail{
		Summary:     summary,
		Abilities:   abilities,
		TriggerPage: triggerPage,
		Triggers:    triggers,
	}
}

// HeightMetres formats the height, stored in decimetres, as metres.
func (d *Detail) HeightMetres() string {
	return tenths(d.Height)
}

// WeightKilograms formats the weight, stored in hectograms, as kilograms.
func (d *Detail) WeightKilograms() string {
	return tenths(d.Weight)
}

// BaseExperienceText is the base experience or N/A when the api has none.
func (d *Detail) BaseExperienceText() string {
	if d.BaseExperience == 0 {
		return "N/A"
	}
	return strconv.Itoa(d.BaseExperience)
}

// PrevTriggerPage never goes below the first page.
func (d *Detail) PrevTriggerPage() int {
	return max(d.TriggerPage-1, 0)
}

func (d *Detail) NextTriggerPage() int {
	return d.TriggerPage + 1
}

func tenths(v int) string {
	if v == 0 {
		return "N/A"
	}
	return fmt.Sprintf("%.1f", float64(v)/10)
}
