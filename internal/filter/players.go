package filter

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/aflpredictions/predictions-api/internal/models"
)

// DefaultBettingThreshold is the percentage preselected for new lists
const DefaultBettingThreshold = 75

var validate = validator.New()

// PlayerCriteria is the player list selection state
type PlayerCriteria struct {
	NameFilter       string
	BettingThreshold float64 `validate:"gte=0,lte=100"` // percent
	HideNoBetting    bool
	SelectedBetTypes []string `validate:"dive,required"`
	SelectedTeams    []string `validate:"dive,required"`
}

// Validate checks the threshold range and rejects empty selections
func (c PlayerCriteria) Validate() error {
	return validate.Struct(c)
}

// PlayerOptions are the choices offered for a player list
type PlayerOptions struct {
	BetTypes []string
	Teams    []string
}

// NewPlayerOptions collects the distinct non-empty markets and teams in
// first-seen order
func NewPlayerOptions(players []models.PlayerPrediction) PlayerOptions {
	opts := PlayerOptions{BetTypes: []string{}, Teams: []string{}}
	seenBet := make(map[string]struct{})
	seenTeam := make(map[string]struct{})

	for _, p := range players {
		for _, bet := range p.BettingOpportunities {
			if bet.Market == "" {
				continue
			}
			if _, ok := seenBet[bet.Market]; !ok {
				seenBet[bet.Market] = struct{}{}
				opts.BetTypes = append(opts.BetTypes, bet.Market)
			}
		}
		if p.Team == "" {
			continue
		}
		if _, ok := seenTeam[p.Team]; !ok {
			seenTeam[p.Team] = struct{}{}
			opts.Teams = append(opts.Teams, p.Team)
		}
	}
	return opts
}

// DefaultCriteria selects every option with the standard threshold and hides
// players without betting opportunities
func DefaultCriteria(players []models.PlayerPrediction) PlayerCriteria {
	opts := NewPlayerOptions(players)
	return PlayerCriteria{
		BettingThreshold: DefaultBettingThreshold,
		HideNoBetting:    true,
		SelectedBetTypes: opts.BetTypes,
		SelectedTeams:    opts.Teams,
	}
}

// FilterPlayers keeps the players c selects, preserving order
func FilterPlayers(players []models.PlayerPrediction, c PlayerCriteria) []models.PlayerPrediction {
	name := strings.ToLower(c.NameFilter)
	teams := toSet(c.SelectedTeams)
	betTypes := toSet(c.SelectedBetTypes)

	out := make([]models.PlayerPrediction, 0, len(players))
	for _, p := range players {
		if !strings.Contains(strings.ToLower(p.Player), name) {
			continue
		}
		if _, ok := teams[p.Team]; !ok {
			continue
		}
		if !p.HasBettingOpportunities() {
			if !c.HideNoBetting {
				out = append(out, p)
			}
			continue
		}
		if meetsThreshold(p.BettingOpportunities, betTypes, c.BettingThreshold) {
			out = append(out, p)
		}
	}
	return out
}

func meetsThreshold(bets []models.BettingOpportunity, markets map[string]struct{}, threshold float64) bool {
	for _, bet := range bets {
		if _, ok := markets[bet.Market]; !ok {
			continue
		}
		if bet.Probability*100 >= threshold {
			return true
		}
	}
	return false
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
