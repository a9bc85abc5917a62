package main

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/aflpredictions/predictions-api/internal/models"
)

func renderMatches(w io.Writer, matches []models.MatchPrediction) {
	for i, m := range matches {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s vs %s\n", m.HomeTeam, m.AwayTeam)
		fmt.Fprintf(w, "  %s | %s\n", m.Venue, m.MatchDate)
		if m.HomeWinProbability != nil && m.AwayWinProbability != nil {
			fmt.Fprintf(w, "  %s win probability: %s\n", m.HomeTeam, percent(*m.HomeWinProbability))
			fmt.Fprintf(w, "  %s win probability: %s\n", m.AwayTeam, percent(*m.AwayWinProbability))
		}
		if m.PredictedWinner != nil {
			fmt.Fprintf(w, "  Predicted winner: %s\n", *m.PredictedWinner)
		}
		if m.PredictedTotal != nil {
			fmt.Fprintf(w, "  Predicted total score: %d\n", roundHalfUp(*m.PredictedTotal))
		}
		if m.PredictedMargin != nil {
			fmt.Fprintf(w, "  Predicted margin (line): %d\n", roundHalfUp(*m.PredictedMargin))
		}
		fmt.Fprintf(w, "  Players: aflpredict players -match %s\n", m.MatchID)
	}
}

func renderPlayers(w io.Writer, players []models.PlayerPrediction, allMarkets bool) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PLAYER\tTEAM\tOPPONENT\tDISPOSALS\tGOALS\tSUPERCOACH\tBETTING")
	for _, p := range players {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.1f\t%.1f\t%.1f\t%s\n",
			p.Player, p.Team, p.Opposition,
			p.Predictions.Disposals, p.Predictions.Goals, p.Predictions.Supercoach,
			formatBets(p.BettingOpportunities))
	}
	tw.Flush()

	if !allMarkets {
		return
	}
	for _, p := range players {
		if len(p.MarketProbabilities) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n%s market probabilities\n", p.Player)
		markets := make([]string, 0, len(p.MarketProbabilities))
		for market := range p.MarketProbabilities {
			markets = append(markets, market)
		}
		sort.Strings(markets)
		for _, market := range markets {
			fmt.Fprintf(w, "  %s: %s\n", market, percent(p.MarketProbabilities[market]))
		}
	}
}

func formatBets(bets []models.BettingOpportunity) string {
	if len(bets) == 0 {
		return "-"
	}
	parts := make([]string, len(bets))
	for i, b := range bets {
		parts[i] = fmt.Sprintf("%s: %s (%s)", b.Market, percent(b.Probability), b.Strength)
	}
	return strings.Join(parts, ", ")
}

func percent(p float64) string {
	return fmt.Sprintf("%d%%", roundHalfUp(p*100))
}

// roundHalfUp rounds .5 towards positive infinity, as the web frontend does
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
