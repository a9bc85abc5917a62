// Command aflpredict browses predictions from the API the way the web
// frontend does: match lists by round, player lists with betting filters.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/aflpredictions/predictions-api/internal/client"
	"github.com/aflpredictions/predictions-api/internal/filter"
	"github.com/aflpredictions/predictions-api/internal/logger"
	"github.com/aflpredictions/predictions-api/internal/models"
)

const usage = `usage: aflpredict [-api URL] [-v] <command> [flags]

commands:
  matches   list match predictions (-mode upcoming|all|<round>)
  rounds    list the round selectors available
  players   list player predictions for a match (-match <matchId>)
`

var errUsage = errors.New("usage")

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, time.Now))
}

func run(args []string, stdout, stderr io.Writer, now func() time.Time) int {
	global := flag.NewFlagSet("aflpredict", flag.ContinueOnError)
	global.SetOutput(stderr)
	global.Usage = func() { fmt.Fprint(stderr, usage) }
	apiURL := global.String("api", envOr("AFL_API_URL", "http://localhost:8080"), "predictions API base URL")
	timeout := global.Duration("timeout", 15*time.Second, "request timeout")
	verbose := global.Bool("v", false, "log requests to stderr")
	if err := global.Parse(args); err != nil {
		return 2
	}
	if global.NArg() == 0 {
		global.Usage()
		return 2
	}

	log := zap.NewNop()
	if *verbose {
		if l, err := logger.New("aflpredict", "development"); err == nil {
			log = l
		}
	}
	defer log.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	app := &app{
		api:    client.New(*apiURL, *timeout),
		out:    stdout,
		errOut: stderr,
		log:    log.Sugar(),
		now:    now,
	}

	cmd, rest := global.Arg(0), global.Args()[1:]
	var err error
	switch cmd {
	case "matches":
		err = app.matches(ctx, rest)
	case "rounds":
		err = app.rounds(ctx, rest)
	case "players":
		err = app.players(ctx, rest)
	default:
		fmt.Fprintf(stderr, "unknown command %q\n", cmd)
		global.Usage()
		return 2
	}

	switch {
	case err == nil:
		return 0
	case errors.Is(err, errUsage), errors.Is(err, flag.ErrHelp):
		return 2
	default:
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
}

type app struct {
	api    *client.Client
	out    io.Writer
	errOut io.Writer
	log    *zap.SugaredLogger
	now    func() time.Time
}

func (a *app) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.errOut)
	return fs
}

func (a *app) matches(ctx context.Context, args []string) error {
	fs := a.flagSet("matches")
	modeArg := fs.String("mode", "upcoming", "upcoming, all or a round number")
	round := fs.String("round", "", "server-side round filter (number or 6 digit matchId prefix)")
	year := fs.String("year", "", "server-side season filter")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	mode, err := filter.ParseMatchMode(*modeArg)
	if err != nil {
		return err
	}

	matches, err := a.fetchMatches(ctx, models.TeamPredictionsQuery{Round: *round, Year: *year})
	if err != nil {
		return err
	}

	shown := filter.FilterMatches(matches, mode, a.now())
	fmt.Fprintf(a.out, "%s (%d of %d)\n\n", mode.Label(), len(shown), len(matches))
	if len(shown) == 0 {
		fmt.Fprintln(a.out, "No matches.")
		return nil
	}
	renderMatches(a.out, shown)
	return nil
}

func (a *app) rounds(ctx context.Context, args []string) error {
	fs := a.flagSet("rounds")
	year := fs.String("year", "", "server-side season filter")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	matches, err := a.fetchMatches(ctx, models.TeamPredictionsQuery{Year: *year})
	if err != nil {
		return err
	}
	for _, m := range filter.RoundModes(matches) {
		fmt.Fprintf(a.out, "%-10s %s\n", m.String(), m.Label())
	}
	return nil
}

func (a *app) players(ctx context.Context, args []string) error {
	fs := a.flagSet("players")
	matchID := fs.String("match", "", "matchId to list players for (empty lists every player)")
	name := fs.String("name", "", "case-insensitive player name filter")
	threshold := fs.Float64("threshold", filter.DefaultBettingThreshold, "minimum betting probability in percent")
	showAll := fs.Bool("show-all", false, "include players without betting opportunities")
	betTypes := fs.String("bet-types", "", "comma separated markets to consider (default all)")
	teams := fs.String("teams", "", "comma separated teams to include (default all)")
	allMarkets := fs.Bool("all-markets", false, "print every market probability")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	a.log.Debugw("fetching player predictions", "matchId", *matchID)
	players, err := a.api.PlayerPredictions(ctx, models.PlayerPredictionsQuery{MatchID: *matchID})
	if err != nil {
		return fmt.Errorf("failed to load player predictions: %w", err)
	}

	criteria := filter.DefaultCriteria(players)
	criteria.NameFilter = *name
	criteria.BettingThreshold = *threshold
	criteria.HideNoBetting = !*showAll
	if *betTypes != "" {
		criteria.SelectedBetTypes = splitList(*betTypes)
	}
	if *teams != "" {
		criteria.SelectedTeams = splitList(*teams)
	}
	if err := criteria.Validate(); err != nil {
		return fmt.Errorf("invalid filter: %w", err)
	}

	opts := filter.NewPlayerOptions(players)
	shown := filter.FilterPlayers(players, criteria)
	fmt.Fprintf(a.out, "Player Predictions (%d of %d)\n", len(shown), len(players))
	fmt.Fprintf(a.out, "Bet types: %s\n", strings.Join(opts.BetTypes, ", "))
	fmt.Fprintf(a.out, "Teams: %s\n\n", strings.Join(opts.Teams, ", "))
	if len(shown) == 0 {
		fmt.Fprintln(a.out, "No players match the current filters.")
		return nil
	}
	renderPlayers(a.out, shown, *allMarkets)
	return nil
}

func (a *app) fetchMatches(ctx context.Context, q models.TeamPredictionsQuery) ([]models.MatchPrediction, error) {
	a.log.Debugw("fetching team predictions", "round", q.Round, "year", q.Year)
	matches, err := a.api.TeamPredictions(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to load matches: %w", err)
	}
	return matches, nil
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
