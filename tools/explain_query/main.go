package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/aflpredictions/predictions-api/internal/logic"
	"github.com/aflpredictions/predictions-api/internal/models"
	"github.com/aflpredictions/predictions-api/internal/store"
)

// Prints the predicate built for a request and how each backend renders it.
//
//	go run ./tools/explain_query -round 202517
//	go run ./tools/explain_query -players -match 202517001
func main() {
	round := flag.String("round", "", "round query parameter")
	year := flag.String("year", "", "year query parameter")
	players := flag.Bool("players", false, "explain the player endpoint instead")
	matchID := flag.String("match", "", "matchId query parameter (with -players)")
	flag.Parse()

	var (
		p   logic.Predicate
		err error
	)
	if *players {
		p = logic.BuildPlayerPredicate(models.PlayerPredictionsQuery{MatchID: *matchID})
	} else {
		p, err = logic.BuildMatchPredicate(models.TeamPredictionsQuery{Round: *round, Year: *year})
		if err != nil {
			log.Fatalf("Failed to build predicate: %v", err)
		}
	}

	renderings, err := store.Explain(p)
	if err != nil {
		log.Fatalf("Failed to render predicate: %v", err)
	}

	fmt.Printf("kind: %s\n", p.Kind)
	for name, value := range p.Parameters() {
		fmt.Printf("  %s = %#v\n", name, value)
	}
	for _, r := range renderings {
		fmt.Printf("\n[%s]\n%s\n", r.Backend, r.Query)
		if len(r.Args) > 0 {
			fmt.Printf("args: %v\n", r.Args)
		}
	}
}
