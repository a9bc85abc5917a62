// Package filter holds the list filters the frontend applies to prediction
// results after they have been fetched. Everything here is pure: callers pass
// the current time and the selection state explicitly.
package filter

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/aflpredictions/predictions-api/internal/models"
)

var ErrInvalidMode = errors.New("invalid match mode")

// ModeKind selects which matches FilterMatches keeps
type ModeKind int

const (
	ModeUpcoming ModeKind = iota
	ModeAll
	ModeRound
)

// MatchMode is a parsed round selector
type MatchMode struct {
	Kind  ModeKind
	Round int // only for ModeRound
}

func Upcoming() MatchMode       { return MatchMode{Kind: ModeUpcoming} }
func All() MatchMode            { return MatchMode{Kind: ModeAll} }
func Round(round int) MatchMode { return MatchMode{Kind: ModeRound, Round: round} }

// ParseMatchMode accepts "upcoming", "all" or a round number
func ParseMatchMode(s string) (MatchMode, error) {
	switch v := strings.ToLower(strings.TrimSpace(s)); v {
	case "upcoming", "":
		return Upcoming(), nil
	case "all":
		return All(), nil
	default:
		n, err := strconv.Atoi(v)
		if err != nil {
			return MatchMode{}, fmt.Errorf("%w: %q is not upcoming, all or a round number", ErrInvalidMode, s)
		}
		return Round(n), nil
	}
}

// String returns the selector form accepted by ParseMatchMode
func (m MatchMode) String() string {
	switch m.Kind {
	case ModeAll:
		return "all"
	case ModeRound:
		return strconv.Itoa(m.Round)
	default:
		return "upcoming"
	}
}

// Label is the human readable name of the selector
func (m MatchMode) Label() string {
	switch m.Kind {
	case ModeAll:
		return "All Matches"
	case ModeRound:
		return fmt.Sprintf("Round %d", m.Round)
	default:
		return "Upcoming Matches"
	}
}

// FilterMatches sorts matches by start time and keeps those selected by mode.
// Matches with an unparseable date sort last in their input order and never
// count as upcoming. The input slice is not modified.
func FilterMatches(matches []models.MatchPrediction, mode MatchMode, now time.Time) []models.MatchPrediction {
	sorted := SortByStartTime(matches)

	out := make([]models.MatchPrediction, 0, len(sorted))
	for _, m := range sorted {
		switch mode.Kind {
		case ModeAll:
			out = append(out, m)
		case ModeRound:
			if m.Round == mode.Round {
				out = append(out, m)
			}
		default:
			if start, ok := m.StartTime(); ok && start.After(now) {
				out = append(out, m)
			}
		}
	}
	return out
}

// SortByStartTime returns a copy of matches ordered by ascending start time
func SortByStartTime(matches []models.MatchPrediction) []models.MatchPrediction {
	type keyed struct {
		m     models.MatchPrediction
		start time.Time
		ok    bool
	}
	ks := make([]keyed, len(matches))
	for i, m := range matches {
		start, ok := m.StartTime()
		ks[i] = keyed{m: m, start: start, ok: ok}
	}

	sort.SliceStable(ks, func(i, j int) bool {
		if ks[i].ok != ks[j].ok {
			return ks[i].ok
		}
		return ks[i].ok && ks[i].start.Before(ks[j].start)
	})

	out := make([]models.MatchPrediction, len(ks))
	for i, k := range ks {
		out[i] = k.m
	}
	return out
}

// AvailableRounds lists the distinct rounds in matches in ascending order
func AvailableRounds(matches []models.MatchPrediction) []int {
	seen := make(map[int]struct{}, len(matches))
	rounds := make([]int, 0)
	for _, m := range matches {
		if _, ok := seen[m.Round]; ok {
			continue
		}
		seen[m.Round] = struct{}{}
		rounds = append(rounds, m.Round)
	}
	sort.Ints(rounds)
	return rounds
}

// RoundModes is the selector list shown to users: upcoming, all, then each round
func RoundModes(matches []models.MatchPrediction) []MatchMode {
	rounds := AvailableRounds(matches)
	modes := make([]MatchMode, 0, len(rounds)+2)
	modes = append(modes, Upcoming(), All())
	for _, r := range rounds {
		modes = append(modes, Round(r))
	}
	return modes
}
