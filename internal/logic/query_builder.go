package logic

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/aflpredictions/predictions-api/internal/models"
)

// ErrInvalidParameter is returned when a request parameter cannot be parsed
// into the type its filter clause compares against.
var ErrInvalidParameter = errors.New("invalid parameter")

// Op is the comparison a Clause performs
type Op int

const (
	OpEqual Op = iota
	OpStartsWith
)

func (o Op) String() string {
	switch o {
	case OpEqual:
		return "="
	case OpStartsWith:
		return "STARTSWITH"
	default:
		return fmt.Sprintf("Op(%d)", int(o))
	}
}

// Document fields a predicate may reference. Store backends render field
// names into query text, so anything outside this set is rejected.
const (
	FieldPredictionType = "predictionType"
	FieldMatchID        = "matchId"
	FieldRound          = "round"
	FieldYear           = "year"
)

var allowedFields = map[string]bool{
	FieldPredictionType: true,
	FieldMatchID:        true,
	FieldRound:          true,
	FieldYear:           true,
}

// AllowedField reports whether a document field may appear in a Clause
func AllowedField(field string) bool {
	return allowedFields[field]
}

// Clause is a single filter condition. Value is either a string or an int64;
// the type decides whether a store compares textually or numerically.
type Clause struct {
	Field string
	Op    Op
	Param string // named parameter, e.g. "@round"
	Value any
}

// Predicate is an AND of clauses. The first clause is always the
// predictionType discriminator.
type Predicate struct {
	Kind    models.PredictionType
	Clauses []Clause
}

// Validate checks every clause references an allowed field and carries a
// supported value type.
func (p Predicate) Validate() error {
	if len(p.Clauses) == 0 {
		return errors.New("predicate has no clauses")
	}
	for _, c := range p.Clauses {
		if !AllowedField(c.Field) {
			return fmt.Errorf("field not allowed: %q", c.Field)
		}
		switch c.Value.(type) {
		case string:
		case int64:
			if c.Op == OpStartsWith {
				return fmt.Errorf("%s on %s needs a string value", c.Op, c.Field)
			}
		default:
			return fmt.Errorf("unsupported value type %T for %s", c.Value, c.Field)
		}
	}
	return nil
}

// Clause returns the first clause on field, if any
func (p Predicate) Clause(field string) (Clause, bool) {
	for _, c := range p.Clauses {
		if c.Field == field {
			return c, true
		}
	}
	return Clause{}, false
}

// String renders the predicate in document-SQL form, e.g.
// SELECT * FROM c WHERE c.predictionType = @type AND STARTSWITH(c.matchId, @round)
func (p Predicate) String() string {
	var b strings.Builder
	b.WriteString("SELECT * FROM c WHERE ")
	for i, c := range p.Clauses {
		if i > 0 {
			b.WriteString(" AND ")
		}
		switch c.Op {
		case OpStartsWith:
			fmt.Fprintf(&b, "STARTSWITH(c.%s, %s)", c.Field, c.Param)
		default:
			fmt.Fprintf(&b, "c.%s = %s", c.Field, c.Param)
		}
	}
	return b.String()
}

// Parameters maps each named parameter to its value
func (p Predicate) Parameters() map[string]any {
	params := make(map[string]any, len(p.Clauses))
	for _, c := range p.Clauses {
		params[c.Param] = c.Value
	}
	return params
}

// combinedRoundLen is the length of a "<year><round>" value such as "202517".
const combinedRoundLen = 6

// BuildMatchPredicate constructs the filter for team-level match predictions.
// First match wins:
//  1. round has exactly 6 characters: matchId prefix, year ignored
//  2. round present: round equality, plus year equality when year is present
//  3. year present: year equality
//  4. neither: predictionType only
//
// Empty strings are treated as absent.
func BuildMatchPredicate(q models.TeamPredictionsQuery) (Predicate, error) {
	p := basePredicate(models.PredictionTypeTeamMatch)
	round := strings.TrimSpace(q.Round)
	year := strings.TrimSpace(q.Year)

	switch {
	case round != "" && len(round) == combinedRoundLen:
		// TODO: a genuine 6-digit round number lands here too; needs an explicit
		// "prefix" parameter once callers can be migrated.
		if strings.Trim(round, "0123456789") != "" {
			return Predicate{}, fmt.Errorf("%w: round must be digits, got %q", ErrInvalidParameter, round)
		}
		p.Clauses = append(p.Clauses, Clause{Field: FieldMatchID, Op: OpStartsWith, Param: "@round", Value: round})

	case round != "":
		n, err := parseInt("round", round)
		if err != nil {
			return Predicate{}, err
		}
		p.Clauses = append(p.Clauses, Clause{Field: FieldRound, Op: OpEqual, Param: "@round", Value: n})
		if year != "" {
			y, err := parseInt("year", year)
			if err != nil {
				return Predicate{}, err
			}
			p.Clauses = append(p.Clauses, Clause{Field: FieldYear, Op: OpEqual, Param: "@year", Value: y})
		}

	case year != "":
		y, err := parseInt("year", year)
		if err != nil {
			return Predicate{}, err
		}
		p.Clauses = append(p.Clauses, Clause{Field: FieldYear, Op: OpEqual, Param: "@year", Value: y})
	}

	return p, nil
}

// BuildPlayerPredicate constructs the filter for player-level predictions
func BuildPlayerPredicate(q models.PlayerPredictionsQuery) Predicate {
	p := basePredicate(models.PredictionTypePlayerPerformance)
	if q.MatchID != "" {
		p.Clauses = append(p.Clauses, Clause{Field: FieldMatchID, Op: OpEqual, Param: "@matchId", Value: q.MatchID})
	}
	return p
}

func basePredicate(kind models.PredictionType) Predicate {
	return Predicate{
		Kind: kind,
		Clauses: []Clause{
			{Field: FieldPredictionType, Op: OpEqual, Param: "@type", Value: string(kind)},
		},
	}
}

func parseInt(name, raw string) (int64, error) {
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer, got %q", ErrInvalidParameter, name, raw)
	}
	return n, nil
}
