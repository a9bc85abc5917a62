package store

import (
	"fmt"

	"github.com/aflpredictions/predictions-api/internal/logic"
)

// Rendering is a predicate as one backend would execute it
type Rendering struct {
	Backend string
	Query   string
	Args    []any
}

// Explain renders p for every backend that has a textual query form
func Explain(p logic.Predicate) ([]Rendering, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	out := []Rendering{{Backend: "document", Query: p.String(), Args: parameterArgs(p)}}

	filter, err := mongoFilter(p)
	if err != nil {
		return nil, err
	}
	out = append(out, Rendering{Backend: DriverMongo, Query: fmt.Sprintf("%v", filter)})

	for _, r := range []struct {
		backend string
		render  func(logic.Predicate) (string, []any, error)
	}{
		{DriverPostgres, renderPostgres},
		{DriverSQLite, renderSQLite},
	} {
		query, args, err := r.render(p)
		if err != nil {
			return nil, err
		}
		out = append(out, Rendering{Backend: r.backend, Query: query, Args: args})
	}
	return out, nil
}

func parameterArgs(p logic.Predicate) []any {
	args := make([]any, 0, len(p.Clauses))
	for _, c := range p.Clauses {
		args = append(args, fmt.Sprintf("%s=%v", c.Param, c.Value))
	}
	return args
}
