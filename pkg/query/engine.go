package query

import "github.com/tilfirn/firn/pkg/triplestore"

// Query runs rules in order against db, starting from an empty binding, and
// returns one VariableSet per complete solution (§4.5). Rules are never
// reordered: the caller controls join order by the sequence it supplies,
// exactly as original_source's DFS does. An empty rule list yields a single
// empty solution — the identity of the fold.
func Query(db *triplestore.Database, rules []Rule) ([]*VariableSet, error) {
	return resolve(db, rules, NewVariableSet())
}

// resolve is the recursive step: apply rules[0] to set, then recurse into
// rules[1:] from each resulting branch. Depth-first so that a rule which
// narrows the search space early (typically one with more bound slots)
// keeps later rules' candidate sets small.
func resolve(db *triplestore.Database, rules []Rule, set *VariableSet) ([]*VariableSet, error) {
	if len(rules) == 0 {
		return []*VariableSet{set}, nil
	}

	branches, err := rules[0].Resolve(db, set)
	if err != nil {
		return nil, err
	}

	var solutions []*VariableSet
	for _, branch := range branches {
		sub, err := resolve(db, rules[1:], branch)
		if err != nil {
			return nil, err
		}
		solutions = append(solutions, sub...)
	}
	return solutions, nil
}
