/*
clauses.go - Standard laytime clause library

PURPOSE:
  Reference texts for the clause conventions the engine understands,
  surfaced to users so a calculation can cite the clause it applied.
  These are standard market formulations, not legal advice.
*/
package charter

import "github.com/mari8x/laytime-engine/laytime"

// Clause is one standard laytime clause with its reference text.
type Clause struct {
	ID          string
	Title       string
	Description string
	Text        string
	Category    string

	// Rule links the clause to the engine rule it drives, when one
	// exists. Empty for informational clauses.
	Rule laytime.ExceptionRule
}

// StandardClauses returns the built-in clause library.
func StandardClauses() []Clause {
	return []Clause{
		{
			ID:          "shex",
			Title:       "SHEX (Sundays/Holidays Excluded)",
			Description: "Sundays and holidays excluded from laytime counting",
			Text:        "Time used at loading and discharging ports to count unless lost due to vessel's breakdown or deficiency of men or stores. Sundays and holidays excluded unless used.",
			Category:    "exception",
			Rule:        laytime.RuleSHEX,
		},
		{
			ID:          "shinc",
			Title:       "SHINC (Sundays/Holidays Included)",
			Description: "Sundays and holidays count as laytime",
			Text:        "All time including Sundays and holidays to count as laytime whether used or not.",
			Category:    "exception",
			Rule:        laytime.RuleSHINC,
		},
		{
			ID:          "wwd",
			Title:       "WWD (Weather Working Days)",
			Description: "Time lost due to weather excluded",
			Text:        "Only weather working days to count. Time lost due to inclement weather preventing cargo operations shall not count as laytime.",
			Category:    "exception",
			Rule:        laytime.RuleWWD,
		},
		{
			ID:          "reversible",
			Title:       "Reversible Laytime",
			Description: "Total time for loading and discharge combined",
			Text:        "Total laytime allowed for both loading and discharging shall be combined and reversible between ports.",
			Category:    "calculation",
		},
		{
			ID:          "always-on-demurrage",
			Title:       "Once on Demurrage, Always on Demurrage",
			Description: "Standard demurrage principle",
			Text:        "Once the vessel is on demurrage, time shall continue to count without interruption, and there shall be no exceptions thereafter.",
			Category:    "demurrage",
		},
	}
}

// FindClause looks a clause up by ID. Returns nil when unknown.
func FindClause(id string) *Clause {
	for _, c := range StandardClauses() {
		if c.ID == id {
			return &c
		}
	}
	return nil
}
