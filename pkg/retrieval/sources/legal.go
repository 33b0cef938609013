package sources

import "github.com/frontdesk-lu/frontdesk/pkg/schema"

// LegalHosts are the hosts legal evidence may cite.
var LegalHosts = []string{
	"legilux.public.lu",
	"itm.lu",
}

// legalFixtures is the built-in stub corpus for employment law.
var legalFixtures = []Fixture{
	{
		Result: Result{
			URL:     "https://legilux.public.lu/eli/etat/leg/code/travail/L121",
			Title:   "Labour Code, Book I",
			Section: "Art. L.121-4 Employment contract form",
			Snippet: "The employment contract must be in writing and drawn up for each employee at the latest at the moment the employee starts work; an oral contract remains valid but is presumed permanent and full-time.",
		},
		Keywords: []string{"contract", "written", "form", "employment", "permanent"},
	},
	{
		Result: Result{
			URL:     "https://legilux.public.lu/eli/etat/leg/code/travail/L124",
			Title:   "Labour Code, Book I",
			Section: "Art. L.124-3 Notice periods",
			Snippet: "Dismissal with notice is subject to mandatory notice periods of two, four or six months depending on seniority; payment in lieu of notice is optional for the employer and must be stated in the dismissal letter.",
		},
		Keywords: []string{"notice", "dismissal", "termination", "preavis", "seniority"},
	},
	{
		Result: Result{
			URL:     "https://legilux.public.lu/eli/etat/leg/code/travail/L233",
			Title:   "Labour Code, Book II",
			Section: "Art. L.233-4 Annual leave entitlement",
			Snippet: "Every employee is entitled to paid annual leave of at least 26 working days per year; the employer must not unilaterally replace leave with a cash allowance while the contract is running.",
		},
		Keywords: []string{"leave", "annual", "entitlement", "26", "days", "holiday"},
	},
	{
		Result: Result{
			URL:     "https://itm.lu/en/travail/duree-travail.html",
			Title:   "ITM guidance on working time",
			Section: "Maximum working hours",
			Snippet: "Working time must not exceed 10 hours per day and 48 hours per week; keeping a working-time register is mandatory for the employer.",
		},
		Keywords: []string{"working", "hours", "time", "overtime", "maximum"},
	},
	{
		Result: Result{
			URL:     "https://legilux.public.lu/eli/etat/leg/code/travail/L521",
			Title:   "Labour Code, Book V",
			Section: "Art. L.521-1 Jobseeker obligations",
			Snippet: "A registered jobseeker must be available for the labour market and must accept any appropriate job offered; participation in some support measures is voluntary, but refusing an appropriate job can suspend benefits.",
		},
		Keywords: []string{"jobseeker", "obligations", "benefit", "register", "adem"},
	},
}

// NewLegalSource creates the employment-law evidence source.
func NewLegalSource(opts ...FixtureOption) *FixtureSource {
	return NewFixtureSource("legal", schema.DomainLegal, LegalHosts, legalFixtures, opts...)
}
