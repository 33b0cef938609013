package sources

import "github.com/frontdesk-lu/frontdesk/pkg/schema"

// GuichetHosts are the hosts procedural evidence may cite.
var GuichetHosts = []string{
	"guichet.public.lu",
	"adem.public.lu",
	"mteess.gouvernement.lu",
}

// guichetFixtures is the built-in stub corpus for administrative
// procedures.
var guichetFixtures = []Fixture{
	{
		Result: Result{
			URL:     "https://guichet.public.lu/en/citoyens/travail-emploi/perte-emploi/inscription-adem.html",
			Title:   "Registering as a jobseeker with ADEM",
			Section: "Who can register",
			Snippet: "Persons residing in Luxembourg who are unemployed and looking for a job must register with ADEM in person or online via MyGuichet.lu before any claim for unemployment benefit can be made.",
		},
		Keywords: []string{"register", "jobseeker", "job-seeker", "adem", "inscription", "unemployment"},
	},
	{
		Result: Result{
			URL:     "https://guichet.public.lu/en/citoyens/travail-emploi/perte-emploi/inscription-adem.html",
			Title:   "Registering as a jobseeker with ADEM",
			Section: "How to proceed",
			Snippet: "The registration appointment must take place within the deadlines; the jobseeker must bring an identity document, their social security number and, where applicable, the letter of dismissal.",
		},
		Keywords: []string{"register", "jobseeker", "appointment", "documents", "adem"},
	},
	{
		Result: Result{
			URL:     "https://guichet.public.lu/en/citoyens/travail-emploi/perte-emploi/indemnite-chomage.html",
			Title:   "Full unemployment benefit",
			Section: "Conditions",
			Snippet: "To receive full unemployment benefit the applicant must be registered as a jobseeker, be fit for work, be aged between 16 and 64, and have worked at least 26 weeks during the 12 months preceding registration.",
		},
		Keywords: []string{"unemployment", "benefit", "indemnite", "chomage", "conditions"},
	},
	{
		Result: Result{
			URL:     "https://guichet.public.lu/en/citoyens/travail-emploi/conges/conge-recreation.html",
			Title:   "Annual paid leave",
			Section: "Requesting leave",
			Snippet: "Leave is requested from the employer; the request is optional in form but the employer's agreement on the dates is required before the leave is taken.",
		},
		Keywords: []string{"leave", "holiday", "conge", "vacation", "paid"},
	},
	{
		Result: Result{
			URL:     "https://guichet.public.lu/en/citoyens/travail-emploi/contrat-travail/periode-essai.html",
			Title:   "Trial period in an employment contract",
			Section: "Duration",
			Snippet: "The trial period must be set in writing at the latest when the employee starts work; it runs from 2 weeks to 6 months depending on qualification and salary level.",
		},
		Keywords: []string{"trial", "probation", "essai", "contract", "period"},
	},
}

// NewGuichetSource creates the procedural (front-desk) evidence source.
func NewGuichetSource(opts ...FixtureOption) *FixtureSource {
	return NewFixtureSource("guichet", schema.DomainGuichet, GuichetHosts, guichetFixtures, opts...)
}
