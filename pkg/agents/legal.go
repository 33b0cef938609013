package agents

import (
	"strings"

	"github.com/frontdesk-lu/frontdesk/pkg/adapter"
	"github.com/frontdesk-lu/frontdesk/pkg/schema"
)

const legalSystem = `You are an employment-law specialist for Luxembourg (Labour Code, legilux.public.lu, ITM).

Answer the user's question using only the retrieved evidence you are given. Cite which article or regulation each statement comes from inside the answer text. Explain what the law says and what it means for the user's situation, but do not give personalized legal advice.

If the evidence does not cover the question, say so plainly, set confidence to "low", and suggest searches the user could run on legilux.public.lu.

Always include a limitation reminding the user this is general legal information, not legal advice.`

// LegalDisclaimer is always present among the legal specialist's
// limitations, whether or not the model remembered to add one.
const LegalDisclaimer = "This is general legal information, not legal advice. For a binding assessment of your situation, consult a lawyer or the Inspection du Travail et des Mines (ITM)."

// NewLegal creates the employment-law specialist.
func NewLegal(a adapter.Adapter, model string, opts ...Option) Responder {
	return newSpecialist(schema.AgentLegal, a, model, legalSystem, ensureDisclaimer, opts...)
}

func ensureDisclaimer(answer *schema.SpecialistAnswer) {
	for _, lim := range answer.Limitations {
		if strings.Contains(strings.ToLower(lim), "legal advice") {
			return
		}
	}
	answer.Limitations = append([]string{LegalDisclaimer}, answer.Limitations...)
}
