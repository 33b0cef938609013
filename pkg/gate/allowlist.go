package gate

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/frontdesk-lu/frontdesk/pkg/schema"
)

// AllowlistGate checks that every piece of evidence comes from a host
// allowed for its domain. An evidence host matches when it equals an
// allowed host or is a subdomain of one.
type AllowlistGate struct {
	hosts map[schema.Domain][]string
}

// NewAllowlistGate creates an allowlist gate from per-domain host lists.
func NewAllowlistGate(hosts map[schema.Domain][]string) *AllowlistGate {
	return &AllowlistGate{hosts: hosts}
}

// Name returns the gate identifier.
func (g *AllowlistGate) Name() string {
	return "source-allowlist"
}

// Evaluate checks every evidence URL against its domain's allowlist.
func (g *AllowlistGate) Evaluate(resp *schema.Response) *Result {
	var violations []Violation
	for _, ev := range resp.Evidence {
		if !g.allowed(ev.Domain, ev.URL) {
			violations = append(violations, Violation{
				Rule:     "allowed-host",
				Severity: "warning",
				Message:  fmt.Sprintf("evidence %s from %s is outside the %s allowlist", ev.ID, ev.URL, ev.Domain),
			})
		}
	}

	if len(violations) > 0 {
		return NewFailingResult(violations)
	}
	return NewPassingResult()
}

func (g *AllowlistGate) allowed(domain schema.Domain, raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return false
	}
	host := strings.ToLower(u.Hostname())

	for _, allowed := range g.hostsFor(domain) {
		allowed = strings.ToLower(allowed)
		if host == allowed || strings.HasSuffix(host, "."+allowed) {
			return true
		}
	}
	return false
}

// hostsFor resolves the allowlist for a domain. Evidence tagged mixed
// may come from any configured source, so it gets the union.
func (g *AllowlistGate) hostsFor(domain schema.Domain) []string {
	if domain != schema.DomainMixed {
		return g.hosts[domain]
	}
	var union []string
	for _, hosts := range g.hosts {
		union = append(union, hosts...)
	}
	return union
}
