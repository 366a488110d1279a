package triage

import "strings"

// DefaultRoster is the fixed clerk roster. Tags matching one of these
// exactly identify the assigned owner; the list is overridable via config.
func DefaultRoster() []string {
	return []string{
		"Servidor 01",
		"Servidor 02",
		"Servidor 03",
		"Servidor 04",
		"Servidor 05",
		"Servidor 06",
		"Servidor 07 - ES",
		"Servidor 09 - ES",
		"Supervisão 08",
	}
}

// Tag markers. A token containing clerkMarker or supervisorMarker is taken
// verbatim as the owner even when it is not on the roster; a token
// containing courtMarker identifies the originating federal court.
const (
	clerkMarker      = "Servidor"
	supervisorMarker = "Supervisão"
	courtMarker      = "Vara Federal"
)

// splitTags breaks the raw tag string into its comma-space separated
// tokens.
func splitTags(tags string) []string {
	return strings.Split(tags, ", ")
}

// ExtractOwner classifies the assigned owner from a raw tag string. An
// exact roster match wins over the marker-substring rule regardless of
// token order relative to other marker tokens; within a rule the first
// matching token wins. Empty input means the record had no tags at all.
func ExtractOwner(tags string, roster []string) string {
	if strings.TrimSpace(tags) == "" {
		return OwnerUnlabeled
	}
	tokens := splitTags(tags)
	for _, tok := range tokens {
		for _, name := range roster {
			if tok == name {
				return tok
			}
		}
		if strings.Contains(tok, clerkMarker) || strings.Contains(tok, supervisorMarker) {
			return tok
		}
	}
	return OwnerUnclassified
}

// ExtractCourt returns the first tag token naming a federal court. When no
// token matches, the adjudicating-body fallback is substituted if
// available, else the sentinel.
func ExtractCourt(tags string, fallback string) string {
	if strings.TrimSpace(tags) != "" {
		for _, tok := range splitTags(tags) {
			if strings.Contains(tok, courtMarker) {
				return tok
			}
		}
	}
	if strings.TrimSpace(fallback) != "" {
		return fallback
	}
	return CourtNotIdentified
}
