package application

import "github.com/xstraven/mcp-server-learning/internal/domain"

// Re-export card types for use by adapters
type (
	Card            = domain.Card
	CardKind        = domain.CardKind
	Target          = domain.Target
	DuplicatePolicy = domain.DuplicatePolicy
)

const (
	KindFrontBack = domain.KindFrontBack
	KindCloze     = domain.KindCloze

	TargetChat    = domain.TargetChat
	TargetAnki    = domain.TargetAnki
	TargetPreview = domain.TargetPreview
)

// ParseCardKind resolves a user-supplied card type name
func ParseCardKind(s string) (CardKind, error) {
	return domain.ParseCardKind(s)
}

// ParseTarget resolves a user-supplied output target name
func ParseTarget(s string) Target {
	return domain.ParseTarget(s)
}

// ParseDuplicatePolicy resolves a duplicate policy name, defaulting to skip
func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	if s == "" {
		return domain.DuplicateSkip, nil
	}
	p := domain.DuplicatePolicy(s)
	if err := ValidateDuplicatePolicy(p); err != nil {
		return "", err
	}
	return p, nil
}
