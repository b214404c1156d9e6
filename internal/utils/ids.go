package utils

import (
	"strings"

	"github.com/google/uuid"
)

// ParseID valide un identifiant produit/utilisateur et le normalise
func ParseID(raw, label string) (string, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", NewValidationError(label + " invalide")
	}
	return id.String(), nil
}
