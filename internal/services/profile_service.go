package services

import (
	"context"
	"fmt"
	"strings"

	"inversiones-bot/internal/models"
	"inversiones-bot/internal/repository"
)

// Profile fields editable through the update wizard, keyed by the label the
// front end uses.
var profileColumns = map[string]string{
	"nombre":   "name",
	"telefono": "phone",
	"cedula":   "cedula",
	"nequi":    "nequi",
}

// ProfileService reads and updates user profile fields.
type ProfileService struct {
	store *repository.Store
}

func NewProfileService(store *repository.Store) *ProfileService {
	return &ProfileService{store: store}
}

// Get retrieves a user's profile
func (s *ProfileService) Get(ctx context.Context, userID int64) (*models.User, error) {
	return s.store.GetUser(ctx, userID)
}

// ValidField reports whether field is one the wizard may update.
func (s *ProfileService) ValidField(field string) bool {
	_, ok := profileColumns[field]
	return ok
}

// UpdateField normalises and stores a single profile field.
func (s *ProfileService) UpdateField(ctx context.Context, userID int64, field string, value string) error {
	column, ok := profileColumns[field]
	if !ok {
		return fmt.Errorf("invalid profile field %q", field)
	}

	value = strings.TrimSpace(value)
	switch field {
	case "telefono":
		value = strings.NewReplacer(" ", "", "-", "").Replace(value)
	case "cedula":
		value = strings.ReplaceAll(value, " ", "")
	}

	return s.store.UpdateUserField(ctx, userID, column, value)
}
