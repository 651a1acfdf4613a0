package users

import (
	"context"
	"errors"
	"strings"
)

type Service struct {
	Repo Repo

	// ConsultantEmails lists addresses granted the consultant role on login.
	ConsultantEmails []string
}

func NewService(repo Repo, consultantEmails []string) *Service {
	return &Service{Repo: repo, ConsultantEmails: consultantEmails}
}

// UpsertFromAuth persists the user identity from OAuth and assigns the
// consultant role when the email is on the allow list.
func (s *Service) UpsertFromAuth(ctx context.Context, user User) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errors.New("users service not configured")
	}
	if strings.TrimSpace(user.ID) == "" || strings.TrimSpace(user.Email) == "" {
		return User{}, errors.New("user id and email are required")
	}
	if s.isConsultant(user.Email) {
		user.Role = RoleConsultant
	}
	if err := s.Repo.Upsert(ctx, user); err != nil {
		return User{}, err
	}
	return user, nil
}

func (s *Service) GetByID(ctx context.Context, userID string) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errors.New("users service not configured")
	}
	if strings.TrimSpace(userID) == "" {
		return User{}, errors.New("user id is required")
	}
	return s.Repo.GetByID(ctx, userID)
}

func (s *Service) isConsultant(email string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, allowed := range s.ConsultantEmails {
		if strings.ToLower(strings.TrimSpace(allowed)) == email {
			return true
		}
	}
	return false
}
