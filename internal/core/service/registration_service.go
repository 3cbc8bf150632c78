package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/taskconnect/marketplace-api/internal/core/domain"
	"github.com/taskconnect/marketplace-api/internal/core/ports"
)

const (
	msgRegistered         = "Registration successful."
	msgRegisteredProvider = "Registration successful. Service providers must await admin approval."
)

// RegistrationService implements account creation.
type RegistrationService struct {
	identities ports.IdentityRepository
	hasher     ports.PasswordHasher
	log        zerolog.Logger
	now        func() time.Time
}

func NewRegistrationService(identities ports.IdentityRepository, hasher ports.PasswordHasher, log zerolog.Logger) *RegistrationService {
	return &RegistrationService{
		identities: identities,
		hasher:     hasher,
		log:        log,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Register validates the whole request before writing anything, then stores
// the identity and, for providers, the profile in one atomic repository call.
func (s *RegistrationService) Register(ctx context.Context, in ports.RegisterInput) (*ports.RegisterResult, error) {
	in.Email = normalizeEmail(in.Email)
	in.Name = strings.TrimSpace(in.Name)

	verr := &domain.ValidationError{}
	if err := mergeValidation(verr, validateStruct(in)); err != nil {
		return nil, err
	}

	var profile *domain.ProviderProfile
	if in.Role == domain.RoleServiceProvider {
		if in.Provider == nil {
			in.Provider = &ports.ProviderDetailsInput{}
		}
		if err := mergeValidation(verr, validateStruct(*in.Provider)); err != nil {
			return nil, err
		}
		profile = &domain.ProviderProfile{
			Location:    strings.TrimSpace(in.Provider.Location),
			NationalID:  strings.TrimSpace(in.Provider.NationalID),
			Phone:       strings.TrimSpace(in.Provider.Phone),
			Service:     strings.TrimSpace(in.Provider.Service),
			Description: in.Provider.Description,
			Images:      append([]string(nil), in.Provider.Images...),
		}
	}
	if !verr.Empty() {
		return nil, verr
	}

	created, err := s.create(ctx, in.Name, in.Email, in.Password, in.Role, profile)
	if err != nil {
		return nil, err
	}

	msg := msgRegistered
	if created.Role == domain.RoleServiceProvider {
		msg = msgRegisteredProvider
	}
	s.log.Info().Str("identity_id", created.ID).Str("role", string(created.Role)).Msg("identity registered")

	return &ports.RegisterResult{Identity: created, Message: msg}, nil
}

// CreateAdmin provisions an administrator account. It is not reachable
// through self-registration.
func (s *RegistrationService) CreateAdmin(ctx context.Context, name, email, password string) (*domain.Identity, error) {
	email = normalizeEmail(email)
	in := struct {
		Name     string `validate:"required,max=255"`
		Email    string `validate:"required,email,max=255"`
		Password string `validate:"required,min=8"`
	}{strings.TrimSpace(name), email, password}
	if err := validateStruct(in); err != nil {
		return nil, err
	}

	created, err := s.create(ctx, in.Name, in.Email, in.Password, domain.RoleAdmin, nil)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("identity_id", created.ID).Msg("admin created")
	return created, nil
}

func (s *RegistrationService) create(ctx context.Context, name, email, password string, role domain.Role, profile *domain.ProviderProfile) (*domain.Identity, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	now := s.now()
	identity := &domain.Identity{
		Name:         name,
		Email:        email,
		Role:         role,
		PasswordHash: hash,
		Approval:     domain.Approval{Approved: role != domain.RoleServiceProvider},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.identities.Create(ctx, identity, profile)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	return created, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
