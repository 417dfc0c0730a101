package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/imrishuroy/go-sales-orders/internal/repository"
	"github.com/imrishuroy/go-sales-orders/internal/validation"
)

// Roles a user may hold.
const (
	RoleAdmin = "ADMIN"
	RoleSales = "SALES"
)

// SettingsID is the key of the single settings record.
const SettingsID int64 = 1

// User is a dashboard operator. Orders carry a copy as their sales representative.
type User struct {
	ID    int64  `json:"id" dynamodbav:"id"`
	Name  string `json:"name" dynamodbav:"name"`
	Email string `json:"email" dynamodbav:"email"`
	Role  string `json:"role" dynamodbav:"role"`
}

// Profile holds the signed-in user's editable settings.
type Profile struct {
	Username string `json:"username" dynamodbav:"username"`
	Email    string `json:"email" dynamodbav:"email"`
	Bio      string `json:"bio" dynamodbav:"bio"`
}

// Company holds the organisation settings printed on orders.
type Company struct {
	Name    string `json:"name" dynamodbav:"name"`
	Website string `json:"website" dynamodbav:"website"`
	Address string `json:"address" dynamodbav:"address"`
	TaxID   string `json:"taxId" dynamodbav:"tax_id"`
}

// Settings is the stored settings record. There is exactly one, keyed by
// SettingsID.
type Settings struct {
	ID      int64   `json:"-" dynamodbav:"id"`
	Profile Profile `json:"profile" dynamodbav:"profile"`
	Company Company `json:"company" dynamodbav:"company"`
}

// Repository is the settings backing collection.
type Repository = repository.Repository[Settings]

// NewMemoryRepository returns an empty in-memory settings collection.
func NewMemoryRepository() *repository.Memory[Settings] {
	return repository.NewMemory(func(s Settings) int64 { return s.ID }, nil)
}

// Codec maps the settings record onto a DynamoDB item.
func Codec() repository.Codec[Settings, Settings] {
	return repository.Codec[Settings, Settings]{
		ID:       func(s Settings) int64 { return s.ID },
		ToItem:   func(s Settings) Settings { return s },
		FromItem: func(s Settings) (Settings, error) { return s, nil },
	}
}

// Service serves the current user and the settings documents.
// There is no authentication: every caller acts as the current user.
type Service struct {
	mu       sync.Mutex
	user     User
	repo     Repository
	defaults Settings
	validate *validatorv10.Validate
}

// NewService creates a new accounts Service. defaults are served until the
// first update stores a settings record.
func NewService(user User, repo Repository, defaults Settings) *Service {
	defaults.ID = SettingsID
	return &Service{
		user:     user,
		repo:     repo,
		defaults: defaults,
		validate: validation.New(),
	}
}

// CurrentUser returns the signed-in sales representative.
func (s *Service) CurrentUser(ctx context.Context) User {
	return s.user
}

func (s *Service) Profile(ctx context.Context) (Profile, error) {
	st, err := s.load(ctx)
	if err != nil {
		return Profile{}, err
	}
	return st.Profile, nil
}

// UpdateProfile replaces the profile after validation.
func (s *Service) UpdateProfile(ctx context.Context, p Profile) (Profile, error) {
	req := validation.ProfileRequest{
		Username: strings.TrimSpace(p.Username),
		Email:    strings.TrimSpace(p.Email),
		Bio:      p.Bio,
	}
	if err := s.validate.Struct(req); err != nil {
		return Profile{}, validation.Errors(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.load(ctx)
	if err != nil {
		return Profile{}, err
	}
	st.Profile = Profile{Username: req.Username, Email: req.Email, Bio: req.Bio}
	if err := s.save(ctx, st); err != nil {
		return Profile{}, err
	}
	return st.Profile, nil
}

func (s *Service) Company(ctx context.Context) (Company, error) {
	st, err := s.load(ctx)
	if err != nil {
		return Company{}, err
	}
	return st.Company, nil
}

// UpdateCompany replaces the company settings after validation.
func (s *Service) UpdateCompany(ctx context.Context, c Company) (Company, error) {
	req := validation.CompanyRequest{
		Name:    strings.TrimSpace(c.Name),
		Website: strings.TrimSpace(c.Website),
		Address: strings.TrimSpace(c.Address),
		TaxID:   strings.TrimSpace(c.TaxID),
	}
	if err := s.validate.Struct(req); err != nil {
		return Company{}, validation.Errors(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.load(ctx)
	if err != nil {
		return Company{}, err
	}
	st.Company = Company{Name: req.Name, Website: req.Website, Address: req.Address, TaxID: req.TaxID}
	if err := s.save(ctx, st); err != nil {
		return Company{}, err
	}
	return st.Company, nil
}

func (s *Service) load(ctx context.Context) (Settings, error) {
	st, err := s.repo.Get(ctx, SettingsID)
	if errors.Is(err, repository.ErrNotFound) {
		return s.defaults, nil
	}
	if err != nil {
		return Settings{}, fmt.Errorf("get settings: %w", err)
	}
	return st, nil
}

// save updates the settings record, creating it on first write.
func (s *Service) save(ctx context.Context, st Settings) error {
	st.ID = SettingsID
	err := s.repo.Update(ctx, st)
	if errors.Is(err, repository.ErrNotFound) {
		err = s.repo.Insert(ctx, st)
	}
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}
