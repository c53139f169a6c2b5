package service

import (
	"errors"
	"fmt"
	"log"
	"time"

	"go-agrimarket/internal/model"
	"go-agrimarket/internal/notify"
	"go-agrimarket/internal/repository"
	"go-agrimarket/internal/ws"
	"go-agrimarket/pkg/validator"
)

var (
	ErrEmailExists    = errors.New("email already exists")
	ErrEmailRequired  = errors.New("email is required")
	ErrFarmerNotFound = errors.New("farmer not found")
)

type FarmerService interface {
	Onboard(req *OnboardFarmerRequest, employeeID string) (*model.User, error)
	ListFarmers(employeeID string) ([]model.UserResponse, error)
	Activate(email string) (*model.User, error)
}

type OnboardFarmerRequest struct {
	FirstName   string `json:"first_name" validate:"required"`
	LastName    string `json:"last_name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	PhoneNumber string `json:"phone_number" validate:"required,phone"`
	Password    string `json:"password" validate:"required,min=6"` // Temporary password
}

type farmerService struct {
	userRepo repository.UserRepository
	roleRepo repository.RoleRepository
	notifier notify.Notifier
	wsHub    *ws.Hub
}

func NewFarmerService(userRepo repository.UserRepository, roleRepo repository.RoleRepository, notifier notify.Notifier, hub *ws.Hub) FarmerService {
	return &farmerService{
		userRepo: userRepo,
		roleRepo: roleRepo,
		notifier: notifier,
		wsHub:    hub,
	}
}

// Onboard creates a Pending farmer account on behalf of an employee
func (s *farmerService) Onboard(req *OnboardFarmerRequest, employeeID string) (*model.User, error) {
	// 1. Validate request
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return nil, fmt.Errorf("Validation failed: Field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	// 2. Check if email already exists
	existing, _ := s.userRepo.FindByEmail(req.Email)
	if existing != nil {
		return nil, ErrEmailExists
	}

	// 3. Create the account in Pending status
	user := &model.User{
		Email:            req.Email,
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		PhoneNumber:      req.PhoneNumber,
		Status:           model.StatusPending,
		RegisteredByID:   &employeeID,
		RegistrationDate: time.Now(),
	}

	if err := user.SetPassword(req.Password); err != nil {
		return nil, errors.New("failed to hash password")
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	// 4. Grant the Farmer role. A failed grant leaves the account in place
	// without a role; the source system behaves the same way.
	if err := s.roleRepo.Grant(user.ID, model.RoleFarmer); err != nil {
		log.Printf("Warning: farmer %s created but role grant failed: %v", user.Email, err)
	}

	return user, nil
}

// ListFarmers returns only the farmers onboarded by the given employee
func (s *farmerService) ListFarmers(employeeID string) ([]model.UserResponse, error) {
	farmers, err := s.userRepo.FindByRegisteredBy(employeeID)
	if err != nil {
		return nil, err
	}

	responses := make([]model.UserResponse, len(farmers))
	for i, farmer := range farmers {
		responses[i] = farmer.ToResponse()
	}
	return responses, nil
}

// Activate transitions a Pending farmer to Active and notifies them by email.
// The notification is fire-and-forget: a delivery failure never fails the
// activation, and nothing is sent when the status change does not persist.
func (s *farmerService) Activate(email string) (*model.User, error) {
	if email == "" {
		return nil, ErrEmailRequired
	}

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return nil, ErrFarmerNotFound
	}

	user.Status = model.StatusActive
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	go func(email, firstName string) {
		if err := s.notifier.SendActivationNotice(email, firstName); err != nil {
			log.Printf("Warning: activation notice to %s failed: %v", email, err)
		}
	}(user.Email, user.FirstName)

	s.wsHub.Publish(map[string]interface{}{
		"type":    "farmer_activated",
		"farmer":  map[string]interface{}{"id": user.ID, "email": user.Email, "name": user.FullName()},
		"message": fmt.Sprintf("Farmer account '%s' activated", user.Email),
	})

	return user, nil
}
