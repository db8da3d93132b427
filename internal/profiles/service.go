package profiles

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bernardo0921/AgriGuide-Backend/internal/users"
	"github.com/bernardo0921/AgriGuide-Backend/pkg/db/models"
	"github.com/bernardo0921/AgriGuide-Backend/pkg/enums"
	pkgerrors "github.com/bernardo0921/AgriGuide-Backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type usersRepository interface {
	FindByIDWithProfiles(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error
	UpdateProfilePictureKey(ctx context.Context, id uuid.UUID, key string) error
}

type profilesRepository interface {
	CreateFarmerProfile(ctx context.Context, profile *models.FarmerProfile) error
	FindFarmerProfile(ctx context.Context, userID uuid.UUID) (*models.FarmerProfile, error)
	UpdateFarmerProfile(ctx context.Context, userID uuid.UUID, fields map[string]any) error
	UpdateExtensionWorkerProfile(ctx context.Context, userID uuid.UUID, fields map[string]any) error
}

type pictureResolver interface {
	ResolveURL(key *string) *string
}

// Service exposes own-profile reads and updates.
type Service interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*ProfileDTO, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*ProfileDTO, error)
	SetProfilePicture(ctx context.Context, userID uuid.UUID, key string) (*ProfileDTO, error)
}

type service struct {
	userRepo    usersRepository
	profileRepo profilesRepository
	pictures    pictureResolver
}

// NewService builds a profile service backed by the user and profile repositories.
func NewService(userRepo usersRepository, profileRepo profilesRepository, pictures pictureResolver) (Service, error) {
	if userRepo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if profileRepo == nil {
		return nil, fmt.Errorf("profiles repository required")
	}
	if pictures == nil {
		return nil, fmt.Errorf("picture resolver required")
	}
	return &service{userRepo: userRepo, profileRepo: profileRepo, pictures: pictures}, nil
}

func (s *service) GetProfile(ctx context.Context, userID uuid.UUID) (*ProfileDTO, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.toProfileDTO(user), nil
}

func (s *service) UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*ProfileDTO, error) {
	user, err := s.loadUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "email cannot be empty")
		}
		fields["email"] = email
	}
	if req.PhoneNumber != nil {
		phone := strings.TrimSpace(*req.PhoneNumber)
		if phone == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "phone number cannot be empty")
		}
		fields["phone_number"] = phone
	}
	if req.FirstName != nil {
		fields["first_name"] = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		fields["last_name"] = strings.TrimSpace(*req.LastName)
	}
	if len(fields) > 0 {
		if err := s.userRepo.UpdateFields(ctx, userID, fields); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update user")
		}
	}

	if req.FarmerProfile != nil {
		if user.UserType != enums.UserTypeFarmer {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "farmer profile only applies to farmer accounts")
		}
		if err := s.updateFarmerProfile(ctx, userID, req.FarmerProfile); err != nil {
			return nil, err
		}
	}
	if req.ExtensionWorkerProfile != nil {
		if user.UserType != enums.UserTypeExtensionWorker {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "extension worker profile only applies to extension worker accounts")
		}
		if err := s.updateWorkerProfile(ctx, userID, req.ExtensionWorkerProfile); err != nil {
			return nil, err
		}
	}

	return s.GetProfile(ctx, userID)
}

func (s *service) SetProfilePicture(ctx context.Context, userID uuid.UUID, key string) (*ProfileDTO, error) {
	if strings.TrimSpace(key) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "picture key required")
	}
	if _, err := s.loadUser(ctx, userID); err != nil {
		return nil, err
	}
	if err := s.userRepo.UpdateProfilePictureKey(ctx, userID, key); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update profile picture")
	}
	return s.GetProfile(ctx, userID)
}

// updateFarmerProfile applies partial edits, creating the row first when the
// account predates the nested profile.
func (s *service) updateFarmerProfile(ctx context.Context, userID uuid.UUID, req *UpdateFarmerProfileRequest) error {
	fields := map[string]any{}
	if req.FarmName != nil {
		fields["farm_name"] = strings.TrimSpace(*req.FarmName)
	}
	if req.FarmSize != nil {
		fields["farm_size"] = *req.FarmSize
	}
	if req.Location != nil {
		fields["location"] = strings.TrimSpace(*req.Location)
	}
	if req.Region != nil {
		fields["region"] = strings.TrimSpace(*req.Region)
	}
	if req.CropsGrown != nil {
		fields["crops_grown"] = strings.TrimSpace(*req.CropsGrown)
	}
	if req.FarmingMethod != nil {
		method, err := enums.ParseFarmingMethod(*req.FarmingMethod)
		if err != nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "invalid farming method")
		}
		fields["farming_method"] = method
	}
	if req.YearsOfExperience != nil {
		if *req.YearsOfExperience < 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "years of experience cannot be negative")
		}
		fields["years_of_experience"] = *req.YearsOfExperience
	}
	if len(fields) == 0 {
		return nil
	}

	if _, err := s.profileRepo.FindFarmerProfile(ctx, userID); err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find farmer profile")
		}
		if err := s.profileRepo.CreateFarmerProfile(ctx, &models.FarmerProfile{UserID: userID}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create farmer profile")
		}
	}
	if err := s.profileRepo.UpdateFarmerProfile(ctx, userID, fields); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update farmer profile")
	}
	return nil
}

func (s *service) updateWorkerProfile(ctx context.Context, userID uuid.UUID, req *UpdateExtensionWorkerProfileRequest) error {
	fields := map[string]any{}
	if req.Organization != nil {
		organization := strings.TrimSpace(*req.Organization)
		if organization == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "organization cannot be empty")
		}
		fields["organization"] = organization
	}
	if req.Specialization != nil {
		fields["specialization"] = strings.TrimSpace(*req.Specialization)
	}
	if req.RegionsCovered != nil {
		fields["regions_covered"] = strings.TrimSpace(*req.RegionsCovered)
	}
	if len(fields) == 0 {
		return nil
	}
	if err := s.profileRepo.UpdateExtensionWorkerProfile(ctx, userID, fields); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update extension worker profile")
	}
	return nil
}

func (s *service) loadUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.userRepo.FindByIDWithProfiles(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find user")
	}
	return user, nil
}

func (s *service) toProfileDTO(user *models.User) *ProfileDTO {
	dto := &ProfileDTO{
		UserDTO:       *users.FromModel(user, s.pictures.ResolveURL(user.ProfilePictureKey)),
		FarmerProfile: toFarmerProfileDTO(user.FarmerProfile),
	}
	if worker := user.ExtensionWorkerProfile; worker != nil {
		dto.ExtensionWorkerProfile = toExtensionWorkerProfileDTO(worker, s.pictures.ResolveURL(worker.VerificationDocumentKey))
	}
	return dto
}
