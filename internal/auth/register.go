package auth

import (
	"context"
	"strings"
	"time"

	"github.com/bernardo0921/AgriGuide-Backend/internal/profiles"
	"github.com/bernardo0921/AgriGuide-Backend/internal/users"
	pkgAuth "github.com/bernardo0921/AgriGuide-Backend/pkg/auth"
	"github.com/bernardo0921/AgriGuide-Backend/pkg/auth/session"
	"github.com/bernardo0921/AgriGuide-Backend/pkg/config"
	"github.com/bernardo0921/AgriGuide-Backend/pkg/db/models"
	"github.com/bernardo0921/AgriGuide-Backend/pkg/enums"
	pkgerrors "github.com/bernardo0921/AgriGuide-Backend/pkg/errors"
	"github.com/bernardo0921/AgriGuide-Backend/pkg/security"
	"gorm.io/gorm"
)

// RegisterService handles the onboarding transaction.
type RegisterService interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type registerUserRepository interface {
	ExistsByUnique(ctx context.Context, username, email, phone string) (bool, error)
	Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error)
}

type registerProfileRepository interface {
	CreateFarmerProfile(ctx context.Context, profile *models.FarmerProfile) error
	CreateExtensionWorkerProfile(ctx context.Context, profile *models.ExtensionWorkerProfile) error
}

// RegisterServiceParams packages the dependencies for the registration flow.
// The repo factories default to the real repositories bound to the tx.
type RegisterServiceParams struct {
	TxRunner           txRunner
	UserRepoFactory    func(tx *gorm.DB) registerUserRepository
	ProfileRepoFactory func(tx *gorm.DB) registerProfileRepository
	SessionManager     sessionManager
	JWTConfig          config.JWTConfig
	PasswordConfig     config.PasswordConfig
	PictureResolver    pictureResolver
}

type registerService struct {
	tx           txRunner
	userRepos    func(tx *gorm.DB) registerUserRepository
	profileRepos func(tx *gorm.DB) registerProfileRepository
	session      sessionManager
	jwtCfg       config.JWTConfig
	passwordCfg  config.PasswordConfig
	pictures     pictureResolver
}

// NewRegisterService builds a registration service with the provided dependencies.
func NewRegisterService(params RegisterServiceParams) (RegisterService, error) {
	if params.TxRunner == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "transaction runner required")
	}
	if params.SessionManager == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "session manager required")
	}
	if params.PictureResolver == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "picture resolver required")
	}
	userFactory := params.UserRepoFactory
	if userFactory == nil {
		userFactory = func(tx *gorm.DB) registerUserRepository {
			return users.NewRepository(tx)
		}
	}
	profileFactory := params.ProfileRepoFactory
	if profileFactory == nil {
		profileFactory = func(tx *gorm.DB) registerProfileRepository {
			return profiles.NewRepository(tx)
		}
	}
	return &registerService{
		tx:           params.TxRunner,
		userRepos:    userFactory,
		profileRepos: profileFactory,
		session:      params.SessionManager,
		jwtCfg:       params.JWTConfig,
		passwordCfg:  params.PasswordConfig,
		pictures:     params.PictureResolver,
	}, nil
}

func (s *registerService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	phone := strings.TrimSpace(req.PhoneNumber)
	if username == "" || email == "" || phone == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "username, email, and phone number are required")
	}

	userType, err := enums.ParseUserType(req.UserType)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid user type")
	}
	if userType == enums.UserTypeExtensionWorker && req.ExtensionWorker == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "extension worker profile is required")
	}

	var farmingMethod enums.FarmingMethod
	if req.FarmerProfile != nil && req.FarmerProfile.FarmingMethod != "" {
		farmingMethod, err = enums.ParseFarmingMethod(req.FarmerProfile.FarmingMethod)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid farming method")
		}
	}

	passwordHash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	var created *models.User
	txErr := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		userRepo := s.userRepos(tx)
		profileRepo := s.profileRepos(tx)

		taken, err := userRepo.ExistsByUnique(ctx, username, email, phone)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check identity columns")
		}
		if taken {
			return pkgerrors.New(pkgerrors.CodeConflict, "username, email, or phone number already registered")
		}

		user, err := userRepo.Create(ctx, users.CreateUserDTO{
			Username:     username,
			Email:        email,
			PhoneNumber:  phone,
			PasswordHash: passwordHash,
			FirstName:    req.FirstName,
			LastName:     req.LastName,
			UserType:     userType,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
		}

		switch userType {
		case enums.UserTypeFarmer:
			profile := &models.FarmerProfile{UserID: user.ID}
			if in := req.FarmerProfile; in != nil {
				profile.FarmName = in.FarmName
				profile.FarmSize = in.FarmSize
				profile.Location = in.Location
				profile.Region = in.Region
				profile.CropsGrown = in.CropsGrown
				profile.YearsOfExperience = in.YearsOfExperience
				if farmingMethod != "" {
					profile.FarmingMethod = farmingMethod
				}
			}
			if err := profileRepo.CreateFarmerProfile(ctx, profile); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create farmer profile")
			}
		case enums.UserTypeExtensionWorker:
			in := req.ExtensionWorker
			profile := &models.ExtensionWorkerProfile{
				UserID:         user.ID,
				Organization:   in.Organization,
				EmployeeID:     strings.TrimSpace(in.EmployeeID),
				Specialization: in.Specialization,
				RegionsCovered: in.RegionsCovered,
			}
			if err := profileRepo.CreateExtensionWorkerProfile(ctx, profile); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create extension worker profile")
			}
		}

		created = user
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	accessID := session.NewAccessID()
	accessToken, err := pkgAuth.MintAccessToken(s.jwtCfg, time.Now().UTC(), pkgAuth.AccessTokenPayload{
		UserID:   created.ID,
		UserType: created.UserType,
		JTI:      accessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	if err := s.session.Generate(ctx, accessID, created.ID.String()); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store session")
	}

	return &AuthResponse{
		Token: accessToken,
		User:  users.FromModel(created, s.pictures.ResolveURL(created.ProfilePictureKey)),
	}, nil
}
