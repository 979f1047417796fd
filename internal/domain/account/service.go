package account

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/medirec/medirec/internal/platform/token"
	"github.com/medirec/medirec/pkg/response"
)

const bcryptCost = 10

// TokenIssuer signs and verifies the session token pair.
type TokenIssuer interface {
	IssueAccessToken(userID, email, fullName, role string) (string, error)
	IssueRefreshToken(userID string) (string, error)
	VerifyRefreshToken(tokenStr string) (*token.RefreshClaims, error)
}

// TokenPair is an access/refresh token pair issued at login or refresh.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type Service struct {
	users  UserRepository
	tokens TokenIssuer
	now    func() time.Time
}

func NewService(users UserRepository, tokens TokenIssuer) *Service {
	return &Service{users: users, tokens: tokens, now: time.Now}
}

// RegisterInput carries everything needed to create an account. Profile
// fields are read according to the role.
type RegisterInput struct {
	Role     string    `json:"role"`
	FullName string    `json:"fullName"`
	DOB      time.Time `json:"dob"`
	Gender   string    `json:"gender"`
	Email    string    `json:"email"`
	Phone    string    `json:"phone"`
	Password string    `json:"password"`

	// Patient fields
	Address          string   `json:"address"`
	BloodGroup       string   `json:"bloodGroup"`
	Allergies        []string `json:"allergies"`
	ChronicDiseases  []string `json:"chronicDiseases"`
	EmergencyContact string   `json:"emergencyContact"`

	// Doctor fields
	Specialization    string   `json:"specialization"`
	LicenseNumber     string   `json:"licenseNumber"`
	YearsOfExperience int      `json:"yearsOfExperience"`
	Availability      []string `json:"availability"`
}

// Register creates a user, attaches the role-specific profile with a freshly
// generated profile ID, and stores the bcrypt password hash.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*User, error) {
	if in.Role == "" {
		in.Role = RolePatient
	}
	if !validRoles[in.Role] {
		return nil, response.InvalidInput("invalid role: " + in.Role)
	}
	if in.FullName == "" || in.Email == "" || in.Phone == "" || in.Password == "" ||
		in.Gender == "" || in.DOB.IsZero() {
		return nil, response.InvalidInput("fullName, dob, gender, email, phone and password are required")
	}

	exists, err := s.users.ExistsByEmailOrPhone(ctx, in.Email, in.Phone)
	if err != nil {
		return nil, response.Internal("registration failed").WithCause(err)
	}
	if exists {
		return nil, response.Conflict("user with email or phone already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, response.Internal("registration failed").WithCause(err)
	}

	u := &User{
		Role:         in.Role,
		FullName:     in.FullName,
		DOB:          in.DOB,
		Gender:       in.Gender,
		Email:        in.Email,
		Phone:        in.Phone,
		PasswordHash: string(hash),
	}

	switch in.Role {
	case RolePatient:
		pid, err := GenerateProfileID(RolePatient, s.now())
		if err != nil {
			return nil, response.Internal("profile id generation failed").WithCause(err)
		}
		u.PatientProfile = &PatientProfile{
			PatientID:        pid,
			Address:          in.Address,
			BloodGroup:       in.BloodGroup,
			Allergies:        orEmpty(in.Allergies),
			ChronicDiseases:  orEmpty(in.ChronicDiseases),
			EmergencyContact: in.EmergencyContact,
		}
	case RoleDoctor:
		did, err := GenerateProfileID(RoleDoctor, s.now())
		if err != nil {
			return nil, response.Internal("profile id generation failed").WithCause(err)
		}
		u.DoctorProfile = &DoctorProfile{
			DoctorID:          did,
			Specialization:    in.Specialization,
			LicenseNumber:     in.LicenseNumber,
			YearsOfExperience: in.YearsOfExperience,
			Availability:      orEmpty(in.Availability),
		}
	}

	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, ErrDuplicate) {
			return nil, response.Conflict("user with email or phone already exists")
		}
		return nil, response.Internal("registration failed").WithCause(err)
	}

	return u, nil
}

// Login verifies credentials and issues a fresh token pair. Issuing a new
// pair overwrites the stored refresh token, ending any previous session.
func (s *Service) Login(ctx context.Context, email, password string) (*User, *TokenPair, error) {
	if email == "" || password == "" {
		return nil, nil, response.InvalidInput("email and password are required")
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil, response.NotFound("user not found")
		}
		return nil, nil, response.Internal("login failed").WithCause(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, nil, response.Unauthorized("password is incorrect")
	}

	pair, err := s.issueTokenPair(ctx, u)
	if err != nil {
		return nil, nil, err
	}
	return u, pair, nil
}

// Logout clears the stored refresh token so the session cannot be refreshed.
func (s *Service) Logout(ctx context.Context, userID uuid.UUID) error {
	if err := s.users.UpdateRefreshToken(ctx, userID, nil); err != nil {
		if errors.Is(err, ErrNotFound) {
			return response.Unauthorized("unauthorized request")
		}
		return response.Internal("logout failed").WithCause(err)
	}
	return nil
}

// Refresh rotates the token pair. The presented token must verify against
// the refresh secret and match the single stored slot exactly; a token that
// was already rotated out is rejected.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*User, *TokenPair, error) {
	if refreshToken == "" {
		return nil, nil, response.Unauthorized("unauthorized request")
	}

	claims, err := s.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil, nil, response.Unauthorized("invalid refresh token")
	}

	uid, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, nil, response.Unauthorized("invalid refresh token")
	}

	u, err := s.users.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil, response.Unauthorized("invalid refresh token")
		}
		return nil, nil, response.Internal("token refresh failed").WithCause(err)
	}

	if u.RefreshToken == nil || *u.RefreshToken != refreshToken {
		return nil, nil, response.Unauthorized("refresh token is expired or used")
	}

	pair, err := s.issueTokenPair(ctx, u)
	if err != nil {
		return nil, nil, err
	}
	return u, pair, nil
}

// ChangePassword verifies the old password before storing a new hash.
func (s *Service) ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error {
	if oldPassword == "" || newPassword == "" {
		return response.InvalidInput("old and new passwords are required")
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return response.NotFound("user not found")
		}
		return response.Internal("password change failed").WithCause(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(oldPassword)); err != nil {
		return response.InvalidInput("invalid old password")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return response.Internal("password change failed").WithCause(err)
	}

	if err := s.users.UpdatePassword(ctx, userID, string(hash)); err != nil {
		return response.Internal("password change failed").WithCause(err)
	}
	return nil
}

// UpdateProfileInput carries the mutable account and profile fields. Nil
// pointers leave the stored value untouched.
type UpdateProfileInput struct {
	FullName *string    `json:"fullName"`
	DOB      *time.Time `json:"dob"`
	Gender   *string    `json:"gender"`
	Email    *string    `json:"email"`
	Phone    *string    `json:"phone"`

	// Patient fields
	Address          *string   `json:"address"`
	BloodGroup       *string   `json:"bloodGroup"`
	Allergies        *[]string `json:"allergies"`
	ChronicDiseases  *[]string `json:"chronicDiseases"`
	EmergencyContact *string   `json:"emergencyContact"`

	// Doctor fields
	Specialization    *string   `json:"specialization"`
	LicenseNumber     *string   `json:"licenseNumber"`
	YearsOfExperience *int      `json:"yearsOfExperience"`
	Availability      *[]string `json:"availability"`
}

// UpdateProfile applies a partial update to the account and its profile.
// Identity fields may be changed but never blanked.
func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, in UpdateProfileInput) (*User, error) {
	for name, v := range map[string]*string{
		"fullName": in.FullName, "email": in.Email, "phone": in.Phone,
	} {
		if v != nil && *v == "" {
			return nil, response.InvalidInput(name + " cannot be empty")
		}
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, response.NotFound("user not found")
		}
		return nil, response.Internal("profile update failed").WithCause(err)
	}

	setStr(&u.FullName, in.FullName)
	if in.DOB != nil {
		u.DOB = *in.DOB
	}
	setStr(&u.Gender, in.Gender)
	setStr(&u.Email, in.Email)
	setStr(&u.Phone, in.Phone)

	if u.PatientProfile != nil {
		p := u.PatientProfile
		setStr(&p.Address, in.Address)
		setStr(&p.BloodGroup, in.BloodGroup)
		if in.Allergies != nil {
			p.Allergies = orEmpty(*in.Allergies)
		}
		if in.ChronicDiseases != nil {
			p.ChronicDiseases = orEmpty(*in.ChronicDiseases)
		}
		setStr(&p.EmergencyContact, in.EmergencyContact)
	}
	if u.DoctorProfile != nil {
		d := u.DoctorProfile
		setStr(&d.Specialization, in.Specialization)
		setStr(&d.LicenseNumber, in.LicenseNumber)
		if in.YearsOfExperience != nil {
			d.YearsOfExperience = *in.YearsOfExperience
		}
		if in.Availability != nil {
			d.Availability = orEmpty(*in.Availability)
		}
	}

	if err := s.users.UpdateProfile(ctx, u); err != nil {
		if errors.Is(err, ErrDuplicate) {
			return nil, response.Conflict("user with email or phone already exists")
		}
		return nil, response.Internal("profile update failed").WithCause(err)
	}
	return u, nil
}

// GetCurrentUser loads the authenticated user's account and profile.
func (s *Service) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, response.NotFound("user not found")
		}
		return nil, response.Internal("lookup failed").WithCause(err)
	}
	return u, nil
}

func (s *Service) issueTokenPair(ctx context.Context, u *User) (*TokenPair, error) {
	access, err := s.tokens.IssueAccessToken(u.ID.String(), u.Email, u.FullName, u.Role)
	if err != nil {
		return nil, response.Internal("token generation failed").WithCause(err)
	}
	refresh, err := s.tokens.IssueRefreshToken(u.ID.String())
	if err != nil {
		return nil, response.Internal("token generation failed").WithCause(err)
	}

	if err := s.users.UpdateRefreshToken(ctx, u.ID, &refresh); err != nil {
		return nil, response.Internal("token generation failed").WithCause(err)
	}
	u.RefreshToken = &refresh

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func setStr(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
