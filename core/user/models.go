package user

import (
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/jaymarkubaran15-svg/memotrace/core"
)

// Roles
const (
	RoleAdmin  = "admin"
	RoleAlumni = "alumni"
)

var (
	AllRoles = []string{RoleAdmin, RoleAlumni}

	Roles = []Role{
		{Name: "Alumni", Value: RoleAlumni},
		{Name: "Admin", Value: RoleAdmin},
	}

	// CivilStatuses are the accepted values for User.CivilStatus.
	CivilStatuses = []string{"Single", "Married", "Widowed", "Separated"}

	// Courses and WorkTitles back the registration form dropdowns.
	Courses = []string{
		"Bachelor of Science in Information Technology",
		"Bachelor of Science in Computer Science",
		"Bachelor of Science in Business Administration",
		"Bachelor of Science in Accountancy",
		"Bachelor of Science in Criminology",
		"Bachelor of Science in Education",
		"Bachelor of Science in Hospitality Management",
		"Bachelor of Science in Nursing",
		"Bachelor of Arts in Communication",
	}
	WorkTitles = []string{
		"Software Developer",
		"Teacher",
		"Accountant",
		"Nurse",
		"Police Officer",
		"Business Owner",
		"Office Staff",
		"Engineer",
		"Self-Employed",
		"Unemployed",
	}
)

type Role struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type User struct {
	ID               string    `json:"id"`
	FirstName        string    `json:"first_name"`
	MiddleName       string    `json:"middle_name,omitempty"`
	LastName         string    `json:"last_name"`
	Email            string    `json:"email"`
	AlumniCardNumber string    `json:"alumni_card_number,omitempty"`
	Gender           string    `json:"gender,omitempty"`
	YearGraduated    int       `json:"year_graduated,omitempty"`
	Course           string    `json:"course,omitempty"`
	WorkTitle        string    `json:"work_title,omitempty"`
	Address          string    `json:"address,omitempty"`
	MobileNumber     string    `json:"mobile_number,omitempty"`
	CivilStatus      string    `json:"civil_status,omitempty"`
	Birthday         time.Time `json:"birthday,omitempty"`
	RegionOfOrigin   string    `json:"region_of_origin,omitempty"`
	Province         string    `json:"province,omitempty"`
	Residence        string    `json:"residence,omitempty"`
	ProfileImage     string    `json:"profile_image,omitempty"`

	Role                string    `json:"role"`
	IsActive            *bool     `json:"is_active"`
	HasSubmittedSurvey  bool      `json:"has_submitted_survey"`
	PasswordHash        []byte    `json:"-"`
	CreatedAt           time.Time `json:"created_at"` // UTC
	UpdatedAt           time.Time `json:"updated_at"` // UTC
	LastLogin           time.Time `json:"last_login"` // UTC
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) FullName() string {
	name := u.FirstName
	if u.MiddleName != "" {
		name += " " + u.MiddleName
	}
	return name + " " + u.LastName
}

// NewUser contains information needed to register a new User.
type NewUser struct {
	FirstName        string `json:"first_name" validate:"required"`
	MiddleName       string `json:"middle_name"`
	LastName         string `json:"last_name" validate:"required"`
	Email            string `json:"email" validate:"required,email"`
	AlumniCardNumber string `json:"alumni_card_number" validate:"omitempty,alphanum_"`
	Gender           string `json:"gender"`
	YearGraduated    int    `json:"year_graduated" validate:"omitempty,min=1900"`
	Course           string `json:"course"`
	WorkTitle        string `json:"work_title"`
	Address          string `json:"address"`
	MobileNumber     string `json:"mobile_number" validate:"omitempty,phmobile"`
	CivilStatus      string `json:"civil_status" validate:"omitempty,civilstatus"`
	Birthday         string `json:"birthday" validate:"omitempty,datetime=2006-01-02"`
	RegionOfOrigin   string `json:"region_of_origin"`
	Province         string `json:"province"`
	Residence        string `json:"residence"`

	Role                  string `json:"role" validate:"omitempty,oneof=admin alumni"`
	Password              string `json:"password" validate:"required"`
	PasswordConfirm       string `json:"password_confirm" validate:"required,eqfield=Password"`
	PrivacyPolicyAccepted bool   `json:"privacy_policy_accepted" validate:"required"`
}

func (nu *NewUser) Validate(validate *validator.Validate, svc ServiceInterface) error {
	nu.FirstName = core.CleanString(nu.FirstName)
	nu.MiddleName = core.CleanString(nu.MiddleName)
	nu.LastName = core.CleanString(nu.LastName)
	nu.Email = core.CleanString(nu.Email, true /* lower */)

	if err := validate.Struct(nu); err != nil {
		return err
	}
	return svc.CheckUniqueness(nu.Email)
}

// UpdateUser defines what information may be provided to modify an existing User.
type UpdateUser struct {
	FirstName        string `json:"first_name"`
	MiddleName       string `json:"middle_name"`
	LastName         string `json:"last_name"`
	Email            string `json:"email" validate:"omitempty,email"`
	AlumniCardNumber string `json:"alumni_card_number" validate:"omitempty,alphanum_"`
	Gender           string `json:"gender"`
	YearGraduated    int    `json:"year_graduated" validate:"omitempty,min=1900"`
	Course           string `json:"course"`
	WorkTitle        string `json:"work_title"`
	Address          string `json:"address"`
	MobileNumber     string `json:"mobile_number" validate:"omitempty,phmobile"`
	CivilStatus      string `json:"civil_status" validate:"omitempty,civilstatus"`
	Birthday         string `json:"birthday" validate:"omitempty,datetime=2006-01-02"`
	RegionOfOrigin   string `json:"region_of_origin"`
	Province         string `json:"province"`
	Residence        string `json:"residence"`
	ProfileImage     string `json:"profile_image"`

	Role     string `json:"role" validate:"omitempty,oneof=admin alumni"`
	IsActive *bool  `json:"is_active"`
}

func (uu *UpdateUser) Validate(origUsr User, validate *validator.Validate, svc ServiceInterface) error {
	email := core.CleanString(uu.Email, true /* lower */)
	if email != "" {
		uu.Email = email
	} else {
		uu.Email = origUsr.Email
	}

	if err := validate.Struct(uu); err != nil {
		return err
	}
	return svc.CheckUniqueness(uu.Email, origUsr)
}

// ChangeUserPassword carries a password change for an authenticated User.
type ChangeUserPassword struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}

func (cp ChangeUserPassword) Validate(validate *validator.Validate) error {
	return validate.Struct(cp)
}

// ResetUserPassword confirms a code-based password reset.
type ResetUserPassword struct {
	Email           string `json:"email" validate:"required,email"`
	Code            string `json:"code" validate:"required"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}

func (rp *ResetUserPassword) Validate(validate *validator.Validate) error {
	rp.Email = core.CleanString(rp.Email, true /* lower */)
	rp.Code = core.CleanString(rp.Code)
	return validate.Struct(rp)
}

type QueryFilter struct {
	Search        string `query:"search"`
	Course        string `query:"course"`
	YearGraduated int    `query:"year_graduated"`
	Role          string `query:"role"`
	IsActive      *bool  `query:"is_active"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.Course == "" && qf.YearGraduated == 0 && qf.Role == "" && qf.IsActive == nil
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Course = core.CleanString(qf.Course)
}

// GetFilter selects a single User by exactly one of its fields.
type GetFilter struct {
	ID    string
	Email string
}

// ParseBirthday converts the wire format used by registration forms.
func ParseBirthday(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}
	}
	return t
}
