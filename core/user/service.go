package user

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/jaymarkubaran15-svg/memotrace/core"
)

var (
	// errors
	ErrNotFound    = errors.New("user not found")
	ErrEmailExists = errors.New("a user with this email already exists")
	ErrInvalidCode = errors.New("invalid or expired verification code")
)

type (
	Repository interface {
		CheckEmailUniqueness(ctx context.Context, email string, excludedUsers []User, exec ...core.DBExecutor) error
		CreateUser(ctx context.Context, usr User, exec ...core.DBExecutor) (User, error)
		// QueryUsers applies AND on available QueryFilter fields.
		// QueryFilter.Search does a case-insensitive match on one of the name parts, Email or Course.
		QueryUsers(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]User, error)
		GetUser(ctx context.Context, filter GetFilter, exec ...core.DBExecutor) (User, error)
		UpdateUser(ctx context.Context, usr User, exec ...core.DBExecutor) (User, error)
		DeleteUsersByID(ctx context.Context, ids []string, exec ...core.DBExecutor) (int, error)
	}

	ServiceInterface interface {
		CheckUniqueness(email string, exclUsers ...User) error
		Register(ctx context.Context, nu NewUser) (User, error)
		Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]User, error)
		GetByID(ctx context.Context, id string) (User, error)
		GetByEmail(ctx context.Context, email string) (User, error)
		Update(ctx context.Context, id string, uu UpdateUser) (User, error)
		ChangePassword(ctx context.Context, usr User, cp ChangeUserPassword) error
		SetLastLogin(ctx context.Context, usr User) (User, error)
		MarkSurveySubmitted(ctx context.Context, id string) error
		RequestPasswordReset(ctx context.Context, email string) error
		VerifyResetCode(ctx context.Context, email, code string) error
		ResetPassword(ctx context.Context, rp ResetUserPassword) error
		Delete(ctx context.Context, ids ...string) error
	}

	service struct {
		db      core.DB
		repo    Repository
		mailSvc core.EmailService
		conf    *core.Config
	}
)

var _ ServiceInterface = (*service)(nil)

func NewService(db core.DB, repo Repository, mailSvc core.EmailService, conf *core.Config) *service {
	return &service{
		db:      db,
		repo:    repo,
		mailSvc: mailSvc,
		conf:    conf,
	}
}

func (svc *service) CheckUniqueness(email string, exclUsers ...User) error {
	if err := svc.repo.CheckEmailUniqueness(context.Background(), email, exclUsers); err != nil {
		if errors.Cause(err) == ErrEmailExists {
			return core.NewValidationError(err, core.FieldError{Field: "email", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *service) Register(ctx context.Context, nu NewUser) (User, error) {
	now := time.Now().UTC()
	active := true
	role := nu.Role
	if role == "" {
		role = RoleAlumni
	}
	usr := User{
		FirstName:        nu.FirstName,
		MiddleName:       nu.MiddleName,
		LastName:         nu.LastName,
		Email:            nu.Email,
		AlumniCardNumber: nu.AlumniCardNumber,
		Gender:           nu.Gender,
		YearGraduated:    nu.YearGraduated,
		Course:           nu.Course,
		WorkTitle:        nu.WorkTitle,
		Address:          nu.Address,
		MobileNumber:     nu.MobileNumber,
		CivilStatus:      nu.CivilStatus,
		Birthday:         ParseBirthday(nu.Birthday),
		RegionOfOrigin:   nu.RegionOfOrigin,
		Province:         nu.Province,
		Residence:        nu.Residence,
		Role:             role,
		IsActive:         &active,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, errors.Wrap(err, "setting password")
	}
	return svc.repo.CreateUser(ctx, usr)
}

func (svc *service) Query(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]User, error) {
	return svc.repo.QueryUsers(ctx, filter, ordering)
}

func (svc *service) GetByID(ctx context.Context, id string) (User, error) {
	return svc.repo.GetUser(ctx, GetFilter{ID: id})
}

func (svc *service) GetByEmail(ctx context.Context, email string) (User, error) {
	return svc.repo.GetUser(ctx, GetFilter{Email: core.CleanString(email, true /* lower */)})
}

func (svc *service) Update(ctx context.Context, id string, uu UpdateUser) (User, error) {
	usr, err := svc.GetByID(ctx, id)
	if err != nil {
		return User{}, err
	}

	usr.Email = uu.Email
	if uu.FirstName != "" {
		usr.FirstName = core.CleanString(uu.FirstName)
	}
	if uu.MiddleName != "" {
		usr.MiddleName = core.CleanString(uu.MiddleName)
	}
	if uu.LastName != "" {
		usr.LastName = core.CleanString(uu.LastName)
	}
	if uu.AlumniCardNumber != "" {
		usr.AlumniCardNumber = uu.AlumniCardNumber
	}
	if uu.Gender != "" {
		usr.Gender = uu.Gender
	}
	if uu.YearGraduated != 0 {
		usr.YearGraduated = uu.YearGraduated
	}
	if uu.Course != "" {
		usr.Course = uu.Course
	}
	if uu.WorkTitle != "" {
		usr.WorkTitle = uu.WorkTitle
	}
	if uu.Address != "" {
		usr.Address = uu.Address
	}
	if uu.MobileNumber != "" {
		usr.MobileNumber = uu.MobileNumber
	}
	if uu.CivilStatus != "" {
		usr.CivilStatus = uu.CivilStatus
	}
	if uu.Birthday != "" {
		usr.Birthday = ParseBirthday(uu.Birthday)
	}
	if uu.RegionOfOrigin != "" {
		usr.RegionOfOrigin = uu.RegionOfOrigin
	}
	if uu.Province != "" {
		usr.Province = uu.Province
	}
	if uu.Residence != "" {
		usr.Residence = uu.Residence
	}
	if uu.ProfileImage != "" {
		usr.ProfileImage = uu.ProfileImage
	}
	if uu.Role != "" {
		usr.Role = uu.Role
	}
	if uu.IsActive != nil {
		usr.IsActive = uu.IsActive
	}
	usr.UpdatedAt = time.Now().UTC()

	return svc.repo.UpdateUser(ctx, usr)
}

func (svc *service) ChangePassword(ctx context.Context, usr User, cp ChangeUserPassword) error {
	if err := usr.CheckPassword(cp.CurrentPassword); err != nil {
		return core.NewValidationError(nil, core.FieldError{Field: "current_password", Error: "incorrect password"})
	}
	if err := usr.SetPassword(cp.Password); err != nil {
		return errors.Wrap(err, "setting password")
	}
	usr.UpdatedAt = time.Now().UTC()
	_, err := svc.repo.UpdateUser(ctx, usr)
	return err
}

func (svc *service) SetLastLogin(ctx context.Context, usr User) (User, error) {
	usr.LastLogin = time.Now().UTC()
	return svc.repo.UpdateUser(ctx, usr)
}

func (svc *service) MarkSurveySubmitted(ctx context.Context, id string) error {
	usr, err := svc.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if usr.HasSubmittedSurvey {
		return nil
	}
	usr.HasSubmittedSurvey = true
	usr.UpdatedAt = time.Now().UTC()
	_, err = svc.repo.UpdateUser(ctx, usr)
	return err
}

// RequestPasswordReset emails a short-lived verification code to the account owner.
func (svc *service) RequestPasswordReset(ctx context.Context, email string) error {
	usr, err := svc.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	svc.sendPasswordResetMail(usr)
	return nil
}

func (svc *service) VerifyResetCode(ctx context.Context, email, code string) error {
	usr, err := svc.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	return verifyCode(usr, code, svc.conf)
}

func (svc *service) ResetPassword(ctx context.Context, rp ResetUserPassword) error {
	usr, err := svc.GetByEmail(ctx, rp.Email)
	if err != nil {
		return err
	}
	if err = verifyCode(usr, rp.Code, svc.conf); err != nil {
		return core.NewValidationError(err, core.FieldError{Field: "code", Error: err.Error()})
	}
	if err = usr.SetPassword(rp.Password); err != nil {
		return errors.Wrap(err, "setting password")
	}
	usr.UpdatedAt = time.Now().UTC()
	if _, err = svc.repo.UpdateUser(ctx, usr); err != nil {
		return errors.Wrap(err, "updating user")
	}
	return nil
}

func (svc *service) Delete(ctx context.Context, ids ...string) error {
	_, err := svc.repo.DeleteUsersByID(ctx, ids)
	return err
}

func (svc *service) sendPasswordResetMail(usr User) {
	code, err := MakeCode(usr, svc.conf)
	if err != nil {
		return
	}
	msg := &core.EmailMessage{
		To:           []mail.Address{{Name: usr.FullName(), Address: usr.Email}},
		Subject:      "Password Reset Verification Code",
		TemplateName: "password-reset-code",
		TemplateData: struct {
			Name    string
			Code    string
			Timeout string
		}{usr.FirstName, code, fmt.Sprintf("%.0f minutes", svc.conf.PasswordResetTimeout.Minutes())},
	}
	svc.mailSvc.SendMessages(msg)
}
