package sqlxrepos

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/jaymarkubaran15-svg/memotrace/core"
	"github.com/jaymarkubaran15-svg/memotrace/core/user"
)

type userRow struct {
	ID                 string     `db:"id"`
	FirstName          string     `db:"first_name"`
	MiddleName         string     `db:"middle_name"`
	LastName           string     `db:"last_name"`
	Email              string     `db:"email"`
	AlumniCardNumber   string     `db:"alumni_card_number"`
	Gender             string     `db:"gender"`
	YearGraduated      null.Int   `db:"year_graduated"`
	Course             string     `db:"course"`
	WorkTitle          string     `db:"work_title"`
	Address            string     `db:"address"`
	MobileNumber       string     `db:"mobile_number"`
	CivilStatus        string     `db:"civil_status"`
	Birthday           null.Time  `db:"birthday"`
	RegionOfOrigin     string     `db:"region_of_origin"`
	Province           string     `db:"province"`
	Residence          string     `db:"residence"`
	ProfileImage       string     `db:"profile_image"`
	Role               string     `db:"role"`
	IsActive           null.Bool  `db:"is_active"`
	HasSubmittedSurvey bool       `db:"has_submitted_survey"`
	PasswordHash       null.Bytes `db:"password_hash"`
	CreatedAt          time.Time  `db:"created_at"`
	UpdatedAt          time.Time  `db:"updated_at"`
	LastLogin          null.Time  `db:"last_login"`
}

const userColumns = `id, first_name, middle_name, last_name, email, alumni_card_number, gender,
	year_graduated, course, work_title, address, mobile_number, civil_status, birthday,
	region_of_origin, province, residence, profile_image, role, is_active, has_submitted_survey,
	password_hash, created_at, updated_at, last_login`

type userRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *sqlx.DB) *userRepository {
	return &userRepository{db: db}
}

func (repo userRepository) getExec(svcExec []core.DBExecutor) core.DBExecutor {
	if len(svcExec) > 0 {
		return svcExec[0]
	}
	return repo.db
}

func (repo userRepository) toRow(usr user.User) userRow {
	return userRow{
		ID:                 usr.ID,
		FirstName:          usr.FirstName,
		MiddleName:         usr.MiddleName,
		LastName:           usr.LastName,
		Email:              usr.Email,
		AlumniCardNumber:   usr.AlumniCardNumber,
		Gender:             usr.Gender,
		YearGraduated:      null.NewInt(usr.YearGraduated, usr.YearGraduated != 0),
		Course:             usr.Course,
		WorkTitle:          usr.WorkTitle,
		Address:            usr.Address,
		MobileNumber:       usr.MobileNumber,
		CivilStatus:        usr.CivilStatus,
		Birthday:           null.NewTime(usr.Birthday.UTC(), !usr.Birthday.IsZero()),
		RegionOfOrigin:     usr.RegionOfOrigin,
		Province:           usr.Province,
		Residence:          usr.Residence,
		ProfileImage:       usr.ProfileImage,
		Role:               usr.Role,
		IsActive:           null.BoolFromPtr(usr.IsActive),
		HasSubmittedSurvey: usr.HasSubmittedSurvey,
		PasswordHash:       null.BytesFrom(usr.PasswordHash),
		CreatedAt:          usr.CreatedAt.UTC(),
		UpdatedAt:          usr.UpdatedAt.UTC(),
		LastLogin:          null.NewTime(usr.LastLogin.UTC(), !usr.LastLogin.IsZero()),
	}
}

func (repo userRepository) fromRow(row userRow) user.User {
	return user.User{
		ID:                 row.ID,
		FirstName:          row.FirstName,
		MiddleName:         row.MiddleName,
		LastName:           row.LastName,
		Email:              row.Email,
		AlumniCardNumber:   row.AlumniCardNumber,
		Gender:             row.Gender,
		YearGraduated:      row.YearGraduated.Int,
		Course:             row.Course,
		WorkTitle:          row.WorkTitle,
		Address:            row.Address,
		MobileNumber:       row.MobileNumber,
		CivilStatus:        row.CivilStatus,
		Birthday:           row.Birthday.Time,
		RegionOfOrigin:     row.RegionOfOrigin,
		Province:           row.Province,
		Residence:          row.Residence,
		ProfileImage:       row.ProfileImage,
		Role:               row.Role,
		IsActive:           row.IsActive.Ptr(),
		HasSubmittedSurvey: row.HasSubmittedSurvey,
		PasswordHash:       row.PasswordHash.Bytes,
		CreatedAt:          row.CreatedAt,
		UpdatedAt:          row.UpdatedAt,
		LastLogin:          row.LastLogin.Time,
	}
}

func (repo userRepository) fromRows(rows []userRow) []user.User {
	users := make([]user.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, repo.fromRow(row))
	}
	return users
}

// trapNoRowsErr maps a psql "no rows" err to user.ErrNotFound
func (repo userRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return user.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo userRepository) CheckEmailUniqueness(ctx context.Context, email string, excludedUsers []user.User, exec ...core.DBExecutor) error {
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE email = ?`
	args := []interface{}{email}
	if len(excludedUsers) > 0 {
		ids := make([]string, 0, len(excludedUsers))
		for _, u := range excludedUsers {
			ids = append(ids, u.ID)
		}
		query += ` AND id NOT IN (?)`
		var err error
		query, args, err = sqlx.In(query+`)`, email, ids)
		if err != nil {
			return errors.Wrap(err, "checking user uniqueness")
		}
	} else {
		query += `)`
	}

	var exists bool
	err := repo.db.GetContext(ctx, &exists, repo.db.Rebind(query), args...)
	if err != nil {
		return errors.Wrap(err, "checking user uniqueness")
	}
	if exists {
		return user.ErrEmailExists
	}
	return nil
}

func (repo userRepository) CreateUser(ctx context.Context, usr user.User, exec ...core.DBExecutor) (user.User, error) {
	usr.ID = uuid.New().String()
	row := repo.toRow(usr)

	query := repo.db.Rebind(fmt.Sprintf(`INSERT INTO users (%s)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, userColumns))
	_, err := repo.getExec(exec).ExecContext(ctx, query,
		row.ID, row.FirstName, row.MiddleName, row.LastName, row.Email, row.AlumniCardNumber,
		row.Gender, row.YearGraduated, row.Course, row.WorkTitle, row.Address, row.MobileNumber,
		row.CivilStatus, row.Birthday, row.RegionOfOrigin, row.Province, row.Residence,
		row.ProfileImage, row.Role, row.IsActive, row.HasSubmittedSurvey, row.PasswordHash,
		row.CreatedAt, row.UpdatedAt, row.LastLogin,
	)
	if err != nil {
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	return repo.fromRow(row), nil
}

func (repo userRepository) QueryUsers(ctx context.Context, filter *user.QueryFilter, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]user.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users`, userColumns)
	var (
		conds []string
		args  []interface{}
	)

	if filter != nil {
		if filter.Search != "" {
			val := "%" + filter.Search + "%"
			conds = append(conds, `(first_name ILIKE ? OR middle_name ILIKE ? OR last_name ILIKE ? OR email ILIKE ? OR course ILIKE ?)`)
			args = append(args, val, val, val, val, val)
		}
		if filter.Course != "" {
			conds = append(conds, `course = ?`)
			args = append(args, filter.Course)
		}
		if filter.YearGraduated != 0 {
			conds = append(conds, `year_graduated = ?`)
			args = append(args, filter.YearGraduated)
		}
		if filter.Role != "" {
			conds = append(conds, `role = ?`)
			args = append(args, filter.Role)
		}
		if filter.IsActive != nil {
			conds = append(conds, `is_active = ?`)
			args = append(args, *filter.IsActive)
		}
	}

	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}

	if ordering != nil {
		orderList := make([]string, 0, len(ordering))
		for _, ord := range ordering {
			orderList = append(orderList, ord.String())
		}
		query += ` ORDER BY ` + strings.Join(orderList, ", ")
	}

	var rows []userRow
	if err := repo.db.SelectContext(ctx, &rows, repo.db.Rebind(query), args...); err != nil {
		return nil, errors.Wrap(err, "querying users")
	}
	return repo.fromRows(rows), nil
}

func (repo userRepository) GetUser(ctx context.Context, filter user.GetFilter, exec ...core.DBExecutor) (user.User, error) {
	var (
		cond string
		arg  string
	)
	switch {
	case filter.ID != "":
		if _, err := uuid.Parse(filter.ID); err != nil {
			return user.User{}, user.ErrNotFound
		}
		cond, arg = `id = ?`, filter.ID
	case filter.Email != "":
		cond, arg = `email = ?`, filter.Email
	default:
		return user.User{}, user.ErrNotFound
	}

	var row userRow
	query := repo.db.Rebind(fmt.Sprintf(`SELECT %s FROM users WHERE %s`, userColumns, cond))
	if err := repo.db.GetContext(ctx, &row, query, arg); err != nil {
		return user.User{}, repo.trapNoRowsErr(err, "finding user")
	}
	return repo.fromRow(row), nil
}

func (repo userRepository) UpdateUser(ctx context.Context, usr user.User, exec ...core.DBExecutor) (user.User, error) {
	row := repo.toRow(usr)

	query := repo.db.Rebind(`UPDATE users SET
		first_name = ?, middle_name = ?, last_name = ?, email = ?, alumni_card_number = ?,
		gender = ?, year_graduated = ?, course = ?, work_title = ?, address = ?,
		mobile_number = ?, civil_status = ?, birthday = ?, region_of_origin = ?, province = ?,
		residence = ?, profile_image = ?, role = ?, is_active = ?, has_submitted_survey = ?,
		password_hash = ?, updated_at = ?, last_login = ?
		WHERE id = ?`)
	res, err := repo.getExec(exec).ExecContext(ctx, query,
		row.FirstName, row.MiddleName, row.LastName, row.Email, row.AlumniCardNumber,
		row.Gender, row.YearGraduated, row.Course, row.WorkTitle, row.Address,
		row.MobileNumber, row.CivilStatus, row.Birthday, row.RegionOfOrigin, row.Province,
		row.Residence, row.ProfileImage, row.Role, row.IsActive, row.HasSubmittedSurvey,
		row.PasswordHash, row.UpdatedAt, row.LastLogin,
		row.ID,
	)
	if err != nil {
		return user.User{}, errors.Wrap(err, "updating user")
	}
	if cnt, err := res.RowsAffected(); err == nil && cnt == 0 {
		return user.User{}, user.ErrNotFound
	}
	return repo.fromRow(row), nil
}

func (repo userRepository) DeleteUsersByID(ctx context.Context, ids []string, exec ...core.DBExecutor) (int, error) {
	query, args, err := sqlx.In(`DELETE FROM users WHERE id IN (?)`, ids)
	if err != nil {
		return 0, errors.Wrap(err, "deleting users")
	}
	res, err := repo.getExec(exec).ExecContext(ctx, repo.db.Rebind(query), args...)
	if err != nil {
		return 0, errors.Wrap(err, "deleting users")
	}
	cnt, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "deleting users")
	}
	return int(cnt), nil
}
