package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/wichananm65/user-directory/internal/domain/entity"
	"github.com/wichananm65/user-directory/internal/domain/repository"
)

const uniqueViolation = "23505"

var userColumns = []string{
	"id", "first_name", "last_name", "email", "phone", "age",
	"gender", "bio", "is_active", "created_at", "updated_at",
}

var returningUser = "RETURNING " + strings.Join(userColumns, ", ")

var sortColumns = map[string]string{
	repository.SortByCreatedAt: "created_at",
	repository.SortByUpdatedAt: "updated_at",
	repository.SortByFirstName: "first_name",
	repository.SortByLastName:  "last_name",
	repository.SortByEmail:     "email",
	repository.SortByAge:       "age",
	repository.SortByIsActive:  "is_active",
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// UserRepository is a PostgreSQL implementation of UserRepository.
type UserRepository struct {
	db *sql.DB
}

var _ repository.UserRepository = (*UserRepository)(nil)

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *entity.User) (*entity.User, error) {
	query, args, err := psql.Insert("users").
		Columns(userColumns...).
		Values(user.ID, user.FirstName, user.LastName, user.Email, user.Phone, user.Age,
			user.Gender, user.Bio, user.IsActive, user.CreatedAt, user.UpdatedAt).
		Suffix(returningUser).
		ToSql()
	if err != nil {
		return nil, err
	}
	return r.queryUser(ctx, query, args...)
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.getBy(ctx, sq.Eq{"id": id})
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.getBy(ctx, sq.Eq{"email": email})
}

func (r *UserRepository) List(ctx context.Context, q repository.ListQuery) ([]*entity.User, int64, error) {
	where := searchCondition(q.Search)

	countQuery := psql.Select("COUNT(*)").From("users")
	pageQuery := psql.Select(userColumns...).From("users")
	if where != nil {
		countQuery = countQuery.Where(where)
		pageQuery = pageQuery.Where(where)
	}

	query, args, err := countQuery.ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query, args, err = pageQuery.
		OrderBy(orderBy(q)...).
		Limit(uint64(q.Limit)).
		Offset(uint64(q.Skip())).
		ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	users := make([]*entity.User, 0, q.Limit)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *UserRepository) Update(ctx context.Context, id string, patch repository.UserPatch) (*entity.User, error) {
	return r.updateSet(ctx, id, patchColumns(patch))
}

func (r *UserRepository) SetActive(ctx context.Context, id string, active bool, at time.Time) (*entity.User, error) {
	return r.updateSet(ctx, id, map[string]interface{}{"is_active": active, "updated_at": at})
}

func (r *UserRepository) Delete(ctx context.Context, id string) (*entity.User, error) {
	query, args, err := psql.Delete("users").
		Where(sq.Eq{"id": id}).
		Suffix(returningUser).
		ToSql()
	if err != nil {
		return nil, err
	}
	return r.queryUser(ctx, query, args...)
}

func (r *UserRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *UserRepository) getBy(ctx context.Context, where sq.Eq) (*entity.User, error) {
	query, args, err := psql.Select(userColumns...).From("users").Where(where).Limit(1).ToSql()
	if err != nil {
		return nil, err
	}
	return r.queryUser(ctx, query, args...)
}

func (r *UserRepository) updateSet(ctx context.Context, id string, set map[string]interface{}) (*entity.User, error) {
	query, args, err := psql.Update("users").
		SetMap(set).
		Where(sq.Eq{"id": id}).
		Suffix(returningUser).
		ToSql()
	if err != nil {
		return nil, err
	}
	return r.queryUser(ctx, query, args...)
}

func (r *UserRepository) queryUser(ctx context.Context, query string, args ...interface{}) (*entity.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, mapError(err)
	}
	return u, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (*entity.User, error) {
	var (
		u                  entity.User
		phone, gender, bio sql.NullString
	)
	err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &phone, &u.Age,
		&gender, &bio, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	u.Phone = nullString(phone)
	u.Gender = nullString(gender)
	u.Bio = nullString(bio)
	u.CreatedAt = u.CreatedAt.UTC()
	u.UpdatedAt = u.UpdatedAt.UTC()
	return &u, nil
}

func nullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}

func mapError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return entity.ErrUserNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return entity.ErrEmailExists
	}
	return err
}

// searchCondition matches search as a literal, case-insensitive substring of
// first_name, last_name or email.
func searchCondition(search string) sq.Sqlizer {
	if search == "" {
		return nil
	}
	pattern := "%" + escapeLike(search) + "%"
	return sq.Or{
		sq.ILike{"first_name": pattern},
		sq.ILike{"last_name": pattern},
		sq.ILike{"email": pattern},
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func orderBy(q repository.ListQuery) []string {
	column, ok := sortColumns[q.SortBy]
	if !ok {
		column = "created_at"
	}
	direction := "ASC"
	if q.SortDesc {
		direction = "DESC"
	}
	return []string{column + " " + direction, "id " + direction}
}

func patchColumns(patch repository.UserPatch) map[string]interface{} {
	set := map[string]interface{}{"updated_at": patch.UpdatedAt}
	if patch.FirstName != nil {
		set["first_name"] = *patch.FirstName
	}
	if patch.LastName != nil {
		set["last_name"] = *patch.LastName
	}
	if patch.Email != nil {
		set["email"] = *patch.Email
	}
	if patch.Phone != nil {
		set["phone"] = *patch.Phone
	}
	if patch.Age != nil {
		set["age"] = *patch.Age
	}
	if patch.Gender != nil {
		set["gender"] = *patch.Gender
	}
	if patch.Bio != nil {
		set["bio"] = *patch.Bio
	}
	if patch.IsActive != nil {
		set["is_active"] = *patch.IsActive
	}
	return set
}
