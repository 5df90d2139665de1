package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	log "github.com/sirupsen/logrus"
)

var ErrUserNotFound = errors.New("user not found")

type Repo interface {
	CreateUser(ctx context.Context, user User) error
	GetByUsername(ctx context.Context, username string) (User, error)
	GetByUid(ctx context.Context, uid string) (User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	CountUsers(ctx context.Context) (int, error)
}

type RepoImpl struct {
	db *sqlx.DB
}

func NewUserRepo(db *sqlx.DB) *RepoImpl {
	return &RepoImpl{db: db}
}

type userRow struct {
	Uid          string `db:"uid"`
	Username     string `db:"username"`
	PasswordHash string `db:"password_hash"`
	Role         string `db:"role"`
	CreatedAt    int64  `db:"created_at"`
}

func (row userRow) toUser() User {
	return User{
		Uid:          row.Uid,
		Username:     row.Username,
		PasswordHash: row.PasswordHash,
		Role:         Role(row.Role),
		CreatedAt:    time.UnixMilli(row.CreatedAt),
	}
}

func (r *RepoImpl) CreateUser(ctx context.Context, user User) error {
	query := `INSERT INTO users (uid, username, password_hash, role, created_at) VALUES (?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, r.db.Rebind(query),
		user.Uid, user.Username, user.PasswordHash, string(user.Role), user.CreatedAt.UnixMilli())
	if err != nil {
		err := fmt.Errorf("could not store user: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

func (r *RepoImpl) GetByUsername(ctx context.Context, username string) (User, error) {
	query := `SELECT uid, username, password_hash, role, created_at FROM users WHERE username = ?`

	var row userRow
	err := sqlx.GetContext(ctx, r.db, &row, r.db.Rebind(query), username)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrUserNotFound
	}
	if err != nil {
		err := fmt.Errorf("could not query user: %w", err)
		log.Error(err)
		return User{}, err
	}
	return row.toUser(), nil
}

func (r *RepoImpl) GetByUid(ctx context.Context, uid string) (User, error) {
	query := `SELECT uid, username, password_hash, role, created_at FROM users WHERE uid = ?`

	var row userRow
	err := sqlx.GetContext(ctx, r.db, &row, r.db.Rebind(query), uid)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrUserNotFound
	}
	if err != nil {
		err := fmt.Errorf("could not query user: %w", err)
		log.Error(err)
		return User{}, err
	}
	return row.toUser(), nil
}

func (r *RepoImpl) UsernameExists(ctx context.Context, username string) (bool, error) {
	query := `SELECT COUNT(*) FROM users WHERE username = ?`

	var count int
	if err := sqlx.GetContext(ctx, r.db, &count, r.db.Rebind(query), username); err != nil {
		err := fmt.Errorf("could not query username: %w", err)
		log.Error(err)
		return false, err
	}
	return count > 0, nil
}

func (r *RepoImpl) CountUsers(ctx context.Context) (int, error) {
	var count int
	if err := sqlx.GetContext(ctx, r.db, &count, `SELECT COUNT(*) FROM users`); err != nil {
		err := fmt.Errorf("could not count users: %w", err)
		log.Error(err)
		return 0, err
	}
	return count, nil
}
