package authsvc

import (
	"context"
	"database/sql"
	"testing"

	"clothingrental/apperr"
	"clothingrental/model"
	"clothingrental/util/hash"
	jwtutil "clothingrental/util/jwt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

type userRepoMock struct {
	createFn  func(ctx context.Context, u *model.User) error
	byEmailFn func(ctx context.Context, email string) (*model.User, error)
}

func (m *userRepoMock) Create(ctx context.Context, u *model.User) error { return m.createFn(ctx, u) }
func (m *userRepoMock) ByEmail(ctx context.Context, email string) (*model.User, error) {
	return m.byEmailFn(ctx, email)
}

const testSecret = "test-secret"

func TestRegister(t *testing.T) {
	var saved *model.User
	svc := New(&userRepoMock{
		createFn: func(ctx context.Context, u *model.User) error {
			u.ID = 3
			saved = u
			return nil
		},
	}, testSecret)

	u, token, err := svc.Register(context.Background(), model.RegisterReq{
		FirstName: "Ana",
		LastName:  "Reyes",
		Email:     "Ana@Example.COM",
		Username:  "anar",
		Password:  "hunter22",
	})
	require.NoError(t, err)
	require.EqualValues(t, 3, u.ID)
	require.Equal(t, "user", u.Role)
	require.Equal(t, "ana@example.com", saved.Email, "email is stored lowercased")
	require.NotEqual(t, "hunter22", saved.PasswordHash)
	require.True(t, hash.Check(saved.PasswordHash, "hunter22"))

	claims, err := jwtutil.ParseAuth("Bearer "+token, testSecret)
	require.NoError(t, err)
	require.EqualValues(t, 3, claims["sub"])
	require.Equal(t, "user", claims["role"])
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc := New(&userRepoMock{
		createFn: func(ctx context.Context, u *model.User) error {
			return &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
		},
	}, testSecret)

	_, _, err := svc.Register(context.Background(), model.RegisterReq{
		FirstName: "Ana", LastName: "Reyes",
		Email: "ana@example.com", Username: "anar", Password: "hunter22",
	})
	require.Equal(t, apperr.Conflict, apperr.KindOf(err))
	require.Contains(t, apperr.FieldsOf(err), "email")
}

func TestRegister_DuplicateUsername(t *testing.T) {
	svc := New(&userRepoMock{
		createFn: func(ctx context.Context, u *model.User) error {
			return &pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"}
		},
	}, testSecret)

	_, _, err := svc.Register(context.Background(), model.RegisterReq{
		FirstName: "Ana", LastName: "Reyes",
		Email: "ana@example.com", Username: "anar", Password: "hunter22",
	})
	require.Equal(t, apperr.Conflict, apperr.KindOf(err))
	require.Contains(t, apperr.FieldsOf(err), "username")
}

func TestLogin(t *testing.T) {
	hashed, err := hash.HashPassword("hunter22")
	require.NoError(t, err)

	svc := New(&userRepoMock{
		byEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return &model.User{ID: 3, Email: email, PasswordHash: hashed, Role: "user"}, nil
		},
	}, testSecret)

	u, token, err := svc.Login(context.Background(), model.LoginReq{
		Email: "ana@example.com", Password: "hunter22",
	})
	require.NoError(t, err)
	require.EqualValues(t, 3, u.ID)
	require.NotEmpty(t, token)
}

func TestLogin_BadCredentials(t *testing.T) {
	hashed, err := hash.HashPassword("hunter22")
	require.NoError(t, err)

	// wrong password
	svc := New(&userRepoMock{
		byEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return &model.User{ID: 3, PasswordHash: hashed}, nil
		},
	}, testSecret)
	_, _, err = svc.Login(context.Background(), model.LoginReq{Email: "ana@example.com", Password: "nope"})
	require.Equal(t, apperr.Validation, apperr.KindOf(err))

	// unknown email gets the same answer
	svc = New(&userRepoMock{
		byEmailFn: func(ctx context.Context, email string) (*model.User, error) {
			return nil, sql.ErrNoRows
		},
	}, testSecret)
	_, _, err = svc.Login(context.Background(), model.LoginReq{Email: "ghost@example.com", Password: "nope"})
	require.Equal(t, apperr.Validation, apperr.KindOf(err))
}
