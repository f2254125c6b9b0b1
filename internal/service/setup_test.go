package service_test

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/ringshq/rings/internal/db"
	"github.com/ringshq/rings/internal/repository"
	"github.com/ringshq/rings/internal/service"
	"github.com/stretchr/testify/require"
)

var (
	jpegBytes = append([]byte{0xFF, 0xD8, 0xFF, 0xE0}, bytes.Repeat([]byte{0x01}, 64)...)
	pngBytes  = append([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1A, '\n'}, bytes.Repeat([]byte{0x02}, 64)...)
)

type testEnv struct {
	db          *sqlx.DB
	users       repository.UserRepository
	rings       repository.RingRepository
	memberships repository.MembershipRepository
	posts       repository.PostRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	database, err := sqlx.Connect("sqlite", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	require.NoError(t, db.RunMigrations(database.DB, "sqlite"))

	return &testEnv{
		db:          database,
		users:       repository.NewUserRepository(database),
		rings:       repository.NewRingRepository(database),
		memberships: repository.NewMembershipRepository(database),
		posts:       repository.NewPostRepository(database),
	}
}

func newAuthService(t *testing.T) (*service.AuthService, *testEnv) {
	t.Helper()
	env := newTestEnv(t)
	return service.NewAuthService(env.users, "test-secret", time.Hour, false), env
}

func newRingService(t *testing.T) (*service.RingService, *testEnv) {
	t.Helper()
	env := newTestEnv(t)
	return service.NewRingService(env.rings, env.memberships, env.users), env
}

// makeFileHeader builds a real multipart.FileHeader the way a request parser
// would, so header.Open works in validation.
func makeFileHeader(t *testing.T, filename, contentType string, data []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename="%s"`, filename))
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	form, err := multipart.NewReader(&buf, writer.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })

	require.NotEmpty(t, form.File["image"])
	return form.File["image"][0]
}
