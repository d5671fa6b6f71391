package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ppe-inspector/internal/domain/entity"
	"ppe-inspector/internal/infrastructure/storage"
)

type employeeFixture struct {
	svc    *EmployeeService
	enc    *fakeEncoder
	photos *memPhotoStore
}

func newEmployeeFixture(t *testing.T) *employeeFixture {
	t.Helper()
	enc := &fakeEncoder{faces: map[string][][]float32{
		"ayse":       {{0, 0, 1}},
		"ayse-again": {{0, 0.1, 0.99}},
		"mehmet":     {{1, 0, 0}},
		"stranger":   {{0, 1, 0}},
		"crowd":      {{0, 0, 1}, {1, 0, 0}},
		"empty":      {},
	}}
	photos := &memPhotoStore{saved: map[string][]byte{}}
	svc := NewEmployeeService(newStore(t).Employees(), photos, encoderDecoder{enc}, enc, 0.6, time.UTC)
	svc.now = fixedClock(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	n := 0
	svc.randN = func(int) int { n++; return n }
	return &employeeFixture{svc: svc, enc: enc, photos: photos}
}

func TestEmployeeService_RegisterAndLogin(t *testing.T) {
	f := newEmployeeFixture(t)
	ctx := context.Background()

	_, err := f.svc.Login(ctx, []byte("ayse"))
	require.ErrorIs(t, err, entity.ErrNoEmployees)

	ayse, err := f.svc.Register(ctx, " Ayse ", "Kaya", []byte("ayse"))
	require.NoError(t, err)
	assert.Equal(t, "Ayse", ayse.Name)
	assert.Equal(t, "20241001", ayse.RegistrationNo)
	assert.Equal(t, entity.DepartmentMobile, ayse.Department)
	assert.Equal(t, "user_20241001_photo.jpg", ayse.PhotoFilename)
	assert.True(t, ayse.HasFace())

	_, err = f.svc.Register(ctx, "Mehmet", "Demir", []byte("mehmet"))
	require.NoError(t, err)

	got, err := f.svc.Login(ctx, []byte("ayse-again"))
	require.NoError(t, err)
	assert.Equal(t, ayse.RegistrationNo, got.RegistrationNo)

	_, err = f.svc.Login(ctx, []byte("stranger"))
	require.ErrorIs(t, err, entity.ErrFaceNotRecognized)

	_, err = f.svc.Login(ctx, []byte("empty"))
	require.ErrorIs(t, err, entity.ErrNoFace)

	path, err := f.svc.PhotoPath(ayse.PhotoFilename)
	require.NoError(t, err)
	assert.Equal(t, "/photos/user_20241001_photo.jpg", path)
}

func TestEmployeeService_LoginPicksClosest(t *testing.T) {
	f := newEmployeeFixture(t)
	ctx := context.Background()
	f.enc.faces["near"] = [][]float32{{0, 0.3, 0.95}}
	f.enc.faces["nearer"] = [][]float32{{0, 0.25, 0.97}}
	f.enc.faces["probe"] = [][]float32{{0, 0.26, 0.96}}

	nearer, err := f.svc.Register(ctx, "First", "Nearer", []byte("nearer"))
	require.NoError(t, err)
	_, err = f.svc.Register(ctx, "Second", "Near", []byte("near"))
	require.NoError(t, err)

	// Список идёт от новых к старым, первым в нём окажется менее похожий.
	got, err := f.svc.Login(ctx, []byte("probe"))
	require.NoError(t, err)
	assert.Equal(t, nearer.RegistrationNo, got.RegistrationNo)
}

func TestEmployeeService_RegisterErrors(t *testing.T) {
	f := newEmployeeFixture(t)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, "", "Kaya", []byte("ayse"))
	require.ErrorIs(t, err, entity.ErrInvalidInput)

	_, err = f.svc.Register(ctx, "Ayse", "Kaya", []byte("bad"))
	require.ErrorIs(t, err, entity.ErrInvalidImage)

	_, err = f.svc.Register(ctx, "Ayse", "Kaya", []byte("empty"))
	require.ErrorIs(t, err, entity.ErrNoFace)

	_, err = f.svc.Register(ctx, "Ayse", "Kaya", []byte("crowd"))
	require.ErrorIs(t, err, entity.ErrMultipleFaces)

	assert.Empty(t, f.photos.saved)
}

func TestEmployeeService_RegisterDuplicateRemovesPhoto(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "users")
	photos, err := storage.NewDiskPhotoStore(dir)
	require.NoError(t, err)
	svc := NewEmployeeService(newStore(t).Employees(), photos, fakeDecoder{}, nil, 0, time.UTC)
	svc.randN = func(int) int { return 7 }
	ctx := context.Background()

	first, err := svc.Register(ctx, "Ayse", "Kaya", []byte("photo"))
	require.NoError(t, err)

	_, err = svc.Register(ctx, "Mehmet", "Demir", []byte("photo"))
	require.ErrorIs(t, err, entity.ErrDuplicateRegistration)

	files, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, first.PhotoFilename, files[0].Name())
}

func TestEmployeeService_WithoutEncoder(t *testing.T) {
	store := newStore(t)
	photos := &memPhotoStore{saved: map[string][]byte{}}
	svc := NewEmployeeService(store.Employees(), photos, fakeDecoder{}, nil, 0, nil)
	ctx := context.Background()

	emp, err := svc.Register(ctx, "Ayse", "Kaya", []byte("photo"))
	require.NoError(t, err)
	assert.False(t, emp.HasFace())
	assert.Len(t, photos.saved, 1)

	// Сотрудники без вектора лица для входа не считаются.
	_, err = svc.Login(ctx, []byte("photo"))
	require.ErrorIs(t, err, entity.ErrNoEmployees)
}

func TestEmployeeService_LoginEncoderUnavailable(t *testing.T) {
	store := newStore(t)
	require.NoError(t, store.Employees().Create(context.Background(), &entity.Employee{
		Name: "Ayse", Surname: "Kaya", RegistrationNo: "1", Department: entity.DepartmentMobile,
		FaceEmbedding: []float32{1}, CreatedAt: time.Now(),
	}))
	svc := NewEmployeeService(store.Employees(), nil, fakeDecoder{}, nil, 0, nil)

	_, err := svc.Login(context.Background(), []byte("photo"))
	require.ErrorIs(t, err, entity.ErrNotAvailable)

	_, err = svc.PhotoPath("x.jpg")
	require.ErrorIs(t, err, entity.ErrNotFound)
}

func TestEmployeeService_EnsureExternal(t *testing.T) {
	f := newEmployeeFixture(t)
	ctx := context.Background()

	emp, err := f.svc.EnsureExternal(ctx, "Ali", "Veli", " ")
	require.NoError(t, err)
	assert.Equal(t, entity.DepartmentUnknown, emp.Department)
	assert.Equal(t, "EXT1001", emp.RegistrationNo)
	assert.False(t, emp.HasFace())

	same, err := f.svc.EnsureExternal(ctx, "Ali", "Veli", "Depo")
	require.NoError(t, err)
	assert.Equal(t, emp.ID, same.ID)
}
