package repository

import (
	"testing"
	"time"

	"go-agrimarket/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Role{}, &model.User{}, &model.Product{}))
	return db
}

func createUser(t *testing.T, repo UserRepository, email string, registeredBy *string, registered time.Time) *model.User {
	t.Helper()
	user := &model.User{
		Email:            email,
		Password:         "x",
		FirstName:        "Test",
		LastName:         "User",
		Status:           model.StatusPending,
		RegisteredByID:   registeredBy,
		RegistrationDate: registered,
	}
	require.NoError(t, repo.Create(user))
	return user
}

func TestUserRepoFindByRegisteredBy(t *testing.T) {
	db := testDB(t)
	repo := NewUserRepo(db)

	employeeA := "employee-a"
	employeeB := "employee-b"
	base := time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC)

	createUser(t, repo, "old@farm.test", &employeeA, base)
	createUser(t, repo, "new@farm.test", &employeeA, base.Add(48*time.Hour))
	createUser(t, repo, "other@farm.test", &employeeB, base.Add(24*time.Hour))
	createUser(t, repo, "self@farm.test", nil, base)

	got, err := repo.FindByRegisteredBy(employeeA)
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Newest registration first, never another employee's farmers
	assert.Equal(t, "new@farm.test", got[0].Email)
	assert.Equal(t, "old@farm.test", got[1].Email)

	gotB, err := repo.FindByRegisteredBy(employeeB)
	require.NoError(t, err)
	require.Len(t, gotB, 1)
	assert.Equal(t, "other@farm.test", gotB[0].Email)
}

func TestUserRepoFindByEmail(t *testing.T) {
	db := testDB(t)
	repo := NewUserRepo(db)

	created := createUser(t, repo, "farmer@test.com", nil, time.Now())

	found, err := repo.FindByEmail("farmer@test.com")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = repo.FindByEmail("ghost@test.com")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUserRepoUpdatePersistsStatus(t *testing.T) {
	db := testDB(t)
	repo := NewUserRepo(db)

	user := createUser(t, repo, "pending@test.com", nil, time.Now())
	user.Status = model.StatusActive
	require.NoError(t, repo.Update(user))

	found, err := repo.FindByEmail("pending@test.com")
	require.NoError(t, err)
	assert.Equal(t, model.StatusActive, found.Status)
}

func TestRoleRepoGrant(t *testing.T) {
	db := testDB(t)
	roleRepo := NewRoleRepo(db)
	userRepo := NewUserRepo(db)

	require.NoError(t, roleRepo.SeedDefaults())
	// Seeding twice must not duplicate
	require.NoError(t, roleRepo.SeedDefaults())
	roles, err := roleRepo.FindAll()
	require.NoError(t, err)
	assert.Len(t, roles, len(model.DefaultRoles))

	user := createUser(t, userRepo, "farmer@test.com", nil, time.Now())
	require.NoError(t, roleRepo.Grant(user.ID, model.RoleFarmer))

	found, err := userRepo.FindByID(user.ID)
	require.NoError(t, err)
	require.NotNil(t, found.Role)
	assert.Equal(t, model.RoleFarmer, found.Role.Code)

	assert.Error(t, roleRepo.Grant(user.ID, "NO_SUCH_ROLE"))
}

func TestProductRepoOwnerScoping(t *testing.T) {
	db := testDB(t)
	productRepo := NewProductRepo(db)
	userRepo := NewUserRepo(db)

	farmer := createUser(t, userRepo, "farmer@test.com", nil, time.Now())
	other := createUser(t, userRepo, "other@test.com", nil, time.Now())

	for _, spec := range []struct {
		name  string
		owner uuid.UUID
	}{
		{"Sweet Potatoes", farmer.ID},
		{"Honey Jar", farmer.ID},
		{"Maize Bag", other.ID},
	} {
		require.NoError(t, productRepo.Create(&model.Product{
			Name:           spec.name,
			Description:    "test",
			Price:          10,
			Category:       "Produce",
			ProductionDate: time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC),
			UserID:         spec.owner,
		}))
	}

	mine, err := productRepo.FindByOwner(farmer.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	all, err := productRepo.FindAll()
	require.NoError(t, err)
	assert.Len(t, all, 3)

	// Farmer preloaded for the search layer
	for _, p := range all {
		require.NotNil(t, p.Farmer)
	}
}

func TestProductRepoDelete(t *testing.T) {
	db := testDB(t)
	productRepo := NewProductRepo(db)
	userRepo := NewUserRepo(db)

	farmer := createUser(t, userRepo, "farmer@test.com", nil, time.Now())
	product := &model.Product{
		Name:           "Sweet Potatoes",
		Description:    "test",
		Price:          10,
		Category:       "Produce",
		ProductionDate: time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC),
		UserID:         farmer.ID,
	}
	require.NoError(t, productRepo.Create(product))

	require.NoError(t, productRepo.Delete(product.ID))
	_, err := productRepo.FindByID(product.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
