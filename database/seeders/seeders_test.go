package seeders_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/kasir/app/models"
	"github.com/shashiranjanraj/kasir/database/seeders"
	"github.com/shashiranjanraj/kasir/internal/testkit"
	"github.com/shashiranjanraj/kasir/pkg/auth"
)

func TestSeedAdminIsIdempotent(t *testing.T) {
	db := testkit.OpenDB(t)

	require.NoError(t, seeders.SeedAdmin(db))
	require.NoError(t, seeders.SeedAdmin(db))

	var admins []models.User
	require.NoError(t, db.Where("level = ?", models.LevelAdministrator).Find(&admins).Error)
	require.Len(t, admins, 1)
	assert.Equal(t, "admin", admins[0].Username)
	assert.True(t, auth.CheckPassword(admins[0].Password, "administrator"))
	assert.True(t, admins[0].PasswordUpdatedAt.Before(admins[0].CreatedAt))
}

func TestSeedAdminSkipsWhenAdministratorExists(t *testing.T) {
	db := testkit.OpenDB(t)
	testkit.User(t, db, "owner", models.LevelAdministrator)

	require.NoError(t, seeders.SeedAdmin(db))
	assert.Equal(t, int64(1), testkit.Count(t, db, &models.User{}))
}

func TestSeedProductsOnlyFillsEmptyCatalog(t *testing.T) {
	db := testkit.OpenDB(t)

	require.NoError(t, seeders.SeedProducts(db))
	seeded := testkit.Count(t, db, &models.Product{})
	assert.Positive(t, seeded)

	require.NoError(t, seeders.SeedProducts(db))
	assert.Equal(t, seeded, testkit.Count(t, db, &models.Product{}))
}

func TestRunAllFiltersByName(t *testing.T) {
	db := testkit.OpenDB(t)

	var out bytes.Buffer
	require.NoError(t, seeders.RunAll(db, &out, "products"))
	assert.Contains(t, out.String(), "products")
	assert.NotContains(t, out.String(), "admin")
	assert.Equal(t, int64(0), testkit.Count(t, db, &models.User{}))

	out.Reset()
	require.NoError(t, seeders.RunAll(db, &out, "nope"))
	assert.Contains(t, out.String(), "no seeders matched")
}
