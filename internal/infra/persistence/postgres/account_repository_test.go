package postgres

import (
	"testing"
	"time"

	"passport/internal/domain/entity"
	"passport/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func TestUpsertByEmailConflict_LeavesExistingRowUnchanged(t *testing.T) {
	t.Parallel()

	// An external-identity upsert that hits an existing email must not rewrite
	// any stored field. A credential account keeps its provider and hash, so
	// password login still works after a callback with the same address.
	conflict := upsertByEmailConflict()

	require.Equal(t, []clause.Column{{Name: "email"}}, conflict.Columns)
	assert.False(t, conflict.DoNothing, "DO NOTHING would not return the conflicting row")
	assert.False(t, conflict.UpdateAll)

	assignments := conflict.DoUpdates
	require.Len(t, assignments, 1, "conflict branch must assign nothing beyond the key itself")

	assert.Equal(t, "email", assignments[0].Column.Name)
	assert.Equal(t, gorm.Expr("excluded.email"), assignments[0].Value)
}

func TestAccountMappers_RoundTrip(t *testing.T) {
	t.Parallel()

	now := time.Now()
	account := &entity.Account{
		ID:            uuid.New(),
		Email:         "mapper@example.com",
		Name:          "Mapper",
		PasswordHash:  "salt.key",
		EmailVerified: true,
		Provider:      entity.ProviderTypeEmail,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	accountM := fromAccountDomain(account)
	require.NotNil(t, accountM)
	assert.Equal(t, account.ID, accountM.ID)
	assert.Equal(t, "email", accountM.Provider)

	accountM.CreatedAt = now
	accountM.UpdatedAt = now
	restored := toAccountDomain(accountM)
	require.NotNil(t, restored)
	assert.Equal(t, account, restored)
}

func TestAccountMappers_NilSafe(t *testing.T) {
	t.Parallel()

	assert.Nil(t, toAccountDomain(nil))
	assert.Nil(t, fromAccountDomain(nil))

	var nilModel *model.AccountModel
	assert.Nil(t, toAccountDomain(nilModel))
}
