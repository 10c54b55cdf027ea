package postgres

import (
	"context"

	"passport/internal/domain/entity"
	domainerrors "passport/internal/domain/errors"
	"passport/internal/domain/repository"
	"passport/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// verificationCodeRepository implements repository.VerificationCodeRepository using GORM.
type verificationCodeRepository struct {
	db *gorm.DB
}

// NewVerificationCodeRepository is the constructor for verificationCodeRepository.
func NewVerificationCodeRepository(db *gorm.DB) repository.VerificationCodeRepository {
	return &verificationCodeRepository{db: db}
}

// Create persists a new verification code.
func (repo *verificationCodeRepository) Create(ctx context.Context, code *entity.VerificationCode) error {
	codeM := fromVerificationCodeDomain(code)

	if err := repo.db.WithContext(ctx).Create(codeM).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to create verification code")
	}

	code.ID = codeM.ID
	code.CreatedAt = codeM.CreatedAt

	return nil
}

// DeleteAllForAccount removes every code belonging to the account. Deleting
// zero rows is not an error; issuing replaces whatever was there.
func (repo *verificationCodeRepository) DeleteAllForAccount(ctx context.Context, accountID uuid.UUID) error {
	err := repo.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Delete(&model.VerificationCodeModel{}).Error
	if err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to delete verification codes")
	}

	return nil
}

// FindByAccount retrieves the live code for the account, if any.
func (repo *verificationCodeRepository) FindByAccount(ctx context.Context, accountID uuid.UUID) (*entity.VerificationCode, error) {
	var codeM model.VerificationCodeModel
	err := repo.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at DESC").
		First(&codeM).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrCodeNotFound
		}

		return nil, errors.Wrap(err, "failed to find verification code")
	}

	return toVerificationCodeDomain(&codeM), nil
}

// Delete removes a single verification code by ID.
func (repo *verificationCodeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.VerificationCodeModel{}).Error
	if err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to delete verification code")
	}

	return nil
}

// toVerificationCodeDomain converts a GORM VerificationCodeModel to a domain entity.
func toVerificationCodeDomain(data *model.VerificationCodeModel) *entity.VerificationCode {
	if data == nil {
		return nil
	}

	return &entity.VerificationCode{
		ID:        data.ID,
		AccountID: data.AccountID,
		Code:      data.Code,
		ExpiresAt: data.ExpiresAt,
		CreatedAt: data.CreatedAt,
	}
}

// fromVerificationCodeDomain converts a domain entity to a GORM VerificationCodeModel.
func fromVerificationCodeDomain(data *entity.VerificationCode) *model.VerificationCodeModel {
	if data == nil {
		return nil
	}

	return &model.VerificationCodeModel{
		ID:        data.ID,
		AccountID: data.AccountID,
		Code:      data.Code,
		ExpiresAt: data.ExpiresAt,
	}
}
