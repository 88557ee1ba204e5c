package repositories

import (
	"errors"

	"gorm.io/gorm"

	"peerprep/interview/internal/models"
)

type CreditRepository struct {
	DB *gorm.DB
}

// Debit atomically consumes one credit. Fails with no_credits_remaining
// when the account is missing or empty; the conditional UPDATE keeps two
// concurrent starts from spending the same credit.
func (r *CreditRepository) Debit(userID string) (int, error) {
	var remaining int

	err := r.DB.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.CreditAccount{}).
			Where("user_id = ? AND remaining > 0", userID).
			UpdateColumn("remaining", gorm.Expr("remaining - 1"))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return models.NewError(models.ErrNoCreditsRemaining, "no interview credits remaining")
		}

		var account models.CreditAccount
		if err := tx.Where("user_id = ?", userID).First(&account).Error; err != nil {
			return err
		}
		remaining = account.Remaining
		return nil
	})
	if err != nil {
		return 0, err
	}
	return remaining, nil
}

// Grant adds credits to a user's account, creating it if needed.
func (r *CreditRepository) Grant(userID string, amount int) error {
	var account models.CreditAccount
	err := r.DB.Where("user_id = ?", userID).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.DB.Create(&models.CreditAccount{UserID: userID, Remaining: amount}).Error
	}
	if err != nil {
		return err
	}

	return r.DB.Model(&models.CreditAccount{}).
		Where("user_id = ?", userID).
		UpdateColumn("remaining", gorm.Expr("remaining + ?", amount)).Error
}

// Remaining reports the user's credit balance; missing accounts read as
// zero.
func (r *CreditRepository) Remaining(userID string) (int, error) {
	var account models.CreditAccount
	err := r.DB.Where("user_id = ?", userID).First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return account.Remaining, nil
}
