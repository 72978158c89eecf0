package postgres

import (
	"context"
	"errors"
	"estate-brokerage/internal/domain/user"
	"estate-brokerage/internal/infrastructure/database/postgres/models"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const uniqueViolation = "23505"

// UserRepository implements user.Repository on a relational table
type UserRepository struct {
	db *DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *DB) user.Repository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	now := time.Now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now

	if err := r.db.DB.WithContext(ctx).Create(toUserModel(u)).Error; err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			if strings.Contains(pgErr.ConstraintName, "username") {
				return user.ErrUsernameTaken
			}
			return user.ErrEmailTaken
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (r *UserRepository) Delete(ctx context.Context, userID uuid.UUID) error {
	result := r.db.DB.WithContext(ctx).Delete(&models.UserModel{}, "id = ?", userID)
	if result.Error != nil {
		return fmt.Errorf("failed to delete user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return user.ErrUserNotFound
	}

	return nil
}

func (r *UserRepository) first(ctx context.Context, query string, args ...interface{}) (*user.User, error) {
	var dbModel models.UserModel
	err := r.db.DB.WithContext(ctx).Where(query, args...).First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, user.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return toUserEntity(&dbModel), nil
}

func (r *UserRepository) GetByID(ctx context.Context, userID uuid.UUID) (*user.User, error) {
	return r.first(ctx, "id = ?", userID)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *UserRepository) GetByIdentifier(ctx context.Context, identifier string) (*user.User, error) {
	return r.first(ctx, "email = ? OR username = ?", strings.ToLower(identifier), identifier)
}

func (r *UserRepository) FindByEmailOrUsername(ctx context.Context, email, username string) (*user.User, error) {
	return r.first(ctx, "email = ? OR username = ?", email, username)
}

func (r *UserRepository) GetByRefreshTokenHash(ctx context.Context, hash string) (*user.User, error) {
	if hash == "" {
		return nil, user.ErrUserNotFound
	}
	return r.first(ctx, "refresh_token_hash = ?", hash)
}

func (r *UserRepository) GetAll(ctx context.Context) ([]*user.User, error) {
	var dbModels []models.UserModel
	err := r.db.DB.WithContext(ctx).Order("created_at DESC").Find(&dbModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}

	users := make([]*user.User, len(dbModels))
	for i := range dbModels {
		users[i] = toUserEntity(&dbModels[i])
	}

	return users, nil
}

// updateWhere applies updates to the identity when the guard also holds.
// It reports ErrUserNotFound for an unknown id and ErrNoMatch for a failed guard.
func (r *UserRepository) updateWhere(ctx context.Context, userID uuid.UUID, guard string, guardArgs []interface{}, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()

	query := r.db.DB.WithContext(ctx).Model(&models.UserModel{}).Where("id = ?", userID)
	if guard != "" {
		query = query.Where(guard, guardArgs...)
	}

	result := query.Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update user: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		return nil
	}

	if guard == "" {
		return user.ErrUserNotFound
	}
	if _, err := r.GetByID(ctx, userID); err != nil {
		return err
	}
	return user.ErrNoMatch
}

// conditionalUpdate is a guarded single-statement update: updates apply only
// to rows matching conditions.
type conditionalUpdate struct {
	conditions string
	args       []interface{}
	updates    map[string]interface{}
}

// updateReturning atomically applies u and returns the row as stored after
// the update.
func (r *UserRepository) updateReturning(ctx context.Context, u conditionalUpdate) (*user.User, error) {
	u.updates["updated_at"] = time.Now()

	var dbModel models.UserModel
	result := r.db.DB.WithContext(ctx).Model(&dbModel).
		Clauses(clause.Returning{}).
		Where(u.conditions, u.args...).
		Updates(u.updates)

	if result.Error != nil {
		return nil, fmt.Errorf("failed to update user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, user.ErrNoMatch
	}

	return toUserEntity(&dbModel), nil
}

func (r *UserRepository) SetVerification(ctx context.Context, userID uuid.UUID, pending *user.PendingVerification) error {
	updates := map[string]interface{}{
		"verification_kind":       "",
		"verification_secret":     "",
		"verification_expires_at": nil,
	}
	if pending != nil {
		updates["verification_kind"] = string(pending.Kind)
		updates["verification_secret"] = pending.Secret
		updates["verification_expires_at"] = pending.ExpiresAt
	}

	return r.updateWhere(ctx, userID, "is_verified = ?", []interface{}{false}, updates)
}

func clearedVerification() map[string]interface{} {
	return map[string]interface{}{
		"is_verified":             true,
		"verification_kind":       "",
		"verification_secret":     "",
		"verification_expires_at": nil,
	}
}

func otpUpdate(email, code string, now time.Time) conditionalUpdate {
	return conditionalUpdate{
		conditions: "email = ? AND is_verified = ? AND verification_kind = ? AND verification_secret = ? AND verification_expires_at > ?",
		args:       []interface{}{email, false, string(user.VerificationOTP), code, now},
		updates:    clearedVerification(),
	}
}

func (r *UserRepository) ConsumeOTP(ctx context.Context, email, code string, now time.Time) (*user.User, error) {
	return r.updateReturning(ctx, otpUpdate(email, code, now))
}

func verificationTokenUpdate(tokenHash string) conditionalUpdate {
	return conditionalUpdate{
		conditions: "is_verified = ? AND verification_kind = ? AND verification_secret = ?",
		args:       []interface{}{false, string(user.VerificationEmailToken), tokenHash},
		updates:    clearedVerification(),
	}
}

func (r *UserRepository) ConsumeVerificationToken(ctx context.Context, tokenHash string) (*user.User, error) {
	return r.updateReturning(ctx, verificationTokenUpdate(tokenHash))
}

// federatedClaimUpdate verifies a pending row and replaces every credential
// set before the provider proved ownership of the mailbox.
func federatedClaimUpdate(userID uuid.UUID, passwordHash string) conditionalUpdate {
	updates := clearedVerification()
	updates["password_hashed"] = passwordHash
	updates["refresh_token_hash"] = ""
	updates["reset_code"] = ""
	updates["reset_expires_at"] = nil

	return conditionalUpdate{
		conditions: "id = ? AND is_verified = ?",
		args:       []interface{}{userID, false},
		updates:    updates,
	}
}

func (r *UserRepository) ClaimFederated(ctx context.Context, userID uuid.UUID, passwordHash string) (*user.User, error) {
	return r.updateReturning(ctx, federatedClaimUpdate(userID, passwordHash))
}

func (r *UserRepository) SetRefreshToken(ctx context.Context, userID uuid.UUID, hash string) error {
	return r.updateWhere(ctx, userID, "", nil, map[string]interface{}{"refresh_token_hash": hash})
}

// refreshSwapGuard holds only while the stored hash is still oldHash.
const refreshSwapGuard = "refresh_token_hash = ?"

func (r *UserRepository) SwapRefreshToken(ctx context.Context, userID uuid.UUID, oldHash, newHash string) error {
	return r.updateWhere(ctx, userID, refreshSwapGuard, []interface{}{oldHash},
		map[string]interface{}{"refresh_token_hash": newHash})
}

func (r *UserRepository) ClearRefreshToken(ctx context.Context, userID uuid.UUID, hash string) error {
	return r.updateWhere(ctx, userID, refreshSwapGuard, []interface{}{hash},
		map[string]interface{}{"refresh_token_hash": ""})
}

func (r *UserRepository) SetResetCode(ctx context.Context, userID uuid.UUID, code string, expiresAt time.Time) error {
	return r.updateWhere(ctx, userID, "", nil, map[string]interface{}{
		"reset_code":       code,
		"reset_expires_at": expiresAt,
	})
}

func resetPasswordUpdate(email, code string, now time.Time, passwordHash string) conditionalUpdate {
	return conditionalUpdate{
		conditions: "email = ? AND reset_code = ? AND reset_code <> '' AND reset_expires_at > ?",
		args:       []interface{}{email, code, now},
		updates: map[string]interface{}{
			"password_hashed":    passwordHash,
			"reset_code":         "",
			"reset_expires_at":   nil,
			"refresh_token_hash": "",
		},
	}
}

func (r *UserRepository) ResetPassword(ctx context.Context, email, code string, now time.Time, passwordHash string) (*user.User, error) {
	return r.updateReturning(ctx, resetPasswordUpdate(email, code, now, passwordHash))
}

func (r *UserRepository) ClearExpiredCodes(ctx context.Context, now time.Time) (int64, error) {
	otps := r.db.DB.WithContext(ctx).Model(&models.UserModel{}).
		Where("verification_expires_at <= ?", now).
		Updates(map[string]interface{}{
			"verification_kind":       "",
			"verification_secret":     "",
			"verification_expires_at": nil,
		})
	if otps.Error != nil {
		return 0, fmt.Errorf("failed to clear expired otps: %w", otps.Error)
	}

	resets := r.db.DB.WithContext(ctx).Model(&models.UserModel{}).
		Where("reset_expires_at <= ?", now).
		Updates(map[string]interface{}{
			"reset_code":       "",
			"reset_expires_at": nil,
		})
	if resets.Error != nil {
		return otps.RowsAffected, fmt.Errorf("failed to clear expired reset codes: %w", resets.Error)
	}

	return otps.RowsAffected + resets.RowsAffected, nil
}

func (r *UserRepository) Ping(ctx context.Context) error {
	return r.db.Health(ctx)
}

func toUserModel(u *user.User) *models.UserModel {
	m := &models.UserModel{
		ID:               u.ID,
		FullName:         u.FullName,
		Username:         u.Username,
		Email:            u.Email,
		PhoneNumber:      u.PhoneNumber,
		Nationality:      u.Nationality,
		PasswordHashed:   u.PasswordHashed,
		ProfilePicture:   u.ProfilePicture,
		Role:             u.Role,
		IsVerified:       u.IsVerified,
		ResetCode:        u.ResetCode,
		ResetExpiresAt:   u.ResetExpiresAt,
		RefreshTokenHash: u.RefreshTokenHash,
		CreatedAt:        u.CreatedAt,
		UpdatedAt:        u.UpdatedAt,
	}
	if v := u.Verification; v != nil {
		m.VerificationKind = string(v.Kind)
		m.VerificationSecret = v.Secret
		m.VerificationExpiresAt = v.ExpiresAt
	}
	return m
}

func toUserEntity(m *models.UserModel) *user.User {
	u := &user.User{
		ID:               m.ID,
		FullName:         m.FullName,
		Username:         m.Username,
		Email:            m.Email,
		PhoneNumber:      m.PhoneNumber,
		Nationality:      m.Nationality,
		PasswordHashed:   m.PasswordHashed,
		ProfilePicture:   m.ProfilePicture,
		Role:             m.Role,
		IsVerified:       m.IsVerified,
		ResetCode:        m.ResetCode,
		ResetExpiresAt:   m.ResetExpiresAt,
		RefreshTokenHash: m.RefreshTokenHash,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
	if m.VerificationKind != "" {
		u.Verification = &user.PendingVerification{
			Kind:      user.VerificationKind(m.VerificationKind),
			Secret:    m.VerificationSecret,
			ExpiresAt: m.VerificationExpiresAt,
		}
	}
	return u
}
