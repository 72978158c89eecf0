package mongodb

import (
	"context"
	"errors"
	"estate-brokerage/internal/domain/user"
	"estate-brokerage/internal/infrastructure/database/mongodb/models"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// UserRepository implements user.Repository on a MongoDB collection
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

	if _, err := r.db.users().InsertOne(ctx, toUserDocument(u)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return duplicateKeyError(err)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// duplicateKeyError names the unique index the insert violated.
func duplicateKeyError(err error) error {
	if strings.Contains(err.Error(), usernameIndex) {
		return user.ErrUsernameTaken
	}
	return user.ErrEmailTaken
}

func (r *UserRepository) Delete(ctx context.Context, userID uuid.UUID) error {
	result, err := r.db.users().DeleteOne(ctx, bson.M{"_id": userID.String()})
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if result.DeletedCount == 0 {
		return user.ErrUserNotFound
	}

	return nil
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*user.User, error) {
	var doc models.UserDocument
	err := r.db.users().FindOne(ctx, filter).Decode(&doc)

	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, user.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return toUserEntity(&doc), nil
}

func (r *UserRepository) GetByID(ctx context.Context, userID uuid.UUID) (*user.User, error) {
	return r.findOne(ctx, bson.M{"_id": userID.String()})
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) GetByIdentifier(ctx context.Context, identifier string) (*user.User, error) {
	return r.findOne(ctx, bson.M{"$or": bson.A{
		bson.M{"email": strings.ToLower(identifier)},
		bson.M{"username": identifier},
	}})
}

func (r *UserRepository) FindByEmailOrUsername(ctx context.Context, email, username string) (*user.User, error) {
	return r.findOne(ctx, bson.M{"$or": bson.A{
		bson.M{"email": email},
		bson.M{"username": username},
	}})
}

func (r *UserRepository) GetByRefreshTokenHash(ctx context.Context, hash string) (*user.User, error) {
	if hash == "" {
		return nil, user.ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"refreshToken": hash})
}

func (r *UserRepository) GetAll(ctx context.Context) ([]*user.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.db.users().Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}

	var docs []models.UserDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}

	users := make([]*user.User, len(docs))
	for i := range docs {
		users[i] = toUserEntity(&docs[i])
	}

	return users, nil
}

// updateByID applies update to the identity when guard also matches.
// It reports ErrUserNotFound for an unknown id and ErrNoMatch for a failed guard.
func (r *UserRepository) updateByID(ctx context.Context, userID uuid.UUID, guard bson.M, update bson.M) error {
	filter := bson.M{"_id": userID.String()}
	for k, v := range guard {
		filter[k] = v
	}

	result, err := r.db.users().UpdateOne(ctx, filter, withUpdatedAt(update))
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if result.MatchedCount > 0 {
		return nil
	}

	if len(guard) == 0 {
		return user.ErrUserNotFound
	}
	if _, err := r.GetByID(ctx, userID); err != nil {
		return err
	}
	return user.ErrNoMatch
}

// findAndUpdate atomically applies update to the document matching filter
// and returns it after the update.
func (r *UserRepository) findAndUpdate(ctx context.Context, filter, update bson.M) (*user.User, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc models.UserDocument
	err := r.db.users().FindOneAndUpdate(ctx, filter, withUpdatedAt(update), opts).Decode(&doc)

	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, user.ErrNoMatch
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return toUserEntity(&doc), nil
}

func withUpdatedAt(update bson.M) bson.M {
	set, _ := update["$set"].(bson.M)
	if set == nil {
		set = bson.M{}
	}
	set["updatedAt"] = time.Now()
	update["$set"] = set
	return update
}

func (r *UserRepository) SetVerification(ctx context.Context, userID uuid.UUID, pending *user.PendingVerification) error {
	return r.updateByID(ctx, userID,
		bson.M{"isVerified": false},
		bson.M{"$set": bson.M{"verification": toVerificationDocument(pending)}},
	)
}

// verifiedUpdate promotes a pending identity and drops its verification artifact.
func verifiedUpdate() bson.M {
	return bson.M{
		"$set":   bson.M{"isVerified": true},
		"$unset": bson.M{"verification": ""},
	}
}

// otpQuery matches a pending identity whose live OTP equals code at now.
func otpQuery(email, code string, now time.Time) (bson.M, bson.M) {
	filter := bson.M{
		"email":                  email,
		"isVerified":             false,
		"verification.kind":      string(user.VerificationOTP),
		"verification.secret":    code,
		"verification.expiresAt": bson.M{"$gt": now},
	}
	return filter, verifiedUpdate()
}

func (r *UserRepository) ConsumeOTP(ctx context.Context, email, code string, now time.Time) (*user.User, error) {
	filter, update := otpQuery(email, code, now)
	return r.findAndUpdate(ctx, filter, update)
}

func verificationTokenQuery(tokenHash string) (bson.M, bson.M) {
	filter := bson.M{
		"isVerified":          false,
		"verification.kind":   string(user.VerificationEmailToken),
		"verification.secret": tokenHash,
	}
	return filter, verifiedUpdate()
}

func (r *UserRepository) ConsumeVerificationToken(ctx context.Context, tokenHash string) (*user.User, error) {
	filter, update := verificationTokenQuery(tokenHash)
	return r.findAndUpdate(ctx, filter, update)
}

// federatedClaimQuery verifies a pending identity and replaces every credential
// that was set before the provider proved ownership of the mailbox.
func federatedClaimQuery(userID uuid.UUID, passwordHash string) (bson.M, bson.M) {
	filter := bson.M{
		"_id":        userID.String(),
		"isVerified": false,
	}
	update := bson.M{
		"$set": bson.M{
			"isVerified": true,
			"password":   passwordHash,
		},
		"$unset": bson.M{
			"verification":         "",
			"refreshToken":         "",
			"resetPasswordToken":   "",
			"resetPasswordExpires": "",
		},
	}
	return filter, update
}

func (r *UserRepository) ClaimFederated(ctx context.Context, userID uuid.UUID, passwordHash string) (*user.User, error) {
	filter, update := federatedClaimQuery(userID, passwordHash)
	return r.findAndUpdate(ctx, filter, update)
}

func (r *UserRepository) SetRefreshToken(ctx context.Context, userID uuid.UUID, hash string) error {
	return r.updateByID(ctx, userID, nil, bson.M{"$set": bson.M{"refreshToken": hash}})
}

// refreshSwapQuery replaces the stored refresh token only while it still equals oldHash.
func refreshSwapQuery(oldHash, newHash string) (bson.M, bson.M) {
	return bson.M{"refreshToken": oldHash}, bson.M{"$set": bson.M{"refreshToken": newHash}}
}

func (r *UserRepository) SwapRefreshToken(ctx context.Context, userID uuid.UUID, oldHash, newHash string) error {
	guard, update := refreshSwapQuery(oldHash, newHash)
	return r.updateByID(ctx, userID, guard, update)
}

func (r *UserRepository) ClearRefreshToken(ctx context.Context, userID uuid.UUID, hash string) error {
	return r.updateByID(ctx, userID,
		bson.M{"refreshToken": hash},
		bson.M{"$unset": bson.M{"refreshToken": ""}},
	)
}

func (r *UserRepository) SetResetCode(ctx context.Context, userID uuid.UUID, code string, expiresAt time.Time) error {
	return r.updateByID(ctx, userID, nil, bson.M{"$set": bson.M{
		"resetPasswordToken":   code,
		"resetPasswordExpires": expiresAt,
	}})
}

// resetPasswordQuery consumes a live reset code and revokes the session with it.
func resetPasswordQuery(email, code string, now time.Time, passwordHash string) (bson.M, bson.M) {
	filter := bson.M{
		"email":                email,
		"resetPasswordToken":   code,
		"resetPasswordExpires": bson.M{"$gt": now},
	}
	update := bson.M{
		"$set": bson.M{"password": passwordHash},
		"$unset": bson.M{
			"resetPasswordToken":   "",
			"resetPasswordExpires": "",
			"refreshToken":         "",
		},
	}
	return filter, update
}

func (r *UserRepository) ResetPassword(ctx context.Context, email, code string, now time.Time, passwordHash string) (*user.User, error) {
	filter, update := resetPasswordQuery(email, code, now, passwordHash)
	return r.findAndUpdate(ctx, filter, update)
}

func (r *UserRepository) ClearExpiredCodes(ctx context.Context, now time.Time) (int64, error) {
	otps, err := r.db.users().UpdateMany(ctx,
		bson.M{"verification.expiresAt": bson.M{"$lte": now}},
		bson.M{"$unset": bson.M{"verification": ""}},
	)
	if err != nil {
		return 0, fmt.Errorf("failed to clear expired otps: %w", err)
	}

	resets, err := r.db.users().UpdateMany(ctx,
		bson.M{"resetPasswordExpires": bson.M{"$lte": now}},
		bson.M{"$unset": bson.M{"resetPasswordToken": "", "resetPasswordExpires": ""}},
	)
	if err != nil {
		return otps.ModifiedCount, fmt.Errorf("failed to clear expired reset codes: %w", err)
	}

	return otps.ModifiedCount + resets.ModifiedCount, nil
}

func (r *UserRepository) Ping(ctx context.Context) error {
	return r.db.Health(ctx)
}

func toUserDocument(u *user.User) *models.UserDocument {
	return &models.UserDocument{
		ID:               u.ID.String(),
		FullName:         u.FullName,
		Username:         u.Username,
		Email:            u.Email,
		PhoneNumber:      u.PhoneNumber,
		Nationality:      u.Nationality,
		Password:         u.PasswordHashed,
		ProfilePicture:   u.ProfilePicture,
		Role:             u.Role,
		IsVerified:       u.IsVerified,
		Verification:     toVerificationDocument(u.Verification),
		ResetCode:        u.ResetCode,
		ResetExpiresAt:   u.ResetExpiresAt,
		RefreshTokenHash: u.RefreshTokenHash,
		CreatedAt:        u.CreatedAt,
		UpdatedAt:        u.UpdatedAt,
	}
}

func toVerificationDocument(v *user.PendingVerification) *models.VerificationDocument {
	if v == nil {
		return nil
	}
	return &models.VerificationDocument{
		Kind:      string(v.Kind),
		Secret:    v.Secret,
		ExpiresAt: v.ExpiresAt,
	}
}

func toUserEntity(doc *models.UserDocument) *user.User {
	id, _ := uuid.Parse(doc.ID)

	u := &user.User{
		ID:               id,
		FullName:         doc.FullName,
		Username:         doc.Username,
		Email:            doc.Email,
		PhoneNumber:      doc.PhoneNumber,
		Nationality:      doc.Nationality,
		PasswordHashed:   doc.Password,
		ProfilePicture:   doc.ProfilePicture,
		Role:             doc.Role,
		IsVerified:       doc.IsVerified,
		ResetCode:        doc.ResetCode,
		ResetExpiresAt:   doc.ResetExpiresAt,
		RefreshTokenHash: doc.RefreshTokenHash,
		CreatedAt:        doc.CreatedAt,
		UpdatedAt:        doc.UpdatedAt,
	}
	if doc.Verification != nil {
		u.Verification = &user.PendingVerification{
			Kind:      user.VerificationKind(doc.Verification.Kind),
			Secret:    doc.Verification.Secret,
			ExpiresAt: doc.Verification.ExpiresAt,
		}
	}

	return u
}
