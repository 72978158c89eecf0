package mongodb

import (
	"estate-brokerage/internal/domain/user"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

func duplicateKey(index string) error {
	return mongo.WriteException{
		WriteErrors: []mongo.WriteError{{
			Code:    11000,
			Message: "E11000 duplicate key error collection: estate.users index: " + index + " dup key",
		}},
	}
}

func TestDuplicateKeyError(t *testing.T) {
	require.True(t, mongo.IsDuplicateKeyError(duplicateKey(emailIndex)))

	assert.ErrorIs(t, duplicateKeyError(duplicateKey(emailIndex)), user.ErrEmailTaken)
	assert.ErrorIs(t, duplicateKeyError(duplicateKey(usernameIndex)), user.ErrUsernameTaken)
}

func TestDocumentMapping(t *testing.T) {
	expires := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	u := &user.User{
		ID:             uuid.New(),
		FullName:       "Alice Example",
		Username:       "alice",
		Email:          "a@x.com",
		PasswordHashed: "hash",
		Role:           user.RoleUser,
		Verification: &user.PendingVerification{
			Kind:      user.VerificationOTP,
			Secret:    "123456",
			ExpiresAt: &expires,
		},
	}

	doc := toUserDocument(u)
	assert.Equal(t, u.ID.String(), doc.ID)
	require.NotNil(t, doc.Verification)
	assert.Equal(t, "otp", doc.Verification.Kind)

	raw, err := bson.Marshal(doc)
	require.NoError(t, err)

	var fields bson.M
	require.NoError(t, bson.Unmarshal(raw, &fields))
	assert.Equal(t, "hash", fields["password"])
	assert.NotContains(t, fields, "refreshToken")
	assert.NotContains(t, fields, "resetPasswordToken")

	back := toUserEntity(doc)
	assert.Equal(t, u.ID, back.ID)
	assert.Equal(t, u.Verification, back.Verification)
}

func TestWithUpdatedAt(t *testing.T) {
	update := withUpdatedAt(bson.M{"$unset": bson.M{"refreshToken": ""}})

	set, ok := update["$set"].(bson.M)
	require.True(t, ok)
	assert.Contains(t, set, "updatedAt")
	assert.Contains(t, update, "$unset")
}

func TestOTPQuery(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	filter, update := otpQuery("a@x.com", "123456", now)

	assert.Equal(t, false, filter["isVerified"])
	assert.Equal(t, "otp", filter["verification.kind"])
	assert.Equal(t, "123456", filter["verification.secret"])
	assert.Equal(t, bson.M{"$gt": now}, filter["verification.expiresAt"])

	assert.Equal(t, bson.M{"isVerified": true}, update["$set"])
	assert.Equal(t, bson.M{"verification": ""}, update["$unset"])
}

func TestVerificationTokenQuery(t *testing.T) {
	filter, update := verificationTokenQuery("digest")

	assert.Equal(t, "email_token", filter["verification.kind"])
	assert.Equal(t, "digest", filter["verification.secret"])
	assert.Equal(t, false, filter["isVerified"])
	assert.NotContains(t, filter, "verification.expiresAt")
	assert.Equal(t, verifiedUpdate(), update)
}

func TestFederatedClaimQuery(t *testing.T) {
	id := uuid.New()
	filter, update := federatedClaimQuery(id, "fresh-hash")

	assert.Equal(t, bson.M{"_id": id.String(), "isVerified": false}, filter)

	set, ok := update["$set"].(bson.M)
	require.True(t, ok)
	assert.Equal(t, true, set["isVerified"])
	assert.Equal(t, "fresh-hash", set["password"])

	unset, ok := update["$unset"].(bson.M)
	require.True(t, ok)
	for _, field := range []string{"verification", "refreshToken", "resetPasswordToken", "resetPasswordExpires"} {
		assert.Contains(t, unset, field)
	}
}

func TestRefreshSwapQuery(t *testing.T) {
	guard, update := refreshSwapQuery("old", "new")

	assert.Equal(t, bson.M{"refreshToken": "old"}, guard)
	assert.Equal(t, bson.M{"$set": bson.M{"refreshToken": "new"}}, update)
}

func TestResetPasswordQuery(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	filter, update := resetPasswordQuery("a@x.com", "654321", now, "new-hash")

	assert.Equal(t, "a@x.com", filter["email"])
	assert.Equal(t, "654321", filter["resetPasswordToken"])
	assert.Equal(t, bson.M{"$gt": now}, filter["resetPasswordExpires"])

	assert.Equal(t, bson.M{"password": "new-hash"}, update["$set"])
	unset, ok := update["$unset"].(bson.M)
	require.True(t, ok)
	assert.Contains(t, unset, "refreshToken")
	assert.Contains(t, unset, "resetPasswordToken")
	assert.Contains(t, unset, "resetPasswordExpires")
}
