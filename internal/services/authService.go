package services

import (
	"context"
	"errors"
	"time"

	"github.com/arzan03/MediBook/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(hash), err
}

// VerifyPassword compares a plain password with a hashed password
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// GenerateJWT generates a JWT token with user ID and role
func GenerateJWT(userID string, role string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"exp":     time.Now().Add(jwtTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

// RegisterInput is the registration payload. Role defaults to patient;
// admin accounts cannot be created through this flow.
type RegisterInput struct {
	Name            string  `json:"name" validate:"required,min=2,max=50"`
	Email           string  `json:"email" validate:"required,email"`
	Password        string  `json:"password" validate:"required,min=6"`
	Role            string  `json:"role" validate:"omitempty,oneof=patient doctor"`
	Phone           string  `json:"phone" validate:"omitempty,max=20"`
	Specialization  string  `json:"specialization" validate:"omitempty,max=100"`
	ConsultationFee float64 `json:"consultationFee" validate:"omitempty,gte=0"`
}

// RegisterUser registers a new user with role validation
func RegisterUser(ctx context.Context, input RegisterInput) (models.User, error) {
	if err := validate.Struct(input); err != nil {
		return models.User{}, err
	}
	if input.Role == "" {
		input.Role = models.RolePatient
	}
	if !models.IsValidRole(input.Role) {
		return models.User{}, errors.New("role must be either patient or doctor")
	}

	// Check if user already exists
	var existingUser models.User
	err := userCollection.FindOne(ctx, bson.M{"email": input.Email}).Decode(&existingUser)
	if err == nil {
		return models.User{}, errors.New("email already in use")
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, err
	}

	hashedPassword, err := HashPassword(input.Password)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		ID:        primitive.NewObjectID(),
		Name:      input.Name,
		Email:     input.Email,
		Password:  hashedPassword,
		Role:      input.Role,
		IsActive:  true,
		Phone:     input.Phone,
		CreatedAt: time.Now(),
	}
	if input.Role == models.RoleDoctor {
		user.Specialization = input.Specialization
		user.ConsultationFee = input.ConsultationFee
	}

	_, err = userCollection.InsertOne(ctx, user)
	user.Password = ""
	return user, err
}

// LoginUser authenticates a user and returns a JWT with role info
func LoginUser(ctx context.Context, email, password string) (string, models.User, error) {
	var user models.User
	err := userCollection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		return "", models.User{}, ErrInvalidCredentials
	}

	if !VerifyPassword(password, user.Password) {
		return "", models.User{}, ErrInvalidCredentials
	}
	if !user.IsActive {
		return "", models.User{}, errors.New("account is deactivated")
	}

	token, err := GenerateJWT(user.ID.Hex(), user.Role)
	if err != nil {
		return "", models.User{}, err
	}

	user.Password = ""
	return token, user, nil
}

// GetUserByID fetches a single user with the password stripped.
func GetUserByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	var user models.User
	opts := options.FindOne().SetProjection(bson.M{"password": 0, "resetPasswordToken": 0, "resetPasswordExpires": 0})
	err := userCollection.FindOne(ctx, bson.M{"_id": id}, opts).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, ErrNotFound
	}
	return user, err
}

// ProfileInput is the update-profile payload; empty fields are left untouched.
type ProfileInput struct {
	Name            string  `json:"name" validate:"omitempty,min=2,max=50"`
	Phone           string  `json:"phone" validate:"omitempty,max=20"`
	Specialization  string  `json:"specialization" validate:"omitempty,max=100"`
	ConsultationFee float64 `json:"consultationFee" validate:"omitempty,gte=0"`
}

// UpdateProfile applies the allowed profile fields for the user's role.
func UpdateProfile(ctx context.Context, userID primitive.ObjectID, input ProfileInput) (models.User, error) {
	if err := validate.Struct(input); err != nil {
		return models.User{}, err
	}

	user, err := GetUserByID(ctx, userID)
	if err != nil {
		return models.User{}, err
	}

	set := bson.M{}
	if input.Name != "" {
		set["name"] = input.Name
	}
	if input.Phone != "" {
		set["phone"] = input.Phone
	}
	if user.Role == models.RoleDoctor {
		if input.Specialization != "" {
			set["specialization"] = input.Specialization
		}
		if input.ConsultationFee > 0 {
			set["consultationFee"] = input.ConsultationFee
		}
	}
	if len(set) == 0 {
		return user, nil
	}

	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(bson.M{"password": 0, "resetPasswordToken": 0, "resetPasswordExpires": 0})
	err = userCollection.FindOneAndUpdate(ctx, bson.M{"_id": userID}, bson.M{"$set": set}, opts).Decode(&user)
	return user, err
}

// UpdatePassword rotates a password after verifying the current one.
func UpdatePassword(ctx context.Context, userID primitive.ObjectID, currentPassword, newPassword string) error {
	if len(newPassword) < 6 {
		return errors.New("new password must be at least 6 characters long")
	}

	var user models.User
	if err := userCollection.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return err
	}
	if !VerifyPassword(currentPassword, user.Password) {
		return errors.New("current password is incorrect")
	}

	hashed, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	_, err = userCollection.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$set": bson.M{"password": hashed}})
	return err
}

// ForgotPassword issues a short-lived reset token for the given email.
// The token is returned to the caller for delivery; the same generic
// outcome is reported whether or not the email exists.
func ForgotPassword(ctx context.Context, email string) (string, error) {
	var user models.User
	err := userCollection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}

	token := uuid.NewString()
	_, err = userCollection.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{"$set": bson.M{
		"resetPasswordToken":   token,
		"resetPasswordExpires": time.Now().Add(15 * time.Minute),
	}})
	return token, err
}

// ResetPassword consumes a reset token and sets the new password.
func ResetPassword(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < 6 {
		return errors.New("password must be at least 6 characters long")
	}

	hashed, err := HashPassword(newPassword)
	if err != nil {
		return err
	}

	res, err := userCollection.UpdateOne(ctx,
		bson.M{
			"resetPasswordToken":   token,
			"resetPasswordExpires": bson.M{"$gt": time.Now()},
		},
		bson.M{
			"$set":   bson.M{"password": hashed},
			"$unset": bson.M{"resetPasswordToken": "", "resetPasswordExpires": ""},
		})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errors.New("invalid or expired reset token")
	}
	return nil
}
