package services

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("password123")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "password123" {
		t.Fatal("hash equals the plain password")
	}
	if !VerifyPassword("password123", hash) {
		t.Fatal("VerifyPassword rejected the correct password")
	}
	if VerifyPassword("wrong-password", hash) {
		t.Fatal("VerifyPassword accepted a wrong password")
	}
}

func TestGenerateJWT(t *testing.T) {
	tokenString, err := GenerateJWT("65f1a0000000000000000001", "doctor")
	if err != nil {
		t.Fatalf("GenerateJWT failed: %v", err)
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil || !token.Valid {
		t.Fatalf("token did not verify: %v", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatal("claims are not MapClaims")
	}
	if claims["user_id"] != "65f1a0000000000000000001" {
		t.Errorf("user_id claim = %v", claims["user_id"])
	}
	if claims["role"] != "doctor" {
		t.Errorf("role claim = %v", claims["role"])
	}
	if _, ok := claims["exp"]; !ok {
		t.Error("exp claim missing")
	}
}

func TestRegisterInputValidation(t *testing.T) {
	cases := []struct {
		name    string
		input   RegisterInput
		wantErr bool
	}{
		{
			"valid patient",
			RegisterInput{Name: "John Doe", Email: "john@example.com", Password: "secret1"},
			false,
		},
		{
			"valid doctor",
			RegisterInput{Name: "Dr. Sarah Wilson", Email: "sarah@example.com", Password: "secret1", Role: "doctor", Specialization: "Cardiology"},
			false,
		},
		{
			"name too short",
			RegisterInput{Name: "J", Email: "j@example.com", Password: "secret1"},
			true,
		},
		{
			"bad email",
			RegisterInput{Name: "John Doe", Email: "not-an-email", Password: "secret1"},
			true,
		},
		{
			"password too short",
			RegisterInput{Name: "John Doe", Email: "john@example.com", Password: "12345"},
			true,
		},
		{
			"admin role rejected",
			RegisterInput{Name: "John Doe", Email: "john@example.com", Password: "secret1", Role: "admin"},
			true,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := validate.Struct(tc.input)
			if tc.wantErr && err == nil {
				t.Fatal("expected a validation error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected validation error: %v", err)
			}
		})
	}
}
