package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var testKey = []byte("cle-partagee-de-test")

func testKeyfunc(t *jwt.Token) (any, error) {
	return testKey, nil
}

func signToken(t *testing.T, claims Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(testKey)
	if err != nil {
		t.Fatalf("signature du jeton de test : %v", err)
	}
	return signed
}

func validClaims() Claims {
	return Claims{
		Role:   "agent_communal",
		Email:  "agent@cotonav.bj",
		Commune: "Cotonou",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "https://api.cotonav.bj/api",
			Subject:   "u-7",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
}

func TestVerifyValidToken(t *testing.T) {
	v := NewVerifierWithKeyfunc(testKeyfunc, "https://api.cotonav.bj/api", testLogger())

	claims, err := v.Verify(signToken(t, validClaims()))
	if err != nil {
		t.Fatalf("Verify : %v", err)
	}
	if claims.Role != "agent_communal" {
		t.Errorf("Role = %q, attendu agent_communal", claims.Role)
	}
	if claims.Subject != "u-7" || claims.Commune != "Cotonou" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	v := NewVerifierWithKeyfunc(testKeyfunc, "https://api.cotonav.bj/api", testLogger())

	claims := validClaims()
	claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

	if _, err := v.Verify(signToken(t, claims)); err == nil {
		t.Fatal("un jeton expiré doit être rejeté")
	}
}

func TestVerifyRequiresExpiration(t *testing.T) {
	v := NewVerifierWithKeyfunc(testKeyfunc, "https://api.cotonav.bj/api", testLogger())

	claims := validClaims()
	claims.ExpiresAt = nil

	if _, err := v.Verify(signToken(t, claims)); err == nil {
		t.Fatal("un jeton sans expiration doit être rejeté")
	}
}

func TestVerifyRejectsWrongIssuer(t *testing.T) {
	v := NewVerifierWithKeyfunc(testKeyfunc, "https://api.cotonav.bj/api", testLogger())

	claims := validClaims()
	claims.Issuer = "https://autre-emetteur.example"

	if _, err := v.Verify(signToken(t, claims)); err == nil {
		t.Fatal("un émetteur inattendu doit être rejeté")
	}
}

func TestVerifyRejectsBadSignature(t *testing.T) {
	v := NewVerifierWithKeyfunc(testKeyfunc, "https://api.cotonav.bj/api", testLogger())

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, validClaims())
	signed, err := token.SignedString([]byte("autre-cle"))
	if err != nil {
		t.Fatalf("signature : %v", err)
	}

	if _, err := v.Verify(signed); err == nil {
		t.Fatal("une signature invalide doit être rejetée")
	}
}

func TestVerifyWithoutIssuerCheck(t *testing.T) {
	// Sans émetteur configuré, seul le reste des contrôles s'applique
	v := NewVerifierWithKeyfunc(testKeyfunc, "", testLogger())

	claims := validClaims()
	claims.Issuer = "https://nimporte.example"

	if _, err := v.Verify(signToken(t, claims)); err != nil {
		t.Fatalf("Verify : %v", err)
	}
}
