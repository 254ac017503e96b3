package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
)

// Claims — revendications des JWT émis par l'API CotoNav. Le rôle du
// jeton fait foi, jamais celui renvoyé dans le corps de la réponse.
type Claims struct {
	Role           string `json:"role"`
	Email          string `json:"email"`
	Nom            string `json:"nom"`
	Prenom         string `json:"prenom"`
	Commune        string `json:"commune"`
	Arrondissement string `json:"arrondissement"`
	jwt.RegisteredClaims
}

// Verifier vérifie la signature des jetons contre le JWKS du backend.
type Verifier struct {
	keyFn  jwt.Keyfunc
	issuer string
	logger *slog.Logger
}

// NewVerifier télécharge le JWKS du backend et construit le
// vérificateur. Le JWKS est rafraîchi en arrière-plan par keyfunc.
func NewVerifier(ctx context.Context, jwksURL, issuer string, logger *slog.Logger) (*Verifier, error) {
	k, err := keyfunc.NewDefaultCtx(ctx, []string{jwksURL})
	if err != nil {
		return nil, fmt.Errorf("chargement du JWKS %s: %w", jwksURL, err)
	}
	return &Verifier{
		keyFn:  k.Keyfunc,
		issuer: issuer,
		logger: logger.With(slog.String("component", "jwt-verifier")),
	}, nil
}

// NewVerifierWithKeyfunc construit un vérificateur avec une jwt.Keyfunc
// fournie (tests).
func NewVerifierWithKeyfunc(keyFn jwt.Keyfunc, issuer string, logger *slog.Logger) *Verifier {
	return &Verifier{
		keyFn:  keyFn,
		issuer: issuer,
		logger: logger.With(slog.String("component", "jwt-verifier")),
	}
}

// Verify contrôle la signature, l'expiration et l'émetteur du jeton,
// puis retourne ses revendications.
func (v *Verifier) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	opts := []jwt.ParserOption{
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, claims, v.keyFn, opts...)
	if err != nil {
		return nil, fmt.Errorf("vérification du jeton: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("jeton invalide")
	}
	return claims, nil
}
