// README: Bearer token verification; Firebase Admin SDK in production, a single static token for local runs.
package infra

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

var ErrInvalidToken = errors.New("invalid token")

// VerifiedToken is what the auth middleware needs from a verified bearer token.
type VerifiedToken struct {
	UID    string
	Claims map[string]interface{}
}

type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*VerifiedToken, error)
}

type firebaseVerifier struct {
	client *auth.Client
}

// NewFirebaseVerifier builds a verifier from the Admin SDK. An empty credentialsFile
// falls back to application-default credentials.
func NewFirebaseVerifier(ctx context.Context, projectID, credentialsFile string) (TokenVerifier, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase.NewApp: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase app.Auth: %w", err)
	}
	return &firebaseVerifier{client: client}, nil
}

func (v *firebaseVerifier) VerifyIDToken(ctx context.Context, idToken string) (*VerifiedToken, error) {
	token, err := v.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, err
	}
	return &VerifiedToken{UID: token.UID, Claims: token.Claims}, nil
}

type staticVerifier struct {
	token []byte
	uid   string
}

// NewStaticVerifier accepts exactly token and reports it as uid.
func NewStaticVerifier(token, uid string) TokenVerifier {
	return &staticVerifier{token: []byte(token), uid: uid}
}

func (v *staticVerifier) VerifyIDToken(_ context.Context, idToken string) (*VerifiedToken, error) {
	if subtle.ConstantTimeCompare([]byte(idToken), v.token) != 1 {
		return nil, ErrInvalidToken
	}
	return &VerifiedToken{UID: v.uid, Claims: map[string]interface{}{}}, nil
}
