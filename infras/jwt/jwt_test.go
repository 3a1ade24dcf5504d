package jwt_test

import (
	"context"
	"testing"

	"tourdesk/config"
	"tourdesk/infras/jwt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService() jwt.JWT {
	cfg := &config.Config{}
	cfg.App.Name = "tourdesk"
	cfg.JWT.AccessSecret = "access-secret"
	cfg.JWT.RefreshSecret = "refresh-secret"
	cfg.JWT.AccessExpireMin = 15
	cfg.JWT.RefreshExpireMin = 60

	return jwt.New(cfg)
}

func TestGenerateAndValidate(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	pair, err := svc.GenerateTokenPair(ctx, "op-1", "ops@tourdesk.io", "admin")
	require.NoError(t, err)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.Equal(t, int64(15*60), pair.ExpiresIn)

	claims, err := svc.ValidateToken(ctx, pair.AccessToken, jwt.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "op-1", claims.OperatorID)
	assert.Equal(t, "ops@tourdesk.io", claims.Email)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, jwt.AccessToken, claims.Type)

	_, err = svc.ValidateToken(ctx, pair.AccessToken, jwt.RefreshToken)
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)

	_, err = svc.ValidateToken(ctx, "not-a-token", jwt.AccessToken)
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)
}

func TestRefreshTokens(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	pair, err := svc.GenerateTokenPair(ctx, "op-1", "ops@tourdesk.io", "agent")
	require.NoError(t, err)

	refreshed, err := svc.RefreshTokens(ctx, pair.RefreshToken)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(ctx, refreshed.AccessToken, jwt.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "agent", claims.Role)

	_, err = svc.RefreshTokens(ctx, pair.AccessToken)
	assert.Error(t, err)
}

func TestExtractTokenFromHeader(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr error
	}{
		{name: "valid", header: "Bearer abc", want: "abc"},
		{name: "missing", header: "", wantErr: jwt.ErrMissingHeader},
		{name: "wrong scheme", header: "Basic abc", wantErr: jwt.ErrInvalidHeader},
		{name: "empty token", header: "Bearer ", wantErr: jwt.ErrInvalidHeader},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := jwt.ExtractTokenFromHeader(tt.header)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
