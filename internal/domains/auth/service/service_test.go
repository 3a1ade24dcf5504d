package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"tourdesk/config"
	"tourdesk/infras/jwt"
	jwtMocks "tourdesk/infras/jwt/mocks"
	"tourdesk/infras/otel/mocks"
	"tourdesk/internal/domains/auth/model/dto"
	"tourdesk/internal/domains/auth/service"
	operatorMocks "tourdesk/internal/domains/operator/mocks"
	operatorModel "tourdesk/internal/domains/operator/model"
	"tourdesk/shared/constant"
	gDto "tourdesk/shared/dto"
	"tourdesk/shared/failure"
	gModel "tourdesk/shared/model"
	"tourdesk/shared/timezone"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

// "password" hashed with bcrypt.DefaultCost
const passwordHash = "$2a$10$92IXUNpkjO0rOQ5byMi.Ye4oKoEa3Ro9llC/.og/at2.uheWG/igi"

func validOperator() operatorModel.Operator {
	return operatorModel.Operator{
		ID:       "operator-id-123",
		Email:    "test@example.com",
		Password: passwordHash,
		FullName: "Test Operator",
		Role:     constant.RoleAdmin,
		Active:   true,
		Metadata: gModel.NewMetadata("system", timezone.Now()),
	}
}

func TestAuthService_Login(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockOperatorRepo := operatorMocks.NewMockOperator(ctrl)
	mockJWT := jwtMocks.NewMockJWT(ctrl)
	mockOtel := mocks.NewOtel()

	cfg := &config.Config{}

	svc := service.New(mockOperatorRepo, cfg, mockOtel, mockJWT)

	operator := validOperator()

	tests := []struct {
		name      string
		req       dto.LoginRequest
		setupMock func()
		wantCode  int
	}{
		{
			name: "successful login",
			req: dto.LoginRequest{
				Email:    "Test@Example.com",
				Password: "password",
			},
			setupMock: func() {
				mockOperatorRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(operator, nil)

				mockJWT.EXPECT().
					GenerateTokenPair(gomock.Any(), operator.ID, operator.Email, operator.Role).
					Return(&jwt.TokenPair{
						AccessToken:  "access-token",
						RefreshToken: "refresh-token",
					}, nil)

				mockOperatorRepo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
						assert.Contains(t, fields, operatorModel.FieldLastLogin)
						assert.NotContains(t, fields, operatorModel.FieldPassword)

						return nil
					})
			},
		},
		{
			name: "repository error",
			req: dto.LoginRequest{
				Email:    "test@example.com",
				Password: "password",
			},
			setupMock: func() {
				mockOperatorRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(operatorModel.Operator{}, errors.New("db down"))
			},
			wantCode: http.StatusInternalServerError,
		},
		{
			name: "operator not found",
			req: dto.LoginRequest{
				Email:    "nonexistent@example.com",
				Password: "password",
			},
			setupMock: func() {
				mockOperatorRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(operatorModel.Operator{}, nil)
			},
			wantCode: http.StatusUnauthorized,
		},
		{
			name: "wrong password",
			req: dto.LoginRequest{
				Email:    "test@example.com",
				Password: "wrongpassword",
			},
			setupMock: func() {
				mockOperatorRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(operator, nil)
			},
			wantCode: http.StatusUnauthorized,
		},
		{
			name: "inactive operator",
			req: dto.LoginRequest{
				Email:    "test@example.com",
				Password: "password",
			},
			setupMock: func() {
				inactive := operator
				inactive.Active = false

				mockOperatorRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(inactive, nil)
			},
			wantCode: http.StatusForbidden,
		},
		{
			name: "token generation error",
			req: dto.LoginRequest{
				Email:    "test@example.com",
				Password: "password",
			},
			setupMock: func() {
				mockOperatorRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(operator, nil)

				mockJWT.EXPECT().
					GenerateTokenPair(gomock.Any(), operator.ID, operator.Email, operator.Role).
					Return(nil, errors.New("token generation failed"))
			},
			wantCode: http.StatusInternalServerError,
		},
		{
			name: "update last login error",
			req: dto.LoginRequest{
				Email:    "test@example.com",
				Password: "password",
			},
			setupMock: func() {
				mockOperatorRepo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(operator, nil)

				mockJWT.EXPECT().
					GenerateTokenPair(gomock.Any(), operator.ID, operator.Email, operator.Role).
					Return(&jwt.TokenPair{AccessToken: "access-token", RefreshToken: "refresh-token"}, nil)

				mockOperatorRepo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("update error"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			result, err := svc.Login(context.Background(), tt.req)

			if tt.wantCode != 0 {
				assert.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, "access-token", result.AccessToken)
			assert.Equal(t, "refresh-token", result.RefreshToken)
			assert.Equal(t, operator.ID, result.Operator.ID)
			assert.NotNil(t, result.Operator.LastLogin)
		})
	}
}

func TestAuthService_RefreshToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockOperatorRepo := operatorMocks.NewMockOperator(ctrl)
	mockJWT := jwtMocks.NewMockJWT(ctrl)

	svc := service.New(mockOperatorRepo, &config.Config{}, mocks.NewOtel(), mockJWT)

	tests := []struct {
		name      string
		req       dto.RefreshTokenRequest
		setupMock func()
		wantErr   bool
	}{
		{
			name: "successful token refresh",
			req:  dto.RefreshTokenRequest{RefreshToken: "valid-refresh-token"},
			setupMock: func() {
				mockJWT.EXPECT().
					RefreshTokens(gomock.Any(), "valid-refresh-token").
					Return(&jwt.TokenPair{
						AccessToken:  "new-access-token",
						RefreshToken: "new-refresh-token",
					}, nil)
			},
		},
		{
			name: "invalid refresh token",
			req:  dto.RefreshTokenRequest{RefreshToken: "invalid-refresh-token"},
			setupMock: func() {
				mockJWT.EXPECT().
					RefreshTokens(gomock.Any(), "invalid-refresh-token").
					Return(nil, errors.New("invalid token"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			result, err := svc.RefreshToken(context.Background(), tt.req)

			if tt.wantErr {
				assert.Equal(t, http.StatusUnauthorized, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.NotEmpty(t, result.AccessToken)
			assert.NotEmpty(t, result.RefreshToken)
		})
	}
}

func TestAuthService_ChangePassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockOperatorRepo := operatorMocks.NewMockOperator(ctrl)
	mockJWT := jwtMocks.NewMockJWT(ctrl)

	svc := service.New(mockOperatorRepo, &config.Config{}, mocks.NewOtel(), mockJWT)

	operator := validOperator()

	tests := []struct {
		name       string
		req        dto.ChangePasswordRequest
		operatorID string
		setupMock  func()
		wantCode   int
	}{
		{
			name:       "successful password change",
			req:        dto.ChangePasswordRequest{CurrentPassword: "password", NewPassword: "newpassword123"},
			operatorID: operator.ID,
			setupMock: func() {
				mockOperatorRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(operator, nil)
				mockOperatorRepo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
						assert.NotEqual(t, "newpassword123", fields[operatorModel.FieldPassword])
						assert.Equal(t, operator.ID, fields[constant.FieldModifiedBy])

						return nil
					})
			},
		},
		{
			name:       "repository error",
			req:        dto.ChangePasswordRequest{CurrentPassword: "password", NewPassword: "newpassword123"},
			operatorID: "nonexistent-id",
			setupMock: func() {
				mockOperatorRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(operatorModel.Operator{}, errors.New("db down"))
			},
			wantCode: http.StatusInternalServerError,
		},
		{
			name:       "operator not found",
			req:        dto.ChangePasswordRequest{CurrentPassword: "password", NewPassword: "newpassword123"},
			operatorID: operator.ID,
			setupMock: func() {
				mockOperatorRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(operatorModel.Operator{}, nil)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name:       "wrong current password",
			req:        dto.ChangePasswordRequest{CurrentPassword: "wrongpassword", NewPassword: "newpassword123"},
			operatorID: operator.ID,
			setupMock: func() {
				mockOperatorRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(operator, nil)
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name:       "update password error",
			req:        dto.ChangePasswordRequest{CurrentPassword: "password", NewPassword: "newpassword123"},
			operatorID: operator.ID,
			setupMock: func() {
				mockOperatorRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(operator, nil)
				mockOperatorRepo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("update error"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			ctx := context.WithValue(context.Background(), constant.ContextKeyOperatorID, tt.operatorID)
			err := svc.ChangePassword(ctx, tt.req, tt.operatorID)

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestAuthService_Me(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockOperatorRepo := operatorMocks.NewMockOperator(ctrl)
	svc := service.New(mockOperatorRepo, &config.Config{}, mocks.NewOtel(), jwtMocks.NewMockJWT(ctrl))

	mockOperatorRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(validOperator(), nil)

	res, err := svc.Me(context.Background(), "operator-id-123")
	assert.NoError(t, err)
	assert.Equal(t, "Test Operator", res.FullName)

	mockOperatorRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(operatorModel.Operator{}, nil)

	_, err = svc.Me(context.Background(), "missing")
	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
}
