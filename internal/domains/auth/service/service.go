package service

import (
	"context"
	"fmt"
	"strings"

	"tourdesk/config"
	"tourdesk/infras/jwt"
	"tourdesk/infras/otel"
	"tourdesk/internal/domains/auth/model/dto"
	operatorModel "tourdesk/internal/domains/operator/model"
	operatorDto "tourdesk/internal/domains/operator/model/dto"
	operatorRepo "tourdesk/internal/domains/operator/repository"
	"tourdesk/shared"
	"tourdesk/shared/constant"
	gDto "tourdesk/shared/dto"
	"tourdesk/shared/failure"
	"tourdesk/shared/password"
	"tourdesk/shared/timezone"

	"github.com/rs/zerolog/log"
)

const msgInvalidCredentials = "invalid email or password"

type Auth interface {
	Login(ctx context.Context, req dto.LoginRequest) (dto.LoginResponse, error)
	RefreshToken(ctx context.Context, req dto.RefreshTokenRequest) (dto.RefreshTokenResponse, error)
	ChangePassword(ctx context.Context, req dto.ChangePasswordRequest, operatorID string) error
	Me(ctx context.Context, operatorID string) (operatorDto.OperatorResponse, error)
}

type serviceImpl struct {
	operatorRepo operatorRepo.Operator
	cfg          *config.Config
	otel         otel.Otel
	jwtService   jwt.JWT
}

func New(operatorRepo operatorRepo.Operator, cfg *config.Config, otel otel.Otel, jwt jwt.JWT) Auth {
	return &serviceImpl{
		operatorRepo: operatorRepo,
		cfg:          cfg,
		otel:         otel,
		jwtService:   jwt,
	}
}

func (s *serviceImpl) Login(ctx context.Context, req dto.LoginRequest) (res dto.LoginResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Login")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	emailFilter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    operatorModel.FieldEmail,
				Operator: gDto.FilterOperatorEq,
				Value:    strings.ToLower(strings.TrimSpace(req.Email)),
				Table:    operatorModel.TableName,
			},
		},
	}

	operator, err := s.operatorRepo.Get(ctx, emailFilter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get operator")

		return res, fmt.Errorf("failed to get operator: %w", err)
	}

	if operator.ID == "" {
		log.Warn().Str("email", req.Email).Msg("login attempt with non-existent email")

		return res, failure.Unauthorized(msgInvalidCredentials) // nolint:wrapcheck
	}

	if err = password.Verify(req.Password, operator.Password); err != nil {
		log.Warn().Str("email", req.Email).Msg("login attempt with wrong password")

		return res, failure.Unauthorized(msgInvalidCredentials) // nolint:wrapcheck
	}

	if !operator.Active {
		return res, failure.Forbidden("operator account is deactivated") // nolint:wrapcheck
	}

	tokenPair, err := s.jwtService.GenerateTokenPair(ctx, operator.ID, operator.Email, operator.Role)
	if err != nil {
		log.Error().Err(err).Msg("failed to generate tokens")

		return res, fmt.Errorf("failed to generate tokens: %w", err)
	}

	now := timezone.Now()
	updatedFields := shared.TransformFields(dto.UpdateLastLoginRequest{LastLogin: now}, operator.ID)

	if password.NeedsRehash(operator.Password) {
		if hashed, hashErr := password.Hash(req.Password); hashErr == nil {
			updatedFields[operatorModel.FieldPassword] = hashed
		}
	}

	filter := shared.FilterByID(operator.ID, operatorModel.FieldID, operatorModel.TableName)
	if err = s.operatorRepo.Update(ctx, updatedFields, filter); err != nil {
		log.Warn().Err(err).Str("operator_id", operator.ID).Msg("failed to update last login")

		return res, fmt.Errorf("failed to update last login: %w", err)
	}

	operator.LastLogin = &now

	res.FromTokenPair(tokenPair)
	res.Operator.FromModel(operator)

	return res, nil
}

func (s *serviceImpl) RefreshToken(ctx context.Context, req dto.RefreshTokenRequest) (res dto.RefreshTokenResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".RefreshToken")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	tokenPair, err := s.jwtService.RefreshTokens(ctx, req.RefreshToken)
	if err != nil {
		log.Warn().Err(err).Msg("failed to refresh tokens")

		return res, failure.Unauthorized("invalid refresh token") // nolint:wrapcheck
	}

	res.FromTokenPair(tokenPair)

	return res, nil
}

func (s *serviceImpl) ChangePassword(ctx context.Context, req dto.ChangePasswordRequest, operatorID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ChangePassword")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	filter := shared.FilterByID(operatorID, operatorModel.FieldID, operatorModel.TableName)

	operator, err := s.operatorRepo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get operator")

		return fmt.Errorf("failed to get operator: %w", err)
	}

	if operator.ID == "" {
		return failure.NotFound("operator not found") // nolint:wrapcheck
	}

	if err = password.Verify(req.CurrentPassword, operator.Password); err != nil {
		return failure.BadRequestFromString("current password is incorrect") // nolint:wrapcheck
	}

	hashedPassword, err := password.Hash(req.NewPassword)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash new password")

		return fmt.Errorf("failed to hash new password: %w", err)
	}

	updatedFields := shared.TransformFields(dto.UpdatePasswordRequest{Password: hashedPassword}, shared.Actor(ctx))

	if err = s.operatorRepo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update password")

		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}

func (s *serviceImpl) Me(ctx context.Context, operatorID string) (res operatorDto.OperatorResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Me")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	operator, err := s.operatorRepo.Get(ctx, shared.FilterByID(operatorID, operatorModel.FieldID, operatorModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get operator")

		return res, fmt.Errorf("failed to get operator: %w", err)
	}

	if operator.ID == "" {
		return res, failure.NotFound("operator not found") // nolint:wrapcheck
	}

	res.FromModel(operator)

	return res, nil
}
