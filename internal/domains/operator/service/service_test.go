package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"tourdesk/config"
	"tourdesk/infras/otel/mocks"
	operatorMocks "tourdesk/internal/domains/operator/mocks"
	"tourdesk/internal/domains/operator/model"
	"tourdesk/internal/domains/operator/model/dto"
	"tourdesk/internal/domains/operator/service"
	cacheMocks "tourdesk/shared/cache/mocks"
	"tourdesk/shared/constant"
	gDto "tourdesk/shared/dto"
	"tourdesk/shared/failure"
	gModel "tourdesk/shared/model"
	"tourdesk/shared/timezone"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func stringPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func newService(t *testing.T) (service.Operator, *operatorMocks.MockOperator, *cacheMocks.MockRedisCache) {
	t.Helper()

	ctrl := gomock.NewController(t)

	repo := operatorMocks.NewMockOperator(ctrl)
	cache := cacheMocks.NewMockRedisCache(ctrl)
	cfg := &config.Config{}

	cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return service.New(repo, cfg, cache, mocks.NewOtel()), repo, cache
}

func TestOperatorService_Create(t *testing.T) {
	ctx := context.WithValue(context.Background(), constant.ContextKeyOperatorID, "root")

	tests := []struct {
		name     string
		req      dto.CreateOperatorRequest
		setup    func(repo *operatorMocks.MockOperator)
		wantCode int
	}{
		{
			name: "creates agent by default",
			req:  dto.CreateOperatorRequest{Email: " Agent@Tourdesk.io ", Password: "password123", FullName: "Agent"},
			setup: func(repo *operatorMocks.MockOperator) {
				repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				repo.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, op model.Operator) error {
					assert.Equal(t, "agent@tourdesk.io", op.Email)
					assert.Equal(t, constant.RoleAgent, op.Role)
					assert.Equal(t, "root", op.CreatedBy)
					assert.NotEqual(t, "password123", op.Password)

					return nil
				})
			},
		},
		{
			name: "duplicate email",
			req:  dto.CreateOperatorRequest{Email: "agent@tourdesk.io", Password: "password123", FullName: "Agent"},
			setup: func(repo *operatorMocks.MockOperator) {
				repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
			},
			wantCode: http.StatusConflict,
		},
		{
			name: "insert failure",
			req:  dto.CreateOperatorRequest{Email: "agent@tourdesk.io", Password: "password123", FullName: "Agent"},
			setup: func(repo *operatorMocks.MockOperator) {
				repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(errors.New("db down"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _ := newService(t)
			tt.setup(repo)

			id, err := svc.Create(ctx, tt.req)
			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, id)
		})
	}
}

func TestOperatorService_Get(t *testing.T) {
	now := timezone.Now()
	operator := model.Operator{
		ID:       "op-1",
		Email:    "ops@tourdesk.io",
		FullName: "Ops",
		Role:     constant.RoleAdmin,
		Active:   true,
		Metadata: gModel.NewMetadata("system", now),
	}

	t.Run("cache miss then repository", func(t *testing.T) {
		svc, repo, cache := newService(t)

		cache.EXPECT().Get(gomock.Any(), "operator:get:op-1", gomock.Any()).Return(errors.New("miss"))
		repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(operator, nil)

		res, err := svc.Get(context.Background(), "op-1")
		require.NoError(t, err)
		assert.Equal(t, "ops@tourdesk.io", res.Email)
		assert.Equal(t, constant.RoleAdmin, res.Role)
		assert.Nil(t, res.LastLogin)
	})

	t.Run("not found", func(t *testing.T) {
		svc, repo, cache := newService(t)

		cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
		repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Operator{}, nil)

		_, err := svc.Get(context.Background(), "missing")
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestOperatorService_GetAll(t *testing.T) {
	svc, repo, cache := newService(t)

	params := gDto.QueryParams{Page: 1, Limit: 2}

	cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss")).Times(2)
	repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(3, nil)
	repo.EXPECT().GetAll(gomock.Any(), params, gomock.Any()).Return([]model.Operator{{ID: "a"}, {ID: "b"}}, nil)

	res, err := svc.GetAll(context.Background(), params, gDto.FilterGroup{})
	require.NoError(t, err)
	assert.Len(t, res.Operators, 2)
	assert.Equal(t, 3, res.TotalData)
	assert.Equal(t, 2, res.TotalPage)
}

func TestOperatorService_Update(t *testing.T) {
	ctx := context.WithValue(context.Background(), constant.ContextKeyOperatorID, "op-1")

	tests := []struct {
		name     string
		id       string
		req      dto.UpdateOperatorRequest
		setup    func(repo *operatorMocks.MockOperator)
		wantCode int
	}{
		{
			name:     "empty request",
			id:       "op-2",
			setup:    func(_ *operatorMocks.MockOperator) {},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "cannot demote self",
			id:       "op-1",
			req:      dto.UpdateOperatorRequest{Role: stringPtr(constant.RoleAgent)},
			setup:    func(_ *operatorMocks.MockOperator) {},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "cannot deactivate self",
			id:       "op-1",
			req:      dto.UpdateOperatorRequest{Active: boolPtr(false)},
			setup:    func(_ *operatorMocks.MockOperator) {},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "not found",
			id:   "op-2",
			req:  dto.UpdateOperatorRequest{FullName: stringPtr("New")},
			setup: func(repo *operatorMocks.MockOperator) {
				repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "updates role",
			id:   "op-2",
			req:  dto.UpdateOperatorRequest{Role: stringPtr(constant.RoleAdmin)},
			setup: func(repo *operatorMocks.MockOperator) {
				repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
						assert.Equal(t, stringPtr(constant.RoleAdmin), fields[model.FieldRole])
						assert.Equal(t, "op-1", fields[constant.FieldModifiedBy])

						return nil
					})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _ := newService(t)
			tt.setup(repo)

			err := svc.Update(ctx, tt.req, tt.id)
			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestOperatorService_Delete(t *testing.T) {
	ctx := context.WithValue(context.Background(), constant.ContextKeyOperatorID, "op-1")

	t.Run("self delete rejected", func(t *testing.T) {
		svc, _, _ := newService(t)

		err := svc.Delete(ctx, "op-1")
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("deletes other operator", func(t *testing.T) {
		svc, repo, _ := newService(t)

		repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil)

		assert.NoError(t, svc.Delete(ctx, "op-2"))
	})
}
