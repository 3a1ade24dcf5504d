package service_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"tourdesk/config"
	kafkaMocks "tourdesk/infras/kafka/mocks"
	metricsMocks "tourdesk/infras/metrics/mocks"
	"tourdesk/infras/otel/mocks"
	periodMocks "tourdesk/internal/domains/period/mocks"
	"tourdesk/internal/domains/period/model"
	"tourdesk/internal/domains/period/model/dto"
	"tourdesk/internal/domains/period/service"
	tourMocks "tourdesk/internal/domains/tour/mocks"
	tourModel "tourdesk/internal/domains/tour/model"
	"tourdesk/internal/pricing"
	cacheMocks "tourdesk/shared/cache/mocks"
	"tourdesk/shared/constant"
	gDto "tourdesk/shared/dto"
	"tourdesk/shared/failure"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/mock/gomock"
)

const periodEvents = "period.events"

type fixture struct {
	svc   service.Period
	repo  *periodMocks.MockPeriod
	offer *periodMocks.MockOffer
	tour  *tourMocks.MockTour
	cache *cacheMocks.MockRedisCache
	kafka *kafkaMocks.MockClient
}

func newFixture(t *testing.T, configure ...func(cfg *config.Config)) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := fixture{
		repo:  periodMocks.NewMockPeriod(ctrl),
		offer: periodMocks.NewMockOffer(ctrl),
		tour:  tourMocks.NewMockTour(ctrl),
		cache: cacheMocks.NewMockRedisCache(ctrl),
		kafka: kafkaMocks.NewMockClient(ctrl),
	}

	cfg := &config.Config{}
	cfg.Kafka.Topics.PeriodEvents = periodEvents

	for _, fn := range configure {
		fn(cfg)
	}

	f.cache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	f.cache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	f.svc = service.New(f.repo, f.offer, f.tour, cfg, f.cache, mocks.NewOtel(), f.kafka, metricsMocks.NewMetrics())

	return f
}

func strict(cfg *config.Config) {
	cfg.Pricing.StrictMode = true
}

func runTx(repo *periodMocks.MockPeriod) {
	repo.EXPECT().Transaction(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, fn func(*sqlx.Tx) error) error {
		return fn(nil)
	})
}

func ptr[T any](v T) *T { return &v }

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func TestPeriodService_Create(t *testing.T) {
	ctx := context.WithValue(context.Background(), constant.ContextKeyOperatorID, "op-1")
	tour := tourModel.Tour{ID: "9b6f6f6e-6a59-4a4c-9a39-1c4a3c2b8f10", Code: "JPN7", DurationDays: 7}

	t.Run("derives end date from tour duration", func(t *testing.T) {
		f := newFixture(t)

		f.tour.EXPECT().Get(gomock.Any(), gomock.Any()).Return(tour, nil)
		f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, period model.Period) error {
			assert.Equal(t, "2026-03-01", period.StartDate.Format(time.DateOnly))
			assert.Equal(t, "2026-03-07", period.EndDate.Format(time.DateOnly))
			assert.Equal(t, model.SaleStatusAvailable, period.SaleStatus)
			assert.True(t, period.IsVisible)
			assert.Zero(t, period.Booked)

			return nil
		})

		id, err := f.svc.Create(ctx, dto.CreatePeriodRequest{TourID: tour.ID, StartDate: "2026-03-01", Capacity: 30})
		require.NoError(t, err)
		assert.NotEmpty(t, id)
	})

	t.Run("unknown tour", func(t *testing.T) {
		f := newFixture(t)

		f.tour.EXPECT().Get(gomock.Any(), gomock.Any()).Return(tourModel.Tour{}, nil)

		_, err := f.svc.Create(ctx, dto.CreatePeriodRequest{TourID: tour.ID, StartDate: "2026-03-01", Capacity: 30})
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("end before start", func(t *testing.T) {
		f := newFixture(t)

		f.tour.EXPECT().Get(gomock.Any(), gomock.Any()).Return(tour, nil)

		_, err := f.svc.Create(ctx, dto.CreatePeriodRequest{TourID: tour.ID, StartDate: "2026-03-10", EndDate: "2026-03-01", Capacity: 30})
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("duplicate start date", func(t *testing.T) {
		f := newFixture(t)

		f.tour.EXPECT().Get(gomock.Any(), gomock.Any()).Return(tour, nil)
		f.repo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(&pq.Error{Code: constant.PqErrorCodeUniqueViolation})

		_, err := f.svc.Create(ctx, dto.CreatePeriodRequest{TourID: tour.ID, StartDate: "2026-03-01", Capacity: 30})
		assert.Equal(t, http.StatusConflict, failure.GetCode(err))
	})
}

func TestPeriodService_Get(t *testing.T) {
	period := model.Period{ID: "p1", Capacity: 20, Booked: 5, StartDate: date(2026, time.May, 1), EndDate: date(2026, time.May, 7)}

	t.Run("with offer", func(t *testing.T) {
		f := newFixture(t)

		f.cache.EXPECT().Get(gomock.Any(), "period:get:p1", gomock.Any()).Return(errors.New("miss"))
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(period, nil)
		f.offer.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Offer{PeriodID: "p1", PriceAdult: ptr(10000.0)}, nil)

		res, err := f.svc.Get(context.Background(), "p1")
		require.NoError(t, err)
		assert.Equal(t, 15, res.Available)
		require.NotNil(t, res.Offer)
		assert.InDelta(t, 10000.0, *res.Offer.PriceAdult, 0)
	})

	t.Run("without offer", func(t *testing.T) {
		f := newFixture(t)

		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(period, nil)
		f.offer.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Offer{}, nil)

		res, err := f.svc.Get(context.Background(), "p1")
		require.NoError(t, err)
		assert.Nil(t, res.Offer)
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture(t)

		f.cache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
		f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Period{}, nil)

		_, err := f.svc.Get(context.Background(), "p1")
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestPeriodService_Update(t *testing.T) {
	current := model.Period{ID: "p1", Capacity: 20, Booked: 12, StartDate: date(2026, time.May, 1), EndDate: date(2026, time.May, 7)}

	tests := []struct {
		name      string
		req       dto.UpdatePeriodRequest
		update    bool
		updateErr error
		wantCode  int
	}{
		{name: "empty request", req: dto.UpdatePeriodRequest{}, wantCode: http.StatusBadRequest},
		{name: "end date edited independently", req: dto.UpdatePeriodRequest{EndDate: "2026-05-09"}, update: true},
		{name: "end before stored start", req: dto.UpdatePeriodRequest{EndDate: "2026-04-20"}, wantCode: http.StatusBadRequest},
		{name: "capacity below booked", req: dto.UpdatePeriodRequest{Capacity: ptr(10)}, wantCode: http.StatusBadRequest},
		{name: "capacity equal to booked", req: dto.UpdatePeriodRequest{Capacity: ptr(12)}, update: true},
		{
			name:      "booking raced the capacity cut",
			req:       dto.UpdatePeriodRequest{Capacity: ptr(13)},
			update:    true,
			updateErr: &pq.Error{Code: constant.PqErrorCodeCheckViolation},
			wantCode:  http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			if !tt.req.IsEmpty() {
				f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(current, nil)
			}

			if tt.update {
				f.repo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(tt.updateErr)
			}

			err := f.svc.Update(context.Background(), tt.req, "p1")
			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
		})
	}
}

func TestPeriodService_Delete(t *testing.T) {
	t.Run("has bookings", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		f.repo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(&pq.Error{Code: constant.PqErrorCodeFkViolation})

		assert.Equal(t, http.StatusConflict, failure.GetCode(f.svc.Delete(context.Background(), "p1")))
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)

		assert.Equal(t, http.StatusNotFound, failure.GetCode(f.svc.Delete(context.Background(), "p1")))
	})
}

func TestPeriodService_UpsertOffer(t *testing.T) {
	t.Run("parses strings and clears blanks", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		f.offer.EXPECT().Upsert(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, offer model.Offer) error {
			assert.Equal(t, "p1", offer.PeriodID)
			require.NotNil(t, offer.PriceAdult)
			assert.InDelta(t, 10000.0, *offer.PriceAdult, 0)
			assert.Nil(t, offer.PriceSingle)
			assert.Nil(t, offer.DiscountAdult)
			require.NotNil(t, offer.PromoQuota)
			assert.Equal(t, 10, *offer.PromoQuota)
			assert.Equal(t, 3, offer.PromoUsed)

			return nil
		})
		f.kafka.EXPECT().SendMessages(gomock.Any(), periodEvents, gomock.Any()).Return(nil)

		err := f.svc.UpsertOffer(context.Background(), dto.UpsertOfferRequest{
			PriceAdult:    "10000",
			PriceSingle:   "",
			DiscountAdult: " ",
			PromoQuota:    "10",
			PromoUsed:     "3",
		}, "p1")
		require.NoError(t, err)
	})

	t.Run("promo used over quota", func(t *testing.T) {
		f := newFixture(t)

		err := f.svc.UpsertOffer(context.Background(), dto.UpsertOfferRequest{PromoQuota: "2", PromoUsed: "3"}, "p1")
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("strict mode rejects discount over price", func(t *testing.T) {
		f := newFixture(t, strict)

		err := f.svc.UpsertOffer(context.Background(), dto.UpsertOfferRequest{PriceAdult: "1000", DiscountAdult: "1500"}, "p1")
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("lenient mode accepts discount over price", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
		f.offer.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(nil)
		f.kafka.EXPECT().SendMessages(gomock.Any(), periodEvents, gomock.Any()).Return(errors.New("broker down"))

		err := f.svc.UpsertOffer(context.Background(), dto.UpsertOfferRequest{PriceAdult: "1000", DiscountAdult: "1500"}, "p1")
		require.NoError(t, err)
	})

	t.Run("unknown period", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)

		err := f.svc.UpsertOffer(context.Background(), dto.UpsertOfferRequest{PriceAdult: "1000"}, "p1")
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestPeriodService_Quote(t *testing.T) {
	offer := model.Offer{PeriodID: "p1", PriceAdult: ptr(10000.0), PriceSingle: ptr(3000.0)}

	t.Run("scenario A: within allocation", func(t *testing.T) {
		f := newFixture(t)

		f.offer.EXPECT().Get(gomock.Any(), gomock.Any()).Return(offer, nil)

		res, err := f.svc.Quote(context.Background(), dto.QuoteRequest{QtyAdult: 2, QtyAdultSingle: 1, QtyTwin: 1}, "p1")
		require.NoError(t, err)
		assert.InDelta(t, 33000.0, res.TotalAmount, 0)
		assert.Equal(t, 3, res.TotalPassengers)
		assert.Equal(t, 2, res.TotalRooms)
		assert.False(t, res.IsRoomOverAllocated)
		assert.Empty(t, res.Message)
	})

	t.Run("scenario B: over allocation is reported", func(t *testing.T) {
		f := newFixture(t)

		f.offer.EXPECT().Get(gomock.Any(), gomock.Any()).Return(offer, nil)

		res, err := f.svc.Quote(context.Background(), dto.QuoteRequest{QtyAdult: 2, QtyAdultSingle: 1, QtyTwin: 2, QtyDouble: 1}, "p1")
		require.NoError(t, err)
		assert.True(t, res.IsRoomOverAllocated)
		assert.Equal(t, 1, res.Overage)
		assert.Contains(t, res.Message, "by 1")
	})

	t.Run("draft offer", func(t *testing.T) {
		f := newFixture(t)

		res, err := f.svc.Quote(context.Background(), dto.QuoteRequest{
			QtyChildBed: 2,
			QtyAdult:    1,
			Offer:       &dto.UpsertOfferRequest{PriceAdult: "10000", NetPriceAdult: "9500", PriceChildBed: "8000", DiscountChildBed: "500"},
		}, "p1")
		require.NoError(t, err)
		assert.Equal(t, pricing.Prices{Adult: 9500, ChildBed: 7500}, res.Prices)
		assert.InDelta(t, 24500.0, res.TotalAmount, 0)
	})

	t.Run("strict mode missing adult price", func(t *testing.T) {
		f := newFixture(t, strict)

		f.offer.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Offer{PeriodID: "p1"}, nil)

		_, err := f.svc.Quote(context.Background(), dto.QuoteRequest{QtyAdult: 1}, "p1")
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("no stored offer", func(t *testing.T) {
		f := newFixture(t)

		f.offer.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Offer{}, nil)

		_, err := f.svc.Quote(context.Background(), dto.QuoteRequest{QtyAdult: 1}, "p1")
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
	})
}

func TestPeriodService_ApplyBulk(t *testing.T) {
	ids := []string{"p1", "p2", "p3", "p4", "p5"}

	t.Run("scenario E: visibility on five periods", func(t *testing.T) {
		f := newFixture(t)

		runTx(f.repo)
		f.repo.EXPECT().LockByIDsTx(gomock.Any(), gomock.Any(), ids).Return(ids, nil)
		f.repo.EXPECT().BulkUpdateTx(gomock.Any(), gomock.Any(), ids, gomock.Any()).DoAndReturn(
			func(_ context.Context, _ *sqlx.Tx, _ []string, fields map[string]any) (int64, error) {
				assert.Equal(t, false, fields[model.FieldIsVisible])
				assert.Len(t, fields, 3)

				return 5, nil
			})
		f.kafka.EXPECT().SendMessages(gomock.Any(), periodEvents, gomock.Any()).Return(nil)

		res, err := f.svc.ApplyBulk(context.Background(), model.BulkUpdate{
			PeriodIDs:  append(ids, "p1", "p3"),
			Kind:       model.BulkKindVisibility,
			Visibility: ptr(false),
		})
		require.NoError(t, err)
		assert.Equal(t, dto.BulkUpdateResponse{Kind: "visibility", Updated: 5}, res)
	})

	t.Run("promo resets consumption through the offer repository", func(t *testing.T) {
		f := newFixture(t)

		promo := model.Promo{Name: "Early bird", StartDate: date(2026, time.January, 1), EndDate: date(2026, time.January, 31), Quota: 20}

		runTx(f.repo)
		f.repo.EXPECT().LockByIDsTx(gomock.Any(), gomock.Any(), []string{"p1", "p2"}).Return([]string{"p1", "p2"}, nil)
		f.offer.EXPECT().UpsertPromoTx(gomock.Any(), gomock.Any(), []string{"p1", "p2"}, promo, constant.ContextSystem, gomock.Any()).Return(int64(2), nil)
		f.kafka.EXPECT().SendMessages(gomock.Any(), periodEvents, gomock.Any()).Return(nil)

		res, err := f.svc.ApplyBulk(context.Background(), model.BulkUpdate{PeriodIDs: []string{"p1", "p2"}, Kind: model.BulkKindPromo, Promo: &promo})
		require.NoError(t, err)
		assert.Equal(t, 2, res.Updated)
	})

	t.Run("unknown id rolls everything back", func(t *testing.T) {
		f := newFixture(t)

		runTx(f.repo)
		f.repo.EXPECT().LockByIDsTx(gomock.Any(), gomock.Any(), []string{"p1", "p9"}).Return([]string{"p1"}, nil)

		_, err := f.svc.ApplyBulk(context.Background(), model.BulkUpdate{
			PeriodIDs:  []string{"p1", "p9"},
			Kind:       model.BulkKindSaleStatus,
			SaleStatus: ptr(model.SaleStatusClosed),
		})
		assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
		assert.Contains(t, err.Error(), "p9")
	})

	t.Run("invalid payload", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.ApplyBulk(context.Background(), model.BulkUpdate{PeriodIDs: []string{"p1"}, Kind: model.BulkKindVisibility})
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})

	t.Run("database failure", func(t *testing.T) {
		f := newFixture(t)

		runTx(f.repo)
		f.repo.EXPECT().LockByIDsTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("db down"))

		_, err := f.svc.ApplyBulk(context.Background(), model.BulkUpdate{PeriodIDs: []string{"p1"}, Kind: model.BulkKindVisibility, Visibility: ptr(true)})
		assert.Equal(t, http.StatusInternalServerError, failure.GetCode(err))
	})
}

func TestPeriodService_Sync(t *testing.T) {
	tour := tourModel.Tour{ID: "tour-1", Code: "JPN7", DurationDays: 5}
	req := dto.SyncPeriodRequest{
		ExternalID: "WS-100",
		TourCode:   "jpn7",
		StartDate:  "2026-06-01",
		Capacity:   8,
		Offer:      &dto.UpsertOfferRequest{PriceAdult: "12000"},
	}

	t.Run("inserts new period with offer", func(t *testing.T) {
		f := newFixture(t)

		f.tour.EXPECT().Get(gomock.Any(), gomock.Any()).Return(tour, nil)
		runTx(f.repo)
		f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Period{}, nil)
		f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, _ *sqlx.Tx, period model.Period) error {
			require.NotNil(t, period.ExternalID)
			assert.Equal(t, "WS-100", *period.ExternalID)
			assert.Equal(t, "2026-06-05", period.EndDate.Format(time.DateOnly))

			return nil
		})
		f.offer.EXPECT().UpsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
		f.kafka.EXPECT().SendMessages(gomock.Any(), periodEvents, gomock.Any()).Return(nil)

		id, err := f.svc.Sync(context.Background(), req)
		require.NoError(t, err)
		assert.NotEmpty(t, id)
	})

	t.Run("updates existing period without shrinking below booked", func(t *testing.T) {
		f := newFixture(t)

		f.tour.EXPECT().Get(gomock.Any(), gomock.Any()).Return(tour, nil)
		runTx(f.repo)
		f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Period{ID: "p1", Booked: 10, Capacity: 12}, nil)
		f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, _ *sqlx.Tx, fields map[string]any, _ gDto.FilterGroup) error {
				assert.Equal(t, 10, fields[model.FieldCapacity])

				return nil
			})
		f.offer.EXPECT().UpsertTx(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, _ *sqlx.Tx, offer model.Offer) error {
			assert.Equal(t, "p1", offer.PeriodID)

			return nil
		})
		f.kafka.EXPECT().SendMessages(gomock.Any(), periodEvents, gomock.Any()).Return(nil)

		id, err := f.svc.Sync(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, "p1", id)
	})

	t.Run("unknown tour code", func(t *testing.T) {
		f := newFixture(t)

		f.tour.EXPECT().Get(gomock.Any(), gomock.Any()).Return(tourModel.Tour{}, nil)

		_, err := f.svc.Sync(context.Background(), req)
		assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
	})
}

func TestPeriodService_DeleteTracesFailures(t *testing.T) {
	tests := []struct {
		name  string
		setup func(f fixture)
		want  codes.Code
	}{
		{
			name: "database error marks the span",
			setup: func(f fixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, errors.New("connection refused"))
			},
			want: codes.Error,
		},
		{
			name: "missing period stays a client failure",
			setup: func(f fixture) {
				f.repo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
			},
			want: codes.Unset,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := tracetest.NewSpanRecorder()
			provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
			ctx, _ := provider.Tracer("test").Start(context.Background(), "period.Delete")

			f := newFixture(t)
			tt.setup(f)

			err := f.svc.Delete(ctx, "p-1")
			require.Error(t, err)

			ended := recorder.Ended()
			require.Len(t, ended, 1)
			assert.Equal(t, tt.want, ended[0].Status().Code)
		})
	}
}
