package shared

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"math"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"tourdesk/shared/cache"
	"tourdesk/shared/constant"
	"tourdesk/shared/dto"
	"tourdesk/shared/model"
	"tourdesk/shared/timezone"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

func ConvertStringToBool(value string) *bool {
	if value == "" {
		return nil
	}

	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		log.Error().Err(err).Msg("failed to convert string to bool")

		return nil
	}

	return &boolValue
}

func ConvertStringToInt(value string) (int, error) {
	intValue, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("failed to convert string to int: %w", err)
	}

	return intValue, nil
}

// ParseOptionalFloat turns a form value into a nullable number. Blank input is null.
func ParseOptionalFloat(value string) (*float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil //nolint:nilnil
	}

	floatValue, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("failed to convert %q to number: %w", value, err)
	}

	if math.IsNaN(floatValue) || math.IsInf(floatValue, 0) {
		return nil, fmt.Errorf("invalid number %q", value)
	}

	return &floatValue, nil
}

// ParseOptionalInt turns a form value into a nullable integer. Blank input is null.
func ParseOptionalInt(value string) (*int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil //nolint:nilnil
	}

	intValue, err := ConvertStringToInt(value)
	if err != nil {
		return nil, err
	}

	return &intValue, nil
}

// UniqueStrings drops blanks and duplicates, keeping first-seen order.
func UniqueStrings(values []string) []string {
	result := make([]string, 0, len(values))

	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" || slices.Contains(result, value) {
			continue
		}

		result = append(result, value)
	}

	return result
}

func CalculateTotalPage(total, limit int) (res int) {
	if total == 0 || limit <= 0 {
		res = 1
	} else {
		res = int(math.Ceil(float64(total) / float64(limit)))
	}

	return res
}

// TransformFields converts the fields of a struct into a map of updated fields.
func TransformFields(data interface{}, username string) map[string]any {
	val := reflect.ValueOf(data)
	typ := reflect.TypeOf(data)

	updatedFields := make(map[string]any)

	for index := range val.NumField() {
		field := val.Field(index)
		if field.IsZero() {
			continue
		}

		fieldName := typ.Field(index).Tag.Get("db")
		if fieldName == "" {
			continue
		}

		updatedFields[fieldName] = field.Interface()
	}

	return model.Touch(updatedFields, username, timezone.Now())
}

func FilterByID(id, fieldID, table string) dto.FilterGroup {
	return dto.FilterGroup{
		Filters: []any{
			dto.Filter{
				Field:    fieldID,
				Value:    id,
				Operator: dto.FilterOperatorEq,
				Table:    table,
			},
		},
	}
}

func FilterByIDs(ids []string, fieldID, table string) dto.FilterGroup {
	return dto.FilterGroup{
		Filters: []any{
			dto.Filter{
				Field:    fieldID,
				Value:    ids,
				Operator: dto.FilterOperatorIn,
				Table:    table,
			},
		},
	}
}

// Actor returns the operator id stored on the request context, or the system actor.
func Actor(ctx context.Context) string {
	operator, _ := ctx.Value(constant.ContextKeyOperatorID).(string)
	if operator == "" {
		return constant.ContextSystem
	}

	return operator
}

func BuildCacheKey(prefix string, parts ...string) string {
	return strings.Join(append([]string{prefix}, parts...), ":")
}

// BuildCacheKeyWithQuery derives a stable key from pagination and the rendered filter.
func BuildCacheKeyWithQuery(prefix string, params dto.QueryParams, filter dto.FilterGroup) string {
	where, args := filter.GetWhereClause()

	keys := make([]string, 0, len(args))
	for key := range args {
		keys = append(keys, key)
	}

	slices.Sort(keys)

	hash := fnv.New64a()
	_, _ = hash.Write([]byte(where))

	for _, key := range keys {
		_, _ = fmt.Fprintf(hash, "|%s=%v", key, args[key])
	}

	return BuildCacheKey(
		prefix,
		strconv.Itoa(params.Page),
		strconv.Itoa(params.Limit),
		params.SortBy,
		params.SortDir,
		strconv.FormatUint(hash.Sum64(), 16),
	)
}

// InvalidateCaches removes every key stored under prefix.
func InvalidateCaches(ctx context.Context, redisCache cache.RedisCache, prefix string) {
	if err := redisCache.Clear(ctx, prefix+":"+constant.Asterix); err != nil {
		log.Error().Err(err).Str("prefix", prefix).Msg("failed to invalidate caches")
	}
}

// IsPqError reports whether err wraps a postgres error with the given SQLSTATE code.
func IsPqError(err error, code string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == code
	}

	return false
}
