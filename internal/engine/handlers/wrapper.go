package handlers

import (
	"fmt"

	"shooter-server/pkg/api"
)

// Decoder - DTO, которое умеет заполнить себя из записи команды.
type Decoder[T any] interface {
	*T
	Decode(cmd *api.ClientCommand)
}

// TypedHandlerFunc - это "чистый" хендлер, который работает с готовой структурой T
type TypedHandlerFunc[T any] func(ctx Context, payload T) (Result, error)

// EmptyHandlerFunc - хендлер, которому НЕ нужны данные (LOGOUT, MOVE, FIRE)
type EmptyHandlerFunc func(ctx Context) (Result, error)

// WithPayload берет "чистый" хендлер и превращает его в стандартный HandlerFunc.
// Она берет на себя разбор полей записи и Validate.
func WithPayload[T any, PT Decoder[T]](handler TypedHandlerFunc[T]) HandlerFunc {
	return func(ctx Context, cmd *api.ClientCommand) (Result, error) {
		var payload T

		// 1. Распаковка полей
		PT(&payload).Decode(cmd)

		// 2. Автоматическая валидация
		// Проверяем, реализует ли структура T интерфейс Validator
		if v, ok := any(payload).(api.Validator); ok {
			if err := v.Validate(); err != nil {
				return Result{}, fmt.Errorf("validation failed: %w", err)
			}
		}

		// 3. Вызов чистой логики
		return handler(ctx, payload)
	}
}

// WithEmptyPayload - обертка для команд без данных
func WithEmptyPayload(handler EmptyHandlerFunc) HandlerFunc {
	return func(ctx Context, _ *api.ClientCommand) (Result, error) {
		// Поля записи просто игнорируются, они не нужны логике.
		return handler(ctx)
	}
}
